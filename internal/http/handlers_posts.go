package httpx

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/reddyt-app/reddyt/internal/domain/model"
	"github.com/reddyt-app/reddyt/internal/service"
)

const defaultListLimit = 50

// PostHandlers provides HTTP handlers for post and comment operations.
type PostHandlers struct {
	Svc *service.PostService
}

// Index is the authenticated landing page. It greets the signed-in user and
// returns the newest posts.
// GET /.
func (h *PostHandlers) Index(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}

	session := SessionFromContext(r.Context())
	if session == nil || session.Identity == nil {
		http.Redirect(w, r, "/auth/login", http.StatusFound)
		return
	}

	posts, err := h.Svc.ListPosts(r.Context(), defaultListLimit, 0)
	if err != nil {
		WriteServiceError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"user":  session.Identity,
		"posts": posts,
	})
}

// ListPosts handles HTTP requests to list posts, newest first.
// GET /api/posts?limit=<n>&offset=<n>.
func (h *PostHandlers) ListPosts(w http.ResponseWriter, r *http.Request) {
	limit := parseIntQuery(r, "limit", defaultListLimit)
	offset := parseIntQuery(r, "offset", 0)

	posts, err := h.Svc.ListPosts(r.Context(), limit, offset)
	if err != nil {
		WriteServiceError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, posts)
}

// CreatePost handles HTTP requests to create a new post. The author is always
// the signed-in user.
// POST /api/posts.
func (h *PostHandlers) CreatePost(w http.ResponseWriter, r *http.Request) {
	session := SessionFromContext(r.Context())
	if session == nil || session.Identity == nil {
		WriteError(w, ErrorParams{
			Code:    http.StatusUnauthorized,
			ErrCode: "unauthenticated",
			Err:     errors.New("no authenticated session"),
		})
		return
	}

	var req model.CreatePostRequest
	if !DecodeJSON(w, r, &req) {
		return
	}
	req.Author = session.Identity.Subject

	post, err := h.Svc.CreatePost(r.Context(), &req)
	if err != nil {
		WriteServiceError(w, err)
		return
	}

	WriteJSON(w, http.StatusCreated, post)
}

// GetPost handles HTTP requests to fetch one post with its comments.
// GET /api/posts/{id}.
func (h *PostHandlers) GetPost(w http.ResponseWriter, r *http.Request) {
	id, ok := parsePostID(w, r)
	if !ok {
		return
	}

	post, err := h.Svc.GetPost(r.Context(), id)
	if err != nil {
		WriteServiceError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, post)
}

// AddComment handles HTTP requests to add a comment to a post.
// POST /api/posts/{id}/comments.
func (h *PostHandlers) AddComment(w http.ResponseWriter, r *http.Request) {
	id, ok := parsePostID(w, r)
	if !ok {
		return
	}

	var req model.CreateCommentRequest
	if !DecodeJSON(w, r, &req) {
		return
	}
	req.PostID = id

	comment, err := h.Svc.AddComment(r.Context(), &req)
	if err != nil {
		WriteServiceError(w, err)
		return
	}

	WriteJSON(w, http.StatusCreated, comment)
}

func parsePostID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id <= 0 {
		WriteError(w, ErrorParams{
			Code:    http.StatusBadRequest,
			ErrCode: "invalid_path",
			Err:     errors.New("post id must be a positive integer"),
		})
		return 0, false
	}
	return id, true
}

// parseIntQuery reads an integer query parameter, falling back to def when the
// parameter is absent or malformed.
func parseIntQuery(r *http.Request, name string, def int) int {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 0 {
		return def
	}
	return v
}

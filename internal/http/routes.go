package httpx

import (
	"log/slog"
	"net/http"

	"github.com/reddyt-app/reddyt/internal/observability/metrics"
	"github.com/reddyt-app/reddyt/internal/service"
)

// RouterServices holds all the services needed by the HTTP router.
type RouterServices struct {
	Auth         *service.AuthService
	Posts        *service.PostService
	Metrics      *metrics.HTTP
	CookieDomain string
	TrustProxy   bool
	PublicURL    string
	Logger       *slog.Logger
}

// NewRouter creates and configures the HTTP router. The auth endpoints,
// health check, and metrics endpoint are open; everything else sits behind
// the session gate.
func NewRouter(services RouterServices) http.Handler {
	mux := http.NewServeMux()

	authHandlers := &AuthHandlers{
		Svc:          services.Auth,
		CookieDomain: services.CookieDomain,
		TrustProxy:   services.TrustProxy,
		PublicURL:    services.PublicURL,
		Metrics:      services.Metrics,
		Logger:       services.Logger,
	}
	postHandlers := &PostHandlers{Svc: services.Posts}

	registerAuthRoutes(mux, authHandlers)
	mux.Handle("GET /health", http.HandlerFunc(healthHandler))
	mux.Handle("HEAD /health", http.HandlerFunc(healthHandler))
	if services.Metrics != nil {
		mux.Handle("GET /metrics", services.Metrics.Handler())
	}

	gate := RequireSession(services.Auth)
	registerPostRoutes(mux, postHandlers, gate)

	return mux
}

func registerAuthRoutes(mux *http.ServeMux, h *AuthHandlers) {
	mux.HandleFunc("GET /auth/login", h.Login)
	mux.HandleFunc("GET /auth/callback", h.Callback)
	mux.HandleFunc("POST /auth/logout", h.Logout)
	mux.HandleFunc("GET /auth/status", h.Status)
}

func registerPostRoutes(mux *http.ServeMux, h *PostHandlers, gate func(http.Handler) http.Handler) {
	// "GET /" is the catch-all, so every path not matched above goes
	// through the gate first. Index 404s non-root paths after that.
	mux.Handle("GET /", gate(http.HandlerFunc(h.Index)))
	mux.Handle("GET /api/posts", gate(http.HandlerFunc(h.ListPosts)))
	mux.Handle("POST /api/posts", gate(http.HandlerFunc(h.CreatePost)))
	mux.Handle("GET /api/posts/{id}", gate(http.HandlerFunc(h.GetPost)))
	mux.Handle("POST /api/posts/{id}/comments", gate(http.HandlerFunc(h.AddComment)))
}

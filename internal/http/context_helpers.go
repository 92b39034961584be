package httpx

import (
	"context"
	"errors"
	"net/http"

	domainauth "github.com/reddyt-app/reddyt/internal/domain/auth"
	apperrors "github.com/reddyt-app/reddyt/internal/errors"
)

// sessionKey is an unexported context key type for the request session.
type sessionKey struct{}

// SetSessionInContext stores the session in the request context.
func SetSessionInContext(ctx context.Context, sess *domainauth.Session) context.Context {
	return context.WithValue(ctx, sessionKey{}, sess)
}

// SessionFromContext returns the session placed by the auth gate, or nil.
func SessionFromContext(ctx context.Context) *domainauth.Session {
	sess, _ := ctx.Value(sessionKey{}).(*domainauth.Session)
	return sess
}

// WriteServiceError maps an AppError to an HTTP response.
func WriteServiceError(w http.ResponseWriter, err error) {
	var appErr *apperrors.AppError
	if !errors.As(err, &appErr) {
		WriteError(w, ErrorParams{Code: http.StatusInternalServerError, ErrCode: "internal_error", Err: err})
		return
	}

	status := http.StatusInternalServerError
	switch appErr.Code {
	case apperrors.ErrCodeNotFound:
		status = http.StatusNotFound
	case apperrors.ErrCodeValidation:
		status = http.StatusBadRequest
	case apperrors.ErrCodeConflict:
		status = http.StatusConflict
	case apperrors.ErrCodeForeignKey:
		status = http.StatusUnprocessableEntity
	case apperrors.ErrCodeTimeout:
		status = http.StatusGatewayTimeout
	case apperrors.ErrCodeCanceled, apperrors.ErrCodeInternal:
		status = http.StatusInternalServerError
	}
	WriteError(w, ErrorParams{Code: status, ErrCode: string(appErr.Code), Err: appErr})
}

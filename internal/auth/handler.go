package auth

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/frahmantamala/crm-management/internal"
	"github.com/frahmantamala/crm-management/internal/transport"
	"github.com/frahmantamala/crm-management/internal/transport/metrics"
	"github.com/frahmantamala/crm-management/internal/user"
	"github.com/frahmantamala/crm-management/pkg/logger"
)

type ServiceAPI interface {
	Register(ctx context.Context, dto user.CreateUserDTO) (*user.Response, error)
	Login(ctx context.Context, dto LoginDTO) (*LoginResponse, error)
	Logout(ctx context.Context, userID int64) error
	Authenticate(ctx context.Context, token string) (*internal.User, error)
}

type Handler struct {
	*transport.BaseHandler
	Service ServiceAPI
}

func NewHandler(svc ServiceAPI) *Handler {
	lg := logger.LoggerWrapper()
	if lg == nil {
		lg = slog.Default()
	}
	return &Handler{
		BaseHandler: transport.NewBaseHandler(lg),
		Service:     svc,
	}
}

// Register handles POST /auth/register
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var dto user.CreateUserDTO
	if err := h.DecodeJSON(r, &dto, user.CreateUserMessages); err != nil {
		metrics.AuthAttemptsTotal.WithLabelValues("register", "invalid").Inc()
		h.HandleServiceError(w, r, err, "Register: invalid request body")
		return
	}

	created, err := h.Service.Register(r.Context(), dto)
	if err != nil {
		metrics.AuthAttemptsTotal.WithLabelValues("register", resultLabel(err)).Inc()
		h.HandleServiceError(w, r, err, "Register: could not register user")
		return
	}

	metrics.AuthAttemptsTotal.WithLabelValues("register", "success").Inc()
	h.WriteSuccess(w, http.StatusCreated, "Registration successful", created)
}

// Login handles POST /auth/login
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var dto LoginDTO
	if err := h.DecodeJSON(r, &dto, LoginMessages); err != nil {
		metrics.AuthAttemptsTotal.WithLabelValues("login", "invalid").Inc()
		h.HandleServiceError(w, r, err, "Login: invalid request body")
		return
	}

	resp, err := h.Service.Login(r.Context(), dto)
	if err != nil {
		metrics.AuthAttemptsTotal.WithLabelValues("login", resultLabel(err)).Inc()
		h.HandleServiceError(w, r, err, "Login: authentication failed")
		return
	}

	metrics.AuthAttemptsTotal.WithLabelValues("login", "success").Inc()
	h.WriteSuccess(w, http.StatusOK, "Login successful", resp)
}

// Logout handles POST /auth/logout
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	actor, ok := internal.UserFromContext(r.Context())
	if !ok {
		h.HandleServiceError(w, r, internal.ErrUnauthenticated, "Logout: user not found in context")
		return
	}

	if err := h.Service.Logout(r.Context(), actor.ID); err != nil {
		metrics.AuthAttemptsTotal.WithLabelValues("logout", "error").Inc()
		h.HandleServiceError(w, r, err, "Logout: could not revoke tokens")
		return
	}

	metrics.AuthAttemptsTotal.WithLabelValues("logout", "success").Inc()
	h.WriteSuccess(w, http.StatusOK, "Logged out successfully", nil)
}

// AuthMiddleware resolves the bearer token and stores the identity in the
// request context.
func (h *Handler) AuthMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := h.ExtractTokenFromHeader(r)
		if token == "" {
			logger.From(r.Context()).Warn("auth middleware: missing authorization token")
			h.WriteFailure(w, http.StatusUnauthorized, internal.ErrUnauthenticated.Message)
			return
		}

		u, err := h.Service.Authenticate(r.Context(), token)
		if err != nil {
			if IsUnauthenticated(err) {
				logger.From(r.Context()).Warn("auth middleware: token rejected", "error", err)
				h.WriteFailure(w, http.StatusUnauthorized, internal.ErrUnauthenticated.Message)
				return
			}
			h.HandleServiceError(w, r, err, "auth middleware: failed to resolve token")
			return
		}

		ctx := internal.ContextWithUser(r.Context(), u)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func resultLabel(err error) string {
	appErr, ok := internal.IsAppError(err)
	if !ok {
		return "error"
	}
	switch appErr.Code {
	case internal.ErrCodeCredentialsNotFound:
		return "not_found"
	case internal.ErrCodeInvalidCredentials:
		return "invalid_credentials"
	}
	if appErr.Type == internal.ErrorTypeValidation {
		return "invalid"
	}
	return "error"
}

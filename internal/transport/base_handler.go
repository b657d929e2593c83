package transport

import (
	"encoding/json"
	stderrors "errors"
	"io"
	"log/slog"
	"net/http"
	"runtime/debug"
	"strconv"

	"github.com/frahmantamala/crm-management/internal"
	"github.com/frahmantamala/crm-management/internal/core/common/validation"
	"github.com/frahmantamala/crm-management/pkg/logger"
	"github.com/go-chi/chi"
)

// Envelope is the body of every response the API writes.
type Envelope struct {
	Success bool        `json:"success"`
	Message interface{} `json:"message"`
	Result  interface{} `json:"result"`
}

// BaseHandler provides common functionality for HTTP handlers
type BaseHandler struct {
	Logger *slog.Logger
}

// NewBaseHandler creates a base handler with logger
func NewBaseHandler(lg *slog.Logger) *BaseHandler {
	if lg == nil {
		lg = logger.LoggerWrapper()
		if lg == nil {
			lg = slog.Default()
		}
	}
	return &BaseHandler{Logger: lg}
}

// WriteJSON writes a JSON response
func (h *BaseHandler) WriteJSON(w http.ResponseWriter, status int, data interface{}) {
	WriteJSON(w, status, data, h.Logger)
}

// WriteSuccess writes a successful envelope. A nil result is rendered as "".
func (h *BaseHandler) WriteSuccess(w http.ResponseWriter, status int, message string, result interface{}) {
	if result == nil {
		result = ""
	}
	h.WriteJSON(w, status, Envelope{Success: true, Message: message, Result: result})
}

// WriteFailure writes a failed envelope. message is a string or a list of strings.
func (h *BaseHandler) WriteFailure(w http.ResponseWriter, status int, message interface{}) {
	WriteFailure(w, status, message, h.Logger)
}

// HandleServiceError maps err onto the envelope. Unexpected errors are
// logged at critical level and their text is returned to the client.
func (h *BaseHandler) HandleServiceError(w http.ResponseWriter, r *http.Request, err error, logMsg string) {
	if detail, ok := internal.ConstraintViolation(err); ok {
		if _, isApp := internal.IsAppError(err); !isApp {
			err = internal.NewConstraintError(detail, err)
		}
	}

	if appErr, ok := internal.IsAppError(err); ok {
		switch appErr.Type {
		case internal.ErrorTypeValidation:
			logger.From(r.Context()).Warn(logMsg, "error", appErr.GetDetailedMessage())
			h.WriteFailure(w, appErr.StatusCode, appErr.Messages())
		case internal.ErrorTypeConstraint:
			logger.From(r.Context()).Warn(logMsg, "error", appErr.Cause)
			h.WriteFailure(w, appErr.StatusCode, appErr.Message)
		case internal.ErrorTypeInternal:
			logger.Critical(r.Context(), logger.From(r.Context()), logMsg, "error", err, "stack", string(debug.Stack()))
			h.WriteFailure(w, appErr.StatusCode, appErr.Error())
		default:
			logger.From(r.Context()).Warn(logMsg, "error", appErr.Message, "code", appErr.Code)
			h.WriteFailure(w, appErr.StatusCode, appErr.Message)
		}
		return
	}

	logger.Critical(r.Context(), logger.From(r.Context()), logMsg, "error", err, "stack", string(debug.Stack()))
	h.WriteFailure(w, http.StatusInternalServerError, err.Error())
}

// DecodeJSON decodes the request body into dst. An empty body leaves dst
// untouched so the field rules report what is missing. A value of the wrong
// JSON type is reported against its field, using messages["<field>.string"]
// when configured.
func (h *BaseHandler) DecodeJSON(r *http.Request, dst interface{}, messages validation.Messages) error {
	if r.Body == nil {
		return nil
	}

	err := json.NewDecoder(r.Body).Decode(dst)
	if err == nil || stderrors.Is(err, io.EOF) {
		return nil
	}

	var typeErr *json.UnmarshalTypeError
	if stderrors.As(err, &typeErr) && typeErr.Field != "" {
		message, ok := messages[typeErr.Field+".string"]
		if !ok {
			message = typeErr.Field + " must be a " + typeErr.Type.String()
		}
		return internal.NewValidationFieldError(typeErr.Field, message, internal.ErrCodeValidationFailed)
	}

	return internal.NewValidationError("Invalid request body", internal.ErrCodeValidationFailed).WithCause(err)
}

// ParseID reads a positive numeric route parameter.
func (h *BaseHandler) ParseID(r *http.Request, name string) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

// ExtractTokenFromHeader extracts Bearer token from Authorization header
func (h *BaseHandler) ExtractTokenFromHeader(r *http.Request) string {
	return ExtractBearerToken(r)
}

func ExtractBearerToken(r *http.Request) string {
	authHeader := r.Header.Get("Authorization")
	if len(authHeader) < 7 || authHeader[:7] != "Bearer " {
		return ""
	}
	return authHeader[7:]
}

// WriteJSON is usable outside handlers, e.g. from middleware.
func WriteJSON(w http.ResponseWriter, status int, data interface{}, lg *slog.Logger) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil && lg != nil {
		lg.Error("failed to encode JSON response", "error", err)
	}
}

func WriteFailure(w http.ResponseWriter, status int, message interface{}, lg *slog.Logger) {
	WriteJSON(w, status, Envelope{Success: false, Message: message, Result: ""}, lg)
}

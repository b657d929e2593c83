package user

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/frahmantamala/crm-management/internal"
	"github.com/frahmantamala/crm-management/internal/core/common/pagination"
	"github.com/frahmantamala/crm-management/internal/transport"
	"github.com/frahmantamala/crm-management/pkg/logger"
)

type ServiceAPI interface {
	List(ctx context.Context, params pagination.Params) (pagination.Page[Response], error)
	Create(ctx context.Context, dto CreateUserDTO) (*Response, error)
	GetByID(ctx context.Context, id int64) (*Response, error)
	Update(ctx context.Context, id int64, dto UpdateUserDTO) (*Response, error)
	Delete(ctx context.Context, id int64) error
	MakeAdmin(ctx context.Context, id int64) error
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

// ListUsers handles GET /users
func (h *Handler) ListUsers(w http.ResponseWriter, r *http.Request) {
	page, err := h.Service.List(r.Context(), pagination.FromRequest(r))
	if err != nil {
		h.HandleServiceError(w, r, err, "ListUsers: failed to fetch users")
		return
	}
	h.WriteSuccess(w, http.StatusOK, "Users List", page)
}

// CreateUser handles POST /users/create
func (h *Handler) CreateUser(w http.ResponseWriter, r *http.Request) {
	var dto CreateUserDTO
	if err := h.DecodeJSON(r, &dto, CreateUserMessages); err != nil {
		h.HandleServiceError(w, r, err, "CreateUser: invalid request body")
		return
	}

	created, err := h.Service.Create(r.Context(), dto)
	if err != nil {
		h.HandleServiceError(w, r, err, "CreateUser: could not create user")
		return
	}
	h.WriteSuccess(w, http.StatusCreated, "User Created successfully", created)
}

// GetUser handles GET /users/{id}/details
func (h *Handler) GetUser(w http.ResponseWriter, r *http.Request) {
	id, ok := h.ParseID(r, "id")
	if !ok {
		h.HandleServiceError(w, r, errUserNotFound, "GetUser: invalid user id")
		return
	}

	u, err := h.Service.GetByID(r.Context(), id)
	if err != nil {
		h.HandleServiceError(w, r, err, "GetUser: could not fetch user")
		return
	}
	h.WriteSuccess(w, http.StatusOK, "User Details", u)
}

// UpdateUser handles PATCH /users/{id}/update
func (h *Handler) UpdateUser(w http.ResponseWriter, r *http.Request) {
	id, ok := h.ParseID(r, "id")
	if !ok {
		h.HandleServiceError(w, r, errUserNotFound, "UpdateUser: invalid user id")
		return
	}

	var dto UpdateUserDTO
	if err := h.DecodeJSON(r, &dto, UpdateUserMessages); err != nil {
		h.HandleServiceError(w, r, err, "UpdateUser: invalid request body")
		return
	}

	u, err := h.Service.Update(r.Context(), id, dto)
	if err != nil {
		h.HandleServiceError(w, r, err, "UpdateUser: could not update user")
		return
	}
	h.WriteSuccess(w, http.StatusOK, "User Details Updated Successfully", u)
}

// DeleteUser handles DELETE /users/{id}/delete
func (h *Handler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	id, ok := h.ParseID(r, "id")
	if !ok {
		h.HandleServiceError(w, r, errUserNotFound, "DeleteUser: invalid user id")
		return
	}

	if err := h.Service.Delete(r.Context(), id); err != nil {
		h.HandleServiceError(w, r, err, "DeleteUser: could not delete user")
		return
	}
	h.WriteSuccess(w, http.StatusOK, "User Deleted Successfully", nil)
}

// MakeAdmin handles POST /users/status/{id}/admin
func (h *Handler) MakeAdmin(w http.ResponseWriter, r *http.Request) {
	id, ok := h.ParseID(r, "id")
	if !ok {
		h.HandleServiceError(w, r, errUserNotFound, "MakeAdmin: invalid user id")
		return
	}

	if err := h.Service.MakeAdmin(r.Context(), id); err != nil {
		h.HandleServiceError(w, r, err, "MakeAdmin: could not change admin status")
		return
	}
	h.WriteSuccess(w, http.StatusOK, "User admin status changed successfully", nil)
}

// GetProfile handles GET /user/profile
func (h *Handler) GetProfile(w http.ResponseWriter, r *http.Request) {
	actor, ok := internal.UserFromContext(r.Context())
	if !ok {
		h.HandleServiceError(w, r, internal.ErrUnauthenticated, "GetProfile: user not found in context")
		return
	}

	u, err := h.Service.GetByID(r.Context(), actor.ID)
	if err != nil {
		h.HandleServiceError(w, r, err, "GetProfile: could not fetch user profile")
		return
	}
	h.WriteSuccess(w, http.StatusOK, "User Profile", u)
}

// UpdateProfile handles PATCH /user/update
func (h *Handler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	actor, ok := internal.UserFromContext(r.Context())
	if !ok {
		h.HandleServiceError(w, r, internal.ErrUnauthenticated, "UpdateProfile: user not found in context")
		return
	}

	var dto UpdateUserDTO
	if err := h.DecodeJSON(r, &dto, UpdateUserMessages); err != nil {
		h.HandleServiceError(w, r, err, "UpdateProfile: invalid request body")
		return
	}

	u, err := h.Service.Update(r.Context(), actor.ID, dto)
	if err != nil {
		h.HandleServiceError(w, r, err, "UpdateProfile: failed to update profile")
		return
	}
	h.WriteSuccess(w, http.StatusOK, "Profile Updated successfully", u)
}

package role

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/frahmantamala/crm-management/internal/core/common/pagination"
	"github.com/frahmantamala/crm-management/internal/transport"
	"github.com/frahmantamala/crm-management/pkg/logger"
)

type ServiceAPI interface {
	List(ctx context.Context, params pagination.Params) (pagination.Page[Response], error)
	Create(ctx context.Context, dto RoleDTO) (*Response, error)
	GetByID(ctx context.Context, id int64) (*Response, error)
	Update(ctx context.Context, id int64, dto RoleDTO) (*Response, error)
	Delete(ctx context.Context, id int64) error
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

func (h *Handler) ListRoles(w http.ResponseWriter, r *http.Request) {
	page, err := h.Service.List(r.Context(), pagination.FromRequest(r))
	if err != nil {
		h.HandleServiceError(w, r, err, "ListRoles: could not fetch the list of roles")
		return
	}
	h.WriteSuccess(w, http.StatusOK, "User Roles", page)
}

func (h *Handler) CreateRole(w http.ResponseWriter, r *http.Request) {
	var dto RoleDTO
	if err := h.DecodeJSON(r, &dto, RoleMessages); err != nil {
		h.HandleServiceError(w, r, err, "CreateRole: invalid request body")
		return
	}

	created, err := h.Service.Create(r.Context(), dto)
	if err != nil {
		h.HandleServiceError(w, r, err, "CreateRole: could not create role")
		return
	}
	h.WriteSuccess(w, http.StatusCreated, "Role Created Successfully", created)
}

func (h *Handler) GetRole(w http.ResponseWriter, r *http.Request) {
	id, ok := h.ParseID(r, "id")
	if !ok {
		h.HandleServiceError(w, r, errRoleNotFound, "GetRole: invalid role id")
		return
	}

	role, err := h.Service.GetByID(r.Context(), id)
	if err != nil {
		h.HandleServiceError(w, r, err, "GetRole: could not fetch role details")
		return
	}
	h.WriteSuccess(w, http.StatusOK, "Role Details", role)
}

func (h *Handler) UpdateRole(w http.ResponseWriter, r *http.Request) {
	id, ok := h.ParseID(r, "id")
	if !ok {
		h.HandleServiceError(w, r, errRoleNotFound, "UpdateRole: invalid role id")
		return
	}

	var dto RoleDTO
	if err := h.DecodeJSON(r, &dto, RoleMessages); err != nil {
		h.HandleServiceError(w, r, err, "UpdateRole: invalid request body")
		return
	}

	role, err := h.Service.Update(r.Context(), id, dto)
	if err != nil {
		h.HandleServiceError(w, r, err, "UpdateRole: could not update role")
		return
	}
	h.WriteSuccess(w, http.StatusOK, "Role Updated Successfully", role)
}

func (h *Handler) DeleteRole(w http.ResponseWriter, r *http.Request) {
	id, ok := h.ParseID(r, "id")
	if !ok {
		h.HandleServiceError(w, r, errRoleNotFound, "DeleteRole: invalid role id")
		return
	}

	if err := h.Service.Delete(r.Context(), id); err != nil {
		h.HandleServiceError(w, r, err, "DeleteRole: could not delete role")
		return
	}
	h.WriteSuccess(w, http.StatusOK, "Role Deleted Successfully", nil)
}

package permission

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
	Create(ctx context.Context, dto PermissionDTO) (*Response, error)
	GetByID(ctx context.Context, id int64) (*Response, error)
	Update(ctx context.Context, id int64, dto PermissionDTO) (*Response, error)
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

func (h *Handler) ListPermissions(w http.ResponseWriter, r *http.Request) {
	page, err := h.Service.List(r.Context(), pagination.FromRequest(r))
	if err != nil {
		h.HandleServiceError(w, r, err, "ListPermissions: could not fetch the list of permissions")
		return
	}
	h.WriteSuccess(w, http.StatusOK, "User Permissions", page)
}

func (h *Handler) CreatePermission(w http.ResponseWriter, r *http.Request) {
	var dto PermissionDTO
	if err := h.DecodeJSON(r, &dto, PermissionMessages); err != nil {
		h.HandleServiceError(w, r, err, "CreatePermission: invalid request body")
		return
	}

	created, err := h.Service.Create(r.Context(), dto)
	if err != nil {
		h.HandleServiceError(w, r, err, "CreatePermission: could not create permission")
		return
	}
	h.WriteSuccess(w, http.StatusCreated, "Permission Created Successfully", created)
}

func (h *Handler) GetPermission(w http.ResponseWriter, r *http.Request) {
	id, ok := h.ParseID(r, "id")
	if !ok {
		h.HandleServiceError(w, r, errPermissionNotFound, "GetPermission: invalid permission id")
		return
	}

	perm, err := h.Service.GetByID(r.Context(), id)
	if err != nil {
		h.HandleServiceError(w, r, err, "GetPermission: could not fetch permission details")
		return
	}
	h.WriteSuccess(w, http.StatusOK, "User Permission", perm)
}

func (h *Handler) UpdatePermission(w http.ResponseWriter, r *http.Request) {
	id, ok := h.ParseID(r, "id")
	if !ok {
		h.HandleServiceError(w, r, errPermissionNotFound, "UpdatePermission: invalid permission id")
		return
	}

	var dto PermissionDTO
	if err := h.DecodeJSON(r, &dto, PermissionMessages); err != nil {
		h.HandleServiceError(w, r, err, "UpdatePermission: invalid request body")
		return
	}

	perm, err := h.Service.Update(r.Context(), id, dto)
	if err != nil {
		h.HandleServiceError(w, r, err, "UpdatePermission: could not update permission")
		return
	}
	h.WriteSuccess(w, http.StatusOK, "Permission Updated Successfully", perm)
}

func (h *Handler) DeletePermission(w http.ResponseWriter, r *http.Request) {
	id, ok := h.ParseID(r, "id")
	if !ok {
		h.HandleServiceError(w, r, errPermissionNotFound, "DeletePermission: invalid permission id")
		return
	}

	if err := h.Service.Delete(r.Context(), id); err != nil {
		h.HandleServiceError(w, r, err, "DeletePermission: could not delete permission")
		return
	}
	h.WriteSuccess(w, http.StatusOK, "Permission Deleted Successfully", nil)
}

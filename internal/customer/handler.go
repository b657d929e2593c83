package customer

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/frahmantamala/crm-management/internal"
	"github.com/frahmantamala/crm-management/internal/core/common/pagination"
	"github.com/frahmantamala/crm-management/internal/transport"
	"github.com/frahmantamala/crm-management/pkg/logger"
)

// multipartMemory is how much of a multipart body is kept in memory before
// spilling file parts to disk.
const multipartMemory = 32 << 20

type ServiceAPI interface {
	List(ctx context.Context, params pagination.Params) (pagination.Page[Response], error)
	Create(ctx context.Context, actorID int64, dto CreateCustomerDTO, photo *Photo) (*Response, error)
	GetByID(ctx context.Context, id int64) (*Response, error)
	Update(ctx context.Context, actorID, id int64, dto UpdateCustomerDTO, photo *Photo) (*Response, error)
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

// ListCustomers handles GET /customers
func (h *Handler) ListCustomers(w http.ResponseWriter, r *http.Request) {
	page, err := h.Service.List(r.Context(), pagination.FromRequest(r))
	if err != nil {
		h.HandleServiceError(w, r, err, "ListCustomers: could not fetch customer list")
		return
	}
	h.WriteSuccess(w, http.StatusOK, "success", page)
}

// CreateCustomer handles POST /customers/create
func (h *Handler) CreateCustomer(w http.ResponseWriter, r *http.Request) {
	actor, ok := internal.UserFromContext(r.Context())
	if !ok {
		h.HandleServiceError(w, r, internal.ErrUnauthenticated, "CreateCustomer: user not found in context")
		return
	}

	photo, err := parseForm(r)
	if err != nil {
		h.HandleServiceError(w, r, err, "CreateCustomer: invalid form body")
		return
	}
	dto := CreateCustomerDTO{
		Name:    r.PostFormValue("name"),
		Surname: r.PostFormValue("surname"),
	}

	created, err := h.Service.Create(r.Context(), actor.ID, dto, photo)
	if err != nil {
		h.HandleServiceError(w, r, err, "CreateCustomer: could not create a new customer")
		return
	}
	h.WriteSuccess(w, http.StatusCreated, "Customer Created Successfully", created)
}

// GetCustomer handles GET /customers/{id}/details
func (h *Handler) GetCustomer(w http.ResponseWriter, r *http.Request) {
	id, ok := h.ParseID(r, "id")
	if !ok {
		h.HandleServiceError(w, r, errCustomerNotFound, "GetCustomer: invalid customer id")
		return
	}

	c, err := h.Service.GetByID(r.Context(), id)
	if err != nil {
		h.HandleServiceError(w, r, err, "GetCustomer: could not fetch customer details")
		return
	}
	h.WriteSuccess(w, http.StatusOK, "Customer Details", c)
}

// UpdateCustomer handles PATCH /customers/{id}/update
func (h *Handler) UpdateCustomer(w http.ResponseWriter, r *http.Request) {
	actor, ok := internal.UserFromContext(r.Context())
	if !ok {
		h.HandleServiceError(w, r, internal.ErrUnauthenticated, "UpdateCustomer: user not found in context")
		return
	}

	id, ok := h.ParseID(r, "id")
	if !ok {
		h.HandleServiceError(w, r, errCustomerNotFound, "UpdateCustomer: invalid customer id")
		return
	}

	photo, err := parseForm(r)
	if err != nil {
		h.HandleServiceError(w, r, err, "UpdateCustomer: invalid form body")
		return
	}
	dto := UpdateCustomerDTO{
		Name:    r.PostFormValue("name"),
		Surname: r.PostFormValue("surname"),
	}

	c, err := h.Service.Update(r.Context(), actor.ID, id, dto, photo)
	if err != nil {
		h.HandleServiceError(w, r, err, "UpdateCustomer: could not update customer")
		return
	}
	h.WriteSuccess(w, http.StatusOK, "Customer Updated successfully", c)
}

// DeleteCustomer handles DELETE /customers/{id}/delete
func (h *Handler) DeleteCustomer(w http.ResponseWriter, r *http.Request) {
	id, ok := h.ParseID(r, "id")
	if !ok {
		h.HandleServiceError(w, r, errCustomerNotFound, "DeleteCustomer: invalid customer id")
		return
	}

	if err := h.Service.Delete(r.Context(), id); err != nil {
		h.HandleServiceError(w, r, err, "DeleteCustomer: could not delete customer")
		return
	}
	h.WriteSuccess(w, http.StatusOK, "Customer Deleted successfully", nil)
}

// parseForm parses a multipart or urlencoded body and returns the optional
// photo_url file part.
func parseForm(r *http.Request) (*Photo, error) {
	var err error
	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		err = r.ParseMultipartForm(multipartMemory)
	} else {
		err = r.ParseForm()
	}
	if err != nil {
		return nil, internal.NewValidationError("Invalid request body", internal.ErrCodeValidationFailed).WithCause(err)
	}

	file, header, err := r.FormFile("photo_url")
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
			return nil, nil
		}
		return nil, internal.NewValidationError("Invalid request body", internal.ErrCodeValidationFailed).WithCause(err)
	}
	defer file.Close()

	content, err := io.ReadAll(file)
	if err != nil {
		return nil, internal.NewInternalError("failed to read uploaded photo", err)
	}

	return &Photo{
		Filename: header.Filename,
		Size:     header.Size,
		Content:  content,
	}, nil
}

package customer

import (
	"bytes"
	"context"
	"log/slog"
	"path"

	"github.com/frahmantamala/crm-management/internal"
	"github.com/frahmantamala/crm-management/internal/core/common/pagination"
	"github.com/frahmantamala/crm-management/internal/core/common/validation"
	customerDatamodel "github.com/frahmantamala/crm-management/internal/core/datamodel/customer"
	"github.com/frahmantamala/crm-management/internal/storage"
)

type RepositoryAPI interface {
	List(ctx context.Context, params pagination.Params) ([]*customerDatamodel.Customer, int64, error)
	GetByID(ctx context.Context, id int64) (*customerDatamodel.Customer, error)
	NameExists(ctx context.Context, name string) (bool, error)
	SurnameExists(ctx context.Context, surname string) (bool, error)
	Create(ctx context.Context, c *customerDatamodel.Customer) error
	Update(ctx context.Context, c *customerDatamodel.Customer) error
	Delete(ctx context.Context, id int64) (int64, error)
}

type Service struct {
	repo          RepositoryAPI
	blobs         storage.BlobStore
	maxUploadSize int64
	logger        *slog.Logger
}

func NewService(repo RepositoryAPI, blobs storage.BlobStore, maxUploadSize int64, logger *slog.Logger) *Service {
	return &Service{
		repo:          repo,
		blobs:         blobs,
		maxUploadSize: maxUploadSize,
		logger:        logger,
	}
}

var (
	errCustomersNotFound = internal.NewNotFoundError("Customers Not Found", internal.ErrCodeCustomerNotFound)
	errCustomerNotFound  = internal.NewNotFoundError("Customer Not Found", internal.ErrCodeCustomerNotFound)
	errDeleteFailed      = internal.NewBusinessRuleError("Failed to delete customer", internal.ErrCodeOperationFailed)
)

func (s *Service) List(ctx context.Context, params pagination.Params) (pagination.Page[Response], error) {
	rows, total, err := s.repo.List(ctx, params)
	if err != nil {
		s.logger.Error("failed to list customers", "error", err)
		return pagination.Page[Response]{}, err
	}
	if len(rows) == 0 {
		return pagination.Page[Response]{}, errCustomersNotFound
	}

	items := make([]Response, len(rows))
	for i, row := range rows {
		items[i] = ResponseFromDataModel(row)
	}
	return pagination.NewPage(items, params, total), nil
}

// Create stores a customer owned by actorID. Name and surname must not be
// used by any customer, deleted ones included.
func (s *Service) Create(ctx context.Context, actorID int64, dto CreateCustomerDTO, photo *Photo) (*Response, error) {
	v := validation.NewValidator().Struct(dto, CreateCustomerMessages)

	if dto.Name != "" {
		taken, err := s.repo.NameExists(ctx, dto.Name)
		if err != nil {
			return nil, err
		}
		v.Unique("name", taken, msgNameTaken)
	}
	if dto.Surname != "" {
		taken, err := s.repo.SurnameExists(ctx, dto.Surname)
		if err != nil {
			return nil, err
		}
		v.Unique("surname", taken, msgSurnameTaken)
	}
	validatePhoto(v, photo, s.maxUploadSize)
	if appErr := v.Validate(); appErr != nil {
		return nil, appErr
	}

	photoURL, err := s.storePhoto(ctx, dto.Name, photo)
	if err != nil {
		return nil, err
	}

	row := &customerDatamodel.Customer{
		Name:     dto.Name,
		Surname:  dto.Surname,
		PhotoURL: photoURL,
		AddedBy:  actorID,
	}
	if err := s.repo.Create(ctx, row); err != nil {
		s.logger.Error("failed to create customer", "error", err, "added_by", actorID)
		return nil, err
	}

	s.logger.Info("customer created", "customer_id", row.ID, "added_by", actorID)
	return s.GetByID(ctx, row.ID)
}

func (s *Service) GetByID(ctx context.Context, id int64) (*Response, error) {
	row, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if row == nil {
		return nil, errCustomerNotFound
	}
	resp := ResponseFromDataModel(row)
	return &resp, nil
}

// Update overwrites name and surname and stamps actorID as the last updater.
// Without a new photo the stored photo_url is kept. Uniqueness is not
// re-checked here.
func (s *Service) Update(ctx context.Context, actorID, id int64, dto UpdateCustomerDTO, photo *Photo) (*Response, error) {
	row, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if row == nil {
		return nil, errCustomerNotFound
	}

	v := validation.NewValidator().Struct(dto, UpdateCustomerMessages)
	validatePhoto(v, photo, s.maxUploadSize)
	if appErr := v.Validate(); appErr != nil {
		return nil, appErr
	}

	photoURL, err := s.storePhoto(ctx, dto.Name, photo)
	if err != nil {
		return nil, err
	}
	if photoURL != nil {
		row.PhotoURL = photoURL
	}

	row.Name = dto.Name
	row.Surname = dto.Surname
	row.UpdatedBy = &actorID
	if err := s.repo.Update(ctx, row); err != nil {
		s.logger.Error("failed to update customer", "error", err, "customer_id", id)
		return nil, err
	}

	return s.GetByID(ctx, id)
}

// Delete soft-deletes the customer.
func (s *Service) Delete(ctx context.Context, id int64) error {
	row, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if row == nil {
		return errCustomerNotFound
	}

	affected, err := s.repo.Delete(ctx, id)
	if err != nil {
		s.logger.Error("failed to delete customer", "error", err, "customer_id", id)
		return err
	}
	if affected == 0 {
		return errDeleteFailed
	}

	s.logger.Info("customer deleted", "customer_id", id)
	return nil
}

// storePhoto writes the photo under customers/avatars/<name>. A blob left
// behind by a later storage failure is not cleaned up.
func (s *Service) storePhoto(ctx context.Context, name string, photo *Photo) (*string, error) {
	if photo == nil {
		return nil, nil
	}

	p, err := s.blobs.Put(ctx, path.Join(AvatarDir, name), photo.Filename, bytes.NewReader(photo.Content))
	if err != nil {
		s.logger.Error("failed to store customer photo", "error", err, "filename", photo.Filename)
		return nil, internal.NewInternalError("failed to store photo", err)
	}
	return &p, nil
}

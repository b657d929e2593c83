package permission

import (
	"context"
	"log/slog"

	"github.com/frahmantamala/crm-management/internal"
	"github.com/frahmantamala/crm-management/internal/core/common/pagination"
	"github.com/frahmantamala/crm-management/internal/core/common/validation"
	roleDatamodel "github.com/frahmantamala/crm-management/internal/core/datamodel/role"
)

type RepositoryAPI interface {
	List(ctx context.Context, params pagination.Params) ([]*roleDatamodel.Permission, int64, error)
	GetByID(ctx context.Context, id int64) (*roleDatamodel.Permission, error)
	NameExists(ctx context.Context, name string, excludeID int64) (bool, error)
	Create(ctx context.Context, p *roleDatamodel.Permission) error
	Rename(ctx context.Context, id int64, name string) error
	Delete(ctx context.Context, id int64) (int64, error)
	FirstOrCreate(ctx context.Context, name string) (*roleDatamodel.Permission, error)
}

type Service struct {
	repo   RepositoryAPI
	logger *slog.Logger
}

func NewService(repo RepositoryAPI, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		logger: logger,
	}
}

var (
	errPermissionsNotFound = internal.NewNotFoundError("Permissions Not Found", internal.ErrCodePermissionNotFound)
	errPermissionNotFound  = internal.NewNotFoundError("Permission Not Found", internal.ErrCodePermissionNotFound)
	errDeleteFailed        = internal.NewBusinessRuleError("Failed To Delete Permission", internal.ErrCodeOperationFailed)
)

func (s *Service) List(ctx context.Context, params pagination.Params) (pagination.Page[Response], error) {
	rows, total, err := s.repo.List(ctx, params)
	if err != nil {
		s.logger.Error("failed to list permissions", "error", err)
		return pagination.Page[Response]{}, err
	}
	if len(rows) == 0 {
		return pagination.Page[Response]{}, errPermissionsNotFound
	}

	items := make([]Response, len(rows))
	for i, row := range rows {
		items[i] = FromDataModel(row).ToResponse()
	}
	return pagination.NewPage(items, params, total), nil
}

func (s *Service) Create(ctx context.Context, dto PermissionDTO) (*Response, error) {
	if err := s.validate(ctx, dto, 0); err != nil {
		return nil, err
	}

	row := &roleDatamodel.Permission{Name: dto.Name, GuardName: roleDatamodel.GuardAPI}
	if err := s.repo.Create(ctx, row); err != nil {
		s.logger.Error("failed to create permission", "error", err, "name", dto.Name)
		return nil, internal.NewBusinessRuleError("Failed to create user permission", internal.ErrCodeOperationFailed).WithCause(err)
	}

	s.logger.Info("permission created", "permission_id", row.ID, "name", row.Name)
	resp := FromDataModel(row).ToResponse()
	return &resp, nil
}

func (s *Service) GetByID(ctx context.Context, id int64) (*Response, error) {
	row, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if row == nil {
		return nil, errPermissionNotFound
	}
	resp := FromDataModel(row).ToResponse()
	return &resp, nil
}

func (s *Service) Update(ctx context.Context, id int64, dto PermissionDTO) (*Response, error) {
	row, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if row == nil {
		return nil, errPermissionNotFound
	}

	if err := s.validate(ctx, dto, id); err != nil {
		return nil, err
	}

	if err := s.repo.Rename(ctx, id, dto.Name); err != nil {
		s.logger.Error("failed to update permission", "error", err, "permission_id", id)
		return nil, internal.NewBusinessRuleError("Failed To Update Permission", internal.ErrCodeOperationFailed).WithCause(err)
	}
	return s.GetByID(ctx, id)
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	row, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if row == nil {
		return errPermissionNotFound
	}

	affected, err := s.repo.Delete(ctx, id)
	if err != nil {
		s.logger.Error("failed to delete permission", "error", err, "permission_id", id)
		return err
	}
	if affected == 0 {
		return errDeleteFailed
	}

	s.logger.Info("permission deleted", "permission_id", id, "name", row.Name)
	return nil
}

// EnsurePermission returns the id of the api-guard permission called name,
// creating it when missing.
func (s *Service) EnsurePermission(ctx context.Context, name string) (int64, error) {
	row, err := s.repo.FirstOrCreate(ctx, name)
	if err != nil {
		return 0, err
	}
	return row.ID, nil
}

func (s *Service) validate(ctx context.Context, dto PermissionDTO, excludeID int64) error {
	v := validation.NewValidator().Struct(dto, PermissionMessages)
	if dto.Name != "" {
		taken, err := s.repo.NameExists(ctx, dto.Name, excludeID)
		if err != nil {
			return err
		}
		v.Unique("name", taken, msgPermissionTaken)
	}
	if appErr := v.Validate(); appErr != nil {
		return appErr
	}
	return nil
}

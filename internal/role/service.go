package role

import (
	"context"
	"log/slog"

	"github.com/frahmantamala/crm-management/internal"
	"github.com/frahmantamala/crm-management/internal/core/common/pagination"
	"github.com/frahmantamala/crm-management/internal/core/common/validation"
	roleDatamodel "github.com/frahmantamala/crm-management/internal/core/datamodel/role"
)

type RepositoryAPI interface {
	List(ctx context.Context, params pagination.Params) ([]*roleDatamodel.Role, int64, error)
	GetByID(ctx context.Context, id int64) (*roleDatamodel.Role, error)
	NameExists(ctx context.Context, name string, excludeID int64) (bool, error)
	Create(ctx context.Context, r *roleDatamodel.Role) error
	Rename(ctx context.Context, id int64, name string) error
	Delete(ctx context.Context, id int64) (int64, error)
	FirstOrCreate(ctx context.Context, name string) (*roleDatamodel.Role, error)
	UserHasRole(ctx context.Context, userID, roleID int64) (bool, error)
	AssignRole(ctx context.Context, userID, roleID int64) error
	GivePermissionTo(ctx context.Context, roleID int64, permissionIDs ...int64) error
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
	errRolesNotFound  = internal.NewNotFoundError("User Roles Not Found", internal.ErrCodeRoleNotFound)
	errRoleNotFound   = internal.NewNotFoundError("Role Not Found", internal.ErrCodeRoleNotFound)
	errRoleNotDeleted = internal.NewBusinessRuleError("Role Not Deleted", internal.ErrCodeOperationFailed)
)

func (s *Service) List(ctx context.Context, params pagination.Params) (pagination.Page[Response], error) {
	rows, total, err := s.repo.List(ctx, params)
	if err != nil {
		s.logger.Error("failed to list roles", "error", err)
		return pagination.Page[Response]{}, err
	}
	if len(rows) == 0 {
		return pagination.Page[Response]{}, errRolesNotFound
	}

	items := make([]Response, len(rows))
	for i, row := range rows {
		items[i] = FromDataModel(row).ToResponse()
	}
	return pagination.NewPage(items, params, total), nil
}

func (s *Service) Create(ctx context.Context, dto RoleDTO) (*Response, error) {
	if err := s.validate(ctx, dto, 0); err != nil {
		return nil, err
	}

	row := &roleDatamodel.Role{Name: dto.Name, GuardName: roleDatamodel.GuardAPI}
	if err := s.repo.Create(ctx, row); err != nil {
		s.logger.Error("failed to create role", "error", err, "name", dto.Name)
		return nil, err
	}

	s.logger.Info("role created", "role_id", row.ID, "name", row.Name)
	resp := FromDataModel(row).ToResponse()
	return &resp, nil
}

func (s *Service) GetByID(ctx context.Context, id int64) (*Response, error) {
	row, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if row == nil {
		return nil, errRoleNotFound
	}
	resp := FromDataModel(row).ToResponse()
	return &resp, nil
}

func (s *Service) Update(ctx context.Context, id int64, dto RoleDTO) (*Response, error) {
	row, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if row == nil {
		return nil, errRoleNotFound
	}

	if err := s.validate(ctx, dto, id); err != nil {
		return nil, err
	}

	if err := s.repo.Rename(ctx, id, dto.Name); err != nil {
		s.logger.Error("failed to update role", "error", err, "role_id", id)
		return nil, err
	}
	return s.GetByID(ctx, id)
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	row, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if row == nil {
		return errRoleNotFound
	}

	affected, err := s.repo.Delete(ctx, id)
	if err != nil {
		s.logger.Error("failed to delete role", "error", err, "role_id", id)
		return err
	}
	if affected == 0 {
		return errRoleNotDeleted
	}

	s.logger.Info("role deleted", "role_id", id, "name", row.Name)
	return nil
}

// EnsureRole returns the id of the api-guard role called name, creating it
// when missing.
func (s *Service) EnsureRole(ctx context.Context, name string) (int64, error) {
	row, err := s.repo.FirstOrCreate(ctx, name)
	if err != nil {
		return 0, err
	}
	return row.ID, nil
}

func (s *Service) UserHasRole(ctx context.Context, userID, roleID int64) (bool, error) {
	return s.repo.UserHasRole(ctx, userID, roleID)
}

// AssignRole is idempotent.
func (s *Service) AssignRole(ctx context.Context, userID, roleID int64) error {
	return s.repo.AssignRole(ctx, userID, roleID)
}

// GivePermissionTo is idempotent.
func (s *Service) GivePermissionTo(ctx context.Context, roleID int64, permissionIDs ...int64) error {
	if len(permissionIDs) == 0 {
		return nil
	}
	return s.repo.GivePermissionTo(ctx, roleID, permissionIDs...)
}

func (s *Service) validate(ctx context.Context, dto RoleDTO, excludeID int64) error {
	v := validation.NewValidator().Struct(dto, RoleMessages)
	if dto.Name != "" {
		taken, err := s.repo.NameExists(ctx, dto.Name, excludeID)
		if err != nil {
			return err
		}
		v.Unique("name", taken, msgRoleTaken)
	}
	if appErr := v.Validate(); appErr != nil {
		return appErr
	}
	return nil
}

package user

import (
	"context"
	"log/slog"

	"github.com/frahmantamala/crm-management/internal"
	"github.com/frahmantamala/crm-management/internal/core/common/pagination"
	"github.com/frahmantamala/crm-management/internal/core/common/validation"
	userDatamodel "github.com/frahmantamala/crm-management/internal/core/datamodel/user"
	"github.com/frahmantamala/crm-management/internal/core/events"
)

type RepositoryAPI interface {
	List(ctx context.Context, params pagination.Params) ([]*userDatamodel.User, int64, error)
	GetByID(ctx context.Context, id int64) (*userDatamodel.User, error)
	NameExists(ctx context.Context, name string) (bool, error)
	EmailExists(ctx context.Context, email string) (bool, error)
	Create(ctx context.Context, u *userDatamodel.User) error
	UpdateDetails(ctx context.Context, id int64, name, email string) error
	Delete(ctx context.Context, id int64) (int64, error)
}

type PasswordHasher interface {
	Hash(password string) (string, error)
}

// RoleAssigner is the slice of the role registry the user service needs.
type RoleAssigner interface {
	EnsureRole(ctx context.Context, name string) (int64, error)
	UserHasRole(ctx context.Context, userID, roleID int64) (bool, error)
	AssignRole(ctx context.Context, userID, roleID int64) error
}

type EventPublisher interface {
	PublishSync(ctx context.Context, event events.Event) error
}

type Service struct {
	repo      RepositoryAPI
	hasher    PasswordHasher
	roles     RoleAssigner
	publisher EventPublisher
	logger    *slog.Logger
}

func NewService(repo RepositoryAPI, hasher PasswordHasher, roles RoleAssigner, publisher EventPublisher, logger *slog.Logger) *Service {
	return &Service{
		repo:      repo,
		hasher:    hasher,
		roles:     roles,
		publisher: publisher,
		logger:    logger,
	}
}

var (
	errUsersNotFound = internal.NewNotFoundError("Users Not Found", internal.ErrCodeUserNotFound)
	errUserNotFound  = internal.NewNotFoundError("User Not Found", internal.ErrCodeUserNotFound)
	errDeleteFailed  = internal.NewBusinessRuleError("Failed to delete user", internal.ErrCodeOperationFailed)
)

func (s *Service) List(ctx context.Context, params pagination.Params) (pagination.Page[Response], error) {
	rows, total, err := s.repo.List(ctx, params)
	if err != nil {
		s.logger.Error("failed to list users", "error", err)
		return pagination.Page[Response]{}, err
	}
	if len(rows) == 0 {
		return pagination.Page[Response]{}, errUsersNotFound
	}

	items := make([]Response, len(rows))
	for i, row := range rows {
		items[i] = FromDataModel(row).ToResponse()
	}
	return pagination.NewPage(items, params, total), nil
}

// Create validates dto, stores the user and raises user.registered. A failing
// subscriber is logged and does not undo the registration.
func (s *Service) Create(ctx context.Context, dto CreateUserDTO) (*Response, error) {
	v := validation.NewValidator().Struct(dto, CreateUserMessages)

	if dto.Name != "" {
		taken, err := s.repo.NameExists(ctx, dto.Name)
		if err != nil {
			return nil, err
		}
		v.Unique("name", taken, msgNameTaken)
	}
	if dto.Email != "" {
		taken, err := s.repo.EmailExists(ctx, dto.Email)
		if err != nil {
			return nil, err
		}
		v.Unique("email", taken, msgEmailTaken)
	}
	if appErr := v.Validate(); appErr != nil {
		return nil, appErr
	}

	hash, err := s.hasher.Hash(dto.Password)
	if err != nil {
		return nil, internal.NewInternalError("failed to hash password", err)
	}

	row := &userDatamodel.User{
		Name:         dto.Name,
		Email:        dto.Email,
		PasswordHash: hash,
	}
	if err := s.repo.Create(ctx, row); err != nil {
		s.logger.Error("failed to create user", "error", err, "email", dto.Email)
		return nil, err
	}

	if err := s.publisher.PublishSync(ctx, events.NewUserRegisteredEvent(row.ID, row.Email)); err != nil {
		s.logger.Error("user.registered subscribers failed", "error", err, "user_id", row.ID)
	}

	s.logger.Info("user created", "user_id", row.ID)
	return s.GetByID(ctx, row.ID)
}

func (s *Service) GetByID(ctx context.Context, id int64) (*Response, error) {
	row, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if row == nil {
		return nil, errUserNotFound
	}
	resp := FromDataModel(row).ToResponse()
	return &resp, nil
}

func (s *Service) Update(ctx context.Context, id int64, dto UpdateUserDTO) (*Response, error) {
	row, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if row == nil {
		return nil, errUserNotFound
	}

	if appErr := validation.NewValidator().Struct(dto, UpdateUserMessages).Validate(); appErr != nil {
		return nil, appErr
	}

	if err := s.repo.UpdateDetails(ctx, id, dto.Name, dto.Email); err != nil {
		s.logger.Error("failed to update user", "error", err, "user_id", id)
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
		return errUserNotFound
	}

	affected, err := s.repo.Delete(ctx, id)
	if err != nil {
		s.logger.Error("failed to delete user", "error", err, "user_id", id)
		return err
	}
	if affected == 0 {
		return errDeleteFailed
	}

	s.logger.Info("user deleted", "user_id", id)
	return nil
}

// MakeAdmin adds the admin role to the target. Existing roles are kept.
func (s *Service) MakeAdmin(ctx context.Context, id int64) error {
	row, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if row == nil {
		return errUserNotFound
	}

	adminRoleID, err := s.roles.EnsureRole(ctx, RoleAdmin)
	if err != nil {
		return err
	}
	if _, err := s.roles.EnsureRole(ctx, RoleUser); err != nil {
		return err
	}

	isAdmin, err := s.roles.UserHasRole(ctx, id, adminRoleID)
	if err != nil {
		return err
	}
	if isAdmin {
		return internal.ErrAlreadyAdmin
	}

	if err := s.roles.AssignRole(ctx, id, adminRoleID); err != nil {
		s.logger.Error("failed to assign admin role", "error", err, "user_id", id)
		return internal.NewBusinessRuleError("Failed to change admin status", internal.ErrCodeOperationFailed).WithCause(err)
	}

	s.logger.Info("user promoted to admin", "user_id", id)
	return nil
}

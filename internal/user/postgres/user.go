package postgres

import (
	"context"
	"errors"

	"github.com/frahmantamala/crm-management/internal/core/common/pagination"
	roleDatamodel "github.com/frahmantamala/crm-management/internal/core/datamodel/role"
	userDatamodel "github.com/frahmantamala/crm-management/internal/core/datamodel/user"
	"github.com/frahmantamala/crm-management/internal/user"
	"gorm.io/gorm"
)

type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) user.RepositoryAPI {
	return &UserRepository{db: db}
}

// WithRoles preloads the api-guard role names of the user.
func WithRoles(db *gorm.DB) *gorm.DB {
	return db.Preload("Roles", func(tx *gorm.DB) *gorm.DB {
		return tx.Where("guard_name = ?", roleDatamodel.GuardAPI).Order("roles.name ASC")
	})
}

func (r *UserRepository) List(ctx context.Context, params pagination.Params) ([]*userDatamodel.User, int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&userDatamodel.User{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var users []*userDatamodel.User
	err := r.db.WithContext(ctx).
		Scopes(WithRoles, params.Scope).
		Order("created_at DESC").Order("id DESC").
		Find(&users).Error
	return users, total, err
}

func (r *UserRepository) GetByID(ctx context.Context, id int64) (*userDatamodel.User, error) {
	var u userDatamodel.User
	err := r.db.WithContext(ctx).Scopes(WithRoles).Where("id = ?", id).First(&u).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &u, nil
}

func (r *UserRepository) NameExists(ctx context.Context, name string) (bool, error) {
	return r.exists(ctx, "name = ?", name)
}

func (r *UserRepository) EmailExists(ctx context.Context, email string) (bool, error) {
	return r.exists(ctx, "email = ?", email)
}

func (r *UserRepository) exists(ctx context.Context, query string, arg interface{}) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&userDatamodel.User{}).Where(query, arg).Count(&count).Error
	return count > 0, err
}

func (r *UserRepository) Create(ctx context.Context, u *userDatamodel.User) error {
	return r.db.WithContext(ctx).Omit("Roles").Create(u).Error
}

func (r *UserRepository) UpdateDetails(ctx context.Context, id int64, name, email string) error {
	return r.db.WithContext(ctx).
		Model(&userDatamodel.User{ID: id}).
		Updates(map[string]interface{}{"name": name, "email": email}).Error
}

// Delete removes the user along with their tokens and role assignments.
func (r *UserRepository) Delete(ctx context.Context, id int64) (int64, error) {
	var affected int64
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ?", id).Delete(&userDatamodel.AccessToken{}).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", id).Delete(&roleDatamodel.UserRole{}).Error; err != nil {
			return err
		}
		res := tx.Delete(&userDatamodel.User{}, id)
		if res.Error != nil {
			return res.Error
		}
		affected = res.RowsAffected
		return nil
	})
	return affected, err
}

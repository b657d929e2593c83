package postgres

import (
	"context"
	"errors"

	"github.com/frahmantamala/crm-management/internal/core/common/pagination"
	roleDatamodel "github.com/frahmantamala/crm-management/internal/core/datamodel/role"
	"github.com/frahmantamala/crm-management/internal/role"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type RoleRepository struct {
	db *gorm.DB
}

func NewRoleRepository(db *gorm.DB) role.RepositoryAPI {
	return &RoleRepository{db: db}
}

func apiGuard(db *gorm.DB) *gorm.DB {
	return db.Where("guard_name = ?", roleDatamodel.GuardAPI)
}

func withPermissions(db *gorm.DB) *gorm.DB {
	return db.Preload("Permissions", func(tx *gorm.DB) *gorm.DB {
		return tx.Where("guard_name = ?", roleDatamodel.GuardAPI).Order("permissions.name ASC")
	})
}

func (r *RoleRepository) List(ctx context.Context, params pagination.Params) ([]*roleDatamodel.Role, int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&roleDatamodel.Role{}).Scopes(apiGuard).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var roles []*roleDatamodel.Role
	err := r.db.WithContext(ctx).
		Scopes(apiGuard, withPermissions, params.Scope).
		Order("created_at DESC").Order("id DESC").
		Find(&roles).Error
	return roles, total, err
}

func (r *RoleRepository) GetByID(ctx context.Context, id int64) (*roleDatamodel.Role, error) {
	var row roleDatamodel.Role
	err := r.db.WithContext(ctx).Scopes(apiGuard, withPermissions).Where("id = ?", id).First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &row, nil
}

func (r *RoleRepository) NameExists(ctx context.Context, name string, excludeID int64) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&roleDatamodel.Role{}).
		Scopes(apiGuard).
		Where("name = ? AND id <> ?", name, excludeID).
		Count(&count).Error
	return count > 0, err
}

func (r *RoleRepository) Create(ctx context.Context, row *roleDatamodel.Role) error {
	return r.db.WithContext(ctx).Omit("Permissions").Create(row).Error
}

func (r *RoleRepository) Rename(ctx context.Context, id int64, name string) error {
	return r.db.WithContext(ctx).Model(&roleDatamodel.Role{ID: id}).Update("name", name).Error
}

// Delete removes the role and detaches it from users and permissions.
func (r *RoleRepository) Delete(ctx context.Context, id int64) (int64, error) {
	var affected int64
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("role_id = ?", id).Delete(&roleDatamodel.UserRole{}).Error; err != nil {
			return err
		}
		if err := tx.Where("role_id = ?", id).Delete(&roleDatamodel.RolePermission{}).Error; err != nil {
			return err
		}
		res := tx.Scopes(apiGuard).Delete(&roleDatamodel.Role{}, id)
		if res.Error != nil {
			return res.Error
		}
		affected = res.RowsAffected
		return nil
	})
	return affected, err
}

func (r *RoleRepository) FirstOrCreate(ctx context.Context, name string) (*roleDatamodel.Role, error) {
	row := roleDatamodel.Role{Name: name, GuardName: roleDatamodel.GuardAPI}
	err := r.db.WithContext(ctx).
		Where(roleDatamodel.Role{Name: name, GuardName: roleDatamodel.GuardAPI}).
		FirstOrCreate(&row).Error
	if err != nil {
		return nil, err
	}
	return &row, nil
}

func (r *RoleRepository) UserHasRole(ctx context.Context, userID, roleID int64) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&roleDatamodel.UserRole{}).
		Where("user_id = ? AND role_id = ?", userID, roleID).
		Count(&count).Error
	return count > 0, err
}

func (r *RoleRepository) AssignRole(ctx context.Context, userID, roleID int64) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&roleDatamodel.UserRole{UserID: userID, RoleID: roleID}).Error
}

func (r *RoleRepository) GivePermissionTo(ctx context.Context, roleID int64, permissionIDs ...int64) error {
	rows := make([]roleDatamodel.RolePermission, len(permissionIDs))
	for i, id := range permissionIDs {
		rows[i] = roleDatamodel.RolePermission{RoleID: roleID, PermissionID: id}
	}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&rows).Error
}

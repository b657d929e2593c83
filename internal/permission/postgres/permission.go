package postgres

import (
	"context"
	"errors"

	"github.com/frahmantamala/crm-management/internal/core/common/pagination"
	roleDatamodel "github.com/frahmantamala/crm-management/internal/core/datamodel/role"
	"github.com/frahmantamala/crm-management/internal/permission"
	"gorm.io/gorm"
)

type PermissionRepository struct {
	db *gorm.DB
}

func NewPermissionRepository(db *gorm.DB) permission.RepositoryAPI {
	return &PermissionRepository{db: db}
}

func apiGuard(db *gorm.DB) *gorm.DB {
	return db.Where("guard_name = ?", roleDatamodel.GuardAPI)
}

func (r *PermissionRepository) List(ctx context.Context, params pagination.Params) ([]*roleDatamodel.Permission, int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&roleDatamodel.Permission{}).Scopes(apiGuard).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []*roleDatamodel.Permission
	err := r.db.WithContext(ctx).
		Scopes(apiGuard, params.Scope).
		Order("created_at DESC").Order("id DESC").
		Find(&rows).Error
	return rows, total, err
}

func (r *PermissionRepository) GetByID(ctx context.Context, id int64) (*roleDatamodel.Permission, error) {
	var row roleDatamodel.Permission
	err := r.db.WithContext(ctx).Scopes(apiGuard).Where("id = ?", id).First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &row, nil
}

func (r *PermissionRepository) NameExists(ctx context.Context, name string, excludeID int64) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&roleDatamodel.Permission{}).
		Scopes(apiGuard).
		Where("name = ? AND id <> ?", name, excludeID).
		Count(&count).Error
	return count > 0, err
}

func (r *PermissionRepository) Create(ctx context.Context, row *roleDatamodel.Permission) error {
	return r.db.WithContext(ctx).Create(row).Error
}

func (r *PermissionRepository) Rename(ctx context.Context, id int64, name string) error {
	return r.db.WithContext(ctx).Model(&roleDatamodel.Permission{ID: id}).Update("name", name).Error
}

// Delete removes the permission and detaches it from every role.
func (r *PermissionRepository) Delete(ctx context.Context, id int64) (int64, error) {
	var affected int64
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("permission_id = ?", id).Delete(&roleDatamodel.RolePermission{}).Error; err != nil {
			return err
		}
		res := tx.Scopes(apiGuard).Delete(&roleDatamodel.Permission{}, id)
		if res.Error != nil {
			return res.Error
		}
		affected = res.RowsAffected
		return nil
	})
	return affected, err
}

func (r *PermissionRepository) FirstOrCreate(ctx context.Context, name string) (*roleDatamodel.Permission, error) {
	row := roleDatamodel.Permission{Name: name, GuardName: roleDatamodel.GuardAPI}
	err := r.db.WithContext(ctx).
		Where(roleDatamodel.Permission{Name: name, GuardName: roleDatamodel.GuardAPI}).
		FirstOrCreate(&row).Error
	if err != nil {
		return nil, err
	}
	return &row, nil
}

package postgres

import (
	"context"
	"errors"

	"github.com/frahmantamala/crm-management/internal/core/common/pagination"
	customerDatamodel "github.com/frahmantamala/crm-management/internal/core/datamodel/customer"
	roleDatamodel "github.com/frahmantamala/crm-management/internal/core/datamodel/role"
	"github.com/frahmantamala/crm-management/internal/customer"
	"gorm.io/gorm"
)

type CustomerRepository struct {
	db *gorm.DB
}

func NewCustomerRepository(db *gorm.DB) customer.RepositoryAPI {
	return &CustomerRepository{db: db}
}

func apiRoles(tx *gorm.DB) *gorm.DB {
	return tx.Where("guard_name = ?", roleDatamodel.GuardAPI).Order("roles.name ASC")
}

// withUsers preloads the creator and last updater with their role names.
func withUsers(db *gorm.DB) *gorm.DB {
	return db.
		Preload("Owner").Preload("Owner.Roles", apiRoles).
		Preload("Updater").Preload("Updater.Roles", apiRoles)
}

func (r *CustomerRepository) List(ctx context.Context, params pagination.Params) ([]*customerDatamodel.Customer, int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&customerDatamodel.Customer{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []*customerDatamodel.Customer
	err := r.db.WithContext(ctx).
		Scopes(withUsers, params.Scope).
		Order("id ASC").
		Find(&rows).Error
	return rows, total, err
}

func (r *CustomerRepository) GetByID(ctx context.Context, id int64) (*customerDatamodel.Customer, error) {
	var row customerDatamodel.Customer
	err := r.db.WithContext(ctx).Scopes(withUsers).Where("id = ?", id).First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &row, nil
}

// NameExists counts soft-deleted customers too.
func (r *CustomerRepository) NameExists(ctx context.Context, name string) (bool, error) {
	return r.exists(ctx, "name = ?", name)
}

// SurnameExists counts soft-deleted customers too.
func (r *CustomerRepository) SurnameExists(ctx context.Context, surname string) (bool, error) {
	return r.exists(ctx, "surname = ?", surname)
}

func (r *CustomerRepository) exists(ctx context.Context, query string, arg interface{}) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Unscoped().Model(&customerDatamodel.Customer{}).Where(query, arg).Count(&count).Error
	return count > 0, err
}

func (r *CustomerRepository) Create(ctx context.Context, row *customerDatamodel.Customer) error {
	return r.db.WithContext(ctx).Omit("Owner", "Updater").Create(row).Error
}

func (r *CustomerRepository) Update(ctx context.Context, row *customerDatamodel.Customer) error {
	return r.db.WithContext(ctx).
		Model(&customerDatamodel.Customer{ID: row.ID}).
		Updates(map[string]interface{}{
			"name":       row.Name,
			"surname":    row.Surname,
			"photo_url":  row.PhotoURL,
			"updated_by": row.UpdatedBy,
		}).Error
}

// Delete sets deleted_at; the row stays in the table.
func (r *CustomerRepository) Delete(ctx context.Context, id int64) (int64, error) {
	res := r.db.WithContext(ctx).Delete(&customerDatamodel.Customer{}, id)
	return res.RowsAffected, res.Error
}

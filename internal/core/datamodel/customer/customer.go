package customer

import (
	"time"

	"github.com/frahmantamala/crm-management/internal/core/datamodel/user"
	"gorm.io/gorm"
)

type Customer struct {
	ID        int64          `gorm:"primaryKey"`
	Name      string         `gorm:"column:name;index;not null"`
	Surname   string         `gorm:"column:surname;index;not null"`
	PhotoURL  *string        `gorm:"column:photo_url"`
	AddedBy   int64          `gorm:"column:added_by;not null"`
	UpdatedBy *int64         `gorm:"column:updated_by"`
	Owner     *user.User     `gorm:"foreignKey:AddedBy;references:ID"`
	Updater   *user.User     `gorm:"foreignKey:UpdatedBy;references:ID"`
	CreatedAt time.Time      `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time      `gorm:"column:updated_at;autoUpdateTime"`
	DeletedAt gorm.DeletedAt `gorm:"column:deleted_at;index"`
}

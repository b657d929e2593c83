package user

import (
	"time"

	"github.com/frahmantamala/crm-management/internal/core/datamodel/role"
)

type User struct {
	ID           int64       `gorm:"primaryKey"`
	Name         string      `gorm:"column:name;uniqueIndex;not null"`
	Email        string      `gorm:"column:email;uniqueIndex;not null"`
	PasswordHash string      `gorm:"column:password_hash;not null"`
	Roles        []role.Role `gorm:"many2many:user_roles;constraint:OnDelete:CASCADE"`
	CreatedAt    time.Time   `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time   `gorm:"column:updated_at;autoUpdateTime"`
}

// AccessToken is a live bearer credential. Only the SHA-256 of the token id is stored.
type AccessToken struct {
	ID         int64      `gorm:"primaryKey"`
	UserID     int64      `gorm:"column:user_id;index;not null"`
	TokenHash  string     `gorm:"column:token_hash;uniqueIndex;not null"`
	Name       string     `gorm:"column:name;not null"`
	LastUsedAt *time.Time `gorm:"column:last_used_at"`
	ExpiresAt  *time.Time `gorm:"column:expires_at"`
	CreatedAt  time.Time  `gorm:"column:created_at;autoCreateTime"`
}

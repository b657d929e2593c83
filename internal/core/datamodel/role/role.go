package role

import "time"

// GuardAPI is the only guard scope this service reads or writes.
const GuardAPI = "api"

type Role struct {
	ID          int64        `gorm:"primaryKey"`
	Name        string       `gorm:"column:name;not null;uniqueIndex:idx_roles_name_guard"`
	GuardName   string       `gorm:"column:guard_name;not null;default:api;uniqueIndex:idx_roles_name_guard"`
	Permissions []Permission `gorm:"many2many:role_permissions;constraint:OnDelete:CASCADE"`
	CreatedAt   time.Time    `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time    `gorm:"column:updated_at;autoUpdateTime"`
}

type Permission struct {
	ID        int64     `gorm:"primaryKey"`
	Name      string    `gorm:"column:name;not null;uniqueIndex:idx_permissions_name_guard"`
	GuardName string    `gorm:"column:guard_name;not null;default:api;uniqueIndex:idx_permissions_name_guard"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

type UserRole struct {
	UserID int64 `gorm:"column:user_id;primaryKey"`
	RoleID int64 `gorm:"column:role_id;primaryKey"`
}

func (UserRole) TableName() string {
	return "user_roles"
}

type RolePermission struct {
	RoleID       int64 `gorm:"column:role_id;primaryKey"`
	PermissionID int64 `gorm:"column:permission_id;primaryKey"`
}

func (RolePermission) TableName() string {
	return "role_permissions"
}

package role

import (
	"time"

	roleDatamodel "github.com/frahmantamala/crm-management/internal/core/datamodel/role"
	"github.com/frahmantamala/crm-management/internal/user"
)

type Role struct {
	ID          int64
	Name        string
	GuardName   string
	Permissions []string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

type Response struct {
	ID          int64    `json:"id"`
	Name        string   `json:"name"`
	Permissions []string `json:"permissions"`
	CreatedAt   string   `json:"created_at"`
	UpdatedAt   string   `json:"updated_at"`
}

func (r *Role) ToResponse() Response {
	perms := r.Permissions
	if perms == nil {
		perms = []string{}
	}
	return Response{
		ID:          r.ID,
		Name:        r.Name,
		Permissions: perms,
		CreatedAt:   r.CreatedAt.Format(user.TimestampLayout),
		UpdatedAt:   r.UpdatedAt.Format(user.TimestampLayout),
	}
}

func FromDataModel(r *roleDatamodel.Role) *Role {
	perms := make([]string, 0, len(r.Permissions))
	for _, p := range r.Permissions {
		perms = append(perms, p.Name)
	}
	return &Role{
		ID:          r.ID,
		Name:        r.Name,
		GuardName:   r.GuardName,
		Permissions: perms,
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
	}
}

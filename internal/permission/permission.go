package permission

import (
	"time"

	roleDatamodel "github.com/frahmantamala/crm-management/internal/core/datamodel/role"
	"github.com/frahmantamala/crm-management/internal/user"
)

type Permission struct {
	ID        int64
	Name      string
	GuardName string
	CreatedAt time.Time
	UpdatedAt time.Time
}

type Response struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

func (p *Permission) ToResponse() Response {
	return Response{
		ID:        p.ID,
		Name:      p.Name,
		CreatedAt: p.CreatedAt.Format(user.TimestampLayout),
		UpdatedAt: p.UpdatedAt.Format(user.TimestampLayout),
	}
}

func FromDataModel(p *roleDatamodel.Permission) *Permission {
	return &Permission{
		ID:        p.ID,
		Name:      p.Name,
		GuardName: p.GuardName,
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
}

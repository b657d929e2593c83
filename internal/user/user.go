package user

import (
	"time"

	userDatamodel "github.com/frahmantamala/crm-management/internal/core/datamodel/user"
)

// TimestampLayout is how every resource renders created_at and updated_at.
const TimestampLayout = "2006-01-02 15:04:05"

const (
	RoleAdmin = "admin"
	RoleUser  = "user"
)

type User struct {
	ID           int64
	Email        string
	Name         string
	PasswordHash string
	Roles        []string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Response is the public shape of a user. It never carries the password hash.
type Response struct {
	ID        int64    `json:"id"`
	Name      string   `json:"name"`
	Email     string   `json:"email"`
	Roles     []string `json:"roles"`
	CreatedAt string   `json:"created_at"`
	UpdatedAt string   `json:"updated_at"`
}

func (u *User) ToResponse() Response {
	roles := u.Roles
	if roles == nil {
		roles = []string{}
	}
	return Response{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		Roles:     roles,
		CreatedAt: u.CreatedAt.Format(TimestampLayout),
		UpdatedAt: u.UpdatedAt.Format(TimestampLayout),
	}
}

func FromDataModel(u *userDatamodel.User) *User {
	roles := make([]string, 0, len(u.Roles))
	for _, r := range u.Roles {
		roles = append(roles, r.Name)
	}
	return &User{
		ID:           u.ID,
		Email:        u.Email,
		Name:         u.Name,
		PasswordHash: u.PasswordHash,
		Roles:        roles,
		CreatedAt:    u.CreatedAt,
		UpdatedAt:    u.UpdatedAt,
	}
}

// ResponseFromDataModel is a shortcut used by resources that embed a user.
func ResponseFromDataModel(u *userDatamodel.User) *Response {
	if u == nil {
		return nil
	}
	resp := FromDataModel(u).ToResponse()
	return &resp
}

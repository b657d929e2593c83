package customer

import (
	customerDatamodel "github.com/frahmantamala/crm-management/internal/core/datamodel/customer"
	"github.com/frahmantamala/crm-management/internal/user"
)

// AvatarDir is where customer photos are stored, one folder per customer name.
const AvatarDir = "customers/avatars"

// Response embeds the users who created and last updated the customer.
type Response struct {
	ID            int64          `json:"id"`
	Name          string         `json:"name"`
	Surname       string         `json:"surname"`
	PhotoURL      *string        `json:"photo_url"`
	CreatedAt     string         `json:"created_at"`
	UpdatedAt     string         `json:"updated_at"`
	AddedBy       *user.Response `json:"added_by"`
	LastUpdatedBy *user.Response `json:"last_updated_by"`
}

// ResponseFromDataModel maps a row loaded with its Owner and Updater.
func ResponseFromDataModel(c *customerDatamodel.Customer) Response {
	return Response{
		ID:            c.ID,
		Name:          c.Name,
		Surname:       c.Surname,
		PhotoURL:      c.PhotoURL,
		CreatedAt:     c.CreatedAt.Format(user.TimestampLayout),
		UpdatedAt:     c.UpdatedAt.Format(user.TimestampLayout),
		AddedBy:       user.ResponseFromDataModel(c.Owner),
		LastUpdatedBy: user.ResponseFromDataModel(c.Updater),
	}
}

package permission

import "github.com/frahmantamala/crm-management/internal/core/common/validation"

type PermissionDTO struct {
	Name string `json:"name" validate:"required,min=3,max=50"`
}

var PermissionMessages = validation.Messages{
	"name.required": "Please provide the permission name",
	"name.string":   "The permission name must be a string",
	"name.min":      "The permission name cannot be less than 3 characters long",
	"name.max":      "The permission name cannot be more than 50 characters long",
}

const msgPermissionTaken = "The permission name has already been taken"

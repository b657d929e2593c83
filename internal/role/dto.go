package role

import "github.com/frahmantamala/crm-management/internal/core/common/validation"

type RoleDTO struct {
	Name string `json:"name" validate:"required,min=3,max=50"`
}

var RoleMessages = validation.Messages{
	"name.required": "Please provide the role name",
	"name.string":   "The role name must be a string",
	"name.min":      "The role name cannot be less than 3 characters long",
	"name.max":      "The role name cannot be more than 50 characters long",
}

const msgRoleTaken = "The role name has already been taken"

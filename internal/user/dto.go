package user

import "github.com/frahmantamala/crm-management/internal/core/common/validation"

// CreateUserDTO is accepted by registration and by admin user creation.
type CreateUserDTO struct {
	Name                 string `json:"name" validate:"required,min=3,max=20"`
	Email                string `json:"email" validate:"required,email"`
	Password             string `json:"password" validate:"required,min=4,max=60,eqfield=PasswordConfirmation"`
	PasswordConfirmation string `json:"password_confirmation" validate:"required"`
}

type UpdateUserDTO struct {
	Name  string `json:"name" validate:"required,min=3,max=20"`
	Email string `json:"email" validate:"required,email"`
}

var CreateUserMessages = validation.Messages{
	"name.required":                  "Please provide your name",
	"name.string":                    "Please use valid string name format",
	"name.min":                       "Name cannot be less than 3 characters long",
	"name.max":                       "Name cannot be more than 20 characters long",
	"email.required":                 "Please provide your email address",
	"email.email":                    "Please provide a valid email address",
	"password.required":              "Please provide your password",
	"password.min":                   "The password cannot be less than 4 characters long",
	"password.max":                   "The password cannot be more than 60 characters long",
	"password.eqfield":               "Password confirmations do not match",
	"password_confirmation.required": "Please confirm your password",
}

var UpdateUserMessages = validation.Messages{
	"name.required":  "Please provide your name",
	"name.string":    "Please use valid string name format",
	"name.min":       "Name cannot be less than 3 characters long",
	"name.max":       "Name cannot be more than 20 characters long",
	"email.required": "Please provide your email address",
	"email.email":    "Please provide a valid email address",
}

const (
	msgNameTaken  = "The name has already been taken"
	msgEmailTaken = "The email address has already been taken"
)

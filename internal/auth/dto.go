package auth

import "github.com/frahmantamala/crm-management/internal/core/common/validation"

// LoginDTO is the transport shape used by the HTTP handler to accept login requests.
type LoginDTO struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

var LoginMessages = validation.Messages{
	"email.required":    "Please provide your email address",
	"email.string":      "Please provide a valid email address",
	"password.required": "Please provide your password",
	"password.string":   "Please provide a valid password",
}

package customer

import "github.com/frahmantamala/crm-management/internal/core/common/validation"

// CreateCustomerDTO is read from a multipart form. The photo travels beside it.
type CreateCustomerDTO struct {
	Name    string `form:"name" validate:"required,min=3,max=10"`
	Surname string `form:"surname" validate:"required,min=3,max=10"`
}

type UpdateCustomerDTO struct {
	Name    string `form:"name" validate:"required,min=3,max=30"`
	Surname string `form:"surname" validate:"required,min=3,max=10"`
}

// Photo is an uploaded file. Size is the size announced by the client.
type Photo struct {
	Filename string
	Size     int64
	Content  []byte
}

var CreateCustomerMessages = validation.Messages{
	"name.required":    "Please provide the customer's name",
	"name.min":         "The name cannot be less than 3 characters long",
	"name.max":         "The name cannot be more than 10 characters long",
	"surname.required": "The surname field is required.",
	"surname.min":      "The surname cannot be less than 3 characters long",
	"surname.max":      "The surname cannot be more than 10 characters long",
}

var UpdateCustomerMessages = validation.Messages{
	"name.required":    "The name field is required.",
	"name.min":         "The name must be at least 3 characters.",
	"name.max":         "The name may not be greater than 30 characters.",
	"surname.required": "The surname field is required.",
	"surname.min":      "The surname must be at least 3 characters.",
	"surname.max":      "The surname may not be greater than 10 characters.",
}

const (
	msgNameTaken    = "The name has already been taken"
	msgSurnameTaken = "The surname has already been taken."

	msgPhotoMimes = "Only JPG, PNG, SVG file types are allowed for the photo"
	msgPhotoImage = "Only images are allowed for the photo"
	msgPhotoSize  = "Uploaded image cannot exceed 2BM"
)

package customer

import (
	"strings"

	"github.com/frahmantamala/crm-management/internal"
	"github.com/frahmantamala/crm-management/internal/core/common/validation"
	"github.com/gabriel-vasile/mimetype"
)

var allowedPhotoTypes = []string{"image/jpeg", "image/png", "image/svg+xml"}

// validatePhoto sniffs the content rather than trusting the client's
// Content-Type. A nil photo passes.
func validatePhoto(v *validation.ValidationBuilder, photo *Photo, maxSize int64) {
	if photo == nil {
		return
	}

	mtype := mimetype.Detect(photo.Content)
	switch {
	case !isImage(mtype):
		v.Add("photo_url", msgPhotoImage, internal.ErrCodeInvalidFile)
	case !mimetype.EqualsAny(mtype.String(), allowedPhotoTypes...):
		v.Add("photo_url", msgPhotoMimes, internal.ErrCodeInvalidFile)
	}

	if maxSize > 0 && photo.Size > maxSize {
		v.Add("photo_url", msgPhotoSize, internal.ErrCodeInvalidFile)
	}
}

func isImage(mtype *mimetype.MIME) bool {
	for m := mtype; m != nil; m = m.Parent() {
		if strings.HasPrefix(m.String(), "image/") {
			return true
		}
	}
	return false
}

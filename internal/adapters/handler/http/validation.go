package http

import (
	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
	"github.com/vncsmyrnk/userauth/internal/core/domain"
)

type requiredField struct {
	name  string
	value string
}

// validateCredentials checks the required fields in order, then the email
// format. is.Email is a pattern match; it does not resolve the domain.
func validateCredentials(email string, required ...requiredField) error {
	for _, f := range required {
		if err := validation.Validate(f.value, validation.Required); err != nil {
			return domain.MissingParamError(f.name)
		}
	}
	if err := validation.Validate(email, is.Email); err != nil {
		return domain.InvalidParamError("email")
	}
	return nil
}

// bcrypt ignores input past 72 bytes, so longer passwords are refused.
const maxPasswordBytes = 72

func validateNewPassword(password string) error {
	if len(password) > maxPasswordBytes {
		return domain.InvalidParamError("password")
	}
	return nil
}

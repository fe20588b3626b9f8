package auth

import (
	"github.com/airotrack/fieldops/internal"
	"github.com/airotrack/fieldops/internal/user"
)

// LoginDTO is the credential payload. Accounts sign in with a phone
// number rather than an email address.
type LoginDTO struct {
	Phone    string `json:"phone"`
	Password string `json:"password"`
}

func (dto LoginDTO) Validate() error {
	if dto.Phone == "" {
		return internal.NewValidationError("phone is required", internal.ErrCodeMissingField)
	}
	if dto.Password == "" {
		return internal.NewValidationError("password is required", internal.ErrCodeMissingField)
	}
	return nil
}

type LoginResponse struct {
	Token string     `json:"token"`
	User  *user.User `json:"user"`
}

package user

import "github.com/airotrack/fieldops/internal"

// SaveUserDTO is the payload for creating or updating an account. On
// update an empty password means "keep the current one".
type SaveUserDTO struct {
	ID       string `json:"id,omitempty"`
	Name     string `json:"name"`
	Phone    string `json:"phone"`
	Password string `json:"password,omitempty"`
	Role     Role   `json:"role"`
	IsActive *bool  `json:"isActive,omitempty"`
	Avatar   string `json:"avatar,omitempty"`
}

func (dto SaveUserDTO) Validate() error {
	if dto.Name == "" {
		return internal.NewValidationError("name is required", internal.ErrCodeMissingField)
	}
	if dto.Phone == "" {
		return internal.NewValidationError("phone is required", internal.ErrCodeMissingField)
	}
	switch dto.Role {
	case RoleMaster, RoleAdmin, RoleTechnician:
	default:
		return internal.NewValidationError("role must be MASTER, ADMIN or TECHNICIAN", internal.ErrCodeValidationFailed)
	}
	if dto.ID == "" && dto.Password == "" {
		return internal.NewValidationError("password is required for a new user", internal.ErrCodeMissingField)
	}
	return nil
}

// UpdateProfileDTO is the self-service profile edit payload. Blank
// password keeps the stored one.
type UpdateProfileDTO struct {
	Name     string `json:"name"`
	Phone    string `json:"phone"`
	Password string `json:"password,omitempty"`
	Avatar   string `json:"avatar,omitempty"`
}

func (dto UpdateProfileDTO) Validate() error {
	if dto.Name == "" {
		return internal.NewValidationError("name is required", internal.ErrCodeMissingField)
	}
	if dto.Phone == "" {
		return internal.NewValidationError("phone is required", internal.ErrCodeMissingField)
	}
	return nil
}

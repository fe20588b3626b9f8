package user

import (
	"time"

	userDatamodel "github.com/airotrack/fieldops/internal/core/datamodel/user"
)

type Role string

const (
	RoleMaster     Role = "MASTER"
	RoleAdmin      Role = "ADMIN"
	RoleTechnician Role = "TECHNICIAN"
)

type User struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Phone    string `json:"phone"`
	Password string `json:"-"`
	Role     Role   `json:"role"`
	IsActive bool   `json:"isActive"`
	Avatar   string `json:"avatar,omitempty"`
}

// IsManager reports whether the user holds an administrative role and may
// see or edit records owned by other technicians.
func (u *User) IsManager() bool {
	return u.Role == RoleMaster || u.Role == RoleAdmin
}

func (u *User) IsMaster() bool {
	return u.Role == RoleMaster
}

func (u *User) Clone() *User {
	clone := *u
	return &clone
}

func ToDataModel(u *User) *userDatamodel.User {
	return &userDatamodel.User{
		ID:        u.ID,
		Name:      u.Name,
		Phone:     u.Phone,
		Password:  u.Password,
		Role:      string(u.Role),
		IsActive:  u.IsActive,
		Avatar:    u.Avatar,
		UpdatedAt: time.Now(),
	}
}

func FromDataModel(u *userDatamodel.User) *User {
	return &User{
		ID:       u.ID,
		Name:     u.Name,
		Phone:    u.Phone,
		Password: u.Password,
		Role:     Role(u.Role),
		IsActive: u.IsActive,
		Avatar:   u.Avatar,
	}
}

func FromDataModelSlice(users []*userDatamodel.User) []*User {
	result := make([]*User, len(users))
	for i, u := range users {
		result[i] = FromDataModel(u)
	}
	return result
}

package user

import "time"

// User is the remote-store representation of an account. Passwords are
// stored in plaintext; this mirrors the existing login contract and is a
// known, deliberately preserved weakness.
type User struct {
	ID        string    `gorm:"primaryKey"`
	Name      string    `gorm:"not null"`
	Phone     string    `gorm:"not null;uniqueIndex"`
	Password  string    `gorm:"column:password"`
	Role      string    `gorm:"not null"`
	IsActive  bool      `gorm:"column:is_active;default:true"`
	Avatar    string    `gorm:"column:avatar"`
	CreatedAt time.Time `gorm:"column:created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at"`
}

func (User) TableName() string {
	return "users"
}

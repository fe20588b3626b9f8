package session

import "time"

// Entry is one row of the scoped key-value store used for serialized
// sessions and one-time seen flags.
type Entry struct {
	Scope     string    `gorm:"primaryKey;column:scope"`
	Key       string    `gorm:"primaryKey;column:key"`
	Value     []byte    `gorm:"column:value"`
	UpdatedAt time.Time `gorm:"column:updated_at"`
}

func (Entry) TableName() string {
	return "app_sessions"
}

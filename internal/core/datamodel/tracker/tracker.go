package tracker

import "time"

// Tracker is the remote-store representation of a stock unit. The IMEI is
// a natural key; uniqueness is validated before any write reaches the
// store and additionally enforced by the index.
type Tracker struct {
	ID               string    `gorm:"primaryKey"`
	Date             string    `gorm:"column:date;type:varchar(10);not null"`
	Model            string    `gorm:"column:model;not null"`
	IMEI             string    `gorm:"column:imei;uniqueIndex;not null"`
	Company          string    `gorm:"column:company"`
	Status           string    `gorm:"column:status;not null"`
	TechnicianID     string    `gorm:"column:technician_id;index"`
	TechnicianName   string    `gorm:"column:technician_name"`
	InstallationDate string    `gorm:"column:installation_date;type:varchar(10)"`
	CreatedAt        time.Time `gorm:"column:created_at"`
	UpdatedAt        time.Time `gorm:"column:updated_at"`
}

func (Tracker) TableName() string {
	return "trackers"
}

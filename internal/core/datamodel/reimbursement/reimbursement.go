package reimbursement

import "time"

// Reimbursement is the remote-store representation of an expense claim.
type Reimbursement struct {
	ID             string    `gorm:"primaryKey"`
	Date           string    `gorm:"column:date;type:varchar(10);not null"`
	Type           string    `gorm:"column:type;not null"`
	Description    string    `gorm:"column:description"`
	Value          float64   `gorm:"column:value"`
	ReceiptURL     string    `gorm:"column:receipt_url"`
	Status         string    `gorm:"column:status;not null"`
	TechnicianID   string    `gorm:"column:technician_id;index"`
	TechnicianName string    `gorm:"column:technician_name"`
	CreatedAt      time.Time `gorm:"column:created_at"`
	UpdatedAt      time.Time `gorm:"column:updated_at"`
}

func (Reimbursement) TableName() string {
	return "reimbursements"
}

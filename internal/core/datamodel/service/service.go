package service

import "time"

// Service is the remote-store representation of a field-service record.
// Dates are calendar days kept as ISO strings; the store never sees a time
// component.
type Service struct {
	ID                 string    `gorm:"primaryKey"`
	Date               string    `gorm:"column:date;type:varchar(10);not null"`
	CustomerName       string    `gorm:"column:customer_name;not null"`
	Neighborhood       string    `gorm:"column:neighborhood"`
	Type               string    `gorm:"column:type;not null"`
	Company            string    `gorm:"column:company;not null"`
	Vehicle            string    `gorm:"column:vehicle"`
	Plate              string    `gorm:"column:plate"`
	Value              float64   `gorm:"column:value"`
	Status             string    `gorm:"column:status;not null"`
	TechnicianID       string    `gorm:"column:technician_id;index"`
	TechnicianName     string    `gorm:"column:technician_name"`
	CancellationReason string    `gorm:"column:cancellation_reason"`
	CancelledBy        string    `gorm:"column:cancelled_by"`
	IMEI               string    `gorm:"column:imei"`
	RemovedIMEI        string    `gorm:"column:removed_imei"`
	RemovedModel       string    `gorm:"column:removed_model"`
	RemovedCompany     string    `gorm:"column:removed_company"`
	CreatedAt          time.Time `gorm:"column:created_at"`
	UpdatedAt          time.Time `gorm:"column:updated_at"`
}

func (Service) TableName() string {
	return "services"
}

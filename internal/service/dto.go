package service

import (
	"time"

	"github.com/airotrack/fieldops/internal"
)

// SaveServiceDTO is the create/update payload for a field-service record.
type SaveServiceDTO struct {
	ID                 string      `json:"id,omitempty"`
	Date               string      `json:"date"`
	CustomerName       string      `json:"customerName"`
	Neighborhood       string      `json:"neighborhood"`
	Type               Type        `json:"type"`
	Company            Company     `json:"company"`
	Vehicle            string      `json:"vehicle"`
	Plate              string      `json:"plate"`
	Value              float64     `json:"value"`
	Status             Status      `json:"status"`
	TechnicianID       string      `json:"technicianId"`
	CancellationReason string      `json:"cancellationReason,omitempty"`
	CancelledBy        CancelledBy `json:"cancelledBy,omitempty"`
	IMEI               string      `json:"imei,omitempty"`
	RemovedIMEI        string      `json:"removedImei,omitempty"`
	RemovedModel       string      `json:"removedModel,omitempty"`
	RemovedCompany     Company     `json:"removedCompany,omitempty"`
}

func (dto SaveServiceDTO) Validate() error {
	if dto.Date == "" {
		return internal.NewValidationError("date is required", internal.ErrCodeMissingField)
	}
	if _, err := time.Parse("2006-01-02", dto.Date); err != nil {
		return internal.NewValidationError("date must be a calendar day in YYYY-MM-DD form", internal.ErrCodeInvalidDate)
	}
	if dto.CustomerName == "" {
		return internal.NewValidationError("customer name is required", internal.ErrCodeMissingField)
	}
	switch dto.Type {
	case TypeInstall, TypeMaintenance, TypeRemoval:
	default:
		return internal.NewValidationError("type must be INSTALL, MAINTENANCE or REMOVAL", internal.ErrCodeValidationFailed)
	}
	if !validCompany(dto.Company) {
		return internal.NewValidationError("unknown company", internal.ErrCodeValidationFailed)
	}
	switch dto.Status {
	case StatusCompleted:
	case StatusCancelled:
		if dto.CancellationReason == "" {
			return internal.ErrMissingCancellation
		}
		switch dto.CancelledBy {
		case CancelledByCustomer, CancelledByTechnician, CancelledByDispatch:
		default:
			return internal.ErrMissingCancellation
		}
	default:
		return internal.NewValidationError("status must be COMPLETED or CANCELLED", internal.ErrCodeValidationFailed)
	}
	if dto.RemovedIMEI != "" && dto.RemovedModel == "" {
		return internal.NewValidationError("removed model is required when a removed IMEI is given", internal.ErrCodeMissingField)
	}
	return nil
}

func (dto SaveServiceDTO) ToService() *Service {
	s := &Service{
		ID:                 dto.ID,
		Date:               dto.Date,
		CustomerName:       dto.CustomerName,
		Neighborhood:       dto.Neighborhood,
		Type:               dto.Type,
		Company:            dto.Company,
		Vehicle:            dto.Vehicle,
		Plate:              dto.Plate,
		Value:              dto.Value,
		Status:             dto.Status,
		TechnicianID:       dto.TechnicianID,
		CancellationReason: dto.CancellationReason,
		CancelledBy:        dto.CancelledBy,
		IMEI:               dto.IMEI,
		RemovedIMEI:        dto.RemovedIMEI,
		RemovedModel:       dto.RemovedModel,
		RemovedCompany:     dto.RemovedCompany,
	}
	s.Normalize()
	return s
}

func validCompany(c Company) bool {
	for _, known := range Companies {
		if c == known {
			return true
		}
	}
	return false
}

package tracker

import (
	"time"

	"github.com/airotrack/fieldops/internal"
	"github.com/airotrack/fieldops/internal/service"
)

// SaveTrackerDTO is the payload for receiving a unit into stock or
// editing an AVAILABLE one.
type SaveTrackerDTO struct {
	ID           string          `json:"id,omitempty"`
	Date         string          `json:"date"`
	Model        string          `json:"model"`
	IMEI         string          `json:"imei"`
	Company      service.Company `json:"company"`
	TechnicianID string          `json:"technicianId,omitempty"`
}

func (dto SaveTrackerDTO) Validate() error {
	if dto.Date == "" {
		return internal.NewValidationError("date is required", internal.ErrCodeMissingField)
	}
	if _, err := time.Parse("2006-01-02", dto.Date); err != nil {
		return internal.NewValidationError("date must be a calendar day in YYYY-MM-DD form", internal.ErrCodeInvalidDate)
	}
	if dto.Model == "" {
		return internal.NewValidationError("model is required", internal.ErrCodeMissingField)
	}
	if dto.IMEI == "" {
		return internal.NewValidationError("IMEI is required", internal.ErrCodeMissingField)
	}
	for _, r := range dto.IMEI {
		if r < '0' || r > '9' {
			return internal.NewValidationError("IMEI must contain only digits", internal.ErrCodeValidationFailed)
		}
	}
	if len(dto.IMEI) > 25 {
		return internal.NewValidationError("IMEI must be at most 25 digits", internal.ErrCodeValidationFailed)
	}
	return nil
}

func (dto SaveTrackerDTO) ToTracker() *Tracker {
	return &Tracker{
		ID:           dto.ID,
		Date:         dto.Date,
		Model:        dto.Model,
		IMEI:         dto.IMEI,
		Company:      dto.Company,
		Status:       StatusAvailable,
		TechnicianID: dto.TechnicianID,
	}
}

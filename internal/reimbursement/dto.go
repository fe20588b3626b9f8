package reimbursement

import (
	"time"

	"github.com/airotrack/fieldops/internal"
)

// MaxReceiptBytes caps the inline receipt attachment (base64 image or
// PDF).
const MaxReceiptBytes = 2 << 20

// SaveReimbursementDTO is the create/update payload for an expense claim.
type SaveReimbursementDTO struct {
	ID           string  `json:"id,omitempty"`
	Date         string  `json:"date"`
	Type         Type    `json:"type"`
	Description  string  `json:"description"`
	Value        float64 `json:"value"`
	ReceiptURL   string  `json:"receiptUrl,omitempty"`
	Status       Status  `json:"status,omitempty"`
	TechnicianID string  `json:"technicianId,omitempty"`
}

func (dto SaveReimbursementDTO) Validate() error {
	if dto.Date == "" {
		return internal.NewValidationError("date is required", internal.ErrCodeMissingField)
	}
	if _, err := time.Parse("2006-01-02", dto.Date); err != nil {
		return internal.NewValidationError("date must be a calendar day in YYYY-MM-DD form", internal.ErrCodeInvalidDate)
	}
	switch dto.Type {
	case TypeFuel, TypeToll, TypeParking, TypeFood, TypeMaterial, TypeVehicleMaintenance, TypeOther:
	default:
		return internal.NewValidationError("unknown expense type", internal.ErrCodeValidationFailed)
	}
	if dto.Description == "" {
		return internal.NewValidationError("description is required", internal.ErrCodeMissingField)
	}
	if dto.Value <= 0 {
		return internal.NewValidationError("declared value must be greater than zero", internal.ErrCodeValidationFailed)
	}
	if len(dto.ReceiptURL) > MaxReceiptBytes {
		return internal.NewValidationError("receipt attachment is too large", internal.ErrCodeValidationFailed)
	}
	if dto.Status != "" {
		switch dto.Status {
		case StatusPending, StatusApproved, StatusRejected, StatusAwaitingConfirmation, StatusPaid:
		default:
			return internal.NewValidationError("unknown reimbursement status", internal.ErrCodeValidationFailed)
		}
	}
	return nil
}

func (dto SaveReimbursementDTO) ToReimbursement() *Reimbursement {
	status := dto.Status
	if status == "" {
		status = StatusPending
	}
	return &Reimbursement{
		ID:           dto.ID,
		Date:         dto.Date,
		Type:         dto.Type,
		Description:  dto.Description,
		Value:        dto.Value,
		ReceiptURL:   dto.ReceiptURL,
		Status:       status,
		TechnicianID: dto.TechnicianID,
	}
}

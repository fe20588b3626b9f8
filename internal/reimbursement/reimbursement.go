package reimbursement

import (
	"time"

	reimbursementDatamodel "github.com/airotrack/fieldops/internal/core/datamodel/reimbursement"
)

type Type string

const (
	TypeFuel               Type = "FUEL"
	TypeToll               Type = "TOLL"
	TypeParking            Type = "PARKING"
	TypeFood               Type = "FOOD"
	TypeMaterial           Type = "MATERIAL"
	TypeVehicleMaintenance Type = "VEHICLE_MAINTENANCE"
	TypeOther              Type = "OTHER"
)

type Status string

const (
	StatusPending              Status = "PENDING"
	StatusApproved             Status = "APPROVED"
	StatusRejected             Status = "REJECTED"
	StatusAwaitingConfirmation Status = "AWAITING_CONFIRMATION"
	StatusPaid                 Status = "PAID"
)

// VehicleMaintenanceShare is the fixed cost-sharing policy: vehicle
// maintenance is reimbursed at half the declared value, everything else in
// full.
const VehicleMaintenanceShare = 0.5

// Reimbursement is one expense claim declared by a technician.
type Reimbursement struct {
	ID             string  `json:"id"`
	Date           string  `json:"date"`
	Type           Type    `json:"type"`
	Description    string  `json:"description"`
	Value          float64 `json:"value"`
	ReceiptURL     string  `json:"receiptUrl,omitempty"`
	Status         Status  `json:"status"`
	TechnicianID   string  `json:"technicianId"`
	TechnicianName string  `json:"technicianName"`
}

// ReimbursableAmount is the amount actually owed for this claim.
func (r *Reimbursement) ReimbursableAmount() float64 {
	if r.Type == TypeVehicleMaintenance {
		return r.Value * VehicleMaintenanceShare
	}
	return r.Value
}

func (r *Reimbursement) Clone() *Reimbursement {
	clone := *r
	return &clone
}

func ToDataModel(r *Reimbursement) *reimbursementDatamodel.Reimbursement {
	return &reimbursementDatamodel.Reimbursement{
		ID:             r.ID,
		Date:           r.Date,
		Type:           string(r.Type),
		Description:    r.Description,
		Value:          r.Value,
		ReceiptURL:     r.ReceiptURL,
		Status:         string(r.Status),
		TechnicianID:   r.TechnicianID,
		TechnicianName: r.TechnicianName,
		UpdatedAt:      time.Now(),
	}
}

func FromDataModel(r *reimbursementDatamodel.Reimbursement) *Reimbursement {
	return &Reimbursement{
		ID:             r.ID,
		Date:           r.Date,
		Type:           Type(r.Type),
		Description:    r.Description,
		Value:          r.Value,
		ReceiptURL:     r.ReceiptURL,
		Status:         Status(r.Status),
		TechnicianID:   r.TechnicianID,
		TechnicianName: r.TechnicianName,
	}
}

func FromDataModelSlice(rs []*reimbursementDatamodel.Reimbursement) []*Reimbursement {
	result := make([]*Reimbursement, len(rs))
	for i, r := range rs {
		result[i] = FromDataModel(r)
	}
	return result
}

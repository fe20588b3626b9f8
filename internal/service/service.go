package service

import (
	"fmt"
	"time"

	serviceDatamodel "github.com/airotrack/fieldops/internal/core/datamodel/service"
)

type Status string

const (
	StatusCompleted Status = "COMPLETED"
	StatusCancelled Status = "CANCELLED"
)

type Type string

const (
	TypeInstall     Type = "INSTALL"
	TypeMaintenance Type = "MAINTENANCE"
	TypeRemoval     Type = "REMOVAL"
)

type CancelledBy string

const (
	CancelledByCustomer   CancelledBy = "CUSTOMER"
	CancelledByTechnician CancelledBy = "TECHNICIAN"
	CancelledByDispatch   CancelledBy = "DISPATCH"
)

type Company string

const (
	CompanyAiroclube   Company = "Airoclube"
	CompanyAirotracker Company = "Airotracker"
	CompanyCartrac     Company = "Cartrac"
)

var Companies = []Company{CompanyAiroclube, CompanyAirotracker, CompanyCartrac}

// Service is one field visit: an installation, maintenance or removal
// performed by a technician for a customer vehicle. Date is a calendar day
// in ISO form with no time component. IMEI references the installed device;
// the Removed* fields describe a unit taken back during a swap or removal.
type Service struct {
	ID                 string      `json:"id"`
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
	TechnicianName     string      `json:"technicianName"`
	CancellationReason string      `json:"cancellationReason,omitempty"`
	CancelledBy        CancelledBy `json:"cancelledBy,omitempty"`
	IMEI               string      `json:"imei,omitempty"`
	RemovedIMEI        string      `json:"removedImei,omitempty"`
	RemovedModel       string      `json:"removedModel,omitempty"`
	RemovedCompany     Company     `json:"removedCompany,omitempty"`
}

// Label is the attribute pair used to identify the record in
// notifications.
func (s *Service) Label() string {
	return fmt.Sprintf("%s (%s)", s.CustomerName, s.Plate)
}

// Normalize enforces the status-discriminated shape: a completed service
// carries no cancellation details.
func (s *Service) Normalize() {
	if s.Status != StatusCancelled {
		s.CancellationReason = ""
		s.CancelledBy = ""
	}
}

func ToDataModel(s *Service) *serviceDatamodel.Service {
	return &serviceDatamodel.Service{
		ID:                 s.ID,
		Date:               s.Date,
		CustomerName:       s.CustomerName,
		Neighborhood:       s.Neighborhood,
		Type:               string(s.Type),
		Company:            string(s.Company),
		Vehicle:            s.Vehicle,
		Plate:              s.Plate,
		Value:              s.Value,
		Status:             string(s.Status),
		TechnicianID:       s.TechnicianID,
		TechnicianName:     s.TechnicianName,
		CancellationReason: s.CancellationReason,
		CancelledBy:        string(s.CancelledBy),
		IMEI:               s.IMEI,
		RemovedIMEI:        s.RemovedIMEI,
		RemovedModel:       s.RemovedModel,
		RemovedCompany:     string(s.RemovedCompany),
		UpdatedAt:          time.Now(),
	}
}

func FromDataModel(s *serviceDatamodel.Service) *Service {
	return &Service{
		ID:                 s.ID,
		Date:               s.Date,
		CustomerName:       s.CustomerName,
		Neighborhood:       s.Neighborhood,
		Type:               Type(s.Type),
		Company:            Company(s.Company),
		Vehicle:            s.Vehicle,
		Plate:              s.Plate,
		Value:              s.Value,
		Status:             Status(s.Status),
		TechnicianID:       s.TechnicianID,
		TechnicianName:     s.TechnicianName,
		CancellationReason: s.CancellationReason,
		CancelledBy:        CancelledBy(s.CancelledBy),
		IMEI:               s.IMEI,
		RemovedIMEI:        s.RemovedIMEI,
		RemovedModel:       s.RemovedModel,
		RemovedCompany:     Company(s.RemovedCompany),
	}
}

func FromDataModelSlice(services []*serviceDatamodel.Service) []*Service {
	result := make([]*Service, len(services))
	for i, s := range services {
		result[i] = FromDataModel(s)
	}
	return result
}

// Clone returns a shallow copy. Collections in the local state hold
// immutable snapshots; every change goes through a copy.
func (s *Service) Clone() *Service {
	clone := *s
	return &clone
}

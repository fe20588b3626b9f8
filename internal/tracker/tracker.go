package tracker

import (
	"fmt"
	"time"

	trackerDatamodel "github.com/airotrack/fieldops/internal/core/datamodel/tracker"
	"github.com/airotrack/fieldops/internal/service"
)

type Status string

const (
	StatusAvailable Status = "AVAILABLE"
	StatusInstalled Status = "INSTALLED"
	StatusReturned  Status = "RETURNED"
	StatusDefective Status = "DEFECTIVE"
)

// Models is the device catalogue offered when receiving stock.
var Models = []string{
	"Suntech 310",
	"Suntech 8310",
	"Nonus N4",
	"Genérico J16",
	"Lumiar LT32",
	"Lumiar LT32-PRO",
}

// Tracker is one stock unit. The IMEI is a globally unique business key;
// status is driven by service mutations once the unit leaves AVAILABLE.
type Tracker struct {
	ID               string          `json:"id"`
	Date             string          `json:"date"`
	Model            string          `json:"model"`
	IMEI             string          `json:"imei"`
	Company          service.Company `json:"company"`
	Status           Status          `json:"status"`
	TechnicianID     string          `json:"technicianId"`
	TechnicianName   string          `json:"technicianName"`
	InstallationDate string          `json:"installationDate,omitempty"`
}

// Label is the attribute pair used to identify the unit in notifications.
func (t *Tracker) Label() string {
	return fmt.Sprintf("%s · %s", t.Model, t.IMEI)
}

func (t *Tracker) Clone() *Tracker {
	clone := *t
	return &clone
}

func ToDataModel(t *Tracker) *trackerDatamodel.Tracker {
	return &trackerDatamodel.Tracker{
		ID:               t.ID,
		Date:             t.Date,
		Model:            t.Model,
		IMEI:             t.IMEI,
		Company:          string(t.Company),
		Status:           string(t.Status),
		TechnicianID:     t.TechnicianID,
		TechnicianName:   t.TechnicianName,
		InstallationDate: t.InstallationDate,
		UpdatedAt:        time.Now(),
	}
}

func FromDataModel(t *trackerDatamodel.Tracker) *Tracker {
	return &Tracker{
		ID:               t.ID,
		Date:             t.Date,
		Model:            t.Model,
		IMEI:             t.IMEI,
		Company:          service.Company(t.Company),
		Status:           Status(t.Status),
		TechnicianID:     t.TechnicianID,
		TechnicianName:   t.TechnicianName,
		InstallationDate: t.InstallationDate,
	}
}

func FromDataModelSlice(trackers []*trackerDatamodel.Tracker) []*Tracker {
	result := make([]*Tracker, len(trackers))
	for i, t := range trackers {
		result[i] = FromDataModel(t)
	}
	return result
}

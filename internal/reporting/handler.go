package reporting

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/airotrack/fieldops/internal/transport"
	"github.com/airotrack/fieldops/internal/user"
	"github.com/airotrack/fieldops/pkg/logger"
)

type CoordinatorAPI interface {
	Stats(viewer *user.User, inspectedID string, month time.Month, year int) Stats
	ReimbursableTotal(viewer *user.User, inspectedID string, month time.Month, year int) float64
	Offline() bool
}

type Handler struct {
	*transport.BaseHandler
	Coordinator CoordinatorAPI
}

func NewHandler(coordinator CoordinatorAPI) *Handler {
	lg := logger.LoggerWrapper()
	if lg == nil {
		lg = slog.Default()
	}
	return &Handler{
		BaseHandler: transport.NewBaseHandler(lg),
		Coordinator: coordinator,
	}
}

type dashboardResponse struct {
	Stats             Stats   `json:"stats"`
	ReimbursableTotal float64 `json:"reimbursableTotal"`
	Offline           bool    `json:"offline"`
}

// GetDashboard returns the per-period summary the dashboard renders.
// Defaults to the current month when no period is given.
func (h *Handler) GetDashboard(w http.ResponseWriter, r *http.Request) {
	viewer, ok := user.FromContext(r.Context())
	if !ok || viewer == nil {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	month, year, err := parsePeriod(r)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	inspectedID := r.URL.Query().Get("technicianId")
	resp := dashboardResponse{
		Stats:             h.Coordinator.Stats(viewer, inspectedID, month, year),
		ReimbursableTotal: h.Coordinator.ReimbursableTotal(viewer, inspectedID, month, year),
		Offline:           h.Coordinator.Offline(),
	}
	h.WriteJSON(w, http.StatusOK, resp)
}

func parsePeriod(r *http.Request) (time.Month, int, error) {
	now := time.Now()
	month := now.Month()
	year := now.Year()

	if raw := r.URL.Query().Get("month"); raw != "" {
		m, err := strconv.Atoi(raw)
		if err != nil || m < 1 || m > 12 {
			return 0, 0, errors.New("month must be an integer between 1 and 12")
		}
		month = time.Month(m)
	}
	if raw := r.URL.Query().Get("year"); raw != "" {
		y, err := strconv.Atoi(raw)
		if err != nil || y < 2000 || y > 2200 {
			return 0, 0, errors.New("year must be a valid four-digit year")
		}
		year = y
	}
	return month, year, nil
}

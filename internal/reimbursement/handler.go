package reimbursement

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/airotrack/fieldops/internal/transport"
	"github.com/airotrack/fieldops/internal/user"
	"github.com/airotrack/fieldops/pkg/logger"
	"github.com/go-chi/chi"
)

type CoordinatorAPI interface {
	SaveReimbursement(ctx context.Context, actor *user.User, dto SaveReimbursementDTO) (*Reimbursement, error)
	DeleteReimbursement(ctx context.Context, actor *user.User, id string) error
	VisibleReimbursements(viewer *user.User, inspectedID string) []*Reimbursement
	ReimbursableTotal(viewer *user.User, inspectedID string, month time.Month, year int) float64
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

func (h *Handler) ListReimbursements(w http.ResponseWriter, r *http.Request) {
	viewer, ok := user.FromContext(r.Context())
	if !ok || viewer == nil {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	inspectedID := r.URL.Query().Get("technicianId")
	h.WriteJSON(w, http.StatusOK, h.Coordinator.VisibleReimbursements(viewer, inspectedID))
}

// GetTotal returns the reimbursable total for a period, after the
// vehicle-maintenance split.
func (h *Handler) GetTotal(w http.ResponseWriter, r *http.Request) {
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
	total := h.Coordinator.ReimbursableTotal(viewer, inspectedID, month, year)
	h.WriteJSON(w, http.StatusOK, map[string]float64{"total": total})
}

func (h *Handler) CreateReimbursement(w http.ResponseWriter, r *http.Request) {
	actor, ok := user.FromContext(r.Context())
	if !ok || actor == nil {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var dto SaveReimbursementDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.Logger.Error("CreateReimbursement: invalid request body", "error", err)
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	dto.ID = ""

	claim, err := h.Coordinator.SaveReimbursement(r.Context(), actor, dto)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.Logger.Info("CreateReimbursement: claim saved", "reimbursement_id", claim.ID, "actor_id", actor.ID)
	h.WriteJSON(w, http.StatusCreated, claim)
}

func (h *Handler) UpdateReimbursement(w http.ResponseWriter, r *http.Request) {
	actor, ok := user.FromContext(r.Context())
	if !ok || actor == nil {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var dto SaveReimbursementDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.Logger.Error("UpdateReimbursement: invalid request body", "error", err)
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	dto.ID = chi.URLParam(r, "id")

	claim, err := h.Coordinator.SaveReimbursement(r.Context(), actor, dto)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, claim)
}

func (h *Handler) DeleteReimbursement(w http.ResponseWriter, r *http.Request) {
	actor, ok := user.FromContext(r.Context())
	if !ok || actor == nil {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	id := chi.URLParam(r, "id")
	if err := h.Coordinator.DeleteReimbursement(r.Context(), actor, id); err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
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

package tracker

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/airotrack/fieldops/internal/transport"
	"github.com/airotrack/fieldops/internal/user"
	"github.com/airotrack/fieldops/pkg/logger"
	"github.com/go-chi/chi"
)

type CoordinatorAPI interface {
	SaveTracker(ctx context.Context, actor *user.User, dto SaveTrackerDTO) (*Tracker, error)
	DeleteTracker(ctx context.Context, actor *user.User, id string) error
	VisibleTrackers(viewer *user.User) []*Tracker
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

func (h *Handler) ListTrackers(w http.ResponseWriter, r *http.Request) {
	viewer, ok := user.FromContext(r.Context())
	if !ok || viewer == nil {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	h.WriteJSON(w, http.StatusOK, h.Coordinator.VisibleTrackers(viewer))
}

// ListModels returns the device catalogue used by the receive-stock form.
func (h *Handler) ListModels(w http.ResponseWriter, r *http.Request) {
	h.WriteJSON(w, http.StatusOK, Models)
}

func (h *Handler) CreateTracker(w http.ResponseWriter, r *http.Request) {
	actor, ok := user.FromContext(r.Context())
	if !ok || actor == nil {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var dto SaveTrackerDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.Logger.Error("CreateTracker: invalid request body", "error", err)
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	dto.ID = ""

	t, err := h.Coordinator.SaveTracker(r.Context(), actor, dto)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.Logger.Info("CreateTracker: tracker saved", "tracker_id", t.ID, "imei", t.IMEI, "actor_id", actor.ID)
	h.WriteJSON(w, http.StatusCreated, t)
}

func (h *Handler) UpdateTracker(w http.ResponseWriter, r *http.Request) {
	actor, ok := user.FromContext(r.Context())
	if !ok || actor == nil {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var dto SaveTrackerDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.Logger.Error("UpdateTracker: invalid request body", "error", err)
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	dto.ID = chi.URLParam(r, "id")

	t, err := h.Coordinator.SaveTracker(r.Context(), actor, dto)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, t)
}

func (h *Handler) DeleteTracker(w http.ResponseWriter, r *http.Request) {
	actor, ok := user.FromContext(r.Context())
	if !ok || actor == nil {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	id := chi.URLParam(r, "id")
	if err := h.Coordinator.DeleteTracker(r.Context(), actor, id); err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

package service

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
	SaveService(ctx context.Context, actor *user.User, dto SaveServiceDTO) (*Service, error)
	DeleteService(ctx context.Context, actor *user.User, id string) error
	VisibleServices(viewer *user.User, inspectedID string) []*Service
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

func (h *Handler) ListServices(w http.ResponseWriter, r *http.Request) {
	viewer, ok := user.FromContext(r.Context())
	if !ok || viewer == nil {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	inspectedID := r.URL.Query().Get("technicianId")
	h.WriteJSON(w, http.StatusOK, h.Coordinator.VisibleServices(viewer, inspectedID))
}

func (h *Handler) CreateService(w http.ResponseWriter, r *http.Request) {
	actor, ok := user.FromContext(r.Context())
	if !ok || actor == nil {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var dto SaveServiceDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.Logger.Error("CreateService: invalid request body", "error", err)
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	dto.ID = ""

	svc, err := h.Coordinator.SaveService(r.Context(), actor, dto)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.Logger.Info("CreateService: service saved", "service_id", svc.ID, "actor_id", actor.ID)
	h.WriteJSON(w, http.StatusCreated, svc)
}

func (h *Handler) UpdateService(w http.ResponseWriter, r *http.Request) {
	actor, ok := user.FromContext(r.Context())
	if !ok || actor == nil {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var dto SaveServiceDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.Logger.Error("UpdateService: invalid request body", "error", err)
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	dto.ID = chi.URLParam(r, "id")

	svc, err := h.Coordinator.SaveService(r.Context(), actor, dto)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, svc)
}

func (h *Handler) DeleteService(w http.ResponseWriter, r *http.Request) {
	actor, ok := user.FromContext(r.Context())
	if !ok || actor == nil {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	id := chi.URLParam(r, "id")
	if err := h.Coordinator.DeleteService(r.Context(), actor, id); err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

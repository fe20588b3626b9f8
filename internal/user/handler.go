package user

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/airotrack/fieldops/internal/transport"
	"github.com/airotrack/fieldops/pkg/logger"
	"github.com/go-chi/chi"
)

type CoordinatorAPI interface {
	SaveUser(ctx context.Context, actor *User, dto SaveUserDTO) (*User, error)
	DeleteUser(ctx context.Context, actor *User, id string) error
	UpdateProfile(ctx context.Context, actor *User, dto UpdateProfileDTO) (*User, error)
	Technicians() []*User
}

// UserSource lists every account; restricted to administrative roles.
type UserSource interface {
	Users() []*User
}

type Handler struct {
	*transport.BaseHandler
	Coordinator CoordinatorAPI
	Source      UserSource
}

func NewHandler(coordinator CoordinatorAPI, source UserSource) *Handler {
	lg := logger.LoggerWrapper()
	if lg == nil {
		lg = slog.Default()
	}
	return &Handler{
		BaseHandler: transport.NewBaseHandler(lg),
		Coordinator: coordinator,
		Source:      source,
	}
}

func (h *Handler) GetCurrentUser(w http.ResponseWriter, r *http.Request) {
	actor, ok := FromContext(r.Context())
	if !ok || actor == nil {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	h.WriteJSON(w, http.StatusOK, actor)
}

func (h *Handler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	actor, ok := FromContext(r.Context())
	if !ok || actor == nil {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var dto UpdateProfileDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.Logger.Error("UpdateProfile: invalid request body", "error", err)
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	updated, err := h.Coordinator.UpdateProfile(r.Context(), actor, dto)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, updated)
}

// ListUsers returns every account for MASTER and the technician roster
// for ADMIN. Technicians only ever see themselves.
func (h *Handler) ListUsers(w http.ResponseWriter, r *http.Request) {
	actor, ok := FromContext(r.Context())
	if !ok || actor == nil {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	switch {
	case actor.IsMaster():
		h.WriteJSON(w, http.StatusOK, h.Source.Users())
	case actor.IsManager():
		h.WriteJSON(w, http.StatusOK, h.Coordinator.Technicians())
	default:
		h.WriteJSON(w, http.StatusOK, []*User{actor})
	}
}

func (h *Handler) ListTechnicians(w http.ResponseWriter, r *http.Request) {
	actor, ok := FromContext(r.Context())
	if !ok || actor == nil {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	if !actor.IsManager() {
		h.WriteError(w, http.StatusForbidden, "forbidden")
		return
	}
	h.WriteJSON(w, http.StatusOK, h.Coordinator.Technicians())
}

func (h *Handler) CreateUser(w http.ResponseWriter, r *http.Request) {
	actor, ok := FromContext(r.Context())
	if !ok || actor == nil {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var dto SaveUserDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.Logger.Error("CreateUser: invalid request body", "error", err)
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	dto.ID = ""

	created, err := h.Coordinator.SaveUser(r.Context(), actor, dto)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.Logger.Info("CreateUser: account saved", "user_id", created.ID, "actor_id", actor.ID)
	h.WriteJSON(w, http.StatusCreated, created)
}

func (h *Handler) UpdateUser(w http.ResponseWriter, r *http.Request) {
	actor, ok := FromContext(r.Context())
	if !ok || actor == nil {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var dto SaveUserDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.Logger.Error("UpdateUser: invalid request body", "error", err)
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	dto.ID = chi.URLParam(r, "id")

	updated, err := h.Coordinator.SaveUser(r.Context(), actor, dto)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, updated)
}

func (h *Handler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	actor, ok := FromContext(r.Context())
	if !ok || actor == nil {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	id := chi.URLParam(r, "id")
	if err := h.Coordinator.DeleteUser(r.Context(), actor, id); err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

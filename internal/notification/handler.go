package notification

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/airotrack/fieldops/internal/transport"
	"github.com/airotrack/fieldops/internal/user"
	"github.com/airotrack/fieldops/pkg/logger"
	"github.com/go-chi/chi"
)

type CoordinatorAPI interface {
	NotificationsFor(actor *user.User) []*Notification
	MarkNotificationRead(ctx context.Context, actor *user.User, id string) error
	MarkAllNotificationsRead(ctx context.Context, actor *user.User)
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

func (h *Handler) ListNotifications(w http.ResponseWriter, r *http.Request) {
	actor, ok := user.FromContext(r.Context())
	if !ok || actor == nil {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	h.WriteJSON(w, http.StatusOK, h.Coordinator.NotificationsFor(actor))
}

func (h *Handler) MarkRead(w http.ResponseWriter, r *http.Request) {
	actor, ok := user.FromContext(r.Context())
	if !ok || actor == nil {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	id := chi.URLParam(r, "id")
	if err := h.Coordinator.MarkNotificationRead(r.Context(), actor, id); err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, map[string]string{"status": "read"})
}

func (h *Handler) MarkAllRead(w http.ResponseWriter, r *http.Request) {
	actor, ok := user.FromContext(r.Context())
	if !ok || actor == nil {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	h.Coordinator.MarkAllNotificationsRead(r.Context(), actor)
	h.WriteJSON(w, http.StatusOK, map[string]string{"status": "read"})
}

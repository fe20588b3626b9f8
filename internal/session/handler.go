package session

import (
	"log/slog"
	"net/http"

	"github.com/airotrack/fieldops/internal"
	"github.com/airotrack/fieldops/internal/transport"
	"github.com/airotrack/fieldops/pkg/logger"
	"github.com/go-chi/chi"
)

// Handler exposes the one-time seen flags, keyed by feature and period
// (for example the monthly summary splash).
type Handler struct {
	*transport.BaseHandler
	Store Store
}

func NewHandler(store Store) *Handler {
	lg := logger.LoggerWrapper()
	if lg == nil {
		lg = slog.Default()
	}
	return &Handler{
		BaseHandler: transport.NewBaseHandler(lg),
		Store:       store,
	}
}

func (h *Handler) GetSeenFlag(w http.ResponseWriter, r *http.Request) {
	actorID := internal.ActorIDFromContext(r.Context())
	if actorID == "" {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	if h.Store == nil {
		h.WriteJSON(w, http.StatusOK, map[string]bool{"seen": false})
		return
	}

	key := SeenFlagKey(chi.URLParam(r, "feature"), chi.URLParam(r, "period"), actorID)
	value, err := h.Store.Get(r.Context(), ScopeSeenFlags, key)
	if err != nil {
		h.HandleServiceError(w, internal.TranslateRemoteError(err))
		return
	}
	h.WriteJSON(w, http.StatusOK, map[string]bool{"seen": value != nil})
}

func (h *Handler) MarkSeen(w http.ResponseWriter, r *http.Request) {
	actorID := internal.ActorIDFromContext(r.Context())
	if actorID == "" {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	if h.Store == nil {
		h.WriteJSON(w, http.StatusOK, map[string]bool{"seen": true})
		return
	}

	key := SeenFlagKey(chi.URLParam(r, "feature"), chi.URLParam(r, "period"), actorID)
	if err := h.Store.Put(r.Context(), ScopeSeenFlags, key, []byte("1")); err != nil {
		h.HandleServiceError(w, internal.TranslateRemoteError(err))
		return
	}
	h.WriteJSON(w, http.StatusOK, map[string]bool{"seen": true})
}

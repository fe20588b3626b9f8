package auth

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/airotrack/fieldops/internal"
	"github.com/airotrack/fieldops/internal/transport"
	"github.com/airotrack/fieldops/internal/user"
	"github.com/airotrack/fieldops/pkg/logger"
)

type Handler struct {
	*transport.BaseHandler
	Service *Service
}

func NewHandler(svc *Service) *Handler {
	lg := logger.LoggerWrapper()
	if lg == nil {
		lg = slog.Default()
	}
	return &Handler{
		BaseHandler: transport.NewBaseHandler(lg),
		Service:     svc,
	}
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var dto LoginDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	resp, err := h.Service.Authenticate(r.Context(), dto)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, resp)
}

func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	u, ok := user.FromContext(r.Context())
	if !ok {
		h.WriteError(w, http.StatusUnauthorized, "missing authorization token")
		return
	}
	h.Service.Logout(r.Context(), u.ID)
	h.WriteJSON(w, http.StatusOK, map[string]string{"status": "logged out"})
}

// AuthMiddleware resolves the Bearer token to a live account and injects
// it into the request context.
func (h *Handler) AuthMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := h.ExtractTokenFromHeader(r)
		if token == "" {
			h.WriteError(w, http.StatusUnauthorized, "missing authorization token")
			return
		}

		claims, err := h.Service.ValidateAccessToken(token)
		if err != nil {
			h.HandleServiceError(w, err)
			return
		}

		u, err := h.Service.ResolveUser(claims)
		if err != nil {
			h.HandleServiceError(w, err)
			return
		}

		ctx := user.NewContext(r.Context(), u)
		ctx = internal.ContextWithActorID(ctx, u.ID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

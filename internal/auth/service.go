package auth

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/airotrack/fieldops/internal"
	"github.com/airotrack/fieldops/internal/session"
	"github.com/airotrack/fieldops/internal/user"
)

// UserSource resolves accounts from the local state.
type UserSource interface {
	UserByPhone(phone string) *user.User
	UserByID(id string) *user.User
}

// Service is the main auth service with dependencies
type Service struct {
	users    UserSource
	tokens   TokenGenerator
	sessions session.Store
	logger   *slog.Logger
}

func NewService(users UserSource, tokens TokenGenerator, sessions session.Store, logger *slog.Logger) *Service {
	return &Service{
		users:    users,
		tokens:   tokens,
		sessions: sessions,
		logger:   logger,
	}
}

type sessionRecord struct {
	Token    string    `json:"token"`
	IssuedAt time.Time `json:"issued_at"`
}

// Authenticate validates credentials and returns a session token with the
// signed-in user. Passwords are stored in plain text, so the check is a
// direct string comparison.
func (s *Service) Authenticate(ctx context.Context, dto LoginDTO) (*LoginResponse, error) {
	if err := dto.Validate(); err != nil {
		return nil, internal.AsValidationError(err)
	}

	u := s.users.UserByPhone(dto.Phone)
	if u == nil || u.Password != dto.Password {
		return nil, internal.ErrInvalidCredentials
	}
	if !u.IsActive {
		return nil, internal.ErrUserInactive
	}

	token, err := s.tokens.Generate(u.ID)
	if err != nil {
		return nil, internal.NewInternalError("could not issue session token", err)
	}

	s.persistSession(ctx, u.ID, token)

	return &LoginResponse{Token: token, User: u}, nil
}

// persistSession records the issued token best-effort; a failed write
// never blocks the login.
func (s *Service) persistSession(ctx context.Context, userID, token string) {
	if s.sessions == nil {
		return
	}
	payload, err := json.Marshal(sessionRecord{Token: token, IssuedAt: time.Now()})
	if err != nil {
		return
	}
	if err := s.sessions.Put(ctx, session.ScopeSession, userID, payload); err != nil {
		s.logger.Warn("session persist failed", "user_id", userID, "error", err)
	}
}

func (s *Service) ValidateAccessToken(tokenString string) (*Claims, error) {
	claims, err := s.tokens.Validate(tokenString)
	if err != nil {
		return nil, internal.ErrInvalidToken
	}
	return claims, nil
}

// Logout drops the persisted session. The JWT itself stays valid until
// expiry; this only clears the server-side record.
func (s *Service) Logout(ctx context.Context, userID string) {
	if s.sessions == nil {
		return
	}
	if err := s.sessions.Delete(ctx, session.ScopeSession, userID); err != nil {
		s.logger.Warn("session delete failed", "user_id", userID, "error", err)
	}
}

// ResolveUser maps validated claims back to a live account.
func (s *Service) ResolveUser(claims *Claims) (*user.User, error) {
	u := s.users.UserByID(claims.UserID)
	if u == nil {
		return nil, internal.ErrInvalidToken
	}
	if !u.IsActive {
		return nil, internal.ErrUserInactive
	}
	return u, nil
}

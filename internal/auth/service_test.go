package auth_test

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/airotrack/fieldops/internal"
	"github.com/airotrack/fieldops/internal/auth"
	"github.com/airotrack/fieldops/internal/session"
	"github.com/airotrack/fieldops/internal/user"
)

type mockUserSource struct {
	users []*user.User
}

func (m *mockUserSource) UserByPhone(phone string) *user.User {
	for _, u := range m.users {
		if u.Phone == phone {
			return u
		}
	}
	return nil
}

func (m *mockUserSource) UserByID(id string) *user.User {
	for _, u := range m.users {
		if u.ID == id {
			return u
		}
	}
	return nil
}

type mockSessionStore struct {
	records  map[string][]byte
	putError error
}

func (m *mockSessionStore) Put(_ context.Context, scope, key string, value []byte) error {
	if m.putError != nil {
		return m.putError
	}
	if m.records == nil {
		m.records = map[string][]byte{}
	}
	m.records[scope+"/"+key] = value
	return nil
}

func (m *mockSessionStore) Get(_ context.Context, scope, key string) ([]byte, error) {
	return m.records[scope+"/"+key], nil
}

func (m *mockSessionStore) Delete(_ context.Context, scope, key string) error {
	delete(m.records, scope+"/"+key)
	return nil
}

var _ = Describe("Service", func() {
	var (
		ctx      context.Context
		users    *mockUserSource
		sessions *mockSessionStore
		svc      *auth.Service
	)

	BeforeEach(func() {
		ctx = context.Background()
		users = &mockUserSource{users: []*user.User{
			{ID: "3", Name: "José Técnico", Phone: "11999998888", Password: "123", Role: user.RoleTechnician, IsActive: true},
			{ID: "5", Name: "Suspenso", Phone: "11777776666", Password: "123", Role: user.RoleTechnician, IsActive: false},
		}}
		sessions = &mockSessionStore{}
		tokens := auth.NewJWTTokenGenerator("test-secret", time.Hour)
		logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
		svc = auth.NewService(users, tokens, sessions, logger)
	})

	Describe("Authenticate", func() {
		It("signs a user in with phone and password", func() {
			resp, err := svc.Authenticate(ctx, auth.LoginDTO{Phone: "11999998888", Password: "123"})

			Expect(err).ToNot(HaveOccurred())
			Expect(resp.Token).ToNot(BeEmpty())
			Expect(resp.User.ID).To(Equal("3"))
		})

		It("records the issued session", func() {
			_, err := svc.Authenticate(ctx, auth.LoginDTO{Phone: "11999998888", Password: "123"})

			Expect(err).ToNot(HaveOccurred())
			Expect(sessions.records).To(HaveKey(session.ScopeSession + "/3"))
		})

		It("still signs in when the session write fails", func() {
			sessions.putError = errors.New("connection refused")

			resp, err := svc.Authenticate(ctx, auth.LoginDTO{Phone: "11999998888", Password: "123"})

			Expect(err).ToNot(HaveOccurred())
			Expect(resp.Token).ToNot(BeEmpty())
		})

		It("rejects an unknown phone", func() {
			_, err := svc.Authenticate(ctx, auth.LoginDTO{Phone: "000", Password: "123"})
			Expect(errors.Is(err, internal.ErrInvalidCredentials)).To(BeTrue())
		})

		It("rejects a wrong password", func() {
			_, err := svc.Authenticate(ctx, auth.LoginDTO{Phone: "11999998888", Password: "wrong"})
			Expect(errors.Is(err, internal.ErrInvalidCredentials)).To(BeTrue())
		})

		It("rejects a suspended account after the password check", func() {
			_, err := svc.Authenticate(ctx, auth.LoginDTO{Phone: "11777776666", Password: "123"})
			Expect(errors.Is(err, internal.ErrUserInactive)).To(BeTrue())
		})

		It("rejects an empty payload", func() {
			_, err := svc.Authenticate(ctx, auth.LoginDTO{})
			Expect(err).To(HaveOccurred())
		})
	})

	Describe("ValidateAccessToken", func() {
		It("round-trips an issued token back to its claims", func() {
			resp, err := svc.Authenticate(ctx, auth.LoginDTO{Phone: "11999998888", Password: "123"})
			Expect(err).ToNot(HaveOccurred())

			claims, err := svc.ValidateAccessToken(resp.Token)

			Expect(err).ToNot(HaveOccurred())
			Expect(claims.UserID).To(Equal("3"))
		})

		It("rejects garbage", func() {
			_, err := svc.ValidateAccessToken("not-a-token")
			Expect(errors.Is(err, internal.ErrInvalidToken)).To(BeTrue())
		})

		It("rejects a token signed with another secret", func() {
			other := auth.NewJWTTokenGenerator("other-secret", time.Hour)
			token, err := other.Generate("3")
			Expect(err).ToNot(HaveOccurred())

			_, err = svc.ValidateAccessToken(token)
			Expect(errors.Is(err, internal.ErrInvalidToken)).To(BeTrue())
		})

		It("rejects an expired token", func() {
			expired := auth.NewJWTTokenGenerator("test-secret", -time.Minute)
			token, err := expired.Generate("3")
			Expect(err).ToNot(HaveOccurred())

			_, err = svc.ValidateAccessToken(token)
			Expect(errors.Is(err, internal.ErrInvalidToken)).To(BeTrue())
		})
	})

	Describe("ResolveUser", func() {
		It("maps claims back to the live account", func() {
			u, err := svc.ResolveUser(&auth.Claims{UserID: "3"})

			Expect(err).ToNot(HaveOccurred())
			Expect(u.Name).To(Equal("José Técnico"))
		})

		It("rejects claims for a deleted account", func() {
			_, err := svc.ResolveUser(&auth.Claims{UserID: "missing"})
			Expect(errors.Is(err, internal.ErrInvalidToken)).To(BeTrue())
		})

		It("rejects claims for a suspended account", func() {
			_, err := svc.ResolveUser(&auth.Claims{UserID: "5"})
			Expect(errors.Is(err, internal.ErrUserInactive)).To(BeTrue())
		})
	})

	Describe("Logout", func() {
		It("drops the persisted session", func() {
			_, err := svc.Authenticate(ctx, auth.LoginDTO{Phone: "11999998888", Password: "123"})
			Expect(err).ToNot(HaveOccurred())

			svc.Logout(ctx, "3")

			Expect(sessions.records).ToNot(HaveKey(session.ScopeSession + "/3"))
		})
	})
})

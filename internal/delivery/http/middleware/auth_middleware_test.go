package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"go-disaster-management/config"
	"go-disaster-management/internal/domain/entity"
	"go-disaster-management/pkg/jwt"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAuthTestSetup(t *testing.T) (*AuthMiddleware, *jwt.JWTService, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	jwtService := jwt.NewJWTService(config.JWTConfig{Secret: "test-secret", SessionExpiry: time.Hour})
	return NewAuthMiddleware(jwtService, client), jwtService, mr
}

// issueSession generates a token and registers it as live.
func issueSession(t *testing.T, jwtService *jwt.JWTService, mr *miniredis.Miniredis, userID uuid.UUID, roleID int) string {
	t.Helper()

	token, tokenID, err := jwtService.GenerateSessionToken(userID, "user@example.com", roleID)
	require.NoError(t, err)
	require.NoError(t, mr.Set("session:"+userID.String()+":"+tokenID, "valid"))
	return token
}

func TestAuthenticateAttachesIdentity(t *testing.T) {
	middleware, jwtService, mr := newAuthTestSetup(t)
	userID := uuid.New()
	token := issueSession(t, jwtService, mr, userID, entity.RoleIDAuthority)

	var gotUserID uuid.UUID
	var gotRoleID int
	handler := middleware.Authenticate(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUserID, _ = GetUserIDFromContext(r.Context())
		gotRoleID, _ = GetRoleIDFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, userID, gotUserID)
	assert.Equal(t, entity.RoleIDAuthority, gotRoleID)
}

func TestAuthenticateAcceptsSessionCookie(t *testing.T) {
	middleware, jwtService, mr := newAuthTestSetup(t)
	token := issueSession(t, jwtService, mr, uuid.New(), entity.RoleIDUser)

	handler := middleware.Authenticate(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: token})
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestAuthenticateRejectsMissingToken(t *testing.T) {
	middleware, _, _ := newAuthTestSetup(t)

	handler := middleware.Authenticate(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler must not run")
	}))

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthenticateRejectsGarbageToken(t *testing.T) {
	middleware, _, _ := newAuthTestSetup(t)

	handler := middleware.Authenticate(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler must not run")
	}))

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer not-a-token")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthenticateRejectsRevokedSession(t *testing.T) {
	middleware, jwtService, mr := newAuthTestSetup(t)
	userID := uuid.New()
	token := issueSession(t, jwtService, mr, userID, entity.RoleIDUser)

	// Revoke every session for the account.
	mr.FlushAll()

	handler := middleware.Authenticate(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler must not run")
	}))

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"go-disaster-management/internal/domain/entity"

	"github.com/stretchr/testify/assert"
)

func requestWithRole(roleID int) *http.Request {
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	ctx := context.WithValue(req.Context(), RoleIDKey, roleID)
	return req.WithContext(ctx)
}

func serveWithGate(gate func(http.Handler) http.Handler, req *http.Request) *httptest.ResponseRecorder {
	handler := gate(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func TestRequireAdmin(t *testing.T) {
	tests := []struct {
		roleID int
		want   int
	}{
		{entity.RoleIDAdmin, http.StatusOK},
		{entity.RoleIDAuthority, http.StatusForbidden},
		{entity.RoleIDVolunteer, http.StatusForbidden},
		{entity.RoleIDUser, http.StatusForbidden},
	}
	for _, tt := range tests {
		rec := serveWithGate(RequireAdmin, requestWithRole(tt.roleID))
		assert.Equal(t, tt.want, rec.Code, "role %d", tt.roleID)
	}
}

func TestRequireAuthority(t *testing.T) {
	tests := []struct {
		roleID int
		want   int
	}{
		{entity.RoleIDAdmin, http.StatusOK},
		{entity.RoleIDAuthority, http.StatusOK},
		{entity.RoleIDVolunteer, http.StatusForbidden},
		{entity.RoleIDUser, http.StatusForbidden},
	}
	for _, tt := range tests {
		rec := serveWithGate(RequireAuthority, requestWithRole(tt.roleID))
		assert.Equal(t, tt.want, rec.Code, "role %d", tt.roleID)
	}
}

func TestRequireVolunteer(t *testing.T) {
	tests := []struct {
		roleID int
		want   int
	}{
		{entity.RoleIDAdmin, http.StatusOK},
		{entity.RoleIDAuthority, http.StatusOK},
		{entity.RoleIDVolunteer, http.StatusOK},
		{entity.RoleIDUser, http.StatusForbidden},
	}
	for _, tt := range tests {
		rec := serveWithGate(RequireVolunteer, requestWithRole(tt.roleID))
		assert.Equal(t, tt.want, rec.Code, "role %d", tt.roleID)
	}
}

func TestRequireRoleWithoutIdentity(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	rec := serveWithGate(RequireAdmin, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

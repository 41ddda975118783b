package admin

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestAuthRoutes_UnauthorizedWithoutToken(t *testing.T) {
	h := NewHandler(nil)
	mw := AuthMiddleware(nil, nil)
	r := h.AuthRoutes(mw)

	req := httptest.NewRequest(http.MethodGet, "/verify", nil)
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)
	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rr.Code)
	}
}

func TestRequirePermission_ForbiddenWithoutRole(t *testing.T) {
	mw := RequirePermission(PermManageAdmins)
	h := mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK) }))
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	if rr.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", rr.Code)
	}
}

func TestRequirePermission_ModeratorCannotGrantCredits(t *testing.T) {
	mw := RequirePermission(PermGrantCredits)
	h := mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK) }))

	req := httptest.NewRequest(http.MethodPost, "/", nil)
	ctx := context.WithValue(req.Context(), ContextAdminRole, RoleModerator)
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req.WithContext(ctx))
	if rr.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", rr.Code)
	}

	req = httptest.NewRequest(http.MethodPost, "/", nil)
	ctx = context.WithValue(req.Context(), ContextAdminRole, RoleAdmin)
	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, req.WithContext(ctx))
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
}

func TestRolePermissions(t *testing.T) {
	if !HasPermission(RoleAdmin, PermManageOfficers) {
		t.Error("admin must manage officers")
	}
	if HasPermission(RoleModerator, PermManageOfficers) {
		t.Error("moderator must not manage officers")
	}
	if !HasPermission(RoleModerator, PermReviewQueries) {
		t.Error("moderator must review queries")
	}
	if HasPermission(Role("unknown"), PermViewDashboard) {
		t.Error("unknown role has no permissions")
	}
}

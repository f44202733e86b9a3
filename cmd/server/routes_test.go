package main

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"vnbank.backend/internal/interfaces/http/handlers"
)

func emptyRouteDeps() routeDeps {
	return routeDeps{
		authHandler:         &handlers.AuthHandler{},
		accountHandler:      &handlers.AccountHandler{},
		transferHandler:     &handlers.TransferHandler{},
		reminderHandler:     &handlers.ReminderHandler{},
		notificationHandler: &handlers.NotificationHandler{},
		userHandler:         &handlers.UserHandler{},
		authMiddleware:      func(c *gin.Context) { c.Next() },
	}
}

func TestRegisterAPIV1Routes_RegistersKeyRoutes(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	registerAPIV1Routes(r, emptyRouteDeps())

	expects := []struct {
		method string
		path   string
	}{
		{"POST", "/api/v1/auth/register"},
		{"POST", "/api/v1/auth/login"},
		{"POST", "/api/v1/auth/refresh"},
		{"GET", "/api/v1/auth/me"},
		{"GET", "/api/v1/accounts"},
		{"GET", "/api/v1/accounts/:id"},
		{"GET", "/api/v1/accounts/:id/history"},
		{"POST", "/api/v1/accounts/:id/deposit"},
		{"POST", "/api/v1/accounts/:id/withdraw"},
		{"PUT", "/api/v1/accounts/:id/status"},
		{"POST", "/api/v1/transfers"},
		{"GET", "/api/v1/reminders"},
		{"POST", "/api/v1/reminders"},
		{"GET", "/api/v1/reminders/all"},
		{"DELETE", "/api/v1/reminders/:id"},
		{"GET", "/api/v1/notifications"},
		{"POST", "/api/v1/notifications/:id/read"},
		{"POST", "/api/v1/notifications/read-all"},
		{"GET", "/api/v1/users"},
		{"POST", "/api/v1/users"},
		{"GET", "/api/v1/users/:id"},
		{"PUT", "/api/v1/users/:id"},
		{"DELETE", "/api/v1/users/:id"},
		{"GET", "/api/v1/users/:id/accounts"},
		{"POST", "/api/v1/users/:id/accounts"},
		{"GET", "/api/v1/admin/accounts"},
	}

	routes := r.Routes()
	if len(routes) != len(expects) {
		t.Fatalf("expected %d routes, got %d", len(expects), len(routes))
	}
	for _, exp := range expects {
		found := false
		for _, route := range routes {
			if route.Method == exp.method && route.Path == exp.path {
				found = true
				break
			}
		}
		if !found {
			t.Fatalf("route %s %s not registered", exp.method, exp.path)
		}
	}
}

func TestRegisterAPIV1Routes_StaffRoutesRejectMissingRole(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	registerHealthRoute(r)
	registerAPIV1Routes(r, emptyRouteDeps())

	for _, path := range []string{"/api/v1/users", "/api/v1/admin/accounts"} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("%s: expected 401 without a role, got %d", path, rec.Code)
		}
	}

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

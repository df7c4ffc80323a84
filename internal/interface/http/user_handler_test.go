package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/talentlink/talentlink-api/internal/application"
	"github.com/talentlink/talentlink-api/internal/interface/middleware"
	"github.com/talentlink/talentlink-api/pkg/helpers"
)

func newProfileRouter() (*gin.Engine, *application.Service) {
	repo := newMemRepo()
	jwt := helpers.NewJWTManager("handler-test-secret", "talentlink", "talentlink-clients", 60)
	svc := application.NewService(repo, jwt, nil)
	h := NewUserHandler(svc, nil)

	r := gin.New()
	// Redis is nil here, so Auth only validates the token.
	auth := r.Group("/api")
	auth.Use(middleware.Auth(nil, jwt))
	auth.GET("/me", h.Me)
	return r, svc
}

func TestMeEndpoint(t *testing.T) {
	r, svc := newProfileRouter()
	ctx := t.Context()

	if _, err := svc.Register(ctx, application.RegisterInput{
		Name: "Sam", Email: "s@x.com", Password: "hunter2hunter2", Role: 0,
	}); err != nil {
		t.Fatalf("register: %v", err)
	}
	res, err := svc.Login(ctx, "s@x.com", "hunter2hunter2")
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/me", nil)
	req.Header.Set("Authorization", "Bearer "+res.Token)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d (body %s)", w.Code, w.Body.String())
	}
	var env envelope
	if err := json.Unmarshal(w.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode envelope: %v", err)
	}
	var profile struct {
		ID    string `json:"id"`
		Email string `json:"email"`
		Role  string `json:"role"`
	}
	if err := json.Unmarshal(env.Data, &profile); err != nil {
		t.Fatalf("decode profile: %v", err)
	}
	if profile.Email != "s@x.com" || profile.Role != "Student" {
		t.Errorf("profile = %+v", profile)
	}
}

func TestMeEndpoint_Unauthorized(t *testing.T) {
	r, _ := newProfileRouter()

	req := httptest.NewRequest(http.MethodGet, "/api/me", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", w.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/api/me", nil)
	req.Header.Set("Authorization", "Bearer not-a-token")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", w.Code)
	}
}

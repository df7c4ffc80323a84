package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/talentlink/talentlink-api/internal/application"
	"github.com/talentlink/talentlink-api/internal/domain/entity"
	"github.com/talentlink/talentlink-api/internal/domain/repository"
	"github.com/talentlink/talentlink-api/pkg/helpers"
	"github.com/talentlink/talentlink-api/pkg/validation"
)

func init() {
	gin.SetMode(gin.TestMode)
	validation.Init()
}

// memRepo is a minimal in-memory credential store for handler tests.
type memRepo struct {
	mu     sync.Mutex
	users  map[string]*entity.User
	links  map[string]string // studentID -> parentID
	nextID int
}

func newMemRepo() *memRepo {
	return &memRepo{users: make(map[string]*entity.User), links: make(map[string]string)}
}

func (m *memRepo) Create(_ context.Context, u *entity.User, password string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, e := range m.users {
		if e.Email == u.Email {
			return errors.New("duplicate email")
		}
	}
	hash, err := helpers.HashPassword(password)
	if err != nil {
		return err
	}
	u.PasswordHash = hash
	m.nextID++
	u.ID = fmt.Sprintf("user-%d", m.nextID)
	u.CreatedAt = time.Now()
	u.UpdatedAt = u.CreatedAt
	cp := *u
	m.users[u.ID] = &cp
	return nil
}

func (m *memRepo) GetByID(_ context.Context, id string) (*entity.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return m.view(u), nil
}

func (m *memRepo) GetByEmail(_ context.Context, email string) (*entity.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Email == email {
			return m.view(u), nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m *memRepo) Update(_ context.Context, u *entity.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *u
	m.users[u.ID] = &cp
	return nil
}

func (m *memRepo) AddVerificationLink(_ context.Context, parentID, studentID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.links[studentID] = parentID
	return nil
}

func (m *memRepo) view(u *entity.User) *entity.User {
	cp := *u
	cp.VerifiedByParentID = nil
	if pid, ok := m.links[u.ID]; ok {
		cp.VerifiedByParentID = &pid
	}
	return &cp
}

type envelope struct {
	Status  int             `json:"status"`
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func newTestRouter() (*gin.Engine, *memRepo) {
	repo := newMemRepo()
	jwt := helpers.NewJWTManager("handler-test-secret", "talentlink", "talentlink-clients", 60)
	svc := application.NewService(repo, jwt, nil)
	h := NewAuthHandler(svc, nil, "localhost", false)

	r := gin.New()
	r.POST("/api/auth/register", h.Register)
	r.POST("/api/auth/login", h.Login)
	return r, repo
}

func doJSON(t *testing.T, r *gin.Engine, method, path string, body any) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	b, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("marshal request: %v", err)
	}
	req := httptest.NewRequest(method, path, bytes.NewReader(b))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var env envelope
	if err := json.Unmarshal(w.Body.Bytes(), &env); err != nil {
		t.Fatalf("unmarshal envelope: %v (body %s)", err, w.Body.String())
	}
	return w, env
}

func TestRegisterEndpoint(t *testing.T) {
	r, _ := newTestRouter()

	w, env := doJSON(t, r, http.MethodPost, "/api/auth/register", gin.H{
		"name": "Sam", "email": "s@x.com", "password": "hunter2hunter2", "role": 0,
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201 (body %s)", w.Code, w.Body.String())
	}
	if !env.Success {
		t.Error("expected success envelope")
	}
}

func TestRegisterEndpoint_InvalidRole(t *testing.T) {
	r, repo := newTestRouter()

	w, env := doJSON(t, r, http.MethodPost, "/api/auth/register", gin.H{
		"name": "Sam", "email": "s@x.com", "password": "hunter2hunter2", "role": 9,
	})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
	if env.Message != "invalid role" {
		t.Errorf("message = %q, want %q", env.Message, "invalid role")
	}
	if len(repo.users) != 0 {
		t.Error("invalid role must not persist a user")
	}
}

func TestRegisterEndpoint_InvalidPayload(t *testing.T) {
	r, _ := newTestRouter()

	// Password below the pwd minimum.
	w, _ := doJSON(t, r, http.MethodPost, "/api/auth/register", gin.H{
		"name": "Sam", "email": "s@x.com", "password": "short", "role": 0,
	})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
}

func TestLoginEndpoint_StudentVerifiedField(t *testing.T) {
	r, _ := newTestRouter()

	// Student first, then the parent who names the student's email.
	if w, _ := doJSON(t, r, http.MethodPost, "/api/auth/register", gin.H{
		"name": "Sam", "email": "s@x.com", "password": "hunter2hunter2", "role": 0,
	}); w.Code != http.StatusCreated {
		t.Fatalf("register student = %d", w.Code)
	}
	if w, _ := doJSON(t, r, http.MethodPost, "/api/auth/register", gin.H{
		"name": "Pat", "email": "p@x.com", "password": "hunter2hunter2", "role": 2,
		"student_email": "s@x.com",
	}); w.Code != http.StatusCreated {
		t.Fatalf("register parent = %d", w.Code)
	}

	// Parent login carries the parent id we need for the assertion.
	w, env := doJSON(t, r, http.MethodPost, "/api/auth/login", gin.H{
		"email": "p@x.com", "password": "hunter2hunter2",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("parent login = %d (body %s)", w.Code, w.Body.String())
	}
	var parentBody map[string]any
	if err := json.Unmarshal(env.Data, &parentBody); err != nil {
		t.Fatalf("decode parent login: %v", err)
	}
	if _, present := parentBody["verified_by_parent_id"]; present {
		t.Error("non-student login must not include verified_by_parent_id")
	}
	parentID, _ := parentBody["id"].(string)
	if parentID == "" {
		t.Fatal("parent login missing id")
	}

	w, env = doJSON(t, r, http.MethodPost, "/api/auth/login", gin.H{
		"email": "s@x.com", "password": "hunter2hunter2",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("student login = %d", w.Code)
	}
	var studentBody struct {
		Token              string  `json:"token"`
		ID                 string  `json:"id"`
		Name               string  `json:"name"`
		Email              string  `json:"email"`
		Role               string  `json:"role"`
		VerifiedByParentID *string `json:"verified_by_parent_id"`
	}
	if err := json.Unmarshal(env.Data, &studentBody); err != nil {
		t.Fatalf("decode student login: %v", err)
	}
	if studentBody.Token == "" {
		t.Error("student login missing token")
	}
	if studentBody.Role != "Student" {
		t.Errorf("role = %q, want Student", studentBody.Role)
	}
	if studentBody.VerifiedByParentID == nil || *studentBody.VerifiedByParentID != parentID {
		t.Errorf("verified_by_parent_id = %v, want %s", studentBody.VerifiedByParentID, parentID)
	}
}

// brokenSignerService fails after authentication, as a dead signing
// key or session store would.
type brokenSignerService struct{}

func (brokenSignerService) Register(context.Context, application.RegisterInput) (*entity.User, error) {
	return nil, errors.New("unused")
}

func (brokenSignerService) Login(context.Context, string, string) (*application.LoginResult, error) {
	return nil, errors.New("sign token: key unavailable")
}

func (brokenSignerService) Logout(context.Context, string) {}

func TestLoginEndpoint_ServerFaultIs500(t *testing.T) {
	h := NewAuthHandler(brokenSignerService{}, nil, "localhost", false)
	r := gin.New()
	r.POST("/api/auth/login", h.Login)

	w, env := doJSON(t, r, http.MethodPost, "/api/auth/login", gin.H{
		"email": "s@x.com", "password": "hunter2hunter2",
	})
	if w.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", w.Code)
	}
	if env.Message == "invalid credentials" {
		t.Error("server fault must not masquerade as a credential failure")
	}
}

func TestLoginEndpoint_GenericUnauthorized(t *testing.T) {
	r, _ := newTestRouter()

	if w, _ := doJSON(t, r, http.MethodPost, "/api/auth/register", gin.H{
		"name": "Sam", "email": "s@x.com", "password": "hunter2hunter2", "role": 0,
	}); w.Code != http.StatusCreated {
		t.Fatalf("register = %d", w.Code)
	}

	wrongPwd, wrongPwdEnv := doJSON(t, r, http.MethodPost, "/api/auth/login", gin.H{
		"email": "s@x.com", "password": "not-the-password",
	})
	unknown, unknownEnv := doJSON(t, r, http.MethodPost, "/api/auth/login", gin.H{
		"email": "ghost@x.com", "password": "not-the-password",
	})

	if wrongPwd.Code != http.StatusUnauthorized || unknown.Code != http.StatusUnauthorized {
		t.Fatalf("statuses = %d/%d, want 401/401", wrongPwd.Code, unknown.Code)
	}
	// Identical failure shape regardless of which field was wrong.
	if wrongPwdEnv.Message != unknownEnv.Message {
		t.Errorf("messages differ: %q vs %q", wrongPwdEnv.Message, unknownEnv.Message)
	}
	if wrongPwdEnv.Message != "invalid credentials" {
		t.Errorf("message = %q, want %q", wrongPwdEnv.Message, "invalid credentials")
	}
}

package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/talentlink/talentlink-api/internal/application"
	"github.com/talentlink/talentlink-api/internal/domain/entity"
	"github.com/talentlink/talentlink-api/pkg/helpers"
	"github.com/talentlink/talentlink-api/pkg/response"
	"github.com/talentlink/talentlink-api/pkg/validation"
)

// AuthService is the slice of the application service this surface
// consumes.
type AuthService interface {
	Register(ctx context.Context, in application.RegisterInput) (*entity.User, error)
	Login(ctx context.Context, email, password string) (*application.LoginResult, error)
	Logout(ctx context.Context, userID string)
}

// AuthHandler is the outward-facing register/login facade.
type AuthHandler struct {
	Svc     AuthService
	Logger  *logrus.Logger
	Cookies *helpers.Manager
}

func NewAuthHandler(svc AuthService, logger *logrus.Logger, cookieDomain string, cookieSecure bool) *AuthHandler {
	return &AuthHandler{Svc: svc, Logger: logger, Cookies: helpers.NewCookie(cookieDomain, cookieSecure)}
}

type registerRequest struct {
	Name         string `json:"name" binding:"required"`
	Email        string `json:"email" binding:"required,email"`
	Password     string `json:"password" binding:"required,pwd"`
	Role         int    `json:"role"`
	StudentEmail string `json:"student_email" binding:"omitempty,email"`
}

type loginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type loginResponse struct {
	Token              string  `json:"token"`
	ID                 string  `json:"id"`
	Name               string  `json:"name"`
	Email              string  `json:"email"`
	Role               string  `json:"role"`
	VerifiedByParentID *string `json:"verified_by_parent_id,omitempty"`
}

// Register creates an account. Parents may pass student_email to verify
// an existing student account. No token is issued here.
func (h *AuthHandler) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}

	u, err := h.Svc.Register(c.Request.Context(), application.RegisterInput{
		Name:         req.Name,
		Email:        req.Email,
		Password:     req.Password,
		Role:         req.Role,
		StudentEmail: req.StudentEmail,
	})
	if err != nil {
		if errors.Is(err, entity.ErrInvalidRole) {
			response.Error[any](c, http.StatusBadRequest, "invalid role", nil)
			return
		}
		if h.Logger != nil {
			h.Logger.WithError(err).WithField("email", req.Email).Warn("registration failed")
		}
		response.Error[any](c, http.StatusBadRequest, "registration failed", err.Error())
		return
	}

	response.Success(c, http.StatusCreated, gin.H{"id": u.ID}, "registered")
}

// Login authenticates and returns the signed token plus the account
// summary. Every failure is the same generic unauthorized answer.
func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}

	res, err := h.Svc.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, application.ErrInvalidCredentials) {
			response.Error[any](c, http.StatusUnauthorized, "invalid credentials", nil)
			return
		}
		// Anything past authentication (token signing, session store)
		// is a server fault, not a credential fault.
		if h.Logger != nil {
			h.Logger.WithError(err).WithField("email", req.Email).Error("login failed")
		}
		response.Error[any](c, http.StatusInternalServerError, "login failed", nil)
		return
	}

	u := res.User
	body := loginResponse{
		Token: res.Token,
		ID:    u.ID,
		Name:  u.Name,
		Email: u.Email,
		Role:  u.Role.String(),
	}
	if u.IsStudent() {
		body.VerifiedByParentID = u.VerifiedByParentID
	}

	h.Cookies.SetToken(c, res.Token, res.ExpiresAt)
	response.Success(c, http.StatusOK, body, "login successful")
}

// Logout clears the cookie and the session record.
func (h *AuthHandler) Logout(c *gin.Context) {
	h.Svc.Logout(c.Request.Context(), c.GetString("userID"))
	h.Cookies.Clear(c)
	response.Success[any](c, http.StatusOK, gin.H{"logged_out": true}, "logged out")
}

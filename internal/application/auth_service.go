package application

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"cloud.google.com/go/storage"
	"github.com/elastic/go-elasticsearch/v8"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/talentlink/talentlink-api/internal/domain/entity"
	repo "github.com/talentlink/talentlink-api/internal/domain/repository"
	"github.com/talentlink/talentlink-api/pkg/helpers"
	"github.com/talentlink/talentlink-api/pkg/mailer"
)

var (
	// ErrInvalidCredentials covers unknown email and wrong password
	// alike so callers cannot probe which emails are registered.
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserNotFound       = errors.New("user not found")
)

// Service carries the identity workflows: registration with the
// parent→student verification side effect, credential authentication
// and token issuance. Redis, Elasticsearch, RabbitMQ and GCS are
// optional; a nil client disables that concern.
type Service struct {
	Repo         repo.UserRepository
	JWT          *helpers.JWTManager
	Redis        *redis.Client
	Logger       *logrus.Logger
	ES           *elasticsearch.Client
	ESUsersIndex string
	Pub          *helpers.RabbitPublisher
	GCS          *storage.Client
	GCSBucket    string
	MailEnabled  bool
}

func NewService(repo repo.UserRepository, jwt *helpers.JWTManager, logger *logrus.Logger) *Service {
	return &Service{Repo: repo, JWT: jwt, Logger: logger}
}

func sessionKey(userID string) string {
	return "user:session:" + userID
}

func nowRFC3339() string {
	return time.Now().UTC().Format(time.RFC3339Nano)
}

type RegisterInput struct {
	Name         string
	Email        string
	Password     string
	Role         int
	StudentEmail string // optional; only meaningful when registering a Parent
}

// Register creates a role-typed account and persists it. When the new
// account is a Parent and a child email was supplied, the referenced
// Student is linked to the parent via a verification record; a missing
// or non-student child is silently skipped. Registration never issues
// a token.
func (s *Service) Register(ctx context.Context, in RegisterInput) (*entity.User, error) {
	role, err := entity.RoleFromSelector(in.Role)
	if err != nil {
		return nil, err
	}

	u := &entity.User{
		Name:  in.Name,
		Email: in.Email,
		Role:  role,
	}
	if err := s.Repo.Create(ctx, u, in.Password); err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}

	if u.IsParent() && strings.TrimSpace(in.StudentEmail) != "" {
		if err := s.linkStudent(ctx, u, strings.TrimSpace(in.StudentEmail)); err != nil {
			return nil, err
		}
	}

	_ = s.indexUser(ctx, u)
	s.enqueueEmail(ctx, mailer.EmailJob{
		To:       u.Email,
		Template: "welcome",
		Data:     map[string]any{"Name": u.Name, "Email": u.Email, "Role": u.Role.String()},
	})

	return u, nil
}

// linkStudent looks up the child account and, when it is a Student,
// records exactly one verification link for this registration call.
// The link table is the source of truth; the student row itself is not
// rewritten. An absent or non-student child is skipped; a failing
// store is not.
func (s *Service) linkStudent(ctx context.Context, parent *entity.User, childEmail string) error {
	child, err := s.Repo.GetByEmail(ctx, childEmail)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil
		}
		return fmt.Errorf("find student: %w", err)
	}
	if !child.IsStudent() {
		return nil
	}

	child.VerifiedByParentID = &parent.ID
	if err := s.Repo.AddVerificationLink(ctx, parent.ID, child.ID); err != nil {
		return fmt.Errorf("add verification link: %w", err)
	}

	s.enqueueEmail(ctx, mailer.EmailJob{
		To:       child.Email,
		Template: "student_verified",
		Data:     map[string]any{"Name": child.Name, "ParentName": parent.Name},
	})
	return nil
}

// Authenticate validates email/password and returns the account with
// its variant intact. Lookup failure and hash mismatch produce the
// same error value.
func (s *Service) Authenticate(ctx context.Context, email, password string) (*entity.User, error) {
	u, err := s.Repo.GetByEmail(ctx, email)
	if err != nil || u == nil {
		return nil, ErrInvalidCredentials
	}
	if !helpers.VerifyPassword(password, u.PasswordHash) {
		return nil, ErrInvalidCredentials
	}
	return u, nil
}

type LoginResult struct {
	Token     string
	ExpiresAt time.Time
	User      *entity.User
}

// Login authenticates, issues a signed token and records the session.
func (s *Service) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	u, err := s.Authenticate(ctx, email, password)
	if err != nil {
		return nil, err
	}

	token, exp, err := s.JWT.Generate(u)
	if err != nil {
		if s.Logger != nil {
			s.Logger.WithError(err).WithField("user_id", u.ID).Error("generate token failed")
		}
		return nil, err
	}

	s.recordSession(ctx, u, exp)

	return &LoginResult{Token: token, ExpiresAt: exp, User: u}, nil
}

// Logout drops the redis session record for the user.
func (s *Service) Logout(ctx context.Context, userID string) {
	if s.Redis == nil || userID == "" {
		return
	}
	if err := s.Redis.Del(ctx, sessionKey(userID)).Err(); err != nil && s.Logger != nil {
		s.Logger.WithError(err).WithField("user_id", userID).Warn("session delete failed")
	}
}

func (s *Service) recordSession(ctx context.Context, u *entity.User, exp time.Time) {
	if s.Redis == nil {
		return
	}
	fields := map[string]any{
		"user_id":    u.ID,
		"email":      u.Email,
		"name":       u.Name,
		"role":       u.Role.String(),
		"logged_in":  true,
		"created_at": nowRFC3339(),
	}
	key := sessionKey(u.ID)
	pipe := s.Redis.Pipeline()
	pipe.HSet(ctx, key, fields)
	pipe.Expire(ctx, key, time.Until(exp))
	if _, err := pipe.Exec(ctx); err != nil && s.Logger != nil {
		s.Logger.WithError(err).WithField("key", key).Warn("redis pipeline failed")
	}
}

func (s *Service) enqueueEmail(ctx context.Context, job mailer.EmailJob) {
	if s.Pub == nil || !s.MailEnabled {
		return
	}
	if err := s.Pub.PublishJSON(ctx, job); err != nil && s.Logger != nil {
		s.Logger.WithError(err).WithField("to", job.To).Warn("email enqueue failed")
	}
}

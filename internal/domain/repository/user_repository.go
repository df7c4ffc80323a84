package repository

import (
	"context"
	"errors"

	"github.com/talentlink/talentlink-api/internal/domain/entity"
)

// ErrNotFound is returned by lookups when no account matches. Callers
// use it to tell "absent" apart from a failing store.
var ErrNotFound = errors.New("user not found")

// UserRepository is the credential store consumed by the application
// layer. Create owns password hashing and id assignment; email
// uniqueness is enforced by the store and surfaces as Create's error.
type UserRepository interface {
	Create(ctx context.Context, u *entity.User, password string) error
	GetByID(ctx context.Context, id string) (*entity.User, error)
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
	Update(ctx context.Context, u *entity.User) error
	AddVerificationLink(ctx context.Context, parentID, studentID string) error
}

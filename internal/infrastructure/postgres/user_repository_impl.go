package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/talentlink/talentlink-api/internal/domain/entity"
	"github.com/talentlink/talentlink-api/internal/domain/repository"
	"github.com/talentlink/talentlink-api/pkg/helpers"
)

// selectUser resolves verified_by_parent_id by joining the oldest
// verification link for the row; the users table never stores it.
const selectUser = `
	SELECT u.id, u.email, u.password_hash, u.name, u.role, u.avatar_url,
	       vs.parent_id, u.created_at, u.updated_at
	FROM users u
	LEFT JOIN LATERAL (
		SELECT parent_id FROM verified_students
		WHERE student_id = u.id
		ORDER BY created_at
		LIMIT 1
	) vs ON true
`

type UserRepository struct {
	pool *pgxpool.Pool
}

func NewUserRepository(pool *pgxpool.Pool) *UserRepository {
	return &UserRepository{pool: pool}
}

// Create hashes the plaintext password and inserts the user, filling in
// the generated id and timestamps. A duplicate email violates the
// unique constraint and comes back as the driver's error.
func (r *UserRepository) Create(ctx context.Context, u *entity.User, password string) error {
	hash, err := helpers.HashPassword(password)
	if err != nil {
		return err
	}
	u.PasswordHash = hash

	row := r.pool.QueryRow(ctx, `
		INSERT INTO users (email, password_hash, name, role, avatar_url)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, updated_at
	`, u.Email, u.PasswordHash, u.Name, int(u.Role), u.AvatarURL)

	return row.Scan(&u.ID, &u.CreatedAt, &u.UpdatedAt)
}

func (r *UserRepository) GetByID(ctx context.Context, id string) (*entity.User, error) {
	return r.getOne(ctx, selectUser+` WHERE u.id = $1`, id)
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	return r.getOne(ctx, selectUser+` WHERE u.email = $1`, email)
}

func (r *UserRepository) getOne(ctx context.Context, query string, arg any) (*entity.User, error) {
	u := &entity.User{}
	var role int

	row := r.pool.QueryRow(ctx, query, arg)
	if err := row.Scan(&u.ID, &u.Email, &u.PasswordHash, &u.Name, &role,
		&u.AvatarURL, &u.VerifiedByParentID, &u.CreatedAt, &u.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	u.Role = entity.Role(role)

	return u, nil
}

func (r *UserRepository) Update(ctx context.Context, u *entity.User) error {
	u.UpdatedAt = time.Now()

	res, err := r.pool.Exec(ctx, `
		UPDATE users
		SET email = $1, name = $2, avatar_url = $3, updated_at = $4
		WHERE id = $5
	`, u.Email, u.Name, u.AvatarURL, u.UpdatedAt, u.ID)
	if err != nil {
		return err
	}

	if res.RowsAffected() == 0 {
		return repository.ErrNotFound
	}

	return nil
}

// AddVerificationLink persists one parent→student verification record.
// Duplicate links are not constrained here; registration is the only
// writer and links are never updated or deleted.
func (r *UserRepository) AddVerificationLink(ctx context.Context, parentID, studentID string) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO verified_students (parent_id, student_id)
		VALUES ($1, $2)
	`, parentID, studentID)
	return err
}

var _ repository.UserRepository = (*UserRepository)(nil)

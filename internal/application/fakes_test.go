package application

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/talentlink/talentlink-api/internal/domain/entity"
	repo "github.com/talentlink/talentlink-api/internal/domain/repository"
	"github.com/talentlink/talentlink-api/pkg/helpers"
)

// fakeUserRepo is an in-memory credential store. It mirrors the real
// adapter's contract: Create hashes the password and assigns ids, email
// uniqueness is enforced on insert, and verified_by_parent_id is derived
// from the stored links on every read.
type fakeUserRepo struct {
	mu        sync.Mutex
	users         map[string]*entity.User // keyed by id
	links         []entity.VerifiedStudent
	nextID        int
	createErr     error
	getByEmailErr error
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[string]*entity.User)}
}

func (f *fakeUserRepo) Create(_ context.Context, u *entity.User, password string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.createErr != nil {
		return f.createErr
	}
	for _, existing := range f.users {
		if existing.Email == u.Email {
			return errors.New("duplicate key value violates unique constraint \"users_email_key\"")
		}
	}

	hash, err := helpers.HashPassword(password)
	if err != nil {
		return err
	}
	u.PasswordHash = hash

	f.nextID++
	u.ID = fmt.Sprintf("user-%d", f.nextID)
	u.CreatedAt = time.Now()
	u.UpdatedAt = u.CreatedAt

	cp := *u
	f.users[u.ID] = &cp
	return nil
}

func (f *fakeUserRepo) GetByID(_ context.Context, id string) (*entity.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[id]
	if !ok {
		return nil, repo.ErrNotFound
	}
	return f.view(u), nil
}

func (f *fakeUserRepo) GetByEmail(_ context.Context, email string) (*entity.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.getByEmailErr != nil {
		return nil, f.getByEmailErr
	}
	for _, u := range f.users {
		if u.Email == email {
			return f.view(u), nil
		}
	}
	return nil, repo.ErrNotFound
}

func (f *fakeUserRepo) Update(_ context.Context, u *entity.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.users[u.ID]; !ok {
		return repo.ErrNotFound
	}
	u.UpdatedAt = time.Now()
	cp := *u
	f.users[u.ID] = &cp
	return nil
}

func (f *fakeUserRepo) AddVerificationLink(_ context.Context, parentID, studentID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.links = append(f.links, entity.VerifiedStudent{
		ID:        fmt.Sprintf("link-%d", len(f.links)+1),
		ParentID:  parentID,
		StudentID: studentID,
		CreatedAt: time.Now(),
	})
	return nil
}

// view returns a copy with verified_by_parent_id resolved from the
// links, the way the SQL adapter joins it at read time.
func (f *fakeUserRepo) view(u *entity.User) *entity.User {
	cp := *u
	cp.VerifiedByParentID = nil
	for i := range f.links {
		if f.links[i].StudentID == u.ID {
			pid := f.links[i].ParentID
			cp.VerifiedByParentID = &pid
			break
		}
	}
	return &cp
}

func (f *fakeUserRepo) linkCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.links)
}

func (f *fakeUserRepo) userCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.users)
}

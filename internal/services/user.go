package services

import (
	"context"
	"errors"
	"strings"

	"github.com/zonetrack/apiserver/internal/dto"
	"github.com/zonetrack/apiserver/internal/metrics"
	"github.com/zonetrack/apiserver/internal/password"
	"github.com/zonetrack/apiserver/internal/store"
	"github.com/zonetrack/apiserver/types"
	"go.uber.org/zap"
)

// UserRepository defines persistence operations for users.
type UserRepository interface {
	List(ctx context.Context) ([]types.User, error)
	ListByType(ctx context.Context, userType types.UserType) ([]types.User, error)
	GetByID(ctx context.Context, id int) (types.User, error)
	GetByEmail(ctx context.Context, email string) (types.User, error)
	Create(ctx context.Context, user types.User) (types.User, error)
	Update(ctx context.Context, id int, changes store.Changes) error
	Delete(ctx context.Context, id int) error
}

// UserService encapsulates user use-cases.
type UserService struct {
	repo UserRepository
	log  *zap.Logger
}

func NewUserService(repo UserRepository, log *zap.Logger) *UserService {
	return &UserService{repo: repo, log: log}
}

// ListAll returns every user, newest first.
func (s *UserService) ListAll(ctx context.Context) ([]types.User, error) {
	return s.repo.List(ctx)
}

// GetByID returns nil without an error when the user does not exist.
func (s *UserService) GetByID(ctx context.Context, id int) (*types.User, error) {
	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}

// Create hashes the password and stores the user. A duplicate email yields
// store.ErrConflict.
func (s *UserService) Create(ctx context.Context, req dto.CreateUserRequest) (types.User, error) {
	hash, err := password.Hash(req.Password)
	if err != nil {
		return types.User{}, err
	}

	user := types.User{
		Name:         strings.TrimSpace(req.Name),
		Email:        strings.TrimSpace(req.Email),
		Phone:        strings.TrimSpace(req.Phone),
		PasswordHash: hash,
	}
	if req.Type != nil {
		user.Type = *req.Type
	}

	created, err := s.repo.Create(ctx, user)
	if err != nil {
		return types.User{}, err
	}
	metrics.UsersCreated.Inc()
	return created, nil
}

// Update applies the present fields of req. It reports false when nothing
// was supplied or no user matched id.
func (s *UserService) Update(ctx context.Context, id int, req dto.UpdateUserRequest) (bool, error) {
	var changes store.Changes
	if v, ok := dto.Present(req.Name); ok {
		changes.Set("name", v)
	}
	if v, ok := dto.Present(req.Email); ok {
		changes.Set("email", v)
	}
	if v, ok := dto.Present(req.Phone); ok {
		changes.Set("phone", v)
	}
	if req.Password.Valid && req.Password.String != "" {
		hash, err := password.Hash(req.Password.String)
		if err != nil {
			return false, err
		}
		changes.Set("password_hash", hash)
	}
	if req.Type != nil {
		changes.Set("type", int(*req.Type))
	}

	if changes.Empty() {
		return false, nil
	}

	if err := s.repo.Update(ctx, id, changes); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// Delete removes the user for good and reports whether a row was removed.
func (s *UserService) Delete(ctx context.Context, id int) (bool, error) {
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// ListByType returns the users of one type, newest first.
func (s *UserService) ListByType(ctx context.Context, userType types.UserType) ([]types.User, error) {
	return s.repo.ListByType(ctx, userType)
}

// Authenticate checks credentials. Digests in the legacy format are
// replaced with bcrypt on a successful login.
func (s *UserService) Authenticate(ctx context.Context, email, plaintext string) (types.User, error) {
	user, err := s.repo.GetByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return types.User{}, ErrInvalidCredentials
		}
		return types.User{}, err
	}

	if !password.Verify(plaintext, user.PasswordHash) {
		return types.User{}, ErrInvalidCredentials
	}

	if password.NeedsRehash(user.PasswordHash) {
		s.rehash(ctx, user.ID, plaintext)
	}

	user.PasswordHash = ""
	return user, nil
}

func (s *UserService) rehash(ctx context.Context, id int, plaintext string) {
	hash, err := password.Hash(plaintext)
	if err != nil {
		s.log.Warn("rehash password", zap.Int("user_id", id), zap.Error(err))
		return
	}
	var changes store.Changes
	changes.Set("password_hash", hash)
	if err := s.repo.Update(ctx, id, changes); err != nil {
		s.log.Warn("store rehashed password", zap.Int("user_id", id), zap.Error(err))
	}
}

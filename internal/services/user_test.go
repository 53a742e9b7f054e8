package services

import (
	"context"
	"testing"

	"github.com/aarondl/null/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zonetrack/apiserver/internal/dto"
	"github.com/zonetrack/apiserver/internal/password"
	"github.com/zonetrack/apiserver/internal/store"
	"github.com/zonetrack/apiserver/types"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

func init() {
	password.Cost = bcrypt.MinCost
}

func userTypePtr(t types.UserType) *types.UserType { return &t }

func newUserService() (*UserService, *fakeUserRepo) {
	repo := newFakeUserRepo()
	return NewUserService(repo, zap.NewNop()), repo
}

func createUser(t *testing.T, svc *UserService, email string) types.User {
	t.Helper()
	user, err := svc.Create(context.Background(), dto.CreateUserRequest{
		Name:     " Ann ",
		Email:    email,
		Phone:    "+15550100",
		Password: "secret1",
		Type:     userTypePtr(types.UserTypeSupervisor),
	})
	require.NoError(t, err)
	return user
}

func TestUserServiceCreateHashesPassword(t *testing.T) {
	svc, repo := newUserService()

	user := createUser(t, svc, "ann@example.com")

	assert.Equal(t, "Ann", user.Name)
	assert.Equal(t, types.UserTypeSupervisor, user.Type)
	assert.Empty(t, user.PasswordHash)

	stored := repo.users[user.ID]
	assert.NotEqual(t, "secret1", stored.PasswordHash)
	assert.True(t, password.Verify("secret1", stored.PasswordHash))
}

func TestUserServiceCreateDuplicateEmail(t *testing.T) {
	svc, _ := newUserService()
	createUser(t, svc, "ann@example.com")

	_, err := svc.Create(context.Background(), dto.CreateUserRequest{
		Name: "Other", Email: "ann@example.com", Phone: "+15550101", Password: "secret2",
		Type: userTypePtr(types.UserTypeWorker),
	})
	assert.ErrorIs(t, err, store.ErrConflict)
}

func TestUserServiceGetByIDAbsentIsNotAnError(t *testing.T) {
	svc, _ := newUserService()

	user, err := svc.GetByID(context.Background(), 99)
	assert.NoError(t, err)
	assert.Nil(t, user)
}

func TestUserServiceUpdate(t *testing.T) {
	ctx := context.Background()

	t.Run("no fields skips the database", func(t *testing.T) {
		svc, repo := newUserService()
		user := createUser(t, svc, "ann@example.com")

		ok, err := svc.Update(ctx, user.ID, dto.UpdateUserRequest{Name: null.StringFrom("   ")})
		require.NoError(t, err)
		assert.False(t, ok)
		assert.Zero(t, repo.updateCalls)
	})

	t.Run("partial update keeps other fields", func(t *testing.T) {
		svc, repo := newUserService()
		user := createUser(t, svc, "ann@example.com")
		oldHash := repo.users[user.ID].PasswordHash

		ok, err := svc.Update(ctx, user.ID, dto.UpdateUserRequest{
			Phone: null.StringFrom("+15550199"),
			Type:  userTypePtr(types.UserTypeWorker),
		})
		require.NoError(t, err)
		assert.True(t, ok)

		stored := repo.users[user.ID]
		assert.Equal(t, "+15550199", stored.Phone)
		assert.Equal(t, "Ann", stored.Name)
		assert.Equal(t, types.UserTypeWorker, stored.Type)
		assert.Equal(t, oldHash, stored.PasswordHash)
		assert.Equal(t, []string{"phone", "type"}, repo.updates[0].Columns())
	})

	t.Run("password is rehashed", func(t *testing.T) {
		svc, repo := newUserService()
		user := createUser(t, svc, "ann@example.com")

		ok, err := svc.Update(ctx, user.ID, dto.UpdateUserRequest{Password: null.StringFrom("newpass")})
		require.NoError(t, err)
		assert.True(t, ok)
		assert.True(t, password.Verify("newpass", repo.users[user.ID].PasswordHash))
	})

	t.Run("missing user", func(t *testing.T) {
		svc, _ := newUserService()

		ok, err := svc.Update(ctx, 42, dto.UpdateUserRequest{Name: null.StringFrom("Bob")})
		require.NoError(t, err)
		assert.False(t, ok)
	})
}

func TestUserServiceDelete(t *testing.T) {
	svc, _ := newUserService()
	user := createUser(t, svc, "ann@example.com")

	ok, err := svc.Delete(context.Background(), user.ID)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = svc.Delete(context.Background(), user.ID)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestUserServiceListByType(t *testing.T) {
	svc, _ := newUserService()
	createUser(t, svc, "ann@example.com")

	supervisors, err := svc.ListByType(context.Background(), types.UserTypeSupervisor)
	require.NoError(t, err)
	assert.Len(t, supervisors, 1)

	workers, err := svc.ListByType(context.Background(), types.UserTypeWorker)
	require.NoError(t, err)
	assert.Empty(t, workers)
}

func TestUserServiceAuthenticate(t *testing.T) {
	ctx := context.Background()

	t.Run("bcrypt digest", func(t *testing.T) {
		svc, _ := newUserService()
		createUser(t, svc, "ann@example.com")

		user, err := svc.Authenticate(ctx, "ann@example.com", "secret1")
		require.NoError(t, err)
		assert.Equal(t, "Ann", user.Name)
		assert.Empty(t, user.PasswordHash)

		_, err = svc.Authenticate(ctx, "ann@example.com", "wrong")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("unknown email", func(t *testing.T) {
		svc, _ := newUserService()
		_, err := svc.Authenticate(ctx, "nobody@example.com", "secret1")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("legacy digest is upgraded", func(t *testing.T) {
		svc, repo := newUserService()
		repo.users[1] = types.User{ID: 1, Name: "Old", Email: "old@example.com", PasswordHash: password.LegacyHash("legacy1")}

		_, err := svc.Authenticate(ctx, "old@example.com", "legacy1")
		require.NoError(t, err)

		upgraded := repo.users[1].PasswordHash
		assert.False(t, password.NeedsRehash(upgraded))
		assert.True(t, password.Verify("legacy1", upgraded))
	})
}

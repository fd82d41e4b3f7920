package service

import (
	"context"
	"errors"
	"testing"

	"zestyy/internal/models"
	"zestyy/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

const strongPassword = "Sup3r$ecretPass"

func TestUserService_RegisterAndFind(t *testing.T) {
	env := newTestEnv(t)

	user, err := env.users.Register(ctx, RegisterInput{
		Name:     "Alice Doe",
		Username: "Alice_D",
		Email:    "Alice@Example.com",
		Password: strongPassword,
	})
	require.NoError(t, err)
	assert.Equal(t, "alice_d", user.Username)
	assert.Equal(t, "alice@example.com", user.Email)
	assert.NotEqual(t, strongPassword, user.PasswordHash)

	found, err := env.users.FindByEmail(ctx, "ALICE@example.com")
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, user.ID, found.ID)

	byName, err := env.users.FindByUsername(ctx, "alice_d")
	require.NoError(t, err)
	assert.Equal(t, user.ID, byName.ID)

	missing, err := env.users.FindByEmail(ctx, "nobody@example.com")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestUserService_RegisterConflicts(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.users.Register(ctx, RegisterInput{Name: "A", Username: "alice", Email: "alice@example.com", Password: strongPassword})
	require.NoError(t, err)

	_, err = env.users.Register(ctx, RegisterInput{Name: "B", Username: "other", Email: "ALICE@EXAMPLE.COM", Password: strongPassword})
	assertCode(t, err, models.CodeConflict)

	_, err = env.users.Register(ctx, RegisterInput{Name: "B", Username: "ALICE", Email: "b@example.com", Password: strongPassword})
	assertCode(t, err, models.CodeConflict)
}

func TestUserService_RegisterValidation(t *testing.T) {
	env := newTestEnv(t)

	tests := []struct {
		name string
		in   RegisterInput
	}{
		{"blank name", RegisterInput{Name: "  ", Username: "bob", Email: "bob@example.com", Password: strongPassword}},
		{"blank email", RegisterInput{Name: "Bob", Username: "bob", Email: "", Password: strongPassword}},
		{"bad username", RegisterInput{Name: "Bob", Username: "b!", Email: "bob@example.com", Password: strongPassword}},
		{"bad email", RegisterInput{Name: "Bob", Username: "bob", Email: "bob-at-example", Password: strongPassword}},
		{"weak password", RegisterInput{Name: "Bob", Username: "bob", Email: "bob@example.com", Password: "password"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := env.users.Register(ctx, tt.in)
			assertCode(t, err, models.CodeValidation)
		})
	}
}

func TestUserService_Authenticate(t *testing.T) {
	env := newTestEnv(t)
	user, err := env.users.Register(ctx, RegisterInput{Name: "Bob", Username: "bob", Email: "bob@example.com", Password: strongPassword})
	require.NoError(t, err)

	got, err := env.users.Authenticate(ctx, "BOB@example.com", strongPassword)
	require.NoError(t, err)
	assert.Equal(t, user.ID, got.ID)

	_, err = env.users.Authenticate(ctx, "bob@example.com", "Wrong$Password1")
	assertCode(t, err, models.CodeUnauthorized)

	_, err = env.users.Authenticate(ctx, "ghost@example.com", strongPassword)
	assertCode(t, err, models.CodeUnauthorized)
}

func TestUserService_UpdateProfile(t *testing.T) {
	env := newTestEnv(t)
	alice := env.user(t, "alice")

	updated, err := env.users.UpdateProfile(ctx, alice.ID, UpdateProfileInput{
		Name:    ptr("Alice Cooper"),
		Bio:     ptr("  hello  "),
		Degree:  ptr("btech"),
		Branch:  ptr("cse"),
		Section: ptr(2),
		Hostel:  ptr("H4"),
	})
	require.NoError(t, err)
	assert.Equal(t, "Alice Cooper", updated.Name)
	assert.Equal(t, "hello", updated.Bio)
	assert.Equal(t, "BTECH", *updated.Degree)
	assert.Equal(t, "CSE", *updated.Branch)
	assert.Equal(t, 2, *updated.Section)
	assert.Equal(t, alice.Email, updated.Email)
	assert.Equal(t, alice.Username, updated.Username)

	cleared, err := env.users.UpdateProfile(ctx, alice.ID, UpdateProfileInput{Hostel: ptr("")})
	require.NoError(t, err)
	assert.Nil(t, cleared.Hostel)
	assert.Equal(t, "Alice Cooper", cleared.Name)

	_, err = env.users.UpdateProfile(ctx, alice.ID, UpdateProfileInput{Name: ptr(" ")})
	assertCode(t, err, models.CodeValidation)

	_, err = env.users.UpdateProfile(ctx, alice.ID, UpdateProfileInput{Section: ptr(0)})
	assertCode(t, err, models.CodeValidation)

	_, err = env.users.UpdateProfile(ctx, "missing", UpdateProfileInput{Bio: ptr("x")})
	assertCode(t, err, models.CodeNotFound)
}

func TestUserService_StatsAndProfile(t *testing.T) {
	env := newTestEnv(t)
	alice := env.user(t, "alice")
	bob := env.user(t, "bob")
	env.post(t, alice.ID, "one")
	env.post(t, alice.ID, "two")

	_, err := env.follows.Toggle(ctx, bob.ID, alice.ID)
	require.NoError(t, err)

	stats, err := env.users.GetStats(ctx, alice.ID)
	require.NoError(t, err)
	assert.Equal(t, models.UserStats{Posts: 2, Followers: 1, Following: 0}, stats)

	profile, err := env.users.GetProfile(ctx, "ALICE", bob.ID)
	require.NoError(t, err)
	assert.Equal(t, alice.ID, profile.User.ID)
	assert.True(t, profile.IsFollowing)
	assert.Equal(t, int64(2), profile.Stats.Posts)

	self, err := env.users.GetProfile(ctx, "alice", alice.ID)
	require.NoError(t, err)
	assert.False(t, self.IsFollowing)

	_, err = env.users.GetProfile(ctx, "nobody", bob.ID)
	assertCode(t, err, models.CodeNotFound)

	_, err = env.users.GetStats(ctx, "missing")
	assertCode(t, err, models.CodeNotFound)
}

func TestUserService_FilterByAcademic(t *testing.T) {
	env := newTestEnv(t)
	alice := env.user(t, "alice")
	bob := env.user(t, "bob")
	env.user(t, "carol")

	_, err := env.users.UpdateProfile(ctx, alice.ID, UpdateProfileInput{Degree: ptr("BTECH"), Branch: ptr("CSE"), Section: ptr(1)})
	require.NoError(t, err)
	_, err = env.users.UpdateProfile(ctx, bob.ID, UpdateProfileInput{Degree: ptr("BTECH"), Branch: ptr("ECE"), Section: ptr(1)})
	require.NoError(t, err)

	users, err := env.users.FilterByAcademic(ctx, models.AcademicFilter{Degree: ptr("btech")})
	require.NoError(t, err)
	assert.Len(t, users, 2)

	users, err = env.users.FilterByAcademic(ctx, models.AcademicFilter{Degree: ptr("btech"), Branch: ptr("cse"), Section: ptr(1)})
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Equal(t, alice.ID, users[0].ID)

	users, err = env.users.FilterByAcademic(ctx, models.AcademicFilter{})
	require.NoError(t, err)
	assert.Len(t, users, 3)
}

// userRepoStub is a stub for repository.UserRepository.
type userRepoStub struct {
	repository.UserRepository
	findByEmailFn    func(context.Context, string) (*models.User, error)
	findByUsernameFn func(context.Context, string) (*models.User, error)
	createFn         func(context.Context, *models.User) error
}

func (s *userRepoStub) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	return s.findByEmailFn(ctx, email)
}
func (s *userRepoStub) FindByUsername(ctx context.Context, username string) (*models.User, error) {
	return s.findByUsernameFn(ctx, username)
}
func (s *userRepoStub) Create(ctx context.Context, user *models.User) error {
	return s.createFn(ctx, user)
}

func TestUserService_Register_Stubbed(t *testing.T) {
	t.Parallel()

	none := func(context.Context, string) (*models.User, error) { return nil, nil }

	t.Run("lookup failure propagates", func(t *testing.T) {
		t.Parallel()
		repoErr := errors.New("db down")
		stub := &userRepoStub{
			findByEmailFn: func(context.Context, string) (*models.User, error) { return nil, repoErr },
		}
		svc := NewUserService(&repository.Store{Users: stub})
		_, err := svc.Register(context.Background(), RegisterInput{Name: "A", Username: "alice", Email: "a@example.com", Password: strongPassword})
		assert.ErrorIs(t, err, repoErr)
	})

	t.Run("stores a bcrypt hash", func(t *testing.T) {
		t.Parallel()
		var stored *models.User
		stub := &userRepoStub{
			findByEmailFn:    none,
			findByUsernameFn: none,
			createFn: func(_ context.Context, u *models.User) error {
				stored = u
				return nil
			},
		}
		svc := NewUserService(&repository.Store{Users: stub})
		svc.bcryptCost = bcrypt.MinCost
		_, err := svc.Register(context.Background(), RegisterInput{Name: "A", Username: "alice", Email: "a@example.com", Password: strongPassword})
		require.NoError(t, err)
		require.NotNil(t, stored)
		assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte(strongPassword)))
	})
}

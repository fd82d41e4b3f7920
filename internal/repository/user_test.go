package repository

import (
	"errors"
	"regexp"
	"testing"

	"zestyy/internal/models"
	"zestyy/internal/testutil"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserRepository_CreateAndFind(t *testing.T) {
	store, _ := setupStore(t)

	user := &models.User{Name: "Alice", Username: "alice", Email: "alice@zestyy.test"}
	require.NoError(t, store.Users.Create(ctx, user))
	assert.Len(t, user.ID, 36)
	assert.False(t, user.JoinedAt.IsZero())

	found, err := store.Users.FindByEmail(ctx, "  ALICE@zestyy.test ")
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, user.ID, found.ID)

	found, err = store.Users.FindByUsername(ctx, "Alice")
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, user.ID, found.ID)

	missing, err := store.Users.FindByID(ctx, "no-such-id")
	assert.NoError(t, err)
	assert.Nil(t, missing)

	_, err = store.Users.GetByID(ctx, "no-such-id")
	assert.True(t, models.IsCode(err, models.CodeNotFound))
}

func TestUserRepository_CreateDuplicate(t *testing.T) {
	store, _ := setupStore(t)

	require.NoError(t, store.Users.Create(ctx, &models.User{Name: "A", Username: "alice", Email: "a@zestyy.test"}))
	err := store.Users.Create(ctx, &models.User{Name: "B", Username: "other", Email: "a@zestyy.test"})
	assert.True(t, models.IsCode(err, models.CodeConflict), "got %v", err)
}

func TestUserRepository_Update(t *testing.T) {
	store, _ := setupStore(t)
	user := testutil.CreateUser(t, store.db, "alice")

	require.NoError(t, store.Users.Update(ctx, user.ID, map[string]interface{}{"bio": "hello", "branch": "CSE"}))
	got, err := store.Users.GetByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "hello", got.Bio)
	require.NotNil(t, got.Branch)
	assert.Equal(t, "CSE", *got.Branch)
	assert.Equal(t, "alice@zestyy.test", got.Email)

	err = store.Users.Update(ctx, "missing", map[string]interface{}{"bio": "x"})
	assert.True(t, models.IsCode(err, models.CodeNotFound))
}

func TestUserRepository_GetStats(t *testing.T) {
	store, db := setupStore(t)
	alice := testutil.CreateUser(t, db, "alice")
	bob := testutil.CreateUser(t, db, "bob")
	carol := testutil.CreateUser(t, db, "carol")

	testutil.CreatePost(t, db, alice.ID, "one")
	testutil.CreatePost(t, db, alice.ID, "two")
	_, err := store.Follows.Toggle(ctx, bob.ID, alice.ID)
	require.NoError(t, err)
	_, err = store.Follows.Toggle(ctx, carol.ID, alice.ID)
	require.NoError(t, err)
	_, err = store.Follows.Toggle(ctx, alice.ID, bob.ID)
	require.NoError(t, err)

	stats, err := store.Users.GetStats(ctx, alice.ID)
	require.NoError(t, err)
	assert.Equal(t, models.UserStats{Posts: 2, Followers: 2, Following: 1}, stats)
}

func TestUserRepository_FilterByAcademic(t *testing.T) {
	store, db := setupStore(t)
	alice := testutil.CreateUser(t, db, "alice")
	bob := testutil.CreateUser(t, db, "bob")
	testutil.CreateUser(t, db, "carol")

	require.NoError(t, store.Users.Update(ctx, alice.ID, map[string]interface{}{"degree": "BTECH", "branch": "CSE", "section": 2}))
	require.NoError(t, store.Users.Update(ctx, bob.ID, map[string]interface{}{"degree": "BTECH", "branch": "ECE", "section": 2}))

	users, err := store.Users.FilterByAcademic(ctx, models.AcademicFilter{Degree: ptr("BTECH")})
	require.NoError(t, err)
	assert.Len(t, users, 2)

	users, err = store.Users.FilterByAcademic(ctx, models.AcademicFilter{Degree: ptr("BTECH"), Branch: ptr("CSE"), Section: ptr(2)})
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Equal(t, alice.ID, users[0].ID)

	users, err = store.Users.FilterByAcademic(ctx, models.AcademicFilter{})
	require.NoError(t, err)
	assert.Len(t, users, 3)
}

func TestUserRepository_FindByEmailDatabaseError(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewUserRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "users" WHERE email = $1`)).
		WithArgs("alice@zestyy.test", 1).
		WillReturnError(errors.New("connection reset"))

	user, err := repo.FindByEmail(ctx, "alice@zestyy.test")
	assert.Nil(t, user)
	assert.True(t, models.IsCode(err, models.CodeInternal))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_FindByEmailNotFound(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewUserRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "users" WHERE email = $1`)).
		WithArgs("ghost@zestyy.test", 1).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	user, err := repo.FindByEmail(ctx, "ghost@zestyy.test")
	assert.NoError(t, err)
	assert.Nil(t, user)
	assert.NoError(t, mock.ExpectationsWereMet())
}

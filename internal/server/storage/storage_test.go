package storage

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := NewStore(filepath.Join(t.TempDir(), "chess.db"), false)
	require.NoError(t, err)
	require.NoError(t, store.InitDB())
	t.Cleanup(func() { store.Close() })
	return store
}

func testUser(id, username, email string) UserRecord {
	return UserRecord{
		UserID:       id,
		Username:     username,
		Email:        email,
		PasswordHash: "hash-" + id,
		AccountType:  AccountPermanent,
		CreatedAt:    time.Now().UTC(),
	}
}

func TestCreateAndLookupUser(t *testing.T) {
	store := newTestStore(t)
	require.NoError(t, store.CreateUser(testUser("u1", "alice", "alice@example.com")))

	byID, err := store.GetUserByID("u1")
	require.NoError(t, err)
	assert.Equal(t, "alice", byID.Username)
	assert.Nil(t, byID.ExpiresAt)

	byName, err := store.GetUserByUsername("ALICE")
	require.NoError(t, err)
	assert.Equal(t, "u1", byName.UserID)

	byEmail, err := store.GetUserByEmail("Alice@Example.com")
	require.NoError(t, err)
	assert.Equal(t, "u1", byEmail.UserID)

	_, err = store.GetUserByID("missing")
	assert.ErrorIs(t, err, sql.ErrNoRows)
}

func TestCreateUserRejectsDuplicates(t *testing.T) {
	store := newTestStore(t)
	require.NoError(t, store.CreateUser(testUser("u1", "alice", "alice@example.com")))

	assert.ErrorIs(t, store.CreateUser(testUser("u2", "Alice", "")), ErrUserExists)
	assert.ErrorIs(t, store.CreateUser(testUser("u3", "bob", "ALICE@example.com")), ErrUserExists)
	require.NoError(t, store.CreateUser(testUser("u4", "carol", "")))
	require.NoError(t, store.CreateUser(testUser("u5", "dave", "")), "empty emails do not collide")

	users, err := store.GetAllUsers()
	require.NoError(t, err)
	assert.Len(t, users, 3)
}

func TestSessionLifecycle(t *testing.T) {
	store := newTestStore(t)
	require.NoError(t, store.CreateUser(testUser("u1", "alice", "")))

	now := time.Now().UTC()
	require.NoError(t, store.CreateSession(SessionRecord{SessionID: "s1", UserID: "u1", CreatedAt: now, ExpiresAt: now.Add(time.Hour)}))
	valid, err := store.IsSessionValid("s1")
	require.NoError(t, err)
	assert.True(t, valid)

	// A new login replaces the old session
	require.NoError(t, store.CreateSession(SessionRecord{SessionID: "s2", UserID: "u1", CreatedAt: now, ExpiresAt: now.Add(time.Hour)}))
	valid, _ = store.IsSessionValid("s1")
	assert.False(t, valid)

	require.NoError(t, store.DeleteSessionByUserID("u1"))
	valid, _ = store.IsSessionValid("s2")
	assert.False(t, valid)
}

func TestDeleteUserCascadesSession(t *testing.T) {
	store := newTestStore(t)
	require.NoError(t, store.CreateUser(testUser("u1", "alice", "")))
	now := time.Now().UTC()
	require.NoError(t, store.CreateSession(SessionRecord{SessionID: "s1", UserID: "u1", CreatedAt: now, ExpiresAt: now.Add(time.Hour)}))

	require.NoError(t, store.DeleteUserByID("u1"))
	_, err := store.GetSession("s1")
	assert.ErrorIs(t, err, sql.ErrNoRows)
	assert.ErrorIs(t, store.DeleteUserByID("u1"), sql.ErrNoRows)
}

func TestExpiryCleanup(t *testing.T) {
	store := newTestStore(t)
	past := time.Now().UTC().Add(-time.Hour)

	temp := testUser("u1", "temp", "")
	temp.AccountType = AccountTemp
	temp.ExpiresAt = &past
	require.NoError(t, store.CreateUser(temp))
	require.NoError(t, store.CreateUser(testUser("u2", "perm", "")))
	require.NoError(t, store.CreateSession(SessionRecord{SessionID: "s2", UserID: "u2", CreatedAt: past, ExpiresAt: past}))

	deleted, err := store.DeleteExpiredTempUsers()
	require.NoError(t, err)
	assert.EqualValues(t, 1, deleted)

	deleted, err = store.DeleteExpiredSessions()
	require.NoError(t, err)
	assert.EqualValues(t, 1, deleted)

	total, permanent, tempCount, err := store.GetUserCounts()
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	assert.Equal(t, 1, permanent)
	assert.Equal(t, 0, tempCount)
}

func TestAsyncLastLogin(t *testing.T) {
	store := newTestStore(t)
	require.NoError(t, store.CreateUser(testUser("u1", "alice", "")))

	login := time.Now().UTC().Truncate(time.Second)
	store.UpdateUserLastLogin("u1", login)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	require.NoError(t, store.Flush(ctx))

	user, err := store.GetUserByID("u1")
	require.NoError(t, err)
	require.NotNil(t, user.LastLoginAt)
	assert.True(t, login.Equal(*user.LastLoginAt))
	assert.True(t, store.IsHealthy())
}

func TestDeleteDB(t *testing.T) {
	path := filepath.Join(t.TempDir(), "gone.db")
	store, err := NewStore(path, true)
	require.NoError(t, err)
	require.NoError(t, store.InitDB())
	require.NoError(t, store.DeleteDB())
	assert.NoFileExists(t, path)
}

package services

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/mbelozerov/eventkeeper/internal/common"
	"github.com/mbelozerov/eventkeeper/internal/dbx"
	"github.com/mbelozerov/eventkeeper/internal/server/auth"
	"github.com/mbelozerov/eventkeeper/internal/server/config"
	"github.com/mbelozerov/eventkeeper/internal/server/models"
	addressesrepo "github.com/mbelozerov/eventkeeper/internal/server/repositories/addresses"
	attendeesrepo "github.com/mbelozerov/eventkeeper/internal/server/repositories/attendees"
	eventsrepo "github.com/mbelozerov/eventkeeper/internal/server/repositories/events"
	imagesrepo "github.com/mbelozerov/eventkeeper/internal/server/repositories/images"
	refreshtokensrepo "github.com/mbelozerov/eventkeeper/internal/server/repositories/refreshtokens"
	"github.com/mbelozerov/eventkeeper/internal/server/repositories/repomanager"
	statsrepo "github.com/mbelozerov/eventkeeper/internal/server/repositories/stats"
	usersrepo "github.com/mbelozerov/eventkeeper/internal/server/repositories/users"
)

// --- fakes ---

type fakeUsersRepo struct {
	createOut *models.User
	createErr error

	findOut *models.User
	findErr error

	updatedHash string
	deletedID   string
}

func (f *fakeUsersRepo) Create(ctx context.Context, u *models.User) (*models.User, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	f.createOut = u
	u.ID = "u1"
	return u, nil
}

func (f *fakeUsersRepo) FindByUsernameAndEmail(ctx context.Context, username, email string) (*models.User, error) {
	if f.findErr != nil {
		return nil, f.findErr
	}
	return f.findOut, nil
}

func (f *fakeUsersRepo) UpdatePassword(ctx context.Context, userID, hash string) error {
	f.updatedHash = hash
	return nil
}

func (f *fakeUsersRepo) Delete(ctx context.Context, userID string) error {
	f.deletedID = userID
	return nil
}

// fakeLedger is an in-memory refresh-token ledger with soft revocation.
type fakeLedger struct {
	rows  map[string]bool   // token -> revoked
	owner map[string]string // token -> user id
}

func newFakeLedger() *fakeLedger {
	return &fakeLedger{rows: map[string]bool{}, owner: map[string]string{}}
}

func (f *fakeLedger) Store(ctx context.Context, userID, token string, expiresAt time.Time) error {
	if _, ok := f.rows[token]; !ok {
		f.rows[token] = false
		f.owner[token] = userID
	}
	return nil
}

func (f *fakeLedger) IsValid(ctx context.Context, userID, token string) (bool, error) {
	revoked, ok := f.rows[token]
	return ok && !revoked && f.owner[token] == userID, nil
}

func (f *fakeLedger) Revoke(ctx context.Context, token string) error {
	if _, ok := f.rows[token]; ok {
		f.rows[token] = true
	}
	return nil
}

func (f *fakeLedger) RevokeAll(ctx context.Context, userID string) error {
	for token, owner := range f.owner {
		if owner == userID {
			f.rows[token] = true
		}
	}
	return nil
}

type fakeRepoManager struct {
	u *fakeUsersRepo
	r *fakeLedger
}

func (m *fakeRepoManager) RunMigrations(context.Context, *sql.DB) error { return nil }
func (m *fakeRepoManager) Users(db dbx.DBTX) usersrepo.Repository      { return m.u }
func (m *fakeRepoManager) RefreshTokens(db dbx.DBTX) refreshtokensrepo.Repository {
	return m.r
}
func (m *fakeRepoManager) Events(db dbx.DBTX) eventsrepo.Repository       { return nil }
func (m *fakeRepoManager) Addresses(db dbx.DBTX) addressesrepo.Repository { return nil }
func (m *fakeRepoManager) Attendees(db dbx.DBTX) attendeesrepo.Repository { return nil }
func (m *fakeRepoManager) Images(db dbx.DBTX) imagesrepo.Repository       { return nil }
func (m *fakeRepoManager) Stats(db dbx.DBTX) statsrepo.Repository         { return nil }

var _ repomanager.RepositoryManager = (*fakeRepoManager)(nil)

// --- helpers ---

func newTestConfig() *config.Config {
	return &config.Config{
		AccessTokenSecret:            "accessSecret",
		RefreshTokenSecret:           "refreshSecret",
		AccessTokenValidityDuration:  5 * time.Minute,
		RefreshTokenValidityDuration: 7 * 24 * time.Hour,
		BcryptCost:                   bcrypt.MinCost,
	}
}

func newUserService(t *testing.T, rm *fakeRepoManager) (*UserService, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewUserService(db, rm, newTestConfig()), mock
}

func mustHash(t *testing.T, password string) string {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	return string(hash)
}

// --- tests ---

func TestRegister(t *testing.T) {
	rm := &fakeRepoManager{u: &fakeUsersRepo{}, r: newFakeLedger()}
	svc, _ := newUserService(t, rm)

	user, err := svc.Register(context.Background(), "alice", "alice@example.com", "pa55w0rd")
	require.NoError(t, err)
	assert.Equal(t, models.RoleUser, user.Role)

	// The stored value is a bcrypt hash of the plaintext, not the plaintext.
	assert.NotEqual(t, "pa55w0rd", rm.u.createOut.PasswordHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(rm.u.createOut.PasswordHash), []byte("pa55w0rd")))
}

func TestRegisterConflict(t *testing.T) {
	rm := &fakeRepoManager{u: &fakeUsersRepo{createErr: common.ErrorConflict}, r: newFakeLedger()}
	svc, _ := newUserService(t, rm)

	_, err := svc.Register(context.Background(), "alice", "alice@example.com", "pa55w0rd")
	assert.ErrorIs(t, err, common.ErrorConflict)
}

func TestLogin(t *testing.T) {
	rm := &fakeRepoManager{
		u: &fakeUsersRepo{findOut: &models.User{ID: "u1", PasswordHash: mustHash(t, "pa55w0rd")}},
		r: newFakeLedger(),
	}
	svc, _ := newUserService(t, rm)

	pair, err := svc.Login(context.Background(), "alice", "alice@example.com", "pa55w0rd")
	require.NoError(t, err)

	// Each token verifies only under its own secret.
	userID, err := auth.GetUserIDFromToken(pair.AccessToken, []byte("accessSecret"))
	require.NoError(t, err)
	assert.Equal(t, "u1", userID)

	_, err = auth.GetUserIDFromToken(pair.AccessToken, []byte("refreshSecret"))
	assert.ErrorIs(t, err, common.ErrTokenSignature)

	userID, err = auth.GetUserIDFromToken(pair.RefreshToken, []byte("refreshSecret"))
	require.NoError(t, err)
	assert.Equal(t, "u1", userID)

	// The refresh token landed in the ledger.
	valid, err := rm.r.IsValid(context.Background(), "u1", pair.RefreshToken)
	require.NoError(t, err)
	assert.True(t, valid)
}

func TestLoginAcceptsPasswordItRegistered(t *testing.T) {
	rm := &fakeRepoManager{u: &fakeUsersRepo{}, r: newFakeLedger()}
	svc, _ := newUserService(t, rm)

	_, err := svc.Register(context.Background(), "alice", "alice@example.com", "secret123")
	require.NoError(t, err)

	// Log in against the exact hash Register produced.
	rm.u.findOut = rm.u.createOut

	pair, err := svc.Login(context.Background(), "alice", "alice@example.com", "secret123")
	require.NoError(t, err)
	assert.NotEmpty(t, pair.AccessToken)
	assert.NotEmpty(t, pair.RefreshToken)

	_, err = svc.Login(context.Background(), "alice", "alice@example.com", "SECRET123")
	assert.ErrorIs(t, err, common.ErrorUnauthorized)
}

func TestLoginFailuresIndistinguishable(t *testing.T) {
	unknown := &fakeRepoManager{u: &fakeUsersRepo{findErr: common.ErrorNotFound}, r: newFakeLedger()}
	wrongPass := &fakeRepoManager{
		u: &fakeUsersRepo{findOut: &models.User{ID: "u1", PasswordHash: mustHash(t, "other")}},
		r: newFakeLedger(),
	}

	svc1, _ := newUserService(t, unknown)
	_, err1 := svc1.Login(context.Background(), "ghost", "ghost@example.com", "pa55w0rd")

	svc2, _ := newUserService(t, wrongPass)
	_, err2 := svc2.Login(context.Background(), "alice", "alice@example.com", "pa55w0rd")

	assert.ErrorIs(t, err1, common.ErrorUnauthorized)
	assert.ErrorIs(t, err2, common.ErrorUnauthorized)
	assert.Equal(t, err1, err2)
}

func TestRefreshAccessToken(t *testing.T) {
	rm := &fakeRepoManager{
		u: &fakeUsersRepo{findOut: &models.User{ID: "u1", PasswordHash: mustHash(t, "pa55w0rd")}},
		r: newFakeLedger(),
	}
	svc, _ := newUserService(t, rm)

	pair, err := svc.Login(context.Background(), "alice", "alice@example.com", "pa55w0rd")
	require.NoError(t, err)

	access, err := svc.RefreshAccessToken(context.Background(), pair.RefreshToken, "")
	require.NoError(t, err)

	userID, err := auth.GetUserIDFromToken(access, []byte("accessSecret"))
	require.NoError(t, err)
	assert.Equal(t, "u1", userID)
}

func TestRefreshAccessTokenRejections(t *testing.T) {
	rm := &fakeRepoManager{u: &fakeUsersRepo{}, r: newFakeLedger()}
	svc, _ := newUserService(t, rm)

	t.Run("access token in refresh slot", func(t *testing.T) {
		token, err := auth.GenerateToken("u1", []byte("accessSecret"), time.Minute)
		require.NoError(t, err)

		_, err = svc.RefreshAccessToken(context.Background(), token, "")
		assert.ErrorIs(t, err, common.ErrorForbidden)
	})

	t.Run("well signed but missing subject", func(t *testing.T) {
		token, err := auth.GenerateToken("", []byte("refreshSecret"), time.Minute)
		require.NoError(t, err)

		_, err = svc.RefreshAccessToken(context.Background(), token, "")
		assert.ErrorIs(t, err, common.ErrorUnauthorized)
	})

	t.Run("well signed but absent from ledger", func(t *testing.T) {
		token, err := auth.GenerateToken("u1", []byte("refreshSecret"), time.Minute)
		require.NoError(t, err)

		_, err = svc.RefreshAccessToken(context.Background(), token, "")
		assert.ErrorIs(t, err, common.ErrorForbidden)
	})

	t.Run("garbage", func(t *testing.T) {
		_, err := svc.RefreshAccessToken(context.Background(), "not.a.jwt", "")
		assert.ErrorIs(t, err, common.ErrorForbidden)
	})
}

func TestLogout(t *testing.T) {
	rm := &fakeRepoManager{
		u: &fakeUsersRepo{findOut: &models.User{ID: "u1", PasswordHash: mustHash(t, "pa55w0rd")}},
		r: newFakeLedger(),
	}
	svc, _ := newUserService(t, rm)

	pair, err := svc.Login(context.Background(), "alice", "alice@example.com", "pa55w0rd")
	require.NoError(t, err)

	require.NoError(t, svc.Logout(context.Background(), pair.RefreshToken))

	// The refresh token no longer works.
	_, err = svc.RefreshAccessToken(context.Background(), pair.RefreshToken, "")
	assert.ErrorIs(t, err, common.ErrorForbidden)

	// Logging out again is still a success.
	require.NoError(t, svc.Logout(context.Background(), pair.RefreshToken))
}

func TestLogoutBadSignature(t *testing.T) {
	rm := &fakeRepoManager{u: &fakeUsersRepo{}, r: newFakeLedger()}
	svc, _ := newUserService(t, rm)

	token, err := auth.GenerateToken("u1", []byte("wrong"), time.Minute)
	require.NoError(t, err)

	assert.ErrorIs(t, svc.Logout(context.Background(), token), common.ErrorForbidden)
}

func TestChangePasswordRevokesAllSessions(t *testing.T) {
	rm := &fakeRepoManager{
		u: &fakeUsersRepo{findOut: &models.User{ID: "u1", PasswordHash: mustHash(t, "pa55w0rd")}},
		r: newFakeLedger(),
	}
	svc, mock := newUserService(t, rm)

	pair, err := svc.Login(context.Background(), "alice", "alice@example.com", "pa55w0rd")
	require.NoError(t, err)

	// A second user's session must survive the bulk revocation below.
	require.NoError(t, rm.r.Store(context.Background(), "u2", "other-token", time.Now().Add(time.Hour)))

	mock.ExpectBegin()
	mock.ExpectCommit()

	require.NoError(t, svc.ChangePassword(context.Background(), "u1", "n3wpass"))
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(rm.u.updatedHash), []byte("n3wpass")))

	valid, err := rm.r.IsValid(context.Background(), "u1", pair.RefreshToken)
	require.NoError(t, err)
	assert.False(t, valid)

	valid, err = rm.r.IsValid(context.Background(), "u2", "other-token")
	require.NoError(t, err)
	assert.True(t, valid)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteUser(t *testing.T) {
	rm := &fakeRepoManager{
		u: &fakeUsersRepo{findOut: &models.User{ID: "u1", PasswordHash: mustHash(t, "pa55w0rd")}},
		r: newFakeLedger(),
	}
	svc, mock := newUserService(t, rm)

	pair, err := svc.Login(context.Background(), "alice", "alice@example.com", "pa55w0rd")
	require.NoError(t, err)

	mock.ExpectBegin()
	mock.ExpectCommit()

	require.NoError(t, svc.DeleteUser(context.Background(), "u1"))
	assert.Equal(t, "u1", rm.u.deletedID)

	valid, err := rm.r.IsValid(context.Background(), "u1", pair.RefreshToken)
	require.NoError(t, err)
	assert.False(t, valid)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestVerifyAccessToken(t *testing.T) {
	rm := &fakeRepoManager{u: &fakeUsersRepo{}, r: newFakeLedger()}
	svc, _ := newUserService(t, rm)

	token, err := auth.GenerateToken("u1", []byte("accessSecret"), time.Minute)
	require.NoError(t, err)

	userID, err := svc.VerifyAccessToken(token)
	require.NoError(t, err)
	assert.Equal(t, "u1", userID)

	_, err = svc.VerifyAccessToken("junk")
	assert.Error(t, err)
}

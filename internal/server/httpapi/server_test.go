package httpapi

import (
	"context"
	"database/sql"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/mbelozerov/eventkeeper/internal/common"
	"github.com/mbelozerov/eventkeeper/internal/dbx"
	"github.com/mbelozerov/eventkeeper/internal/logging"
	"github.com/mbelozerov/eventkeeper/internal/server/config"
	"github.com/mbelozerov/eventkeeper/internal/server/models"
	addressesrepo "github.com/mbelozerov/eventkeeper/internal/server/repositories/addresses"
	attendeesrepo "github.com/mbelozerov/eventkeeper/internal/server/repositories/attendees"
	eventsrepo "github.com/mbelozerov/eventkeeper/internal/server/repositories/events"
	imagesrepo "github.com/mbelozerov/eventkeeper/internal/server/repositories/images"
	refreshtokensrepo "github.com/mbelozerov/eventkeeper/internal/server/repositories/refreshtokens"
	statsrepo "github.com/mbelozerov/eventkeeper/internal/server/repositories/stats"
	usersrepo "github.com/mbelozerov/eventkeeper/internal/server/repositories/users"
	"github.com/mbelozerov/eventkeeper/internal/server/services"
)

// In-memory backends so the whole HTTP stack runs without Postgres.

type memUsers struct {
	byName map[string]*models.User
	nextID int
}

func newMemUsers() *memUsers { return &memUsers{byName: map[string]*models.User{}} }

func (m *memUsers) Create(ctx context.Context, u *models.User) (*models.User, error) {
	key := u.UserName + "/" + u.Email
	if _, ok := m.byName[key]; ok {
		return nil, common.ErrorConflict
	}
	m.nextID++
	u.ID = "u" + strconv.Itoa(m.nextID)
	m.byName[key] = u
	return u, nil
}

func (m *memUsers) FindByUsernameAndEmail(ctx context.Context, username, email string) (*models.User, error) {
	u, ok := m.byName[username+"/"+email]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return u, nil
}

func (m *memUsers) UpdatePassword(ctx context.Context, userID, hash string) error { return nil }
func (m *memUsers) Delete(ctx context.Context, userID string) error               { return nil }

type memLedger struct {
	revoked map[string]bool
	expires map[string]time.Time
	owner   map[string]string
}

func newMemLedger() *memLedger {
	return &memLedger{revoked: map[string]bool{}, expires: map[string]time.Time{}, owner: map[string]string{}}
}

func (m *memLedger) Store(ctx context.Context, userID, token string, expiresAt time.Time) error {
	if _, ok := m.revoked[token]; !ok {
		m.revoked[token] = false
		m.expires[token] = expiresAt
		m.owner[token] = userID
	}
	return nil
}

func (m *memLedger) IsValid(ctx context.Context, userID, token string) (bool, error) {
	revoked, ok := m.revoked[token]
	if !ok || revoked || m.owner[token] != userID {
		return false, nil
	}
	return m.expires[token].After(time.Now()), nil
}

func (m *memLedger) Revoke(ctx context.Context, token string) error {
	if _, ok := m.revoked[token]; ok {
		m.revoked[token] = true
	}
	return nil
}

func (m *memLedger) RevokeAll(ctx context.Context, userID string) error {
	for token, owner := range m.owner {
		if owner == userID {
			m.revoked[token] = true
		}
	}
	return nil
}

type memEvents struct {
	eventsrepo.Repository
	list []models.Event
}

func (m *memEvents) ListByUser(ctx context.Context, userID string) ([]models.Event, error) {
	return m.list, nil
}

func (m *memEvents) ListAll(ctx context.Context) ([]models.Event, error) {
	return m.list, nil
}

type memStats struct {
	out models.EventStats
}

func (m *memStats) ForUser(ctx context.Context, userID string) (*models.EventStats, error) {
	return &m.out, nil
}

type memRepoManager struct {
	users  *memUsers
	ledger *memLedger
	events *memEvents
	stats  *memStats
}

func (m *memRepoManager) RunMigrations(context.Context, *sql.DB) error { return nil }
func (m *memRepoManager) Users(db dbx.DBTX) usersrepo.Repository      { return m.users }
func (m *memRepoManager) RefreshTokens(db dbx.DBTX) refreshtokensrepo.Repository {
	return m.ledger
}
func (m *memRepoManager) Events(db dbx.DBTX) eventsrepo.Repository       { return m.events }
func (m *memRepoManager) Addresses(db dbx.DBTX) addressesrepo.Repository { return nil }
func (m *memRepoManager) Attendees(db dbx.DBTX) attendeesrepo.Repository { return nil }
func (m *memRepoManager) Images(db dbx.DBTX) imagesrepo.Repository       { return nil }
func (m *memRepoManager) Stats(db dbx.DBTX) statsrepo.Repository         { return m.stats }

func discardSlog() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testConfig() *config.Config {
	return &config.Config{
		AccessTokenSecret:            "accessSecret",
		RefreshTokenSecret:           "refreshSecret",
		AccessTokenValidityDuration:  5 * time.Minute,
		RefreshTokenValidityDuration: 7 * 24 * time.Hour,
		BcryptCost:                   bcrypt.MinCost,
		AuthRatePerMinute:            1000,
		CORSOrigin:                   "http://localhost:4200",
	}
}

type testEnv struct {
	handler http.Handler
	rm      *memRepoManager
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db, _, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	cfg := testConfig()
	rm := &memRepoManager{users: newMemUsers(), ledger: newMemLedger(), events: &memEvents{}, stats: &memStats{}}
	logger := logging.NewSlogLogger(discardSlog())

	userSvc := services.NewUserService(db, rm, cfg)
	eventSvc := services.NewEventService(db, rm)
	addressSvc := services.NewAddressService(db, rm)
	attendeeSvc := services.NewAttendeeService(db, rm)
	imageSvc := services.NewImageService(db, rm, services.NewObjectStorage(cfg))

	srv := NewServer(logger, db, cfg, userSvc, eventSvc, addressSvc, attendeeSvc, imageSvc)
	return &testEnv{handler: srv.Routes(), rm: rm}
}

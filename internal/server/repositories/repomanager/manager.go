package repomanager

import (
	"context"
	"database/sql"

	"github.com/mbelozerov/eventkeeper/internal/dbx"
	"github.com/mbelozerov/eventkeeper/internal/server/repositories/addresses"
	"github.com/mbelozerov/eventkeeper/internal/server/repositories/attendees"
	"github.com/mbelozerov/eventkeeper/internal/server/repositories/events"
	"github.com/mbelozerov/eventkeeper/internal/server/repositories/images"
	"github.com/mbelozerov/eventkeeper/internal/server/repositories/refreshtokens"
	"github.com/mbelozerov/eventkeeper/internal/server/repositories/stats"
	"github.com/mbelozerov/eventkeeper/internal/server/repositories/users"
)

type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Users(db dbx.DBTX) users.Repository
	RefreshTokens(db dbx.DBTX) refreshtokens.Repository
	Events(db dbx.DBTX) events.Repository
	Addresses(db dbx.DBTX) addresses.Repository
	Attendees(db dbx.DBTX) attendees.Repository
	Images(db dbx.DBTX) images.Repository
	Stats(db dbx.DBTX) stats.Repository
}

package migrations

import (
	"database/sql"
	"strings"

	_ "embed"

	migrate "github.com/rubenv/sql-migrate"

	"github.com/hyperledger-labs/yui-colony/log"
)

const upDownSeparator = "-- +migrate Up"

//go:embed 0001.sql
var mig001 string
var mig001splitted = strings.Split(mig001, upDownSeparator)

var Migrations = &migrate.MemoryMigrationSource{
	Migrations: []*migrate.Migration{
		{
			Id:   "colony001",
			Up:   []string{mig001splitted[1]},
			Down: []string{mig001splitted[0]},
		},
	},
}

// RunMigrations applies every pending migration to db.
func RunMigrations(db *sql.DB) error {
	n, err := migrate.Exec(db, "sqlite3", Migrations, migrate.Up)
	if err != nil {
		return err
	}
	log.GetLogger().WithModule("store.sqlite").Debug("migrations applied", "count", n)
	return nil
}

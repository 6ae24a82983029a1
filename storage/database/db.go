package database

import (
	"os"
	"path/filepath"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"github.com/trezcool/goose"
	_ "modernc.org/sqlite"

	"github.com/trezcool/tutorsync/core"
	appfs "github.com/trezcool/tutorsync/fs"
)

// Open opens (or creates) the SQLite store at conf.Database.Path.
func Open(conf *core.Config) (*sqlx.DB, error) {
	path := conf.Database.Path
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, errors.Wrap(err, "creating database directory")
	}

	dsn := "file:" + path + "?mode=rwc&_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)"
	db, err := sqlx.Connect("sqlite", dsn)
	if err != nil {
		return nil, errors.Wrap(err, "opening database")
	}

	// single connection: one writer at a time, no SQLITE_BUSY surprises
	db.SetMaxOpenConns(1)
	return db, nil
}

func Migrate(db *sqlx.DB) error {
	if err := goose.SetDialect("sqlite3"); err != nil {
		return errors.Wrap(err, "setting migration dialect")
	}
	if err := goose.RunFS("up", db.DB, appfs.FS, "migrations"); err != nil {
		return errors.Wrap(err, "migrating database")
	}
	return nil
}

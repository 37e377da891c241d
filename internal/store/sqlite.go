package store

import (
	"database/sql"
	"database/sql/driver"
	"fmt"
	"os"
	"path/filepath"

	libsql "github.com/tursodatabase/libsql-client-go/libsql"
	glebarezsqlite "github.com/glebarez/sqlite"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Connect opens the ledger database at dsn and runs migrations. Local
// file DSNs use the pure-Go glebarez/sqlite driver (no cgo); a
// "libsql://" or "http(s)://" DSN is treated as a remote/replicated
// Turso database and wired through the auth-token-aware libsql
// connector, wrapped in gorm.io/driver/sqlite's Conn-based dialector —
// both branches grounded in the teacher's db/sqlite.go Connect.
func Connect(dsn string, debug bool) (*gorm.DB, error) {
	if !isRemote(dsn) {
		if dir := filepath.Dir(dsn); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, fmt.Errorf("failed to create ledger directory: %w", err)
			}
		}
	}

	cfg := &gorm.Config{}
	if debug {
		cfg.Logger = logger.Default.LogMode(logger.Info)
	}

	var (
		dialector gorm.Dialector
		conn      *sql.DB
	)
	if isRemote(dsn) {
		var (
			connector driver.Connector
			err       error
		)
		if token := os.Getenv("CSTFORGE_LIBSQL_AUTH_TOKEN"); token != "" {
			connector, err = libsql.NewConnector(dsn, libsql.WithAuthToken(token))
		} else {
			connector, err = libsql.NewConnector(dsn)
		}
		if err != nil {
			return nil, fmt.Errorf("failed to create libsql connector: %w", err)
		}
		conn = sql.OpenDB(connector)
		dialector = sqlite.New(sqlite.Config{
			DriverName: "libsql",
			Conn:       conn,
			DSN:        dsn,
		})
	} else {
		dialector = glebarezsqlite.Open(dsn)
	}

	db, err := gorm.Open(dialector, cfg)
	if err != nil {
		if conn != nil {
			conn.Close()
		}
		return nil, fmt.Errorf("failed to connect to ledger db: %w", err)
	}

	if sqlDB, err := db.DB(); err == nil {
		sqlDB.Exec("PRAGMA foreign_keys = ON")
	}

	if err := Migrate(db); err != nil {
		return nil, fmt.Errorf("ledger migration failed: %w", err)
	}
	return db, nil
}

func isRemote(dsn string) bool {
	return len(dsn) > 7 && (dsn[:7] == "http://" || (len(dsn) > 8 && dsn[:8] == "https://") || (len(dsn) >= 6 && dsn[:6] == "libsql"))
}

// Migrate auto-migrates the ledger schema.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(&PlanRun{}, &StepRecord{})
}

package db

import (
	"database/sql"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	_ "github.com/mutecomm/go-sqlcipher/v4"
	"github.com/rs/zerolog"
)

// ErrWrongKey is returned when the file exists but cannot be decrypted with the given key
var ErrWrongKey = errors.New("database key does not match")

// ErrNoPassword is returned by Open for an empty key, which would leave the file unencrypted
var ErrNoPassword = errors.New("database password cannot be empty")

// pragmas run on the single connection right after it is opened
var pragmas = []struct {
	stmt string
	what string
}{
	{"PRAGMA foreign_keys = ON", "enable foreign keys"},
	{"PRAGMA journal_mode = WAL", "enable WAL mode"},
	{"PRAGMA busy_timeout = 5000", "set busy timeout"},
}

// DB wraps the SQLCipher handle shared by every repository
type DB struct {
	*sql.DB
	path string
	log  zerolog.Logger
}

// Open opens (or creates) the encrypted database at dbPath.
func Open(dbPath, password string, log zerolog.Logger) (*DB, error) {
	if password == "" {
		return nil, ErrNoPassword
	}
	if err := os.MkdirAll(filepath.Dir(dbPath), 0700); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	dsn := dbPath + "?_pragma_key=" + url.QueryEscape(pragmaKey(password))

	sqlDB, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// PRAGMAs are per connection
	sqlDB.SetMaxOpenConns(1)

	if err := unlock(sqlDB); err != nil {
		sqlDB.Close()
		return nil, err
	}

	for _, p := range pragmas {
		if _, err := sqlDB.Exec(p.stmt); err != nil {
			sqlDB.Close()
			return nil, fmt.Errorf("failed to %s: %w", p.what, err)
		}
	}

	log.Debug().Str("path", dbPath).Msg("database opened")
	return &DB{DB: sqlDB, path: dbPath, log: log}, nil
}

// pragmaKey quotes a passphrase for the driver, which runs PRAGMA key = "<value>"
func pragmaKey(password string) string {
	return strings.ReplaceAll(password, `"`, `""`)
}

// unlock reads the schema table, which is the first point where SQLCipher
// notices a wrong key.
func unlock(sqlDB *sql.DB) error {
	var n int
	if err := sqlDB.QueryRow("SELECT count(*) FROM sqlite_master").Scan(&n); err != nil {
		return fmt.Errorf("%w: %v", ErrWrongKey, err)
	}
	return nil
}

// Path returns the database file location
func (db *DB) Path() string {
	return db.path
}

func (db *DB) Close() error {
	db.log.Debug().Str("path", db.path).Msg("database closed")
	return db.DB.Close()
}

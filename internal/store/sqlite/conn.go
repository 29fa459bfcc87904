package sqlite

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

// Open opens (or creates) a SQLite database at the given path and enables WAL
// journal mode. The URI parameters give better concurrency for the local
// single-process deployment this driver targets.
func Open(path string) (*sql.DB, error) {
	// ensure parent directory exists to avoid SQLITE_CANTOPEN errors
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}

	dsn := fmt.Sprintf("file:%s?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=foreign_keys(ON)", path)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, err
	}
	// database/sql connection pooling breaks SQLite write serialization;
	// one connection keeps every engine operation a single atomic unit.
	db.SetMaxOpenConns(1)
	return db, nil
}

// schema is applied on open. Timestamps are stored as integer nanoseconds so
// records survive round trips bit-identically.
const schema = `
CREATE TABLE IF NOT EXISTS registry (
    registry_id   INTEGER PRIMARY KEY CHECK (registry_id = 1),
    authority     TEXT    NOT NULL,
    agent_count   INTEGER NOT NULL,
    total_volume  INTEGER NOT NULL,
    creation_time INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS agents (
    agent_id       TEXT PRIMARY KEY,
    owner          TEXT    NOT NULL,
    operator       TEXT    NOT NULL,
    daily_limit    INTEGER NOT NULL,
    daily_spent    INTEGER NOT NULL,
    window_start   INTEGER NOT NULL,
    is_active      INTEGER NOT NULL,
    total_received INTEGER NOT NULL,
    total_sent     INTEGER NOT NULL,
    creation_time  INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_agents_owner ON agents(owner);

CREATE TABLE IF NOT EXISTS payment_requests (
    request_id   TEXT PRIMARY KEY,
    agent_id     TEXT    NOT NULL REFERENCES agents(agent_id),
    operator     TEXT    NOT NULL,
    owner        TEXT    NOT NULL,
    recipient    TEXT    NOT NULL,
    amount       INTEGER NOT NULL,
    purpose      TEXT    NOT NULL,
    status       TEXT    NOT NULL,
    requested_at INTEGER NOT NULL,
    processed_at INTEGER
);
CREATE INDEX IF NOT EXISTS idx_requests_agent ON payment_requests(agent_id);
CREATE INDEX IF NOT EXISTS idx_requests_owner_status ON payment_requests(owner, status);

CREATE TABLE IF NOT EXISTS accounts (
    address TEXT PRIMARY KEY,
    balance INTEGER NOT NULL CHECK (balance >= 0)
);
`

// EnsureSchema creates the tables if they do not exist yet.
func EnsureSchema(db *sql.DB) error {
	_, err := db.Exec(schema)
	return err
}

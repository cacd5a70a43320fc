// Package history keeps an audit log of fetch cycles.
package history

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	_ "github.com/go-sql-driver/mysql"
	_ "github.com/jackc/pgx/v5/stdlib"
	_ "modernc.org/sqlite"
)

// Backend names a history database flavour
type Backend string

const (
	BackendSQLite   Backend = "sqlite"
	BackendPostgres Backend = "postgres"
	BackendMySQL    Backend = "mysql"
	BackendNone     Backend = "none"
)

// ParseBackend maps a config value to a Backend. Empty means sqlite.
func ParseBackend(s string) (Backend, error) {
	switch b := Backend(strings.ToLower(strings.TrimSpace(s))); b {
	case "":
		return BackendSQLite, nil
	case BackendSQLite, BackendPostgres, BackendMySQL, BackendNone:
		return b, nil
	default:
		return "", fmt.Errorf("unsupported history backend: %q", s)
	}
}

// Outcome of a recorded fetch cycle
type Outcome string

const (
	OutcomeOK     Outcome = "ok"
	OutcomeFailed Outcome = "failed"
	OutcomeStale  Outcome = "stale"
)

// Entry is one history row
type Entry struct {
	ID         string
	SessionID  string
	Seq        uint64
	Repository string
	Label      string
	Mode       string
	Outcome    Outcome
	Error      string
	StartedAt  time.Time
	Duration   time.Duration
}

// ErrDisabled is returned by Recent when history is turned off
var ErrDisabled = errors.New("fetch history is disabled")

const historyTable = "fetch_history"

// Store reads and writes history rows
type Store struct {
	db      *sql.DB
	backend Backend
}

// DefaultSQLitePath returns the history file under the user cache directory
func DefaultSQLitePath() string {
	dir, err := os.UserCacheDir()
	if err != nil {
		dir = os.TempDir()
	}
	return filepath.Join(dir, "ghforecast", "history.db")
}

// Open connects to backend and migrates its schema. BackendNone yields a
// store that discards writes.
func Open(backend Backend, dsn string) (*Store, error) {
	var (
		db  *sql.DB
		err error
	)

	switch backend {
	case BackendSQLite:
		path := dsn
		if path == "" {
			path = DefaultSQLitePath()
		}
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("failed to create history directory: %w", err)
		}
		db, err = sql.Open("sqlite", path)
		if err != nil {
			return nil, fmt.Errorf("failed to open SQLite database at %q: %w", path, err)
		}
		// a single connection avoids "database is locked" errors
		db.SetMaxOpenConns(1)

	case BackendPostgres:
		db, err = sql.Open("pgx", dsn)
		if err != nil {
			return nil, fmt.Errorf("failed to open PostgreSQL database: %w", err)
		}

	case BackendMySQL:
		db, err = sql.Open("mysql", dsn)
		if err != nil {
			return nil, fmt.Errorf("failed to open MySQL database: %w", err)
		}

	case BackendNone:
		return &Store{backend: BackendNone}, nil

	default:
		return nil, fmt.Errorf("unsupported history backend: %q", backend)
	}

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to connect to %s history database: %w", backend, err)
	}
	if err := Migrate(db, backend); err != nil {
		_ = db.Close()
		return nil, err
	}

	return &Store{db: db, backend: backend}, nil
}

// Backend returns the backend the store writes to
func (s *Store) Backend() Backend { return s.backend }

// Enabled reports whether rows are persisted
func (s *Store) Enabled() bool { return s.db != nil }

// Append inserts one row
func (s *Store) Append(ctx context.Context, e Entry) error {
	if s.db == nil {
		return nil
	}

	query := s.rebind(fmt.Sprintf(`INSERT INTO %s
		(id, session_id, seq, repository, label, mode, outcome, error_text, started_at, duration_ms)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`, historyTable))

	_, err := s.db.ExecContext(ctx, query,
		e.ID, e.SessionID, int64(e.Seq), e.Repository, e.Label, e.Mode,
		string(e.Outcome), e.Error, e.StartedAt.UnixMilli(), e.Duration.Milliseconds())
	if err != nil {
		return fmt.Errorf("failed to record fetch history: %w", err)
	}
	return nil
}

// Recent returns up to limit rows, newest first
func (s *Store) Recent(ctx context.Context, limit int) ([]Entry, error) {
	if s.db == nil {
		return nil, ErrDisabled
	}
	if limit <= 0 {
		limit = 20
	}

	query := s.rebind(fmt.Sprintf(`SELECT id, session_id, seq, repository, label, mode, outcome, error_text, started_at, duration_ms
		FROM %s ORDER BY started_at DESC, seq DESC LIMIT ?`, historyTable))

	rows, err := s.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query fetch history: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []Entry
	for rows.Next() {
		var (
			e         Entry
			seq       int64
			outcome   string
			startedAt int64
			duration  int64
		)
		if err := rows.Scan(&e.ID, &e.SessionID, &seq, &e.Repository, &e.Label, &e.Mode,
			&outcome, &e.Error, &startedAt, &duration); err != nil {
			return nil, fmt.Errorf("failed to scan fetch history: %w", err)
		}
		e.Seq = uint64(seq)
		e.Outcome = Outcome(outcome)
		e.StartedAt = time.UnixMilli(startedAt)
		e.Duration = time.Duration(duration) * time.Millisecond
		out = append(out, e)
	}
	return out, rows.Err()
}

// Close releases the database handle
func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

// rebind rewrites ? placeholders as $n for PostgreSQL
func (s *Store) rebind(query string) string {
	if s.backend != BackendPostgres {
		return query
	}
	var b strings.Builder
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteString("$" + strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

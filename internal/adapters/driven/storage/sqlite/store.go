package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/custodia-labs/focuscoach/internal/adapters/driven/storage/sqlite/migrations"
	"github.com/custodia-labs/focuscoach/internal/core/domain"
	"github.com/custodia-labs/focuscoach/internal/core/ports/driven"
)

// Store is a SQLite-based storage that provides the history stores
// through wrapper types.
type Store struct {
	db   *sql.DB
	path string
}

// NewStore creates a new SQLite store in the specified data directory.
// If dataDir is empty, defaults to ~/.focuscoach/data/history.db.
func NewStore(dataDir string) (*Store, error) {
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, ".focuscoach", "data")
	}

	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, "history.db")

	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{
		db:   db,
		path: dbPath,
	}

	if err := s.migrate(migrations.FS); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// EvaluationStore returns an EvaluationStore backed by this store.
func (s *Store) EvaluationStore() driven.EvaluationStore {
	return &evaluationStore{store: s}
}

// SessionLog returns a SessionLog backed by this store.
func (s *Store) SessionLog() driven.SessionLog {
	return &sessionLog{store: s}
}

// migrate runs all pending migrations and records their versions.
func (s *Store) migrate(fsys fs.FS) error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("creating schema_migrations table: %w", err)
	}

	var currentVersion int
	row := s.db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations")
	if err := row.Scan(&currentVersion); err != nil {
		return fmt.Errorf("getting current version: %w", err)
	}

	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return fmt.Errorf("reading migrations directory: %w", err)
	}

	var upFiles []string
	for _, entry := range entries {
		if name := entry.Name(); strings.HasSuffix(name, ".up.sql") {
			upFiles = append(upFiles, name)
		}
	}
	sort.Strings(upFiles)

	for _, name := range upFiles {
		// "001_initial.up.sql" -> 1
		var version int
		if _, err := fmt.Sscanf(name, "%d_", &version); err != nil {
			continue
		}
		if version <= currentVersion {
			continue
		}

		content, err := fs.ReadFile(fsys, name)
		if err != nil {
			return fmt.Errorf("reading migration %s: %w", name, err)
		}
		if _, err := s.db.Exec(string(content)); err != nil {
			return fmt.Errorf("executing migration %s: %w", name, err)
		}
		// OR IGNORE: another process may have applied the same version concurrently.
		if _, err := s.db.Exec("INSERT OR IGNORE INTO schema_migrations (version) VALUES (?)", version); err != nil {
			return fmt.Errorf("recording migration %s: %w", name, err)
		}
	}

	return nil
}

// sqlLimit maps a non-positive limit to SQLite's "no limit".
func sqlLimit(limit int) int {
	if limit <= 0 {
		return -1
	}
	return limit
}

func toMillis(t time.Time) int64 {
	return t.UnixMilli()
}

func fromMillis(ms int64) time.Time {
	return time.UnixMilli(ms).UTC()
}

// ==================== Evaluation Store ====================

type evaluationStore struct {
	store *Store
}

var _ driven.EvaluationStore = (*evaluationStore)(nil)

// Record stores one evaluation. Recording the same ID twice replaces it.
func (e *evaluationStore) Record(ctx context.Context, eval domain.Evaluation) error {
	var model sql.NullInt64
	if eval.Result.Model != nil {
		model = sql.NullInt64{Int64: int64(*eval.Result.Model), Valid: true}
	}

	_, err := e.store.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO evaluations
			(id, kind, goal, url, title, relevance, recommendation, summary, heuristic, model_score, source, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		eval.ID, string(eval.Kind), eval.Goal, eval.URL, eval.Title,
		eval.Result.Relevance, string(eval.Result.Recommendation), eval.Result.Summary,
		eval.Result.Heuristic, model, string(eval.Result.Source), toMillis(eval.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("recording evaluation: %w", err)
	}
	return nil
}

// Recent returns the most recent evaluations, newest first.
func (e *evaluationStore) Recent(ctx context.Context, limit int) ([]domain.Evaluation, error) {
	rows, err := e.store.db.QueryContext(ctx, `
		SELECT id, kind, goal, url, title, relevance, recommendation, summary, heuristic, model_score, source, created_at
		FROM evaluations
		ORDER BY created_at DESC, rowid DESC
		LIMIT ?`, sqlLimit(limit))
	if err != nil {
		return nil, fmt.Errorf("querying evaluations: %w", err)
	}
	defer rows.Close()

	evals := []domain.Evaluation{}
	for rows.Next() {
		var (
			eval              domain.Evaluation
			kind, rec, source string
			model             sql.NullInt64
			createdAt         int64
		)
		if err := rows.Scan(&eval.ID, &kind, &eval.Goal, &eval.URL, &eval.Title,
			&eval.Result.Relevance, &rec, &eval.Result.Summary, &eval.Result.Heuristic,
			&model, &source, &createdAt); err != nil {
			return nil, fmt.Errorf("scanning evaluation: %w", err)
		}
		eval.Kind = domain.ContentKind(kind)
		eval.Result.Recommendation = domain.Recommendation(rec)
		eval.Result.Source = domain.ScoreSource(source)
		if model.Valid {
			m := int(model.Int64)
			eval.Result.Model = &m
		}
		eval.CreatedAt = fromMillis(createdAt)
		evals = append(evals, eval)
	}
	return evals, rows.Err()
}

// ==================== Session Log ====================

type sessionLog struct {
	store *Store
}

var _ driven.SessionLog = (*sessionLog)(nil)

// Started records a new session. Every process derives the same ID for a
// session, so a second Started for the same ID is ignored.
func (l *sessionLog) Started(ctx context.Context, rec domain.SessionRecord) error {
	_, err := l.store.db.ExecContext(ctx, `
		INSERT OR IGNORE INTO focus_sessions (id, goal, started_at, ends_at, duration_minutes)
		VALUES (?, ?, ?, ?, ?)`,
		rec.ID, rec.Goal, toMillis(rec.StartedAt), toMillis(rec.EndsAt), rec.DurationMinutes,
	)
	if err != nil {
		return fmt.Errorf("recording session start: %w", err)
	}
	return nil
}

// Ended marks a session as ended. A session whose start was never recorded
// is inserted whole.
func (l *sessionLog) Ended(ctx context.Context, id string, rec domain.SessionRecord) error {
	endedAt := time.Now()
	if rec.EndedAt != nil {
		endedAt = *rec.EndedAt
	}

	_, err := l.store.db.ExecContext(ctx, `
		INSERT INTO focus_sessions (id, goal, started_at, ends_at, ended_at, duration_minutes)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET ended_at = COALESCE(focus_sessions.ended_at, excluded.ended_at)`,
		id, rec.Goal, toMillis(rec.StartedAt), toMillis(rec.EndsAt), toMillis(endedAt), rec.DurationMinutes,
	)
	if err != nil {
		return fmt.Errorf("recording session end: %w", err)
	}
	return nil
}

// Recent returns the most recent sessions, newest first.
func (l *sessionLog) Recent(ctx context.Context, limit int) ([]domain.SessionRecord, error) {
	rows, err := l.store.db.QueryContext(ctx, `
		SELECT id, goal, started_at, ends_at, ended_at, duration_minutes
		FROM focus_sessions
		ORDER BY started_at DESC, rowid DESC
		LIMIT ?`, sqlLimit(limit))
	if err != nil {
		return nil, fmt.Errorf("querying sessions: %w", err)
	}
	defer rows.Close()

	records := []domain.SessionRecord{}
	for rows.Next() {
		var (
			rec               domain.SessionRecord
			startedAt, endsAt int64
			endedAt           sql.NullInt64
		)
		if err := rows.Scan(&rec.ID, &rec.Goal, &startedAt, &endsAt, &endedAt, &rec.DurationMinutes); err != nil {
			return nil, fmt.Errorf("scanning session: %w", err)
		}
		rec.StartedAt = fromMillis(startedAt)
		rec.EndsAt = fromMillis(endsAt)
		if endedAt.Valid {
			t := fromMillis(endedAt.Int64)
			rec.EndedAt = &t
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

// Package storage is the local cache: saved code snapshots and draft form
// state per problem number, kept in a sqlite file.
package storage

import (
	"crypto/sha256"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/neelbansal/leetion/internal/domain"
	_ "modernc.org/sqlite" // Registers the sqlite driver
)

// DB wraps the sqlite connection.
type DB struct {
	conn *sql.DB
}

// Open creates a new database connection and ensures the schema is up to date.
func Open(dsn string) (*DB, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		return nil, fmt.Errorf("failed to apply schema: %w", err)
	}

	return &DB{conn: db}, nil
}

// Close closes the database connection.
func (db *DB) Close() error {
	return db.conn.Close()
}

// Fingerprint normalizes code (lowercased, trimmed, unified line endings) and
// returns its SHA-256 hex digest, so reformatted-but-identical submissions
// dedupe.
func Fingerprint(code string) string {
	normalized := strings.ToLower(strings.TrimSpace(code))
	normalized = strings.ReplaceAll(normalized, "\r\n", "\n")
	return fmt.Sprintf("%x", sha256.Sum256([]byte(normalized)))
}

// InsertSnapshot stores a snapshot for a problem. It reports false without
// error when an identical snapshot already exists for that problem.
func (db *DB) InsertSnapshot(problemNumber int, snap domain.Snapshot) (bool, error) {
	kind := snap.Type
	if kind == "" {
		kind = domain.SnapshotSolution
	}
	res, err := db.conn.Exec(`
		INSERT OR IGNORE INTO snapshots (id, problem_number, language, code, kind, fingerprint, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`,
		snap.ID,
		problemNumber,
		snap.Language,
		snap.Code,
		string(kind),
		Fingerprint(snap.Code),
		snap.Timestamp,
	)
	if err != nil {
		return false, fmt.Errorf("failed to insert snapshot for problem %d: %w", problemNumber, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read insert result: %w", err)
	}
	return n > 0, nil
}

// SnapshotsForProblem returns a problem's snapshots in insertion order.
func (db *DB) SnapshotsForProblem(problemNumber int) ([]domain.Snapshot, error) {
	rows, err := db.conn.Query(`
		SELECT id, language, code, kind, created_at
		FROM snapshots WHERE problem_number = ?
		ORDER BY created_at, id
	`, problemNumber)
	if err != nil {
		return nil, fmt.Errorf("failed to get snapshots for problem %d: %w", problemNumber, err)
	}
	defer rows.Close()

	var snaps []domain.Snapshot
	for rows.Next() {
		var s domain.Snapshot
		var kind string
		if err := rows.Scan(&s.ID, &s.Language, &s.Code, &kind, &s.Timestamp); err != nil {
			return nil, fmt.Errorf("failed to scan snapshot row: %w", err)
		}
		s.Type = domain.SnapshotType(kind)
		snaps = append(snaps, s)
	}
	return snaps, rows.Err()
}

// DeleteSnapshot removes one snapshot by ID.
func (db *DB) DeleteSnapshot(id string) error {
	_, err := db.conn.Exec(`DELETE FROM snapshots WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete snapshot %s: %w", id, err)
	}
	return nil
}

// Draft is the form state saved for a problem between sessions.
type Draft struct {
	ProblemNumber int
	Remark        string
	AltMethods    string
	Expertise     string
	Notes         string
	UpdatedAt     time.Time
}

// SaveDraft upserts a problem's draft state.
func (db *DB) SaveDraft(d Draft) error {
	_, err := db.conn.Exec(`
		INSERT INTO drafts (problem_number, remark, alt_methods, expertise, notes, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(problem_number) DO UPDATE SET
			remark = excluded.remark,
			alt_methods = excluded.alt_methods,
			expertise = excluded.expertise,
			notes = excluded.notes,
			updated_at = excluded.updated_at
	`,
		d.ProblemNumber, d.Remark, d.AltMethods, d.Expertise, d.Notes, time.Now(),
	)
	if err != nil {
		return fmt.Errorf("failed to save draft for problem %d: %w", d.ProblemNumber, err)
	}
	return nil
}

// LoadDraft returns a problem's draft, or nil when none is saved.
func (db *DB) LoadDraft(problemNumber int) (*Draft, error) {
	var d Draft
	row := db.conn.QueryRow(`
		SELECT problem_number, remark, alt_methods, expertise, notes, updated_at
		FROM drafts WHERE problem_number = ?
	`, problemNumber)

	err := row.Scan(&d.ProblemNumber, &d.Remark, &d.AltMethods, &d.Expertise, &d.Notes, &d.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to load draft for problem %d: %w", problemNumber, err)
	}
	return &d, nil
}

// DeleteDraft removes a problem's draft after a successful sync.
func (db *DB) DeleteDraft(problemNumber int) error {
	_, err := db.conn.Exec(`DELETE FROM drafts WHERE problem_number = ?`, problemNumber)
	if err != nil {
		return fmt.Errorf("failed to delete draft for problem %d: %w", problemNumber, err)
	}
	return nil
}

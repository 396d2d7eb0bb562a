package audit

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/kepler-college/campusbot/internal/chat"
	"github.com/kepler-college/campusbot/internal/db"
)

// timeLayout sorts lexically in chronological order.
const timeLayout = "2006-01-02 15:04:05.000000"

// Store provides persistence for turn entries.
type Store struct {
	db  *db.DB
	now func() time.Time
}

// NewStore creates a Store backed by the given database.
func NewStore(database *db.DB) *Store {
	return &Store{db: database, now: time.Now}
}

// Log inserts a new entry. If entry.ID is empty a UUID is generated; if
// CreatedAt is zero the current time is used.
func (s *Store) Log(ctx context.Context, entry Entry) error {
	if entry.ID == "" {
		entry.ID = uuid.New().String()
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = s.now()
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO turns (
			id, session_id, provider, model, question, answer, is_error,
			input_tokens, output_tokens, latency_ms, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		entry.ID,
		entry.SessionID,
		entry.Provider,
		entry.Model,
		entry.Question,
		entry.Answer,
		boolToInt(entry.IsError),
		entry.InputTokens,
		entry.OutputTokens,
		entry.Latency.Milliseconds(),
		entry.CreatedAt.UTC().Format(timeLayout),
	)
	if err != nil {
		return fmt.Errorf("inserting turn: %w", err)
	}
	return nil
}

// RecordTurn implements chat.Recorder.
func (s *Store) RecordTurn(ctx context.Context, rec chat.TurnRecord) error {
	return s.Log(ctx, Entry{
		SessionID:    rec.SessionID,
		Provider:     rec.Provider,
		Model:        rec.Model,
		Question:     rec.Question,
		Answer:       rec.Answer,
		IsError:      rec.IsError,
		InputTokens:  rec.InputTokens,
		OutputTokens: rec.OutputTokens,
		Latency:      rec.Latency,
	})
}

// GetByID retrieves a single entry.
func (s *Store) GetByID(ctx context.Context, id string) (*Entry, error) {
	row := s.db.QueryRowContext(ctx, selectColumns+" WHERE id = ?", id)
	return scanInto(row)
}

// QueryFilter controls which entries are returned by Query.
type QueryFilter struct {
	SessionID  string
	Provider   string
	ErrorsOnly bool
	Since      *time.Time
	Limit      int
	Offset     int
}

const selectColumns = `SELECT id, session_id, provider, model, question, answer, is_error,
	input_tokens, output_tokens, latency_ms, created_at FROM turns`

// Query returns entries matching the filter, newest first.
func (s *Store) Query(ctx context.Context, filter QueryFilter) ([]Entry, error) {
	var (
		clauses []string
		args    []any
	)

	if filter.SessionID != "" {
		clauses = append(clauses, "session_id = ?")
		args = append(args, filter.SessionID)
	}
	if filter.Provider != "" {
		clauses = append(clauses, "provider = ?")
		args = append(args, filter.Provider)
	}
	if filter.ErrorsOnly {
		clauses = append(clauses, "is_error = 1")
	}
	if filter.Since != nil {
		clauses = append(clauses, "created_at >= ?")
		args = append(args, filter.Since.UTC().Format(timeLayout))
	}

	query := selectColumns
	if len(clauses) > 0 {
		query += " WHERE " + strings.Join(clauses, " AND ")
	}
	query += " ORDER BY created_at DESC"

	// SQLite only accepts OFFSET after LIMIT; -1 means no limit.
	switch {
	case filter.Limit > 0:
		query += fmt.Sprintf(" LIMIT %d", filter.Limit)
	case filter.Offset > 0:
		query += " LIMIT -1"
	}
	if filter.Offset > 0 {
		query += fmt.Sprintf(" OFFSET %d", filter.Offset)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying turns: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		e, err := scanInto(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, *e)
	}
	return entries, rows.Err()
}

// Stats aggregates the whole log.
func (s *Store) Stats(ctx context.Context) (*Stats, error) {
	var st Stats
	var avg sql.NullFloat64
	err := s.db.QueryRowContext(ctx, `
		SELECT COUNT(*),
		       COALESCE(SUM(is_error), 0),
		       COUNT(DISTINCT session_id),
		       COALESCE(SUM(input_tokens), 0),
		       COALESCE(SUM(output_tokens), 0),
		       AVG(latency_ms)
		FROM turns`).Scan(&st.Turns, &st.Errors, &st.Sessions, &st.InputTokens, &st.OutputTokens, &avg)
	if err != nil {
		return nil, fmt.Errorf("computing turn stats: %w", err)
	}
	st.AvgLatencyMS = avg.Float64
	return &st, nil
}

// DeleteBefore removes all entries older than the given time.
// Returns the number of deleted rows.
func (s *Store) DeleteBefore(ctx context.Context, before time.Time) (int64, error) {
	res, err := s.db.ExecContext(ctx,
		"DELETE FROM turns WHERE created_at < ?",
		before.UTC().Format(timeLayout),
	)
	if err != nil {
		return 0, fmt.Errorf("deleting old turns: %w", err)
	}
	return res.RowsAffected()
}

// scanner is implemented by both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanInto(sc scanner) (*Entry, error) {
	var (
		e         Entry
		isError   int
		latencyMS int64
		ts        string
	)
	if err := sc.Scan(&e.ID, &e.SessionID, &e.Provider, &e.Model, &e.Question, &e.Answer,
		&isError, &e.InputTokens, &e.OutputTokens, &latencyMS, &ts); err != nil {
		return nil, err
	}

	e.IsError = isError != 0
	e.Latency = time.Duration(latencyMS) * time.Millisecond
	if t, err := time.Parse(timeLayout, ts); err == nil {
		e.CreatedAt = t
	}
	return &e, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

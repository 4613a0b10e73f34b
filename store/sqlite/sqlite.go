/*
Package sqlite provides a SQLite-backed implementation of roster.Store.

PURPOSE:
  Implements the persistence interface for groups, promoters, and monthly
  records using SQLite. In production, the same patterns apply to
  PostgreSQL - only minor SQL dialect differences.

UNIQUENESS ENFORCEMENT:
  The engine's one hard invariant - at most one monthly record per
  (promoter_id, year, month) - is enforced here, not in application code:

    CREATE UNIQUE INDEX idx_records_promoter_month
      ON monthly_records(promoter_id, year, month)

  UpsertMonthlyRecord rides ON CONFLICT on that index, so concurrent
  toggles from different sessions resolve at the database.

SOFT DELETE:
  There are no DELETE statements for promoters or monthly records.
  Removal sets promoters.leave_date; history stays queryable.

CONCURRENCY:
  Uses sync.RWMutex for thread-safety. In production with PostgreSQL,
  database-level concurrency control handles this instead.

WAL MODE:
  SQLite is opened with WAL (Write-Ahead Logging) for better concurrency:
  - Multiple readers don't block
  - Single writer at a time
  - Better crash recovery

USAGE:
  store, err := sqlite.New("./data/promoters.db")
  if err != nil {
      log.Fatal(err)
  }
  defer store.Close()

MIGRATION:
  Schema is auto-migrated on New(). For production, use a proper
  migration tool (golang-migrate, goose) with versioned migrations.

SEE ALSO:
  - roster/store.go: Interface definition
  - roster/store/memory.go: In-memory implementation for testing
*/
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
	"github.com/shopspring/decimal"

	"github.com/adsparkle/promoter-engine/roster"
)

// Ensure Store implements roster.Store.
var _ roster.Store = (*Store)(nil)

const dateLayout = "2006-01-02"

// Store implements roster.Store using SQLite.
type Store struct {
	db *sql.DB
	mu sync.RWMutex
}

// New creates a new SQLite store with the given database path.
// Use ":memory:" for an in-memory database.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return store, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// migrate creates the database schema.
func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS groups (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		description TEXT,
		daily_rate TEXT NOT NULL DEFAULT '0',
		created_at TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS promoters (
		id TEXT PRIMARY KEY,
		group_id TEXT NOT NULL,
		name TEXT NOT NULL DEFAULT '',
		phone TEXT NOT NULL,
		upi_id TEXT,
		join_date TEXT,
		leave_date TEXT,
		created_at TEXT NOT NULL,
		FOREIGN KEY (group_id) REFERENCES groups(id)
	);

	CREATE INDEX IF NOT EXISTS idx_promoters_group
		ON promoters(group_id);

	CREATE TABLE IF NOT EXISTS monthly_records (
		id TEXT PRIMARY KEY,
		promoter_id TEXT NOT NULL,
		group_id TEXT NOT NULL,
		year INTEGER NOT NULL,
		month INTEGER NOT NULL,
		days INTEGER NOT NULL DEFAULT 0,
		payment_completed BOOLEAN NOT NULL DEFAULT FALSE,
		FOREIGN KEY (promoter_id) REFERENCES promoters(id)
	);

	-- CRITICAL: at most one record per promoter per calendar month.
	-- Upserts conflict on this index; concurrent writers resolve here.
	CREATE UNIQUE INDEX IF NOT EXISTS idx_records_promoter_month
		ON monthly_records(promoter_id, year, month);

	CREATE INDEX IF NOT EXISTS idx_records_group_month
		ON monthly_records(group_id, year, month);

	CREATE TABLE IF NOT EXISTS admins (
		id TEXT PRIMARY KEY,
		created_at TEXT NOT NULL
	);
	`

	_, err := s.db.Exec(schema)
	return err
}

// =============================================================================
// GROUPS
// =============================================================================

func (s *Store) GetGroup(ctx context.Context, groupID string) (*roster.Group, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRowContext(ctx,
		`SELECT id, name, description, daily_rate, created_at FROM groups WHERE id = ?`,
		groupID,
	)
	g, err := scanGroup(row)
	if err == sql.ErrNoRows {
		return nil, roster.ErrGroupNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get group: %w", err)
	}
	return g, nil
}

func (s *Store) ListGroups(ctx context.Context) ([]roster.Group, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, description, daily_rate, created_at FROM groups ORDER BY created_at, id`,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list groups: %w", err)
	}
	defer rows.Close()

	var groups []roster.Group
	for rows.Next() {
		g, err := scanGroup(rows)
		if err != nil {
			return nil, err
		}
		groups = append(groups, *g)
	}
	return groups, rows.Err()
}

func (s *Store) InsertGroup(ctx context.Context, g *roster.Group) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if g.ID == "" {
		g.ID = uuid.New().String()
	}
	if g.CreatedAt.IsZero() {
		g.CreatedAt = time.Now().UTC()
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO groups (id, name, description, daily_rate, created_at) VALUES (?, ?, ?, ?, ?)`,
		g.ID, g.Name, nullStringPtr(g.Description), g.DailyRate.String(),
		g.CreatedAt.Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("failed to insert group: %w", err)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanGroup(row rowScanner) (*roster.Group, error) {
	var (
		g           roster.Group
		description sql.NullString
		rate        string
		createdAt   string
	)
	if err := row.Scan(&g.ID, &g.Name, &description, &rate, &createdAt); err != nil {
		return nil, err
	}
	if description.Valid {
		g.Description = &description.String
	}
	g.DailyRate, _ = decimal.NewFromString(rate)
	g.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
	return &g, nil
}

// =============================================================================
// PROMOTERS
// =============================================================================

func (s *Store) ListPromoters(ctx context.Context, groupID string) ([]roster.Promoter, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, group_id, name, phone, upi_id, join_date, leave_date, created_at
		FROM promoters
		WHERE group_id = ?
		ORDER BY created_at, id
	`, groupID)
	if err != nil {
		return nil, fmt.Errorf("failed to list promoters: %w", err)
	}
	defer rows.Close()

	var promoters []roster.Promoter
	for rows.Next() {
		p, err := scanPromoter(rows)
		if err != nil {
			return nil, err
		}
		promoters = append(promoters, *p)
	}
	return promoters, rows.Err()
}

func (s *Store) GetPromoter(ctx context.Context, promoterID string) (*roster.Promoter, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRowContext(ctx, `
		SELECT id, group_id, name, phone, upi_id, join_date, leave_date, created_at
		FROM promoters WHERE id = ?
	`, promoterID)

	p, err := scanPromoter(row)
	if err == sql.ErrNoRows {
		return nil, roster.ErrPromoterNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get promoter: %w", err)
	}
	return p, nil
}

func (s *Store) InsertPromoter(ctx context.Context, p *roster.Promoter) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now().UTC()
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO promoters (id, group_id, name, phone, upi_id, join_date, leave_date, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`,
		p.ID, p.GroupID, p.Name, p.Phone, nullStringPtr(p.UPIID),
		nullDate(p.JoinDate), nullDate(p.LeaveDate),
		p.CreatedAt.Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("failed to insert promoter: %w", err)
	}
	return nil
}

func (s *Store) UpdatePromoter(ctx context.Context, p *roster.Promoter) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx,
		`UPDATE promoters SET name = ?, phone = ?, upi_id = ? WHERE id = ?`,
		p.Name, p.Phone, nullStringPtr(p.UPIID), p.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update promoter: %w", err)
	}
	return requireRow(res, roster.ErrPromoterNotFound)
}

func (s *Store) SetLeaveDate(ctx context.Context, promoterID string, leaveDate time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx,
		`UPDATE promoters SET leave_date = ? WHERE id = ?`,
		leaveDate.Format(dateLayout), promoterID,
	)
	if err != nil {
		return fmt.Errorf("failed to set leave date: %w", err)
	}
	return requireRow(res, roster.ErrPromoterNotFound)
}

func scanPromoter(row rowScanner) (*roster.Promoter, error) {
	var (
		p         roster.Promoter
		upiID     sql.NullString
		joinDate  sql.NullString
		leaveDate sql.NullString
		createdAt string
	)
	err := row.Scan(&p.ID, &p.GroupID, &p.Name, &p.Phone, &upiID, &joinDate, &leaveDate, &createdAt)
	if err != nil {
		return nil, err
	}
	if upiID.Valid {
		p.UPIID = &upiID.String
	}
	p.JoinDate = parseDate(joinDate)
	p.LeaveDate = parseDate(leaveDate)
	p.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
	return &p, nil
}

// =============================================================================
// MONTHLY RECORDS
// =============================================================================

func (s *Store) ListMonthlyRecords(ctx context.Context, promoterIDs []string, year, month int) ([]roster.MonthlyRecord, error) {
	if len(promoterIDs) == 0 {
		return nil, nil
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(promoterIDs)), ",")

	args := make([]any, 0, len(promoterIDs)+2)
	for _, id := range promoterIDs {
		args = append(args, id)
	}
	args = append(args, year, month)

	query := fmt.Sprintf(`
		SELECT id, promoter_id, group_id, year, month, days, payment_completed
		FROM monthly_records
		WHERE promoter_id IN (%s) AND year = ? AND month = ?
		ORDER BY id
	`, placeholders)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list monthly records: %w", err)
	}
	defer rows.Close()

	var records []roster.MonthlyRecord
	for rows.Next() {
		var r roster.MonthlyRecord
		if err := rows.Scan(&r.ID, &r.PromoterID, &r.GroupID, &r.Year, &r.Month, &r.Days, &r.PaymentCompleted); err != nil {
			return nil, fmt.Errorf("failed to scan monthly record: %w", err)
		}
		records = append(records, r)
	}
	return records, rows.Err()
}

func (s *Store) InsertMonthlyRecord(ctx context.Context, r *roster.MonthlyRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if r.ID == "" {
		r.ID = uuid.New().String()
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO monthly_records (id, promoter_id, group_id, year, month, days, payment_completed)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, r.ID, r.PromoterID, r.GroupID, r.Year, r.Month, r.Days, r.PaymentCompleted)
	if err != nil {
		if isUniqueConstraintError(err) {
			return roster.ErrDuplicateRecord
		}
		return fmt.Errorf("failed to insert monthly record: %w", err)
	}
	return nil
}

func (s *Store) UpdateRecordDays(ctx context.Context, recordID string, days int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx,
		`UPDATE monthly_records SET days = ? WHERE id = ?`,
		days, recordID,
	)
	if err != nil {
		return fmt.Errorf("failed to update record days: %w", err)
	}
	return requireRow(res, roster.ErrRecordNotFound)
}

// UpsertMonthlyRecord writes a record keyed on (promoter_id, year, month)
// and returns the stored row. Issuing the same upsert twice is a no-op
// write - safe to retry.
func (s *Store) UpsertMonthlyRecord(ctx context.Context, r roster.MonthlyRecord) (*roster.MonthlyRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	// An explicit id makes the write an update rather than a blind insert,
	// which avoids duplicate-row races when the constraint lookup is
	// ambiguous during concurrent writes.
	if r.ID == "" {
		r.ID = uuid.New().String()
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO monthly_records (id, promoter_id, group_id, year, month, days, payment_completed)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(promoter_id, year, month) DO UPDATE SET
			days = excluded.days,
			payment_completed = excluded.payment_completed,
			group_id = excluded.group_id
	`, r.ID, r.PromoterID, r.GroupID, r.Year, r.Month, r.Days, r.PaymentCompleted)
	if err != nil {
		return nil, fmt.Errorf("failed to upsert monthly record: %w", err)
	}

	// Read back the authoritative row; on conflict the stored id differs
	// from the freshly generated one.
	row := s.db.QueryRowContext(ctx, `
		SELECT id, promoter_id, group_id, year, month, days, payment_completed
		FROM monthly_records
		WHERE promoter_id = ? AND year = ? AND month = ?
	`, r.PromoterID, r.Year, r.Month)

	var stored roster.MonthlyRecord
	err = row.Scan(&stored.ID, &stored.PromoterID, &stored.GroupID, &stored.Year, &stored.Month, &stored.Days, &stored.PaymentCompleted)
	if err != nil {
		return nil, fmt.Errorf("failed to read back upserted record: %w", err)
	}
	return &stored, nil
}

// =============================================================================
// ADMINS
// =============================================================================

func (s *Store) IsAdmin(ctx context.Context, userID string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var count int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM admins WHERE id = ?`, userID,
	).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("failed to check admin: %w", err)
	}
	return count > 0, nil
}

// AddAdmin registers a user id in the admins table. Used by seeding and
// deployment tooling; there is no API endpoint for it.
func (s *Store) AddAdmin(ctx context.Context, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx,
		`INSERT OR IGNORE INTO admins (id, created_at) VALUES (?, ?)`,
		userID, time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("failed to add admin: %w", err)
	}
	return nil
}

// =============================================================================
// HELPERS
// =============================================================================

func nullStringPtr(s *string) sql.NullString {
	if s == nil || *s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

func nullDate(t *time.Time) sql.NullString {
	if t == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: t.Format(dateLayout), Valid: true}
}

func parseDate(s sql.NullString) *time.Time {
	if !s.Valid || s.String == "" {
		return nil
	}
	t, err := time.Parse(dateLayout, s.String)
	if err != nil {
		return nil
	}
	return &t
}

func requireRow(res sql.Result, missing error) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return missing
	}
	return nil
}

func isUniqueConstraintError(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}

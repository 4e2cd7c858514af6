/*
Package sqlite provides a SQLite-backed implementation of bonus.Sources.

PURPOSE:
  Stores the read-only inputs of the bonus engine: employees, the
  seniority log, corporate objectives and personal objective trees. The
  engine only reads; the Save/Append methods exist for the HR side and for
  loading demo scenarios.

KEY TABLES:
  employees:             Employee snapshots (hire date, current level)
  seniority_history:     Append-only log of level changes
  corporate_objectives:  Billing and per-quarter NPS targets per year
  personal_objectives:   Flat objective arena (parent_objective_id links)

INVARIANTS ENFORCED BY INDEXES:
  - idx_corporate_billing_unique: one billing objective per year
  - idx_corporate_nps_unique:     one NPS objective per year and quarter

APPEND-ONLY:
  seniority_history has no UPDATE or DELETE path. A correction is a new
  entry with a later effective date.

DECIMALS:
  Targets, actuals, gates, caps and achievements are TEXT columns holding
  decimal strings; decimal.NullDecimal scans and writes them directly, so
  NULL round-trips as "not set".

USAGE:
  store, err := sqlite.New("./data/bonus.db")
  if err != nil {
      log.Fatal(err)
  }
  defer store.Close()

  svc := bonus.NewService(store, calculator)

SEE ALSO:
  - bonus/source.go: Interface definitions
  - store/memory/memory.go: In-memory implementation for testing
*/
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/mattn/go-sqlite3"
	"github.com/warp/bonus-engine/bonus"
	"github.com/warp/bonus-engine/generic"
)

// ErrDuplicateObjective is returned when a corporate objective would break
// the one-per-year (billing) or one-per-quarter (NPS) invariant.
var ErrDuplicateObjective = errors.New("duplicate corporate objective")

// Store implements bonus.Sources using SQLite.
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
	// Every connection to ":memory:" is its own database.
	db.SetMaxOpenConns(1)

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
	-- Employees
	CREATE TABLE IF NOT EXISTS employees (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		hire_date TEXT,
		seniority_level TEXT,
		department TEXT NOT NULL DEFAULT '',
		created_at TEXT NOT NULL
	);

	-- Seniority history (append-only)
	CREATE TABLE IF NOT EXISTS seniority_history (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		employee_id TEXT NOT NULL,
		new_level TEXT NOT NULL,
		effective_date TEXT NOT NULL,
		created_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_seniority_employee_date
		ON seniority_history(employee_id, effective_date DESC);

	-- Corporate objectives
	CREATE TABLE IF NOT EXISTS corporate_objectives (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		year INTEGER NOT NULL,
		objective_type TEXT NOT NULL CHECK (objective_type IN ('billing', 'nps')),
		quarter INTEGER,
		target_value TEXT,
		actual_value TEXT,
		gate_percentage TEXT,
		cap_percentage TEXT,
		created_at TEXT NOT NULL,
		CHECK (
			(objective_type = 'billing' AND quarter IS NULL) OR
			(objective_type = 'nps' AND quarter BETWEEN 1 AND 4)
		)
	);

	CREATE UNIQUE INDEX IF NOT EXISTS idx_corporate_billing_unique
		ON corporate_objectives(year) WHERE objective_type = 'billing';
	CREATE UNIQUE INDEX IF NOT EXISTS idx_corporate_nps_unique
		ON corporate_objectives(year, quarter) WHERE objective_type = 'nps';

	-- Personal objectives (parent/child arena)
	CREATE TABLE IF NOT EXISTS personal_objectives (
		id TEXT PRIMARY KEY,
		employee_id TEXT NOT NULL,
		year INTEGER NOT NULL,
		title TEXT NOT NULL DEFAULT '',
		parent_objective_id TEXT,
		periodicity TEXT NOT NULL DEFAULT 'annual',
		achievement_percentage TEXT,
		sub_objective_number INTEGER NOT NULL DEFAULT 0,
		created_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_personal_employee_year
		ON personal_objectives(employee_id, year);
	`

	_, err := s.db.Exec(schema)
	return err
}

// =============================================================================
// EMPLOYEES
// =============================================================================

// SaveEmployee inserts or replaces an employee snapshot.
func (s *Store) SaveEmployee(ctx context.Context, emp bonus.Employee) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	query := `
		INSERT INTO employees (id, name, hire_date, seniority_level, department, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			hire_date = excluded.hire_date,
			seniority_level = excluded.seniority_level,
			department = excluded.department
	`

	_, err := s.db.ExecContext(ctx, query,
		emp.ID, emp.Name,
		nullDate(emp.HireDate),
		nullStringPtr(emp.CurrentSeniorityLevel),
		emp.Department,
		time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("failed to save employee: %w", err)
	}
	return nil
}

// GetEmployee retrieves an employee by ID. Returns (nil, nil) when absent.
func (s *Store) GetEmployee(ctx context.Context, id bonus.EmployeeID) (*bonus.Employee, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRowContext(ctx,
		"SELECT id, name, hire_date, seniority_level, department FROM employees WHERE id = ?",
		id,
	)
	emp, err := scanEmployee(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &emp, nil
}

// ListEmployees returns all employees ordered by id.
func (s *Store) ListEmployees(ctx context.Context) ([]bonus.Employee, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx,
		"SELECT id, name, hire_date, seniority_level, department FROM employees ORDER BY id",
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query employees: %w", err)
	}
	defer rows.Close()

	var employees []bonus.Employee
	for rows.Next() {
		emp, err := scanEmployee(rows)
		if err != nil {
			return nil, err
		}
		employees = append(employees, emp)
	}
	return employees, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanEmployee(row scanner) (bonus.Employee, error) {
	var (
		emp      bonus.Employee
		hireDate sql.NullString
		level    sql.NullString
	)
	if err := row.Scan(&emp.ID, &emp.Name, &hireDate, &level, &emp.Department); err != nil {
		return emp, err
	}
	if hireDate.Valid {
		d, err := generic.ParseDate(hireDate.String)
		if err != nil {
			return emp, fmt.Errorf("employee %s: bad hire_date %q: %w", emp.ID, hireDate.String, err)
		}
		emp.HireDate = &d
	}
	if level.Valid {
		l := level.String
		emp.CurrentSeniorityLevel = &l
	}
	return emp, nil
}

// =============================================================================
// SENIORITY HISTORY (append-only)
// =============================================================================

// AppendSeniority records a level change. There is no update or delete.
func (s *Store) AppendSeniority(ctx context.Context, e bonus.SeniorityHistoryEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx,
		"INSERT INTO seniority_history (employee_id, new_level, effective_date, created_at) VALUES (?, ?, ?, ?)",
		e.EmployeeID, e.NewLevel, e.EffectiveDate.String(), time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("failed to append seniority entry: %w", err)
	}
	return nil
}

// LatestSeniorityAsOf returns the most recent entry effective on or before date.
// Ties on the same date resolve to the entry inserted last.
func (s *Store) LatestSeniorityAsOf(ctx context.Context, id bonus.EmployeeID, date generic.TimePoint) (*bonus.SeniorityHistoryEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var (
		e         bonus.SeniorityHistoryEntry
		effective string
	)
	err := s.db.QueryRowContext(ctx, `
		SELECT employee_id, new_level, effective_date
		FROM seniority_history
		WHERE employee_id = ? AND effective_date <= ?
		ORDER BY effective_date DESC, id DESC
		LIMIT 1
	`, id, date.String()).Scan(&e.EmployeeID, &e.NewLevel, &effective)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query seniority history: %w", err)
	}

	e.EffectiveDate, err = generic.ParseDate(effective)
	if err != nil {
		return nil, fmt.Errorf("seniority entry for %s: bad effective_date %q: %w", id, effective, err)
	}
	return &e, nil
}

// =============================================================================
// CORPORATE OBJECTIVES
// =============================================================================

// SaveCorporateObjective inserts an objective. Returns ErrDuplicateObjective
// when the year already has a billing objective or that NPS quarter.
func (s *Store) SaveCorporateObjective(ctx context.Context, o bonus.CorporateObjective) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.insertCorporate(ctx, s.db, o)
}

// SaveCorporateObjectives inserts a year's objectives atomically.
func (s *Store) SaveCorporateObjectives(ctx context.Context, objs []bonus.CorporateObjective) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sqlTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer sqlTx.Rollback()

	for _, o := range objs {
		if err := s.insertCorporate(ctx, sqlTx, o); err != nil {
			return err
		}
	}
	return sqlTx.Commit()
}

func (s *Store) insertCorporate(ctx context.Context, db interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}, o bonus.CorporateObjective) error {
	var quarter sql.NullInt64
	if o.Type == bonus.ObjectiveNPS {
		quarter = sql.NullInt64{Int64: int64(o.Quarter), Valid: true}
	}

	_, err := db.ExecContext(ctx, `
		INSERT INTO corporate_objectives
		(year, objective_type, quarter, target_value, actual_value, gate_percentage, cap_percentage, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`,
		o.Year, string(o.Type), quarter,
		o.TargetValue, o.ActualValue, o.GatePercentage, o.CapPercentage,
		time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		if isUniqueConstraintError(err) {
			return fmt.Errorf("%w: %s year %d quarter %d", ErrDuplicateObjective, o.Type, o.Year, o.Quarter)
		}
		return fmt.Errorf("failed to save corporate objective: %w", err)
	}
	return nil
}

// CorporateObjectives returns the objectives of year: billing first, then NPS by quarter.
func (s *Store) CorporateObjectives(ctx context.Context, year int) ([]bonus.CorporateObjective, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `
		SELECT year, objective_type, quarter, target_value, actual_value, gate_percentage, cap_percentage
		FROM corporate_objectives
		WHERE year = ?
		ORDER BY objective_type ASC, quarter ASC, id ASC
	`, year)
	if err != nil {
		return nil, fmt.Errorf("failed to query corporate objectives: %w", err)
	}
	defer rows.Close()

	var objs []bonus.CorporateObjective
	for rows.Next() {
		var (
			o       bonus.CorporateObjective
			typ     string
			quarter sql.NullInt64
		)
		if err := rows.Scan(&o.Year, &typ, &quarter,
			&o.TargetValue, &o.ActualValue, &o.GatePercentage, &o.CapPercentage); err != nil {
			return nil, fmt.Errorf("failed to scan corporate objective: %w", err)
		}
		o.Type = bonus.CorporateObjectiveType(typ)
		o.Quarter = int(quarter.Int64)
		objs = append(objs, o)
	}
	return objs, rows.Err()
}

// =============================================================================
// PERSONAL OBJECTIVES
// =============================================================================

// SavePersonalObjective inserts or replaces one node of an objective tree.
func (s *Store) SavePersonalObjective(ctx context.Context, o bonus.PersonalObjective) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	query := `
		INSERT INTO personal_objectives
		(id, employee_id, year, title, parent_objective_id, periodicity,
		 achievement_percentage, sub_objective_number, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			title = excluded.title,
			parent_objective_id = excluded.parent_objective_id,
			periodicity = excluded.periodicity,
			achievement_percentage = excluded.achievement_percentage,
			sub_objective_number = excluded.sub_objective_number
	`

	_, err := s.db.ExecContext(ctx, query,
		o.ID, o.EmployeeID, o.Year, o.Title,
		nullString(string(o.ParentID)),
		string(o.Periodicity),
		o.Achievement,
		o.SubObjectiveNumber,
		time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("failed to save personal objective: %w", err)
	}
	return nil
}

// PersonalObjectives returns the flat tree of one employee and year,
// mains before children, children by sub-objective number.
func (s *Store) PersonalObjectives(ctx context.Context, id bonus.EmployeeID, year int) ([]bonus.PersonalObjective, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, employee_id, year, title, parent_objective_id, periodicity,
		       achievement_percentage, sub_objective_number
		FROM personal_objectives
		WHERE employee_id = ? AND year = ?
		ORDER BY parent_objective_id IS NOT NULL, parent_objective_id, sub_objective_number, id
	`, id, year)
	if err != nil {
		return nil, fmt.Errorf("failed to query personal objectives: %w", err)
	}
	defer rows.Close()

	var objs []bonus.PersonalObjective
	for rows.Next() {
		var (
			o           bonus.PersonalObjective
			parent      sql.NullString
			periodicity string
		)
		if err := rows.Scan(&o.ID, &o.EmployeeID, &o.Year, &o.Title, &parent, &periodicity,
			&o.Achievement, &o.SubObjectiveNumber); err != nil {
			return nil, fmt.Errorf("failed to scan personal objective: %w", err)
		}
		o.ParentID = bonus.ObjectiveID(parent.String)
		o.Periodicity = bonus.Periodicity(periodicity)
		objs = append(objs, o)
	}
	return objs, rows.Err()
}

// =============================================================================
// ADMIN
// =============================================================================

// Reset deletes every row. Used by demo scenario loading.
func (s *Store) Reset(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, table := range []string{"personal_objectives", "corporate_objectives", "seniority_history", "employees"} {
		if _, err := s.db.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return fmt.Errorf("failed to reset %s: %w", table, err)
		}
	}
	return nil
}

var _ bonus.Sources = (*Store)(nil)

// Helper functions

func nullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}

func nullStringPtr(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

func nullDate(tp *generic.TimePoint) sql.NullString {
	if tp == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: tp.String(), Valid: true}
}

func isUniqueConstraintError(err error) bool {
	var sqliteErr sqlite3.Error
	return errors.As(err, &sqliteErr) && sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique
}

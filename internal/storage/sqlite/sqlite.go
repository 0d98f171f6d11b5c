// Package sqlite provides a SQLite-backed implementation of the
// storage.Storage interface using Go's standard database/sql package.
//
// SQLite stores everything in a single file on disk: no network, no
// separate server process, and nothing to install beyond the driver.
//
// Importing go-sqlite3 registers the "sqlite3" driver with database/sql;
// its Error type is also used to recognise unique-index violations.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/mattn/go-sqlite3"

	"github.com/aanand-mishra/alumni-api/internal/storage"
	"github.com/aanand-mishra/alumni-api/internal/types"
)

// SQLite is the concrete implementation of storage.Storage.
// It holds a *sql.DB which is a connection pool managed by database/sql.
type SQLite struct {
	Db *sql.DB
}

const alumniColumns = `id, name, email, phone, register_number, department, section,
	pass_out_year, course_duration_years, placed, company, location, min_ctc,
	designation, created_at, updated_at`

// New opens the SQLite database at path, creates the alumni table if it
// does not already exist, and returns a ready-to-use *SQLite.
func New(path string) (*SQLite, error) {
	// sql.Open does NOT open a real connection yet — it just validates
	// the driver name and data source name (DSN).
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("sqlite.New: open db: %w", err)
	}

	// CREATE TABLE IF NOT EXISTS is idempotent — safe to run on every
	// startup. The UNIQUE constraint on email is what makes duplicate
	// detection safe even if two inserts race.
	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS alumni (
			id                    INTEGER  PRIMARY KEY AUTOINCREMENT,
			name                  TEXT     NOT NULL,
			email                 TEXT     NOT NULL UNIQUE,
			phone                 TEXT     NOT NULL,
			register_number       TEXT     NOT NULL,
			department            TEXT     NOT NULL,
			section               TEXT     NOT NULL,
			pass_out_year         INTEGER  NOT NULL,
			course_duration_years INTEGER  NOT NULL,
			placed                BOOLEAN  NOT NULL DEFAULT 0,
			company               TEXT     NOT NULL DEFAULT '',
			location              TEXT     NOT NULL DEFAULT '',
			min_ctc               REAL     NOT NULL DEFAULT 0,
			designation           TEXT     NOT NULL DEFAULT '',
			created_at            DATETIME NOT NULL,
			updated_at            DATETIME NOT NULL
		)
	`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("sqlite.New: create table: %w", err)
	}

	_, err = db.Exec(`CREATE INDEX IF NOT EXISTS idx_alumni_dept_section ON alumni (department, section)`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("sqlite.New: create index: %w", err)
	}

	return &SQLite{Db: db}, nil
}

// Close releases the connection pool.
func (s *SQLite) Close() error {
	return s.Db.Close()
}

// CreateAlumni inserts a new row. Placeholders (?) keep user input out of
// the SQL text; the driver sends values separately from the statement.
func (s *SQLite) CreateAlumni(ctx context.Context, a types.Alumni) (types.Alumni, error) {
	now := time.Now().UTC()

	result, err := s.Db.ExecContext(ctx, `
		INSERT INTO alumni (name, email, phone, register_number, department, section,
			pass_out_year, course_duration_years, placed, company, location, min_ctc,
			designation, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		a.Name, a.Email, a.Phone, a.RegisterNumber, a.Department, a.Section,
		a.PassOutYear, a.CourseDurationYears, a.Placed, a.Company, a.Location, a.MinCTC,
		a.Designation, now, now,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return types.Alumni{}, storage.ErrDuplicateEmail
		}
		return types.Alumni{}, fmt.Errorf("CreateAlumni: exec: %w", err)
	}

	lastID, err := result.LastInsertId()
	if err != nil {
		return types.Alumni{}, fmt.Errorf("CreateAlumni: last insert id: %w", err)
	}

	a.ID = lastID
	a.CreatedAt = now
	a.UpdatedAt = now
	return a, nil
}

// GetAlumniByEmail fetches exactly one row matched by the unique email.
func (s *SQLite) GetAlumniByEmail(ctx context.Context, email string) (types.Alumni, error) {
	row := s.Db.QueryRowContext(ctx,
		"SELECT "+alumniColumns+" FROM alumni WHERE email = ? LIMIT 1", email)

	a, err := scanAlumni(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return types.Alumni{}, storage.ErrNotFound
		}
		return types.Alumni{}, fmt.Errorf("GetAlumniByEmail: scan: %w", err)
	}
	return a, nil
}

// ListAlumni returns the directory, optionally narrowed by department
// and section.
func (s *SQLite) ListAlumni(ctx context.Context, filter types.AlumniFilter) ([]types.Alumni, error) {
	var (
		where []string
		args  []any
	)
	if filter.Department != "" {
		where = append(where, "department = ?")
		args = append(args, filter.Department)
	}
	if filter.Section != "" {
		where = append(where, "section = ?")
		args = append(args, filter.Section)
	}

	query := "SELECT " + alumniColumns + " FROM alumni"
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY department, section, name"

	rows, err := s.Db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("ListAlumni: query: %w", err)
	}
	defer rows.Close()

	// Returning [] instead of null in JSON is better API behaviour.
	list := make([]types.Alumni, 0)
	for rows.Next() {
		a, err := scanAlumni(rows)
		if err != nil {
			return nil, fmt.Errorf("ListAlumni: scan row: %w", err)
		}
		list = append(list, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("ListAlumni: rows iteration: %w", err)
	}

	return list, nil
}

// GetSectionStats counts alumni per department and section.
func (s *SQLite) GetSectionStats(ctx context.Context) ([]types.SectionStat, error) {
	rows, err := s.Db.QueryContext(ctx, `
		SELECT department, section, COUNT(*)
		FROM alumni
		GROUP BY department, section
		ORDER BY department, section`)
	if err != nil {
		return nil, fmt.Errorf("GetSectionStats: query: %w", err)
	}
	defer rows.Close()

	stats := make([]types.SectionStat, 0)
	for rows.Next() {
		var st types.SectionStat
		if err := rows.Scan(&st.Department, &st.Section, &st.Count); err != nil {
			return nil, fmt.Errorf("GetSectionStats: scan row: %w", err)
		}
		stats = append(stats, st)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("GetSectionStats: rows iteration: %w", err)
	}

	return stats, nil
}

type scanner interface {
	Scan(dest ...any) error
}

// scanAlumni reads one row in alumniColumns order.
func scanAlumni(row scanner) (types.Alumni, error) {
	var a types.Alumni
	err := row.Scan(
		&a.ID,
		&a.Name,
		&a.Email,
		&a.Phone,
		&a.RegisterNumber,
		&a.Department,
		&a.Section,
		&a.PassOutYear,
		&a.CourseDurationYears,
		&a.Placed,
		&a.Company,
		&a.Location,
		&a.MinCTC,
		&a.Designation,
		&a.CreatedAt,
		&a.UpdatedAt,
	)
	return a, err
}

func isUniqueViolation(err error) bool {
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		return sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique
	}
	return false
}

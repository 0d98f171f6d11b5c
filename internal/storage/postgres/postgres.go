// Package postgres implements storage.Storage on PostgreSQL through a
// pgx connection pool.
package postgres

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/aanand-mishra/alumni-api/internal/storage"
	"github.com/aanand-mishra/alumni-api/internal/types"
)

const schema = `
CREATE TABLE IF NOT EXISTS alumni (
	id                    BIGSERIAL        PRIMARY KEY,
	name                  TEXT             NOT NULL,
	email                 TEXT             NOT NULL UNIQUE,
	phone                 TEXT             NOT NULL,
	register_number       TEXT             NOT NULL,
	department            TEXT             NOT NULL,
	section               TEXT             NOT NULL,
	pass_out_year         INTEGER          NOT NULL,
	course_duration_years INTEGER          NOT NULL,
	placed                BOOLEAN          NOT NULL DEFAULT FALSE,
	company               TEXT             NOT NULL DEFAULT '',
	location              TEXT             NOT NULL DEFAULT '',
	min_ctc               DOUBLE PRECISION NOT NULL DEFAULT 0,
	designation           TEXT             NOT NULL DEFAULT '',
	created_at            TIMESTAMPTZ      NOT NULL DEFAULT NOW(),
	updated_at            TIMESTAMPTZ      NOT NULL DEFAULT NOW()
);
CREATE INDEX IF NOT EXISTS idx_alumni_dept_section ON alumni (department, section);
`

const alumniColumns = `id, name, email, phone, register_number, department, section,
	pass_out_year, course_duration_years, placed, company, location, min_ctc,
	designation, created_at, updated_at`

// Postgres is the pgx-backed record store.
type Postgres struct {
	pool *pgxpool.Pool
}

// New connects to dsn, verifies the connection and ensures the schema.
func New(ctx context.Context, dsn string) (*Postgres, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("postgres.New: create pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("postgres.New: ping: %w", err)
	}

	if _, err := pool.Exec(ctx, schema); err != nil {
		pool.Close()
		return nil, fmt.Errorf("postgres.New: migrate: %w", err)
	}

	return &Postgres{pool: pool}, nil
}

// Close closes every connection in the pool.
func (p *Postgres) Close() error {
	p.pool.Close()
	return nil
}

func (p *Postgres) CreateAlumni(ctx context.Context, a types.Alumni) (types.Alumni, error) {
	row := p.pool.QueryRow(ctx, `
		INSERT INTO alumni (name, email, phone, register_number, department, section,
			pass_out_year, course_duration_years, placed, company, location, min_ctc, designation)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		RETURNING id, created_at, updated_at`,
		a.Name, a.Email, a.Phone, a.RegisterNumber, a.Department, a.Section,
		a.PassOutYear, a.CourseDurationYears, a.Placed, a.Company, a.Location, a.MinCTC, a.Designation,
	)

	if err := row.Scan(&a.ID, &a.CreatedAt, &a.UpdatedAt); err != nil {
		if IsUniqueViolation(err) {
			return types.Alumni{}, storage.ErrDuplicateEmail
		}
		return types.Alumni{}, fmt.Errorf("CreateAlumni: %w", err)
	}

	return a, nil
}

func (p *Postgres) GetAlumniByEmail(ctx context.Context, email string) (types.Alumni, error) {
	row := p.pool.QueryRow(ctx, "SELECT "+alumniColumns+" FROM alumni WHERE email = $1", email)

	a, err := scanAlumni(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return types.Alumni{}, storage.ErrNotFound
		}
		return types.Alumni{}, fmt.Errorf("GetAlumniByEmail: %w", err)
	}
	return a, nil
}

func (p *Postgres) ListAlumni(ctx context.Context, filter types.AlumniFilter) ([]types.Alumni, error) {
	query, args := listQuery(filter)

	rows, err := p.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("ListAlumni: query: %w", err)
	}
	defer rows.Close()

	list := make([]types.Alumni, 0)
	for rows.Next() {
		a, err := scanAlumni(rows)
		if err != nil {
			return nil, fmt.Errorf("ListAlumni: scan: %w", err)
		}
		list = append(list, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("ListAlumni: rows: %w", err)
	}

	return list, nil
}

func (p *Postgres) GetSectionStats(ctx context.Context) ([]types.SectionStat, error) {
	rows, err := p.pool.Query(ctx, `
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
			return nil, fmt.Errorf("GetSectionStats: scan: %w", err)
		}
		stats = append(stats, st)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("GetSectionStats: rows: %w", err)
	}

	return stats, nil
}

// listQuery builds the directory query with numbered placeholders.
func listQuery(filter types.AlumniFilter) (string, []any) {
	var (
		where []string
		args  []any
	)
	if filter.Department != "" {
		args = append(args, filter.Department)
		where = append(where, "department = $"+strconv.Itoa(len(args)))
	}
	if filter.Section != "" {
		args = append(args, filter.Section)
		where = append(where, "section = $"+strconv.Itoa(len(args)))
	}

	query := "SELECT " + alumniColumns + " FROM alumni"
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	return query + " ORDER BY department, section, name", args
}

func scanAlumni(row pgx.Row) (types.Alumni, error) {
	var a types.Alumni
	err := row.Scan(
		&a.ID, &a.Name, &a.Email, &a.Phone, &a.RegisterNumber, &a.Department, &a.Section,
		&a.PassOutYear, &a.CourseDurationYears, &a.Placed, &a.Company, &a.Location, &a.MinCTC,
		&a.Designation, &a.CreatedAt, &a.UpdatedAt,
	)
	return a, err
}

// IsUniqueViolation checks if the error is a unique constraint violation.
func IsUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505" // unique_violation
	}
	return false
}

package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrNotFound is returned by GetReport when no record exists for the given
// program id.
var ErrNotFound = errors.New("storage: report not found")

// Store is the PostgreSQL-backed archive for AnalysisReports. Each program
// id holds its single most-recent report; a new SaveReport call for a
// program id already on file overwrites it.
type Store struct {
	pool *pgxpool.Pool
}

// New opens a pgxpool connection to connStr and pings the database.
func New(ctx context.Context, connStr string) (*Store, error) {
	pool, err := pgxpool.New(ctx, connStr)
	if err != nil {
		return nil, fmt.Errorf("pgxpool.New: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("pool.Ping: %w", err)
	}
	return &Store{pool: pool}, nil
}

// Close closes the connection pool.
func (s *Store) Close() {
	s.pool.Close()
}

// SaveReport upserts a report record keyed by r.ProgramID.
func (s *Store) SaveReport(ctx context.Context, r ReportRecord) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO reports
			(program_id, program_name, program_type, report_json, report_sha256, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (program_id) DO UPDATE SET
			program_name  = EXCLUDED.program_name,
			program_type  = EXCLUDED.program_type,
			report_json   = EXCLUDED.report_json,
			report_sha256 = EXCLUDED.report_sha256,
			created_at    = EXCLUDED.created_at`,
		r.ProgramID,
		nullableStr(r.ProgramName),
		r.ProgramType,
		r.ReportJSON,
		r.ReportSHA256,
		r.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("save report %s: %w", r.ProgramID, err)
	}
	return nil
}

// GetReport returns the archived report for programID, or ErrNotFound.
func (s *Store) GetReport(ctx context.Context, programID string) (*ReportRecord, error) {
	row := s.pool.QueryRow(ctx, `
		SELECT program_id, program_name, program_type, report_json, report_sha256, created_at
		FROM   reports
		WHERE  program_id = $1`, programID)

	r, err := scanReport(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get report %s: %w", programID, err)
	}
	return r, nil
}

// ListReports returns every archived report's metadata (without the JSON
// body), ordered by most-recently-created first.
func (s *Store) ListReports(ctx context.Context) ([]ReportRecord, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT program_id, program_name, program_type, report_sha256, created_at
		FROM   reports
		ORDER  BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("list reports: %w", err)
	}
	defer rows.Close()

	var out []ReportRecord
	for rows.Next() {
		var r ReportRecord
		var name *string
		if err := rows.Scan(&r.ProgramID, &name, &r.ProgramType, &r.ReportSHA256, &r.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan report: %w", err)
		}
		if name != nil {
			r.ProgramName = *name
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanReport(s scanner) (*ReportRecord, error) {
	var r ReportRecord
	var name *string
	err := s.Scan(&r.ProgramID, &name, &r.ProgramType, &r.ReportJSON, &r.ReportSHA256, &r.CreatedAt)
	if err != nil {
		return nil, err
	}
	if name != nil {
		r.ProgramName = *name
	}
	return &r, nil
}

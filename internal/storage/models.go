// Package storage is the PostgreSQL-backed archive of completed analysis
// reports, keyed by the program id the report was produced for.
package storage

import "time"

// ReportRecord is one archived AnalysisReport, stored as opaque JSON
// alongside queryable metadata extracted from it at insert time.
type ReportRecord struct {
	ProgramID    string
	ProgramName  string
	ProgramType  string
	ReportJSON   []byte
	ReportSHA256 string
	CreatedAt    time.Time
}

// nullableStr converts an empty string to a nil pointer, which pgx stores as
// SQL NULL.
func nullableStr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

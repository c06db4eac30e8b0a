package rest

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/augerlabs/auger/internal/audit"
	"github.com/augerlabs/auger/internal/auger"
	"github.com/augerlabs/auger/internal/auger/report"
	"github.com/augerlabs/auger/internal/elfview"
	"github.com/augerlabs/auger/internal/storage"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// Fetcher resolves a program id to its raw executable bytes, via a cache,
// the Solana RPC endpoint, or both.
type Fetcher interface {
	Fetch(ctx context.Context, programID string) ([]byte, error)
}

// Recorder appends one completed analysis run to the tamper-evident audit
// trail. *audit.Logger satisfies this.
type Recorder interface {
	Record(programID, programName, reportSHA256 string) (audit.Entry, error)
}

// Server holds the dependencies needed by the REST handlers.
type Server struct {
	log      *slog.Logger
	store    *storage.Store
	fetcher  Fetcher
	recorder Recorder
	cfg      auger.Config
}

// NewServer creates a new Server.
func NewServer(log *slog.Logger, store *storage.Store, fetcher Fetcher, recorder Recorder, cfg auger.Config) *Server {
	return &Server{log: log, store: store, fetcher: fetcher, recorder: recorder, cfg: cfg}
}

// handleStatus responds to GET /status. It does not require authentication.
func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleDestructure responds to GET /destructure?program_id=....
//
// It fetches the program's bytes via the configured Fetcher, runs the full
// analysis pipeline, archives the resulting report, records the run in the
// audit log, and returns the report as JSON.
func (s *Server) handleDestructure(w http.ResponseWriter, r *http.Request) {
	programID := r.URL.Query().Get("program_id")
	if programID == "" || !isValidProgramID(programID) {
		writeError(w, http.StatusBadRequest, "query parameter 'program_id' is required and must be a valid base58 pubkey")
		return
	}

	data, err := s.fetcher.Fetch(r.Context(), programID)
	if err != nil {
		s.log.Error("fetch program bytes failed", "program_id", programID, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to fetch program bytes")
		return
	}

	view, err := elfview.Open(data)
	if err != nil {
		writeError(w, http.StatusBadRequest, "program bytes are not a valid ELF file")
		return
	}

	rpt, augErr := auger.Analyze(data, view, s.cfg)
	if augErr != nil {
		s.log.Error("analysis failed", "program_id", programID, "kind", augErr.Kind, "error", augErr)
		writeError(w, http.StatusInternalServerError, "analysis failed")
		return
	}

	reportJSON, err := report.Marshal(rpt)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to serialize report")
		return
	}
	sum := sha256.Sum256(reportJSON)
	reportSHA256 := hex.EncodeToString(sum[:])

	programName := ""
	if rpt.ProgramName != nil {
		programName = *rpt.ProgramName
	}

	if s.store != nil {
		rec := storage.ReportRecord{
			ProgramID:    programID,
			ProgramName:  programName,
			ProgramType:  rpt.ProgramType,
			ReportJSON:   reportJSON,
			ReportSHA256: reportSHA256,
			CreatedAt:    time.Now().UTC(),
		}
		if err := s.store.SaveReport(r.Context(), rec); err != nil {
			s.log.Error("archive report failed", "program_id", programID, "error", err)
		}
	}

	if s.recorder != nil {
		if _, err := s.recorder.Record(programID, programName, reportSHA256); err != nil {
			s.log.Error("audit record failed", "program_id", programID, "error", err)
		}
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(reportJSON)
}

// handleStorage responds to GET /storage/{programID}, returning a previously
// archived report.
func (s *Server) handleStorage(w http.ResponseWriter, r *http.Request, programID string) {
	if programID == "" {
		writeError(w, http.StatusBadRequest, "storage path must name a program id")
		return
	}

	rec, err := s.store.GetReport(r.Context(), programID)
	if err != nil {
		if err == storage.ErrNotFound {
			writeError(w, http.StatusNotFound, "no archived report for that program id")
			return
		}
		s.log.Error("load archived report failed", "program_id", programID, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to load archived report")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(rec.ReportJSON)
}

// isValidProgramID reports whether id looks like a base58 Solana pubkey:
// 32 to 44 characters from the base58 alphabet.
func isValidProgramID(id string) bool {
	if len(id) < 32 || len(id) > 44 {
		return false
	}
	for _, r := range id {
		switch {
		case r >= '1' && r <= '9':
		case r >= 'A' && r <= 'H':
		case r >= 'J' && r <= 'N':
		case r >= 'P' && r <= 'Z':
		case r >= 'a' && r <= 'k':
		case r >= 'm' && r <= 'z':
		default:
			return false
		}
	}
	return true
}

// Package audit implements a tamper-evident, append-only log of completed
// analysis runs. Each entry carries the SHA-256 hash of the previous entry,
// so any edit or removal in the middle of the file breaks every hash after
// it — the log can only be grown, never rewritten in place.
package audit

import (
	"bufio"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sync"
	"time"
)

// Entry is one recorded analysis run.
type Entry struct {
	Seq          uint64    `json:"seq"`
	Timestamp    time.Time `json:"timestamp"`
	ProgramID    string    `json:"program_id"`
	ProgramName  string    `json:"program_name,omitempty"`
	ReportSHA256 string    `json:"report_sha256"`
	PrevHash     string    `json:"prev_hash"`
	Hash         string    `json:"hash"`
}

// Logger appends Entry records to a file, one JSON object per line,
// maintaining the hash chain. A Logger is safe for concurrent use.
type Logger struct {
	mu       sync.Mutex
	f        *os.File
	lastHash string
	seq      uint64
}

// Open opens (creating if absent) the log file at path, replays it to
// recover the current chain tip, and returns a Logger ready to append.
func Open(path string) (*Logger, error) {
	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE, 0o644)
	if err != nil {
		return nil, fmt.Errorf("audit: open %s: %w", path, err)
	}

	lastHash, seq, err := replay(f)
	if err != nil {
		f.Close()
		return nil, err
	}

	if _, err := f.Seek(0, io.SeekEnd); err != nil {
		f.Close()
		return nil, fmt.Errorf("audit: seek end: %w", err)
	}

	return &Logger{f: f, lastHash: lastHash, seq: seq}, nil
}

// replay reads every line of f and returns the tip hash and highest seq
// seen, or ("", 0) for an empty log.
func replay(f *os.File) (string, uint64, error) {
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return "", 0, fmt.Errorf("audit: seek start: %w", err)
	}

	var lastHash string
	var seq uint64
	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 0, 64*1024), 1<<20)
	for sc.Scan() {
		line := sc.Bytes()
		if len(line) == 0 {
			continue
		}
		var e Entry
		if err := json.Unmarshal(line, &e); err != nil {
			return "", 0, fmt.Errorf("audit: corrupt entry: %w", err)
		}
		lastHash = e.Hash
		seq = e.Seq
	}
	if err := sc.Err(); err != nil {
		return "", 0, fmt.Errorf("audit: read log: %w", err)
	}
	return lastHash, seq, nil
}

// Record appends one entry for an analysis of the program identified by
// programID, whose assembled report hashes to reportSHA256.
func (l *Logger) Record(programID, programName, reportSHA256 string) (Entry, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.seq++
	e := Entry{
		Seq:          l.seq,
		Timestamp:    time.Now().UTC(),
		ProgramID:    programID,
		ProgramName:  programName,
		ReportSHA256: reportSHA256,
		PrevHash:     l.lastHash,
	}
	e.Hash = chainHash(e)

	line, err := json.Marshal(e)
	if err != nil {
		return Entry{}, fmt.Errorf("audit: marshal entry: %w", err)
	}
	line = append(line, '\n')

	if _, err := l.f.Write(line); err != nil {
		return Entry{}, fmt.Errorf("audit: write entry: %w", err)
	}
	if err := l.f.Sync(); err != nil {
		return Entry{}, fmt.Errorf("audit: sync: %w", err)
	}

	l.lastHash = e.Hash
	return e, nil
}

// chainHash hashes every field of e except Hash itself, chaining in
// PrevHash so tampering with any prior entry changes every hash after it.
func chainHash(e Entry) string {
	h := sha256.New()
	fmt.Fprintf(h, "%d|%s|%s|%s|%s|%s",
		e.Seq, e.Timestamp.Format(time.RFC3339Nano), e.ProgramID, e.ProgramName, e.ReportSHA256, e.PrevHash)
	return hex.EncodeToString(h.Sum(nil))
}

// Verify replays path end to end and reports the first broken link, or nil
// if the chain is intact.
func Verify(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("audit: open %s: %w", path, err)
	}
	defer f.Close()

	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 0, 64*1024), 1<<20)
	prev := ""
	for sc.Scan() {
		line := sc.Bytes()
		if len(line) == 0 {
			continue
		}
		var e Entry
		if err := json.Unmarshal(line, &e); err != nil {
			return fmt.Errorf("audit: corrupt entry at seq %d: %w", e.Seq, err)
		}
		if e.PrevHash != prev {
			return fmt.Errorf("audit: broken chain at seq %d: prev_hash mismatch", e.Seq)
		}
		if chainHash(e) != e.Hash {
			return fmt.Errorf("audit: broken chain at seq %d: hash mismatch", e.Seq)
		}
		prev = e.Hash
	}
	return sc.Err()
}

// Close closes the underlying file.
func (l *Logger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.f.Close()
}

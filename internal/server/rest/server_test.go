package rest

import (
	"log/slog"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/augerlabs/auger/internal/auger"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}

func TestHandleStatus(t *testing.T) {
	srv := NewServer(testLogger(), nil, nil, nil, auger.DefaultConfig())
	w := httptest.NewRecorder()
	r := httptest.NewRequest("GET", "/status", nil)

	srv.handleStatus(w, r)

	if w.Code != 200 {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	if !strings.Contains(w.Body.String(), `"status":"ok"`) {
		t.Errorf("body = %q, want it to contain status:ok", w.Body.String())
	}
}

func TestHandleDestructureRejectsMissingProgramID(t *testing.T) {
	srv := NewServer(testLogger(), nil, nil, nil, auger.DefaultConfig())
	w := httptest.NewRecorder()
	r := httptest.NewRequest("GET", "/destructure", nil)

	srv.handleDestructure(w, r)

	if w.Code != 400 {
		t.Fatalf("status = %d, want 400", w.Code)
	}
}

func TestHandleDestructureRejectsInvalidProgramID(t *testing.T) {
	srv := NewServer(testLogger(), nil, nil, nil, auger.DefaultConfig())
	w := httptest.NewRecorder()
	r := httptest.NewRequest("GET", "/destructure?program_id=not-valid-base58-!!", nil)

	srv.handleDestructure(w, r)

	if w.Code != 400 {
		t.Fatalf("status = %d, want 400", w.Code)
	}
}

func TestHandleStorageRejectsEmptyPath(t *testing.T) {
	srv := NewServer(testLogger(), nil, nil, nil, auger.DefaultConfig())
	w := httptest.NewRecorder()
	r := httptest.NewRequest("GET", "/storage/", nil)

	srv.handleStorage(w, r, "")

	if w.Code != 400 {
		t.Fatalf("status = %d, want 400", w.Code)
	}
}

func TestIsValidProgramID(t *testing.T) {
	cases := []struct {
		id   string
		want bool
	}{
		{"TokenkegQfeZyiNwAJbNbGKPFXCWuBvf9Ss623VQ5DA", true},
		{"too-short", false},
		{"0OIl", false}, // base58 excludes these characters even at valid length... (but too short here too)
		{"", false},
	}
	for _, c := range cases {
		if got := isValidProgramID(c.id); got != c.want {
			t.Errorf("isValidProgramID(%q) = %v, want %v", c.id, got, c.want)
		}
	}
}

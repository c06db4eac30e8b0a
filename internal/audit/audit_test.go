package audit

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestRecordChainsHashes(t *testing.T) {
	path := filepath.Join(t.TempDir(), "audit.log")
	l, err := Open(path)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	defer l.Close()

	e1, err := l.Record("prog1", "my_program", "deadbeef")
	if err != nil {
		t.Fatalf("Record() error = %v", err)
	}
	if e1.Seq != 1 || e1.PrevHash != "" {
		t.Errorf("e1 = %+v, want Seq=1 PrevHash=\"\"", e1)
	}

	e2, err := l.Record("prog2", "", "cafebabe")
	if err != nil {
		t.Fatalf("Record() error = %v", err)
	}
	if e2.Seq != 2 || e2.PrevHash != e1.Hash {
		t.Errorf("e2.PrevHash = %q, want %q", e2.PrevHash, e1.Hash)
	}

	if err := Verify(path); err != nil {
		t.Errorf("Verify() error = %v, want nil", err)
	}
}

func TestOpenResumesSequenceAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "audit.log")

	l1, err := Open(path)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	if _, err := l1.Record("prog1", "name1", "hash1"); err != nil {
		t.Fatalf("Record() error = %v", err)
	}
	if err := l1.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	l2, err := Open(path)
	if err != nil {
		t.Fatalf("reopen Open() error = %v", err)
	}
	defer l2.Close()

	e2, err := l2.Record("prog2", "name2", "hash2")
	if err != nil {
		t.Fatalf("Record() error = %v", err)
	}
	if e2.Seq != 2 {
		t.Errorf("Seq = %d, want 2 (resumed across reopen)", e2.Seq)
	}
}

func TestVerifyDetectsTampering(t *testing.T) {
	path := filepath.Join(t.TempDir(), "audit.log")
	l, err := Open(path)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	if _, err := l.Record("prog1", "name1", "hash1"); err != nil {
		t.Fatalf("Record() error = %v", err)
	}
	if _, err := l.Record("prog2", "name2", "hash2"); err != nil {
		t.Fatalf("Record() error = %v", err)
	}
	l.Close()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	tampered := strings.Replace(string(data), "hash1", "hash1-tampered", 1)
	if err := os.WriteFile(path, []byte(tampered), 0o644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	if err := Verify(path); err == nil {
		t.Error("Verify() = nil, want an error after tampering with an entry")
	}
}

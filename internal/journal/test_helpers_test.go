package journal

import (
	"path/filepath"
	"testing"
	"time"
)

func createTestStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "journal.db")
	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func createTestSession(id string) Session {
	return Session{
		ID:        id,
		PID:       4242,
		StartedAt: time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC),
	}
}

func createTestMutation(session string, seq int64, after string) Mutation {
	return Mutation{
		Session:        session,
		Seq:            seq,
		Source:         SourceSet,
		Representation: "int32_t",
		Address:        "0xc000010000",
		Before:         "1000",
		After:          after,
	}
}

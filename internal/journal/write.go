package journal

import (
	"context"
	"fmt"
	"time"
)

// WriteSession records a session. Duplicate ids are ignored.
func (s *Store) WriteSession(ctx context.Context, sess Session) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO sessions (id, pid, started_at)
		VALUES (?, ?, ?)
		ON CONFLICT(id) DO NOTHING
	`, sess.ID, sess.PID, sess.StartedAt.UTC().Format(time.RFC3339Nano))
	if err != nil {
		return fmt.Errorf("write session: %w", err)
	}
	return nil
}

// WriteMutation records a mutation. A repeated (session, seq) is ignored.
// The session must already exist.
func (s *Store) WriteMutation(ctx context.Context, m Mutation) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO mutations
		(session_id, seq, source, representation, address, before, after, delta)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(session_id, seq) DO NOTHING
	`,
		m.Session,
		m.Seq,
		string(m.Source),
		m.Representation,
		m.Address,
		m.Before,
		m.After,
		m.Delta,
	)
	if err != nil {
		return fmt.Errorf("write mutation: %w", err)
	}
	return nil
}

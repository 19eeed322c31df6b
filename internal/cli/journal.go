package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/roach88/memtrans/internal/journal"
)

// JournalOptions holds flags for the journal command.
type JournalOptions struct {
	*RootOptions
	Database string
	Session  string // optional - list this session's mutations
}

// SessionList is the journal command's output without --session.
type SessionList struct {
	Sessions []journal.Session `json:"sessions"`
}

func (l SessionList) String() string {
	if len(l.Sessions) == 0 {
		return "No sessions recorded.\n"
	}
	var b strings.Builder
	fmt.Fprintf(&b, "%-36s  %-8s  %s\n", "SESSION", "PID", "STARTED")
	for _, s := range l.Sessions {
		fmt.Fprintf(&b, "%-36s  %-8d  %s\n", s.ID, s.PID, s.StartedAt.UTC().Format(time.RFC3339))
	}
	return b.String()
}

// SessionMutations is the journal command's output with --session.
type SessionMutations struct {
	Session   journal.Session    `json:"session"`
	Mutations []journal.Mutation `json:"mutations"`
}

func (m SessionMutations) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Session: %s (pid %d)\n", m.Session.ID, m.Session.PID)
	if len(m.Mutations) == 0 {
		b.WriteString("  (no mutations)\n")
		return b.String()
	}
	for _, mu := range m.Mutations {
		fmt.Fprintf(&b, "  [%d] %-8s %-13s %s -> %s", mu.Seq, mu.Source, mu.Representation, mu.Before, mu.After)
		if mu.Delta != "" {
			fmt.Fprintf(&b, " (delta %s)", mu.Delta)
		}
		fmt.Fprintf(&b, " @ %s\n", mu.Address)
	}
	return b.String()
}

// NewJournalCommand creates the journal command.
func NewJournalCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &JournalOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "journal",
		Short: "Show recorded mutations",
		Long: `Show what a journal recorded.

Without --session, lists every recorded session. With --session, lists that
session's mutations in the order they were applied, with the value before
and after each one as the display showed it.

Examples:
  memtrans journal --db ./memtrans.db
  memtrans journal --db ./memtrans.db --session 0192f7a4-...
  memtrans journal --db ./memtrans.db --format json`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runJournal(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite journal (required)")
	_ = cmd.MarkFlagRequired("db")
	cmd.Flags().StringVar(&opts.Session, "session", "", "session id to list mutations for")

	return cmd
}

func runJournal(opts *JournalOptions, cmd *cobra.Command) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	out := newFormatter(cmd, opts.RootOptions)

	// Open creates missing files; a typo in --db should not leave one behind.
	if _, err := os.Stat(opts.Database); err != nil {
		_ = out.Error(CodeJournalMissing, "journal not found", map[string]string{"db": opts.Database})
		return WrapExitError(ExitCommandError, "journal not found", err)
	}

	out.VerboseLog("opening journal %s", opts.Database)
	st, err := journal.Open(opts.Database)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to open journal", err)
	}
	defer st.Close()

	if opts.Session == "" {
		sessions, err := st.Sessions(ctx)
		if err != nil {
			return WrapExitError(ExitCommandError, "failed to read sessions", err)
		}
		if sessions == nil {
			sessions = []journal.Session{}
		}
		return out.Success(SessionList{Sessions: sessions})
	}

	sess, err := st.ReadSession(ctx, opts.Session)
	if errors.Is(err, journal.ErrSessionNotFound) {
		_ = out.Error(CodeSessionMissing, "session not found", map[string]string{"session": opts.Session})
		return WrapExitError(ExitCommandError, "session not found", err)
	}
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to read session", err)
	}

	mutations, err := st.ReadMutations(ctx, sess.ID)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to read mutations", err)
	}
	if mutations == nil {
		mutations = []journal.Mutation{}
	}
	out.VerboseLog("session %s: %d mutation(s)", sess.ID, len(mutations))
	return out.Success(SessionMutations{Session: sess, Mutations: mutations})
}

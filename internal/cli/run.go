package cli

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"math/rand/v2"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/roach88/memtrans/internal/cell"
	"github.com/roach88/memtrans/internal/config"
	"github.com/roach88/memtrans/internal/console"
	"github.com/roach88/memtrans/internal/engine"
	"github.com/roach88/memtrans/internal/journal"
)

// RunOptions holds flags for the run command. The settings flags themselves
// are read through config.Load so they layer over file and environment.
type RunOptions struct {
	*RootOptions

	// SessionGenerator names the journal session (for testing).
	// If nil, defaults to UUIDv7Generator.
	SessionGenerator engine.SessionIDGenerator

	// Renderer overrides the console renderer (for testing).
	Renderer *console.Renderer
}

// NewRunCommand creates the run command.
func NewRunCommand(rootOpts *RootOptions) *cobra.Command {
	return newRunCommand(&RunOptions{RootOptions: rootOpts})
}

func newRunCommand(opts *RunOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Start the probe target",
		Long: `Start the probe target: 13 cells, the mutation engine, the display
refresh and the console.

Settings come from defaults, then the settings file, then MEMTRANS_*
environment variables, then flags. Unset flags leave lower layers alone.

Examples:
  memtrans run
  memtrans run --type uint8_t --min 1 --max 5 --interval 250
  memtrans run --seed 42 --journal ./memtrans.db
  MEMTRANS_REFRESH_MS=40 memtrans run`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runProbe(opts, cmd)
		},
	}

	cmd.Flags().String("type", "", "representation selected at startup (default int32_t)")
	cmd.Flags().String("min", "", "minimum random magnitude (default 1)")
	cmd.Flags().String("max", "", "maximum random magnitude (default 100)")
	cmd.Flags().Int64("interval", 0, "auto mutation interval in ms (default 500)")
	cmd.Flags().Int64("refresh", 0, "display refresh period in ms (default 80)")
	cmd.Flags().Int64("seed", 0, "random seed; 0 seeds from entropy")
	cmd.Flags().String("journal", "", "SQLite journal path; empty disables it")

	return cmd
}

// newLogger configures slog on stderr, at Debug when verbose.
func newLogger(w io.Writer, verbose bool) *slog.Logger {
	logLevel := slog.LevelInfo
	if verbose {
		logLevel = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: logLevel}))
}

// newSource returns the random source. A zero seed draws from entropy.
func newSource(seed int64) *rand.Rand {
	if seed == 0 {
		return rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return rand.New(rand.NewPCG(uint64(seed), uint64(seed)^0x9e3779b97f4a7c15))
}

func runProbe(opts *RunOptions, cmd *cobra.Command) error {
	logger := newLogger(cmd.ErrOrStderr(), opts.Verbose)
	slog.SetDefault(logger)

	settings, err := config.Load(config.Options{File: opts.Config, Flags: cmd.Flags()})
	if err != nil {
		return WrapExitError(ExitCommandError, "invalid settings", err)
	}
	if settings.File != "" {
		logger.Info("settings loaded", "file", settings.File)
	}

	// Use command's context if available (for testing), otherwise create one
	parentCtx := cmd.Context()
	if parentCtx == nil {
		parentCtx = context.Background()
	}
	ctx, cancel := context.WithCancel(parentCtx)
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	go func() {
		select {
		case sig := <-sigChan:
			logger.Info("received signal, shutting down", "signal", sig)
			cancel()
		case <-ctx.Done():
		}
	}()

	renderer := opts.Renderer
	if renderer == nil {
		renderer = console.NewRenderer(cmd.OutOrStdout())
	}

	engOpts := []engine.EngineOption{
		engine.WithConfig(settings.MutationConfig()),
		engine.WithSelection(settings.Type),
		engine.WithRefreshPeriod(settings.RefreshPeriod()),
		engine.WithSink(renderer),
		engine.WithLogger(logger),
	}

	var rec *journal.Recorder
	recDone := make(chan error, 1)
	if settings.Journal != "" {
		st, err := journal.Open(settings.Journal)
		if err != nil {
			return WrapExitError(ExitCommandError, "failed to open journal", err)
		}
		defer func() {
			if closeErr := st.Close(); closeErr != nil {
				logger.Error("error closing journal", "error", closeErr)
			}
		}()

		gen := opts.SessionGenerator
		if gen == nil {
			gen = engine.UUIDv7Generator{}
		}
		sess := journal.Session{ID: gen.Generate(), PID: os.Getpid(), StartedAt: time.Now().UTC()}
		rec = journal.NewRecorder(st, sess, journal.DefaultBuffer)
		// The recorder outlives ctx so it can drain after a signal.
		go func() { recDone <- rec.Run(context.WithoutCancel(ctx)) }()

		engOpts = append(engOpts, engine.WithJournal(rec), engine.WithSession(sess.ID))
		logger.Info("journal recording", "path", settings.Journal, "session", sess.ID)
	}

	eng := engine.New(cell.New(), newSource(settings.Seed), engOpts...)

	engDone := make(chan error, 1)
	go func() { engDone <- eng.Run(ctx) }()

	con := console.New(eng, cmd.InOrStdin(), renderer, settings.Fields(), logger)
	conErr := con.Run(ctx)

	eng.Stop()
	engErr := <-engDone

	if rec != nil {
		rec.Close()
		if err := <-recDone; err != nil {
			logger.Error("journal stopped", "error", err)
		}
		logger.Info("journal closed", "written", rec.Written(), "dropped", rec.Dropped())
	}

	if engErr != nil && !isCancel(engErr) {
		return WrapExitError(ExitFailure, "engine error", engErr)
	}
	if conErr != nil && !isCancel(conErr) {
		return WrapExitError(ExitFailure, "console error", conErr)
	}

	logger.Info("stopped", "seq", eng.Seq())
	return nil
}

func isCancel(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}

package cli

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/marcward/gridstreak/internal/config"
	"github.com/marcward/gridstreak/internal/game"
	"github.com/marcward/gridstreak/internal/puzzle"
	"github.com/marcward/gridstreak/internal/store"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Verbose    bool
	Format     string // "json" | "text"
	ConfigPath string
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// NewRootCommand creates the root command for the gridstreak CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "gridstreak",
		Short: "Gridstreak - daily grid puzzles",
		Long:  "A daily puzzle game with deterministic boards, offline-first progress and score sync.",
		// Commands render their own errors (JSON or text); main owns the
		// final exit message.
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !isValidFormat(opts.Format) {
				return fmt.Errorf("invalid format %q: must be one of %v", opts.Format, ValidFormats)
			}
			setupLogging(opts.Verbose)
			return nil
		},
	}

	// Global flags
	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")
	cmd.PersistentFlags().StringVar(&opts.ConfigPath, "config", defaultConfigPath(), "config file path")

	// Add subcommands
	cmd.AddCommand(NewTodayCommand(opts))
	cmd.AddCommand(NewFillCommand(opts))
	cmd.AddCommand(NewCheckCommand(opts))
	cmd.AddCommand(NewHintCommand(opts))
	cmd.AddCommand(NewCompleteCommand(opts))
	cmd.AddCommand(NewSyncCommand(opts))
	cmd.AddCommand(NewStatsCommand(opts))
	cmd.AddCommand(NewServeCommand(opts))

	return cmd
}

// setupLogging routes slog to stderr so JSON output on stdout stays
// parseable. Verbose raises the level to debug.
func setupLogging(verbose bool) {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
}

func defaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "gridstreak.yaml"
	}
	return filepath.Join(home, ".gridstreak", "config.yaml")
}

// isValidFormat checks if the format is one of the allowed values.
func isValidFormat(format string) bool {
	for _, f := range ValidFormats {
		if f == format {
			return true
		}
	}
	return false
}

// app bundles everything a command needs against one local database.
type app struct {
	cfg     config.Config
	store   *store.Store
	session *game.Session
}

// openApp loads config and opens the local store. Callers must Close.
func openApp(opts *RootOptions) (*app, error) {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "loading config", err)
	}

	if dir := filepath.Dir(cfg.Database); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, WrapExitError(ExitCommandError, "creating data directory", err)
		}
	}

	st, err := store.Open(cfg.Database)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "opening database", err)
	}

	return &app{
		cfg:     cfg,
		store:   st,
		session: game.NewSession(st, puzzle.NewGenerator(cfg.SecretKey), slog.Default()),
	}, nil
}

func (a *app) Close() error {
	return a.store.Close()
}

// syncUserID resolves the id used against the score service: the config
// override when present, else the stored profile.
func (a *app) syncUserID(cmd *cobra.Command) (string, error) {
	if a.cfg.UserID != "" {
		return a.cfg.UserID, nil
	}
	u, err := a.session.EnsureUser(cmd.Context())
	if err != nil {
		return "", WrapExitError(ExitCommandError, "resolving user", err)
	}
	return u.ID, nil
}

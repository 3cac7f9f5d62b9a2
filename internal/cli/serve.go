package cli

import (
	"errors"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/marcward/gridstreak/internal/remote"
)

// NewServeCommand runs the score service.
func NewServeCommand(opts *RootOptions) *cobra.Command {
	var (
		addr         string
		dbPath       string
		autoRegister bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the score service",
		Long:  "Starts the HTTP score service that devices push scores to and pull history from.",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := openApp(opts)
			if err != nil {
				return err
			}
			// The serve command only needs config; the local play store
			// stays closed while serving.
			cfg := app.cfg
			if err := app.Close(); err != nil {
				return WrapExitError(ExitCommandError, "closing local store", err)
			}

			if addr == "" {
				addr = cfg.ListenAddr
			}
			if dbPath == "" {
				dbPath = filepath.Join(filepath.Dir(cfg.Database), "scores.db")
			}
			if dir := filepath.Dir(dbPath); dir != "." {
				if err := os.MkdirAll(dir, 0o755); err != nil {
					return WrapExitError(ExitCommandError, "creating data directory", err)
				}
			}

			storage, err := remote.OpenStorage(dbPath)
			if err != nil {
				return WrapExitError(ExitCommandError, "opening score database", err)
			}
			defer storage.Close()

			server := remote.NewServer(storage, slog.Default(), remote.Options{
				AutoRegister: autoRegister,
			})

			slog.Info("score service listening", "addr", addr, "db", dbPath)
			if err := http.ListenAndServe(addr, server.Handler()); !errors.Is(err, http.ErrServerClosed) {
				return WrapExitError(ExitCommandError, "serving", err)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config)")
	cmd.Flags().StringVar(&dbPath, "db", "", "score database path (default next to the local store)")
	cmd.Flags().BoolVar(&autoRegister, "auto-register", true, "register unknown users on first submission")
	return cmd
}

package cli

import (
	"fmt"
	"os/signal"
	"syscall"

	"github.com/gdg-garage/campus-events-api/internal/config"
	"github.com/gdg-garage/campus-events-api/internal/database"
	"github.com/gdg-garage/campus-events-api/internal/server"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Starts the HTTP API server",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.LoadConfig()
		if err := cfg.Validate(); err != nil {
			return fmt.Errorf("invalid configuration: %w", err)
		}

		db, err := database.Connect(cfg)
		if err != nil {
			return err
		}
		defer database.Close(db)

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		return server.New(cfg, db).Run(ctx)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

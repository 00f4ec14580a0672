package cli

import (
	"fmt"

	"github.com/gdg-garage/campus-events-api/internal/auth"
	"github.com/gdg-garage/campus-events-api/internal/config"
	"github.com/gdg-garage/campus-events-api/internal/database"
	"github.com/gdg-garage/campus-events-api/internal/events"
	"github.com/gdg-garage/campus-events-api/internal/seed"
	"github.com/gdg-garage/campus-events-api/internal/users"
	"github.com/spf13/cobra"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Creates demo accounts and events",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.LoadConfig()
		if err := cfg.ValidateDatabase(); err != nil {
			return fmt.Errorf("invalid configuration: %w", err)
		}

		db, err := database.Connect(cfg)
		if err != nil {
			return err
		}
		defer database.Close(db)

		res, err := seed.Run(cmd.Context(),
			users.NewRepository(db, cfg.StorageTimeout),
			events.NewService(db, cfg.StorageTimeout),
			auth.NewPasswordHasher(0),
		)
		if err != nil {
			return fmt.Errorf("seed: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Created %d users and %d events\n", res.UsersCreated, res.EventsCreated)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(seedCmd)
}

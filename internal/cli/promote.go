package cli

import (
	"fmt"

	"github.com/gdg-garage/campus-events-api/internal/config"
	"github.com/gdg-garage/campus-events-api/internal/database"
	"github.com/gdg-garage/campus-events-api/internal/models"
	"github.com/gdg-garage/campus-events-api/internal/users"
	"github.com/spf13/cobra"
)

var promoteCmd = &cobra.Command{
	Use:   "promote <email>",
	Short: "Grants the admin role to an existing user",
	Args:  cobra.ExactArgs(1),
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

		demote, err := cmd.Flags().GetBool("demote")
		if err != nil {
			return err
		}
		role := models.RoleAdmin
		if demote {
			role = models.RoleStudent
		}
		user, err := users.NewRepository(db, cfg.StorageTimeout).SetRole(cmd.Context(), args[0], role)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s is now %s\n", user.Email, user.Role)
		return nil
	},
}

func init() {
	promoteCmd.Flags().Bool("demote", false, "Revoke admin instead of granting it")
	rootCmd.AddCommand(promoteCmd)
}

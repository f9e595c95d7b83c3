package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/welldanyogia/stitchdesk-backend/internal/config"
	"github.com/welldanyogia/stitchdesk-backend/internal/database"
	"gorm.io/gorm"
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "stitchctl",
		Short: "Operator tool for the Stitchdesk backend",
		Long: `stitchctl runs maintenance tasks against the Stitchdesk database and
payment provider configuration.

Settings come from the same environment variables as the server; a .env
file in the working directory is read first when present.`,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			_ = godotenv.Load()
		},
	}

	root.AddCommand(newMigrateCmd())
	root.AddCommand(newAccessCmd())
	root.AddCommand(newPaymentLinkCmd())
	root.AddCommand(newVerifyWebhookCmd())
	root.AddCommand(newIssueTokenCmd())
	return root
}

// openDatabase loads the server configuration and connects to its database
func openDatabase() (*config.Config, *gorm.DB, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}
	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		return nil, nil, err
	}
	return cfg, db, nil
}

// envOr returns the flag value, falling back to the environment
func envOr(value, key string) string {
	if value != "" {
		return value
	}
	return os.Getenv(key)
}

func requireFlag(name, value string) error {
	if value == "" {
		return fmt.Errorf("--%s is required", name)
	}
	return nil
}

package main

import (
	"encoding/json"

	"github.com/spf13/cobra"
	"github.com/welldanyogia/stitchdesk-backend/internal/access"
	"github.com/welldanyogia/stitchdesk-backend/internal/database"
	"github.com/welldanyogia/stitchdesk-backend/internal/logger"
	"github.com/welldanyogia/stitchdesk-backend/internal/repository"
	"github.com/welldanyogia/stitchdesk-backend/internal/validator"
)

func newAccessCmd() *cobra.Command {
	var userID, orderID string
	var catalog bool

	cmd := &cobra.Command{
		Use:   "access",
		Short: "Print the access decision for a user",
		Long: `Resolve what a user may do with the files of an order, or with the
product catalog when --catalog is set. The decision is printed as JSON.`,
		Example: `  stitchctl access --user 0c8e... --order 6f1e...
  stitchctl access --user 0c8e... --catalog`,
		RunE: func(cmd *cobra.Command, args []string) error {
			user, err := validator.ParseID(userID)
			if err != nil {
				return err
			}

			cfg, db, err := openDatabase()
			if err != nil {
				return err
			}
			defer database.Close(db)

			resolver := access.NewResolver(
				repository.NewEmployeeRepository(db),
				repository.NewCustomerRepository(db),
				repository.NewOrderRepository(db),
				logger.New(cmd.ErrOrStderr(), cfg.LogLevel),
			)

			var decision access.Decision
			if catalog {
				decision = resolver.ResolveCatalog(cmd.Context(), user)
			} else {
				order, err := validator.ParseID(orderID)
				if err != nil {
					return err
				}
				decision = resolver.Resolve(cmd.Context(), user, order)
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(decision)
		},
	}

	cmd.Flags().StringVar(&userID, "user", "", "auth user id of the caller")
	cmd.Flags().StringVar(&orderID, "order", "", "order id")
	cmd.Flags().BoolVar(&catalog, "catalog", false, "resolve the product catalog decision instead of an order")
	_ = cmd.MarkFlagRequired("user")
	cmd.MarkFlagsOneRequired("order", "catalog")
	return cmd
}

package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

func seedAdminCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "seed-admin",
		Short: "Create the bootstrap admin when no admin exists",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := configFromContext(cmd.Context())
			if err != nil {
				return err
			}
			logger := commonRun(cfg)

			app, err := buildApplication(cmd.Context(), cfg, logger)
			if err != nil {
				return err
			}
			defer app.close()

			created, err := app.seedAdmin(cmd.Context())
			if err != nil {
				return err
			}
			if created {
				fmt.Fprintf(cmd.OutOrStdout(), "created admin %s\n", cfg.BootstrapAdminCode)
			} else {
				fmt.Fprintln(cmd.OutOrStdout(), "admin already present")
			}
			return nil
		},
	}
}

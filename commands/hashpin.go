package commands

import (
	"fmt"

	"membergate/services"
	"membergate/validator"

	"github.com/spf13/cobra"
)

func hashPinCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "hash-pin PIN",
		Short: "Print the stored hash for a PIN, for manual database fixes",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := configFromContext(cmd.Context())
			if err != nil {
				return err
			}
			if err := validator.ValidateSecret(args[0]); err != nil {
				return err
			}
			hashed, err := services.NewBcryptHasher(cfg.HashCost).Hash(args[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), hashed)
			return nil
		},
	}
}

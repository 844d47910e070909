package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hongminglow/myrent-be/internal/seed"
)

func SeedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Populate an empty database with demo data",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := loadStore(cmd.Context())
			if err != nil {
				return err
			}
			defer store.Close()

			sum, err := seed.Run(cmd.Context(), store)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "seeded %d users, %d properties, %d verifications, %d messages\n",
				sum.Users, sum.Properties, sum.Verifications, sum.Messages)
			fmt.Fprintf(cmd.OutOrStdout(), "log in as %s with password %q\n", seed.AdminEmail, seed.Password)
			return nil
		},
	}
}

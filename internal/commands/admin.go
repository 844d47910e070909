package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hongminglow/myrent-be/internal/auth"
)

func AdminCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "admin",
		Short: "Manage admin accounts",
	}
	cmd.AddCommand(adminCreateCmd())
	return cmd
}

func adminCreateCmd() *cobra.Command {
	var name, email, password, phone, dob string
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create an admin account",
		Long:  `Admins cannot sign up over HTTP. This command provisions one directly in the database.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			profile, err := auth.ParseProfile(name, dob, email, phone, password)
			if err != nil {
				return err
			}
			store, err := loadStore(cmd.Context())
			if err != nil {
				return err
			}
			defer store.Close()

			// no tokens are issued here
			svc := auth.NewService(store, nil)
			id, err := svc.CreateAdmin(cmd.Context(), profile)
			if err != nil {
				return fmt.Errorf("create admin: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "created admin %s (id=%d)\n", profile.Email, id)
			return nil
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "full name")
	cmd.Flags().StringVar(&email, "email", "", "login email")
	cmd.Flags().StringVar(&password, "password", "", "password, at least 8 characters")
	cmd.Flags().StringVar(&phone, "phone", "", "phone number")
	cmd.Flags().StringVar(&dob, "dob", "1980-01-01", "date of birth, YYYY-MM-DD")
	for _, f := range []string{"name", "email", "password", "phone"} {
		_ = cmd.MarkFlagRequired(f)
	}
	return cmd
}

package commands

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hongminglow/myrent-be/internal/storage"
)

func UsersCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "users",
		Short: "Manage user accounts",
	}
	cmd.AddCommand(usersDeleteCmd())
	return cmd
}

// usersDeleteCmd removes an account. Its outstanding tokens stop working on the next
// request because the access gate re-reads the user.
func usersDeleteCmd() *cobra.Command {
	var id int64
	cmd := &cobra.Command{
		Use:   "delete",
		Short: "Delete a user and everything they own",
		RunE: func(cmd *cobra.Command, args []string) error {
			if id <= 0 {
				return errors.New("--id must be a positive integer")
			}
			store, err := loadStore(cmd.Context())
			if err != nil {
				return err
			}
			defer store.Close()

			if err := store.DeleteUser(cmd.Context(), id); err != nil {
				if errors.Is(err, storage.ErrNotFound) {
					return fmt.Errorf("user %d not found", id)
				}
				return fmt.Errorf("delete user: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "deleted user %d\n", id)
			return nil
		},
	}
	cmd.Flags().Int64Var(&id, "id", 0, "user id")
	_ = cmd.MarkFlagRequired("id")
	return cmd
}

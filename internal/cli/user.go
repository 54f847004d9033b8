package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/mmynk/invoicer/internal/auth"
)

var (
	userEmail    string
	userName     string
	userPassword string
)

var userCmd = &cobra.Command{
	Use:   "user",
	Short: "Manage hosted-mode accounts",
}

var userAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Create an account",
	Long: `Create a hosted-mode account. The password is read from --password
or, when empty, from the INVOICER_PASSWORD environment variable.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		password := userPassword
		if password == "" {
			password = os.Getenv("INVOICER_PASSWORD")
		}

		store, err := openStore(cmd.Context(), cfg)
		if err != nil {
			return fmt.Errorf("failed to initialize storage: %w", err)
		}
		defer store.Close()

		user, err := auth.NewPasswordAuthenticator(store).Register(cmd.Context(), userEmail, userName, password)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Created account %s for %s\n", user.ID, user.Email)
		return nil
	},
}

func init() {
	userAddCmd.Flags().StringVar(&userEmail, "email", "", "login email")
	userAddCmd.Flags().StringVar(&userName, "name", "", "display name")
	userAddCmd.Flags().StringVar(&userPassword, "password", "", "password (default $INVOICER_PASSWORD)")
	userAddCmd.MarkFlagRequired("email")

	userCmd.AddCommand(userAddCmd)
}

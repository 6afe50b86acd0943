package main

import (
	"errors"
	"fmt"

	"github.com/2beens/hoosfit/internal/accounts"
	"github.com/2beens/hoosfit/internal/fitness/profiles"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var createUserPassword string

var createUserCmd = &cobra.Command{
	Use:   "create-user <username>",
	Short: "Create an account with its profile",
	Long: `Create an account the same way signing up does: the profile is created
with it, starting with no streak and no points.

EXAMPLES:

  hoosfit_admin create-user alice --password 'correct horse battery'`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		profilesService := profiles.NewService(profiles.NewRepo(dbPool), clock, 0)
		accountsService := accounts.NewService(accounts.NewRepo(dbPool), profilesService)

		account, err := accountsService.Register(cmd.Context(), args[0], createUserPassword)
		if err != nil {
			if errors.Is(err, accounts.ErrUsernameTaken) {
				return fmt.Errorf("username %s is taken", args[0])
			}
			return err
		}

		color.Green("created %s [id %d]", account.Username, account.ID)
		return nil
	},
}

func init() {
	createUserCmd.Flags().StringVarP(&createUserPassword, "password", "p", "", "account password, at least 8 characters")
	_ = createUserCmd.MarkFlagRequired("password")
	rootCmd.AddCommand(createUserCmd)
}

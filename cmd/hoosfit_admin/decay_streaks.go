package main

import (
	"github.com/2beens/hoosfit/internal/fitness/profiles"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var decayStreaksCmd = &cobra.Command{
	Use:   "decay-streaks",
	Short: "Reset the streak of users who skipped a day",
	Long: `Reset to zero the streak of every user whose last workout is older than
yesterday. The profile page applies the same rule when it is viewed, this
command applies it to everyone at once, e.g. from a nightly cron.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		svc := profiles.NewService(profiles.NewRepo(dbPool), clock, 0)
		reset, err := svc.DecayStreaks(cmd.Context())
		if err != nil {
			return err
		}

		if reset == 0 {
			color.Yellow("no stale streaks")
			return nil
		}
		color.Green("%d streaks reset", reset)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(decayStreaksCmd)
}

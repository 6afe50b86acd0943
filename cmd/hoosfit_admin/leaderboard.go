package main

import (
	"fmt"

	"github.com/2beens/hoosfit/internal/fitness/profiles"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var leaderboardLimit int

var leaderboardCmd = &cobra.Command{
	Use:     "leaderboard",
	Aliases: []string{"lb"},
	Short:   "Print users ranked by points",
	RunE: func(cmd *cobra.Command, args []string) error {
		svc := profiles.NewService(profiles.NewRepo(dbPool), clock, 0)
		list, err := svc.Leaderboard(cmd.Context(), leaderboardLimit)
		if err != nil {
			return err
		}

		if len(list) == 0 {
			fmt.Println("No one on the leaderboard yet :(")
			return nil
		}

		bold := color.New(color.Bold)
		faint := color.New(color.Faint)
		for i, p := range list {
			fmt.Printf("%3d. %-30s %s %s\n",
				i+1,
				p.Username,
				bold.Sprintf("%8d pts", p.Points),
				faint.Sprintf("streak %d, last workout %s", p.Streak, p.LastWorkout.Format("2006-01-02")),
			)
		}
		return nil
	},
}

func init() {
	leaderboardCmd.Flags().IntVarP(&leaderboardLimit, "limit", "n", 10, "number of users, 0 for all")
	rootCmd.AddCommand(leaderboardCmd)
}

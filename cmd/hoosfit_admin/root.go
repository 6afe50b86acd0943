package main

import (
	"fmt"

	"github.com/2beens/hoosfit/internal/config"
	"github.com/2beens/hoosfit/internal/db"
	"github.com/2beens/hoosfit/internal/fitness"

	"github.com/jackc/pgx/v5/pgxpool"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var (
	envFlag     string
	configPath  string
	dotEnvPath  string
	verboseFlag bool

	cfg    *config.Config
	dbPool *pgxpool.Pool
	clock  fitness.Clock
)

var rootCmd = &cobra.Command{
	Use:   "hoosfit_admin",
	Short: "HoosFit administration",
	Long: `hoosfit_admin runs maintenance tasks against the HoosFit database.

EXAMPLES:

  hoosfit_admin migrate                      # Create tables and indexes
  hoosfit_admin create-user alice -p secret  # Create an account
  hoosfit_admin decay-streaks                # Reset streaks of users who skipped a day
  hoosfit_admin leaderboard -n 20            # Print the top 20 users

Secrets (HOOSFIT_POSTGRES_PASSWORD) are read from the environment or the
--dotenv file.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Name() == "help" {
			return nil
		}
		if verboseFlag {
			log.SetLevel(log.DebugLevel)
		} else {
			log.SetLevel(log.WarnLevel)
		}

		var err error
		cfg, err = config.Load(envFlag, configPath)
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		secrets, err := config.LoadSecrets(dotEnvPath)
		if err != nil {
			return err
		}

		dbPool, err = db.NewDBPool(cmd.Context(), db.NewDBPoolParams{
			DBHost:     cfg.PostgresHost,
			DBPort:     cfg.PostgresPort,
			DBName:     cfg.PostgresDBName,
			DBUser:     cfg.PostgresUser,
			DBPassword: secrets.PostgresPassword,
		})
		if err != nil {
			return fmt.Errorf("db pool: %w", err)
		}
		if err := dbPool.Ping(cmd.Context()); err != nil {
			return fmt.Errorf("ping db: %w", err)
		}

		clock = fitness.NewClock(cfg.Location())
		return nil
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		if dbPool != nil {
			dbPool.Close()
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&envFlag, "env", "development", "environment [prod | production | dev | development]")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "./config.toml", "path to TOML config file")
	rootCmd.PersistentFlags().StringVar(&dotEnvPath, "dotenv", ".env", "optional dotenv file with secrets")
	rootCmd.PersistentFlags().BoolVarP(&verboseFlag, "verbose", "v", false, "debug logging")
}

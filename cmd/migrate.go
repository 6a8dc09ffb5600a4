package cmd

import (
	"context"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var migrateCmd = &cobra.Command{
	Use:   "init-db-migrate",
	Short: "Initialize tables and run database migrations",
	Long:  `This job ensures the menu tables exist and then runs goose migrations.`,
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()

		commonSetUp(ctx)
		defer tearDown()

		// Run the migrations
		log.Info().Msgf("Running migrations...")
		if err := menuDB.Migrate(ctx); err != nil {
			log.Fatal().Err(err).Msg("Failed to run migrations")
		}

		log.Info().Msg("Migrations complete")
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}

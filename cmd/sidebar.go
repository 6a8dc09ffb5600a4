package cmd

import (
	"context"
	"os"
	"time"

	"github.com/idcard-hub/idcard-menu-services/internal/navigation"
	"github.com/idcard-hub/idcard-menu-services/menuclient"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var (
	sidebarURL   string
	sidebarToken string
)

var sidebarCmd = &cobra.Command{
	Use:   "sidebar",
	Short: "Print the sidebar served by a running menu API",
	Run: func(cmd *cobra.Command, args []string) {
		setLogging(logLevel)

		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()

		client := menuclient.NewClient(sidebarURL, sidebarToken)
		resp, err := client.ListMenus(ctx)
		if err != nil {
			log.Fatal().Err(err).Str("url", sidebarURL).Msg("Failed to fetch menus")
		}

		if err := navigation.FromResponse(*resp).Write(os.Stdout); err != nil {
			log.Fatal().Err(err).Msg("Failed to print sidebar")
		}

		if !resp.Success {
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(sidebarCmd)
	sidebarCmd.Flags().StringVar(&sidebarURL, "url", "http://localhost:8080/api", "base URL of the menu API")
	sidebarCmd.Flags().StringVar(&sidebarToken, "token", os.Getenv("MENU_API_TOKEN"), "bearer token (defaults to $MENU_API_TOKEN)")
}

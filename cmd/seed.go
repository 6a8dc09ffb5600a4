package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/idcard-hub/idcard-menu-services/api/services"
	"github.com/idcard-hub/idcard-menu-services/models"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v2"
)

var (
	seedFile  string
	seedReset bool
)

type seedSubMenu struct {
	Title string `yaml:"title"`
	URL   string `yaml:"url"`
}

type seedMenu struct {
	ID            string        `yaml:"id"`
	Title         string        `yaml:"title"`
	Icon          string        `yaml:"icon"`
	URL           string        `yaml:"url"`
	IsCollapsible bool          `yaml:"isCollapsible"`
	Order         *int          `yaml:"order"`
	SubMenus      []seedSubMenu `yaml:"subMenus"`
}

type seedDocument struct {
	Menus []seedMenu `yaml:"menus"`
}

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Load default menus from a YAML file",
	Long:  `Creates the menus defined in the seed file that do not exist yet. Menus are matched by title.`,
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()

		definitions, err := loadSeedFile(seedFile)
		if err != nil {
			log.Fatal().Err(err).Str("file", seedFile).Msg("Failed to read seed file")
		}

		commonSetUp(ctx)
		defer tearDown()

		service := &services.MenuService{Config: appCfg, DB: menuDB}

		created, err := service.Seed(ctx, definitions, seedReset)
		if err != nil {
			log.Fatal().Err(err).Int("created", created).Msg("Failed to seed menus")
		}

		log.Info().Int("created", created).Bool("reset", seedReset).Msg("Seeding complete")
	},
}

func init() {
	rootCmd.AddCommand(seedCmd)
	seedCmd.Flags().StringVar(&seedFile, "file", "menus.yaml", "YAML file with the default menus")
	seedCmd.Flags().BoolVar(&seedReset, "reset", false, "delete every existing menu before seeding")
}

// loadSeedFile reads menu definitions from a YAML document.
func loadSeedFile(path string) ([]models.Menu, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var doc seedDocument
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to unmarshal seed YAML: %w", err)
	}

	menus := make([]models.Menu, 0, len(doc.Menus))
	for _, def := range doc.Menus {
		menu := models.Menu{
			ID:            def.ID,
			Title:         def.Title,
			IsCollapsible: def.IsCollapsible,
			Order:         def.Order,
		}
		if def.Icon != "" {
			icon := def.Icon
			menu.Icon = &icon
		}
		if def.URL != "" {
			url := def.URL
			menu.URL = &url
		}
		for _, sub := range def.SubMenus {
			menu.SubMenus = append(menu.SubMenus, models.SubMenu{Title: sub.Title, URL: sub.URL})
		}
		menus = append(menus, menu)
	}
	return menus, nil
}

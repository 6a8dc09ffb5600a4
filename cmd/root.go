package cmd

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/idcard-hub/idcard-menu-services/db"
	"github.com/idcard-hub/idcard-menu-services/internal/appconfig"
	awsclient "github.com/idcard-hub/idcard-menu-services/internal/aws"
	"github.com/idcard-hub/idcard-menu-services/internal/tunnel"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var (
	logLevel   string
	configPath string
	host       string
	port       int

	appCfg *appconfig.Config
	menuDB *db.MenuDB
	dbTun  *tunnel.Tunnel
)

var rootCmd = &cobra.Command{
	Use:   "menu-services",
	Short: "Menu Services",
	Long:  `Menu Services serves and manages the sidebar navigation menus of the ID card web application.`,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log", "warn",
		"sets the log level")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", os.Getenv("CONFIG_PATH"),
		"path to the config file (defaults to $CONFIG_PATH)")
}

// loadConfig sets up logging and reads the config file.
func loadConfig() {
	setLogging(logLevel)

	var err error
	appCfg, err = appconfig.LoadConfig(configPath)
	if err != nil {
		log.Fatal().Err(err).Str("path", configPath).Msg("failed to load config")
	}
}

// commonSetUp loads the config and connects to the database, through the
// SSH tunnel when one is configured.
func commonSetUp(ctx context.Context) {
	loadConfig()

	if appCfg.Tunnel.Enabled {
		var err error
		dbTun, err = tunnel.Start(ctx, appCfg.Tunnel, &log.Logger)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to start SSH tunnel")
		}
	}

	dsn := appCfg.Database.Source
	if dsn == "" {
		awsCfg, err := awsclient.LoadAWSConfig(ctx, appCfg.AWS.Region)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to load AWS config")
		}

		dsn, err = awsclient.ResolveDSN(ctx, awsclient.NewSecretsManagerClient(awsCfg), appCfg.Database)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to resolve database connection string")
		}
	}

	var err error
	menuDB, err = db.NewMenuDB(appCfg.Database.Driver, dsn, &log.Logger)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize MenuDB")
	}
}

// tearDown closes whatever commonSetUp opened.
func tearDown() {
	if menuDB != nil {
		if err := menuDB.Close(); err != nil {
			log.Warn().Err(err).Msg("Failed to close database")
		}
	}
	if dbTun != nil {
		if err := dbTun.Close(); err != nil {
			log.Warn().Err(err).Msg("Failed to close SSH tunnel")
		}
	}
}

func setLogging(level string) {
	zerolog.TimestampFunc = func() time.Time {
		return time.Now().UTC()
	}

	switch strings.ToLower(level) {
	case "debug":
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	case "info":
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	case "warn":
		zerolog.SetGlobalLevel(zerolog.WarnLevel)
	case "error":
		zerolog.SetGlobalLevel(zerolog.ErrorLevel)
	case "fatal":
		zerolog.SetGlobalLevel(zerolog.FatalLevel)
	case "panic":
		zerolog.SetGlobalLevel(zerolog.PanicLevel)
	default:
		zerolog.SetGlobalLevel(zerolog.WarnLevel)
	}
}

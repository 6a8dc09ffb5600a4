package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/idcard-hub/idcard-menu-services/api/handlers"
	"github.com/idcard-hub/idcard-menu-services/api/middleware"
	"github.com/idcard-hub/idcard-menu-services/api/services"
	docs "github.com/idcard-hub/idcard-menu-services/docs"
	"github.com/idcard-hub/idcard-menu-services/internal/appconfig"
	"github.com/idcard-hub/idcard-menu-services/internal/events"
	"github.com/idcard-hub/idcard-menu-services/internal/metrics"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	httpSwagger "github.com/swaggo/http-swagger"
)

const shutdownTimeout = 5 * time.Second

// @title ID Card Menu Services API
// @version v1
// @description Sidebar navigation menus for the ID card web application.
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP server for handling API requests",
	Run: func(cmd *cobra.Command, args []string) {

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		// Load the config, initialize the database and set up logging
		commonSetUp(ctx)
		defer tearDown()

		service := &services.MenuService{
			Config: appCfg,
			DB:     menuDB,
		}

		// Publishing is optional
		if appCfg.Pulsar.URL != "" {
			publisher, err := events.NewEventPublisher(appCfg.Pulsar.URL, appCfg.Pulsar.TopicProducer)
			if err != nil {
				log.Fatal().Err(err).Msg("Failed to initialize event publisher")
			}
			defer publisher.Close()
			service.Publisher = publisher
		}

		reg := prometheus.NewRegistry()
		r := newRouter(appCfg, service, reg)

		srv := &http.Server{
			Addr:              fmt.Sprintf("%s:%d", host, port),
			Handler:           r,
			ReadHeaderTimeout: 10 * time.Second,
		}

		if err := runServer(ctx, srv); err != nil {
			tearDown()
			log.Fatal().Err(err).Msg("Server stopped with error")
		}
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringVar(&host, "host", "0.0.0.0", "host to run the server on")
	serveCmd.Flags().IntVar(&port, "port", 8080, "port to run the server on")
}

// runServer serves until ctx is cancelled, then shuts down gracefully. It
// returns an error when the server cannot start.
func runServer(ctx context.Context, srv *http.Server) error {
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info().Msg(fmt.Sprintf("Server started at %s", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("could not start server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		log.Info().Msg("Shutting down server")
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

// newRouter registers the API, metrics and docs routes.
func newRouter(cfg *appconfig.Config, service *services.MenuService, reg *prometheus.Registry) *mux.Router {
	r := mux.NewRouter()
	recorder := metrics.NewRecorder(reg)

	// Register the routes
	api := r.PathPrefix(cfg.BasePath).Subrouter()

	// Unmatched requests still get an envelope
	for _, router := range []*mux.Router{r, api} {
		router.NotFoundHandler = middleware.NotFound()
		router.MethodNotAllowedHandler = middleware.MethodNotAllowed()
	}

	// Apply the middleware to the API routes
	api.Use(middleware.Metrics(recorder.Requests))
	api.Use(middleware.WithLogger)
	api.Use(middleware.JWTMiddleware)

	// Menu routes. The order route must be registered before {menu-id}.
	api.HandleFunc("/menus", handlers.GetMenus(service)).Methods(http.MethodGet)
	api.HandleFunc("/menus", handlers.CreateMenu(service)).Methods(http.MethodPost)
	api.HandleFunc("/menus/order", handlers.ReorderMenus(service)).Methods(http.MethodPut)
	api.HandleFunc("/menus/{menu-id}", handlers.GetMenu(service)).Methods(http.MethodGet)
	api.HandleFunc("/menus/{menu-id}", handlers.UpdateMenu(service)).Methods(http.MethodPut)
	api.HandleFunc("/menus/{menu-id}", handlers.DeleteMenu(service)).Methods(http.MethodDelete)

	// Metrics
	r.Handle(cfg.MetricsPath, metrics.GetHandlerForRegistry(reg)).Methods(http.MethodGet)

	// Docs
	docs.SwaggerInfo.Host = cfg.Host
	docs.SwaggerInfo.BasePath = cfg.BasePath
	r.PathPrefix(cfg.DocsPath).Handler(httpSwagger.Handler(
		httpSwagger.URL(path.Join(cfg.DocsPath, "/doc.json")),
		httpSwagger.DeepLinking(true),
		httpSwagger.DocExpansion("none"),
		httpSwagger.DomID("swagger-ui"),
	)).Methods(http.MethodGet)

	return r
}

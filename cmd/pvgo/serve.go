package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/rgehrsitz/pvgo/internal/api"
	"github.com/rgehrsitz/pvgo/internal/config"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

func serveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the proposal engine over HTTP",
		Long: `Start the JSON API.

Environment (a .env file in the working directory is loaded first):
  PVGO_PORT      listen port when --port is not set
  PVGO_ENV       "production" switches gin to release mode
  PVGO_SETTINGS  settings file when --settings is not set
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			envFile, _ := cmd.Flags().GetString("env-file")
			if err := godotenv.Load(envFile); err != nil {
				log.Printf("Warning: %s not loaded, using the process environment", envFile)
			}

			settings, engine, err := setup(cmd)
			if err != nil {
				return err
			}
			cat, err := loadCatalog(cmd, settings)
			if err != nil {
				return err
			}
			port, err := resolvePort(cmd, settings)
			if err != nil {
				return err
			}
			if os.Getenv("PVGO_ENV") == "production" {
				gin.SetMode(gin.ReleaseMode)
			}

			router := api.NewRouter(engine, cat, api.Options{
				AllowedOrigins: settings.Server.AllowedOrigins,
				Logger:         simpleCLILogger{},
			})
			return runServer(cmd.Context(), &http.Server{
				Addr:              ":" + strconv.Itoa(port),
				Handler:           router,
				ReadHeaderTimeout: 10 * time.Second,
			})
		},
	}
	cmd.Flags().Int("port", 0, "Listen port (default: $PVGO_PORT or settings server.port)")
	cmd.Flags().String("env-file", ".env", "Environment file to load")
	return cmd
}

// resolvePort picks --port, then $PVGO_PORT, then the settings port
func resolvePort(cmd *cobra.Command, settings config.Settings) (int, error) {
	port, _ := cmd.Flags().GetInt("port")
	if port != 0 {
		return port, nil
	}
	if env := os.Getenv("PVGO_PORT"); env != "" {
		p, err := strconv.Atoi(env)
		if err != nil || p <= 0 || p > 65535 {
			return 0, fmt.Errorf("invalid PVGO_PORT %q", env)
		}
		return p, nil
	}
	return settings.Server.Port, nil
}

// runServer serves until the context is cancelled or a signal arrives, then
// shuts down gracefully.
func runServer(ctx context.Context, srv *http.Server) error {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Printf("INFO: pvgo API listening on %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

package cli

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"foodapp/internal/db"
	"foodapp/internal/router"

	"github.com/spf13/cobra"
	"golang.org/x/time/rate"
)

func newServeCmd(opts *rootOptions) *cobra.Command {
	var (
		rateLimit float64
		rateBurst int
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the development backend",
		Long: `Run an HTTP backend implementing signup, login, logout, add-food-item
and menu. Data is kept in memory unless DB_URL points at a MySQL database.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			log := opts.logger
			cfg := opts.cfg

			var store db.Store = db.NewMemoryStore()
			if cfg.DBUrl != "" {
				database, err := db.InitDB(cfg.DBUrl, log)
				if err != nil {
					return err
				}
				defer database.Close()

				if err := db.RunMigrations(database, log); err != nil {
					return err
				}
				store = db.NewMySQLStore(database)
			} else {
				log.Warn().Msg("DB_URL not set, using in-memory store")
			}

			handler := router.SetupRouter(store, router.Options{
				JWTSecret: cfg.JWTSecret,
				RateLimit: rate.Limit(rateLimit),
				RateBurst: rateBurst,
			}, log)

			server := &http.Server{
				Addr:         ":" + cfg.Port,
				Handler:      handler,
				ReadTimeout:  15 * time.Second,
				WriteTimeout: 15 * time.Second,
			}

			errCh := make(chan error, 1)
			go func() {
				log.Info().Str("port", cfg.Port).Msg("Server listening")
				if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					errCh <- err
				}
			}()

			quit := make(chan os.Signal, 1)
			signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
			defer signal.Stop(quit)

			select {
			case err := <-errCh:
				return err
			case <-quit:
				log.Info().Msg("Shutdown signal received")
			case <-cmd.Context().Done():
			}

			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := server.Shutdown(ctx); err != nil {
				log.Error().Err(err).Msg("Graceful shutdown failed")
				return err
			}
			log.Info().Msg("Server stopped")
			return nil
		},
	}

	cmd.Flags().Float64Var(&rateLimit, "rate-limit", 20, "requests per second across all clients (0 disables)")
	cmd.Flags().IntVar(&rateBurst, "rate-burst", 40, "rate limiter burst size")
	return cmd
}

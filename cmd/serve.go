package cmd

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"github.com/yeremiapane/table-reservation/database"
	"github.com/yeremiapane/table-reservation/kds"
	"github.com/yeremiapane/table-reservation/middlewares"
	"github.com/yeremiapane/table-reservation/router"
	"github.com/yeremiapane/table-reservation/services"
	"github.com/yeremiapane/table-reservation/utils"
)

func newServeCmd() *cobra.Command {
	var migrateUp bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the reservation API",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, db, err := openDB()
			if err != nil {
				return err
			}
			defer closeDB(db)

			if cfg.GinMode == gin.ReleaseMode {
				gin.SetMode(gin.ReleaseMode)
			}

			if migrateUp {
				if err := database.Migrate(db); err != nil {
					return err
				}
			}
			if err := database.ValidateSchema(db); err != nil {
				return err
			}

			store := database.NewGormStore(db)
			hub := kds.NewHub()

			reservations := services.NewReservationService(store, cfg.Location, cfg.StrictBooking)
			reservations.Publisher = hub

			r := router.SetupRouter(router.Deps{
				Store:        store,
				Reservations: reservations,
				Availability: services.NewAvailabilityService(store, cfg.Location),
				Statistics:   services.NewStatisticsService(store, cfg.Location),
				Reports:      services.NewReportService(store, cfg.Location),
				Hub:          hub,
				Limiter:      middlewares.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst),
				Location:     cfg.Location,
				CORSOrigin:   cfg.CORSOrigin,
			})

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			srv := &http.Server{
				Addr:              ":" + cfg.Port,
				Handler:           r,
				ReadHeaderTimeout: 10 * time.Second,
			}
			errCh := make(chan error, 1)
			go func() {
				utils.InfoLogger.Printf("Listening on port %s (db=%s, tz=%s, strict=%t)",
					cfg.Port, cfg.DBDriver, cfg.Location, cfg.StrictBooking)
				if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					errCh <- err
				}
				close(errCh)
			}()

			select {
			case err := <-errCh:
				return err
			case <-ctx.Done():
			}

			utils.InfoLogger.Println("Shutting down server...")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	}

	cmd.Flags().BoolVar(&migrateUp, "migrate", false, "run AutoMigrate before serving")
	cmd.Flags().Lookup("migrate").NoOptDefVal = "true"
	return cmd
}

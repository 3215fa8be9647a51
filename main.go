// File: carelink/main.go
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/hibiken/asynq"
	"go.uber.org/zap"

	"carelink/config"
	"carelink/cron"
	"carelink/database"
	appointmentRepo "carelink/database/repository/appointment"
	slotRepo "carelink/database/repository/slot"
	"carelink/handlers"
	"carelink/middleware"
	"carelink/routes"
	"carelink/services/booking"
	"carelink/services/notification"
	"carelink/services/tasks"
	"carelink/utils"
)

// buildStores returns the slot and appointment stores for STORE_DRIVER.
func buildStores(ctx context.Context, logger *zap.Logger) (slotRepo.SlotStore, appointmentRepo.AppointmentStore, map[string]utils.HealthCheck) {
	cfg := config.AppConfig
	checks := map[string]utils.HealthCheck{}

	switch cfg.StoreDriver {
	case config.StoreDriverFirebase:
		if err := utils.InitFirebaseDB(ctx); err != nil {
			logger.Fatal("main: failed to initialize firebase database", zap.Error(err))
		}
		return slotRepo.NewFirebaseStore(utils.FirebaseDB, cfg.StoreTimeout),
			appointmentRepo.NewFirebaseStore(utils.FirebaseDB, cfg.StoreTimeout),
			checks

	case config.StoreDriverMongo:
		database.InitDB()
		slotsColl := database.Collection(database.SlotsCollection)
		apptsColl := database.Collection(database.AppointmentsCollection)
		if err := slotRepo.EnsureSlotIndexes(ctx, slotsColl); err != nil {
			logger.Fatal("main: failed to create slot indexes", zap.Error(err))
		}
		if err := appointmentRepo.EnsureAppointmentIndexes(ctx, apptsColl); err != nil {
			logger.Fatal("main: failed to create appointment indexes", zap.Error(err))
		}
		checks["mongo"] = func(ctx context.Context) error { return database.MongoClient.Ping(ctx, nil) }
		return slotRepo.NewMongoSlotStore(slotsColl, cfg.StoreTimeout, cfg.ClaimMaxAttempts),
			appointmentRepo.NewMongoAppointmentStore(apptsColl, cfg.StoreTimeout),
			checks

	case config.StoreDriverMemory:
		logger.Warn("main: using in-memory stores; data is lost on restart")
		return slotRepo.NewMemoryStore(), appointmentRepo.NewMemoryStore(), checks

	default:
		logger.Fatal("main: unknown STORE_DRIVER", zap.String("driver", cfg.StoreDriver))
		return nil, nil, nil
	}
}

func main() {
	config.LoadConfig()
	logger := utils.GetLogger()
	defer logger.Sync()

	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	if config.AppConfig.StoreDriver == config.StoreDriverFirebase || config.AppConfig.PushEnabled {
		if err := utils.FirebaseInit(ctx); err != nil {
			logger.Fatal("main: failed to initialize firebase", zap.Error(err))
		}
	}

	slots, appts, checks := buildStores(ctx, logger)

	cache := utils.GetCacheClient()
	checks["redis"] = func(ctx context.Context) error { return cache.Ping(ctx).Err() }
	cachedSlots := slotRepo.NewCachedStore(slots, slotRepo.NewRedisListingCache(cache), config.AppConfig.SlotCacheTTL, logger)

	// services.
	bookingService := booking.NewBookingService(cachedSlots, appts, logger)

	queueClient := asynq.NewClient(cron.QueueRedisOpt())
	defer queueClient.Close()
	bookingService.Reconcile = tasks.NewReconcileEnqueuer(queueClient, config.AppConfig.ReconcileMaxRetry)

	if config.AppConfig.PushEnabled {
		if err := utils.InitFCM(ctx); err != nil {
			logger.Fatal("main: failed to initialize FCM", zap.Error(err))
		}
		notifier, err := notification.NewFCMNotifier(utils.FCMClient, logger)
		if err != nil {
			logger.Fatal("main: failed to create notifier", zap.Error(err))
		}
		bookingService.Notifier = notifier
	}

	// The reconciler reads the stores directly so it never acts on a cached listing.
	reconciler := booking.NewReconciler(slots, appts, logger)
	worker := cron.InitReconcileWorker(ctx, reconciler, logger)

	utils.StartHealthMonitor(ctx, time.Minute, checks)

	// Create the Gin router.
	if config.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(utils.ErrorHandler())
	router.Use(gin.Logger())
	router.Use(middleware.RateLimitMiddleware(config.AppConfig.MaxRequestsPerMin, logger))

	bookingHandler := handlers.NewBookingHandler(bookingService, reconciler, logger)
	routes.RegisterRoutes(router, handlers.NewHandlerBundle(bookingHandler))

	// Start the HTTP server.
	port := config.AppConfig.AppPort
	if port == "" {
		port = "8080"
	}
	srv := &http.Server{
		Addr:    "0.0.0.0:" + port,
		Handler: router,
	}

	logger.Sugar().Infof("Starting server on %s (store driver %s)...", srv.Addr, config.AppConfig.StoreDriver)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Sugar().Fatalf("main: server failed to start: %v", err)
		}
	}()

	// Wait for an OS signal to gracefully shutdown.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Sugar().Info("main: server is shutting down...")
	stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Sugar().Errorf("main: server forced to shutdown: %v", err)
	}
	worker.Shutdown()
	if err := database.CloseDB(shutdownCtx); err != nil {
		logger.Sugar().Warnf("main: mongo disconnect failed: %v", err)
	}

	logger.Sugar().Info("main: server stopped gracefully")
}

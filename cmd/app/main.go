package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"

	inhttp "github.com/yorutomo/booking-schedule-core/internal/adapters/in/http"
	"github.com/yorutomo/booking-schedule-core/internal/adapters/out/authapi"
	"github.com/yorutomo/booking-schedule-core/internal/adapters/out/bookingapi"
	"github.com/yorutomo/booking-schedule-core/internal/adapters/out/bus"
	"github.com/yorutomo/booking-schedule-core/internal/adapters/out/cache"
	"github.com/yorutomo/booking-schedule-core/internal/adapters/out/clock"
	"github.com/yorutomo/booking-schedule-core/internal/adapters/out/logger"
	"github.com/yorutomo/booking-schedule-core/internal/config"
	"github.com/yorutomo/booking-schedule-core/internal/core/ports/out"
	"github.com/yorutomo/booking-schedule-core/internal/core/services"
)

func main() {
	// Загрузка конфигурации
	cfg, err := config.NewConfig()
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Инициализация логгера с таймзоной
	mainLogger, err := logger.NewConsoleLogger(cfg.App.Timezone)
	if err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	log := mainLogger.WithModule("Main")

	log.Info("app.starting", out.LogFields{
		"version":      cfg.App.Version,
		"env":          cfg.App.Env,
		"timezone":     cfg.App.Timezone,
		"cacheEnabled": cfg.Cache.Enabled,
	})

	// Настройка Gin в зависимости от окружения
	if cfg.IsNotLocal() {
		gin.SetMode(gin.ReleaseMode)
	}

	// Инициализация адаптеров
	systemClock, err := clock.NewSystemClock(cfg.App.Timezone)
	if err != nil {
		log.Error("app.clock.init_failed", out.LogFields{
			"error": err.Error(),
		})
		os.Exit(1)
	}

	bookingAdapter := bookingapi.NewBookingAdapter(cfg, mainLogger.WithModule("BookingAdapter"))
	authAdapter := authapi.NewAuthAdapter(cfg, mainLogger.WithModule("AuthAdapter"))
	eventBus := bus.NewMemoryBus(mainLogger)

	var cacheAdapter out.AvailabilityCachePort
	if cfg.Cache.Enabled {
		adapter, err := cache.NewCacheAdapter(cfg, systemClock, mainLogger.WithModule("CacheAdapter"))
		if err != nil {
			log.Error("app.cache.init_failed", out.LogFields{
				"error": err.Error(),
			})
			os.Exit(1)
		}
		cacheAdapter = adapter
	}

	// Инициализация сервиса
	schedulingService := services.NewSchedulingService(
		bookingAdapter,
		authAdapter,
		cacheAdapter,
		eventBus,
		systemClock,
		cfg,
		mainLogger,
	)
	defer schedulingService.Close()

	// Настройка HTTP сервера
	router := gin.Default()
	controller := inhttp.NewSchedulingController(
		schedulingService,
		cfg,
		mainLogger.WithModule("HttpController"),
	)
	controller.RegisterRoutes(router)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		log.Info("app.http.starting", out.LogFields{
			"host": cfg.HTTP.Host,
			"port": cfg.HTTP.Port,
		})

		if err := router.Run(cfg.HTTP.Host + ":" + cfg.HTTP.Port); err != nil {
			log.Error("app.http.failed", out.LogFields{
				"error": err.Error(),
			})
			sigChan <- syscall.SIGTERM
		}
	}()

	sig := <-sigChan
	log.Info("app.shutdown.initiated", out.LogFields{
		"signal": sig.String(),
	})
}

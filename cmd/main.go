package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	blockedIntervalsHandler "github.com/m04kA/SkinStudio-BookingService/internal/api/handlers/blocked_intervals"
	calendarHandler "github.com/m04kA/SkinStudio-BookingService/internal/api/handlers/calendar"
	cancelBookingHandler "github.com/m04kA/SkinStudio-BookingService/internal/api/handlers/cancel_booking"
	createBookingHandler "github.com/m04kA/SkinStudio-BookingService/internal/api/handlers/create_booking"
	createInvoiceHandler "github.com/m04kA/SkinStudio-BookingService/internal/api/handlers/create_invoice_from_booking"
	getAvailabilityHandler "github.com/m04kA/SkinStudio-BookingService/internal/api/handlers/get_availability"
	getBookingHandler "github.com/m04kA/SkinStudio-BookingService/internal/api/handlers/get_booking"
	getUserBookingsHandler "github.com/m04kA/SkinStudio-BookingService/internal/api/handlers/get_user_bookings"
	invoicesHandler "github.com/m04kA/SkinStudio-BookingService/internal/api/handlers/invoices"
	listBookingsHandler "github.com/m04kA/SkinStudio-BookingService/internal/api/handlers/list_bookings"
	maintenanceHandler "github.com/m04kA/SkinStudio-BookingService/internal/api/handlers/maintenance"
	updateBookingStatusHandler "github.com/m04kA/SkinStudio-BookingService/internal/api/handlers/update_booking_status"
	"github.com/m04kA/SkinStudio-BookingService/internal/api/middleware"
	"github.com/m04kA/SkinStudio-BookingService/internal/config"
	"github.com/m04kA/SkinStudio-BookingService/internal/domain"
	catalogCache "github.com/m04kA/SkinStudio-BookingService/internal/infra/cache/catalog"
	"github.com/m04kA/SkinStudio-BookingService/internal/infra/export"
	blockedRepo "github.com/m04kA/SkinStudio-BookingService/internal/infra/storage/blocked"
	bookingRepo "github.com/m04kA/SkinStudio-BookingService/internal/infra/storage/booking"
	calendarRepo "github.com/m04kA/SkinStudio-BookingService/internal/infra/storage/calendar"
	catalogRepo "github.com/m04kA/SkinStudio-BookingService/internal/infra/storage/catalog"
	invoiceRepo "github.com/m04kA/SkinStudio-BookingService/internal/infra/storage/invoice"
	"github.com/m04kA/SkinStudio-BookingService/internal/scheduler"
	blockedService "github.com/m04kA/SkinStudio-BookingService/internal/service/blocked"
	bookingsService "github.com/m04kA/SkinStudio-BookingService/internal/service/bookings"
	calendarService "github.com/m04kA/SkinStudio-BookingService/internal/service/calendar"
	invoicesService "github.com/m04kA/SkinStudio-BookingService/internal/service/invoices"
	maintenanceService "github.com/m04kA/SkinStudio-BookingService/internal/service/maintenance"
	createBookingUC "github.com/m04kA/SkinStudio-BookingService/internal/usecase/create_booking"
	createInvoiceUC "github.com/m04kA/SkinStudio-BookingService/internal/usecase/create_invoice_from_booking"
	getAvailabilityUC "github.com/m04kA/SkinStudio-BookingService/internal/usecase/get_availability"
	"github.com/m04kA/SkinStudio-BookingService/pkg/dbmetrics"
	"github.com/m04kA/SkinStudio-BookingService/pkg/logger"
	"github.com/m04kA/SkinStudio-BookingService/pkg/metrics"
	"github.com/m04kA/SkinStudio-BookingService/pkg/txmanager"
)

const (
	poolStatsInterval = 15 * time.Second
	sweepTimeout      = 5 * time.Minute
)

func main() {
	configPath := "config.toml"
	if p := os.Getenv("CONFIG_PATH"); p != "" {
		configPath = p
	}

	// Загружаем конфигурацию
	cfg, err := config.Load(configPath)
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Инициализируем логгер
	log, err := logger.New(cfg.Logs.File, cfg.Logs.Level)
	if err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Close()

	log.Info("Starting SkinStudio-BookingService...")
	log.Info("Configuration loaded from %s", configPath)

	location, err := cfg.Calendar.Location()
	if err != nil {
		log.Fatal("Invalid studio timezone: %v", err)
	}
	defaultRules, err := cfg.Calendar.Rules()
	if err != nil {
		log.Fatal("Invalid default calendar: %v", err)
	}
	taxRate, err := cfg.Billing.TaxRateDecimal()
	if err != nil {
		log.Fatal("Invalid tax rate: %v", err)
	}
	billingPolicy := domain.BillingPolicy{TaxRate: taxRate, DueDays: cfg.Billing.DueDays}

	// Инициализируем метрики (если включены)
	var metricsCollector *metrics.Metrics
	stopMetricsCh := make(chan struct{})

	if cfg.Metrics.Enabled {
		metricsCollector = metrics.New(cfg.Metrics.ServiceName)
		log.Info("Metrics enabled at %s", cfg.Metrics.Path)
	}

	// Подключаемся к базе данных
	db, err := sql.Open("postgres", cfg.Database.DSN())
	if err != nil {
		log.Fatal("Failed to connect to database: %v", err)
	}
	defer db.Close()

	// Настраиваем connection pool
	db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	db.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	db.SetConnMaxLifetime(time.Duration(cfg.Database.ConnMaxLifetime) * time.Second)

	if err := db.Ping(); err != nil {
		log.Fatal("Failed to ping database: %v", err)
	}
	log.Info("Successfully connected to database (host=%s, port=%d, db=%s)",
		cfg.Database.Host, cfg.Database.Port, cfg.Database.DBName)

	var wrappedDB *dbmetrics.DB
	if cfg.Metrics.Enabled {
		wrappedDB = dbmetrics.WrapWithDefault(db, metricsCollector, poolStatsInterval, stopMetricsCh)
		log.Info("Database metrics collection started")
	} else {
		wrappedDB = dbmetrics.Wrap(db, nil)
	}
	txMgr := txmanager.New(wrappedDB, log)

	// Redis для кеша каталога (опционально)
	var redisClient *redis.Client
	if cfg.Redis.Enabled {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer redisClient.Close()

		pingCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		if err := redisClient.Ping(pingCtx).Err(); err != nil {
			log.Warn("Redis is unavailable at %s, catalog cache will fall back to database: %v", cfg.Redis.Addr, err)
		} else {
			log.Info("Connected to Redis at %s", cfg.Redis.Addr)
		}
		cancel()
	}

	// Инициализируем репозитории
	bookingRepository := bookingRepo.NewRepository(wrappedDB)
	blockedRepository := blockedRepo.NewRepository(wrappedDB)
	calendarRepository := calendarRepo.NewRepository(wrappedDB)
	invoiceRepository := invoiceRepo.NewRepository(wrappedDB)
	catalog := catalogCache.New(
		catalogRepo.NewRepository(wrappedDB),
		redisClient,
		time.Duration(cfg.Redis.CatalogTTLSeconds)*time.Second,
		log,
	)

	// Инициализируем сервисы
	calendarSvc := calendarService.NewService(calendarRepository, txMgr, defaultRules, location, log)
	bookingSvc := bookingsService.NewService(bookingRepository, calendarSvc, txMgr, metricsCollector, log)
	blockedSvc := blockedService.NewService(blockedRepository, bookingRepository, location, log)
	invoiceSvc := invoicesService.NewService(
		invoiceRepository,
		export.NewInvoiceExporter(),
		txMgr,
		billingPolicy,
		location,
		metricsCollector,
		log,
	)
	maintenanceSvc := maintenanceService.NewService(catalog, invoiceRepository, txMgr, location, metricsCollector, log)

	// Инициализируем use cases
	createBookingUseCase := createBookingUC.NewUseCase(
		bookingRepository,
		blockedRepository,
		catalog,
		calendarSvc,
		txMgr,
		metricsCollector,
		log,
	)
	getAvailabilityUseCase := getAvailabilityUC.NewUseCase(
		catalog,
		calendarSvc,
		blockedRepository,
		bookingRepository,
		log,
	)
	createInvoiceUseCase := createInvoiceUC.NewUseCase(
		bookingRepository,
		invoiceRepository,
		txMgr,
		billingPolicy,
		location,
		metricsCollector,
		log,
	)

	// Планировщик обслуживания
	var sweepScheduler *scheduler.Scheduler
	if cfg.Maintenance.Enabled {
		sweepScheduler, err = scheduler.New(cfg.Maintenance.OverdueSweepCron, location, maintenanceSvc, sweepTimeout, log)
		if err != nil {
			log.Fatal("Failed to create maintenance scheduler: %v", err)
		}
		sweepScheduler.Start()
		log.Info("Overdue invoice sweep scheduled: %s (%s)", cfg.Maintenance.OverdueSweepCron, location)
	}

	// Инициализируем handlers
	getAvailability := getAvailabilityHandler.NewHandler(getAvailabilityUseCase, log)
	createBooking := createBookingHandler.NewHandler(createBookingUseCase, log)
	getBooking := getBookingHandler.NewHandler(bookingSvc, log)
	cancelBooking := cancelBookingHandler.NewHandler(bookingSvc, log)
	getUserBookings := getUserBookingsHandler.NewHandler(bookingSvc, log)
	listBookings := listBookingsHandler.NewHandler(bookingSvc, log)
	updateBookingStatus := updateBookingStatusHandler.NewHandler(bookingSvc, log)
	createInvoice := createInvoiceHandler.NewHandler(createInvoiceUseCase, log)
	invoices := invoicesHandler.NewHandler(invoiceSvc, log)
	blockedIntervals := blockedIntervalsHandler.NewHandler(blockedSvc, log)
	calendar := calendarHandler.NewHandler(calendarSvc, log)
	maintenance := maintenanceHandler.NewHandler(maintenanceSvc, log)

	// Настраиваем роутер
	r := mux.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Logging(log))

	if cfg.Metrics.Enabled {
		r.Use(middleware.MetricsMiddleware(metricsCollector))
		r.Handle(cfg.Metrics.Path, promhttp.Handler()).Methods(http.MethodGet)
		log.Info("Prometheus metrics endpoint exposed at %s", cfg.Metrics.Path)
	}

	// API prefix
	api := r.PathPrefix("/api/v1").Subrouter()
	api.Use(middleware.Auth)

	// ============================================================
	// PUBLIC ROUTES (клиенты, гости)
	// ============================================================

	public := api.PathPrefix("").Subrouter()
	if cfg.RateLimit.Enabled {
		limiter := middleware.NewRateLimiter(cfg.RateLimit.RequestsPerSecond, cfg.RateLimit.Burst)
		public.Use(limiter.Middleware)
		log.Info("Rate limit enabled: %.1f rps, burst %d", cfg.RateLimit.RequestsPerSecond, cfg.RateLimit.Burst)
	}

	// Свободные слоты на дату
	public.HandleFunc("/availability", getAvailability.Handle).Methods(http.MethodGet)

	// Правила календаря
	public.HandleFunc("/calendar", calendar.HandleGet).Methods(http.MethodGet)

	// --- Бронирования ---
	public.HandleFunc("/bookings", createBooking.Handle).Methods(http.MethodPost)
	public.HandleFunc("/bookings/{bookingId}", getBooking.Handle).Methods(http.MethodGet)
	public.HandleFunc("/bookings/{bookingId}/cancel", cancelBooking.Handle).Methods(http.MethodPatch)

	// История бронирований пользователя
	public.Handle("/users/{userId}/bookings",
		middleware.RequireIdentity(http.HandlerFunc(getUserBookings.Handle))).Methods(http.MethodGet)

	// ============================================================
	// STAFF ROUTES (требуют X-User-Role: staff)
	// ============================================================

	staff := api.PathPrefix("/staff").Subrouter()
	staff.Use(middleware.RequireStaff)

	// --- Бронирования ---
	staff.HandleFunc("/bookings", listBookings.Handle).Methods(http.MethodGet)
	staff.HandleFunc("/bookings/{bookingId}/cancel", updateBookingStatus.HandleCancel).Methods(http.MethodPatch)
	staff.HandleFunc("/bookings/{bookingId}/confirm", updateBookingStatus.HandleConfirm).Methods(http.MethodPatch)
	staff.HandleFunc("/bookings/{bookingId}/complete", updateBookingStatus.HandleComplete).Methods(http.MethodPatch)
	staff.HandleFunc("/bookings/{bookingId}/invoices", createInvoice.Handle).Methods(http.MethodPost)

	// --- Счета ---
	// export регистрируется раньше {invoiceId}
	staff.HandleFunc("/invoices/export", invoices.HandleExport).Methods(http.MethodGet)
	staff.HandleFunc("/invoices", invoices.HandleCreate).Methods(http.MethodPost)
	staff.HandleFunc("/invoices", invoices.HandleList).Methods(http.MethodGet)
	staff.HandleFunc("/invoices/{invoiceId}", invoices.HandleGet).Methods(http.MethodGet)
	staff.HandleFunc("/invoices/{invoiceId}", invoices.HandleUpdate).Methods(http.MethodPut)
	staff.HandleFunc("/invoices/{invoiceId}/status", invoices.HandleUpdateStatus).Methods(http.MethodPatch)

	// --- Блокировки календаря ---
	staff.HandleFunc("/blocked-intervals", blockedIntervals.HandleCreate).Methods(http.MethodPost)
	staff.HandleFunc("/blocked-intervals", blockedIntervals.HandleList).Methods(http.MethodGet)
	staff.HandleFunc("/blocked-intervals/{intervalId}", blockedIntervals.HandleDelete).Methods(http.MethodDelete)

	// --- Календарь ---
	staff.HandleFunc("/calendar", calendar.HandleUpdate).Methods(http.MethodPut)

	// --- Обслуживание ---
	staff.HandleFunc("/maintenance/services/activation", maintenance.HandleSetServicesActive).Methods(http.MethodPost)
	staff.HandleFunc("/maintenance/invoices/overdue", maintenance.HandleSweepOverdue).Methods(http.MethodPost)

	// Создаем HTTP сервер
	addr := fmt.Sprintf(":%d", cfg.Server.HTTPPort)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
	}

	// Graceful shutdown
	go func() {
		log.Info("Starting server on %s", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Server failed to start: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(
		context.Background(),
		time.Duration(cfg.Server.ShutdownTimeout)*time.Second,
	)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown: %v", err)
	}

	if sweepScheduler != nil {
		sweepScheduler.Stop(shutdownCtx)
		log.Info("Maintenance scheduler stopped")
	}

	// Останавливаем сбор метрик connection pool
	if cfg.Metrics.Enabled {
		close(stopMetricsCh)
		log.Info("Metrics collection stopped")
	}

	log.Info("Server stopped gracefully")
}

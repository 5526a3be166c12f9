package main

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/rs/cors"

	availabilityStreamHandler "github.com/m04kA/SMC-HubBookingService/internal/api/handlers/availability_stream"
	deleteBookingHandler "github.com/m04kA/SMC-HubBookingService/internal/api/handlers/delete_booking"
	getAvailabilityHandler "github.com/m04kA/SMC-HubBookingService/internal/api/handlers/get_availability"
	getBookingHandler "github.com/m04kA/SMC-HubBookingService/internal/api/handlers/get_booking"
	getTypeHandler "github.com/m04kA/SMC-HubBookingService/internal/api/handlers/get_type"
	listBookingsHandler "github.com/m04kA/SMC-HubBookingService/internal/api/handlers/list_bookings"
	listTypesHandler "github.com/m04kA/SMC-HubBookingService/internal/api/handlers/list_types"
	manageAddonsHandler "github.com/m04kA/SMC-HubBookingService/internal/api/handlers/manage_addons"
	manageHolidaysHandler "github.com/m04kA/SMC-HubBookingService/internal/api/handlers/manage_holidays"
	manageSlotsHandler "github.com/m04kA/SMC-HubBookingService/internal/api/handlers/manage_slots"
	submitBookingHandler "github.com/m04kA/SMC-HubBookingService/internal/api/handlers/submit_booking"
	updateBookingStatusHandler "github.com/m04kA/SMC-HubBookingService/internal/api/handlers/update_booking_status"
	updateClusterRangesHandler "github.com/m04kA/SMC-HubBookingService/internal/api/handlers/update_cluster_ranges"
	updateTypeSettingsHandler "github.com/m04kA/SMC-HubBookingService/internal/api/handlers/update_type_settings"
	"github.com/m04kA/SMC-HubBookingService/internal/api/middleware"
	"github.com/m04kA/SMC-HubBookingService/internal/config"
	addonRepo "github.com/m04kA/SMC-HubBookingService/internal/infra/storage/addon"
	bookingRepo "github.com/m04kA/SMC-HubBookingService/internal/infra/storage/booking"
	bookingTypeRepo "github.com/m04kA/SMC-HubBookingService/internal/infra/storage/bookingtype"
	holidayRepo "github.com/m04kA/SMC-HubBookingService/internal/infra/storage/holiday"
	slotRepo "github.com/m04kA/SMC-HubBookingService/internal/infra/storage/slot"
	"github.com/m04kA/SMC-HubBookingService/internal/infra/uploads"
	"github.com/m04kA/SMC-HubBookingService/internal/integrations/events"
	"github.com/m04kA/SMC-HubBookingService/internal/integrations/mailer"
	"github.com/m04kA/SMC-HubBookingService/internal/service/admission"
	bookingsService "github.com/m04kA/SMC-HubBookingService/internal/service/bookings"
	bookingTypesService "github.com/m04kA/SMC-HubBookingService/internal/service/bookingtypes"
	catalogService "github.com/m04kA/SMC-HubBookingService/internal/service/catalog"
	holidaysService "github.com/m04kA/SMC-HubBookingService/internal/service/holidays"
	notificationsService "github.com/m04kA/SMC-HubBookingService/internal/service/notifications"
	getAvailabilityUC "github.com/m04kA/SMC-HubBookingService/internal/usecase/get_availability"
	submitBookingUC "github.com/m04kA/SMC-HubBookingService/internal/usecase/submit_booking"
	"github.com/m04kA/SMC-HubBookingService/pkg/dbmetrics"
	"github.com/m04kA/SMC-HubBookingService/pkg/logger"
	"github.com/m04kA/SMC-HubBookingService/pkg/metrics"
	"github.com/m04kA/SMC-HubBookingService/pkg/txmanager"
)

func main() {
	configPath := "config.toml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		configPath = v
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

	log.Info("Starting SMC-HubBookingService...")
	log.Info("Configuration loaded from %s", configPath)

	location, err := cfg.Booking.Location()
	if err != nil {
		log.Fatal("Invalid booking timezone: %v", err)
	}
	log.Info("Operator timezone: %s", location)

	// Метрики (если включены)
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

	db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	db.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	db.SetConnMaxLifetime(time.Duration(cfg.Database.ConnMaxLifetime) * time.Second)

	if err := db.Ping(); err != nil {
		log.Fatal("Failed to ping database: %v", err)
	}
	log.Info("Successfully connected to database (host=%s, port=%d, db=%s)",
		cfg.Database.Host, cfg.Database.Port, cfg.Database.DBName)

	// Репозитории и менеджер транзакций (с метриками или без)
	var (
		executor  dbmetrics.DBExecutor = db
		txBeginer txmanager.TxBeginner = txmanager.FromSQLDB(db)
	)
	if cfg.Metrics.Enabled {
		wrappedDB := dbmetrics.WrapWithDefault(db, metricsCollector, cfg.Metrics.ServiceName, stopMetricsCh)
		executor, txBeginer = wrappedDB, wrappedDB
		log.Info("Database metrics collection started")
	}

	txManager := txmanager.NewTransactionManager(txBeginer,
		txmanager.WithMaxRetries(cfg.Booking.MaxTxRetries),
		txmanager.WithRetryObserver(metricsCollector),
	)

	bookingRepository := bookingRepo.NewRepository(executor)
	typeRepository := bookingTypeRepo.NewRepository(executor)
	slotRepository := slotRepo.NewRepository(executor)
	addonRepository := addonRepo.NewRepository(executor)
	holidayRepository := holidayRepo.NewRepository(executor)

	// Хранилище скриншотов оплаты
	uploadStore, err := uploads.NewStore(cfg.Uploads.Dir, cfg.Uploads.PublicURL, cfg.Uploads.MaxBytes)
	if err != nil {
		log.Fatal("Failed to initialize uploads store: %v", err)
	}
	log.Info("Payment uploads stored in %s (max %d bytes)", uploadStore.Dir(), cfg.Uploads.MaxBytes)

	// Почта (если включена)
	var sender notificationsService.Sender
	if cfg.SMTP.Enabled {
		sender = mailer.NewClient(
			cfg.SMTP.Host,
			cfg.SMTP.Port,
			cfg.SMTP.Username,
			cfg.SMTP.Password,
			cfg.SMTP.From,
			time.Duration(cfg.SMTP.Timeout)*time.Second,
			log,
		)
		log.Info("SMTP notifications enabled (host=%s, port=%d)", cfg.SMTP.Host, cfg.SMTP.Port)
	} else {
		log.Warn("SMTP notifications disabled")
	}

	// События журнала в Redis (если включены)
	var (
		submitPublisher   submitBookingUC.EventPublisher
		bookingsPublisher bookingsService.EventPublisher
		streamSubscriber  availabilityStreamHandler.EventSubscriber
		redisClient       *redis.Client
	)
	if cfg.Redis.Enabled {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		pingCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := redisClient.Ping(pingCtx).Err(); err != nil {
			log.Warn("Redis is not reachable yet (addr=%s): %v", cfg.Redis.Addr, err)
		}
		cancel()

		publisher := events.NewPublisher(redisClient, cfg.Redis.Channel, log)
		submitPublisher, bookingsPublisher, streamSubscriber = publisher, publisher, publisher
		log.Info("Booking events published to redis channel %s", cfg.Redis.Channel)
	}

	// Сервисы
	notifier := notificationsService.NewService(
		sender,
		cfg.SMTP.OperatorEmail,
		cfg.Booking.Currency,
		time.Duration(cfg.SMTP.Timeout)*time.Second,
		log,
	)
	holidaySvc := holidaysService.NewService(holidayRepository, cfg.Booking.PageSize, log)
	typeSvc := bookingTypesService.NewService(typeRepository, txManager, log)
	catalogSvc := catalogService.NewService(typeRepository, slotRepository, addonRepository, bookingRepository, log)
	checker := admission.NewChecker(bookingRepository, slotRepository, addonRepository, log)
	bookingSvc := bookingsService.NewService(
		bookingRepository,
		typeRepository,
		checker,
		uploadStore,
		notifier,
		bookingsPublisher,
		txManager,
		location,
		cfg.Booking.PageSize,
		log,
	)

	// Use cases
	submitBookingUseCase := submitBookingUC.NewUseCase(
		bookingRepository,
		typeRepository,
		holidaySvc,
		checker,
		uploadStore,
		notifier,
		submitPublisher,
		metricsCollector,
		txManager,
		location,
		log,
	)
	getAvailabilityUseCase := getAvailabilityUC.NewUseCase(
		bookingRepository,
		typeRepository,
		slotRepository,
		addonRepository,
		holidaySvc,
		cfg.Booking.MaxAvailabilityDays,
		location,
		log,
	)

	// Handlers
	listPublicTypes := listTypesHandler.NewHandler(typeSvc, false, log)
	listAllTypes := listTypesHandler.NewHandler(typeSvc, true, log)
	getType := getTypeHandler.NewHandler(typeSvc, catalogSvc, log)
	getAvailability := getAvailabilityHandler.NewHandler(getAvailabilityUseCase, location, log)
	availabilityStream := availabilityStreamHandler.NewHandler(
		getAvailabilityUseCase,
		streamSubscriber,
		time.Duration(cfg.Booking.PollInterval)*time.Second,
		cfg.CORS.AllowedOrigins,
		location,
		log,
	)
	submitBooking := submitBookingHandler.NewHandler(submitBookingUseCase, location, log)
	holidays := manageHolidaysHandler.NewHandler(holidaySvc, location, log)
	slots := manageSlotsHandler.NewHandler(catalogSvc, log)
	addons := manageAddonsHandler.NewHandler(catalogSvc, location, log)
	listBookings := listBookingsHandler.NewHandler(bookingSvc, log)
	getBooking := getBookingHandler.NewHandler(bookingSvc, log)
	updateBookingStatus := updateBookingStatusHandler.NewHandler(bookingSvc, log)
	updateClusterRanges := updateClusterRangesHandler.NewHandler(bookingSvc, log)
	deleteBooking := deleteBookingHandler.NewHandler(bookingSvc, log)
	updateTypeSettings := updateTypeSettingsHandler.NewHandler(typeSvc, log)

	// Роутер
	r := mux.NewRouter()
	r.Use(middleware.Logging(log))

	if cfg.Metrics.Enabled {
		r.Use(middleware.MetricsMiddleware(metricsCollector))
		r.Handle(cfg.Metrics.Path, promhttp.Handler()).Methods(http.MethodGet)
		log.Info("Prometheus metrics endpoint exposed at %s", cfg.Metrics.Path)
	}

	// Скриншоты оплаты отдаются по тому же префиксу, что пишется в бронирование
	publicURL := strings.TrimRight(cfg.Uploads.PublicURL, "/") + "/"
	r.PathPrefix(publicURL).Handler(
		http.StripPrefix(publicURL, http.FileServer(http.Dir(uploadStore.Dir()))),
	).Methods(http.MethodGet)

	api := r.PathPrefix("/api/v1").Subrouter()

	// ============================================================
	// PUBLIC ROUTES
	// ============================================================

	// --- Типы и каталог ---
	api.HandleFunc("/types", listPublicTypes.Handle).Methods(http.MethodGet)
	api.HandleFunc("/types/{typeId}", getType.Handle).Methods(http.MethodGet)
	api.HandleFunc("/types/{typeId}/addons/remaining", addons.HandleRemainingBatch).Methods(http.MethodGet)
	api.HandleFunc("/addons/{addonId}/remaining", addons.HandleRemaining).Methods(http.MethodGet)

	// --- Доступность ---
	api.HandleFunc("/types/{typeId}/availability", getAvailability.Handle).Methods(http.MethodGet)
	api.HandleFunc("/types/{typeId}/availability/stream", availabilityStream.Handle).Methods(http.MethodGet)
	api.HandleFunc("/holidays", holidays.HandleList).Methods(http.MethodGet)

	// --- Приём заявок (с ограничением частоты) ---
	limiter := middleware.NewRateLimiter(cfg.Booking.SubmitRatePerMin, cfg.Booking.SubmitBurst, cfg.Server.TrustedProxies, log)
	api.Handle("/bookings", limiter.Limit(http.HandlerFunc(submitBooking.Handle))).Methods(http.MethodPost)

	// ============================================================
	// ADMIN ROUTES (требуют X-Admin-Token)
	// ============================================================

	admin := api.PathPrefix("/admin").Subrouter()
	admin.Use(middleware.AdminAuth(cfg.Admin.Token, log))

	// --- Журнал бронирований ---
	admin.HandleFunc("/bookings", listBookings.Handle).Methods(http.MethodGet)
	admin.HandleFunc("/bookings/{bookingId}", getBooking.Handle).Methods(http.MethodGet)
	admin.HandleFunc("/bookings/{bookingId}", deleteBooking.Handle).Methods(http.MethodDelete)
	admin.HandleFunc("/bookings/{bookingId}/status", updateBookingStatus.Handle).Methods(http.MethodPatch)
	admin.HandleFunc("/bookings/{bookingId}/cluster-ranges", updateClusterRanges.Handle).Methods(http.MethodPut)

	// --- Типы ---
	admin.HandleFunc("/types", listAllTypes.Handle).Methods(http.MethodGet)
	admin.HandleFunc("/types/{typeId}", updateTypeSettings.Handle).Methods(http.MethodPut)

	// --- Слоты ---
	admin.HandleFunc("/types/{typeId}/slots", slots.HandleList).Methods(http.MethodGet)
	admin.HandleFunc("/types/{typeId}/slots", slots.HandleCreate).Methods(http.MethodPost)
	admin.HandleFunc("/slots/{slotId}", slots.HandleDelete).Methods(http.MethodDelete)

	// --- Доп. услуги ---
	admin.HandleFunc("/types/{typeId}/addons", addons.HandleList).Methods(http.MethodGet)
	admin.HandleFunc("/types/{typeId}/addons", addons.HandleCreate).Methods(http.MethodPost)
	admin.HandleFunc("/addons/{addonId}", addons.HandleUpdate).Methods(http.MethodPut)
	admin.HandleFunc("/addons/{addonId}", addons.HandleDelete).Methods(http.MethodDelete)

	// --- Праздники ---
	admin.HandleFunc("/holidays", holidays.HandleAdminList).Methods(http.MethodGet)
	admin.HandleFunc("/holidays/{date}", holidays.HandleSet).Methods(http.MethodPut)
	admin.HandleFunc("/holidays/{date}", holidays.HandleUnset).Methods(http.MethodDelete)

	// CORS для виджета бронирования на сайте оператора
	corsHandler := cors.New(cors.Options{
		AllowedOrigins: cfg.CORS.AllowedOrigins,
		AllowedMethods: []string{
			http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete, http.MethodOptions,
		},
		AllowedHeaders: []string{"Content-Type", middleware.AdminTokenHeader},
	}).Handler(r)

	addr := fmt.Sprintf(":%d", cfg.Server.HTTPPort)
	srv := &http.Server{
		Addr:         addr,
		Handler:      corsHandler,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
	}

	// Graceful shutdown
	go func() {
		log.Info("Starting server on %s", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
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

	// Дожидаемся писем, ушедших до остановки
	notifier.Wait()

	if redisClient != nil {
		if err := redisClient.Close(); err != nil {
			log.Error("Failed to close redis client: %v", err)
		}
	}

	if cfg.Metrics.Enabled {
		close(stopMetricsCh)
		log.Info("Metrics collection stopped")
	}

	log.Info("Server stopped gracefully")
}

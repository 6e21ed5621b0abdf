package main

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	approveAppointmentHandler "github.com/m04kA/SMC-ScheduleService/internal/api/handlers/approve_appointment"
	cancelAppointmentHandler "github.com/m04kA/SMC-ScheduleService/internal/api/handlers/cancel_appointment"
	createAppointmentHandler "github.com/m04kA/SMC-ScheduleService/internal/api/handlers/create_appointment"
	getAppointmentHandler "github.com/m04kA/SMC-ScheduleService/internal/api/handlers/get_appointment"
	getAvailabilityHandler "github.com/m04kA/SMC-ScheduleService/internal/api/handlers/get_availability"
	getCustomerAppointmentsHandler "github.com/m04kA/SMC-ScheduleService/internal/api/handlers/get_customer_appointments"
	getLocationAppointmentsHandler "github.com/m04kA/SMC-ScheduleService/internal/api/handlers/get_location_appointments"
	getScheduleHandler "github.com/m04kA/SMC-ScheduleService/internal/api/handlers/get_schedule"
	resetScheduleUsageHandler "github.com/m04kA/SMC-ScheduleService/internal/api/handlers/reset_schedule_usage"
	updateScheduleHandler "github.com/m04kA/SMC-ScheduleService/internal/api/handlers/update_schedule"
	"github.com/m04kA/SMC-ScheduleService/internal/api/middleware"
	"github.com/m04kA/SMC-ScheduleService/internal/config"
	appointmentRepo "github.com/m04kA/SMC-ScheduleService/internal/infra/storage/appointment"
	businesshoursRepo "github.com/m04kA/SMC-ScheduleService/internal/infra/storage/businesshours"
	locationRepo "github.com/m04kA/SMC-ScheduleService/internal/infra/storage/location"
	scheduleRepo "github.com/m04kA/SMC-ScheduleService/internal/infra/storage/schedule"
	appointmentsService "github.com/m04kA/SMC-ScheduleService/internal/service/appointments"
	reservationsService "github.com/m04kA/SMC-ScheduleService/internal/service/reservations"
	scheduleService "github.com/m04kA/SMC-ScheduleService/internal/service/schedule"
	bookAppointmentUC "github.com/m04kA/SMC-ScheduleService/internal/usecase/book_appointment"
	resolveAvailabilityUC "github.com/m04kA/SMC-ScheduleService/internal/usecase/resolve_availability"
	"github.com/m04kA/SMC-ScheduleService/internal/worker/lifecycle"
	"github.com/m04kA/SMC-ScheduleService/pkg/dbmetrics"
	"github.com/m04kA/SMC-ScheduleService/pkg/logger"
	"github.com/m04kA/SMC-ScheduleService/pkg/metrics"
	"github.com/m04kA/SMC-ScheduleService/pkg/simpletxmanager"
	"github.com/m04kA/SMC-ScheduleService/pkg/txmanager"
)

func main() {
	// Загружаем конфигурацию
	cfg, err := config.Load("config.toml")
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

	log.Info("Starting SMC-ScheduleService...")
	log.Info("Configuration loaded from config.toml")

	// Инициализируем метрики (если включены)
	var metricsCollector *metrics.Metrics
	var wrappedDB *dbmetrics.DB
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

	// Проверяем соединение
	if err := db.Ping(); err != nil {
		log.Fatal("Failed to ping database: %v", err)
	}
	log.Info("Successfully connected to database (host=%s, port=%d, db=%s)",
		cfg.Database.Host, cfg.Database.Port, cfg.Database.DBName)

	// Инициализируем репозитории (с метриками или без)
	var (
		scheduleRepository      *scheduleRepo.Repository
		locationRepository      *locationRepo.Repository
		businesshoursRepository *businesshoursRepo.Repository
		appointmentRepository   *appointmentRepo.Repository
	)

	// Интерфейс для transaction manager (используется в сервисах)
	type TxManager interface {
		DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
	}
	var txMgr TxManager

	// Метрики передаются в сервисы только когда реально включены,
	// иначе в интерфейс попадет типизированный nil
	var (
		reservationMetrics reservationsService.Metrics
		appointmentMetrics appointmentsService.Metrics
	)

	if cfg.Metrics.Enabled {
		wrappedDB = dbmetrics.WrapWithDefault(db, metricsCollector, cfg.Metrics.ServiceName, stopMetricsCh)
		log.Info("Database metrics collection started")

		scheduleRepository = scheduleRepo.NewRepository(wrappedDB)
		locationRepository = locationRepo.NewRepository(wrappedDB)
		businesshoursRepository = businesshoursRepo.NewRepository(wrappedDB)
		appointmentRepository = appointmentRepo.NewRepository(wrappedDB)
		txMgr = txmanager.NewTransactionManager(wrappedDB)
		reservationMetrics = metricsCollector
		appointmentMetrics = metricsCollector
	} else {
		scheduleRepository = scheduleRepo.NewRepository(db)
		locationRepository = locationRepo.NewRepository(db)
		businesshoursRepository = businesshoursRepo.NewRepository(db)
		appointmentRepository = appointmentRepo.NewRepository(db)
		txMgr = simpletxmanager.NewTransactionManager(db)
	}

	// Инициализируем сервисы
	scheduleSvc := scheduleService.NewService(
		scheduleRepository,
		locationRepository,
		txMgr,
		log,
	)
	reservationsSvc := reservationsService.NewService(
		scheduleRepository,
		reservationMetrics,
		log,
	)
	appointmentsSvc := appointmentsService.NewService(
		appointmentRepository,
		reservationsSvc,
		appointmentMetrics,
		log,
	)

	// Инициализируем use cases
	resolveAvailabilityUseCase := resolveAvailabilityUC.NewUseCase(
		businesshoursRepository,
		locationRepository,
		scheduleRepository,
		log,
	)
	bookAppointmentUseCase := bookAppointmentUC.NewUseCase(
		resolveAvailabilityUseCase,
		reservationsSvc,
		appointmentRepository,
		log,
	)

	// Инициализируем handlers
	getAvailability := getAvailabilityHandler.NewHandler(resolveAvailabilityUseCase, log)
	createAppointment := createAppointmentHandler.NewHandler(bookAppointmentUseCase, log)
	getAppointment := getAppointmentHandler.NewHandler(appointmentsSvc, log)
	approveAppointment := approveAppointmentHandler.NewHandler(appointmentsSvc, log)
	cancelAppointment := cancelAppointmentHandler.NewHandler(appointmentsSvc, log)
	getCustomerAppointments := getCustomerAppointmentsHandler.NewHandler(appointmentsSvc, log)
	getLocationAppointments := getLocationAppointmentsHandler.NewHandler(appointmentsSvc, log)
	getSchedule := getScheduleHandler.NewHandler(scheduleSvc, log)
	updateSchedule := updateScheduleHandler.NewHandler(scheduleSvc, log)
	resetScheduleUsage := resetScheduleUsageHandler.NewHandler(scheduleSvc, log)

	// Запускаем фоновый sweep жизненного цикла записей
	sweepCtx, cancelSweep := context.WithCancel(context.Background())
	defer cancelSweep()

	var sweeper *lifecycle.Sweeper
	if cfg.Sweep.Enabled {
		sweeper = lifecycle.NewSweeper(
			appointmentsSvc,
			time.Duration(cfg.Sweep.IntervalSeconds)*time.Second,
			log,
		)
		go sweeper.Start(sweepCtx)
		log.Info("Lifecycle sweeper started (interval=%ds)", cfg.Sweep.IntervalSeconds)
	}

	// Настраиваем роутер
	r := mux.NewRouter()

	// Сквозные middleware
	r.Use(middleware.RequestID)
	if cfg.RateLimit.Enabled {
		r.Use(middleware.RateLimit(cfg.RateLimit.RPS, cfg.RateLimit.Burst))
		log.Info("Rate limit enabled (rps=%.1f, burst=%d)", cfg.RateLimit.RPS, cfg.RateLimit.Burst)
	}
	if cfg.Metrics.Enabled {
		r.Use(middleware.MetricsMiddleware(metricsCollector, cfg.Metrics.ServiceName))
		log.Info("HTTP metrics middleware enabled")
	}

	// Metrics endpoint (публичный, без аутентификации)
	if cfg.Metrics.Enabled {
		r.Handle(cfg.Metrics.Path, promhttp.Handler()).Methods(http.MethodGet)
		log.Info("Prometheus metrics endpoint exposed at %s", cfg.Metrics.Path)
	}

	// API prefix
	api := r.PathPrefix("/api/v1").Subrouter()

	// ============================================================
	// PUBLIC ROUTES (без аутентификации)
	// ============================================================

	// Резолв доступности на момент времени
	api.HandleFunc("/businesses/{businessId}/availability",
		getAvailability.Handle).Methods(http.MethodGet)

	// Получение расписания локации
	api.HandleFunc("/locations/{locationId}/schedule",
		getSchedule.Handle).Methods(http.MethodGet)

	// ============================================================
	// PROTECTED ROUTES (требуют X-User-ID header)
	// ============================================================

	protected := api.PathPrefix("").Subrouter()
	protected.Use(middleware.Auth)

	// --- Записи ---
	// Создание записи
	protected.HandleFunc("/appointments", createAppointment.Handle).Methods(http.MethodPost)

	// Получение записи по ID
	protected.HandleFunc("/appointments/{appointmentId}", getAppointment.Handle).Methods(http.MethodGet)

	// Подтверждение записи
	protected.HandleFunc("/appointments/{appointmentId}/approve", approveAppointment.Handle).Methods(http.MethodPatch)

	// Отмена записи
	protected.HandleFunc("/appointments/{appointmentId}/cancel", cancelAppointment.Handle).Methods(http.MethodPatch)

	// История записей клиента
	protected.HandleFunc("/customers/{customerId}/appointments", getCustomerAppointments.Handle).Methods(http.MethodGet)

	// --- Управление расписанием (для менеджеров) ---
	// Создание/замена конфигурации расписания локации
	protected.HandleFunc("/locations/{locationId}/schedule", updateSchedule.Handle).Methods(http.MethodPut)

	// Сброс счетчиков использования интервалов
	protected.HandleFunc("/locations/{locationId}/schedule/reset-usage", resetScheduleUsage.Handle).Methods(http.MethodPost)

	// Записи локации за период
	protected.HandleFunc("/locations/{locationId}/appointments", getLocationAppointments.Handle).Methods(http.MethodGet)

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
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Server failed to start: %v", err)
		}
	}()

	// Ожидаем сигнал завершения
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")

	// Останавливаем фоновый sweep
	if sweeper != nil {
		sweeper.Stop()
		cancelSweep()
		log.Info("Lifecycle sweeper stopped")
	}

	// Останавливаем сбор метрик connection pool
	if cfg.Metrics.Enabled {
		close(stopMetricsCh)
		log.Info("Metrics collection stopped")
	}

	shutdownCtx, cancel := context.WithTimeout(
		context.Background(),
		time.Duration(cfg.Server.ShutdownTimeout)*time.Second,
	)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown: %v", err)
	}

	log.Info("Server stopped gracefully")
}

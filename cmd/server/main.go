// Package main - точка входа сервиса учёта школьных записей.
//
// Сервис ведёт журнал учеников, преподавателей, классов, курсов, оценок,
// расписаний и посещаемости. Каждая запись после изменения публикует
// событие; движок пересчёта обновляет вычисляемые поля вниз по графу
// зависимостей (оценка → средний балл ученика → средний балл класса).
//
// Архитектура следует принципам Clean Architecture и DDD:
// - Domain: чистая бизнес-логика без внешних зависимостей
// - Application: оркестрация use cases (Commands/Queries/Recompute)
// - Infrastructure: реализация репозиториев, PostgreSQL, Redis
// - Interface: REST API endpoints
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	// Application layer
	"github.com/alem-hub/school-records/internal/application/command"
	"github.com/alem-hub/school-records/internal/application/derive"
	"github.com/alem-hub/school-records/internal/application/eventhandler"
	"github.com/alem-hub/school-records/internal/application/query"

	// Infrastructure layer
	"github.com/alem-hub/school-records/internal/infrastructure/messaging"
	"github.com/alem-hub/school-records/internal/infrastructure/persistence/postgres"
	"github.com/alem-hub/school-records/internal/infrastructure/persistence/redis"
	"github.com/alem-hub/school-records/internal/infrastructure/scheduler"
	"github.com/alem-hub/school-records/internal/infrastructure/scheduler/jobs"

	// Interface layer
	httpserver "github.com/alem-hub/school-records/internal/interface/http"
	"github.com/alem-hub/school-records/internal/interface/http/handlers"

	"github.com/alem-hub/school-records/config"
)

// ══════════════════════════════════════════════════════════════════════════════
// MAIN
// ══════════════════════════════════════════════════════════════════════════════

func main() {
	// Создаём корневой контекст с возможностью отмены
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "fatal error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	// ─────────────────────────────────────────────────────────────────────────
	// 1. ЗАГРУЗКА КОНФИГУРАЦИИ
	// ─────────────────────────────────────────────────────────────────────────
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// ─────────────────────────────────────────────────────────────────────────
	// 2. НАСТРОЙКА ЛОГИРОВАНИЯ
	// ─────────────────────────────────────────────────────────────────────────
	log := setupLogger(cfg)
	log.Info("starting school records service",
		"env", cfg.App.Environment,
		"debug", cfg.App.Debug,
		"timezone", cfg.App.Timezone,
	)

	// ─────────────────────────────────────────────────────────────────────────
	// 3. ПОДКЛЮЧЕНИЕ К БАЗЕ ДАННЫХ (PostgreSQL)
	// ─────────────────────────────────────────────────────────────────────────
	log.Info("connecting to database...")
	dbConn, err := postgres.NewConnectionFromURL(ctx, cfg.Database.URL)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer func() {
		log.Info("closing database connection...")
		dbConn.Close()
	}()

	if err := dbConn.Ping(ctx); err != nil {
		return fmt.Errorf("database ping failed: %w", err)
	}
	log.Info("database connection established")

	// ─────────────────────────────────────────────────────────────────────────
	// 4. ЗАПУСК МИГРАЦИЙ
	// ─────────────────────────────────────────────────────────────────────────
	log.Info("running database migrations...")
	migrator := postgres.NewMigrator(dbConn)
	if err := migrator.Migrate(ctx); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	status, err := migrator.Status(ctx)
	if err != nil {
		log.Warn("failed to get migration status", "error", err)
	} else {
		appliedCount := 0
		for _, m := range status {
			if m.IsApplied {
				appliedCount++
			}
		}
		log.Info("migrations completed", "applied", appliedCount, "total", len(status))
	}

	// ─────────────────────────────────────────────────────────────────────────
	// 5. ИНИЦИАЛИЗАЦИЯ REDIS (опционально)
	// ─────────────────────────────────────────────────────────────────────────
	var redisCache *redis.Cache
	var transcriptCache *redis.TranscriptCache
	var reportCache *redis.ReportCache

	if !cfg.Redis.Disabled {
		log.Info("connecting to Redis...")
		redisCfg := redis.DefaultConfig()
		redisCfg.Host = cfg.Redis.Host
		redisCfg.Port = cfg.Redis.Port
		redisCfg.Password = cfg.Redis.Password
		redisCfg.DB = cfg.Redis.DB
		if cfg.Redis.PoolSize > 0 {
			redisCfg.PoolSize = cfg.Redis.PoolSize
		}

		redisCache, err = redis.NewCache(redisCfg)
		if err != nil {
			log.Warn("failed to connect to Redis, caching disabled", "error", err)
		} else {
			defer redisCache.Close()
			transcriptCache = redis.NewTranscriptCache(redisCache)
			reportCache = redis.NewReportCache(redisCache)
			log.Info("Redis connection established")
		}
	}

	// ─────────────────────────────────────────────────────────────────────────
	// 6. ИНИЦИАЛИЗАЦИЯ РЕПОЗИТОРИЕВ
	// ─────────────────────────────────────────────────────────────────────────
	log.Info("initializing repositories...")
	studentRepo := postgres.NewStudentRepository(dbConn)
	teacherRepo := postgres.NewTeacherRepository(dbConn)
	classRepo := postgres.NewClassRepository(dbConn)
	courseRepo := postgres.NewCourseRepository(dbConn)
	gradeRepo := postgres.NewGradeRepository(dbConn)
	scheduleRepo := postgres.NewScheduleRepository(dbConn)
	attendanceRepo := postgres.NewAttendanceRepository(dbConn)
	auditRepo := postgres.NewAuditRepository(dbConn)

	// ─────────────────────────────────────────────────────────────────────────
	// 7. ИНИЦИАЛИЗАЦИЯ EVENT BUS
	// Синхронный режим по умолчанию: пересчёт вычисляемых полей завершается
	// внутри команды, до ответа клиенту.
	// ─────────────────────────────────────────────────────────────────────────
	log.Info("initializing event bus...", "async", cfg.Recompute.AsyncEvents)
	eventBusConfig := messaging.DefaultInMemoryEventBusConfig()
	eventBusConfig.Logger = log
	eventBusConfig.AsyncMode = cfg.Recompute.AsyncEvents
	eventBusConfig.WorkerPoolSize = cfg.Recompute.WorkerPoolSize
	eventBus := messaging.NewInMemoryEventBus(eventBusConfig)
	defer func() {
		log.Info("closing event bus...")
		_ = eventBus.Close()
	}()

	// ─────────────────────────────────────────────────────────────────────────
	// 8. ИНИЦИАЛИЗАЦИЯ ДВИЖКА ПЕРЕСЧЁТА
	// ─────────────────────────────────────────────────────────────────────────
	log.Info("initializing recompute engine...")
	engine := derive.NewEngine(studentRepo, classRepo, courseRepo, teacherRepo)

	// ─────────────────────────────────────────────────────────────────────────
	// 9. ИНИЦИАЛИЗАЦИЯ APPLICATION LAYER (Commands, Queries)
	// ─────────────────────────────────────────────────────────────────────────
	log.Info("initializing application layer...")

	enrollStudentCmd := command.NewEnrollStudentHandler(studentRepo, eventBus)
	changeStudentStatusCmd := command.NewChangeStudentStatusHandler(studentRepo, eventBus)
	assignStudentClassCmd := command.NewAssignStudentClassHandler(studentRepo, eventBus)
	registerTeacherCmd := command.NewRegisterTeacherHandler(teacherRepo, eventBus)
	changeTeacherStatusCmd := command.NewChangeTeacherStatusHandler(teacherRepo, eventBus)
	createClassCmd := command.NewCreateClassHandler(classRepo, eventBus)
	createCourseCmd := command.NewCreateCourseHandler(courseRepo, eventBus)
	reassignCourseTeacherCmd := command.NewReassignCourseTeacherHandler(courseRepo, eventBus)
	recordGradeCmd := command.NewRecordGradeHandler(gradeRepo, studentRepo, eventBus)
	rescoreGradeCmd := command.NewRescoreGradeHandler(gradeRepo, studentRepo, eventBus)
	planScheduleCmd := command.NewPlanScheduleHandler(scheduleRepo, courseRepo, eventBus)
	reslotScheduleCmd := command.NewReslotScheduleHandler(scheduleRepo, courseRepo, eventBus)
	markAttendanceCmd := command.NewMarkAttendanceHandler(attendanceRepo, studentRepo, eventBus)
	markBulkAttendanceCmd := command.NewMarkBulkAttendanceHandler(markAttendanceCmd)

	transcriptQuery := query.NewStudentTranscriptHandler(studentRepo, gradeRepo)
	reportQuery := query.NewAttendanceReportHandler(attendanceRepo)

	// ─────────────────────────────────────────────────────────────────────────
	// 10. РЕГИСТРАЦИЯ EVENT HANDLERS
	// Порядок важен: пересчёт раньше инвалидации кеша, чтобы читатели после
	// промаха увидели уже пересчитанные значения.
	// ─────────────────────────────────────────────────────────────────────────
	log.Info("registering event handlers...")

	recomputeHandler := eventhandler.NewOnRecordChangedHandler(engine, log)
	if err := recomputeHandler.Register(eventBus); err != nil {
		return fmt.Errorf("failed to register recompute handler: %w", err)
	}

	auditHandler := eventhandler.NewOnAuditTrailHandler(auditRepo, log)
	if err := auditHandler.Register(eventBus); err != nil {
		return fmt.Errorf("failed to register audit handler: %w", err)
	}

	if transcriptCache != nil || reportCache != nil {
		var ti eventhandler.TranscriptInvalidator
		var ri eventhandler.ReportInvalidator
		if transcriptCache != nil {
			ti = transcriptCache
		}
		if reportCache != nil {
			ri = reportCache
		}
		cacheHandler := eventhandler.NewOnCacheInvalidateHandler(ti, ri, log)
		if err := cacheHandler.Register(eventBus); err != nil {
			return fmt.Errorf("failed to register cache invalidation handler: %w", err)
		}
	}

	// ─────────────────────────────────────────────────────────────────────────
	// 11. ИНИЦИАЛИЗАЦИЯ ПЛАНИРОВЩИКА
	// Ночная сверка: вычисляемые поля пересчитываются из первоисточников,
	// закрывая дрейф (возраст меняется без записей).
	// ─────────────────────────────────────────────────────────────────────────
	log.Info("initializing scheduler...")
	jobScheduler := scheduler.NewScheduler(scheduler.Config{
		Logger:   log,
		Timezone: cfg.App.Location,
	})

	reconcileJob := jobs.NewReconcileDerivedJob(studentRepo, classRepo, courseRepo, teacherRepo, log)
	if err := jobScheduler.Register(reconcileJob, scheduler.NewDailySchedule(2, 0)); err != nil {
		return fmt.Errorf("failed to register reconciliation job: %w", err)
	}

	if err := jobScheduler.Start(ctx); err != nil {
		return fmt.Errorf("failed to start scheduler: %w", err)
	}

	// ─────────────────────────────────────────────────────────────────────────
	// 12. HEALTH CHECKS
	// ─────────────────────────────────────────────────────────────────────────
	healthChecker := handlers.NewCompositeHealthChecker(cfg.App.Version)
	healthChecker.AddCheck("postgres", func(ctx context.Context) error {
		return dbConn.Ping(ctx)
	})
	if redisCache != nil {
		healthChecker.AddCheck("redis", func(ctx context.Context) error {
			return redisCache.Ping(ctx)
		})
	}

	// ─────────────────────────────────────────────────────────────────────────
	// 13. СОЗДАНИЕ HTTP SERVER
	// ─────────────────────────────────────────────────────────────────────────
	log.Info("initializing HTTP server...")

	httpConfig := httpserver.DefaultConfig()
	httpConfig.Host = getEnv("HTTP_HOST", httpConfig.Host)
	httpConfig.Port = getEnvInt("HTTP_PORT", httpConfig.Port)

	httpDeps := httpserver.Dependencies{
		EnrollStudent:         enrollStudentCmd,
		ChangeStudentStatus:   changeStudentStatusCmd,
		AssignStudentClass:    assignStudentClassCmd,
		RegisterTeacher:       registerTeacherCmd,
		ChangeTeacherStatus:   changeTeacherStatusCmd,
		CreateClass:           createClassCmd,
		CreateCourse:          createCourseCmd,
		ReassignCourseTeacher: reassignCourseTeacherCmd,
		RecordGrade:           recordGradeCmd,
		RescoreGrade:          rescoreGradeCmd,
		PlanSchedule:          planScheduleCmd,
		ReslotSchedule:        reslotScheduleCmd,
		MarkAttendance:        markAttendanceCmd,
		MarkBulkAttendance:    markBulkAttendanceCmd,
		StudentTranscript:     transcriptQuery,
		AttendanceReport:      reportQuery,
		Logger:                log,
		HealthChecker:         healthChecker,
	}

	httpServer := httpserver.NewServer(httpConfig, httpDeps)

	// ─────────────────────────────────────────────────────────────────────────
	// 14. ЗАПУСК СЕРВИСОВ
	// ─────────────────────────────────────────────────────────────────────────
	errCh := make(chan error, 1)

	go func() {
		log.Info("starting HTTP server", "address", httpServer.Address())
		if err := httpServer.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("http server error: %w", err)
		}
	}()

	// ─────────────────────────────────────────────────────────────────────────
	// 15. GRACEFUL SHUTDOWN
	// ─────────────────────────────────────────────────────────────────────────
	log.Info("school records service is running", "http_address", httpServer.Address())

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP)

	select {
	case sig := <-sigCh:
		log.Info("received shutdown signal", "signal", sig.String())
	case err := <-errCh:
		log.Error("service error", "error", err)
		return err
	}

	log.Info("starting graceful shutdown...", "timeout", cfg.App.ShutdownTimeout.String())

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.App.ShutdownTimeout)
	defer shutdownCancel()

	var shutdownErr error

	// 1. Останавливаем HTTP сервер (перестаём принимать новые запросы)
	log.Info("stopping HTTP server...")
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Error("failed to stop HTTP server gracefully", "error", err)
		shutdownErr = err
	}

	// 2. Останавливаем планировщик (дожидаемся текущих заданий)
	log.Info("stopping scheduler...")
	if err := jobScheduler.Stop(); err != nil && !errors.Is(err, scheduler.ErrSchedulerNotRunning) {
		log.Error("failed to stop scheduler gracefully", "error", err)
		shutdownErr = err
	}

	// 3. Event bus и соединения закроются через defer

	if shutdownErr != nil {
		log.Warn("shutdown completed with errors")
	} else {
		log.Info("shutdown completed successfully")
	}

	return nil
}

// ══════════════════════════════════════════════════════════════════════════════
// HELPERS
// ══════════════════════════════════════════════════════════════════════════════

// setupLogger настраивает структурированное логирование.
func setupLogger(cfg *config.Config) *slog.Logger {
	var handler slog.Handler

	opts := &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}

	switch cfg.Observability.LogLevel {
	case "debug":
		opts.Level = slog.LevelDebug
	case "warn":
		opts.Level = slog.LevelWarn
	case "error":
		opts.Level = slog.LevelError
	}
	if cfg.App.Debug {
		opts.Level = slog.LevelDebug
	}

	if cfg.Observability.LogFormat == "json" || cfg.IsProduction() {
		// JSON формат для production (лучше для агрегаторов логов)
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		// Текстовый формат для development (лучше читается)
		handler = slog.NewTextHandler(os.Stdout, opts)
	}

	log := slog.New(handler)
	slog.SetDefault(log)

	return log
}

func getEnv(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	var n int
	if _, err := fmt.Sscanf(v, "%d", &n); err != nil {
		return defaultVal
	}
	return n
}

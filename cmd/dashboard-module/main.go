// Точка входа Dashboard Module — backend-for-frontend родительского
// дашборда платформы TutorBoard. Загружает конфигурацию, подключается
// к PostgreSQL, применяет миграции, создаёт клиент тьюторинг-сервиса,
// кэширующий сервисный слой и API handlers, запускает topologymetrics,
// HTTP-сервер с JWT middleware и graceful shutdown.
package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/jackc/pgx/v5/stdlib"

	"github.com/edulane/tutorboard/dashboard-module/internal/api/handlers"
	"github.com/edulane/tutorboard/dashboard-module/internal/api/middleware"
	"github.com/edulane/tutorboard/dashboard-module/internal/config"
	"github.com/edulane/tutorboard/dashboard-module/internal/database"
	"github.com/edulane/tutorboard/dashboard-module/internal/repository"
	"github.com/edulane/tutorboard/dashboard-module/internal/server"
	"github.com/edulane/tutorboard/dashboard-module/internal/service"
	"github.com/edulane/tutorboard/dashboard-module/internal/tutorclient"
)

func main() {
	// 1. Загрузка конфигурации из переменных окружения
	cfg, err := config.Load()
	if err != nil {
		slog.Error("Ошибка загрузки конфигурации", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// 2. Настройка логирования
	logger := config.SetupLogger(cfg)
	logger.Info("Dashboard Module запускается",
		slog.String("version", config.Version),
		slog.Int("port", cfg.Port),
	)

	if os.Getenv("DM_DEPHEALTH_GROUP") == "" {
		logger.Warn("DM_DEPHEALTH_GROUP не задана, используется значение по умолчанию",
			slog.String("default", cfg.DephealthGroup),
		)
	}

	// 3. Применение миграций БД
	logger.Info("Применение миграций БД...")
	if err := database.Migrate(cfg, logger); err != nil {
		logger.Error("Ошибка миграций БД", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// 4. Подключение к PostgreSQL (pgxpool)
	ctx := context.Background()
	pool, err := database.Connect(ctx, cfg, logger)
	if err != nil {
		logger.Error("Ошибка подключения к PostgreSQL", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer pool.Close()

	// 4.1 Адаптер pgxpool → *sql.DB для topologymetrics (connection pool mode).
	// Проверка здоровья PostgreSQL идёт через существующий пул соединений,
	// что позволяет обнаружить его исчерпание.
	pgDB := stdlib.OpenDBFromPool(pool)
	defer pgDB.Close()

	// 5. Клиент тьюторинг-сервиса
	tutorClient, err := tutorclient.New(
		cfg.TutorURL,
		cfg.TutorCACertPath,
		cfg.TutorTimeout,
		cfg.TutorClientID,
		cfg.TutorClientSecret,
		logger,
	)
	if err != nil {
		logger.Error("Ошибка создания клиента тьюторинг-сервиса", slog.String("error", err.Error()))
		os.Exit(1)
	}
	logger.Info("Клиент тьюторинг-сервиса создан", slog.String("url", cfg.TutorURL))

	// 6. Repositories
	linkRepo := repository.NewStudentLinkRepository(pool)

	// 7. Services: кэширующий слой над тьюторинг-сервисом + агрегация дашборда
	tutoringSvc := service.NewTutoringService(tutorClient, service.CacheSettings{
		MaxSize:         cfg.CacheMaxSize,
		Conversations:   cfg.StalenessConversations,
		Conversation:    cfg.StalenessConversation,
		Status:          cfg.StalenessStatus,
		Recommendations: cfg.StalenessRecommend,
		Analytics:       cfg.StalenessAnalytics,
		Insights:        cfg.StalenessInsights,
		Content:         cfg.StalenessContent,
	}, logger)
	dashboardSvc := service.NewDashboardService(linkRepo, tutoringSvc, logger)

	// 8. Readiness checkers (PostgreSQL + тьюторинг-сервис + IdP)
	pgChecker := database.NewReadinessChecker(pool)
	authChecker, err := middleware.NewAuthReadinessChecker(cfg.JWTJWKSURL, cfg.TutorCACertPath, cfg.JWKSClientTimeout)
	if err != nil {
		logger.Error("Ошибка создания readiness checker IdP", slog.String("error", err.Error()))
		os.Exit(1)
	}
	healthHandler := handlers.NewHealthHandler(pgChecker, tutorClient, authChecker, logger)

	// 9. API handler
	apiHandler := handlers.NewAPIHandler(healthHandler, tutoringSvc, dashboardSvc, logger)

	// 10. JWT middleware
	jwtAuth, err := middleware.NewJWTAuth(
		cfg.JWTJWKSURL,
		cfg.TutorCACertPath,
		cfg.JWTIssuer,
		cfg.JWKSClientTimeout,
		cfg.JWKSRefreshInterval,
		cfg.JWTLeeway,
		logger,
	)
	if err != nil {
		logger.Error("Ошибка создания JWT middleware", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer jwtAuth.Close()
	logger.Info("JWT middleware инициализирован",
		slog.String("jwks_url", cfg.JWTJWKSURL),
		slog.String("issuer", cfg.JWTIssuer),
	)

	// 11. topologymetrics — мониторинг зависимостей (PostgreSQL + тьюторинг-сервис)
	dephealthSvc, dephealthErr := service.NewDephealthService(
		"dashboard-module",
		cfg.DephealthGroup,
		pgDB,
		cfg.DatabaseURL(),
		cfg.TutorURL,
		cfg.DephealthCheckInterval,
		cfg.DephealthEntry,
		logger,
	)
	if dephealthErr != nil {
		logger.Warn("topologymetrics недоступен, запуск без мониторинга зависимостей",
			slog.String("error", dephealthErr.Error()),
		)
	} else {
		if startErr := dephealthSvc.Start(ctx); startErr != nil {
			logger.Warn("Ошибка запуска topologymetrics",
				slog.String("error", startErr.Error()),
			)
		} else {
			logger.Info("topologymetrics запущен",
				slog.String("group", cfg.DephealthGroup),
				slog.String("check_interval", cfg.DephealthCheckInterval.String()),
			)
		}
	}

	// 12. Создание и запуск HTTP-сервера.
	// Порядок middleware: метрики → логирование → JWT (health и metrics без аутентификации).
	srv := server.New(cfg, logger, apiHandler,
		middleware.MetricsMiddleware(),
		middleware.RequestLogger(logger),
		server.JWTAuthWithExclusions(jwtAuth.Middleware(), "/health/", "/metrics"),
	)
	if err := srv.Run(); err != nil {
		logger.Error("Ошибка сервера", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// 13. Graceful shutdown фоновых задач
	if dephealthSvc != nil {
		dephealthSvc.Stop()
	}

	logger.Info("Dashboard Module остановлен")
}

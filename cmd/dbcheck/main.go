// dbcheck — диагностическая утилита подключения к PostgreSQL.
// Проверяет доступность базы Dashboard Module: ping, список таблиц,
// наличие ожидаемых таблиц, версия сервера. Каждая проверка логирует
// результат и не прерывает остальные; отсутствие учётных данных —
// фатальная ошибка.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Таблицы, которые должны существовать после миграций.
var expectedTables = []string{"student_links", "schema_migrations"}

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))

	dsn, err := buildDSN()
	if err != nil {
		fmt.Fprintf(os.Stderr, "dbcheck: %v\n", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		fmt.Fprintf(os.Stderr, "dbcheck: создание пула соединений: %v\n", err)
		os.Exit(1)
	}
	defer pool.Close()

	// 1. Ping
	if err := pool.Ping(ctx); err != nil {
		logger.Error("Ping не прошёл", slog.String("error", err.Error()))
	} else {
		logger.Info("Ping успешен")
	}

	// 2. Список таблиц: information_schema, при ошибке — pg_tables
	tables, err := listTablesInformationSchema(ctx, pool)
	if err != nil {
		logger.Warn("information_schema недоступна, пробуем pg_tables",
			slog.String("error", err.Error()),
		)
		tables, err = listTablesPgTables(ctx, pool)
	}
	if err != nil {
		logger.Error("Не удалось получить список таблиц", slog.String("error", err.Error()))
	} else {
		logger.Info("Таблицы схемы public", slog.Int("count", len(tables)))
		for _, table := range tables {
			logger.Info("  таблица", slog.String("name", table))
		}

		// 3. Проверка ожидаемых таблиц
		found := make(map[string]bool, len(tables))
		for _, table := range tables {
			found[table] = true
		}
		for _, expected := range expectedTables {
			if found[expected] {
				logger.Info("Ожидаемая таблица найдена", slog.String("name", expected))
			} else {
				logger.Warn("Ожидаемая таблица отсутствует (миграции не применялись?)",
					slog.String("name", expected),
				)
			}
		}
	}

	// 4. Версия сервера
	var version string
	if err := pool.QueryRow(ctx, "SELECT version()").Scan(&version); err != nil {
		logger.Error("Не удалось получить версию сервера", slog.String("error", err.Error()))
	} else {
		logger.Info("Версия PostgreSQL", slog.String("version", version))
	}

	logger.Info("Диагностика завершена")
}

// buildDSN собирает строку подключения из переменных окружения DM_DB_*.
// Все учётные данные обязательны.
func buildDSN() (string, error) {
	host := os.Getenv("DM_DB_HOST")
	name := os.Getenv("DM_DB_NAME")
	user := os.Getenv("DM_DB_USER")
	password := os.Getenv("DM_DB_PASSWORD")
	if host == "" || name == "" || user == "" || password == "" {
		return "", fmt.Errorf("переменные DM_DB_HOST, DM_DB_NAME, DM_DB_USER и DM_DB_PASSWORD обязательны")
	}

	port := os.Getenv("DM_DB_PORT")
	if port == "" {
		port = "5432"
	}
	sslMode := os.Getenv("DM_DB_SSL_MODE")
	if sslMode == "" {
		sslMode = "disable"
	}

	return fmt.Sprintf(
		"host=%s port=%s dbname=%s user=%s password=%s sslmode=%s",
		host, port, name, user, password, sslMode,
	), nil
}

// listTablesInformationSchema возвращает таблицы схемы public через information_schema.
func listTablesInformationSchema(ctx context.Context, pool *pgxpool.Pool) ([]string, error) {
	rows, err := pool.Query(ctx,
		`SELECT table_name FROM information_schema.tables
		 WHERE table_schema = 'public' ORDER BY table_name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tables []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		tables = append(tables, name)
	}
	return tables, rows.Err()
}

// listTablesPgTables — запасной путь через системный каталог pg_tables.
func listTablesPgTables(ctx context.Context, pool *pgxpool.Pool) ([]string, error) {
	rows, err := pool.Query(ctx,
		`SELECT tablename FROM pg_tables WHERE schemaname = 'public' ORDER BY tablename`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tables []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		tables = append(tables, name)
	}
	return tables, rows.Err()
}

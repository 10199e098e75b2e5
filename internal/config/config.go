// Пакет config — загрузка и валидация конфигурации Dashboard Module
// из переменных окружения.
package config

import (
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"
)

// Версия приложения, задаётся при сборке через -ldflags.
var Version = "dev"

// Config содержит все параметры конфигурации Dashboard Module.
type Config struct {
	// --- Сервер ---

	// Порт HTTP-сервера (диапазон 8040-8049)
	Port int
	// Уровень логирования (debug, info, warn, error)
	LogLevel slog.Level
	// Формат логов (json, text)
	LogFormat string

	// --- PostgreSQL ---

	// Хост PostgreSQL
	DBHost string
	// Порт PostgreSQL
	DBPort int
	// Имя базы данных
	DBName string
	// Имя пользователя PostgreSQL
	DBUser string
	// Пароль пользователя PostgreSQL
	DBPassword string
	// Режим SSL: disable, require, verify-ca, verify-full
	DBSSLMode string

	// --- Тьюторинг-сервис ---

	// URL тьюторинг-сервиса (например, https://tutor.edulane.io)
	TutorURL string
	// Client ID для client_credentials grant
	TutorClientID string
	// Client Secret для client_credentials grant
	TutorClientSecret string
	// Таймаут HTTP-запросов к тьюторинг-сервису
	TutorTimeout time.Duration
	// Путь к CA-сертификату для TLS-соединений (опционально)
	TutorCACertPath string

	// --- JWT ---

	// Issuer JWT (авто-вычисляется из AuthURL, если не задан)
	JWTIssuer string
	// URL JWKS endpoint (авто-вычисляется из AuthURL, если не задан)
	JWTJWKSURL string
	// URL сервера аутентификации
	AuthURL string
	// Realm сервера аутентификации
	AuthRealm string

	// --- Кэш ---

	// Максимальное число записей в каждом кэше
	CacheMaxSize int
	// Окна свежести по неймспейсам кэша
	StalenessConversations time.Duration
	StalenessConversation  time.Duration
	StalenessStatus        time.Duration
	StalenessRecommend     time.Duration
	StalenessAnalytics     time.Duration
	StalenessInsights      time.Duration
	StalenessContent       time.Duration

	// --- Мониторинг зависимостей ---

	// Интервал проверки зависимостей topologymetrics
	DephealthCheckInterval time.Duration
	// Группа сервиса в графе зависимостей
	DephealthGroup string
	// Сервис является точкой входа (лейбл isentry=yes)
	DephealthEntry bool

	// --- JWKS ---

	// Таймаут HTTP-клиента JWKS
	JWKSClientTimeout time.Duration
	// Интервал фонового обновления JWKS-ключей
	JWKSRefreshInterval time.Duration
	// Допустимое отклонение времени при проверке JWT
	JWTLeeway time.Duration

	// --- HTTP-сервер ---

	// Таймаут чтения запроса
	HTTPReadTimeout time.Duration
	// Таймаут записи ответа
	HTTPWriteTimeout time.Duration
	// Таймаут keep-alive соединений
	HTTPIdleTimeout time.Duration
	// Таймаут graceful shutdown HTTP-сервера
	ShutdownTimeout time.Duration
}

// Load загружает конфигурацию из переменных окружения, валидирует
// обязательные поля и возвращает Config или ошибку.
func Load() (*Config, error) {
	cfg := &Config{}
	var err error

	// --- Сервер ---

	// DM_PORT — порт HTTP-сервера (по умолчанию 8040)
	cfg.Port, err = getEnvInt("DM_PORT", 8040)
	if err != nil {
		return nil, fmt.Errorf("DM_PORT: %w", err)
	}
	if cfg.Port < 8040 || cfg.Port > 8049 {
		return nil, fmt.Errorf("DM_PORT: значение %d вне допустимого диапазона 8040-8049", cfg.Port)
	}

	// DM_LOG_LEVEL — уровень логирования (по умолчанию info)
	cfg.LogLevel, err = parseLogLevel(getEnvDefault("DM_LOG_LEVEL", "info"))
	if err != nil {
		return nil, fmt.Errorf("DM_LOG_LEVEL: %w", err)
	}

	// DM_LOG_FORMAT — формат логов (по умолчанию json)
	cfg.LogFormat = getEnvDefault("DM_LOG_FORMAT", "json")
	if cfg.LogFormat != "json" && cfg.LogFormat != "text" {
		return nil, fmt.Errorf("DM_LOG_FORMAT: недопустимое значение %q, допустимые: json, text", cfg.LogFormat)
	}

	// --- PostgreSQL ---

	// DM_DB_HOST — обязательный
	cfg.DBHost, err = getEnvRequired("DM_DB_HOST")
	if err != nil {
		return nil, err
	}

	// DM_DB_PORT — порт PostgreSQL (по умолчанию 5432)
	cfg.DBPort, err = getEnvInt("DM_DB_PORT", 5432)
	if err != nil {
		return nil, fmt.Errorf("DM_DB_PORT: %w", err)
	}

	// DM_DB_NAME — обязательный
	cfg.DBName, err = getEnvRequired("DM_DB_NAME")
	if err != nil {
		return nil, err
	}

	// DM_DB_USER — обязательный
	cfg.DBUser, err = getEnvRequired("DM_DB_USER")
	if err != nil {
		return nil, err
	}

	// DM_DB_PASSWORD — обязательный
	cfg.DBPassword, err = getEnvRequired("DM_DB_PASSWORD")
	if err != nil {
		return nil, err
	}

	// DM_DB_SSL_MODE — режим SSL (по умолчанию disable)
	cfg.DBSSLMode = getEnvDefault("DM_DB_SSL_MODE", "disable")
	validSSLModes := map[string]bool{
		"disable": true, "require": true, "verify-ca": true, "verify-full": true,
	}
	if !validSSLModes[cfg.DBSSLMode] {
		return nil, fmt.Errorf("DM_DB_SSL_MODE: недопустимое значение %q, допустимые: disable, require, verify-ca, verify-full", cfg.DBSSLMode)
	}

	// --- Тьюторинг-сервис ---

	// DM_TUTOR_URL — обязательный
	cfg.TutorURL, err = getEnvRequired("DM_TUTOR_URL")
	if err != nil {
		return nil, err
	}
	cfg.TutorURL = strings.TrimRight(cfg.TutorURL, "/")

	// DM_TUTOR_CLIENT_ID — обязательный
	cfg.TutorClientID, err = getEnvRequired("DM_TUTOR_CLIENT_ID")
	if err != nil {
		return nil, err
	}

	// DM_TUTOR_CLIENT_SECRET — обязательный
	cfg.TutorClientSecret, err = getEnvRequired("DM_TUTOR_CLIENT_SECRET")
	if err != nil {
		return nil, err
	}

	// DM_TUTOR_TIMEOUT — таймаут запросов (по умолчанию 30s)
	cfg.TutorTimeout, err = getEnvDuration("DM_TUTOR_TIMEOUT", 30*time.Second)
	if err != nil {
		return nil, fmt.Errorf("DM_TUTOR_TIMEOUT: %w", err)
	}

	// DM_TUTOR_CA_CERT_PATH — путь к CA-сертификату (опционально)
	cfg.TutorCACertPath = getEnvDefault("DM_TUTOR_CA_CERT_PATH", "")

	// --- JWT ---

	// DM_AUTH_URL — URL сервера аутентификации (по умолчанию как TutorURL)
	cfg.AuthURL = strings.TrimRight(getEnvDefault("DM_AUTH_URL", cfg.TutorURL), "/")

	// DM_AUTH_REALM — realm (по умолчанию edulane)
	cfg.AuthRealm = getEnvDefault("DM_AUTH_REALM", "edulane")

	// DM_JWT_ISSUER — авто-вычисляется из AuthURL, если не задан
	cfg.JWTIssuer = getEnvDefault("DM_JWT_ISSUER",
		fmt.Sprintf("%s/realms/%s", cfg.AuthURL, cfg.AuthRealm))

	// DM_JWT_JWKS_URL — авто-вычисляется из AuthURL, если не задан
	cfg.JWTJWKSURL = getEnvDefault("DM_JWT_JWKS_URL",
		fmt.Sprintf("%s/realms/%s/protocol/openid-connect/certs", cfg.AuthURL, cfg.AuthRealm))

	// --- Кэш ---

	// DM_CACHE_MAX_SIZE — максимальный размер каждого кэша (по умолчанию 1024)
	cfg.CacheMaxSize, err = getEnvInt("DM_CACHE_MAX_SIZE", 1024)
	if err != nil {
		return nil, fmt.Errorf("DM_CACHE_MAX_SIZE: %w", err)
	}
	if cfg.CacheMaxSize < 1 {
		return nil, fmt.Errorf("DM_CACHE_MAX_SIZE: значение %d должно быть положительным", cfg.CacheMaxSize)
	}

	// Окна свежести по неймспейсам. Допустимый диапазон 1m-10m:
	// свежие данные (чат, статус) живут коротко, аналитика — дольше.
	staleness := []struct {
		env        string
		defaultVal time.Duration
		target     *time.Duration
	}{
		{"DM_STALENESS_CONVERSATIONS", time.Minute, &cfg.StalenessConversations},
		{"DM_STALENESS_CONVERSATION", time.Minute, &cfg.StalenessConversation},
		{"DM_STALENESS_STATUS", 2 * time.Minute, &cfg.StalenessStatus},
		{"DM_STALENESS_RECOMMENDATIONS", 5 * time.Minute, &cfg.StalenessRecommend},
		{"DM_STALENESS_ANALYTICS", 2 * time.Minute, &cfg.StalenessAnalytics},
		{"DM_STALENESS_INSIGHTS", 10 * time.Minute, &cfg.StalenessInsights},
		{"DM_STALENESS_CONTENT", 10 * time.Minute, &cfg.StalenessContent},
	}
	for _, s := range staleness {
		*s.target, err = getEnvDuration(s.env, s.defaultVal)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", s.env, err)
		}
		if *s.target < time.Minute || *s.target > 10*time.Minute {
			return nil, fmt.Errorf("%s: значение %s вне допустимого диапазона 1m-10m", s.env, *s.target)
		}
	}

	// --- Мониторинг зависимостей ---

	// DM_DEPHEALTH_CHECK_INTERVAL — интервал проверки зависимостей (по умолчанию 15s)
	cfg.DephealthCheckInterval, err = getEnvDuration("DM_DEPHEALTH_CHECK_INTERVAL", 15*time.Second)
	if err != nil {
		return nil, fmt.Errorf("DM_DEPHEALTH_CHECK_INTERVAL: %w", err)
	}

	// DM_DEPHEALTH_GROUP — группа в графе зависимостей (по умолчанию tutorboard)
	cfg.DephealthGroup = getEnvDefault("DM_DEPHEALTH_GROUP", "tutorboard")

	// DM_DEPHEALTH_ENTRY — модуль является точкой входа (по умолчанию true:
	// Dashboard Module принимает запросы от UI родителей)
	cfg.DephealthEntry, err = getEnvBool("DM_DEPHEALTH_ENTRY", true)
	if err != nil {
		return nil, fmt.Errorf("DM_DEPHEALTH_ENTRY: %w", err)
	}

	// --- JWKS ---

	// DM_JWKS_CLIENT_TIMEOUT — таймаут HTTP-клиента JWKS (по умолчанию 10s)
	cfg.JWKSClientTimeout, err = getEnvDuration("DM_JWKS_CLIENT_TIMEOUT", 10*time.Second)
	if err != nil {
		return nil, fmt.Errorf("DM_JWKS_CLIENT_TIMEOUT: %w", err)
	}

	// DM_JWKS_REFRESH_INTERVAL — интервал обновления ключей (по умолчанию 5m)
	cfg.JWKSRefreshInterval, err = getEnvDuration("DM_JWKS_REFRESH_INTERVAL", 5*time.Minute)
	if err != nil {
		return nil, fmt.Errorf("DM_JWKS_REFRESH_INTERVAL: %w", err)
	}

	// DM_JWT_LEEWAY — допуск рассинхронизации часов (по умолчанию 30s)
	cfg.JWTLeeway, err = getEnvDuration("DM_JWT_LEEWAY", 30*time.Second)
	if err != nil {
		return nil, fmt.Errorf("DM_JWT_LEEWAY: %w", err)
	}

	// --- HTTP-сервер ---

	// DM_HTTP_READ_TIMEOUT — таймаут чтения запроса (по умолчанию 10s)
	cfg.HTTPReadTimeout, err = getEnvDuration("DM_HTTP_READ_TIMEOUT", 10*time.Second)
	if err != nil {
		return nil, fmt.Errorf("DM_HTTP_READ_TIMEOUT: %w", err)
	}

	// DM_HTTP_WRITE_TIMEOUT — таймаут записи ответа (по умолчанию 30s)
	cfg.HTTPWriteTimeout, err = getEnvDuration("DM_HTTP_WRITE_TIMEOUT", 30*time.Second)
	if err != nil {
		return nil, fmt.Errorf("DM_HTTP_WRITE_TIMEOUT: %w", err)
	}

	// DM_HTTP_IDLE_TIMEOUT — таймаут keep-alive (по умолчанию 60s)
	cfg.HTTPIdleTimeout, err = getEnvDuration("DM_HTTP_IDLE_TIMEOUT", 60*time.Second)
	if err != nil {
		return nil, fmt.Errorf("DM_HTTP_IDLE_TIMEOUT: %w", err)
	}

	// DM_SHUTDOWN_TIMEOUT — таймаут graceful shutdown (по умолчанию 5s)
	cfg.ShutdownTimeout, err = getEnvDuration("DM_SHUTDOWN_TIMEOUT", 5*time.Second)
	if err != nil {
		return nil, fmt.Errorf("DM_SHUTDOWN_TIMEOUT: %w", err)
	}

	return cfg, nil
}

// DatabaseDSN возвращает строку подключения к PostgreSQL.
func (c *Config) DatabaseDSN() string {
	return fmt.Sprintf(
		"host=%s port=%d dbname=%s user=%s password=%s sslmode=%s",
		c.DBHost, c.DBPort, c.DBName, c.DBUser, c.DBPassword, c.DBSSLMode,
	)
}

// DatabaseURL возвращает URL-форму строки подключения (для topologymetrics).
func (c *Config) DatabaseURL() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		url.QueryEscape(c.DBUser), url.QueryEscape(c.DBPassword),
		c.DBHost, c.DBPort, c.DBName, c.DBSSLMode,
	)
}

// SetupLogger настраивает глобальный slog-логгер на основе конфигурации.
func SetupLogger(cfg *Config) *slog.Logger {
	opts := &slog.HandlerOptions{
		Level: cfg.LogLevel,
	}

	var handler slog.Handler
	if cfg.LogFormat == "json" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}

	logger := slog.New(handler)
	slog.SetDefault(logger)
	return logger
}

// --- Вспомогательные функции ---

// getEnvRequired возвращает значение переменной окружения или ошибку, если она не задана.
func getEnvRequired(key string) (string, error) {
	val := os.Getenv(key)
	if val == "" {
		return "", fmt.Errorf("%s: обязательная переменная окружения не задана", key)
	}
	return val, nil
}

// getEnvDefault возвращает значение переменной окружения или значение по умолчанию.
func getEnvDefault(key, defaultVal string) string {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	return val
}

// getEnvBool возвращает булево значение переменной окружения или значение по умолчанию.
func getEnvBool(key string, defaultVal bool) (bool, error) {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal, nil
	}
	b, err := strconv.ParseBool(val)
	if err != nil {
		return false, fmt.Errorf("некорректное булево значение: %q", val)
	}
	return b, nil
}

// getEnvInt возвращает целочисленное значение переменной окружения или значение по умолчанию.
func getEnvInt(key string, defaultVal int) (int, error) {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal, nil
	}
	n, err := strconv.Atoi(val)
	if err != nil {
		return 0, fmt.Errorf("некорректное целое число: %q", val)
	}
	return n, nil
}

// getEnvDuration возвращает time.Duration из переменной окружения или значение по умолчанию.
func getEnvDuration(key string, defaultVal time.Duration) (time.Duration, error) {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal, nil
	}
	d, err := time.ParseDuration(val)
	if err != nil {
		return 0, fmt.Errorf("некорректная длительность: %q (используйте формат Go: 30s, 1h, 15m)", val)
	}
	return d, nil
}

// parseLogLevel преобразует строку уровня логирования в slog.Level.
func parseLogLevel(level string) (slog.Level, error) {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("недопустимый уровень %q, допустимые: debug, info, warn, error", level)
	}
}

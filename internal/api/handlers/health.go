package handlers

import (
	"log/slog"
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/edulane/tutorboard/dashboard-module/internal/config"
)

// ReadinessChecker проверяет готовность внешней зависимости.
type ReadinessChecker interface {
	// CheckReady возвращает статус ("ok", "degraded", "fail") и сообщение.
	CheckReady() (status string, message string)
}

// HealthHandler — обработчик health и metrics endpoints.
type HealthHandler struct {
	pgChecker    ReadinessChecker
	tutorChecker ReadinessChecker
	authChecker  ReadinessChecker
	logger       *slog.Logger
}

// NewHealthHandler создаёт обработчик health endpoints.
func NewHealthHandler(pgChecker, tutorChecker, authChecker ReadinessChecker, logger *slog.Logger) *HealthHandler {
	return &HealthHandler{
		pgChecker:    pgChecker,
		tutorChecker: tutorChecker,
		authChecker:  authChecker,
		logger:       logger.With(slog.String("component", "health_handler")),
	}
}

// healthLiveResponse — ответ liveness probe.
type healthLiveResponse struct {
	Status  string `json:"status"`
	Service string `json:"service"`
	Version string `json:"version"`
}

// healthReadyResponse — ответ readiness probe.
type healthReadyResponse struct {
	Status  string            `json:"status"`
	Service string            `json:"service"`
	Version string            `json:"version"`
	Checks  healthReadyChecks `json:"checks"`
}

type healthReadyChecks struct {
	PostgreSQL      checkResult `json:"postgresql"`
	TutoringService checkResult `json:"tutoring_service"`
	Auth            checkResult `json:"auth"`
}

type checkResult struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}

// HealthLive — liveness probe. Всегда ok, если процесс жив.
func (h *HealthHandler) HealthLive(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, healthLiveResponse{
		Status:  "ok",
		Service: "dashboard-module",
		Version: config.Version,
	})
}

// HealthReady — readiness probe. Проверяет PostgreSQL и тьюторинг-сервис.
func (h *HealthHandler) HealthReady(w http.ResponseWriter, _ *http.Request) {
	pgStatus, pgMessage := h.pgChecker.CheckReady()
	tutorStatus, tutorMessage := h.tutorChecker.CheckReady()
	authStatus, authMessage := h.authChecker.CheckReady()

	overall := overallStatus(pgStatus, tutorStatus, authStatus)

	httpStatus := http.StatusOK
	if overall == "fail" {
		httpStatus = http.StatusServiceUnavailable
		h.logger.Warn("Readiness check failed",
			slog.String("postgresql", pgStatus),
			slog.String("tutoring_service", tutorStatus),
			slog.String("auth", authStatus),
		)
	}

	writeJSON(w, httpStatus, healthReadyResponse{
		Status:  overall,
		Service: "dashboard-module",
		Version: config.Version,
		Checks: healthReadyChecks{
			PostgreSQL:      checkResult{Status: pgStatus, Message: pgMessage},
			TutoringService: checkResult{Status: tutorStatus, Message: tutorMessage},
			Auth:            checkResult{Status: authStatus, Message: authMessage},
		},
	})
}

// overallStatus вычисляет общий статус по статусам зависимостей.
// fail любой зависимости — fail, иначе degraded при любом degraded.
func overallStatus(statuses ...string) string {
	overall := "ok"
	for _, s := range statuses {
		switch s {
		case "fail":
			return "fail"
		case "degraded":
			overall = "degraded"
		}
	}
	return overall
}

// GetMetrics отдаёт метрики Prometheus.
func (h *HealthHandler) GetMetrics(w http.ResponseWriter, r *http.Request) {
	promhttp.Handler().ServeHTTP(w, r)
}

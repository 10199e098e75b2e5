// handler.go — основной обработчик API Dashboard Module.
// Объединяет health и бизнес-обработчики, общие helpers
// сериализации и маппинга ошибок сервисного слоя в HTTP.
package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	apierrors "github.com/edulane/tutorboard/dashboard-module/internal/api/errors"
	"github.com/edulane/tutorboard/dashboard-module/internal/repository"
	"github.com/edulane/tutorboard/dashboard-module/internal/service"
	"github.com/edulane/tutorboard/dashboard-module/internal/tutorclient"
)

// APIHandler — основной обработчик API Dashboard Module.
// Делегирует запросы в сервисный слой.
type APIHandler struct {
	health    *HealthHandler
	tutoring  *service.TutoringService
	dashboard *service.DashboardService
	logger    *slog.Logger
}

// NewAPIHandler создаёт основной обработчик API.
func NewAPIHandler(
	health *HealthHandler,
	tutoring *service.TutoringService,
	dashboard *service.DashboardService,
	logger *slog.Logger,
) *APIHandler {
	return &APIHandler{
		health:    health,
		tutoring:  tutoring,
		dashboard: dashboard,
		logger:    logger.With(slog.String("component", "api_handler")),
	}
}

// --- Health endpoints (делегируются в HealthHandler) ---

// HealthLive — liveness probe.
func (h *APIHandler) HealthLive(w http.ResponseWriter, r *http.Request) {
	h.health.HealthLive(w, r)
}

// HealthReady — readiness probe.
func (h *APIHandler) HealthReady(w http.ResponseWriter, r *http.Request) {
	h.health.HealthReady(w, r)
}

// GetMetrics — Prometheus метрики.
func (h *APIHandler) GetMetrics(w http.ResponseWriter, r *http.Request) {
	h.health.GetMetrics(w, r)
}

// --- Вспомогательные функции ---

// writeJSON записывает JSON-ответ с указанным статусом.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

// writeServiceError маппит ошибку сервисного слоя в HTTP-ответ.
// Ошибки тьюторинг-сервиса пробрасываются с их code/message/details.
func (h *APIHandler) writeServiceError(w http.ResponseWriter, err error) {
	var apiErr *tutorclient.APIError
	switch {
	case errors.Is(err, service.ErrValidation):
		apierrors.ValidationError(w, err.Error())
	case errors.Is(err, service.ErrNotFound), errors.Is(err, repository.ErrNotFound):
		apierrors.NotFound(w, "Ресурс не найден")
	case errors.Is(err, service.ErrAccessDenied):
		apierrors.Forbidden(w, "Доступ к данным ученика не предоставлен")
	case errors.Is(err, repository.ErrConflict):
		apierrors.Conflict(w, err.Error())
	case errors.As(err, &apiErr):
		// Ошибка удалённого сервиса: код, сообщение и детали — как есть
		status := apiErr.StatusCode
		if status >= 500 {
			status = http.StatusBadGateway
		}
		apierrors.WriteErrorDetails(w, status, apiErr.Code, apiErr.Message, apiErr.Details)
	default:
		h.logger.Error("Внутренняя ошибка обработки запроса",
			slog.String("error", err.Error()),
		)
		apierrors.InternalError(w, "Внутренняя ошибка сервиса")
	}
}

// subjects.go — per-subject данные тьюторинг-сервиса и управляющие операции.
package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	apierrors "github.com/edulane/tutorboard/dashboard-module/internal/api/errors"
	"github.com/edulane/tutorboard/dashboard-module/internal/domain/model"
)

// subjectFromRequest извлекает и валидирует предмет из URL.
func subjectFromRequest(r *http.Request) (model.Subject, error) {
	subject := model.Subject(chi.URLParam(r, "subject"))
	if !subject.IsValid() {
		return "", fmt.Errorf("неизвестный предмет: %s", subject)
	}
	return subject, nil
}

// studentIDFromRequest извлекает обязательный query-параметр student_id.
func studentIDFromRequest(r *http.Request) (string, error) {
	studentID := r.URL.Query().Get("student_id")
	if studentID == "" {
		return "", fmt.Errorf("параметр student_id обязателен")
	}
	return studentID, nil
}

// GetSubjectStatus обрабатывает GET /api/v1/subjects/{subject}/status.
func (h *APIHandler) GetSubjectStatus(w http.ResponseWriter, r *http.Request) {
	subject, err := subjectFromRequest(r)
	if err != nil {
		apierrors.ValidationError(w, err.Error())
		return
	}
	studentID, err := studentIDFromRequest(r)
	if err != nil {
		apierrors.ValidationError(w, err.Error())
		return
	}

	status, err := h.tutoring.SubjectStatus(r.Context(), subject, studentID)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, status)
}

// GetRecommendations обрабатывает GET /api/v1/subjects/{subject}/recommendations.
func (h *APIHandler) GetRecommendations(w http.ResponseWriter, r *http.Request) {
	subject, err := subjectFromRequest(r)
	if err != nil {
		apierrors.ValidationError(w, err.Error())
		return
	}
	studentID, err := studentIDFromRequest(r)
	if err != nil {
		apierrors.ValidationError(w, err.Error())
		return
	}

	recommendations, err := h.tutoring.Recommendations(r.Context(), subject, studentID)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	if recommendations == nil {
		recommendations = []model.Recommendation{}
	}

	writeJSON(w, http.StatusOK, map[string]any{"recommendations": recommendations})
}

// GetAnalytics обрабатывает GET /api/v1/subjects/{subject}/analytics.
func (h *APIHandler) GetAnalytics(w http.ResponseWriter, r *http.Request) {
	subject, err := subjectFromRequest(r)
	if err != nil {
		apierrors.ValidationError(w, err.Error())
		return
	}
	studentID, err := studentIDFromRequest(r)
	if err != nil {
		apierrors.ValidationError(w, err.Error())
		return
	}

	analytics, err := h.tutoring.Analytics(r.Context(), subject, studentID)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, analytics)
}

// GetInsights обрабатывает GET /api/v1/subjects/{subject}/insights.
func (h *APIHandler) GetInsights(w http.ResponseWriter, r *http.Request) {
	subject, err := subjectFromRequest(r)
	if err != nil {
		apierrors.ValidationError(w, err.Error())
		return
	}
	studentID, err := studentIDFromRequest(r)
	if err != nil {
		apierrors.ValidationError(w, err.Error())
		return
	}

	insights, err := h.tutoring.Insights(r.Context(), subject, studentID)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	if insights == nil {
		insights = []model.Insight{}
	}

	writeJSON(w, http.StatusOK, map[string]any{"insights": insights})
}

// GetContentRecommendations обрабатывает
// GET /api/v1/subjects/{subject}/content-recommendations.
func (h *APIHandler) GetContentRecommendations(w http.ResponseWriter, r *http.Request) {
	subject, err := subjectFromRequest(r)
	if err != nil {
		apierrors.ValidationError(w, err.Error())
		return
	}
	studentID, err := studentIDFromRequest(r)
	if err != nil {
		apierrors.ValidationError(w, err.Error())
		return
	}

	content, err := h.tutoring.ContentRecommendations(r.Context(), subject, studentID)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	if content == nil {
		content = []model.ContentRecommendation{}
	}

	writeJSON(w, http.StatusOK, map[string]any{"content": content})
}

// AdjustDifficulty обрабатывает POST /api/v1/subjects/{subject}/difficulty.
func (h *APIHandler) AdjustDifficulty(w http.ResponseWriter, r *http.Request) {
	subject, err := subjectFromRequest(r)
	if err != nil {
		apierrors.ValidationError(w, err.Error())
		return
	}

	var adj model.DifficultyAdjustment
	if err := json.NewDecoder(r.Body).Decode(&adj); err != nil {
		apierrors.ValidationError(w, "Некорректное тело запроса")
		return
	}
	adj.Subject = subject

	if err := h.tutoring.AdjustDifficulty(r.Context(), adj); err != nil {
		h.writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "accepted"})
}

// SubmitFeedback обрабатывает POST /api/v1/subjects/{subject}/feedback.
func (h *APIHandler) SubmitFeedback(w http.ResponseWriter, r *http.Request) {
	subject, err := subjectFromRequest(r)
	if err != nil {
		apierrors.ValidationError(w, err.Error())
		return
	}

	var fb model.Feedback
	if err := json.NewDecoder(r.Body).Decode(&fb); err != nil {
		apierrors.ValidationError(w, "Некорректное тело запроса")
		return
	}
	fb.Subject = subject

	if err := h.tutoring.SubmitFeedback(r.Context(), fb); err != nil {
		h.writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "accepted"})
}

// AdaptContent обрабатывает POST /api/v1/subjects/{subject}/adapt.
func (h *APIHandler) AdaptContent(w http.ResponseWriter, r *http.Request) {
	subject, err := subjectFromRequest(r)
	if err != nil {
		apierrors.ValidationError(w, err.Error())
		return
	}

	var adaptation model.ContentAdaptation
	if err := json.NewDecoder(r.Body).Decode(&adaptation); err != nil {
		apierrors.ValidationError(w, "Некорректное тело запроса")
		return
	}
	adaptation.Subject = subject

	if err := h.tutoring.AdaptContent(r.Context(), adaptation); err != nil {
		h.writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "accepted"})
}

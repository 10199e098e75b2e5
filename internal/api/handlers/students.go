// students.go — управление связями родитель-ученик и дашборд.
package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	apierrors "github.com/edulane/tutorboard/dashboard-module/internal/api/errors"
	"github.com/edulane/tutorboard/dashboard-module/internal/api/middleware"
	"github.com/edulane/tutorboard/dashboard-module/internal/domain/model"
)

// studentLinkResponse — DTO связи родитель-ученик.
type studentLinkResponse struct {
	ID            string     `json:"id"`
	StudentID     string     `json:"student_id"`
	StudentName   string     `json:"student_name"`
	Grade         int        `json:"grade"`
	ExamDate      *time.Time `json:"exam_date,omitempty"`
	AccessGranted bool       `json:"access_granted"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

func toStudentLinkResponse(link *model.StudentLink) studentLinkResponse {
	return studentLinkResponse{
		ID:            link.ID,
		StudentID:     link.StudentID,
		StudentName:   link.StudentName,
		Grade:         link.Grade,
		ExamDate:      link.ExamDate,
		AccessGranted: link.AccessGranted,
		CreatedAt:     link.CreatedAt,
		UpdatedAt:     link.UpdatedAt,
	}
}

// linkStudentRequest — запрос привязки ученика.
type linkStudentRequest struct {
	StudentID     string     `json:"student_id"`
	StudentName   string     `json:"student_name"`
	Grade         int        `json:"grade"`
	ExamDate      *time.Time `json:"exam_date,omitempty"`
	AccessGranted bool       `json:"access_granted"`
}

// updateStudentLinkRequest — частичное обновление связи.
type updateStudentLinkRequest struct {
	StudentName   *string    `json:"student_name,omitempty"`
	Grade         *int       `json:"grade,omitempty"`
	ExamDate      *time.Time `json:"exam_date,omitempty"`
	AccessGranted *bool      `json:"access_granted,omitempty"`
}

// ListStudents обрабатывает GET /api/v1/students.
func (h *APIHandler) ListStudents(w http.ResponseWriter, r *http.Request) {
	parentID := middleware.SubjectFromContext(r.Context())

	links, err := h.dashboard.ListStudents(r.Context(), parentID)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}

	items := make([]studentLinkResponse, 0, len(links))
	for _, link := range links {
		items = append(items, toStudentLinkResponse(link))
	}
	writeJSON(w, http.StatusOK, map[string]any{"students": items})
}

// LinkStudent обрабатывает POST /api/v1/students.
func (h *APIHandler) LinkStudent(w http.ResponseWriter, r *http.Request) {
	parentID := middleware.SubjectFromContext(r.Context())

	var req linkStudentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apierrors.ValidationError(w, "Некорректное тело запроса")
		return
	}

	link := &model.StudentLink{
		ParentID:      parentID,
		StudentID:     req.StudentID,
		StudentName:   req.StudentName,
		Grade:         req.Grade,
		ExamDate:      req.ExamDate,
		AccessGranted: req.AccessGranted,
	}
	if err := h.dashboard.LinkStudent(r.Context(), link); err != nil {
		h.writeServiceError(w, err)
		return
	}

	h.logger.Info("Ученик привязан к родителю",
		slog.String("link_id", link.ID),
		slog.String("student_id", link.StudentID),
	)
	writeJSON(w, http.StatusCreated, toStudentLinkResponse(link))
}

// UpdateStudentLink обрабатывает PATCH /api/v1/students/{id}.
func (h *APIHandler) UpdateStudentLink(w http.ResponseWriter, r *http.Request) {
	parentID := middleware.SubjectFromContext(r.Context())
	linkID := chi.URLParam(r, "id")

	var req updateStudentLinkRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apierrors.ValidationError(w, "Некорректное тело запроса")
		return
	}

	link, err := h.dashboard.UpdateStudentLink(r.Context(), parentID, linkID, model.StudentLinkUpdate{
		StudentName:   req.StudentName,
		Grade:         req.Grade,
		ExamDate:      req.ExamDate,
		AccessGranted: req.AccessGranted,
	})
	if err != nil {
		h.writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toStudentLinkResponse(link))
}

// UnlinkStudent обрабатывает DELETE /api/v1/students/{id}.
func (h *APIHandler) UnlinkStudent(w http.ResponseWriter, r *http.Request) {
	parentID := middleware.SubjectFromContext(r.Context())
	linkID := chi.URLParam(r, "id")

	if err := h.dashboard.UnlinkStudent(r.Context(), parentID, linkID); err != nil {
		h.writeServiceError(w, err)
		return
	}

	h.logger.Info("Связь с учеником удалена", slog.String("link_id", linkID))
	w.WriteHeader(http.StatusNoContent)
}

// GetDashboard обрабатывает GET /api/v1/students/{id}/dashboard.
// {id} здесь — идентификатор ученика в тьюторинг-сервисе.
func (h *APIHandler) GetDashboard(w http.ResponseWriter, r *http.Request) {
	parentID := middleware.SubjectFromContext(r.Context())
	studentID := chi.URLParam(r, "id")

	dashboard, err := h.dashboard.Dashboard(r.Context(), parentID, studentID)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, dashboard)
}

// chat.go — проксирование чата с тьютором, подсказок и объяснений.
package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	apierrors "github.com/edulane/tutorboard/dashboard-module/internal/api/errors"
	"github.com/edulane/tutorboard/dashboard-module/internal/domain/model"
)

// SendChatMessage обрабатывает POST /api/v1/chat/messages.
func (h *APIHandler) SendChatMessage(w http.ResponseWriter, r *http.Request) {
	var req model.ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apierrors.ValidationError(w, "Некорректное тело запроса")
		return
	}

	resp, err := h.tutoring.SendChatMessage(r.Context(), req)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

// ListConversations обрабатывает GET /api/v1/conversations?student_id=...
func (h *APIHandler) ListConversations(w http.ResponseWriter, r *http.Request) {
	studentID := r.URL.Query().Get("student_id")
	if studentID == "" {
		apierrors.ValidationError(w, "Параметр student_id обязателен")
		return
	}

	conversations, err := h.tutoring.ListConversations(r.Context(), studentID)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	if conversations == nil {
		conversations = []model.Conversation{}
	}

	writeJSON(w, http.StatusOK, map[string]any{"conversations": conversations})
}

// GetConversation обрабатывает GET /api/v1/conversations/{id}.
func (h *APIHandler) GetConversation(w http.ResponseWriter, r *http.Request) {
	conversation, err := h.tutoring.GetConversation(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	if conversation == nil {
		apierrors.NotFound(w, "Диалог не найден")
		return
	}

	writeJSON(w, http.StatusOK, conversation)
}

// UpdateConversation обрабатывает PATCH /api/v1/conversations/{id}.
func (h *APIHandler) UpdateConversation(w http.ResponseWriter, r *http.Request) {
	studentID := r.URL.Query().Get("student_id")
	if studentID == "" {
		apierrors.ValidationError(w, "Параметр student_id обязателен")
		return
	}

	var update model.ConversationUpdate
	if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
		apierrors.ValidationError(w, "Некорректное тело запроса")
		return
	}

	conversation, err := h.tutoring.UpdateConversation(r.Context(), chi.URLParam(r, "id"), studentID, update)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, conversation)
}

// DeactivateConversation обрабатывает DELETE /api/v1/conversations/{id}.
func (h *APIHandler) DeactivateConversation(w http.ResponseWriter, r *http.Request) {
	studentID := r.URL.Query().Get("student_id")
	if studentID == "" {
		apierrors.ValidationError(w, "Параметр student_id обязателен")
		return
	}

	if err := h.tutoring.DeactivateConversation(r.Context(), chi.URLParam(r, "id"), studentID); err != nil {
		h.writeServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// GetHint обрабатывает POST /api/v1/hints.
func (h *APIHandler) GetHint(w http.ResponseWriter, r *http.Request) {
	var req model.HintRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apierrors.ValidationError(w, "Некорректное тело запроса")
		return
	}

	hint, err := h.tutoring.GetHint(r.Context(), req)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, hint)
}

// GetExplanation обрабатывает POST /api/v1/explanations.
func (h *APIHandler) GetExplanation(w http.ResponseWriter, r *http.Request) {
	var req model.ExplanationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apierrors.ValidationError(w, "Некорректное тело запроса")
		return
	}

	explanation, err := h.tutoring.GetExplanation(r.Context(), req)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, explanation)
}

package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/edulane/tutorboard/dashboard-module/internal/api/middleware"
	"github.com/edulane/tutorboard/dashboard-module/internal/domain/model"
	"github.com/edulane/tutorboard/dashboard-module/internal/repository"
	"github.com/edulane/tutorboard/dashboard-module/internal/service"
	"github.com/edulane/tutorboard/dashboard-module/internal/tutorclient"
)

// --- Стабы зависимостей ---

// fakeTutorClient — стаб удалённого тьюторинг-сервиса.
type fakeTutorClient struct {
	err error
}

func (c *fakeTutorClient) SendChat(_ context.Context, req model.ChatRequest) (*model.ChatResponse, error) {
	if c.err != nil {
		return nil, c.err
	}
	conversationID := req.ConversationID
	if conversationID == "" {
		conversationID = "conv-new"
	}
	return &model.ChatResponse{
		ConversationID: conversationID,
		Reply:          model.ChatMessage{Role: "tutor", Content: "Разберём по шагам."},
	}, nil
}

func (c *fakeTutorClient) ListConversations(_ context.Context, studentID string) ([]model.Conversation, error) {
	if c.err != nil {
		return nil, c.err
	}
	return []model.Conversation{{ID: "conv-1", Title: "Квадратные уравнения", Subject: model.SubjectMath, Active: true}}, nil
}

func (c *fakeTutorClient) GetConversation(_ context.Context, id string) (*model.Conversation, error) {
	if c.err != nil {
		return nil, c.err
	}
	return &model.Conversation{ID: id, Title: "Квадратные уравнения", Subject: model.SubjectMath, Active: true}, nil
}

func (c *fakeTutorClient) UpdateConversation(_ context.Context, id string, update model.ConversationUpdate) (*model.Conversation, error) {
	if c.err != nil {
		return nil, c.err
	}
	conversation := &model.Conversation{ID: id, Title: "Квадратные уравнения", Subject: model.SubjectMath, Active: true}
	if update.Title != nil {
		conversation.Title = *update.Title
	}
	return conversation, nil
}

func (c *fakeTutorClient) DeactivateConversation(_ context.Context, _ string) error {
	return c.err
}

func (c *fakeTutorClient) GetHint(_ context.Context, _ model.HintRequest) (*model.Hint, error) {
	if c.err != nil {
		return nil, c.err
	}
	return &model.Hint{Text: "Вынеси общий множитель", Level: 1}, nil
}

func (c *fakeTutorClient) GetExplanation(_ context.Context, _ model.ExplanationRequest) (*model.Explanation, error) {
	if c.err != nil {
		return nil, c.err
	}
	return &model.Explanation{Text: "Дискриминант показывает число корней"}, nil
}

func (c *fakeTutorClient) GetSubjectStatus(_ context.Context, subject model.Subject, _ string) (*model.SubjectStatus, error) {
	if c.err != nil {
		return nil, c.err
	}
	return &model.SubjectStatus{Subject: subject, Level: 4, Mastery: 62.5, ProblemsSolved: 120}, nil
}

func (c *fakeTutorClient) GetRecommendations(_ context.Context, subject model.Subject, _ string) ([]model.Recommendation, error) {
	if c.err != nil {
		return nil, c.err
	}
	return []model.Recommendation{{ID: "rec-1", Subject: subject, Topic: "Дроби", Priority: 1}}, nil
}

func (c *fakeTutorClient) GetAnalytics(_ context.Context, subject model.Subject, _ string) (*model.Analytics, error) {
	if c.err != nil {
		return nil, c.err
	}
	return &model.Analytics{Subject: subject, PracticeMinutes: 65, StreakDays: 4, WeeklyGoalProgress: 80}, nil
}

func (c *fakeTutorClient) GetInsights(_ context.Context, subject model.Subject, _ string) ([]model.Insight, error) {
	if c.err != nil {
		return nil, c.err
	}
	return []model.Insight{{ID: "ins-1", Subject: subject, Kind: "strength", Text: "Уверенно решает уравнения"}}, nil
}

func (c *fakeTutorClient) GetContentRecommendations(_ context.Context, subject model.Subject, _ string) ([]model.ContentRecommendation, error) {
	if c.err != nil {
		return nil, c.err
	}
	return []model.ContentRecommendation{{ID: "cnt-1", Subject: subject, Title: "Видео про дроби", ContentType: "video"}}, nil
}

func (c *fakeTutorClient) AdjustDifficulty(_ context.Context, _ model.DifficultyAdjustment) error {
	return c.err
}

func (c *fakeTutorClient) SubmitFeedback(_ context.Context, _ model.Feedback) error {
	return c.err
}

func (c *fakeTutorClient) AdaptContent(_ context.Context, _ model.ContentAdaptation) error {
	return c.err
}

// fakeLinkRepo — in-memory реализация репозитория связей.
type fakeLinkRepo struct {
	links map[string]*model.StudentLink
}

func newFakeLinkRepo() *fakeLinkRepo {
	return &fakeLinkRepo{links: make(map[string]*model.StudentLink)}
}

func (r *fakeLinkRepo) Create(_ context.Context, link *model.StudentLink) error {
	for _, existing := range r.links {
		if existing.ParentID == link.ParentID && existing.StudentID == link.StudentID {
			return repository.ErrConflict
		}
	}
	link.CreatedAt = time.Now().UTC()
	link.UpdatedAt = link.CreatedAt
	cp := *link
	r.links[link.ID] = &cp
	return nil
}

func (r *fakeLinkRepo) GetByID(_ context.Context, id string) (*model.StudentLink, error) {
	link, ok := r.links[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *link
	return &cp, nil
}

func (r *fakeLinkRepo) GetByParentAndStudent(_ context.Context, parentID, studentID string) (*model.StudentLink, error) {
	for _, link := range r.links {
		if link.ParentID == parentID && link.StudentID == studentID {
			cp := *link
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *fakeLinkRepo) ListByParent(_ context.Context, parentID string) ([]*model.StudentLink, error) {
	var result []*model.StudentLink
	for _, link := range r.links {
		if link.ParentID == parentID {
			cp := *link
			result = append(result, &cp)
		}
	}
	return result, nil
}

func (r *fakeLinkRepo) Update(_ context.Context, link *model.StudentLink) error {
	if _, ok := r.links[link.ID]; !ok {
		return repository.ErrNotFound
	}
	cp := *link
	cp.UpdatedAt = time.Now().UTC()
	r.links[link.ID] = &cp
	return nil
}

func (r *fakeLinkRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.links[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.links, id)
	return nil
}

func (r *fakeLinkRepo) Count(_ context.Context, parentID string) (int, error) {
	count := 0
	for _, link := range r.links {
		if link.ParentID == parentID {
			count++
		}
	}
	return count, nil
}

// --- Тестовая обвязка ---

func testHandlerLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testCacheSettings() service.CacheSettings {
	return service.CacheSettings{
		MaxSize:         64,
		Conversations:   time.Minute,
		Conversation:    time.Minute,
		Status:          2 * time.Minute,
		Recommendations: 5 * time.Minute,
		Analytics:       2 * time.Minute,
		Insights:        10 * time.Minute,
		Content:         10 * time.Minute,
	}
}

type testEnv struct {
	handler *APIHandler
	client  *fakeTutorClient
	repo    *fakeLinkRepo
	router  *chi.Mux
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	logger := testHandlerLogger()
	client := &fakeTutorClient{}
	repo := newFakeLinkRepo()

	tutoring := service.NewTutoringService(client, testCacheSettings(), logger)
	dashboard := service.NewDashboardService(repo, tutoring, logger)
	handler := NewAPIHandler(nil, tutoring, dashboard, logger)

	r := chi.NewRouter()
	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/students", handler.ListStudents)
		r.Post("/students", handler.LinkStudent)
		r.Patch("/students/{id}", handler.UpdateStudentLink)
		r.Delete("/students/{id}", handler.UnlinkStudent)
		r.Get("/students/{id}/dashboard", handler.GetDashboard)

		r.Post("/chat/messages", handler.SendChatMessage)
		r.Get("/conversations", handler.ListConversations)
		r.Get("/conversations/{id}", handler.GetConversation)
		r.Patch("/conversations/{id}", handler.UpdateConversation)
		r.Delete("/conversations/{id}", handler.DeactivateConversation)
		r.Post("/hints", handler.GetHint)
		r.Post("/explanations", handler.GetExplanation)

		r.Route("/subjects/{subject}", func(r chi.Router) {
			r.Get("/status", handler.GetSubjectStatus)
			r.Get("/recommendations", handler.GetRecommendations)
			r.Get("/analytics", handler.GetAnalytics)
			r.Get("/insights", handler.GetInsights)
			r.Get("/content-recommendations", handler.GetContentRecommendations)
			r.Post("/difficulty", handler.AdjustDifficulty)
			r.Post("/feedback", handler.SubmitFeedback)
			r.Post("/adapt", handler.AdaptContent)
		})
	})

	return &testEnv{handler: handler, client: client, repo: repo, router: r}
}

// doRequest выполняет запрос от имени родителя parentID.
func (e *testEnv) doRequest(t *testing.T, method, target, parentID string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("сериализация тела запроса: %v", err)
		}
		reader = bytes.NewReader(data)
	}

	req := httptest.NewRequest(method, target, reader)
	if parentID != "" {
		claims := &middleware.AuthClaims{Subject: parentID, PreferredUsername: "parent"}
		req = req.WithContext(context.WithValue(req.Context(), middleware.ContextKeyClaims, claims))
	}

	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, target any) {
	t.Helper()
	if err := json.NewDecoder(rec.Body).Decode(target); err != nil {
		t.Fatalf("декодирование ответа: %v", err)
	}
}

// seedLink создаёт связь родителя с учеником напрямую в репозитории.
func (e *testEnv) seedLink(t *testing.T, parentID, studentID string, accessGranted bool) *model.StudentLink {
	t.Helper()
	link := &model.StudentLink{
		ID:            uuid.New().String(),
		ParentID:      parentID,
		StudentID:     studentID,
		StudentName:   "Аня",
		Grade:         9,
		AccessGranted: accessGranted,
	}
	if err := e.repo.Create(context.Background(), link); err != nil {
		t.Fatalf("создание связи: %v", err)
	}
	return link
}

// --- Students ---

func TestLinkStudent(t *testing.T) {
	env := newTestEnv(t)

	rec := env.doRequest(t, http.MethodPost, "/api/v1/students", "parent-1", map[string]any{
		"student_id":     "s-1",
		"student_name":   "Аня",
		"grade":          9,
		"access_granted": true,
	})

	if rec.Code != http.StatusCreated {
		t.Fatalf("ожидали 201, получили %d: %s", rec.Code, rec.Body.String())
	}

	var resp studentLinkResponse
	decodeBody(t, rec, &resp)
	if resp.ID == "" {
		t.Error("в ответе нет id созданной связи")
	}
	if resp.StudentID != "s-1" || !resp.AccessGranted {
		t.Errorf("неожиданный ответ: %+v", resp)
	}
}

func TestLinkStudent_Validation(t *testing.T) {
	env := newTestEnv(t)

	rec := env.doRequest(t, http.MethodPost, "/api/v1/students", "parent-1", map[string]any{
		"student_name": "Аня",
	})

	if rec.Code != http.StatusBadRequest {
		t.Errorf("ожидали 400, получили %d", rec.Code)
	}
}

func TestLinkStudent_Duplicate(t *testing.T) {
	env := newTestEnv(t)
	env.seedLink(t, "parent-1", "s-1", true)

	rec := env.doRequest(t, http.MethodPost, "/api/v1/students", "parent-1", map[string]any{
		"student_id":   "s-1",
		"student_name": "Аня",
	})

	if rec.Code != http.StatusConflict {
		t.Errorf("ожидали 409, получили %d", rec.Code)
	}
}

func TestListStudents(t *testing.T) {
	env := newTestEnv(t)
	env.seedLink(t, "parent-1", "s-1", true)
	env.seedLink(t, "parent-2", "s-2", true)

	rec := env.doRequest(t, http.MethodGet, "/api/v1/students", "parent-1", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("ожидали 200, получили %d", rec.Code)
	}

	var resp struct {
		Students []studentLinkResponse `json:"students"`
	}
	decodeBody(t, rec, &resp)
	if len(resp.Students) != 1 {
		t.Fatalf("ожидали 1 ученика, получили %d", len(resp.Students))
	}
	if resp.Students[0].StudentID != "s-1" {
		t.Errorf("чужой ученик в списке: %+v", resp.Students[0])
	}
}

func TestUpdateStudentLink(t *testing.T) {
	env := newTestEnv(t)
	link := env.seedLink(t, "parent-1", "s-1", true)

	rec := env.doRequest(t, http.MethodPatch, "/api/v1/students/"+link.ID, "parent-1", map[string]any{
		"access_granted": false,
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("ожидали 200, получили %d: %s", rec.Code, rec.Body.String())
	}

	var resp studentLinkResponse
	decodeBody(t, rec, &resp)
	if resp.AccessGranted {
		t.Error("доступ должен быть отозван")
	}
	if resp.StudentName != "Аня" {
		t.Errorf("имя не должно меняться, получили %q", resp.StudentName)
	}
}

func TestUpdateStudentLink_ForeignParent(t *testing.T) {
	env := newTestEnv(t)
	link := env.seedLink(t, "parent-1", "s-1", true)

	rec := env.doRequest(t, http.MethodPatch, "/api/v1/students/"+link.ID, "parent-2", map[string]any{
		"student_name": "Другое имя",
	})
	if rec.Code != http.StatusForbidden {
		t.Errorf("ожидали 403, получили %d", rec.Code)
	}
}

func TestUnlinkStudent(t *testing.T) {
	env := newTestEnv(t)
	link := env.seedLink(t, "parent-1", "s-1", true)

	rec := env.doRequest(t, http.MethodDelete, "/api/v1/students/"+link.ID, "parent-1", nil)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("ожидали 204, получили %d", rec.Code)
	}

	rec = env.doRequest(t, http.MethodDelete, "/api/v1/students/"+link.ID, "parent-1", nil)
	if rec.Code != http.StatusNotFound {
		t.Errorf("повторное удаление: ожидали 404, получили %d", rec.Code)
	}
}

// --- Dashboard ---

func TestGetDashboard(t *testing.T) {
	env := newTestEnv(t)
	env.seedLink(t, "parent-1", "s-1", true)

	rec := env.doRequest(t, http.MethodGet, "/api/v1/students/s-1/dashboard", "parent-1", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("ожидали 200, получили %d: %s", rec.Code, rec.Body.String())
	}

	var dashboard model.Dashboard
	decodeBody(t, rec, &dashboard)
	if dashboard.StudentName != "Аня" {
		t.Errorf("имя ученика: ожидали Аня, получили %q", dashboard.StudentName)
	}
	if len(dashboard.Subjects) != len(model.AllSubjects()) {
		t.Errorf("ожидали %d предметов, получили %d", len(model.AllSubjects()), len(dashboard.Subjects))
	}
	for _, subject := range dashboard.Subjects {
		if subject.PracticeTime != "1h 5m" {
			t.Errorf("время практики по %s: ожидали 1h 5m, получили %q", subject.Subject, subject.PracticeTime)
		}
	}
	if dashboard.Engagement.StreakTier != "silver" {
		t.Errorf("серия: ожидали silver, получили %q", dashboard.Engagement.StreakTier)
	}
}

func TestGetDashboard_NoLink(t *testing.T) {
	env := newTestEnv(t)

	rec := env.doRequest(t, http.MethodGet, "/api/v1/students/s-1/dashboard", "parent-1", nil)
	if rec.Code != http.StatusNotFound {
		t.Errorf("ожидали 404, получили %d", rec.Code)
	}
}

func TestGetDashboard_AccessRevoked(t *testing.T) {
	env := newTestEnv(t)
	env.seedLink(t, "parent-1", "s-1", false)

	rec := env.doRequest(t, http.MethodGet, "/api/v1/students/s-1/dashboard", "parent-1", nil)
	if rec.Code != http.StatusForbidden {
		t.Errorf("ожидали 403, получили %d", rec.Code)
	}
}

// --- Chat ---

func TestSendChatMessage(t *testing.T) {
	env := newTestEnv(t)

	rec := env.doRequest(t, http.MethodPost, "/api/v1/chat/messages", "parent-1", map[string]any{
		"subject":    "math",
		"message":    "Как решать квадратные уравнения?",
		"student_id": "s-1",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("ожидали 200, получили %d: %s", rec.Code, rec.Body.String())
	}

	var resp model.ChatResponse
	decodeBody(t, rec, &resp)
	if resp.ConversationID != "conv-new" {
		t.Errorf("conversation_id: ожидали conv-new, получили %q", resp.ConversationID)
	}
	if resp.Reply.Content == "" {
		t.Error("пустой ответ тьютора")
	}
}

func TestSendChatMessage_EmptyMessage(t *testing.T) {
	env := newTestEnv(t)

	rec := env.doRequest(t, http.MethodPost, "/api/v1/chat/messages", "parent-1", map[string]any{
		"subject":    "math",
		"student_id": "s-1",
	})
	if rec.Code != http.StatusBadRequest {
		t.Errorf("ожидали 400, получили %d", rec.Code)
	}
}

func TestListConversations_RequiresStudentID(t *testing.T) {
	env := newTestEnv(t)

	rec := env.doRequest(t, http.MethodGet, "/api/v1/conversations", "parent-1", nil)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("ожидали 400, получили %d", rec.Code)
	}
}

func TestGetConversation(t *testing.T) {
	env := newTestEnv(t)

	rec := env.doRequest(t, http.MethodGet, "/api/v1/conversations/conv-1", "parent-1", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("ожидали 200, получили %d", rec.Code)
	}

	var conversation model.Conversation
	decodeBody(t, rec, &conversation)
	if conversation.ID != "conv-1" {
		t.Errorf("id диалога: ожидали conv-1, получили %q", conversation.ID)
	}
}

func TestGetHint(t *testing.T) {
	env := newTestEnv(t)

	rec := env.doRequest(t, http.MethodPost, "/api/v1/hints", "parent-1", map[string]any{
		"subject":    "math",
		"problem_id": "p-1",
		"student_id": "s-1",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("ожидали 200, получили %d", rec.Code)
	}

	var hint model.Hint
	decodeBody(t, rec, &hint)
	if hint.Text == "" || hint.Level != 1 {
		t.Errorf("неожиданная подсказка: %+v", hint)
	}
}

// --- Subjects ---

func TestGetSubjectStatus(t *testing.T) {
	env := newTestEnv(t)

	rec := env.doRequest(t, http.MethodGet, "/api/v1/subjects/math/status?student_id=s-1", "parent-1", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("ожидали 200, получили %d: %s", rec.Code, rec.Body.String())
	}

	var status model.SubjectStatus
	decodeBody(t, rec, &status)
	if status.Subject != model.SubjectMath || status.Level != 4 {
		t.Errorf("неожиданный статус: %+v", status)
	}
}

func TestGetSubjectStatus_UnknownSubject(t *testing.T) {
	env := newTestEnv(t)

	rec := env.doRequest(t, http.MethodGet, "/api/v1/subjects/physics/status?student_id=s-1", "parent-1", nil)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("ожидали 400, получили %d", rec.Code)
	}
}

func TestGetSubjectStatus_RequiresStudentID(t *testing.T) {
	env := newTestEnv(t)

	rec := env.doRequest(t, http.MethodGet, "/api/v1/subjects/math/status", "parent-1", nil)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("ожидали 400, получили %d", rec.Code)
	}
}

func TestAdjustDifficulty(t *testing.T) {
	env := newTestEnv(t)

	rec := env.doRequest(t, http.MethodPost, "/api/v1/subjects/math/difficulty", "parent-1", map[string]any{
		"student_id": "s-1",
		"direction":  "easier",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("ожидали 200, получили %d: %s", rec.Code, rec.Body.String())
	}
}

func TestGetRecommendations(t *testing.T) {
	env := newTestEnv(t)

	rec := env.doRequest(t, http.MethodGet, "/api/v1/subjects/essay/recommendations?student_id=s-1", "parent-1", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("ожидали 200, получили %d", rec.Code)
	}

	var resp struct {
		Recommendations []model.Recommendation `json:"recommendations"`
	}
	decodeBody(t, rec, &resp)
	if len(resp.Recommendations) != 1 {
		t.Errorf("ожидали 1 рекомендацию, получили %d", len(resp.Recommendations))
	}
}

// --- Проброс ошибок удалённого сервиса ---

func TestRemoteAPIErrorPassthrough(t *testing.T) {
	env := newTestEnv(t)
	env.client.err = &tutorclient.APIError{
		StatusCode: http.StatusTooManyRequests,
		Code:       "RATE_LIMITED",
		Message:    "Слишком много запросов",
	}

	rec := env.doRequest(t, http.MethodGet, "/api/v1/subjects/math/status?student_id=s-1", "parent-1", nil)
	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("ожидали 429, получили %d", rec.Code)
	}

	var resp struct {
		Error struct {
			Code    string `json:"code"`
			Message string `json:"message"`
		} `json:"error"`
	}
	decodeBody(t, rec, &resp)
	if resp.Error.Code != "RATE_LIMITED" {
		t.Errorf("код ошибки: ожидали RATE_LIMITED, получили %q", resp.Error.Code)
	}
}

func TestRemoteServerErrorMapsToBadGateway(t *testing.T) {
	env := newTestEnv(t)
	env.client.err = &tutorclient.APIError{
		StatusCode: http.StatusInternalServerError,
		Code:       "UPSTREAM_ERROR",
		Message:    "внутренняя ошибка",
	}

	rec := env.doRequest(t, http.MethodGet, "/api/v1/subjects/math/analytics?student_id=s-1", "parent-1", nil)
	if rec.Code != http.StatusBadGateway {
		t.Errorf("ожидали 502, получили %d", rec.Code)
	}
}

func TestInternalErrorHidesDetails(t *testing.T) {
	env := newTestEnv(t)
	env.client.err = errors.New("connection refused")

	rec := env.doRequest(t, http.MethodGet, "/api/v1/subjects/math/status?student_id=s-1", "parent-1", nil)
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("ожидали 500, получили %d", rec.Code)
	}

	var resp struct {
		Error struct {
			Code    string `json:"code"`
			Message string `json:"message"`
		} `json:"error"`
	}
	decodeBody(t, rec, &resp)
	if resp.Error.Code != "INTERNAL_ERROR" {
		t.Errorf("код ошибки: ожидали INTERNAL_ERROR, получили %q", resp.Error.Code)
	}
	if resp.Error.Message == "connection refused" {
		t.Error("внутренняя ошибка не должна раскрываться клиенту")
	}
}

// --- Health ---

type stubChecker struct {
	status  string
	message string
}

func (c stubChecker) CheckReady() (string, string) { return c.status, c.message }

func TestHealthLive(t *testing.T) {
	h := NewHealthHandler(stubChecker{status: "ok"}, stubChecker{status: "ok"}, stubChecker{status: "ok"}, testHandlerLogger())

	rec := httptest.NewRecorder()
	h.HealthLive(rec, httptest.NewRequest(http.MethodGet, "/health/live", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("ожидали 200, получили %d", rec.Code)
	}

	var resp healthLiveResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("декодирование ответа: %v", err)
	}
	if resp.Status != "ok" || resp.Service != "dashboard-module" {
		t.Errorf("неожиданный ответ: %+v", resp)
	}
}

func TestHealthReady(t *testing.T) {
	tests := []struct {
		name       string
		pg         stubChecker
		tutor      stubChecker
		auth       stubChecker
		wantStatus string
		wantCode   int
	}{
		{"все зависимости доступны", stubChecker{status: "ok"}, stubChecker{status: "ok"}, stubChecker{status: "ok"}, "ok", http.StatusOK},
		{"тьюторинг деградирован", stubChecker{status: "ok"}, stubChecker{status: "degraded", message: "медленный ответ"}, stubChecker{status: "ok"}, "degraded", http.StatusOK},
		{"база недоступна", stubChecker{status: "fail", message: "connection refused"}, stubChecker{status: "ok"}, stubChecker{status: "ok"}, "fail", http.StatusServiceUnavailable},
		{"IdP без ключей", stubChecker{status: "ok"}, stubChecker{status: "ok"}, stubChecker{status: "degraded", message: "JWKS: нет ключей"}, "degraded", http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewHealthHandler(tt.pg, tt.tutor, tt.auth, testHandlerLogger())

			rec := httptest.NewRecorder()
			h.HealthReady(rec, httptest.NewRequest(http.MethodGet, "/health/ready", nil))

			if rec.Code != tt.wantCode {
				t.Errorf("HTTP-код: ожидали %d, получили %d", tt.wantCode, rec.Code)
			}

			var resp healthReadyResponse
			if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
				t.Fatalf("декодирование ответа: %v", err)
			}
			if resp.Status != tt.wantStatus {
				t.Errorf("статус: ожидали %q, получили %q", tt.wantStatus, resp.Status)
			}
		})
	}
}

package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/edulane/tutorboard/dashboard-module/internal/domain/model"
)

// TutorClient — интерфейс HTTP-клиента тьюторинг-сервиса.
// Реализуется tutorclient.Client; в тестах подменяется моком.
type TutorClient interface {
	SendChat(ctx context.Context, req model.ChatRequest) (*model.ChatResponse, error)
	ListConversations(ctx context.Context, studentID string) ([]model.Conversation, error)
	GetConversation(ctx context.Context, id string) (*model.Conversation, error)
	UpdateConversation(ctx context.Context, id string, update model.ConversationUpdate) (*model.Conversation, error)
	DeactivateConversation(ctx context.Context, id string) error
	GetHint(ctx context.Context, req model.HintRequest) (*model.Hint, error)
	GetExplanation(ctx context.Context, req model.ExplanationRequest) (*model.Explanation, error)
	GetSubjectStatus(ctx context.Context, subject model.Subject, studentID string) (*model.SubjectStatus, error)
	GetRecommendations(ctx context.Context, subject model.Subject, studentID string) ([]model.Recommendation, error)
	GetAnalytics(ctx context.Context, subject model.Subject, studentID string) (*model.Analytics, error)
	GetInsights(ctx context.Context, subject model.Subject, studentID string) ([]model.Insight, error)
	GetContentRecommendations(ctx context.Context, subject model.Subject, studentID string) ([]model.ContentRecommendation, error)
	AdjustDifficulty(ctx context.Context, adj model.DifficultyAdjustment) error
	SubmitFeedback(ctx context.Context, fb model.Feedback) error
	AdaptContent(ctx context.Context, adaptation model.ContentAdaptation) error
}

// CacheSettings — размер и окна свежести кэшей по неймспейсам.
type CacheSettings struct {
	MaxSize         int
	Conversations   time.Duration
	Conversation    time.Duration
	Status          time.Duration
	Recommendations time.Duration
	Analytics       time.Duration
	Insights        time.Duration
	Content         time.Duration
}

// TutoringService — кэширующий слой над тьюторинг-сервисом.
// Чтения идут через кэши с окнами свежести; записи при подтверждённом
// успехе инвалидируют затронутые ключи. Ошибки сервиса не кэшируются
// и не ретраятся — передаются вызывающему как есть.
type TutoringService struct {
	client TutorClient
	logger *slog.Logger

	conversationsCache *Cache[[]model.Conversation]
	conversationCache  *Cache[*model.Conversation]
	statusCache        *Cache[*model.SubjectStatus]
	recommendCache     *Cache[[]model.Recommendation]
	analyticsCache     *Cache[*model.Analytics]
	insightsCache      *Cache[[]model.Insight]
	contentCache       *Cache[[]model.ContentRecommendation]
}

// NewTutoringService создаёт сервис с кэшами по неймспейсам.
func NewTutoringService(client TutorClient, settings CacheSettings, logger *slog.Logger) *TutoringService {
	return &TutoringService{
		client: client,
		logger: logger.With(slog.String("component", "tutoring_service")),

		conversationsCache: NewCache[[]model.Conversation]("conversations", settings.MaxSize, settings.Conversations),
		conversationCache:  NewCache[*model.Conversation]("conversation", settings.MaxSize, settings.Conversation),
		statusCache:        NewCache[*model.SubjectStatus]("status", settings.MaxSize, settings.Status),
		recommendCache:     NewCache[[]model.Recommendation]("recommendations", settings.MaxSize, settings.Recommendations),
		analyticsCache:     NewCache[*model.Analytics]("analytics", settings.MaxSize, settings.Analytics),
		insightsCache:      NewCache[[]model.Insight]("insights", settings.MaxSize, settings.Insights),
		contentCache:       NewCache[[]model.ContentRecommendation]("content_recommendations", settings.MaxSize, settings.Content),
	}
}

// --- Чтения (кэшируемые) ---

// ListConversations возвращает диалоги ученика.
func (s *TutoringService) ListConversations(ctx context.Context, studentID string) ([]model.Conversation, error) {
	return s.conversationsCache.GetOrFetch(ctx, K("conversations", studentID),
		func(ctx context.Context) ([]model.Conversation, error) {
			return s.client.ListConversations(ctx, studentID)
		})
}

// GetConversation возвращает диалог по ID.
// Пустой ID — инертное чтение: нет запроса, нет данных, нет ошибки.
func (s *TutoringService) GetConversation(ctx context.Context, id string) (*model.Conversation, error) {
	if id == "" {
		return nil, nil
	}
	return s.conversationCache.GetOrFetch(ctx, K("conversation", id),
		func(ctx context.Context) (*model.Conversation, error) {
			return s.client.GetConversation(ctx, id)
		})
}

// SubjectStatus возвращает состояние ученика по предмету.
func (s *TutoringService) SubjectStatus(ctx context.Context, subject model.Subject, studentID string) (*model.SubjectStatus, error) {
	if !subject.IsValid() {
		return nil, fmt.Errorf("%w: неизвестный предмет %q", ErrValidation, subject)
	}
	return s.statusCache.GetOrFetch(ctx, K("status", subject.String(), studentID),
		func(ctx context.Context) (*model.SubjectStatus, error) {
			return s.client.GetSubjectStatus(ctx, subject, studentID)
		})
}

// Recommendations возвращает рекомендации по предмету.
func (s *TutoringService) Recommendations(ctx context.Context, subject model.Subject, studentID string) ([]model.Recommendation, error) {
	if !subject.IsValid() {
		return nil, fmt.Errorf("%w: неизвестный предмет %q", ErrValidation, subject)
	}
	return s.recommendCache.GetOrFetch(ctx, K("recommendations", subject.String(), studentID),
		func(ctx context.Context) ([]model.Recommendation, error) {
			return s.client.GetRecommendations(ctx, subject, studentID)
		})
}

// Analytics возвращает метрики вовлечённости по предмету.
func (s *TutoringService) Analytics(ctx context.Context, subject model.Subject, studentID string) (*model.Analytics, error) {
	if !subject.IsValid() {
		return nil, fmt.Errorf("%w: неизвестный предмет %q", ErrValidation, subject)
	}
	return s.analyticsCache.GetOrFetch(ctx, K("analytics", subject.String(), studentID),
		func(ctx context.Context) (*model.Analytics, error) {
			return s.client.GetAnalytics(ctx, subject, studentID)
		})
}

// Insights возвращает наблюдения по предмету.
func (s *TutoringService) Insights(ctx context.Context, subject model.Subject, studentID string) ([]model.Insight, error) {
	if !subject.IsValid() {
		return nil, fmt.Errorf("%w: неизвестный предмет %q", ErrValidation, subject)
	}
	return s.insightsCache.GetOrFetch(ctx, K("insights", subject.String(), studentID),
		func(ctx context.Context) ([]model.Insight, error) {
			return s.client.GetInsights(ctx, subject, studentID)
		})
}

// ContentRecommendations возвращает рекомендованные материалы по предмету.
func (s *TutoringService) ContentRecommendations(ctx context.Context, subject model.Subject, studentID string) ([]model.ContentRecommendation, error) {
	if !subject.IsValid() {
		return nil, fmt.Errorf("%w: неизвестный предмет %q", ErrValidation, subject)
	}
	return s.contentCache.GetOrFetch(ctx, K("content", subject.String(), studentID),
		func(ctx context.Context) ([]model.ContentRecommendation, error) {
			return s.client.GetContentRecommendations(ctx, subject, studentID)
		})
}

// --- Некэшируемые чтения ---

// GetHint запрашивает подсказку. Не кэшируется: каждая подсказка уникальна.
func (s *TutoringService) GetHint(ctx context.Context, req model.HintRequest) (*model.Hint, error) {
	return s.client.GetHint(ctx, req)
}

// GetExplanation запрашивает объяснение. Не кэшируется.
func (s *TutoringService) GetExplanation(ctx context.Context, req model.ExplanationRequest) (*model.Explanation, error) {
	return s.client.GetExplanation(ctx, req)
}

// --- Записи (инвалидация только при успехе) ---

// SendChatMessage отправляет сообщение тьютору.
// При успехе инвалидирует диалог и список диалогов ученика.
func (s *TutoringService) SendChatMessage(ctx context.Context, req model.ChatRequest) (*model.ChatResponse, error) {
	if req.Message == "" {
		return nil, fmt.Errorf("%w: пустое сообщение", ErrValidation)
	}
	if !req.Subject.IsValid() {
		return nil, fmt.Errorf("%w: неизвестный предмет %q", ErrValidation, req.Subject)
	}

	resp, err := s.client.SendChat(ctx, req)
	if err != nil {
		return nil, err
	}

	// Сообщение подтверждено — сбрасываем затронутые ключи
	s.conversationCache.Invalidate(K("conversation", resp.ConversationID))
	s.conversationsCache.Invalidate(K("conversations", req.StudentID))

	s.logger.Debug("Сообщение отправлено, кэш диалогов инвалидирован",
		slog.String("conversation_id", resp.ConversationID),
	)

	return resp, nil
}

// UpdateConversation обновляет диалог и инвалидирует его кэш.
func (s *TutoringService) UpdateConversation(ctx context.Context, id, studentID string, update model.ConversationUpdate) (*model.Conversation, error) {
	if id == "" {
		return nil, fmt.Errorf("%w: пустой идентификатор диалога", ErrValidation)
	}

	conversation, err := s.client.UpdateConversation(ctx, id, update)
	if err != nil {
		return nil, err
	}

	s.conversationCache.Invalidate(K("conversation", id))
	s.conversationsCache.Invalidate(K("conversations", studentID))

	return conversation, nil
}

// DeactivateConversation деактивирует диалог и инвалидирует его кэш.
func (s *TutoringService) DeactivateConversation(ctx context.Context, id, studentID string) error {
	if id == "" {
		return fmt.Errorf("%w: пустой идентификатор диалога", ErrValidation)
	}

	if err := s.client.DeactivateConversation(ctx, id); err != nil {
		return err
	}

	s.conversationCache.Invalidate(K("conversation", id))
	s.conversationsCache.Invalidate(K("conversations", studentID))

	return nil
}

// AdjustDifficulty изменяет сложность по предмету.
// При успехе инвалидирует рекомендации и аналитику предмета.
func (s *TutoringService) AdjustDifficulty(ctx context.Context, adj model.DifficultyAdjustment) error {
	if !adj.Subject.IsValid() {
		return fmt.Errorf("%w: неизвестный предмет %q", ErrValidation, adj.Subject)
	}

	if err := s.client.AdjustDifficulty(ctx, adj); err != nil {
		return err
	}

	s.recommendCache.Invalidate(K("recommendations", adj.Subject.String(), adj.StudentID))
	s.analyticsCache.Invalidate(K("analytics", adj.Subject.String(), adj.StudentID))

	return nil
}

// SubmitFeedback отправляет обратную связь.
// При успехе инвалидирует рекомендации и наблюдения предмета.
func (s *TutoringService) SubmitFeedback(ctx context.Context, fb model.Feedback) error {
	if !fb.Subject.IsValid() {
		return fmt.Errorf("%w: неизвестный предмет %q", ErrValidation, fb.Subject)
	}

	if err := s.client.SubmitFeedback(ctx, fb); err != nil {
		return err
	}

	s.recommendCache.Invalidate(K("recommendations", fb.Subject.String(), fb.StudentID))
	s.insightsCache.Invalidate(K("insights", fb.Subject.String(), fb.StudentID))

	return nil
}

// AdaptContent адаптирует подачу материала.
// При успехе инвалидирует рекомендованные материалы предмета.
func (s *TutoringService) AdaptContent(ctx context.Context, adaptation model.ContentAdaptation) error {
	if !adaptation.Subject.IsValid() {
		return fmt.Errorf("%w: неизвестный предмет %q", ErrValidation, adaptation.Subject)
	}

	if err := s.client.AdaptContent(ctx, adaptation); err != nil {
		return err
	}

	s.contentCache.Invalidate(K("content", adaptation.Subject.String(), adaptation.StudentID))

	return nil
}

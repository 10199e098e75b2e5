// Пакет tutorclient — HTTP-клиент к удалённому тьюторинг-сервису.
// Реализует автоматическое получение сервисного токена через client_credentials
// grant с кэшированием (обновление за 30s до истечения).
// Операции: чат (send/list/get/update/deactivate), подсказки, объяснения,
// per-subject статус/рекомендации/аналитика/наблюдения/материалы,
// изменение сложности, обратная связь, адаптация подачи.
//
// Слой не добавляет retry/backoff: ошибки сервиса передаются вызывающему
// без изменений в виде *APIError (code/message/details).
package tutorclient

import (
	"bytes"
	"context"
	"crypto/tls"
	"crypto/x509"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/edulane/tutorboard/dashboard-module/internal/domain/model"
)

// Client — HTTP-клиент тьюторинг-сервиса.
type Client struct {
	baseURL      string // Базовый URL сервиса (без trailing slash)
	clientID     string // Client ID для client_credentials grant
	clientSecret string //nolint:gosec // G101: поле структуры, не содержит секрет напрямую

	httpClient *http.Client
	logger     *slog.Logger

	// Кэш сервисного токена
	mu          sync.Mutex
	accessToken string
	tokenExpiry time.Time
}

// New создаёт клиент тьюторинг-сервиса.
// baseURL — базовый URL (например, https://tutor.edulane.io).
// caCertPath — путь к CA-сертификату для TLS (пустая строка — стандартный пул).
// timeout — таймаут HTTP-запросов (DM_TUTOR_TIMEOUT).
// clientID, clientSecret — credentials для client_credentials grant.
func New(baseURL, caCertPath string, timeout time.Duration, clientID, clientSecret string, logger *slog.Logger) (*Client, error) {
	httpClient := &http.Client{Timeout: timeout}

	if caCertPath != "" {
		tlsConfig, err := buildTLSConfig(caCertPath)
		if err != nil {
			return nil, fmt.Errorf("загрузка CA-сертификата тьюторинг-сервиса: %w", err)
		}
		httpClient.Transport = &http.Transport{
			TLSClientConfig: tlsConfig,
		}
		logger.Info("CA-сертификат тьюторинг-сервиса добавлен в пул доверия",
			slog.String("ca_cert", caCertPath),
		)
	}

	return &Client{
		baseURL:      strings.TrimRight(baseURL, "/"),
		clientID:     clientID,
		clientSecret: clientSecret,
		httpClient:   httpClient,
		logger:       logger.With(slog.String("component", "tutor_client")),
	}, nil
}

// --- Аутентификация ---

// tokenEndpoint возвращает URL endpoint'а получения токена.
func (c *Client) tokenEndpoint() string {
	return c.baseURL + "/oauth/token"
}

// getToken возвращает актуальный сервисный токен, обновляя при необходимости.
// Токен обновляется за 30 секунд до истечения.
func (c *Client) getToken(ctx context.Context) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	// Проверяем кэш: если токен валиден ещё 30 секунд — используем его
	if c.accessToken != "" && time.Now().Add(30*time.Second).Before(c.tokenExpiry) {
		return c.accessToken, nil
	}

	token, err := c.requestToken(ctx)
	if err != nil {
		return "", err
	}

	c.accessToken = token.AccessToken
	c.tokenExpiry = time.Now().Add(time.Duration(token.ExpiresIn) * time.Second)

	c.logger.Debug("Токен тьюторинг-сервиса обновлён",
		slog.Time("expires_at", c.tokenExpiry),
	)

	return c.accessToken, nil
}

// requestToken выполняет client_credentials grant.
func (c *Client) requestToken(ctx context.Context) (*TokenResponse, error) {
	data := url.Values{
		"grant_type":    {"client_credentials"},
		"client_id":     {c.clientID},
		"client_secret": {c.clientSecret},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.tokenEndpoint(), strings.NewReader(data.Encode()))
	if err != nil {
		return nil, fmt.Errorf("создание запроса токена: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("запрос токена тьюторинг-сервиса: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("тьюторинг-сервис вернул статус %d при запросе токена: %s", resp.StatusCode, string(body))
	}

	var token TokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&token); err != nil {
		return nil, fmt.Errorf("декодирование токена: %w", err)
	}

	return &token, nil
}

// --- HTTP helpers ---

// doAuthorized выполняет HTTP-запрос к API сервиса с авторизацией.
func (c *Client) doAuthorized(ctx context.Context, method, path string, body any) (*http.Response, error) {
	token, err := c.getToken(ctx)
	if err != nil {
		return nil, fmt.Errorf("получение токена: %w", err)
	}

	var bodyReader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("сериализация тела запроса: %w", err)
		}
		bodyReader = bytes.NewReader(data)
	}

	reqURL := c.baseURL + "/api/v1" + path
	req, err := http.NewRequestWithContext(ctx, method, reqURL, bodyReader)
	if err != nil {
		return nil, fmt.Errorf("создание запроса: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+token)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	return c.httpClient.Do(req) //nolint:gosec // G704: URL из конфигурации сервиса
}

// decodeResponse декодирует JSON ответ в target.
// Статусы вне 2xx превращаются в *APIError с code/message/details сервиса.
func decodeResponse(resp *http.Response, target any) error {
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return parseAPIError(resp)
	}

	if target != nil {
		if err := json.NewDecoder(resp.Body).Decode(target); err != nil {
			return fmt.Errorf("декодирование ответа тьюторинг-сервиса: %w", err)
		}
	}

	return nil
}

// parseAPIError разбирает тело ошибки сервиса.
// Если тело не в формате {"error": {...}} — собирает APIError из статуса.
func parseAPIError(resp *http.Response) error {
	body, _ := io.ReadAll(resp.Body)

	var envelope errorEnvelope
	if err := json.Unmarshal(body, &envelope); err == nil && envelope.Error.Message != "" {
		apiErr := envelope.Error
		apiErr.StatusCode = resp.StatusCode
		return &apiErr
	}

	return &APIError{
		StatusCode: resp.StatusCode,
		Code:       "UPSTREAM_ERROR",
		Message:    fmt.Sprintf("тьюторинг-сервис вернул статус %d: %s", resp.StatusCode, strings.TrimSpace(string(body))),
	}
}

// --- Чат ---

// SendChat отправляет сообщение тьютору.
// Пустой ConversationID — сервис создаёт новый диалог и возвращает его ID.
func (c *Client) SendChat(ctx context.Context, req model.ChatRequest) (*model.ChatResponse, error) {
	resp, err := c.doAuthorized(ctx, http.MethodPost, "/chat/messages", req)
	if err != nil {
		return nil, err
	}

	var chatResp model.ChatResponse
	if err := decodeResponse(resp, &chatResp); err != nil {
		return nil, fmt.Errorf("SendChat: %w", err)
	}

	return &chatResp, nil
}

// ListConversations возвращает диалоги ученика.
func (c *Client) ListConversations(ctx context.Context, studentID string) ([]model.Conversation, error) {
	path := "/conversations?student_id=" + url.QueryEscape(studentID)

	resp, err := c.doAuthorized(ctx, http.MethodGet, path, nil)
	if err != nil {
		return nil, err
	}

	var conversations []model.Conversation
	if err := decodeResponse(resp, &conversations); err != nil {
		return nil, fmt.Errorf("ListConversations: %w", err)
	}

	return conversations, nil
}

// GetConversation возвращает диалог с сообщениями по ID.
func (c *Client) GetConversation(ctx context.Context, id string) (*model.Conversation, error) {
	resp, err := c.doAuthorized(ctx, http.MethodGet, "/conversations/"+id, nil)
	if err != nil {
		return nil, err
	}

	var conversation model.Conversation
	if err := decodeResponse(resp, &conversation); err != nil {
		return nil, fmt.Errorf("GetConversation: %w", err)
	}

	return &conversation, nil
}

// UpdateConversation обновляет изменяемые поля диалога.
func (c *Client) UpdateConversation(ctx context.Context, id string, update model.ConversationUpdate) (*model.Conversation, error) {
	resp, err := c.doAuthorized(ctx, http.MethodPatch, "/conversations/"+id, update)
	if err != nil {
		return nil, err
	}

	var conversation model.Conversation
	if err := decodeResponse(resp, &conversation); err != nil {
		return nil, fmt.Errorf("UpdateConversation: %w", err)
	}

	return &conversation, nil
}

// DeactivateConversation деактивирует диалог (мягкое удаление на сервисе).
func (c *Client) DeactivateConversation(ctx context.Context, id string) error {
	resp, err := c.doAuthorized(ctx, http.MethodDelete, "/conversations/"+id, nil)
	if err != nil {
		return err
	}

	if err := decodeResponse(resp, nil); err != nil {
		return fmt.Errorf("DeactivateConversation: %w", err)
	}

	return nil
}

// --- Подсказки и объяснения ---

// GetHint запрашивает подсказку по задаче.
func (c *Client) GetHint(ctx context.Context, req model.HintRequest) (*model.Hint, error) {
	resp, err := c.doAuthorized(ctx, http.MethodPost, "/hints", req)
	if err != nil {
		return nil, err
	}

	var hint model.Hint
	if err := decodeResponse(resp, &hint); err != nil {
		return nil, fmt.Errorf("GetHint: %w", err)
	}

	return &hint, nil
}

// GetExplanation запрашивает объяснение темы или решения.
func (c *Client) GetExplanation(ctx context.Context, req model.ExplanationRequest) (*model.Explanation, error) {
	resp, err := c.doAuthorized(ctx, http.MethodPost, "/explanations", req)
	if err != nil {
		return nil, err
	}

	var explanation model.Explanation
	if err := decodeResponse(resp, &explanation); err != nil {
		return nil, fmt.Errorf("GetExplanation: %w", err)
	}

	return &explanation, nil
}

// --- Per-subject данные ---

// subjectPath собирает путь per-subject endpoint'а.
func subjectPath(subject model.Subject, studentID, resource string) string {
	return fmt.Sprintf("/subjects/%s/%s?student_id=%s",
		subject, resource, url.QueryEscape(studentID))
}

// GetSubjectStatus возвращает состояние ученика по предмету.
func (c *Client) GetSubjectStatus(ctx context.Context, subject model.Subject, studentID string) (*model.SubjectStatus, error) {
	resp, err := c.doAuthorized(ctx, http.MethodGet, subjectPath(subject, studentID, "status"), nil)
	if err != nil {
		return nil, err
	}

	var status model.SubjectStatus
	if err := decodeResponse(resp, &status); err != nil {
		return nil, fmt.Errorf("GetSubjectStatus: %w", err)
	}

	return &status, nil
}

// GetRecommendations возвращает рекомендации по предмету.
func (c *Client) GetRecommendations(ctx context.Context, subject model.Subject, studentID string) ([]model.Recommendation, error) {
	resp, err := c.doAuthorized(ctx, http.MethodGet, subjectPath(subject, studentID, "recommendations"), nil)
	if err != nil {
		return nil, err
	}

	var recommendations []model.Recommendation
	if err := decodeResponse(resp, &recommendations); err != nil {
		return nil, fmt.Errorf("GetRecommendations: %w", err)
	}

	return recommendations, nil
}

// GetAnalytics возвращает метрики вовлечённости по предмету.
func (c *Client) GetAnalytics(ctx context.Context, subject model.Subject, studentID string) (*model.Analytics, error) {
	resp, err := c.doAuthorized(ctx, http.MethodGet, subjectPath(subject, studentID, "analytics"), nil)
	if err != nil {
		return nil, err
	}

	var analytics model.Analytics
	if err := decodeResponse(resp, &analytics); err != nil {
		return nil, fmt.Errorf("GetAnalytics: %w", err)
	}

	return &analytics, nil
}

// GetInsights возвращает наблюдения сервиса по предмету.
func (c *Client) GetInsights(ctx context.Context, subject model.Subject, studentID string) ([]model.Insight, error) {
	resp, err := c.doAuthorized(ctx, http.MethodGet, subjectPath(subject, studentID, "insights"), nil)
	if err != nil {
		return nil, err
	}

	var insights []model.Insight
	if err := decodeResponse(resp, &insights); err != nil {
		return nil, fmt.Errorf("GetInsights: %w", err)
	}

	return insights, nil
}

// GetContentRecommendations возвращает рекомендованные материалы по предмету.
func (c *Client) GetContentRecommendations(ctx context.Context, subject model.Subject, studentID string) ([]model.ContentRecommendation, error) {
	resp, err := c.doAuthorized(ctx, http.MethodGet, subjectPath(subject, studentID, "content-recommendations"), nil)
	if err != nil {
		return nil, err
	}

	var content []model.ContentRecommendation
	if err := decodeResponse(resp, &content); err != nil {
		return nil, fmt.Errorf("GetContentRecommendations: %w", err)
	}

	return content, nil
}

// --- Мутации обучения ---

// AdjustDifficulty изменяет сложность по предмету.
func (c *Client) AdjustDifficulty(ctx context.Context, adj model.DifficultyAdjustment) error {
	resp, err := c.doAuthorized(ctx, http.MethodPost, fmt.Sprintf("/subjects/%s/difficulty", adj.Subject), adj)
	if err != nil {
		return err
	}

	if err := decodeResponse(resp, nil); err != nil {
		return fmt.Errorf("AdjustDifficulty: %w", err)
	}

	return nil
}

// SubmitFeedback отправляет обратную связь по рекомендации или материалу.
func (c *Client) SubmitFeedback(ctx context.Context, fb model.Feedback) error {
	resp, err := c.doAuthorized(ctx, http.MethodPost, fmt.Sprintf("/subjects/%s/feedback", fb.Subject), fb)
	if err != nil {
		return err
	}

	if err := decodeResponse(resp, nil); err != nil {
		return fmt.Errorf("SubmitFeedback: %w", err)
	}

	return nil
}

// AdaptContent запрашивает адаптацию подачи материала.
func (c *Client) AdaptContent(ctx context.Context, adaptation model.ContentAdaptation) error {
	resp, err := c.doAuthorized(ctx, http.MethodPost, fmt.Sprintf("/subjects/%s/adapt", adaptation.Subject), adaptation)
	if err != nil {
		return err
	}

	if err := decodeResponse(resp, nil); err != nil {
		return fmt.Errorf("AdaptContent: %w", err)
	}

	return nil
}

// --- Readiness checker ---

// CheckReady проверяет доступность тьюторинг-сервиса через health endpoint.
// Реализует handlers.ReadinessChecker.
func (c *Client) CheckReady() (status, message string) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/health/ready", http.NoBody)
	if err != nil {
		return "fail", "ошибка создания запроса: " + err.Error()
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "fail", fmt.Sprintf("тьюторинг-сервис недоступен: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "degraded", fmt.Sprintf("тьюторинг-сервис вернул статус %d", resp.StatusCode)
	}

	return "ok", "тьюторинг-сервис доступен"
}

// buildTLSConfig создаёт TLS-конфигурацию с кастомным CA-сертификатом.
func buildTLSConfig(caCertPath string) (*tls.Config, error) {
	caCert, err := os.ReadFile(caCertPath)
	if err != nil {
		return nil, fmt.Errorf("чтение CA-сертификата: %w", err)
	}

	caCertPool, err := x509.SystemCertPool()
	if err != nil {
		caCertPool = x509.NewCertPool()
	}
	caCertPool.AppendCertsFromPEM(caCert)

	return &tls.Config{
		RootCAs: caCertPool,
	}, nil
}

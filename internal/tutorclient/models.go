// models.go — DTO протокола тьюторинг-сервиса, не входящие в доменные модели.
package tutorclient

import "encoding/json"

// TokenResponse — ответ token endpoint (client_credentials grant).
type TokenResponse struct {
	// AccessToken — токен доступа
	AccessToken string `json:"access_token"`
	// TokenType — тип токена (Bearer)
	TokenType string `json:"token_type"`
	// ExpiresIn — время жизни в секундах
	ExpiresIn int `json:"expires_in"`
}

// APIError — ошибка удалённого тьюторинг-сервиса.
// Поля code/message/details передаются вызывающему без изменений,
// повторных попыток клиент не делает.
type APIError struct {
	// StatusCode — HTTP статус ответа
	StatusCode int `json:"-"`
	// Code — машиночитаемый код ошибки
	Code string `json:"code"`
	// Message — описание ошибки
	Message string `json:"message"`
	// Details — дополнительные детали (произвольный JSON)
	Details json.RawMessage `json:"details,omitempty"`
}

// Error реализует интерфейс error.
func (e *APIError) Error() string {
	if e.Code != "" {
		return e.Code + ": " + e.Message
	}
	return e.Message
}

// errorEnvelope — обёртка {"error": {...}} в ответах сервиса.
type errorEnvelope struct {
	Error APIError `json:"error"`
}

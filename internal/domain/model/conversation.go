// conversation.go — модели чата с тьюторинг-сервисом.
// Транспортные DTO: владелец состояния — удалённый сервис,
// локально данные живут только в кэше запросов.
package model

import "time"

// Conversation — диалог ученика с тьютором.
type Conversation struct {
	// ID — идентификатор диалога (UUID удалённого сервиса)
	ID string `json:"id"`
	// Title — заголовок диалога
	Title string `json:"title"`
	// Subject — предмет диалога
	Subject Subject `json:"subject"`
	// Active — диалог активен (не деактивирован)
	Active bool `json:"active"`
	// CreatedAt — время создания
	CreatedAt time.Time `json:"created_at"`
	// UpdatedAt — время последнего сообщения
	UpdatedAt time.Time `json:"updated_at"`
}

// ChatMessage — одно сообщение диалога.
type ChatMessage struct {
	// ID — идентификатор сообщения
	ID string `json:"id"`
	// ConversationID — идентификатор диалога
	ConversationID string `json:"conversation_id"`
	// Role — автор сообщения: student, tutor
	Role string `json:"role"`
	// Content — текст сообщения
	Content string `json:"content"`
	// CreatedAt — время отправки
	CreatedAt time.Time `json:"created_at"`
}

// ChatRequest — запрос отправки сообщения тьютору.
// ConversationID пустой — сервис создаёт новый диалог.
type ChatRequest struct {
	// ConversationID — идентификатор существующего диалога (опционально)
	ConversationID string `json:"conversation_id,omitempty"`
	// Subject — предмет вопроса
	Subject Subject `json:"subject"`
	// Message — текст сообщения (обязательное поле)
	Message string `json:"message"`
	// StudentID — идентификатор ученика
	StudentID string `json:"student_id"`
}

// ChatResponse — ответ удалённого сервиса на сообщение.
type ChatResponse struct {
	// ConversationID — диалог, к которому привязан ответ
	// (новый ID, если запрос создал диалог)
	ConversationID string `json:"conversation_id"`
	// Reply — ответ тьютора
	Reply ChatMessage `json:"reply"`
}

// ConversationUpdate — изменяемые поля диалога.
type ConversationUpdate struct {
	// Title — новый заголовок (nil — без изменения)
	Title *string `json:"title,omitempty"`
}

// HintRequest — запрос подсказки по задаче.
type HintRequest struct {
	// Subject — предмет задачи
	Subject Subject `json:"subject"`
	// ProblemID — идентификатор задачи
	ProblemID string `json:"problem_id"`
	// StudentID — идентификатор ученика
	StudentID string `json:"student_id"`
	// Attempt — текущий ответ ученика (опционально)
	Attempt string `json:"attempt,omitempty"`
}

// Hint — подсказка по задаче.
type Hint struct {
	// Text — текст подсказки
	Text string `json:"text"`
	// Level — уровень подсказки (1 — лёгкая, выше — подробнее)
	Level int `json:"level"`
}

// ExplanationRequest — запрос объяснения темы или решения.
type ExplanationRequest struct {
	// Subject — предмет
	Subject Subject `json:"subject"`
	// Topic — тема или идентификатор задачи
	Topic string `json:"topic"`
	// StudentID — идентификатор ученика
	StudentID string `json:"student_id"`
}

// Explanation — развёрнутое объяснение.
type Explanation struct {
	// Text — текст объяснения
	Text string `json:"text"`
	// Examples — примеры (опционально)
	Examples []string `json:"examples,omitempty"`
}

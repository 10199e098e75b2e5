// learning.go — DTO аналитики и рекомендаций тьюторинг-сервиса.
// Все структуры read-only: заполняются ответами удалённого API
// и попадают в per-subject кэши запросов.
package model

import "time"

// SubjectStatus — текущее состояние ученика по предмету.
type SubjectStatus struct {
	// Subject — предмет
	Subject Subject `json:"subject"`
	// Level — текущий уровень сложности (1-10)
	Level int `json:"level"`
	// Mastery — доля освоенных тем (0-100)
	Mastery float64 `json:"mastery"`
	// ProblemsSolved — решено задач всего
	ProblemsSolved int `json:"problems_solved"`
	// UpdatedAt — время последнего обновления на сервисе
	UpdatedAt time.Time `json:"updated_at"`
}

// Recommendation — рекомендация следующего шага обучения.
type Recommendation struct {
	// ID — идентификатор рекомендации
	ID string `json:"id"`
	// Subject — предмет
	Subject Subject `json:"subject"`
	// Topic — рекомендуемая тема
	Topic string `json:"topic"`
	// Reason — обоснование рекомендации
	Reason string `json:"reason"`
	// Priority — приоритет (1 — наивысший)
	Priority int `json:"priority"`
}

// Analytics — метрики вовлечённости ученика по предмету.
type Analytics struct {
	// Subject — предмет
	Subject Subject `json:"subject"`
	// PracticeMinutes — минут практики за неделю
	PracticeMinutes int `json:"practice_minutes"`
	// StreakDays — текущая серия дней практики
	StreakDays int `json:"streak_days"`
	// WeeklyGoalProgress — прогресс недельной цели в процентах
	// (может превышать 100)
	WeeklyGoalProgress float64 `json:"weekly_goal_progress"`
	// LastPracticeAt — время последней практики (zero — ещё не было)
	LastPracticeAt time.Time `json:"last_practice_at"`
	// AccuracyPercent — доля верных ответов (0-100)
	AccuracyPercent float64 `json:"accuracy_percent"`
}

// Insight — наблюдение сервиса о прогрессе ученика.
type Insight struct {
	// ID — идентификатор наблюдения
	ID string `json:"id"`
	// Subject — предмет
	Subject Subject `json:"subject"`
	// Kind — тип: strength, weakness, trend
	Kind string `json:"kind"`
	// Text — текст наблюдения
	Text string `json:"text"`
}

// ContentRecommendation — рекомендованный учебный материал.
type ContentRecommendation struct {
	// ID — идентификатор материала
	ID string `json:"id"`
	// Subject — предмет
	Subject Subject `json:"subject"`
	// Title — название материала
	Title string `json:"title"`
	// ContentType — тип: video, article, exercise
	ContentType string `json:"content_type"`
	// URL — ссылка на материал
	URL string `json:"url"`
}

// DifficultyAdjustment — запрос изменения сложности по предмету.
type DifficultyAdjustment struct {
	// Subject — предмет
	Subject Subject `json:"subject"`
	// StudentID — идентификатор ученика
	StudentID string `json:"student_id"`
	// Direction — направление: easier, harder
	Direction string `json:"direction"`
}

// Feedback — обратная связь по рекомендации или материалу.
type Feedback struct {
	// Subject — предмет
	Subject Subject `json:"subject"`
	// StudentID — идентификатор ученика
	StudentID string `json:"student_id"`
	// TargetID — идентификатор рекомендации/материала
	TargetID string `json:"target_id"`
	// Rating — оценка (1-5)
	Rating int `json:"rating"`
	// Comment — комментарий (опционально)
	Comment string `json:"comment,omitempty"`
}

// ContentAdaptation — запрос адаптации подачи материала.
type ContentAdaptation struct {
	// Subject — предмет
	Subject Subject `json:"subject"`
	// StudentID — идентификатор ученика
	StudentID string `json:"student_id"`
	// Style — желаемый стиль подачи: visual, textual, interactive
	Style string `json:"style"`
}

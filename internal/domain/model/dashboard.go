// dashboard.go — агрегированное представление дашборда родителя.
// Собирается DashboardService из данных тьюторинг-сервиса и student_links;
// форматированные поля готовы к отображению без доработки на клиенте.
package model

// Dashboard — дашборд одного ученика.
type Dashboard struct {
	// StudentID — идентификатор ученика
	StudentID string `json:"student_id"`
	// StudentName — отображаемое имя
	StudentName string `json:"student_name"`
	// Grade — класс обучения
	Grade int `json:"grade"`
	// ExamDate — дата экзамена в формате dd.mm.yyyy (пустая — не назначена)
	ExamDate string `json:"exam_date,omitempty"`
	// Subjects — разбивка по предметам
	Subjects []SubjectBreakdown `json:"subjects"`
	// Engagement — сводные метрики вовлечённости
	Engagement Engagement `json:"engagement"`
}

// SubjectBreakdown — строка дашборда по одному предмету.
type SubjectBreakdown struct {
	// Subject — предмет
	Subject Subject `json:"subject"`
	// Level — текущий уровень сложности
	Level int `json:"level"`
	// Mastery — доля освоенных тем (0-100)
	Mastery float64 `json:"mastery"`
	// ProblemsSolved — решено задач
	ProblemsSolved int `json:"problems_solved"`
	// PracticeTime — форматированное время практики ("1h 5m")
	PracticeTime string `json:"practice_time"`
	// LastPractice — форматированная дата последней практики
	// ("Today", "Yesterday", "N days ago", dd.mm.yyyy, "Never")
	LastPractice string `json:"last_practice"`
}

// Engagement — сводные метрики вовлечённости по всем предметам.
type Engagement struct {
	// TotalPracticeTime — суммарное форматированное время практики
	TotalPracticeTime string `json:"total_practice_time"`
	// StreakDays — максимальная серия дней практики
	StreakDays int `json:"streak_days"`
	// StreakTier — визуальная категория серии (gold, silver, none)
	StreakTier string `json:"streak_tier"`
	// WeeklyGoalProgress — прогресс недельной цели, как вернул сервис
	// (может превышать 100)
	WeeklyGoalProgress float64 `json:"weekly_goal_progress"`
	// ProgressBarWidth — ширина прогресс-бара, ограничена [0, 100]
	ProgressBarWidth float64 `json:"progress_bar_width"`
}

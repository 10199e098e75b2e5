// student.go — связь «родитель — ученик».
// Хранится в таблице student_links (собственные данные Dashboard Module,
// в отличие от транспортных DTO тьюторинг-сервиса).
package model

import "time"

// StudentLink — привязка ученика к аккаунту родителя.
type StudentLink struct {
	// ID — UUID записи
	ID string
	// ParentID — идентификатор родителя (sub из JWT)
	ParentID string
	// StudentID — идентификатор ученика в тьюторинг-сервисе
	StudentID string
	// StudentName — отображаемое имя ученика
	StudentName string
	// Grade — класс обучения
	Grade int
	// ExamDate — дата экзамена (может быть nil)
	ExamDate *time.Time
	// AccessGranted — родителю разрешён просмотр прогресса
	AccessGranted bool
	// CreatedAt — время создания записи
	CreatedAt time.Time
	// UpdatedAt — время последнего обновления
	UpdatedAt time.Time
}

// StudentLinkUpdate — изменяемые поля связи. nil — поле не меняется.
type StudentLinkUpdate struct {
	StudentName   *string
	Grade         *int
	ExamDate      *time.Time
	AccessGranted *bool
}

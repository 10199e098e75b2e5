package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/edulane/tutorboard/dashboard-module/internal/domain/model"
	"github.com/edulane/tutorboard/dashboard-module/internal/format"
	"github.com/edulane/tutorboard/dashboard-module/internal/repository"
)

// timeNowUTC подменяется в тестах фиксированным временем.
var timeNowUTC = func() time.Time { return time.Now().UTC() }

// DashboardService собирает дашборд родителя: связи родитель-ученик
// из PostgreSQL, данные по предметам через кэширующий слой,
// форматирование — пакетом format.
type DashboardService struct {
	links    repository.StudentLinkRepository
	tutoring *TutoringService
	logger   *slog.Logger
}

// NewDashboardService создаёт сервис дашборда.
func NewDashboardService(links repository.StudentLinkRepository, tutoring *TutoringService, logger *slog.Logger) *DashboardService {
	return &DashboardService{
		links:    links,
		tutoring: tutoring,
		logger:   logger.With(slog.String("component", "dashboard_service")),
	}
}

// ListStudents возвращает учеников, привязанных к родителю.
func (s *DashboardService) ListStudents(ctx context.Context, parentID string) ([]*model.StudentLink, error) {
	return s.links.ListByParent(ctx, parentID)
}

// LinkStudent привязывает ученика к родителю.
func (s *DashboardService) LinkStudent(ctx context.Context, link *model.StudentLink) error {
	if link.StudentID == "" || link.StudentName == "" {
		return fmt.Errorf("%w: student_id и student_name обязательны", ErrValidation)
	}
	if link.ID == "" {
		link.ID = uuid.New().String()
	}
	return s.links.Create(ctx, link)
}

// UpdateStudentLink обновляет данные связи (имя, класс, дата экзамена, доступ).
// Родитель может менять только собственные связи.
func (s *DashboardService) UpdateStudentLink(ctx context.Context, parentID, linkID string, upd model.StudentLinkUpdate) (*model.StudentLink, error) {
	existing, err := s.links.GetByID(ctx, linkID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if existing.ParentID != parentID {
		return nil, ErrAccessDenied
	}

	if upd.StudentName != nil {
		existing.StudentName = *upd.StudentName
	}
	if upd.Grade != nil {
		existing.Grade = *upd.Grade
	}
	if upd.ExamDate != nil {
		existing.ExamDate = upd.ExamDate
	}
	if upd.AccessGranted != nil {
		existing.AccessGranted = *upd.AccessGranted
	}

	if err := s.links.Update(ctx, existing); err != nil {
		return nil, err
	}
	return existing, nil
}

// UnlinkStudent удаляет связь родителя с учеником.
func (s *DashboardService) UnlinkStudent(ctx context.Context, parentID, linkID string) error {
	existing, err := s.links.GetByID(ctx, linkID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrNotFound
		}
		return err
	}
	if existing.ParentID != parentID {
		return ErrAccessDenied
	}
	return s.links.Delete(ctx, linkID)
}

// Dashboard собирает дашборд ученика для родителя.
// Требует существующей связи с access_granted = true.
func (s *DashboardService) Dashboard(ctx context.Context, parentID, studentID string) (*model.Dashboard, error) {
	link, err := s.links.GetByParentAndStudent(ctx, parentID, studentID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("поиск связи родитель-ученик: %w", err)
	}
	if !link.AccessGranted {
		return nil, ErrAccessDenied
	}

	dashboard := &model.Dashboard{
		StudentID:   link.StudentID,
		StudentName: link.StudentName,
		Grade:       link.Grade,
	}
	if link.ExamDate != nil {
		dashboard.ExamDate = format.Date(*link.ExamDate)
	}

	now := timeNowUTC()

	var totalMinutes, maxStreak int
	var goalSum float64
	var goalCount int

	for _, subject := range model.AllSubjects() {
		status, err := s.tutoring.SubjectStatus(ctx, subject, link.StudentID)
		if err != nil {
			return nil, fmt.Errorf("статус по предмету %s: %w", subject, err)
		}
		analytics, err := s.tutoring.Analytics(ctx, subject, link.StudentID)
		if err != nil {
			return nil, fmt.Errorf("аналитика по предмету %s: %w", subject, err)
		}

		dashboard.Subjects = append(dashboard.Subjects, model.SubjectBreakdown{
			Subject:        subject,
			Level:          status.Level,
			Mastery:        status.Mastery,
			ProblemsSolved: status.ProblemsSolved,
			PracticeTime:   format.Minutes(analytics.PracticeMinutes),
			LastPractice:   format.LastPractice(analytics.LastPracticeAt, now),
		})

		totalMinutes += analytics.PracticeMinutes
		if analytics.StreakDays > maxStreak {
			maxStreak = analytics.StreakDays
		}
		goalSum += analytics.WeeklyGoalProgress
		goalCount++
	}

	// Прогресс недельной цели — среднее по предметам; отображаемое значение
	// остаётся как есть, ширина прогресс-бара ограничивается [0, 100]
	goalProgress := 0.0
	if goalCount > 0 {
		goalProgress = goalSum / float64(goalCount)
	}

	dashboard.Engagement = model.Engagement{
		TotalPracticeTime:  format.Minutes(totalMinutes),
		StreakDays:         maxStreak,
		StreakTier:         format.StreakTier(maxStreak),
		WeeklyGoalProgress: goalProgress,
		ProgressBarWidth:   format.ProgressWidth(goalProgress),
	}

	return dashboard, nil
}

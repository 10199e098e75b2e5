package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/edulane/tutorboard/dashboard-module/internal/domain/model"
)

// StudentLinkRepository — интерфейс CRUD для таблицы student_links.
// Связь «родитель — ученик»: какой родитель видит дашборд какого ученика.
type StudentLinkRepository interface {
	// Create создаёт новую связь родитель-ученик.
	Create(ctx context.Context, link *model.StudentLink) error
	// GetByID возвращает связь по UUID.
	GetByID(ctx context.Context, id string) (*model.StudentLink, error)
	// GetByParentAndStudent возвращает связь родителя с конкретным учеником.
	GetByParentAndStudent(ctx context.Context, parentID, studentID string) (*model.StudentLink, error)
	// ListByParent возвращает всех учеников родителя.
	ListByParent(ctx context.Context, parentID string) ([]*model.StudentLink, error)
	// Update обновляет изменяемые поля связи (имя, класс, дата экзамена, доступ).
	Update(ctx context.Context, link *model.StudentLink) error
	// Delete удаляет связь.
	Delete(ctx context.Context, id string) error
	// Count возвращает количество связей родителя.
	Count(ctx context.Context, parentID string) (int, error)
}

// studentLinkRepo — реализация StudentLinkRepository.
type studentLinkRepo struct {
	db DBTX
}

// NewStudentLinkRepository создаёт репозиторий связей родитель-ученик.
func NewStudentLinkRepository(db DBTX) StudentLinkRepository {
	return &studentLinkRepo{db: db}
}

// scanStudentLink сканирует строку результата в модель StudentLink.
func scanStudentLink(row pgx.Row) (*model.StudentLink, error) {
	link := &model.StudentLink{}
	err := row.Scan(
		&link.ID, &link.ParentID, &link.StudentID, &link.StudentName,
		&link.Grade, &link.ExamDate, &link.AccessGranted,
		&link.CreatedAt, &link.UpdatedAt,
	)
	return link, err
}

const studentLinkColumns = `id, parent_id, student_id, student_name,
	grade, exam_date, access_granted, created_at, updated_at`

func (r *studentLinkRepo) Create(ctx context.Context, link *model.StudentLink) error {
	query := `
		INSERT INTO student_links (id, parent_id, student_id, student_name,
			grade, exam_date, access_granted)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING created_at, updated_at`

	err := r.db.QueryRow(ctx, query,
		link.ID, link.ParentID, link.StudentID, link.StudentName,
		link.Grade, link.ExamDate, link.AccessGranted,
	).Scan(&link.CreatedAt, &link.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: ученик уже привязан к этому родителю", ErrConflict)
		}
		return fmt.Errorf("ошибка создания связи родитель-ученик: %w", err)
	}
	return nil
}

func (r *studentLinkRepo) GetByID(ctx context.Context, id string) (*model.StudentLink, error) {
	query := fmt.Sprintf(`SELECT %s FROM student_links WHERE id = $1`, studentLinkColumns)
	link, err := scanStudentLink(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("ошибка получения связи: %w", err)
	}
	return link, nil
}

func (r *studentLinkRepo) GetByParentAndStudent(ctx context.Context, parentID, studentID string) (*model.StudentLink, error) {
	query := fmt.Sprintf(`SELECT %s FROM student_links WHERE parent_id = $1 AND student_id = $2`, studentLinkColumns)
	link, err := scanStudentLink(r.db.QueryRow(ctx, query, parentID, studentID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("ошибка получения связи родителя с учеником: %w", err)
	}
	return link, nil
}

func (r *studentLinkRepo) ListByParent(ctx context.Context, parentID string) ([]*model.StudentLink, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM student_links
		WHERE parent_id = $1
		ORDER BY created_at`, studentLinkColumns)

	rows, err := r.db.Query(ctx, query, parentID)
	if err != nil {
		return nil, fmt.Errorf("ошибка получения списка учеников: %w", err)
	}
	defer rows.Close()

	var result []*model.StudentLink
	for rows.Next() {
		link := &model.StudentLink{}
		if err := rows.Scan(
			&link.ID, &link.ParentID, &link.StudentID, &link.StudentName,
			&link.Grade, &link.ExamDate, &link.AccessGranted,
			&link.CreatedAt, &link.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("ошибка сканирования связи: %w", err)
		}
		result = append(result, link)
	}
	return result, rows.Err()
}

func (r *studentLinkRepo) Update(ctx context.Context, link *model.StudentLink) error {
	query := `
		UPDATE student_links
		SET student_name = $2, grade = $3, exam_date = $4, access_granted = $5,
			updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at`

	err := r.db.QueryRow(ctx, query,
		link.ID, link.StudentName, link.Grade, link.ExamDate, link.AccessGranted,
	).Scan(&link.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrNotFound
		}
		return fmt.Errorf("ошибка обновления связи: %w", err)
	}
	return nil
}

func (r *studentLinkRepo) Delete(ctx context.Context, id string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM student_links WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("ошибка удаления связи: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *studentLinkRepo) Count(ctx context.Context, parentID string) (int, error) {
	var count int
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM student_links WHERE parent_id = $1`, parentID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("ошибка подсчёта связей: %w", err)
	}
	return count, nil
}

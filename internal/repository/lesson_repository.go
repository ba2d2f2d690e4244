package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/jadval-app/jadval-api/internal/models"
)

const lessonColumns = "id, week_start, day, shift, period, subject, room, teacher, groups, type, updated_by, created_at, updated_at"

// LessonRepository provides persistence for lessons.
type LessonRepository struct {
	db *sqlx.DB
}

// NewLessonRepository creates a new lesson repository.
func NewLessonRepository(db *sqlx.DB) *LessonRepository {
	return &LessonRepository{db: db}
}

// List returns lessons with optional filtering and pagination, ordered by
// slot position within the week.
func (r *LessonRepository) List(ctx context.Context, filter models.LessonFilter) ([]models.Lesson, int, error) {
	base := "FROM lessons WHERE 1=1"
	var conditions []string
	var args []interface{}

	if filter.WeekStart != "" {
		conditions = append(conditions, fmt.Sprintf("week_start = $%d", len(args)+1))
		args = append(args, filter.WeekStart)
	}
	if filter.Day != "" {
		conditions = append(conditions, fmt.Sprintf("day = $%d", len(args)+1))
		args = append(args, filter.Day)
	}
	if filter.Shift != "" {
		conditions = append(conditions, fmt.Sprintf("shift = $%d", len(args)+1))
		args = append(args, filter.Shift)
	}
	if filter.Teacher != "" {
		conditions = append(conditions, fmt.Sprintf("teacher = $%d", len(args)+1))
		args = append(args, filter.Teacher)
	}
	if filter.Group != "" {
		conditions = append(conditions, fmt.Sprintf("$%d = ANY(groups)", len(args)+1))
		args = append(args, filter.Group)
	}

	if len(conditions) > 0 {
		base += " AND " + strings.Join(conditions, " AND ")
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 || size > 100 {
		size = 50
	}
	offset := (page - 1) * size

	query := fmt.Sprintf("SELECT %s %s ORDER BY week_start ASC, day ASC, shift ASC, period ASC LIMIT %d OFFSET %d", lessonColumns, base, size, offset)
	var lessons []models.Lesson
	if err := r.db.SelectContext(ctx, &lessons, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list lessons: %w", err)
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) %s", base)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count lessons: %w", err)
	}

	return lessons, total, nil
}

// FindByID loads a lesson by id.
func (r *LessonRepository) FindByID(ctx context.Context, id string) (*models.Lesson, error) {
	query := fmt.Sprintf("SELECT %s FROM lessons WHERE id = $1", lessonColumns)
	var lesson models.Lesson
	if err := r.db.GetContext(ctx, &lesson, query, id); err != nil {
		return nil, err
	}
	return &lesson, nil
}

// FindBySlot returns the lesson occupying a week/day/shift/period slot.
func (r *LessonRepository) FindBySlot(ctx context.Context, weekStart, day, shift string, period int) (*models.Lesson, error) {
	query := fmt.Sprintf("SELECT %s FROM lessons WHERE week_start = $1 AND day = $2 AND shift = $3 AND period = $4", lessonColumns)
	var lesson models.Lesson
	if err := r.db.GetContext(ctx, &lesson, query, weekStart, day, shift, period); err != nil {
		return nil, err
	}
	return &lesson, nil
}

// ListByWeek returns all lessons of a week ordered by slot position.
func (r *LessonRepository) ListByWeek(ctx context.Context, weekStart string) ([]models.Lesson, error) {
	query := fmt.Sprintf("SELECT %s FROM lessons WHERE week_start = $1 ORDER BY day ASC, shift ASC, period ASC", lessonColumns)
	var lessons []models.Lesson
	if err := r.db.SelectContext(ctx, &lessons, query, weekStart); err != nil {
		return nil, fmt.Errorf("list lessons by week: %w", err)
	}
	return lessons, nil
}

// Upsert stores a lesson, replacing whatever currently occupies its slot.
func (r *LessonRepository) Upsert(ctx context.Context, lesson *models.Lesson) error {
	if lesson.ID == "" {
		lesson.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if lesson.CreatedAt.IsZero() {
		lesson.CreatedAt = now
	}
	lesson.UpdatedAt = now

	const query = `INSERT INTO lessons (id, week_start, day, shift, period, subject, room, teacher, groups, type, updated_by, created_at, updated_at)
VALUES (:id, :week_start, :day, :shift, :period, :subject, :room, :teacher, :groups, :type, :updated_by, :created_at, :updated_at)
ON CONFLICT (week_start, day, shift, period) DO UPDATE SET
subject = EXCLUDED.subject, room = EXCLUDED.room, teacher = EXCLUDED.teacher, groups = EXCLUDED.groups, type = EXCLUDED.type, updated_by = EXCLUDED.updated_by, updated_at = EXCLUDED.updated_at`
	if _, err := r.db.NamedExecContext(ctx, query, lesson); err != nil {
		return fmt.Errorf("upsert lesson: %w", err)
	}
	return nil
}

// BulkUpsert stores many lessons within one transaction.
func (r *LessonRepository) BulkUpsert(ctx context.Context, lessons []models.Lesson) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin bulk upsert lessons: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if err = r.bulkUpsertLessons(ctx, tx, lessons); err != nil {
		return err
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit bulk upsert lessons: %w", err)
	}
	return nil
}

func (r *LessonRepository) bulkUpsertLessons(ctx context.Context, exec sqlx.ExtContext, lessons []models.Lesson) error {
	now := time.Now().UTC()
	for i := range lessons {
		payload := lessons[i]
		if payload.ID == "" {
			payload.ID = uuid.NewString()
		}
		if payload.CreatedAt.IsZero() {
			payload.CreatedAt = now
		}
		payload.UpdatedAt = now

		if _, err := sqlx.NamedExecContext(ctx, exec, `INSERT INTO lessons (id, week_start, day, shift, period, subject, room, teacher, groups, type, updated_by, created_at, updated_at)
VALUES (:id, :week_start, :day, :shift, :period, :subject, :room, :teacher, :groups, :type, :updated_by, :created_at, :updated_at)
ON CONFLICT (week_start, day, shift, period) DO UPDATE SET
subject = EXCLUDED.subject, room = EXCLUDED.room, teacher = EXCLUDED.teacher, groups = EXCLUDED.groups, type = EXCLUDED.type, updated_by = EXCLUDED.updated_by, updated_at = EXCLUDED.updated_at`, &payload); err != nil {
			return fmt.Errorf("bulk upsert lesson: %w", err)
		}
		lessons[i] = payload
	}
	return nil
}

// Delete removes a lesson by id.
func (r *LessonRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM lessons WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete lesson: %w", err)
	}
	return nil
}

// DeleteBySlot frees a week/day/shift/period slot.
func (r *LessonRepository) DeleteBySlot(ctx context.Context, weekStart, day, shift string, period int) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM lessons WHERE week_start = $1 AND day = $2 AND shift = $3 AND period = $4`, weekStart, day, shift, period); err != nil {
		return fmt.Errorf("delete lesson by slot: %w", err)
	}
	return nil
}

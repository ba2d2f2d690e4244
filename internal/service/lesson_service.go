package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/lib/pq"
	"go.uber.org/zap"

	"github.com/jadval-app/jadval-api/internal/dto"
	"github.com/jadval-app/jadval-api/internal/lexicon"
	"github.com/jadval-app/jadval-api/internal/models"
	"github.com/jadval-app/jadval-api/internal/voice"
	appErrors "github.com/jadval-app/jadval-api/pkg/errors"
)

const weekCachePrefix = "jadval:week:"

type lessonRepository interface {
	List(ctx context.Context, filter models.LessonFilter) ([]models.Lesson, int, error)
	FindByID(ctx context.Context, id string) (*models.Lesson, error)
	FindBySlot(ctx context.Context, weekStart, day, shift string, period int) (*models.Lesson, error)
	ListByWeek(ctx context.Context, weekStart string) ([]models.Lesson, error)
	Upsert(ctx context.Context, lesson *models.Lesson) error
	BulkUpsert(ctx context.Context, lessons []models.Lesson) error
	Delete(ctx context.Context, id string) error
	DeleteBySlot(ctx context.Context, weekStart, day, shift string, period int) error
}

// LessonService provides lesson scheduling use cases.
type LessonService struct {
	repo      lessonRepository
	cache     *CacheService
	validator *validator.Validate
	logger    *zap.Logger
}

// NewLessonService constructs a LessonService instance.
func NewLessonService(repo lessonRepository, cache *CacheService, validate *validator.Validate, logger *zap.Logger) *LessonService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &LessonService{repo: repo, cache: cache, validator: validate, logger: logger}
}

// Save validates and stores a lesson, replacing whatever occupies its slot.
func (s *LessonService) Save(ctx context.Context, req dto.LessonRequest, updatedBy string) (*models.Lesson, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid lesson payload")
	}
	if err := validateLessonSlot(req); err != nil {
		return nil, err
	}

	lesson := &models.Lesson{
		WeekStart: req.WeekStart,
		Day:       strings.ToLower(req.Day),
		Shift:     strings.ToLower(req.Shift),
		Period:    req.Period,
		Subject:   strings.TrimSpace(req.Subject),
		Room:      strings.ToUpper(strings.TrimSpace(req.Room)),
		Teacher:   strings.TrimSpace(req.Teacher),
		Groups:    normalizeGroups(req.Groups),
		Type:      strings.ToLower(req.Type),
		UpdatedBy: updatedBy,
	}

	if err := s.repo.Upsert(ctx, lesson); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to store lesson")
	}

	s.invalidateWeek(ctx, lesson.WeekStart)
	return lesson, nil
}

// List returns lessons matching the filter with pagination metadata.
func (s *LessonService) List(ctx context.Context, filter models.LessonFilter) ([]models.Lesson, *models.Pagination, error) {
	lessons, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list lessons")
	}
	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 || size > 100 {
		size = 50
	}
	return lessons, &models.Pagination{Page: page, PageSize: size, TotalCount: total}, nil
}

// Get loads one lesson by id.
func (s *LessonService) Get(ctx context.Context, id string) (*models.Lesson, error) {
	lesson, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "lesson not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load lesson")
	}
	return lesson, nil
}

// GetWeek renders the timetable grid for a week, served from cache when warm.
// The second return value reports whether the grid came from cache.
func (s *LessonService) GetWeek(ctx context.Context, weekStart string) (*dto.WeekScheduleResponse, bool, error) {
	if err := validateWeekStart(weekStart); err != nil {
		return nil, false, err
	}

	cacheKey := weekCachePrefix + weekStart
	if s.cache != nil {
		var cached dto.WeekScheduleResponse
		if hit, err := s.cache.Get(ctx, cacheKey, &cached); err == nil && hit {
			return &cached, true, nil
		}
	}

	lessons, err := s.repo.ListByWeek(ctx, weekStart)
	if err != nil {
		return nil, false, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load week schedule")
	}

	grid := buildWeekGrid(weekStart, lessons)
	if s.cache != nil {
		if err := s.cache.Set(ctx, cacheKey, grid, 0); err != nil {
			s.logger.Warn("failed to cache week schedule", zap.String("week", weekStart), zap.Error(err))
		}
	}
	return grid, false, nil
}

// Delete removes a lesson by id.
func (s *LessonService) Delete(ctx context.Context, id string) error {
	lesson, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "lesson not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load lesson")
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete lesson")
	}
	s.invalidateWeek(ctx, lesson.WeekStart)
	return nil
}

// DeleteSlot frees one week/day/shift/period slot.
func (s *LessonService) DeleteSlot(ctx context.Context, weekStart, day, shift string, period int) error {
	if err := validateWeekStart(weekStart); err != nil {
		return err
	}
	day = strings.ToLower(day)
	shift = strings.ToLower(shift)
	if !lexicon.ValidDay(day) || !lexicon.ValidShift(shift) {
		return appErrors.Clone(appErrors.ErrValidation, "unknown day or shift")
	}
	if _, err := s.repo.FindBySlot(ctx, weekStart, day, shift, period); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "no lesson in that slot")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load lesson slot")
	}
	if err := s.repo.DeleteBySlot(ctx, weekStart, day, shift, period); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete lesson slot")
	}
	s.invalidateWeek(ctx, weekStart)
	return nil
}

// CopyWeek duplicates every lesson of one week into another.
func (s *LessonService) CopyWeek(ctx context.Context, req dto.CopyWeekRequest, updatedBy string) (*dto.CopyWeekResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid copy week payload")
	}
	if err := validateWeekStart(req.FromWeek); err != nil {
		return nil, err
	}
	if err := validateWeekStart(req.ToWeek); err != nil {
		return nil, err
	}

	source, err := s.repo.ListByWeek(ctx, req.FromWeek)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load source week")
	}
	if len(source) == 0 {
		return &dto.CopyWeekResponse{FromWeek: req.FromWeek, ToWeek: req.ToWeek, Copied: 0}, nil
	}

	copies := make([]models.Lesson, 0, len(source))
	for _, lesson := range source {
		lesson.ID = ""
		lesson.WeekStart = req.ToWeek
		lesson.UpdatedBy = updatedBy
		lesson.CreatedAt = time.Time{}
		copies = append(copies, lesson)
	}

	if err := s.repo.BulkUpsert(ctx, copies); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to copy week")
	}

	s.invalidateWeek(ctx, req.ToWeek)
	return &dto.CopyWeekResponse{FromWeek: req.FromWeek, ToWeek: req.ToWeek, Copied: len(copies)}, nil
}

func (s *LessonService) invalidateWeek(ctx context.Context, weekStart string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx, weekCachePrefix+weekStart+"*"); err != nil {
		s.logger.Warn("failed to invalidate week cache", zap.String("week", weekStart), zap.Error(err))
	}
}

// validateLessonSlot checks the canonical vocabulary and code shapes of a
// lesson payload beyond what struct tags can express.
func validateLessonSlot(req dto.LessonRequest) error {
	if err := validateWeekStart(req.WeekStart); err != nil {
		return err
	}
	day := strings.ToLower(req.Day)
	shift := strings.ToLower(req.Shift)
	lessonType := strings.ToLower(req.Type)

	if !lexicon.ValidDay(day) {
		return appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unknown day %q", req.Day))
	}
	if !lexicon.ValidShift(shift) {
		return appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unknown shift %q", req.Shift))
	}
	if !lexicon.ValidType(lessonType) {
		return appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unknown lesson type %q", req.Type))
	}
	if !periodWithinShift(shift, req.Period) {
		return appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("period %d does not exist in shift %q", req.Period, shift))
	}
	if !voice.ValidRoomCode(strings.TrimSpace(req.Room)) {
		return appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("invalid room code %q", req.Room))
	}
	for _, group := range req.Groups {
		if !voice.ValidGroupCode(strings.TrimSpace(group)) {
			return appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("invalid group code %q", group))
		}
	}
	return nil
}

// validateWeekStart requires an ISO date falling on a Monday.
func validateWeekStart(weekStart string) error {
	day, err := time.Parse("2006-01-02", weekStart)
	if err != nil {
		return appErrors.Clone(appErrors.ErrValidation, "week_start must be an ISO date (YYYY-MM-DD)")
	}
	if day.Weekday() != time.Monday {
		return appErrors.Clone(appErrors.ErrValidation, "week_start must fall on a Monday")
	}
	return nil
}

func periodWithinShift(shift string, period int) bool {
	for _, sched := range lexicon.Timetable {
		if string(sched.Shift) == shift {
			return period >= 1 && period <= len(sched.Times)
		}
	}
	return false
}

func normalizeGroups(groups []string) pq.StringArray {
	seen := make(map[string]struct{}, len(groups))
	out := make(pq.StringArray, 0, len(groups))
	for _, group := range groups {
		code := strings.ToUpper(strings.TrimSpace(group))
		if code == "" {
			continue
		}
		if _, dup := seen[code]; dup {
			continue
		}
		seen[code] = struct{}{}
		out = append(out, code)
	}
	return out
}

// buildWeekGrid lays lessons over the shift timetable, one cell per period.
func buildWeekGrid(weekStart string, lessons []models.Lesson) *dto.WeekScheduleResponse {
	bySlot := make(map[string]*models.Lesson, len(lessons))
	for i := range lessons {
		lesson := lessons[i]
		key := fmt.Sprintf("%s|%s|%d", lesson.Day, lesson.Shift, lesson.Period)
		bySlot[key] = &lesson
	}

	days := make([]dto.DayGrid, 0, len(lexicon.Days))
	for _, day := range lexicon.Days {
		shifts := make([]dto.ShiftGrid, 0, len(lexicon.Timetable))
		for _, sched := range lexicon.Timetable {
			periods := make([]dto.PeriodCell, 0, len(sched.Times))
			for _, slot := range sched.Times {
				key := fmt.Sprintf("%s|%s|%d", day, sched.Shift, slot.Period)
				periods = append(periods, dto.PeriodCell{
					Period: slot.Period,
					Time:   slot.Time,
					Lesson: bySlot[key],
				})
			}
			shifts = append(shifts, dto.ShiftGrid{
				Shift:   string(sched.Shift),
				Label:   sched.Label,
				Periods: periods,
			})
		}
		days = append(days, dto.DayGrid{
			Day:    string(day),
			Label:  lexicon.DayLabel(day),
			Shifts: shifts,
		})
	}

	return &dto.WeekScheduleResponse{WeekStart: weekStart, Days: days}
}

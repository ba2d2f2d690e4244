package dto

import "github.com/jadval-app/jadval-api/internal/models"

// LessonRequest captures create/update payloads for a lesson slot.
type LessonRequest struct {
	WeekStart string   `json:"week_start" validate:"required"`
	Day       string   `json:"day" validate:"required"`
	Shift     string   `json:"shift" validate:"required"`
	Period    int      `json:"period" validate:"required,min=1,max=4"`
	Subject   string   `json:"subject" validate:"required"`
	Room      string   `json:"room" validate:"required"`
	Teacher   string   `json:"teacher" validate:"required"`
	Groups    []string `json:"groups" validate:"required,min=1"`
	Type      string   `json:"type" validate:"required"`
}

// CopyWeekRequest captures POST /lessons/copy-week payload.
type CopyWeekRequest struct {
	FromWeek string `json:"from_week" validate:"required"`
	ToWeek   string `json:"to_week" validate:"required,nefield=FromWeek"`
}

// CopyWeekResponse reports how many lessons were copied.
type CopyWeekResponse struct {
	FromWeek string `json:"from_week"`
	ToWeek   string `json:"to_week"`
	Copied   int    `json:"copied"`
}

// PeriodCell is one period slot of the rendered week grid.
type PeriodCell struct {
	Period int            `json:"period"`
	Time   string         `json:"time"`
	Lesson *models.Lesson `json:"lesson,omitempty"`
}

// ShiftGrid groups one shift's periods for a day.
type ShiftGrid struct {
	Shift   string       `json:"shift"`
	Label   string       `json:"label"`
	Periods []PeriodCell `json:"periods"`
}

// DayGrid groups one day's shifts.
type DayGrid struct {
	Day    string      `json:"day"`
	Label  string      `json:"label"`
	Shifts []ShiftGrid `json:"shifts"`
}

// WeekScheduleResponse renders a full week as a timetable grid.
type WeekScheduleResponse struct {
	WeekStart string    `json:"week_start"`
	Days      []DayGrid `json:"days"`
}

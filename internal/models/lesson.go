package models

import (
	"time"

	"github.com/lib/pq"
)

// Lesson is one scheduled lesson occupying a slot of a week. A slot is the
// combination of week start date, day, shift and period; committing into an
// occupied slot replaces the previous lesson.
type Lesson struct {
	ID        string         `db:"id" json:"id"`
	WeekStart string         `db:"week_start" json:"week_start"`
	Day       string         `db:"day" json:"day"`
	Shift     string         `db:"shift" json:"shift"`
	Period    int            `db:"period" json:"period"`
	Subject   string         `db:"subject" json:"subject"`
	Room      string         `db:"room" json:"room"`
	Teacher   string         `db:"teacher" json:"teacher"`
	Groups    pq.StringArray `db:"groups" json:"groups"`
	Type      string         `db:"type" json:"type"`
	UpdatedBy string         `db:"updated_by" json:"updated_by"`
	CreatedAt time.Time      `db:"created_at" json:"created_at"`
	UpdatedAt time.Time      `db:"updated_at" json:"updated_at"`
}

// LessonFilter describes query params for listing lessons.
type LessonFilter struct {
	WeekStart string
	Day       string
	Shift     string
	Teacher   string
	Group     string
	Page      int
	PageSize  int
}

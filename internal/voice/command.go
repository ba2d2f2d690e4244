// Package voice implements the lesson command interpreter: a deterministic,
// dictionary-driven pipeline that turns a transcribed (or typed) sentence
// into a structured lesson draft. The expected sentence template is
//
//	[day] [shift] [period]-para [subject...] [room] [groups...] [teacher] [type]
//
// for example "Dushanba kunduzgi 1-para Matematika JM403 JM403 JM405 Karimov
// ma'ruza". Input in an auxiliary language is first rewritten into canonical
// vocabulary by Normalize, then sliced into slots by Parse. Every recognition
// failure degrades to an absent field; the pipeline never returns errors.
package voice

import (
	"regexp"

	"github.com/jadval-app/jadval-api/internal/lexicon"
)

// Code shapes for rooms (JM403, A101, B205a) and groups (JM403, IT201).
// The two shapes overlap; the occurrence claimed by the room slot is skipped
// during group extraction.
var (
	roomPattern  = regexp.MustCompile(`\b[A-Za-z]{1,3}\d{3}[A-Za-z]?\b`)
	groupPattern = regexp.MustCompile(`\b[A-Za-z]{2,3}\d{3}\b`)

	roomTokenPattern  = regexp.MustCompile(`^[A-Za-z]{1,3}\d{3}[A-Za-z]?$`)
	groupTokenPattern = regexp.MustCompile(`^[A-Za-z]{2,3}\d{3}$`)

	periodPattern        = regexp.MustCompile(`(\d+)\s*[-\s]?\s*(para|paraga|пара|pair)`)
	compactPeriodPattern = regexp.MustCompile(`(?i)^\d+-?para$`)
)

// ValidRoomCode reports whether the value matches the room code shape.
func ValidRoomCode(code string) bool {
	return roomTokenPattern.MatchString(code)
}

// ValidGroupCode reports whether the value matches the group code shape.
func ValidGroupCode(code string) bool {
	return groupTokenPattern.MatchString(code)
}

// Field labels reported through MissingFields, in the fixed canonical order.
const (
	FieldDay     = "Kun"
	FieldShift   = "Bo'lim"
	FieldPeriod  = "Para"
	FieldSubject = "Fan nomi"
	FieldRoom    = "Xona"
	FieldGroups  = "Guruhlar"
	FieldTeacher = "O'qituvchi"
	FieldType    = "Dars turi"
)

// ParsedCommand is the structured result of interpreting one sentence.
// All slot fields are optional; absence means the slot was not recognized.
type ParsedCommand struct {
	Day     *lexicon.Day        `json:"day,omitempty"`
	Shift   *lexicon.Shift      `json:"shift,omitempty"`
	Period  *int                `json:"period,omitempty"`
	Subject *string             `json:"subject,omitempty"`
	Room    *string             `json:"room,omitempty"`
	Teacher *string             `json:"teacher,omitempty"`
	Groups  []string            `json:"groups,omitempty"`
	Type    *lexicon.LessonType `json:"type,omitempty"`

	// IsComplete is derived: true iff MissingFields is empty.
	IsComplete    bool     `json:"is_complete"`
	MissingFields []string `json:"missing_fields"`
}

// finalize derives MissingFields and IsComplete from the slot fields.
// It is the only place either is written.
func (c *ParsedCommand) finalize() {
	c.MissingFields = make([]string, 0, 8)
	if c.Day == nil {
		c.MissingFields = append(c.MissingFields, FieldDay)
	}
	if c.Shift == nil {
		c.MissingFields = append(c.MissingFields, FieldShift)
	}
	if c.Period == nil {
		c.MissingFields = append(c.MissingFields, FieldPeriod)
	}
	if c.Subject == nil {
		c.MissingFields = append(c.MissingFields, FieldSubject)
	}
	if c.Room == nil {
		c.MissingFields = append(c.MissingFields, FieldRoom)
	}
	if len(c.Groups) == 0 {
		c.MissingFields = append(c.MissingFields, FieldGroups)
	}
	if c.Teacher == nil {
		c.MissingFields = append(c.MissingFields, FieldTeacher)
	}
	if c.Type == nil {
		c.MissingFields = append(c.MissingFields, FieldType)
	}
	c.IsComplete = len(c.MissingFields) == 0
}

package dto

import "github.com/jadval-app/jadval-api/internal/voice"

// TranscriptAlternative is one extra capture-engine hypothesis.
type TranscriptAlternative struct {
	Text       string  `json:"text"`
	Confidence float64 `json:"confidence"`
}

// InterpretRequest captures POST /voice/interpret payload.
type InterpretRequest struct {
	Text         string                  `json:"text" validate:"required"`
	Language     string                  `json:"language"`
	Confidence   float64                 `json:"confidence"`
	Alternatives []TranscriptAlternative `json:"alternatives,omitempty"`
}

// InterpretResponse returns ranked interpretations, best first.
type InterpretResponse struct {
	Candidates []voice.Candidate `json:"candidates"`
	Best       *voice.Candidate  `json:"best,omitempty"`
	MaxScore   int               `json:"max_score"`
}

// CommitRequest captures POST /voice/commit payload: a reviewed command
// turned into a concrete lesson for a given week.
type CommitRequest struct {
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

// LanguageInfo describes one supported capture language. CaptureLocales
// lists the speech-capture locales to try for it, in fallback order.
type LanguageInfo struct {
	Code           string   `json:"code"`
	Label          string   `json:"label"`
	Canonical      bool     `json:"canonical"`
	CaptureLocales []string `json:"capture_locales"`
}

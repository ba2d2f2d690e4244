package service

import (
	"context"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/jadval-app/jadval-api/internal/dto"
	"github.com/jadval-app/jadval-api/internal/lexicon"
	"github.com/jadval-app/jadval-api/internal/models"
	"github.com/jadval-app/jadval-api/internal/voice"
	"github.com/jadval-app/jadval-api/pkg/config"
	appErrors "github.com/jadval-app/jadval-api/pkg/errors"
)

type lessonCommitter interface {
	Save(ctx context.Context, req dto.LessonRequest, updatedBy string) (*models.Lesson, error)
}

// VoiceService turns transcribed sentences into ranked lesson interpretations
// and commits reviewed commands into the schedule.
type VoiceService struct {
	lessons   lessonCommitter
	validator *validator.Validate
	logger    *zap.Logger
	metrics   *MetricsService
	cfg       config.VoiceConfig
}

// NewVoiceService constructs a VoiceService instance.
func NewVoiceService(lessons lessonCommitter, validate *validator.Validate, logger *zap.Logger, metrics *MetricsService, cfg config.VoiceConfig) *VoiceService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	if cfg.MinTextLength <= 0 {
		cfg.MinTextLength = 5
	}
	if cfg.MaxAlternatives <= 0 {
		cfg.MaxAlternatives = 3
	}
	if cfg.TopCandidates <= 0 {
		cfg.TopCandidates = voice.DefaultKeep
	}
	if cfg.DefaultLanguage == "" {
		cfg.DefaultLanguage = string(lexicon.LangUzbek)
	}
	return &VoiceService{lessons: lessons, validator: validate, logger: logger, metrics: metrics, cfg: cfg}
}

// Interpret normalizes, parses and ranks the transcript plus its alternatives.
func (s *VoiceService) Interpret(ctx context.Context, req dto.InterpretRequest) (*dto.InterpretResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid interpret payload")
	}

	text := strings.TrimSpace(req.Text)
	if len([]rune(text)) < s.cfg.MinTextLength {
		return nil, appErrors.Clone(appErrors.ErrTextTooShort, "")
	}

	lang, err := s.resolveLanguage(req.Language)
	if err != nil {
		return nil, err
	}

	alternatives := req.Alternatives
	if len(alternatives) > s.cfg.MaxAlternatives {
		alternatives = alternatives[:s.cfg.MaxAlternatives]
	}
	transcripts := make([]voice.Transcript, 0, len(alternatives))
	for _, alt := range alternatives {
		transcripts = append(transcripts, voice.Transcript{Text: alt.Text, Confidence: alt.Confidence})
	}

	candidates := voice.Rank(voice.Transcript{Text: text, Confidence: req.Confidence}, transcripts, lang, s.cfg.TopCandidates)

	resp := &dto.InterpretResponse{Candidates: candidates, MaxScore: voice.MaxScore}
	if len(candidates) > 0 {
		resp.Best = &candidates[0]
	}

	if s.metrics != nil {
		complete := resp.Best != nil && resp.Best.Command.IsComplete
		s.metrics.RecordInterpretation(string(lang), complete)
	}

	s.logger.Debug("interpreted voice command",
		zap.String("language", string(lang)),
		zap.Int("candidates", len(candidates)),
	)
	return resp, nil
}

// Commit stores a reviewed command as a lesson in the target week.
// Incomplete payloads are rejected with the canonical missing-field labels
// so clients can render the same checklist Interpret produces.
func (s *VoiceService) Commit(ctx context.Context, req dto.CommitRequest, updatedBy string) (*models.Lesson, error) {
	if missing := missingCommitFields(req); len(missing) > 0 {
		return nil, appErrors.Clone(appErrors.ErrIncompleteCommand,
			appErrors.ErrIncompleteCommand.Message+": "+strings.Join(missing, ", "))
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid commit payload")
	}

	lesson, err := s.lessons.Save(ctx, dto.LessonRequest{
		WeekStart: req.WeekStart,
		Day:       req.Day,
		Shift:     req.Shift,
		Period:    req.Period,
		Subject:   req.Subject,
		Room:      req.Room,
		Teacher:   req.Teacher,
		Groups:    req.Groups,
		Type:      req.Type,
	}, updatedBy)
	if err != nil {
		return nil, err
	}

	s.logger.Info("committed voice command",
		zap.String("week", lesson.WeekStart),
		zap.String("day", lesson.Day),
		zap.String("shift", lesson.Shift),
		zap.Int("period", lesson.Period),
	)
	return lesson, nil
}

// Languages lists the supported capture languages.
func (s *VoiceService) Languages() []dto.LanguageInfo {
	// tr-TR serves as a phonetic stand-in where uz-UZ capture is unavailable.
	return []dto.LanguageInfo{
		{Code: string(lexicon.LangUzbek), Label: "O'zbekcha", Canonical: true, CaptureLocales: []string{"uz-UZ", "tr-TR"}},
		{Code: string(lexicon.LangRussian), Label: "Русский", CaptureLocales: []string{"ru-RU"}},
		{Code: string(lexicon.LangEnglish), Label: "English", CaptureLocales: []string{"en-US"}},
	}
}

// missingCommitFields lists the empty slots of a commit payload using the
// same labels, in the same order, as ParsedCommand.MissingFields.
func missingCommitFields(req dto.CommitRequest) []string {
	var missing []string
	if strings.TrimSpace(req.Day) == "" {
		missing = append(missing, voice.FieldDay)
	}
	if strings.TrimSpace(req.Shift) == "" {
		missing = append(missing, voice.FieldShift)
	}
	if req.Period == 0 {
		missing = append(missing, voice.FieldPeriod)
	}
	if strings.TrimSpace(req.Subject) == "" {
		missing = append(missing, voice.FieldSubject)
	}
	if strings.TrimSpace(req.Room) == "" {
		missing = append(missing, voice.FieldRoom)
	}
	if len(req.Groups) == 0 {
		missing = append(missing, voice.FieldGroups)
	}
	if strings.TrimSpace(req.Teacher) == "" {
		missing = append(missing, voice.FieldTeacher)
	}
	if strings.TrimSpace(req.Type) == "" {
		missing = append(missing, voice.FieldType)
	}
	return missing
}

func (s *VoiceService) resolveLanguage(raw string) (lexicon.Language, error) {
	code := strings.ToLower(strings.TrimSpace(raw))
	if code == "" {
		code = s.cfg.DefaultLanguage
	}
	switch lexicon.Language(code) {
	case lexicon.LangUzbek, lexicon.LangRussian, lexicon.LangEnglish:
		return lexicon.Language(code), nil
	default:
		return "", appErrors.Clone(appErrors.ErrUnsupportedLang, "unsupported language "+code)
	}
}

package voice

import (
	"sort"
	"strings"

	"github.com/jadval-app/jadval-api/internal/lexicon"
)

// MaxScore is the highest achievable candidate score: seven two-point slots,
// one point for the lesson type and a three-point completeness bonus.
const MaxScore = 18

// DefaultKeep is how many ranked candidates are retained for presentation.
const DefaultKeep = 3

// Transcript is one capture-engine hypothesis: the recognized text plus an
// optional confidence in [0,1] (zero when the engine reports none).
type Transcript struct {
	Text       string
	Confidence float64
}

// Candidate is one scored interpretation of one transcript alternative.
// Candidates are value objects: built once, never mutated after scoring.
type Candidate struct {
	Transcript string        `json:"transcript"`
	Normalized string        `json:"normalized"`
	Translated bool          `json:"translated"`
	Command    ParsedCommand `json:"command"`
	Score      int           `json:"score"`
	Confidence float64       `json:"confidence"`
}

// Score rates a parsed command by slot coverage: two points for each of day,
// shift, period, subject, room, groups and teacher, one for the lesson type,
// plus a three-point bonus when the command is fully complete.
func Score(cmd ParsedCommand) int {
	score := 0
	if cmd.Day != nil {
		score += 2
	}
	if cmd.Shift != nil {
		score += 2
	}
	if cmd.Period != nil {
		score += 2
	}
	if cmd.Subject != nil {
		score += 2
	}
	if cmd.Room != nil {
		score += 2
	}
	if len(cmd.Groups) > 0 {
		score += 2
	}
	if cmd.Teacher != nil {
		score += 2
	}
	if cmd.Type != nil {
		score++
	}
	if cmd.IsComplete {
		score += 3
	}
	return score
}

// Rank normalizes, parses and scores the primary transcript plus its
// alternatives and returns the best interpretations first. Alternatives that
// normalize to the same text collapse into one candidate, keeping the
// higher-scoring parse. Ordering is by score, then capture confidence, and
// is otherwise stable, so equal candidates keep their original relative
// order. At most keep candidates are returned (DefaultKeep when keep <= 0).
func Rank(primary Transcript, alternatives []Transcript, lang lexicon.Language, keep int) []Candidate {
	if keep <= 0 {
		keep = DefaultKeep
	}

	transcripts := make([]Transcript, 0, len(alternatives)+1)
	transcripts = append(transcripts, primary)
	transcripts = append(transcripts, alternatives...)

	index := make(map[string]int, len(transcripts))
	candidates := make([]Candidate, 0, len(transcripts))

	for _, t := range transcripts {
		text := strings.TrimSpace(t.Text)
		if text == "" {
			continue
		}
		normalized, translated := Normalize(text, lang)
		cmd := Parse(normalized)
		candidate := Candidate{
			Transcript: text,
			Normalized: normalized,
			Translated: translated,
			Command:    cmd,
			Score:      Score(cmd),
			Confidence: t.Confidence,
		}

		if at, dup := index[normalized]; dup {
			if candidate.Score > candidates[at].Score {
				candidates[at] = candidate
			}
			continue
		}
		index[normalized] = len(candidates)
		candidates = append(candidates, candidate)
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		if candidates[i].Score != candidates[j].Score {
			return candidates[i].Score > candidates[j].Score
		}
		return candidates[i].Confidence > candidates[j].Confidence
	})

	if len(candidates) > keep {
		candidates = candidates[:keep]
	}
	return candidates
}

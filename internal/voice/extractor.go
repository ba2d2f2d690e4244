package voice

import (
	"strconv"
	"strings"
	"unicode"

	"github.com/jadval-app/jadval-api/internal/lexicon"
)

// Parse extracts lesson slots from canonical-language text. It never fails:
// every slot that cannot be recognized is simply left absent and reported in
// MissingFields.
//
// Subject and teacher are recovered positionally from the assumed sentence
// template: everything before the last room/group code that is not a known
// category word is the subject, everything after it is the teacher. Inputs
// that deviate from the template (a teacher name containing a digit, subject
// words after the room code) are misread by design; this is a documented
// limitation of the template heuristic, not something Parse tries to repair.
func Parse(text string) ParsedCommand {
	trimmed := strings.TrimSpace(text)
	lowerText := strings.ToLower(trimmed)
	rawTokens := strings.Fields(trimmed)
	lowerTokens := make([]string, len(rawTokens))
	for i, token := range rawTokens {
		lowerTokens[i] = strings.ToLower(token)
	}

	var cmd ParsedCommand

	if day, ok := lexicon.MatchDay(lowerText); ok {
		cmd.Day = &day
	}
	if shift, ok := lexicon.MatchShift(lowerText); ok {
		cmd.Shift = &shift
	}
	if period, ok := extractPeriod(lowerText); ok {
		cmd.Period = &period
	}
	if lessonType, ok := lexicon.MatchType(lowerText); ok {
		cmd.Type = &lessonType
	}

	// First code of room shape wins the room slot; matched against the
	// original text so case information survives until the final uppercase.
	// Its occurrence is consumed: that span is skipped during group
	// collection, while later repeats of the same code still count as a
	// group (the spoken template repeats the room code when the lesson is
	// held in the group's own room).
	roomSpan := roomPattern.FindStringIndex(trimmed)
	if roomSpan != nil {
		upper := strings.ToUpper(trimmed[roomSpan[0]:roomSpan[1]])
		cmd.Room = &upper
	}

	cmd.Groups = extractGroups(trimmed, roomSpan)

	subject, teacher := splitSubjectTeacher(rawTokens, lowerTokens)
	if subject != "" {
		cmd.Subject = &subject
	}
	if teacher != "" {
		cmd.Teacher = &teacher
	}

	cmd.finalize()
	return cmd
}

// extractPeriod tries the compact numeric form first ("1-para", "2 пара"),
// then falls back to ordinal words in any supported language, checked in
// ascending period order so classification stays deterministic.
func extractPeriod(lowerText string) (int, bool) {
	if m := periodPattern.FindStringSubmatch(lowerText); m != nil {
		if n, err := strconv.Atoi(m[1]); err == nil {
			return n, true
		}
	}
	for n := 1; n <= 4; n++ {
		for word, value := range lexicon.Ordinals {
			if value == n && strings.Contains(lowerText, word) {
				return n, true
			}
		}
	}
	return 0, false
}

// extractGroups collects all group-shaped codes, uppercased, skipping the
// occurrence consumed by the room slot and dropping duplicates while
// preserving first-seen order.
func extractGroups(text string, roomSpan []int) []string {
	matches := groupPattern.FindAllStringIndex(text, -1)
	if len(matches) == 0 {
		return nil
	}
	seen := make(map[string]struct{}, len(matches))
	var groups []string
	for _, span := range matches {
		if roomSpan != nil && span[0] < roomSpan[1] && span[1] > roomSpan[0] {
			continue
		}
		code := strings.ToUpper(text[span[0]:span[1]])
		if _, dup := seen[code]; dup {
			continue
		}
		seen[code] = struct{}{}
		groups = append(groups, code)
	}
	return groups
}

// splitSubjectTeacher separates the free-text slots around the last
// room/group-shaped token. When no code exists anywhere, a cruder heuristic
// on the filtered token list takes the last words as the teacher.
func splitSubjectTeacher(rawTokens, lowerTokens []string) (subject, teacher string) {
	lastCodeIndex := -1
	for i, token := range rawTokens {
		if roomTokenPattern.MatchString(token) || groupTokenPattern.MatchString(token) {
			lastCodeIndex = i
		}
	}

	if lastCodeIndex >= 0 {
		var subjectTokens, teacherTokens []string
		for i := 0; i < lastCodeIndex; i++ {
			if !ignorableToken(rawTokens[i], lowerTokens[i]) {
				subjectTokens = append(subjectTokens, rawTokens[i])
			}
		}
		for i := lastCodeIndex + 1; i < len(rawTokens); i++ {
			if !ignorableToken(rawTokens[i], lowerTokens[i]) {
				teacherTokens = append(teacherTokens, rawTokens[i])
			}
		}
		return capitalizeWords(subjectTokens), capitalizeWords(teacherTokens)
	}

	var cleaned []string
	for i, lower := range lowerTokens {
		if !ignorableToken(rawTokens[i], lower) {
			cleaned = append(cleaned, lower)
		}
	}
	switch {
	case len(cleaned) >= 3:
		return capitalizeWords(cleaned[:len(cleaned)-2]), capitalizeWords(cleaned[len(cleaned)-2:])
	case len(cleaned) == 2:
		return capitalizeWords(cleaned[:1]), capitalizeWords(cleaned[1:])
	case len(cleaned) == 1:
		return capitalizeWords(cleaned), ""
	default:
		return "", ""
	}
}

// ignorableToken reports whether a token belongs to a recognized category and
// must therefore be excluded from subject/teacher text.
func ignorableToken(raw, lower string) bool {
	if lexicon.IsStopWord(lower) {
		return true
	}
	if compactPeriodPattern.MatchString(lower) {
		return true
	}
	if roomTokenPattern.MatchString(raw) || groupTokenPattern.MatchString(raw) {
		return true
	}
	return false
}

// capitalizeWords uppercases the first letter of each word, leaving the rest
// of the word unchanged.
func capitalizeWords(words []string) string {
	out := make([]string, 0, len(words))
	for _, word := range words {
		runes := []rune(word)
		if len(runes) > 0 {
			runes[0] = unicode.ToUpper(runes[0])
		}
		out = append(out, string(runes))
	}
	return strings.Join(out, " ")
}

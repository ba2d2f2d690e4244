package voice

import (
	"fmt"
	"strings"

	"github.com/jadval-app/jadval-api/internal/lexicon"
)

// cardinalWords supplements the ordinal table with plain number words, used
// only for the ordinal+unit contraction (token-exact, never substring).
var cardinalWords = map[string]int{
	"bir": 1, "ikki": 2, "uch": 3, "to'rt": 4,
	"один": 1, "два": 2, "три": 3, "четыре": 4,
	"one": 1, "two": 2, "three": 3, "four": 4,
}

// Normalize rewrites a source-language sentence into canonical vocabulary,
// token by token. Day, shift, lesson-type, ordinal and filler words are
// translated or dropped; room/group codes and unrecognized words (subject
// and teacher names) pass through untouched. The returned flag reports
// whether anything changed relative to the trimmed input; it exists for
// display purposes only and never gates correctness.
//
// Ordinal+unit phrases are contracted first ("first period" and "period 1"
// both become "1-para") so the two-word phrase is not split by the
// word-by-word pass.
func Normalize(text string, lang lexicon.Language) (string, bool) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return trimmed, false
	}

	tokens := strings.Fields(trimmed)
	out := make([]string, 0, len(tokens))
	modified := false

	for i := 0; i < len(tokens); i++ {
		token := tokens[i]
		lower := strings.ToLower(token)

		// "first period", "первая пара", "birinchi para" -> "1-para"
		if n, ok := ordinalNumber(lower); ok && i+1 < len(tokens) && lexicon.IsPeriodUnit(strings.ToLower(tokens[i+1])) {
			out = append(out, fmt.Sprintf("%d-para", n))
			modified = true
			i++
			continue
		}

		// "period 1", "class 2" -> "1-para", "2-para"
		if lexicon.IsPeriodUnit(lower) && i+1 < len(tokens) && allDigits(tokens[i+1]) {
			out = append(out, tokens[i+1]+"-para")
			modified = true
			i++
			continue
		}

		// Room/group codes survive as-is, uppercased.
		if roomTokenPattern.MatchString(token) {
			out = append(out, strings.ToUpper(token))
			continue
		}

		// Already in compact period form.
		if compactPeriodPattern.MatchString(token) {
			out = append(out, token)
			continue
		}

		if day, ok := lexicon.DayTranslations[lang][lower]; ok {
			out = append(out, day)
			modified = modified || day != lower
			continue
		}
		if shift, ok := lexicon.ShiftTranslations[lang][lower]; ok {
			out = append(out, shift)
			modified = modified || shift != lower
			continue
		}
		if lessonType, ok := lexicon.TypeTranslations[lang][lower]; ok {
			out = append(out, lessonType)
			modified = modified || lessonType != lower
			continue
		}

		if lexicon.IsFiller(lower, lang) {
			modified = true
			continue
		}

		// Anything else is assumed to be part of the subject or teacher name.
		out = append(out, token)
	}

	normalized := strings.Join(out, " ")
	if normalized != trimmed {
		modified = true
	}
	return normalized, modified
}

// ordinalNumber resolves an ordinal or number word in any supported language
// to its period number, contraction-only ("2" and "two" count here, unlike
// the extractor's substring fallback).
func ordinalNumber(lower string) (int, bool) {
	if n, ok := lexicon.Ordinals[lower]; ok {
		return n, true
	}
	if n, ok := cardinalWords[lower]; ok {
		return n, true
	}
	if allDigits(lower) && len(lower) <= 2 {
		var n int
		for _, r := range lower {
			n = n*10 + int(r-'0')
		}
		return n, true
	}
	return 0, false
}

func allDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

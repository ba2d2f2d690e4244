// Package lexicon holds the static vocabulary tables the voice interpreter
// operates on: canonical weekday, shift and lesson-type values with their
// canonical-language synonyms, plus per-language translation tables used by
// the cross-language normalizer. The canonical language is Uzbek; Russian and
// English are supported as direct or phonetic-proxy capture languages.
//
// The tables are plain data so the normalizer and extractor stay pure
// functions over them. Synonym sets within one category must be disjoint;
// Validate enforces this and is exercised by tests.
package lexicon

import (
	"fmt"
	"strings"
)

// Day is a canonical weekday value (Monday through Friday).
type Day string

const (
	Dushanba   Day = "dushanba"
	Seshanba   Day = "seshanba"
	Chorshanba Day = "chorshanba"
	Payshanba  Day = "payshanba"
	Juma       Day = "juma"
)

// Shift is a canonical session of the day under which periods are scheduled.
type Shift string

const (
	Kunduzgi Shift = "kunduzgi" // morning / daytime
	Sirtqi   Shift = "sirtqi"   // afternoon / correspondence
	Kechki   Shift = "kechki"   // evening
)

// LessonType is a canonical lesson category.
type LessonType string

const (
	Maruza       LessonType = "ma'ruza"
	Amaliy       LessonType = "amaliy"
	Seminar      LessonType = "seminar"
	Laboratoriya LessonType = "laboratoriya"
)

// Language identifies a supported input language.
type Language string

const (
	LangUzbek   Language = "uz"
	LangRussian Language = "ru"
	LangEnglish Language = "en"
)

// Days lists canonical weekdays in schedule order. Matching iterates this
// slice so classification stays deterministic.
var Days = []Day{Dushanba, Seshanba, Chorshanba, Payshanba, Juma}

// Shifts lists canonical shifts in timetable order.
var Shifts = []Shift{Kunduzgi, Sirtqi, Kechki}

// LessonTypes lists canonical lesson categories.
var LessonTypes = []LessonType{Maruza, Amaliy, Seminar, Laboratoriya}

// DaySynonyms maps each canonical day to its lowercase canonical-language
// surface forms, including common case inflections. Cross-language forms are
// handled by the normalizer's translation tables before extraction.
var DaySynonyms = map[Day][]string{
	Dushanba:   {"dushanba", "dushanbaga"},
	Seshanba:   {"seshanba", "seshanbaga"},
	Chorshanba: {"chorshanba", "chorshanbaga"},
	Payshanba:  {"payshanba", "payshanbaga"},
	Juma:       {"juma", "jumaga"},
}

// ShiftSynonyms maps each canonical shift to its surface forms.
var ShiftSynonyms = map[Shift][]string{
	Kunduzgi: {"kunduzgi", "kunduzi", "ertalab"},
	Sirtqi:   {"sirtqi", "tushdan keyin", "tushlik"},
	Kechki:   {"kechki", "kechqurun", "oqshom"},
}

// TypeSynonyms maps each canonical lesson type to its surface forms.
// Loanwords that survive transcription untranslated are included.
var TypeSynonyms = map[LessonType][]string{
	Maruza:       {"ma'ruza", "maruza", "leksiya"},
	Amaliy:       {"amaliy", "amaliyot", "praktika"},
	Seminar:      {"seminar", "seminari"},
	Laboratoriya: {"laboratoriya", "lab", "labaratoriya"},
}

// DayTranslations rewrites source-language day words to canonical tokens.
var DayTranslations = map[Language]map[string]string{
	LangEnglish: {
		"monday": "dushanba", "mon": "dushanba",
		"tuesday": "seshanba", "tue": "seshanba", "tues": "seshanba",
		"wednesday": "chorshanba", "wed": "chorshanba",
		"thursday": "payshanba", "thu": "payshanba", "thurs": "payshanba",
		"friday": "juma", "fri": "juma",
	},
	LangRussian: {
		"понедельник": "dushanba",
		"вторник":     "seshanba",
		"среда":       "chorshanba", "среду": "chorshanba",
		"четверг": "payshanba",
		"пятница": "juma", "пятницу": "juma",
	},
}

// ShiftTranslations rewrites source-language shift words to canonical tokens.
var ShiftTranslations = map[Language]map[string]string{
	LangEnglish: {
		"morning": "kunduzgi", "daytime": "kunduzgi", "day": "kunduzgi",
		"afternoon": "sirtqi", "external": "sirtqi",
		"evening": "kechki", "night": "kechki",
	},
	LangRussian: {
		"утренний": "kunduzgi", "утро": "kunduzgi", "дневной": "kunduzgi", "дневное": "kunduzgi",
		"заочный": "sirtqi", "заочное": "sirtqi",
		"вечерний": "kechki", "вечернее": "kechki",
	},
}

// TypeTranslations rewrites source-language lesson-type words to canonical tokens.
var TypeTranslations = map[Language]map[string]string{
	LangEnglish: {
		"lecture": "ma'ruza", "lectures": "ma'ruza",
		"practical": "amaliy", "practice": "amaliy", "practicals": "amaliy",
		"seminar": "seminar", "seminars": "seminar",
		"laboratory": "laboratoriya", "lab": "laboratoriya", "labs": "laboratoriya",
	},
	LangRussian: {
		"лекция": "ma'ruza", "лекцию": "ma'ruza",
		"практика": "amaliy", "практическое": "amaliy",
		"семинар": "seminar",
		"лаборатория": "laboratoriya", "лабораторная": "laboratoriya",
	},
}

// Ordinals maps ordinal words in any supported language to period numbers.
// The extractor falls back to these when no compact "N-para" form is present.
var Ordinals = map[string]int{
	"birinchi": 1, "ikkinchi": 2, "uchinchi": 3, "to'rtinchi": 4,
	"первая": 1, "первый": 1, "вторая": 2, "второй": 2,
	"третья": 3, "третий": 3, "четвертая": 4, "четвёртая": 4, "четвертый": 4,
	"first": 1, "1st": 1, "second": 2, "2nd": 2,
	"third": 3, "3rd": 3, "fourth": 4, "4th": 4,
}

// PeriodUnits holds the "period/class" unit words that pair with an ordinal
// or digit to denote a period, in every supported language. The canonical
// compact form is "<N>-para".
var PeriodUnits = []string{"para", "paraga", "пара", "пару", "пары", "pair", "period", "class", "lesson"}

// Fillers lists per-language words the normalizer drops entirely: grammar
// glue and slot-label words that carry no slot value of their own.
var Fillers = map[Language][]string{
	LangEnglish: {
		"room", "teacher", "group", "groups", "subject", "lesson",
		"the", "a", "an", "in", "at", "for", "and", "with", "of", "to", "is",
	},
	LangRussian: {
		"в", "на", "и", "с", "для", "у",
		"кабинет", "аудитория", "группа", "группы", "преподаватель", "учитель", "предмет", "урок",
	},
}

// TimeSlot is one period's start time within a shift.
type TimeSlot struct {
	Period int
	Time   string
}

// ShiftSchedule describes the timetable of one shift.
type ShiftSchedule struct {
	Shift Shift
	Label string
	Times []TimeSlot
}

// Timetable lists period start times per shift, used by schedule rendering.
var Timetable = []ShiftSchedule{
	{Shift: Kunduzgi, Label: "Kunduzgi", Times: []TimeSlot{{1, "08:30"}, {2, "10:00"}, {3, "12:00"}}},
	{Shift: Sirtqi, Label: "Sirtqi", Times: []TimeSlot{{1, "13:30"}, {2, "15:00"}, {3, "16:30"}}},
	{Shift: Kechki, Label: "Kechki", Times: []TimeSlot{{1, "18:00"}, {2, "19:30"}}},
}

// MatchDay returns the first canonical day whose synonym occurs as a
// substring of the lowercased text.
func MatchDay(lowerText string) (Day, bool) {
	for _, day := range Days {
		for _, alias := range DaySynonyms[day] {
			if strings.Contains(lowerText, alias) {
				return day, true
			}
		}
	}
	return "", false
}

// MatchShift returns the first canonical shift found in the lowercased text.
func MatchShift(lowerText string) (Shift, bool) {
	for _, shift := range Shifts {
		for _, alias := range ShiftSynonyms[shift] {
			if strings.Contains(lowerText, alias) {
				return shift, true
			}
		}
	}
	return "", false
}

// MatchType returns the first canonical lesson type found in the lowercased text.
func MatchType(lowerText string) (LessonType, bool) {
	for _, lt := range LessonTypes {
		for _, alias := range TypeSynonyms[lt] {
			if strings.Contains(lowerText, alias) {
				return lt, true
			}
		}
	}
	return "", false
}

// IsFiller reports whether the lowercase token is a filler word for lang.
func IsFiller(word string, lang Language) bool {
	for _, f := range Fillers[lang] {
		if word == f {
			return true
		}
	}
	return false
}

// IsPeriodUnit reports whether the lowercase token is a period unit word.
func IsPeriodUnit(word string) bool {
	for _, u := range PeriodUnits {
		if word == u {
			return true
		}
	}
	return false
}

// IsStopWord reports whether a lowercase token belongs to any known category
// (day, shift, type, ordinal, unit or filler in any language) and therefore
// cannot be part of a subject or teacher name.
func IsStopWord(word string) bool {
	for _, day := range Days {
		for _, alias := range DaySynonyms[day] {
			if word == alias {
				return true
			}
		}
	}
	for _, shift := range Shifts {
		for _, alias := range ShiftSynonyms[shift] {
			if word == alias {
				return true
			}
		}
	}
	for _, lt := range LessonTypes {
		for _, alias := range TypeSynonyms[lt] {
			if word == alias {
				return true
			}
		}
	}
	if _, ok := Ordinals[word]; ok {
		return true
	}
	if IsPeriodUnit(word) {
		return true
	}
	for lang := range Fillers {
		if IsFiller(word, lang) {
			return true
		}
	}
	return false
}

// Labels for user-facing rendering of canonical values.
var (
	dayLabels = map[Day]string{
		Dushanba: "Dushanba", Seshanba: "Seshanba", Chorshanba: "Chorshanba",
		Payshanba: "Payshanba", Juma: "Juma",
	}
	shiftLabels = map[Shift]string{
		Kunduzgi: "Kunduzgi", Sirtqi: "Sirtqi", Kechki: "Kechki",
	}
	typeLabels = map[LessonType]string{
		Maruza: "Ma'ruza", Amaliy: "Amaliy", Seminar: "Seminar", Laboratoriya: "Laboratoriya",
	}
)

// DayLabel returns the display label for a canonical day.
func DayLabel(d Day) string { return dayLabels[d] }

// ShiftLabel returns the display label for a canonical shift.
func ShiftLabel(s Shift) string { return shiftLabels[s] }

// TypeLabel returns the display label for a canonical lesson type.
func TypeLabel(t LessonType) string { return typeLabels[t] }

// ValidDay reports whether the value is a canonical day.
func ValidDay(v string) bool {
	_, ok := dayLabels[Day(v)]
	return ok
}

// ValidShift reports whether the value is a canonical shift.
func ValidShift(v string) bool {
	_, ok := shiftLabels[Shift(v)]
	return ok
}

// ValidType reports whether the value is a canonical lesson type.
func ValidType(v string) bool {
	_, ok := typeLabels[LessonType(v)]
	return ok
}

// Validate checks the lexicon invariants: every canonical value has at least
// one synonym, synonyms are lowercase, and no synonym string appears under
// two canonical values of the same category. A violation is a configuration
// bug, caught by tests rather than handled at runtime.
func Validate() error {
	if err := validateDisjoint("day", daySets()); err != nil {
		return err
	}
	if err := validateDisjoint("shift", shiftSets()); err != nil {
		return err
	}
	if err := validateDisjoint("lesson type", typeSets()); err != nil {
		return err
	}
	for lang, table := range DayTranslations {
		if err := validateTranslations("day", lang, table, ValidDay); err != nil {
			return err
		}
	}
	for lang, table := range ShiftTranslations {
		if err := validateTranslations("shift", lang, table, ValidShift); err != nil {
			return err
		}
	}
	for lang, table := range TypeTranslations {
		if err := validateTranslations("lesson type", lang, table, ValidType); err != nil {
			return err
		}
	}
	return nil
}

func daySets() map[string][]string {
	out := make(map[string][]string, len(DaySynonyms))
	for k, v := range DaySynonyms {
		out[string(k)] = v
	}
	return out
}

func shiftSets() map[string][]string {
	out := make(map[string][]string, len(ShiftSynonyms))
	for k, v := range ShiftSynonyms {
		out[string(k)] = v
	}
	return out
}

func typeSets() map[string][]string {
	out := make(map[string][]string, len(TypeSynonyms))
	for k, v := range TypeSynonyms {
		out[string(k)] = v
	}
	return out
}

func validateDisjoint(category string, sets map[string][]string) error {
	seen := make(map[string]string)
	for canonical, aliases := range sets {
		if len(aliases) == 0 {
			return fmt.Errorf("lexicon: %s %q has no synonyms", category, canonical)
		}
		for _, alias := range aliases {
			if alias == "" {
				return fmt.Errorf("lexicon: %s %q contains an empty synonym", category, canonical)
			}
			if alias != strings.ToLower(alias) {
				return fmt.Errorf("lexicon: %s synonym %q must be lowercase", category, alias)
			}
			if owner, dup := seen[alias]; dup && owner != canonical {
				return fmt.Errorf("lexicon: %s synonym %q mapped to both %q and %q", category, alias, owner, canonical)
			}
			seen[alias] = canonical
		}
	}
	return nil
}

func validateTranslations(category string, lang Language, table map[string]string, valid func(string) bool) error {
	for word, canonical := range table {
		if word != strings.ToLower(word) {
			return fmt.Errorf("lexicon: %s %s translation %q must be lowercase", lang, category, word)
		}
		if !valid(canonical) {
			return fmt.Errorf("lexicon: %s %s translation %q targets unknown value %q", lang, category, word, canonical)
		}
	}
	return nil
}

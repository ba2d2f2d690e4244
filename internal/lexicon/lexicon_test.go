package lexicon

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidate(t *testing.T) {
	require.NoError(t, Validate())
}

func TestMatchDay(t *testing.T) {
	tests := []struct {
		name  string
		text  string
		want  Day
		found bool
	}{
		{"canonical form", "dushanba kunduzgi 1-para", Dushanba, true},
		{"dative inflection", "seshanbaga amaliy", Seshanba, true},
		{"mid sentence", "matematika payshanba kechki", Payshanba, true},
		{"no day", "matematika 1-para JM403", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			day, ok := MatchDay(tt.text)
			assert.Equal(t, tt.found, ok)
			assert.Equal(t, tt.want, day)
		})
	}
}

func TestMatchShift(t *testing.T) {
	tests := []struct {
		name  string
		text  string
		want  Shift
		found bool
	}{
		{"daytime", "dushanba kunduzgi", Kunduzgi, true},
		{"colloquial daytime", "juma kunduzi fizika", Kunduzgi, true},
		{"external", "sirtqi bo'lim", Sirtqi, true},
		{"evening", "chorshanba kechki seminar", Kechki, true},
		{"no shift", "dushanba 2-para", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			shift, ok := MatchShift(tt.text)
			assert.Equal(t, tt.found, ok)
			assert.Equal(t, tt.want, shift)
		})
	}
}

func TestMatchType(t *testing.T) {
	tests := []struct {
		name  string
		text  string
		want  LessonType
		found bool
	}{
		{"apostrophe form", "matematika ma'ruza", Maruza, true},
		{"plain form", "matematika maruza", Maruza, true},
		{"loanword", "fizika praktika", Amaliy, true},
		{"lab shorthand", "kimyo lab", Laboratoriya, true},
		{"no type", "dushanba kunduzgi", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lt, ok := MatchType(tt.text)
			assert.Equal(t, tt.found, ok)
			assert.Equal(t, tt.want, lt)
		})
	}
}

func TestIsStopWord(t *testing.T) {
	stopWords := []string{"dushanba", "kunduzgi", "ma'ruza", "birinchi", "первая", "para", "пара", "room", "кабинет"}
	for _, w := range stopWords {
		assert.True(t, IsStopWord(w), "expected stop word: %s", w)
	}

	contentWords := []string{"matematika", "karimov", "physics", "jm403"}
	for _, w := range contentWords {
		assert.False(t, IsStopWord(w), "unexpected stop word: %s", w)
	}
}

func TestTimetable(t *testing.T) {
	require.Len(t, Timetable, len(Shifts))

	seen := make(map[Shift]bool)
	for _, sched := range Timetable {
		assert.True(t, ValidShift(string(sched.Shift)))
		assert.NotEmpty(t, sched.Label)
		assert.False(t, seen[sched.Shift], "duplicate shift %s", sched.Shift)
		seen[sched.Shift] = true

		require.NotEmpty(t, sched.Times)
		for i, slot := range sched.Times {
			assert.Equal(t, i+1, slot.Period, "periods must be consecutive from 1")
			assert.Regexp(t, `^\d{2}:\d{2}$`, slot.Time)
		}
	}
}

func TestLabels(t *testing.T) {
	assert.Equal(t, "Dushanba", DayLabel(Dushanba))
	assert.Equal(t, "Kunduzgi", ShiftLabel(Kunduzgi))
	assert.Equal(t, "Ma'ruza", TypeLabel(Maruza))

	assert.True(t, ValidDay("juma"))
	assert.False(t, ValidDay("shanba"))
	assert.True(t, ValidShift("kechki"))
	assert.False(t, ValidShift("tungi"))
	assert.True(t, ValidType("seminar"))
	assert.False(t, ValidType("konsultatsiya"))
}

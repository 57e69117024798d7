package grade

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLetterForPercentage(t *testing.T) {
	tests := []struct {
		percentage float64
		want       Letter
	}{
		{100, LetterAPlus},
		{95, LetterAPlus},
		{94.99, LetterA},
		{90, LetterA},
		{85, LetterBPlus},
		{80, LetterB},
		{75, LetterCPlus},
		{70, LetterC},
		{69.9, LetterD},
		{60, LetterD},
		{59.99, LetterF},
		{55, LetterF},
		{0, LetterF},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, LetterForPercentage(tt.percentage), "percentage %v", tt.percentage)
	}
}

func TestNewGrade_Derived(t *testing.T) {
	tests := []struct {
		name       string
		value      float64
		maxValue   float64
		percentage float64
		letter     Letter
	}{
		{"19 of 20 is A+", 19, 20, 95.0, LetterAPlus},
		{"17 of 20 is B+", 17, 20, 85.0, LetterBPlus},
		{"11 of 20 is F", 11, 20, 55.0, LetterF},
		{"full marks", 20, 20, 100.0, LetterAPlus},
		{"zero marks", 0, 20, 0.0, LetterF},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g, err := NewGrade(NewGradeParams{
				ID:             "g1",
				StudentID:      "s1",
				CourseID:       "c1",
				Value:          tt.value,
				MaxValue:       tt.maxValue,
				EvaluationType: EvaluationQuiz,
				Semester:       SemesterFirst,
			})
			require.NoError(t, err)
			assert.InDelta(t, tt.percentage, g.Percentage, 1e-9)
			assert.Equal(t, tt.letter, g.Letter)
		})
	}
}

func TestNewGrade_Validation(t *testing.T) {
	base := NewGradeParams{
		ID:             "g1",
		StudentID:      "s1",
		CourseID:       "c1",
		Value:          10,
		MaxValue:       20,
		EvaluationType: EvaluationHomework,
		Semester:       SemesterSecond,
	}

	t.Run("negative grade", func(t *testing.T) {
		p := base
		p.Value = -1
		_, err := NewGrade(p)
		assert.ErrorIs(t, err, ErrNegativeGrade)
	})

	t.Run("above max", func(t *testing.T) {
		p := base
		p.Value = 21
		_, err := NewGrade(p)
		assert.ErrorIs(t, err, ErrGradeAboveMax)
	})

	t.Run("non-positive max", func(t *testing.T) {
		p := base
		p.MaxValue = -5
		_, err := NewGrade(p)
		assert.ErrorIs(t, err, ErrInvalidMaxGrade)
	})

	t.Run("missing student", func(t *testing.T) {
		p := base
		p.StudentID = ""
		_, err := NewGrade(p)
		assert.ErrorIs(t, err, ErrStudentRequired)
	})

	t.Run("unknown evaluation type", func(t *testing.T) {
		p := base
		p.EvaluationType = "vibe_check"
		_, err := NewGrade(p)
		assert.ErrorIs(t, err, ErrInvalidEvaluationType)
	})
}

func TestRefresh_Idempotent(t *testing.T) {
	g, err := NewGrade(NewGradeParams{
		ID:             "g1",
		StudentID:      "s1",
		CourseID:       "c1",
		Value:          13,
		MaxValue:       20,
		EvaluationType: EvaluationFinal,
		Semester:       SemesterFirst,
	})
	require.NoError(t, err)

	first, firstLetter := g.Percentage, g.Letter
	g.Refresh()
	g.Refresh()
	assert.Equal(t, first, g.Percentage)
	assert.Equal(t, firstLetter, g.Letter)
}

func TestRescore(t *testing.T) {
	g, err := NewGrade(NewGradeParams{
		ID:             "g1",
		StudentID:      "s1",
		CourseID:       "c1",
		Value:          10,
		MaxValue:       20,
		EvaluationType: EvaluationQuiz,
		Semester:       SemesterFirst,
	})
	require.NoError(t, err)

	require.NoError(t, g.Rescore(19, 20))
	assert.InDelta(t, 95.0, g.Percentage, 1e-9)
	assert.Equal(t, LetterAPlus, g.Letter)

	assert.Error(t, g.Rescore(25, 20))
	// Failed rescore leaves derived fields untouched.
	assert.InDelta(t, 95.0, g.Percentage, 1e-9)
}

package student

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alem-hub/school-records/pkg/timeutil"
)

func validParams() NewStudentParams {
	return NewStudentParams{
		ID:          "s1",
		Name:        "Aruzhan Nurlanova",
		Email:       "aruzhan@example.com",
		DateOfBirth: timeutil.Date(2014, 3, 12),
		Gender:      GenderFemale,
		Guardian: Guardian{
			Name:     "Nurlan Nurlanov",
			Phone:    "+7 701 000 0000",
			Relation: "father",
		},
	}
}

func TestNewStudent(t *testing.T) {
	s, err := NewStudent(validParams())
	require.NoError(t, err)

	assert.Equal(t, StatusDraft, s.Status)
	assert.True(t, s.Active)
	assert.Equal(t, timeutil.Today(), s.AdmissionDate)
	assert.Equal(t, "Nurlan Nurlanov", s.Guardian.Name)
}

func TestNewStudent_Validation(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*NewStudentParams)
		want   error
	}{
		{"empty name", func(p *NewStudentParams) { p.Name = "  " }, ErrNameRequired},
		{"email without at", func(p *NewStudentParams) { p.Email = "not-an-email" }, ErrInvalidEmail},
		{"future date of birth", func(p *NewStudentParams) {
			p.DateOfBirth = timeutil.Today().AddDate(1, 0, 0)
		}, ErrFutureDateOfBirth},
		{"unknown gender", func(p *NewStudentParams) { p.Gender = "unknown" }, ErrInvalidGender},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			params := validParams()
			tt.modify(&params)

			_, err := NewStudent(params)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestNewStudent_OptionalFieldsEmpty(t *testing.T) {
	params := validParams()
	params.Email = ""
	params.DateOfBirth = time.Time{}
	params.Gender = ""

	s, err := NewStudent(params)
	require.NoError(t, err)
	assert.Equal(t, 0, s.Age)
}

func TestRefreshAge(t *testing.T) {
	s, err := NewStudent(validParams())
	require.NoError(t, err)

	// День до и день после годовщины рождения.
	s.RefreshAge(timeutil.Date(2026, 3, 11))
	assert.Equal(t, 11, s.Age)

	s.RefreshAge(timeutil.Date(2026, 3, 12))
	assert.Equal(t, 12, s.Age)
}

func TestStatusTransitions(t *testing.T) {
	t.Run("draft to active to graduated", func(t *testing.T) {
		s, err := NewStudent(validParams())
		require.NoError(t, err)

		require.NoError(t, s.MarkActive())
		assert.Equal(t, StatusActive, s.Status)

		require.NoError(t, s.MarkGraduated())
		assert.Equal(t, StatusGraduated, s.Status)
	})

	t.Run("graduated is terminal", func(t *testing.T) {
		s, err := NewStudent(validParams())
		require.NoError(t, err)
		require.NoError(t, s.MarkActive())
		require.NoError(t, s.MarkGraduated())

		assert.ErrorIs(t, s.MarkActive(), ErrNotEnrolled)
		assert.ErrorIs(t, s.MarkSuspended(), ErrNotEnrolled)
		assert.ErrorIs(t, s.MarkExpelled(), ErrNotEnrolled)
	})

	t.Run("graduation requires active", func(t *testing.T) {
		s, err := NewStudent(validParams())
		require.NoError(t, err)

		assert.ErrorIs(t, s.MarkGraduated(), ErrNotEnrolled)
	})

	t.Run("suspended student can return", func(t *testing.T) {
		s, err := NewStudent(validParams())
		require.NoError(t, err)
		require.NoError(t, s.MarkActive())
		require.NoError(t, s.MarkSuspended())

		require.NoError(t, s.MarkActive())
		assert.Equal(t, StatusActive, s.Status)
	})
}

func TestDeactivate(t *testing.T) {
	s, err := NewStudent(validParams())
	require.NoError(t, err)

	s.Deactivate()
	assert.False(t, s.Active)
}

func TestClone(t *testing.T) {
	s, err := NewStudent(validParams())
	require.NoError(t, err)

	clone := s.Clone()
	clone.Name = "Someone Else"
	assert.Equal(t, "Aruzhan Nurlanova", s.Name)
}

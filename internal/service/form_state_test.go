package service

import (
	"testing"

	"grade_predictor/internal/model"
	"grade_predictor/internal/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var defaultVector = model.FormValues{
	Attendance:         50,
	ParticipationScore: 50,
	SleepHoursPerNight: 12,
	StressLevel:        5,
	StudyHours:         84,
	DesiredGrade:       0,
}

func TestNewFormState_Defaults(t *testing.T) {
	s := NewFormState()
	assert.Equal(t, defaultVector, s.Values())
	assert.True(t, s.Validate())
	assert.Empty(t, s.Errors())
}

func TestFormState_SetRevalidatesOnlyThatField(t *testing.T) {
	s := NewFormState()

	require.NoError(t, s.Set(model.FieldAttendance, 150))
	require.NotNil(t, s.FieldError(model.FieldAttendance))
	assert.Nil(t, s.FieldError(model.FieldStressLevel))

	require.NoError(t, s.Set(model.FieldStressLevel, 11))
	assert.NotNil(t, s.FieldError(model.FieldStressLevel))
	assert.NotNil(t, s.FieldError(model.FieldAttendance), "setting another field must not clear an existing error")

	require.NoError(t, s.Set(model.FieldAttendance, 80))
	assert.Nil(t, s.FieldError(model.FieldAttendance))
	assert.NotNil(t, s.FieldError(model.FieldStressLevel))

	v, err := s.Get(model.FieldAttendance)
	require.NoError(t, err)
	assert.Equal(t, 80.0, v)
}

func TestFormState_InvalidValueIsKept(t *testing.T) {
	s := NewFormState()
	require.NoError(t, s.Set(model.FieldAttendance, 150))

	v, err := s.Get(model.FieldAttendance)
	require.NoError(t, err)
	assert.Equal(t, 150.0, v)
	assert.False(t, s.Validate())
}

func TestFormState_ResetRestoresDefaults(t *testing.T) {
	s := NewFormState()
	s.Set(model.FieldAttendance, 150)
	s.Set(model.FieldParticipationScore, 1)
	s.Set(model.FieldSleepHoursPerNight, 3)
	s.Set(model.FieldStressLevel, 9)
	s.Set(model.FieldStudyHours, 10)
	s.Set(model.FieldDesiredGrade, 4)

	s.Reset()

	assert.Equal(t, defaultVector, s.Values())
	assert.Empty(t, s.Errors())
	assert.True(t, s.Validate())
}

func TestFormState_Blur(t *testing.T) {
	s := NewFormState()
	assert.NoError(t, s.Blur(model.FieldStudyHours))
	assert.Nil(t, s.FieldError(model.FieldStudyHours))
	assert.ErrorIs(t, s.Blur("nope"), util.ErrUnknownField)
}

func TestFormState_UnknownField(t *testing.T) {
	s := NewFormState()
	assert.ErrorIs(t, s.Set("nope", 1), util.ErrUnknownField)
	_, err := s.Get("nope")
	assert.ErrorIs(t, err, util.ErrUnknownField)
}

func TestFormState_ValidateAggregates(t *testing.T) {
	s := NewFormState()
	s.Set(model.FieldDesiredGrade, 2.5)
	s.Set(model.FieldSleepHoursPerNight, 30)

	assert.False(t, s.Validate())
	assert.Len(t, s.Errors(), 2)

	s.Set(model.FieldDesiredGrade, 2)
	s.Set(model.FieldSleepHoursPerNight, 8)
	assert.True(t, s.Validate())
	assert.Equal(t, 2, s.Values().DesiredGrade)
}

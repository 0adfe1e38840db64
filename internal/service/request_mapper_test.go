package service

import (
	"encoding/json"
	"testing"

	"grade_predictor/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToPredictionRequest_WireNamesAndValues(t *testing.T) {
	in := model.FormValues{
		Attendance:         80,
		ParticipationScore: 70,
		SleepHoursPerNight: 7,
		StressLevel:        3,
		StudyHours:         20,
		DesiredGrade:       1,
	}

	data, err := json.Marshal(ToPredictionRequest(in))
	require.NoError(t, err)

	var body map[string]float64
	require.NoError(t, json.Unmarshal(data, &body))

	assert.Equal(t, map[string]float64{
		"attendance":            80,
		"participation_score":   70,
		"study_hours_per_week":  20,
		"stress_level":          3,
		"sleep_hours_per_night": 7,
		"target_grade":          1,
	}, body)
}

func TestToPredictionRequest_PassThrough(t *testing.T) {
	in := model.FormValues{
		Attendance:         12.25,
		ParticipationScore: 0,
		SleepHoursPerNight: 23.5,
		StressLevel:        10,
		StudyHours:         167.75,
		DesiredGrade:       4,
	}
	out := ToPredictionRequest(in)

	assert.Equal(t, in.Attendance, out.Attendance)
	assert.Equal(t, in.ParticipationScore, out.ParticipationScore)
	assert.Equal(t, in.SleepHoursPerNight, out.SleepHoursPerNight)
	assert.Equal(t, in.StressLevel, out.StressLevel)
	assert.Equal(t, in.StudyHours, out.StudyHoursPerWeek)
	assert.Equal(t, in.DesiredGrade, out.TargetGrade)
}

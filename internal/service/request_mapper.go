package service

import "grade_predictor/internal/model"

// ToPredictionRequest renames form fields to the prediction service's
// vocabulary. Values pass through unchanged.
func ToPredictionRequest(v model.FormValues) model.PredictionRequest {
	return model.PredictionRequest{
		Attendance:         v.Attendance,
		ParticipationScore: v.ParticipationScore,
		StudyHoursPerWeek:  v.StudyHours,
		StressLevel:        v.StressLevel,
		SleepHoursPerNight: v.SleepHoursPerNight,
		TargetGrade:        v.DesiredGrade,
	}
}

package model

// PredictionRequest is the body POSTed to the prediction service.
type PredictionRequest struct {
	Attendance         float64 `json:"attendance"`
	ParticipationScore float64 `json:"participation_score"`
	StudyHoursPerWeek  float64 `json:"study_hours_per_week"`
	StressLevel        float64 `json:"stress_level"`
	SleepHoursPerNight float64 `json:"sleep_hours_per_night"`
	TargetGrade        int     `json:"target_grade"`
}

type GradeRecommendation string

const (
	// GradeSame means the predicted grade meets or beats the desired one.
	GradeSame GradeRecommendation = "same"
	// GradeMore means study habits need to improve to reach the desired grade.
	GradeMore GradeRecommendation = "more"
)

// RecommendGrade compares grade indexes; a larger index is a worse grade.
func RecommendGrade(predictedClassID, desiredGrade int) GradeRecommendation {
	if predictedClassID > desiredGrade {
		return GradeMore
	}
	return GradeSame
}

// Recommendations holds the service's suggested target values. A nil field
// means the service did not suggest a change for that metric.
type Recommendations struct {
	Attendance         *float64 `json:"attendance,omitempty"`
	ParticipationScore *float64 `json:"participation_score,omitempty"`
	StudyHoursPerWeek  *float64 `json:"study_hours_per_week,omitempty"`
	StressLevel        *float64 `json:"stress_level,omitempty"`
	SleepHoursPerNight *float64 `json:"sleep_hours_per_night,omitempty"`
}

// Prediction is the service's answer. GradeRecommendation is always derived
// locally from PredictedClassID and the requested target grade.
type Prediction struct {
	ModelStatus         string              `json:"model_status"`
	PredictedClassID    int                 `json:"predicted_class_id"`
	PredictedLabel      string              `json:"predicted_label"`
	GradeRecommendation GradeRecommendation `json:"grade_recommendation"`
	Recommendations     Recommendations     `json:"recommendations"`
}

package service

import (
	"grade_predictor/internal/model"
	"grade_predictor/internal/util"
)

const (
	EmptyTitle       = "No predictions"
	EmptyDescription = "No predictions generated"
	EmptyGuidance    = "Enter your study habits and press Submit to generate a prediction."

	MessageGradeMet    = "Well done! You've met (or exceeded) your desired grade."
	MessageGradeNotMet = "It seems that your study habits are not allowing you to reach the grades you desire. You could do well with adjusting your study habits."
)

// RecommendationCard is one suggested improvement, ready to display.
type RecommendationCard struct {
	Metric string  `json:"metric"`
	Key    string  `json:"key"`
	Value  float64 `json:"value"`
	Text   string  `json:"text"`
}

// ResultView describes the prediction card. When Empty is set only the
// empty-state texts are meaningful.
type ResultView struct {
	Empty            bool                      `json:"empty"`
	EmptyTitle       string                    `json:"emptyTitle,omitempty"`
	EmptyDescription string                    `json:"emptyDescription,omitempty"`
	EmptyGuidance    string                    `json:"emptyGuidance,omitempty"`
	PredictedLabel   string                    `json:"predictedLabel,omitempty"`
	Recommendation   model.GradeRecommendation `json:"gradeRecommendation,omitempty"`
	Message          string                    `json:"message,omitempty"`
	Cards            []RecommendationCard      `json:"cards,omitempty"`
}

type cardRule struct {
	metric string
	key    string
	value  func(model.Recommendations) *float64
	text   func(n string) string
}

// Display order of the recommendation cards.
var cardRules = []cardRule{
	{
		metric: "Attendance",
		key:    "attendance",
		value:  func(r model.Recommendations) *float64 { return r.Attendance },
		text:   func(n string) string { return "Attendance: Increase to at least " + n + "%" },
	},
	{
		metric: "Participation Score",
		key:    "participation_score",
		value:  func(r model.Recommendations) *float64 { return r.ParticipationScore },
		text:   func(n string) string { return "Participation Score: Aim for at least " + n + "%" },
	},
	{
		metric: "Sleep Hours",
		key:    "sleep_hours_per_night",
		value:  func(r model.Recommendations) *float64 { return r.SleepHoursPerNight },
		text:   func(n string) string { return "Sleep Hours: Increase sleep to " + n },
	},
	{
		metric: "Stress Level",
		key:    "stress_level",
		value:  func(r model.Recommendations) *float64 { return r.StressLevel },
		text:   func(n string) string { return "Stress Level: Reduce stress level to " + n },
	},
	{
		metric: "Study Hours",
		key:    "study_hours_per_week",
		value:  func(r model.Recommendations) *float64 { return r.StudyHoursPerWeek },
		text:   func(n string) string { return "Study Hours: Increase to " + n + " per week" },
	},
}

// PresentResult maps a prediction, or its absence, to the result card.
// A suggestion of zero is treated like no suggestion.
func PresentResult(p *model.Prediction) ResultView {
	if p == nil {
		return ResultView{
			Empty:            true,
			EmptyTitle:       EmptyTitle,
			EmptyDescription: EmptyDescription,
			EmptyGuidance:    EmptyGuidance,
		}
	}

	view := ResultView{
		PredictedLabel: p.PredictedLabel,
		Recommendation: p.GradeRecommendation,
		Message:        MessageGradeNotMet,
	}
	if p.GradeRecommendation == model.GradeSame {
		view.Message = MessageGradeMet
	}

	for _, rule := range cardRules {
		v := rule.value(p.Recommendations)
		if v == nil || *v == 0 {
			continue
		}
		view.Cards = append(view.Cards, RecommendationCard{
			Metric: rule.metric,
			Key:    rule.key,
			Value:  *v,
			Text:   rule.text(util.FormatNumber(*v)),
		})
	}
	return view
}

// FieldView is one form input as the rendering surface draws it.
type FieldView struct {
	model.FieldSpec
	Value      float64 `json:"value"`
	ValueText  string  `json:"valueText"`
	Invalid    bool    `json:"invalid"`
	Error      string  `json:"error,omitempty"`
	MinText    string  `json:"-"`
	MaxText    string  `json:"-"`
	IsGrade    bool    `json:"-"`
	GradeIndex int     `json:"-"`
}

type FormView struct {
	Fields []FieldView `json:"fields"`
	Valid  bool        `json:"valid"`
}

// PresentForm describes the current form state without re-validating it.
func PresentForm(s *FormState) FormView {
	view := FormView{Valid: true}
	for _, spec := range model.FieldSpecs {
		value, _ := s.Get(spec.Field)
		fv := FieldView{
			FieldSpec:  spec,
			Value:      value,
			ValueText:  util.FormatNumber(value),
			MinText:    util.FormatNumber(spec.Bounds.Min),
			MaxText:    util.FormatNumber(spec.Bounds.Max),
			IsGrade:    spec.Field == model.FieldDesiredGrade,
			GradeIndex: int(value),
		}
		if verr := s.FieldError(spec.Field); verr != nil {
			fv.Invalid = true
			fv.Error = verr.Message
			view.Valid = false
		}
		view.Fields = append(view.Fields, fv)
	}
	return view
}

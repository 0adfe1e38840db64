package controller

import (
	"grade_predictor/internal/model"
	"grade_predictor/internal/service"
	"grade_predictor/internal/util"

	"github.com/gin-gonic/gin"
)

type PredictionController struct {
	PredictionService *service.PredictionService
}

func NewPredictionController(predictionService *service.PredictionService) *PredictionController {
	return &PredictionController{PredictionService: predictionService}
}

// PredictRequest carries all six metrics; none may be omitted.
type PredictRequest struct {
	Attendance         *float64 `json:"attendance" binding:"required"`
	ParticipationScore *float64 `json:"participationScore" binding:"required"`
	SleepHoursPerNight *float64 `json:"sleepHoursPerNight" binding:"required"`
	StressLevel        *float64 `json:"stressLevel" binding:"required"`
	StudyHours         *float64 `json:"studyHours" binding:"required"`
	DesiredGrade       *int     `json:"desiredGrade" binding:"required"`
}

func (r PredictRequest) values() model.FormValues {
	return model.FormValues{
		Attendance:         *r.Attendance,
		ParticipationScore: *r.ParticipationScore,
		SleepHoursPerNight: *r.SleepHoursPerNight,
		StressLevel:        *r.StressLevel,
		StudyHours:         *r.StudyHours,
		DesiredGrade:       *r.DesiredGrade,
	}
}

type PredictResponse struct {
	Prediction *model.Prediction  `json:"prediction"`
	Result     service.ResultView `json:"result"`
}

// @Summary Predict a grade
// @Description Stateless: validates the metrics and forwards them to the prediction service.
// @Tags prediction
// @Accept json
// @Produce json
// @Param body body PredictRequest true "study habits"
// @Success 200 {object} util.Response{data=PredictResponse}
// @Failure 400 {object} util.Response
// @Failure 502 {object} util.Response
// @Router /predict [post]
func (c *PredictionController) Predict(ctx *gin.Context) {
	var req PredictRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	prediction, fieldErrs, err := c.PredictionService.PredictValues(ctx.Request.Context(), req.values())
	if err != nil {
		writePredictionError(ctx, err, gin.H{"errors": service.ErrorMessages(fieldErrs)})
		return
	}

	util.Success(ctx, PredictResponse{
		Prediction: prediction,
		Result:     service.PresentResult(prediction),
	})
}

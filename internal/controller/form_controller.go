package controller

import (
	"errors"
	"grade_predictor/internal/middleware"
	"grade_predictor/internal/model"
	"grade_predictor/internal/service"
	"grade_predictor/internal/util"
	"net/http"

	"github.com/gin-gonic/gin"
)

// FormController exposes the session's form state as JSON, so a widget layer
// can raise change, blur, reset and submit events against it.
type FormController struct {
	PredictionService *service.PredictionService
}

func NewFormController(predictionService *service.PredictionService) *FormController {
	return &FormController{PredictionService: predictionService}
}

type SubmissionStatus struct {
	State service.SubmissionState `json:"state"`
	Seq   uint64                  `json:"seq"`
	Error string                  `json:"error,omitempty"`
}

type FormResponse struct {
	Theme      model.Theme        `json:"theme"`
	Form       service.FormView   `json:"form"`
	Result     service.ResultView `json:"result"`
	Submission SubmissionStatus   `json:"submission"`
}

type SetFieldRequest struct {
	Value *float64 `json:"value" binding:"required"`
}

type SetThemeRequest struct {
	Theme string `json:"theme" binding:"required"`
}

func buildFormResponse(sess *service.Session) FormResponse {
	var form service.FormView
	sess.WithForm(func(f *service.FormState) error {
		form = service.PresentForm(f)
		return nil
	})

	snap := sess.Submission.Snapshot()
	status := SubmissionStatus{State: snap.State, Seq: snap.Seq}
	if snap.Err != nil {
		status.Error = snap.Err.Error()
	}

	return FormResponse{
		Theme:      sess.Theme(),
		Form:       form,
		Result:     service.PresentResult(snap.Prediction),
		Submission: status,
	}
}

// @Summary List form fields
// @Description Field domains, defaults and labels, in display order.
// @Tags form
// @Produce json
// @Success 200 {object} util.Response
// @Router /form/fields [get]
func (c *FormController) ListFields(ctx *gin.Context) {
	util.Success(ctx, gin.H{
		"fields": model.FieldSpecs,
		"grades": model.Grades,
	})
}

// @Summary Get form state
// @Tags form
// @Produce json
// @Success 200 {object} util.Response{data=FormResponse}
// @Router /form [get]
func (c *FormController) GetForm(ctx *gin.Context) {
	sess := middleware.GetSession(ctx)
	if sess == nil {
		util.InternalServerError(ctx)
		return
	}
	util.Success(ctx, buildFormResponse(sess))
}

// @Summary Change a field value
// @Description Stores the value and re-validates that field only.
// @Tags form
// @Accept json
// @Produce json
// @Param field path string true "field name, e.g. attendance"
// @Param body body SetFieldRequest true "new value"
// @Success 200 {object} util.Response{data=FormResponse}
// @Failure 400 {object} util.Response
// @Failure 404 {object} util.Response
// @Router /form/fields/{field} [put]
func (c *FormController) SetField(ctx *gin.Context) {
	sess := middleware.GetSession(ctx)
	if sess == nil {
		util.InternalServerError(ctx)
		return
	}

	var req SetFieldRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	field := model.Field(ctx.Param("field"))
	err := sess.WithForm(func(f *service.FormState) error {
		return f.Set(field, *req.Value)
	})
	if errors.Is(err, util.ErrUnknownField) {
		util.Error(ctx, http.StatusNotFound, err.Error())
		return
	}
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, buildFormResponse(sess))
}

// @Summary Leave a field
// @Description Re-validates a field without changing it.
// @Tags form
// @Produce json
// @Param field path string true "field name"
// @Success 200 {object} util.Response{data=FormResponse}
// @Failure 404 {object} util.Response
// @Router /form/fields/{field}/blur [post]
func (c *FormController) BlurField(ctx *gin.Context) {
	sess := middleware.GetSession(ctx)
	if sess == nil {
		util.InternalServerError(ctx)
		return
	}

	field := model.Field(ctx.Param("field"))
	err := sess.WithForm(func(f *service.FormState) error {
		return f.Blur(field)
	})
	if errors.Is(err, util.ErrUnknownField) {
		util.Error(ctx, http.StatusNotFound, err.Error())
		return
	}
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, buildFormResponse(sess))
}

// @Summary Reset the form
// @Description Restores every field to its default. The last prediction stays.
// @Tags form
// @Produce json
// @Success 200 {object} util.Response{data=FormResponse}
// @Router /form/reset [post]
func (c *FormController) ResetForm(ctx *gin.Context) {
	sess := middleware.GetSession(ctx)
	if sess == nil {
		util.InternalServerError(ctx)
		return
	}

	sess.WithForm(func(f *service.FormState) error {
		f.Reset()
		return nil
	})
	util.Success(ctx, buildFormResponse(sess))
}

// @Summary Submit the form
// @Description Validates every field, then asks the prediction service.
// @Tags form
// @Produce json
// @Success 200 {object} util.Response{data=FormResponse}
// @Failure 400 {object} util.Response{data=FormResponse}
// @Failure 502 {object} util.Response
// @Router /form/submit [post]
func (c *FormController) SubmitForm(ctx *gin.Context) {
	sess := middleware.GetSession(ctx)
	if sess == nil {
		util.InternalServerError(ctx)
		return
	}

	_, err := c.PredictionService.Submit(ctx.Request.Context(), sess)
	if err != nil {
		writePredictionError(ctx, err, buildFormResponse(sess))
		return
	}

	util.Success(ctx, buildFormResponse(sess))
}

// @Summary Change the theme
// @Tags form
// @Accept json
// @Produce json
// @Param body body SetThemeRequest true "system, light or dark"
// @Success 200 {object} util.Response{data=FormResponse}
// @Failure 400 {object} util.Response
// @Router /theme [put]
func (c *FormController) SetTheme(ctx *gin.Context) {
	sess := middleware.GetSession(ctx)
	if sess == nil {
		util.InternalServerError(ctx)
		return
	}

	var req SetThemeRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	theme, ok := model.ParseTheme(req.Theme)
	if !ok {
		util.BadRequest(ctx, util.ErrInvalidTheme.Error())
		return
	}

	sess.SetTheme(theme)
	util.Success(ctx, buildFormResponse(sess))
}

// writePredictionError maps a pipeline failure onto the JSON envelope.
// invalidData is sent along with a validation failure.
func writePredictionError(ctx *gin.Context, err error, invalidData interface{}) {
	var reqErr *service.RequestError
	var transportErr *service.TransportError
	switch {
	case errors.Is(err, util.ErrInvalidForm):
		util.ErrorWithData(ctx, http.StatusBadRequest, err.Error(), invalidData)
	case errors.As(err, &reqErr):
		util.BadGateway(ctx, reqErr.Message)
	case errors.As(err, &transportErr):
		util.BadGateway(ctx, transportErr.Error())
	default:
		util.LogInternalError(ctx, err)
	}
}

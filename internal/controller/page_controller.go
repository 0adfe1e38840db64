package controller

import (
	"errors"
	"grade_predictor/internal/middleware"
	"grade_predictor/internal/model"
	"grade_predictor/internal/service"
	"grade_predictor/internal/util"
	"math"
	"net/http"

	"github.com/gin-gonic/gin"
)

// PageController serves the server-rendered study habits page.
type PageController struct {
	PredictionService *service.PredictionService
}

func NewPageController(predictionService *service.PredictionService) *PageController {
	return &PageController{PredictionService: predictionService}
}

type pageData struct {
	Theme      model.Theme
	Themes     []model.Theme
	Grades     []string
	Form       service.FormView
	Result     service.ResultView
	Submitting bool
	Notice     string
}

func (c *PageController) render(ctx *gin.Context, status int, sess *service.Session, notice string) {
	resp := buildFormResponse(sess)
	ctx.HTML(status, "index.tmpl", pageData{
		Theme:      resp.Theme,
		Themes:     model.Themes,
		Grades:     model.Grades,
		Form:       resp.Form,
		Result:     resp.Result,
		Submitting: resp.Submission.State == service.SubmissionSubmitting,
		Notice:     notice,
	})
}

// applyPostedValues feeds every posted field through FormState.Set, the same
// way a change event would. Unparseable input is stored as NaN so the field
// shows an error instead of silently keeping its old value.
func applyPostedValues(ctx *gin.Context, sess *service.Session) {
	sess.WithForm(func(f *service.FormState) error {
		for _, spec := range model.FieldSpecs {
			raw, ok := ctx.GetPostForm(string(spec.Field))
			if !ok {
				continue
			}
			value, err := util.ParseNumber(raw)
			if err != nil {
				value = math.NaN()
			}
			f.Set(spec.Field, value)
		}
		return nil
	})
}

func (c *PageController) Index(ctx *gin.Context) {
	sess := middleware.GetSession(ctx)
	if sess == nil {
		ctx.String(http.StatusInternalServerError, "session unavailable")
		return
	}
	c.render(ctx, http.StatusOK, sess, "")
}

// UpdateFields applies edited values without submitting.
func (c *PageController) UpdateFields(ctx *gin.Context) {
	sess := middleware.GetSession(ctx)
	if sess == nil {
		ctx.String(http.StatusInternalServerError, "session unavailable")
		return
	}
	applyPostedValues(ctx, sess)
	c.render(ctx, http.StatusOK, sess, "")
}

func (c *PageController) Submit(ctx *gin.Context) {
	sess := middleware.GetSession(ctx)
	if sess == nil {
		ctx.String(http.StatusInternalServerError, "session unavailable")
		return
	}
	applyPostedValues(ctx, sess)

	_, err := c.PredictionService.Submit(ctx.Request.Context(), sess)
	switch {
	case err == nil:
		c.render(ctx, http.StatusOK, sess, "")
	case errors.Is(err, util.ErrInvalidForm):
		c.render(ctx, http.StatusUnprocessableEntity, sess, "")
	default:
		// Already logged by the client; the form stays usable for a retry.
		c.render(ctx, http.StatusOK, sess, "Prediction failed: "+predictionErrorMessage(err))
	}
}

func (c *PageController) Reset(ctx *gin.Context) {
	sess := middleware.GetSession(ctx)
	if sess == nil {
		ctx.String(http.StatusInternalServerError, "session unavailable")
		return
	}
	sess.WithForm(func(f *service.FormState) error {
		f.Reset()
		return nil
	})
	ctx.Redirect(http.StatusSeeOther, "/")
}

func (c *PageController) SetTheme(ctx *gin.Context) {
	sess := middleware.GetSession(ctx)
	if sess == nil {
		ctx.String(http.StatusInternalServerError, "session unavailable")
		return
	}
	if theme, ok := model.ParseTheme(ctx.PostForm("theme")); ok {
		sess.SetTheme(theme)
	}
	ctx.Redirect(http.StatusSeeOther, "/")
}

func predictionErrorMessage(err error) string {
	var reqErr *service.RequestError
	if errors.As(err, &reqErr) {
		return reqErr.Message
	}
	return err.Error()
}

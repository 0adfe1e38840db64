package app

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync/atomic"
	"testing"

	"grade_predictor/internal/config"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const cookieName = "sid"

type envelope struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

type testApp struct {
	*App
	hits   *int32
	cookie *http.Cookie
}

// newTestApp wires the full router against a fake prediction service that
// answers every request with status and body.
func newTestApp(t *testing.T, status int, body string) *testApp {
	t.Helper()
	gin.SetMode(gin.TestMode)

	var hits int32
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		io.WriteString(w, body)
	}))
	t.Cleanup(upstream.Close)

	cfg := &config.Config{
		Server:     config.ServerConfig{Port: "0", Mode: gin.TestMode},
		Prediction: config.PredictionConfig{BaseURL: upstream.URL},
		Session:    config.SessionConfig{CookieName: cookieName, TTLMinutes: 60},
		Log:        config.LogConfig{Level: "error"},
	}
	a := NewApp(cfg)
	t.Cleanup(a.Sessions.Stop)

	return &testApp{App: a, hits: &hits}
}

func (ta *testApp) do(t *testing.T, method, path, contentType string, body io.Reader) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, body)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if ta.cookie != nil {
		req.AddCookie(ta.cookie)
	}
	w := httptest.NewRecorder()
	ta.Router.ServeHTTP(w, req)

	for _, c := range w.Result().Cookies() {
		if c.Name == cookieName {
			ta.cookie = c
		}
	}
	return w
}

func (ta *testApp) postForm(t *testing.T, path string, values url.Values) *httptest.ResponseRecorder {
	return ta.do(t, http.MethodPost, path, "application/x-www-form-urlencoded", strings.NewReader(values.Encode()))
}

func (ta *testApp) sendJSON(t *testing.T, method, path, body string) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	w := ta.do(t, method, path, "application/json", r)

	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	return w, env
}

const okPrediction = `{"model_status":"ok","predicted_class_id":3,"predicted_label":"D","grade_recommendation":"same","recommendations":{"study_hours_per_week":100,"attendance":0}}`

func TestPage_InitialRender(t *testing.T) {
	ta := newTestApp(t, http.StatusOK, okPrediction)

	w := ta.do(t, http.MethodGet, "/", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.NotNil(t, ta.cookie, "session cookie is issued")
	assert.True(t, ta.cookie.HttpOnly)

	body := w.Body.String()
	assert.Contains(t, body, "No predictions generated")
	assert.Contains(t, body, `data-theme="system"`)
	assert.Contains(t, body, `name="attendance" type="number" step="any" value="50"`)
	assert.Contains(t, body, `name="studyHours" type="number" step="any" value="84"`)
	assert.Zero(t, atomic.LoadInt32(ta.hits))
}

func TestPage_SubmitOutOfRangeIssuesNoRequest(t *testing.T) {
	ta := newTestApp(t, http.StatusOK, okPrediction)

	w := ta.postForm(t, "/form/submit", url.Values{"attendance": {"150"}})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Contains(t, w.Body.String(), "Number must be less than or equal to 100")
	assert.Contains(t, w.Body.String(), "No predictions generated")
	assert.Zero(t, atomic.LoadInt32(ta.hits))
}

func TestPage_SubmitUnparseableValue(t *testing.T) {
	ta := newTestApp(t, http.StatusOK, okPrediction)

	w := ta.postForm(t, "/form/submit", url.Values{"stressLevel": {"abc"}})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Contains(t, w.Body.String(), "Expected number, received nan")
	assert.Zero(t, atomic.LoadInt32(ta.hits))
}

func TestPage_SubmitShowsPrediction(t *testing.T) {
	ta := newTestApp(t, http.StatusOK, okPrediction)

	w := ta.postForm(t, "/form/submit", url.Values{
		"attendance":         {"80"},
		"participationScore": {"70"},
		"sleepHoursPerNight": {"7"},
		"stressLevel":        {"3"},
		"studyHours":         {"20"},
		"desiredGrade":       {"1"},
	})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, int32(1), atomic.LoadInt32(ta.hits))

	body := w.Body.String()
	assert.Contains(t, body, `<div class="label">D</div>`)
	assert.Contains(t, body, `data-recommendation="more"`)
	assert.Contains(t, body, "It seems that your study habits are not allowing you to reach the grades you desire.")
	assert.Contains(t, body, `data-metric="study_hours_per_week"`)
	assert.Contains(t, body, "Study Hours: Increase to 100 per week")
	assert.NotContains(t, body, `data-metric="attendance"`)

	// Posted values stay in the session.
	w = ta.do(t, http.MethodGet, "/", "", nil)
	assert.Contains(t, w.Body.String(), `name="attendance" type="number" step="any" value="80"`)
	assert.Contains(t, w.Body.String(), `<div class="label">D</div>`)
}

func TestPage_SubmitFailureKeepsFormUsable(t *testing.T) {
	ta := newTestApp(t, http.StatusInternalServerError, `{"message":"model unavailable"}`)

	w := ta.postForm(t, "/form/submit", url.Values{"attendance": {"90"}})
	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, "Prediction failed: model unavailable")
	assert.Contains(t, body, "No predictions generated")
	assert.Contains(t, body, `name="attendance" type="number" step="any" value="90"`)
}

func TestPage_ResetAndTheme(t *testing.T) {
	ta := newTestApp(t, http.StatusOK, okPrediction)

	ta.postForm(t, "/form/fields", url.Values{"attendance": {"10"}})

	w := ta.postForm(t, "/form/reset", url.Values{})
	assert.Equal(t, http.StatusSeeOther, w.Code)

	w = ta.postForm(t, "/theme", url.Values{"theme": {"dark"}})
	assert.Equal(t, http.StatusSeeOther, w.Code)

	w = ta.do(t, http.MethodGet, "/", "", nil)
	assert.Contains(t, w.Body.String(), `data-theme="dark"`)
	assert.Contains(t, w.Body.String(), `name="attendance" type="number" step="any" value="50"`)
}

func TestAPI_Predict(t *testing.T) {
	ta := newTestApp(t, http.StatusOK, `{"model_status":"ok","predicted_class_id":0,"predicted_label":"A","recommendations":{}}`)

	w, env := ta.sendJSON(t, http.MethodPost, "/api/predict",
		`{"attendance":80,"participationScore":70,"sleepHoursPerNight":7,"stressLevel":3,"studyHours":20,"desiredGrade":1}`)
	require.Equal(t, http.StatusOK, w.Code)

	var data struct {
		Prediction struct {
			PredictedLabel      string `json:"predicted_label"`
			GradeRecommendation string `json:"grade_recommendation"`
		} `json:"prediction"`
		Result struct {
			Message string `json:"message"`
			Empty   bool   `json:"empty"`
		} `json:"result"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &data))
	assert.Equal(t, "A", data.Prediction.PredictedLabel)
	assert.Equal(t, "same", data.Prediction.GradeRecommendation)
	assert.False(t, data.Result.Empty)
	assert.Contains(t, data.Result.Message, "Well done!")
}

func TestAPI_PredictRejectsBadInput(t *testing.T) {
	ta := newTestApp(t, http.StatusOK, okPrediction)

	w, _ := ta.sendJSON(t, http.MethodPost, "/api/predict", `{"attendance":80}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, env := ta.sendJSON(t, http.MethodPost, "/api/predict",
		`{"attendance":150,"participationScore":70,"sleepHoursPerNight":7,"stressLevel":3,"studyHours":20,"desiredGrade":1}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	var data struct {
		Errors map[string]string `json:"errors"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &data))
	assert.Equal(t, "Number must be less than or equal to 100", data.Errors["attendance"])
	assert.Zero(t, atomic.LoadInt32(ta.hits))
}

func TestAPI_PredictUpstreamFailure(t *testing.T) {
	ta := newTestApp(t, http.StatusInternalServerError, `{"message":"model unavailable"}`)

	w, env := ta.sendJSON(t, http.MethodPost, "/api/predict",
		`{"attendance":80,"participationScore":70,"sleepHoursPerNight":7,"stressLevel":3,"studyHours":20,"desiredGrade":1}`)
	assert.Equal(t, http.StatusBadGateway, w.Code)
	assert.Equal(t, "model unavailable", env.Message)
}

type formData struct {
	Theme string `json:"theme"`
	Form  struct {
		Valid  bool `json:"valid"`
		Fields []struct {
			Field   string  `json:"field"`
			Value   float64 `json:"value"`
			Invalid bool    `json:"invalid"`
			Error   string  `json:"error"`
		} `json:"fields"`
	} `json:"form"`
	Result struct {
		Empty          bool   `json:"empty"`
		PredictedLabel string `json:"predictedLabel"`
	} `json:"result"`
	Submission struct {
		State string `json:"state"`
		Error string `json:"error"`
	} `json:"submission"`
}

func decodeForm(t *testing.T, env envelope) formData {
	t.Helper()
	var d formData
	require.NoError(t, json.Unmarshal(env.Data, &d))
	return d
}

func TestAPI_FormSession(t *testing.T) {
	ta := newTestApp(t, http.StatusOK, okPrediction)

	w, env := ta.sendJSON(t, http.MethodGet, "/api/form", "")
	require.Equal(t, http.StatusOK, w.Code)
	d := decodeForm(t, env)
	assert.True(t, d.Form.Valid)
	assert.True(t, d.Result.Empty)
	assert.Equal(t, "idle", d.Submission.State)

	w, env = ta.sendJSON(t, http.MethodPut, "/api/form/fields/attendance", `{"value":150}`)
	require.Equal(t, http.StatusOK, w.Code)
	d = decodeForm(t, env)
	assert.False(t, d.Form.Valid)
	assert.True(t, d.Form.Fields[0].Invalid)
	assert.Equal(t, 150.0, d.Form.Fields[0].Value)
	assert.False(t, d.Form.Fields[1].Invalid, "other fields are not revalidated")

	w, env = ta.sendJSON(t, http.MethodPost, "/api/form/submit", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "idle", decodeForm(t, env).Submission.State)
	assert.Zero(t, atomic.LoadInt32(ta.hits))

	ta.sendJSON(t, http.MethodPut, "/api/form/fields/attendance", `{"value":100}`)
	w, env = ta.sendJSON(t, http.MethodPost, "/api/form/submit", "")
	require.Equal(t, http.StatusOK, w.Code)
	d = decodeForm(t, env)
	assert.Equal(t, "success", d.Submission.State)
	assert.Equal(t, "D", d.Result.PredictedLabel)
	assert.Equal(t, int32(1), atomic.LoadInt32(ta.hits))

	w, env = ta.sendJSON(t, http.MethodPost, "/api/form/reset", "")
	require.Equal(t, http.StatusOK, w.Code)
	d = decodeForm(t, env)
	assert.Equal(t, 50.0, d.Form.Fields[0].Value)
	assert.Equal(t, "D", d.Result.PredictedLabel, "reset keeps the last prediction")
}

func TestAPI_FormFieldErrors(t *testing.T) {
	ta := newTestApp(t, http.StatusOK, okPrediction)

	w, _ := ta.sendJSON(t, http.MethodPut, "/api/form/fields/bogus", `{"value":1}`)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w, _ = ta.sendJSON(t, http.MethodPut, "/api/form/fields/attendance", `{}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, env := ta.sendJSON(t, http.MethodPost, "/api/form/fields/stressLevel/blur", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, decodeForm(t, env).Form.Valid)
}

func TestAPI_ThemeIsPerSession(t *testing.T) {
	ta := newTestApp(t, http.StatusOK, okPrediction)

	w, env := ta.sendJSON(t, http.MethodPut, "/api/theme", `{"theme":"dark"}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "dark", decodeForm(t, env).Theme)

	w, _ = ta.sendJSON(t, http.MethodPut, "/api/theme", `{"theme":"sepia"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	other := &testApp{App: ta.App, hits: ta.hits}
	_, env = other.sendJSON(t, http.MethodGet, "/api/form", "")
	assert.Equal(t, "system", decodeForm(t, env).Theme)
}

func TestAPI_SubmitUpstreamFailure(t *testing.T) {
	ta := newTestApp(t, http.StatusServiceUnavailable, `not json`)

	w, env := ta.sendJSON(t, http.MethodPost, "/api/form/submit", "")
	assert.Equal(t, http.StatusBadGateway, w.Code)
	assert.Equal(t, "HTTP error! status: 503", env.Message)

	_, env = ta.sendJSON(t, http.MethodGet, "/api/form", "")
	d := decodeForm(t, env)
	assert.Equal(t, "failure", d.Submission.State)
	assert.Equal(t, "HTTP error! status: 503", d.Submission.Error)
}

func TestAPI_Health(t *testing.T) {
	ta := newTestApp(t, http.StatusOK, okPrediction)

	w, env := ta.sendJSON(t, http.MethodGet, "/api/health", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, string(env.Data), `"status":"ok"`)
	assert.Contains(t, string(env.Data), "/predict/")
}

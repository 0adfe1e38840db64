package monitoring

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestObservePrediction(t *testing.T) {
	before := testutil.ToFloat64(PredictionRequests.WithLabelValues(OutcomeRequestError))
	ObservePrediction(OutcomeRequestError, time.Now())
	assert.Equal(t, before+1, testutil.ToFloat64(PredictionRequests.WithLabelValues(OutcomeRequestError)))
}

func TestMetricsEndpoint(t *testing.T) {
	Init()
	Init()

	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(MetricsMiddleware())
	r.GET("/metrics", PrometheusHandler())
	r.GET("/ping", func(c *gin.Context) { c.Status(http.StatusOK) })

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/ping", nil))
	BlockedSubmissions.Inc()

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, w.Code)

	body := w.Body.String()
	assert.True(t, strings.Contains(body, `http_requests_total{endpoint="/ping",method="GET",status="200"}`), body)
	assert.Contains(t, body, "prediction_submissions_blocked_total")
	assert.Contains(t, body, "form_sessions_active")
}

package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"grade_predictor/internal/config"
	"grade_predictor/internal/model"
	"grade_predictor/pkg/logger"
	"grade_predictor/pkg/monitoring"
	"grade_predictor/pkg/tracing"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// Predictor turns a prediction request into a Prediction.
type Predictor interface {
	Predict(ctx context.Context, payload model.PredictionRequest) (*model.Prediction, error)
}

// RequestError is a non-success HTTP reply from the prediction service.
// Message comes from the reply's "message" field when it has one.
type RequestError struct {
	StatusCode int
	Message    string
}

func (e *RequestError) Error() string {
	return e.Message
}

// TransportError covers everything that kept a usable reply from arriving:
// network failures and bodies that are not a Prediction.
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("prediction %s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

type PredictionClient struct {
	mu         sync.RWMutex
	baseURL    string
	httpClient *http.Client
}

func NewPredictionClient(cfg config.PredictionConfig) *PredictionClient {
	return &PredictionClient{
		baseURL: cfg.BaseURL,
		// Timeout 0 leaves the request pending for as long as the network does.
		httpClient: &http.Client{Timeout: cfg.Timeout},
	}
}

func (c *PredictionClient) BaseURL() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.baseURL
}

// SetBaseURL swaps the service address for requests issued afterwards.
func (c *PredictionClient) SetBaseURL(baseURL string) {
	c.mu.Lock()
	c.baseURL = baseURL
	c.mu.Unlock()
}

func (c *PredictionClient) Endpoint() string {
	return strings.TrimRight(c.BaseURL(), "/") + "/predict/"
}

// Predict POSTs payload to {base}/predict/ and decodes the reply. The grade
// recommendation in the reply is ignored and recomputed against
// payload.TargetGrade. Failures are *RequestError or *TransportError; there
// are no retries.
func (c *PredictionClient) Predict(ctx context.Context, payload model.PredictionRequest) (*model.Prediction, error) {
	start := time.Now()
	endpoint := c.Endpoint()

	ctx, span := tracing.Tracer.Start(ctx, "prediction.predict",
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("http.url", endpoint),
			attribute.Int("prediction.target_grade", payload.TargetGrade),
		),
	)
	defer span.End()

	prediction, err := c.do(ctx, endpoint, payload)

	outcome := monitoring.OutcomeSuccess
	if err != nil {
		var reqErr *RequestError
		if errors.As(err, &reqErr) {
			outcome = monitoring.OutcomeRequestError
			span.SetAttributes(attribute.Int("http.status_code", reqErr.StatusCode))
		} else {
			outcome = monitoring.OutcomeTransportError
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		logger.Log.Error("API Request Failed", zap.String("endpoint", endpoint), zap.Error(err))
	} else {
		span.SetAttributes(attribute.Int("prediction.class_id", prediction.PredictedClassID))
		logger.Log.Debug("Prediction received",
			zap.String("endpoint", endpoint),
			zap.Int("predicted_class_id", prediction.PredictedClassID),
			zap.String("grade_recommendation", string(prediction.GradeRecommendation)),
		)
	}
	monitoring.ObservePrediction(outcome, start)

	return prediction, err
}

func (c *PredictionClient) do(ctx context.Context, endpoint string, payload model.PredictionRequest) (*model.Prediction, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, &TransportError{Op: "encode", Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, &TransportError{Op: "build request", Err: err}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &TransportError{Op: "send", Err: err}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &TransportError{Op: "read", Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &RequestError{StatusCode: resp.StatusCode, Message: errorMessage(data, resp.StatusCode)}
	}

	var prediction *model.Prediction
	if err := json.Unmarshal(data, &prediction); err != nil {
		return nil, &TransportError{Op: "decode", Err: err}
	}
	if prediction == nil {
		return nil, &TransportError{Op: "decode", Err: errors.New("empty prediction body")}
	}

	prediction.GradeRecommendation = model.RecommendGrade(prediction.PredictedClassID, payload.TargetGrade)
	return prediction, nil
}

// errorMessage prefers the reply's "message" and falls back to the status.
func errorMessage(body []byte, status int) string {
	var errBody struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &errBody); err == nil && errBody.Message != "" {
		return errBody.Message
	}
	return fmt.Sprintf("HTTP error! status: %d", status)
}

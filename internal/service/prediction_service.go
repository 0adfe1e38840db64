package service

import (
	"context"
	"grade_predictor/internal/model"
	"grade_predictor/internal/util"
	"grade_predictor/pkg/logger"
	"grade_predictor/pkg/monitoring"

	"go.uber.org/zap"
)

// PredictionService runs the submit pipeline: validate, map, predict.
type PredictionService struct {
	predictor Predictor
}

func NewPredictionService(predictor Predictor) *PredictionService {
	return &PredictionService{predictor: predictor}
}

// Submit sends the session's form to the prediction service. An invalid form
// returns util.ErrInvalidForm without any request being issued; the field
// errors are left on the form. Once issued, a request is not cancelled when
// ctx is, so the session always learns how it ended.
func (s *PredictionService) Submit(ctx context.Context, sess *Session) (*model.Prediction, error) {
	var payload model.PredictionRequest
	err := sess.WithForm(func(form *FormState) error {
		if !form.Validate() {
			return util.ErrInvalidForm
		}
		payload = ToPredictionRequest(form.Values())
		return nil
	})
	if err != nil {
		monitoring.BlockedSubmissions.Inc()
		return nil, err
	}

	seq := sess.Submission.Begin()
	prediction, err := s.predictor.Predict(context.WithoutCancel(ctx), payload)
	if err != nil {
		if !sess.Submission.Fail(seq, err) {
			logger.Log.Debug("Discarded stale prediction failure", zap.String("session", sess.ID), zap.Uint64("seq", seq))
		}
		return nil, err
	}

	if !sess.Submission.Complete(seq, prediction) {
		logger.Log.Debug("Discarded stale prediction", zap.String("session", sess.ID), zap.Uint64("seq", seq))
	}
	return prediction, nil
}

// PredictValues is the stateless form of Submit. On util.ErrInvalidForm the
// returned map holds the failing fields.
func (s *PredictionService) PredictValues(ctx context.Context, v model.FormValues) (*model.Prediction, map[model.Field]*ValidationError, error) {
	if errs := ValidateValues(v); len(errs) > 0 {
		monitoring.BlockedSubmissions.Inc()
		return nil, errs, util.ErrInvalidForm
	}

	prediction, err := s.predictor.Predict(context.WithoutCancel(ctx), ToPredictionRequest(v))
	if err != nil {
		return nil, nil, err
	}
	return prediction, nil, nil
}

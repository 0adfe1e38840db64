package service

import (
	"grade_predictor/internal/model"
	"sync"
)

type SubmissionState string

const (
	SubmissionIdle       SubmissionState = "idle"
	SubmissionSubmitting SubmissionState = "submitting"
	SubmissionSuccess    SubmissionState = "success"
	SubmissionFailure    SubmissionState = "failure"
)

// Submission tracks the latest prediction request of one form. Every Begin
// takes a new sequence number and only the holder of the latest number may
// settle it, so a slow older response can never replace a newer result.
type Submission struct {
	mu         sync.Mutex
	seq        uint64
	state      SubmissionState
	prediction *model.Prediction
	err        error
}

type SubmissionSnapshot struct {
	Seq        uint64
	State      SubmissionState
	Prediction *model.Prediction
	Err        error
}

func NewSubmission() *Submission {
	return &Submission{state: SubmissionIdle}
}

// Begin drops any previous result and returns the new request's sequence.
func (s *Submission) Begin() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seq++
	s.state = SubmissionSubmitting
	s.prediction = nil
	s.err = nil
	return s.seq
}

// Complete records p if seq is still the latest request.
func (s *Submission) Complete(seq uint64, p *model.Prediction) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if seq != s.seq {
		return false
	}
	s.state = SubmissionSuccess
	s.prediction = p
	return true
}

// Fail records err if seq is still the latest request.
func (s *Submission) Fail(seq uint64, err error) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if seq != s.seq {
		return false
	}
	s.state = SubmissionFailure
	s.err = err
	return true
}

func (s *Submission) Snapshot() SubmissionSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return SubmissionSnapshot{
		Seq:        s.seq,
		State:      s.state,
		Prediction: s.prediction,
		Err:        s.err,
	}
}

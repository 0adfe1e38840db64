package service

import (
	"errors"
	"fmt"
	"grade_predictor/internal/model"
	"grade_predictor/internal/util"
)

// FormState holds the values currently entered in the study habits form and
// the validity of each field. Values are kept raw, so an out-of-range entry
// stays visible next to its error until the user fixes it.
//
// FormState is not safe for concurrent use; Session serialises access.
type FormState struct {
	values map[model.Field]float64
	errors map[model.Field]*ValidationError
}

func NewFormState() *FormState {
	s := &FormState{}
	s.Reset()
	return s
}

// Reset restores every field to its default and clears all errors.
func (s *FormState) Reset() {
	s.values = make(map[model.Field]float64, len(model.FieldSpecs))
	s.errors = make(map[model.Field]*ValidationError)
	for _, spec := range model.FieldSpecs {
		s.values[spec.Field] = spec.Default
	}
}

func (s *FormState) Get(field model.Field) (float64, error) {
	v, ok := s.values[field]
	if !ok {
		return 0, fmt.Errorf("%w: %q", util.ErrUnknownField, field)
	}
	return v, nil
}

// Set stores value and re-validates that field only. The returned error is
// non-nil only for an unknown field; use FieldError for validity.
func (s *FormState) Set(field model.Field, value float64) error {
	if _, ok := s.values[field]; !ok {
		return fmt.Errorf("%w: %q", util.ErrUnknownField, field)
	}
	s.values[field] = value
	return s.revalidate(field)
}

// Blur re-validates field without changing it.
func (s *FormState) Blur(field model.Field) error {
	if _, ok := s.values[field]; !ok {
		return fmt.Errorf("%w: %q", util.ErrUnknownField, field)
	}
	return s.revalidate(field)
}

func (s *FormState) revalidate(field model.Field) error {
	err := ValidateField(field, s.values[field])
	var verr *ValidationError
	switch {
	case err == nil:
		delete(s.errors, field)
	case errors.As(err, &verr):
		s.errors[field] = verr
	default:
		return err
	}
	return nil
}

// Validate re-validates every field and reports whether all of them pass.
func (s *FormState) Validate() bool {
	for _, spec := range model.FieldSpecs {
		s.revalidate(spec.Field)
	}
	return len(s.errors) == 0
}

func (s *FormState) FieldError(field model.Field) *ValidationError {
	return s.errors[field]
}

// Errors returns a copy of the current field errors.
func (s *FormState) Errors() map[model.Field]*ValidationError {
	out := make(map[model.Field]*ValidationError, len(s.errors))
	for f, e := range s.errors {
		out[f] = e
	}
	return out
}

// Values returns the current entries as FormValues. Only meaningful after
// Validate returned true, since the grade index is truncated.
func (s *FormState) Values() model.FormValues {
	var v model.FormValues
	for f, value := range s.values {
		v.Set(f, value)
	}
	return v
}

package service

import (
	"fmt"
	"grade_predictor/internal/model"
	"grade_predictor/internal/util"
	"math"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// ValidationError reports a field value outside its declared domain. It is
// shown next to the field and blocks submission; it never aborts a request.
type ValidationError struct {
	Field   model.Field  `json:"field"`
	Value   float64      `json:"-"`
	Bounds  model.Bounds `json:"bounds"`
	Message string       `json:"message"`
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func minTag(b model.Bounds) string { return "gte=" + util.FormatNumber(b.Min) }
func maxTag(b model.Bounds) string { return "lte=" + util.FormatNumber(b.Max) }

// WithinBounds reports whether value lies in the closed range b. NaN is never
// within bounds.
func WithinBounds(value float64, b model.Bounds) bool {
	return validate.Var(value, minTag(b)+","+maxTag(b)) == nil
}

// ValidateField checks value against the domain of field. It returns a
// *ValidationError for a bad value and wraps util.ErrUnknownField for a field
// the form does not have.
func ValidateField(field model.Field, value float64) error {
	spec, ok := model.LookupField(field)
	if !ok {
		return fmt.Errorf("%w: %q", util.ErrUnknownField, field)
	}

	fail := func(msg string) error {
		return &ValidationError{Field: field, Value: value, Bounds: spec.Bounds, Message: msg}
	}

	if math.IsNaN(value) {
		return fail("Expected number, received nan")
	}
	if validate.Var(value, minTag(spec.Bounds)) != nil {
		return fail("Number must be greater than or equal to " + util.FormatNumber(spec.Bounds.Min))
	}
	if validate.Var(value, maxTag(spec.Bounds)) != nil {
		return fail("Number must be less than or equal to " + util.FormatNumber(spec.Bounds.Max))
	}
	if spec.Integer && value != math.Trunc(value) {
		return fail("Expected integer, received float")
	}
	return nil
}

// ValidateValues validates every field of v and returns the failures keyed by
// field. An empty map means v can be submitted.
func ValidateValues(v model.FormValues) map[model.Field]*ValidationError {
	errs := make(map[model.Field]*ValidationError)
	for _, spec := range model.FieldSpecs {
		value, _ := v.Get(spec.Field)
		if err := ValidateField(spec.Field, value); err != nil {
			if verr, ok := err.(*ValidationError); ok {
				errs[spec.Field] = verr
			}
		}
	}
	return errs
}

// ErrorMessages flattens validation failures for JSON replies.
func ErrorMessages(errs map[model.Field]*ValidationError) map[string]string {
	out := make(map[string]string, len(errs))
	for f, e := range errs {
		out[string(f)] = e.Message
	}
	return out
}

// Package validate checks respondent contact fields and scores their
// overall data quality.
package validate

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/dpulseai/Mospi/internal/classify"
	"github.com/go-playground/validator/v10"
)

// Fields is one respondent's contact record.
type Fields struct {
	Age        int    `json:"age" validate:"gte=0,lte=120"`
	Email      string `json:"email" validate:"emailshape"`
	Phone      string `json:"phone" validate:"len=10,numeric"`
	Occupation string `json:"occupation"`
}

// Report is the outcome of Check.
type Report struct {
	Errors         []string        `json:"errors"`
	Warnings       []string        `json:"warnings"`
	Classification classify.Result `json:"classification"`
	Factors        Factors         `json:"factors"`
	Quality        float64         `json:"quality"`
}

// Valid reports whether no errors were found.
func (r Report) Valid() bool { return len(r.Errors) == 0 }

// Factors are the components averaged into Report.Quality.
type Factors struct {
	Completeness   float64 `json:"completeness"`
	FormatValidity float64 `json:"format_validity"`
	Consistency    float64 `json:"consistency"`
	AIConfidence   float64 `json:"ai_confidence"`
}

// Mean returns the average of the four factors.
func (f Factors) Mean() float64 {
	return (f.Completeness + f.FormatValidity + f.Consistency + f.AIConfidence) / 4
}

const (
	// AgeWarnAbove flags ages that are valid but worth confirming.
	AgeWarnAbove = 100
	// WarnedConsistency is the consistency factor when any warning fired.
	WarnedConsistency = 0.8
)

// Error messages, one per rule.
const (
	MsgAgeRange         = "Age must be between 0-120 years"
	MsgEmail            = "Invalid email format"
	MsgPhone            = "Phone number must be exactly 10 digits"
	MsgAgeHigh          = "Age over 100 - please verify"
	MsgPhoneLeadingZero = "Phone number starts with 0 - unusual format"
)

var emailShape = regexp.MustCompile(`^[^@]+@[^@]+\.[^@]+$`)

var messages = map[string]string{
	"Age":   MsgAgeRange,
	"Email": MsgEmail,
	"Phone": MsgPhone,
}

// Validator runs the field rules.
type Validator struct {
	v *validator.Validate
}

// New builds a Validator with the email shape rule registered.
func New() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())
	// Registration only fails on an empty tag or nil func.
	_ = v.RegisterValidation("emailshape", func(fl validator.FieldLevel) bool {
		return emailShape.MatchString(fl.Field().String())
	})
	return &Validator{v: v}
}

// Check validates f, classifies the occupation and scores the record.
func (val *Validator) Check(f Fields) (Report, error) {
	r := Report{Errors: []string{}, Warnings: []string{}}

	if err := val.v.Struct(f); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			return Report{}, fmt.Errorf("validating fields: %w", err)
		}
		for _, fe := range verrs {
			r.Errors = append(r.Errors, messages[fe.StructField()])
		}
	}

	if f.Age > AgeWarnAbove && f.Age <= 120 {
		r.Warnings = append(r.Warnings, MsgAgeHigh)
	}
	if !hasError(r.Errors, MsgPhone) && strings.HasPrefix(f.Phone, "0") {
		r.Warnings = append(r.Warnings, MsgPhoneLeadingZero)
	}

	r.Classification = classify.Occupation(f.Occupation)
	r.Factors = Factors{
		Completeness:   1.0,
		FormatValidity: 1.0,
		Consistency:    1.0,
		AIConfidence:   r.Classification.Confidence,
	}
	if len(r.Errors) > 0 {
		r.Factors.FormatValidity = 0
	}
	if len(r.Warnings) > 0 {
		r.Factors.Consistency = WarnedConsistency
	}
	r.Quality = r.Factors.Mean()
	return r, nil
}

func hasError(errs []string, msg string) bool {
	for _, e := range errs {
		if e == msg {
			return true
		}
	}
	return false
}

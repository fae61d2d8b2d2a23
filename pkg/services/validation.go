package services

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/ekaya-inc/study-sensei/pkg/apperrors"
	"github.com/ekaya-inc/study-sensei/pkg/models"
)

// CreateSubjectInput is the body of POST /api/subjects.
type CreateSubjectInput struct {
	Name string `json:"name" yaml:"name" validate:"required"`
}

// UpdateSubjectInput is the body of PATCH /api/subjects/{id}.
type UpdateSubjectInput struct {
	Name string `json:"name" validate:"required"`
}

// CreateTopicInput is the body of POST /api/topics. An empty Confidence
// means not-confident.
type CreateTopicInput struct {
	SubjectID  string `json:"subjectId" validate:"required"`
	Title      string `json:"title" validate:"required"`
	Confidence string `json:"confidence" validate:"omitempty,oneof=not-confident somewhat confident"`
}

// UpdateTopicConfidenceInput is the body of PATCH /api/topics/{id}.
type UpdateTopicConfidenceInput struct {
	Confidence string `json:"confidence" validate:"required,oneof=not-confident somewhat confident"`
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	// Report fields by their wire name.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})
	return v
}

// ValidateInput checks input against its validation tags. Failures wrap
// apperrors.ErrValidation.
func ValidateInput(input any) error {
	err := validate.Struct(input)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return fmt.Errorf("%w: %s", apperrors.ErrValidation, err.Error())
	}

	messages := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		messages = append(messages, formatFieldError(fe))
	}
	return fmt.Errorf("%w: %s", apperrors.ErrValidation, strings.Join(messages, "; "))
}

func formatFieldError(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", fe.Field())
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", fe.Field(), strings.ReplaceAll(fe.Param(), " ", ", "))
	default:
		return fmt.Sprintf("%s is invalid", fe.Field())
	}
}

// confidenceOrDefault converts an already validated confidence string.
func confidenceOrDefault(s string) models.Confidence {
	if s == "" {
		return models.ConfidenceNotConfident
	}
	return models.Confidence(s)
}

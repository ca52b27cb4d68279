package validator

import (
	"errors"
	"fmt"

	"farmbook/pkg/model"

	"github.com/go-playground/validator/v10"
)

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (v ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", v.Field, v.Message)
}

type ValidationErrors []ValidationError

func (v ValidationErrors) Error() string {
	if len(v) == 0 {
		return ""
	}
	return fmt.Sprintf("validation failed: %d error(s)", len(v))
}

type ActivityValidator struct {
	validate *validator.Validate
}

func NewActivityValidator() *ActivityValidator {
	v := validator.New()
	RegisterDisplayPayload(v)

	return &ActivityValidator{
		validate: v,
	}
}

// RegisterDisplayPayload registers the display_payload tag: a map of
// locale to text with at least one non-empty entry. The engine treats the
// text itself as opaque.
func RegisterDisplayPayload(v *validator.Validate) {
	_ = v.RegisterValidation("display_payload", func(fl validator.FieldLevel) bool {
		payload, ok := fl.Field().Interface().(map[string]string)
		if !ok {
			return false
		}
		for _, text := range payload {
			if text != "" {
				return true
			}
		}
		return false
	})
}

func (v *ActivityValidator) Validate(activity *model.Activity) error {
	if err := v.validate.Struct(activity); err != nil {
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) {
			return v.translateValidationErrors(validationErrs)
		}
		return err
	}

	return v.validateScheduleRules(activity)
}

func (v *ActivityValidator) translateValidationErrors(errs validator.ValidationErrors) ValidationErrors {
	var validationErrors ValidationErrors

	for _, err := range errs {
		validationErrors = append(validationErrors, ValidationError{
			Field:   err.Field(),
			Message: messageForTag(err),
		})
	}

	return validationErrors
}

func messageForTag(err validator.FieldError) string {
	switch err.Tag() {
	case "required":
		return "is required"
	case "min":
		return fmt.Sprintf("must be at least %s", err.Param())
	case "max":
		return fmt.Sprintf("must be at most %s", err.Param())
	case "oneof":
		return fmt.Sprintf("must be one of: %s", err.Param())
	case "display_payload":
		return "must contain at least one non-empty translation"
	case "e164":
		return "must be a valid E.164 phone number"
	default:
		return fmt.Sprintf("failed %s validation", err.Tag())
	}
}

func (v *ActivityValidator) validateScheduleRules(activity *model.Activity) error {
	var validationErrors ValidationErrors

	if activity.EndTime != nil && !activity.EndTime.After(activity.StartTime) {
		validationErrors = append(validationErrors, ValidationError{
			Field:   "EndTime",
			Message: "must be after StartTime",
		})
	}

	if rule := activity.Recurrence; rule.IsRecurring() {
		if rule.EndDate == nil {
			validationErrors = append(validationErrors, ValidationError{
				Field:   "Recurrence.EndDate",
				Message: "is required for recurring activities",
			})
		} else if !rule.EndDate.After(activity.StartTime) {
			validationErrors = append(validationErrors, ValidationError{
				Field:   "Recurrence.EndDate",
				Message: "must be after the activity start time",
			})
		}

		if rule.Kind == model.RecurrenceWeekly && len(rule.Weekdays) == 0 {
			validationErrors = append(validationErrors, ValidationError{
				Field:   "Recurrence.Weekdays",
				Message: "must list at least one weekday for weekly recurrence",
			})
		}
	}

	if len(validationErrors) > 0 {
		return validationErrors
	}
	return nil
}

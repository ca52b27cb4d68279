package validator

import (
	"errors"
	"fmt"
	"time"

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

type BookingValidator struct {
	validate     *validator.Validate
	maxPartySize int
}

func NewBookingValidator(maxPartySize int) *BookingValidator {
	return &BookingValidator{
		validate:     validator.New(),
		maxPartySize: maxPartySize,
	}
}

// ValidateReservation checks a public reservation request before it touches
// the ledger.
func (v *BookingValidator) ValidateReservation(req *model.ReservationRequest) error {
	if err := v.validate.Struct(req); err != nil {
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) {
			return v.translateValidationErrors(validationErrs)
		}
		return err
	}

	var validationErrors ValidationErrors

	if req.NumPeople > v.maxPartySize {
		validationErrors = append(validationErrors, ValidationError{
			Field:   "NumPeople",
			Message: fmt.Sprintf("must be at most %d per booking", v.maxPartySize),
		})
	}

	if req.OccurrenceDate.Before(time.Now().UTC().Truncate(24 * time.Hour)) {
		validationErrors = append(validationErrors, ValidationError{
			Field:   "OccurrenceDate",
			Message: "must not be in the past",
		})
	}

	if len(validationErrors) > 0 {
		return validationErrors
	}
	return nil
}

func (v *BookingValidator) translateValidationErrors(errs validator.ValidationErrors) ValidationErrors {
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
	case "email":
		return "must be a valid email address"
	case "e164":
		return "must be a valid E.164 phone number"
	case "mongodb":
		return "must be a valid object ID"
	default:
		return fmt.Sprintf("failed %s validation", err.Tag())
	}
}

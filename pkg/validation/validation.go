// Package validation wraps go-playground/validator with the custom tags the
// request models use and translates failures into field-level errors.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"concierge/pkg/logger"
	"concierge/pkg/model"

	"github.com/go-playground/validator/v10"
)

var membershipIDRegex = regexp.MustCompile(`^EM-[0-9A-F]{8}$`)

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
	messages := make([]string, 0, len(v))
	for _, err := range v {
		messages = append(messages, err.Error())
	}
	return fmt.Sprintf("validation failed: %d error(s): [%s]", len(v), strings.Join(messages, "; "))
}

// Details renders the errors for an AppError details map.
func (v ValidationErrors) Details() map[string]any {
	details := make(map[string]any, len(v))
	for _, err := range v {
		details[err.Field] = err.Message
	}
	return details
}

type Validator struct {
	validate *validator.Validate
}

func New(log *logger.Logger) *Validator {
	v := validator.New()

	// Report JSON field names so errors line up with the request body.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})

	tags := map[string]validator.Func{
		"booking_date":    validateBookingDate,
		"membership_tier": validateMembershipTier,
		"membership_id":   validateMembershipID,
	}
	for tag, fn := range tags {
		if err := v.RegisterValidation(tag, fn); err != nil {
			log.Fatal("Failed to register validator", "tag", tag, "error", err)
		}
	}

	return &Validator{validate: v}
}

// Struct validates s and returns ValidationErrors for field failures.
func (v *Validator) Struct(s any) error {
	if err := v.validate.Struct(s); err != nil {
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) {
			return translateValidationErrors(validationErrs)
		}
		return err
	}
	return nil
}

func validateBookingDate(fl validator.FieldLevel) bool {
	_, err := model.ParseBookingDate(fl.Field().String())
	return err == nil
}

func validateMembershipTier(fl validator.FieldLevel) bool {
	value := strings.TrimSpace(fl.Field().String())
	for _, tier := range []string{model.TierBronze, model.TierSilver, model.TierGold, model.TierPlatinum, model.TierDiamond} {
		if strings.EqualFold(value, tier) {
			return true
		}
	}
	return false
}

func validateMembershipID(fl validator.FieldLevel) bool {
	return membershipIDRegex.MatchString(fl.Field().String())
}

func translateValidationErrors(errs validator.ValidationErrors) ValidationErrors {
	var out ValidationErrors

	for _, err := range errs {
		message := err.Error()

		switch err.Tag() {
		case "required":
			message = fmt.Sprintf("%s is required", err.Field())
		case "min":
			message = fmt.Sprintf("%s must be at least %s", err.Field(), err.Param())
		case "max":
			message = fmt.Sprintf("%s must be at most %s", err.Field(), err.Param())
		case "email":
			message = fmt.Sprintf("%s must be a valid email address", err.Field())
		case "oneof":
			message = fmt.Sprintf("%s must be one of: %s", err.Field(), err.Param())
		case "booking_date":
			message = fmt.Sprintf("%s must be a date (YYYY-MM-DD or RFC 3339)", err.Field())
		case "membership_tier":
			message = fmt.Sprintf("%s must be one of: Bronze Silver Gold Platinum Diamond", err.Field())
		case "membership_id":
			message = fmt.Sprintf("%s must look like EM-XXXXXXXX", err.Field())
		}

		out = append(out, ValidationError{Field: err.Field(), Message: message})
	}

	return out
}

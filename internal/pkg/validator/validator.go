package validator

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"arogya-records/internal/core/domain"

	"github.com/go-playground/validator/v10"
	"github.com/nyaruka/phonenumbers"
)

// Validator wraps go-playground/validator with the project's custom rules
type Validator struct {
	validate      *validator.Validate
	defaultRegion string
}

// New creates a validator. defaultRegion is the ISO country used for phone
// numbers written without an international prefix.
func New(defaultRegion string) *Validator {
	v := &Validator{
		validate:      validator.New(),
		defaultRegion: strings.ToUpper(defaultRegion),
	}

	// Report fields by their JSON name
	v.validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})

	_ = v.validate.RegisterValidation("phone", func(fl validator.FieldLevel) bool {
		_, err := v.NormalizePhone(fl.Field().String())
		return err == nil
	})

	return v
}

// Struct validates s and returns a *domain.ValidationError, or nil
func (v *Validator) Struct(s interface{}) error {
	err := v.validate.Struct(s)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}

	fields := make([]domain.FieldError, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, domain.FieldError{
			Field:   fieldPath(fe),
			Message: message(fe),
		})
	}
	return &domain.ValidationError{Fields: fields}
}

// NormalizePhone parses a phone number and formats it as E.164
func (v *Validator) NormalizePhone(raw string) (string, error) {
	num, err := phonenumbers.Parse(raw, v.defaultRegion)
	if err != nil {
		return "", err
	}
	if !phonenumbers.IsValidNumber(num) {
		return "", fmt.Errorf("invalid phone number %q", raw)
	}
	return phonenumbers.Format(num, phonenumbers.E164), nil
}

// fieldPath drops the top level struct name from the namespace
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.Index(ns, "."); i >= 0 {
		return ns[i+1:]
	}
	return fe.Field()
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "phone":
		return "must be a valid phone number"
	case "min":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("must be at least %s characters", fe.Param())
		}
		if fe.Kind() == reflect.Slice {
			return fmt.Sprintf("must contain at least %s item(s)", fe.Param())
		}
		return fmt.Sprintf("must be at least %s", fe.Param())
	case "max":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("must be at most %s characters", fe.Param())
		}
		return fmt.Sprintf("must be at most %s", fe.Param())
	case "oneof":
		return "must be one of: " + fe.Param()
	default:
		return "is invalid"
	}
}

package services

import (
	"errors"
	"strings"

	"github.com/dmitrijs2005/gophauth/internal/common"
	"github.com/dmitrijs2005/gophauth/internal/server/passwords"
	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
)

var notBlank = validation.By(func(value interface{}) error {
	s, _ := value.(string)
	if s != "" && strings.TrimSpace(s) == "" {
		return errors.New("must not be only whitespace")
	}
	return nil
})

// validateRegistration checks an already normalised email and a candidate
// password against the password policy.
func validateRegistration(email, password string, minPasswordLength int) error {
	return toValidationError(validation.Errors{
		"email": validation.Validate(email, validation.Required, is.Email),
		"password": validation.Validate(password,
			validation.Required,
			validation.Length(minPasswordLength, passwords.MaxPasswordLength),
			notBlank,
		),
	}.Filter())
}

// validateLogin only rejects structurally empty input; policy is not
// re-applied so older, weaker passwords can still log in.
func validateLogin(email, password string) error {
	return toValidationError(validation.Errors{
		"email":    validation.Validate(email, validation.Required),
		"password": validation.Validate(password, validation.Required),
	}.Filter())
}

func toValidationError(err error) error {
	if err == nil {
		return nil
	}
	var errs validation.Errors
	if !errors.As(err, &errs) {
		return err
	}
	ve := &common.ValidationError{Fields: make(map[string]string, len(errs))}
	for field, fieldErr := range errs {
		ve.Fields[field] = fieldErr.Error()
	}
	return ve
}

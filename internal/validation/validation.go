// Package validation checks and sanitizes contact form submissions.
//
// Processing order is fixed: every field is trimmed, the trimmed value is
// validated, and the trimmed value is HTML-escaped for storage. Length and
// pattern rules therefore never see escaped entities.
package validation

import (
	"errors"
	"fmt"
	"html"
	"net/url"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

var (
	personNamePattern = regexp.MustCompile(`^[\p{L}\p{M} '\-]+$`)
	phonePattern      = regexp.MustCompile(`^[0-9\s+\-()]+$`)
	emailPattern      = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
)

// Input carries the raw submitted values.
type Input struct {
	Name    string
	Email   string
	Phone   string
	Subject string
	Message string
}

// InputFromValues reads the contact fields from a parsed form. Missing keys
// are treated as empty.
func InputFromValues(v url.Values) Input {
	return Input{
		Name:    v.Get("name"),
		Email:   v.Get("email"),
		Phone:   v.Get("phone"),
		Subject: v.Get("subject"),
		Message: v.Get("message"),
	}
}

// ContactForm is a trimmed field set. Field order defines violation order.
type ContactForm struct {
	Name    string `validate:"required,min=2,max=100,personname"`
	Email   string `validate:"required,contactemail"`
	Phone   string `validate:"omitempty,min=10,phone"`
	Subject string `validate:"required,min=5,max=150"`
	Message string `validate:"required,min=10,max=5000"`
}

// Errors is the ordered list of violations for one submission.
type Errors []string

func (e Errors) Error() string {
	return strings.Join(e, "\n")
}

type Validator struct {
	validate *validator.Validate
}

func New() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())
	mustRegister(v, "personname", personNamePattern)
	mustRegister(v, "phone", phonePattern)
	mustRegister(v, "contactemail", emailPattern)
	return &Validator{validate: v}
}

func mustRegister(v *validator.Validate, tag string, re *regexp.Regexp) {
	err := v.RegisterValidation(tag, func(fl validator.FieldLevel) bool {
		return re.MatchString(fl.Field().String())
	})
	if err != nil {
		panic(fmt.Sprintf("register %s validation: %v", tag, err))
	}
}

// Trim strips surrounding whitespace from every field.
func Trim(in Input) ContactForm {
	return ContactForm{
		Name:    strings.TrimSpace(in.Name),
		Email:   strings.TrimSpace(in.Email),
		Phone:   strings.TrimSpace(in.Phone),
		Subject: strings.TrimSpace(in.Subject),
		Message: strings.TrimSpace(in.Message),
	}
}

// Escape neutralizes markup-significant characters in every field.
func Escape(f ContactForm) ContactForm {
	return ContactForm{
		Name:    html.EscapeString(f.Name),
		Email:   html.EscapeString(f.Email),
		Phone:   html.EscapeString(f.Phone),
		Subject: html.EscapeString(f.Subject),
		Message: html.EscapeString(f.Message),
	}
}

// Validate returns the sanitized field set, or Errors listing every violation.
func (v *Validator) Validate(in Input) (ContactForm, error) {
	trimmed := Trim(in)
	sanitized := Escape(trimmed)

	err := v.validate.Struct(trimmed)
	if err == nil {
		return sanitized, nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return ContactForm{}, err
	}

	violations := make(Errors, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		violations = append(violations, message(fe))
	}
	return ContactForm{}, violations
}

func message(fe validator.FieldError) string {
	if fe.Tag() == "required" {
		return fe.Field() + " is required."
	}

	switch fe.Field() {
	case "Name":
		if fe.Tag() == "personname" {
			return "Name may only contain letters, spaces, hyphens and apostrophes."
		}
		return "Name must be between 2 and 100 characters."
	case "Email":
		return "Invalid email format."
	case "Phone":
		return "Please enter a valid phone number."
	case "Subject":
		return "Subject must be between 5 and 150 characters."
	case "Message":
		if fe.Tag() == "max" {
			return "Message must not exceed 5000 characters."
		}
		return "Message must be at least 10 characters long."
	}
	return fmt.Sprintf("%s is invalid.", fe.Field())
}

package domain

import (
	"fmt"
	"regexp"
	"strings"
)

const (
	maxNameLen     = 30
	minPasswordLen = 6
)

var emailPattern = regexp.MustCompile(`^\w+([.-]?\w+)*@\w+([.-]?\w+)*(\.\w{2,3})+$`)

// FieldError mirrors the listing-side structure: one violation per field.
type FieldError struct {
	Field   string
	Message string
}

type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return "validation failed"
	}
	msg := e.Fields[0].Message
	for _, f := range e.Fields[1:] {
		msg += ", " + f.Message
	}
	return msg
}

// Registration is the raw sign-up form input, validated before any hashing
// or persistence happens.
type Registration struct {
	FirstName       string
	LastName        string
	Email           string
	Password        string
	ConfirmPassword string
	Phone           string
	City            string
	Country         string
}

func (r *Registration) Validate() *ValidationError {
	var fields []FieldError
	add := func(field, msg string) {
		fields = append(fields, FieldError{Field: field, Message: msg})
	}

	checkName := func(field, value string) {
		if strings.TrimSpace(value) == "" {
			add(field, field+" is required")
		} else if len(value) > maxNameLen {
			add(field, fmt.Sprintf("%s must be at most %d characters", field, maxNameLen))
		}
	}
	checkName("firstName", r.FirstName)
	checkName("lastName", r.LastName)

	if !emailPattern.MatchString(strings.ToLower(strings.TrimSpace(r.Email))) {
		add("email", "invalid email address")
	}
	if len(r.Password) < minPasswordLen {
		add("password", fmt.Sprintf("password must be at least %d characters", minPasswordLen))
	}
	if strings.TrimSpace(r.Phone) == "" {
		add("phone", "phone number is required")
	}
	if strings.TrimSpace(r.City) == "" {
		add("city", "city is required")
	}
	if strings.TrimSpace(r.Country) == "" {
		add("country", "country is required")
	}

	if fields == nil {
		return nil
	}
	return &ValidationError{Fields: fields}
}

// NormalizeEmail lowercases and trims, so lookups and the unique index are
// case-insensitive.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

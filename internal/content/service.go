// Package content is the CRUD service layer over the law firm's website
// content. Every exported call runs in exactly one database unit of work.
package content

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/denizhukuk/lawsite/internal/database"
)

// DeletePolicy decides what happens to dependent rows when a parent is deleted.
type DeletePolicy string

const (
	// Restrict refuses to delete a parent that still has dependents.
	Restrict DeletePolicy = "restrict"
	// Cascade deletes dependents together with the parent.
	Cascade DeletePolicy = "cascade"
	// Nullify clears dependent references before deleting the parent.
	Nullify DeletePolicy = "nullify"
)

// DeletePolicies lists the accepted policies in flag help order.
var DeletePolicies = []DeletePolicy{Restrict, Cascade, Nullify}

// ParseDeletePolicy parses a --delete-policy value. Empty means Restrict.
func ParseDeletePolicy(s string) (DeletePolicy, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return Restrict, nil
	}
	for _, p := range DeletePolicies {
		if string(p) == s {
			return p, nil
		}
	}
	return "", fmt.Errorf("unknown delete policy %q (want restrict, cascade or nullify)", s)
}

// Service implements create, get, list, update and delete for every content kind.
type Service struct {
	db       *database.DB
	policy   DeletePolicy
	validate *validator.Validate
}

// New creates a Service over db. An empty policy means Restrict.
func New(db *database.DB, policy DeletePolicy) *Service {
	if policy == "" {
		policy = Restrict
	}

	validate := validator.New()
	validate.RegisterTagNameFunc(func(field reflect.StructField) string {
		name, _, _ := strings.Cut(field.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})

	return &Service{db: db, policy: policy, validate: validate}
}

// Policy returns the configured delete policy.
func (s *Service) Policy() DeletePolicy {
	return s.policy
}

// check validates input and reports every failing field in one ErrValidation.
func (s *Service) check(input any) error {
	err := s.validate.Struct(input)
	if err == nil {
		return nil
	}

	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return fmt.Errorf("validation error: %w", err)
	}

	messages := make([]string, 0, len(validationErrors))
	for _, fieldErr := range validationErrors {
		messages = append(messages, describe(fieldErr))
	}
	return newError(ErrValidation, nil, "%s", strings.Join(messages, "; "))
}

func describe(fieldErr validator.FieldError) string {
	field := fieldErr.Field()
	switch fieldErr.Tag() {
	case "required":
		return field + " is required"
	case "email":
		return field + " must be a valid email address"
	case "datetime":
		return field + " must be a date in YYYY-MM-DD format"
	case "max":
		if fieldErr.Kind() == reflect.String {
			return fmt.Sprintf("%s must be at most %s characters", field, fieldErr.Param())
		}
		return fmt.Sprintf("%s must be at most %s", field, fieldErr.Param())
	case "min":
		return fmt.Sprintf("%s must be at least %s", field, fieldErr.Param())
	}
	return fmt.Sprintf("%s failed the %s check", field, fieldErr.Tag())
}

// requirePracticeArea reports ErrInvalidReference when id is set and names
// no practice area.
func requirePracticeArea(ctx context.Context, sess *database.Session, id *int64) error {
	if id == nil {
		return nil
	}
	pa, err := sess.GetPracticeArea(ctx, *id)
	if err != nil {
		return err
	}
	if pa == nil {
		return newError(ErrInvalidReference, nil, "practice area %d does not exist", *id)
	}
	return nil
}

// requireLawyer reports ErrInvalidReference when id is set and names no lawyer.
func requireLawyer(ctx context.Context, sess *database.Session, id *int64) error {
	if id == nil {
		return nil
	}
	lawyer, err := sess.GetLawyer(ctx, *id)
	if err != nil {
		return err
	}
	if lawyer == nil {
		return newError(ErrInvalidReference, nil, "lawyer %d does not exist", *id)
	}
	return nil
}

// trimmed trims a string pointer and maps blank input to nil.
func trimmed(p *string) *string {
	if p == nil {
		return nil
	}
	v := strings.TrimSpace(*p)
	if v == "" {
		return nil
	}
	return &v
}

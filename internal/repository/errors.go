package repository

import (
	"errors"

	"github.com/convention-api/internal/models"
	"github.com/lib/pq"
)

// Postgres error codes we translate into domain errors.
const (
	pqUniqueViolation     = "23505"
	pqForeignKeyViolation = "23503"
)

// Partial unique indexes on active accounts. The index rejecting a write is
// the authoritative duplicate signal; the services' pre-checks only exist to
// produce a friendlier error first.
const (
	constraintAccountEmail    = "account_email_active_key"
	constraintAccountUsername = "account_username_active_key"
)

// translateUnique maps a unique-index violation to DuplicateEntityError,
// identifying the offending field from the constraint name. Other errors
// pass through untouched.
func translateUnique(err error) error {
	var pqErr *pq.Error
	if !errors.As(err, &pqErr) || pqErr.Code != pqUniqueViolation {
		return err
	}
	switch pqErr.Constraint {
	case constraintAccountEmail:
		return &models.DuplicateEntityError{Field: "email"}
	case constraintAccountUsername:
		return &models.DuplicateEntityError{Field: "username"}
	}
	return &models.DuplicateEntityError{Field: pqErr.Constraint}
}

// foreignKeyConstraint returns the violated constraint name when err is a
// foreign-key rejection.
func foreignKeyConstraint(err error) (string, bool) {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == pqForeignKeyViolation {
		return pqErr.Constraint, true
	}
	return "", false
}

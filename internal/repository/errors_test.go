package repository

import (
	"errors"
	"fmt"
	"testing"

	"github.com/lib/pq"

	"github.com/convention-api/internal/models"
)

func TestTranslateUnique(t *testing.T) {
	cases := []struct {
		constraint string
		wantField  string
	}{
		{constraintAccountEmail, "email"},
		{constraintAccountUsername, "username"},
	}
	for _, tc := range cases {
		err := translateUnique(&pq.Error{Code: pqUniqueViolation, Constraint: tc.constraint})
		var dup *models.DuplicateEntityError
		if !errors.As(err, &dup) {
			t.Fatalf("constraint %s: expected DuplicateEntityError, got %v", tc.constraint, err)
		}
		if dup.Field != tc.wantField {
			t.Errorf("constraint %s: field = %q, want %q", tc.constraint, dup.Field, tc.wantField)
		}
	}
}

func TestTranslateUnique_PassesThroughOtherErrors(t *testing.T) {
	plain := fmt.Errorf("connection reset")
	if got := translateUnique(plain); got != plain {
		t.Errorf("plain error was rewritten: %v", got)
	}

	fkErr := &pq.Error{Code: pqForeignKeyViolation, Constraint: "comment_owner_fkey"}
	if got := translateUnique(fkErr); got != error(fkErr) {
		t.Errorf("foreign-key error was rewritten: %v", got)
	}
}

func TestForeignKeyConstraint(t *testing.T) {
	name, ok := foreignKeyConstraint(&pq.Error{Code: pqForeignKeyViolation, Constraint: "comment_previous_fkey"})
	if !ok || name != "comment_previous_fkey" {
		t.Errorf("got %q/%v", name, ok)
	}

	if _, ok := foreignKeyConstraint(errors.New("nope")); ok {
		t.Error("plain error reported as foreign-key violation")
	}
}

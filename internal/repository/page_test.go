package repository

import (
	"errors"
	"reflect"
	"testing"

	"github.com/convention-api/internal/models"
)

func TestBuildPageQuery_Defaults(t *testing.T) {
	query, args, err := buildPageQuery("id, email", "account", AccountSortFields, PageRequest{Page: 0, Size: 2})
	if err != nil {
		t.Fatalf("buildPageQuery failed: %v", err)
	}

	want := "SELECT id, email FROM account WHERE deleted = FALSE ORDER BY id ASC LIMIT $1 OFFSET $2"
	if query != want {
		t.Errorf("query mismatch:\n got  %q\n want %q", query, want)
	}
	if !reflect.DeepEqual(args, []any{2, 0}) {
		t.Errorf("args = %v, want [2 0]", args)
	}
}

func TestBuildPageQuery_SortAndOffset(t *testing.T) {
	query, args, err := buildPageQuery("id", "post", PostSortFields, PageRequest{
		Page:       3,
		Size:       10,
		SortField:  "createTime",
		Descending: true,
	})
	if err != nil {
		t.Fatalf("buildPageQuery failed: %v", err)
	}

	want := "SELECT id FROM post WHERE deleted = FALSE ORDER BY create_time DESC LIMIT $1 OFFSET $2"
	if query != want {
		t.Errorf("query mismatch:\n got  %q\n want %q", query, want)
	}
	if !reflect.DeepEqual(args, []any{10, 30}) {
		t.Errorf("args = %v, want [10 30]", args)
	}
}

func TestBuildPageQuery_Filters(t *testing.T) {
	userID := int64(7)
	query, args, err := buildPageQuery("id", "post", PostSortFields, PageRequest{Size: 10},
		FilterEquals("user_id", &userID),
		FilterContains("title", "go"),
		FilterEquals("topic_id", nil), // absent, must drop out
	)
	if err != nil {
		t.Fatalf("buildPageQuery failed: %v", err)
	}

	want := "SELECT id FROM post WHERE user_id = $1 AND title LIKE $2 AND deleted = FALSE ORDER BY id ASC LIMIT $3 OFFSET $4"
	if query != want {
		t.Errorf("query mismatch:\n got  %q\n want %q", query, want)
	}
	if !reflect.DeepEqual(args, []any{int64(7), "%go%", 10, 0}) {
		t.Errorf("args = %v", args)
	}
}

func TestBuildPageQuery_EscapesLikeMetacharacters(t *testing.T) {
	_, args, err := buildPageQuery("id", "post", PostSortFields, PageRequest{Size: 5},
		FilterContains("title", "100%_done"),
	)
	if err != nil {
		t.Fatalf("buildPageQuery failed: %v", err)
	}
	if args[0] != `%100\%\_done%` {
		t.Errorf("LIKE arg = %q, want escaped metacharacters", args[0])
	}
}

func TestBuildPageQuery_RejectsUnknownSortField(t *testing.T) {
	_, _, err := buildPageQuery("id", "account", AccountSortFields, PageRequest{Size: 2, SortField: "deleted"})
	if !errors.Is(err, models.ErrInvalidSortField) {
		t.Errorf("expected ErrInvalidSortField, got %v", err)
	}
}

func TestFilterMatches(t *testing.T) {
	userID := int64(7)
	eq := FilterEquals("user_id", &userID)
	if !eq.Matches(int64(7)) || eq.Matches(int64(8)) {
		t.Error("equality filter mismatch")
	}

	contains := FilterContains("title", "go")
	if !contains.Matches("golang weekly") || contains.Matches("rust weekly") {
		t.Error("containment filter mismatch")
	}
	// Case-sensitive containment.
	if contains.Matches("GO TIME") {
		t.Error("containment must be case-sensitive")
	}

	absent := FilterEquals("topic_id", nil)
	if absent.Present() || !absent.Matches(int64(1)) {
		t.Error("absent filter must match everything")
	}
}

package repository

import (
	"fmt"
	"strings"

	"github.com/convention-api/internal/models"
)

// PageRequest describes a zero-based page over a record kind. When SortField
// is empty the page is ordered by id ascending.
type PageRequest struct {
	Page       int
	Size       int
	SortField  string
	Descending bool
}

// SortFields is the closed enumeration of sortable fields for a record kind,
// mapping the external field name to its column. Requests naming a field
// outside the enumeration are rejected before any SQL is built.
type SortFields map[string]string

// Resolve maps an external sort field name to its column.
func (s SortFields) Resolve(name string) (string, error) {
	if name == "" {
		return "id", nil
	}
	col, ok := s[name]
	if !ok {
		return "", fmt.Errorf("%w: %q", models.ErrInvalidSortField, name)
	}
	return col, nil
}

// Sortable field enumerations per record kind.
var (
	AccountSortFields = SortFields{
		"id":           "id",
		"email":        "email",
		"username":     "username",
		"commentCount": "comment_count",
	}
	CommentSortFields = SortFields{
		"id":      "id",
		"content": "content",
		"owner":   "owner_id",
	}
	PostSortFields = SortFields{
		"id":         "id",
		"userId":     "user_id",
		"title":      "title",
		"topicId":    "topic_id",
		"createTime": "create_time",
		"updateTime": "update_time",
	}
)

type filterOp int

const (
	opEquals filterOp = iota
	opContains
)

// Filter is one optional predicate fragment of a page query. Fragments are
// combined with AND; absent values drop the fragment from the conjunction.
type Filter struct {
	column  string
	op      filterOp
	value   any
	present bool
}

// FilterEquals matches rows whose column equals value. A nil value yields an
// absent filter that is skipped entirely.
func FilterEquals(column string, value *int64) Filter {
	if value == nil {
		return Filter{}
	}
	return Filter{column: column, op: opEquals, value: *value, present: true}
}

// FilterContains matches rows whose column contains substr (case-sensitive).
// An empty substring yields an absent filter.
func FilterContains(column string, substr string) Filter {
	if substr == "" {
		return Filter{}
	}
	return Filter{column: column, op: opContains, value: substr, present: true}
}

// Column returns the filtered column name.
func (f Filter) Column() string { return f.column }

// Present reports whether the filter participates in the conjunction.
func (f Filter) Present() bool { return f.present }

// Matches evaluates the predicate against a field value. In-memory store
// implementations use this to mirror the SQL semantics.
func (f Filter) Matches(v any) bool {
	if !f.present {
		return true
	}
	switch f.op {
	case opContains:
		s, ok := v.(string)
		return ok && strings.Contains(s, f.value.(string))
	default:
		return v == f.value
	}
}

// escapeLike neutralizes LIKE metacharacters so the substring matches
// literally.
func escapeLike(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `%`, `\%`)
	s = strings.ReplaceAll(s, `_`, `\_`)
	return s
}

// buildPageQuery assembles the paged SELECT for one record kind. The
// not-deleted predicate is always appended last and cannot be disabled.
func buildPageQuery(selectCols, table string, sorts SortFields, p PageRequest, filters ...Filter) (string, []any, error) {
	col, err := sorts.Resolve(p.SortField)
	if err != nil {
		return "", nil, err
	}

	var b strings.Builder
	var args []any

	fmt.Fprintf(&b, "SELECT %s FROM %s WHERE ", selectCols, table)
	for _, f := range filters {
		if !f.present {
			continue
		}
		switch f.op {
		case opContains:
			args = append(args, "%"+escapeLike(f.value.(string))+"%")
			fmt.Fprintf(&b, "%s LIKE $%d AND ", f.column, len(args))
		default:
			args = append(args, f.value)
			fmt.Fprintf(&b, "%s = $%d AND ", f.column, len(args))
		}
	}
	b.WriteString("deleted = FALSE")

	dir := "ASC"
	if p.Descending {
		dir = "DESC"
	}
	fmt.Fprintf(&b, " ORDER BY %s %s", col, dir)

	args = append(args, p.Size)
	fmt.Fprintf(&b, " LIMIT $%d", len(args))
	args = append(args, p.Page*p.Size)
	fmt.Fprintf(&b, " OFFSET $%d", len(args))

	return b.String(), args, nil
}

// Package query holds the ticket filter predicate, listing order and
// pagination arithmetic. It does not depend on any storage engine: Filter can
// be evaluated against a ticket in memory or compiled to a parameterized SQL
// fragment for the store.
package query

import (
	"strings"

	"github.com/baiirun/tickets/internal/model"
)

// Filter selects tickets for a listing. Zero values mean "no filter".
type Filter struct {
	Search   string         // Search matches title or category, case-insensitive substring.
	Category model.Category // Category matches exactly when non-empty.
}

// FoldFunc is the SQL function stores must register so that Where folds case
// exactly like Matches. SQLite's LIKE only folds ASCII letters.
const FoldFunc = "fold"

// Fold is the case folding used for search on both sides of the comparison.
func Fold(s string) string {
	return strings.ToLower(s)
}

// Matches reports whether t satisfies the filter.
func (f Filter) Matches(t model.Ticket) bool {
	if f.Search != "" {
		term := Fold(f.Search)
		if !strings.Contains(Fold(t.Title), term) &&
			!strings.Contains(Fold(string(t.Category)), term) {
			return false
		}
	}
	if f.Category != "" && t.Category != f.Category {
		return false
	}
	return true
}

// Where compiles the filter into a WHERE fragment and its arguments.
// Values are always bound as parameters. The search term is folded here and
// the columns through FoldFunc.
func (f Filter) Where() (string, []any) {
	clause := `1=1`
	args := []any{}

	if f.Search != "" {
		pattern := "%" + escapeLike(Fold(f.Search)) + "%"
		clause += ` AND (` + FoldFunc + `(title) LIKE ? ESCAPE '\' OR ` + FoldFunc + `(category) LIKE ? ESCAPE '\')`
		args = append(args, pattern, pattern)
	}
	if f.Category != "" {
		clause += ` AND category = ?`
		args = append(args, string(f.Category))
	}
	return clause, args
}

// OrderBy lists newest first; tickets created at the same instant keep insertion order.
const OrderBy = `created_at DESC, id ASC`

// Less orders tickets the same way OrderBy does.
func Less(a, b model.Ticket) bool {
	if !a.CreatedAt.Equal(b.CreatedAt) {
		return a.CreatedAt.After(b.CreatedAt)
	}
	return a.ID < b.ID
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// escapeLike makes LIKE wildcards in user input match literally.
func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}

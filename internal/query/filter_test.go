package query

import (
	"sort"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/baiirun/tickets/internal/model"
)

func ticket(id int64, title string, category model.Category, created time.Time) model.Ticket {
	return model.Ticket{
		ID:        id,
		Fields:    model.Fields{Title: title, Category: category, Link: "https://example.com/t/" + title},
		CreatedAt: created,
	}
}

func TestFilter_Matches(t *testing.T) {
	now := time.Now()
	tk := ticket(1, "Fix outage", model.CategoryBilling, now)

	tests := []struct {
		name   string
		filter Filter
		want   bool
	}{
		{"empty filter", Filter{}, true},
		{"title substring", Filter{Search: "out"}, true},
		{"title case-insensitive", Filter{Search: "FIX"}, true},
		{"category substring", Filter{Search: "bill"}, true},
		{"no match", Filter{Search: "refund"}, false},
		{"link not searched", Filter{Search: "example.com"}, false},
		{"category exact", Filter{Category: model.CategoryBilling}, true},
		{"category other", Filter{Category: model.CategoryApprovals}, false},
		{"search and category", Filter{Search: "fix", Category: model.CategoryBilling}, true},
		{"search hits but category misses", Filter{Search: "fix", Category: model.CategoryApprovals}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.filter.Matches(tk); got != tt.want {
				t.Errorf("Matches() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestFilter_Where(t *testing.T) {
	tests := []struct {
		name       string
		filter     Filter
		wantClause string
		wantArgs   []any
	}{
		{
			name:       "no filter",
			filter:     Filter{},
			wantClause: `1=1`,
			wantArgs:   []any{},
		},
		{
			name:       "search only",
			filter:     Filter{Search: "fix"},
			wantClause: `1=1 AND (fold(title) LIKE ? ESCAPE '\' OR fold(category) LIKE ? ESCAPE '\')`,
			wantArgs:   []any{"%fix%", "%fix%"},
		},
		{
			name:       "search term is folded",
			filter:     Filter{Search: "ÉCHEC"},
			wantClause: `1=1 AND (fold(title) LIKE ? ESCAPE '\' OR fold(category) LIKE ? ESCAPE '\')`,
			wantArgs:   []any{"%échec%", "%échec%"},
		},
		{
			name:       "category only",
			filter:     Filter{Category: model.CategoryBilling},
			wantClause: `1=1 AND category = ?`,
			wantArgs:   []any{"Billing"},
		},
		{
			name:       "wildcards escaped",
			filter:     Filter{Search: `50%_off\`},
			wantClause: `1=1 AND (fold(title) LIKE ? ESCAPE '\' OR fold(category) LIKE ? ESCAPE '\')`,
			wantArgs:   []any{`%50\%\_off\\%`, `%50\%\_off\\%`},
		},
		{
			name:       "quotes stay in the argument",
			filter:     Filter{Search: `'; DROP TABLE tickets; --`, Category: model.CategoryApprovals},
			wantClause: `1=1 AND (fold(title) LIKE ? ESCAPE '\' OR fold(category) LIKE ? ESCAPE '\') AND category = ?`,
			wantArgs:   []any{`%'; drop table tickets; --%`, `%'; drop table tickets; --%`, "Approvals"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clause, args := tt.filter.Where()
			if clause != tt.wantClause {
				t.Errorf("clause = %q, want %q", clause, tt.wantClause)
			}
			if diff := cmp.Diff(tt.wantArgs, args); diff != "" {
				t.Errorf("args mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestLess(t *testing.T) {
	base := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	tickets := []model.Ticket{
		ticket(1, "a", model.CategoryBilling, base),
		ticket(2, "b", model.CategoryBilling, base.Add(time.Minute)),
		ticket(3, "c", model.CategoryBilling, base),
		ticket(4, "d", model.CategoryBilling, base.Add(2*time.Minute)),
	}

	sort.SliceStable(tickets, func(i, j int) bool { return Less(tickets[i], tickets[j]) })

	var got []int64
	for _, tk := range tickets {
		got = append(got, tk.ID)
	}
	want := []int64{4, 2, 1, 3}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("order mismatch (-want +got):\n%s", diff)
	}
}

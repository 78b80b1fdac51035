package db

import (
	"fmt"
	"sort"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/baiirun/tickets/internal/model"
	"github.com/baiirun/tickets/internal/query"
)

func ids(tickets []model.Ticket) []int64 {
	out := []int64{}
	for _, tk := range tickets {
		out = append(out, tk.ID)
	}
	return out
}

// seedTickets creates n tickets one minute apart, cycling through categories.
func seedTickets(t *testing.T, db *DB, n int) []*model.Ticket {
	t.Helper()
	base := time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC)
	var out []*model.Ticket
	for i := 0; i < n; i++ {
		category := model.Categories[i%len(model.Categories)]
		f := fields(fmt.Sprintf("Ticket %02d", i+1), category, fmt.Sprintf("https://example.com/t/%d", i+1))
		out = append(out, createTestTicket(t, db, f, base.Add(time.Duration(i)*time.Minute)))
	}
	return out
}

func TestCreateThenFilterByCategory(t *testing.T) {
	db := setupTestDB(t)

	tk := createTestTicket(t, db, fields("Fix outage", model.CategoryBilling, "https://example.com/t/1"), time.Now())

	count, err := db.CountMatching(query.Filter{})
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 1 {
		t.Errorf("count = %d, want 1", count)
	}

	billing, err := db.FetchPage(1, 6, query.Filter{Category: model.CategoryBilling})
	if err != nil {
		t.Fatalf("fetch billing: %v", err)
	}
	if diff := cmp.Diff([]int64{tk.ID}, ids(billing)); diff != "" {
		t.Errorf("billing page mismatch (-want +got):\n%s", diff)
	}

	approvals, err := db.FetchPage(1, 6, query.Filter{Category: model.CategoryApprovals})
	if err != nil {
		t.Fatalf("fetch approvals: %v", err)
	}
	if len(approvals) != 0 {
		t.Errorf("expected no approvals, got %d", len(approvals))
	}
}

func TestFetchPage_NewestFirst(t *testing.T) {
	db := setupTestDB(t)
	seeded := seedTickets(t, db, 3)

	page, err := db.FetchPage(1, 6, query.Filter{})
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}

	want := []int64{seeded[2].ID, seeded[1].ID, seeded[0].ID}
	if diff := cmp.Diff(want, ids(page)); diff != "" {
		t.Errorf("order mismatch (-want +got):\n%s", diff)
	}
}

func TestFetchPage_TiesKeepInsertionOrder(t *testing.T) {
	db := setupTestDB(t)

	same := time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC)
	a := createTestTicket(t, db, fields("A", model.CategoryBilling, "https://example.com/a"), same)
	b := createTestTicket(t, db, fields("B", model.CategoryBilling, "https://example.com/b"), same)
	newer := createTestTicket(t, db, fields("C", model.CategoryBilling, "https://example.com/c"), same.Add(time.Second))

	page, err := db.FetchPage(1, 6, query.Filter{})
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	want := []int64{newer.ID, a.ID, b.ID}
	if diff := cmp.Diff(want, ids(page)); diff != "" {
		t.Errorf("order mismatch (-want +got):\n%s", diff)
	}
}

func TestFetchPage_Pagination(t *testing.T) {
	db := setupTestDB(t)
	seedTickets(t, db, 14)

	tests := []struct {
		page int
		want int
	}{
		{1, 6},
		{2, 6},
		{3, 2},
		{4, 0}, // out of range, not clamped
		{0, 0},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprintf("page %d", tt.page), func(t *testing.T) {
			got, err := db.FetchPage(tt.page, 6, query.Filter{})
			if err != nil {
				t.Fatalf("fetch: %v", err)
			}
			if len(got) != tt.want {
				t.Errorf("len = %d, want %d", len(got), tt.want)
			}
		})
	}
}

func TestFetchPage_InvalidPageSize(t *testing.T) {
	db := setupTestDB(t)

	if _, err := db.FetchPage(1, 0, query.Filter{}); err == nil {
		t.Error("expected error for page size 0")
	}
}

func TestCountMatching_EqualsPagedTotal(t *testing.T) {
	db := setupTestDB(t)
	seedTickets(t, db, 17)

	filters := []query.Filter{
		{},
		{Search: "ticket"},
		{Search: "1"},
		{Search: "bill"},
		{Category: model.CategoryApprovals},
		{Search: "0", Category: model.CategoryDeliverability},
		{Search: "nothing matches this"},
	}

	for _, f := range filters {
		t.Run(fmt.Sprintf("%q/%q", f.Search, f.Category), func(t *testing.T) {
			count, err := db.CountMatching(f)
			if err != nil {
				t.Fatalf("count: %v", err)
			}

			const size = 6
			seen := 0
			for p := 1; p <= query.TotalPages(count, size); p++ {
				page, err := db.FetchPage(p, size, f)
				if err != nil {
					t.Fatalf("fetch page %d: %v", p, err)
				}
				seen += len(page)
			}
			if seen != count {
				t.Errorf("paged total = %d, count = %d", seen, count)
			}
		})
	}
}

func TestFetchPage_AgreesWithInMemoryFilter(t *testing.T) {
	db := setupTestDB(t)
	seeded := seedTickets(t, db, 10)
	later := time.Date(2024, 7, 1, 9, 0, 0, 0, time.UTC)
	seeded = append(seeded,
		createTestTicket(t, db, fields("Échec de paiement", model.CategoryBilling, "https://example.com/u/1"), later),
		createTestTicket(t, db, fields("ÉCHEC de livraison", model.CategoryDeliverability, "https://example.com/u/2"), later.Add(time.Minute)),
		createTestTicket(t, db, fields("Ошибка оплаты", model.CategoryBilling, "https://example.com/u/3"), later.Add(2*time.Minute)),
	)

	var all []model.Ticket
	for _, tk := range seeded {
		all = append(all, *tk)
	}

	filters := []query.Filter{
		{Search: "échec"},
		{Search: "ÉCHEC", Category: model.CategoryBilling},
		{Search: "ОШИБКА"},
		{Search: "TICKET 0"},
		{Search: "cancel"},
		{Category: model.CategoryBilling},
		{Search: "ticket", Category: model.CategoryDeliverability},
	}
	for _, f := range filters {
		t.Run(fmt.Sprintf("%q/%q", f.Search, f.Category), func(t *testing.T) {
			var want []model.Ticket
			for _, tk := range all {
				if f.Matches(tk) {
					want = append(want, tk)
				}
			}
			sort.SliceStable(want, func(i, j int) bool { return query.Less(want[i], want[j]) })

			got, err := db.FetchPage(1, 100, f)
			if err != nil {
				t.Fatalf("fetch: %v", err)
			}
			if diff := cmp.Diff(ids(want), ids(got)); diff != "" {
				t.Errorf("filter mismatch (-want +got):\n%s", diff)
			}

			count, err := db.CountMatching(f)
			if err != nil {
				t.Fatalf("count: %v", err)
			}
			if count != len(want) {
				t.Errorf("count = %d, want %d", count, len(want))
			}
		})
	}
}

func TestFetchPage_SearchIsLiteral(t *testing.T) {
	db := setupTestDB(t)

	now := time.Now()
	discount := createTestTicket(t, db, fields("50% discount", model.CategoryBilling, "https://example.com/d"), now)
	createTestTicket(t, db, fields("500 errors", model.CategoryBilling, "https://example.com/e"), now)

	got, err := db.FetchPage(1, 6, query.Filter{Search: "0%"})
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if diff := cmp.Diff([]int64{discount.ID}, ids(got)); diff != "" {
		t.Errorf("wildcard not escaped (-want +got):\n%s", diff)
	}

	// Injection attempt is just a search term
	if _, err := db.FetchPage(1, 6, query.Filter{Search: "'; DROP TABLE tickets; --"}); err != nil {
		t.Fatalf("fetch with quote: %v", err)
	}
	count, err := db.CountMatching(query.Filter{})
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 2 {
		t.Errorf("count = %d, want 2", count)
	}
}

func TestDeleteAllTickets_EmptiesListing(t *testing.T) {
	db := setupTestDB(t)
	seedTickets(t, db, 8)

	if err := db.DeleteAllTickets(); err != nil {
		t.Fatalf("delete all: %v", err)
	}

	for _, p := range []int{1, 2} {
		page, err := db.FetchPage(p, 6, query.Filter{})
		if err != nil {
			t.Fatalf("fetch: %v", err)
		}
		if len(page) != 0 {
			t.Errorf("page %d has %d tickets after delete all", p, len(page))
		}
	}

	count, err := db.CountMatching(query.Filter{})
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if got := query.TotalPages(count, 6); got != 1 {
		t.Errorf("total pages = %d, want 1", got)
	}
}

package db

import (
	"fmt"

	"github.com/baiirun/tickets/internal/model"
	"github.com/baiirun/tickets/internal/query"
)

// CountMatching returns how many tickets satisfy the filter.
func (db *DB) CountMatching(f query.Filter) (int, error) {
	where, args := f.Where()

	var count int
	if err := db.QueryRow(`SELECT COUNT(*) FROM tickets WHERE `+where, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count tickets: %w", err)
	}
	return count, nil
}

// FetchPage returns one 1-based page of matching tickets, newest first.
// Pages outside the available range come back empty; the page number is not clamped.
func (db *DB) FetchPage(page, pageSize int, f query.Filter) ([]model.Ticket, error) {
	if pageSize < 1 {
		return nil, fmt.Errorf("invalid page size: %d", pageSize)
	}
	if page < 1 {
		return []model.Ticket{}, nil
	}

	where, args := f.Where()
	args = append(args, pageSize, query.Offset(page, pageSize))

	return db.queryTickets(`SELECT `+ticketColumns+` FROM tickets WHERE `+where+
		` ORDER BY `+query.OrderBy+` LIMIT ? OFFSET ?`, args...)
}

// queryTickets is a helper to scan ticket rows.
func (db *DB) queryTickets(q string, args ...any) ([]model.Ticket, error) {
	rows, err := db.Query(q, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query tickets: %w", err)
	}
	defer func() { _ = rows.Close() }()

	tickets := []model.Ticket{}
	for rows.Next() {
		t, err := scanTicket(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan ticket: %w", err)
		}
		tickets = append(tickets, *t)
	}
	return tickets, rows.Err()
}

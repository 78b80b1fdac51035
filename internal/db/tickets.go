package db

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/baiirun/tickets/internal/model"
)

const ticketColumns = `id, title, category, link, lead_comment, action_plan, other_details, created_at`

// CreateTicket inserts a new ticket stamped with createdAt and returns it with
// its generated ID. Callers validate the fields first.
func (db *DB) CreateTicket(f model.Fields, createdAt time.Time) (*model.Ticket, error) {
	createdAt = createdAt.UTC()
	result, err := db.Exec(`
		INSERT INTO tickets (title, category, link, lead_comment, action_plan, other_details, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		f.Title, f.Category, f.Link, f.LeadComment, f.ActionPlan, f.OtherDetails, createdAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create ticket: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("failed to read ticket id: %w", err)
	}

	return &model.Ticket{ID: id, Fields: f, CreatedAt: createdAt}, nil
}

// GetTicket retrieves a ticket by ID.
func (db *DB) GetTicket(id int64) (*model.Ticket, error) {
	row := db.QueryRow(`SELECT `+ticketColumns+` FROM tickets WHERE id = ?`, id)

	t, err := scanTicket(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %d", model.ErrTicketNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get ticket: %w", err)
	}
	return t, nil
}

// UpdateTicket replaces every mutable field of a ticket. The ID and creation
// time are left alone.
func (db *DB) UpdateTicket(id int64, f model.Fields) error {
	result, err := db.Exec(`
		UPDATE tickets
		SET title = ?, category = ?, link = ?, lead_comment = ?, action_plan = ?, other_details = ?
		WHERE id = ?`,
		f.Title, f.Category, f.Link, f.LeadComment, f.ActionPlan, f.OtherDetails, id)
	if err != nil {
		return fmt.Errorf("failed to update ticket: %w", err)
	}

	rows, _ := result.RowsAffected()
	if rows == 0 {
		return fmt.Errorf("%w: %d", model.ErrTicketNotFound, id)
	}
	return nil
}

// DeleteTicket removes a ticket. Deleting an unknown ID is not an error.
func (db *DB) DeleteTicket(id int64) error {
	if _, err := db.Exec(`DELETE FROM tickets WHERE id = ?`, id); err != nil {
		return fmt.Errorf("failed to delete ticket: %w", err)
	}
	return nil
}

// DeleteAllTickets removes every ticket.
func (db *DB) DeleteAllTickets() error {
	if _, err := db.Exec(`DELETE FROM tickets`); err != nil {
		return fmt.Errorf("failed to delete tickets: %w", err)
	}
	return nil
}

// ExistsByLink reports whether any ticket already uses link exactly.
func (db *DB) ExistsByLink(link string) (bool, error) {
	var count int
	if err := db.QueryRow(`SELECT COUNT(*) FROM tickets WHERE link = ?`, link).Scan(&count); err != nil {
		return false, fmt.Errorf("failed to check link: %w", err)
	}
	return count > 0, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTicket(row rowScanner) (*model.Ticket, error) {
	t := &model.Ticket{}
	if err := row.Scan(
		&t.ID, &t.Title, &t.Category, &t.Link,
		&t.LeadComment, &t.ActionPlan, &t.OtherDetails, &t.CreatedAt,
	); err != nil {
		return nil, err
	}
	return t, nil
}

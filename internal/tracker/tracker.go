// Package tracker is the entry point presentation code uses to manage
// tickets. Every mutation is validated before it reaches the store, and
// listings are built from explicit page and filter arguments so the tracker
// keeps no state between calls.
package tracker

import (
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/baiirun/tickets/internal/model"
	"github.com/baiirun/tickets/internal/query"
)

// Store is the persistence the tracker needs. *db.DB satisfies it.
type Store interface {
	LinkChecker
	CreateTicket(f model.Fields, createdAt time.Time) (*model.Ticket, error)
	GetTicket(id int64) (*model.Ticket, error)
	UpdateTicket(id int64, f model.Fields) error
	DeleteTicket(id int64) error
	DeleteAllTickets() error
	CountMatching(f query.Filter) (int, error)
	FetchPage(page, pageSize int, f query.Filter) ([]model.Ticket, error)
}

// Page is one window of a filtered listing.
type Page struct {
	Number     int
	Size       int
	Total      int // Total counts every matching ticket, not just this page.
	TotalPages int
	Tickets    []model.Ticket
}

// Tracker validates and applies ticket operations.
type Tracker struct {
	store Store
	log   *zap.Logger
	now   func() time.Time

	// mu serializes validate-then-write so two creates cannot both pass the
	// duplicate link check, and keeps a listing's count and page consistent.
	mu sync.Mutex
}

// Option configures a Tracker.
type Option func(*Tracker)

// WithClock replaces time.Now for creation timestamps.
func WithClock(now func() time.Time) Option {
	return func(t *Tracker) { t.now = now }
}

// New builds a Tracker over store. A nil logger disables logging.
func New(store Store, logger *zap.Logger, opts ...Option) *Tracker {
	if logger == nil {
		logger = zap.NewNop()
	}
	t := &Tracker{store: store, log: logger, now: time.Now}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// CreateTicket validates f and stores a new ticket stamped with the current time.
func (t *Tracker) CreateTicket(f model.Fields) (*model.Ticket, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if err := ValidateForCreate(f, t.store); err != nil {
		t.logRejected("create", 0, err)
		return nil, err
	}

	tk, err := t.store.CreateTicket(f, t.now())
	if err != nil {
		t.log.Error("create ticket failed", zap.Error(err))
		return nil, err
	}

	t.log.Info("ticket created",
		zap.Int64("id", tk.ID),
		zap.String("category", string(tk.Category)),
		zap.String("link", tk.Link),
	)
	return tk, nil
}

// UpdateTicket validates f and replaces the mutable fields of ticket id.
func (t *Tracker) UpdateTicket(id int64, f model.Fields) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if err := ValidateForUpdate(id, f); err != nil {
		t.logRejected("update", id, err)
		return err
	}

	if err := t.store.UpdateTicket(id, f); err != nil {
		if errors.Is(err, model.ErrTicketNotFound) {
			t.logRejected("update", id, err)
		} else {
			t.log.Error("update ticket failed", zap.Int64("id", id), zap.Error(err))
		}
		return err
	}

	t.log.Info("ticket updated", zap.Int64("id", id), zap.String("category", string(f.Category)))
	return nil
}

// DeleteTicket removes ticket id. Unknown IDs are ignored.
func (t *Tracker) DeleteTicket(id int64) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if err := t.store.DeleteTicket(id); err != nil {
		t.log.Error("delete ticket failed", zap.Int64("id", id), zap.Error(err))
		return err
	}
	t.log.Info("ticket deleted", zap.Int64("id", id))
	return nil
}

// DeleteAllTickets removes every ticket.
func (t *Tracker) DeleteAllTickets() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if err := t.store.DeleteAllTickets(); err != nil {
		t.log.Error("delete all tickets failed", zap.Error(err))
		return err
	}
	t.log.Info("all tickets deleted")
	return nil
}

// GetTicket returns a single ticket.
func (t *Tracker) GetTicket(id int64) (*model.Ticket, error) {
	return t.store.GetTicket(id)
}

// ListTickets returns page number page of the tickets matching search and
// category. The page is not clamped: out-of-range pages are empty, and
// TotalPages is at least 1. Total and Tickets come from the same snapshot:
// no mutation runs between the count and the fetch.
func (t *Tracker) ListTickets(page, pageSize int, search string, category model.Category) (*Page, error) {
	f := query.Filter{Search: search, Category: category}

	t.mu.Lock()
	defer t.mu.Unlock()

	total, err := t.store.CountMatching(f)
	if err != nil {
		return nil, err
	}
	tickets, err := t.store.FetchPage(page, pageSize, f)
	if err != nil {
		return nil, err
	}

	return &Page{
		Number:     page,
		Size:       pageSize,
		Total:      total,
		TotalPages: query.TotalPages(total, pageSize),
		Tickets:    tickets,
	}, nil
}

func (t *Tracker) logRejected(op string, id int64, err error) {
	t.log.Debug("ticket rejected",
		zap.String("op", op),
		zap.Int64("id", id),
		zap.Error(err),
	)
}

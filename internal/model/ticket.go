// Package model defines the ticket record and the errors the core reports.
package model

import (
	"strings"
	"time"
)

type Category string

const (
	CategoryApprovals      Category = "Approvals"
	CategoryBilling        Category = "Billing"
	CategoryCancellations  Category = "Cancellations"
	CategoryDeliverability Category = "Deliverability"
)

// Categories lists every category in display order.
var Categories = []Category{
	CategoryApprovals,
	CategoryBilling,
	CategoryCancellations,
	CategoryDeliverability,
}

// IsValid reports whether c is one of the fixed categories. Matching is case sensitive.
func (c Category) IsValid() bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}

// Status is derived from the action plan and never stored.
type Status string

const (
	StatusPending  Status = "pending"
	StatusActioned Status = "actioned"
)

// Fields are the caller-supplied ticket values. Everything except the ID and
// creation time is replaced on update.
type Fields struct {
	Title        string
	Category     Category
	Link         string
	LeadComment  string
	ActionPlan   string
	OtherDetails string
}

type Ticket struct {
	ID int64
	Fields
	CreatedAt time.Time
}

// Status returns pending while the action plan is blank.
func (t Ticket) Status() Status {
	if strings.TrimSpace(t.ActionPlan) == "" {
		return StatusPending
	}
	return StatusActioned
}

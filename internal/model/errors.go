package model

import "errors"

// Validation outcomes. They are recoverable and meant to be shown to the user.
var (
	ErrMissingRequiredField   = errors.New("please fill in the required fields (Title, Category, and Link)")
	ErrInvalidTitle           = errors.New("ticket title should not be a URL")
	ErrInvalidLink            = errors.New("please enter a valid URL for the ticket link")
	ErrInvalidCategory        = errors.New("unknown category (use one of Approvals, Billing, Cancellations, Deliverability)")
	ErrDuplicateLink          = errors.New("a ticket with this link already exists, update the existing ticket instead")
	ErrMissingTicketSelection = errors.New("please select a ticket to update first")
	ErrTicketNotFound         = errors.New("ticket not found")
)

var validationErrors = []error{
	ErrMissingRequiredField,
	ErrInvalidTitle,
	ErrInvalidLink,
	ErrInvalidCategory,
	ErrDuplicateLink,
	ErrMissingTicketSelection,
	ErrTicketNotFound,
}

// IsValidationError reports whether err belongs to the user-facing taxonomy
// rather than being a storage failure.
func IsValidationError(err error) bool {
	for _, target := range validationErrors {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

var userMessages = []struct {
	err error
	msg string
}{
	{ErrInvalidTitle, "Ticket title should not be a URL."},
	{ErrInvalidLink, "Please enter a valid URL for the ticket link."},
	{ErrMissingRequiredField, "Please fill in the required fields (Title, Category, and Link)."},
	{ErrInvalidCategory, "Please choose one of the categories: Approvals, Billing, Cancellations, Deliverability."},
	{ErrDuplicateLink, "A ticket with this link already exists. Please update the existing ticket instead."},
	{ErrMissingTicketSelection, "Please select a ticket to update first."},
	{ErrTicketNotFound, "That ticket no longer exists."},
}

// UserMessage returns the sentence shown to the user for a validation error,
// or "Error: ..." for anything else.
func UserMessage(err error) string {
	for _, m := range userMessages {
		if errors.Is(err, m.err) {
			return m.msg
		}
	}
	return "Error: " + err.Error()
}

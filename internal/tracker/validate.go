package tracker

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/baiirun/tickets/internal/model"
)

// LinkChecker looks up whether a link is already tracked.
type LinkChecker interface {
	ExistsByLink(link string) (bool, error)
}

// IsValidURL reports whether s has both a scheme and a network location.
// Nothing is fetched. Strings url.Parse refuses, such as a bad percent
// escape or a space in the host, are split by hand instead, so they still
// count as URLs when both parts are present.
func IsValidURL(s string) bool {
	u, err := url.Parse(s)
	if err != nil {
		scheme, authority := splitURL(s)
		return scheme != "" && authority != ""
	}
	return u.Scheme != "" && (u.Host != "" || u.User != nil)
}

// splitURL returns the scheme and the authority between "//" and the next
// '/', '?' or '#'. Either is empty when absent or malformed.
func splitURL(s string) (scheme, authority string) {
	i := strings.IndexByte(s, ':')
	if i <= 0 || !isScheme(s[:i]) {
		return "", ""
	}
	scheme, rest := s[:i], s[i+1:]
	if !strings.HasPrefix(rest, "//") {
		return scheme, ""
	}
	rest = rest[2:]
	if end := strings.IndexAny(rest, "/?#"); end >= 0 {
		rest = rest[:end]
	}
	// An unbalanced IPv6 bracket is never a usable host.
	if strings.Contains(rest, "[") != strings.Contains(rest, "]") {
		return scheme, ""
	}
	return scheme, rest
}

// isScheme follows RFC 3986: a letter, then letters, digits, '+', '-' or '.'.
func isScheme(s string) bool {
	for i, r := range s {
		switch {
		case 'a' <= r && r <= 'z', 'A' <= r && r <= 'Z':
		case i > 0 && ('0' <= r && r <= '9' || r == '+' || r == '-' || r == '.'):
		default:
			return false
		}
	}
	return s != ""
}

// ValidateForCreate checks proposed fields for a new ticket. The duplicate
// link lookup is the only store access and it is read-only.
func ValidateForCreate(f model.Fields, links LinkChecker) error {
	if err := validateFields(f); err != nil {
		return err
	}

	exists, err := links.ExistsByLink(f.Link)
	if err != nil {
		return fmt.Errorf("failed to check for duplicate link: %w", err)
	}
	if exists {
		return model.ErrDuplicateLink
	}
	return nil
}

// ValidateForUpdate checks proposed fields for an existing ticket. Duplicate
// links are not rejected here.
// TODO: decide whether updates should also reject a link owned by another ticket.
func ValidateForUpdate(id int64, f model.Fields) error {
	if id <= 0 {
		return model.ErrMissingTicketSelection
	}
	return validateFields(f)
}

func validateFields(f model.Fields) error {
	switch {
	case IsValidURL(f.Title):
		return model.ErrInvalidTitle
	case !IsValidURL(f.Link):
		return model.ErrInvalidLink
	case f.Title == "" || f.Category == "" || f.Link == "":
		return model.ErrMissingRequiredField
	case !f.Category.IsValid():
		return model.ErrInvalidCategory
	}
	return nil
}

package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/baiirun/tickets/internal/model"
	"github.com/baiirun/tickets/internal/tracker"
)

// TicketJSON is the --json shape of a ticket.
type TicketJSON struct {
	ID           int64     `json:"id"`
	Title        string    `json:"title"`
	Category     string    `json:"category"`
	Link         string    `json:"link"`
	LeadComment  string    `json:"lead_comment"`
	ActionPlan   string    `json:"action_plan"`
	OtherDetails string    `json:"other_details"`
	Status       string    `json:"status"`
	CreatedAt    time.Time `json:"created_at"`
}

// PageJSON is the --json shape of a listing.
type PageJSON struct {
	Page       int          `json:"page"`
	PageSize   int          `json:"page_size"`
	TotalPages int          `json:"total_pages"`
	Total      int          `json:"total"`
	Tickets    []TicketJSON `json:"tickets"`
}

func toTicketJSON(t model.Ticket) TicketJSON {
	return TicketJSON{
		ID:           t.ID,
		Title:        t.Title,
		Category:     string(t.Category),
		Link:         t.Link,
		LeadComment:  t.LeadComment,
		ActionPlan:   t.ActionPlan,
		OtherDetails: t.OtherDetails,
		Status:       string(t.Status()),
		CreatedAt:    t.CreatedAt,
	}
}

func toPageJSON(p *tracker.Page) PageJSON {
	out := PageJSON{
		Page:       p.Number,
		PageSize:   p.Size,
		TotalPages: p.TotalPages,
		Total:      p.Total,
		Tickets:    make([]TicketJSON, 0, len(p.Tickets)),
	}
	for _, t := range p.Tickets {
		out.Tickets = append(out.Tickets, toTicketJSON(t))
	}
	return out
}

func writeJSON(w io.Writer, v any) error {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}
	_, err = fmt.Fprintln(w, string(b))
	return err
}

var (
	pendingStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	actionedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	labelStyle    = lipgloss.NewStyle().Bold(true)
	dimStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

// statusDot is red while a ticket has no action plan and green afterwards.
func statusDot(t model.Ticket) string {
	if t.Status() == model.StatusActioned {
		return actionedStyle.Render("●")
	}
	return pendingStyle.Render("●")
}

func printTicketLine(w io.Writer, t model.Ticket) {
	fmt.Fprintf(w, "%s #%-4d %s (%s)  %s\n",
		statusDot(t), t.ID, t.Title, t.Category,
		dimStyle.Render("created "+humanize.Time(t.CreatedAt)))
}

func printPage(w io.Writer, p *tracker.Page) {
	if len(p.Tickets) == 0 {
		fmt.Fprintln(w, "No tickets found.")
	}
	for _, t := range p.Tickets {
		printTicketLine(w, t)
	}
	fmt.Fprintf(w, "\nPage %d of %d (%d %s)\n", p.Number, p.TotalPages, p.Total, plural(p.Total, "ticket", "tickets"))
}

func printTicketDetail(w io.Writer, t model.Ticket) {
	row := func(label, value string) {
		fmt.Fprintf(w, "%s %s\n", labelStyle.Render(label+":"), value)
	}
	fmt.Fprintln(w, strings.Repeat("-", 3))
	row("ID", fmt.Sprintf("%d", t.ID))
	row("Title", t.Title)
	row("Category", string(t.Category))
	row("Link", t.Link)
	row("Lead's Comment", t.LeadComment)
	row("Action Plan", t.ActionPlan)
	row("Other Details", t.OtherDetails)
	row("Status", statusDot(t)+" "+string(t.Status()))
	row("Created At", t.CreatedAt.Local().Format("2006-01-02 15:04:05"))
	fmt.Fprintln(w, strings.Repeat("-", 3))
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}

// Package tui provides an interactive terminal UI for tickets using Bubble Tea.
//
// All paging, filter and selection state lives in Model; every load asks the
// tracker for exactly one page with the current filters.
package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/baiirun/tickets/internal/model"
	"github.com/baiirun/tickets/internal/query"
	"github.com/baiirun/tickets/internal/tracker"
)

// InputMode represents what kind of text input is active.
type InputMode int

const (
	InputNone       InputMode = iota
	InputSearch               // Entering search text
	InputForm                 // Filling the add/update form
	InputConfirmAll           // Confirming remove-all
)

// Status icon
const iconStatus = "●"

// Model is the main Bubble Tea model for the TUI.
type Model struct {
	tracker  *tracker.Tracker
	pageSize int

	// Listing state
	page       int
	totalPages int
	total      int
	tickets    []model.Ticket
	cursor     int
	expanded   int64 // ID of the ticket whose details are open, 0 for none

	// Filter state
	filterSearch   string
	filterCategory model.Category

	// Input state
	inputMode InputMode
	inputText string
	form      form

	// UI state
	width   int
	height  int
	err     error
	message string // temporary status message
}

// Styles
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("205"))

	selectedRowStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("229")).
				Background(lipgloss.Color("57"))

	statusColors = map[model.Status]lipgloss.Color{
		model.StatusPending:  lipgloss.Color("196"),
		model.StatusActioned: lipgloss.Color("42"),
	}

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))

	filterStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("39"))

	inputStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("229")).
			Background(lipgloss.Color("57"))

	messageStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("42"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196"))

	detailLabelStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("39"))

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))

	// Content area padding
	contentPadding = 2
)

func statusIcon(t model.Ticket) string {
	return lipgloss.NewStyle().Foreground(statusColors[t.Status()]).Render(iconStatus)
}

// New creates a new TUI model backed by the given tracker.
func New(tr *tracker.Tracker, pageSize int) Model {
	if pageSize < 1 {
		pageSize = query.DefaultPageSize
	}
	return Model{
		tracker:    tr,
		pageSize:   pageSize,
		page:       1,
		totalPages: 1,
	}
}

// Messages
type pageMsg struct {
	page *tracker.Page
	err  error
}

type actionMsg struct {
	message string
	err     error
}

// formResultMsg reports a form submission. On error the form stays open with
// the user's input intact.
type formResultMsg struct {
	message string
	err     error
}

// loadPage loads the current page from the tracker.
func (m Model) loadPage() tea.Cmd {
	page, size := m.page, m.pageSize
	search, category := m.filterSearch, m.filterCategory
	return func() tea.Msg {
		p, err := m.tracker.ListTickets(page, size, search, category)
		return pageMsg{page: p, err: err}
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return m.loadPage()
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		// Clear message on any key
		m.message = ""
		if m.inputMode != InputForm {
			m.err = nil
		}
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case pageMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		// Keep the current page inside the listing after deletes or new filters
		if clamped := query.ClampPage(m.page, msg.page.TotalPages); clamped != msg.page.Number {
			m.page = clamped
			return m, m.loadPage()
		}
		m.tickets = msg.page.Tickets
		m.total = msg.page.Total
		m.totalPages = msg.page.TotalPages
		if m.cursor >= len(m.tickets) {
			m.cursor = max(0, len(m.tickets)-1)
		}
		return m, nil

	case actionMsg:
		if msg.err != nil {
			m.err = msg.err
		} else {
			m.message = msg.message
		}
		return m, m.loadPage()

	case formResultMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.err = nil
		m.inputMode = InputNone
		m.form = form{}
		m.message = msg.message
		return m, m.loadPage()
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.inputMode {
	case InputSearch:
		return m.handleSearchKey(msg)
	case InputForm:
		return m.handleFormKey(msg)
	case InputConfirmAll:
		return m.handleConfirmKey(msg)
	}
	return m.handleListKey(msg)
}

func (m Model) handleListKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit

	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}

	case "down", "j":
		if m.cursor < len(m.tickets)-1 {
			m.cursor++
		}

	case "enter", " ":
		// Toggle the detail block of the selected ticket
		if t, ok := m.selected(); ok {
			if m.expanded == t.ID {
				m.expanded = 0
			} else {
				m.expanded = t.ID
			}
		}

	// Paging
	case "<", "home":
		return m.goToPage(1)
	case "left", "h":
		return m.goToPage(m.page - 1)
	case "right", "l":
		return m.goToPage(m.page + 1)
	case ">", "end":
		return m.goToPage(m.totalPages)

	// Filtering
	case "/":
		m.inputMode = InputSearch
		m.inputText = m.filterSearch
		return m, nil
	case "c":
		m.filterCategory = nextCategory(m.filterCategory)
		m.page = 1
		m.cursor = 0
		return m, m.loadPage()
	case "esc":
		// If filters are set, clear them; otherwise quit
		if m.filterSearch != "" || m.filterCategory != "" {
			m.filterSearch = ""
			m.filterCategory = ""
			m.page = 1
			m.cursor = 0
			return m, m.loadPage()
		}
		return m, tea.Quit

	case "r":
		return m, m.loadPage()

	// Actions
	case "n":
		m.inputMode = InputForm
		m.form = newForm(0, model.Fields{Category: model.Categories[0]})
		return m, nil
	case "e":
		t, ok := m.selected()
		if !ok {
			m.err = model.ErrMissingTicketSelection
			return m, nil
		}
		m.inputMode = InputForm
		m.form = newForm(t.ID, t.Fields)
		return m, nil
	case "x", "D":
		return m.doDelete()
	case "X":
		if m.total == 0 {
			return m, nil
		}
		m.inputMode = InputConfirmAll
		return m, nil
	}

	return m, nil
}

func (m Model) handleSearchKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.inputMode = InputNone
		m.inputText = ""
		return m, nil
	case tea.KeyEnter:
		m.filterSearch = m.inputText
		m.inputMode = InputNone
		m.inputText = ""
		m.page = 1
		m.cursor = 0
		return m, m.loadPage()
	}
	m.inputText = editText(m.inputText, msg)
	return m, nil
}

func (m Model) handleConfirmKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.inputMode = InputNone
	if msg.String() != "y" && msg.String() != "Y" {
		m.message = "Remove all canceled"
		return m, nil
	}
	m.expanded = 0
	return m, func() tea.Msg {
		if err := m.tracker.DeleteAllTickets(); err != nil {
			return actionMsg{err: err}
		}
		return actionMsg{message: "Successfully removed all tickets."}
	}
}

func (m Model) goToPage(page int) (Model, tea.Cmd) {
	page = query.ClampPage(page, m.totalPages)
	if page == m.page {
		return m, nil
	}
	m.page = page
	m.cursor = 0
	return m, m.loadPage()
}

func (m Model) selected() (model.Ticket, bool) {
	if len(m.tickets) == 0 || m.cursor >= len(m.tickets) {
		return model.Ticket{}, false
	}
	return m.tickets[m.cursor], true
}

func (m Model) doDelete() (Model, tea.Cmd) {
	t, ok := m.selected()
	if !ok {
		return m, nil
	}
	if m.expanded == t.ID {
		m.expanded = 0
	}
	return m, func() tea.Msg {
		if err := m.tracker.DeleteTicket(t.ID); err != nil {
			return actionMsg{err: err}
		}
		return actionMsg{message: "Successfully removed the ticket."}
	}
}

// nextCategory cycles the category filter: all, then each category in order.
func nextCategory(c model.Category) model.Category {
	if c == "" {
		return model.Categories[0]
	}
	for i, known := range model.Categories {
		if known == c && i+1 < len(model.Categories) {
			return model.Categories[i+1]
		}
	}
	return ""
}

// editText applies a typing key to s.
func editText(s string, msg tea.KeyMsg) string {
	switch msg.Type {
	case tea.KeyBackspace:
		if r := []rune(s); len(r) > 0 {
			return string(r[:len(r)-1])
		}
	case tea.KeySpace:
		return s + " "
	case tea.KeyRunes:
		return s + string(msg.Runes)
	}
	return s
}

// View implements tea.Model.
func (m Model) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("Ticket Tracker"))
	b.WriteString("\n\n")

	if m.inputMode == InputForm {
		b.WriteString(m.form.view())
	} else {
		b.WriteString(m.listView())
	}

	// Input line
	switch m.inputMode {
	case InputSearch:
		b.WriteString("\n")
		b.WriteString(inputStyle.Render("Search: " + m.inputText + "█"))
	case InputConfirmAll:
		b.WriteString("\n")
		b.WriteString(inputStyle.Render(fmt.Sprintf("Remove all %d tickets? (y/N)", m.total)))
	}

	// Status message
	if m.err != nil {
		b.WriteString("\n")
		b.WriteString(errorStyle.Render(model.UserMessage(m.err)))
	} else if m.message != "" {
		b.WriteString("\n")
		b.WriteString(messageStyle.Render(m.message))
	}

	// Apply padding to entire content
	padStyle := lipgloss.NewStyle().
		PaddingLeft(contentPadding).
		PaddingRight(contentPadding).
		PaddingTop(1)

	return padStyle.Render(b.String())
}

func (m Model) listView() string {
	var b strings.Builder

	if filters := m.filterSummary(); filters != "" {
		b.WriteString(filterStyle.Render(filters))
		b.WriteString("\n\n")
	}

	if len(m.tickets) == 0 {
		b.WriteString(dimStyle.Render("No tickets."))
		b.WriteString("\n")
	}

	for i, t := range m.tickets {
		line := fmt.Sprintf("%s (%s)", t.Title, t.Category)
		if i == m.cursor {
			line = selectedRowStyle.Render(line)
		}
		b.WriteString(statusIcon(t) + " " + line)
		b.WriteString("\n")
		if m.expanded == t.ID {
			b.WriteString(detailView(t))
		}
	}

	b.WriteString("\n")
	b.WriteString(fmt.Sprintf("Page %d of %d", m.page, m.totalPages))
	b.WriteString("\n")
	b.WriteString(helpStyle.Render("↑/↓ select • enter details • ←/→ page • </> first/last • / search • c category • n new • e edit • x remove • X remove all • q quit"))

	return b.String()
}

func (m Model) filterSummary() string {
	var parts []string
	if m.filterSearch != "" {
		parts = append(parts, fmt.Sprintf("search: %q", m.filterSearch))
	}
	if m.filterCategory != "" {
		parts = append(parts, "category: "+string(m.filterCategory))
	}
	return strings.Join(parts, "  ")
}

func detailView(t model.Ticket) string {
	var b strings.Builder
	row := func(label, value string) {
		b.WriteString("    " + detailLabelStyle.Render(label+":") + " " + value + "\n")
	}
	b.WriteString(dimStyle.Render("    ---") + "\n")
	row("Title", t.Title)
	row("Category", string(t.Category))
	row("Link", t.Link)
	row("Lead's Comment", t.LeadComment)
	row("Action Plan", t.ActionPlan)
	row("Other Details", t.OtherDetails)
	row("Created At", t.CreatedAt.Local().Format("2006-01-02 15:04:05")+" "+dimStyle.Render("("+humanize.Time(t.CreatedAt)+")"))
	b.WriteString(dimStyle.Render("    ---") + "\n")
	return b.String()
}

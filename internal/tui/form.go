package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/baiirun/tickets/internal/model"
)

// Form field order follows the add/update screen: link first, since tickets
// are usually filed from a pasted URL.
const (
	fieldLink = iota
	fieldTitle
	fieldCategory
	fieldLeadComment
	fieldActionPlan
	fieldOtherDetails
	fieldCount
)

var fieldLabels = [fieldCount]string{
	"Ticket Link",
	"Ticket Title",
	"Category",
	"Lead's Comment",
	"Action Plan",
	"Other Details",
}

// form is the add/update editor. id is 0 when creating.
type form struct {
	id     int64
	values [fieldCount]string
	focus  int
}

func newForm(id int64, f model.Fields) form {
	var fm form
	fm.id = id
	fm.values[fieldLink] = f.Link
	fm.values[fieldTitle] = f.Title
	fm.values[fieldCategory] = string(f.Category)
	fm.values[fieldLeadComment] = f.LeadComment
	fm.values[fieldActionPlan] = f.ActionPlan
	fm.values[fieldOtherDetails] = f.OtherDetails
	return fm
}

func (fm form) fields() model.Fields {
	return model.Fields{
		Title:        fm.values[fieldTitle],
		Category:     model.Category(fm.values[fieldCategory]),
		Link:         fm.values[fieldLink],
		LeadComment:  fm.values[fieldLeadComment],
		ActionPlan:   fm.values[fieldActionPlan],
		OtherDetails: fm.values[fieldOtherDetails],
	}
}

func (m Model) handleFormKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.inputMode = InputNone
		m.form = form{}
		m.err = nil
		return m, nil

	case tea.KeyTab, tea.KeyDown:
		m.form.focus = (m.form.focus + 1) % fieldCount
		return m, nil

	case tea.KeyShiftTab, tea.KeyUp:
		m.form.focus = (m.form.focus + fieldCount - 1) % fieldCount
		return m, nil

	case tea.KeyCtrlS:
		return m.submitForm()

	case tea.KeyEnter:
		if m.form.focus == fieldCount-1 {
			return m.submitForm()
		}
		m.form.focus++
		return m, nil
	}

	if m.form.focus == fieldCategory {
		switch msg.Type {
		case tea.KeyLeft:
			m.form.values[fieldCategory] = string(prevFormCategory(model.Category(m.form.values[fieldCategory])))
		case tea.KeyRight, tea.KeySpace:
			m.form.values[fieldCategory] = string(nextFormCategory(model.Category(m.form.values[fieldCategory])))
		}
		return m, nil
	}

	m.form.values[m.form.focus] = editText(m.form.values[m.form.focus], msg)
	return m, nil
}

// submitForm saves through the tracker. Validation failures come back as a
// formResultMsg error and leave the form as typed.
func (m Model) submitForm() (Model, tea.Cmd) {
	id, f := m.form.id, m.form.fields()
	if id == 0 {
		return m, func() tea.Msg {
			t, err := m.tracker.CreateTicket(f)
			if err != nil {
				return formResultMsg{err: err}
			}
			return formResultMsg{message: fmt.Sprintf("Ticket saved successfully at %s!",
				t.CreatedAt.Local().Format("2006-01-02 15:04:05"))}
		}
	}
	return m, func() tea.Msg {
		if err := m.tracker.UpdateTicket(id, f); err != nil {
			return formResultMsg{err: err}
		}
		return formResultMsg{message: "Ticket updated successfully!"}
	}
}

// nextFormCategory cycles through the categories; the form never offers "all".
func nextFormCategory(c model.Category) model.Category {
	for i, known := range model.Categories {
		if known == c {
			return model.Categories[(i+1)%len(model.Categories)]
		}
	}
	return model.Categories[0]
}

func prevFormCategory(c model.Category) model.Category {
	n := len(model.Categories)
	for i, known := range model.Categories {
		if known == c {
			return model.Categories[(i+n-1)%n]
		}
	}
	return model.Categories[n-1]
}

func (fm form) view() string {
	var b strings.Builder

	heading := "Add Ticket"
	if fm.id != 0 {
		heading = fmt.Sprintf("Update Ticket #%d", fm.id)
	}
	b.WriteString(detailLabelStyle.Render(heading))
	b.WriteString("\n\n")

	for i := 0; i < fieldCount; i++ {
		value := fm.values[i]
		if i == fieldCategory {
			value = "◀ " + value + " ▶"
		}
		line := fmt.Sprintf("%-15s %s", fieldLabels[i]+":", value)
		if i == fm.focus {
			b.WriteString(inputStyle.Render(line + "█"))
		} else {
			b.WriteString(line)
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(helpStyle.Render("tab/↓ next • shift+tab/↑ previous • ←/→ category • ctrl+s save • esc cancel"))
	return b.String()
}

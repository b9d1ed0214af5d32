package tui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
)

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width

	case tea.KeyMsg:
		if m.inForm() {
			break
		}
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit
		case key.Matches(msg, m.keys.Tab):
			m.state = (m.state + 1) % tabCount
		case key.Matches(msg, m.keys.ShiftTab):
			m.state = (m.state - 1 + tabCount) % tabCount
		case key.Matches(msg, m.keys.Help):
			m.help.ShowAll = !m.help.ShowAll
		case key.Matches(msg, m.keys.Edit):
			if m.state == StateMilestones {
				m.startMilestoneForm()
				return m, m.form.Init()
			}
		case key.Matches(msg, m.keys.Add):
			if m.state != StateDiary {
				break
			}
			if !m.checklist.Complete() {
				m.warning = "complete the milestone checklist before logging"
				break
			}
			if len(m.eligible) == 0 {
				m.warning = "no eligible foods to log"
				break
			}
			m.startEntryForm()
			return m, m.form.Init()
		}
	}

	if m.inForm() && m.form != nil {
		form, cmd := m.form.Update(msg)
		if f, ok := form.(*huh.Form); ok {
			m.form = f
		}
		switch m.form.State {
		case huh.StateCompleted:
			if m.state == StateEditMilestones {
				m.saveMilestoneForm()
			} else {
				m.saveEntryForm()
			}
			m.state = m.previousState
			m.form = nil
		case huh.StateAborted:
			m.state = m.previousState
			m.form = nil
		}
		return m, cmd
	}

	return m, nil
}

func (m Model) inForm() bool {
	return m.state == StateEditMilestones || m.state == StateAddEntry
}

package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/cucharita-app/cucharita/internal/models"
)

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var content string
	switch m.state {
	case StateDiary:
		content = m.viewDiary()
	case StateFoods:
		content = m.viewFoods()
	case StateMilestones:
		content = m.viewMilestones()
	case StateAllergens:
		content = m.viewAllergens()
	case StateEditMilestones, StateAddEntry:
		content = m.form.View()
	}

	sections := []string{m.viewTabs(), content}
	if m.warning != "" {
		sections = append(sections, warnStyle.Render(m.warning))
	}
	sections = append(sections, m.help.View(m))

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m Model) viewTabs() string {
	var tabs []string
	for i, title := range []string{"Diary", "Foods", "Milestones", "Allergens"} {
		if m.state == SessionState(i) {
			tabs = append(tabs, activeTabStyle.Render(title))
		} else {
			tabs = append(tabs, inactiveTabStyle.Render(title))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
}

func (m Model) viewDiary() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Diary for %s\n\n", m.today)
	if !m.checklist.Complete() {
		b.WriteString(warnStyle.Render("Locked: complete the milestone checklist to start logging."))
		b.WriteString("\n\n")
	}
	if len(m.entries) == 0 {
		b.WriteString("  No entries\n")
	}
	for _, e := range m.entries {
		name := e.FoodID
		if n, ok := m.names[e.FoodID]; ok {
			name = n
		}
		fmt.Fprintf(&b, "  %-24s %-12s %-10s %s\n", name, e.Quantity, e.Texture, e.Reaction)
	}
	return docStyle.Render(b.String())
}

func (m Model) viewFoods() string {
	var b strings.Builder
	if !m.safeAge.Known {
		b.WriteString("No profile yet: nothing is shown as safe.\n")
		return docStyle.Render(b.String())
	}
	fmt.Fprintf(&b, "Eligible foods at %d months\n\n", m.safeAge.Months)
	for _, s := range m.eligible {
		flag := " "
		if s.IsAllergen {
			flag = "!"
		}
		fmt.Fprintf(&b, "%s %-24s %-12s %d+ months\n", flag, s.Name, s.Group, s.MinAgeMonths)
	}
	return docStyle.Render(b.String())
}

func (m Model) viewMilestones() string {
	mark := func(ok bool) string {
		if ok {
			return okStyle.Render("✓")
		}
		return warnStyle.Render("✗")
	}
	var b strings.Builder
	fmt.Fprintf(&b, "%s sits unassisted\n", mark(m.checklist.Seated))
	fmt.Fprintf(&b, "%s extrusion reflex gone\n", mark(m.checklist.NoExtrusion))
	fmt.Fprintf(&b, "%s shows interest in food\n", mark(m.checklist.InterestInFood))
	fmt.Fprintf(&b, "%s brings objects to the mouth\n", mark(m.checklist.HandToMouth))
	b.WriteString("\n")
	if m.checklist.Complete() {
		b.WriteString(okStyle.Render("Feeding diary unlocked."))
	} else {
		b.WriteString(warnStyle.Render("Feeding diary locked."))
	}
	return docStyle.Render(b.String())
}

func (m Model) viewAllergens() string {
	registry := m.store.Read().Allergens
	var b strings.Builder
	for _, allergen := range models.Allergens {
		status := registry.Status(allergen)
		line := fmt.Sprintf("%-16s %s", allergen, status)
		if status.Reactive() {
			line = warnStyle.Render(line)
		}
		fmt.Fprintf(&b, "%s\n", line)
	}
	return docStyle.Render(b.String())
}

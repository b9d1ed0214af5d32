package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/cucharita-app/cucharita/internal/age"
	"github.com/cucharita-app/cucharita/internal/catalog"
	"github.com/cucharita-app/cucharita/internal/diary"
	"github.com/cucharita-app/cucharita/internal/eligibility"
	"github.com/cucharita-app/cucharita/internal/models"
	"github.com/cucharita-app/cucharita/internal/store"
)

type SessionState int

const (
	StateDiary SessionState = iota
	StateFoods
	StateMilestones
	StateAllergens
	StateEditMilestones
	StateAddEntry
)

const tabCount = 4

type Model struct {
	store   *store.Store
	catalog catalog.Provider
	engine  *diary.Engine

	state         SessionState
	previousState SessionState
	keys          KeyMap
	help          help.Model

	today    string
	safeAge  age.SafeAge
	entries  []models.DiaryEntry
	eligible []catalog.Summary
	names    map[string]string

	form        *huh.Form
	checklist   models.MilestoneChecklist
	formValues  milestoneFormValues
	entryValues entryFormValues

	warning  string
	quitting bool
	width    int
	height   int
}

type milestoneFormValues struct {
	Seated         bool
	NoExtrusion    bool
	InterestInFood bool
	HandToMouth    bool
}

type entryFormValues struct {
	FoodID   string
	Quantity string
	Texture  string
	Reaction string
}

func NewModel(st *store.Store, cat catalog.Provider, engine *diary.Engine) Model {
	m := Model{
		store:   st,
		catalog: cat,
		engine:  engine,
		state:   StateDiary,
		keys:    DefaultKeyMap(),
		help:    help.New(),
		today:   time.Now().Format(models.DateFormat),
		names:   map[string]string{},
	}
	m.refresh()
	return m
}

// refresh re-derives everything shown from the store and catalog.
func (m *Model) refresh() {
	state := m.store.Read()
	m.checklist = state.Milestones
	m.safeAge = age.Compute(state.BabyProfile, time.Now())
	m.entries = state.Diary.ForDay(m.today)

	summaries, err := m.catalog.Summaries()
	if err != nil {
		m.warning = "catalog unavailable: " + err.Error()
		m.eligible = nil
		return
	}
	m.warning = ""
	for _, s := range summaries {
		m.names[s.ID] = s.Name
	}
	m.eligible = eligibility.Eligible(summaries, m.safeAge)
}

func (m *Model) startMilestoneForm() {
	m.formValues = milestoneFormValues{
		Seated:         m.checklist.Seated,
		NoExtrusion:    m.checklist.NoExtrusion,
		InterestInFood: m.checklist.InterestInFood,
		HandToMouth:    m.checklist.HandToMouth,
	}
	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().Title("Sits unassisted?").Value(&m.formValues.Seated),
			huh.NewConfirm().Title("Extrusion reflex gone?").Value(&m.formValues.NoExtrusion),
			huh.NewConfirm().Title("Shows interest in food?").Value(&m.formValues.InterestInFood),
			huh.NewConfirm().Title("Brings objects to the mouth?").Value(&m.formValues.HandToMouth),
		),
	)
	m.previousState = m.state
	m.state = StateEditMilestones
}

func (m *Model) saveMilestoneForm() {
	patch := &models.MilestonePatch{
		Seated:         &m.formValues.Seated,
		NoExtrusion:    &m.formValues.NoExtrusion,
		InterestInFood: &m.formValues.InterestInFood,
		HandToMouth:    &m.formValues.HandToMouth,
	}
	_, err := m.store.Write(models.StatePatch{Milestones: patch})
	m.refresh()
	if err != nil {
		m.warning = "change kept in memory only: " + err.Error()
	}
}

func (m *Model) startEntryForm() {
	m.entryValues = entryFormValues{
		Quantity: string(models.QuantityTasted),
		Texture:  string(models.TextureMashed),
		Reaction: string(models.ReactionNeutral),
	}
	foods := make([]huh.Option[string], 0, len(m.eligible))
	for _, s := range m.eligible {
		label := s.Name
		if s.IsAllergen {
			label += " (allergen)"
		}
		foods = append(foods, huh.NewOption(label, s.ID))
	}
	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().Title("Food").
				Options(foods...).
				Value(&m.entryValues.FoodID),
			huh.NewSelect[string]().Title("Quantity").
				Options(
					huh.NewOption("Exploration only", string(models.QuantityExploration)),
					huh.NewOption("Tasted", string(models.QuantityTasted)),
					huh.NewOption("Ate a little", string(models.QuantityAteLittle)),
					huh.NewOption("Ate well", string(models.QuantityAteWell)),
				).
				Value(&m.entryValues.Quantity),
			huh.NewSelect[string]().Title("Texture").
				Options(
					huh.NewOption("Whole, soft", string(models.TextureWholeSoft)),
					huh.NewOption("Sticks", string(models.TextureSticks)),
					huh.NewOption("Mashed", string(models.TextureMashed)),
				).
				Value(&m.entryValues.Texture),
			huh.NewSelect[string]().Title("Reaction").
				Options(
					huh.NewOption("Liked", string(models.ReactionLiked)),
					huh.NewOption("Neutral", string(models.ReactionNeutral)),
					huh.NewOption("Disliked", string(models.ReactionDisliked)),
				).
				Value(&m.entryValues.Reaction),
		),
	)
	m.previousState = m.state
	m.state = StateAddEntry
}

func (m *Model) saveEntryForm() {
	entry := models.DiaryEntry{
		Date:     m.today,
		FoodID:   m.entryValues.FoodID,
		Quantity: models.Quantity(m.entryValues.Quantity),
		Texture:  models.Texture(m.entryValues.Texture),
		Reaction: models.Reaction(m.entryValues.Reaction),
	}
	_, notice, err := m.engine.Save(context.Background(), entry)
	m.refresh()
	switch {
	case err != nil:
		var storeErr *store.StorageError
		if errors.As(err, &storeErr) {
			m.warning = "change kept in memory only: " + err.Error()
		} else {
			m.warning = "entry not saved: " + err.Error()
		}
	case notice != nil:
		m.warning = "allergen-flagged food logged: " + noticeSummary(notice)
	}
}

func noticeSummary(notice *diary.AllergenNotice) string {
	if len(notice.Allergens) == 0 {
		return "review its introduction status"
	}
	parts := make([]string, 0, len(notice.Allergens))
	for _, a := range notice.Allergens {
		parts = append(parts, fmt.Sprintf("%s is %s", a, notice.Statuses[a]))
	}
	return strings.Join(parts, ", ")
}

func (m Model) ShortHelp() []key.Binding {
	keys := []key.Binding{m.keys.Tab, m.keys.Quit, m.keys.Help}
	switch m.state {
	case StateDiary:
		keys = append(keys, m.keys.Add)
	case StateMilestones:
		keys = append(keys, m.keys.Edit)
	}
	return keys
}

func (m Model) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{m.keys.Tab, m.keys.ShiftTab},
		{m.keys.Add, m.keys.Edit},
		{m.keys.Help, m.keys.Quit},
	}
}

func (m Model) Init() tea.Cmd {
	return nil
}

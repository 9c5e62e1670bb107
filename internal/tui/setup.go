package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	remotefarmers "cropline/internal/adapter/farmers/remote"
	"cropline/internal/adapter/simapi"
	"cropline/internal/app/ports"
	"cropline/internal/domain/farm"
)

const lastFarmerKey = "last_farmer_id"

type setupStep int

const (
	stepLoading setupStep = iota
	stepPick
	stepManual
	stepStarting
)

type farmerItem struct {
	id   string
	name string
}

func (i farmerItem) Title() string {
	if i.id == "" {
		return "Walk-in farmer (default profile)"
	}
	return fmt.Sprintf("%s  %s", i.name, dimStyle.Render(i.id))
}

func (i farmerItem) Description() string { return i.id }
func (i farmerItem) FilterValue() string { return i.name + " " + i.id }

type farmersLoadedMsg struct {
	farmers []farm.Farmer
	err     error
}

type lastFarmerMsg struct{ id string }

type setupModel struct {
	client  simapi.Client
	farmers *remotefarmers.Client
	kv      ports.KVStore

	step    setupStep
	retStep setupStep
	list    list.Model
	input   textinput.Model
	preset  string
	lastID  string
	err     error

	width  int
	height int
}

func newSetupModel(client simapi.Client, farmers *remotefarmers.Client, kv ports.KVStore, presetFarmerID string) setupModel {
	input := textinput.New()
	input.Placeholder = "farmer id (blank for walk-in)"
	input.CharLimit = 64
	input.Width = 40

	m := setupModel{
		client:  client,
		farmers: farmers,
		kv:      kv,
		input:   input,
		preset:  presetFarmerID,
		width:   80,
		height:  24,
	}
	switch {
	case presetFarmerID != "":
		m.step = stepStarting
		m.retStep = stepManual
	case farmers == nil:
		m.step = stepManual
		m.input.Focus()
	default:
		m.step = stepLoading
	}
	return m
}

func (m setupModel) Init() tea.Cmd {
	switch m.step {
	case stepStarting:
		return m.startSession(m.preset)
	case stepManual:
		return tea.Batch(textinput.Blink, m.loadLastFarmer())
	default:
		return tea.Batch(m.loadFarmers(), m.loadLastFarmer())
	}
}

func (m setupModel) loadFarmers() tea.Cmd {
	client := m.farmers
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		farmers, err := client.ListFarmers(ctx, 50)
		return farmersLoadedMsg{farmers: farmers, err: err}
	}
}

func (m setupModel) loadLastFarmer() tea.Cmd {
	if m.kv == nil {
		return nil
	}
	kv := m.kv
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		id, err := kv.Get(ctx, lastFarmerKey)
		if err != nil {
			return lastFarmerMsg{}
		}
		return lastFarmerMsg{id: id}
	}
}

func (m setupModel) startSession(farmerID string) tea.Cmd {
	client, kv := m.client, m.kv
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		view, err := client.Start(ctx, farmerID)
		if err != nil {
			return errMsg{err: err}
		}
		if kv != nil && view.Farmer.ID != "" {
			_ = kv.Set(ctx, lastFarmerKey, view.Farmer.ID)
		}
		return sessionStartedMsg{view: view}
	}
}

func (m setupModel) Update(msg tea.Msg) (setupModel, tea.Cmd) {
	switch msg := msg.(type) {
	case farmersLoadedMsg:
		if msg.err != nil || len(msg.farmers) == 0 {
			m.step = stepManual
			m.err = msg.err
			m.input.Focus()
			if m.input.Value() == "" && m.lastID != "" {
				m.input.SetValue(m.lastID)
			}
			return m, textinput.Blink
		}
		m.list = newFarmerList(msg.farmers, m.width, m.listHeight())
		m.step = stepPick
		m.selectFarmer(m.lastID)
		return m, nil

	case lastFarmerMsg:
		m.lastID = msg.id
		switch m.step {
		case stepPick:
			m.selectFarmer(msg.id)
		case stepManual:
			if m.input.Value() == "" && msg.id != "" {
				m.input.SetValue(msg.id)
			}
		}
		return m, nil

	case errMsg:
		m.err = msg.err
		if m.step == stepStarting {
			m.step = m.retStep
			if m.step == stepManual {
				m.input.Focus()
				return m, textinput.Blink
			}
		}
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m.updateActive(msg)
}

func (m setupModel) handleKey(msg tea.KeyMsg) (setupModel, tea.Cmd) {
	switch m.step {
	case stepPick:
		switch msg.String() {
		case "enter":
			if m.list.FilterState() == list.Filtering {
				break
			}
			item, ok := m.list.SelectedItem().(farmerItem)
			if !ok {
				return m, nil
			}
			m.retStep = stepPick
			m.step = stepStarting
			m.err = nil
			return m, m.startSession(item.id)
		case "q", "esc":
			if m.list.FilterState() == list.Filtering {
				break
			}
			return m, tea.Quit
		}
	case stepManual:
		switch msg.String() {
		case "enter":
			m.retStep = stepManual
			m.step = stepStarting
			m.err = nil
			return m, m.startSession(strings.TrimSpace(m.input.Value()))
		case "esc":
			return m, tea.Quit
		}
	case stepStarting, stepLoading:
		if msg.String() == "esc" {
			return m, tea.Quit
		}
		return m, nil
	}
	return m.updateActive(msg)
}

func (m setupModel) updateActive(msg tea.Msg) (setupModel, tea.Cmd) {
	var cmd tea.Cmd
	switch m.step {
	case stepPick:
		m.list, cmd = m.list.Update(msg)
	case stepManual:
		m.input, cmd = m.input.Update(msg)
	}
	return m, cmd
}

func (m *setupModel) selectFarmer(id string) {
	if id == "" {
		return
	}
	for i, item := range m.list.Items() {
		if fi, ok := item.(farmerItem); ok && fi.id == id {
			m.list.Select(i)
			return
		}
	}
}

func (m setupModel) resize(w, h int) setupModel {
	m.width, m.height = w, h
	if m.step == stepPick {
		m.list.SetSize(w-4, m.listHeight())
	}
	return m
}

func (m setupModel) listHeight() int {
	h := m.height - 8
	if h < 5 {
		h = 5
	}
	return h
}

func (m setupModel) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Cropline Farm Activity"))
	b.WriteString("\n\n")

	switch m.step {
	case stepLoading:
		b.WriteString("Loading farmers…\n")
	case stepPick:
		b.WriteString("Pick the farmer on the line:\n\n")
		b.WriteString(m.list.View())
		b.WriteString("\n")
		b.WriteString(helpStyle.Render("  enter: start session │ /: filter │ q: quit"))
	case stepManual:
		b.WriteString("Enter the farmer id for this call:\n\n")
		b.WriteString("  " + m.input.View())
		b.WriteString("\n\n")
		b.WriteString(helpStyle.Render("  enter: start session │ esc: quit"))
	case stepStarting:
		b.WriteString("Starting session…\n")
	}

	if m.err != nil {
		b.WriteString("\n\n")
		b.WriteString(errorStyle.Render("  " + m.err.Error()))
	}
	return b.String()
}

func newFarmerList(farmers []farm.Farmer, width, height int) list.Model {
	items := make([]list.Item, 0, len(farmers)+1)
	items = append(items, farmerItem{})
	for _, f := range farmers {
		items = append(items, farmerItem{id: f.ID, name: f.Name})
	}

	delegate := list.NewDefaultDelegate()
	delegate.ShowDescription = false
	delegate.SetHeight(1)
	delegate.SetSpacing(0)
	delegate.Styles.SelectedTitle = delegate.Styles.SelectedTitle.
		Foreground(lipgloss.Color("170")).
		BorderLeftForeground(lipgloss.Color("170"))
	delegate.Styles.NormalTitle = delegate.Styles.NormalTitle.
		Foreground(lipgloss.Color("252"))

	l := list.New(items, delegate, width-4, height)
	l.SetShowTitle(false)
	l.SetShowStatusBar(false)
	l.SetShowHelp(false)
	l.SetFilteringEnabled(true)
	l.DisableQuitKeybindings()
	return l
}

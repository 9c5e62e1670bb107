package tui

import (
	"context"
	"errors"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"cropline/internal/adapter/simapi"
	"cropline/internal/app/ports"
	"cropline/internal/app/simview"
	"cropline/internal/domain/farm"
	"cropline/internal/domain/sim"
)

// pollInterval paces view refreshes between inputs so timer-driven changes
// (exposure, recovery, activity completion) show up without any keypress.
const pollInterval = 150 * time.Millisecond

type playTickMsg time.Time

func playTick() tea.Cmd {
	return tea.Tick(pollInterval, func(t time.Time) tea.Msg {
		return playTickMsg(t)
	})
}

type playModel struct {
	client   simapi.Client
	view     simview.View
	active   bool
	quitting bool
	err      error

	width  int
	height int
}

func newPlayModel(client simapi.Client) playModel {
	return playModel{client: client, width: 80, height: 24}
}

func (m playModel) withSession(v simview.View) playModel {
	m.view = v
	m.active = true
	return m
}

func (m playModel) Init() tea.Cmd {
	return playTick()
}

func (m playModel) Update(msg tea.Msg) (playModel, tea.Cmd) {
	switch msg := msg.(type) {
	case playTickMsg:
		if !m.active || m.quitting {
			return m, nil
		}
		return m, tea.Batch(m.pollView(), playTick())

	case viewMsg:
		m.view = msg.view
		m.err = nil
		return m, nil

	case errMsg:
		if errors.Is(msg.err, ports.ErrNotFound) {
			// Session was closed out from under us.
			return m, tea.Quit
		}
		m.err = msg.err
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m playModel) handleKey(msg tea.KeyMsg) (playModel, tea.Cmd) {
	if m.quitting {
		return m, nil
	}
	switch key := msg.String(); key {
	case "up", "w":
		return m, m.sendInput(sim.Input{Type: sim.InputMoveTap, Direction: sim.DirUp})
	case "down", "s":
		return m, m.sendInput(sim.Input{Type: sim.InputMoveTap, Direction: sim.DirDown})
	case "left", "a":
		return m, m.sendInput(sim.Input{Type: sim.InputMoveTap, Direction: sim.DirLeft})
	case "right", "d":
		return m, m.sendInput(sim.Input{Type: sim.InputMoveTap, Direction: sim.DirRight})
	case "1", "2", "3", "4", "5":
		idx := int(key[0] - '1')
		if idx >= len(m.view.Tasks) {
			return m, nil
		}
		return m, m.sendInput(sim.Input{Type: sim.InputSelectTask, TaskID: m.view.Tasks[idx].ID})
	case "tab":
		if next, ok := m.nextTask(); ok {
			return m, m.sendInput(sim.Input{Type: sim.InputSelectTask, TaskID: next})
		}
		return m, nil
	case " ", "enter":
		return m, m.sendInput(sim.Input{Type: sim.InputPerformAction})
	case "r":
		return m, m.resetSession()
	case "q", "esc":
		m.quitting = true
		return m, m.hangUp()
	}
	return m, nil
}

// nextTask picks the task after the currently selected one, in panel order.
func (m playModel) nextTask() (farm.TaskID, bool) {
	tasks := m.view.Tasks
	if len(tasks) == 0 {
		return "", false
	}
	current := -1
	for i, t := range tasks {
		if t.Selected {
			current = i
			break
		}
	}
	return tasks[(current+1)%len(tasks)].ID, true
}

func (m playModel) sendInput(in sim.Input) tea.Cmd {
	client, id := m.client, m.view.SessionID
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		view, err := client.Input(ctx, id, in)
		if err != nil {
			return errMsg{err: err}
		}
		return viewMsg{view: view}
	}
}

func (m playModel) pollView() tea.Cmd {
	client, id := m.client, m.view.SessionID
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		view, err := client.View(ctx, id)
		if err != nil {
			return errMsg{err: err}
		}
		return viewMsg{view: view}
	}
}

func (m playModel) resetSession() tea.Cmd {
	client, id := m.client, m.view.SessionID
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		view, err := client.Reset(ctx, id)
		if err != nil {
			return errMsg{err: err}
		}
		return viewMsg{view: view}
	}
}

func (m playModel) hangUp() tea.Cmd {
	client, id := m.client, m.view.SessionID
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		_ = client.Close(ctx, id)
		return tea.Quit()
	}
}

func (m playModel) resize(w, h int) playModel {
	m.width, m.height = w, h
	return m
}

func (m playModel) View() string {
	if !m.active {
		return ""
	}
	if m.quitting {
		return dimStyle.Render("Hanging up…") + "\n"
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render("Cropline Farm Activity"))
	b.WriteString(dimStyle.Render("  " + m.view.SessionID))
	b.WriteString("\n")
	b.WriteString(farmerLine(m.view))
	b.WriteString("\n")

	if banner := renderBanner(m.view); banner != "" {
		b.WriteString("\n" + banner + "\n")
	}

	b.WriteString("\n")
	b.WriteString(borderStyle.Render(renderGrid(m.view)))
	b.WriteString("\n\n")
	b.WriteString(renderVitality(m.view))
	b.WriteString("\n\n")
	b.WriteString(renderTasks(m.view))
	b.WriteString("\n")

	if m.err != nil {
		b.WriteString("\n")
		b.WriteString(errorStyle.Render("  " + m.err.Error()))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(helpStyle.Render("  arrows/wasd: move │ 1-5/tab: select task │ space: work │ r: reset │ q: hang up"))
	return b.String()
}

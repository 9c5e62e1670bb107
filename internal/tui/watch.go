package tui

import (
	"context"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"cropline/internal/adapter/simapi"
	"cropline/internal/app/simview"
)

type streamConnectedMsg struct{ stream *simapi.WatchStream }

type streamClosedMsg struct{}

// watchModel spectates a session over the push stream. It never sends input;
// frames arrive whenever the session changes.
type watchModel struct {
	client    simapi.Client
	sessionID string
	stream    *simapi.WatchStream
	view      simview.View
	hasView   bool
	ended     bool
	err       error

	width  int
	height int
}

func newWatchModel(client simapi.Client, sessionID string) watchModel {
	return watchModel{client: client, sessionID: sessionID, width: 80, height: 24}
}

func (m watchModel) Init() tea.Cmd {
	return m.connect()
}

func (m watchModel) connect() tea.Cmd {
	client, id := m.client, m.sessionID
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		stream, err := client.Watch(ctx, id)
		if err != nil {
			return errMsg{err: err}
		}
		return streamConnectedMsg{stream: stream}
	}
}

func waitForFrame(stream *simapi.WatchStream) tea.Cmd {
	return func() tea.Msg {
		view, ok := <-stream.Views()
		if !ok {
			return streamClosedMsg{}
		}
		return viewMsg{view: view}
	}
}

func (m watchModel) Update(msg tea.Msg) (watchModel, tea.Cmd) {
	switch msg := msg.(type) {
	case streamConnectedMsg:
		m.stream = msg.stream
		return m, waitForFrame(m.stream)

	case viewMsg:
		m.view = msg.view
		m.hasView = true
		return m, waitForFrame(m.stream)

	case streamClosedMsg:
		m.ended = true
		return m, nil

	case errMsg:
		m.err = msg.err
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "esc":
			if m.stream != nil {
				_ = m.stream.Close()
			}
			return m, tea.Quit
		}
	}
	return m, nil
}

func (m watchModel) resize(w, h int) watchModel {
	m.width, m.height = w, h
	return m
}

func (m watchModel) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Watching session"))
	b.WriteString(dimStyle.Render("  " + m.sessionID + "  (read-only)"))
	b.WriteString("\n")

	switch {
	case m.err != nil:
		b.WriteString("\n")
		b.WriteString(errorStyle.Render("  " + m.err.Error()))
		b.WriteString("\n")
	case !m.hasView:
		b.WriteString("\nConnecting…\n")
	default:
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
	}

	if m.ended {
		b.WriteString("\n")
		b.WriteString(dimStyle.Render("  Session ended."))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(helpStyle.Render("  q: quit"))
	return b.String()
}

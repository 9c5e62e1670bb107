// Package tui is the terminal client for the farm activity simulator. It
// drives a live session over the REST API and can spectate any session over
// the watch stream.
package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	remotefarmers "cropline/internal/adapter/farmers/remote"
	"cropline/internal/adapter/simapi"
	"cropline/internal/app/ports"
	"cropline/internal/app/simview"
)

type view int

const (
	viewSetup view = iota
	viewPlay
	viewWatch
)

// Options wires the terminal client together. Farmers may be nil when no
// operator credentials are configured; the setup screen then falls back to
// manual farmer-id entry.
type Options struct {
	Client         simapi.Client
	Farmers        *remotefarmers.Client
	KV             ports.KVStore
	FarmerID       string
	WatchSessionID string
}

type viewMsg struct{ view simview.View }

type errMsg struct{ err error }

type sessionStartedMsg struct{ view simview.View }

type AppModel struct {
	current view
	setup   setupModel
	play    playModel
	watch   watchModel

	width  int
	height int
}

func NewApp(opts Options) AppModel {
	m := AppModel{
		setup: newSetupModel(opts.Client, opts.Farmers, opts.KV, opts.FarmerID),
		play:  newPlayModel(opts.Client),
		watch: newWatchModel(opts.Client, opts.WatchSessionID),
	}
	if opts.WatchSessionID != "" {
		m.current = viewWatch
	}
	return m
}

func (m AppModel) Init() tea.Cmd {
	if m.current == viewWatch {
		return m.watch.Init()
	}
	return m.setup.Init()
}

func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.setup = m.setup.resize(msg.Width, msg.Height)
		m.play = m.play.resize(msg.Width, msg.Height)
		m.watch = m.watch.resize(msg.Width, msg.Height)
		return m, nil
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
	case sessionStartedMsg:
		m.current = viewPlay
		m.play = m.play.withSession(msg.view)
		return m, m.play.Init()
	}
	return m.delegate(msg)
}

func (m AppModel) delegate(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch m.current {
	case viewPlay:
		m.play, cmd = m.play.Update(msg)
	case viewWatch:
		m.watch, cmd = m.watch.Update(msg)
	default:
		m.setup, cmd = m.setup.Update(msg)
	}
	return m, cmd
}

func (m AppModel) View() string {
	switch m.current {
	case viewPlay:
		return m.play.View()
	case viewWatch:
		return m.watch.View()
	default:
		return m.setup.View()
	}
}

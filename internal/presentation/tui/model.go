// Package tui provides an interactive browser for the subscription list.
package tui

import (
	"context"
	"fmt"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/tesso57/rssss/internal/application/settings"
	"github.com/tesso57/rssss/internal/application/usecase"
	"github.com/tesso57/rssss/internal/domain/subscription"
)

// Session represents the current view state.
type Session int

const (
	ListView Session = iota
	AddingFeedView
	DeleteFeedView
)

const (
	titleInput = iota
	urlInput
)

// Options configures a Model.
type Options struct {
	Path          string
	Subscriptions usecase.SubscriptionService
	Sync          usecase.SyncService
	Target        usecase.SyncTarget
	KeyMap        settings.KeyMapConfig
}

type uploadDoneMsg struct {
	res usecase.SyncResult
	err error
}

// Model represents the browser state.
type Model struct {
	ctx           context.Context
	path          string
	subscriptions usecase.SubscriptionService
	sync          usecase.SyncService
	target        usecase.SyncTarget

	keys      KeyMap
	list      list.Model
	inputs    []textinput.Model
	focus     int
	help      help.Model
	spinner   spinner.Model
	session   Session
	uploading bool
	status    string
	err       error
	width     int
	height    int
}

// NewModel creates a browser over the list at opts.Path.
func NewModel(ctx context.Context, opts Options) (*Model, error) {
	keys := NewKeyMap(opts.KeyMap)
	m := &Model{
		ctx:           ctx,
		path:          opts.Path,
		subscriptions: opts.Subscriptions,
		sync:          opts.Sync,
		target:        opts.Target,
		keys:          keys,
		list:          newList(keys),
		inputs:        []textinput.Model{newInput("Title"), newInput("https://example.com/feed.xml")},
		help:          help.New(),
		spinner:       newSpinner(),
	}
	if err := m.reload(); err != nil {
		return nil, err
	}
	return m, nil
}

// Run starts the browser and blocks until it exits.
func Run(ctx context.Context, opts Options) error {
	m, err := NewModel(ctx, opts)
	if err != nil {
		return err
	}
	_, err = tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx)).Run()
	return err
}

// Init initializes the model.
func (m *Model) Init() tea.Cmd {
	return nil
}

// Update handles messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.resize()
		return m, nil
	case uploadDoneMsg:
		m.uploading = false
		m.err = msg.err
		if msg.err == nil {
			m.status = uploadStatus(msg.res)
		}
		return m, nil
	case spinner.TickMsg:
		if !m.uploading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	case tea.KeyMsg:
		switch m.session {
		case AddingFeedView:
			return m, m.handleAddingFeed(msg)
		case DeleteFeedView:
			m.handleDeleteFeed(msg)
			return m, nil
		default:
			if cmd, handled := m.handleListKey(msg); handled {
				return m, cmd
			}
		}
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m *Model) handleListKey(msg tea.KeyMsg) (tea.Cmd, bool) {
	if m.list.FilterState() == list.Filtering {
		return nil, false
	}
	switch {
	case key.Matches(msg, m.keys.Quit):
		return tea.Quit, true
	case m.uploading && (key.Matches(msg, m.keys.AddFeed) || key.Matches(msg, m.keys.DeleteFeed)):
		return nil, true
	case key.Matches(msg, m.keys.AddFeed):
		m.session = AddingFeedView
		m.err = nil
		for i := range m.inputs {
			m.inputs[i].Reset()
		}
		m.focusInput(titleInput)
		return textinput.Blink, true
	case key.Matches(msg, m.keys.DeleteFeed):
		if _, ok := m.selected(); ok {
			m.session = DeleteFeedView
		}
		return nil, true
	case key.Matches(msg, m.keys.Upload):
		if m.uploading {
			return nil, true
		}
		m.uploading = true
		m.err = nil
		m.status = ""
		return tea.Batch(m.spinner.Tick, m.uploadCmd()), true
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		m.resize()
		return nil, true
	}
	return nil, false
}

func (m *Model) handleAddingFeed(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, m.keys.Back):
		m.session = ListView
		m.err = nil
		return nil
	case msg.String() == "tab" || msg.String() == "shift+tab":
		m.focusInput(1 - m.focus)
		return nil
	case msg.String() == "enter":
		if m.focus == titleInput {
			m.focusInput(urlInput)
			return nil
		}
		m.submitFeed()
		return nil
	}
	var cmd tea.Cmd
	m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
	return cmd
}

func (m *Model) submitFeed() {
	title := m.inputs[titleInput].Value()
	feedURL := m.inputs[urlInput].Value()
	added, err := m.subscriptions.Add(m.ctx, m.path, title, feedURL, subscription.EntryOptions{})
	if err != nil {
		m.err = err
		return
	}
	if err := m.reload(); err != nil {
		m.err = err
	}
	m.session = ListView
	if added {
		m.status = "Added " + title
		m.list.Select(len(m.list.Items()) - 1)
	} else {
		m.status = "Already subscribed: " + feedURL
	}
}

func (m *Model) handleDeleteFeed(msg tea.KeyMsg) {
	switch msg.String() {
	case "y", "Y":
		item, ok := m.selected()
		m.session = ListView
		if !ok {
			return
		}
		removed, err := m.subscriptions.Remove(m.ctx, m.path, item.FeedURL)
		if err != nil {
			m.err = err
			return
		}
		if err := m.reload(); err != nil {
			m.err = err
			return
		}
		m.status = fmt.Sprintf("Removed %d subscription(s)", removed)
	case "n", "N":
		m.session = ListView
	default:
		if key.Matches(msg, m.keys.Back) {
			m.session = ListView
		}
	}
}

func (m *Model) uploadCmd() tea.Cmd {
	svc, ctx, target := m.sync, m.ctx, m.target
	return func() tea.Msg {
		res, err := svc.Sync(ctx, target, "")
		return uploadDoneMsg{res: res, err: err}
	}
}

func (m *Model) reload() error {
	doc, err := m.subscriptions.List(m.path)
	if err != nil {
		return err
	}
	m.list.Title = doc.Title
	m.list.SetItems(BuildItems(doc))
	return nil
}

func (m *Model) selected() (*Item, bool) {
	item, ok := m.list.SelectedItem().(*Item)
	return item, ok
}

func (m *Model) focusInput(i int) {
	m.focus = i
	for j := range m.inputs {
		if j == i {
			m.inputs[j].Focus()
		} else {
			m.inputs[j].Blur()
		}
	}
}

func (m *Model) resize() {
	footer := lipgloss.Height(m.footer())
	m.list.SetSize(m.width, max(m.height-footer, 0))
}

func uploadStatus(res usecase.SyncResult) string {
	switch {
	case res.Committed() && res.Pushed:
		return "Committed " + res.Checkpoint.Short() + " and pushed"
	case res.Committed():
		return "Committed " + res.Checkpoint.Short()
	case res.Pushed:
		return "No changes to commit, pushed"
	default:
		return "No changes to commit"
	}
}

func newList(keys KeyMap) list.Model {
	l := list.New([]list.Item{}, list.NewDefaultDelegate(), 0, 0)
	l.SetShowHelp(false)
	l.KeyMap.CursorUp = keys.Up
	l.KeyMap.CursorDown = keys.Down
	l.KeyMap.GoToStart = keys.Top
	l.KeyMap.GoToEnd = keys.Bottom
	l.KeyMap.Quit = keys.Quit
	l.Styles.Title = lipgloss.NewStyle().Foreground(lipgloss.Color("205")).Bold(true)
	return l
}

func newInput(placeholder string) textinput.Model {
	ti := textinput.New()
	ti.Placeholder = placeholder
	ti.CharLimit = 2048
	ti.Width = 50
	return ti
}

func newSpinner() spinner.Model {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))
	return s
}

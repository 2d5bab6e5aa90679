package main

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// navMode is the navigation state. Exactly one variant is active at a time;
// confirmingDeletion is only reachable from browsing via a delete request on
// a selected entry. New interaction modes (multi-select, say) should be added
// as further variants, not flags.
type navMode interface {
	isNavMode()
}

type browsing struct{}

type confirmingDeletion struct {
	target string
}

func (browsing) isNavMode()           {}
func (confirmingDeletion) isNavMode() {}

const logCapacity = 200

// statusLog is a bounded log of recent status lines, oldest evicted first.
type statusLog struct {
	lines []string
}

func (l *statusLog) add(format string, args ...any) {
	line := time.Now().Format("15:04") + " " + fmt.Sprintf(format, args...)
	l.lines = append(l.lines, line)
	if len(l.lines) > logCapacity {
		l.lines = l.lines[len(l.lines)-logCapacity:]
	}
}

type keyMap struct {
	Up      key.Binding
	Down    key.Binding
	Enter   key.Binding
	Parent  key.Binding
	Delete  key.Binding
	Refresh key.Binding
	Help    key.Binding
	Quit    key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "move up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "move down"),
		),
		Enter: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "drill in"),
		),
		Parent: key.NewBinding(
			key.WithKeys("backspace", "left"),
			key.WithHelp("bksp", "parent dir"),
		),
		Delete: key.NewBinding(
			key.WithKeys("d"),
			key.WithHelp("d", "delete"),
		),
		Refresh: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "refresh"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Enter, k.Parent, k.Delete, k.Refresh, k.Help, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{{k.Up, k.Down, k.Enter, k.Parent}, {k.Delete, k.Refresh, k.Help, k.Quit}}
}

// model owns every piece of controller state. It runs on the UI goroutine
// only; background workers never touch it and report back exclusively
// through the events channel.
type model struct {
	cfg  Config
	opts scanOptions

	root    string
	entries []DirStats
	mode    navMode

	scanning  bool
	scanID    int
	scanStart time.Time
	lastScan  time.Duration

	log     statusLog
	lastErr string

	events chan tea.Msg

	table   table.Model
	spinner spinner.Model
	help    help.Model
	keys    keyMap
	width   int
	height  int
}

func newModel(cfg Config, root string) model {
	columns := []table.Column{
		{Title: "Name", Width: 32},
		{Title: "Size", Width: 12},
		{Title: "Files", Width: 12},
		{Title: "Dirs", Width: 10},
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
	)

	styles := table.DefaultStyles()
	styles.Header = styles.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("238")).
		BorderBottom(true).
		Bold(true)
	styles.Selected = styles.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Bold(true)
	t.SetStyles(styles)

	sp := spinner.New()
	sp.Spinner = spinner.MiniDot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("86"))

	return model{
		cfg:     cfg,
		opts:    cfg.scanOptions(),
		root:    root,
		mode:    browsing{},
		events:  make(chan tea.Msg, 64),
		table:   t,
		spinner: sp,
		help:    help.New(),
		keys:    newKeyMap(),
	}
}

func (m model) Init() tea.Cmd {
	go periodicRefresh(m.cfg.RefreshInterval, m.events)
	return tea.Batch(m.spinner.Tick, waitEvent(m.events), enqueueScanRequest(m.events))
}

// enqueueScanRequest routes the initial scan through the coordination
// channel so it takes the same path as every later trigger.
func enqueueScanRequest(ch chan<- tea.Msg) tea.Cmd {
	return func() tea.Msg {
		ch <- scanRequestMsg{}
		return nil
	}
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.updateLayout(msg.Width, msg.Height)

	case spinner.TickMsg:
		if m.scanning {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			cmds = append(cmds, cmd)
		}

	case tickMsg:
		// Keeps the elapsed readout moving while a scan is running.
		if m.scanning {
			cmds = append(cmds, tickCmd())
		}

	case scanRequestMsg:
		cmds = append(cmds, waitEvent(m.events))
		if cmd := m.requestScan(); cmd != nil {
			cmds = append(cmds, cmd)
		}

	case scanDoneMsg:
		cmds = append(cmds, waitEvent(m.events))
		if msg.ID != m.scanID {
			m.log.add("discarded stale scan of %s", msg.Root)
			break
		}
		m.scanning = false
		m.lastScan = msg.Elapsed
		m.setEntries(msg.Entries)
		m.log.add("scan completed in %s (%d entries)", msg.Elapsed.Truncate(time.Millisecond), len(m.entries))

	case deleteDoneMsg:
		cmds = append(cmds, waitEvent(m.events))
		if msg.Err != nil {
			m.lastErr = fmt.Sprintf("failed to delete %s: %v", msg.Path, msg.Err)
			m.log.add("%s", m.lastErr)
		} else {
			m.log.add("deleted %s", msg.Path)
		}

	case errorMsg:
		cmds = append(cmds, waitEvent(m.events))
		m.lastErr = msg.Err.Error()
		m.log.add("error: %v", msg.Err)

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m, tea.Batch(cmds...)
}

func (m model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch mode := m.mode.(type) {
	case confirmingDeletion:
		switch msg.String() {
		case "y", "Y":
			go removeTree(mode.target, m.events)
			m.mode = browsing{}
			m.log.add("deleting %s", mode.target)
			// Refresh right away rather than waiting for the worker's own
			// follow-up request.
			if cmd := m.requestScan(); cmd != nil {
				cmds = append(cmds, cmd)
			}
		case "n", "N", "esc":
			m.mode = browsing{}
			m.log.add("deletion cancelled")
		case "q", "ctrl+c":
			return m, tea.Quit
		}
		return m, tea.Batch(cmds...)

	case browsing:
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.Help):
			m.help.ShowAll = !m.help.ShowAll
		case key.Matches(msg, m.keys.Refresh):
			if cmd := m.requestScan(); cmd != nil {
				cmds = append(cmds, cmd)
			}
		case key.Matches(msg, m.keys.Enter):
			if sel, ok := m.selectedEntry(); ok {
				m.root = sel.Path
				m.table.SetCursor(0)
				m.log.add("entered %s", m.root)
				cmds = append(cmds, m.dispatchScan())
			}
		case key.Matches(msg, m.keys.Parent):
			parent := filepath.Dir(m.root)
			if parent != m.root {
				m.root = parent
				m.table.SetCursor(0)
				m.log.add("up to %s", m.root)
				cmds = append(cmds, m.dispatchScan())
			} else {
				m.log.add("already at filesystem root")
			}
		case key.Matches(msg, m.keys.Delete):
			if sel, ok := m.selectedEntry(); ok {
				m.mode = confirmingDeletion{target: sel.Path}
			}
		default:
			if len(m.entries) > 0 {
				var cmd tea.Cmd
				m.table, cmd = m.table.Update(msg)
				cmds = append(cmds, cmd)
			}
		}
	}

	return m, tea.Batch(cmds...)
}

// requestScan starts a scan of the current root unless one is already in
// flight; overlapping requests are no-ops.
func (m *model) requestScan() tea.Cmd {
	if m.scanning {
		return nil
	}
	return m.dispatchScan()
}

// dispatchScan unconditionally starts a new scan generation. Navigation uses
// it directly: changing root supersedes any in-flight scan, whose result will
// fail the generation check on arrival.
func (m *model) dispatchScan() tea.Cmd {
	m.scanning = true
	m.scanID++
	m.scanStart = time.Now()
	m.log.add("scan started for %s", m.root)
	go runScan(m.root, m.opts, m.scanID, m.events)
	return tea.Batch(m.spinner.Tick, tickCmd())
}

func (m *model) setEntries(entries []DirStats) {
	sortEntries(entries)
	m.entries = entries
	m.setTableRows()
	if len(m.entries) == 0 {
		return
	}
	if m.table.Cursor() >= len(m.entries) {
		m.table.SetCursor(len(m.entries) - 1)
	} else if m.table.Cursor() < 0 {
		m.table.SetCursor(0)
	}
}

// selection is the current selection index: always in bounds for a non-empty
// list and 0 for an empty one, whatever the table widget's cursor says.
func (m model) selection() int {
	if len(m.entries) == 0 {
		return 0
	}
	idx := m.table.Cursor()
	if idx < 0 {
		return 0
	}
	if idx >= len(m.entries) {
		return len(m.entries) - 1
	}
	return idx
}

func (m model) selectedEntry() (DirStats, bool) {
	if len(m.entries) == 0 {
		return DirStats{}, false
	}
	return m.entries[m.selection()], true
}

package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/breeze64/breeze/pkg/breeze/deployer"
	"github.com/breeze64/breeze/pkg/breeze/inventory"
	"github.com/breeze64/breeze/pkg/breeze/parser"
	"github.com/breeze64/breeze/pkg/breeze/remote"
)

// Model is the Bubble Tea model for the SD card browser. Each directory
// visit issues a fresh deployer listing; nothing is cached, so what is
// on screen is what was on the card moments ago.
type Model struct {
	client *deployer.Client
	ctx    context.Context
	cancel context.CancelFunc

	path    string
	entries []parser.Entry
	cursor  int

	// parents holds the paths walked into, for backspace navigation.
	parents []string

	loading bool
	spinner spinner.Model
	err     error

	width  int
	height int
}

// NewModel creates a browser rooted at the SD card root.
func NewModel(client *deployer.Client) Model {
	ctx, cancel := context.WithCancel(context.Background())

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(primaryColor)

	return Model{
		client:  client,
		ctx:     ctx,
		cancel:  cancel,
		path:    "/",
		loading: true,
		spinner: s,
		width:   80,
		height:  24,
	}
}

// Init starts the first directory load.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.loadDir(m.path))
}

// loadDir returns a command that lists one directory over USB.
func (m Model) loadDir(path string) tea.Cmd {
	ctx, client := m.ctx, m.client
	return func() tea.Msg {
		entries, err := remote.FetchDir(ctx, client, path)
		if err != nil {
			return dirErrMsg{path: path, err: err}
		}
		return dirLoadedMsg{path: path, entries: entries}
	}
}

// Update handles messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case spinner.TickMsg:
		if !m.loading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case dirLoadedMsg:
		m.loading = false
		m.err = nil
		m.path = msg.path
		m.entries = msg.entries
		if m.cursor >= len(m.entries) {
			m.cursor = 0
		}
		return m, nil

	case dirErrMsg:
		m.loading = false
		m.err = msg.err
		return m, nil
	}

	return m, nil
}

// handleKey handles keyboard input.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "q", "esc":
		m.cancel()
		return m, tea.Quit

	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
		return m, nil

	case "down", "j":
		if m.cursor < len(m.entries)-1 {
			m.cursor++
		}
		return m, nil

	case "enter", "right", "l":
		if m.loading || m.cursor >= len(m.entries) {
			return m, nil
		}
		entry := m.entries[m.cursor]
		if !entry.IsDir() {
			return m, nil
		}
		m.parents = append(m.parents, m.path)
		m.cursor = 0
		m.loading = true
		return m, tea.Batch(m.spinner.Tick, m.loadDir(joinRemote(m.path, entry.Name)))

	case "backspace", "left", "h":
		if m.loading || len(m.parents) == 0 {
			return m, nil
		}
		parent := m.parents[len(m.parents)-1]
		m.parents = m.parents[:len(m.parents)-1]
		m.cursor = 0
		m.loading = true
		return m, tea.Batch(m.spinner.Tick, m.loadDir(parent))

	case "r":
		if m.loading {
			return m, nil
		}
		m.loading = true
		return m, tea.Batch(m.spinner.Tick, m.loadDir(m.path))
	}

	return m, nil
}

// View renders the browser.
func (m Model) View() string {
	var sb strings.Builder

	innerWidth := m.width - 4
	if innerWidth < 20 {
		innerWidth = 20
	}

	sb.WriteString(titleStyle.Render("SD Card: "+truncatePath(m.path, innerWidth-9)) + "\n")
	sb.WriteString(renderDivider(innerWidth) + "\n")

	switch {
	case m.err != nil:
		sb.WriteString(errorTextStyle.Render("Error: "+m.err.Error()) + "\n")
		sb.WriteString(mutedTextStyle.Render("Is the N64 powered on?") + "\n")

	case m.loading:
		sb.WriteString(m.spinner.View() + " " + mutedTextStyle.Render("reading card...") + "\n")

	case len(m.entries) == 0:
		sb.WriteString(mutedTextStyle.Render("(empty directory)") + "\n")

	default:
		sb.WriteString(m.renderEntries(innerWidth))
	}

	sb.WriteString(renderDivider(innerWidth) + "\n")
	sb.WriteString(m.renderKeyHints())

	return outerBoxStyle.Render(sb.String())
}

// renderEntries renders the directory listing with the cursor row
// highlighted. Entries stay in deployer order.
func (m Model) renderEntries(width int) string {
	var sb strings.Builder

	visible := m.height - 7
	if visible < 3 {
		visible = 3
	}
	start := 0
	if m.cursor >= visible {
		start = m.cursor - visible + 1
	}

	for i := start; i < len(m.entries) && i < start+visible; i++ {
		entry := m.entries[i]

		size := ""
		if entry.HasSize {
			size = humanize.IBytes(uint64(entry.Size))
		}

		name := entry.Name
		style := normalItemStyle
		if entry.IsDir() {
			name += "/"
			style = dirStyle
		} else if inventory.IsROM(entry.Name) {
			style = romStyle
		}

		line := fmt.Sprintf("%s %s", fileSizeStyle.Render(size), style.Render(name))
		if i == m.cursor {
			line = selectedItemStyle.Render("> ") + line
		} else {
			line = "  " + line
		}
		sb.WriteString(line + "\n")
	}

	if len(m.entries) > visible {
		sb.WriteString(mutedTextStyle.Render(
			fmt.Sprintf("  %d/%d entries", m.cursor+1, len(m.entries))) + "\n")
	}
	return sb.String()
}

// renderKeyHints renders the key legend.
func (m Model) renderKeyHints() string {
	hints := []struct{ key, desc string }{
		{"↑/↓", "move"},
		{"enter", "open"},
		{"backspace", "up"},
		{"r", "refresh"},
		{"q", "quit"},
	}

	var parts []string
	for _, h := range hints {
		parts = append(parts, keyStyle.Render(h.key)+" "+keyDescStyle.Render(h.desc))
	}
	return strings.Join(parts, "  ")
}

// joinRemote appends a name to a remote directory with exactly one
// separator.
func joinRemote(dir, name string) string {
	if dir == "/" || dir == "" {
		return "/" + name
	}
	return dir + "/" + name
}

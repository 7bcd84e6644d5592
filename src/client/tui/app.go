// Package tui implements the interactive search, curate and render screen.
package tui

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/apimgr/assetsearch/src/client/api"
	"github.com/apimgr/assetsearch/src/client/asset"
	"github.com/apimgr/assetsearch/src/client/render"
)

// Dracula colors
var (
	foreground = lipgloss.Color("#f8f8f2")
	selection  = lipgloss.Color("#44475a")
	comment    = lipgloss.Color("#6272a4")
	cyan       = lipgloss.Color("#8be9fd")
	green      = lipgloss.Color("#50fa7b")
	purple     = lipgloss.Color("#bd93f9")
	red        = lipgloss.Color("#ff5555")
	yellow     = lipgloss.Color("#f1fa8c")
)

var (
	titleStyle = lipgloss.NewStyle().
			Foreground(purple).
			Bold(true).
			Padding(0, 1)

	inputStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(comment).
			Padding(0, 1)

	resultStyle = lipgloss.NewStyle().
			Foreground(foreground)

	cursorStyle = lipgloss.NewStyle().
			Foreground(foreground).
			Background(selection)

	markStyle = lipgloss.NewStyle().
			Foreground(red).
			Bold(true)

	urlStyle = lipgloss.NewStyle().
			Foreground(cyan)

	statusStyle = lipgloss.NewStyle().
			Foreground(green)

	warnStyle = lipgloss.NewStyle().
			Foreground(yellow)

	helpStyle = lipgloss.NewStyle().
			Foreground(comment)

	errorStyle = lipgloss.NewStyle().
			Foreground(red)
)

// Blacklist is the store the screen curates.
type Blacklist interface {
	asset.Store
	Reload() error
	Len() (urls, keys int)
	Dirty() bool
}

// Config wires the screen to the rest of the client.
type Config struct {
	Retriever  *asset.Retriever
	Blacklist  Blacklist
	Grid       *render.Grid
	OutputPath string
	// Open is called with OutputPath after a grid is rendered. Nil skips it.
	Open func(path string) error
	// Request builds the search request for a query.
	Request func(query string) *api.SearchRequest
}

type focus int

const (
	focusInput focus = iota
	focusList
)

type model struct {
	cfg        Config
	input      textinput.Model
	viewport   viewport.Model
	query      string
	candidates []asset.Candidate
	marked     map[int]bool
	cursor     int
	focus      focus
	status     string
	result     *asset.Result
	err        error
	searching  bool
	width      int
	height     int
}

type retrieveMsg struct {
	result  *asset.Result
	err     error
	loadErr error
}

type gridMsg struct {
	path string
	err  error
}

func initialModel(cfg Config) model {
	ti := textinput.New()
	ti.Placeholder = "Enter search query..."
	ti.Focus()
	ti.Width = 50

	return model{
		cfg:      cfg,
		input:    ti,
		viewport: viewport.New(80, 18),
		marked:   make(map[int]bool),
	}
}

func (m model) Init() tea.Cmd {
	return textinput.Blink
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			return m, tea.Quit
		}
		if m.focus == focusList {
			return m.updateList(msg)
		}
		return m.updateInput(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.viewport = viewport.New(msg.Width, max(msg.Height-8, 3))
		m.viewport.SetContent(m.renderResults())

	case retrieveMsg:
		m.searching = false
		m.result = msg.result
		m.err = msg.err
		m.candidates = nil
		m.marked = make(map[int]bool)
		m.cursor = 0
		if msg.err == nil && msg.result != nil {
			m.candidates = msg.result.Candidates
			m.status = summary(msg.result)
			if msg.loadErr != nil {
				m.status = "Blacklist load failed, starting empty. " + m.status
			}
			if len(m.candidates) > 0 {
				m.focus = focusList
				m.input.Blur()
			}
		}
		m.viewport.SetContent(m.renderResults())

	case gridMsg:
		if msg.err != nil {
			m.err = msg.err
		} else {
			m.status = "Result grid written to " + msg.path
		}
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m model) updateInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEnter:
		q := strings.TrimSpace(m.input.Value())
		if q == "" || m.searching {
			return m, nil
		}
		m.query = q
		m.searching = true
		m.err = nil
		m.status = ""
		return m, m.retrieve(q)
	case tea.KeyEsc:
		m.input.SetValue("")
		m.candidates = nil
		m.marked = make(map[int]bool)
		m.result = nil
		m.err = nil
		m.status = ""
		m.viewport.SetContent(m.renderResults())
		return m, nil
	case tea.KeyTab:
		if len(m.candidates) > 0 {
			m.focus = focusList
			m.input.Blur()
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m model) updateList(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q":
		return m, tea.Quit
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.candidates)-1 {
			m.cursor++
		}
	case " ":
		if m.marked[m.cursor] {
			delete(m.marked, m.cursor)
		} else {
			m.marked[m.cursor] = true
		}
	case "b":
		m.commit()
	case "g":
		return m, m.renderGrid()
	case "tab", "/", "esc":
		m.focus = focusInput
		return m, m.input.Focus()
	}
	m.viewport.SetContent(m.renderResults())
	m.follow()
	return m, nil
}

// follow scrolls the viewport so the cursor row stays visible.
func (m *model) follow() {
	row := m.cursor * 2
	switch {
	case row < m.viewport.YOffset:
		m.viewport.SetYOffset(row)
	case row+2 > m.viewport.YOffset+m.viewport.Height:
		m.viewport.SetYOffset(row + 2 - m.viewport.Height)
	}
}

// commit blacklists every marked candidate and drops them from the list.
func (m *model) commit() {
	if len(m.marked) == 0 || m.cfg.Blacklist == nil {
		return
	}
	var idx []string
	for _, i := range m.markedIndices() {
		idx = append(idx, strconv.Itoa(i))
	}

	cur := asset.Curate(m.cfg.Blacklist, m.candidates, strings.Join(idx, ","), nil)
	m.candidates = asset.FilterCandidates(m.candidates, m.cfg.Blacklist)
	m.marked = make(map[int]bool)
	if m.cursor >= len(m.candidates) {
		m.cursor = max(len(m.candidates)-1, 0)
	}

	urls, keys := m.cfg.Blacklist.Len()
	m.status = fmt.Sprintf("Blacklisted %d result(s); blacklist has %d URLs and %d keys.", len(cur.Indices), urls, keys)
	if cur.Changed && !cur.Persisted {
		m.status += " Save failed, changes kept for this session."
	}
}

func (m model) retrieve(query string) tea.Cmd {
	cfg := m.cfg
	return func() tea.Msg {
		if cfg.Retriever == nil || cfg.Request == nil {
			return retrieveMsg{err: fmt.Errorf("search is not configured")}
		}
		var loadErr error
		if cfg.Blacklist != nil && !cfg.Blacklist.Dirty() {
			if loadErr = cfg.Blacklist.Reload(); loadErr != nil {
				slog.Warn("blacklist load failed, starting empty", "error", loadErr)
			}
		}
		res, err := cfg.Retriever.Retrieve(context.Background(), cfg.Request(query))
		return retrieveMsg{result: res, err: err, loadErr: loadErr}
	}
}

func (m model) renderGrid() tea.Cmd {
	cfg := m.cfg
	title := fmt.Sprintf("Search: '%s'", m.query)
	candidates := append([]asset.Candidate(nil), m.candidates...)
	return func() tea.Msg {
		if cfg.Grid == nil {
			return gridMsg{err: fmt.Errorf("grid rendering is not configured")}
		}
		if err := cfg.Grid.Save(title, candidates, cfg.OutputPath); err != nil {
			return gridMsg{err: err}
		}
		if cfg.Open != nil {
			if err := cfg.Open(cfg.OutputPath); err != nil {
				return gridMsg{err: err}
			}
		}
		return gridMsg{path: cfg.OutputPath}
	}
}

func summary(res *asset.Result) string {
	return fmt.Sprintf("%d valid results, %d raw hits, limit %d: %s", len(res.Candidates), res.TotalHits, res.Limit, res.Outcome)
}

func (m model) markedIndices() []int {
	out := make([]int, 0, len(m.marked))
	for i := range m.marked {
		out = append(out, i)
	}
	sort.Ints(out)
	return out
}

func (m model) renderResults() string {
	if m.err != nil {
		return errorStyle.Render(fmt.Sprintf("Error: %v", m.err))
	}
	if m.result == nil {
		return ""
	}
	if len(m.candidates) == 0 {
		return helpStyle.Render("No results found")
	}

	var sb strings.Builder
	for i, c := range m.candidates {
		mark := "  "
		if m.marked[i] {
			mark = markStyle.Render("x ")
		}
		line := fmt.Sprintf("%2d. %s  %s", i, c.Name(), c.SizeString())
		if i == m.cursor && m.focus == focusList {
			line = cursorStyle.Render(line)
		} else {
			line = resultStyle.Render(line)
		}
		sb.WriteString(mark + line + "\n")
		sb.WriteString(urlStyle.Render("      "+c.URL) + "\n")
	}
	return sb.String()
}

func (m model) View() string {
	var sb strings.Builder

	sb.WriteString(titleStyle.Render("Asset Search"))
	sb.WriteString("\n\n")

	sb.WriteString(inputStyle.Render(m.input.View()))
	sb.WriteString("\n\n")

	if m.searching {
		sb.WriteString(helpStyle.Render("Searching..."))
	} else {
		sb.WriteString(m.viewport.View())
	}
	sb.WriteString("\n")

	if m.status != "" {
		style := statusStyle
		if m.result != nil && m.result.Outcome != asset.OutcomeEnough {
			style = warnStyle
		}
		sb.WriteString(style.Render(m.status))
		sb.WriteString("\n")
	}

	if m.focus == focusList {
		sb.WriteString(helpStyle.Render("↑/↓: move • Space: mark • b: blacklist marked • g: grid • Tab: query • q: quit"))
	} else {
		sb.WriteString(helpStyle.Render("Enter: search • Tab: results • Esc: clear • Ctrl+C: quit"))
	}
	return sb.String()
}

// Run starts the TUI application
func Run(cfg Config) error {
	p := tea.NewProgram(initialModel(cfg), tea.WithAltScreen())
	_, err := p.Run()
	return err
}

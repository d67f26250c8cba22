// Package tui implements the interactive terminal frontend: a search
// prompt, a navigable result list with enrichment progress, and a
// streaming analysis view.
package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/muesli/reflow/wordwrap"
	"github.com/pkg/browser"

	"github.com/luochenhu/gh-issuelens/internal/app"
	"github.com/luochenhu/gh-issuelens/pkg/models"
)

// Screen identifies the view the model is currently showing.
type Screen int

const (
	ScreenSearch Screen = iota
	ScreenResults
	ScreenQuestion
	ScreenAnalysis
)

const exportFileName = "issues-export.json"

// Model is the root Bubble Tea model.
type Model struct {
	ctx     context.Context
	session *app.Session

	owner      string
	repo       string
	maxResults int
	onlyClosed bool

	screen        Screen
	keys          KeyMap
	searchInput   textinput.Model
	questionInput textinput.Model
	spinner       spinner.Model
	progressBar   progress.Model
	viewport      viewport.Model

	searching bool
	enriching bool
	analyzing bool
	percent   int
	cursor    int

	// Background work feeds messages through these channels; waitFor
	// re-arms after every received message until the done message lands.
	detailsCh  chan tea.Msg
	analysisCh chan tea.Msg

	analysisText string
	status       string
	err          error

	width  int
	height int
}

// NewModel builds the root model for a repository.
func NewModel(ctx context.Context, session *app.Session, owner, repo string, maxResults int, onlyClosed bool) Model {
	si := textinput.New()
	si.Placeholder = "search issues (empty for all)"
	si.Focus()
	si.CharLimit = 256
	si.Width = 60

	qi := textinput.New()
	qi.Placeholder = "ask a question about these issues"
	qi.CharLimit = 512
	qi.Width = 60

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	vp := viewport.New(80, 20)

	return Model{
		ctx:           ctx,
		session:       session,
		owner:         owner,
		repo:          repo,
		maxResults:    maxResults,
		onlyClosed:    onlyClosed,
		screen:        ScreenSearch,
		keys:          DefaultKeyMap(),
		searchInput:   si,
		questionInput: qi,
		spinner:       sp,
		progressBar:   progress.New(progress.WithDefaultGradient()),
		viewport:      vp,
		width:         80,
		height:        24,
	}
}

// Init starts the spinner tick.
func (m Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.spinner.Tick)
}

// Update handles messages and screen transitions.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.viewport.Width = msg.Width - 2
		m.viewport.Height = msg.Height - 6
		m.progressBar.Width = msg.Width - 10
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case searchDoneMsg:
		m.searching = false
		if msg.err != nil {
			m.err = msg.err
			m.screen = ScreenSearch
			return m, nil
		}
		m.err = nil
		m.cursor = 0
		m.screen = ScreenResults
		m.status = fmt.Sprintf("%d issues found", len(msg.results))
		return m, nil

	case detailsProgressMsg:
		m.percent = msg.percent
		return m, waitFor(m.detailsCh)

	case detailsDoneMsg:
		m.enriching = false
		m.percent = 0
		m.detailsCh = nil
		if msg.err != nil {
			m.err = msg.err
			m.status = ""
		} else {
			m.err = nil
			rs := m.session.Results()
			m.status = fmt.Sprintf("%d issues, %d with detail", len(rs), rs.CountDetailed())
		}
		return m, nil

	case analysisChunkMsg:
		m.analysisText += msg.text
		m.viewport.SetContent(wordwrap.String(m.analysisText, m.viewport.Width))
		m.viewport.GotoBottom()
		return m, waitFor(m.analysisCh)

	case analysisDoneMsg:
		m.analyzing = false
		m.analysisCh = nil
		if msg.resp != nil {
			m.analysisText = msg.resp.Content
			m.viewport.SetContent(wordwrap.String(m.analysisText, m.viewport.Width))
		}
		return m, nil

	case exportDoneMsg:
		if msg.err != nil {
			m.err = msg.err
		} else {
			m.err = nil
			m.status = "exported to " + msg.path
		}
		return m, nil
	}

	return m.updateFocused(msg)
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return m, tea.Quit
	}

	switch m.screen {
	case ScreenSearch:
		if msg.Type == tea.KeyEnter && !m.searching {
			m.searching = true
			m.err = nil
			return m, tea.Batch(m.spinner.Tick, m.startSearch(m.searchInput.Value()))
		}

	case ScreenResults:
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.Up):
			if m.cursor > 0 {
				m.cursor--
			}
			return m, nil
		case key.Matches(msg, m.keys.Down):
			if m.cursor < len(m.session.Results())-1 {
				m.cursor++
			}
			return m, nil
		case key.Matches(msg, m.keys.Search):
			if m.enriching {
				return m, nil
			}
			m.screen = ScreenSearch
			m.searchInput.Focus()
			return m, textinput.Blink
		case key.Matches(msg, m.keys.Details):
			if m.enriching || m.searching {
				return m, nil
			}
			m.enriching = true
			m.err = nil
			m.detailsCh = make(chan tea.Msg, 8)
			return m, tea.Batch(
				runDetails(m.ctx, m.session, m.owner, m.repo, m.detailsCh),
				waitFor(m.detailsCh),
			)
		case key.Matches(msg, m.keys.Analyze):
			m.screen = ScreenQuestion
			m.questionInput.Focus()
			return m, textinput.Blink
		case key.Matches(msg, m.keys.Open):
			if issue, ok := m.selectedIssue(); ok {
				// Fire and forget; browser failures only surface in status.
				if err := browser.OpenURL(issue.HTMLURL); err != nil {
					m.status = "failed to open browser"
				}
			}
			return m, nil
		case key.Matches(msg, m.keys.Export):
			return m, m.startExport()
		}

	case ScreenQuestion:
		switch msg.Type {
		case tea.KeyEsc:
			m.screen = ScreenResults
			return m, nil
		case tea.KeyEnter:
			if m.analyzing {
				return m, nil
			}
			m.analyzing = true
			m.analysisText = ""
			m.screen = ScreenAnalysis
			m.viewport.SetContent("")
			m.analysisCh = make(chan tea.Msg, 8)
			return m, tea.Batch(
				m.spinner.Tick,
				runAnalysis(m.ctx, m.session, m.questionInput.Value(), m.analysisCh),
				waitFor(m.analysisCh),
			)
		}

	case ScreenAnalysis:
		switch {
		case key.Matches(msg, m.keys.Back):
			m.screen = ScreenResults
			return m, nil
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit
		}
	}

	return m.updateFocused(msg)
}

// updateFocused forwards the message to whichever component owns input.
func (m Model) updateFocused(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch m.screen {
	case ScreenSearch:
		m.searchInput, cmd = m.searchInput.Update(msg)
	case ScreenQuestion:
		m.questionInput, cmd = m.questionInput.Update(msg)
	case ScreenAnalysis:
		m.viewport, cmd = m.viewport.Update(msg)
	}
	return m, cmd
}

func (m Model) selectedIssue() (models.EnrichedIssue, bool) {
	rs := m.session.Results()
	if m.cursor < 0 || m.cursor >= len(rs) {
		return models.EnrichedIssue{}, false
	}
	return rs[m.cursor], true
}

// View renders the current screen.
func (m Model) View() string {
	var b strings.Builder
	b.WriteString(TitleStyle.Render(fmt.Sprintf("gh-issuelens  %s/%s", m.owner, m.repo)))
	b.WriteString("\n")

	switch m.screen {
	case ScreenSearch:
		b.WriteString(m.viewSearch())
	case ScreenResults:
		b.WriteString(m.viewResults())
	case ScreenQuestion:
		b.WriteString(m.viewQuestion())
	case ScreenAnalysis:
		b.WriteString(m.viewAnalysis())
	}

	if m.err != nil {
		b.WriteString("\n" + ErrorStyle.Render("Error: "+m.err.Error()))
	}
	return b.String()
}

func (m Model) viewSearch() string {
	var b strings.Builder
	b.WriteString(m.searchInput.View())
	b.WriteString("\n")
	if m.searching {
		b.WriteString("\n" + m.spinner.View() + " Searching...")
	}
	b.WriteString(HelpStyle.Render("enter: search • ctrl+c: quit"))
	return b.String()
}

func (m Model) viewResults() string {
	rs := m.session.Results()
	var b strings.Builder

	if len(rs) == 0 {
		b.WriteString("No issues found.\n")
	}

	visible := m.height - 8
	if visible < 1 {
		visible = 1
	}
	start := 0
	if m.cursor >= visible {
		start = m.cursor - visible + 1
	}
	end := start + visible
	if end > len(rs) {
		end = len(rs)
	}

	for i := start; i < end; i++ {
		issue := rs[i]
		state := StateOpenStyle.Render("open  ")
		if issue.State == "closed" {
			state = StateClosedStyle.Render("closed")
		}
		tag := "  "
		if issue.HasDetail {
			tag = DetailTagStyle.Render("● ")
		}
		number, _ := issue.Number()
		line := fmt.Sprintf("%s%s #%-6d %s", tag, state, number, truncate(issue.Title, m.width-20))
		if i == m.cursor {
			b.WriteString(SelectedItemStyle.Render("> " + line))
		} else {
			b.WriteString(NormalItemStyle.Render("  " + line))
		}
		b.WriteString("\n")
	}

	if m.enriching {
		b.WriteString("\n" + m.progressBar.ViewAs(float64(m.percent)/100) + "\n")
	} else if m.status != "" {
		b.WriteString("\n" + StatusStyle.Render(m.status) + "\n")
	}

	b.WriteString(HelpStyle.Render("↑/↓: navigate • /: search • d: details • a: analyze • o: open • e: export • q: quit"))
	return b.String()
}

func (m Model) viewQuestion() string {
	var b strings.Builder
	b.WriteString(m.questionInput.View())
	b.WriteString("\n")
	b.WriteString(HelpStyle.Render("enter: ask • esc: back"))
	return b.String()
}

func (m Model) viewAnalysis() string {
	var b strings.Builder
	if m.analyzing && m.analysisText == "" {
		b.WriteString(m.spinner.View() + " Thinking...\n")
	}
	b.WriteString(m.viewport.View())
	b.WriteString("\n")
	b.WriteString(HelpStyle.Render("↑/↓: scroll • esc: back • q: quit"))
	return b.String()
}

func truncate(s string, max int) string {
	if max < 4 {
		max = 4
	}
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max-3]) + "..."
}

// startExport writes the current result set next to the working
// directory.
func (m Model) startExport() tea.Cmd {
	return func() tea.Msg {
		err := m.session.ExportJSON(exportFileName)
		return exportDoneMsg{path: exportFileName, err: err}
	}
}

// startSearch runs the search off the UI loop.
func (m Model) startSearch(query string) tea.Cmd {
	return func() tea.Msg {
		rs, err := m.session.Search(m.ctx, m.owner, m.repo, query, m.maxResults, m.onlyClosed)
		return searchDoneMsg{results: rs, err: err}
	}
}

// runDetails drives enrichment, feeding progress through ch.
func runDetails(ctx context.Context, session *app.Session, owner, repo string, ch chan tea.Msg) tea.Cmd {
	return func() tea.Msg {
		err := session.FetchDetails(ctx, owner, repo, func(percent int) {
			ch <- detailsProgressMsg{percent: percent}
		})
		ch <- detailsDoneMsg{err: err}
		return nil
	}
}

// runAnalysis streams the answer, feeding fragments through ch.
func runAnalysis(ctx context.Context, session *app.Session, question string, ch chan tea.Msg) tea.Cmd {
	return func() tea.Msg {
		resp, err := session.Analyze(ctx, question, func(chunk string) {
			ch <- analysisChunkMsg{text: chunk}
		})
		if err != nil {
			ch <- analysisChunkMsg{text: err.Error()}
		}
		ch <- analysisDoneMsg{resp: resp}
		return nil
	}
}

// waitFor reads the next message from a background channel.
func waitFor(ch chan tea.Msg) tea.Cmd {
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		return <-ch
	}
}

// Run starts the interactive frontend over an existing session.
func Run(ctx context.Context, session *app.Session, owner, repo string, maxResults int, onlyClosed bool) error {
	p := tea.NewProgram(
		NewModel(ctx, session, owner, repo, maxResults, onlyClosed),
		tea.WithAltScreen(),
		tea.WithContext(ctx),
	)
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("failed to run interactive UI: %w", err)
	}
	return nil
}

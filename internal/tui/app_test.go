package tui

import (
	"context"
	"encoding/json"
	"os"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/luochenhu/gh-issuelens/internal/app"
	"github.com/luochenhu/gh-issuelens/internal/enrich"
	"github.com/luochenhu/gh-issuelens/internal/llm"
	"github.com/luochenhu/gh-issuelens/pkg/models"
)

type stubSearch struct {
	results []models.IssueSummary
}

func (s *stubSearch) SearchAllIssues(ctx context.Context, owner, repo, query string, maxResults int, onlyClosed bool) ([]models.IssueSummary, error) {
	return s.results, nil
}

type stubEnricher struct{}

func (stubEnricher) Enrich(ctx context.Context, owner, repo string, issues models.ResultSet, onProgress enrich.ProgressFunc) error {
	return nil
}

type stubAnalyzer struct{}

func (stubAnalyzer) Analyze(ctx context.Context, question, issueData string, onChunk llm.StreamFunc) *models.LLMResponse {
	return &models.LLMResponse{Content: "done"}
}

func testModel(t *testing.T, issues []models.IssueSummary) Model {
	t.Helper()

	search := &stubSearch{results: issues}
	session := app.NewSession(search, stubEnricher{}, stubAnalyzer{})
	if len(issues) > 0 {
		_, err := session.Search(context.Background(), "golang", "go", "", 100, false)
		require.NoError(t, err)
	}

	m := NewModel(context.Background(), session, "golang", "go", 100, false)
	m.screen = ScreenResults
	return m
}

func testIssues() []models.IssueSummary {
	return []models.IssueSummary{
		{ID: 1, Title: "net/http: connection leak", State: "open", HTMLURL: "https://github.com/golang/go/issues/101"},
		{ID: 2, Title: "runtime: crash on arm64", State: "closed", HTMLURL: "https://github.com/golang/go/issues/102"},
		{ID: 3, Title: "cmd/go: vendoring bug", State: "open", HTMLURL: "https://github.com/golang/go/issues/103"},
	}
}

func TestViewResults_RendersIssues(t *testing.T) {
	m := testModel(t, testIssues())

	view := m.View()
	assert.Contains(t, view, "golang/go")
	assert.Contains(t, view, "#101")
	assert.Contains(t, view, "net/http: connection leak")
	assert.Contains(t, view, "closed")
}

func TestViewResults_Empty(t *testing.T) {
	m := testModel(t, nil)

	assert.Contains(t, m.View(), "No issues found")
}

func TestCursorNavigation_StaysInBounds(t *testing.T) {
	m := testModel(t, testIssues())

	// Down past the end stays on the last row.
	for i := 0; i < 10; i++ {
		updated, _ := m.Update(tea.KeyMsg{Type: tea.KeyDown})
		m = updated.(Model)
	}
	assert.Equal(t, 2, m.cursor)

	// Up past the start stays on the first row.
	for i := 0; i < 10; i++ {
		updated, _ := m.Update(tea.KeyMsg{Type: tea.KeyUp})
		m = updated.(Model)
	}
	assert.Equal(t, 0, m.cursor)
}

func TestSearchDone_TransitionsToResults(t *testing.T) {
	m := testModel(t, testIssues())
	m.screen = ScreenSearch
	m.searching = true

	updated, _ := m.Update(searchDoneMsg{results: m.session.Results()})
	m = updated.(Model)

	assert.Equal(t, ScreenResults, m.screen)
	assert.False(t, m.searching)
	assert.Contains(t, m.status, "3 issues")
}

func TestSearchDone_ErrorStaysOnSearch(t *testing.T) {
	m := testModel(t, testIssues())
	m.screen = ScreenSearch
	m.searching = true

	updated, _ := m.Update(searchDoneMsg{err: assert.AnError})
	m = updated.(Model)

	assert.Equal(t, ScreenSearch, m.screen)
	require.Error(t, m.err)
	assert.Contains(t, m.View(), "Error:")
}

func TestAnalysisChunks_Accumulate(t *testing.T) {
	m := testModel(t, testIssues())
	m.screen = ScreenAnalysis
	m.analyzing = true
	m.analysisCh = make(chan tea.Msg, 1)

	for _, chunk := range []string{"The most ", "common failure ", "is a leak."} {
		updated, cmd := m.Update(analysisChunkMsg{text: chunk})
		m = updated.(Model)
		require.NotNil(t, cmd, "streaming must re-arm the channel reader")
	}
	assert.Equal(t, "The most common failure is a leak.", m.analysisText)

	updated, _ := m.Update(analysisDoneMsg{resp: &models.LLMResponse{Content: "The most common failure is a leak."}})
	m = updated.(Model)
	assert.False(t, m.analyzing)
	assert.Nil(t, m.analysisCh)
}

func TestDetailsProgress_UpdatesAndResets(t *testing.T) {
	m := testModel(t, testIssues())
	m.enriching = true
	m.detailsCh = make(chan tea.Msg, 1)

	updated, _ := m.Update(detailsProgressMsg{percent: 60})
	m = updated.(Model)
	assert.Equal(t, 60, m.percent)
	assert.True(t, strings.Contains(m.View(), "%"), "progress bar should be visible while enriching")

	updated, _ = m.Update(detailsDoneMsg{})
	m = updated.(Model)
	assert.False(t, m.enriching)
	assert.Equal(t, 0, m.percent)
}

func TestExportKey_WritesResultSet(t *testing.T) {
	t.Chdir(t.TempDir())
	m := testModel(t, testIssues())

	updated, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'e'}})
	m = updated.(Model)
	require.NotNil(t, cmd, "export key must produce a command")

	msg := cmd()
	done, ok := msg.(exportDoneMsg)
	require.True(t, ok, "expected exportDoneMsg, got %T", msg)
	require.NoError(t, done.err)
	assert.Equal(t, exportFileName, done.path)

	data, err := os.ReadFile(exportFileName)
	require.NoError(t, err)

	var decoded models.ResultSet
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Len(t, decoded, 3)

	updated, _ = m.Update(done)
	m = updated.(Model)
	assert.Contains(t, m.status, "exported to "+exportFileName)
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 10))
	assert.Equal(t, "a ta...", truncate("a tale of two cities", 7))
}

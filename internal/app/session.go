// Package app holds the transient UI-facing state: the single current
// result set and current analysis, with single-flight discipline over the
// actions that touch them. Nothing here is persisted; a session dies with
// the process.
package app

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sync"

	"github.com/luochenhu/gh-issuelens/internal/enrich"
	"github.com/luochenhu/gh-issuelens/internal/llm"
	"github.com/luochenhu/gh-issuelens/pkg/models"
)

// Action identifies a single-flight operation kind.
type Action string

// The action kinds a session serializes.
const (
	ActionSearch  Action = "search"
	ActionDetails Action = "details"
	ActionAnalyze Action = "analyze"
)

// ErrBusy is returned when an action of the same kind (or one that owns
// the result set) is already in flight.
var ErrBusy = errors.New("operation already in flight")

// SearchClient runs issue searches.
type SearchClient interface {
	SearchAllIssues(ctx context.Context, owner, repo, query string, maxResults int, onlyClosed bool) ([]models.IssueSummary, error)
}

// Enricher fills in detail over a result set.
type Enricher interface {
	Enrich(ctx context.Context, owner, repo string, issues models.ResultSet, onProgress enrich.ProgressFunc) error
}

// Analyzer streams answers over serialized issue data.
type Analyzer interface {
	Analyze(ctx context.Context, question, issueData string, onChunk llm.StreamFunc) *models.LLMResponse
}

// Session owns the current result set and analysis.
type Session struct {
	mu       sync.Mutex
	busy     map[Action]bool
	results  models.ResultSet
	analysis *models.LLMResponse
	progress int

	search   SearchClient
	enricher Enricher
	llm      Analyzer
}

// NewSession wires a session over its three collaborators.
func NewSession(search SearchClient, enricher Enricher, analyzer Analyzer) *Session {
	return &Session{
		busy:     make(map[Action]bool),
		search:   search,
		enricher: enricher,
		llm:      analyzer,
	}
}

// begin claims the action, refusing when it or any conflicting action is
// already running. This is a busy flag, not a lock held across I/O.
func (s *Session) begin(action Action, conflicts ...Action) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.busy[action] {
		return fmt.Errorf("%s: %w", action, ErrBusy)
	}
	for _, other := range conflicts {
		if s.busy[other] {
			return fmt.Errorf("%s blocked by %s: %w", action, other, ErrBusy)
		}
	}

	s.busy[action] = true
	return nil
}

func (s *Session) end(action Action) {
	s.mu.Lock()
	s.busy[action] = false
	s.mu.Unlock()
}

// Search replaces the current result set wholesale; the previous set and
// analysis are discarded, never merged. A search cannot start while an
// enrichment run owns the result set.
func (s *Session) Search(ctx context.Context, owner, repo, query string, maxResults int, onlyClosed bool) (models.ResultSet, error) {
	if err := s.begin(ActionSearch, ActionDetails); err != nil {
		return nil, err
	}
	defer s.end(ActionSearch)

	summaries, err := s.search.SearchAllIssues(ctx, owner, repo, query, maxResults, onlyClosed)
	if err != nil {
		return nil, err
	}

	rs := models.NewResultSet(summaries)

	s.mu.Lock()
	s.results = rs
	s.analysis = nil
	s.mu.Unlock()

	return rs, nil
}

// FetchDetails enriches the current result set in place. Progress is
// forwarded to onProgress and mirrored in Progress(); it is reset to zero
// on both success and failure so the indicator never sticks mid-way.
func (s *Session) FetchDetails(ctx context.Context, owner, repo string, onProgress enrich.ProgressFunc) error {
	if err := s.begin(ActionDetails, ActionSearch); err != nil {
		return err
	}
	defer s.end(ActionDetails)
	defer s.setProgress(0)

	s.mu.Lock()
	rs := s.results
	s.mu.Unlock()

	return s.enricher.Enrich(ctx, owner, repo, rs, func(percent int) {
		s.setProgress(percent)
		if onProgress != nil {
			onProgress(percent)
		}
	})
}

// Analyze streams an answer over the current result set, recording it as
// the current analysis.
func (s *Session) Analyze(ctx context.Context, question string, onChunk llm.StreamFunc) (*models.LLMResponse, error) {
	if err := s.begin(ActionAnalyze); err != nil {
		return nil, err
	}
	defer s.end(ActionAnalyze)

	s.mu.Lock()
	rs := s.results
	s.mu.Unlock()

	data, err := json.Marshal(rs)
	if err != nil {
		return nil, fmt.Errorf("failed to serialize result set: %w", err)
	}

	resp := s.llm.Analyze(ctx, question, string(data), onChunk)

	s.mu.Lock()
	s.analysis = resp
	s.mu.Unlock()

	return resp, nil
}

// Results returns the current result set. The slice is shared with the
// session; the enricher mutates it in place during a details run.
func (s *Session) Results() models.ResultSet {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.results
}

// Analysis returns the most recent analysis, or nil.
func (s *Session) Analysis() *models.LLMResponse {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.analysis
}

// Progress returns the current enrichment percentage.
func (s *Session) Progress() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.progress
}

func (s *Session) setProgress(percent int) {
	s.mu.Lock()
	s.progress = percent
	s.mu.Unlock()
}

// ExportJSON writes the full current result set, including any
// enrichment, as an indented JSON document. No schema versioning.
func (s *Session) ExportJSON(path string) error {
	s.mu.Lock()
	rs := s.results
	s.mu.Unlock()

	data, err := json.MarshalIndent(rs, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to serialize result set: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write export file: %w", err)
	}

	return nil
}

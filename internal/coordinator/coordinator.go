// Package coordinator bridges the summarize action to the issue-detail and
// LLM pipeline, relaying streamed output to the overlay presenter over the
// message bus. It runs in a different goroutine than the presenter, so all
// communication crosses the bus; nothing is returned to the caller.
package coordinator

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/url"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/luochenhu/gh-issuelens/internal/bus"
	"github.com/luochenhu/gh-issuelens/internal/config"
	"github.com/luochenhu/gh-issuelens/internal/github"
	"github.com/luochenhu/gh-issuelens/internal/llm"
	"github.com/luochenhu/gh-issuelens/pkg/models"
)

// IssueFetcher fetches full detail for one issue.
type IssueFetcher interface {
	GetIssue(ctx context.Context, owner, repo string, number int) (*models.IssueDetail, error)
}

// Summarizer streams an issue summary; failures arrive as substituted
// content, never as an error.
type Summarizer interface {
	Summarize(ctx context.Context, issueData string, onChunk llm.StreamFunc) *models.LLMResponse
}

// ConfigSource returns the latest persisted configuration.
type ConfigSource func() (*config.Config, error)

// Coordinator drives the summarize flow. Every failure is published as a
// ShowError and logged; none are re-thrown into the pipeline.
type Coordinator struct {
	loadConfig ConfigSource
	newFetcher func(token string) (IssueFetcher, error)
	summarizer Summarizer
	out        *bus.Bus
	replies    *bus.Bus
	logger     *slog.Logger
}

// New creates a coordinator publishing to out. replies, when non-nil,
// carries presenter readiness notifications which are logged only.
func New(loadConfig ConfigSource, summarizer Summarizer, out, replies *bus.Bus, logger *slog.Logger) *Coordinator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Coordinator{
		loadConfig: loadConfig,
		newFetcher: func(token string) (IssueFetcher, error) {
			return github.NewClient(token)
		},
		summarizer: summarizer,
		out:        out,
		replies:    replies,
		logger:     logger,
	}
}

// ParseIssueURL extracts owner, repo and issue number from a GitHub issue
// page URL such as https://github.com/golang/go/issues/12345.
func ParseIssueURL(raw string) (owner, repo string, number int, err error) {
	u, err := url.Parse(raw)
	if err != nil {
		return "", "", 0, fmt.Errorf("invalid issue URL: %w", err)
	}

	parts := strings.Split(strings.Trim(u.Path, "/"), "/")
	if len(parts) < 4 || parts[2] != "issues" {
		return "", "", 0, fmt.Errorf("not an issue page URL: %s", raw)
	}

	number, err = strconv.Atoi(parts[3])
	if err != nil {
		return "", "", 0, fmt.Errorf("not an issue page URL: %s", raw)
	}

	return parts[0], parts[1], number, nil
}

// Summarize runs the full flow for the issue at pageURL: config check,
// connection ping, detail fetch, then streaming summarization with the
// cumulative text relayed to the presenter after every fragment.
func (c *Coordinator) Summarize(ctx context.Context, pageURL string) {
	log := c.logger.With("run", uuid.NewString())
	go c.drainReplies(log)

	owner, repo, number, err := ParseIssueURL(pageURL)
	if err != nil {
		c.fail(log, err.Error())
		return
	}
	log = log.With("issue", fmt.Sprintf("%s/%s#%d", owner, repo, number))

	cfg, err := c.loadConfig()
	if err != nil {
		c.fail(log, err.Error())
		return
	}
	if cfg.GitHubToken == "" || cfg.LLM.APIKey == "" {
		c.fail(log, "Please configure GitHub token and LLM settings first")
		return
	}

	c.out.Publish(bus.Ping{Message: "Checking connection..."})

	fetcher, err := c.newFetcher(cfg.GitHubToken)
	if err != nil {
		c.fail(log, err.Error())
		return
	}

	issue, err := fetcher.GetIssue(ctx, owner, repo, number)
	if err != nil {
		c.fail(log, err.Error())
		return
	}

	data, err := json.Marshal(issue)
	if err != nil {
		c.fail(log, err.Error())
		return
	}

	var full strings.Builder
	c.summarizer.Summarize(ctx, string(data), func(chunk string) {
		full.WriteString(chunk)
		c.out.Publish(bus.ShowSummary{Summary: full.String()})
	})

	log.Info("summary complete", "bytes", full.Len())
}

func (c *Coordinator) fail(log *slog.Logger, message string) {
	log.Error("summarize failed", "error", message)
	c.out.Publish(bus.ShowError{Message: message})
}

// drainReplies logs presenter readiness signals so a missing presenter is
// visible in logs without blocking the pipeline.
func (c *Coordinator) drainReplies(log *slog.Logger) {
	if c.replies == nil {
		return
	}
	for msg := range c.replies.Messages() {
		if _, ok := msg.(bus.ContentReady); ok {
			log.Debug("presenter ready")
		}
	}
}

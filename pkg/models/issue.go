package models

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Issue states as reported by the GitHub API.
const (
	StateOpen   = "open"
	StateClosed = "closed"
)

// IssueSummary is the lightweight record produced by a search. It is
// immutable once fetched except for the enrichment merge.
type IssueSummary struct {
	ID        int64     `json:"id,omitempty"`
	Title     string    `json:"title"`
	State     string    `json:"state"` // "open" or "closed"
	Body      string    `json:"body,omitempty"`
	HTMLURL   string    `json:"html_url"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Number extracts the issue number from the summary's HTML URL.
func (s *IssueSummary) Number() (int, error) {
	return IssueNumber(s.HTMLURL)
}

// IssueNumber parses the issue number from the last path segment of an
// issue URL. This is the join key between summary and detail records.
func IssueNumber(htmlURL string) (int, error) {
	trimmed := strings.TrimSuffix(htmlURL, "/")
	idx := strings.LastIndex(trimmed, "/")
	if idx < 0 {
		return 0, fmt.Errorf("invalid issue URL: %s", htmlURL)
	}
	number, err := strconv.Atoi(trimmed[idx+1:])
	if err != nil {
		return 0, fmt.Errorf("invalid issue URL: %s", htmlURL)
	}
	return number, nil
}

// Label represents a GitHub label
type Label struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Color string `json:"color"`
}

// Assignee represents the user assigned to an issue
type Assignee struct {
	Login     string `json:"login"`
	ID        int64  `json:"id"`
	AvatarURL string `json:"avatar_url"`
}

// Reactions is the fixed-key emoji counter map attached to issue comments.
type Reactions struct {
	PlusOne  int `json:"+1"`
	MinusOne int `json:"-1"`
	Laugh    int `json:"laugh"`
	Confused int `json:"confused"`
	Heart    int `json:"heart"`
	Hooray   int `json:"hooray"`
	Eyes     int `json:"eyes"`
	Rocket   int `json:"rocket"`
}

// Total returns the sum of all reaction counts.
func (r *Reactions) Total() int {
	if r == nil {
		return 0
	}
	return r.PlusOne + r.MinusOne + r.Laugh + r.Confused + r.Heart + r.Hooray + r.Eyes + r.Rocket
}

// Comment represents a user comment on an issue, reduced to the fields the
// summarization prompt cares about.
type Comment struct {
	AuthorAssociation string     `json:"author_association"`
	Reactions         *Reactions `json:"reactions,omitempty"`
	Body              string     `json:"body"`
}

// IssueDetail is the full issue record: a summary plus labels, assignee
// and resolved user comments.
type IssueDetail struct {
	IssueSummary
	Labels            []Label    `json:"labels,omitempty"`
	Assignee          *Assignee  `json:"assignee,omitempty"`
	ClosedAt          *time.Time `json:"closed_at,omitempty"`
	AuthorAssociation string     `json:"author_association,omitempty"`
	UserComments      []Comment  `json:"userComments,omitempty"`
}

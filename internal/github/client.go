// Package github wraps the GitHub REST endpoints the tool consumes: issue
// search and per-issue detail with comments.
package github

import (
	"fmt"
	"strings"

	"github.com/cli/go-gh/v2/pkg/api"
)

// restClient is the slice of go-gh's REST client the package uses.
// Narrowed to an interface so tests can substitute a fake transport.
type restClient interface {
	Get(path string, response interface{}) error
}

// Client wraps GitHub API operations with a user-supplied token.
type Client struct {
	rest restClient
}

// NewClient creates a new GitHub client authenticated with the given
// token. The token is pre-obtained by the user; no auth flow is run.
func NewClient(token string) (*Client, error) {
	if token == "" {
		return nil, fmt.Errorf("GitHub token is required")
	}

	rest, err := api.NewRESTClient(api.ClientOptions{AuthToken: token})
	if err != nil {
		return nil, fmt.Errorf("failed to create REST client: %w", err)
	}

	return &Client{rest: rest}, nil
}

// ParseRepo splits "owner/repo" into owner and repo
func ParseRepo(fullRepo string) (string, string, error) {
	parts := strings.Split(fullRepo, "/")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", fmt.Errorf("invalid repo format: %s (expected owner/repo)", fullRepo)
	}
	return parts[0], parts[1], nil
}

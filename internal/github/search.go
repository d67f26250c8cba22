package github

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/luochenhu/gh-issuelens/pkg/models"
)

// searchPageSize is the fixed page size for issue search requests.
const searchPageSize = 100

// DefaultMaxResults bounds a search when the caller does not say otherwise.
const DefaultMaxResults = 1000

// BuildSearchQuery conjoins the repo scope qualifier, the issue-type
// qualifier, the optional closed-state qualifier and the raw user query.
// The user query is passed verbatim; syntax errors surface as a provider
// 4xx, not a local error.
func BuildSearchQuery(owner, repo, query string, onlyClosed bool) string {
	parts := []string{
		fmt.Sprintf("repo:%s/%s", owner, repo),
		"type:issue",
	}
	if onlyClosed {
		parts = append(parts, "state:closed")
	}
	if query != "" {
		parts = append(parts, query)
	}
	return strings.Join(parts, " ")
}

type searchResponse struct {
	TotalCount int          `json:"total_count"`
	Items      []searchItem `json:"items"`
}

type searchItem struct {
	ID        int64     `json:"id"`
	Title     string    `json:"title"`
	State     string    `json:"state"`
	Body      string    `json:"body"`
	HTMLURL   string    `json:"html_url"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (it *searchItem) toSummary() models.IssueSummary {
	return models.IssueSummary{
		ID:        it.ID,
		Title:     it.Title,
		State:     it.State,
		Body:      it.Body,
		HTMLURL:   it.HTMLURL,
		CreatedAt: it.CreatedAt,
		UpdatedAt: it.UpdatedAt,
	}
}

// SearchIssues fetches a single page of issue search results, sorted by
// creation date descending.
func (c *Client) SearchIssues(ctx context.Context, owner, repo, query string, page, perPage int, onlyClosed bool) ([]models.IssueSummary, error) {
	if perPage == 0 {
		perPage = searchPageSize
	}
	if page == 0 {
		page = 1
	}

	params := url.Values{}
	params.Set("q", BuildSearchQuery(owner, repo, query, onlyClosed))
	params.Set("per_page", strconv.Itoa(perPage))
	params.Set("page", strconv.Itoa(page))
	params.Set("sort", "created")
	params.Set("order", "desc")

	endpoint := "search/issues?" + params.Encode()

	var resp searchResponse
	if err := c.rest.Get(endpoint, &resp); err != nil {
		return nil, wrapAPIError(endpoint, err)
	}

	issues := make([]models.IssueSummary, 0, len(resp.Items))
	for i := range resp.Items {
		issues = append(issues, resp.Items[i].toSummary())
	}

	return issues, nil
}

// SearchAllIssues fans out up to ceil(maxResults/100) page requests
// concurrently and flattens the results strictly by page index, so the
// combined order matches the provider's created-date-descending ordering
// regardless of which request completes first.
//
// All-or-nothing: any page failure fails the whole search and already
// fetched pages are discarded. A single search is assumed bounded (at most
// ten pages), so no throttling is applied here; callers needing more must
// not rely on this method as-is. Full pages are always requested, so a
// maxResults that is not a multiple of 100 can return more items than
// asked for.
func (c *Client) SearchAllIssues(ctx context.Context, owner, repo, query string, maxResults int, onlyClosed bool) ([]models.IssueSummary, error) {
	if maxResults <= 0 {
		maxResults = DefaultMaxResults
	}
	pageCount := (maxResults + searchPageSize - 1) / searchPageSize

	pages := make([][]models.IssueSummary, pageCount)
	errs := make([]error, pageCount)

	var wg sync.WaitGroup
	for page := 1; page <= pageCount; page++ {
		wg.Add(1)
		go func(page int) {
			defer wg.Done()
			issues, err := c.SearchIssues(ctx, owner, repo, query, page, searchPageSize, onlyClosed)
			if err != nil {
				errs[page-1] = err
				return
			}
			pages[page-1] = issues
		}(page)
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}

	var all []models.IssueSummary
	for _, page := range pages {
		all = append(all, page...)
	}

	return all, nil
}

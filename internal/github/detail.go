package github

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/luochenhu/gh-issuelens/pkg/models"
)

type issueResponse struct {
	ID                int64             `json:"id"`
	Title             string            `json:"title"`
	State             string            `json:"state"`
	Body              string            `json:"body"`
	HTMLURL           string            `json:"html_url"`
	CreatedAt         time.Time         `json:"created_at"`
	UpdatedAt         time.Time         `json:"updated_at"`
	Labels            []json.RawMessage `json:"labels"`
	Assignee          *models.Assignee  `json:"assignee"`
	ClosedAt          *time.Time        `json:"closed_at"`
	AuthorAssociation string            `json:"author_association"`
}

type commentResponse struct {
	AuthorAssociation string            `json:"author_association"`
	Reactions         *models.Reactions `json:"reactions"`
	Body              string            `json:"body"`
}

// decodeLabel handles both label shapes the API can return: a full object
// or a bare name string.
func decodeLabel(raw json.RawMessage) models.Label {
	var name string
	if err := json.Unmarshal(raw, &name); err == nil {
		return models.Label{Name: name}
	}

	var label models.Label
	_ = json.Unmarshal(raw, &label)
	return label
}

func (r *issueResponse) toDetail() *models.IssueDetail {
	detail := &models.IssueDetail{
		IssueSummary: models.IssueSummary{
			ID:        r.ID,
			Title:     r.Title,
			State:     r.State,
			Body:      r.Body,
			HTMLURL:   r.HTMLURL,
			CreatedAt: r.CreatedAt,
			UpdatedAt: r.UpdatedAt,
		},
		Assignee:          r.Assignee,
		ClosedAt:          r.ClosedAt,
		AuthorAssociation: r.AuthorAssociation,
	}

	if len(r.Labels) > 0 {
		detail.Labels = make([]models.Label, 0, len(r.Labels))
		for _, raw := range r.Labels {
			detail.Labels = append(detail.Labels, decodeLabel(raw))
		}
	}

	return detail
}

// GetIssue fetches full detail for one issue, resolving the comments with
// a second request merged into UserComments.
func (c *Client) GetIssue(ctx context.Context, owner, repo string, number int) (*models.IssueDetail, error) {
	endpoint := fmt.Sprintf("repos/%s/%s/issues/%d", owner, repo, number)

	var raw issueResponse
	if err := c.rest.Get(endpoint, &raw); err != nil {
		return nil, wrapAPIError(endpoint, err)
	}

	commentsEndpoint := endpoint + "/comments"
	var rawComments []commentResponse
	if err := c.rest.Get(commentsEndpoint, &rawComments); err != nil {
		return nil, wrapAPIError(commentsEndpoint, err)
	}

	detail := raw.toDetail()
	detail.UserComments = make([]models.Comment, 0, len(rawComments))
	for _, rc := range rawComments {
		detail.UserComments = append(detail.UserComments, models.Comment{
			AuthorAssociation: rc.AuthorAssociation,
			Reactions:         rc.Reactions,
			Body:              rc.Body,
		})
	}

	return detail, nil
}

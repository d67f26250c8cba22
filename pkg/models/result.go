package models

// EnrichedIssue is an issue summary with optionally attached full detail.
// HasDetail marks entries the enricher has already processed so repeated
// runs skip them.
type EnrichedIssue struct {
	IssueDetail
	HasDetail bool `json:"has_detail"`
}

// ResultSet is the ordered sequence of issues produced by one search,
// insertion order preserved (created-date descending, as returned by the
// provider). Enrichment replaces entries in place by index, never appends
// or reorders, so progress over the set is well-defined.
type ResultSet []EnrichedIssue

// NewResultSet wraps plain search summaries into an un-enriched result set.
func NewResultSet(summaries []IssueSummary) ResultSet {
	rs := make(ResultSet, len(summaries))
	for i, s := range summaries {
		rs[i] = EnrichedIssue{IssueDetail: IssueDetail{IssueSummary: s}}
	}
	return rs
}

// CountDetailed returns how many entries already carry full detail.
func (rs ResultSet) CountDetailed() int {
	count := 0
	for i := range rs {
		if rs[i].HasDetail {
			count++
		}
	}
	return count
}

// LLMResponse is a completed (or substituted) model answer. TokensUsed is
// zero whenever the provider does not report usage, which is always the
// case in streaming mode.
type LLMResponse struct {
	Content    string `json:"content"`
	TokensUsed int    `json:"tokensUsed"`
}

package enrich

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/luochenhu/gh-issuelens/pkg/models"
)

// fakeFetcher records per-issue fetch counts and can fail chosen numbers.
type fakeFetcher struct {
	mu     sync.Mutex
	calls  map[int]int
	failed map[int]error
}

func newFakeFetcher() *fakeFetcher {
	return &fakeFetcher{calls: make(map[int]int), failed: make(map[int]error)}
}

func (f *fakeFetcher) GetIssue(ctx context.Context, owner, repo string, number int) (*models.IssueDetail, error) {
	f.mu.Lock()
	f.calls[number]++
	err := f.failed[number]
	f.mu.Unlock()

	if err != nil {
		return nil, err
	}

	return &models.IssueDetail{
		IssueSummary: models.IssueSummary{
			Title:   fmt.Sprintf("issue %d", number),
			State:   "open",
			HTMLURL: fmt.Sprintf("https://github.com/o/r/issues/%d", number),
		},
		AuthorAssociation: "NONE",
	}, nil
}

func (f *fakeFetcher) totalCalls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	total := 0
	for _, n := range f.calls {
		total += n
	}
	return total
}

func testResultSet(n int) models.ResultSet {
	summaries := make([]models.IssueSummary, n)
	for i := range summaries {
		summaries[i] = models.IssueSummary{
			Title:   fmt.Sprintf("summary %d", i+1),
			State:   "open",
			HTMLURL: fmt.Sprintf("https://github.com/o/r/issues/%d", i+1),
		}
	}
	return models.NewResultSet(summaries)
}

// newTestEnricher swaps the cooldown sleep for a counter.
func newTestEnricher(fetcher DetailFetcher, sleeps *int) *Enricher {
	e := New(fetcher)
	e.sleep = func(time.Duration) {
		if sleeps != nil {
			*sleeps++
		}
	}
	return e
}

func TestEnrich_ProgressMonotonic(t *testing.T) {
	fetcher := newFakeFetcher()
	e := newTestEnricher(fetcher, nil)
	issues := testResultSet(25)

	var reports []int
	var mu sync.Mutex
	err := e.Enrich(context.Background(), "o", "r", issues, func(p int) {
		mu.Lock()
		reports = append(reports, p)
		mu.Unlock()
	})
	if err != nil {
		t.Fatalf("Enrich() error = %v", err)
	}

	if len(reports) == 0 {
		t.Fatal("no progress reported")
	}
	if reports[0] != 0 {
		t.Errorf("first report = %d, want 0 (nothing previously done)", reports[0])
	}
	for i := 1; i < len(reports); i++ {
		if reports[i] < reports[i-1] {
			t.Errorf("progress decreased: %d -> %d", reports[i-1], reports[i])
		}
	}
	if reports[len(reports)-1] != 100 {
		t.Errorf("final report = %d, want 100", reports[len(reports)-1])
	}
	// Initial report plus one per issue.
	if len(reports) != 26 {
		t.Errorf("len(reports) = %d, want 26", len(reports))
	}
}

func TestEnrich_IdempotentSkip(t *testing.T) {
	fetcher := newFakeFetcher()
	e := newTestEnricher(fetcher, nil)
	issues := testResultSet(12)

	if err := e.Enrich(context.Background(), "o", "r", issues, nil); err != nil {
		t.Fatalf("first Enrich() error = %v", err)
	}
	if fetcher.totalCalls() != 12 {
		t.Fatalf("first run calls = %d, want 12", fetcher.totalCalls())
	}

	var reports []int
	if err := e.Enrich(context.Background(), "o", "r", issues, func(p int) {
		reports = append(reports, p)
	}); err != nil {
		t.Fatalf("second Enrich() error = %v", err)
	}

	// Second run: zero additional network calls, progress 100 immediately.
	if fetcher.totalCalls() != 12 {
		t.Errorf("second run added calls: %d, want 12", fetcher.totalCalls())
	}
	if len(reports) != 1 || reports[0] != 100 {
		t.Errorf("second run reports = %v, want [100]", reports)
	}
}

func TestEnrich_PositionalIntegrity(t *testing.T) {
	fetcher := newFakeFetcher()
	e := newTestEnricher(fetcher, nil)
	issues := testResultSet(17)

	before := make([]string, len(issues))
	for i := range issues {
		before[i] = issues[i].HTMLURL
	}

	if err := e.Enrich(context.Background(), "o", "r", issues, nil); err != nil {
		t.Fatalf("Enrich() error = %v", err)
	}

	for i := range issues {
		if issues[i].HTMLURL != before[i] {
			t.Errorf("issues[%d].HTMLURL = %q, want %q", i, issues[i].HTMLURL, before[i])
		}
		if !issues[i].HasDetail {
			t.Errorf("issues[%d].HasDetail = false", i)
		}
		if issues[i].AuthorAssociation != "NONE" {
			t.Errorf("issues[%d] missing merged detail", i)
		}
	}
}

func TestEnrich_CooldownSpacing(t *testing.T) {
	// 25 issues means windows of 10, 10 and 5: exactly two cooldowns, none
	// after the last window.
	fetcher := newFakeFetcher()
	sleeps := 0
	e := newTestEnricher(fetcher, &sleeps)
	issues := testResultSet(25)

	if err := e.Enrich(context.Background(), "o", "r", issues, nil); err != nil {
		t.Fatalf("Enrich() error = %v", err)
	}
	if sleeps != 2 {
		t.Errorf("cooldowns = %d, want 2", sleeps)
	}

	// All already enriched: no pauses at all.
	sleeps = 0
	if err := e.Enrich(context.Background(), "o", "r", issues, nil); err != nil {
		t.Fatalf("second Enrich() error = %v", err)
	}
	if sleeps != 0 {
		t.Errorf("cooldowns on fully enriched set = %d, want 0", sleeps)
	}
}

func TestEnrich_PartiallyEnrichedInitialProgress(t *testing.T) {
	fetcher := newFakeFetcher()
	e := newTestEnricher(fetcher, nil)
	issues := testResultSet(10)

	// Pre-enrich the first four entries.
	for i := 0; i < 4; i++ {
		issues[i].HasDetail = true
	}

	var reports []int
	var mu sync.Mutex
	if err := e.Enrich(context.Background(), "o", "r", issues, func(p int) {
		mu.Lock()
		reports = append(reports, p)
		mu.Unlock()
	}); err != nil {
		t.Fatalf("Enrich() error = %v", err)
	}

	if reports[0] != 40 {
		t.Errorf("initial report = %d, want 40 (prior work counted up front)", reports[0])
	}
	if fetcher.totalCalls() != 6 {
		t.Errorf("calls = %d, want 6", fetcher.totalCalls())
	}
}

func TestEnrich_WindowFailureAborts(t *testing.T) {
	fetcher := newFakeFetcher()
	fetcher.failed[12] = fmt.Errorf("secondary rate limit")
	sleeps := 0
	e := newTestEnricher(fetcher, &sleeps)
	issues := testResultSet(25)

	err := e.Enrich(context.Background(), "o", "r", issues, nil)
	if err == nil {
		t.Fatal("Enrich() expected error")
	}

	// Window 1 (issues 1-10) completed fully.
	for i := 0; i < 10; i++ {
		if !issues[i].HasDetail {
			t.Errorf("issues[%d].HasDetail = false, want true (window 1 committed)", i)
		}
	}
	// Window 3 (issues 21-25) never started.
	for i := 20; i < 25; i++ {
		if issues[i].HasDetail {
			t.Errorf("issues[%d].HasDetail = true, want false (window 3 never ran)", i)
		}
	}
	fetcher.mu.Lock()
	window3Calls := fetcher.calls[21] + fetcher.calls[22] + fetcher.calls[23] + fetcher.calls[24] + fetcher.calls[25]
	fetcher.mu.Unlock()
	if window3Calls != 0 {
		t.Errorf("window 3 fetches = %d, want 0", window3Calls)
	}
	// Successful fetches within the failing window keep their writes; the
	// failed entry stays a bare summary.
	for i := 10; i < 20; i++ {
		if i == 11 {
			if issues[i].HasDetail {
				t.Errorf("issues[11] (failed fetch) should not be marked detailed")
			}
			continue
		}
		if !issues[i].HasDetail {
			t.Errorf("issues[%d].HasDetail = false, want true (write already committed)", i)
		}
	}
	// No cooldown after the aborted window.
	if sleeps != 1 {
		t.Errorf("cooldowns = %d, want 1 (only after window 1)", sleeps)
	}
}

func TestEnrich_EmptySet(t *testing.T) {
	e := newTestEnricher(newFakeFetcher(), nil)

	var reports []int
	if err := e.Enrich(context.Background(), "o", "r", nil, func(p int) {
		reports = append(reports, p)
	}); err != nil {
		t.Fatalf("Enrich() error = %v", err)
	}
	if len(reports) != 1 || reports[0] != 100 {
		t.Errorf("reports = %v, want [100]", reports)
	}
}

// Package enrich fills in full issue detail over an existing search result
// set in fixed-size concurrent windows, with a cooldown between windows to
// stay clear of the detail endpoint's secondary rate limit.
package enrich

import (
	"context"
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/luochenhu/gh-issuelens/pkg/models"
)

const (
	// WindowSize is the number of detail fetches dispatched concurrently.
	WindowSize = 10

	// windowCooldown separates consecutive windows that performed work.
	windowCooldown = 2000 * time.Millisecond
)

// DetailFetcher fetches full detail for a single issue. Implemented by
// github.Client.
type DetailFetcher interface {
	GetIssue(ctx context.Context, owner, repo string, number int) (*models.IssueDetail, error)
}

// ProgressFunc receives the whole-run completion percentage. It is invoked
// once up front (reflecting prior work) and again after each individual
// fetch completes, so progress is visible at per-issue granularity.
type ProgressFunc func(percent int)

// Enricher runs detail enrichment over a result set. Idempotent-by-skip:
// entries already carrying detail are never re-fetched, so a resumed run
// only pays for what is missing.
type Enricher struct {
	fetcher DetailFetcher
	sleep   func(time.Duration)
}

// New creates an Enricher backed by the given detail fetcher.
func New(fetcher DetailFetcher) *Enricher {
	return &Enricher{
		fetcher: fetcher,
		sleep:   time.Sleep,
	}
}

// Enrich mutates issues in place, in windows of ten taken in list order.
// Within a window, entries that already have detail are filtered out
// before dispatch and the rest are fetched concurrently; the enriched
// record replaces the summary at the same index, never appended, so
// callers holding positional references stay valid.
//
// Any fetch failure aborts the run after the current window settles.
// Writes already applied for other members of that window stand; the error
// return signals the caller that the run did not complete and its progress
// indicator should be reset rather than left mid-way.
func (e *Enricher) Enrich(ctx context.Context, owner, repo string, issues models.ResultSet, onProgress ProgressFunc) error {
	total := len(issues)
	report := func(processed int) {
		if onProgress == nil {
			return
		}
		onProgress(int(math.Round(float64(processed) / float64(total) * 100)))
	}

	if total == 0 {
		if onProgress != nil {
			onProgress(100)
		}
		return nil
	}

	var mu sync.Mutex
	processed := issues.CountDetailed()
	report(processed)

	for start := 0; start < total; start += WindowSize {
		end := start + WindowSize
		if end > total {
			end = total
		}

		var (
			wg         sync.WaitGroup
			firstErr   error
			dispatched int
		)

		for i := start; i < end; i++ {
			if issues[i].HasDetail {
				continue
			}

			number, err := issues[i].Number()
			if err != nil {
				return fmt.Errorf("failed to resolve issue number: %w", err)
			}

			dispatched++
			wg.Add(1)
			go func(i, number int) {
				defer wg.Done()

				detail, err := e.fetcher.GetIssue(ctx, owner, repo, number)

				mu.Lock()
				defer mu.Unlock()
				if err != nil {
					if firstErr == nil {
						firstErr = err
					}
					return
				}

				issues[i] = models.EnrichedIssue{IssueDetail: *detail, HasDetail: true}
				processed++
				report(processed)
			}(i, number)
		}

		// Window skipped entirely: no cooldown.
		if dispatched == 0 {
			continue
		}

		wg.Wait()

		mu.Lock()
		err := firstErr
		mu.Unlock()
		if err != nil {
			return fmt.Errorf("enrichment aborted: %w", err)
		}

		if end < total {
			e.sleep(windowCooldown)
		}
	}

	return nil
}

package screening

import (
	"context"
	"fmt"
	"log"
	"sync"
	"sync/atomic"
	"time"
)

// retrieveRankings retrieves rank entries for all screened sites concurrently.
func retrieveRankings(ctx context.Context, config *Config, jobs []Screening, stats *Stats) ([]Entry, error) {
	log.Printf("Retrieving rankings for %d sites with %d workers...", len(jobs), config.Workers)

	client := newHTTPClient(config.Timeout)

	siteIDs := make([]string, len(jobs))
	for i, job := range jobs {
		siteIDs[i] = job.SiteID
	}

	// Results storage
	rankings := make([]Entry, len(siteIDs))
	var (
		retrieved int64
		failed    int64
	)

	// Progress reporting
	var lastReport time.Time
	reportInterval := 1 * time.Second

	// Create worker pool
	siteChan := make(chan int, config.Workers*WorkerChannelMultiplier) // Send indices instead of IDs
	var wg sync.WaitGroup

	// Start workers
	for i := 0; i < config.Workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()

			for index := range siteChan {
				select {
				case <-ctx.Done():
					return
				default:
					siteID := siteIDs[index]
					entry, err := retrieveSingleRanking(ctx, client, config.BaseURL, siteID)

					if err != nil {
						atomic.AddInt64(&failed, 1)
						if config.Verbose {
							log.Printf("Failed to get rank for %s: %v", siteID, err)
						}
					} else {
						rankings[index] = entry
						atomic.AddInt64(&retrieved, 1)
					}

					// Progress reporting
					if time.Since(lastReport) >= reportInterval {
						lastReport = time.Now()
						total := atomic.LoadInt64(&retrieved) + atomic.LoadInt64(&failed)
						ret := atomic.LoadInt64(&retrieved)
						fail := atomic.LoadInt64(&failed)

						log.Printf("Rankings: %d/%d retrieved (success: %d, failed: %d)",
							total, len(siteIDs), ret, fail)
					}
				}
			}
		}()
	}

	// Send site indices to workers
	go func() {
		defer close(siteChan)
		for i := range siteIDs {
			select {
			case <-ctx.Done():
				return
			case siteChan <- i:
			}
		}
	}()

	// Wait for all workers to complete
	wg.Wait()

	// Filter out empty entries (failed retrievals)
	validRankings := make([]Entry, 0, len(rankings))
	for _, entry := range rankings {
		if entry.SiteID != "" { // Empty SiteID indicates failed retrieval
			validRankings = append(validRankings, entry)
		}
	}

	// Update stats
	stats.RankingsRetrieved = len(validRankings)

	log.Printf(`Ranking retrieval completed:
   Retrieved: %d
   Failed: %d
`, len(validRankings), int(atomic.LoadInt64(&failed)))

	return validRankings, nil
}

// retrieveSingleRanking retrieves the rank entry for a single site.
func retrieveSingleRanking(ctx context.Context, client *HTTPClient, baseURL, siteID string) (Entry, error) {
	url := fmt.Sprintf("%s/v1/sites/%s", baseURL, siteID)

	resp, err := client.Get(ctx, url)
	if err != nil {
		return Entry{}, fmt.Errorf("request failed: %w", err)
	}

	body, err := readResponseBody(resp)
	if err != nil {
		return Entry{}, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != StatusOK {
		return Entry{}, fmt.Errorf("HTTP %d: %s", resp.StatusCode, string(body))
	}

	var entry Entry
	if err := unmarshalJSON(body, &entry); err != nil {
		return Entry{}, fmt.Errorf("failed to parse response: %w", err)
	}

	return entry, nil
}

// getTopSites retrieves the top N ranked sites.
func getTopSites(ctx context.Context, config *Config, stats *Stats) ([]Entry, error) {
	log.Printf("Getting top %d ranked sites...", config.TopN)

	client := newHTTPClient(config.Timeout)
	url := fmt.Sprintf("%s/v1/sites/top?limit=%d", config.BaseURL, config.TopN)

	resp, err := client.Get(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}

	body, err := readResponseBody(resp)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != StatusOK {
		return nil, fmt.Errorf("HTTP %d: %s", resp.StatusCode, string(body))
	}

	var top []Entry
	if err := unmarshalJSON(body, &top); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}

	stats.TopEntries = len(top)
	log.Printf("Retrieved %d top entries", len(top))

	return top, nil
}

package screening

import (
	"fmt"
	"log"
	"math"
	"sort"
)

// verifyResults checks the retrieved rankings and top list for consistency.
func verifyResults(config *Config, rankings, top []Entry) error {
	log.Println("Verifying results...")

	if len(rankings) == 0 {
		return fmt.Errorf("no rankings to verify")
	}

	// Every AEP must be a finite, non-negative energy figure.
	for _, entry := range rankings {
		if math.IsNaN(entry.AEPMWh) || math.IsInf(entry.AEPMWh, 0) || entry.AEPMWh < 0 {
			return fmt.Errorf("site %s has invalid AEP %g", entry.SiteID, entry.AEPMWh)
		}
	}

	// Sort rankings by AEP (descending) to get the best sites
	sortedRankings := make([]Entry, len(rankings))
	copy(sortedRankings, rankings)
	sort.Slice(sortedRankings, func(i, j int) bool {
		return sortedRankings[i].AEPMWh > sortedRankings[j].AEPMWh
	})

	// Verify top list consistency if we have top list data
	if len(top) > 0 {
		if err := verifyTopConsistency(sortedRankings, top); err != nil {
			log.Printf("Top list consistency warning: %v", err)
		} else {
			log.Println("Top list consistency verified")
		}
	}

	displayBestSites(sortedRankings, top, config.Verbose)

	log.Println("Result verification completed")
	return nil
}

// verifyTopConsistency checks if the top list matches the best rankings.
func verifyTopConsistency(sortedRankings, top []Entry) error {
	if len(top) == 0 {
		return fmt.Errorf("empty top list")
	}

	// Check if the first top entry matches the best ranked site
	bestRanking := sortedRankings[0]
	bestTop := top[0]

	if bestRanking.SiteID != bestTop.SiteID {
		return fmt.Errorf("top entry (%s) does not match best ranked site (%s)",
			bestTop.SiteID, bestRanking.SiteID)
	}

	if bestRanking.AEPMWh != bestTop.AEPMWh {
		return fmt.Errorf("top entry AEP (%.3f) does not match best ranked AEP (%.3f)",
			bestTop.AEPMWh, bestRanking.AEPMWh)
	}

	// Check if the top list is properly sorted
	for i := 1; i < len(top); i++ {
		if top[i].AEPMWh > top[i-1].AEPMWh {
			return fmt.Errorf("top list not properly sorted: entry %d has higher AEP than entry %d",
				i, i-1)
		}
	}

	// Rank numbers must be contiguous from 1
	for i, entry := range top {
		if entry.Rank != i+1 {
			return fmt.Errorf("top entry %d carries rank %d", i, entry.Rank)
		}
	}

	return nil
}

// displayBestSites shows the best sites from rankings and the top list.
func displayBestSites(sortedRankings, top []Entry, verbose bool) {
	topN := 10
	if len(sortedRankings) < topN {
		topN = len(sortedRankings)
	}

	log.Printf("Best %d sites from rankings:", topN)
	for i := 0; i < topN; i++ {
		entry := sortedRankings[i]
		log.Printf("   %d. %s - AEP: %.1f MWh (hub %gm, %s)",
			i+1, entry.SiteID, entry.AEPMWh, entry.HubHeight, entry.CurveName)
	}

	if len(top) > 0 {
		topListN := topN
		if len(top) < topListN {
			topListN = len(top)
		}

		log.Printf("Best %d sites from top list:", topListN)
		for i := 0; i < topListN; i++ {
			entry := top[i]
			log.Printf("   %d. %s - AEP: %.1f MWh", entry.Rank, entry.SiteID, entry.AEPMWh)
		}
	}

	if verbose {
		// Show some statistics
		if len(sortedRankings) > 0 {
			avgAEP := calculateAverageAEP(sortedRankings)
			maxAEP := sortedRankings[0].AEPMWh
			minAEP := sortedRankings[len(sortedRankings)-1].AEPMWh

			log.Printf(`AEP statistics:
   Average: %.1f MWh
   Maximum: %.1f MWh
   Minimum: %.1f MWh
`, avgAEP, maxAEP, minAEP)
		}
	}
}

// calculateAverageAEP calculates the average AEP from rankings.
func calculateAverageAEP(rankings []Entry) float64 {
	if len(rankings) == 0 {
		return 0
	}

	sum := 0.0
	for _, entry := range rankings {
		sum += entry.AEPMWh
	}

	return sum / float64(len(rankings))
}

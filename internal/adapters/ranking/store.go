// Package ranking keeps the best screened AEP per site and serves ranked
// queries over them.
package ranking

import (
	"context"

	"github.com/kselvik/anemos/internal/domain/model"
	"github.com/kselvik/anemos/internal/domain/types"
)

// Store provides read/write access to the site ranking state. "Best"
// means the highest AEP seen across all screenings of a site, regardless
// of turbine configuration.
type Store interface {
	// UpdateBest records result if it improves on the site's stored best.
	// Returns true when the store changed.
	UpdateBest(ctx context.Context, result model.SiteAEP) (bool, error)

	// Rank returns the current rank entry for a site.
	// Returns ErrNotFound if the site has never been screened.
	Rank(ctx context.Context, siteID string) (types.Entry, error)

	// TopN returns the top-N sites ordered by AEP descending.
	TopN(ctx context.Context, n int) ([]types.Entry, error)

	// Count returns the number of sites tracked.
	Count(ctx context.Context) int
}

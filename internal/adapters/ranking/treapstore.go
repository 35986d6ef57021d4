package ranking

import (
	"context"
	"math"
	"sync"
	"sync/atomic"
	"time"

	"github.com/kselvik/anemos/internal/domain/model"
	"github.com/kselvik/anemos/internal/domain/types"
	"github.com/kselvik/anemos/pkg/metrics"
)

// Treap-based, in-memory Store implementation.
//
// Ordering: AEP DESC, then site ID ASC. The comparator treats "less" as
// "ranks earlier", so an in-order traversal yields sites from best to
// worst deterministically.

// aepScale gives micro-MWh resolution for the fixed-point ordering key.
// AEP magnitudes are physically bounded (single turbine, single year), so
// this never approaches the int64 range.
const aepScale = 1_000_000

type aepFP int64

func toFixedPoint(x float64) aepFP {
	if math.IsNaN(x) {
		return 0
	}
	if math.IsInf(x, 1) {
		return aepFP(math.MaxInt64)
	}
	if math.IsInf(x, -1) {
		return aepFP(math.MinInt64)
	}
	return aepFP(math.Round(x * aepScale))
}

func toFloat(x aepFP) float64 {
	return float64(x) / aepScale
}

// record stores the fixed-point AEP plus the configuration that achieved
// a site's best.
type record struct {
	aep       aepFP
	curveName string
	hubHeight float64
	year      int
}

func (r record) entry(siteID string) types.Entry {
	return types.Entry{
		SiteID:    siteID,
		AEPMWh:    toFloat(r.aep),
		CurveName: r.curveName,
		HubHeight: r.hubHeight,
		Year:      r.year,
	}
}

// Snapshot is an immutable view of the ranking published periodically for
// lock-free reads.
type Snapshot struct {
	RankBySite map[string]int
	AEPBySite  map[string]float64
	TopCache   []types.Entry // sorted best-first, bounded by topCacheSize
}

// treap node
type node struct {
	id    string
	aep   aepFP
	prio  uint64
	left  *node
	right *node
	size  int
}

func nsize(n *node) int {
	if n == nil {
		return 0
	}
	return n.size
}

func fix(n *node) {
	if n != nil {
		n.size = 1 + nsize(n.left) + nsize(n.right)
	}
}

// less reports whether (aAEP, aID) ranks earlier than (bAEP, bID).
func less(aAEP aepFP, aID string, bAEP aepFP, bID string) bool {
	if aAEP != bAEP {
		return aAEP > bAEP // higher AEP ranks earlier
	}
	return aID < bID // tie-breaker by site id asc
}

func rotateRight(y *node) *node {
	x := y.left
	t2 := x.right
	x.right = y
	y.left = t2
	fix(y)
	fix(x)
	return x
}

func rotateLeft(x *node) *node {
	y := x.right
	t2 := y.left
	y.left = x
	x.right = t2
	fix(x)
	fix(y)
	return y
}

// aepToPriority keeps higher-AEP nodes nearer the root, which makes TopN
// traversals touch mostly relevant subtrees.
func aepToPriority(aep aepFP) uint64 {
	const offset = uint64(1) << 63
	return uint64(aep) + offset
}

func insert(n *node, id string, aep aepFP) *node {
	if n == nil {
		return &node{id: id, aep: aep, prio: aepToPriority(aep), size: 1}
	}
	if less(aep, id, n.aep, n.id) {
		n.left = insert(n.left, id, aep)
		if n.left.prio > n.prio {
			n = rotateRight(n)
		}
	} else {
		n.right = insert(n.right, id, aep)
		if n.right.prio > n.prio {
			n = rotateLeft(n)
		}
	}
	fix(n)
	return n
}

func deleteNode(n *node, id string, aep aepFP) *node {
	if n == nil {
		return nil
	}
	if aep == n.aep && id == n.id {
		if n.left == nil {
			return n.right
		}
		if n.right == nil {
			return n.left
		}
		if n.left.prio > n.right.prio {
			n = rotateRight(n)
			n.right = deleteNode(n.right, id, aep)
		} else {
			n = rotateLeft(n)
			n.left = deleteNode(n.left, id, aep)
		}
	} else if less(aep, id, n.aep, n.id) {
		n.left = deleteNode(n.left, id, aep)
	} else {
		n.right = deleteNode(n.right, id, aep)
	}
	fix(n)
	return n
}

// collectTopN appends up to limit entries in rank order (best first).
func collectTopN(n *node, limit int, records map[string]record, out *[]types.Entry) {
	if n == nil || len(*out) >= limit {
		return
	}
	collectTopN(n.left, limit, records, out)
	if len(*out) < limit {
		if rec, ok := records[n.id]; ok {
			*out = append(*out, rec.entry(n.id))
		}
	}
	if len(*out) < limit {
		collectTopN(n.right, limit, records, out)
	}
}

// TreapStore is the in-memory Store implementation used by the service.
type TreapStore struct {
	mu               sync.RWMutex
	root             *node
	byID             map[string]record
	snapshotInterval time.Duration
	topCacheSize     int

	snapshot atomic.Pointer[Snapshot]

	wg       sync.WaitGroup
	stopChan chan struct{}
}

// NewTreapStore constructs a treap store and starts its background
// snapshot publisher. Close stops the publisher.
func NewTreapStore(ctx context.Context, opts ...Option) *TreapStore {
	s := &TreapStore{
		snapshotInterval: time.Second,
		topCacheSize:     500,
		byID:             make(map[string]record),
	}
	for _, opt := range opts {
		opt(s)
	}

	s.stopChan = make(chan struct{})
	s.startPeriodicSnapshots(ctx)
	return s
}

func (s *TreapStore) startPeriodicSnapshots(ctx context.Context) {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		ticker := time.NewTicker(s.snapshotInterval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-s.stopChan:
				return
			case <-ticker.C:
				s.publishSnapshot()
			}
		}
	}()
}

func (s *TreapStore) publishSnapshot() {
	start := time.Now()

	s.mu.RLock()
	topCache := make([]types.Entry, 0, s.topCacheSize)
	collectTopN(s.root, s.topCacheSize, s.byID, &topCache)

	rankBySite := make(map[string]int, len(s.byID))
	aepBySite := make(map[string]float64, len(s.byID))
	all := make([]types.Entry, 0, len(s.byID))
	collectAll(s.root, s.byID, &all)
	assignRanksWithTies(all)
	for _, e := range all {
		rankBySite[e.SiteID] = e.Rank
		aepBySite[e.SiteID] = e.AEPMWh
	}
	s.mu.RUnlock()

	for i := range topCache {
		if rank, ok := rankBySite[topCache[i].SiteID]; ok {
			topCache[i].Rank = rank
		}
	}
	s.snapshot.Store(&Snapshot{
		RankBySite: rankBySite,
		AEPBySite:  aepBySite,
		TopCache:   topCache,
	})
	metrics.RecordRankingSnapshotRebuild(float64(time.Since(start).Milliseconds()))
}

// CurrentSnapshot returns the last published snapshot, or nil before the
// first publication.
func (s *TreapStore) CurrentSnapshot() *Snapshot {
	return s.snapshot.Load()
}

// Close gracefully shuts down the snapshot goroutine.
func (s *TreapStore) Close() error {
	select {
	case <-s.stopChan:
	default:
		close(s.stopChan)
	}
	s.wg.Wait()
	return nil
}

// UpdateBest implements Store.UpdateBest in O(log n) expected time.
func (s *TreapStore) UpdateBest(ctx context.Context, result model.SiteAEP) (bool, error) {
	start := time.Now()
	defer func() {
		metrics.RecordRankingUpdateLatency(float64(time.Since(start).Milliseconds()))
	}()

	ns := toFixedPoint(result.AEPMWh)

	s.mu.Lock()
	if old, ok := s.byID[result.SiteID]; ok {
		if ns <= old.aep { // not an improvement
			s.mu.Unlock()
			return false, nil
		}
		s.root = deleteNode(s.root, result.SiteID, old.aep)
	}
	s.byID[result.SiteID] = record{
		aep:       ns,
		curveName: result.CurveName,
		hubHeight: result.HubHeight,
		year:      result.Year,
	}
	s.root = insert(s.root, result.SiteID, ns)
	count := len(s.byID)
	s.mu.Unlock()

	metrics.UpdateRankedSites(count)
	return true, nil
}

// Rank returns the current rank entry for a site in O(log n).
func (s *TreapStore) Rank(ctx context.Context, siteID string) (types.Entry, error) {
	start := time.Now()
	defer func() {
		metrics.RecordRankingQueryLatency(float64(time.Since(start).Milliseconds()))
	}()

	s.mu.RLock()
	defer s.mu.RUnlock()

	if _, ok := s.byID[siteID]; !ok {
		metrics.RecordErrorByComponent("ranking", "not_found")
		return types.Entry{}, ErrNotFound
	}

	// Ranks must agree with TopN's tie handling, so compute them over the
	// full in-order traversal rather than a positional index.
	all := make([]types.Entry, 0, len(s.byID))
	collectAll(s.root, s.byID, &all)
	assignRanksWithTies(all)
	for _, e := range all {
		if e.SiteID == siteID {
			return e, nil
		}
	}
	return types.Entry{}, ErrNotFound
}

// TopN returns the top N sites ordered by AEP descending.
func (s *TreapStore) TopN(ctx context.Context, n int) ([]types.Entry, error) {
	start := time.Now()
	defer func() {
		metrics.RecordRankingQueryLatency(float64(time.Since(start).Milliseconds()))
	}()

	if n < 1 {
		metrics.RecordErrorByComponent("ranking", "invalid_limit")
		return nil, ErrInvalidLimit
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]types.Entry, 0, n)
	collectTopN(s.root, n, s.byID, &out)
	assignRanksWithTies(out)
	return out, nil
}

// Count returns the total number of tracked sites.
func (s *TreapStore) Count(ctx context.Context) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.byID)
}

// collectAll appends all entries in rank order (best first).
func collectAll(n *node, byID map[string]record, out *[]types.Entry) {
	if n == nil {
		return
	}
	collectAll(n.left, byID, out)
	if rec, ok := byID[n.id]; ok {
		*out = append(*out, rec.entry(n.id))
	}
	collectAll(n.right, byID, out)
}

// assignRanksWithTies assigns consecutive ranks to entries already in
// best-first order; entries with equal AEP share a rank.
func assignRanksWithTies(entries []types.Entry) {
	currentRank := 1
	for i := 0; i < len(entries); i++ {
		entries[i].Rank = currentRank
		same := 1
		for j := i + 1; j < len(entries) && entries[j].AEPMWh == entries[i].AEPMWh; j++ {
			entries[j].Rank = currentRank
			same++
		}
		currentRank++
		i += same - 1
	}
}

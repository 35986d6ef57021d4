package ranking

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/kselvik/anemos/internal/domain/model"
)

func result(siteID string, aep float64) model.SiteAEP {
	return model.SiteAEP{
		SiteID:     siteID,
		AEPMWh:     aep,
		CurveName:  "nrel-5mw",
		HubHeight:  120,
		Year:       2019,
		ComputedAt: time.Now(),
	}
}

func TestTreapStoreUpdateBest(t *testing.T) {
	ctx := context.Background()

	Convey("Given a fresh treap store", t, func() {
		s := NewTreapStore(ctx)
		defer s.Close()

		Convey("When a site's first result arrives", func() {
			updated, err := s.UpdateBest(ctx, result("site-a", 4200))

			Convey("Then it is recorded", func() {
				So(err, ShouldBeNil)
				So(updated, ShouldBeTrue)
				So(s.Count(ctx), ShouldEqual, 1)
			})
		})

		Convey("When a better screening for the same site arrives", func() {
			_, _ = s.UpdateBest(ctx, result("site-a", 4200))
			updated, err := s.UpdateBest(ctx, result("site-a", 5000))

			Convey("Then the best improves without duplicating the site", func() {
				So(err, ShouldBeNil)
				So(updated, ShouldBeTrue)
				So(s.Count(ctx), ShouldEqual, 1)

				e, err := s.Rank(ctx, "site-a")
				So(err, ShouldBeNil)
				So(e.AEPMWh, ShouldAlmostEqual, 5000.0, 1e-6)
			})
		})

		Convey("When a worse or equal screening arrives", func() {
			_, _ = s.UpdateBest(ctx, result("site-a", 4200))
			worse, err1 := s.UpdateBest(ctx, result("site-a", 3000))
			equal, err2 := s.UpdateBest(ctx, result("site-a", 4200))

			Convey("Then the stored best is untouched", func() {
				So(err1, ShouldBeNil)
				So(err2, ShouldBeNil)
				So(worse, ShouldBeFalse)
				So(equal, ShouldBeFalse)

				e, _ := s.Rank(ctx, "site-a")
				So(e.AEPMWh, ShouldAlmostEqual, 4200.0, 1e-6)
			})
		})

		Convey("When an improvement carries a new configuration", func() {
			_, _ = s.UpdateBest(ctx, result("site-a", 4200))
			better := result("site-a", 6000)
			better.CurveName = "big-turbine"
			better.HubHeight = 150
			better.Year = 2020
			_, _ = s.UpdateBest(ctx, better)

			Convey("Then the entry reports the winning configuration", func() {
				e, err := s.Rank(ctx, "site-a")
				So(err, ShouldBeNil)
				So(e.CurveName, ShouldEqual, "big-turbine")
				So(e.HubHeight, ShouldEqual, 150.0)
				So(e.Year, ShouldEqual, 2020)
			})
		})
	})
}

func TestTreapStoreRankAndTopN(t *testing.T) {
	ctx := context.Background()

	Convey("Given a store with several screened sites", t, func() {
		s := NewTreapStore(ctx)
		defer s.Close()

		_, _ = s.UpdateBest(ctx, result("delta", 1000))
		_, _ = s.UpdateBest(ctx, result("alpha", 5000))
		_, _ = s.UpdateBest(ctx, result("charlie", 3000))
		_, _ = s.UpdateBest(ctx, result("bravo", 5000)) // tie with alpha

		Convey("When asking for the top sites", func() {
			top, err := s.TopN(ctx, 3)

			Convey("Then they come best-first with id tie-breaks ascending", func() {
				So(err, ShouldBeNil)
				So(top, ShouldHaveLength, 3)
				So(top[0].SiteID, ShouldEqual, "alpha")
				So(top[1].SiteID, ShouldEqual, "bravo")
				So(top[2].SiteID, ShouldEqual, "charlie")
			})

			Convey("Then tied sites share a rank", func() {
				So(err, ShouldBeNil)
				So(top[0].Rank, ShouldEqual, 1)
				So(top[1].Rank, ShouldEqual, 1)
				So(top[2].Rank, ShouldEqual, 2)
			})
		})

		Convey("When asking for more than exist", func() {
			top, err := s.TopN(ctx, 100)

			Convey("Then all entries are returned", func() {
				So(err, ShouldBeNil)
				So(top, ShouldHaveLength, 4)
				So(top[3].SiteID, ShouldEqual, "delta")
			})
		})

		Convey("When the limit is invalid", func() {
			_, err := s.TopN(ctx, 0)

			Convey("Then it fails with ErrInvalidLimit", func() {
				So(errors.Is(err, ErrInvalidLimit), ShouldBeTrue)
			})
		})

		Convey("When ranking a single site", func() {
			e, err := s.Rank(ctx, "charlie")

			Convey("Then the rank agrees with TopN's tie handling", func() {
				So(err, ShouldBeNil)
				So(e.Rank, ShouldEqual, 2)
				So(e.AEPMWh, ShouldAlmostEqual, 3000.0, 1e-6)
			})
		})

		Convey("When ranking an unknown site", func() {
			_, err := s.Rank(ctx, "nowhere")

			Convey("Then it fails with ErrNotFound", func() {
				So(errors.Is(err, ErrNotFound), ShouldBeTrue)
			})
		})
	})
}

func TestTreapStoreSnapshot(t *testing.T) {
	ctx := context.Background()

	Convey("Given a store with a short snapshot interval", t, func() {
		s := NewTreapStore(ctx, WithSnapshotInterval(10*time.Millisecond), WithTopCacheSize(2))
		defer s.Close()

		_, _ = s.UpdateBest(ctx, result("site-a", 100))
		_, _ = s.UpdateBest(ctx, result("site-b", 200))
		_, _ = s.UpdateBest(ctx, result("site-c", 300))

		Convey("When waiting past the interval", func() {
			time.Sleep(50 * time.Millisecond)
			snap := s.CurrentSnapshot()

			Convey("Then a bounded, ranked snapshot is published", func() {
				So(snap, ShouldNotBeNil)
				So(snap.TopCache, ShouldHaveLength, 2)
				So(snap.TopCache[0].SiteID, ShouldEqual, "site-c")
				So(snap.RankBySite["site-a"], ShouldEqual, 3)
				So(snap.AEPBySite["site-b"], ShouldAlmostEqual, 200.0, 1e-6)
			})
		})
	})
}

func TestTreapStoreConcurrency(t *testing.T) {
	ctx := context.Background()

	Convey("Given concurrent writers and readers", t, func() {
		s := NewTreapStore(ctx)
		defer s.Close()

		const writers = 8
		const perWriter = 200

		var wg sync.WaitGroup
		for w := 0; w < writers; w++ {
			wg.Add(1)
			go func(w int) {
				defer wg.Done()
				for i := 0; i < perWriter; i++ {
					site := fmt.Sprintf("site-%d-%d", w, i)
					_, _ = s.UpdateBest(ctx, result(site, float64(w*perWriter+i)))
					_, _ = s.TopN(ctx, 10)
				}
			}(w)
		}
		wg.Wait()

		Convey("Then every site is tracked exactly once", func() {
			So(s.Count(ctx), ShouldEqual, writers*perWriter)

			top, err := s.TopN(ctx, 1)
			So(err, ShouldBeNil)
			So(top[0].AEPMWh, ShouldAlmostEqual, float64(writers*perWriter-1), 1e-6)
		})
	})
}

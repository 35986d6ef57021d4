package warehouse

import (
	"context"
	"testing"
	"time"

	"github.com/smartystreets/goconvey/convey"

	"github.com/kselvik/anemos/internal/domain/model"
	"github.com/kselvik/anemos/pkg/logger"
)

func init() {
	if err := logger.Init(); err != nil {
		panic(err)
	}
}

func TestAEPBatch(t *testing.T) {
	convey.Convey("Given an empty batch", t, func() {
		batch := newAEPBatch()

		convey.Convey("Then it has no rows", func() {
			convey.So(batch.Len(), convey.ShouldEqual, 0)
		})

		convey.Convey("When rows are added", func() {
			now := time.Now().UTC().Truncate(time.Second)
			batch.Add("run-1", model.SiteAEP{
				SiteID:     "site-a",
				AEPMWh:     8421.5,
				CurveName:  "nrel-5mw",
				HubHeight:  120,
				Year:       2020,
				ComputedAt: now,
			})
			batch.Add("run-1", model.SiteAEP{
				SiteID:     "site-b",
				AEPMWh:     7310.0,
				CurveName:  "nrel-5mw",
				HubHeight:  120,
				Year:       2020,
				ComputedAt: now,
			})

			convey.Convey("Then every column carries one value per row", func() {
				convey.So(batch.Len(), convey.ShouldEqual, 2)
				for _, col := range batch.Input() {
					convey.So(col.Data.Rows(), convey.ShouldEqual, 2)
				}
			})

			convey.Convey("And Reset empties all columns", func() {
				batch.Reset()
				convey.So(batch.Len(), convey.ShouldEqual, 0)
				for _, col := range batch.Input() {
					convey.So(col.Data.Rows(), convey.ShouldEqual, 0)
				}
			})
		})

		convey.Convey("Then the input names match the results table", func() {
			names := make([]string, 0, len(batch.Input()))
			for _, col := range batch.Input() {
				names = append(names, col.Name)
			}
			convey.So(names, convey.ShouldResemble, []string{
				"run_id", "site_id", "aep_mwh", "curve_name",
				"hub_height_m", "year", "computed_at",
			})
		})
	})
}

func TestExporterTableNaming(t *testing.T) {
	convey.Convey("Given an exporter configuration", t, func() {
		e := &Exporter{database: "wind", prefix: "screening"}

		convey.Convey("Then the table name combines database and prefix", func() {
			convey.So(e.tableName(), convey.ShouldEqual, "wind.screening_site_aep")
		})

		convey.Convey("Then the DDL targets that table", func() {
			convey.So(e.tableDDL(), convey.ShouldContainSubstring, "CREATE TABLE IF NOT EXISTS wind.screening_site_aep")
			convey.So(e.tableDDL(), convey.ShouldContainSubstring, "ENGINE = MergeTree")
		})
	})
}

func TestExporterClosed(t *testing.T) {
	convey.Convey("Given an exporter without a connection", t, func() {
		e := &Exporter{database: "wind", prefix: "screening", logger: logger.Get().Named("warehouse")}

		convey.Convey("Then exporting fails with ErrNotConnected", func() {
			err := e.Export(context.Background(), []model.SiteAEP{{SiteID: "s", AEPMWh: 1}})
			convey.So(err, convey.ShouldEqual, ErrNotConnected)
		})

		convey.Convey("Then exporting nothing fails with ErrEmptyBatch", func() {
			err := e.Export(context.Background(), nil)
			convey.So(err, convey.ShouldEqual, ErrEmptyBatch)
		})

		convey.Convey("Then Close is a no-op", func() {
			convey.So(e.Close(), convey.ShouldBeNil)
		})
	})
}

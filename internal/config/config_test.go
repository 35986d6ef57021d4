package config_test

import (
	"errors"
	"runtime"
	"testing"

	"github.com/kselvik/anemos/internal/config"
	"github.com/smartystreets/goconvey/convey"
)

func TestConfig_New(t *testing.T) {
	convey.Convey("Given a new config with default options", t, func() {
		cfg := config.New()

		convey.Convey("Then it should have sensible defaults", func() {
			convey.So(cfg.Addr, convey.ShouldEqual, ":9080")
			convey.So(cfg.QueueSize, convey.ShouldEqual, 100_000)
			convey.So(cfg.WorkerCount, convey.ShouldEqual, runtime.NumCPU()*4)
			convey.So(cfg.DedupeSize, convey.ShouldEqual, 500_000)
			convey.So(cfg.ShearAlpha, convey.ShouldEqual, 0.14)
			convey.So(cfg.StepHours, convey.ShouldEqual, 1.0)
			convey.So(cfg.MaxTopLimit, convey.ShouldEqual, 100)
			convey.So(cfg.HistogramBins, convey.ShouldEqual, 30)
			convey.So(cfg.RoseSectors, convey.ShouldEqual, 16)
		})

		convey.Convey("Then the warehouse is disabled by default", func() {
			convey.So(cfg.WarehouseEnabled(), convey.ShouldBeFalse)
		})

		convey.Convey("Then defaults pass validation", func() {
			convey.So(cfg.Validate(), convey.ShouldBeNil)
		})
	})
}

func TestConfig_Validate(t *testing.T) {
	convey.Convey("Given configs with out-of-range fields", t, func() {
		cases := []struct {
			name   string
			mutate func(*config.Config)
		}{
			{"empty addr", func(c *config.Config) { c.Addr = "" }},
			{"zero shear alpha", func(c *config.Config) { c.ShearAlpha = 0 }},
			{"shear alpha above one", func(c *config.Config) { c.ShearAlpha = 1.5 }},
			{"non-positive step hours", func(c *config.Config) { c.StepHours = 0 }},
			{"zero top limit", func(c *config.Config) { c.MaxTopLimit = 0 }},
			{"zero histogram bins", func(c *config.Config) { c.HistogramBins = 0 }},
			{"too few rose sectors", func(c *config.Config) { c.RoseSectors = 3 }},
		}

		for _, tc := range cases {
			convey.Convey("When validating a config with "+tc.name, func() {
				cfg := config.New()
				tc.mutate(cfg)
				err := cfg.Validate()

				convey.Convey("Then it should fail with ErrInvalidConfig", func() {
					convey.So(err, convey.ShouldNotBeNil)
					convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
				})
			})
		}
	})
}

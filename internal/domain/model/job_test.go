package model_test

import (
	"errors"
	"testing"

	model "github.com/kselvik/anemos/internal/domain/model"
	"github.com/smartystreets/goconvey/convey"
)

func validJob() model.Job {
	return model.Job{
		JobID:     "job-1",
		SiteID:    "site-1",
		Lat:       55.5,
		Lon:       8.25,
		HubHeight: 120,
		CurveName: "nrel-5mw",
		Year:      2019,
	}
}

func TestJobValidate(t *testing.T) {
	convey.Convey("Given a screening job", t, func() {
		convey.Convey("When all fields are set sensibly", func() {
			convey.So(validJob().Validate(), convey.ShouldBeNil)
		})

		convey.Convey("When the job id is missing", func() {
			j := validJob()
			j.JobID = ""
			convey.So(errors.Is(j.Validate(), model.ErrMissingJobID), convey.ShouldBeTrue)
		})

		convey.Convey("When the site id is missing", func() {
			j := validJob()
			j.SiteID = ""
			convey.So(errors.Is(j.Validate(), model.ErrMissingSiteID), convey.ShouldBeTrue)
		})

		convey.Convey("When the latitude is out of range", func() {
			j := validJob()
			j.Lat = 91
			convey.So(errors.Is(j.Validate(), model.ErrBadCoordinate), convey.ShouldBeTrue)
		})

		convey.Convey("When the longitude is out of range", func() {
			j := validJob()
			j.Lon = -181
			convey.So(errors.Is(j.Validate(), model.ErrBadCoordinate), convey.ShouldBeTrue)
		})

		convey.Convey("When the longitude uses the 0..360 convention", func() {
			j := validJob()
			j.Lon = 351.5
			convey.So(j.Validate(), convey.ShouldBeNil)
		})

		convey.Convey("When the hub height is not positive", func() {
			j := validJob()
			j.HubHeight = 0
			convey.So(errors.Is(j.Validate(), model.ErrBadHubHeight), convey.ShouldBeTrue)
		})

		convey.Convey("When the curve name is missing", func() {
			j := validJob()
			j.CurveName = ""
			convey.So(errors.Is(j.Validate(), model.ErrMissingCurve), convey.ShouldBeTrue)
		})

		convey.Convey("When the year is implausible", func() {
			j := validJob()
			j.Year = 1492
			convey.So(errors.Is(j.Validate(), model.ErrBadYear), convey.ShouldBeTrue)
		})
	})
}

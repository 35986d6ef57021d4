package service_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	service "github.com/kselvik/anemos/internal/app"
	"github.com/kselvik/anemos/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

func TestServiceIntegration(t *testing.T) {
	Convey("Given a service with full integration", t, func() {
		svc := newTestService(t)
		defer svc.Stop()

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		Convey("When processing screening jobs end-to-end", func() {
			err := svc.Start(ctx)
			So(err, ShouldBeNil)

			// Give service time to start
			time.Sleep(100 * time.Millisecond)

			Convey("And enqueueing jobs for several sites", func() {
				jobs := []model.Job{
					testScreeningJob("job-1", "site-alpha"),
					testScreeningJob("job-2", "site-bravo"),
					testScreeningJob("job-3", "site-charlie"),
				}
				// Give each site a different hub height so the AEPs differ.
				jobs[0].HubHeight = 140
				jobs[1].HubHeight = 100
				jobs[2].HubHeight = 80

				for _, job := range jobs {
					So(svc.SeenAndRecord(ctx, job.JobID), ShouldBeFalse)
					So(svc.Enqueue(ctx, job), ShouldBeTrue)
				}

				// Give workers time to process
				time.Sleep(500 * time.Millisecond)

				Convey("Then the ranking should hold all sites", func() {
					entries, err := svc.TopN(ctx, 10)
					So(err, ShouldBeNil)
					So(len(entries), ShouldEqual, 3)

					// Highest AEP first
					for i := 1; i < len(entries); i++ {
						So(entries[i-1].AEPMWh, ShouldBeGreaterThanOrEqualTo, entries[i].AEPMWh)
					}
				})

				Convey("And the tallest hub should rank first", func() {
					entries, err := svc.TopN(ctx, 1)
					So(err, ShouldBeNil)
					So(len(entries), ShouldEqual, 1)
					So(entries[0].SiteID, ShouldEqual, "site-alpha")
					So(entries[0].HubHeight, ShouldEqual, 140.0)
				})

				Convey("And individual ranks should be available", func() {
					entry, err := svc.Rank(ctx, "site-alpha")
					So(err, ShouldBeNil)
					So(entry.SiteID, ShouldEqual, "site-alpha")
					So(entry.Rank, ShouldEqual, 1)
					So(entry.AEPMWh, ShouldBeGreaterThan, 0)
				})

				Convey("And resubmitting a job id should be flagged as duplicate", func() {
					So(svc.SeenAndRecord(ctx, "job-1"), ShouldBeTrue)
				})

				Convey("And a worse rescreen should not displace the best", func() {
					rescreen := testScreeningJob("job-1-rescreen", "site-alpha")
					rescreen.HubHeight = 60 // much lower hub than the recorded best
					So(svc.Enqueue(ctx, rescreen), ShouldBeTrue)
					time.Sleep(300 * time.Millisecond)

					entry, err := svc.Rank(ctx, "site-alpha")
					So(err, ShouldBeNil)
					So(entry.HubHeight, ShouldEqual, 140.0)
				})
			})
		})

		Convey("When handling service lifecycle", func() {
			Convey("And starting and stopping multiple times", func() {
				err := svc.Start(ctx)
				So(err, ShouldBeNil)

				time.Sleep(100 * time.Millisecond)

				svc.Stop()
				time.Sleep(100 * time.Millisecond)

				stats := svc.GetStats()
				So(stats["started"], ShouldEqual, false)
			})
		})
	})
}

func TestServiceConcurrency(t *testing.T) {
	Convey("Given a service with concurrent operations", t, func() {
		svc := newTestService(t,
			service.WithWorkerCount(4),
			service.WithQueueSize(2000),
			service.WithDedupeSize(1000),
		)
		defer svc.Stop()

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		err := svc.Start(ctx)
		So(err, ShouldBeNil)

		// Give service time to start
		time.Sleep(100 * time.Millisecond)

		Convey("When multiple goroutines enqueue jobs concurrently", func() {
			numGoroutines := 10
			jobsPerGoroutine := 20
			done := make(chan bool, numGoroutines)

			for i := 0; i < numGoroutines; i++ {
				go func(producerID int) {
					for j := 0; j < jobsPerGoroutine; j++ {
						job := testScreeningJob(
							fmt.Sprintf("concurrent-job-%d-%d", producerID, j),
							fmt.Sprintf("site-%d-%d", producerID, j),
						)
						svc.Enqueue(ctx, job)
					}
					done <- true
				}(i)
			}

			for i := 0; i < numGoroutines; i++ {
				<-done
			}

			// Give workers time to process
			time.Sleep(2 * time.Second)

			Convey("Then all jobs should be processed", func() {
				stats := svc.GetStats()
				So(stats["started"], ShouldEqual, true)

				entries, err := svc.TopN(ctx, 100)
				So(err, ShouldBeNil)
				So(len(entries), ShouldBeGreaterThan, 0)
			})
		})

		Convey("When multiple goroutines query the ranking concurrently", func() {
			So(svc.Enqueue(ctx, testScreeningJob("seed-job", "seed-site")), ShouldBeTrue)
			time.Sleep(300 * time.Millisecond)

			numGoroutines := 20
			done := make(chan bool, numGoroutines)
			errs := make(chan error, numGoroutines*20)

			for i := 0; i < numGoroutines; i++ {
				go func() {
					for j := 0; j < 10; j++ {
						entries, err := svc.TopN(ctx, 10)
						if err != nil {
							errs <- err
							continue
						}
						if len(entries) > 0 {
							if _, err := svc.Rank(ctx, entries[0].SiteID); err != nil {
								errs <- err
							}
						}
					}
					done <- true
				}()
			}

			for i := 0; i < numGoroutines; i++ {
				<-done
			}

			Convey("Then all queries should succeed", func() {
				select {
				case err := <-errs:
					So(err, ShouldBeNil)
				default:
					So(true, ShouldBeTrue)
				}
			})
		})
	})
}

func TestServiceErrorHandling(t *testing.T) {
	Convey("Given a service with error conditions", t, func() {
		svc := newTestService(t,
			service.WithWorkerCount(1),
			service.WithQueueSize(10), // Small queue to test backpressure
			service.WithDedupeSize(5),
		)
		defer svc.Stop()

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		err := svc.Start(ctx)
		So(err, ShouldBeNil)

		// Give service time to start
		time.Sleep(100 * time.Millisecond)

		Convey("When enqueueing jobs beyond queue capacity", func() {
			successCount := 0
			for i := 0; i < 200; i++ {
				job := testScreeningJob(
					fmt.Sprintf("backpressure-job-%d", i),
					fmt.Sprintf("site-%d", i),
				)
				if svc.Enqueue(ctx, job) {
					successCount++
				}
			}

			Convey("Then some jobs should be rejected due to backpressure", func() {
				So(successCount, ShouldBeLessThan, 200)
				So(successCount, ShouldBeGreaterThan, 0)
			})
		})

		Convey("When querying non-existent sites", func() {
			entry, err := svc.Rank(ctx, "non-existent-site")

			Convey("Then it should return an error", func() {
				So(err, ShouldNotBeNil)
				So(entry.SiteID, ShouldEqual, "")
			})
		})

		Convey("When querying with invalid limits", func() {
			entries, err := svc.TopN(ctx, 0)

			Convey("Then it should return an error", func() {
				So(err, ShouldNotBeNil)
				So(entries, ShouldBeNil)
			})
		})

		Convey("When querying with negative limits", func() {
			entries, err := svc.TopN(ctx, -1)

			Convey("Then it should return an error", func() {
				So(err, ShouldNotBeNil)
				So(entries, ShouldBeNil)
			})
		})
	})
}

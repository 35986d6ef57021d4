package dedupe_test

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"testing"

	dedupe "github.com/kselvik/anemos/internal/domain/dedupe"
	. "github.com/smartystreets/goconvey/convey"
)

func TestInMemoryDeduper(t *testing.T) {
	Convey("Given a new InMemoryDeduper", t, func() {
		Convey("When creating a deduper with default options", func() {
			d := dedupe.NewInMemoryDeduper()

			Convey("Then it should have default configuration", func() {
				So(d, ShouldNotBeNil)
				So(d.Size(), ShouldEqual, 0)
			})
		})

		Convey("When creating a deduper with custom options", func() {
			d := dedupe.NewInMemoryDeduper(
				dedupe.WithMaxSize(100),
			)

			Convey("Then it should have custom configuration", func() {
				So(d, ShouldNotBeNil)
				So(d.Size(), ShouldEqual, 0)
			})
		})

		Convey("When recording jobs", func() {
			d := dedupe.NewInMemoryDeduper()

			Convey("And the job is new", func() {
				seen := d.SeenAndRecord(context.Background(), "job-1")

				Convey("Then it should return false and record the job", func() {
					So(seen, ShouldBeFalse)
					So(d.Size(), ShouldEqual, 1)
				})
			})

			Convey("And the job was already seen", func() {
				// First time
				d.SeenAndRecord(context.Background(), "job-1")

				// Second time
				seen := d.SeenAndRecord(context.Background(), "job-1")

				Convey("Then it should return true", func() {
					So(seen, ShouldBeTrue)
					So(d.Size(), ShouldEqual, 1)
				})
			})

			Convey("And multiple jobs are recorded", func() {
				jobs := []string{"job-1", "job-2", "job-3", "job-4", "job-5"}

				for _, job := range jobs {
					seen := d.SeenAndRecord(context.Background(), job)
					So(seen, ShouldBeFalse)
				}

				Convey("Then all jobs should be recorded", func() {
					So(d.Size(), ShouldEqual, int64(len(jobs)))

					// Check that all jobs are seen
					for _, job := range jobs {
						seen := d.SeenAndRecord(context.Background(), job)
						So(seen, ShouldBeTrue)
					}
				})
			})
		})

		Convey("When unrecording jobs", func() {
			d := dedupe.NewInMemoryDeduper()

			Convey("And the job exists", func() {
				// Record the job
				d.SeenAndRecord(context.Background(), "job-1")
				So(d.Size(), ShouldEqual, 1)

				// Unrecord the job
				d.Unrecord(context.Background(), "job-1")

				Convey("Then it should be removed", func() {
					So(d.Size(), ShouldEqual, 0)

					// Should not be seen anymore
					seen := d.SeenAndRecord(context.Background(), "job-1")
					So(seen, ShouldBeFalse)
				})
			})

			Convey("And the job doesn't exist", func() {
				// Try to unrecord non-existent job
				d.Unrecord(context.Background(), "nonexistent")

				Convey("Then it should not affect the size", func() {
					So(d.Size(), ShouldEqual, 0)
				})
			})

			Convey("And multiple jobs are unrecorded", func() {
				jobs := []string{"job-1", "job-2", "job-3"}

				// Record all jobs
				for _, job := range jobs {
					d.SeenAndRecord(context.Background(), job)
				}
				So(d.Size(), ShouldEqual, int64(len(jobs)))

				// Unrecord all jobs
				for _, job := range jobs {
					d.Unrecord(context.Background(), job)
				}

				Convey("Then all jobs should be removed", func() {
					So(d.Size(), ShouldEqual, 0)

					// Check that none are seen
					for _, job := range jobs {
						seen := d.SeenAndRecord(context.Background(), job)
						So(seen, ShouldBeFalse)
					}
				})
			})
		})

		Convey("When using bounded mode with eviction", func() {
			d := dedupe.NewInMemoryDeduper(dedupe.WithMaxSize(3))

			Convey("And the deduper is at capacity", func() {
				// Fill to capacity
				jobs := []string{"job-1", "job-2", "job-3"}
				for _, job := range jobs {
					seen := d.SeenAndRecord(context.Background(), job)
					So(seen, ShouldBeFalse)
				}
				So(d.Size(), ShouldEqual, 3)

				// Add one more job
				seen := d.SeenAndRecord(context.Background(), "job-4")

				Convey("Then it should evict the oldest and add the new one", func() {
					So(seen, ShouldBeFalse)
					So(d.Size(), ShouldEqual, 3)

					// The oldest job should be evicted, so size should remain 3
					// when we try to add job-1 again
					originalSize := d.Size()
					seen1 := d.SeenAndRecord(context.Background(), "job-1")
					So(seen1, ShouldBeFalse)                // Should not be seen (was evicted)
					So(d.Size(), ShouldEqual, originalSize) // Size should not increase

					// The newer jobs should still be seen (they were not evicted)
					// Note: Since we're calling SeenAndRecord, it will record them again
					// if they were evicted, so we need to check the size instead
					seen2 := d.SeenAndRecord(context.Background(), "job-2")
					So(seen2, ShouldBeFalse)                // Will be recorded again if evicted
					So(d.Size(), ShouldEqual, originalSize) // Size should not increase

					seen3 := d.SeenAndRecord(context.Background(), "job-3")
					So(seen3, ShouldBeFalse)                // Will be recorded again if evicted
					So(d.Size(), ShouldEqual, originalSize) // Size should not increase

					seen4 := d.SeenAndRecord(context.Background(), "job-4")
					So(seen4, ShouldBeFalse)                // Will be recorded again if evicted
					So(d.Size(), ShouldEqual, originalSize) // Size should not increase
				})
			})
		})

		Convey("When using unbounded mode", func() {
			d := dedupe.NewInMemoryDeduper(dedupe.WithMaxSize(0))

			Convey("And many jobs are recorded", func() {
				const numJobs = 1000
				for i := 0; i < numJobs; i++ {
					jobID := fmt.Sprintf("job-%d", i)
					seen := d.SeenAndRecord(context.Background(), jobID)
					So(seen, ShouldBeFalse)
				}

				Convey("Then all jobs should be recorded without eviction", func() {
					So(d.Size(), ShouldEqual, int64(numJobs))

					// Check that all jobs are seen
					for i := 0; i < numJobs; i++ {
						jobID := fmt.Sprintf("job-%d", i)
						seen := d.SeenAndRecord(context.Background(), jobID)
						So(seen, ShouldBeTrue)
					}
				})
			})
		})
	})
}

func TestDedupeConcurrency(t *testing.T) {
	Convey("Given a deduper with concurrent access", t, func() {
		d := dedupe.NewInMemoryDeduper(dedupe.WithMaxSize(1000))
		const numGoroutines = 10
		const jobsPerGoroutine = 100

		Convey("When multiple goroutines record jobs concurrently", func() {
			var wg sync.WaitGroup
			errors := make(chan error, numGoroutines)

			for i := 0; i < numGoroutines; i++ {
				wg.Add(1)
				go func(goroutineID int) {
					defer wg.Done()
					for j := 0; j < jobsPerGoroutine; j++ {
						jobID := fmt.Sprintf("job-%d-%d", goroutineID, j)
						// This should not panic or cause race conditions
						d.SeenAndRecord(context.Background(), jobID)
					}
				}(i)
			}

			wg.Wait()
			close(errors)

			Convey("Then all jobs should be recorded successfully", func() {
				So(d.Size(), ShouldEqual, int64(numGoroutines*jobsPerGoroutine))

				// Check for any errors
				for err := range errors {
					So(err, ShouldBeNil)
				}
			})
		})

		Convey("When multiple goroutines unrecord jobs concurrently", func() {
			// First, record some jobs
			const numJobs = 500
			for i := 0; i < numJobs; i++ {
				jobID := fmt.Sprintf("job-%d", i)
				d.SeenAndRecord(context.Background(), jobID)
			}

			So(d.Size(), ShouldEqual, int64(numJobs))

			// Now unrecord them concurrently
			var wg sync.WaitGroup
			for i := 0; i < numGoroutines; i++ {
				wg.Add(1)
				go func(goroutineID int) {
					defer wg.Done()
					for j := 0; j < numJobs/numGoroutines; j++ {
						jobID := fmt.Sprintf("job-%d", goroutineID*(numJobs/numGoroutines)+j)
						d.Unrecord(context.Background(), jobID)
					}
				}(i)
			}

			wg.Wait()

			Convey("Then all jobs should be unrecorded successfully", func() {
				So(d.Size(), ShouldEqual, 0)
			})
		})
	})
}

func TestDedupeEdgeCases(t *testing.T) {
	Convey("Given a deduper with edge cases", t, func() {
		Convey("When recording empty string", func() {
			d := dedupe.NewInMemoryDeduper()

			seen := d.SeenAndRecord(context.Background(), "")

			Convey("Then it should handle empty string", func() {
				So(seen, ShouldBeFalse)
				So(d.Size(), ShouldEqual, 1)

				// Should be seen on second call
				seen2 := d.SeenAndRecord(context.Background(), "")
				So(seen2, ShouldBeTrue)
			})
		})

		Convey("When recording very long strings", func() {
			d := dedupe.NewInMemoryDeduper()

			longString := strings.Repeat("a", 10000)
			seen := d.SeenAndRecord(context.Background(), longString)

			Convey("Then it should handle long strings", func() {
				So(seen, ShouldBeFalse)
				So(d.Size(), ShouldEqual, 1)

				// Should be seen on second call
				seen2 := d.SeenAndRecord(context.Background(), longString)
				So(seen2, ShouldBeTrue)
			})
		})

		Convey("When using nil context", func() {
			d := dedupe.NewInMemoryDeduper()

			Convey("Then it should not panic", func() {
				So(func() { d.SeenAndRecord(nil, "job-1") }, ShouldNotPanic)
				So(func() { d.Unrecord(nil, "job-1") }, ShouldNotPanic)
			})
		})

		Convey("When using very small max size", func() {
			d := dedupe.NewInMemoryDeduper(dedupe.WithMaxSize(1))

			Convey("And adding multiple jobs", func() {
				// First job
				seen1 := d.SeenAndRecord(context.Background(), "job-1")
				So(seen1, ShouldBeFalse)
				So(d.Size(), ShouldEqual, 1)

				// Second job should evict the first
				seen2 := d.SeenAndRecord(context.Background(), "job-2")
				So(seen2, ShouldBeFalse)
				So(d.Size(), ShouldEqual, 1)

				// First job should not be seen (was evicted), so size should remain 1
				// when we try to add job-1 again
				originalSize := d.Size()
				seen1Again := d.SeenAndRecord(context.Background(), "job-1")
				So(seen1Again, ShouldBeFalse)
				So(d.Size(), ShouldEqual, originalSize) // Size should not increase

				// Second job should still be seen
				// Note: Since we're calling SeenAndRecord, it will record it again
				// if it was evicted, so we need to check the size instead
				seen2Again := d.SeenAndRecord(context.Background(), "job-2")
				So(seen2Again, ShouldBeFalse)           // Will be recorded again if evicted
				So(d.Size(), ShouldEqual, originalSize) // Size should not increase
			})
		})

		Convey("When using negative max size", func() {
			d := dedupe.NewInMemoryDeduper(dedupe.WithMaxSize(-1))

			Convey("Then it should be unbounded", func() {
				const numJobs = 1000
				for i := 0; i < numJobs; i++ {
					jobID := fmt.Sprintf("job-%d", i)
					seen := d.SeenAndRecord(context.Background(), jobID)
					So(seen, ShouldBeFalse)
				}

				So(d.Size(), ShouldEqual, int64(numJobs))
			})
		})
	})
}

func TestDedupeOptions(t *testing.T) {
	Convey("Given dedupe options", t, func() {
		Convey("When using WithMaxSize", func() {
			Convey("Then it should set the max size", func() {
				d := dedupe.NewInMemoryDeduper(dedupe.WithMaxSize(500))
				So(d, ShouldNotBeNil)
			})

			Convey("And when max size is zero", func() {
				d := dedupe.NewInMemoryDeduper(dedupe.WithMaxSize(0))
				So(d, ShouldNotBeNil)
			})

			Convey("And when max size is negative", func() {
				d := dedupe.NewInMemoryDeduper(dedupe.WithMaxSize(-100))
				So(d, ShouldNotBeNil)
			})
		})

		// Removed tests for unused options: WithEvictionPolicy, WithTTL, WithMetrics, WithCleanupInterval
	})
}

package repository_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/emopulse/emopulse-api/internal/adapters/repository"
	"github.com/emopulse/emopulse-api/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

func usage(route string, status int, latency time.Duration) model.Usage {
	return model.Usage{Route: route, Status: status, Latency: latency}
}

func TestMemoryStore(t *testing.T) {
	Convey("Given a new MemoryStore", t, func() {
		ctx, cancel := context.WithCancel(context.Background())
		fixed := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
		store := repository.NewMemoryStore(ctx, repository.WithClock(func() time.Time { return fixed }))
		Reset(func() {
			_ = store.Close()
			cancel()
		})

		Convey("When nothing has been recorded", func() {
			Convey("Then reads should be empty", func() {
				So(store.Count(ctx), ShouldEqual, 0)
				top, err := store.TopN(ctx, 10)
				So(err, ShouldBeNil)
				So(top, ShouldBeEmpty)
				_, err = store.Rank(ctx, "emotion")
				So(errors.Is(err, repository.ErrNotFound), ShouldBeTrue)
			})
		})

		Convey("When usage is recorded for several routes", func() {
			So(store.Record(ctx, usage("emotion", 200, 2*time.Millisecond)), ShouldBeNil)
			So(store.Record(ctx, usage("emotion", 400, 4*time.Millisecond)), ShouldBeNil)
			So(store.Record(ctx, usage("emotion", 200, 6*time.Millisecond)), ShouldBeNil)
			So(store.Record(ctx, usage("analyze", 200, time.Millisecond)), ShouldBeNil)
			So(store.Record(ctx, usage("analyze", 500, time.Millisecond)), ShouldBeNil)
			So(store.Record(ctx, usage("stress", 200, time.Millisecond)), ShouldBeNil)
			So(store.Record(ctx, usage("pulse", 200, time.Millisecond)), ShouldBeNil)

			Convey("Then TopN should order by requests then route name", func() {
				top, err := store.TopN(ctx, 10)
				So(err, ShouldBeNil)
				So(len(top), ShouldEqual, 4)
				So(top[0].Route, ShouldEqual, "emotion")
				So(top[0].Rank, ShouldEqual, 1)
				So(top[1].Route, ShouldEqual, "analyze")
				So(top[1].Rank, ShouldEqual, 2)
				So(top[2].Route, ShouldEqual, "pulse")
				So(top[3].Route, ShouldEqual, "stress")
				So(top[2].Rank, ShouldEqual, 3)
				So(top[3].Rank, ShouldEqual, 3)
			})

			Convey("Then TopN should honour the limit", func() {
				top, err := store.TopN(ctx, 2)
				So(err, ShouldBeNil)
				So(len(top), ShouldEqual, 2)
			})

			Convey("Then Rank should return the route's counters", func() {
				e, err := store.Rank(ctx, "emotion")
				So(err, ShouldBeNil)
				So(e.Requests, ShouldEqual, 3)
				So(e.Failures, ShouldEqual, 1)
				So(e.AvgLatencyMs, ShouldAlmostEqual, 4.0, 0.001)
				So(e.LastStatus, ShouldEqual, 200)
				So(e.LastSeen, ShouldEqual, fixed)

				e, err = store.Rank(ctx, "analyze")
				So(err, ShouldBeNil)
				So(e.Failures, ShouldEqual, 1)
				So(e.LastStatus, ShouldEqual, 500)
			})

			Convey("Then Count should report the tracked routes", func() {
				So(store.Count(ctx), ShouldEqual, 4)
			})
		})

		Convey("When a record carries its own timestamp", func() {
			at := fixed.Add(time.Hour)
			So(store.Record(ctx, model.Usage{Route: "tension", Status: 200, At: at}), ShouldBeNil)

			Convey("Then LastSeen should use it", func() {
				e, err := store.Rank(ctx, "tension")
				So(err, ShouldBeNil)
				So(e.LastSeen, ShouldEqual, at)
			})
		})

		Convey("When input is invalid", func() {
			Convey("Then an empty route should be rejected", func() {
				err := store.Record(ctx, usage("", 200, 0))
				So(errors.Is(err, repository.ErrEmptyRoute), ShouldBeTrue)
			})

			Convey("Then a limit below one should be rejected", func() {
				_, err := store.TopN(ctx, 0)
				So(errors.Is(err, repository.ErrInvalidLimit), ShouldBeTrue)
			})
		})

		Convey("When records arrive concurrently", func() {
			var wg sync.WaitGroup
			for i := 0; i < 8; i++ {
				wg.Add(1)
				go func(i int) {
					defer wg.Done()
					for j := 0; j < 50; j++ {
						_ = store.Record(ctx, usage(fmt.Sprintf("route-%d", i%4), 200, time.Millisecond))
					}
				}(i)
			}
			wg.Wait()

			Convey("Then every sample should be counted", func() {
				top, err := store.TopN(ctx, 10)
				So(err, ShouldBeNil)
				So(len(top), ShouldEqual, 4)
				var total int64
				for _, e := range top {
					total += e.Requests
					So(e.Rank, ShouldEqual, 1)
				}
				So(total, ShouldEqual, 400)
			})
		})
	})
}

func TestMemoryStoreClose(t *testing.T) {
	Convey("Given a store with a short metrics interval", t, func() {
		store := repository.NewMemoryStore(context.Background(),
			repository.WithMetricsUpdateInterval(5*time.Millisecond))
		time.Sleep(20 * time.Millisecond)

		Convey("Then Close should be idempotent", func() {
			So(store.Close(), ShouldBeNil)
			So(store.Close(), ShouldBeNil)
		})
	})
}

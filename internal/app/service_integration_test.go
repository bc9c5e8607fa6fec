package service_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"

	service "github.com/emopulse/emopulse-api/internal/app"
	"github.com/emopulse/emopulse-api/internal/adapters/repository"
	"github.com/emopulse/emopulse-api/internal/domain/model"
)

func waitForUsage(svc *service.Service, route string, want int64) repository.Entry {
	deadline := time.Now().Add(2 * time.Second)
	for {
		e, err := svc.RouteUsage(context.Background(), route)
		if err == nil && e.Requests >= want {
			return e
		}
		if time.Now().After(deadline) {
			return e
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestServiceIntegration(t *testing.T) {
	Convey("Given a started service", t, func() {
		svc, err := service.New(
			service.WithWorkerCount(2),
			service.WithQueueSize(1000),
			service.WithDedupeSize(500),
		)
		So(err, ShouldBeNil)
		ctx := context.Background()
		So(svc.Start(ctx), ShouldBeNil)
		Reset(func() { _ = svc.Stop(context.Background()) })

		Convey("When usage is recorded for several routes", func() {
			for i := 0; i < 3; i++ {
				svc.RecordUsage(ctx, model.Usage{RequestID: fmt.Sprintf("e-%d", i), Route: "emotion", Status: 200, Latency: time.Millisecond})
			}
			svc.RecordUsage(ctx, model.Usage{RequestID: "s-1", Route: "stress", Status: 400})

			Convey("Then it should be aggregated per route", func() {
				e := waitForUsage(svc, "emotion", 3)
				So(e.Requests, ShouldEqual, 3)
				So(e.Rank, ShouldEqual, 1)

				s := waitForUsage(svc, "stress", 1)
				So(s.Failures, ShouldEqual, 1)

				top, err := svc.TopUsage(ctx, 10)
				So(err, ShouldBeNil)
				So(len(top), ShouldEqual, 2)
				So(top[0].Route, ShouldEqual, "emotion")
			})
		})

		Convey("When the same request id is recorded twice", func() {
			u := model.Usage{RequestID: "retry-1", Route: "pulse", Status: 200}
			svc.RecordUsage(ctx, u)
			svc.RecordUsage(ctx, u)
			svc.RecordUsage(ctx, model.Usage{RequestID: "retry-2", Route: "pulse", Status: 200})

			Convey("Then it should count once", func() {
				_ = waitForUsage(svc, "pulse", 2)
				time.Sleep(20 * time.Millisecond)
				e, err := svc.RouteUsage(ctx, "pulse")
				So(err, ShouldBeNil)
				So(e.Requests, ShouldEqual, 2)
			})
		})

		Convey("When a route was never used", func() {
			_, err := svc.RouteUsage(ctx, "tension")

			Convey("Then ErrNotFound should be returned", func() {
				So(errors.Is(err, repository.ErrNotFound), ShouldBeTrue)
			})
		})

		Convey("When the service stops with usage still queued", func() {
			for i := 0; i < 100; i++ {
				svc.RecordUsage(ctx, model.Usage{RequestID: fmt.Sprintf("d-%d", i), Route: "drive", Status: 200})
			}
			stopCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
			defer cancel()
			So(svc.Stop(stopCtx), ShouldBeNil)

			Convey("Then recording afterwards should be a no-op", func() {
				So(func() {
					svc.RecordUsage(ctx, model.Usage{Route: "drive", Status: 200})
				}, ShouldNotPanic)
				So(svc.GetStats()["started"], ShouldEqual, false)
			})
		})
	})
}

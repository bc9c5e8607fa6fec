package model_test

import (
	"testing"
	"time"

	model "github.com/emopulse/emopulse-api/internal/domain/model"
	"github.com/smartystreets/goconvey/convey"
)

func TestUsage(t *testing.T) {
	convey.Convey("Given a Usage record", t, func() {
		at := time.Now()
		u := model.Usage{
			RequestID: "req-1",
			Route:     "emotion",
			Status:    200,
			Latency:   3 * time.Millisecond,
			At:        at,
		}

		convey.Convey("Then it should keep its values", func() {
			convey.So(u.RequestID, convey.ShouldEqual, "req-1")
			convey.So(u.Route, convey.ShouldEqual, "emotion")
			convey.So(u.Latency, convey.ShouldEqual, 3*time.Millisecond)
			convey.So(u.At, convey.ShouldEqual, at)
		})

		convey.Convey("When the status is a success", func() {
			convey.Convey("Then it should not count as a failure", func() {
				convey.So(u.Failed(), convey.ShouldBeFalse)
			})
		})

		convey.Convey("When the status is a client or server error", func() {
			convey.Convey("Then it should count as a failure", func() {
				u.Status = 400
				convey.So(u.Failed(), convey.ShouldBeTrue)
				u.Status = 500
				convey.So(u.Failed(), convey.ShouldBeTrue)
			})
		})
	})
}

package config_test

import (
	"testing"
	"time"

	"github.com/emopulse/emopulse-api/internal/config"
	"github.com/smartystreets/goconvey/convey"
)

func TestConfig_New(t *testing.T) {
	convey.Convey("Given a new config with default options", t, func() {
		cfg := config.New()

		convey.Convey("Then it should have sensible defaults", func() {
			convey.So(cfg.Port, convey.ShouldEqual, 8080)
			convey.So(cfg.Addr(), convey.ShouldEqual, ":8080")
			convey.So(cfg.Version, convey.ShouldEqual, "0.1.0")
			convey.So(cfg.LogLevel, convey.ShouldEqual, "info")
			convey.So(cfg.LogFormat, convey.ShouldEqual, "text")
			convey.So(cfg.MaxBodyBytes, convey.ShouldEqual, 102400)
			convey.So(cfg.CORSAllowOrigin, convey.ShouldEqual, "*")
			convey.So(cfg.RequestLogging, convey.ShouldBeTrue)
			convey.So(cfg.UsageQueueSize, convey.ShouldEqual, 10_000)
			convey.So(cfg.UsageWorkerCount, convey.ShouldEqual, 2)
			convey.So(cfg.UsageDedupeSize, convey.ShouldEqual, 50_000)
			convey.So(cfg.DemoProxyEnabled, convey.ShouldBeFalse)
			convey.So(cfg.DemoProxyTimeout(), convey.ShouldEqual, 10*time.Second)
		})

		convey.Convey("When a host is set", func() {
			cfg.Host = "127.0.0.1"
			cfg.Port = 9000

			convey.Convey("Then Addr should join host and port", func() {
				convey.So(cfg.Addr(), convey.ShouldEqual, "127.0.0.1:9000")
			})
		})
	})
}

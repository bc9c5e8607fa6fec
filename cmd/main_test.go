package main

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/smartystreets/goconvey/convey"

	app "github.com/emopulse/emopulse-api/internal/app"
	"github.com/emopulse/emopulse-api/internal/config"
	"github.com/emopulse/emopulse-api/pkg/logger"
)

func init() {
	_ = logger.Init(logger.WithWriter(io.Discard))
}

func newStartedService(t *testing.T) *app.Service {
	t.Helper()
	svc, err := app.New(app.WithLogger(logger.Nop()), app.WithWorkerCount(1), app.WithQueueSize(10))
	if err != nil {
		t.Fatalf("app.New: %v", err)
	}
	if err := svc.Start(context.Background()); err != nil {
		t.Fatalf("svc.Start: %v", err)
	}
	t.Cleanup(func() { _ = svc.Stop(context.Background()) })
	return svc
}

func TestNewHandler(t *testing.T) {
	convey.Convey("Given the assembled handler", t, func() {
		ctx := context.Background()
		cfg := config.New()
		cfg.RequestLogging = false
		svc := newStartedService(t)

		h, err := newHandler(ctx, cfg, svc, logger.Nop())
		convey.So(err, convey.ShouldBeNil)

		serve := func(method, path, body string) *httptest.ResponseRecorder {
			var r io.Reader
			if body != "" {
				r = strings.NewReader(body)
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, httptest.NewRequest(method, path, r))
			return rec
		}

		convey.Convey("Then the root text should be served with CORS and a request id", func() {
			rec := serve(http.MethodGet, "/", "")
			convey.So(rec.Code, convey.ShouldEqual, http.StatusOK)
			convey.So(rec.Body.String(), convey.ShouldEqual, "Emopulse API is running")
			convey.So(rec.Header().Get("Access-Control-Allow-Origin"), convey.ShouldEqual, "*")
			convey.So(rec.Header().Get("X-Request-ID"), convey.ShouldNotBeEmpty)
		})

		convey.Convey("Then analysis routes should be mounted", func() {
			rec := serve(http.MethodPost, "/api/tension", `{"text":"tight shoulders"}`)
			convey.So(rec.Code, convey.ShouldEqual, http.StatusOK)
			convey.So(rec.Body.String(), convey.ShouldContainSubstring, `"tension"`)
		})

		convey.Convey("Then the OpenAPI document should be mounted", func() {
			rec := serve(http.MethodGet, "/openapi.json", "")
			convey.So(rec.Code, convey.ShouldEqual, http.StatusOK)
			convey.So(rec.Body.String(), convey.ShouldContainSubstring, "/api/tension")
		})

		convey.Convey("Then the demo proxy should be absent by default", func() {
			rec := serve(http.MethodGet, "/demo/", "")
			convey.So(rec.Code, convey.ShouldEqual, http.StatusNotFound)
		})
	})

	convey.Convey("Given the demo proxy is enabled", t, func() {
		upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = io.WriteString(w, "demo:"+r.URL.Path)
		}))
		defer upstream.Close()

		cfg := config.New()
		cfg.DemoProxyEnabled = true
		cfg.DemoProxyTarget = upstream.URL
		svc := newStartedService(t)

		h, err := newHandler(context.Background(), cfg, svc, logger.Nop())
		convey.So(err, convey.ShouldBeNil)

		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/demo/ppg", nil))

		convey.Convey("Then /demo requests should reach the upstream", func() {
			convey.So(rec.Code, convey.ShouldEqual, http.StatusOK)
			convey.So(rec.Body.String(), convey.ShouldEqual, "demo:/ppg")
		})
	})

	convey.Convey("Given an invalid demo proxy target", t, func() {
		cfg := config.New()
		cfg.DemoProxyEnabled = true
		cfg.DemoProxyTarget = "localhost"
		svc := newStartedService(t)

		_, err := newHandler(context.Background(), cfg, svc, logger.Nop())

		convey.Convey("Then building the handler should fail", func() {
			convey.So(err, convey.ShouldNotBeNil)
		})
	})
}

func TestRun(t *testing.T) {
	convey.Convey("Given a config listening on an ephemeral port", t, func() {
		cfg := config.New()
		cfg.Host = "127.0.0.1"
		cfg.Port = 0
		cfg.RequestLogging = false

		convey.Convey("When the root context is cancelled", func() {
			ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
			defer cancel()

			done := make(chan error, 1)
			go func() { done <- run(ctx, cfg, logger.Nop()) }()

			convey.Convey("Then run should shut down cleanly", func() {
				select {
				case err := <-done:
					convey.So(err, convey.ShouldBeNil)
				case <-time.After(5 * time.Second):
					t.Fatal("run did not return")
				}
			})
		})
	})
}

func TestMetricsUpdaters(t *testing.T) {
	convey.Convey("Given the background metric updaters", t, func() {
		convey.Convey("Then a system metrics update should not panic", func() {
			convey.So(updateSystemMetrics, convey.ShouldNotPanic)
		})

		convey.Convey("Then the updaters should return once the context ends", func() {
			ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
			defer cancel()
			svc := newStartedService(t)

			convey.So(func() {
				startSystemMetricsUpdater(ctx)
				startServiceMetricsUpdater(ctx, svc)
			}, convey.ShouldNotPanic)
		})
	})
}

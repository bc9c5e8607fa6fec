package probe_test

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/emopulse/emopulse-api/internal/adapters/http/api"
	service "github.com/emopulse/emopulse-api/internal/app"
	"github.com/emopulse/emopulse-api/internal/domain/analysis"
	"github.com/emopulse/emopulse-api/internal/probe"
	"github.com/emopulse/emopulse-api/pkg/logger"
)

func init() {
	_ = logger.Init(logger.WithWriter(io.Discard))
}

func startAPI(t *testing.T) *httptest.Server {
	t.Helper()
	svc, err := service.New(service.WithLogger(logger.Nop()))
	if err != nil {
		t.Fatalf("service.New: %v", err)
	}
	if err := svc.Start(context.Background()); err != nil {
		t.Fatalf("svc.Start: %v", err)
	}
	mux := http.NewServeMux()
	api.NewServer(svc, api.WithLogger(logger.Nop())).Register(context.Background(), mux)
	ts := httptest.NewServer(api.Chain(mux, api.RequestID()))
	t.Cleanup(func() {
		ts.Close()
		_ = svc.Stop(context.Background())
	})
	return ts
}

func testConfig(url string) probe.Config {
	return probe.Config{BaseURL: url, Workers: 8, Timeout: 2 * time.Second, NoColor: true}
}

func TestProbeAgainstAPI(t *testing.T) {
	Convey("Given a running API", t, func() {
		ts := startAPI(t)
		var out bytes.Buffer

		Convey("When every check runs", func() {
			results, err := probe.Run(context.Background(), testConfig(ts.URL), &out)

			Convey("Then all of them should pass", func() {
				So(err, ShouldBeNil)
				// 4 fixed checks plus two per route.
				So(len(results), ShouldEqual, 4+2*63)
				for _, r := range results {
					So(r.Detail, ShouldBeEmpty)
					So(r.Passed, ShouldBeTrue)
				}
				So(out.String(), ShouldContainSubstring, "130 checks, 130 passed, 0 failed")
			})
		})

		Convey("When the report is verbose", func() {
			cfg := testConfig(ts.URL)
			cfg.Verbose = true
			_, err := probe.Run(context.Background(), cfg, &out)

			Convey("Then passing checks should be listed", func() {
				So(err, ShouldBeNil)
				So(out.String(), ShouldContainSubstring, "POST /api/emotion")
				So(out.String(), ShouldContainSubstring, "PASS")
			})
		})
	})
}

func TestProbeDetectsNonConformingResponses(t *testing.T) {
	Convey("Given a service that answers the wrong shape", t, func() {
		ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"emotions":{"joy":"1.50"}}`))
		}))
		defer ts.Close()

		reg, err := analysis.NewDefaultRegistry()
		So(err, ShouldBeNil)
		rt, ok := reg.Lookup("emotion")
		So(ok, ShouldBeTrue)

		var out bytes.Buffer
		checks := probe.Checks([]analysis.Route{rt})[4:5]
		results, err := probe.RunChecks(context.Background(), testConfig(ts.URL), checks, &out)

		Convey("Then the check should fail with a non-conforming error", func() {
			So(errors.Is(err, probe.ErrChecksFailed), ShouldBeTrue)
			So(results, ShouldHaveLength, 1)
			So(results[0].Passed, ShouldBeFalse)
			So(results[0].Detail, ShouldContainSubstring, "does not match template")
			So(out.String(), ShouldContainSubstring, "FAIL")
			So(out.String(), ShouldContainSubstring, "1 checks, 0 passed, 1 failed")
		})
	})

	Convey("Given an unreachable service", t, func() {
		ts := httptest.NewServer(http.NotFoundHandler())
		url := ts.URL
		ts.Close()

		results, err := probe.RunChecks(context.Background(), testConfig(url), probe.Checks(nil), io.Discard)

		Convey("Then every fixed check should fail", func() {
			So(errors.Is(err, probe.ErrChecksFailed), ShouldBeTrue)
			So(results, ShouldHaveLength, 4)
			for _, r := range results {
				So(r.Passed, ShouldBeFalse)
			}
		})
	})
}

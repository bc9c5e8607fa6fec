package proxy_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/emopulse/emopulse-api/internal/adapters/http/proxy"
	"github.com/emopulse/emopulse-api/pkg/logger"
)

func get(t *testing.T, h http.Handler, path string) (*httptest.ResponseRecorder, string) {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	b, _ := io.ReadAll(rec.Body)
	return rec, string(b)
}

func TestProxy(t *testing.T) {
	Convey("Given an upstream demo service", t, func() {
		upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path == "/app/slow" {
				select {
				case <-time.After(time.Second):
				case <-r.Context().Done():
				}
			}
			_, _ = io.WriteString(w, r.URL.RequestURI())
		}))
		defer upstream.Close()

		p, err := proxy.New(upstream.URL+"/app",
			proxy.WithLogger(logger.Nop()),
			proxy.WithTimeout(100*time.Millisecond),
		)
		So(err, ShouldBeNil)

		mux := http.NewServeMux()
		p.Register(context.Background(), mux)

		Convey("When a nested path is requested", func() {
			rec, body := get(t, mux, "/demo/ppg/stream?x=1")

			Convey("Then the prefix should be stripped and the target path joined", func() {
				So(rec.Code, ShouldEqual, http.StatusOK)
				So(body, ShouldEqual, "/app/ppg/stream?x=1")
			})
		})

		Convey("When the bare prefix is requested", func() {
			rec, body := get(t, mux, "/demo")

			Convey("Then the target root should be requested", func() {
				So(rec.Code, ShouldEqual, http.StatusOK)
				So(body, ShouldEqual, "/app/")
			})
		})

		Convey("When the upstream is too slow", func() {
			rec, body := get(t, mux, "/demo/slow")

			Convey("Then the proxy should answer 502", func() {
				So(rec.Code, ShouldEqual, http.StatusBadGateway)
				var m map[string]string
				So(json.Unmarshal([]byte(body), &m), ShouldBeNil)
				So(m["error"], ShouldEqual, "Bad gateway")
			})
		})
	})

	Convey("Given an unreachable upstream", t, func() {
		upstream := httptest.NewServer(http.NotFoundHandler())
		target := upstream.URL
		upstream.Close()

		p, err := proxy.New(target, proxy.WithLogger(logger.Nop()))
		So(err, ShouldBeNil)

		rec, body := get(t, p, "/demo/")

		Convey("Then the proxy should answer 502 with a message", func() {
			So(rec.Code, ShouldEqual, http.StatusBadGateway)
			var m map[string]string
			So(json.Unmarshal([]byte(body), &m), ShouldBeNil)
			So(m["message"], ShouldNotBeEmpty)
		})
	})

	Convey("Given invalid targets", t, func() {
		for _, target := range []string{"", "localhost:5173", "ftp://host/x", "http://"} {
			_, err := proxy.New(target)
			So(errors.Is(err, proxy.ErrInvalidTarget), ShouldBeTrue)
		}
	})
}

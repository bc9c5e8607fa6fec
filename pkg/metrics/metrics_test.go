package metrics

import (
	"go/ast"
	"go/parser"
	"go/token"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	. "github.com/smartystreets/goconvey/convey"
)

func TestMetricsManagerCreation(t *testing.T) {
	Convey("Given metrics manager creation", t, func() {
		Convey("When creating with default options on a fresh registry", func() {
			registry := prometheus.NewRegistry()
			manager := NewManager(WithPrometheusRegistry(registry))

			Convey("Then it should be created with the service namespace", func() {
				So(manager, ShouldNotBeNil)
				So(manager.namespace, ShouldEqual, "emopulse")
				So(manager.subsystem, ShouldEqual, "api")
			})
		})

		Convey("When creating with custom options", func() {
			registry := prometheus.NewRegistry()
			manager := NewManager(
				WithNamespace("test"),
				WithSubsystem("unit"),
				WithHistogramBuckets([]float64{1, 2, 3}),
				WithMetricsEnabled(false),
				WithCustomLabels(map[string]string{"env": "test"}),
				WithPrometheusRegistry(registry),
			)

			Convey("Then the options should be applied", func() {
				So(manager.namespace, ShouldEqual, "test")
				So(manager.subsystem, ShouldEqual, "unit")
				So(manager.histogramBuckets, ShouldResemble, []float64{1, 2, 3})
				So(manager.enabled, ShouldBeFalse)
			})

			Convey("And collectors should carry the constant labels", func() {
				manager.routesRegistered.Set(3)
				families, err := registry.Gather()
				So(err, ShouldBeNil)
				found := false
				for _, f := range families {
					if f.GetName() == "test_unit_routes_registered" {
						found = true
						So(f.GetMetric()[0].GetLabel()[0].GetName(), ShouldEqual, "env")
					}
				}
				So(found, ShouldBeTrue)
			})
		})

		Convey("When empty option values are passed", func() {
			manager := NewManager(
				WithNamespace(""),
				WithSubsystem(""),
				WithHistogramBuckets(nil),
				WithPrometheusRegistry(prometheus.NewRegistry()),
			)

			Convey("Then defaults should be kept", func() {
				So(manager.namespace, ShouldEqual, "emopulse")
				So(manager.subsystem, ShouldEqual, "api")
				So(len(manager.histogramBuckets), ShouldBeGreaterThan, 0)
			})
		})
	})
}

func TestMetricsRecording(t *testing.T) {
	Convey("Given the global metrics manager", t, func() {
		Convey("When recording HTTP metrics", func() {
			before := testutil.ToFloat64(globalManager.httpRequests.WithLabelValues("emotion", "POST", "200"))
			RecordHTTPRequest("emotion", "POST", "200")
			RecordHTTPRequestDuration("emotion", "POST", "200", 1.5)

			Convey("Then the counter should increase", func() {
				after := testutil.ToFloat64(globalManager.httpRequests.WithLabelValues("emotion", "POST", "200"))
				So(after-before, ShouldEqual, 1)
			})
		})

		Convey("When recording analysis outcomes", func() {
			before := testutil.ToFloat64(globalManager.validationFailures.WithLabelValues("stress"))
			RecordAnalysis("stress", "random")
			RecordValidationFailure("stress")
			RecordInternalError("stress")

			Convey("Then validation failures should be counted per route", func() {
				So(testutil.ToFloat64(globalManager.validationFailures.WithLabelValues("stress"))-before, ShouldEqual, 1)
			})
		})

		Convey("When updating gauges", func() {
			UpdateRoutesRegistered(63)
			UpdateUsageQueueSize(5)
			UpdateUsageQueueCapacity(10)
			UpdateUsageWorkers(2)
			UpdateUsageRoutesTracked(4)
			UpdateUptime(90 * time.Second)

			Convey("Then they should hold the last value", func() {
				So(testutil.ToFloat64(globalManager.routesRegistered), ShouldEqual, 63)
				So(testutil.ToFloat64(globalManager.usageQueueSize), ShouldEqual, 5)
				So(testutil.ToFloat64(globalManager.usageQueueCapacity), ShouldEqual, 10)
				So(testutil.ToFloat64(globalManager.usageWorkers), ShouldEqual, 2)
				So(testutil.ToFloat64(globalManager.uptimeSeconds), ShouldEqual, 90)
			})
		})

		Convey("When recording the remaining helpers", func() {
			Convey("Then none of them should panic", func() {
				So(func() {
					IncHTTPInFlight()
					DecHTTPInFlight()
					RecordUsageEnqueued()
					RecordUsageDropped("queue_full")
					RecordUsageRecorded()
					RecordUsageDuplicate()
					RecordUsageRecordLatency(0.2)
					RecordProxyRequest("ok")
					RecordErrorByType("client_error", "medium")
					RecordErrorByEndpoint("emotion", "POST", "client_error")
					UpdateSystemMemoryUsage(1024)
					UpdateSystemGoroutineCount(10)
					RecordSystemGCPauseTime(0.1)
				}, ShouldNotPanic)
			})
		})

		Convey("When gathering the custom registry", func() {
			families, err := GetRegistry().Gather()

			Convey("Then it should expose the service metrics only", func() {
				So(err, ShouldBeNil)
				So(len(families), ShouldBeGreaterThan, 0)
				for _, f := range families {
					So(f.GetName(), ShouldStartWith, "emopulse_api_")
				}
			})
		})
	})
}

func TestExportedHelpersAreDocumented(t *testing.T) {
	Convey("Given the metrics helpers", t, func() {
		file, err := parser.ParseFile(token.NewFileSet(), "prometheus.go", nil, parser.ParseComments)
		So(err, ShouldBeNil)

		Convey("Then every exported function should carry a doc comment", func() {
			for _, decl := range file.Decls {
				fn, ok := decl.(*ast.FuncDecl)
				if !ok || !fn.Name.IsExported() {
					continue
				}
				So(fn.Doc, ShouldNotBeNil)
				So(fn.Doc.Text(), ShouldStartWith, fn.Name.Name+" ")
			}
		})
	})
}

package main

import (
	"bytes"
	"testing"
	"time"

	"github.com/smartystreets/goconvey/convey"
)

func TestProbeCommand(t *testing.T) {
	convey.Convey("Given the probe root command", t, func() {
		root := newRootCmd()

		convey.Convey("Then it should expose the run subcommand with its flags", func() {
			run, _, err := root.Find([]string{"run"})
			convey.So(err, convey.ShouldBeNil)
			convey.So(run.Name(), convey.ShouldEqual, "run")

			for _, name := range []string{"url", "workers", "timeout", "verbose", "no-color", "log-level"} {
				convey.So(run.Flags().Lookup(name), convey.ShouldNotBeNil)
			}
			convey.So(run.Flags().Lookup("url").DefValue, convey.ShouldEqual, "http://localhost:8080")
			convey.So(run.Flags().Lookup("timeout").DefValue, convey.ShouldEqual, (10 * time.Second).String())
		})

		convey.Convey("When run targets an unreachable service", func() {
			var out bytes.Buffer
			root.SetOut(&out)
			root.SetErr(&out)
			root.SetArgs([]string{"run", "--url", "http://127.0.0.1:1", "--timeout", "200ms", "--no-color"})

			err := root.Execute()

			convey.Convey("Then it should fail and report the failures", func() {
				convey.So(err, convey.ShouldNotBeNil)
				convey.So(out.String(), convey.ShouldContainSubstring, "FAIL")
			})
		})
	})
}

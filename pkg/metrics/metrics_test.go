package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	. "github.com/smartystreets/goconvey/convey"
)

// withManager swaps the global manager for one on a fresh registry.
func withManager(opts ...Option) (*Manager, func()) {
	prev := globalManager
	m := NewManager(append([]Option{WithPrometheusRegistry(prometheus.NewRegistry())}, opts...)...)
	globalManager = m
	return m, func() { globalManager = prev }
}

func TestMetricsManagerCreation(t *testing.T) {
	Convey("Given metrics manager creation", t, func() {
		Convey("When creating with custom options", func() {
			registry := prometheus.NewRegistry()
			manager := NewManager(
				WithNamespace("test_namespace"),
				WithSubsystem("test_subsystem"),
				WithMetricPrefix("pfx"),
				WithHistogramBuckets([]float64{0.1, 0.5, 1.0}),
				WithCustomLabels(map[string]string{"env": "test"}),
				WithPrometheusRegistry(registry),
			)

			Convey("Then the metrics are registered under the custom names", func() {
				So(manager, ShouldNotBeNil)
				manager.catchUpRuns.Inc()
				families, err := registry.Gather()
				So(err, ShouldBeNil)
				names := make([]string, 0, len(families))
				for _, f := range families {
					names = append(names, f.GetName())
				}
				So(names, ShouldContain, "test_namespace_test_subsystem_pfx_catchup_runs_total")
			})

			Convey("Then every metric carries the custom labels", func() {
				manager.catchUpRuns.Inc()
				families, err := registry.Gather()
				So(err, ShouldBeNil)
				So(families, ShouldNotBeEmpty)
				for _, f := range families {
					for _, metric := range f.GetMetric() {
						labels := map[string]string{}
						for _, lp := range metric.GetLabel() {
							labels[lp.GetName()] = lp.GetValue()
						}
						So(labels["env"], ShouldEqual, "test")
					}
				}
			})
		})
	})
}

func TestMetricsRecording(t *testing.T) {
	Convey("Given a manager on a fresh registry", t, func() {
		m, restore := withManager()
		defer restore()

		Convey("When recording a catch-up pass", func() {
			RecordCatchUp(4, 6)
			RecordCatchUp(1, 0)

			Convey("Then runs, days and points accumulate", func() {
				So(testutil.ToFloat64(m.catchUpRuns), ShouldEqual, 2)
				So(testutil.ToFloat64(m.catchUpDaysSimulated), ShouldEqual, 5)
				So(testutil.ToFloat64(m.competitorPoints), ShouldEqual, 6)
			})
		})

		Convey("When recording rollovers", func() {
			RecordRollover("day")
			RecordRollover("day")
			RecordRollover("week")

			Convey("Then each kind is counted separately", func() {
				So(testutil.ToFloat64(m.rollovers.WithLabelValues("day")), ShouldEqual, 2)
				So(testutil.ToFloat64(m.rollovers.WithLabelValues("week")), ShouldEqual, 1)
			})
		})

		Convey("When toggling the clock gauge", func() {
			UpdateClockAccelerated(true)
			So(testutil.ToFloat64(m.clockAccelerated), ShouldEqual, 1)
			UpdateClockAccelerated(false)
			So(testutil.ToFloat64(m.clockAccelerated), ShouldEqual, 0)
		})

		Convey("When recording progress and storage metrics", func() {
			So(func() {
				RecordTickLatency(1.5)
				RecordPromptRotation()
				RecordSubmission("prompt")
				RecordWeeklyTransition("completed")
				UpdateUserPoints(12)
				RecordStorageOp("get", "ok", 0.2)
				RecordMalformedBlob("user_data")
				RecordHTTPRequest("leaderboard", "GET", "200")
				RecordHTTPRequestDuration("leaderboard", "GET", "200", 3)
				RecordErrorByComponent("catchup", "storage")
			}, ShouldNotPanic)
			So(testutil.ToFloat64(m.userPoints), ShouldEqual, 12)
			So(testutil.ToFloat64(m.weeklyTransitions.WithLabelValues("completed")), ShouldEqual, 1)
		})
	})
}

func TestGetRegistry(t *testing.T) {
	Convey("Given the package registry", t, func() {
		So(GetRegistry(), ShouldNotBeNil)
	})
}

package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	. "github.com/smartystreets/goconvey/convey"
)

func TestMetricsManagerCreation(t *testing.T) {
	Convey("Given metrics manager creation", t, func() {
		Convey("When creating with a fresh registry", func() {
			registry := prometheus.NewRegistry()
			manager := NewManager(WithPrometheusRegistry(registry))

			Convey("Then the defaults should be applied", func() {
				So(manager, ShouldNotBeNil)
				So(manager.namespace, ShouldEqual, "roommatch")
				So(manager.subsystem, ShouldEqual, "matching")
			})

			Convey("Then every metric should be registered on it", func() {
				manager.pairsScored.Add(3)
				families, err := registry.Gather()
				So(err, ShouldBeNil)
				names := make([]string, 0, len(families))
				for _, f := range families {
					names = append(names, f.GetName())
				}
				So(names, ShouldContain, "roommatch_matching_pairs_scored_total")
				So(names, ShouldContain, "roommatch_matching_profiles_total")
			})
		})

		Convey("When creating with custom options", func() {
			registry := prometheus.NewRegistry()
			manager := NewManager(
				WithNamespace("test"),
				WithSubsystem("unit"),
				WithHistogramBuckets([]float64{1, 5, 10}),
				WithCountBuckets([]float64{1, 10, 100}),
				WithCustomLabels(map[string]string{"env": "test"}),
				WithPrometheusRegistry(registry),
			)

			Convey("Then names and constant labels should follow them", func() {
				manager.matchRequests.Inc()
				families, err := registry.Gather()
				So(err, ShouldBeNil)
				var found bool
				for _, f := range families {
					if f.GetName() != "test_unit_match_requests_total" {
						continue
					}
					found = true
					So(f.GetMetric()[0].GetLabel()[0].GetName(), ShouldEqual, "env")
					So(f.GetMetric()[0].GetLabel()[0].GetValue(), ShouldEqual, "test")
				}
				So(found, ShouldBeTrue)
				So(manager.histogramBuckets, ShouldResemble, []float64{1, 5, 10})
			})
		})

		Convey("When passing empty option values", func() {
			manager := NewManager(
				WithNamespace(""),
				WithSubsystem(""),
				WithHistogramBuckets(nil),
				WithPrometheusRegistry(prometheus.NewRegistry()),
			)

			Convey("Then the defaults should be kept", func() {
				So(manager.namespace, ShouldEqual, "roommatch")
				So(manager.subsystem, ShouldEqual, "matching")
				So(manager.histogramBuckets, ShouldResemble, prometheus.DefBuckets)
			})
		})
	})
}

func TestMetricsRecording(t *testing.T) {
	Convey("Given the global metrics", t, func() {
		Convey("When recording matching activity", func() {
			pairs := testutil.ToFloat64(globalManager.pairsScored)
			requests := testutil.ToFloat64(globalManager.matchRequests)
			incomplete := testutil.ToFloat64(globalManager.incompleteRejections)

			RecordPairsScored(25)
			RecordMatchRequest(25, 1.5)
			RecordIncompleteProfile()
			RecordCompatibilityCheck()

			Convey("Then the counters should move", func() {
				So(testutil.ToFloat64(globalManager.pairsScored), ShouldEqual, pairs+25)
				So(testutil.ToFloat64(globalManager.matchRequests), ShouldEqual, requests+1)
				So(testutil.ToFloat64(globalManager.incompleteRejections), ShouldEqual, incomplete+1)
			})
		})

		Convey("When recording profile activity", func() {
			saved := testutil.ToFloat64(globalManager.savedMatches)

			UpdateProfilesTotal(42)
			RecordProfileUpsert()
			RecordProfileDelete()
			RecordSavedMatch()
			RecordUnmatch()

			Convey("Then gauges and counters should reflect it", func() {
				So(testutil.ToFloat64(globalManager.profilesTotal), ShouldEqual, 42)
				So(testutil.ToFloat64(globalManager.savedMatches), ShouldEqual, saved+1)
			})
		})

		Convey("When recording HTTP, repository and error metrics", func() {
			Convey("Then labelled series should be created", func() {
				RecordHTTPRequest("/matches", "GET", "200")
				RecordHTTPRequestDuration("/matches", "GET", "200", 3.2)
				UpdateRepositoryRecords("profiles", 7)
				RecordRepositoryQueryLatency("memory", "get", 0.1)
				RecordRepositoryUpdateLatency("memory", "put", 0.2)
				RecordErrorByComponent("api", "not_found")
				RecordErrorByEndpoint("/matches", "GET", "bad_request")

				So(testutil.ToFloat64(globalManager.httpRequests.WithLabelValues("/matches", "GET", "200")), ShouldBeGreaterThanOrEqualTo, 1)
				So(testutil.ToFloat64(globalManager.repositoryRecords.WithLabelValues("profiles")), ShouldEqual, 7)
				So(testutil.CollectAndCount(globalManager.errorRateByComponent), ShouldBeGreaterThanOrEqualTo, 1)
			})
		})

		Convey("When recording system metrics", func() {
			Convey("Then it should not panic", func() {
				So(func() {
					UpdateSystemMemoryUsage(1024 * 1024)
					UpdateSystemGoroutineCount(12)
					RecordSystemGCPauseTime(0.4)
				}, ShouldNotPanic)
				So(testutil.ToFloat64(globalManager.systemGoroutineCount), ShouldEqual, 12)
			})
		})
	})
}

func TestGetRegistry(t *testing.T) {
	Convey("Given the custom registry", t, func() {
		Convey("Then it should expose the global metrics", func() {
			RecordPairsScored(1)
			families, err := GetRegistry().Gather()
			So(err, ShouldBeNil)
			So(families, ShouldNotBeEmpty)
		})
	})
}

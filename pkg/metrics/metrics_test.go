package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	. "github.com/smartystreets/goconvey/convey"
)

func TestMetricsOptions(t *testing.T) {
	Convey("Given metrics options", t, func() {
		Convey("When creating options", func() {
			namespaceOpt := WithNamespace("test-namespace")
			subsystemOpt := WithSubsystem("test-subsystem")
			histogramBucketsOpt := WithHistogramBuckets([]float64{0.1, 0.5, 1.0})
			registryOpt := WithPrometheusRegistry(prometheus.NewRegistry())

			Convey("Then they should be valid functions", func() {
				So(namespaceOpt, ShouldNotBeNil)
				So(subsystemOpt, ShouldNotBeNil)
				So(histogramBucketsOpt, ShouldNotBeNil)
				So(registryOpt, ShouldNotBeNil)
			})
		})
	})
}

func TestManagerCreation(t *testing.T) {
	Convey("Given manager creation", t, func() {
		Convey("When creating with default options", func() {
			manager := NewManager(WithPrometheusRegistry(prometheus.NewRegistry()))

			Convey("Then it should be created successfully", func() {
				So(manager, ShouldNotBeNil)
			})
		})

		Convey("When creating with custom options", func() {
			manager := NewManager(
				WithNamespace("test-namespace"),
				WithSubsystem("test-subsystem"),
				WithHistogramBuckets([]float64{0.1, 0.5, 1.0}),
				WithPrometheusRegistry(prometheus.NewRegistry()),
			)

			Convey("Then it should be created successfully", func() {
				So(manager, ShouldNotBeNil)
			})
		})
	})
}

func TestMetricsRecording(t *testing.T) {
	Convey("Given metrics recording", t, func() {
		Convey("When recording ranking metrics", func() {
			Convey("Then it should record served recommendations", func() {
				So(func() {
					RecordRecommendationServed(false)
					RecordRecommendationServed(true)
				}, ShouldNotPanic)
			})

			Convey("And it should record ranking latency", func() {
				So(func() {
					RecordRankingLatency(10.0)
					RecordRankingLatency(25.0)
				}, ShouldNotPanic)
			})

			Convey("And it should record provider activity", func() {
				So(func() {
					RecordProviderFetch(42)
					RecordProviderError("timeout")
				}, ShouldNotPanic)
			})
		})

		Convey("When recording refresh metrics", func() {
			So(func() {
				RecordRefreshDenied()
				RecordRefreshCommitted()
				RecordRefreshRaceLost()
			}, ShouldNotPanic)
		})

		Convey("When recording schedule metrics", func() {
			So(func() {
				RecordScheduleProposal("scheduled")
				RecordScheduleProposal("tight")
				RecordScheduleProposal("conflict")
				RecordValidateCheck(true)
				RecordValidateCheck(false)
			}, ShouldNotPanic)
		})

		Convey("When recording feedback metrics", func() {
			So(func() {
				RecordFeedbackApplied(true)
				RecordFeedbackApplied(false)
				RecordFeedbackDuplicate()
				RecordFeedbackApplyError()
				RecordFeedbackApplyLatency(3.5)
				RecordFeedbackEnqueueError("queue_full")
			}, ShouldNotPanic)
		})

		Convey("When updating operational gauges", func() {
			So(func() {
				UpdateFeedbackQueueSize(100)
				UpdateFeedbackQueueCapacity(10_000)
				UpdateFeedbackWorkerCount(8)
				UpdateRankCacheUsers(50)
				UpdateRankCacheShards(8)
			}, ShouldNotPanic)
		})

		Convey("When recording HTTP metrics", func() {
			So(func() {
				RecordHTTPRequest("recommendations", "GET", "200")
				RecordHTTPRequestDuration("recommendations", "GET", "200", 12.0)
			}, ShouldNotPanic)
		})

		Convey("When updating system metrics", func() {
			So(func() {
				UpdateSystemMemoryUsage(1 << 20)
				UpdateSystemGoroutineCount(32)
				RecordSystemGCPauseTime(0.25)
			}, ShouldNotPanic)
		})
	})
}

func TestGetRegistry(t *testing.T) {
	Convey("Given the package-level manager", t, func() {
		Convey("When fetching the registry", func() {
			registry := GetRegistry()

			Convey("Then it should gather without error", func() {
				So(registry, ShouldNotBeNil)
				families, err := registry.Gather()
				So(err, ShouldBeNil)
				So(len(families), ShouldBeGreaterThan, 0)
			})
		})
	})
}

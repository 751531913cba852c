package metrics

import (
	"context"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	. "github.com/smartystreets/goconvey/convey"
)

// sample sums every series of the named family.
func sample(reg *prometheus.Registry, name string) float64 {
	families, err := reg.Gather()
	So(err, ShouldBeNil)
	total := 0.0
	for _, f := range families {
		if f.GetName() != name {
			continue
		}
		for _, m := range f.GetMetric() {
			switch {
			case m.GetCounter() != nil:
				total += m.GetCounter().GetValue()
			case m.GetGauge() != nil:
				total += m.GetGauge().GetValue()
			case m.GetHistogram() != nil:
				total += float64(m.GetHistogram().GetSampleCount())
			}
		}
	}
	return total
}

func TestManager(t *testing.T) {
	Convey("Given a manager on a private registry", t, func() {
		reg := prometheus.NewRegistry()
		m := NewManager(WithPrometheusRegistry(reg), WithNamespace("t"), WithSubsystem("p"))

		Convey("When a channel connects and drops", func() {
			m.RecordStateTransition("idle", "listening")
			m.RecordStateTransition("listening", "connected")
			m.RecordStateTransition("connected", "retrying")
			m.RecordStateTransition("retrying", "error")

			Convey("Then transitions, connected gauge and errors are tracked", func() {
				So(sample(reg, "t_p_state_transitions_total"), ShouldEqual, 4)
				So(sample(reg, "t_p_channels_connected"), ShouldEqual, 0)
				So(sample(reg, "t_p_channel_errors_total"), ShouldEqual, 1)
			})
		})

		Convey("When traffic flows", func() {
			m.RecordConnectAttempt("guest", true)
			m.RecordConnectAttempt("guest", false)
			m.RecordMessageSent("ANSWER_SUMMARY")
			m.RecordMessageDropped("ANSWER_SUMMARY", "not_connected")
			m.RecordMessageReceived("PAIR_RESULT", time.Millisecond)
			m.RecordMessageDiscarded()
			m.RecordPairComputed("sync-strong")
			m.RecordPairDuplicate()
			m.RecordDecodeError("version")

			Convey("Then every counter moves", func() {
				So(sample(reg, "t_p_connect_attempts_total"), ShouldEqual, 2)
				So(sample(reg, "t_p_connect_failures_total"), ShouldEqual, 1)
				So(sample(reg, "t_p_messages_sent_total"), ShouldEqual, 1)
				So(sample(reg, "t_p_messages_dropped_total"), ShouldEqual, 1)
				So(sample(reg, "t_p_messages_received_total"), ShouldEqual, 1)
				So(sample(reg, "t_p_dispatch_latency_milliseconds"), ShouldEqual, 1)
				So(sample(reg, "t_p_messages_discarded_total"), ShouldEqual, 1)
				So(sample(reg, "t_p_pair_computations_total"), ShouldEqual, 1)
				So(sample(reg, "t_p_duo_variants_total"), ShouldEqual, 1)
				So(sample(reg, "t_p_pair_duplicates_total"), ShouldEqual, 1)
				So(sample(reg, "t_p_decode_errors_total"), ShouldEqual, 1)
			})
		})

		Convey("When queues report", func() {
			m.UpdateQueue("inbox", 3, 16)
			m.RecordQueueEnqueue("inbox")
			m.RecordQueueDequeue("inbox")
			m.RecordQueueEnqueueError("inbox", "full")

			So(sample(reg, "t_p_queue_size"), ShouldEqual, 3)
			So(sample(reg, "t_p_queue_capacity"), ShouldEqual, 16)
			So(sample(reg, "t_p_queue_enqueue_errors_total"), ShouldEqual, 1)
			So(sample(reg, "t_p_errors_by_component_total"), ShouldEqual, 1)
		})

		Convey("When system metrics are collected", func() {
			ctx, cancel := context.WithCancel(context.Background())
			m.StartSystemCollector(ctx)
			cancel()
			m.UpdateSystemMetrics()
			So(sample(reg, "t_p_system_goroutine_count"), ShouldBeGreaterThan, 0)
		})
	})

	Convey("Given a disabled manager with a prefix and labels", t, func() {
		reg := prometheus.NewRegistry()
		m := NewManager(
			WithPrometheusRegistry(reg),
			WithMetricsEnabled(false),
			WithMetricPrefix("x_"),
			WithCustomLabels(map[string]string{"env": "test"}),
			WithHistogramBuckets([]float64{1, 5}),
			WithRefreshInterval(time.Second),
		)
		m.RecordMessageSent("PAIR_RESULT")
		m.RecordHTTPRequest("/healthz", "GET", "200", 1)

		So(m.Enabled(), ShouldBeFalse)
		So(sample(reg, "duoquiz_pairing_x_messages_sent_total"), ShouldEqual, 0)
	})
}

func TestGlobal(t *testing.T) {
	Convey("The package-level helpers record on the global registry", t, func() {
		before := sample(GetRegistry(), "duoquiz_pairing_pair_computations_total")
		RecordPairComputed("drift-stable")
		So(sample(GetRegistry(), "duoquiz_pairing_pair_computations_total"), ShouldEqual, before+1)
		So(Global(), ShouldNotBeNil)

		So(func() {
			RecordStateTransition("idle", "connecting")
			RecordConnectAttempt("owner", false)
			RecordRetryScheduled()
			RecordMessageSent("PAIR_RESULT")
			RecordMessageDropped("PAIR_RESULT", "not_connected")
			RecordMessageReceived("PAIR_RESULT", 0)
			RecordMessageDiscarded()
			RecordDecodeError("malformed")
			RecordPairDuplicate()
			AddActiveSessions(1)
			AddActiveSessions(-1)
			RecordHTTPRequest("/types", "GET", "200", 0.5)
			UpdateQueue("outbox", 0, 4)
			RecordQueueEnqueue("outbox")
			RecordQueueDequeue("outbox")
			RecordQueueEnqueueError("outbox", "closed")
			RecordErrorByComponent("api", "decode")
		}, ShouldNotPanic)
	})
}

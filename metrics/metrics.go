package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	DispatchTicks = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "habitflow_dispatch_ticks_total",
		Help: "Total number of reminder dispatch ticks executed",
	})
	DispatchTicksSkipped = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "habitflow_dispatch_ticks_skipped_total",
		Help: "Ticks skipped because the previous tick was still running",
	})
	RemindersDispatched = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "habitflow_reminders_dispatched_total",
		Help: "Reminders claimed and handed to the push transport",
	})
	NotificationsSent = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "habitflow_notifications_sent_total",
		Help: "Per-token notification deliveries reported successful",
	})
	NotificationsFailed = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "habitflow_notifications_failed_total",
		Help: "Per-token notification deliveries reported failed",
	})
	TokensPruned = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "habitflow_tokens_pruned_total",
		Help: "Delivery tokens deleted after the transport reported them invalid",
	})
)

func init() {
	prometheus.MustRegister(
		DispatchTicks,
		DispatchTicksSkipped,
		RemindersDispatched,
		NotificationsSent,
		NotificationsFailed,
		TokensPruned,
	)
}

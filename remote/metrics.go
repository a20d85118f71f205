package remote

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/looptunes/looptunes/stream"
)

type metrics struct {
	requests     *prometheus.CounterVec
	replyLatency *prometheus.HistogramVec
	queueFull    prometheus.Counter
}

// newMetrics registers the stream and engine counters, read on every scrape,
// and the request metrics of the server.
func newMetrics(reg *prometheus.Registry, e Engine, backend *stream.Backend, source *stream.Source) *metrics {
	f := promauto.With(reg)
	f.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "looptunes_queue_samples",
		Help: "Samples waiting in the audio queue",
	}, func() float64 { return float64(backend.Queued()) })
	f.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "looptunes_queue_capacity_samples",
		Help: "Capacity of the audio queue",
	}, func() float64 { return float64(backend.Capacity()) })
	f.NewCounterFunc(prometheus.CounterOpts{
		Name: "looptunes_dropped_samples_total",
		Help: "Samples dropped because the audio queue was full",
	}, func() float64 { return float64(backend.Dropped()) })
	if source != nil {
		f.NewCounterFunc(prometheus.CounterOpts{
			Name: "looptunes_underrun_samples_total",
			Help: "Samples synthesized by decay because the audio queue was empty",
		}, func() float64 { return float64(source.Underruns()) })
		f.NewCounterFunc(prometheus.CounterOpts{
			Name: "looptunes_played_samples_total",
			Help: "Queued samples consumed by the audio device",
		}, func() float64 { return float64(source.Consumed()) })
	}
	f.NewCounterFunc(prometheus.CounterOpts{
		Name: "looptunes_ticks_total",
		Help: "Engine loop iterations",
	}, func() float64 { return float64(e.Stats().Ticks) })
	f.NewCounterFunc(prometheus.CounterOpts{
		Name: "looptunes_chunks_total",
		Help: "Audio chunks rendered",
	}, func() float64 { return float64(e.Stats().Chunks) })
	f.NewCounterFunc(prometheus.CounterOpts{
		Name: "looptunes_skipped_ticks_total",
		Help: "Ticks that found no room in the audio queue",
	}, func() float64 { return float64(e.Stats().Skipped) })
	f.NewCounterFunc(prometheus.CounterOpts{
		Name: "looptunes_failed_events_total",
		Help: "Events the engine could not carry out",
	}, func() float64 { return float64(e.Stats().Failed) })
	return &metrics{
		requests: f.NewCounterVec(prometheus.CounterOpts{
			Name: "looptunes_http_requests_total",
			Help: "Remote control requests by route and status",
		}, []string{"route", "status"}),
		replyLatency: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "looptunes_event_reply_seconds",
			Help:    "Time from sending an event to the engine's reply",
			Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5},
		}, []string{"event"}),
		queueFull: f.NewCounter(prometheus.CounterOpts{
			Name: "looptunes_event_queue_full_total",
			Help: "Remote requests rejected because the event queue was full",
		}),
	}
}

package metrics

import (
	"sort"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"gonum.org/v1/gonum/stat"
)

// Metrics records per-frame tracking outcomes
type Metrics struct {
	mu        sync.Mutex
	latencies []float64

	frames         prometheus.Counter
	updates        *prometheus.CounterVec
	updateDuration prometheus.Histogram
	activeTargets  prometheus.Gauge
}

// New creates the collectors and registers them with reg
func New(reg prometheus.Registerer, buckets []float64) *Metrics {
	if buckets == nil {
		buckets = prometheus.DefBuckets
	}

	m := &Metrics{
		frames: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "roitrack_frames_total",
			Help: "Frames read from the video source and processed.",
		}),
		updates: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "roitrack_tracker_updates_total",
			Help: "Tracker update calls by outcome.",
		}, []string{"result"}),
		updateDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "roitrack_tracker_update_seconds",
			Help:    "Time spent updating all trackers for one frame.",
			Buckets: buckets,
		}),
		activeTargets: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "roitrack_active_targets",
			Help: "Number of targets being tracked.",
		}),
	}

	reg.MustRegister(m.frames, m.updates, m.updateDuration, m.activeTargets)
	return m
}

// ObserveUpdate records one frame's tracker update
func (m *Metrics) ObserveUpdate(elapsed time.Duration, ok bool, targets int) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.frames.Inc()
	result := "ok"
	if !ok {
		result = "lost"
	}
	m.updates.WithLabelValues(result).Inc()
	m.updateDuration.Observe(elapsed.Seconds())
	m.activeTargets.Set(float64(targets))
	m.latencies = append(m.latencies, elapsed.Seconds())
}

// Summary condenses update latencies for the end-of-run report
type Summary struct {
	Count  int
	Mean   time.Duration
	StdDev time.Duration
	P95    time.Duration
}

// Summary returns statistics over every observed update
func (m *Metrics) Summary() Summary {
	m.mu.Lock()
	defer m.mu.Unlock()
	return Summarize(m.latencies)
}

// Summarize computes mean, standard deviation and 95th percentile of
// latencies given in seconds.
func Summarize(latencies []float64) Summary {
	if len(latencies) == 0 {
		return Summary{}
	}
	sorted := make([]float64, len(latencies))
	copy(sorted, latencies)
	sort.Float64s(sorted)

	mean, std := stat.MeanStdDev(sorted, nil)
	if len(sorted) < 2 {
		std = 0
	}
	p95 := stat.Quantile(0.95, stat.Empirical, sorted, nil)

	return Summary{
		Count:  len(sorted),
		Mean:   seconds(mean),
		StdDev: seconds(std),
		P95:    seconds(p95),
	}
}

func seconds(v float64) time.Duration {
	return time.Duration(v * float64(time.Second))
}

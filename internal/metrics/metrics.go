// Package metrics exposes dashboard load, export and deadline metrics to
// Prometheus.
package metrics

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"campaigndash/internal/deadline"
)

const namespace = "dashboard"

var (
	deadlineItemsDesc = prometheus.NewDesc(
		namespace+"_deadline_items",
		"Rows of the current dataset by deadline label",
		[]string{"label"},
		nil,
	)
	criticalItemsDesc = prometheus.NewDesc(
		namespace+"_critical_items",
		"Rows of the current dataset with a critical deadline",
		nil,
		nil,
	)
)

// SummaryFunc returns the deadline summary of the dataset currently cached,
// or false when nothing is cached or it has no deadline column.
type SummaryFunc func() (deadline.Summary, bool)

// DeadlineCollector is a custom Prometheus collector that reads the deadline
// distribution of the cached dataset on each scrape.
type DeadlineCollector struct {
	summary SummaryFunc
}

// Describe sends the metric descriptors to the channel.
func (c *DeadlineCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- deadlineItemsDesc
	ch <- criticalItemsDesc
}

// Collect emits one gauge per label, zero for labels absent from the data.
func (c *DeadlineCollector) Collect(ch chan<- prometheus.Metric) {
	s, ok := c.summary()
	if !ok {
		return
	}
	for _, l := range deadline.Labels {
		ch <- prometheus.MustNewConstMetric(
			deadlineItemsDesc,
			prometheus.GaugeValue,
			float64(s.Count(l)),
			l.Slug(),
		)
	}
	ch <- prometheus.MustNewConstMetric(criticalItemsDesc, prometheus.GaugeValue, float64(s.Critical))
}

// Recorder records source loads and exports. It implements the loader's
// observer.
type Recorder struct {
	loads    *prometheus.CounterVec
	duration *prometheus.HistogramVec
	rows     *prometheus.GaugeVec
	exports  *prometheus.CounterVec
}

// NewRecorder creates the collectors and registers them, plus a
// DeadlineCollector over summary when it is not nil.
func NewRecorder(reg prometheus.Registerer, summary SummaryFunc) *Recorder {
	r := &Recorder{
		loads: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "source_loads_total",
			Help:      "Dataset loads by source and outcome",
		}, []string{"source", "outcome"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "source_load_duration_seconds",
			Help:      "Time spent fetching and parsing the worksheet",
			Buckets:   []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		}, []string{"source"}),
		rows: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "dataset_rows",
			Help:      "Rows in the last dataset loaded from each source",
		}, []string{"source"}),
		exports: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "exports_total",
			Help:      "File exports by format and scope",
		}, []string{"format", "scope"}),
	}
	reg.MustRegister(r.loads, r.duration, r.rows, r.exports)
	if summary != nil {
		reg.MustRegister(&DeadlineCollector{summary: summary})
	}
	return r
}

// ObserveLoad records the outcome of one fetch.
func (r *Recorder) ObserveLoad(source, outcome string, d time.Duration, rows int) {
	r.loads.WithLabelValues(source, outcome).Inc()
	r.duration.WithLabelValues(source).Observe(d.Seconds())
	if outcome == "ok" {
		r.rows.WithLabelValues(source).Set(float64(rows))
	}
}

// RecordExport counts one downloaded export.
func (r *Recorder) RecordExport(format, scope string) {
	r.exports.WithLabelValues(format, scope).Inc()
}

var (
	recorder     *Recorder
	recorderOnce sync.Once
)

// Init registers the collectors with the default registry. Only the first
// call registers; later calls return the same recorder.
func Init(summary SummaryFunc) *Recorder {
	recorderOnce.Do(func() {
		recorder = NewRecorder(prometheus.DefaultRegisterer, summary)
	})
	return recorder
}

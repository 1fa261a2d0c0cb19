package listsync

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics are prometheus collectors for a Controller. A nil *Metrics records nothing.
type Metrics struct {
	updates   *prometheus.CounterVec
	rowOps    *prometheus.CounterVec
	reconcile prometheus.Histogram
	refreshes prometheus.Counter
}

// NewMetrics creates the collectors and registers them with reg.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		updates: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "listsync_updates_total",
			Help: "Snapshot updates by strategy.",
		}, []string{"strategy"}),
		rowOps: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "listsync_row_operations_total",
			Help: "Row operations issued to the widget in batches, by kind.",
		}, []string{"op"}),
		reconcile: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "listsync_reconcile_duration_seconds",
			Help:    "Time spent reconciling snapshots.",
			Buckets: prometheus.ExponentialBuckets(0.00005, 4, 8),
		}),
		refreshes: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "listsync_content_refreshes_total",
			Help: "Rows reconfigured by the content refresh pass.",
		}),
	}
	for _, c := range []prometheus.Collector{m.updates, m.rowOps, m.reconcile, m.refreshes} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

func (m *Metrics) observeUpdate(s Strategy) {
	if m == nil {
		return
	}
	m.updates.WithLabelValues(s.String()).Inc()
}

func (m *Metrics) observeRowOps(op string, n int) {
	if m == nil || n == 0 {
		return
	}
	m.rowOps.WithLabelValues(op).Add(float64(n))
}

func (m *Metrics) observeReconcile(d time.Duration) {
	if m == nil {
		return
	}
	m.reconcile.Observe(d.Seconds())
}

func (m *Metrics) observeRefreshes(n int) {
	if m == nil || n == 0 {
		return
	}
	m.refreshes.Add(float64(n))
}

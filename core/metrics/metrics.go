// Package metrics exposes ledger counters in the Prometheus format.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "goblin"

// Metrics is safe to use as a nil pointer; every method is then a no-op.
type Metrics struct {
	registry *prometheus.Registry

	blocksMined     prometheus.Counter
	miningSeconds   prometheus.Histogram
	txSubmitted     prometheus.Counter
	txRejected      *prometheus.CounterVec
	chainLength     prometheus.Gauge
	pendingTxs      prometheus.Gauge
	miningCancelled prometheus.Counter
}

func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		blocksMined: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "blocks_mined_total",
			Help:      "Blocks appended by this node's miner.",
		}),
		miningSeconds: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "mining_duration_seconds",
			Help:      "Time spent searching for a proof.",
			Buckets:   prometheus.ExponentialBuckets(0.005, 2, 12),
		}),
		txSubmitted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "transactions_submitted_total",
			Help:      "Transactions accepted into the pool.",
		}),
		txRejected: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "transactions_rejected_total",
			Help:      "Transactions rejected before reaching the pool.",
		}, []string{"reason"}),
		chainLength: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "chain_length",
			Help:      "Number of committed blocks.",
		}),
		pendingTxs: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "pending_transactions",
			Help:      "Transactions waiting for the next block.",
		}),
		miningCancelled: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "mining_cancelled_total",
			Help:      "Proof searches abandoned because the caller went away.",
		}),
	}
	m.registry.MustRegister(
		m.blocksMined,
		m.miningSeconds,
		m.txSubmitted,
		m.txRejected,
		m.chainLength,
		m.pendingTxs,
		m.miningCancelled,
	)
	return m
}

func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *Metrics) BlockMined(took time.Duration, chainLen int) {
	if m == nil {
		return
	}
	m.blocksMined.Inc()
	m.miningSeconds.Observe(took.Seconds())
	m.chainLength.Set(float64(chainLen))
	m.pendingTxs.Set(0)
}

func (m *Metrics) MiningCancelled() {
	if m == nil {
		return
	}
	m.miningCancelled.Inc()
}

func (m *Metrics) TxSubmitted(pending int) {
	if m == nil {
		return
	}
	m.txSubmitted.Inc()
	m.pendingTxs.Set(float64(pending))
}

func (m *Metrics) TxRejected(reason string) {
	if m == nil {
		return
	}
	m.txRejected.WithLabelValues(reason).Inc()
}

func (m *Metrics) ChainLength(n int) {
	if m == nil {
		return
	}
	m.chainLength.Set(float64(n))
}

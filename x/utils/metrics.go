package utils

import (
	"strconv"
	"time"

	"github.com/iov-one/weave-swap"
	"github.com/iov-one/weave-swap/errors"
	"github.com/prometheus/client_golang/prometheus"
)

const (
	successLabel = "success"
	failLabel    = "fail"
)

// Metrics is a decorator that counts processed transactions and measures
// their processing time, labeled by the message path, the phase (check or
// deliver) and the result.
type Metrics struct {
	txs      *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

var _ weave.Decorator = (*Metrics)(nil)

// NewMetrics creates a Metrics decorator and registers its collectors with
// given registerer. It panics if the collectors are already registered.
func NewMetrics(namespace string, reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		txs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "transactions_total",
			Help:      "Number of processed transactions.",
		}, []string{"path", "phase", "result", "code"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "transaction_duration_seconds",
			Help:      "Transaction processing time.",
			Buckets:   prometheus.ExponentialBuckets(0.0001, 4, 8),
		}, []string{"path", "phase"}),
	}
	reg.MustRegister(m.txs, m.duration)
	return m
}

// Check observes the wrapped call.
func (m *Metrics) Check(ctx weave.Context, store weave.KVStore, tx weave.Tx, next weave.Checker) (*weave.CheckResult, error) {
	start := time.Now()
	res, err := next.Check(ctx, store, tx)
	m.observe(tx, "check", start, err)
	return res, err
}

// Deliver observes the wrapped call.
func (m *Metrics) Deliver(ctx weave.Context, store weave.KVStore, tx weave.Tx, next weave.Deliverer) (*weave.DeliverResult, error) {
	start := time.Now()
	res, err := next.Deliver(ctx, store, tx)
	m.observe(tx, "deliver", start, err)
	return res, err
}

func (m *Metrics) observe(tx weave.Tx, phase string, start time.Time, err error) {
	path := weave.GetPath(tx)
	result := successLabel
	code, _ := errors.ABCIInfo(err, false)
	if err != nil {
		result = failLabel
	}
	m.txs.WithLabelValues(path, phase, result, codeLabel(code)).Inc()
	m.duration.WithLabelValues(path, phase).Observe(time.Since(start).Seconds())
}

func codeLabel(code uint32) string {
	return strconv.FormatUint(uint64(code), 10)
}

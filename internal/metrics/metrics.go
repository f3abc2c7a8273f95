package metrics

import (
	"time"

	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/pborges/qmin/internal/qm"
)

const (
	OutcomeLabel = "outcome"

	OutcomeSuccess           = "success"
	OutcomeInvalidInput      = "invalid_input"
	OutcomeResourceExhausted = "resource_exhausted"
	OutcomeError             = "error"
)

// Recorder collects minimization metrics in its own registry so several
// runs in one process never share state.
type Recorder struct {
	registry *prometheus.Registry

	minimizations *prometheus.CounterVec
	primes        prometheus.Histogram
	covers        prometheus.Histogram
	cost          prometheus.Histogram
	duration      prometheus.Histogram
}

func NewRecorder() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		minimizations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "qmin_minimizations_total",
				Help: "Count of minimization runs by outcome",
			},
			[]string{OutcomeLabel},
		),
		primes: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "qmin_prime_implicants",
			Help:    "Number of prime implicants per minimized function",
			Buckets: prometheus.ExponentialBuckets(1, 2, 12),
		}),
		covers: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "qmin_covers",
			Help:    "Number of minimum covers found by Petrick's method",
			Buckets: prometheus.ExponentialBuckets(1, 2, 10),
		}),
		cost: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "qmin_cover_cost",
			Help:    "Gate-input cost of the cheapest cover",
			Buckets: prometheus.ExponentialBuckets(2, 2, 12),
		}),
		duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "qmin_minimize_duration_seconds",
			Help:    "Time spent minimizing one function",
			Buckets: prometheus.DefBuckets,
		}),
	}
	r.registry.MustRegister(r.minimizations, r.primes, r.covers, r.cost, r.duration)
	for _, o := range []string{OutcomeSuccess, OutcomeInvalidInput, OutcomeResourceExhausted, OutcomeError} {
		r.minimizations.WithLabelValues(o)
	}
	return r
}

func (r *Recorder) Registry() *prometheus.Registry { return r.registry }

// Observe records one run. A nil Recorder ignores everything.
func (r *Recorder) Observe(res *qm.Result, err error, d time.Duration) {
	if r == nil {
		return
	}
	r.minimizations.WithLabelValues(Outcome(err)).Inc()
	r.duration.Observe(d.Seconds())
	if err != nil || res == nil {
		return
	}
	r.primes.Observe(float64(len(res.Primes)))
	r.covers.Observe(float64(len(res.Covers)))
	if len(res.Cheapest) > 0 {
		r.cost.Observe(float64(res.Cheapest[0].Cost))
	}
}

// Outcome classifies a minimization error for the outcome label.
func Outcome(err error) string {
	switch {
	case err == nil:
		return OutcomeSuccess
	case errors.Is(err, qm.ErrResourceExhausted):
		return OutcomeResourceExhausted
	case errors.Is(err, qm.ErrInvalidTermValue), errors.Is(err, qm.ErrInvalidWidth):
		return OutcomeInvalidInput
	}
	return OutcomeError
}

// WriteTextfile writes the current values in the node exporter textfile
// format.
func (r *Recorder) WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, r.registry)
}

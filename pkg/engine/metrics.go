package engine

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	evaluations = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "geomkit",
		Subsystem: "engine",
		Name:      "evaluations_total",
		Help:      "Number of program evaluations by outcome.",
	}, []string{"outcome"})

	evaluationSeconds = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "geomkit",
		Subsystem: "engine",
		Name:      "evaluation_duration_seconds",
		Help:      "Wall time of program evaluations, including timeouts.",
		Buckets:   prometheus.ExponentialBuckets(0.0005, 4, 10),
	})
)

const (
	outcomeOK        = "ok"
	outcomeEvalError = "eval_error"
	outcomeFatal     = "fatal"
)

func observeEvaluation(start time.Time, evalErrs []EvalError, err error) {
	evaluationSeconds.Observe(time.Since(start).Seconds())
	switch {
	case err != nil:
		evaluations.WithLabelValues(outcomeFatal).Inc()
	case len(evalErrs) > 0:
		evaluations.WithLabelValues(outcomeEvalError).Inc()
	default:
		evaluations.WithLabelValues(outcomeOK).Inc()
	}
}

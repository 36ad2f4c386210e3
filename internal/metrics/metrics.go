// Copyright 2024 ChainSafe Systems (ON)
// SPDX-License-Identifier: LGPL-3.0-only

package metrics

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/ChainSafe/grandpa-bridge/internal/log"
	"github.com/ChainSafe/grandpa-bridge/pkg/header-chain/justification"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"
)

const namespace = "grandpa_bridge"

// Verification results.
const (
	ResultAccepted = "accepted"
	ResultRejected = "rejected"
)

var logger log.LeveledLogger = log.NewFromGlobal(log.AddContext("pkg", "metrics"))

// Verifications collects metrics about justification verifications.
type Verifications struct {
	registry  *prometheus.Registry
	total     *prometheus.CounterVec
	duration  prometheus.Histogram
	optimized prometheus.Counter
}

// NewVerifications creates the verification metrics in their own registry.
func NewVerifications() *Verifications {
	v := &Verifications{
		registry: prometheus.NewRegistry(),
		total: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "justification",
			Name:      "verifications_total",
			Help:      "Number of verified justifications by result and rejection reason.",
		}, []string{"result", "reason"}),
		duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "justification",
			Name:      "verification_duration_seconds",
			Help:      "Time taken to verify a justification.",
			Buckets:   prometheus.ExponentialBuckets(0.0001, 4, 8),
		}),
		optimized: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "justification",
			Name:      "optimized_total",
			Help:      "Number of justifications rewritten without unneeded precommits and ancestries.",
		}),
	}
	v.registry.MustRegister(v.total, v.duration, v.optimized)
	return v
}

// ObserveVerification records the outcome of a verification.
func (v *Verifications) ObserveVerification(err error, duration time.Duration) {
	v.duration.Observe(duration.Seconds())
	if err != nil {
		v.total.WithLabelValues(ResultRejected, Reason(err)).Inc()
		return
	}
	v.total.WithLabelValues(ResultAccepted, "").Inc()
}

// ObserveOptimization records a justification written in its optimized form.
func (v *Verifications) ObserveOptimization() {
	v.optimized.Inc()
}

// WriteText writes the metrics in the Prometheus text exposition format.
func (v *Verifications) WriteText(writer io.Writer) error {
	families, err := v.registry.Gather()
	if err != nil {
		return fmt.Errorf("gathering metrics: %w", err)
	}

	encoder := expfmt.NewEncoder(writer, expfmt.FmtText)
	for _, family := range families {
		err = encoder.Encode(family)
		if err != nil {
			return fmt.Errorf("encoding metric family %s: %w", family.GetName(), err)
		}
	}
	logger.Debugf("wrote %d metric families", len(families))
	return nil
}

// Reason returns the rejection reason label of a verification error.
func Reason(err error) string {
	switch {
	case errors.Is(err, justification.ErrInvalidJustificationTarget):
		return "invalid_target"
	case errors.Is(err, justification.ErrDuplicateVotesAncestries):
		return "duplicate_votes_ancestries"
	case errors.Is(err, justification.ErrRedundantVotesAncestries):
		return "redundant_votes_ancestries"
	case errors.Is(err, justification.ErrTooLowCumulativeWeight):
		return "too_low_cumulative_weight"
	case errors.Is(err, justification.ErrUnknownAuthority):
		return "unknown_authority"
	case errors.Is(err, justification.ErrDuplicateAuthorityVote):
		return "duplicate_authority_vote"
	case errors.Is(err, justification.ErrInvalidAuthoritySignature):
		return "invalid_authority_signature"
	case errors.Is(err, justification.ErrJustificationTooLarge):
		return "too_large"
	default:
		return "other"
	}
}

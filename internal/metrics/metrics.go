// Package metrics defines the console's prometheus collectors.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Outcome label values.
const (
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
)

var (
	// RegistryRefreshes counts rule list fetches by outcome, including the
	// periodic background refresh.
	RegistryRefreshes = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "console",
		Subsystem: "registry",
		Name:      "refreshes_total",
		Help:      "Alert rule list fetches, by outcome.",
	}, []string{"outcome"})

	// RuleSubmissions counts create/update submissions by outcome.
	RuleSubmissions = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "console",
		Subsystem: "editor",
		Name:      "submissions_total",
		Help:      "Alert rule create/update submissions, by outcome.",
	}, []string{"outcome"})

	// RuleResets counts operator-initiated reset requests by outcome.
	RuleResets = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "console",
		Subsystem: "registry",
		Name:      "resets_total",
		Help:      "Alert rule reset requests, by outcome.",
	}, []string{"outcome"})

	// RuleDeletions counts delete requests by outcome.
	RuleDeletions = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "console",
		Subsystem: "registry",
		Name:      "deletions_total",
		Help:      "Alert rule delete requests, by outcome.",
	}, []string{"outcome"})
)

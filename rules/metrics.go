// Copyright 2019 eBay Inc.
// Primary authors: Simon Fell, Diego Ongaro,
//                  Raymond Kroeker, and Sathish Kandasamy.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
// https://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package rules

import (
	metricsutil "github.com/ebay/entail/util/metrics"
	"github.com/prometheus/client_golang/prometheus"
)

type rulesMetrics struct {
	runDurationSeconds prometheus.Summary
	passesTotal        prometheus.Counter
	skippedTotal       prometheus.Counter
	firingsTotal       *prometheus.CounterVec
	derivedFactsTotal  *prometheus.CounterVec
}

var metrics rulesMetrics

func init() {
	mr := metricsutil.Registry{R: prometheus.DefaultRegisterer}
	metrics = rulesMetrics{
		runDurationSeconds: mr.NewSummary(prometheus.SummaryOpts{
			Namespace:  "entail",
			Subsystem:  "rules",
			Name:       "run_duration_seconds",
			Help:       `The time it takes to apply a ruleset to a graph until it reaches a fixpoint.`,
			Objectives: map[float64]float64{0.5: 0.05, 0.9: 0.01, 0.99: 0.001},
		}),
		passesTotal: mr.NewCounter(prometheus.CounterOpts{
			Namespace: "entail",
			Subsystem: "rules",
			Name:      "passes_total",
			Help:      `The number of rule engine passes run.`,
		}),
		skippedTotal: mr.NewCounter(prometheus.CounterOpts{
			Namespace: "entail",
			Subsystem: "rules",
			Name:      "skipped_consequents_total",
			Help: `The number of rule consequents that could not be added to the graph.

This happens when a variable bound to a literal is used as the subject of a
consequent.
`,
		}),
		firingsTotal: mr.NewCounterVec(prometheus.CounterOpts{
			Namespace: "entail",
			Subsystem: "rules",
			Name:      "firings_total",
			Help:      `The number of times each rule's antecedents matched.`,
		}, "rule"),
		derivedFactsTotal: mr.NewCounterVec(prometheus.CounterOpts{
			Namespace: "entail",
			Subsystem: "rules",
			Name:      "derived_facts_total",
			Help:      `The number of new facts each rule added to graphs.`,
		}, "rule"),
	}
}

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

package infer

import (
	metricsutil "github.com/ebay/entail/util/metrics"
	"github.com/prometheus/client_golang/prometheus"
)

type inferMetrics struct {
	closureDurationSeconds prometheus.Summary
	passesTotal            prometheus.Counter
	derivedFactsTotal      prometheus.Counter
}

var metrics inferMetrics

func init() {
	mr := metricsutil.Registry{R: prometheus.DefaultRegisterer}
	metrics = inferMetrics{
		closureDurationSeconds: mr.NewSummary(prometheus.SummaryOpts{
			Namespace: "entail",
			Subsystem: "infer",
			Name:      "closure_duration_seconds",
			Help: `The time it takes to compute the schema closure of a graph.

This includes every pass up to and including the final pass that derives
nothing new.
`,
			Objectives: map[float64]float64{0.5: 0.05, 0.9: 0.01, 0.99: 0.001},
		}),
		passesTotal: mr.NewCounter(prometheus.CounterOpts{
			Namespace: "entail",
			Subsystem: "infer",
			Name:      "passes_total",
			Help:      `The number of schema closure passes run.`,
		}),
		derivedFactsTotal: mr.NewCounter(prometheus.CounterOpts{
			Namespace: "entail",
			Subsystem: "infer",
			Name:      "derived_facts_total",
			Help:      `The number of new facts added to graphs by schema closure.`,
		}),
	}
}

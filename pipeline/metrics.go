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

package pipeline

import (
	metricsutil "github.com/ebay/entail/util/metrics"
	"github.com/prometheus/client_golang/prometheus"
)

type pipelineMetrics struct {
	runDurationSeconds prometheus.Summary
	runsTotal          *prometheus.CounterVec
}

var metrics pipelineMetrics

func init() {
	mr := metricsutil.Registry{R: prometheus.DefaultRegisterer}
	metrics = pipelineMetrics{
		runDurationSeconds: mr.NewSummary(prometheus.SummaryOpts{
			Namespace: "entail",
			Subsystem: "pipeline",
			Name:      "run_duration_seconds",
			Help: `The time it takes to run the whole pipeline: schema closure, rules,
and validity checks.
`,
			Objectives: map[float64]float64{0.5: 0.05, 0.9: 0.01, 0.99: 0.001},
		}),
		runsTotal: mr.NewCounterVec(prometheus.CounterOpts{
			Namespace: "entail",
			Subsystem: "pipeline",
			Name:      "runs_total",
			Help: `The number of pipeline runs, by outcome: "valid", "inconsistent" or
"failed".
`,
		}, "outcome"),
	}
}

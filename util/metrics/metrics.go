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
// Package metrics aids in defining Prometheus metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Registry creates Prometheus collectors and registers them with R. Packages
// use it from their metrics.go files so that every collector they define is
// registered exactly once.
type Registry struct {
	R prometheus.Registerer
}

// NewCounter returns a new registered Prometheus Counter.
func (mr Registry) NewCounter(opts prometheus.CounterOpts) prometheus.Counter {
	c := prometheus.NewCounter(opts)
	mr.R.MustRegister(c)
	return c
}

// NewCounterVec returns a new registered Prometheus CounterVec partitioned by
// the given label names.
func (mr Registry) NewCounterVec(opts prometheus.CounterOpts, labels ...string) *prometheus.CounterVec {
	c := prometheus.NewCounterVec(opts, labels)
	mr.R.MustRegister(c)
	return c
}

// NewGauge returns a new registered Prometheus Gauge.
func (mr Registry) NewGauge(opts prometheus.GaugeOpts) prometheus.Gauge {
	g := prometheus.NewGauge(opts)
	mr.R.MustRegister(g)
	return g
}

// NewSummary returns a new registered Prometheus Summary.
func (mr Registry) NewSummary(opts prometheus.SummaryOpts) prometheus.Summary {
	s := prometheus.NewSummary(opts)
	mr.R.MustRegister(s)
	return s
}

// NewHistogram returns a new registered Prometheus Histogram.
func (mr Registry) NewHistogram(opts prometheus.HistogramOpts) prometheus.Histogram {
	h := prometheus.NewHistogram(opts)
	mr.R.MustRegister(h)
	return h
}

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
package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func Test_Registry(t *testing.T) {
	assert := assert.New(t)
	reg := prometheus.NewPedanticRegistry()
	r := Registry{R: reg}
	c := r.NewCounter(prometheus.CounterOpts{Name: "c_total", Help: "counter"})
	cv := r.NewCounterVec(prometheus.CounterOpts{Name: "cv_total", Help: "counter vec"}, "rule")
	g := r.NewGauge(prometheus.GaugeOpts{Name: "g", Help: "gauge"})
	r.NewSummary(prometheus.SummaryOpts{Name: "s_seconds", Help: "summary"})
	r.NewHistogram(prometheus.HistogramOpts{Name: "h_seconds", Help: "histogram"})

	c.Add(2)
	cv.WithLabelValues("adult").Inc()
	g.Set(7)
	assert.Equal(2.0, testutil.ToFloat64(c))
	assert.Equal(1.0, testutil.ToFloat64(cv.WithLabelValues("adult")))
	assert.Equal(7.0, testutil.ToFloat64(g))
	n, err := testutil.GatherAndCount(reg)
	assert.NoError(err)
	assert.Equal(5, n)

	assert.Panics(func() {
		r.NewCounter(prometheus.CounterOpts{Name: "c_total", Help: "counter"})
	}, "registering the same metric twice should panic")
}

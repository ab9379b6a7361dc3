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

// Package fixpoint drives a monotonic inference stage to its fixpoint: it runs
// passes over a graph until a pass adds no new facts, bounded by a maximum
// number of passes.
package fixpoint

import (
	"context"
	"fmt"
	"time"

	opentracing "github.com/opentracing/opentracing-go"
	log "github.com/sirupsen/logrus"
)

// DefaultMaxPasses is used when a stage is configured with a pass limit of
// zero.
const DefaultMaxPasses = 1000

// LimitError is returned when a stage is still adding facts after its maximum
// number of passes.
type LimitError struct {
	// Stage names the inference stage, e.g. "schema" or "rules".
	Stage string
	// Passes is the number of passes that were run.
	Passes int
	// Facts is the size of the graph when the stage gave up.
	Facts int
	// Limit is the configured maximum number of passes.
	Limit int
}

func (e *LimitError) Error() string {
	return fmt.Sprintf("%s inference did not reach a fixpoint within %d passes (graph has %d facts)",
		e.Stage, e.Limit, e.Facts)
}

// Pass performs one pass of a stage and returns the number of facts it added
// to the graph. Passes are numbered from 1.
type Pass func(ctx context.Context, pass int) (added int, err error)

// Result describes a completed run of Iterate.
type Result struct {
	// Passes includes the final pass that added nothing.
	Passes int
	// Added is the total number of facts added by all passes.
	Added int
}

// Iterate calls 'pass' until it reports adding zero facts. If 'limit' passes
// have run and the last one still added facts, Iterate returns a
// *LimitError; 'size' is called to report the graph size in that error. A
// limit of zero or less means DefaultMaxPasses. The context is checked before
// each pass.
func Iterate(ctx context.Context, stage string, limit int, size func() int, pass Pass) (Result, error) {
	if limit <= 0 {
		limit = DefaultMaxPasses
	}
	span, ctx := opentracing.StartSpanFromContext(ctx, stage+" fixpoint")
	defer span.Finish()
	res := Result{}
	for n := 1; n <= limit; n++ {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		start := time.Now()
		passSpan, passCtx := opentracing.StartSpanFromContext(ctx, stage+" pass")
		passSpan.SetTag("pass", n)
		added, err := pass(passCtx, n)
		passSpan.SetTag("added", added)
		passSpan.Finish()
		res.Passes = n
		if err != nil {
			return res, err
		}
		res.Added += added
		log.WithFields(log.Fields{
			"stage":    stage,
			"pass":     n,
			"added":    added,
			"duration": time.Since(start),
		}).Debug("Completed inference pass")
		if added == 0 {
			span.SetTag("passes", n)
			return res, nil
		}
	}
	span.SetTag("error", true)
	return res, &LimitError{
		Stage:  stage,
		Passes: res.Passes,
		Facts:  size(),
		Limit:  limit,
	}
}

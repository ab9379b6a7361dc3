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

// Package pipeline runs the reasoners in order over a schema and instance
// graph: schema closure, then the rules, then the validity checks.
package pipeline

import (
	"context"
	"time"

	"github.com/ebay/entail/config"
	"github.com/ebay/entail/fixpoint"
	"github.com/ebay/entail/graph"
	"github.com/ebay/entail/infer"
	"github.com/ebay/entail/rules"
	"github.com/ebay/entail/validity"
	opentracing "github.com/opentracing/opentracing-go"
	log "github.com/sirupsen/logrus"
)

// Stage is the name the pipeline uses in logs and errors when it alternates
// schema closure and rules.
const Stage = "pipeline"

// Options controls a pipeline run.
type Options struct {
	Infer    infer.Options
	Rules    rules.Options
	Validity validity.Options
	// SkipSchema disables schema closure.
	SkipSchema bool
	// SkipValidation disables the validity checks.
	SkipValidation bool
	// ReapplySchema alternates schema closure and the rules until neither
	// derives anything new, bounded by Infer.MaxPasses rounds. Otherwise, the
	// rules run once, over the schema closure.
	ReapplySchema bool
}

// OptionsFromConfig returns the pipeline options described by cfg.
func OptionsFromConfig(cfg *config.Entail) Options {
	return Options{
		Infer:          infer.Options{MaxPasses: cfg.MaxPasses, Workers: cfg.Workers},
		Rules:          rules.Options{MaxPasses: cfg.MaxPasses, Workers: cfg.Workers},
		Validity:       validity.Options{Disabled: cfg.DisabledChecks},
		SkipSchema:     cfg.SkipSchema,
		SkipValidation: cfg.SkipValidation,
		ReapplySchema:  cfg.ReapplySchema,
	}
}

// Stats describes a completed pipeline run. The stage stats are summed over
// rounds.
type Stats struct {
	Schema infer.Stats
	Rules  rules.Stats
	// Rounds is the number of times schema closure and rules ran.
	Rounds   int
	Duration time.Duration
}

// Result is the outcome of a pipeline run.
type Result struct {
	// Graph holds the input facts and everything derived from them.
	Graph *graph.Store
	// Violations are the inconsistencies found in Graph, in order. Nil if
	// there are none or validation was skipped.
	Violations []validity.Violation
	Stats      Stats
}

// Valid returns true if no violations were found.
func (r *Result) Valid() bool {
	return len(r.Violations) == 0
}

// Run computes everything entailed by the schema, instance facts and ruleset,
// then checks the result for inconsistencies. The ruleset is validated before
// anything else happens. The input stores are not modified. Inconsistencies
// are reported in the Result's Violations, not as errors; the returned error
// is either a *rules.MalformedRuleError, a *fixpoint.LimitError, or a context
// error.
func Run(ctx context.Context, schema, instance *graph.Store, ruleset []*rules.Rule, opts Options) (*Result, error) {
	start := time.Now()
	res, err := run(ctx, schema, instance, ruleset, opts)
	outcome := "failed"
	switch {
	case err != nil:
	case res.Valid():
		outcome = "valid"
	default:
		outcome = "inconsistent"
	}
	metrics.runsTotal.WithLabelValues(outcome).Inc()
	metrics.runDurationSeconds.Observe(time.Since(start).Seconds())
	if err != nil {
		return nil, err
	}
	res.Stats.Duration = time.Since(start)
	return res, nil
}

func run(ctx context.Context, schema, instance *graph.Store, ruleset []*rules.Rule, opts Options) (*Result, error) {
	span, ctx := opentracing.StartSpanFromContext(ctx, "pipeline")
	defer span.Finish()
	if err := rules.Validate(ruleset); err != nil {
		return nil, err
	}
	res := &Result{Graph: schema.Clone()}
	res.Graph.Merge(instance)
	input := res.Graph.Len()
	span.SetTag("input_facts", input)

	round := func(ctx context.Context, _ int) (int, error) {
		res.Stats.Rounds++
		added := 0
		if !opts.SkipSchema {
			stats, err := infer.Closure(ctx, res.Graph, opts.Infer)
			res.Stats.Schema.Passes += stats.Passes
			res.Stats.Schema.Added += stats.Added
			res.Stats.Schema.Duration += stats.Duration
			if err != nil {
				return 0, err
			}
			added += stats.Added
		}
		stats, err := rules.Run(ctx, res.Graph, ruleset, opts.Rules)
		res.Stats.Rules.Passes += stats.Passes
		res.Stats.Rules.Added += stats.Added
		res.Stats.Rules.Firings += stats.Firings
		res.Stats.Rules.Skipped += stats.Skipped
		res.Stats.Rules.Duration += stats.Duration
		if err != nil {
			return 0, err
		}
		return added + stats.Added, nil
	}
	var err error
	if opts.ReapplySchema && !opts.SkipSchema {
		_, err = fixpoint.Iterate(ctx, Stage, opts.Infer.MaxPasses, res.Graph.Len, round)
	} else {
		_, err = round(ctx, 1)
	}
	if err != nil {
		return nil, err
	}
	span.SetTag("facts", res.Graph.Len())

	if !opts.SkipValidation {
		checkSpan, _ := opentracing.StartSpanFromContext(ctx, "validity check")
		res.Violations = validity.Check(res.Graph, opts.Validity)
		checkSpan.SetTag("violations", len(res.Violations))
		checkSpan.Finish()
	}
	fields := log.Fields{
		"facts":      res.Graph.Len(),
		"derived":    res.Graph.Len() - input,
		"rounds":     res.Stats.Rounds,
		"violations": len(res.Violations),
	}
	if len(res.Violations) > 0 {
		log.WithFields(fields).Warn("Inconsistencies detected")
	} else {
		log.WithFields(fields).Info("Completed inference")
	}
	return res, nil
}

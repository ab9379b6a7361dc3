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
	"context"
	"fmt"
	"time"

	"github.com/ebay/entail/fixpoint"
	"github.com/ebay/entail/graph"
	"github.com/ebay/entail/util/parallel"
	log "github.com/sirupsen/logrus"
)

// Stage is the name the rule engine uses in logs and errors.
const Stage = "rules"

// Options controls a run of the rule engine.
type Options struct {
	// MaxPasses bounds the number of passes; zero means
	// fixpoint.DefaultMaxPasses.
	MaxPasses int
	// Workers bounds how many rule evaluations run concurrently within a
	// pass; zero means GOMAXPROCS.
	Workers int
}

// Stats describes a completed run of the rule engine.
type Stats struct {
	Passes int
	// Added is the number of new facts added to the graph.
	Added int
	// Firings is the number of complete bindings found for rule bodies.
	Firings int
	// Skipped is the number of head instantiations that weren't valid facts,
	// such as one with a literal subject.
	Skipped  int
	Duration time.Duration
}

// task is one unit of work in a pass: evaluating one plan.
type task struct {
	plan *plan
	// index of the rule in the ruleset, for metrics and logging.
	rule int
}

// Run applies the ruleset to 'store' until no rule derives anything new. The
// rules are validated first, and a *MalformedRuleError is returned without
// touching the store if any is malformed. Run returns a *fixpoint.LimitError
// if the rules are still deriving facts after opts.MaxPasses passes.
//
// The first pass evaluates every rule against the whole store. Later passes
// are semi-naive: for each rule and each of its patterns, that pattern is
// matched only against the facts the previous pass added, and the other
// patterns against the whole store. Within a pass, these evaluations only read
// the store and run concurrently; their results are then added to the store
// in ruleset order. The set of facts derived doesn't depend on the order of
// the rules.
func Run(ctx context.Context, store *graph.Store, ruleset []*Rule, opts Options) (Stats, error) {
	if err := Validate(ruleset); err != nil {
		return Stats{}, err
	}
	start := time.Now()
	var first, delta []task
	for i, r := range ruleset {
		first = append(first, task{plan: newPlan(r, -1), rule: i})
		for p := range r.patterns() {
			delta = append(delta, task{plan: newPlan(r, p), rule: i})
		}
	}
	stats := Stats{}
	var since graph.Mark
	res, err := fixpoint.Iterate(ctx, Stage, opts.MaxPasses, store.Len,
		func(ctx context.Context, pass int) (int, error) {
			tasks := delta
			if pass == 1 {
				tasks = first
			}
			mark := store.Mark()
			outputs, err := parallel.Map(ctx, len(tasks), opts.Workers,
				func(ctx context.Context, i int) (output, error) {
					return tasks[i].plan.eval(store, since), nil
				})
			if err != nil {
				return 0, err
			}
			added := 0
			for i, out := range outputs {
				n, err := store.AddAll(out.facts)
				if err != nil {
					return added, fmt.Errorf("rule %v derived a malformed fact: %w",
						tasks[i].plan.rule.label(), err)
				}
				added += n
				stats.Firings += out.firings
				stats.Skipped += out.skipped
				label := tasks[i].plan.rule.label()
				metrics.firingsTotal.WithLabelValues(label).Add(float64(out.firings))
				metrics.derivedFactsTotal.WithLabelValues(label).Add(float64(n))
			}
			since = mark
			return added, nil
		})
	stats.Passes = res.Passes
	stats.Added = res.Added
	stats.Duration = time.Since(start)
	metrics.runDurationSeconds.Observe(stats.Duration.Seconds())
	metrics.passesTotal.Add(float64(stats.Passes))
	if stats.Skipped > 0 {
		metrics.skippedTotal.Add(float64(stats.Skipped))
	}
	if err != nil {
		return stats, err
	}
	log.WithFields(log.Fields{
		"rules":    len(ruleset),
		"passes":   stats.Passes,
		"added":    stats.Added,
		"firings":  stats.Firings,
		"skipped":  stats.Skipped,
		"facts":    store.Len(),
		"duration": stats.Duration,
	}).Info("Applied rules")
	return stats, nil
}

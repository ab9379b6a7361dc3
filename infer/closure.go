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
	"context"
	"fmt"
	"time"

	"github.com/ebay/entail/fixpoint"
	"github.com/ebay/entail/graph"
	"github.com/ebay/entail/util/parallel"
	log "github.com/sirupsen/logrus"
)

// Options controls a schema closure.
type Options struct {
	// MaxPasses bounds the number of passes; zero means
	// fixpoint.DefaultMaxPasses.
	MaxPasses int
	// Workers bounds how many derivation groups run concurrently within a
	// pass; zero means GOMAXPROCS.
	Workers int
}

// Stats describes a completed schema closure.
type Stats struct {
	Passes   int
	Added    int
	Duration time.Duration
}

// Stage is the name the schema closure uses in logs and errors.
const Stage = "schema"

// Closure adds to 'store' every fact entailed by the schema axioms in it,
// repeating until a pass derives nothing new. It returns a
// *fixpoint.LimitError if that takes more than opts.MaxPasses passes, in
// which case the store holds everything derived so far.
func Closure(ctx context.Context, store *graph.Store, opts Options) (Stats, error) {
	start := time.Now()
	res, err := fixpoint.Iterate(ctx, Stage, opts.MaxPasses, store.Len,
		func(ctx context.Context, pass int) (int, error) {
			return closurePass(ctx, store, opts)
		})
	stats := Stats{
		Passes:   res.Passes,
		Added:    res.Added,
		Duration: time.Since(start),
	}
	metrics.closureDurationSeconds.Observe(stats.Duration.Seconds())
	metrics.passesTotal.Add(float64(stats.Passes))
	metrics.derivedFactsTotal.Add(float64(stats.Added))
	if err != nil {
		return stats, err
	}
	log.WithFields(log.Fields{
		"passes":   stats.Passes,
		"added":    stats.Added,
		"facts":    store.Len(),
		"duration": stats.Duration,
	}).Info("Computed schema closure")
	return stats, nil
}

// Apply returns a new Store holding the facts of 'schema' and 'instance' and
// everything they entail. Neither input is modified.
func Apply(ctx context.Context, schema, instance *graph.Store, opts Options) (*graph.Store, Stats, error) {
	store := schema.Clone()
	store.Merge(instance)
	stats, err := Closure(ctx, store, opts)
	if err != nil {
		return nil, stats, err
	}
	return store, stats, nil
}

// closurePass runs each group of derivations against the store as it is at
// the start of the pass, then adds all the derived facts.
func closurePass(ctx context.Context, store *graph.Store, opts Options) (int, error) {
	s := loadSchema(store)
	groups := []func(emit func(graph.Fact)){
		s.hierarchy,
		func(emit func(graph.Fact)) { s.instances(store, emit) },
		func(emit func(graph.Fact)) { s.transitives(store, emit) },
	}
	derived, err := parallel.Map(ctx, len(groups), opts.Workers,
		func(ctx context.Context, i int) ([]graph.Fact, error) {
			var out []graph.Fact
			groups[i](func(f graph.Fact) {
				if !store.Contains(f) {
					out = append(out, f)
				}
			})
			return out, nil
		})
	if err != nil {
		return 0, err
	}
	added := 0
	for _, facts := range derived {
		n, err := store.AddAll(facts)
		if err != nil {
			return added, fmt.Errorf("schema closure derived a malformed fact: %w", err)
		}
		added += n
	}
	return added, nil
}

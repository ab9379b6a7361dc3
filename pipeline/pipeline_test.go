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
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/ebay/entail/config"
	"github.com/ebay/entail/fixpoint"
	"github.com/ebay/entail/graph"
	"github.com/ebay/entail/infer"
	"github.com/ebay/entail/rules"
	"github.com/ebay/entail/validity"
	"github.com/ebay/entail/vocab"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ex(local string) graph.Term {
	return graph.Resource("http://example.org/" + local)
}

func fact(s string, p, o graph.Term) graph.Fact {
	return graph.NewFact(ex(s), p, o)
}

func v(name string) graph.Term {
	return graph.Variable(name)
}

var adultRule = rules.MustNew("adult",
	[]rules.Atom{
		rules.NewPattern(v("x"), ex("age"), v("n")),
		rules.NewBuiltin("ge", v("n"), graph.Int(18)),
	},
	[]rules.Pattern{rules.NewPattern(v("x"), ex("isAdult"), graph.Bool(true))})

func mustRun(t *testing.T, schema, instance []graph.Fact, ruleset []*rules.Rule, opts Options) *Result {
	t.Helper()
	res, err := Run(context.Background(),
		graph.NewStoreFrom(schema...), graph.NewStoreFrom(instance...), ruleset, opts)
	require.NoError(t, err)
	return res
}

func Test_ScenarioA(t *testing.T) {
	res := mustRun(t,
		[]graph.Fact{fact("p", vocab.SubPropertyOf, ex("q"))},
		[]graph.Fact{fact("a", ex("p"), graph.Literal("foo"))},
		nil, Options{})
	assert.True(t, res.Graph.Contains(fact("a", ex("q"), graph.Literal("foo"))))
	assert.True(t, res.Valid())
}

func Test_ScenarioB(t *testing.T) {
	res := mustRun(t,
		[]graph.Fact{
			fact("Dog", vocab.SubClassOf, ex("Mammal")),
			fact("Mammal", vocab.SubClassOf, ex("Animal")),
		},
		[]graph.Fact{fact("rex", vocab.Type, ex("Dog"))},
		nil, Options{})
	assert.True(t, res.Graph.Contains(fact("rex", vocab.Type, ex("Animal"))))
	assert.True(t, res.Graph.Contains(fact("Dog", vocab.SubClassOf, ex("Animal"))))
}

func Test_ScenarioC(t *testing.T) {
	res := mustRun(t, nil,
		[]graph.Fact{fact("bob", ex("age"), graph.Int(30))},
		[]*rules.Rule{adultRule}, Options{})
	assert.True(t, res.Graph.Contains(fact("bob", ex("isAdult"), graph.Bool(true))))
	assert.Equal(t, 1, res.Stats.Rules.Added)
	assert.Equal(t, 1, res.Stats.Rounds)
}

func Test_ScenarioD(t *testing.T) {
	before := testutil.ToFloat64(metrics.runsTotal.WithLabelValues("inconsistent"))
	res := mustRun(t,
		[]graph.Fact{fact("Cat", vocab.DisjointWith, ex("Dog"))},
		[]graph.Fact{
			fact("tom", vocab.Type, ex("Cat")),
			fact("tom", vocab.Type, ex("Dog")),
		},
		nil, Options{})
	require.NotEmpty(t, res.Violations)
	assert.False(t, res.Valid())
	assert.Equal(t, validity.Disjoint, res.Violations[0].Kind)
	assert.Equal(t, ex("tom"), res.Violations[0].Focus)
	assert.Contains(t, res.Violations[0].Explanation, "tom")
	assert.NotNil(t, res.Graph)
	assert.True(t, res.Graph.Contains(fact("tom", vocab.Type, ex("Cat"))))
	assert.Equal(t, before+1, testutil.ToFloat64(metrics.runsTotal.WithLabelValues("inconsistent")))
}

func Test_DisjointThroughSubclasses(t *testing.T) {
	res := mustRun(t,
		[]graph.Fact{
			fact("Cat", vocab.DisjointWith, ex("Dog")),
			fact("Kitten", vocab.SubClassOf, ex("Cat")),
			fact("owns", vocab.Range, ex("Dog")),
		},
		[]graph.Fact{
			fact("tom", vocab.Type, ex("Kitten")),
			fact("ann", ex("owns"), ex("tom")),
		},
		nil, Options{})
	require.Len(t, res.Violations, 1)
	assert.Equal(t, ex("tom"), res.Violations[0].Focus)
}

// fixture returns a schema, instance facts and ruleset that exercise every
// stage.
func fixture() ([]graph.Fact, []graph.Fact, []*rules.Rule) {
	schema := []graph.Fact{
		fact("parent", vocab.SubPropertyOf, ex("relative")),
		fact("parent", vocab.Domain, ex("Person")),
		fact("Person", vocab.SubClassOf, ex("Agent")),
		fact("ancestor", vocab.Type, vocab.TransitiveProperty),
		fact("age", vocab.Type, vocab.FunctionalProperty),
	}
	instance := []graph.Fact{
		fact("bob", ex("age"), graph.Int(30)),
		fact("bob", ex("age"), graph.Int(31)),
	}
	for i := 0; i < 5; i++ {
		instance = append(instance,
			fact(fmt.Sprintf("p%d", i), ex("parent"), ex(fmt.Sprintf("p%d", i+1))))
	}
	ruleset := []*rules.Rule{
		adultRule,
		rules.MustNew("ancestor",
			[]rules.Atom{rules.NewPattern(v("x"), ex("parent"), v("y"))},
			[]rules.Pattern{rules.NewPattern(v("x"), ex("ancestor"), v("y"))}),
	}
	return schema, instance, ruleset
}

func Test_Monotonic(t *testing.T) {
	schema, instance, ruleset := fixture()
	res := mustRun(t, schema, instance, ruleset, Options{})
	for _, f := range append(schema, instance...) {
		assert.True(t, res.Graph.Contains(f), "missing input fact %v", f)
	}
}

func Test_Deterministic(t *testing.T) {
	schema, instance, ruleset := fixture()
	first := mustRun(t, schema, instance, ruleset, Options{})
	second := mustRun(t, schema, instance, ruleset, Options{Infer: infer.Options{Workers: 1}})
	assert.True(t, first.Graph.Equal(second.Graph))
	assert.Equal(t, first.Violations, second.Violations)
	require.Len(t, first.Violations, 1)
	assert.Equal(t, validity.Functional, first.Violations[0].Kind)
}

func Test_Idempotent(t *testing.T) {
	schema, instance, ruleset := fixture()
	first := mustRun(t, schema, instance, ruleset, Options{ReapplySchema: true})
	var facts []graph.Fact
	for f := range first.Graph.Facts() {
		facts = append(facts, f)
	}
	second := mustRun(t, nil, facts, ruleset, Options{ReapplySchema: true})
	assert.Equal(t, 0, second.Stats.Schema.Added)
	assert.Equal(t, 0, second.Stats.Rules.Added)
	assert.Equal(t, first.Graph.Fingerprint(), second.Graph.Fingerprint())
}

func Test_SchemaNotReappliedAfterRules(t *testing.T) {
	schema, instance, ruleset := fixture()
	res := mustRun(t, schema, instance, ruleset, Options{})
	assert.True(t, res.Graph.Contains(fact("p0", ex("ancestor"), ex("p1"))))
	assert.False(t, res.Graph.Contains(fact("p0", ex("ancestor"), ex("p2"))),
		"ancestor is transitive, but its facts come from a rule after schema closure")

	ruleStats, err := rules.Run(context.Background(), res.Graph.Clone(), ruleset, rules.Options{})
	require.NoError(t, err)
	assert.Equal(t, 0, ruleStats.Added)

	closed := res.Graph.Clone()
	schemaStats, err := infer.Closure(context.Background(), closed, infer.Options{})
	require.NoError(t, err)
	assert.Equal(t, 10, schemaStats.Added)
	assert.True(t, closed.Contains(fact("p0", ex("ancestor"), ex("p5"))))
}

func Test_InputsUnchanged(t *testing.T) {
	schema, instance, ruleset := fixture()
	s, i := graph.NewStoreFrom(schema...), graph.NewStoreFrom(instance...)
	sfp, ifp := s.Fingerprint(), i.Fingerprint()
	_, err := Run(context.Background(), s, i, ruleset, Options{})
	require.NoError(t, err)
	assert.Equal(t, sfp, s.Fingerprint())
	assert.Equal(t, ifp, i.Fingerprint())
}

func Test_MalformedRuleStopsPipeline(t *testing.T) {
	bad := &rules.Rule{
		Name: "bad",
		Body: []rules.Atom{rules.NewPattern(v("x"), ex("p"), v("y"))},
		Head: []rules.Pattern{rules.NewPattern(v("x"), ex("q"), v("z"))},
	}
	res, err := Run(context.Background(), graph.NewStore(), graph.NewStore(),
		[]*rules.Rule{adultRule, bad}, Options{})
	assert.Nil(t, res)
	var malformed *rules.MalformedRuleError
	assert.True(t, errors.As(err, &malformed))
}

func Test_LimitExceeded(t *testing.T) {
	schema, instance, ruleset := fixture()
	_, err := Run(context.Background(),
		graph.NewStoreFrom(schema...), graph.NewStoreFrom(instance...), ruleset,
		Options{Infer: infer.Options{MaxPasses: 1}})
	var limitErr *fixpoint.LimitError
	require.True(t, errors.As(err, &limitErr), "expected a LimitError, got %v", err)
	assert.Equal(t, infer.Stage, limitErr.Stage)
}

func Test_ReapplySchema(t *testing.T) {
	schema := []graph.Fact{fact("Dog", vocab.SubClassOf, ex("Animal"))}
	instance := []graph.Fact{fact("ann", ex("hasDog"), ex("rex"))}
	ruleset := []*rules.Rule{rules.MustNew("dogs",
		[]rules.Atom{rules.NewPattern(v("x"), ex("hasDog"), v("y"))},
		[]rules.Pattern{rules.NewPattern(v("y"), vocab.Type, ex("Dog"))})}

	once := mustRun(t, schema, instance, ruleset, Options{})
	assert.True(t, once.Graph.Contains(fact("rex", vocab.Type, ex("Dog"))))
	assert.False(t, once.Graph.Contains(fact("rex", vocab.Type, ex("Animal"))),
		"the rules run after schema closure, which isn't repeated by default")
	assert.Equal(t, 1, once.Stats.Rounds)

	again := mustRun(t, schema, instance, ruleset, Options{ReapplySchema: true})
	assert.True(t, again.Graph.Contains(fact("rex", vocab.Type, ex("Animal"))))
	assert.Equal(t, 3, again.Stats.Rounds)
}

func Test_Skip(t *testing.T) {
	schema := []graph.Fact{fact("Cat", vocab.DisjointWith, ex("Dog")), fact("Cat", vocab.SubClassOf, ex("Animal"))}
	instance := []graph.Fact{fact("tom", vocab.Type, ex("Cat")), fact("tom", vocab.Type, ex("Dog"))}

	res := mustRun(t, schema, instance, nil, Options{SkipSchema: true, SkipValidation: true})
	assert.Equal(t, 4, res.Graph.Len())
	assert.Nil(t, res.Violations)
	assert.Equal(t, 0, res.Stats.Schema.Passes)

	res = mustRun(t, schema, instance, nil, Options{Validity: validity.Options{Disabled: []string{"disjoint"}}})
	assert.True(t, res.Valid())
	assert.True(t, res.Graph.Contains(fact("tom", vocab.Type, ex("Animal"))))
}

func Test_Canceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := Run(ctx, graph.NewStore(), graph.NewStore(), nil, Options{})
	assert.Equal(t, context.Canceled, err)
}

func Test_OptionsFromConfig(t *testing.T) {
	opts := OptionsFromConfig(&config.Entail{
		MaxPasses:      7,
		Workers:        3,
		DisabledChecks: []string{"nothing"},
		ReapplySchema:  true,
		SkipValidation: true,
	})
	assert.Equal(t, Options{
		Infer:          infer.Options{MaxPasses: 7, Workers: 3},
		Rules:          rules.Options{MaxPasses: 7, Workers: 3},
		Validity:       validity.Options{Disabled: []string{"nothing"}},
		SkipValidation: true,
		ReapplySchema:  true,
	}, opts)
}

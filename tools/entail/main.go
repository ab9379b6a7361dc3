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

// Command entail applies a schema and a set of forward chaining rules to an
// instance graph, checks the result for inconsistencies, and writes the
// inferred graph as Turtle.
package main

import (
	"context"
	"fmt"
	"io"
	"maps"
	"os"

	docopt "github.com/docopt/docopt-go"
	"github.com/ebay/entail/config"
	"github.com/ebay/entail/graph"
	"github.com/ebay/entail/parser"
	"github.com/ebay/entail/pipeline"
	"github.com/ebay/entail/rules"
	"github.com/ebay/entail/util/debuglog"
	"github.com/ebay/entail/util/table"
	"github.com/ebay/entail/vocab"
	"github.com/prometheus/client_golang/prometheus"
	log "github.com/sirupsen/logrus"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var fmtr = message.NewPrinter(language.English)

const usage = `entail infers new facts from a schema and a set of rules, and checks the
result for inconsistencies.

Usage:
  entail [options] SCHEMA INSTANCE RULES OUTPUT

Arguments:
  SCHEMA      Turtle file holding the RDFS/OWL schema.
  INSTANCE    Turtle file holding the instance data.
  RULES       Rule file, in the bracketed forward rule syntax.
  OUTPUT      File to write the inferred graph to, as Turtle. Use - for stdout.

Options:
  --cfg=FILE        JSON or YAML config file.
  --metrics=FILE    Write Prometheus metrics to this file on exit.
  --strict          Exit with status 2 if inconsistencies are detected.
  --no-schema       Don't apply the schema entailments, only the rules.
  --no-validate     Don't check the result for inconsistencies.
  -v, --verbose     Enable debug logging.
  -h, --help        Show this message.

Examples:
  # Infer and check a graph, writing the result to out.ttl.
  entail schema.ttl data.ttl rules.txt out.ttl

  # Fail a build step if the data is inconsistent with the schema.
  entail --strict --cfg=entail.yaml schema.ttl data.ttl rules.txt -
`

type options struct {
	Schema     string `docopt:"SCHEMA"`
	Instance   string `docopt:"INSTANCE"`
	Rules      string `docopt:"RULES"`
	Output     string `docopt:"OUTPUT"`
	Config     string `docopt:"--cfg"`
	Metrics    string `docopt:"--metrics"`
	Strict     bool   `docopt:"--strict"`
	NoSchema   bool   `docopt:"--no-schema"`
	NoValidate bool   `docopt:"--no-validate"`
	Verbose    bool   `docopt:"--verbose"`
	Help       bool   `docopt:"--help"`
}

// Exit statuses.
const (
	exitOK           = 0
	exitFatal        = 1
	exitInconsistent = 2
)

func parseArgs(argv []string) (*options, error) {
	opts, err := docopt.ParseArgs(usage, argv, "")
	if err != nil {
		return nil, fmt.Errorf("error parsing command-line arguments: %v", err)
	}
	var options options
	if err := opts.Bind(&options); err != nil {
		return nil, fmt.Errorf("error binding command-line arguments: %v\nfrom: %+v", err, opts)
	}
	return &options, nil
}

func main() {
	options, err := parseArgs(os.Args[1:])
	if err != nil {
		log.Fatal(err)
	}
	debuglog.Configure(debuglog.Options{Verbose: options.Verbose})
	status, err := run(context.Background(), options, os.Stdout)
	if options.Metrics != "" {
		if err := prometheus.WriteToTextfile(options.Metrics, prometheus.DefaultGatherer); err != nil {
			log.WithError(err).Warn("Unable to write metrics")
		}
	}
	if err != nil {
		log.Errorf("Error: %v", err)
		os.Exit(exitFatal)
	}
	os.Exit(status)
}

// run loads the inputs, runs the pipeline, writes the output graph and
// reports on the result to 'out'. It returns the exit status.
func run(ctx context.Context, options *options, out io.Writer) (int, error) {
	cfg := config.Default()
	if options.Config != "" {
		var err error
		if cfg, err = config.Load(options.Config); err != nil {
			return exitFatal, err
		}
	}
	cfg.SkipSchema = cfg.SkipSchema || options.NoSchema
	cfg.SkipValidation = cfg.SkipValidation || options.NoValidate

	schema, err := loadGraph(options.Schema)
	if err != nil {
		return exitFatal, err
	}
	instance, err := loadGraph(options.Instance)
	if err != nil {
		return exitFatal, err
	}
	ruleset, err := loadRules(options.Rules)
	if err != nil {
		return exitFatal, err
	}
	log.WithFields(log.Fields{
		"schema":   len(schema.Facts),
		"instance": len(instance.Facts),
		"rules":    len(ruleset),
	}).Info("Loaded inputs")

	res, err := pipeline.Run(ctx, schema.Store(), instance.Store(), ruleset, pipeline.OptionsFromConfig(cfg))
	if err != nil {
		return exitFatal, err
	}

	prefixes := vocab.Prefixes()
	maps.Copy(prefixes, schema.Prefixes)
	maps.Copy(prefixes, instance.Prefixes)
	maps.Copy(prefixes, cfg.Prefixes)
	if err := writeGraph(options.Output, out, res.Graph, prefixes); err != nil {
		return exitFatal, err
	}

	fmtr.Fprintf(out, "Inferred %d facts from %d in %v (%d schema passes, %d rule passes)\n",
		res.Graph.Len(), len(schema.Facts)+len(instance.Facts), res.Stats.Duration,
		res.Stats.Schema.Passes, res.Stats.Rules.Passes)
	if cfg.SkipValidation {
		return exitOK, nil
	}
	if res.Valid() {
		fmt.Fprintln(out, "The model is valid.")
		return exitOK, nil
	}
	fmt.Fprintln(out, "Inconsistencies detected!")
	rows := [][]string{{"Kind", "Focus", "Explanation"}}
	for _, v := range res.Violations {
		rows = append(rows, []string{v.Kind.String(), v.Focus.String(), v.Explanation})
	}
	if err := table.PrettyPrint(out, rows, table.HeaderRow); err != nil {
		return exitFatal, err
	}
	fmtr.Fprintf(out, "%d violations\n", len(res.Violations))
	if options.Strict {
		return exitInconsistent, nil
	}
	return exitOK, nil
}

func loadGraph(filename string) (*parser.Graph, error) {
	in, err := os.ReadFile(filename)
	if err != nil {
		return nil, err
	}
	g, err := parser.ParseGraph(string(in))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filename, err)
	}
	return g, nil
}

func loadRules(filename string) ([]*rules.Rule, error) {
	in, err := os.ReadFile(filename)
	if err != nil {
		return nil, err
	}
	ruleset, err := parser.ParseRules(string(in))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filename, err)
	}
	return ruleset, nil
}

// writeGraph writes the graph as Turtle to 'filename', or to 'stdout' if the
// filename is "-".
func writeGraph(filename string, stdout io.Writer, store *graph.Store, prefixes map[string]string) error {
	if filename == "-" {
		return graph.WriteTurtle(stdout, store, prefixes)
	}
	f, err := os.Create(filename)
	if err != nil {
		return err
	}
	err = graph.WriteTurtle(f, store, prefixes)
	if closeErr := f.Close(); err == nil {
		err = closeErr
	}
	return err
}

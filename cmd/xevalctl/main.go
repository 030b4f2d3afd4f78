// Command xevalctl is a small demonstration harness around the evaluator:
// it opens a bolt-backed row store, builds one hardcoded predicate, scans
// every row through rowstore.ScanMatches and prints the matching row ids.
// It exists to exercise the full stack end to end (config, logging,
// tracing, storage, evaluator) the way the teacher's server command
// exercises its own engine, not as a production query tool.
package main

import (
	"flag"
	"fmt"
	"os"

	opentracing "github.com/opentracing/opentracing-go"
	"github.com/sirupsen/logrus"

	"github.com/rowstore/xeval/eval"
	"github.com/rowstore/xeval/expr"
	"github.com/rowstore/xeval/rowstore"
)

func main() {
	configPath := flag.String("config", "", "path to a YAML config file")
	column := flag.Int64("column", 1, "column id the demo predicate compares")
	threshold := flag.Int64("gt", 0, "demo predicate is column > threshold")
	flag.Parse()

	cfg, err := loadConfig(*configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	log := logrus.New()
	level, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		fmt.Fprintln(os.Stderr, fmt.Errorf("parse log_level %q: %w", cfg.LogLevel, err))
		os.Exit(1)
	}
	log.SetLevel(level)
	entry := logrus.NewEntry(log)

	if cfg.Store == "" {
		entry.Fatal("config: store path is required")
	}

	store, err := rowstore.Open(cfg.Store)
	if err != nil {
		entry.WithError(err).Fatal("open row store")
	}
	defer store.Close()

	b := expr.NewBuilder()
	predicate := b.GTNode(b.ColumnRefNode(*column), b.Int64Node(*threshold))

	ev := eval.NewEvaluator().WithLogger(entry)
	if cfg.Trace {
		ev = ev.WithTracer(opentracing.NoopTracer{})
	}

	matches, err := rowstore.ScanMatches(store, predicate, ev)
	if err != nil {
		entry.WithError(err).Fatal("scan")
	}

	ids, err := store.RowIDs()
	if err != nil {
		entry.WithError(err).Fatal("list row ids")
	}
	for _, id := range ids {
		if matches.Test(id) {
			fmt.Println(id)
		}
	}
	entry.WithField("matched", matches.Count()).Info("scan complete")
}

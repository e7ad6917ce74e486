// Command evcat-inspect is a small demo shell over internal/catalog: it
// loads partition synopses from a badgerstore directory (or fabricates a
// handful of sample partitions when none is given), builds a Catalog, and
// reports the candidate partitions a single predicate prunes to.
//
// It plays the role the teacher's cmd/datalog demo/interactive shell
// played for full query execution, scoped down to what this catalog
// actually does: candidate-partition pruning, not row evaluation.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/renderer"
	"go.uber.org/zap"

	"github.com/basalt-db/evcat/config"
	"github.com/basalt-db/evcat/internal/catalog"
	"github.com/basalt-db/evcat/internal/evtype"
	"github.com/basalt-db/evcat/internal/expr"
	"github.com/basalt-db/evcat/internal/partition"
	"github.com/basalt-db/evcat/internal/sketch"
	"github.com/basalt-db/evcat/internal/synopsis"
	"github.com/basalt-db/evcat/internal/synopsis/badgerstore"
	"github.com/basalt-db/evcat/internal/taxonomy"
)

func main() {
	var dbPath string
	var queryStr string
	var verbose bool
	var help bool

	flag.StringVar(&dbPath, "db", "", "badgerstore directory (demo data is used if empty)")
	flag.StringVar(&queryStr, "query", "", `a single predicate, e.g. id == "alpha" or events > 100`)
	flag.BoolVar(&verbose, "verbose", false, "log catalog events to stderr")
	flag.BoolVar(&help, "h", false, "show help")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s [options]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Reports the candidate partitions a predicate prunes a catalog to.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  %s\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s -query 'id == \"alpha\"'\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s -db ./partitions -verbose\n", os.Args[0])
	}
	flag.Parse()

	if help {
		flag.Usage()
		os.Exit(0)
	}

	var logger *zap.Logger
	if verbose {
		logger, _ = zap.NewDevelopment()
	} else {
		logger = zap.NewNop()
	}
	defer logger.Sync() //nolint:errcheck

	entries, closeStore, err := loadEntries(dbPath)
	if err != nil {
		log.Fatalf("failed to load partitions: %v", err)
	}
	defer closeStore()

	cat := catalog.New(config.Default(), taxonomy.Concepts{}, logger)
	defer cat.Shutdown()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := cat.Start(ctx, entries); err != nil {
		log.Fatalf("catalog failed to start: %v", err)
	}

	q := catalog.Query{ID: "evcat-inspect"}
	if queryStr != "" {
		e, err := parsePredicate(queryStr)
		if err != nil {
			log.Fatalf("failed to parse -query: %v", err)
		}
		q.Expr = e
	}

	result, err := cat.Candidates(ctx, q)
	if err != nil {
		log.Fatalf("candidate lookup failed: %v", err)
	}

	printResult(result)
}

// loadEntries reads every partition from a badgerstore directory, or
// fabricates a small fixed sample when dbPath is empty.
func loadEntries(dbPath string) ([]catalog.SynopsisEntry, func(), error) {
	if dbPath == "" {
		return demoEntries(), func() {}, nil
	}

	store, err := badgerstore.Open(dbPath)
	if err != nil {
		return nil, func() {}, err
	}

	ids, err := store.List(context.Background())
	if err != nil {
		store.Close()
		return nil, func() {}, err
	}

	var entries []catalog.SynopsisEntry
	for _, id := range ids {
		syn, err := store.Load(context.Background(), id)
		if err != nil {
			store.Close()
			return nil, func() {}, err
		}
		entries = append(entries, catalog.SynopsisEntry{UUID: id, Synopsis: syn})
	}
	return entries, func() { store.Close() }, nil
}

func demoEntries() []catalog.SynopsisEntry {
	schema := evtype.Type{
		Kind: evtype.TypeRecord,
		Name: "net.flow",
		Fields: []evtype.Field{
			{Name: "id", Type: evtype.Type{Kind: evtype.TypeString}},
		},
	}

	samples := []struct {
		id      string
		literal string
		events  uint64
	}{
		{"00000000-0000-0000-0000-000000000001", "alpha", 100},
		{"00000000-0000-0000-0000-000000000002", "beta", 250},
		{"00000000-0000-0000-0000-000000000003", "gamma", 40},
	}

	var out []catalog.SynopsisEntry
	for _, s := range samples {
		t0 := time.Unix(0, 0)
		syn := synopsis.New(schema, s.events, evtype.NewTime(t0), evtype.NewTime(t0), 1)
		bloom, err := sketch.NewBloomSketch([]string{s.literal}, 8, 0.01)
		if err == nil {
			syn.AddFieldSketch(synopsis.QRF{SchemaName: schema.Name, FieldName: "id", Type: evtype.Type{Kind: evtype.TypeString}}, bloom)
		}
		syn.Freeze()
		out = append(out, catalog.SynopsisEntry{UUID: evtype.MustParseUUID(s.id), Synopsis: syn})
	}
	return out
}

// parsePredicate accepts the narrow "field op literal" shape this demo
// exposes: a field name, one of the comparison operators, and a quoted
// string or bare integer literal. It deliberately doesn't grow into a
// general expression language — that belongs to a query layer, out of
// this catalog's scope.
func parsePredicate(s string) (expr.Expr, error) {
	fields := strings.Fields(s)
	if len(fields) < 3 {
		return nil, fmt.Errorf("expected '<field> <op> <literal>', got %q", s)
	}

	field := fields[0]
	op := expr.RelOp(fields[1])
	literal := strings.Join(fields[2:], " ")

	var data evtype.Data
	switch {
	case strings.HasPrefix(literal, `"`) && strings.HasSuffix(literal, `"`):
		data = evtype.String(strings.Trim(literal, `"`))
	default:
		n, err := strconv.ParseInt(literal, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("literal %q is neither a quoted string nor an integer", literal)
		}
		data = evtype.Int(n)
	}

	return expr.Pred{
		Lhs: expr.FieldExtractor{Key: field},
		Op:  op,
		Rhs: expr.DataOperand{Value: data},
	}, nil
}

// printResult renders one candidate table per schema the query touched,
// markdown-style like the teacher's Relation.Table(), with color picking
// out schema headers, bound expressions, and empty results.
func printResult(result partition.LookupResult) {
	for fp, info := range result.BySchema {
		schema := result.Schemas[fp]
		fmt.Println(color.New(color.FgCyan, color.Bold).Sprintf(
			"schema %s (%d candidates)", schema.Name, len(info.Partitions)))
		fmt.Println(color.YellowString("bound: %s", info.BoundExpr.String()))

		if len(info.Partitions) == 0 {
			fmt.Println(color.RedString("  (no candidates)"))
			continue
		}

		var sb strings.Builder
		table := tablewriter.NewTable(&sb, tablewriter.WithRenderer(renderer.NewMarkdown()))
		table.Header([]string{"uuid", "events", "max_import_time"})
		for _, p := range info.Partitions {
			table.Append([]string{
				p.UUID.String(),
				fmt.Sprintf("%d", p.Events),
				p.MaxImportTime.Std().Format(time.RFC3339),
			})
		}
		table.Render()
		fmt.Print(sb.String())
		fmt.Println()
	}
}

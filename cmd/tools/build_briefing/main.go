package main

import (
	"context"
	"encoding/json"
	"flag"
	"log"
	"os"
	"strings"

	"github.com/ShannonBrayNC/technical-update-briefings/internal/db"
	"github.com/ShannonBrayNC/technical-update-briefings/internal/ingest"
	"github.com/jedib0t/go-pretty/v6/table"
)

func main() {
	inputs := flag.String("inputs", "", "comma-separated HTML export paths")
	month := flag.String("month", "", "reporting period label, e.g. \"September 2025\"")
	out := flag.String("out", "", "write merged list as JSON to this path (default: stdout summary only)")
	debugDump := flag.String("debug-dump", "", "write pre-merge records as JSON to this path")
	persist := flag.Bool("persist", false, "record the run and merged list in the database")
	flag.Parse()

	if *inputs == "" {
		log.Fatal("-inputs is required")
	}

	var paths []string
	for _, p := range strings.Split(*inputs, ",") {
		p = strings.TrimSpace(p)
		if p != "" {
			paths = append(paths, p)
		}
	}

	ctx := context.Background()

	var store *db.Store
	if *persist {
		pool, err := db.Connect(ctx)
		if err != nil {
			log.Fatalf("Failed to connect to database: %v", err)
		}
		defer pool.Close()
		if err := db.ApplyMigrations(ctx, pool); err != nil {
			log.Fatalf("Migration failed: %v", err)
		}
		store = db.NewStore(pool)
	}

	pipeline := ingest.NewPipeline(store)
	merged, stats, err := pipeline.BuildList(ctx, ingest.BuildOptions{
		Inputs:    paths,
		Month:     *month,
		DebugDump: *debugDump,
	})
	if err != nil {
		log.Fatalf("Build failed: %v", err)
	}

	if *out != "" {
		data, err := json.MarshalIndent(merged, "", "  ")
		if err != nil {
			log.Fatalf("Marshal failed: %v", err)
		}
		if err := os.WriteFile(*out, data, 0o644); err != nil {
			log.Fatalf("Write %s failed: %v", *out, err)
		}
		log.Printf("Wrote %d updates to %s", len(merged), *out)
	}

	order, groups := ingest.GroupByProduct(merged)

	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.AppendHeader(table.Row{"Product", "Updates", "Roadmap", "Message Center", "Merged"})

	for _, product := range order {
		var rm, mc, both int
		for _, u := range groups[product] {
			switch u.Source {
			case string(ingest.SourceMerged):
				both++
			case string(ingest.SourceMessageCenter):
				mc++
			default:
				rm++
			}
		}
		t.AppendRow(table.Row{product, len(groups[product]), rm, mc, both})
	}
	t.AppendFooter(table.Row{"Total", stats.Merged, "", "", ""})
	t.Render()

	log.Printf("Parsed %d files (%d failed), %d raw records, %d after merge",
		stats.FilesParsed, stats.FilesFailed, stats.RawItems, stats.Merged)
}

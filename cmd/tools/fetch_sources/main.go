package main

import (
	"context"
	"flag"
	"log"
	"os"
	"path/filepath"

	"github.com/ShannonBrayNC/technical-update-briefings/internal/ingest"
)

func main() {
	registryPath := flag.String("registry", "", "sources YAML path (default: embedded registry)")
	outDir := flag.String("out", "exports", "directory for downloaded HTML exports")
	only := flag.String("only", "", "fetch a single source by id")
	flag.Parse()

	reg, err := ingest.LoadRegistry(*registryPath)
	if err != nil {
		log.Fatalf("Failed to load source registry: %v", err)
	}

	if err := os.MkdirAll(*outDir, 0o755); err != nil {
		log.Fatalf("Failed to create %s: %v", *outDir, err)
	}

	ctx := context.Background()
	fetcher := ingest.NewExportFetcher()

	fetched := 0
	for _, src := range reg.Sources {
		if *only != "" && src.ID != *only {
			continue
		}
		if !src.Enabled {
			log.Printf("Skipping disabled source %s", src.ID)
			continue
		}
		if src.URL == "" {
			log.Printf("Skipping %s: no URL configured", src.ID)
			continue
		}

		log.Printf("Fetching %s from %s", src.ID, src.URL)
		body, err := fetcher.FetchHTML(ctx, src.URL)
		if err != nil {
			log.Printf("Fetch %s failed: %v", src.ID, err)
			continue
		}

		path := filepath.Join(*outDir, src.ID+".html")
		if err := os.WriteFile(path, body, 0o644); err != nil {
			log.Printf("Write %s failed: %v", path, err)
			continue
		}
		log.Printf("Saved %d bytes to %s", len(body), path)
		fetched++
	}

	log.Printf("Fetched %d sources", fetched)
}

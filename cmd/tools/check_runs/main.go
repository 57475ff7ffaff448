package main

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/ShannonBrayNC/technical-update-briefings/internal/db"
	"github.com/jedib0t/go-pretty/v6/table"
)

func main() {
	ctx := context.Background()
	pool, err := db.Connect(ctx)
	if err != nil {
		log.Fatal(err)
	}
	defer pool.Close()

	store := db.NewStore(pool)
	runs, err := store.ListRuns(ctx, 10)
	if err != nil {
		log.Fatal(err)
	}

	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.AppendHeader(table.Row{"Month", "Status", "Parsed", "Failed", "Raw", "Merged", "Duration", "Started At"})

	for _, r := range runs {
		duration := "Running..."
		if r.CompletedAt != nil {
			duration = r.CompletedAt.Sub(r.StartedAt).Round(time.Second).String()
		}
		t.AppendRow(table.Row{r.Month, r.Status, r.FilesParsed, r.FilesFailed, r.RawItems, r.Merged, duration, r.StartedAt.Format("15:04:05")})
	}
	t.Render()
}

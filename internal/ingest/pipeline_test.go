package ingest

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/ShannonBrayNC/technical-update-briefings/internal/models"
)

const roadmapExportHTML = `
<html><body>
<table>
<tr><th>Feature ID</th><th>Title</th><th>Description</th><th>Status</th><th>Products</th><th>GA</th></tr>
<tr><td>123456</td><td>New Planner experience</td><td>Planner gets a refreshed task grid.</td><td>Rolling out</td><td>Planner, Teams</td><td>September 2025</td></tr>
</table>
</body></html>`

const messageCenterExportHTML = `
<html><body>
<div class="ms-update-card">
	<h3 class="mc-title">Planner: the new experience</h3>
	<a href="https://admin.microsoft.com/messages">MC123456</a>
	<div class="meta">GA: September 2025 ·</div>
	<span class="chip">Teams</span>
	<p>The refreshed Planner rolls out to all tenants with new task grid, timeline view, and Copilot-assisted planning.</p>
</div>
</body></html>`

func writeExport(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write test export: %v", err)
	}
	return path
}

func TestBuildListMergesAcrossSources(t *testing.T) {
	dir := t.TempDir()
	rmPath := writeExport(t, dir, "roadmap.html", roadmapExportHTML)
	mcPath := writeExport(t, dir, "messagecenter.html", messageCenterExportHTML)

	p := NewPipeline(nil)
	merged, stats, err := p.BuildList(context.Background(), BuildOptions{
		Inputs: []string{rmPath, mcPath},
		Month:  "September 2025",
	})
	if err != nil {
		t.Fatalf("build failed: %v", err)
	}

	if stats.FilesParsed != 2 {
		t.Errorf("expected 2 files parsed, got %d", stats.FilesParsed)
	}
	if len(merged) != 1 {
		t.Fatalf("expected both feeds to merge into 1 record, got %d", len(merged))
	}

	got := merged[0]
	if got.RoadmapID != "123456" {
		t.Errorf("unexpected roadmap id %q", got.RoadmapID)
	}
	if got.Title != "Planner: the new experience" {
		t.Errorf("expected Message Center title to win, got %q", got.Title)
	}
	if got.Status != "Rolling Out" {
		t.Errorf("expected Roadmap status to win, got %q", got.Status)
	}
	if got.Source != string(SourceMerged) {
		t.Errorf("expected composite source, got %q", got.Source)
	}
}

func TestBuildListMonthFilterFallsBackWhenEmpty(t *testing.T) {
	dir := t.TempDir()
	rmPath := writeExport(t, dir, "roadmap.html", roadmapExportHTML)

	p := NewPipeline(nil)
	merged, _, err := p.BuildList(context.Background(), BuildOptions{
		Inputs: []string{rmPath},
		Month:  "March 2026",
	})
	if err != nil {
		t.Fatalf("build failed: %v", err)
	}

	// The only record carries a September 2025 date; rather than produce an
	// empty briefing the filter is abandoned for this file.
	if len(merged) != 1 {
		t.Errorf("expected unfiltered fallback to keep the record, got %d", len(merged))
	}
}

func TestBuildListSkipsUnreadableFiles(t *testing.T) {
	dir := t.TempDir()
	rmPath := writeExport(t, dir, "roadmap.html", roadmapExportHTML)

	p := NewPipeline(nil)
	merged, stats, err := p.BuildList(context.Background(), BuildOptions{
		Inputs: []string{filepath.Join(dir, "missing.html"), rmPath},
	})
	if err != nil {
		t.Fatalf("build failed: %v", err)
	}

	if stats.FilesFailed != 1 {
		t.Errorf("expected 1 failed file, got %d", stats.FilesFailed)
	}
	if stats.FilesParsed != 1 {
		t.Errorf("expected 1 parsed file, got %d", stats.FilesParsed)
	}
	if len(merged) != 1 {
		t.Errorf("expected surviving file to contribute records, got %d", len(merged))
	}
}

func TestBuildListDebugDump(t *testing.T) {
	dir := t.TempDir()
	rmPath := writeExport(t, dir, "roadmap.html", roadmapExportHTML)
	dumpPath := filepath.Join(dir, "debug", "records.json")

	p := NewPipeline(nil)
	if _, _, err := p.BuildList(context.Background(), BuildOptions{
		Inputs:    []string{rmPath},
		DebugDump: dumpPath,
	}); err != nil {
		t.Fatalf("build failed: %v", err)
	}

	data, err := os.ReadFile(dumpPath)
	if err != nil {
		t.Fatalf("expected debug dump written: %v", err)
	}
	var records []models.Update
	if err := json.Unmarshal(data, &records); err != nil {
		t.Fatalf("expected valid JSON dump: %v", err)
	}
	if len(records) != 1 {
		t.Errorf("expected 1 pre-merge record in dump, got %d", len(records))
	}
}

func TestSortForRenderer(t *testing.T) {
	items := []models.Update{
		{Title: "Zebra feature", Products: []string{"Teams"}},
		{Title: "Alpha feature", Products: []string{"Teams"}},
		{Title: "Middle feature", Products: []string{"Excel"}},
		{Title: "Orphan feature"},
	}

	SortForRenderer(items)

	order := []string{items[0].Title, items[1].Title, items[2].Title, items[3].Title}
	expected := []string{"Middle feature", "Orphan feature", "Alpha feature", "Zebra feature"}
	for i := range expected {
		if order[i] != expected[i] {
			t.Fatalf("expected order %v, got %v", expected, order)
		}
	}
}

func TestGroupByProduct(t *testing.T) {
	items := []models.Update{
		{Title: "A", Products: []string{"Excel"}},
		{Title: "B", Products: []string{"Teams"}},
		{Title: "C", Products: []string{"Excel"}},
		{Title: "D"},
	}

	order, groups := GroupByProduct(items)
	if len(order) != 3 {
		t.Fatalf("expected 3 groups, got %v", order)
	}
	if order[0] != "Excel" || order[1] != "Teams" || order[2] != "General" {
		t.Errorf("unexpected group order %v", order)
	}
	if len(groups["Excel"]) != 2 {
		t.Errorf("expected 2 Excel records, got %d", len(groups["Excel"]))
	}
	if len(groups["General"]) != 1 {
		t.Errorf("expected products-less record grouped under General, got %d", len(groups["General"]))
	}
}

func TestMonthPrefix(t *testing.T) {
	tests := []struct {
		name     string
		label    string
		expected string
	}{
		{"Month and year", "September 2025", "2025-09"},
		{"Case insensitive", "march 2026", "2026-03"},
		{"Padded", "  May 2025  ", "2025-05"},
		{"Not a month label", "Q3 2025", ""},
		{"Empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := monthPrefix(tt.label); got != tt.expected {
				t.Errorf("expected %q, got %q", tt.expected, got)
			}
		})
	}
}

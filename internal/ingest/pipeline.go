package ingest

import (
	"context"
	"encoding/json"
	"log"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/ShannonBrayNC/technical-update-briefings/internal/db"
	"github.com/ShannonBrayNC/technical-update-briefings/internal/models"
	"github.com/google/uuid"
)

// Pipeline turns a set of HTML exports into one merged, deduplicated,
// renderer-ready list. Processing is sequential and in caller-supplied input
// order; the merge result depends on arrival order, so this must stay
// single-threaded.
type Pipeline struct {
	// Store, when set, persists each run and its merged list for the review
	// history. The pipeline works fully in-memory without it.
	Store *db.Store
}

func NewPipeline(store *db.Store) *Pipeline {
	return &Pipeline{Store: store}
}

// BuildOptions configures one pipeline run.
type BuildOptions struct {
	// Inputs are HTML export paths, processed in order.
	Inputs []string

	// Month is the reporting-period label ("September 2025"), stamped onto
	// every record and applied as a soft filter: when it would remove every
	// record from a file, the unfiltered set is kept instead.
	Month string

	// DebugDump, when non-empty, receives the verbatim pre-merge record
	// list as JSON. Diagnostics only; failures are logged, never fatal.
	DebugDump string
}

// BuildList parses every input, merges the results, and returns the list
// sorted by primary product then title — the grouping order the renderer
// consumes. Per-file failures contribute zero records and never abort the
// run; an empty result is a valid outcome.
func (p *Pipeline) BuildList(ctx context.Context, opts BuildOptions) ([]models.Update, BuildStats, error) {
	stats := BuildStats{}

	var all []models.Update
	for _, path := range opts.Inputs {
		items, kind, err := ParseFile(path, opts.Month)
		if err != nil {
			log.Printf("[pipeline] skipping %s: %v", path, err)
			stats.FilesFailed++
			continue
		}
		stats.FilesParsed++

		if opts.Month != "" {
			filtered := filterByMonth(items, opts.Month)
			if len(filtered) == 0 && len(items) > 0 {
				log.Printf("[pipeline] %s (%s): month filter %q removed all %d records — keeping unfiltered set",
					filepath.Base(path), kind, opts.Month, len(items))
			} else {
				items = filtered
			}
		}

		all = append(all, items...)
	}

	usable := make([]models.Update, 0, len(all))
	for _, it := range all {
		if it.HasIdentity() {
			usable = append(usable, it)
		}
	}
	stats.RawItems = len(usable)
	stats.Dropped = len(all) - len(usable)

	if opts.DebugDump != "" {
		dumpRecords(opts.DebugDump, usable)
	}

	log.Printf("[pipeline] raw records before merge: %d (%d dropped for missing identity)", stats.RawItems, stats.Dropped)

	merged := MergeUpdates(usable)
	stats.Merged = len(merged)
	log.Printf("[pipeline] after merge: %d unique updates", stats.Merged)

	SortForRenderer(merged)

	if p.Store != nil {
		p.persistRun(ctx, opts.Month, merged, stats)
	}

	return merged, stats, nil
}

func (p *Pipeline) persistRun(ctx context.Context, month string, merged []models.Update, stats BuildStats) {
	runID := uuid.NewString()
	if err := p.Store.StartRun(ctx, runID, month); err != nil {
		log.Printf("[pipeline] failed to record run: %v", err)
		return
	}

	status := "completed"
	if err := p.Store.ReplaceUpdates(ctx, month, runID, merged); err != nil {
		log.Printf("[pipeline] failed to persist merged list: %v", err)
		status = "failed"
	}

	if err := p.Store.CompleteRun(ctx, runID, status, db.RunCounts{
		FilesParsed: stats.FilesParsed,
		FilesFailed: stats.FilesFailed,
		RawItems:    stats.RawItems,
		Merged:      stats.Merged,
	}); err != nil {
		log.Printf("[pipeline] failed to complete run record: %v", err)
	}
}

// dumpRecords writes the pre-merge list verbatim for diagnostics.
func dumpRecords(path string, items []models.Update) {
	data, err := json.MarshalIndent(items, "", "  ")
	if err != nil {
		log.Printf("[pipeline] debug dump marshal failed: %v", err)
		return
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			log.Printf("[pipeline] debug dump mkdir failed: %v", err)
			return
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		log.Printf("[pipeline] debug dump write failed: %v", err)
		return
	}
	log.Printf("[pipeline] debug dump wrote %d records to %s", len(items), path)
}

// SortForRenderer orders the list by primary product, then title, both
// case-insensitively. This is the grouping order the renderer consumes.
func SortForRenderer(items []models.Update) {
	sort.SliceStable(items, func(i, j int) bool {
		pi := strings.ToLower(items[i].FirstProduct())
		pj := strings.ToLower(items[j].FirstProduct())
		if pi != pj {
			return pi < pj
		}
		return strings.ToLower(items[i].Title) < strings.ToLower(items[j].Title)
	})
}

// GroupByProduct splits a sorted list into per-product groups, preserving
// first-seen product order.
func GroupByProduct(items []models.Update) ([]string, map[string][]models.Update) {
	var order []string
	groups := make(map[string][]models.Update)
	for _, it := range items {
		p := it.FirstProduct()
		if _, ok := groups[p]; !ok {
			order = append(order, p)
		}
		groups[p] = append(groups[p], it)
	}
	return order, groups
}

var monthNumbers = map[string]string{
	"january": "01", "february": "02", "march": "03", "april": "04",
	"may": "05", "june": "06", "july": "07", "august": "08",
	"september": "09", "october": "10", "november": "11", "december": "12",
}

var monthLabelPat = regexp.MustCompile(`(?i)^([a-z]+)\s+(\d{4})$`)

// monthPrefix converts "September 2025" into the ISO prefix "2025-09".
// Labels that don't follow the month-year shape yield "".
func monthPrefix(label string) string {
	m := monthLabelPat.FindStringSubmatch(strings.TrimSpace(label))
	if m == nil {
		return ""
	}
	num, ok := monthNumbers[strings.ToLower(m[1])]
	if !ok {
		return ""
	}
	return m[2] + "-" + num
}

// filterByMonth keeps records whose GA or rollout dates match the reporting
// period. Records without any date pass: missing data is never grounds for
// exclusion.
func filterByMonth(items []models.Update, label string) []models.Update {
	prefix := monthPrefix(label)
	labelLower := strings.ToLower(strings.TrimSpace(label))

	var out []models.Update
	for _, it := range items {
		if matchesMonth(it, labelLower, prefix) {
			out = append(out, it)
		}
	}
	return out
}

func matchesMonth(u models.Update, labelLower, prefix string) bool {
	dates := []string{u.GA, u.RolloutStart}
	hasAny := false
	for _, d := range dates {
		if d != "" {
			hasAny = true
			break
		}
	}
	if !hasAny {
		return true
	}

	for _, d := range dates {
		if d == "" {
			continue
		}
		if prefix != "" && strings.HasPrefix(d, prefix) {
			return true
		}
		if labelLower != "" && strings.Contains(strings.ToLower(d), labelLower) {
			return true
		}
	}
	return false
}

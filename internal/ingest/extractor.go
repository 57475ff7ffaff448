package ingest

import (
	"bytes"
	"fmt"
	"log"
	"os"

	"github.com/PuerkitoBio/goquery"
	"github.com/ShannonBrayNC/technical-update-briefings/internal/models"
)

// Extract pulls normalized update records out of one parsed HTML document.
// The month label is stamped onto every record but never used to filter here;
// filtering is a policy decision left to the caller. Records that end up with
// neither title nor URL are discarded because they carry no identity.
func Extract(doc *goquery.Document, kind SourceKind, month string) []models.Update {
	var raws []rawItem
	switch kind {
	case SourceMessageCenter:
		raws = extractMessageCenter(doc, month)
	default:
		raws = extractRoadmap(doc, month)
	}

	items := make([]models.Update, 0, len(raws))
	for _, r := range raws {
		u := FromRaw(r)
		if u.HasIdentity() {
			items = append(items, u)
		}
	}

	log.Printf("[ingest] %s: extracted %d records (month=%q)", kind, len(items), month)
	return items
}

// ParseFile reads one HTML export, sniffs its source kind, and extracts.
// A missing or unreadable file is this file's problem alone: the caller gets
// the error, logs it, and moves on to the next input.
func ParseFile(path string, month string) ([]models.Update, SourceKind, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, "", fmt.Errorf("read %s: %w", path, err)
	}

	kind := DetectSourceKind(path, content)

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(content))
	if err != nil {
		return nil, kind, fmt.Errorf("parse %s: %w", path, err)
	}

	return Extract(doc, kind, month), kind, nil
}

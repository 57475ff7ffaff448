package ingest

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// cardClassPat recognizes the generically-classed containers that both feeds
// fall back to when no table is present.
var cardClassPat = regexp.MustCompile(`(?i)\b[\w-]*(card|item|tile|ms-)[\w-]*`)

func hasCardishClass(sel *goquery.Selection) bool {
	class, ok := sel.Attr("class")
	if !ok {
		return false
	}
	return cardClassPat.MatchString(class)
}

// extractRoadmap pulls items from a Roadmap export. Tables are preferred:
// any table whose header row plausibly names identity or status columns is
// mapped by header position. Card-like containers are the fallback for
// exports that render the feed as a grid.
func extractRoadmap(doc *goquery.Document, month string) []rawItem {
	vocab := activeVocab()

	for _, table := range findRoadmapTables(doc, vocab) {
		items := extractRoadmapTable(table, vocab, month)
		if len(items) > 0 {
			return items
		}
	}

	return extractRoadmapCards(doc, month)
}

// findRoadmapTables returns tables whose headers, after alias normalization,
// mention at least one identity-ish column.
func findRoadmapTables(doc *goquery.Document, vocab *Vocab) []*goquery.Selection {
	var out []*goquery.Selection
	doc.Find("table").Each(func(_ int, table *goquery.Selection) {
		qualifies := false
		table.Find("th").Each(func(_ int, th *goquery.Selection) {
			switch vocab.CanonicalHeader(nodeText(th)) {
			case "roadmap_id", "title", "description":
				qualifies = true
			}
		})
		if qualifies {
			out = append(out, table)
		}
	})
	return out
}

// headerMap maps canonical column names to their positions. Tables without
// <th> cells sometimes use the first row as a header.
func headerMap(table *goquery.Selection, vocab *Vocab) map[string]int {
	headers := table.Find("th")
	if headers.Length() == 0 {
		headers = table.Find("tr").First().Find("th, td")
	}

	mapping := make(map[string]int)
	headers.Each(func(idx int, th *goquery.Selection) {
		key := vocab.CanonicalHeader(nodeText(th))
		if key != "" {
			if _, exists := mapping[key]; !exists {
				mapping[key] = idx
			}
		}
	})
	return mapping
}

func extractRoadmapTable(table *goquery.Selection, vocab *Vocab, month string) []rawItem {
	hdrs := headerMap(table, vocab)
	if len(hdrs) == 0 {
		return nil
	}

	var items []rawItem
	table.Find("tr").Each(func(_ int, tr *goquery.Selection) {
		tds := tr.Find("td")
		if tds.Length() == 0 {
			return
		}

		cell := func(name string) string {
			idx, ok := hdrs[name]
			if !ok || idx >= tds.Length() {
				return ""
			}
			return nodeText(tds.Eq(idx))
		}

		url := cell("url")
		if url == "" {
			url = preferredItemURL(tr)
		}

		rid := cell("roadmap_id")
		if rid == "" {
			rid = extractIdentifier(tr, url)
		}
		if url == "" && rid != "" {
			// Best-effort reconstruction when the export omits links.
			url = fmt.Sprintf("https://www.microsoft.com/microsoft-365/roadmap?featureid=%s", rid)
		}

		title := cell("title")
		if title == "" {
			title = nodeText(tds.First())
		}

		item := rawItem{
			Title:     title,
			Summary:   cell("description"),
			RoadmapID: rid,
			URL:       url,
			Status:    cell("status"),
			Products:  cell("products"),
			Platforms: cell("platforms"),
			Audience:  cell("audience"),
			Phases:    cell("phases"),
			Clouds:    cell("clouds"),
			Created:   cell("created"),
			Modified:  cell("modified"),
			GA:        cell("ga"),
			Source:    SourceRoadmap,
			Month:     month,
		}

		if item.Title != "" || item.URL != "" {
			items = append(items, item)
		}
	})
	return items
}

// extractRoadmapCards handles grid-style exports: data-* attributes when
// present, visible headings and the longest text block otherwise.
func extractRoadmapCards(doc *goquery.Document, month string) []rawItem {
	var items []rawItem
	doc.Find("*").Each(func(_ int, card *goquery.Selection) {
		if !hasCardishClass(card) {
			return
		}

		title := nodeText(card.Find("[class*=title]").First())
		if title == "" {
			title = nodeText(card.Find("h1, h2, h3").First())
		}
		if title == "" {
			title = nodeText(card.Find("a").First())
		}
		if title == "" {
			title = TruncateText(nodeText(card), 140)
		}

		url := preferredItemURL(card)
		rid := extractIdentifier(card, url)

		item := rawItem{
			Title:        title,
			Summary:      longestTextBlock(card),
			RoadmapID:    rid,
			URL:          url,
			Status:       attrOr(card, "data-status"),
			Phases:       attrOr(card, "data-phase"),
			Platforms:    attrOr(card, "data-plat", "data-platform"),
			Clouds:       attrOr(card, "data-cloud"),
			Products:     attrOr(card, "data-prod", "data-product"),
			GA:           attrOr(card, "data-ga-start", "data-ga"),
			RolloutStart: attrOr(card, "data-ga-start"),
			Source:       SourceRoadmap,
			Month:        month,
		}

		if item.Title != "" || item.URL != "" {
			items = append(items, item)
		}
	})
	return items
}

// attrOr returns the first non-empty attribute among names.
func attrOr(sel *goquery.Selection, names ...string) string {
	for _, n := range names {
		if v, ok := sel.Attr(n); ok {
			if v = strings.TrimSpace(v); v != "" {
				return v
			}
		}
	}
	return ""
}

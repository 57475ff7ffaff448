package ingest

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// The Message Center card UI carries a compact meta line near the top:
// "Created: Sep 3, 2025 · Last updated: Sep 12, 2025 · GA: October 2025".
// Each value is captured up to the next recognized label or the bullet
// separator, so adjacent fields never bleed into each other.
var (
	mcCreatedPat  = regexp.MustCompile(`(?i)\bCreated\s*:?\s*(.+?)(?:\s*(?:·|•|\||\bModified\b|\bLast updated\b|\bGA\b|\bRollout\b|\bDescription\b)|$)`)
	mcModifiedPat = regexp.MustCompile(`(?i)\b(?:Modified|Last updated)\s*:?\s*(.+?)(?:\s*(?:·|•|\||\bCreated\b|\bGA\b|\bRollout\b|\bDescription\b)|$)`)
	mcGAPat       = regexp.MustCompile(`(?i)\b(?:GA|Rollout start)\b\s*:?\s*(.+?)(?:\s*(?:·|•|\||\bCreated\b|\bModified\b|\bLast updated\b|\bDescription\b)|$)`)

	mcLabelTrailerPat = regexp.MustCompile(`(?i)\s*(Created|Modified|Last updated|GA|Rollout|Description)\s*:.*$`)
)

// extractMessageCenter pulls items from a Message Center export. Card-like
// containers are the primary shape; plain tables are the fallback.
func extractMessageCenter(doc *goquery.Document, month string) []rawItem {
	cards := findCards(doc)
	if len(cards) > 0 {
		items := make([]rawItem, 0, len(cards))
		for _, card := range cards {
			item := extractMessageCenterCard(card, month)
			if item.Title != "" || item.URL != "" {
				items = append(items, item)
			}
		}
		if len(items) > 0 {
			return items
		}
	}
	return extractMessageCenterTables(doc, month)
}

// findCards locates card-ish containers: elements whose class mentions
// card/item/tile/ms- and that contain at least a link or a paragraph, which
// filters out tiny decorative wrappers.
func findCards(doc *goquery.Document) []*goquery.Selection {
	var cards []*goquery.Selection
	doc.Find("*").Each(func(_ int, el *goquery.Selection) {
		if !hasCardishClass(el) {
			return
		}
		if el.Find("a").Length() == 0 && el.Find("p").Length() == 0 {
			return
		}
		cards = append(cards, el)
	})
	return cards
}

func extractMessageCenterCard(card *goquery.Selection, month string) rawItem {
	url := preferredItemURL(card)
	rid := extractIdentifier(card, url)
	vocab := activeVocab()

	item := rawItem{
		Title:     findCardTitle(card),
		Summary:   findCardSummary(card),
		RoadmapID: rid,
		URL:       url,
		Source:    SourceMessageCenter,
		Month:     month,
	}

	item.Products = csvFromClasses(card, "product")
	if item.Products == "" {
		item.Products = labelValue(card, "Products")
	}
	item.Platforms = csvFromClasses(card, "platform")
	if item.Platforms == "" {
		item.Platforms = labelValue(card, "Platform")
	}
	item.Audience = csvFromClasses(card, "audience")
	if item.Audience == "" {
		item.Audience = labelValue(card, "Audience")
	}
	item.Status = csvFromClasses(card, "status")
	if item.Status == "" {
		item.Status = labelValue(card, "Status")
	}
	item.Phases = csvFromClasses(card, "phase")
	if item.Phases == "" {
		item.Phases = labelValue(card, "Phase")
	}
	item.Clouds = csvFromClasses(card, "cloud")
	if item.Clouds == "" {
		item.Clouds = labelValue(card, "Cloud")
	}

	created, modified, ga := metaTriplet(card)
	item.Created = created
	item.Modified = modified
	item.GA = ga

	classifyChips(card, vocab, &item)

	item.Impact = sectionAfter(card, vocab.ImpactSections)
	item.HowToImplement = sectionAfter(card, vocab.HowtoSections)
	item.RequiredLicense = sectionAfter(card, vocab.LicenseSections)

	if item.Description == "" {
		item.Description = longestTextBlock(card)
	}
	return item
}

func findCardTitle(card *goquery.Selection) string {
	if t := nodeText(card.Find("[class*=title]").First()); t != "" {
		return t
	}
	for _, tag := range []string{"h1", "h2", "h3", "h4"} {
		if t := nodeText(card.Find(tag).First()); t != "" {
			return t
		}
	}
	if t := nodeText(card.Find("a").First()); t != "" {
		return t
	}
	if t := longestTextBlock(card); t != "" {
		return t
	}
	return TruncateText(nodeText(card), 140)
}

func findCardSummary(card *goquery.Selection) string {
	if s := nodeText(card.Find("[class*=summary], [class*=description]").First()); s != "" {
		return s
	}
	return longestTextBlock(card)
}

// metaTriplet extracts the Created / Modified / GA values from the flattened
// card text.
func metaTriplet(card *goquery.Selection) (created, modified, ga string) {
	flat := nodeText(card)

	grab := func(pat *regexp.Regexp) string {
		m := pat.FindStringSubmatch(flat)
		if m == nil {
			return ""
		}
		// Strip any label fragment the stop group let through.
		return cleanText(mcLabelTrailerPat.ReplaceAllString(m[1], ""))
	}

	return grab(mcCreatedPat), grab(mcModifiedPat), grab(mcGAPat)
}

// csvFromClasses joins the text of elements whose class mentions needle.
func csvFromClasses(card *goquery.Selection, needle string) string {
	var hits []string
	card.Find(fmt.Sprintf("[class*=%s]", needle)).Each(func(_ int, el *goquery.Selection) {
		hits = appendUnique(hits, nodeText(el))
	})
	return strings.Join(hits, ", ")
}

// labelValue scans the flattened card text for "Label: value" patterns,
// stopping at line breaks or a pipe.
func labelValue(card *goquery.Selection, label string) string {
	pat := regexp.MustCompile(`(?i)\b` + regexp.QuoteMeta(label) + `\s*[:\-]\s*([^\n\r|·•]+)`)
	if m := pat.FindStringSubmatch(nodeText(card)); m != nil {
		return cleanText(m[1])
	}
	return ""
}

// classifyChips routes chip/badge text into platforms, phases, audience, or
// products by keyword vocabulary. Anything unrecognized is a product tag.
func classifyChips(card *goquery.Selection, vocab *Vocab, item *rawItem) {
	var platforms, phases, audience, products []string

	card.Find(".chip, .tag, .badge, .pill, .label").Each(func(_ int, chip *goquery.Selection) {
		label := nodeText(chip)
		if label == "" {
			return
		}
		switch {
		case matchesVocab(label, vocab.Platforms):
			platforms = appendUnique(platforms, label)
		case matchesVocab(label, vocab.Phases):
			phases = appendUnique(phases, label)
		case matchesVocab(label, vocab.Audience):
			audience = appendUnique(audience, label)
		default:
			products = appendUnique(products, label)
		}
	})

	if item.Platforms == "" && len(platforms) > 0 {
		item.Platforms = strings.Join(platforms, ", ")
	}
	if item.Phases == "" && len(phases) > 0 {
		item.Phases = strings.Join(phases, ", ")
	}
	if item.Audience == "" && len(audience) > 0 {
		item.Audience = strings.Join(audience, ", ")
	}
	if item.Products == "" && len(products) > 0 {
		item.Products = strings.Join(products, ", ")
	}
}

func matchesVocab(label string, words []string) bool {
	l := strings.ToLower(label)
	for _, w := range words {
		if strings.Contains(l, strings.ToLower(w)) {
			return true
		}
	}
	return false
}

// sectionAfter finds a heading matching one of the section labels and joins
// the text of its following siblings, stopping at the next heading. This is
// how the announcement Q&A blocks ("What you need to do to prepare") are
// pulled out of card bodies.
func sectionAfter(card *goquery.Selection, labels []string) string {
	if len(labels) == 0 {
		return ""
	}

	var header *goquery.Selection
	card.Find("h1, h2, h3, h4, strong, b, p, span").EachWithBreak(func(_ int, el *goquery.Selection) bool {
		text := strings.ToLower(nodeText(el))
		for _, l := range labels {
			if strings.Contains(text, l) {
				header = el
				return false
			}
		}
		return true
	})
	if header == nil {
		return ""
	}

	var parts []string
	header.NextAll().EachWithBreak(func(_ int, sib *goquery.Selection) bool {
		switch goquery.NodeName(sib) {
		case "h1", "h2", "h3", "h4", "strong", "b":
			return false
		}
		if t := nodeText(sib); t != "" {
			parts = append(parts, t)
		}
		return true
	})
	return cleanText(strings.Join(parts, " "))
}

// extractMessageCenterTables is the fallback for table-shaped exports: first
// cell is the title, second the summary.
func extractMessageCenterTables(doc *goquery.Document, month string) []rawItem {
	var items []rawItem
	doc.Find("table tr").Each(func(_ int, tr *goquery.Selection) {
		tds := tr.Find("td")
		if tds.Length() == 0 {
			return
		}

		url := preferredItemURL(tr)
		item := rawItem{
			Title:     nodeText(tds.Eq(0)),
			Summary:   nodeText(tds.Eq(1)),
			RoadmapID: extractIdentifier(tr, url),
			URL:       url,
			Source:    SourceMessageCenter,
			Month:     month,
		}
		if item.Title != "" || item.URL != "" {
			items = append(items, item)
		}
	})
	return items
}

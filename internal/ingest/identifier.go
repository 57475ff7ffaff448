package ingest

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

var (
	// featureIDLabelPat matches "Feature ID: 123456" / "Roadmap ID #123456"
	// in free text.
	featureIDLabelPat = regexp.MustCompile(`(?i)(?:feature|roadmap)\s*id\s*[:#]?\s*(\d+)`)

	// anchorIDPat matches anchor text IDs like RM123456 or MC409870.
	anchorIDPat = regexp.MustCompile(`(?i)\b(?:RM|MC)\s?(\d{3,})\b`)

	// featureIDURLPat pulls the numeric id out of a roadmap URL.
	featureIDURLPat = regexp.MustCompile(`(?i)[?&#]featureid=(\d{3,})\b`)

	// bareNumberPat is the last-resort numeric token scan.
	bareNumberPat = regexp.MustCompile(`\b(\d{3,})\b`)

	// roadmapURLPat recognizes roadmap-flavored hrefs.
	roadmapURLPat = regexp.MustCompile(`(?i)(featureid=|\broadmap\b|\bmicrosoft-365-roadmap\b)`)
)

// extractIdentifier resolves the roadmap id for one item element. Methods are
// tried in order and the first hit wins: explicit data attribute, anchor text
// with an RM/MC prefix, a labelled id in the element text, and finally a
// numeric token embedded in the URL.
func extractIdentifier(sel *goquery.Selection, url string) string {
	if id, ok := sel.Attr("data-id"); ok {
		if id = cleanText(id); id != "" {
			return id
		}
	}

	found := ""
	sel.Find("a").EachWithBreak(func(_ int, a *goquery.Selection) bool {
		if m := anchorIDPat.FindStringSubmatch(nodeText(a)); m != nil {
			found = m[1]
			return false
		}
		return true
	})
	if found != "" {
		return found
	}

	if m := featureIDLabelPat.FindStringSubmatch(nodeText(sel)); m != nil {
		return m[1]
	}

	if m := featureIDURLPat.FindStringSubmatch(url); m != nil {
		return m[1]
	}
	if url != "" {
		if m := bareNumberPat.FindStringSubmatch(url); m != nil {
			return m[1]
		}
	}
	return ""
}

// preferredItemURL returns the first roadmap-flavored href under the element,
// falling back to the first anchor of any kind.
func preferredItemURL(sel *goquery.Selection) string {
	found := ""
	sel.Find("a[href]").EachWithBreak(func(_ int, a *goquery.Selection) bool {
		href, _ := a.Attr("href")
		href = strings.TrimSpace(href)
		if roadmapURLPat.MatchString(href) {
			found = href
			return false
		}
		return true
	})
	if found != "" {
		return found
	}
	return firstHref(sel)
}

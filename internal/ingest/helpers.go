package ingest

import (
	"strings"
	"unicode"

	"github.com/PuerkitoBio/goquery"
)

// cleanText collapses runs of whitespace into single spaces and trims.
func cleanText(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// nodeText returns the cleaned text content of a selection.
func nodeText(sel *goquery.Selection) string {
	if sel == nil || sel.Length() == 0 {
		return ""
	}
	return cleanText(sel.Text())
}

// appendUnique appends a string to a slice if it doesn't already exist (case-insensitive).
func appendUnique(list []string, v string) []string {
	vClean := strings.TrimSpace(v)
	if vClean == "" {
		return list
	}

	vLower := strings.ToLower(vClean)
	for _, existing := range list {
		if strings.ToLower(existing) == vLower {
			return list
		}
	}
	return append(list, vClean)
}

// mergeUniqueFold appends items to dst, skipping empties and case-insensitive
// duplicates. First-seen casing wins.
func mergeUniqueFold(dst []string, items []string) []string {
	seen := make(map[string]struct{}, len(dst))
	for _, v := range dst {
		k := strings.ToLower(strings.TrimSpace(v))
		if k != "" {
			seen[k] = struct{}{}
		}
	}

	for _, v := range items {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		k := strings.ToLower(v)
		if _, ok := seen[k]; ok {
			continue
		}
		dst = append(dst, v)
		seen[k] = struct{}{}
	}

	return dst
}

// listDelimiters are the separators the feeds use inside a single cell or
// label value: "Teams, SharePoint", "Windows • Mac", "GCC; DoD".
var listDelimiters = func() map[rune]struct{} {
	m := make(map[rune]struct{})
	for _, r := range ",;|•·" {
		m[r] = struct{}{}
	}
	return m
}()

// splitList splits a delimiter-joined value into trimmed, deduplicated
// tokens, keeping first-seen casing.
func splitList(v string) []string {
	if strings.TrimSpace(v) == "" {
		return nil
	}
	parts := strings.FieldsFunc(v, func(r rune) bool {
		_, ok := listDelimiters[r]
		return ok
	})
	var out []string
	for _, p := range parts {
		out = appendUnique(out, cleanText(p))
	}
	return out
}

// isAcronymToken reports whether a token already carries deliberate casing or
// digits (GCC, DoD, iOS, M365). Such tokens keep their original form.
func isAcronymToken(tok string) bool {
	for _, r := range tok {
		if unicode.IsUpper(r) || unicode.IsDigit(r) {
			return true
		}
	}
	return false
}

// titleCaseLabel applies consistent casing to category-like labels ("rolling
// out" -> "Rolling Out") while leaving acronym-like tokens (all-caps or
// containing digits) untouched. Never used on narrative text.
func titleCaseLabel(s string) string {
	words := strings.Fields(s)
	for i, w := range words {
		if isAcronymToken(w) {
			continue
		}
		r := []rune(strings.ToLower(w))
		r[0] = unicode.ToUpper(r[0])
		words[i] = string(r)
	}
	return strings.Join(words, " ")
}

// titleCaseList applies titleCaseLabel to every element.
func titleCaseList(items []string) []string {
	out := make([]string, 0, len(items))
	for _, v := range items {
		out = appendUnique(out, titleCaseLabel(v))
	}
	return out
}

// longestTextBlock returns the longest cleaned text among paragraph-like
// descendants of a node. Used as the description heuristic for card markup.
func longestTextBlock(sel *goquery.Selection) string {
	best := ""
	sel.Find("p, div, span").Each(func(_ int, p *goquery.Selection) {
		t := nodeText(p)
		if len(t) > len(best) {
			best = t
		}
	})
	return best
}

// firstHref returns the href of the first anchor under a node.
func firstHref(sel *goquery.Selection) string {
	href, _ := sel.Find("a[href]").First().Attr("href")
	return strings.TrimSpace(href)
}

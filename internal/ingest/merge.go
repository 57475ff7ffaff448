package ingest

import (
	"strings"

	"github.com/ShannonBrayNC/technical-update-briefings/internal/models"
)

// Fuzzy-merge thresholds. Anchoring an id-less record into a group that was
// identified by roadmap id uses the looser bar; merging two records that both
// lack identity evidence demands the stricter one.
const (
	anchorThreshold = 0.82
	strictThreshold = 0.85
)

// MergeUpdates groups records that describe the same real-world update and
// combines each group into one record. Identity is resolved in three passes:
// exact roadmap-id match, fuzzy title match into the id-anchored groups, and
// a final consolidation sweep over the remainder. The input slice is never
// mutated; merged records are fresh copies.
//
// Two records are only ever compared fuzzily when they share at least one
// product tag. The category gate keeps similar-sounding titles from
// unrelated products apart no matter how alike they read.
func MergeUpdates(items []models.Update) []models.Update {
	// Records with neither title nor URL carry no identity to merge on.
	usable := make([]models.Update, 0, len(items))
	for _, it := range items {
		if it.HasIdentity() {
			usable = append(usable, it)
		}
	}

	// Pass 1: exact-id groups, in arrival order.
	var working []models.Update
	idIndex := make(map[string]int)
	var unanchored []models.Update

	for _, it := range usable {
		rid := strings.TrimSpace(it.RoadmapID)
		if rid == "" {
			unanchored = append(unanchored, it)
			continue
		}
		if idx, ok := idIndex[rid]; ok {
			working[idx] = mergeRecord(working[idx], it)
		} else {
			idIndex[rid] = len(working)
			working = append(working, copyUpdate(it))
		}
	}

	// Pass 2: anchor id-less records to the best-matching existing group.
	for _, it := range unanchored {
		bestIdx, bestScore := -1, 0.0
		for idx, rec := range working {
			if !productsOverlap(it.Products, rec.Products) {
				continue
			}
			if s := TitleSimilarity(it.Title, rec.Title); s > bestScore {
				bestIdx, bestScore = idx, s
			}
		}
		if bestIdx >= 0 && bestScore >= anchorThreshold {
			working[bestIdx] = mergeRecord(working[bestIdx], it)
		} else {
			working = append(working, copyUpdate(it))
		}
	}

	// Pass 3: consolidation sweep. Pass 2 processes records in arrival
	// order, so two id-less records can both land as separate groups when
	// their mutual match appeared between them.
	var out []models.Update
	for _, rec := range working {
		bestIdx, bestScore := -1, 0.0
		for idx, existing := range out {
			if !productsOverlap(rec.Products, existing.Products) {
				continue
			}
			if s := TitleSimilarity(rec.Title, existing.Title); s > bestScore {
				bestIdx, bestScore = idx, s
			}
		}
		if bestIdx >= 0 && bestScore >= strictThreshold {
			out[bestIdx] = mergeRecord(out[bestIdx], rec)
		} else {
			out = append(out, rec)
		}
	}

	return out
}

func productsOverlap(a, b []string) bool {
	if len(a) == 0 || len(b) == 0 {
		return false
	}
	set := make(map[string]struct{}, len(a))
	for _, p := range a {
		set[strings.ToLower(strings.TrimSpace(p))] = struct{}{}
	}
	for _, p := range b {
		if _, ok := set[strings.ToLower(strings.TrimSpace(p))]; ok {
			return true
		}
	}
	return false
}

func copyUpdate(u models.Update) models.Update {
	c := u
	c.Products = append([]string(nil), u.Products...)
	c.Platforms = append([]string(nil), u.Platforms...)
	c.Clouds = append([]string(nil), u.Clouds...)
	c.Audience = append([]string(nil), u.Audience...)
	c.Phases = append([]string(nil), u.Phases...)
	return c
}

func fromMessageCenter(source string) bool {
	return strings.Contains(source, string(SourceMessageCenter))
}

func fromRoadmap(source string) bool {
	return strings.Contains(source, string(SourceRoadmap))
}

// longerText prefers the longer non-empty string; ties keep the existing
// value.
func longerText(existing, candidate string) string {
	if len(candidate) > len(existing) {
		return candidate
	}
	return existing
}

// mergeRecord combines other into a copy of base. The precedence policy is
// an information-maximizing join: Message Center entries carry richer prose,
// Roadmap entries carry the more reliable structured classification.
func mergeRecord(base, other models.Update) models.Update {
	merged := copyUpdate(base)

	mcFirst := fromMessageCenter(other.Source) && !fromMessageCenter(base.Source)
	rmFirst := fromRoadmap(other.Source) && !fromRoadmap(base.Source)

	// Narrative: longer non-empty wins regardless of source.
	merged.Summary = longerText(merged.Summary, other.Summary)
	merged.Description = longerText(merged.Description, other.Description)
	merged.Impact = longerText(merged.Impact, other.Impact)
	merged.HowToImplement = longerText(merged.HowToImplement, other.HowToImplement)
	merged.RequiredLicense = longerText(merged.RequiredLicense, other.RequiredLicense)

	// Identity: Message Center wins when it has a value.
	if mcFirst {
		if other.Title != "" {
			merged.Title = other.Title
		}
		if other.URL != "" {
			merged.URL = other.URL
		}
	} else {
		if merged.Title == "" {
			merged.Title = other.Title
		}
		if merged.URL == "" {
			merged.URL = other.URL
		}
	}
	if merged.RoadmapID == "" {
		merged.RoadmapID = other.RoadmapID
	}

	// Scalar structured metadata: Roadmap wins when it has a value.
	if rmFirst && other.Status != "" {
		merged.Status = other.Status
	} else if merged.Status == "" {
		merged.Status = other.Status
	}

	// List fields: case-insensitive union, first-seen order and casing.
	merged.Products = mergeUniqueFold(merged.Products, other.Products)
	merged.Platforms = mergeUniqueFold(merged.Platforms, other.Platforms)
	merged.Clouds = mergeUniqueFold(merged.Clouds, other.Clouds)
	merged.Audience = mergeUniqueFold(merged.Audience, other.Audience)
	merged.Phases = mergeUniqueFold(merged.Phases, other.Phases)

	// Dates: non-empty wins; when both sides have one, Message Center wins.
	merged.Created = pickDate(merged.Created, other.Created, mcFirst)
	merged.Modified = pickDate(merged.Modified, other.Modified, mcFirst)
	merged.GA = pickDate(merged.GA, other.GA, mcFirst)
	merged.RolloutStart = pickDate(merged.RolloutStart, other.RolloutStart, mcFirst)

	if merged.Month == "" {
		merged.Month = other.Month
	}

	merged.Source = combineSources(base.Source, other.Source)
	return merged
}

func pickDate(existing, candidate string, preferCandidate bool) string {
	if existing == "" {
		return candidate
	}
	if candidate != "" && preferCandidate {
		return candidate
	}
	return existing
}

func combineSources(a, b string) string {
	mc := fromMessageCenter(a) || fromMessageCenter(b)
	rm := fromRoadmap(a) || fromRoadmap(b)
	switch {
	case mc && rm:
		return string(SourceMerged)
	case mc:
		return string(SourceMessageCenter)
	case rm:
		return string(SourceRoadmap)
	}
	if a != "" {
		return a
	}
	return b
}

package ingest

import (
	"strings"
	"testing"
)

func TestFromRawDefaults(t *testing.T) {
	u := FromRaw(rawItem{
		Title:  "  New   Planner   experience  ",
		Source: SourceRoadmap,
	})

	if u.Title != "New Planner experience" {
		t.Errorf("expected collapsed whitespace in title, got %q", u.Title)
	}
	if u.Products == nil || u.Platforms == nil || u.Clouds == nil || u.Audience == nil || u.Phases == nil {
		t.Error("expected all list fields to default to empty slices, got nil")
	}
	if u.Source != "roadmap" {
		t.Errorf("expected source %q, got %q", "roadmap", u.Source)
	}
}

func TestFromRawListSplitting(t *testing.T) {
	u := FromRaw(rawItem{
		Title:     "Feature",
		Products:  "Teams, SharePoint; Teams",
		Platforms: "windows • mac | iOS",
		Audience:  "admin, end user",
		Source:    SourceRoadmap,
	})

	if len(u.Products) != 2 || u.Products[0] != "Teams" || u.Products[1] != "SharePoint" {
		t.Errorf("expected deduplicated products, got %v", u.Products)
	}
	if len(u.Platforms) != 3 || u.Platforms[0] != "Windows" || u.Platforms[1] != "Mac" || u.Platforms[2] != "iOS" {
		t.Errorf("expected title-cased platforms with acronyms intact, got %v", u.Platforms)
	}
	if len(u.Audience) != 2 || u.Audience[0] != "Admin" || u.Audience[1] != "End User" {
		t.Errorf("expected title-cased audience, got %v", u.Audience)
	}
}

func TestFromRawAcronymCasing(t *testing.T) {
	u := FromRaw(rawItem{
		Title:     "Feature",
		Platforms: "DoD; GCC High; web",
		Source:    SourceRoadmap,
	})

	if len(u.Platforms) != 3 {
		t.Fatalf("expected 3 platforms, got %v", u.Platforms)
	}
	if u.Platforms[0] != "DoD" {
		t.Errorf("expected DoD casing preserved, got %q", u.Platforms[0])
	}
	if u.Platforms[1] != "GCC High" {
		t.Errorf("expected GCC High casing preserved, got %q", u.Platforms[1])
	}
	if u.Platforms[2] != "Web" {
		t.Errorf("expected lowercase token title-cased, got %q", u.Platforms[2])
	}
}

func TestFromRawStatusCasing(t *testing.T) {
	u := FromRaw(rawItem{Title: "Feature", Status: "rolling   out", Source: SourceRoadmap})
	if u.Status != "Rolling Out" {
		t.Errorf("expected normalized status casing, got %q", u.Status)
	}
}

func TestFromRawRolloutStartDefaultsToGA(t *testing.T) {
	u := FromRaw(rawItem{Title: "Feature", GA: "September 2025", Source: SourceRoadmap})
	if u.RolloutStart != "September 2025" {
		t.Errorf("expected rollout start to default to GA, got %q", u.RolloutStart)
	}

	u = FromRaw(rawItem{Title: "Feature", GA: "September 2025", RolloutStart: "August 2025", Source: SourceRoadmap})
	if u.RolloutStart != "August 2025" {
		t.Errorf("expected explicit rollout start to survive, got %q", u.RolloutStart)
	}
}

func TestFromRawSummaryDerivedFromDescription(t *testing.T) {
	u := FromRaw(rawItem{
		Title:       "Feature",
		Description: "<p>The new sharing dialog is rolling out to all tenants.</p>",
		Source:      SourceMessageCenter,
	})

	if u.Summary != "The new sharing dialog is rolling out to all tenants." {
		t.Errorf("expected summary derived from description text, got %q", u.Summary)
	}
}

func TestFromRawSanitizesDescription(t *testing.T) {
	u := FromRaw(rawItem{
		Title:       "Feature",
		Description: `<p>Safe text</p><script>alert("x")</script>`,
		Source:      SourceMessageCenter,
	})

	if strings.Contains(u.Description, "script") || strings.Contains(u.Description, "alert") {
		t.Errorf("expected script content stripped, got %q", u.Description)
	}
	if !strings.Contains(u.Description, "Safe text") {
		t.Errorf("expected safe markup preserved, got %q", u.Description)
	}
}

func TestSplitList(t *testing.T) {
	tests := []struct {
		name     string
		in       string
		expected []string
	}{
		{"Comma separated", "a, b, c", []string{"a", "b", "c"}},
		{"Mixed delimiters", "a • b | c; d", []string{"a", "b", "c", "d"}},
		{"Case-insensitive dedupe keeps first casing", "Teams, teams, TEAMS", []string{"Teams"}},
		{"Empty", "   ", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := splitList(tt.in)
			if len(got) != len(tt.expected) {
				t.Fatalf("expected %v, got %v", tt.expected, got)
			}
			for i := range got {
				if got[i] != tt.expected[i] {
					t.Errorf("expected %v, got %v", tt.expected, got)
					break
				}
			}
		})
	}
}

func TestTruncateText(t *testing.T) {
	if got := TruncateText("short", 280); got != "short" {
		t.Errorf("expected untouched string, got %q", got)
	}
	long := strings.Repeat("a", 300)
	got := TruncateText(long, 280)
	if len(got) != 280 || !strings.HasSuffix(got, "...") {
		t.Errorf("expected 280-char ellipsized string, got %d chars", len(got))
	}
}

package ingest

import "testing"

func TestDetectSourceKind(t *testing.T) {
	tests := []struct {
		name     string
		path     string
		content  string
		expected SourceKind
	}{
		{"Roadmap filename", "exports/roadmap_sept.html", "", SourceRoadmap},
		{"Message center filename", "exports/messagecenter_sept.html", "", SourceMessageCenter},
		{"Underscored message center filename", "message_center.html", "", SourceMessageCenter},
		{"Briefing filename", "briefing_export.html", "", SourceMessageCenter},
		{"Content sniff message center", "export.html", "<p>From the Message Center archive</p>", SourceMessageCenter},
		{"Content sniff roadmap id", "export.html", "<th>Roadmap ID</th>", SourceRoadmap},
		{"Content sniff featureid url", "export.html", `<a href="?featureid=123456">x</a>`, SourceRoadmap},
		{"Unknown defaults to roadmap", "export.html", "<p>nothing recognizable</p>", SourceRoadmap},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DetectSourceKind(tt.path, []byte(tt.content)); got != tt.expected {
				t.Errorf("expected %q, got %q", tt.expected, got)
			}
		})
	}
}

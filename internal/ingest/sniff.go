package ingest

import (
	"path/filepath"
	"strings"
)

// DetectSourceKind infers which feed a file belongs to. Filename hints win;
// ambiguous names fall back to sniffing the content for characteristic
// phrases. Roadmap is the default because its exports are the more common
// input.
func DetectSourceKind(path string, content []byte) SourceKind {
	name := strings.ToLower(filepath.Base(path))
	switch {
	case strings.Contains(name, "messagecenter"),
		strings.Contains(name, "message_center"),
		strings.Contains(name, "briefing"):
		return SourceMessageCenter
	case strings.Contains(name, "roadmap"):
		return SourceRoadmap
	}

	body := strings.ToLower(string(content))
	if strings.Contains(body, "message center") {
		return SourceMessageCenter
	}
	if strings.Contains(body, "roadmap id") || strings.Contains(body, "featureid=") {
		return SourceRoadmap
	}
	return SourceRoadmap
}

package ingest

import (
	"context"
)

// SourceKind identifies which of the two feed exports a document came from.
type SourceKind string

const (
	SourceRoadmap       SourceKind = "roadmap"
	SourceMessageCenter SourceKind = "message_center"

	// SourceMerged marks records assembled from both feeds.
	SourceMerged SourceKind = "roadmap+message_center"
)

// rawItem holds field values exactly as extracted from markup, before
// normalization. List-like fields are still delimiter-joined strings here;
// FromRaw splits, dedupes, and defaults them into a models.Update.
type rawItem struct {
	Title       string
	Summary     string
	Description string
	RoadmapID   string
	URL         string
	Status      string

	Products  string
	Platforms string
	Audience  string
	Clouds    string
	Phases    string

	Created      string
	Modified     string
	GA           string
	RolloutStart string

	Impact          string
	HowToImplement  string
	RequiredLicense string

	Source SourceKind
	Month  string
}

// Fetcher retrieves one HTML export from a URL. Used by the fetch_sources
// tool; the extraction pipeline itself only reads local files.
type Fetcher interface {
	FetchHTML(ctx context.Context, url string) ([]byte, error)
}

// BuildStats summarizes one pipeline run.
type BuildStats struct {
	FilesParsed int
	FilesFailed int
	RawItems    int
	Dropped     int
	Merged      int
}

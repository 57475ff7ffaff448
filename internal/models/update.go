package models

// Update is the canonical record for one product feature update, produced by
// extraction and consumed by the merge engine, the store, and the renderer.
//
// Date-like fields (Created, Modified, GA, RolloutStart) stay as loosely
// formatted strings ("September 2025", "2025-09-01"); the source exports are
// too inconsistent to parse into time.Time without losing information.
type Update struct {
	Title       string `json:"title"`
	RoadmapID   string `json:"roadmap_id"`
	URL         string `json:"url"`
	Summary     string `json:"summary"`
	Description string `json:"description"`
	Status      string `json:"status"`

	Products  []string `json:"products"`
	Platforms []string `json:"platforms"`
	Clouds    []string `json:"clouds"`
	Audience  []string `json:"audience"`
	Phases    []string `json:"phases"`

	Created      string `json:"created"`
	Modified     string `json:"modified"`
	GA           string `json:"ga"`
	RolloutStart string `json:"rollout_start"`

	// Message Center announcement sections, when present.
	Impact          string `json:"impact"`
	HowToImplement  string `json:"how_to_implement"`
	RequiredLicense string `json:"required_license"`

	// Source is "roadmap", "message_center", or the composite
	// "roadmap+message_center" after a cross-source merge.
	Source string `json:"source"`

	// Month is the caller-supplied reporting period label, stamped onto every
	// record for downstream grouping. It is never derived from content.
	Month string `json:"month"`
}

// FirstProduct returns the primary grouping key for the renderer.
func (u Update) FirstProduct() string {
	if len(u.Products) > 0 {
		return u.Products[0]
	}
	return "General"
}

// HasIdentity reports whether the record carries enough identity to survive
// the merge stage. Records without a title and without a URL are dropped.
func (u Update) HasIdentity() bool {
	return u.Title != "" || u.URL != ""
}

package ingest

import (
	"github.com/ShannonBrayNC/technical-update-briefings/internal/models"
)

// FromRaw converts a rawItem into a canonical Update. Every field downstream
// consumers rely on exists afterwards, with "" or an empty slice as the
// default — regardless of which extraction path produced the raw fields.
func FromRaw(raw rawItem) models.Update {
	u := models.Update{
		Title:       cleanText(sanitizeUTF8(raw.Title)),
		RoadmapID:   cleanText(raw.RoadmapID),
		URL:         cleanText(raw.URL),
		Summary:     cleanText(sanitizeUTF8(raw.Summary)),
		Description: sanitizeHTML(sanitizeUTF8(raw.Description)),

		Status: titleCaseLabel(cleanText(raw.Status)),

		Products:  splitList(raw.Products),
		Platforms: titleCaseList(splitList(raw.Platforms)),
		Clouds:    splitList(raw.Clouds),
		Audience:  titleCaseList(splitList(raw.Audience)),
		Phases:    titleCaseList(splitList(raw.Phases)),

		Created:      cleanText(raw.Created),
		Modified:     cleanText(raw.Modified),
		GA:           cleanText(raw.GA),
		RolloutStart: cleanText(raw.RolloutStart),

		Impact:          cleanText(sanitizeUTF8(raw.Impact)),
		HowToImplement:  cleanText(sanitizeUTF8(raw.HowToImplement)),
		RequiredLicense: cleanText(sanitizeUTF8(raw.RequiredLicense)),

		Source: string(raw.Source),
		Month:  cleanText(raw.Month),
	}

	if u.RolloutStart == "" {
		u.RolloutStart = u.GA
	}
	if u.Summary == "" && u.Description != "" {
		u.Summary = TruncateText(HTMLToText(u.Description), 280)
	}

	ensureDefaults(&u)
	return u
}

// ensureDefaults replaces nil slices so every record marshals with the same
// shape.
func ensureDefaults(u *models.Update) {
	if u.Products == nil {
		u.Products = []string{}
	}
	if u.Platforms == nil {
		u.Platforms = []string{}
	}
	if u.Clouds == nil {
		u.Clouds = []string{}
	}
	if u.Audience == nil {
		u.Audience = []string{}
	}
	if u.Phases == nil {
		u.Phases = []string{}
	}
}

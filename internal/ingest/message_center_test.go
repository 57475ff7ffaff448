package ingest

import (
	"testing"
)

const mcCardHTML = `
<html><body>
<div class="ms-update-card">
	<h3 class="mc-title">Teams: New meeting recap</h3>
	<a href="https://admin.microsoft.com/messages">MC496530</a>
	<div class="meta">Created: Sep 3, 2025 · Last updated: Sep 12, 2025 · GA: October 2025 ·</div>
	<span class="chip">Windows</span>
	<span class="chip">Rolling out</span>
	<span class="chip">Admin</span>
	<span class="chip">Teams</span>
	<p>Meeting organizers and attendees will see an AI generated recap after every scheduled meeting, including notes and follow-ups.</p>
	<strong>How this will affect your organization</strong>
	<p>Users will see meeting recaps automatically.</p>
	<strong>What you need to do to prepare</strong>
	<p>No admin action is needed.</p>
</div>
</body></html>`

func TestExtractMessageCenterCard(t *testing.T) {
	items := Extract(docFromHTML(t, mcCardHTML), SourceMessageCenter, "September 2025")
	if len(items) != 1 {
		t.Fatalf("expected 1 record, got %d", len(items))
	}

	got := items[0]
	if got.Title != "Teams: New meeting recap" {
		t.Errorf("unexpected title %q", got.Title)
	}
	if got.RoadmapID != "496530" {
		t.Errorf("expected id from MC-prefixed anchor text, got %q", got.RoadmapID)
	}
	if got.Created != "Sep 3, 2025" {
		t.Errorf("unexpected created %q", got.Created)
	}
	if got.Modified != "Sep 12, 2025" {
		t.Errorf("unexpected modified %q", got.Modified)
	}
	if got.GA != "October 2025" {
		t.Errorf("unexpected ga %q", got.GA)
	}
	if got.Source != "message_center" {
		t.Errorf("unexpected source %q", got.Source)
	}
}

func TestExtractMessageCenterChipClassification(t *testing.T) {
	items := Extract(docFromHTML(t, mcCardHTML), SourceMessageCenter, "")
	if len(items) != 1 {
		t.Fatalf("expected 1 record, got %d", len(items))
	}

	got := items[0]
	if len(got.Platforms) != 1 || got.Platforms[0] != "Windows" {
		t.Errorf("expected Windows chip routed to platforms, got %v", got.Platforms)
	}
	if len(got.Phases) != 1 || got.Phases[0] != "Rolling Out" {
		t.Errorf("expected rollout chip routed to phases, got %v", got.Phases)
	}
	if len(got.Audience) != 1 || got.Audience[0] != "Admin" {
		t.Errorf("expected Admin chip routed to audience, got %v", got.Audience)
	}
	if len(got.Products) != 1 || got.Products[0] != "Teams" {
		t.Errorf("expected unrecognized chip to fall back to products, got %v", got.Products)
	}
}

func TestExtractMessageCenterSections(t *testing.T) {
	items := Extract(docFromHTML(t, mcCardHTML), SourceMessageCenter, "")
	if len(items) != 1 {
		t.Fatalf("expected 1 record, got %d", len(items))
	}

	got := items[0]
	if got.Impact != "Users will see meeting recaps automatically." {
		t.Errorf("unexpected impact section %q", got.Impact)
	}
	if got.HowToImplement != "No admin action is needed." {
		t.Errorf("unexpected how-to section %q", got.HowToImplement)
	}
	if got.RequiredLicense != "" {
		t.Errorf("expected empty license section, got %q", got.RequiredLicense)
	}
}

func TestMetaTripletStopsAtLabels(t *testing.T) {
	tests := []struct {
		name     string
		meta     string
		created  string
		modified string
		ga       string
	}{
		{
			name:     "Bullet separated",
			meta:     "Created: Sep 3, 2025 · Modified: Sep 12, 2025 · GA: October 2025 ·",
			created:  "Sep 3, 2025",
			modified: "Sep 12, 2025",
			ga:       "October 2025",
		},
		{
			name:     "Adjacent labels without bullets",
			meta:     "Created Sep 3, 2025 Modified Sep 12, 2025",
			created:  "Sep 3, 2025",
			modified: "Sep 12, 2025",
			ga:       "",
		},
		{
			name:     "Rollout start feeds the GA field",
			meta:     "Rollout start: October 2025 ·",
			created:  "",
			modified: "",
			ga:       "October 2025",
		},
		{
			name:     "No meta line",
			meta:     "Nothing interesting here",
			created:  "",
			modified: "",
			ga:       "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			html := `<html><body><div class="ms-card"><p>` + tt.meta + `</p></div></body></html>`
			doc := docFromHTML(t, html)
			card := doc.Find(".ms-card").First()

			created, modified, ga := metaTriplet(card)
			if created != tt.created {
				t.Errorf("created: expected %q, got %q", tt.created, created)
			}
			if modified != tt.modified {
				t.Errorf("modified: expected %q, got %q", tt.modified, modified)
			}
			if ga != tt.ga {
				t.Errorf("ga: expected %q, got %q", tt.ga, ga)
			}
		})
	}
}

func TestExtractMessageCenterTableFallback(t *testing.T) {
	html := `
	<html><body>
	<table>
	<tr><td><a href="https://example.com/mc/496530">Teams recap announcement</a></td><td>Recap summary text.</td></tr>
	</table>
	</body></html>`

	items := Extract(docFromHTML(t, html), SourceMessageCenter, "")
	if len(items) != 1 {
		t.Fatalf("expected 1 record from table fallback, got %d", len(items))
	}
	if items[0].Title != "Teams recap announcement" {
		t.Errorf("unexpected title %q", items[0].Title)
	}
	if items[0].Summary != "Recap summary text." {
		t.Errorf("unexpected summary %q", items[0].Summary)
	}
	if items[0].RoadmapID != "496530" {
		t.Errorf("expected id recovered from url, got %q", items[0].RoadmapID)
	}
}

package fetcher

import (
	"testing"
	"time"
)

func TestMediastackToRaw(t *testing.T) {
	now := time.Now().UTC()
	resp := mediastackResponse{
		Data: []mediastackArticle{
			{
				Title:       "Flood warning issued",
				Description: "Heavy rain expected.",
				URL:         "https://local.example.org/flood",
				Source:      "Local Example",
				Language:    "en",
				PublishedAt: now,
			},
		},
	}

	got := mediastackToRaw(resp)
	if len(got) != 1 {
		t.Fatalf("len(got) = %d, want 1", len(got))
	}
	if got[0].SourceDomain != "local.example.org" {
		t.Errorf("SourceDomain = %q, want local.example.org", got[0].SourceDomain)
	}
}

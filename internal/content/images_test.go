package content

import (
	"testing"

	"storefront/internal/models"
)

func TestImageResolver_RefURL(t *testing.T) {
	resolver := NewImageResolver("proj", "production")

	tests := []struct {
		name     string
		ref      string
		expected string
	}{
		{"png", "image-main1-800x600-png", "https://cdn.sanity.io/images/proj/production/main1-800x600.png"},
		{"jpg", "image-Tb9Ew8CXIwaY6R1kjMvI0uRR-2000x3000-jpg", "https://cdn.sanity.io/images/proj/production/Tb9Ew8CXIwaY6R1kjMvI0uRR-2000x3000.jpg"},
		{"empty", "", ""},
		{"file asset", "file-abc-pdf", ""},
		{"missing dimensions", "image-abc-png", ""},
		{"bad dimensions", "image-abc-wide-png", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := resolver.RefURL(tt.ref)
			if result != tt.expected {
				t.Errorf("RefURL(%q) = %q, expected %q", tt.ref, result, tt.expected)
			}
		})
	}
}

func TestImageResolver_URL(t *testing.T) {
	resolver := NewImageResolver("proj", "staging")
	image := models.Image{Asset: models.Reference{Ref: "image-x-1x1-gif"}}

	if got := resolver.URL(image); got != "https://cdn.sanity.io/images/proj/staging/x-1x1.gif" {
		t.Errorf("unexpected url: %s", got)
	}
}

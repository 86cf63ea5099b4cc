package analyzer

import "strings"

// placeholderMarkers are substrings that mean "the model had no real URL".
var placeholderMarkers = []string{"none", "n/a"}

// NormalizeURL collapses empty, too-short, and placeholder values to nil
// and prefixes scheme-less values with https://. Idempotent: normalizing
// an already-normalized value is a no-op.
//
// This runs when results are rendered, but it is part of the extraction
// contract: downstream consumers may rely on every non-nil value being an
// absolute URL.
func NormalizeURL(raw string) *string {
	url := strings.TrimSpace(raw)
	if url == "" || len(url) < 5 {
		return nil
	}

	lower := strings.ToLower(url)
	for _, marker := range placeholderMarkers {
		if strings.Contains(lower, marker) {
			return nil
		}
	}

	if !strings.HasPrefix(url, "http") {
		url = "https://" + url
	}
	return &url
}

// Package fingerprint turns loosely-formatted identity clues into a
// canonical (handle, domain) pair. Users routinely paste the website into
// the Twitter field and vice versa; classification is therefore driven by
// the content of each clue, never by which field it arrived in.
package fingerprint

import (
	"strings"

	"github.com/Yy2z/crypto-hunter/internal/model"
)

// Marker tables are kept declarative so classification can be extended
// without touching control flow.
var (
	// socialMarkers identify a clue as a social-profile link, the source
	// of a handle fingerprint.
	socialMarkers = []string{"x.com", "twitter.com"}

	// professionalMarkers identify professional-network links. Those are
	// noise for fingerprinting: they are neither a handle nor the
	// project's own domain.
	professionalMarkers = []string{"linkedin"}
)

// Extract classifies both clues and returns the detected fingerprints.
// It never fails: unparseable fragments degrade to an absent fingerprint,
// and when both clues match the same class the later one wins.
func Extract(clueA, clueB string) model.Fingerprints {
	var fps model.Fingerprints

	for _, clue := range []string{clueA, clueB} {
		item := strings.ToLower(strings.TrimSpace(clue))
		if item == "" {
			continue
		}

		switch {
		case containsAny(item, socialMarkers):
			if handle := handleFrom(item); handle != "" {
				fps.Handle = handle
			}
		case strings.Contains(item, ".") && !containsAny(item, professionalMarkers):
			if domain := domainFrom(item); domain != "" {
				fps.Domain = domain
			}
		}
	}

	return fps
}

// handleFrom extracts the profile handle: strip query parameters and
// trailing slashes, then take the final path segment.
// "x.com/Weex_Official?lang=en" -> "weex_official" (input is lowercased).
func handleFrom(item string) string {
	clean := item
	if i := strings.Index(clean, "?"); i >= 0 {
		clean = clean[:i]
	}
	clean = strings.TrimRight(clean, "/")
	if i := strings.LastIndex(clean, "/"); i >= 0 {
		clean = clean[i+1:]
	}
	return clean
}

// domainFrom extracts the bare domain: strip the protocol scheme, cut at
// the first path separator, strip a leading "www.".
// "https://www.weex.com/en" -> "weex.com".
func domainFrom(item string) string {
	clean := strings.TrimPrefix(item, "https://")
	clean = strings.TrimPrefix(clean, "http://")
	if i := strings.Index(clean, "/"); i >= 0 {
		clean = clean[:i]
	}
	clean = strings.TrimPrefix(clean, "www.")
	return clean
}

func containsAny(s string, markers []string) bool {
	for _, m := range markers {
		if strings.Contains(s, m) {
			return true
		}
	}
	return false
}

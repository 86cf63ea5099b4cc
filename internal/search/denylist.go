package search

import "strings"

// denylistTerms flag results about literal physical businesses that share a
// project's name. "Fogo" the chain and "Fogo de Chão" the steakhouse
// collide constantly; the API-level negative filter misses some of them,
// so the executor filters again here.
var denylistTerms = []string{"steak", "restaurant", "menu"}

// Denylisted reports whether the combined title+content text matches any
// denylist term, case-insensitively.
func Denylisted(title, content string) bool {
	text := strings.ToLower(title + content)
	for _, term := range denylistTerms {
		if strings.Contains(text, term) {
			return true
		}
	}
	return false
}

package scraper

import (
	"fmt"

	"pinsnap/pkg/browser"
)

// Identity returns the deduplication key for an element. The source
// URL is stable across rounds and is preferred; elements without one
// fall back to a positional key scoped to the round that found them.
// Positional keys cannot recognize the same element in a later round,
// so a source-less element may be captured more than once. CDN-backed
// feeds set src on every tile, which keeps the fallback rare.
func Identity(query string, round int, el browser.Element) string {
	if el.Source != "" {
		return el.Source
	}
	return fmt.Sprintf("%s#r%d:%d", query, round, el.Index)
}

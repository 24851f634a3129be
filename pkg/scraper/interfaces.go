package scraper

import (
	"context"

	"pinsnap/pkg/browser"
)

// Scanner enumerates the feed elements currently present on the page,
// in document order. A scan reflects only what is loaded right now;
// scrolling grows the set.
type Scanner interface {
	Scan(ctx context.Context) ([]browser.Element, error)
}

// Paginator advances the feed so that further content loads, and
// returns once the page has settled or the settle window elapsed.
type Paginator interface {
	Advance(ctx context.Context) error
}

// Sink captures one element and persists it, returning the stored
// filename. Errors are classified: recoverable failures affect only
// the element, fatal ones end the run.
type Sink interface {
	Capture(ctx context.Context, query string, el browser.Element) (string, error)
}

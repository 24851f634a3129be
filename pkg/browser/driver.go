// Package browser wraps headless-Chrome automation behind the small
// driver surface the capture engine needs: navigate, query, scroll,
// element screenshot and script evaluation. Any backend exposing these
// five operations is substitutable.
package browser

import (
	"context"
	"time"

	"github.com/chromedp/cdproto/cdp"
)

// Element is a handle to one content element currently attached to the
// page. Handles are only valid while the page that produced them is
// loaded; they must not be retained across scan rounds.
type Element struct {
	// NodeID identifies the element in the browser's live tree.
	NodeID cdp.NodeID
	// Index is the element's position within the scan that found it.
	Index int
	// Source is the element's resource locator (src attribute), empty
	// when the element carries none.
	Source string
}

// Driver is the browser automation capability consumed by the engine.
// Every call is bounded: implementations surface exceeded deadlines as
// timeout errors rather than hanging.
type Driver interface {
	// Navigate loads the given URL and waits for the document to be ready.
	Navigate(ctx context.Context, url string) error
	// QueryAll returns all elements matching the selector in document
	// order. Zero matches is an empty slice, not an error.
	QueryAll(ctx context.Context, selector string) ([]Element, error)
	// ScrollIntoView brings the element into the visible viewport.
	ScrollIntoView(ctx context.Context, el Element) error
	// Screenshot captures the element's rendered pixels.
	Screenshot(ctx context.Context, el Element) ([]byte, error)
	// Evaluate runs a script in the page and unmarshals its result into
	// out; out may be nil when the result is not needed.
	Evaluate(ctx context.Context, js string, out interface{}) error
	// Close releases the underlying page and browser resources.
	Close() error
}

// Options configures a Chrome driver instance
type Options struct {
	Headless        bool
	UserAgent       string
	ViewportWidth   int
	ViewportHeight  int
	NavigateTimeout time.Duration
	CallTimeout     time.Duration
}

package browser

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/chromedp/cdproto/cdp"
	"github.com/chromedp/chromedp"

	errs "pinsnap/pkg/errors"
	"pinsnap/pkg/logger"
)

// Chrome drives a headless Chrome instance through the DevTools
// protocol. Safe for use from a single goroutine; the engine captures
// sequentially so no internal locking is needed.
type Chrome struct {
	tabCtx      context.Context
	cancelTab   context.CancelFunc
	cancelAlloc context.CancelFunc
	opts        Options
	logger      logger.Logger
}

// NewChrome launches a browser process and opens a blank tab. The
// returned driver must be closed to reap the process.
func NewChrome(parent context.Context, opts Options, log logger.Logger) (*Chrome, error) {
	if opts.NavigateTimeout <= 0 {
		opts.NavigateTimeout = 30 * time.Second
	}
	if opts.CallTimeout <= 0 {
		opts.CallTimeout = 10 * time.Second
	}

	allocOpts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", opts.Headless),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
	)
	if opts.UserAgent != "" {
		allocOpts = append(allocOpts, chromedp.UserAgent(opts.UserAgent))
	}
	if opts.ViewportWidth > 0 && opts.ViewportHeight > 0 {
		allocOpts = append(allocOpts, chromedp.WindowSize(opts.ViewportWidth, opts.ViewportHeight))
	}

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(parent, allocOpts...)
	tabCtx, cancelTab := chromedp.NewContext(allocCtx)

	// Start the browser eagerly so launch failures surface here rather
	// than on the first navigation.
	if err := chromedp.Run(tabCtx); err != nil {
		cancelTab()
		cancelAlloc()
		return nil, errs.Driver("browser.start", err)
	}

	log.InfoWithFields("Browser started", map[string]interface{}{
		"headless":        opts.Headless,
		"viewport_width":  opts.ViewportWidth,
		"viewport_height": opts.ViewportHeight,
	})

	return &Chrome{
		tabCtx:      tabCtx,
		cancelTab:   cancelTab,
		cancelAlloc: cancelAlloc,
		opts:        opts,
		logger:      log,
	}, nil
}

// run executes actions against the tab with a bounded deadline, and
// honors cancellation of the caller's context.
func (c *Chrome) run(ctx context.Context, timeout time.Duration, actions ...chromedp.Action) error {
	runCtx, cancel := context.WithTimeout(c.tabCtx, timeout)
	defer cancel()
	stop := context.AfterFunc(ctx, cancel)
	defer stop()

	err := chromedp.Run(runCtx, actions...)
	if err != nil && ctx.Err() != nil {
		// Caller cancellation, not a page fault.
		return ctx.Err()
	}
	return err
}

// Navigate loads url and waits for the document body to be ready.
func (c *Chrome) Navigate(ctx context.Context, url string) error {
	c.logger.DebugWithFields("Navigating", map[string]interface{}{"url": url})
	err := c.run(ctx, c.opts.NavigateTimeout,
		chromedp.Navigate(url),
		chromedp.WaitReady("body", chromedp.ByQuery),
	)
	return mapError("browser.navigate", err)
}

// QueryAll returns all elements matching selector in document order.
func (c *Chrome) QueryAll(ctx context.Context, selector string) ([]Element, error) {
	var nodes []*cdp.Node
	err := c.run(ctx, c.opts.CallTimeout,
		chromedp.Nodes(selector, &nodes, chromedp.ByQueryAll, chromedp.AtLeast(0)),
	)
	if err != nil {
		return nil, mapError("browser.query", err)
	}

	elements := make([]Element, 0, len(nodes))
	for i, node := range nodes {
		elements = append(elements, Element{
			NodeID: node.NodeID,
			Index:  i,
			Source: node.AttributeValue("src"),
		})
	}
	return elements, nil
}

// ScrollIntoView brings el into the visible viewport.
func (c *Chrome) ScrollIntoView(ctx context.Context, el Element) error {
	err := c.run(ctx, c.opts.CallTimeout,
		chromedp.ScrollIntoView([]cdp.NodeID{el.NodeID}, chromedp.ByNodeID),
	)
	return mapError("browser.scroll_into_view", err)
}

// Screenshot captures el's rendered pixels as PNG bytes.
func (c *Chrome) Screenshot(ctx context.Context, el Element) ([]byte, error) {
	var buf []byte
	err := c.run(ctx, c.opts.CallTimeout,
		chromedp.Screenshot([]cdp.NodeID{el.NodeID}, &buf, chromedp.ByNodeID),
	)
	if err != nil {
		return nil, mapError("browser.screenshot", err)
	}
	return buf, nil
}

// Evaluate runs js in the page and unmarshals the result into out.
func (c *Chrome) Evaluate(ctx context.Context, js string, out interface{}) error {
	err := c.run(ctx, c.opts.CallTimeout, chromedp.Evaluate(js, out))
	return mapError("browser.evaluate", err)
}

// Close tears down the tab and the browser process.
func (c *Chrome) Close() error {
	c.cancelTab()
	c.cancelAlloc()
	return nil
}

// mapError classifies a raw automation failure. Exceeded deadlines are
// timeouts, a handle the page no longer knows is a detached element,
// anything else means the session itself is unusable.
func mapError(op string, err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, context.Canceled):
		return err
	case errors.Is(err, context.DeadlineExceeded):
		return errs.Timeout(op, err)
	case isDetached(err):
		return errs.Detached(op, err)
	default:
		return errs.Driver(op, err)
	}
}

// isDetached reports whether err indicates a node handle that the page
// has discarded, typically after a DOM mutation or virtualized list
// recycling the element.
func isDetached(err error) bool {
	msg := strings.ToLower(err.Error())
	for _, marker := range []string{
		"could not find node",
		"no node with given id",
		"node with given id does not belong",
		"not attached",
	} {
		if strings.Contains(msg, marker) {
			return true
		}
	}
	return false
}

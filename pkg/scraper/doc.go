// Package scraper implements the capture loop: scan the feed for
// matching elements, filter out identities already seen, capture each
// new element as an image file, then scroll to load more and repeat.
//
// A run terminates in exactly one of three states: completed when the
// requested number of captures succeeded, exhausted when the feed stops
// yielding new content or the round budget runs out, and aborted on a
// fatal session error or cancellation. Individual capture failures
// never end a run; they are recorded and the loop moves on.
package scraper

package scraper

import (
	"context"
	"time"

	"pinsnap/pkg/browser"
	"pinsnap/pkg/config"
	"pinsnap/pkg/logger"
)

const scrollScript = `window.scrollBy(0, window.innerHeight); undefined`

// scrollPaginator advances an infinite-scroll feed by scrolling one
// viewport height, then waits for the page to grow. Growth is observed
// by polling document height; when it does not grow within the settle
// window the paginator falls back to a fixed delay, since some feeds
// reuse tiles without changing the document height.
type scrollPaginator struct {
	driver browser.Driver
	cfg    config.ScrollConfig
	logger logger.Logger
}

// NewPaginator returns a Paginator that drives infinite scroll.
func NewPaginator(driver browser.Driver, cfg config.ScrollConfig, log logger.Logger) Paginator {
	return &scrollPaginator{
		driver: driver,
		cfg:    cfg,
		logger: log,
	}
}

func (p *scrollPaginator) Advance(ctx context.Context) error {
	before, err := p.documentHeight(ctx)
	if err != nil {
		return err
	}

	if err := p.driver.Evaluate(ctx, scrollScript, nil); err != nil {
		return err
	}

	grown, err := p.waitForGrowth(ctx, before)
	if err != nil {
		return err
	}
	if !grown {
		p.logger.DebugWithFields("Page height unchanged after scroll, settling", map[string]interface{}{
			"height":       before,
			"settle_delay": p.cfg.SettleDelay.String(),
		})
		return sleep(ctx, p.cfg.SettleDelay.Std())
	}
	return nil
}

func (p *scrollPaginator) documentHeight(ctx context.Context) (float64, error) {
	var height float64
	if err := p.driver.Evaluate(ctx, `document.body.scrollHeight`, &height); err != nil {
		return 0, err
	}
	return height, nil
}

// waitForGrowth polls the document height until it exceeds before or
// the settle window elapses. Elapsing is not an error.
func (p *scrollPaginator) waitForGrowth(ctx context.Context, before float64) (bool, error) {
	deadline := time.Now().Add(p.cfg.SettleTimeout.Std())
	ticker := time.NewTicker(p.cfg.PollInterval.Std())
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return false, ctx.Err()
		case <-ticker.C:
			height, err := p.documentHeight(ctx)
			if err != nil {
				return false, err
			}
			if height > before {
				return true, nil
			}
			if time.Now().After(deadline) {
				return false, nil
			}
		}
	}
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

package scraper

import (
	"context"

	"pinsnap/pkg/browser"
	"pinsnap/pkg/logger"
)

// selectorScanner finds feed elements by CSS selector through the
// browser driver.
type selectorScanner struct {
	driver   browser.Driver
	selector string
	logger   logger.Logger
}

// NewScanner returns a Scanner that queries the page for selector.
func NewScanner(driver browser.Driver, selector string, log logger.Logger) Scanner {
	return &selectorScanner{
		driver:   driver,
		selector: selector,
		logger:   log,
	}
}

func (s *selectorScanner) Scan(ctx context.Context) ([]browser.Element, error) {
	elements, err := s.driver.QueryAll(ctx, s.selector)
	if err != nil {
		return nil, err
	}
	s.logger.DebugWithFields("Scanned page", map[string]interface{}{
		"selector": s.selector,
		"found":    len(elements),
	})
	return elements, nil
}

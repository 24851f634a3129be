package scraper

import (
	"context"
	"time"

	"pinsnap/pkg/browser"
	"pinsnap/pkg/logger"
	"pinsnap/pkg/storage"
)

// renderSettle gives a freshly scrolled element time to finish
// rendering before its pixels are captured.
const renderSettle = 300 * time.Millisecond

// screenshotSink captures an element by scrolling it into view,
// screenshotting it, and persisting the bytes through the storage
// manager.
type screenshotSink struct {
	driver browser.Driver
	store  *storage.Manager
	logger logger.Logger
}

// NewSink returns a Sink backed by the browser driver and store.
func NewSink(driver browser.Driver, store *storage.Manager, log logger.Logger) Sink {
	return &screenshotSink{
		driver: driver,
		store:  store,
		logger: log,
	}
}

func (s *screenshotSink) Capture(ctx context.Context, query string, el browser.Element) (string, error) {
	if err := s.driver.ScrollIntoView(ctx, el); err != nil {
		return "", err
	}
	if err := sleep(ctx, renderSettle); err != nil {
		return "", err
	}

	data, err := s.driver.Screenshot(ctx, el)
	if err != nil {
		return "", err
	}

	filename := s.store.NextFilename(query)
	if _, err := s.store.Save(data, filename); err != nil {
		return "", err
	}

	s.logger.DebugWithFields("Captured element", map[string]interface{}{
		"filename": filename,
		"bytes":    len(data),
	})
	return filename, nil
}

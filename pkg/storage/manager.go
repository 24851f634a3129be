package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"sync"
	"time"

	errs "pinsnap/pkg/errors"
)

const maxSlugLen = 50

var slugPattern = regexp.MustCompile(`[^a-z0-9]+`)

// Slugify converts a query string into a filesystem-safe filename component
func Slugify(query string) string {
	slug := strings.ToLower(strings.TrimSpace(query))
	slug = slugPattern.ReplaceAllString(slug, "_")
	slug = strings.Trim(slug, "_")
	if slug == "" {
		slug = "query"
	}
	if len(slug) > maxSlugLen {
		slug = slug[:maxSlugLen]
		slug = strings.TrimRight(slug, "_")
	}
	return slug
}

// Manager handles capture file storage. It generates collision-free
// filenames and publishes files atomically: data is written to a
// temporary name and renamed into place, so a cancelled write never
// leaves a partial file under the final name.
type Manager struct {
	outputDir string
	ext       string
	reserved  map[string]bool
	ordinal   int
	mu        sync.Mutex

	// now is replaceable in tests
	now func() time.Time
}

// NewManager creates a storage manager rooted at outputDir, creating
// the directory if needed and noting any files already present so
// their names are never reused.
func NewManager(outputDir, ext string) (*Manager, error) {
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	m := &Manager{
		outputDir: outputDir,
		ext:       strings.TrimPrefix(ext, "."),
		reserved:  make(map[string]bool),
		now:       time.Now,
	}

	if err := m.scanExistingFiles(); err != nil {
		return nil, fmt.Errorf("failed to scan existing files: %w", err)
	}

	return m, nil
}

// scanExistingFiles records the names already present in the output directory
func (m *Manager) scanExistingFiles() error {
	entries, err := os.ReadDir(m.outputDir)
	if err != nil {
		return fmt.Errorf("failed to read directory: %w", err)
	}

	for _, entry := range entries {
		if !entry.IsDir() {
			m.reserved[entry.Name()] = true
		}
	}

	return nil
}

// NextFilename reserves and returns the next generated filename for the
// given query: {slug}_{timestamp}_{ordinal}.{ext}. The run-scoped ordinal
// makes names distinct even within one timestamp second.
func (m *Manager) NextFilename(query string) string {
	m.mu.Lock()
	defer m.mu.Unlock()

	slug := Slugify(query)
	stamp := m.now().Format("20060102_150405")

	for {
		m.ordinal++
		name := fmt.Sprintf("%s_%s_%d.%s", slug, stamp, m.ordinal, m.ext)
		if !m.reserved[name] {
			m.reserved[name] = true
			return name
		}
	}
}

// Save writes data under the given filename. The name must not refer to
// an existing file: collisions are refused loudly, never overwritten.
func (m *Manager) Save(data []byte, filename string) (string, error) {
	finalPath := filepath.Join(m.outputDir, filename)

	if _, err := os.Stat(finalPath); err == nil {
		return "", errs.Collision("save", finalPath)
	}

	tempPath := finalPath + ".tmp"
	if err := os.WriteFile(tempPath, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write capture data: %w", err)
	}

	if err := os.Rename(tempPath, finalPath); err != nil {
		os.Remove(tempPath)
		return "", fmt.Errorf("failed to publish capture file: %w", err)
	}

	m.mu.Lock()
	m.reserved[filename] = true
	m.mu.Unlock()

	return finalPath, nil
}

// OutputDir returns the output directory path
func (m *Manager) OutputDir() string {
	return m.outputDir
}

// FileCount returns the number of files known to the manager
func (m *Manager) FileCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.reserved)
}

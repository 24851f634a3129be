package enrich

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"pinsnap/pkg/config"
	"pinsnap/pkg/logger"
	"pinsnap/pkg/models"
	"pinsnap/pkg/ratelimit"
)

// Analyzer runs capture files through the inference services. Requests
// are paced through a token bucket so a directory sweep does not
// hammer the services.
type Analyzer struct {
	extractor TextExtractor
	captioner Captioner
	limiter   ratelimit.Limiter
	logger    logger.Logger
}

// inferenceRequestsPerMinute paces calls to the inference services
// during a directory sweep.
const inferenceRequestsPerMinute = 30

// NewAnalyzer builds an Analyzer from the analysis configuration.
// Endpoints left empty disable the corresponding stage.
func NewAnalyzer(cfg *config.AnalysisConfig) *Analyzer {
	a := &Analyzer{
		limiter: ratelimit.NewTokenBucket(inferenceRequestsPerMinute, time.Minute),
		logger:  logger.GetLogger(),
	}
	if cfg.OCREndpoint != "" {
		a.extractor = NewHTTPExtractor(cfg.OCREndpoint, cfg.RequestTimeout.Std())
	}
	if cfg.CaptionEndpoint != "" {
		a.captioner = NewHTTPCaptioner(cfg.CaptionEndpoint, cfg.RequestTimeout.Std())
	}
	return a
}

// NewAnalyzerWithParts builds an Analyzer from explicit collaborators.
func NewAnalyzerWithParts(extractor TextExtractor, captioner Captioner, limiter ratelimit.Limiter) *Analyzer {
	return &Analyzer{
		extractor: extractor,
		captioner: captioner,
		limiter:   limiter,
		logger:    logger.GetLogger(),
	}
}

// Enabled reports whether at least one inference stage is configured.
func (a *Analyzer) Enabled() bool {
	return a.extractor != nil || a.captioner != nil
}

// Close tears down any stage that holds pooled connections. Stages
// built from plain interfaces without a Close are left alone.
func (a *Analyzer) Close() {
	if c, ok := a.extractor.(interface{ Close() }); ok {
		c.Close()
	}
	if c, ok := a.captioner.(interface{ Close() }); ok {
		c.Close()
	}
}

// AnalyzeFile enriches a single image file.
func (a *Analyzer) AnalyzeFile(ctx context.Context, path string) (*models.Analysis, error) {
	image, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read image: %w", err)
	}

	analysis := &models.Analysis{
		Filename: filepath.Base(path),
		Path:     path,
	}

	if a.extractor != nil {
		if err := a.limiter.Wait(ctx); err != nil {
			return nil, err
		}
		text, err := a.extractor.ExtractText(ctx, image)
		if err != nil {
			return nil, fmt.Errorf("extract text: %w", err)
		}
		analysis.ExtractedText = text
	}

	if a.captioner != nil {
		if err := a.limiter.Wait(ctx); err != nil {
			return nil, err
		}
		caption, err := a.captioner.Caption(ctx, image)
		if err != nil {
			return nil, fmt.Errorf("caption: %w", err)
		}
		analysis.Caption = caption
	}

	analysis.Keywords = Keywords(analysis.ExtractedText, analysis.Caption)
	return analysis, nil
}

// AnalyzeDirectory enriches every image file in dir, in name order. A
// file that fails is logged and skipped; the sweep continues.
func (a *Analyzer) AnalyzeDirectory(ctx context.Context, dir string) ([]models.Analysis, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read directory: %w", err)
	}

	var names []string
	for _, entry := range entries {
		if entry.IsDir() || !isImageFile(entry.Name()) {
			continue
		}
		names = append(names, entry.Name())
	}
	sort.Strings(names)

	results := make([]models.Analysis, 0, len(names))
	for _, name := range names {
		if ctx.Err() != nil {
			return results, ctx.Err()
		}
		path := filepath.Join(dir, name)
		analysis, err := a.AnalyzeFile(ctx, path)
		if err != nil {
			if ctx.Err() != nil {
				return results, ctx.Err()
			}
			a.logger.WithError(err).WithField("file", name).Warn("Analysis failed, skipping file")
			continue
		}
		results = append(results, *analysis)

		a.logger.DebugWithFields("Analyzed file", map[string]interface{}{
			"file":     name,
			"keywords": len(analysis.Keywords),
		})
	}
	return results, nil
}

func isImageFile(name string) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".png", ".jpg", ".jpeg", ".webp":
		return true
	}
	return false
}

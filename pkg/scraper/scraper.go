package scraper

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"path/filepath"
	"strings"
	"time"

	"pinsnap/pkg/browser"
	"pinsnap/pkg/config"
	errs "pinsnap/pkg/errors"
	"pinsnap/pkg/logger"
	"pinsnap/pkg/models"
	"pinsnap/pkg/ratelimit"
	"pinsnap/pkg/storage"
)

// consecutiveEmptyLimit is how many back-to-back rounds may yield no
// fresh elements before the feed is considered exhausted. A single
// empty round is normal while lazy content is still loading.
const consecutiveEmptyLimit = 2

// Engine runs the capture loop for one query at a time.
type Engine struct {
	scanner   Scanner
	paginator Paginator
	sink      Sink
	limiter   ratelimit.Limiter
	config    *config.Config
	logger    logger.Logger
}

// New assembles an Engine on top of a live browser driver.
func New(driver browser.Driver, store *storage.Manager, cfg *config.Config) *Engine {
	log := logger.GetLogger()
	return &Engine{
		scanner:   NewScanner(driver, cfg.Search.Selector, log),
		paginator: NewPaginator(driver, cfg.Scroll, log),
		sink:      NewSink(driver, store, log),
		limiter:   ratelimit.NewFixedInterval(cfg.RateLimit.CaptureDelay.Std()),
		config:    cfg,
		logger:    log,
	}
}

// NewWithParts assembles an Engine from explicit collaborators.
func NewWithParts(scanner Scanner, paginator Paginator, sink Sink, limiter ratelimit.Limiter, cfg *config.Config) *Engine {
	return &Engine{
		scanner:   scanner,
		paginator: paginator,
		sink:      sink,
		limiter:   limiter,
		config:    cfg,
		logger:    logger.GetLogger(),
	}
}

// SearchURL builds the feed URL for a query from the configured
// base URL template.
func SearchURL(base, query string) string {
	return strings.ReplaceAll(base, "{query}", url.QueryEscape(query))
}

// OutputDir returns the directory captures for query are written to.
func OutputDir(cfg *config.Config, query string) string {
	if cfg.Output.CreateQueryFolders {
		return filepath.Join(cfg.Output.BaseDirectory, storage.Slugify(query))
	}
	return cfg.Output.BaseDirectory
}

// Run executes the capture loop until a terminal state is reached. The
// returned result is never nil; its State says how the run ended. The
// error is non-nil only for aborted runs and carries the cause.
func (e *Engine) Run(ctx context.Context, query string) (*models.RunResult, error) {
	result := &models.RunResult{
		Query:     query,
		Records:   []models.CaptureRecord{},
		StartedAt: time.Now(),
	}

	e.logger.InfoWithFields("Starting capture run", map[string]interface{}{
		"query":     query,
		"max_items": e.config.Search.MaxItems,
		"action":    "run_start",
	})

	seen := make(map[string]bool)
	emptyRounds := 0
	successes := 0

	for round := 1; round <= e.config.Scroll.MaxRounds; round++ {
		if ctx.Err() != nil {
			return e.finish(result, round-1, models.StateAborted, "cancelled"), ctx.Err()
		}
		result.Rounds = round

		elements, err := e.scanner.Scan(ctx)
		if err != nil {
			return e.abort(result, round, "scan failed", err)
		}

		fresh := e.filterFresh(query, round, seen, elements)
		logger.LogRound(query, round, len(elements), len(fresh), successes)

		if len(fresh) == 0 {
			emptyRounds++
			if emptyRounds >= consecutiveEmptyLimit {
				return e.finish(result, round, models.StateExhausted, "no new content"), nil
			}
		} else {
			emptyRounds = 0
		}

		for _, c := range fresh {
			if ctx.Err() != nil {
				return e.finish(result, round, models.StateAborted, "cancelled"), ctx.Err()
			}

			record := e.captureOne(ctx, query, c)
			result.Records = append(result.Records, record)
			if record.Outcome == models.OutcomeSuccess {
				successes++
			} else if fatal, cause := e.fatalReason(record); fatal {
				return e.abort(result, round, record.Reason, cause)
			}

			if successes >= e.config.Search.MaxItems {
				return e.finish(result, round, models.StateCompleted, ""), nil
			}

			logger.LogRateLimit(query, e.config.RateLimit.CaptureDelay.Std())
			if err := e.limiter.Wait(ctx); err != nil {
				return e.finish(result, round, models.StateAborted, "cancelled"), err
			}
		}

		if err := e.paginator.Advance(ctx); err != nil {
			if errors.Is(err, context.Canceled) {
				return e.finish(result, round, models.StateAborted, "cancelled"), err
			}
			if errs.IsFatal(err) {
				return e.abort(result, round, "scroll failed", err)
			}
			// A timed-out settle just means the next scan may come up
			// empty; the empty-round rule decides from there.
			e.logger.WithError(err).Warn("Scroll advance did not settle")
		}
	}

	return e.finish(result, result.Rounds, models.StateExhausted, "round budget reached"), nil
}

// candidate pairs an element with the identity it was selected under.
type candidate struct {
	el       browser.Element
	identity string
}

// filterFresh returns the elements whose identity has not been seen in
// this run, marking each as seen at selection time. Marking before the
// capture attempt makes capture at-most-once per identity: a failed
// element is not retried when it reappears in a later scan.
func (e *Engine) filterFresh(query string, round int, seen map[string]bool, elements []browser.Element) []candidate {
	fresh := make([]candidate, 0, len(elements))
	for _, el := range elements {
		id := Identity(query, round, el)
		if seen[id] {
			continue
		}
		seen[id] = true
		fresh = append(fresh, candidate{el: el, identity: id})
	}
	return fresh
}

// captureOne attempts a single capture and reports it as a record. The
// attempt never panics the loop; classification of its error decides
// elsewhere whether the run survives.
func (e *Engine) captureOne(ctx context.Context, query string, c candidate) models.CaptureRecord {
	record := models.CaptureRecord{
		Identity:  c.identity,
		Timestamp: time.Now(),
	}

	filename, err := e.sink.Capture(ctx, query, c.el)
	if err != nil {
		record.Outcome = models.OutcomeFailed
		record.Reason = err.Error()
		record.Err = err
		logger.LogCapture(query, c.identity, "", false, err)
		return record
	}

	record.Outcome = models.OutcomeSuccess
	record.Filename = filename
	logger.LogCapture(query, c.identity, filename, true, nil)
	return record
}

// fatalReason reports whether a failed record's cause must end the run.
func (e *Engine) fatalReason(record models.CaptureRecord) (bool, error) {
	if record.Err == nil {
		return false, nil
	}
	if errors.Is(record.Err, context.Canceled) {
		return true, record.Err
	}
	return errs.IsFatal(record.Err), record.Err
}

func (e *Engine) finish(result *models.RunResult, rounds int, state models.TerminalState, reason string) *models.RunResult {
	result.Rounds = rounds
	result.State = state
	result.Reason = reason
	result.FinishedAt = time.Now()

	e.logger.InfoWithFields("Capture run finished", map[string]interface{}{
		"query":     result.Query,
		"state":     string(state),
		"reason":    reason,
		"successes": result.Successes(),
		"failures":  result.Failures(),
		"rounds":    rounds,
		"action":    "run_finish",
	})
	return result
}

func (e *Engine) abort(result *models.RunResult, rounds int, reason string, cause error) (*models.RunResult, error) {
	e.finish(result, rounds, models.StateAborted, reason)
	return result, fmt.Errorf("%s: %w", reason, cause)
}

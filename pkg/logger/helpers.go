package logger

import "time"

// LogCapture logs the outcome of a single capture attempt
func LogCapture(query, identity, filename string, success bool, err error) {
	fields := map[string]interface{}{
		"query":    query,
		"identity": identity,
		"filename": filename,
		"success":  success,
	}

	log := GetLogger().WithFields(fields)

	if err != nil {
		log.WithError(err).Warn("Capture failed")
	} else {
		log.Info("Capture completed")
	}
}

// LogRound logs a summary of one scan round
func LogRound(query string, round, found, fresh, successes int) {
	GetLogger().InfoWithFields("Scan round finished", map[string]interface{}{
		"query":     query,
		"round":     round,
		"found":     found,
		"fresh":     fresh,
		"successes": successes,
	})
}

// LogRateLimit logs a rate-limit pause before the next capture attempt
func LogRateLimit(query string, delay time.Duration) {
	GetLogger().DebugWithFields("Rate limit pause", map[string]interface{}{
		"query":    query,
		"delay_ms": delay.Milliseconds(),
	})
}

// LogNavigation logs a page navigation
func LogNavigation(url string, duration time.Duration, err error) {
	fields := map[string]interface{}{
		"url":         url,
		"duration_ms": duration.Milliseconds(),
	}

	if err != nil {
		GetLogger().WithFields(fields).WithError(err).Error("Navigation failed")
		return
	}
	GetLogger().InfoWithFields("Navigation completed", fields)
}

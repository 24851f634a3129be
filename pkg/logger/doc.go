// Package logger provides a structured logging interface for pinsnap.
//
// It wraps the zerolog library to provide a clean API with support for:
// - Multiple log levels (Debug, Info, Warn, Error, Fatal)
// - Structured logging with fields
// - Pretty console output
// - Optional file output
// - Global logger instance for easy access
//
// Basic Usage:
//
//	import "pinsnap/pkg/logger"
//
//	// Initialize the global logger
//	cfg := &config.LoggingConfig{
//	    Level: "info",
//	}
//	err := logger.Initialize(cfg)
//
//	// Use the global logger
//	logger.Info("Run started")
//	logger.WithField("query", "mountains").Info("Scanning feed")
//	logger.WithError(err).Error("Capture failed")
//
// Advanced Usage:
//
//	log := logger.GetLogger().
//	    WithField("component", "engine").
//	    WithField("query", "mountains")
//
//	log.InfoWithFields("Round finished", map[string]interface{}{
//	    "round":     3,
//	    "fresh":     12,
//	    "successes": 9,
//	})
package logger

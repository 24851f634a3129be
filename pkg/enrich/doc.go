// Package enrich derives searchable metadata from captured images by
// calling external inference services for text extraction and
// captioning, then distilling keywords from both. Inference is
// optional: a run's captures are complete without it, and a service
// that is down fails only the enrichment pass.
package enrich

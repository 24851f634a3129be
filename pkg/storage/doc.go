// Package storage handles persistence of captured images.
//
// The Manager owns one output directory per run. It generates
// deterministic, collision-resistant filenames of the form
// {slug}_{timestamp}_{ordinal}.{ext} and refuses to overwrite any
// existing file. Writes are published atomically via a temporary file
// and rename, so downstream consumers enumerating the directory never
// observe a partially-written capture.
package storage

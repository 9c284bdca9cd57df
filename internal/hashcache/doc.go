// Package hashcache persists perceptual hashes keyed by file path and
// modification time, so unchanged files are never re-decoded across
// runs. The store is a single SQLite file inside the configured cache
// directory; it is loaded once at the start of a detection run and
// flushed once at the end.
package hashcache

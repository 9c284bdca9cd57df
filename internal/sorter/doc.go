// Package sorter places image files into date-bucketed folders, moves
// them in bulk with collision-safe renaming, and deletes them to the
// user trash. All operations are best-effort per file and report a
// tally instead of failing the batch.
package sorter

// Package dedupe finds visually near-duplicate images. A cache-backed
// parallel pipeline resolves each input path to a perceptual hash, then
// a BK-tree index over the hashes drives single-linkage grouping under
// an inclusive Hamming-distance threshold.
package dedupe

package dedupe

import (
	"context"
	"sort"
	"time"

	"image-sorter/internal/hashcache"
	"image-sorter/internal/imagetypes"
	"image-sorter/internal/logging"
	"image-sorter/internal/metrics"
)

// Options configures a duplicate detection run.
type Options struct {
	// Threshold is the inclusive Hamming-distance bound for grouping.
	// 0 groups only bit-identical hashes.
	Threshold int

	// Workers sets the hashing pool size; 0 means one per CPU.
	Workers int

	// CacheDir is the directory holding the persistent hash store.
	CacheDir string

	// Progress, if non-nil, receives one call per completed path. The
	// payload is advisory only.
	Progress func(path string)
}

// Result is the outcome of a detection run. Processed counts only
// successfully hashed items; Errors counts dropped ones.
type Result struct {
	Groups          []imagetypes.DuplicateGroup `json:"groups"`
	TotalDuplicates uint                        `json:"totalDuplicates"`
	Processed       uint                        `json:"processed"`
	Errors          uint                        `json:"errors"`
}

// FindDuplicates hashes every input path and partitions records with
// mutually similar hashes into duplicate groups. Per-item failures
// never abort the batch: a run with unreadable files still returns
// full results for the readable subset plus an error tally. The only
// returned error is context cancellation.
func FindDuplicates(ctx context.Context, paths []string, opts Options) (*Result, error) {
	metrics.DetectionRunsTotal.Inc()

	cache := hashcache.Open(opts.CacheDir)
	defer func() {
		if err := cache.Close(); err != nil {
			logging.Warn("dedupe: failed to close hash store: %v", err)
		}
	}()

	start := time.Now()
	hashed, errCount, err := hashAll(ctx, paths, cache, opts)
	if err != nil {
		return nil, err
	}
	metrics.DetectionDuration.WithLabelValues("hashing").Observe(time.Since(start).Seconds())

	// Flush is best-effort: an unpersisted cache costs a recompute next
	// run, not correctness.
	if err := cache.Persist(); err != nil {
		logging.Warn("dedupe: failed to persist hash cache: %v", err)
	}

	start = time.Now()
	groups := groupRecords(hashed, opts.Threshold)
	metrics.DetectionDuration.WithLabelValues("grouping").Observe(time.Since(start).Seconds())
	metrics.DuplicateGroupsFound.Set(float64(len(groups)))

	var total uint
	for _, g := range groups {
		total += uint(len(g.Images) - 1)
	}

	logging.Info("dedupe: %d/%d hashed, %d groups, %d duplicates, %d errors",
		len(hashed), len(paths), len(groups), total, errCount)

	return &Result{
		Groups:          groups,
		TotalDuplicates: total,
		Processed:       uint(len(hashed)),
		Errors:          uint(errCount),
	}, nil
}

// groupRecords partitions the hashed records into duplicate groups
// using single-linkage, seed-order grouping: records are visited in
// input order, each unvisited record seeds a group of everything the
// index finds within threshold, and members join exactly one group.
// Membership is transitive from the seed only; it is not verified
// pairwise among all members.
func groupRecords(records []imagetypes.ImageWithHash, threshold int) []imagetypes.DuplicateGroup {
	tree := &bkTree{}
	byHash := make(map[string][]int)

	for i, r := range records {
		indices, seen := byHash[r.Hash]
		byHash[r.Hash] = append(indices, i)
		if seen {
			continue
		}
		bits, err := decodeHash(r.Hash)
		if err != nil {
			// The pipeline validates hashes before emitting records.
			logging.Warn("dedupe: skipping unreadable hash for %s: %v", r.Info.Path, err)
			continue
		}
		tree.insert(r.Hash, bits)
	}

	visited := make([]bool, len(records))
	var groups []imagetypes.DuplicateGroup

	for i, r := range records {
		if visited[i] {
			continue
		}
		bits, err := decodeHash(r.Hash)
		if err != nil {
			continue
		}

		var members []int
		for _, hash := range tree.search(bits, threshold) {
			for _, j := range byHash[hash] {
				if visited[j] {
					continue
				}
				visited[j] = true
				members = append(members, j)
			}
		}

		if len(members) < 2 {
			continue
		}

		// Tree traversal order is not stable; record order is.
		sort.Ints(members)
		group := imagetypes.DuplicateGroup{Images: make([]imagetypes.ImageRecord, 0, len(members))}
		for _, j := range members {
			group.Images = append(group.Images, records[j].Info)
		}
		groups = append(groups, group)
	}

	return groups
}

package dedupe

import (
	"context"
	"os"
	"path/filepath"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"image-sorter/internal/hashcache"
	"image-sorter/internal/imagetypes"
	"image-sorter/internal/logging"
	"image-sorter/internal/metrics"
	"image-sorter/internal/workers"
)

// hashAll fans the input paths out over a worker pool and resolves each
// one to an ImageWithHash, consulting the cache before decoding. Output
// order follows input order regardless of completion order: every path
// owns a unique result slot. The returned error is non-nil only on
// context cancellation; per-path failures are counted and dropped.
func hashAll(ctx context.Context, paths []string, cache *hashcache.Cache, opts Options) ([]imagetypes.ImageWithHash, int, error) {
	if len(paths) == 0 {
		return nil, 0, nil
	}

	numWorkers := opts.Workers
	if numWorkers <= 0 {
		numWorkers = workers.ForCPU(0)
	}
	metrics.PipelineWorkers.Set(float64(numWorkers))
	logging.Debug("dedupe: hashing %d paths with %d workers", len(paths), numWorkers)

	slots := make([]*imagetypes.ImageWithHash, len(paths))
	var errCount atomic.Int64

	g, ctx := errgroup.WithContext(ctx)

	jobs := make(chan int)
	g.Go(func() error {
		defer close(jobs)
		for i := range paths {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case jobs <- i:
			}
		}
		return nil
	})

	for w := 0; w < numWorkers; w++ {
		g.Go(func() error {
			for i := range jobs {
				if err := ctx.Err(); err != nil {
					return err
				}
				slots[i] = hashOne(paths[i], cache, &errCount, opts.Progress)
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, int(errCount.Load()), err
	}

	out := make([]imagetypes.ImageWithHash, 0, len(paths))
	for _, s := range slots {
		if s != nil {
			out = append(out, *s)
		}
	}
	return out, int(errCount.Load()), nil
}

// hashOne executes the full per-path contract on one worker: stat,
// cache-aside lookup, decode+hash on miss. Any failure drops the path
// and increments the error counter exactly once. One progress tick is
// emitted per completed path, cache hit or not.
func hashOne(path string, cache *hashcache.Cache, errCount *atomic.Int64, progress func(path string)) *imagetypes.ImageWithHash {
	fi, err := os.Stat(path)
	if err != nil {
		logging.Debug("dedupe: cannot stat %s: %v", path, err)
		metrics.HashErrorsTotal.WithLabelValues("stat").Inc()
		errCount.Add(1)
		return nil
	}

	rec := imagetypes.ImageRecord{
		Path:      path,
		Filename:  filepath.Base(path),
		SizeBytes: uint64(fi.Size()),
	}

	if hash, ok := cache.Lookup(path, fi.ModTime()); ok {
		// Entries written by an older hash configuration decode to the
		// wrong width; treat those as misses and recompute.
		if w, err := decodeHash(hash); err == nil && len(w) == hashWords {
			tick(progress, path)
			return &imagetypes.ImageWithHash{Info: rec, Hash: hash}
		}
		logging.Debug("dedupe: discarding malformed cache entry for %s", path)
	}

	start := time.Now()
	hash, err := computeHash(path)
	if err != nil {
		logging.Debug("dedupe: %v", err)
		metrics.HashErrorsTotal.WithLabelValues("decode").Inc()
		errCount.Add(1)
		return nil
	}
	metrics.HashDuration.Observe(time.Since(start).Seconds())
	metrics.HashesComputedTotal.Inc()

	cache.Insert(path, fi.ModTime(), hash)
	tick(progress, path)
	return &imagetypes.ImageWithHash{Info: rec, Hash: hash}
}

// tick notifies the progress observer that an item finished. The
// payload is advisory: observers needing exact totals count the ticks
// themselves.
func tick(progress func(path string), path string) {
	if progress != nil {
		progress(path)
	}
}

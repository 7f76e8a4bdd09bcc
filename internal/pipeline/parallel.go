package pipeline

import (
	"context"
	"errors"
	"fmt"
	"image"
	"runtime"
	"sync"
)

// ParallelOptions controls the spine worker pool.
type ParallelOptions struct {
	MaxWorkers int // 0 = runtime.NumCPU()
}

// spineJob is one spine image to process.
type spineJob struct {
	index int
	image image.Image
}

// spineOut is the result of processing one spine.
type spineOut struct {
	index  int
	result *SpineResult
	err    error
}

// ProcessSpines processes multiple spine images in parallel using a
// worker pool. Results come back in input order; the first per-spine
// error is returned alongside whatever succeeded.
func (p *Pipeline) ProcessSpines(ctx context.Context, images []image.Image, opts ParallelOptions) ([]*SpineResult, error) {
	if len(images) == 0 {
		return nil, errors.New("no spine images provided")
	}
	workers := opts.MaxWorkers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if workers > len(images) {
		workers = len(images)
	}

	jobs := make(chan spineJob, len(images))
	out := make(chan spineOut, len(images))

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				select {
				case job, ok := <-jobs:
					if !ok {
						return
					}
					result, err := p.ProcessSpine(ctx, job.image)
					select {
					case out <- spineOut{index: job.index, result: result, err: err}:
					case <-ctx.Done():
						return
					}
				case <-ctx.Done():
					return
				}
			}
		}()
	}

	go func() {
		defer close(jobs)
		for i, img := range images {
			select {
			case jobs <- spineJob{index: i, image: img}:
			case <-ctx.Done():
				return
			}
		}
	}()

	go func() {
		wg.Wait()
		close(out)
	}()

	results := make([]*SpineResult, len(images))
	var firstErr error
	for so := range out {
		if so.err != nil {
			if firstErr == nil {
				firstErr = fmt.Errorf("spine %d: %w", so.index, so.err)
			}
			continue
		}
		results[so.index] = so.result
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return results, firstErr
}

package pipeline

import (
	"context"
	"errors"
	"sync"

	"github.com/rs/zerolog"

	"github.com/bridgesight/thermascan/internal/imaging"
)

// Previewer drives the pipeline for interactive front ends. Every parameter
// change issues a new request; the previewer cancels the in-flight run and
// guarantees last-request-wins delivery: a superseded run's result is
// discarded, never handed to the caller after a newer request has started.
//
// Frames are loaded through a shared cache, so a slider change re-runs only
// the in-memory stages, not the disk read and decode.
type Previewer struct {
	log   zerolog.Logger
	cache *imaging.FrameCache

	mu      sync.Mutex
	cancel  context.CancelFunc
	current uint64
	wg      sync.WaitGroup
}

// NewPreviewer creates a previewer with its own frame cache.
func NewPreviewer(logger zerolog.Logger) *Previewer {
	return &Previewer{
		log:   logger,
		cache: imaging.NewFrameCache(),
	}
}

// Request runs stages 1-6 for sourcePath under cfg and calls deliver with
// the outcome. It returns immediately; deliver runs on a background
// goroutine.
//
// A request supersedes any in-flight one: the older run is cancelled and its
// deliver callback is never invoked once a newer request exists. Cancelled
// runs are silent; deliver only ever observes the newest request's result or
// error. An invalid cfg is reported synchronously and supersedes nothing.
//
// deliver must not call Request reentrantly; it runs while the previewer's
// internal lock is held to close the race between delivery and supersession.
func (pv *Previewer) Request(ctx context.Context, cfg Config, sourcePath string, deliver func(*Result, error)) error {
	pipe, err := New(cfg, pv.log, WithFrameCache(pv.cache))
	if err != nil {
		return err
	}

	pv.mu.Lock()
	if pv.cancel != nil {
		pv.cancel()
	}
	runCtx, cancel := context.WithCancel(ctx)
	pv.cancel = cancel
	pv.current++
	seq := pv.current
	pv.mu.Unlock()

	pv.wg.Add(1)
	go func() {
		defer pv.wg.Done()
		defer cancel()

		result, err := pipe.Render(runCtx, sourcePath)

		pv.mu.Lock()
		defer pv.mu.Unlock()
		if seq != pv.current {
			// Superseded while running; drop the stale result.
			pv.log.Debug().Str("file", sourcePath).Msg("stale preview discarded")
			return
		}
		if errors.Is(err, context.Canceled) {
			return
		}
		deliver(result, err)
	}()

	return nil
}

// Evict drops a cached frame, forcing the next preview of that file to
// re-read disk. Call it when the source file changes on disk.
func (pv *Previewer) Evict(sourcePath string) {
	pv.cache.Evict(sourcePath)
}

// Close cancels any in-flight preview and waits for its goroutine to exit.
func (pv *Previewer) Close() {
	pv.mu.Lock()
	if pv.cancel != nil {
		pv.cancel()
	}
	pv.current++ // orphan any in-flight delivery
	pv.mu.Unlock()
	pv.wg.Wait()
}

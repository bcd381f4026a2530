package pipeline

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"sync"

	apperrors "github.com/bridgesight/thermascan/internal/errors"
	"github.com/bridgesight/thermascan/internal/imaging"
)

// DefaultOutputDirName is appended to the input folder when no output folder
// is given.
const DefaultOutputDirName = "processed"

// DiscoverImages lists the supported image files directly inside dir
// (non-recursive), sorted by name. An empty folder yields an empty slice.
func DiscoverImages(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, apperrors.NewLoadError("failed to read input folder", err)
	}

	paths := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() || !imaging.SupportedFile(e.Name()) {
			continue
		}
		paths = append(paths, filepath.Join(dir, e.Name()))
	}
	sort.Strings(paths)
	return paths, nil
}

// ProcessFolder runs the pipeline over every supported image in inputDir,
// writing overlays into outputDir (default "<inputDir>/processed", created
// only once discovery finds at least one file to process).
//
// Files run concurrently on a bounded worker pool; each file's failure is
// recorded as its own Outcome and never aborts the rest of the batch. The
// returned outcomes are sorted by source path so reporting is deterministic
// regardless of scheduling. Cancelling the context stops the batch early;
// files not yet finished are not reported.
//
// The configuration was already validated by New, so by the time this runs a
// config error cannot occur mid-batch.
func (p *Pipeline) ProcessFolder(ctx context.Context, inputDir, outputDir string) ([]Outcome, *Summary, error) {
	if outputDir == "" {
		outputDir = filepath.Join(inputDir, DefaultOutputDirName)
	}

	paths, err := DiscoverImages(inputDir)
	if err != nil {
		return nil, nil, err
	}
	if len(paths) > 0 {
		if err := os.MkdirAll(outputDir, 0o755); err != nil {
			return nil, nil, apperrors.NewExportError("failed to create output folder", err)
		}
	}

	workers := p.workers
	if workers < 1 {
		workers = runtime.NumCPU()
	}
	if workers > len(paths) && len(paths) > 0 {
		workers = len(paths)
	}

	jobs := make(chan string)
	var (
		mu       sync.Mutex
		outcomes []Outcome
		wg       sync.WaitGroup
	)

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for path := range jobs {
				outcome, ok := p.runOne(ctx, path, outputDir)
				if !ok {
					continue
				}
				mu.Lock()
				outcomes = append(outcomes, outcome)
				mu.Unlock()
			}
		}()
	}

submit:
	for _, path := range paths {
		select {
		case jobs <- path:
		case <-ctx.Done():
			break submit
		}
	}
	close(jobs)
	wg.Wait()

	sort.Slice(outcomes, func(i, j int) bool {
		return outcomes[i].SourcePath < outcomes[j].SourcePath
	})

	summary := Summarize(outcomes)
	p.log.Info().
		Int("total", summary.Total).
		Int("succeeded", summary.Succeeded).
		Int("failed", summary.Failed).
		Int("metadata_degraded", summary.MetadataDegraded).
		Msg("batch complete")

	return outcomes, summary, ctx.Err()
}

// runOne isolates a single file's run, converting its error into a tagged
// outcome. Runs interrupted by batch cancellation report ok=false and are
// not counted as failures. Processing-kind failures are logged at error
// level: they mean a pipeline bug, not bad input.
func (p *Pipeline) runOne(ctx context.Context, path, outputDir string) (Outcome, bool) {
	result, err := p.ProcessFile(ctx, path, outputDir)
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return Outcome{}, false
		}
		kind := apperrors.KindOf(err)
		if kind == apperrors.KindProcessing {
			p.log.Error().Err(err).Str("file", path).Msg("internal pipeline fault")
		} else {
			p.log.Warn().Err(err).Str("file", path).Str("kind", string(kind)).Msg("file skipped")
		}
		return Outcome{SourcePath: path, ErrKind: kind, Err: err}, true
	}

	p.log.Info().
		Str("file", path).
		Str("output", result.OutputPath).
		Int("clusters", len(result.Clusters)).
		Msg("file processed")

	return Outcome{SourcePath: path, Result: result}, true
}

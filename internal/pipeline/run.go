package pipeline

import (
	"context"
	"path/filepath"

	"github.com/rs/zerolog"

	"github.com/bridgesight/thermascan/internal/detection"
	apperrors "github.com/bridgesight/thermascan/internal/errors"
	"github.com/bridgesight/thermascan/internal/imaging"
)

// Pipeline runs the deterministic per-file scan. A Pipeline is immutable
// after construction and safe for concurrent use; every run owns its own
// grids and shares nothing but the optional frame cache.
type Pipeline struct {
	cfg     Config
	log     zerolog.Logger
	cache   *imaging.FrameCache
	workers int
}

// Option customizes a Pipeline.
type Option func(*Pipeline)

// WithWorkers bounds the batch worker pool. Values below 1 keep the default
// (one worker per CPU).
func WithWorkers(n int) Option {
	return func(p *Pipeline) {
		if n >= 1 {
			p.workers = n
		}
	}
}

// WithFrameCache makes the pipeline load frames through the given cache
// instead of reading disk on every run. Used by the preview runner.
func WithFrameCache(cache *imaging.FrameCache) Option {
	return func(p *Pipeline) {
		p.cache = cache
	}
}

// New builds a Pipeline after validating the configuration. A config-kind
// error here means no file will ever be processed with these parameters
// (fail fast, per the propagation policy).
func New(cfg Config, logger zerolog.Logger, opts ...Option) (*Pipeline, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	p := &Pipeline{cfg: cfg, log: logger}
	for _, opt := range opts {
		opt(p)
	}
	return p, nil
}

// Config returns the validated configuration the pipeline runs with.
func (p *Pipeline) Config() Config {
	return p.cfg
}

// ProcessFile runs stages 1-7 for a single file and writes the overlay into
// outputDir. The context is checked between stages so an in-flight run can
// be cancelled cooperatively.
func (p *Pipeline) ProcessFile(ctx context.Context, sourcePath, outputDir string) (*Result, error) {
	result, frame, err := p.analyze(ctx, sourcePath)
	if err != nil {
		return nil, err
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	outPath := filepath.Join(outputDir, imaging.OutputName(sourcePath))
	writeRes, err := imaging.Write(result.Overlay, outPath, frame.Metadata)
	if err != nil {
		return nil, err
	}

	result.OutputPath = outPath
	result.MetadataPreserved = !frame.MetadataUncaptured &&
		(len(frame.Metadata) == 0 || writeRes.MetadataAttached)
	result.MetadataDegraded = writeRes.MetadataDegraded || frame.MetadataUncaptured

	if result.MetadataDegraded {
		p.log.Warn().Str("file", sourcePath).Msg("exported without metadata; source tags could not be carried over")
	}

	return result, nil
}

// Render runs stages 1-6 (everything but the export) and returns the
// rendered overlay plus cluster list. This is the preview path: no file is
// written and OutputPath stays empty.
func (p *Pipeline) Render(ctx context.Context, sourcePath string) (*Result, error) {
	result, _, err := p.analyze(ctx, sourcePath)
	return result, err
}

// analyze executes the in-memory stages and returns the partial result plus
// the loaded frame (the caller needs its metadata blob for export).
func (p *Pipeline) analyze(ctx context.Context, sourcePath string) (*Result, *imaging.ThermalFrame, error) {
	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}

	frame, err := p.loadFrame(sourcePath)
	if err != nil {
		return nil, nil, err
	}

	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}

	normalized, err := imaging.Normalize(frame)
	if err != nil {
		return nil, nil, apperrors.NewProcessingError("normalization failed", err)
	}

	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}

	mask, cut, err := detection.Threshold(normalized, frame.Width, frame.Height, p.cfg.Percentile)
	if err != nil {
		return nil, nil, apperrors.NewProcessingError("thresholding failed", err)
	}

	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}

	cleaned, err := detection.Denoise(mask, p.cfg.KernelSize, p.cfg.OpeningIterations, p.cfg.ClosingIterations)
	if err != nil {
		return nil, nil, apperrors.NewProcessingError("morphological cleanup failed", err)
	}

	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}

	clusters := detection.FilterClusters(detection.Label(cleaned), p.cfg.MinClusterSize)

	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}

	overlay, err := imaging.RenderOverlay(normalized, frame.Width, frame.Height, clusters)
	if err != nil {
		return nil, nil, apperrors.NewProcessingError("overlay rendering failed", err)
	}

	p.log.Debug().
		Str("file", sourcePath).
		Float64("cutoff", cut.Cutoff).
		Int("mask_pixels", cut.SetPixels).
		Int("clusters", len(clusters)).
		Msg("frame analyzed")

	return &Result{
		SourcePath:      sourcePath,
		Overlay:         overlay,
		Clusters:        clusters,
		ThresholdCutoff: cut.Cutoff,
	}, frame, nil
}

func (p *Pipeline) loadFrame(sourcePath string) (*imaging.ThermalFrame, error) {
	if p.cache != nil {
		return p.cache.Load(sourcePath)
	}
	return imaging.Load(sourcePath)
}

package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/rs/zerolog"

	"github.com/bridgesight/thermascan/internal/pipeline"
)

// Version information - set by ldflags during build
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

func main() {
	var (
		inputDir    = flag.String("input", "", "folder containing RJPG/JPEG/TIFF images to process")
		outputDir   = flag.String("output", "", "destination folder for processed overlays (defaults to '<input>/processed')")
		percentile  = flag.Float64("hotspot-percentile", 97, "percentile used to detect hotspots")
		minCluster  = flag.Int("min-cluster-size", 45, "minimum hotspot size in pixels")
		opening     = flag.Int("opening-iterations", 1, "number of morphological opening iterations")
		closing     = flag.Int("closing-iterations", 1, "number of morphological closing iterations")
		kernelSize  = flag.Int("kernel-size", 3, "kernel size for morphological operations (odd integer)")
		workers     = flag.Int("workers", 0, "concurrent files (0 = one per CPU)")
		verbose     = flag.Bool("verbose", false, "enable debug logging")
		showVersion = flag.Bool("version", false, "print version information")
	)
	flag.Parse()

	if *showVersion {
		fmt.Printf("thermascan %s\n", Version)
		fmt.Printf("  Build time: %s\n", BuildTime)
		fmt.Printf("  Git commit: %s\n", GitCommit)
		return
	}

	level := zerolog.InfoLevel
	if *verbose {
		level = zerolog.DebugLevel
	}
	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
		Level(level).
		With().
		Timestamp().
		Logger()

	if *inputDir == "" {
		fmt.Fprintln(os.Stderr, "thermascan: -input is required")
		flag.Usage()
		os.Exit(2)
	}

	cfg := pipeline.Config{
		Percentile:        *percentile,
		MinClusterSize:    *minCluster,
		OpeningIterations: *opening,
		ClosingIterations: *closing,
		KernelSize:        *kernelSize,
	}

	p, err := pipeline.New(cfg, logger, pipeline.WithWorkers(*workers))
	if err != nil {
		// Invalid configuration aborts before any file is touched.
		logger.Error().Err(err).Msg("invalid configuration")
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	outcomes, summary, err := p.ProcessFolder(ctx, *inputDir, *outputDir)
	if err != nil {
		logger.Error().Err(err).Msg("batch did not complete")
		printSummary(outcomes, summary)
		os.Exit(1)
	}

	printSummary(outcomes, summary)
	if summary.Failed > 0 {
		os.Exit(1)
	}
}

// printSummary writes the user-facing batch report: every file with its
// outcome, then the totals.
func printSummary(outcomes []pipeline.Outcome, summary *pipeline.Summary) {
	if summary == nil {
		return
	}

	for _, o := range outcomes {
		name := filepath.Base(o.SourcePath)
		switch {
		case !o.Succeeded():
			fmt.Printf("FAILED   %-30s %s: %v\n", name, o.ErrKind, o.Err)
		case o.Result.MetadataDegraded:
			fmt.Printf("DEGRADED %-30s %d clusters, metadata not carried over\n", name, len(o.Result.Clusters))
		default:
			fmt.Printf("OK       %-30s %d clusters\n", name, len(o.Result.Clusters))
		}
	}

	fmt.Printf("\n%d processed, %d succeeded, %d failed", summary.Total, summary.Succeeded, summary.Failed)
	if summary.Failed > 0 {
		fmt.Printf(" (%d load, %d processing, %d export)",
			summary.LoadFailures, summary.ProcessingFailures, summary.ExportFailures)
	}
	if summary.MetadataDegraded > 0 {
		fmt.Printf(", %d exported without metadata", summary.MetadataDegraded)
	}
	fmt.Println()
}

package pipeline

import (
	"context"
	"image"
	"os"
	"path/filepath"
	"testing"

	apperrors "github.com/bridgesight/thermascan/internal/errors"
)

func TestDiscoverImages(t *testing.T) {
	dir := t.TempDir()

	writeFrameTIFF(t, filepath.Join(dir, "b.tif"), 8, 8, 10, image.Rectangle{}, 0)
	writeFrameTIFF(t, filepath.Join(dir, "a.tif"), 8, 8, 10, image.Rectangle{}, 0)
	if err := os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("ignore me"), 0o644); err != nil {
		t.Fatalf("setup failed: %v", err)
	}
	if err := os.MkdirAll(filepath.Join(dir, "processed"), 0o755); err != nil {
		t.Fatalf("setup failed: %v", err)
	}

	paths, err := DiscoverImages(dir)
	if err != nil {
		t.Fatalf("DiscoverImages failed: %v", err)
	}

	if len(paths) != 2 {
		t.Fatalf("got %d paths, want 2", len(paths))
	}
	if filepath.Base(paths[0]) != "a.tif" || filepath.Base(paths[1]) != "b.tif" {
		t.Errorf("paths not sorted by name: %v", paths)
	}
}

func TestDiscoverImages_EmptyFolder(t *testing.T) {
	paths, err := DiscoverImages(t.TempDir())
	if err != nil {
		t.Fatalf("DiscoverImages failed: %v", err)
	}
	if len(paths) != 0 {
		t.Errorf("got %d paths, want 0", len(paths))
	}
}

func TestDiscoverImages_MissingFolder(t *testing.T) {
	_, err := DiscoverImages(filepath.Join(t.TempDir(), "nope"))
	if err == nil {
		t.Fatal("expected error for missing folder")
	}
	if !apperrors.IsKind(err, apperrors.KindLoad) {
		t.Errorf("error kind: got %v, want load", apperrors.KindOf(err))
	}
}

func TestProcessFolder_IsolatesPerFileFailures(t *testing.T) {
	dir := t.TempDir()

	writeFrameTIFF(t, filepath.Join(dir, "good1.tif"), 32, 32, 10, image.Rect(5, 5, 20, 20), 250)
	writeFrameTIFF(t, filepath.Join(dir, "good2.tif"), 32, 32, 40, image.Rectangle{}, 0)
	if err := os.WriteFile(filepath.Join(dir, "broken.jpg"), []byte("junk"), 0o644); err != nil {
		t.Fatalf("setup failed: %v", err)
	}

	cfg := DefaultConfig()
	cfg.MinClusterSize = 10

	p := newTestPipeline(t, cfg, WithWorkers(2))
	outcomes, summary, err := p.ProcessFolder(context.Background(), dir, "")
	if err != nil {
		t.Fatalf("ProcessFolder failed: %v", err)
	}

	if len(outcomes) != 3 {
		t.Fatalf("got %d outcomes, want 3", len(outcomes))
	}

	// Outcomes are sorted by source path regardless of completion order.
	if filepath.Base(outcomes[0].SourcePath) != "broken.jpg" {
		t.Errorf("first outcome should be broken.jpg, got %s", outcomes[0].SourcePath)
	}

	if outcomes[0].Succeeded() {
		t.Error("broken.jpg should have failed")
	}
	if outcomes[0].ErrKind != apperrors.KindLoad {
		t.Errorf("broken.jpg kind: got %v, want load", outcomes[0].ErrKind)
	}
	if !outcomes[1].Succeeded() || !outcomes[2].Succeeded() {
		t.Error("valid files should have succeeded despite the broken sibling")
	}

	if summary.Total != 3 || summary.Succeeded != 2 || summary.Failed != 1 || summary.LoadFailures != 1 {
		t.Errorf("summary: %+v", summary)
	}

	// Default output folder is <input>/processed.
	if _, err := os.Stat(filepath.Join(dir, "processed", "good1.tif")); err != nil {
		t.Errorf("overlay missing from default output folder: %v", err)
	}
}

func TestProcessFolder_EmptyFolder(t *testing.T) {
	dir := t.TempDir()

	p := newTestPipeline(t, DefaultConfig())
	outcomes, summary, err := p.ProcessFolder(context.Background(), dir, "")
	if err != nil {
		t.Fatalf("ProcessFolder failed: %v", err)
	}
	if len(outcomes) != 0 || summary.Total != 0 {
		t.Errorf("empty folder: got %d outcomes, summary %+v", len(outcomes), summary)
	}
}

func TestProcessFolder_MissingInputCreatesNoOutputDir(t *testing.T) {
	inputDir := filepath.Join(t.TempDir(), "nope")

	p := newTestPipeline(t, DefaultConfig())
	_, _, err := p.ProcessFolder(context.Background(), inputDir, "")
	if err == nil {
		t.Fatal("expected error for missing input folder")
	}
	if !apperrors.IsKind(err, apperrors.KindLoad) {
		t.Errorf("error kind: got %v, want load", apperrors.KindOf(err))
	}

	// A failed discovery must not leave a freshly created output tree behind.
	if _, err := os.Stat(filepath.Join(inputDir, DefaultOutputDirName)); !os.IsNotExist(err) {
		t.Errorf("output folder was created despite the input folder being missing: %v", err)
	}
}

func TestProcessFolder_CancelledBeforeStart(t *testing.T) {
	dir := t.TempDir()
	writeFrameTIFF(t, filepath.Join(dir, "a.tif"), 16, 16, 10, image.Rectangle{}, 0)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	p := newTestPipeline(t, DefaultConfig())
	outcomes, _, err := p.ProcessFolder(ctx, dir, "")
	if err == nil {
		t.Error("expected context error from cancelled batch")
	}
	for _, o := range outcomes {
		if !o.Succeeded() && (o.ErrKind == apperrors.KindProcessing) {
			t.Errorf("cancellation misreported as pipeline fault for %s", o.SourcePath)
		}
	}
}

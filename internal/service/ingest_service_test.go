package service

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

const goodMetadata = `{
  "source": {"path": "Grenoble/pano_001.jpg"},
  "objects": [
    {
      "label": "utility pole",
      "score": 0.92,
      "computed_location": {
        "GPSLatitude": {"degrees": 45, "minutes": 30, "seconds": 0},
        "GPSLongitude": {"degrees": 5, "minutes": 30, "seconds": 0},
        "GPSLatitudeRef": "N",
        "GPSLongitudeRef": "E"
      },
      "projection_path": "proj/pole_001.jpg"
    },
    {
      "label": "utility pole",
      "score": 0.5,
      "computed_location": {
        "GPSLatitude": {"degrees": "bad"},
        "GPSLongitude": {"degrees": 5}
      },
      "projection_path": "proj/pole_002.jpg"
    }
  ]
}`

func TestIngestRunSkipsBadObjectsAndFiles(t *testing.T) {
	dir := t.TempDir()

	if err := os.WriteFile(filepath.Join(dir, "pano_001_metadata.json"), []byte(goodMetadata), 0644); err != nil {
		t.Fatal(err)
	}
	// Нечитаемый файл не должен прервать загрузку остальных
	if err := os.WriteFile(filepath.Join(dir, "broken_metadata.json"), []byte("{oops"), 0644); err != nil {
		t.Fatal(err)
	}

	repo := &fakeMarkerRepo{}
	svc := NewIngestService(repo, quietLogger())

	result, err := svc.Run(context.Background(), dir, false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if result.Files != 2 {
		t.Errorf("expected 2 files, got %d", result.Files)
	}
	if result.BadFiles != 1 {
		t.Errorf("expected 1 bad file, got %d", result.BadFiles)
	}
	if result.AssembledCount != 1 {
		t.Errorf("expected 1 assembled marker, got %d", result.AssembledCount)
	}
	if result.SkippedObjects != 1 {
		t.Errorf("expected 1 skipped object, got %d", result.SkippedObjects)
	}
	if result.InsertedCount != 1 {
		t.Errorf("expected 1 inserted marker, got %d", result.InsertedCount)
	}
	if result.RunID == "" {
		t.Error("run id must be set")
	}
}

func TestIngestRunEmptyDirectory(t *testing.T) {
	repo := &fakeMarkerRepo{}
	svc := NewIngestService(repo, quietLogger())

	result, err := svc.Run(context.Background(), t.TempDir(), false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Files != 0 || result.InsertedCount != 0 {
		t.Errorf("unexpected result for empty directory: %+v", result)
	}
}

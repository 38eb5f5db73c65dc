package ingest

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const sampleMetadata = `{
  "source": {"path": "Grenoble/pano_001.jpg", "GPSImgDirection": 182.5},
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
    }
  ]
}`

func TestFindMetadataFiles(t *testing.T) {
	dir := t.TempDir()
	sub := filepath.Join(dir, "batch1")
	if err := os.MkdirAll(sub, 0755); err != nil {
		t.Fatal(err)
	}

	mustWrite(t, filepath.Join(dir, "pano_001_metadata.json"), sampleMetadata)
	mustWrite(t, filepath.Join(sub, "pano_002_metadata.json"), sampleMetadata)
	mustWrite(t, filepath.Join(dir, "notes.json"), "{}")
	mustWrite(t, filepath.Join(dir, "readme.txt"), "nothing")

	files, skipped, err := FindMetadataFiles(dir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if skipped != 0 {
		t.Errorf("expected no skipped entries, got %d", skipped)
	}
	if len(files) != 2 {
		t.Fatalf("expected 2 metadata files, got %d: %v", len(files), files)
	}
	for _, file := range files {
		if !strings.HasSuffix(file, "_metadata.json") {
			t.Errorf("unexpected file matched: %s", file)
		}
	}
}

func TestFindMetadataFilesSkipsUnreadableDir(t *testing.T) {
	if os.Getuid() == 0 {
		t.Skip("root обходит права доступа, тест не имеет смысла")
	}

	dir := t.TempDir()
	locked := filepath.Join(dir, "locked")
	if err := os.MkdirAll(locked, 0755); err != nil {
		t.Fatal(err)
	}
	mustWrite(t, filepath.Join(dir, "pano_001_metadata.json"), sampleMetadata)
	mustWrite(t, filepath.Join(locked, "pano_002_metadata.json"), sampleMetadata)

	if err := os.Chmod(locked, 0000); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = os.Chmod(locked, 0755) })

	files, skipped, err := FindMetadataFiles(dir)
	if err != nil {
		t.Fatalf("unreadable subdirectory must not abort the scan: %v", err)
	}
	if skipped != 1 {
		t.Errorf("expected 1 skipped entry, got %d", skipped)
	}
	if len(files) != 1 {
		t.Fatalf("expected 1 readable metadata file, got %d: %v", len(files), files)
	}
}

func TestFindMetadataFilesMissingRoot(t *testing.T) {
	if _, _, err := FindMetadataFiles(filepath.Join(t.TempDir(), "no-such-dir")); err == nil {
		t.Fatal("expected error for missing root directory")
	}
}

func TestReadMetadataFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "pano_001_metadata.json")
	mustWrite(t, path, sampleMetadata)

	docs, err := ReadMetadataFile(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(docs) != 1 {
		t.Fatalf("expected 1 document, got %d", len(docs))
	}
	if docs[0].Source.Path != "Grenoble/pano_001.jpg" {
		t.Errorf("unexpected source path: %q", docs[0].Source.Path)
	}
	if len(docs[0].Objects) != 1 {
		t.Fatalf("expected 1 object, got %d", len(docs[0].Objects))
	}
	if docs[0].Objects[0].Label != "utility pole" {
		t.Errorf("unexpected label: %q", docs[0].Objects[0].Label)
	}
}

func TestReadMetadataFileMultipleDocuments(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "batch_metadata.json")
	mustWrite(t, path, sampleMetadata+"\n"+sampleMetadata)

	docs, err := ReadMetadataFile(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(docs) != 2 {
		t.Fatalf("expected 2 documents, got %d", len(docs))
	}
}

func TestReadMetadataFileMalformed(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "broken_metadata.json")
	mustWrite(t, path, "{not json at all")

	if _, err := ReadMetadataFile(path); err == nil {
		t.Fatal("expected error for malformed file")
	}
}

func mustWrite(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
}

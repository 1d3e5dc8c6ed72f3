package media_storage

import (
	"os"
	"strings"
	"testing"
)

func TestSave(t *testing.T) {
	storage, err := New(Config{MediaDir: t.TempDir()})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	path, err := storage.Save("member-1", "generated-video.mp4", []byte("video-bytes"))
	if err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading saved file: %v", err)
	}

	if string(raw) != "video-bytes" {
		t.Errorf("saved bytes = %q, want video-bytes", raw)
	}

	if !strings.Contains(path, "member-1_") || !strings.HasSuffix(path, "_generated-video.mp4") {
		t.Errorf("unexpected stored path %q", path)
	}
}

func TestSave_SameNameDoesNotCollide(t *testing.T) {
	storage, err := New(Config{MediaDir: t.TempDir()})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	first, err := storage.Save("member-1", "clip.mp4", []byte("first"))
	if err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	second, err := storage.Save("member-1", "clip.mp4", []byte("second"))
	if err != nil {
		t.Fatalf("second Save() error = %v", err)
	}

	if first == second {
		t.Errorf("both saves landed on %q", first)
	}
}

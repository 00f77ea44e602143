package dataset

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/sridhargunnam/framefeatures/internal/storage/localfs"
)

func writeFile(t *testing.T, root, path, contents string) {
	t.Helper()
	full := filepath.Join(root, path)
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(full, []byte(contents), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestLoad(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "datasets/ds/descriptor.json", "a.mp4\nb.mp4\n")
	writeFile(t, root, "datasets/ds/items/a.mp4/metadata.json", `{
		"frames": 200, "width": 640, "height": 480,
		"codec": "h264", "chroma": "yuv420p", "file_size": 100000,
		"keyframe_positions": [0, 96], "keyframe_byte_offsets": [0, 50000]
	}`)
	writeFile(t, root, "datasets/ds/items/b.mp4/metadata.json", `{
		"frames": 1, "width": 640, "height": 480,
		"codec": "h264", "chroma": "yuv420p", "file_size": 1000,
		"keyframe_positions": [0], "keyframe_byte_offsets": [0]
	}`)

	backend := localfs.New(root)
	videos, err := Load(context.Background(), backend, "ds")
	if err != nil {
		t.Fatal(err)
	}
	if len(videos) != 2 {
		t.Fatalf("want 2 videos, got %d", len(videos))
	}
	if videos[0].Path != "a.mp4" || videos[0].Frames != 200 {
		t.Fatalf("unexpected video 0: %+v", videos[0])
	}
	if videos[1].Path != "b.mp4" || videos[1].Frames != 1 {
		t.Fatalf("unexpected video 1: %+v", videos[1])
	}
}

func TestLoadEmptyDescriptor(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "datasets/ds/descriptor.json", "")
	backend := localfs.New(root)
	if _, err := Load(context.Background(), backend, "ds"); err == nil {
		t.Fatal("want error for empty descriptor")
	}
}

func TestLoadInvalidMetadata(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "datasets/ds/descriptor.json", "a.mp4\n")
	writeFile(t, root, "datasets/ds/items/a.mp4/metadata.json", `{
		"frames": 10, "width": 640, "height": 480,
		"codec": "h264", "chroma": "yuv420p", "file_size": 1000,
		"keyframe_positions": [1], "keyframe_byte_offsets": [0]
	}`)
	backend := localfs.New(root)
	if _, err := Load(context.Background(), backend, "ds"); err == nil {
		t.Fatal("want error for keyframe_positions[0] != 0")
	}
}

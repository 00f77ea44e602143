// Package dataset resolves a dataset name to the immutable list of
// per-video metadata a job's work plan is built from (spec.md §6's
// dataset_descriptor_path/dataset_item_metadata_path layout).
package dataset

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"github.com/sridhargunnam/framefeatures/internal/storage"
	"github.com/sridhargunnam/framefeatures/internal/workplan"
)

// itemMetadataFile is the on-disk shape of one video's metadata JSON
// at dataset_item_metadata_path, per spec.md §3/§6. It mirrors
// workplan.DatasetItemMetadata field-for-field; kept as a distinct
// type so the wire format can evolve independently of the in-memory
// model.
type itemMetadataFile struct {
	Frames              int     `json:"frames"`
	Width               int     `json:"width"`
	Height              int     `json:"height"`
	Codec               string  `json:"codec"`
	Chroma               string  `json:"chroma"`
	FileSize            int64   `json:"file_size"`
	KeyframePositions   []int   `json:"keyframe_positions"`
	KeyframeByteOffsets []int64 `json:"keyframe_byte_offsets"`
}

// Load reads dataset_descriptor_path(dataset) to enumerate video item
// names, then reads dataset_item_metadata_path(dataset, item) for
// each to build the full []workplan.DatasetItemMetadata list Build
// needs, per spec.md §6.
func Load(ctx context.Context, backend storage.Backend, name string) ([]workplan.DatasetItemMetadata, error) {
	items, err := readDescriptor(ctx, backend, name)
	if err != nil {
		return nil, fmt.Errorf("dataset %s: %w", name, err)
	}
	if len(items) == 0 {
		return nil, fmt.Errorf("dataset %s: descriptor lists no items", name)
	}

	videos := make([]workplan.DatasetItemMetadata, len(items))
	for i, item := range items {
		meta, err := readItemMetadata(ctx, backend, name, item)
		if err != nil {
			return nil, fmt.Errorf("dataset %s: item %s: %w", name, item, err)
		}
		meta.Path = item
		videos[i] = meta
	}
	return videos, nil
}

// readDescriptor reads the newline-separated list of video item names
// from dataset_descriptor_path(dataset). Storage backends only expose
// a fixed-size Read, so the descriptor is read in one Read sized by
// the file's reported size.
func readDescriptor(ctx context.Context, backend storage.Backend, name string) ([]string, error) {
	f, err := backend.OpenRandomRead(ctx, storage.DatasetDescriptorPath(name))
	if err != nil {
		return nil, fmt.Errorf("open descriptor: %w", err)
	}
	defer f.Close()

	data, err := readAll(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("read descriptor: %w", err)
	}

	var items []string
	scanner := bufio.NewScanner(bytes.NewReader(data))
	for scanner.Scan() {
		line := scanner.Text()
		if line == "" {
			continue
		}
		items = append(items, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan descriptor: %w", err)
	}
	return items, nil
}

func readItemMetadata(ctx context.Context, backend storage.Backend, dataset, item string) (workplan.DatasetItemMetadata, error) {
	f, err := backend.OpenRandomRead(ctx, storage.DatasetItemMetadataPath(dataset, item))
	if err != nil {
		return workplan.DatasetItemMetadata{}, fmt.Errorf("open metadata: %w", err)
	}
	defer f.Close()

	data, err := readAll(ctx, f)
	if err != nil {
		return workplan.DatasetItemMetadata{}, fmt.Errorf("read metadata: %w", err)
	}

	var raw itemMetadataFile
	if err := json.Unmarshal(data, &raw); err != nil {
		return workplan.DatasetItemMetadata{}, fmt.Errorf("unmarshal metadata: %w", err)
	}

	meta := workplan.DatasetItemMetadata{
		Frames:              raw.Frames,
		Width:               raw.Width,
		Height:              raw.Height,
		Codec:               raw.Codec,
		Chroma:              raw.Chroma,
		FileSize:            raw.FileSize,
		KeyframePositions:   raw.KeyframePositions,
		KeyframeByteOffsets: raw.KeyframeByteOffsets,
	}
	if err := meta.Validate(); err != nil {
		return workplan.DatasetItemMetadata{}, err
	}
	return meta, nil
}

// readAll reads a storage.RandomReadFile with a single Read of
// f.Size() bytes from offset 0, since spec.md §6's contract only
// offers fixed-length reads at an offset rather than an unbounded
// stream. A file reporting size 0 yields no bytes.
func readAll(ctx context.Context, f storage.RandomReadFile) ([]byte, error) {
	size := f.Size()
	if size <= 0 {
		return nil, nil
	}
	buf := make([]byte, size)
	n, result, err := f.Read(ctx, 0, int(size), buf)
	if err != nil {
		return nil, err
	}
	switch result {
	case storage.Success, storage.EndOfFile:
		return buf[:n], nil
	default:
		return nil, fmt.Errorf("unexpected read result %s", result)
	}
}


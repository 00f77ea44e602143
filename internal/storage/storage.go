// Package storage declares the byte-addressable random-read and
// append-only file contract every pipeline stage consumes (spec.md
// §6), independent of the backend actually holding the bytes.
package storage

import (
	"context"
	"errors"
	"strconv"
)

// Result classifies the outcome of a storage read, per spec.md §6.
type Result int

const (
	Success Result = iota
	EndOfFile
	TransientFailure
	FatalFailure
)

func (r Result) String() string {
	switch r {
	case Success:
		return "Success"
	case EndOfFile:
		return "EndOfFile"
	case TransientFailure:
		return "TransientFailure"
	case FatalFailure:
		return "FatalFailure"
	default:
		return "Unknown"
	}
}

// ErrTransient wraps a transient failure so callers can recognize it
// with errors.Is after a backend-specific error has been wrapped.
var ErrTransient = errors.New("transient storage failure")

// RandomReadFile supports reading an arbitrary byte range, per
// spec.md §6's make_random_read_file/read contract.
type RandomReadFile interface {
	// Read reads length bytes starting at offset into dst (which must
	// be at least length bytes), returning the number of bytes
	// actually read and a Result. EndOfFile and Success are both
	// acceptable terminal results (spec.md §4.3 step 3).
	Read(ctx context.Context, offset int64, length int, dst []byte) (bytesRead int, result Result, err error)
	Size() int64
	Close() error
}

// WriteFile supports append-only writes, per spec.md §6's
// make_write_file/append/save contract.
type WriteFile interface {
	Append(ctx context.Context, src []byte) (result Result, err error)
	Save(ctx context.Context) error
	Close() error
}

// Backend opens random-read and write files by path and resolves the
// dataset/job path layout from spec.md §6.
type Backend interface {
	OpenRandomRead(ctx context.Context, path string) (RandomReadFile, error)
	OpenWrite(ctx context.Context, path string) (WriteFile, error)
}

// Dataset path helpers, per spec.md §6.
func DatasetDescriptorPath(dataset string) string {
	return "datasets/" + dataset + "/descriptor.json"
}

func DatasetItemDataPath(dataset, item string) string {
	return "datasets/" + dataset + "/items/" + item + "/data.bin"
}

func DatasetItemMetadataPath(dataset, item string) string {
	return "datasets/" + dataset + "/items/" + item + "/metadata.json"
}

// Job output path helpers, per spec.md §6.
func JobItemOutputPath(job, video string, startFrame, endFrame int) string {
	return "jobs/" + job + "/output/" + video + "/" + strconv.Itoa(startFrame) + "-" + strconv.Itoa(endFrame) + ".bin"
}

func JobDescriptorPath(job string) string {
	return "jobs/" + job + "/descriptor.json"
}

func JobProfilerPath(job string, rank int) string {
	return "jobs/" + job + "/profiler/" + strconv.Itoa(rank) + ".bin"
}

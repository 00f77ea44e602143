// Package localfs is a storage.Backend over the local filesystem.
// os.File already satisfies random-read (ReadAt) and append-only
// write (Write after O_APPEND open) with no translation needed, so
// this backend is deliberately thin standard-library code: no pack
// repo reaches for a third-party library to do what os.File already
// does natively (see DESIGN.md).
package localfs

import (
	"context"
	"io"
	"os"
	"path/filepath"

	"github.com/sridhargunnam/framefeatures/internal/storage"
)

type Backend struct {
	Root string
}

func New(root string) *Backend {
	return &Backend{Root: root}
}

func (b *Backend) resolve(path string) string {
	return filepath.Join(b.Root, path)
}

func (b *Backend) OpenRandomRead(_ context.Context, path string) (storage.RandomReadFile, error) {
	f, err := os.Open(b.resolve(path))
	if err != nil {
		return nil, err
	}
	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, err
	}
	return &randomReadFile{f: f, size: info.Size()}, nil
}

func (b *Backend) OpenWrite(_ context.Context, path string) (storage.WriteFile, error) {
	full := b.resolve(path)
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return nil, err
	}
	f, err := os.OpenFile(full, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, err
	}
	return &writeFile{f: f}, nil
}

type randomReadFile struct {
	f    *os.File
	size int64
}

func (r *randomReadFile) Read(_ context.Context, offset int64, length int, dst []byte) (int, storage.Result, error) {
	n, err := r.f.ReadAt(dst[:length], offset)
	if err == nil {
		return n, storage.Success, nil
	}
	if err == io.EOF {
		return n, storage.EndOfFile, nil
	}
	return n, storage.FatalFailure, err
}

func (r *randomReadFile) Size() int64 { return r.size }

func (r *randomReadFile) Close() error { return r.f.Close() }

type writeFile struct {
	f *os.File
}

func (w *writeFile) Append(_ context.Context, src []byte) (storage.Result, error) {
	if _, err := w.f.Write(src); err != nil {
		return storage.FatalFailure, err
	}
	return storage.Success, nil
}

func (w *writeFile) Save(_ context.Context) error {
	return w.f.Sync()
}

func (w *writeFile) Close() error { return w.f.Close() }

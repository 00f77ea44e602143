package localfs

import (
	"context"
	"os"
	"testing"
)

func TestWriteThenRandomRead(t *testing.T) {
	dir, err := os.MkdirTemp("", "localfs")
	if err != nil {
		t.Fatal(err)
	}
	defer os.RemoveAll(dir)

	b := New(dir)
	ctx := context.Background()

	w, err := b.OpenWrite(ctx, "jobs/j/output/v/0-10.bin")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := w.Append(ctx, []byte("hello ")); err != nil {
		t.Fatal(err)
	}
	if _, err := w.Append(ctx, []byte("world")); err != nil {
		t.Fatal(err)
	}
	if err := w.Save(ctx); err != nil {
		t.Fatal(err)
	}
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}

	r, err := b.OpenRandomRead(ctx, "jobs/j/output/v/0-10.bin")
	if err != nil {
		t.Fatal(err)
	}
	defer r.Close()

	if r.Size() != 11 {
		t.Fatalf("want size 11, got %d", r.Size())
	}

	dst := make([]byte, 5)
	n, result, err := r.Read(ctx, 6, 5, dst)
	if err != nil {
		t.Fatal(err)
	}
	if n != 5 || string(dst) != "world" {
		t.Fatalf("want 'world', got %q (n=%d)", dst, n)
	}
	if result.String() != "Success" {
		t.Fatalf("want Success, got %s", result)
	}
}

func TestRandomReadPastEndIsEOF(t *testing.T) {
	dir, err := os.MkdirTemp("", "localfs")
	if err != nil {
		t.Fatal(err)
	}
	defer os.RemoveAll(dir)

	b := New(dir)
	ctx := context.Background()

	w, _ := b.OpenWrite(ctx, "f.bin")
	w.Append(ctx, []byte("abc"))
	w.Save(ctx)
	w.Close()

	r, err := b.OpenRandomRead(ctx, "f.bin")
	if err != nil {
		t.Fatal(err)
	}
	defer r.Close()

	dst := make([]byte, 10)
	_, result, err := r.Read(ctx, 0, 10, dst)
	if err != nil {
		t.Fatal(err)
	}
	if result.String() != "EndOfFile" {
		t.Fatalf("want EndOfFile, got %s", result)
	}
}

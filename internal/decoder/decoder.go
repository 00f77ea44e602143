// Package decoder declares the hardware decoder contract the decode
// stage drives (spec.md §4.4, §6). The real decoder is an external
// collaborator (a hardware video decoder library) deliberately out of
// scope per spec.md §1; this package gives it a concrete Go shape so
// the decode stage has something real to call, plus a deterministic
// mock for tests.
package decoder

// Decoder is one per-GPU hardware decoder context, bound to a single
// codec/chroma configuration for the life of the job (spec.md §9's
// homogeneity assumption).
type Decoder interface {
	// Feed submits one encoded packet. discontinuity must be true for
	// the first feed after popping a new work entry so the decoder
	// flushes internal state (spec.md §4.4 step 2). It reports whether
	// new decoded frames are now available to retrieve.
	Feed(packet []byte, discontinuity bool) (framesAvailable bool, err error)

	// GetFrame copies the next decoded frame into dst (which must be
	// at least one NV12 frame long) and reports whether more frames
	// remain buffered after this one.
	GetFrame(dst []byte) (hasMore bool, err error)

	// DiscardFrame drops the next decoded frame without copying it,
	// reporting whether more frames remain buffered after it.
	DiscardFrame() (hasMore bool, err error)

	// WaitUntilFramesCopied blocks until all outstanding asynchronous
	// GPU copies issued by GetFrame have completed.
	WaitUntilFramesCopied() error

	// Close releases the decoder context (spec.md §4.8: released
	// between decode-worker join and evaluate-worker join).
	Close() error
}

// Config configures a Decoder from the first video's metadata, per
// spec.md §4.4 and the homogeneity assumption in §9.
type Config struct {
	GPU    int
	Codec  string
	Chroma string
	Width  int
	Height int
}

// Factory constructs one Decoder per GPU.
type Factory func(cfg Config) (Decoder, error)

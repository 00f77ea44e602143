package decoder

import "fmt"

// Mock is a deterministic Decoder used by tests and by any deployment
// that wants to exercise the pipeline without real GPU hardware. Each
// Feed call deterministically produces exactly one decoded frame; the
// frame's content is a single repeated byte equal to its ordinal
// (mod 256) among all frames fed to this decoder instance, so tests
// can assert on exactly which frames ended up in a GPU buffer.
type Mock struct {
	cfg  Config
	size int // bytes per frame, NV12-sized for cfg.Width/Height

	buffered  int // frames produced by Feed but not yet retrieved
	nextFrame int // ordinal of the next frame Feed will produce

	// ExtraFrames, when set, makes every Feed call additionally buffer
	// this many bonus frames beyond the usual one — used to exercise
	// spec.md §8 boundary scenario 6 (decoder emits more frames than
	// requested).
	ExtraFrames int

	closed bool
}

func NewMock(cfg Config, frameSize int) *Mock {
	return &Mock{cfg: cfg, size: frameSize}
}

func (m *Mock) Feed(packet []byte, discontinuity bool) (bool, error) {
	if m.closed {
		return false, fmt.Errorf("mock decoder: feed after close")
	}
	if discontinuity {
		m.buffered = 0
	}
	m.buffered += 1 + m.ExtraFrames
	return m.buffered > 0, nil
}

func (m *Mock) GetFrame(dst []byte) (bool, error) {
	if m.buffered == 0 {
		return false, fmt.Errorf("mock decoder: get_frame with no buffered frames")
	}
	if len(dst) < m.size {
		return false, fmt.Errorf("mock decoder: dst too small: %d < %d", len(dst), m.size)
	}
	b := byte(m.nextFrame % 256)
	for i := 0; i < m.size; i++ {
		dst[i] = b
	}
	m.nextFrame++
	m.buffered--
	return m.buffered > 0, nil
}

func (m *Mock) DiscardFrame() (bool, error) {
	if m.buffered == 0 {
		return false, fmt.Errorf("mock decoder: discard_frame with no buffered frames")
	}
	m.nextFrame++
	m.buffered--
	return m.buffered > 0, nil
}

func (m *Mock) WaitUntilFramesCopied() error { return nil }

func (m *Mock) Close() error {
	m.closed = true
	return nil
}

// NewMockFactory returns a Factory that builds Mock decoders sized
// for frameSize bytes per NV12 frame.
func NewMockFactory(frameSize int) Factory {
	return func(cfg Config) (Decoder, error) {
		return NewMock(cfg, frameSize), nil
	}
}

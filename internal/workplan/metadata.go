// Package workplan builds the immutable list of WorkItems for a job
// from per-video dataset metadata, per spec.md §3.
package workplan

import "fmt"

// DatasetItemMetadata describes one video, read-only after load.
// KeyframePositions and KeyframeByteOffsets are equal-length,
// monotonically strictly increasing, with KeyframePositions[0] == 0.
type DatasetItemMetadata struct {
	Path                string
	Frames              int
	Width               int
	Height              int
	Codec               string
	Chroma              string
	FileSize            int64
	KeyframePositions   []int
	KeyframeByteOffsets []int64
}

// Validate checks the invariants spec.md §3 requires of metadata.
func (m *DatasetItemMetadata) Validate() error {
	if len(m.KeyframePositions) != len(m.KeyframeByteOffsets) {
		return fmt.Errorf("%s: keyframe_positions and keyframe_byte_offsets length mismatch (%d != %d)",
			m.Path, len(m.KeyframePositions), len(m.KeyframeByteOffsets))
	}
	if len(m.KeyframePositions) == 0 {
		return fmt.Errorf("%s: no keyframes", m.Path)
	}
	if m.KeyframePositions[0] != 0 {
		return fmt.Errorf("%s: keyframe_positions[0] must be 0, got %d", m.Path, m.KeyframePositions[0])
	}
	for i := 1; i < len(m.KeyframePositions); i++ {
		if m.KeyframePositions[i] <= m.KeyframePositions[i-1] {
			return fmt.Errorf("%s: keyframe_positions not strictly increasing at index %d", m.Path, i)
		}
		if m.KeyframeByteOffsets[i] <= m.KeyframeByteOffsets[i-1] {
			return fmt.Errorf("%s: keyframe_byte_offsets not strictly increasing at index %d", m.Path, i)
		}
	}
	if m.Frames <= 0 {
		return fmt.Errorf("%s: frames must be positive, got %d", m.Path, m.Frames)
	}
	return nil
}

// withVirtualTerminalKeyframe returns the keyframe positions/offsets
// with a virtual terminal keyframe (frames, file_size) appended, as
// spec.md §4.3 step 2 requires before searching for a keyframe
// interval covering the last work item of a video.
func (m *DatasetItemMetadata) withVirtualTerminalKeyframe() ([]int, []int64) {
	positions := make([]int, len(m.KeyframePositions)+1)
	offsets := make([]int64, len(m.KeyframeByteOffsets)+1)
	copy(positions, m.KeyframePositions)
	copy(offsets, m.KeyframeByteOffsets)
	positions[len(positions)-1] = m.Frames
	offsets[len(offsets)-1] = m.FileSize
	return positions, offsets
}

// KeyframeInterval returns the smallest interval of keyframe indices
// [startKeyframeIndex, endKeyframeIndex] such that
// positions[startKeyframeIndex] <= startFrame < positions[startKeyframeIndex+1]
// and positions[endKeyframeIndex] >= endFrame, per spec.md §4.3 step 2.
func (m *DatasetItemMetadata) KeyframeInterval(startFrame, endFrame int) (startKeyframeIndex, endKeyframeIndex int, err error) {
	positions, _ := m.withVirtualTerminalKeyframe()

	startKeyframeIndex = -1
	for i := 0; i < len(positions)-1; i++ {
		if positions[i] <= startFrame && startFrame < positions[i+1] {
			startKeyframeIndex = i
			break
		}
	}
	if startKeyframeIndex == -1 {
		return 0, 0, fmt.Errorf("%s: no keyframe interval covers start_frame %d", m.Path, startFrame)
	}

	endKeyframeIndex = -1
	for i := startKeyframeIndex; i < len(positions); i++ {
		if positions[i] >= endFrame {
			endKeyframeIndex = i
			break
		}
	}
	if endKeyframeIndex == -1 {
		return 0, 0, fmt.Errorf("%s: no keyframe interval covers end_frame %d", m.Path, endFrame)
	}
	return startKeyframeIndex, endKeyframeIndex, nil
}

// KeyframeByteRange resolves a keyframe interval to the byte range the
// loader must fetch, including the virtual terminal keyframe's offset
// (the file's total size) when endKeyframeIndex is the virtual entry.
func (m *DatasetItemMetadata) KeyframeByteRange(startKeyframeIndex, endKeyframeIndex int) (startOffset, endOffset int64) {
	_, offsets := m.withVirtualTerminalKeyframe()
	return offsets[startKeyframeIndex], offsets[endKeyframeIndex]
}

// KeyframeFrameNumbers resolves a keyframe interval to the frame
// numbers the decode stage treats as start_keyframe/end_keyframe,
// per spec.md §3's DecodeWorkEntry contract.
func (m *DatasetItemMetadata) KeyframeFrameNumbers(startKeyframeIndex, endKeyframeIndex int) (startKeyframe, endKeyframe int) {
	positions, _ := m.withVirtualTerminalKeyframe()
	return positions[startKeyframeIndex], positions[endKeyframeIndex]
}

// Homogeneous reports whether two videos share the codec, chroma, and
// dimensions the decoder is initialized from (spec.md §9's GPU
// homogeneity assumption).
func (m *DatasetItemMetadata) Homogeneous(other *DatasetItemMetadata) bool {
	return m.Codec == other.Codec && m.Chroma == other.Chroma &&
		m.Width == other.Width && m.Height == other.Height
}

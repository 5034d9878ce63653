package manifest

import (
	"github.com/pkg/errors"
)

// FrameIndex maps a frame's file_path to its position in the canonical frame order. It is built
// once when a sequence is loaded and never changes.
type FrameIndex struct {
	positions map[string]int
}

// NewFrameIndex indexes file paths given in canonical order. Duplicate paths are an error since
// file_path is the lookup key.
func NewFrameIndex(orderedFilePaths []string) (FrameIndex, error) {
	positions := make(map[string]int, len(orderedFilePaths))
	for i, p := range orderedFilePaths {
		if prev, ok := positions[p]; ok {
			return FrameIndex{}, errors.Errorf("file_path %q appears at positions %d and %d", p, prev, i)
		}
		positions[p] = i
	}
	return FrameIndex{positions: positions}, nil
}

// Lookup returns the canonical position of filePath.
func (fi FrameIndex) Lookup(filePath string) (int, bool) {
	pos, ok := fi.positions[filePath]
	return pos, ok
}

// Len returns the number of indexed frames.
func (fi FrameIndex) Len() int {
	return len(fi.positions)
}

package buffer

import "sort"

// lineIndex records the rune offset at which each line starts.
// Line 0 always starts at offset 0; every '\n' starts a new line right after
// it, so a buffer ending in '\n' has a final empty line.
//
// Example: for "abc\ndef\nghi" the index is [0 4 8].
type lineIndex []int

// computeLineIndex scans runes once and builds the index.
func computeLineIndex(runes []rune) lineIndex {
	count := 1
	for _, r := range runes {
		if r == '\n' {
			count++
		}
	}

	idx := make(lineIndex, 1, count)
	for i, r := range runes {
		if r == '\n' {
			idx = append(idx, i+1)
		}
	}
	return idx
}

// count returns the number of lines.
func (idx lineIndex) count() int {
	return len(idx)
}

// lineOf returns the line containing offset. Offsets are expected to be
// clamped to [0, len] by the caller.
func (idx lineIndex) lineOf(offset int) int {
	// First line whose start is beyond offset, minus one.
	return sort.Search(len(idx), func(i int) bool {
		return idx[i] > offset
	}) - 1
}

// start returns the offset of the first rune of line.
func (idx lineIndex) start(line int) int {
	return idx[line]
}

package selection

import "fmt"

// Shrink removes one character from each end of prev.
//
// The new bounds are not clamped. Shrinking a span shorter than two
// characters produces Start > End (or Start == End) and empty text; callers
// that want a meaningful result check CanShrink first. An empty buffer yields
// an empty span.
func Shrink(buf Buffer, prev Extent) (Span, error) {
	if err := checkBuffer(buf); err != nil {
		return Span{}, err
	}
	if isNil(prev) {
		return Span{}, fmt.Errorf("nil span: %w", ErrInvalidArgument)
	}
	if buf.Len() == 0 {
		return emptySpan(), nil
	}

	return NewSpan(buf, prev.Start()+1, prev.End()-1), nil
}

// CanShrink reports whether prev is at least two characters wide, the
// precondition for Shrink to leave a well-formed span.
func CanShrink(prev Extent) bool {
	return !isNil(prev) && prev.End()-prev.Start() >= 2
}

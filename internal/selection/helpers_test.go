package selection

import (
	"strings"
	"testing"

	"github.com/dshills/selectword/internal/engine/buffer"
)

// makeBuffer builds a buffer from text with a '|' marking the cursor. The
// marker is removed and its offset returned.
func makeBuffer(t *testing.T, text string) (*buffer.Buffer, int) {
	t.Helper()

	offset := strings.IndexRune(text, '|')
	if offset < 0 {
		t.Fatalf("test text %q has no cursor marker", text)
	}
	content := text[:offset] + text[offset+1:]
	return buffer.NewBufferFromString(content), len([]rune(text[:offset]))
}

func mustLocate(t *testing.T, buf Buffer, cursor int) Span {
	t.Helper()

	span, err := LocateWord(buf, cursor)
	if err != nil {
		t.Fatalf("LocateWord(%d) unexpected error: %v", cursor, err)
	}
	return span
}

func mustExtend(t *testing.T, buf Buffer, prev Extent) Span {
	t.Helper()

	span, err := ExtendBlock(buf, prev)
	if err != nil {
		t.Fatalf("ExtendBlock(%v) unexpected error: %v", prev, err)
	}
	return span
}

func mustShrink(t *testing.T, buf Buffer, prev Extent) Span {
	t.Helper()

	span, err := Shrink(buf, prev)
	if err != nil {
		t.Fatalf("Shrink(%v) unexpected error: %v", prev, err)
	}
	return span
}

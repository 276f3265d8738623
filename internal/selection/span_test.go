package selection

import (
	"testing"

	"github.com/dshills/selectword/internal/engine/buffer"
)

func TestNewSpan(t *testing.T) {
	buf := buffer.NewBufferFromString("first\nsecond line\nthird")

	span := NewSpan(buf, 6, 12)
	if span.Text() != "second" {
		t.Errorf("expected %q, got %q", "second", span.Text())
	}
	if span.StartPosition() != (Position{Line: 1, Column: 0}) {
		t.Errorf("unexpected start position %v", span.StartPosition())
	}
	if span.EndPosition() != (Position{Line: 1, Column: 6}) {
		t.Errorf("unexpected end position %v", span.EndPosition())
	}
	if span.Len() != 6 {
		t.Errorf("expected length 6, got %d", span.Len())
	}
	if span.IsEmpty() {
		t.Error("span should not be empty")
	}
	if span.IsRectangular() {
		t.Error("span should never be rectangular")
	}
}

func TestNewSpanInverted(t *testing.T) {
	buf := buffer.NewBufferFromString("abcdef")

	span := NewSpan(buf, 4, 2)
	if span.Start() != 4 || span.End() != 2 {
		t.Errorf("bounds should be kept as given, got [%d:%d)", span.Start(), span.End())
	}
	if !span.IsEmpty() || span.Len() != 0 {
		t.Errorf("inverted span should be empty, got %q", span.Text())
	}
}

func TestNewSpanClampsOutOfRange(t *testing.T) {
	buf := buffer.NewBufferFromString("ab\ncd")

	span := NewSpan(buf, -3, 99)
	if span.Text() != "ab\ncd" {
		t.Errorf("expected whole buffer text, got %q", span.Text())
	}
	if span.StartPosition() != (Position{Line: 0, Column: 0}) {
		t.Errorf("unexpected start position %v", span.StartPosition())
	}
	if span.EndPosition() != (Position{Line: 1, Column: 2}) {
		t.Errorf("unexpected end position %v", span.EndPosition())
	}
}

func TestSpanLenCountsCharacters(t *testing.T) {
	buf := buffer.NewBufferFromString("héllo wörld")

	span := NewSpan(buf, 0, 5)
	if span.Text() != "héllo" {
		t.Errorf("expected %q, got %q", "héllo", span.Text())
	}
	if span.Len() != 5 {
		t.Errorf("expected length 5, got %d", span.Len())
	}
}

func TestSpanContains(t *testing.T) {
	buf := buffer.NewBufferFromString("0123456789")
	span := NewSpan(buf, 2, 6)

	for _, tt := range []struct {
		offset int
		want   bool
	}{
		{1, false}, {2, true}, {5, true}, {6, false},
	} {
		if got := span.Contains(tt.offset); got != tt.want {
			t.Errorf("Contains(%d) = %v, want %v", tt.offset, got, tt.want)
		}
	}
}

func TestSpanEqual(t *testing.T) {
	buf := buffer.NewBufferFromString("0123456789")

	a := NewSpan(buf, 2, 6)
	b := NewSpan(buf, 2, 6)
	c := NewSpan(buf, 2, 7)

	if !a.Equal(b) {
		t.Error("expected equal spans")
	}
	if a.Equal(c) {
		t.Error("expected different spans")
	}
}

func TestSpanString(t *testing.T) {
	buf := buffer.NewBufferFromString("say \"hi\"")

	got := NewSpan(buf, 4, 8).String()
	want := `Span[4:8)"\"hi\""`
	if got != want {
		t.Errorf("expected %s, got %s", want, got)
	}
}

func TestPositionString(t *testing.T) {
	if got := (Position{Line: 3, Column: 7}).String(); got != "(3:7)" {
		t.Errorf("unexpected position string %q", got)
	}
}

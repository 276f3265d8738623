package selection

// Direction is the side of a span ExtendBlock grows towards.
type Direction uint8

const (
	// DirectionNone leaves the scanned bounds as they are.
	DirectionNone Direction = iota

	// DirectionLeft searches left for the opener of a closing delimiter.
	DirectionLeft

	// DirectionRight searches right for the closer of an opening delimiter.
	DirectionRight
)

// String returns the direction name.
func (d Direction) String() string {
	switch d {
	case DirectionLeft:
		return "left"
	case DirectionRight:
		return "right"
	default:
		return "none"
	}
}

// ExtendBlock grows prev outward to the next enclosing lexical shell.
//
// If prev already covers whole lines the span grows to the lines around it.
// Otherwise both bounds are scanned outward until an opening delimiter
// (" ( < { [) appears on the left or a closing delimiter (" ) > } ]) appears
// on the right, and the span is extended to the matching partner. Reaching
// a newline before the partner falls back to selecting the whole line.
//
// prev must satisfy 0 <= Start <= End <= buf.Len(). An empty buffer yields an
// empty span. Extending a span that cannot grow returns an equal span.
func ExtendBlock(buf Buffer, prev Extent) (Span, error) {
	if err := checkBuffer(buf); err != nil {
		return Span{}, err
	}

	s := newScanner(buf)
	if err := checkExtent(prev, s.n); err != nil {
		return Span{}, err
	}
	if s.n == 0 {
		return emptySpan(), nil
	}

	e := extender{scanner: s, start: prev.Start(), end: prev.End()}
	if e.isCompleteLine() {
		e.extendLine()
	} else {
		e.extendBlock()
	}
	e.adjustEnd()
	if e.start > e.end {
		e.start = e.end
	}

	return NewSpan(buf, e.start, e.end), nil
}

// extender holds the two scan cursors for a single ExtendBlock call.
//
// start always indexes a character. end is exclusive on entry and exit; in
// block mode it is converted to the inclusive index of the last selected
// character while scanning, and adjustEnd restores it.
type extender struct {
	scanner
	start int
	end   int
}

func (e *extender) moveLeft() bool {
	if e.start > 0 {
		e.start--
		return true
	}
	return false
}

func (e *extender) moveRight() bool {
	if e.end < e.last() {
		e.end++
		return true
	}
	return false
}

// isCompleteLine reports whether the span is a run of whole lines. The check
// steps start left by one even when the answer is false.
func (e *extender) isCompleteLine() bool {
	return e.moveLeft() && e.at(e.start) == '\n' && e.at(e.end-1) == '\n'
}

// extendLine grows a whole-line span to the surrounding line boundaries.
func (e *extender) extendLine() {
	for e.moveLeft() {
		if e.at(e.start) == '\n' {
			e.start++
			break
		}
	}

	for e.moveRight() {
		if e.at(e.end) == '\n' {
			break
		}
	}
}

func (e *extender) extendBlock() {
	switch e.direction() {
	case DirectionRight:
		e.extendRight()
	case DirectionLeft:
		e.extendLeft()
	}
}

// direction scans outward from both bounds, left first, until one side
// exposes a delimiter or a newline.
func (e *extender) direction() Direction {
	if e.start != 0 {
		e.start++
	}
	e.end--

	for {
		movedLeft := e.moveLeft()
		if movedLeft && isOpeningDelimiter(e.at(e.start)) {
			return DirectionRight
		}

		movedRight := e.moveRight()
		if movedRight && isClosingDelimiter(e.at(e.end)) {
			if e.end == e.last() {
				return DirectionNone
			}
			return DirectionLeft
		}

		dir := DirectionNone
		if e.at(e.start) == '\n' {
			dir = DirectionRight
		}
		if e.at(e.end) == '\n' {
			dir = DirectionLeft
		}
		if dir != DirectionNone {
			return dir
		}

		if !movedLeft && !movedRight {
			return DirectionNone
		}
	}
}

// extendRight scans end rightward for the partner of the opener at start.
func (e *extender) extendRight() {
	target := closerFor(e.at(e.start))
	for {
		if c := e.at(e.end); c == target || c == '\n' {
			break
		}
		if !e.moveRight() {
			break
		}
	}

	if e.at(e.end) == '\n' {
		e.startOfLine()
	}
}

// extendLeft scans start leftward for the partner of the closer at end.
func (e *extender) extendLeft() {
	target := openerFor(e.at(e.end))
	for {
		if c := e.at(e.start); c == target || c == '\n' {
			break
		}
		if !e.moveLeft() {
			break
		}
	}

	if e.at(e.start) == '\n' {
		for e.at(e.end) != '\n' && e.moveRight() {
		}
		e.start++
	}
}

// startOfLine moves start to the first character of its line.
func (e *extender) startOfLine() {
	for e.at(e.start) != '\n' {
		if !e.moveLeft() {
			return
		}
	}
	e.start++
}

// adjustEnd turns the inclusive end back into an exclusive one. Landing on
// the final character includes it.
func (e *extender) adjustEnd() {
	e.moveRight()
	if e.end == e.last() {
		e.end = e.n
	}
}

func isOpeningDelimiter(c rune) bool {
	switch c {
	case '"', '(', '<', '{', '[':
		return true
	}
	return false
}

func isClosingDelimiter(c rune) bool {
	switch c {
	case '"', ')', '>', '}', ']':
		return true
	}
	return false
}

func closerFor(c rune) rune {
	switch c {
	case '(':
		return ')'
	case '{':
		return '}'
	case '[':
		return ']'
	case '<':
		return '>'
	}
	return c
}

func openerFor(c rune) rune {
	switch c {
	case ')':
		return '('
	case '}':
		return '{'
	case ']':
		return '['
	case '>':
		return '<'
	}
	return c
}

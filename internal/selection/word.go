package selection

// LocateWord selects the word nearest cursor.
//
// The cursor is clamped into the buffer, so any offset is accepted. An empty
// buffer yields an empty span at offset 0. A cursor that resolves to a run of
// zero word characters yields an empty span at that offset.
//
// A cursor sitting on a space, '.', or '(' that ends a word selects the word
// before it. A cursor inside a single-quoted character literal such as '('
// selects the quoted character. The word scan never includes the final
// character of the buffer; ExtendBlock picks it up when the span grows.
func LocateWord(buf Buffer, cursor int) (Span, error) {
	if err := checkBuffer(buf); err != nil {
		return Span{}, err
	}

	s := newScanner(buf)
	if s.n == 0 {
		return emptySpan(), nil
	}

	if cursor < 0 {
		cursor = 0
	} else if cursor >= s.n {
		cursor = s.last()
	}

	if start, end, ok := quotedCharacter(s, cursor); ok {
		return NewSpan(buf, start, end), nil
	}

	cursor = stepOffDelimiter(s, cursor)
	start := scanWordStart(s, cursor)
	end := scanWordEnd(s, start)

	return NewSpan(buf, start, end), nil
}

// quotedCharacter detects a cursor on either side of a character literal.
// With the cursor on the closing quote the literal is 'x|'; with the cursor
// on the character it is '|x'.
func quotedCharacter(s scanner, cursor int) (start, end int, ok bool) {
	const quote = '\''

	if s.at(cursor) == quote && cursor-2 >= 0 {
		if s.at(cursor-2) == quote {
			return cursor - 1, cursor, true
		}
	} else if cursor-1 >= 0 && s.at(cursor-1) == quote {
		if cursor+1 < s.n && s.at(cursor+1) == quote {
			return cursor, cursor + 1, true
		}
	}
	return 0, 0, false
}

// stepOffDelimiter moves a cursor resting on a word-ending delimiter back
// onto the word. The preceding character is not inspected.
func stepOffDelimiter(s scanner, cursor int) int {
	switch s.at(cursor) {
	case ' ', '.', '(':
		if cursor > 0 {
			return cursor - 1
		}
	}
	return cursor
}

// scanWordStart walks left from cursor to the first character of the word.
func scanWordStart(s scanner, cursor int) int {
	pos := cursor
	if s.at(pos) == '"' && pos > 0 {
		pos--
	}

	for {
		if !ValidCharacter(s.at(pos)) {
			if pos < s.last() {
				pos++
			}
			return pos
		}
		if pos == 0 {
			return pos
		}
		pos--
	}
}

// scanWordEnd walks right from start and returns the first offset past the
// word, stopping at the final character of the buffer.
func scanWordEnd(s scanner, start int) int {
	pos := start
	for ValidCharacter(s.at(pos)) && pos < s.last() {
		pos++
	}
	return pos
}

// ValidCharacter reports whether c can be part of a word.
func ValidCharacter(c rune) bool {
	switch c {
	case ' ', '\n', '\r', '\t',
		'(', ')', '{', '}', '[', ']', '<', '>',
		'"', '.', ',', ';', ':':
		return false
	}
	return true
}

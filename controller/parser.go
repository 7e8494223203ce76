package controller

import "strings"

// Parser classifies raw command lines.
//
// The grammar is the one the host's path planner emits: the literal words
// home, raise and lower, and move lines carrying `X:<int>` and/or
// `Y:<int>` fields. Fields are found by locating the axis letter and the
// colon after it rather than by column position, and the host puts a
// space after the colon (`X: 1 Y: 1`), so whitespace is tolerated on both
// sides of the value.
type Parser struct{}

// NewParser creates a command parser.
func NewParser() *Parser {
	return &Parser{}
}

// ParseLine classifies one line. The line is trimmed first; values that
// are absent or malformed parse as 0.
func (p *Parser) ParseLine(line string) Command {
	trimmed := strings.TrimSpace(line)
	cmd := Command{Raw: trimmed}

	switch trimmed {
	case "home":
		cmd.Kind = CmdHome
		return cmd
	case "raise":
		cmd.Kind = CmdRaise
		return cmd
	case "lower":
		cmd.Kind = CmdLower
		return cmd
	}

	unitsX, okX := axisField(trimmed, 'X')
	unitsY, okY := axisField(trimmed, 'Y')
	if okX || okY {
		cmd.Kind = CmdMove
		cmd.UnitsX = unitsX
		cmd.UnitsY = unitsY
		return cmd
	}

	cmd.Kind = CmdUnknown
	return cmd
}

// axisField locates `<letter>:` in the line and parses the signed integer
// after the colon. Returns false if the letter/colon pair is absent.
func axisField(line string, letter byte) (int64, bool) {
	idx := strings.IndexByte(line, letter)
	if idx < 0 {
		return 0, false
	}

	i := idx + 1
	for i < len(line) && line[i] == ' ' {
		i++
	}
	if i >= len(line) || line[i] != ':' {
		return 0, false
	}
	i++

	value, _ := parseInt(line, i)
	return value, true
}

// parseInt parses a signed integer starting at pos, skipping leading
// spaces. A missing or malformed number yields 0; operand errors are
// never surfaced on the wire.
func parseInt(s string, pos int) (int64, int) {
	for pos < len(s) && s[pos] == ' ' {
		pos++
	}

	negative := false
	if pos < len(s) && (s[pos] == '-' || s[pos] == '+') {
		negative = s[pos] == '-'
		pos++
	}

	start := pos
	var value int64
	for pos < len(s) && s[pos] >= '0' && s[pos] <= '9' {
		value = value*10 + int64(s[pos]-'0')
		pos++
	}

	if pos == start {
		return 0, pos // No digits found
	}

	if negative {
		value = -value
	}

	return value, pos
}

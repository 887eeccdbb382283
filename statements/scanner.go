package statements

import "strings"

// Mode is the quoting context the Scanner is currently in.
type Mode int

const (
	Unquoted Mode = iota
	InString
	InDelimitedIdentifier
)

func (m Mode) String() string {
	switch m {
	case Unquoted:
		return "unquoted"
	case InString:
		return "in-string"
	case InDelimitedIdentifier:
		return "in-delimited-identifier"
	default:
		return "unknown"
	}
}

// Scanner partitions a stream of characters into raw statement fragments.
//
// A fragment ends at every semicolon found outside of both a single-quoted
// text literal and a double-quoted delimited identifier. Quote characters
// are kept verbatim in the fragments; only the mode is affected by them.
// The zero value is ready to use.
type Scanner struct {
	mode      Mode
	fragments []string
	current   strings.Builder
}

// Accept feeds one byte to the scanner. Only ASCII quote and semicolon
// bytes are significant, so multi-byte UTF-8 sequences and bytes that are
// not valid UTF-8 pass through unchanged.
func (s *Scanner) Accept(c byte) {
	switch {
	case c == '\'' && s.mode != InDelimitedIdentifier:
		s.mode = toggle(s.mode, InString)
	case c == '"' && s.mode != InString:
		s.mode = toggle(s.mode, InDelimitedIdentifier)
	case c == ';' && s.mode == Unquoted:
		s.fragments = append(s.fragments, s.current.String())
		s.current.Reset()
		return
	}
	s.current.WriteByte(c)
}

// AcceptString feeds every byte of input, in order.
func (s *Scanner) AcceptString(input string) {
	for i := 0; i < len(input); i++ {
		s.Accept(input[i])
	}
}

// Mode returns the current quoting mode. A scanner that has consumed all
// input and is not Unquoted saw an unterminated literal; that is not an error.
func (s *Scanner) Mode() Mode {
	return s.mode
}

// Fragments returns the fragments seen so far, the in-progress one last.
// Fragments are not trimmed and may be empty.
func (s *Scanner) Fragments() []string {
	result := make([]string, 0, len(s.fragments)+1)
	result = append(result, s.fragments...)
	return append(result, s.current.String())
}

func toggle(current, quoted Mode) Mode {
	if current == quoted {
		return Unquoted
	}
	return quoted
}

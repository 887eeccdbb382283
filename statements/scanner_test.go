package statements

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func scan(input string) *Scanner {
	var s Scanner
	s.AcceptString(input)
	return &s
}

func TestScanner_ZeroValue(t *testing.T) {
	var s Scanner
	assert.Equal(t, Unquoted, s.Mode())
	assert.Equal(t, []string{""}, s.Fragments())
}

func TestScanner_Modes(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected Mode
	}{
		{"plain text", "select 1", Unquoted},
		{"open string", "select 'a", InString},
		{"closed string", "select 'a'", Unquoted},
		{"open identifier", `select "a`, InDelimitedIdentifier},
		{"closed identifier", `select "a"`, Unquoted},
		{"double quote inside string", `'"`, InString},
		{"single quote inside identifier", `"'`, InDelimitedIdentifier},
		{"doubled quote escape reads as close and reopen", `'it''s`, InString},
		{"string then identifier", `'a'"b`, InDelimitedIdentifier},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, scan(tt.input).Mode())
		})
	}
}

func TestScanner_Fragments(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected []string
	}{
		{"empty", "", []string{""}},
		{"no semicolon", " a b ", []string{" a b "}},
		{"semicolon is dropped", "a;b", []string{"a", "b"}},
		{"trailing semicolon leaves empty fragment", "a;", []string{"a", ""}},
		{"only semicolons", ";;", []string{"", "", ""}},
		{"semicolon in string", "a';';b", []string{"a';'", "b"}},
		{"semicolon in identifier", `a";";b`, []string{`a";"`, "b"}},
		{"quotes are kept", `'"';"`, []string{`'"'`, `"`}},
		{"multi-byte characters", "'æøå';ü", []string{"'æøå'", "ü"}},
		{"invalid utf-8", "\xe9;'\xff;'", []string{"\xe9", "'\xff;'"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, scan(tt.input).Fragments())
		})
	}
}

func TestScanner_FragmentsIsACopy(t *testing.T) {
	s := scan("a;b")
	fragments := s.Fragments()
	fragments[0] = "changed"
	assert.Equal(t, []string{"a", "b"}, s.Fragments())

	s.AcceptString("c;d")
	assert.Equal(t, []string{"a", "bc", "d"}, s.Fragments())
}

func TestMode_String(t *testing.T) {
	assert.Equal(t, "unquoted", Unquoted.String())
	assert.Equal(t, "in-string", InString.String())
	assert.Equal(t, "in-delimited-identifier", InDelimitedIdentifier.String())
	assert.Equal(t, "unknown", Mode(42).String())
}

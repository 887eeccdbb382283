// Package statements splits a script of SQL statements into the
// individual statements, so that a runner can execute, time and report on
// them one at a time.
//
// There is no intention to validate the SQL or to understand its grammar.
// The only thing tracked is whether a semicolon is inside a '...' string
// literal or a "..." delimited identifier. Scripts are rejected if any
// statement starts with a transaction-control command, since the caller
// owns the transaction.
package statements

import (
	"iter"
	"slices"
	"strings"
)

// Statement is one SQL statement with surrounding whitespace removed.
type Statement string

func (s Statement) String() string {
	return string(s)
}

// StatementGroup is the ordered list of statements from a single script.
type StatementGroup struct {
	statements []Statement
	endMode    Mode
}

// NewStatementGroup creates a group holding a copy of stmts.
func NewStatementGroup(stmts ...Statement) StatementGroup {
	return StatementGroup{statements: slices.Clone(stmts)}
}

func (g StatementGroup) Len() int {
	return len(g.statements)
}

// Statements returns a copy of the statements in source order.
func (g StatementGroup) Statements() []Statement {
	return slices.Clone(g.statements)
}

// Strings returns the statements as plain strings.
func (g StatementGroup) Strings() []string {
	result := make([]string, len(g.statements))
	for i, s := range g.statements {
		result[i] = string(s)
	}
	return result
}

// Unterminated returns the quoting mode the script ended in. It is
// Unquoted unless a string literal or delimited identifier was left open,
// in which case the last statement runs to the end of the script.
func (g StatementGroup) Unterminated() Mode {
	return g.endMode
}

// All iterates over the statements with their zero-based index.
func (g StatementGroup) All() iter.Seq2[int, Statement] {
	return slices.All(g.statements)
}

// reservedCommands are checked in this order; the first prefix match wins.
var reservedCommands = []string{"begin", "savepoint", "rollback", "commit"}

// reservedPrefixLen is how many characters of a statement are inspected
// when looking for a reserved command.
const reservedPrefixLen = 10

// Parse splits input into statements.
//
// Comment lines are removed first (see StripCommentLines). The remaining
// text is split at semicolons outside of quotes, and each piece is trimmed;
// empty pieces are dropped. If any statement starts with BEGIN, SAVEPOINT,
// ROLLBACK or COMMIT (case-insensitive, no word boundary check) a
// ReservedCommandError for the first such statement is returned and no
// statements at all.
func Parse(input string) (StatementGroup, error) {
	var s Scanner
	s.AcceptString(StripCommentLines(input))

	var stmts []Statement
	for _, fragment := range s.Fragments() {
		trimmed := strings.TrimSpace(fragment)
		if trimmed == "" {
			continue
		}
		stmts = append(stmts, Statement(trimmed))
	}

	for _, stmt := range stmts {
		if keyword, found := reservedCommand(stmt); found {
			return StatementGroup{}, ReservedCommandError{Keyword: strings.ToUpper(keyword)}
		}
	}

	return StatementGroup{statements: stmts, endMode: s.Mode()}, nil
}

// MustParse is like Parse but panics on error.
func MustParse(input string) StatementGroup {
	result, err := Parse(input)
	if err != nil {
		panic(err)
	}
	return result
}

func reservedCommand(stmt Statement) (string, bool) {
	head := string(stmt)
	n := 0
	for i := range head {
		if n == reservedPrefixLen {
			head = head[:i]
			break
		}
		n++
	}
	lowered := strings.ToLower(head)
	for _, command := range reservedCommands {
		if strings.HasPrefix(lowered, command) {
			return command, true
		}
	}
	return "", false
}

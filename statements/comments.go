package statements

import "strings"

// CommentMarker starts a comment line.
const CommentMarker = "--"

// StripCommentLines removes every line whose trimmed form starts with
// CommentMarker. Remaining lines are joined back, each terminated by "\n".
//
// Only whole lines are removed: a marker after other content on the same
// line, or inside a string literal spanning lines, is left alone, and block
// comments are not recognized at all.
func StripCommentLines(input string) string {
	var w strings.Builder
	w.Grow(len(input))
	for _, line := range lines(input) {
		if strings.HasPrefix(strings.TrimSpace(line), CommentMarker) {
			continue
		}
		w.WriteString(line)
		w.WriteByte('\n')
	}
	return w.String()
}

// lines splits on "\n", dropping a "\r" before it and the empty
// remainder after a final newline.
func lines(input string) []string {
	if input == "" {
		return nil
	}
	result := strings.Split(input, "\n")
	if result[len(result)-1] == "" {
		result = result[:len(result)-1]
	}
	for i, line := range result {
		result[i] = strings.TrimSuffix(line, "\r")
	}
	return result
}

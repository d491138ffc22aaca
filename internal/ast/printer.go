package ast

import "strings"

// Print renders a full program (a slice of top-level Stmt) back to a
// parenthesized textual form, each statement's String() starting on a
// new line. The output uses the nodes' prefix notation (e.g. "(+ 1 2)")
// and omits statement semicolons, so it is not Lox source and does not
// re-parse.
func Print(program []Stmt) string {
	lines := make([]string, len(program))
	for i, s := range program {
		lines[i] = s.String()
	}
	return strings.Join(lines, "\n")
}

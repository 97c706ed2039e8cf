package engine

import (
	"strings"
)

// splitStatements splits a script into individual statements on semicolons,
// respecting single- and double-quoted strings, bracketed identifiers, and
// both -- line comments and /* */ block comments. Empty statements are
// dropped.
func splitStatements(script string) []string {
	var stmts []string
	var cur strings.Builder

	i := 0
	for i < len(script) {
		c := script[i]
		switch {
		case c == '\'' || c == '"' || c == '`':
			// Quoted region; quote characters escape by doubling.
			quote := c
			cur.WriteByte(c)
			i++
			for i < len(script) {
				cur.WriteByte(script[i])
				if script[i] == quote {
					if i+1 < len(script) && script[i+1] == quote {
						cur.WriteByte(script[i+1])
						i += 2
						continue
					}
					i++
					break
				}
				i++
			}
		case c == '[':
			cur.WriteByte(c)
			i++
			for i < len(script) {
				cur.WriteByte(script[i])
				if script[i] == ']' {
					i++
					break
				}
				i++
			}
		case c == '-' && i+1 < len(script) && script[i+1] == '-':
			for i < len(script) && script[i] != '\n' {
				cur.WriteByte(script[i])
				i++
			}
		case c == '/' && i+1 < len(script) && script[i+1] == '*':
			cur.WriteString("/*")
			i += 2
			for i < len(script) {
				if script[i] == '*' && i+1 < len(script) && script[i+1] == '/' {
					cur.WriteString("*/")
					i += 2
					break
				}
				cur.WriteByte(script[i])
				i++
			}
		case c == ';':
			if s := strings.TrimSpace(cur.String()); s != "" {
				stmts = append(stmts, s)
			}
			cur.Reset()
			i++
		default:
			cur.WriteByte(c)
			i++
		}
	}

	if s := strings.TrimSpace(cur.String()); s != "" {
		stmts = append(stmts, s)
	}
	return stmts
}

// firstKeyword returns the first SQL keyword of a statement, uppercased,
// skipping leading whitespace and comments. Empty if the statement holds
// no keyword at all.
func firstKeyword(stmt string) string {
	i := 0
	for i < len(stmt) {
		c := stmt[i]
		switch {
		case c == ' ' || c == '\t' || c == '\n' || c == '\r':
			i++
		case c == '-' && i+1 < len(stmt) && stmt[i+1] == '-':
			for i < len(stmt) && stmt[i] != '\n' {
				i++
			}
		case c == '/' && i+1 < len(stmt) && stmt[i+1] == '*':
			i += 2
			for i < len(stmt) {
				if stmt[i] == '*' && i+1 < len(stmt) && stmt[i+1] == '/' {
					i += 2
					break
				}
				i++
			}
		default:
			start := i
			for i < len(stmt) && isIdentChar(stmt[i]) {
				i++
			}
			return strings.ToUpper(stmt[start:i])
		}
	}
	return ""
}

// isQueryStatement reports whether a statement produces a result set.
func isQueryStatement(stmt string) bool {
	switch firstKeyword(stmt) {
	case "SELECT", "VALUES", "WITH", "PRAGMA", "EXPLAIN":
		return true
	}
	return false
}

func isIdentChar(c byte) bool {
	return c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c >= '0' && c <= '9' || c == '_'
}

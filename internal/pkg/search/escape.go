// Package search holds helpers shared by the SQL search implementations.
package search

import "strings"

// likeEscaper escapes the LIKE wildcards and the escape character itself.
var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// EscapeLike escapes s for use inside a LIKE/ILIKE pattern declared with ESCAPE '\'.
func EscapeLike(s string) string {
	return likeEscaper.Replace(s)
}

// ContainsPattern returns a LIKE pattern matching s as a literal substring.
func ContainsPattern(s string) string {
	return "%" + EscapeLike(s) + "%"
}

// SPDX-License-Identifier: MPL-2.0

package command

import (
	"strings"
	"unicode"
)

// ToKebabCase converts a Go identifier to lower-case words joined by dashes:
// "UserName" -> "user-name", "HTTPServer" -> "http-server".
func ToKebabCase(name string) string {
	runes := []rune(name)
	var sb strings.Builder
	sb.Grow(len(name) + 4)

	for i, r := range runes {
		if r == '_' {
			sb.WriteRune('-')
			continue
		}
		if unicode.IsUpper(r) {
			if i > 0 && runes[i-1] != '_' {
				prevLower := unicode.IsLower(runes[i-1]) || unicode.IsDigit(runes[i-1])
				nextLower := i+1 < len(runes) && unicode.IsLower(runes[i+1])
				if prevLower || (nextLower && unicode.IsUpper(runes[i-1])) {
					sb.WriteRune('-')
				}
			}
			sb.WriteRune(unicode.ToLower(r))
			continue
		}
		sb.WriteRune(r)
	}
	return sb.String()
}

// lowerLeading lowers the leading upper-case run of an exported identifier,
// keeping the last upper-case letter when it starts the next word:
// "Name" -> "name", "UserName" -> "userName", "URLPath" -> "urlPath", "ID" -> "id".
func lowerLeading(name string) string {
	runes := []rune(name)
	n := 0
	for n < len(runes) && unicode.IsUpper(runes[n]) {
		n++
	}
	switch {
	case n == 0:
		return name
	case n == len(runes):
		return strings.ToLower(name)
	case n > 1:
		n-- // the last upper-case rune begins the next word
	}
	for i := range n {
		runes[i] = unicode.ToLower(runes[i])
	}
	return string(runes)
}

// SPDX-License-Identifier: MPL-2.0

package command

import (
	"slices"
	"strings"
)

// maxSuggestionDistance bounds the edit distance of "similar command" suggestions.
const maxSuggestionDistance = 2

// Matcher selects the command a command line addresses.
type Matcher struct{}

// Match returns the command named by the first token of args, together with
// the remaining arguments. When the first token names no command the primary
// command receives all arguments. If the primary command is the built-in help
// command, an unmatched name token is reported as a CommandNotFoundError.
func (Matcher) Match(coll *Collection, args []string) (*Descriptor, []string, error) {
	var first string
	if len(args) > 0 && !strings.HasPrefix(args[0], "-") {
		first = args[0]
		if d, ok := coll.Find(first); ok {
			return d, args[1:], nil
		}
	}

	switch {
	case coll.Primary == nil:
		return nil, nil, &CommandNotFoundError{Name: first, Similar: SimilarCommands(coll, first)}
	case coll.Primary.Kind == KindHelp && first != "":
		return nil, nil, &CommandNotFoundError{Name: first, Similar: SimilarCommands(coll, first)}
	default:
		return coll.Primary, args, nil
	}
}

// SimilarCommands lists the visible command names close to name, nearest first.
func SimilarCommands(coll *Collection, name string) []string {
	if name == "" {
		return nil
	}
	type candidate struct {
		name string
		dist int
	}
	var found []candidate
	lower := strings.ToLower(name)
	for _, d := range coll.Visible() {
		for _, n := range append([]string{d.Name}, d.Aliases...) {
			dist := levenshtein(lower, strings.ToLower(n))
			if dist <= maxSuggestionDistance || strings.HasPrefix(strings.ToLower(n), lower) {
				found = append(found, candidate{name: n, dist: dist})
				break
			}
		}
	}
	slices.SortStableFunc(found, func(a, b candidate) int { return a.dist - b.dist })

	out := make([]string, len(found))
	for i, c := range found {
		out[i] = c.name
	}
	return out
}

func levenshtein(a, b string) int {
	ra, rb := []rune(a), []rune(b)
	prev := make([]int, len(rb)+1)
	curr := make([]int, len(rb)+1)
	for j := range prev {
		prev[j] = j
	}
	for i := 1; i <= len(ra); i++ {
		curr[0] = i
		for j := 1; j <= len(rb); j++ {
			cost := 1
			if ra[i-1] == rb[j-1] {
				cost = 0
			}
			curr[j] = min(prev[j]+1, curr[j-1]+1, prev[j-1]+cost)
		}
		prev, curr = curr, prev
	}
	return prev[len(rb)]
}

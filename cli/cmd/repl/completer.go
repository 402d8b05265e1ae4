package repl

import (
	"maps"
	"slices"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/charmbracelet/lipgloss"
	"github.com/sahilm/fuzzy"
)

// ctrlCommands are the available control-mode commands.
var ctrlCommands = []string{"help", "data", "transforms", "tree", "edit", "clear", "quit"}

// scope classifies the template position at the cursor for completion.
type scope int

const (
	scopeText      scope = iota // literal text
	scopePath                   // a path inside an interpolation or condition
	scopeTransform              // the transform name of an interpolation
)

// scopeAt reports what the cursor position in input is editing.
func scopeAt(input string, cursor int) scope {
	before := input[:min(cursor, len(input))]

	if open := strings.LastIndex(before, "%{"); open >= 0 &&
		!strings.Contains(before[open:], "}") {
		body := strings.TrimLeftFunc(before[open+2:], unicode.IsSpace)
		if strings.IndexFunc(body, unicode.IsSpace) >= 0 {
			return scopeTransform
		}

		return scopePath
	}

	if open := strings.LastIndex(before, "<#if("); open >= 0 &&
		!strings.Contains(before[open:], ")>") {
		return scopePath
	}

	return scopeText
}

// isWordBoundary returns true if the rune is a word delimiter for completion
// purposes. This includes whitespace, the member-access dot, and template
// tag and operator characters.
func isWordBoundary(r rune) bool {
	switch r {
	case '.', ' ', '\t', '\n',
		'(', ')', '{', '}',
		'<', '>', '=', '!',
		'&', '|', '%', '#', '/':
		return true
	}

	return false
}

// wordBounds returns the current word at the cursor position and its byte
// boundaries within input.
// Returns an empty word when the cursor sits on a boundary (after a space,
// between dots, start of line, etc.).
func wordBounds(input string, cursor int) (word string, start, end int) {
	if cursor > len(input) {
		cursor = len(input)
	}

	start = cursor

	for start > 0 {
		r, size := utf8.DecodeLastRuneInString(input[:start])
		if isWordBoundary(r) {
			break
		}

		start -= size
	}

	end = cursor

	for end < len(input) {
		r, size := utf8.DecodeRuneInString(input[end:])
		if isWordBoundary(r) {
			break
		}

		end += size
	}

	return input[start:end], start, end
}

// parentPath returns the dot-separated path leading up to the current word.
// For input "%{user.address.ci" with the word "ci", the parent path is
// "user.address". Call segments keep their "()" suffix.
// Returns "" for top-level words.
func parentPath(input string, wordStart int) string {
	prefix := input[:wordStart]
	if !strings.HasSuffix(prefix, ".") {
		return ""
	}

	prefix = strings.TrimRight(prefix, ".")
	pos := len(prefix)

	for pos > 0 {
		r, size := utf8.DecodeLastRuneInString(prefix[:pos])

		switch {
		case r == '.':
		case r == ')' && strings.HasSuffix(prefix[:pos], "()"):
			size = len("()")
		case isWordBoundary(r):
			return prefix[pos:]
		}

		pos -= size
	}

	return prefix
}

// childCandidates returns the keys of the mapping found at parent in data.
// It returns nil when parent does not name a mapping.
func childCandidates(data map[string]any, parent string) []string {
	var cur any = data

	if parent != "" {
		for _, seg := range strings.Split(parent, ".") {
			m, ok := cur.(map[string]any)
			if !ok {
				return nil
			}

			if cur, ok = m[seg]; !ok {
				return nil
			}
		}
	}

	m, ok := cur.(map[string]any)
	if !ok {
		return nil
	}

	return slices.Sorted(maps.Keys(m))
}

// allMatches returns every candidate as an unfiltered match.
func allMatches(candidates []string) fuzzy.Matches {
	matches := make(fuzzy.Matches, len(candidates))
	for i, c := range candidates {
		matches[i] = fuzzy.Match{Str: c, Index: i}
	}

	return matches
}

// computeMatches calculates the fuzzy match results for the word at the
// cursor. It returns the matches (ranked best-first), the candidate list,
// and the word boundaries.
//
// An empty word yields no matches, except after a dot (member access) or in
// transform position, where every candidate is offered for browsing.
func (m model) computeMatches() (
	matches fuzzy.Matches,
	candidates []string,
	wordStart, wordEnd int,
) {
	input := m.input.Value()
	cursor := m.input.Position()

	word, wordStart, wordEnd := wordBounds(input, cursor)

	browse := false

	if m.mode == modeCtrl {
		candidates = ctrlCommands
	} else {
		switch scopeAt(input, cursor) {
		case scopePath:
			parent := parentPath(input, wordStart)
			candidates = childCandidates(m.data, parent)
			browse = parent != ""

		case scopeTransform:
			candidates = m.transforms
			browse = true

		case scopeText:
		}
	}

	if len(candidates) == 0 || (word == "" && !browse) {
		return nil, nil, wordStart, wordEnd
	}

	if word == "" {
		return allMatches(candidates), candidates, wordStart, wordEnd
	}

	return fuzzy.Find(word, candidates), candidates, wordStart, wordEnd
}

// renderCandidateBar builds the single-line completion bar, ellipsized to fit
// within the given terminal width. Each candidate is rendered with its matched
// characters highlighted. The selected candidate (when tabbing) uses the
// selected style.
func renderCandidateBar(
	matches fuzzy.Matches,
	suggIdx int,
	tabActive bool,
	width int,
) string {
	if len(matches) == 0 || width <= 0 {
		return ""
	}

	const sep = "  "

	sepWidth := lipgloss.Width(sep)
	ellipsis := hintStyle.Render("...")
	ellipsisWidth := lipgloss.Width(ellipsis)

	var b strings.Builder

	used := 0

	for i, match := range matches {
		rendered := renderCandidate(match, tabActive && i == suggIdx)

		entryWidth := lipgloss.Width(rendered)
		if i > 0 {
			entryWidth += sepWidth
		}

		if i > 0 && used+entryWidth+ellipsisWidth > width {
			b.WriteString(sep)
			b.WriteString(ellipsis)

			break
		}

		if i > 0 {
			b.WriteString(sep)
		}

		b.WriteString(rendered)

		used += entryWidth
	}

	return b.String()
}

// renderCandidate renders a single candidate with matched characters
// highlighted.
func renderCandidate(match fuzzy.Match, selected bool) string {
	baseStyle := suggestionStyle
	highlightStyle := matchStyle

	if selected {
		baseStyle = selectedStyle
		highlightStyle = selectedMatchStyle
	}

	matchSet := make(map[int]bool, len(match.MatchedIndexes))
	for _, idx := range match.MatchedIndexes {
		matchSet[idx] = true
	}

	var b strings.Builder

	for i, r := range match.Str {
		if matchSet[i] {
			b.WriteString(highlightStyle.Render(string(r)))
		} else {
			b.WriteString(baseStyle.Render(string(r)))
		}
	}

	return b.String()
}

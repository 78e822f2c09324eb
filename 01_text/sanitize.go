package text

import "strings"

// markupMarker starts the section-heading lines of plain-text wiki extracts.
const markupMarker = "="

// Sanitize turns a raw article into one block of prose: blank and markup
// lines are dropped, lines are joined by single spaces, parenthetical groups
// (nested ones included) are removed, and backslashes and double quotes are
// stripped.
func Sanitize(raw string) string {
	joined := removeBlankLinesAndMarkup(raw)
	withoutParens := removeParentheticals(joined)
	collapsed := collapseSpaces(withoutParens)
	return strings.TrimSpace(stripChars(collapsed))
}

func removeBlankLinesAndMarkup(text string) string {
	lines := strings.Split(text, "\n")
	kept := lines[:0]
	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, markupMarker) {
			continue
		}
		kept = append(kept, line)
	}
	return strings.Join(kept, " ")
}

// removeParentheticals drops every balanced (...) group by tracking depth.
// A stray ")" is kept; an unclosed "(" and everything after it are kept.
func removeParentheticals(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	depth, start := 0, 0
	for i, r := range s {
		switch {
		case r == '(':
			if depth == 0 {
				start = i
			}
			depth++
		case r == ')' && depth > 0:
			depth--
		case depth == 0:
			b.WriteRune(r)
		}
	}
	if depth > 0 {
		b.WriteString(s[start:])
	}
	return b.String()
}

func collapseSpaces(s string) string {
	for strings.Contains(s, "  ") {
		s = strings.ReplaceAll(s, "  ", " ")
	}
	return s
}

func stripChars(s string) string {
	return strings.NewReplacer(`\`, "", `"`, "").Replace(s)
}

package ai

import "strings"

// ExtractJSON pulls the first balanced JSON object out of free-form LLM
// text. Models wrap JSON in prose or markdown code fences more often than
// not, so this is deliberately best-effort: fences are stripped first, then
// the text is scanned for a top-level {...} with string literals and
// escapes respected. Returns ok=false when no balanced object exists.
func ExtractJSON(text string) ([]byte, bool) {
	text = stripFences(text)

	start := strings.IndexByte(text, '{')
	if start < 0 {
		return nil, false
	}

	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(text); i++ {
		ch := text[i]
		switch {
		case escaped:
			escaped = false
		case ch == '\\' && inString:
			escaped = true
		case ch == '"':
			inString = !inString
		case inString:
		case ch == '{':
			depth++
		case ch == '}':
			depth--
			if depth == 0 {
				return []byte(text[start : i+1]), true
			}
		}
	}

	return nil, false
}

// stripFences removes a surrounding ```...``` block, with or without a
// language tag.
func stripFences(text string) string {
	trimmed := strings.TrimSpace(text)
	if !strings.HasPrefix(trimmed, "```") {
		return trimmed
	}

	trimmed = strings.TrimPrefix(trimmed, "```")
	if nl := strings.IndexByte(trimmed, '\n'); nl >= 0 {
		// Drop the language tag line (e.g. "json").
		if firstLine := strings.TrimSpace(trimmed[:nl]); len(firstLine) <= 10 && !strings.ContainsAny(firstLine, "{}") {
			trimmed = trimmed[nl+1:]
		}
	}
	trimmed = strings.TrimSuffix(strings.TrimSpace(trimmed), "```")
	return strings.TrimSpace(trimmed)
}

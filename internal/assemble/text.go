package assemble

import "strings"

// normalize strips one leading blank line from structured text content. When
// a line was stripped, the indentation common to all non-blank lines and a
// trailing blank line are stripped as well. Inline text is kept as is.
func normalize(text string) string {
	nl := strings.IndexByte(text, '\n')
	if nl < 0 || strings.TrimLeft(text[:nl], " \t\r") != "" {
		return text
	}

	lines := strings.Split(text[nl+1:], "\n")

	if last := lines[len(lines)-1]; strings.TrimSpace(last) == "" {
		lines = lines[:len(lines)-1]
	}

	indent := -1

	for _, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}

		n := len(line) - len(strings.TrimLeft(line, " \t"))
		if indent < 0 || n < indent {
			indent = n
		}
	}

	if indent < 0 {
		return ""
	}

	for i, line := range lines {
		if len(line) < indent {
			lines[i] = strings.TrimLeft(line, " \t")
		} else {
			lines[i] = line[indent:]
		}
	}

	return strings.Join(lines, "\n")
}

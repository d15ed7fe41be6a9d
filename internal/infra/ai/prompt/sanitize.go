package prompt

import "strings"

// StripFences removes markdown code fences and other chrome chat models wrap
// around code even when told not to: ``` / ```go fences, a stray language
// tag on the first line, and a leading package clause.
func StripFences(s string) string {
	s = strings.TrimSpace(s)

	// fenced block: keep only what is inside the first fence pair
	if idx := strings.Index(s, "```"); idx >= 0 {
		s = s[idx+3:]
		if end := strings.Index(s, "```"); end >= 0 {
			s = s[:end]
		}
	}
	s = strings.TrimSpace(s)

	// language tag left over from the fence, e.g. "go\n..."
	if first, rest, ok := strings.Cut(s, "\n"); ok {
		switch strings.TrimSpace(first) {
		case "go", "golang":
			s = rest
		}
	}

	// some models insist on a full program
	var out []string
	for _, line := range strings.Split(s, "\n") {
		if strings.HasPrefix(strings.TrimSpace(line), "package ") {
			continue
		}
		out = append(out, line)
	}
	return strings.TrimSpace(strings.Join(out, "\n"))
}

package ninja

import "strings"

// escapeBuildTarget escapes a target name for use in a build stanza.
// '$', ':' and ' ' are prefixed with '$'.
func escapeBuildTarget(s string) string {
	if !strings.ContainsAny(s, "$: ") {
		return s
	}
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '$', ':', ' ':
			b.WriteByte('$')
		}
		b.WriteByte(s[i])
	}
	return b.String()
}

// escapeShell escapes a command line for embedding inside double quotes
// passed to the shell. A doubled "$$" produced by the command translator
// must come out as `\$$`, not `\$\$`, so a '$' that directly follows an
// escaped '$' is left bare: within a run, every other '$' is escaped,
// starting with the first.
func escapeShell(s string) string {
	if !strings.ContainsAny(s, "$`!\\\"") {
		return s
	}
	var b strings.Builder
	b.Grow(len(s) + 8)
	lastDollar := false
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch c {
		case '$':
			if lastDollar {
				b.WriteByte(c)
				lastDollar = false
			} else {
				b.WriteByte('\\')
				b.WriteByte(c)
				lastDollar = true
			}
		case '`', '"', '!', '\\':
			b.WriteByte('\\')
			b.WriteByte(c)
			lastDollar = false
		default:
			b.WriteByte(c)
			lastDollar = false
		}
	}
	return b.String()
}

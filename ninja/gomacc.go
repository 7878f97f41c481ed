package ninja

import "strings"

func stripPrefix(prefix string, s *string) bool {
	if !strings.HasPrefix(*s, prefix) {
		return false
	}
	*s = (*s)[len(prefix):]
	return true
}

// gomaccOffset returns the byte offset at which the distributed-build
// wrapper must be spliced into cmdline, or -1 when the command is not a
// recognized compiler invocation. A leading ccache token is skipped.
func gomaccOffset(cmdline string) int {
	index := strings.IndexByte(cmdline, ' ')
	if index < 0 {
		return -1
	}
	cmd := cmdline[:index]
	if strings.HasSuffix(cmd, "ccache") {
		index++
		pos := gomaccOffset(cmdline[index:])
		if pos < 0 {
			return -1
		}
		return pos + index
	}
	if !stripPrefix("prebuilts/", &cmd) {
		return -1
	}
	if !stripPrefix("gcc/", &cmd) && !stripPrefix("clang/", &cmd) {
		return -1
	}
	if !strings.HasSuffix(cmd, "gcc") && !strings.HasSuffix(cmd, "g++") &&
		!strings.HasSuffix(cmd, "clang") && !strings.HasSuffix(cmd, "clang++") {
		return -1
	}

	if !strings.Contains(cmdline[index:], " -c ") {
		return -1
	}
	return 0
}

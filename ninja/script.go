package ninja

import (
	"strings"

	"github.com/daedaleanai/mkninja/dep"
)

// descriptionFromEcho extracts the body of a translated `echo ...` command
// with the outer quotes stripped. It fails when the command is anything
// more than a single echo: an unquoted shell metacharacter means a
// redirection or a second command.
func descriptionFromEcho(cmd string) (string, bool) {
	if !strings.HasPrefix(cmd, "echo ") {
		return "", false
	}
	cmd = cmd[5:]

	prevBackslash := false
	var quote byte
	var out []byte

	for i := 0; i < len(cmd); i++ {
		c := cmd[i]
		switch {
		case prevBackslash:
			prevBackslash = false
			out = append(out, c)
		case c == '\\':
			prevBackslash = true
			out = append(out, c)
		case quote != 0:
			if c == quote {
				quote = 0
			} else {
				out = append(out, c)
			}
		default:
			switch c {
			case '\'', '"', '`':
				quote = c
			case '<', '>', '&', '|', ';':
				return "", false
			default:
				out = append(out, c)
			}
		}
	}
	return string(out), true
}

// genShellScript joins the recipe commands of one node into a single shell
// line. Commands are chained with " && ", or " ; " when the previous
// command ignores errors. With more than one command each is wrapped in a
// subshell unless it already is one.
//
// When detectEcho is set, the first non-echoed `echo ...` command is lifted
// out of the script and returned as the rule description instead.
//
// The gomacc argument is the wrapper token (ending in a space) to splice
// into recognized compiler invocations, or empty when distributed builds
// are disabled. The last return value requests `pool = local_pool` for the
// build stanza: commands that did not get the wrapper must not saturate
// the widened job limit.
func genShellScript(commands []*dep.Command, gomacc string, detectEcho bool) (cmdLine, description string, gotDescription, useLocalPool bool) {
	var buf []byte
	useGomacc := false
	shouldIgnoreError := false

	for i, c := range commands {
		if len(buf) > 0 {
			if shouldIgnoreError {
				buf = append(buf, " ; "...)
			} else {
				buf = append(buf, " && "...)
			}
		}
		shouldIgnoreError = c.IgnoreError

		in := trimLeftSpace(c.Cmd)

		needsSubshell := len(commands) > 1
		if strings.HasPrefix(in, "(") {
			needsSubshell = false
		}
		if needsSubshell {
			buf = append(buf, '(')
		}

		cmdStart := len(buf)
		buf = translateCommand(in, buf)
		translated := string(buf[cmdStart:])
		if detectEcho && !gotDescription && !c.Echo {
			if desc, ok := descriptionFromEcho(translated); ok {
				description = desc
				gotDescription = true
				buf = buf[:cmdStart]
				translated = ""
			}
		}
		if translated == "" {
			buf = append(buf, "true"...)
		} else if gomacc != "" {
			if pos := gomaccOffset(translated); pos >= 0 {
				buf = insertString(buf, cmdStart+pos, gomacc)
				useGomacc = true
			}
		}

		if i == len(commands)-1 && c.IgnoreError {
			buf = append(buf, " ; true"...)
		}

		if needsSubshell {
			buf = append(buf, ')')
		}
	}
	return string(buf), description, gotDescription, gomacc != "" && !useGomacc
}

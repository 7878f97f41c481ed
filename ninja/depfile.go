package ninja

import (
	"strings"

	"github.com/daedaleanai/mkninja/log"
)

// findCommandLineFlag locates name in cmd, rejecting a match at offset 0.
// The needle carries its leading space, so a match at 0 would mean the flag
// is not preceded by anything that separates it from the command.
func findCommandLineFlag(cmd, name string) int {
	found := strings.Index(cmd, name)
	if found <= 0 {
		return -1
	}
	return found
}

// findCommandLineFlagWithArg returns the whitespace-delimited argument of
// the last occurrence of name in cmd. Last-wins is deliberate: recipes that
// repeat -MF only honor the final one.
func findCommandLineFlagWithArg(cmd, name string) string {
	index := findCommandLineFlag(cmd, name)
	if index < 0 {
		return ""
	}

	val := trimLeftSpace(cmd[index+len(name):])
	for {
		i := strings.Index(val, name)
		if i < 0 {
			break
		}
		val = trimLeftSpace(val[i+len(name):])
	}

	if i := strings.IndexAny(val, " \t"); i >= 0 {
		val = val[:i]
	}
	return val
}

func depfileFromFlags(cmd string) (string, bool) {
	if (findCommandLineFlag(cmd, " -MD") < 0 && findCommandLineFlag(cmd, " -MMD") < 0) ||
		findCommandLineFlag(cmd, " -c") < 0 {
		return "", false
	}

	if mf := findCommandLineFlagWithArg(cmd, " -MF"); mf != "" {
		return mf, true
	}

	o := findCommandLineFlagWithArg(cmd, " -o")
	if o == "" {
		log.Error("Cannot find the depfile in %s", cmd)
		return "", false
	}
	return stripExt(o) + ".d", true
}

// getDepfileFromCommand infers the depfile path of a composed command line
// and returns the possibly rewritten command. The rewrites mirror what
// Android recipes need:
//   - llvm-rs-cc does not emit a dep file even with -MD.
//   - Recipes that post-process the .d file into a .P file delete the .d;
//     the removal is stripped and the .P file is reported instead.
//   - For .s files the preprocessor is not invoked and -MF is ignored.
//   - Everything else gets a "&& cp" appended so that a stale depfile never
//     shadows a fresh compile, and the copy is reported.
func getDepfileFromCommand(cmd string) (string, string, bool) {
	depfile, ok := depfileFromFlags(cmd)
	if !ok {
		return cmd, "", false
	}

	if strings.Contains(cmd, "bin/llvm-rs-cc ") {
		return cmd, "", false
	}

	p := stripExt(depfile) + ".P"
	if strings.Contains(cmd, p) {
		rmF := "; rm -f " + depfile
		if found := strings.Index(cmd, rmF); found >= 0 {
			cmd = cmd[:found] + cmd[found+len(rmF):]
		} else {
			log.Error("Cannot find removal of .d file: %s", cmd)
		}
		return cmd, p, true
	}

	as := "/" + stripExt(basename(depfile)) + ".s"
	if strings.Contains(cmd, as) {
		return cmd, "", false
	}

	cmd += "&& cp " + depfile + " " + depfile + ".tmp "
	depfile += ".tmp"
	return cmd, depfile, true
}

package ninja

import (
	"strings"
	"testing"

	"github.com/daedaleanai/mkninja/dep"
)

func TestDescriptionFromEcho(t *testing.T) {
	cases := []struct {
		in       string
		expected string
		ok       bool
	}{
		{`echo "  CC   foo.o"`, "  CC   foo.o", true},
		{"echo '  AR   libfoo.a'", "  AR   libfoo.a", true},
		{"echo building", "building", true},
		{`echo a\>b`, `a\>b`, true},
		{"echo foo > log", "", false},
		{"echo foo | tee", "", false},
		{"echo foo; true", "", false},
		{"gcc -c foo.c", "", false},
	}
	for i, c := range cases {
		got, ok := descriptionFromEcho(c.in)
		if ok != c.ok {
			t.Fatalf("case %d: ok = %v, expected %v", i, ok, c.ok)
		}
		if got != c.expected {
			t.Fatalf("case %d: got %q, expected %q", i, got, c.expected)
		}
	}
}

func TestGenShellScriptJoins(t *testing.T) {
	cmds := []*dep.Command{
		{Cmd: "mkdir -p out", Echo: true},
		{Cmd: "gcc -c foo.c -o out/foo.o", Echo: true},
	}
	cmdLine, _, gotDescription, useLocalPool := genShellScript(cmds, "", false)
	if cmdLine != "(mkdir -p out) && (gcc -c foo.c -o out/foo.o)" {
		t.Fatalf("got %q", cmdLine)
	}
	if gotDescription || useLocalPool {
		t.Fatal("unexpected description or local pool")
	}
}

func TestGenShellScriptIgnoreError(t *testing.T) {
	cmds := []*dep.Command{
		{Cmd: "rm -f stale", Echo: true, IgnoreError: true},
		{Cmd: "gcc -c foo.c", Echo: true},
	}
	cmdLine, _, _, _ := genShellScript(cmds, "", false)
	if cmdLine != "(rm -f stale) ; (gcc -c foo.c)" {
		t.Fatalf("got %q", cmdLine)
	}

	// An ignored error on the last command keeps the whole line succeeding.
	cmds = []*dep.Command{{Cmd: "rm -f stale", Echo: true, IgnoreError: true}}
	cmdLine, _, _, _ = genShellScript(cmds, "", false)
	if cmdLine != "rm -f stale ; true" {
		t.Fatalf("got %q", cmdLine)
	}

	cmds = []*dep.Command{
		{Cmd: "gcc -c foo.c", Echo: true},
		{Cmd: "strip foo.o", Echo: true, IgnoreError: true},
	}
	cmdLine, _, _, _ = genShellScript(cmds, "", false)
	if cmdLine != "(gcc -c foo.c) && (strip foo.o ; true)" {
		t.Fatalf("got %q", cmdLine)
	}
}

func TestGenShellScriptExistingSubshell(t *testing.T) {
	cmds := []*dep.Command{
		{Cmd: "(cd sub && make)", Echo: true},
		{Cmd: "touch done", Echo: true},
	}
	cmdLine, _, _, _ := genShellScript(cmds, "", false)
	if cmdLine != "(cd sub && make) && (touch done)" {
		t.Fatalf("got %q", cmdLine)
	}
}

func TestGenShellScriptEchoDescription(t *testing.T) {
	cmds := []*dep.Command{
		{Cmd: `echo "  CC   foo.o"`, Echo: false},
		{Cmd: "gcc -c foo.c -o foo.o", Echo: true},
	}
	cmdLine, description, gotDescription, _ := genShellScript(cmds, "", true)
	if !gotDescription {
		t.Fatal("expected a description")
	}
	if description != "  CC   foo.o" {
		t.Fatalf("got description %q", description)
	}
	if cmdLine != "(true) && (gcc -c foo.c -o foo.o)" {
		t.Fatalf("got %q", cmdLine)
	}

	// Echoed commands keep their echo in the script.
	cmds[0].Echo = true
	cmdLine, _, gotDescription, _ = genShellScript(cmds, "", true)
	if gotDescription {
		t.Fatal("echoed commands must not become descriptions")
	}
	if !strings.HasPrefix(cmdLine, "(echo ") {
		t.Fatalf("got %q", cmdLine)
	}
}

func TestGenShellScriptEmptyCommand(t *testing.T) {
	cmds := []*dep.Command{{Cmd: "   # comment only", Echo: true}}
	cmdLine, _, _, _ := genShellScript(cmds, "", false)
	if cmdLine != "true" {
		t.Fatalf("got %q", cmdLine)
	}
}

func TestGenShellScriptGomacc(t *testing.T) {
	gomacc := "/goma/gomacc "
	cmds := []*dep.Command{
		{Cmd: "prebuilts/gcc/linux-x86/bin/gcc -c foo.c -o foo.o", Echo: true},
	}
	cmdLine, _, _, useLocalPool := genShellScript(cmds, gomacc, false)
	if cmdLine != "/goma/gomacc prebuilts/gcc/linux-x86/bin/gcc -c foo.c -o foo.o" {
		t.Fatalf("got %q", cmdLine)
	}
	if useLocalPool {
		t.Fatal("wrapped commands must not use the local pool")
	}

	// Commands that did not get the wrapper are confined to the local pool.
	cmds = []*dep.Command{{Cmd: "ln -sf a b", Echo: true}}
	_, _, _, useLocalPool = genShellScript(cmds, gomacc, false)
	if !useLocalPool {
		t.Fatal("non-wrapped commands must use the local pool")
	}

	// The wrapper lands after the subshell paren.
	cmds = []*dep.Command{
		{Cmd: "prebuilts/clang/bin/clang -c a.c -o a.o", Echo: true},
		{Cmd: "touch stamp", Echo: true},
	}
	cmdLine, _, _, _ = genShellScript(cmds, gomacc, false)
	if cmdLine != "(/goma/gomacc prebuilts/clang/bin/clang -c a.c -o a.o) && (touch stamp)" {
		t.Fatalf("got %q", cmdLine)
	}
}

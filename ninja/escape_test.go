package ninja

import "testing"

func TestEscapeBuildTarget(t *testing.T) {
	cases := []struct {
		in       string
		expected string
	}{
		{"foo", "foo"},
		{"out/foo.o", "out/foo.o"},
		{"a b", "a$ b"},
		{"a:b", "a$:b"},
		{"a$b", "a$$b"},
		{"$ :", "$$$ $:"},
	}
	for i, c := range cases {
		if got := escapeBuildTarget(c.in); got != c.expected {
			t.Fatalf("case %d: got %q, expected %q", i, got, c.expected)
		}
	}
}

func TestEscapeBuildTargetInjective(t *testing.T) {
	inputs := []string{"a b", "a$ b", "a$b", "a:b", "a$:b", "ab"}
	seen := map[string]string{}
	for _, in := range inputs {
		out := escapeBuildTarget(in)
		if prev, ok := seen[out]; ok {
			t.Fatalf("%q and %q escape to the same target %q", prev, in, out)
		}
		seen[out] = in
	}
}

func TestEscapeShell(t *testing.T) {
	cases := []struct {
		in       string
		expected string
	}{
		{"echo hello", "echo hello"},
		{`a"b`, `a\"b`},
		{"a`b", "a\\`b"},
		{"a!b", `a\!b`},
		{`a\b`, `a\\b`},
		// A "$$" pair is kept as one escaped dollar so that Ninja's
		// unescaping yields a literal "$" for the shell.
		{"$$", `\$$`},
		{"$x", `\$x`},
		{"$$$", `\$$\$`},
		{"$a$b", `\$a\$b`},
		{"$$FOO $$BAR", `\$$FOO \$$BAR`},
	}
	for i, c := range cases {
		if got := escapeShell(c.in); got != c.expected {
			t.Fatalf("case %d: got %q, expected %q", i, got, c.expected)
		}
	}
}

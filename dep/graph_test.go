package dep

import (
	"io/ioutil"
	"path"
	"testing"

	"github.com/daedaleanai/mkninja/sym"
)

const testGraph = `{
	"Vars": {"SHELL": "/bin/bash"},
	"Exports": [{"Name": "PATH", "Export": true}, {"Name": "MAKEFLAGS", "Export": false}],
	"UsedEnvVars": ["PATH"],
	"Makefiles": ["Makefile", "rules.mk"],
	"Nodes": [
		{"Output": "all", "Deps": [1], "IsPhony": true},
		{"Output": "foo.o", "OrderOnlys": [2], "Cmds": [{"Cmd": "gcc -c foo.c -o foo.o", "Echo": true}]},
		{"Output": "gen", "IsPhony": true}
	],
	"Roots": [0]
}`

func loadTestGraph(t *testing.T, content string) *Graph {
	t.Helper()
	dir := t.TempDir()
	graphPath := path.Join(dir, "graph.json")
	if err := ioutil.WriteFile(graphPath, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	g, err := LoadGraph(graphPath)
	if err != nil {
		t.Fatal(err)
	}
	return g
}

func TestLoadGraph(t *testing.T) {
	g := loadTestGraph(t, testGraph)

	roots := g.Roots()
	if len(roots) != 1 {
		t.Fatalf("expected one root, got %d", len(roots))
	}
	all := roots[0]
	if all.Output != sym.Intern("all") || !all.IsPhony {
		t.Fatal("unexpected root node")
	}
	if len(all.Deps) != 1 || all.Deps[0].Output != sym.Intern("foo.o") {
		t.Fatal("unexpected deps")
	}
	foo := all.Deps[0]
	if len(foo.OrderOnlys) != 1 || foo.OrderOnlys[0].Output != sym.Intern("gen") {
		t.Fatal("unexpected order-only deps")
	}

	cmds := g.Evaluate(foo)
	if len(cmds) != 1 || cmds[0].Cmd != "gcc -c foo.c -o foo.o" || !cmds[0].Echo {
		t.Fatal("unexpected commands")
	}

	if g.EvalVar(sym.Intern("SHELL")) != "/bin/bash" {
		t.Fatal("unexpected SHELL value")
	}
	if g.EvalVar(sym.Intern("UNSET")) != "" {
		t.Fatal("unset variables must evaluate to the empty string")
	}

	exports := g.Exports()
	if len(exports) != 2 || !exports[0].Export || exports[1].Export {
		t.Fatal("unexpected exports")
	}
	used := g.UsedEnvVars()
	if len(used) != 1 || used[0] != sym.Intern("PATH") {
		t.Fatal("unexpected used env vars")
	}
	files := g.AllFilenames()
	if len(files) != 2 {
		t.Fatal("unexpected makefile list")
	}
}

func TestLoadGraphBadIndex(t *testing.T) {
	dir := t.TempDir()
	graphPath := path.Join(dir, "graph.json")
	content := `{"Nodes": [{"Output": "a", "Deps": [7]}], "Roots": [0]}`
	if err := ioutil.WriteFile(graphPath, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadGraph(graphPath); err == nil {
		t.Fatal("expected an error for an out-of-range node index")
	}
}

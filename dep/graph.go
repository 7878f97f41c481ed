package dep

import (
	"encoding/json"
	"fmt"
	"io/ioutil"

	"github.com/daedaleanai/mkninja/sym"
	"github.com/daedaleanai/mkninja/util"
)

// graphNode is one node of the serialized evaluation dump. Dependencies are
// arena indices into the node list.
type graphNode struct {
	Output     string
	Deps       []int
	OrderOnlys []int
	Cmds       []*Command
	IsPhony    bool
}

type graphExport struct {
	Name   string
	Export bool
}

// graphFile is the on-disk evaluation dump produced by the Make evaluator.
type graphFile struct {
	Vars        map[string]string
	Exports     []graphExport
	UsedEnvVars []string
	Makefiles   []string
	Nodes       []graphNode
	Roots       []int
}

// Graph is a loaded evaluation dump. It implements Evaluator and
// MakefileCache for the generator.
type Graph struct {
	nodes     []*Node
	roots     []*Node
	vars      map[string]string
	exports   []Export
	usedEnvs  []sym.Symbol
	makefiles []string
	avoidIO   bool
}

// LoadGraph reads an evaluation dump from a file.
func LoadGraph(filePath string) (*Graph, error) {
	data, err := ioutil.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read graph file: %w", err)
	}

	var file graphFile
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse graph file '%s': %w", filePath, err)
	}
	return newGraph(&file)
}

func newGraph(file *graphFile) (*Graph, error) {
	g := &Graph{
		vars:      file.Vars,
		makefiles: file.Makefiles,
	}
	if g.vars == nil {
		g.vars = map[string]string{}
	}

	g.nodes = make([]*Node, len(file.Nodes))
	for i := range file.Nodes {
		g.nodes[i] = &Node{
			Output:  sym.Intern(file.Nodes[i].Output),
			Cmds:    file.Nodes[i].Cmds,
			IsPhony: file.Nodes[i].IsPhony,
		}
	}

	resolve := func(indices []int) ([]*Node, error) {
		nodes := make([]*Node, 0, len(indices))
		for _, idx := range indices {
			if idx < 0 || idx >= len(g.nodes) {
				return nil, fmt.Errorf("node index %d out of range", idx)
			}
			nodes = append(nodes, g.nodes[idx])
		}
		return nodes, nil
	}

	var err error
	for i := range file.Nodes {
		if g.nodes[i].Deps, err = resolve(file.Nodes[i].Deps); err != nil {
			return nil, err
		}
		if g.nodes[i].OrderOnlys, err = resolve(file.Nodes[i].OrderOnlys); err != nil {
			return nil, err
		}
	}
	if g.roots, err = resolve(file.Roots); err != nil {
		return nil, err
	}

	g.exports = util.MappedSlice(file.Exports, func(e graphExport) Export {
		return Export{Name: sym.Intern(e.Name), Export: e.Export}
	})
	g.usedEnvs = util.MappedSlice(file.UsedEnvVars, sym.Intern)
	return g, nil
}

// Roots returns the root nodes of the dump, in dump order.
func (g *Graph) Roots() []*Node {
	return g.roots
}

func (g *Graph) Evaluate(n *Node) []*Command {
	return n.Cmds
}

func (g *Graph) EvalVar(name sym.Symbol) string {
	return g.vars[name.String()]
}

func (g *Graph) Exports() []Export {
	return g.exports
}

func (g *Graph) UsedEnvVars() []sym.Symbol {
	return g.usedEnvs
}

func (g *Graph) SetAvoidIO(avoid bool) {
	g.avoidIO = avoid
}

func (g *Graph) AllFilenames() []string {
	return g.makefiles
}

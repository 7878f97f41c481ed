// Package dep defines the evaluated dependency graph consumed by the Ninja
// generator and the contracts of its external collaborators.
package dep

import (
	"github.com/daedaleanai/mkninja/sym"
)

// Command is a single already-evaluated recipe line.
type Command struct {
	// Cmd is the shell command.
	Cmd string
	// Echo is false when the recipe line was prefixed with '@' in Make.
	Echo bool
	// IgnoreError is true when the recipe line was prefixed with '-' in Make.
	IgnoreError bool
}

// Node is one target in the resolved dependency graph.
type Node struct {
	Output sym.Symbol
	// Deps are the normal prerequisites.
	Deps []*Node
	// OrderOnlys are prerequisites that enforce ordering but do not trigger
	// rebuilds.
	OrderOnlys []*Node
	Cmds       []*Command
	IsPhony    bool
}

// Export is one entry of the evaluator's export list. Export == false means
// the variable must be unset instead.
type Export struct {
	Name   sym.Symbol
	Export bool
}

// Evaluator provides the evaluated state of the makefiles. It must be pure
// for the duration of a generator run.
type Evaluator interface {
	// Evaluate returns the evaluated recipe lines of a node.
	Evaluate(n *Node) []*Command
	// EvalVar returns the value of a variable.
	EvalVar(name sym.Symbol) string
	// Exports returns the export list in declaration order.
	Exports() []Export
	// UsedEnvVars returns the environment variables consulted during
	// evaluation.
	UsedEnvVars() []sym.Symbol
	// SetAvoidIO controls whether the evaluator may perform side-effectful
	// I/O. The generator keeps it enabled for its whole run.
	SetAvoidIO(avoid bool)
}

// MakefileCache lists the makefiles that were read during evaluation.
type MakefileCache interface {
	AllFilenames() []string
}

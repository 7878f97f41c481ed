// Package ninja emits a Ninja build file, a shell wrapper and an
// environment snapshot from an evaluated Make dependency graph.
package ninja

import (
	"bufio"
	"fmt"
	"os"

	"github.com/daedaleanai/mkninja/dep"
	"github.com/daedaleanai/mkninja/sym"
	"github.com/daedaleanai/mkninja/util"
)

// Config carries the generator knobs. It is created once at startup and
// never mutated afterwards.
type Config struct {
	// NinjaSuffix is appended to all output filenames.
	NinjaSuffix string
	// NinjaDir is the output directory. Empty means ".".
	NinjaDir string
	// GomaDir enables compiler-wrapper injection and the local pool when
	// non-empty.
	GomaDir string
	// NumJobs is the local pool depth when GomaDir is set.
	NumJobs int

	// DetectAndroidEcho lifts leading `echo ...` recipe lines into rule
	// descriptions.
	DetectAndroidEcho bool
	// GenRegenRule emits the rules that re-run the translator when a
	// makefile or a consumed environment variable changes.
	GenRegenRule bool
	// ErrorOnEnvChange makes the regeneration rule fail instead of
	// refreshing the snapshot when the environment changed.
	ErrorOnEnvChange bool

	// BuildAll suppresses the default target so that Ninja builds
	// everything.
	BuildAll bool
	// OrigArgs is the invocation to re-run for regeneration.
	OrigArgs string
}

// NinjaFilename returns the path of the generated Ninja file.
func (c Config) NinjaFilename() string {
	return fmt.Sprintf("%s/build%s.ninja", c.ninjaDir(), c.NinjaSuffix)
}

// ShellFilename returns the path of the generated wrapper script.
func (c Config) ShellFilename() string {
	return fmt.Sprintf("%s/ninja%s.sh", c.ninjaDir(), c.NinjaSuffix)
}

// EnvlistFilename returns the path of the environment snapshot.
func (c Config) EnvlistFilename() string {
	return fmt.Sprintf("%s/.kati_env%s", c.ninjaDir(), c.NinjaSuffix)
}

// LunchFilename returns the path of the lunch sidecar sourced by the
// wrapper script.
func (c Config) LunchFilename() string {
	return fmt.Sprintf("%s/.kati_lunch%s", c.ninjaDir(), c.NinjaSuffix)
}

func (c Config) ninjaDir() string {
	if c.NinjaDir == "" {
		return "."
	}
	return c.NinjaDir
}

// Linux is OK with ~130kB command lines and Mac's limit is ~250kB. Longer
// commands go through a response file.
const maxCmdlineLen = 100 * 1000

var shellSym = sym.Intern("SHELL")

type generator struct {
	cfg   Config
	ev    dep.Evaluator
	cache dep.MakefileCache

	w          *bufio.Writer
	done       map[sym.Symbol]bool
	shortNames util.OrderedMap[string, string]
	usedEnvs   util.OrderedMap[string, string]
	ruleID     int
	gomacc     string
	shell      string
}

// Generate writes the environment snapshot, the Ninja file and the shell
// wrapper for the given root nodes. The evaluator is kept in avoid-I/O
// mode for the whole run.
func Generate(cfg Config, nodes []*dep.Node, ev dep.Evaluator, cache dep.MakefileCache) error {
	if len(nodes) == 0 && !cfg.BuildAll {
		return fmt.Errorf("no targets to emit a default target for")
	}

	ev.SetAvoidIO(true)
	defer ev.SetAvoidIO(false)

	g := &generator{
		cfg:        cfg,
		ev:         ev,
		cache:      cache,
		done:       map[sym.Symbol]bool{},
		shortNames: util.NewOrderedMap[string, string](),
		usedEnvs:   util.NewOrderedMap[string, string](),
	}
	g.shortNames.AllowOverrides()
	g.shell = ev.EvalVar(shellSym)
	if cfg.GomaDir != "" {
		g.gomacc = cfg.GomaDir + "/gomacc "
	}
	for _, e := range ev.UsedEnvVars() {
		if _, ok := g.usedEnvs.Lookup(e.String()); !ok {
			g.usedEnvs.Insert(e.String(), ev.EvalVar(e))
		}
	}

	if err := g.generateEnvlist(); err != nil {
		return err
	}
	if err := g.generateNinja(nodes); err != nil {
		return err
	}
	return g.generateShell()
}

func (g *generator) genRuleName() string {
	name := fmt.Sprintf("rule%d", g.ruleID)
	g.ruleID++
	return name
}

// emitDepfile runs depfile inference on the composed command line and
// writes the depfile/deps lines when a depfile was found. The returned
// command line carries the rewrites inference applied. A trailing space is
// appended around the call so inference can extend the command, and popped
// again afterwards.
func (g *generator) emitDepfile(cmdLine string) string {
	cmd, depfile, ok := getDepfileFromCommand(cmdLine + " ")
	cmd = cmd[:len(cmd)-1]
	if !ok {
		return cmd
	}
	fmt.Fprintf(g.w, " depfile = %s\n", depfile)
	fmt.Fprintf(g.w, " deps = gcc\n")
	return cmd
}

func (g *generator) emitNode(n *dep.Node) {
	if g.done[n.Output] {
		return
	}
	g.done[n.Output] = true

	if len(n.Cmds) == 0 && len(n.Deps) == 0 && len(n.OrderOnlys) == 0 && !n.IsPhony {
		return
	}

	output := n.Output.String()
	if base := basename(output); base != output {
		if _, ok := g.shortNames.Lookup(base); ok {
			// Shortcuts are only generated for targets whose basename is
			// unique.
			g.shortNames.Insert(base, "")
		} else {
			g.shortNames.Insert(base, output)
		}
	}

	commands := g.ev.Evaluate(n)

	ruleName := "phony"
	useLocalPool := false
	if len(commands) > 0 {
		ruleName = g.genRuleName()
		fmt.Fprintf(g.w, "rule %s\n", ruleName)

		cmdLine, description, gotDescription, localPool := genShellScript(commands, g.gomacc, g.cfg.DetectAndroidEcho)
		useLocalPool = localPool
		if !gotDescription {
			description = "build $out"
		}
		fmt.Fprintf(g.w, " description = %s\n", description)
		cmdLine = g.emitDepfile(cmdLine)

		if len(cmdLine) > maxCmdlineLen {
			fmt.Fprintf(g.w, " rspfile = $out.rsp\n")
			fmt.Fprintf(g.w, " rspfile_content = %s\n", cmdLine)
			fmt.Fprintf(g.w, " command = %s $out.rsp\n", g.shell)
		} else {
			fmt.Fprintf(g.w, " command = %s -c \"%s\"\n", g.shell, escapeShell(cmdLine))
		}
	}

	g.emitBuild(n, ruleName)
	if useLocalPool {
		fmt.Fprintf(g.w, " pool = local_pool\n")
	}

	for _, d := range n.Deps {
		g.emitNode(d)
	}
	for _, d := range n.OrderOnlys {
		g.emitNode(d)
	}
}

func (g *generator) emitBuild(n *dep.Node, ruleName string) {
	fmt.Fprintf(g.w, "build %s: %s", escapeBuildTarget(n.Output.String()), ruleName)
	for _, d := range n.Deps {
		fmt.Fprintf(g.w, " %s", escapeBuildTarget(d.Output.String()))
	}
	if len(n.OrderOnlys) > 0 {
		fmt.Fprintf(g.w, " ||")
		for _, d := range n.OrderOnlys {
			fmt.Fprintf(g.w, " %s", escapeBuildTarget(d.Output.String()))
		}
	}
	fmt.Fprintf(g.w, "\n")
}

func (g *generator) emitRegenRules() {
	if !g.cfg.GenRegenRule {
		return
	}

	fmt.Fprintf(g.w, "rule regen_ninja\n")
	fmt.Fprintf(g.w, " command = %s\n", g.cfg.OrigArgs)
	fmt.Fprintf(g.w, " generator = 1\n")
	fmt.Fprintf(g.w, " description = Regenerate ninja files due to dependency\n")
	fmt.Fprintf(g.w, "build %s: regen_ninja", g.cfg.NinjaFilename())
	for _, makefile := range util.OrderedSlice(g.cache.AllFilenames()) {
		fmt.Fprintf(g.w, " %s", makefile)
	}
	if g.usedEnvs.Len() > 0 {
		fmt.Fprintf(g.w, " %s", g.cfg.EnvlistFilename())
	}
	fmt.Fprintf(g.w, "\n\n")

	if g.usedEnvs.Len() == 0 {
		return
	}

	fmt.Fprintf(g.w, "build .always_build: phony\n")
	fmt.Fprintf(g.w, "rule regen_envlist\n")
	fmt.Fprintf(g.w, " command = rm -f $out.tmp")
	for _, e := range g.usedEnvs.Entries() {
		fmt.Fprintf(g.w, " && echo %s=$$%s >> $out.tmp", e.Key, e.Key)
	}
	if g.cfg.ErrorOnEnvChange {
		fmt.Fprintf(g.w, " && (diff $out.tmp $out || (echo Environment variable changes are detected && false))\n")
	} else {
		fmt.Fprintf(g.w, " && (diff $out.tmp $out || mv $out.tmp $out)\n")
	}
	fmt.Fprintf(g.w, " restat = 1\n")
	fmt.Fprintf(g.w, " generator = 1\n")
	fmt.Fprintf(g.w, " description = Check $out\n")
	fmt.Fprintf(g.w, "build %s: regen_envlist .always_build\n\n", g.cfg.EnvlistFilename())
}

func (g *generator) generateNinja(nodes []*dep.Node) error {
	f, err := os.Create(g.cfg.NinjaFilename())
	if err != nil {
		return fmt.Errorf("failed to create '%s': %w", g.cfg.NinjaFilename(), err)
	}
	defer f.Close()
	g.w = bufio.NewWriter(f)

	fmt.Fprintf(g.w, "# Generated by mkninja %s\n", util.MkninjaVersion)
	fmt.Fprintf(g.w, "\n")

	if g.usedEnvs.Len() > 0 {
		fmt.Fprintf(g.w, "# Environment variables used:\n")
		for _, e := range g.usedEnvs.Entries() {
			fmt.Fprintf(g.w, "# %s=%s\n", e.Key, e.Value)
		}
		fmt.Fprintf(g.w, "\n")
	}

	if g.cfg.GomaDir != "" {
		fmt.Fprintf(g.w, "pool local_pool\n")
		fmt.Fprintf(g.w, " depth = %d\n\n", g.cfg.NumJobs)
	}

	g.emitRegenRules()

	for _, n := range nodes {
		g.emitNode(n)
	}

	fmt.Fprintf(g.w, "\n# shortcuts:\n")
	for _, e := range g.shortNames.Entries() {
		if e.Value != "" && !g.done[sym.Intern(e.Key)] {
			fmt.Fprintf(g.w, "build %s: phony %s\n", e.Key, e.Value)
		}
	}

	if !g.cfg.BuildAll {
		fmt.Fprintf(g.w, "\ndefault %s\n", nodes[0].Output.String())
	}

	if err := g.w.Flush(); err != nil {
		return fmt.Errorf("failed to write '%s': %w", g.cfg.NinjaFilename(), err)
	}
	return nil
}

func (g *generator) generateShell() error {
	name := g.cfg.ShellFilename()
	f, err := os.Create(name)
	if err != nil {
		return fmt.Errorf("failed to create '%s': %w", name, err)
	}
	defer f.Close()
	w := bufio.NewWriter(f)

	shell := g.shell
	if shell == "" {
		shell = "/bin/sh"
	}
	fmt.Fprintf(w, "#!%s\n", shell)
	fmt.Fprintf(w, "# Generated by mkninja %s\n", util.MkninjaVersion)
	fmt.Fprintf(w, "\n")
	if g.cfg.ninjaDir() == "." {
		fmt.Fprintf(w, "cd $(dirname \"$0\")\n")
	}
	if g.cfg.NinjaSuffix != "" {
		fmt.Fprintf(w, "if [ -f %s ]; then\n export $(cat %s)\nfi\n",
			g.cfg.EnvlistFilename(), g.cfg.EnvlistFilename())
		fmt.Fprintf(w, "if [ -f %s ]; then\n export $(cat %s)\nfi\n",
			g.cfg.LunchFilename(), g.cfg.LunchFilename())
	}

	for _, e := range g.ev.Exports() {
		if e.Export {
			fmt.Fprintf(w, "export %s=%s\n", e.Name.String(), g.ev.EvalVar(e.Name))
		} else {
			fmt.Fprintf(w, "unset %s\n", e.Name.String())
		}
	}

	fmt.Fprintf(w, "exec ninja -f %s ", g.cfg.NinjaFilename())
	if g.cfg.GomaDir != "" {
		fmt.Fprintf(w, "-j500 ")
	}
	fmt.Fprintf(w, "\"$@\"\n")

	if err := w.Flush(); err != nil {
		return fmt.Errorf("failed to write '%s': %w", name, err)
	}
	if err := os.Chmod(name, util.ScriptFileMode); err != nil {
		return fmt.Errorf("failed to make '%s' executable: %w", name, err)
	}
	return nil
}

func (g *generator) generateEnvlist() error {
	if g.usedEnvs.Len() == 0 {
		return nil
	}
	name := g.cfg.EnvlistFilename()
	f, err := os.Create(name)
	if err != nil {
		return fmt.Errorf("failed to create '%s': %w", name, err)
	}
	defer f.Close()
	w := bufio.NewWriter(f)
	for _, e := range g.usedEnvs.Entries() {
		fmt.Fprintf(w, "%s=%s\n", e.Key, e.Value)
	}
	if err := w.Flush(); err != nil {
		return fmt.Errorf("failed to write '%s': %w", name, err)
	}
	return nil
}

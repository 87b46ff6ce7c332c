// Command yangmodel exposes the library's parse/resolve/validate/print
// surface through the session commands spec.md SS6 names: add, searchpath,
// print, data, config, filter, xpath, feature. The command loop itself
// (history, completion, readline editing) is the interactive shell spec.md
// SS1 calls out as an external collaborator referenced only through its
// interface; this file is the minimal core-invocation surface that shell
// would drive, not a reimplementation of it.
package main

import (
	"bufio"
	"fmt"
	"io/ioutil"
	"os"
	"strings"

	"github.com/golang/glog"
	"github.com/pborman/getopt"

	"github.com/yang-tools/yangmodel"
)

// session holds the state that persists across commands within one process
// lifetime: the loaded schema Context, the file/dir/excluded lists queued
// by "add"/"searchpath" but not yet loaded, and the most recently parsed
// data tree ("data"/"config"/"filter"), which "xpath" queries.
type session struct {
	ctx      *yangmodel.Context
	files    []string
	dirs     []string
	excluded []string
	data     yangmodel.DataNode
}

func main() {
	var dirs []string
	var excluded []string
	var yanglib2019 bool
	getopt.ListVarLong(&dirs, "path", 'd', "comma separated list of search directories", "DIR[,DIR...]")
	getopt.ListVarLong(&excluded, "excluded", 'x', "comma separated list of module-name prefixes to skip", "NAME[,NAME...]")
	getopt.BoolVarLong(&yanglib2019, "yang-library-2019", 0, "load the 2019-01-04 ietf-yang-library revision")
	getopt.Parse()

	s := &session{
		ctx:      yangmodel.NewContext(yangmodel.YANGTreeOption{YANGLibrary2019: yanglib2019}),
		dirs:     dirs,
		excluded: excluded,
	}

	args := getopt.Args()
	if len(args) > 0 {
		if err := s.exec(args); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		os.Exit(0)
	}

	scanner := bufio.NewScanner(os.Stdin)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if err := s.exec(strings.Fields(line)); err != nil {
			fmt.Fprintln(os.Stderr, err)
		}
	}
}

// exec dispatches one verb and its arguments against the session's state.
func (s *session) exec(args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("yangmodel: empty command")
	}
	verb, rest := args[0], args[1:]
	switch verb {
	case "add":
		return s.cmdAdd(rest)
	case "searchpath":
		return s.cmdSearchpath(rest)
	case "print":
		return s.cmdPrint(rest)
	case "data":
		return s.cmdData(rest, yangmodel.Strict)
	case "config":
		return s.cmdData(rest, yangmodel.Strict|yangmodel.Edit)
	case "filter":
		return s.cmdData(rest, yangmodel.Filter)
	case "xpath":
		return s.cmdXPath(rest)
	case "feature":
		return s.cmdFeature(rest)
	case "capabilities":
		return s.cmdCapabilities(rest)
	default:
		return fmt.Errorf("yangmodel: unknown command %q", verb)
	}
}

// cmdAdd queues a schema file and reloads the context: schema loading is
// always whole-context (spec.md SS3's Context invariants are checked across
// every loaded module at once), so a second "add" reruns LoadModule over
// the accumulated file list rather than incrementally patching the tree.
func (s *session) cmdAdd(args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: add <file>")
	}
	s.files = append(s.files, args[0])
	if err := s.ctx.LoadModule(s.files, s.dirs, s.excluded); err != nil {
		return err
	}
	glog.V(1).Infof("yangmodel: loaded %s", args[0])
	return nil
}

// cmdSearchpath appends a directory to the import/include search path used
// by the next "add".
func (s *session) cmdSearchpath(args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: searchpath <dir>")
	}
	s.dirs = append(s.dirs, args[0])
	return nil
}

// cmdPrint renders a loaded module as YIN.
func (s *session) cmdPrint(args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: print <module>")
	}
	if s.ctx.Modules == nil {
		return fmt.Errorf("yangmodel: no schema loaded")
	}
	m, ok := s.ctx.Modules.Modules[args[0]]
	if !ok {
		return fmt.Errorf("yangmodel: module %q not loaded", args[0])
	}
	out, err := yangmodel.PrintYIN(m)
	if err != nil {
		return err
	}
	os.Stdout.Write(out)
	return nil
}

// cmdData parses an XML data-tree file against the loaded schema under
// flags, validates the structural checkpoints, and prints the resulting
// tree so the caller can see exactly what was accepted.
func (s *session) cmdData(args []string, flags yangmodel.ParseFlag) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: <file>")
	}
	if s.ctx.Root == nil {
		return fmt.Errorf("yangmodel: no schema loaded")
	}
	raw, err := ioutil.ReadFile(args[0])
	if err != nil {
		return err
	}
	root, err := yangmodel.NewDataNode(s.ctx.Root)
	if err != nil {
		return err
	}
	if err := yangmodel.UnmarshalXML(root, raw, flags); err != nil {
		return err
	}
	if !flags.Has(yangmodel.Filter) {
		if errs := yangmodel.Validate(root); len(errs) > 0 {
			return errs[0]
		}
	}
	s.data = root
	out, err := yangmodel.MarshalXMLIndent(root, "", "  ")
	if err != nil {
		return err
	}
	os.Stdout.Write(out)
	fmt.Println()
	return nil
}

// cmdXPath evaluates a path expression against the most recently parsed
// data tree and prints every matching node's path and value.
func (s *session) cmdXPath(args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: xpath <expr>")
	}
	if s.data == nil {
		return fmt.Errorf("yangmodel: no data tree loaded")
	}
	nodes, err := yangmodel.Find(s.data, args[0])
	if err != nil {
		return err
	}
	for _, n := range nodes {
		fmt.Printf("%s = %s\n", n.Path(), n.ValueString())
	}
	return nil
}

// cmdCapabilities prints one NETCONF-style capability URI per loaded
// module, in the format a <hello> capabilities list or RFC 7895 yang-library
// entry advertises: {namespace}?module={name}&revision={revision}, with any
// declared features appended.
func (s *session) cmdCapabilities(args []string) error {
	if s.ctx.Modules == nil {
		return fmt.Errorf("yangmodel: no schema loaded")
	}
	for name, m := range s.ctx.Modules.Modules {
		if name != m.Name {
			continue // the same module is also keyed by name@revision
		}
		if m.BelongsTo != nil {
			continue // submodules don't advertise their own capability
		}
		namespace := ""
		if m.Namespace != nil {
			namespace = m.Namespace.Name
		}
		features := make([]string, 0, len(m.Feature))
		for _, f := range m.Feature {
			features = append(features, f.Name)
		}
		fmt.Println(yangmodel.Capability(namespace, name, m.Current(), features...))
	}
	return nil
}

// cmdFeature enables or disables module:name for subsequent schema
// resolution and data validation.
func (s *session) cmdFeature(args []string) error {
	if len(args) != 3 {
		return fmt.Errorf("usage: feature <module> [-e|-d] <name>")
	}
	module, toggle, name := args[0], args[1], args[2]
	switch toggle {
	case "-e":
		s.ctx.EnableFeature(module, name, true)
	case "-d":
		s.ctx.EnableFeature(module, name, false)
	default:
		return fmt.Errorf("usage: feature <module> [-e|-d] <name>")
	}
	return nil
}

package yangmodel

import (
	"fmt"
	"strings"

	"github.com/golang/glog"
	"github.com/openconfig/goyang/pkg/yang"
)

// MissingModuleFunc is the type of the Context's MissingModule callback,
// which returns the raw YANG (or YIN) source text for name, or an error if
// it cannot be located. LoadModule does not call it, and nothing stores
// fetched source in the Context's SourceCache.
type MissingModuleFunc func(name, revision string) ([]byte, error)

// Context owns one resolved schema tree: the set of loaded modules, the
// feature-enablement state that governs if-feature evaluation, the
// identity index used by identityref resolution, and a raw-source cache
// (Cache). A Context is the unit of schema
// loading; data trees are always built against exactly one Context.
type Context struct {
	Root    *SchemaNode
	Modules *yang.Modules
	Option  YANGTreeOption

	SearchPaths []string
	Excluded    []string

	// Features maps "module-name" -> "feature-name" -> enabled. A feature
	// absent from the inner map is enabled by default, matching YANG's
	// "if-feature" semantics where a feature with no disable request is
	// considered supported.
	Features map[string]map[string]bool

	// Identities indexes every loaded identity by "module-name:identity-name"
	// for fast identityref base-chain resolution during validation.
	Identities map[string]*yang.Identity

	Cache        *SourceCache
	MissingModule MissingModuleFunc

	// parsing is not read or written by the loader. Circular imports, which
	// goyang's own include() guard silently tolerates (it only prevents
	// infinite recursion, it does not treat a cycle as an error), are
	// detected by detectCircularImports over the loaded module graph.
	parsing []string
}

// NewContext returns an empty Context ready for LoadModule.
func NewContext(option YANGTreeOption) *Context {
	return &Context{
		Option:     option,
		Features:   make(map[string]map[string]bool),
		Identities: make(map[string]*yang.Identity),
		Cache:      NewSourceCache(),
	}
}

// EnableFeature marks module:feature as enabled or disabled for every
// subsequent if-feature evaluation in this Context. It does not re-run the
// resolver; call ResolveFixedPoint again if IFFEAT-gated nodes must be
// recomputed.
func (c *Context) EnableFeature(module, feature string, enabled bool) {
	m, ok := c.Features[module]
	if !ok {
		m = make(map[string]bool)
		c.Features[module] = m
	}
	m[feature] = enabled
}

// FeatureEnabled reports whether module:feature is currently enabled.
// Absence from the map means enabled (YANG's default).
func (c *Context) FeatureEnabled(module, feature string) bool {
	if m, ok := c.Features[module]; ok {
		if v, ok := m[feature]; ok {
			return v
		}
	}
	return true
}

// LoadModule loads the named files (and anything they import/include,
// searched under dir, skipping any module whose name has a prefix in
// excluded) into a fresh schema tree, detects circular imports before
// goyang's own (cycle-tolerant) include() resolution runs, and then drives
// the fixed-point resolver over the result.
func (c *Context) LoadModule(file, dir, excluded []string, option ...Option) error {
	c.SearchPaths = append(c.SearchPaths, dir...)
	c.Excluded = append(c.Excluded, excluded...)

	root, err := Load(file, dir, excluded, option...)
	if err != nil {
		return err
	}
	c.Root = root
	c.Modules = root.Modules
	c.indexIdentities()

	glog.V(1).Infof("yangmodel: loaded %d module(s), starting fixed-point resolution", len(root.Modules.Modules))
	if err := ResolveFixedPoint(c); err != nil {
		glog.Errorf("yangmodel: resolution failed: %v", err)
		return err
	}
	return nil
}

func (c *Context) indexIdentities() {
	for name, m := range c.Modules.Modules {
		if strings.Contains(name, "@") {
			continue
		}
		for _, id := range m.Identity {
			key := m.Name + ":" + id.Name
			c.Identities[key] = id
		}
	}
}

// detectCircularImports walks the Import graph of every loaded module
// looking for a cycle. goyang's internal include() resolution guards only
// against infinite recursion (it marks a module visited and returns nil
// the second time around); it does not report the cycle as an error, so
// this is new work layered on top of it.
func detectCircularImports(ms *yang.Modules) error {
	const (
		white = 0
		gray  = 1
		black = 2
	)
	color := make(map[string]int)
	var stack []string

	var visit func(name string) error
	visit = func(name string) error {
		switch color[name] {
		case black:
			return nil
		case gray:
			stack = append(stack, name)
			return NewDiagnostic(KindCircular, ETagOperationFailed, "",
				"circular import detected: %s", strings.Join(stack, " -> "))
		}
		m, ok := ms.Modules[name]
		if !ok {
			return nil
		}
		color[name] = gray
		stack = append(stack, name)
		for _, imp := range m.Import {
			if err := visit(imp.Name); err != nil {
				return err
			}
		}
		stack = stack[:len(stack)-1]
		color[name] = black
		return nil
	}

	for name := range ms.Modules {
		if strings.Contains(name, "@") {
			continue
		}
		stack = stack[:0]
		if err := visit(name); err != nil {
			return err
		}
	}
	return nil
}

// FindIdentity returns the identity registered under "module:name", or nil.
func (c *Context) FindIdentity(module, name string) *yang.Identity {
	return c.Identities[module+":"+name]
}

// String implements fmt.Stringer for debug output.
func (c *Context) String() string {
	if c.Root == nil {
		return "Context{<unloaded>}"
	}
	return fmt.Sprintf("Context{modules=%d}", len(c.Modules.Modules))
}

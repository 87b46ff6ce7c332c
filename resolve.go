package yangmodel

import (
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"github.com/golang/glog"
	"github.com/openconfig/goyang/pkg/yang"
	"github.com/openconfig/ygot/util"
)

// ResolveKind names one category of deferred schema work. Most kinds
// confirm work goyang already performed while building the *yang.Entry
// tree (type derivation, identity base chains, uses/augment splicing);
// LEAFREF, LIST_KEYS, LIST_UNIQUE and IFFEAT are genuinely new work this
// resolver does that goyang does not.
type ResolveKind int

const (
	ResolveType ResolveKind = iota
	ResolveIdentity
	ResolveLeafref
	ResolveUses
	ResolveAugment
	ResolveIfFeature
	ResolveListKeys
	ResolveListUnique
	ResolveTypedefDefault
)

func (k ResolveKind) String() string {
	switch k {
	case ResolveType:
		return "TYPE"
	case ResolveIdentity:
		return "IDENTITY"
	case ResolveLeafref:
		return "LEAFREF"
	case ResolveUses:
		return "USES"
	case ResolveAugment:
		return "AUGMENT"
	case ResolveIfFeature:
		return "IFFEAT"
	case ResolveListKeys:
		return "LIST_KEYS"
	case ResolveListUnique:
		return "LIST_UNIQUE"
	case ResolveTypedefDefault:
		return "TYPEDEF_DFLT"
	default:
		return "UNKNOWN"
	}
}

// unresolved is one append-only queue record: the kind of work, the schema
// node that owns it, an opaque per-kind payload, and the source line if
// known (0 otherwise).
type unresolved struct {
	kind    ResolveKind
	owner   *SchemaNode
	payload interface{}
	line    int
	failed  bool
	err     error
}

// UnresolvedQueue is an append-only worklist drained in repeated passes
// until it is empty (success), a pass makes no progress (failure: every
// remaining entry becomes a diagnostic), or any single entry is marked
// failed (fatal: stop immediately).
type UnresolvedQueue struct {
	entries []*unresolved
}

func (q *UnresolvedQueue) push(e *unresolved) { q.entries = append(q.entries, e) }

// Len reports the number of entries still outstanding.
func (q *UnresolvedQueue) Len() int { return len(q.entries) }

// ResolveFixedPoint builds the initial unresolved queue from c.Root and
// drains it to a fixed point, per spec: repeated passes until the queue
// empties, a pass makes zero progress (every surviving entry becomes a
// diagnostic, returned as MultipleError), or a single entry is marked
// fatally failed (returned immediately, previously-resolved work is not
// undone but no further passes run).
func ResolveFixedPoint(c *Context) error {
	q := &UnresolvedQueue{}
	collectUnresolved(c.Root, q)

	pass := 0
	for len(q.entries) > 0 {
		pass++
		remaining := q.entries[:0]
		progress := false
		for _, e := range q.entries {
			ok, err := resolveOne(c, e)
			switch {
			case err != nil:
				e.failed = true
				e.err = err
				return NewDiagnostic(KindSpec, ETagOperationFailed, e.owner.Path(),
					"%s resolution failed fatally: %v", e.kind, err)
			case ok:
				progress = true
			default:
				remaining = append(remaining, e)
			}
		}
		q.entries = remaining
		glog.V(2).Infof("yangmodel: resolver pass %d: %d entries remaining", pass, len(q.entries))
		if !progress {
			break
		}
	}
	if len(q.entries) > 0 {
		errs := make(MultipleError, 0, len(q.entries))
		for _, e := range q.entries {
			errs = append(errs, fmt.Errorf("%s: unresolved %s reference at %s", e.owner.Path(), e.kind, e.owner.Path()))
		}
		return errs
	}
	return nil
}

// collectUnresolved walks the schema tree collecting the entries that need
// fixed-point resolution: leafref targets, list key/unique leaf pointers,
// if-feature gates, and typedef/leaf defaults that must still be checked
// against their (possibly union) type. TYPE/IDENTITY entries are pushed for
// every typed node so the restriction-legality and identity-cycle checks
// below actually run; USES/AUGMENT entries are pushed once per module-level
// uses/augment statement (nested uses/augment inside a grouping or another
// augment are covered transitively, since their target schema nodes carry
// their own TYPE/LIST_KEYS/etc. entries once spliced).
func collectUnresolved(schema *SchemaNode, q *UnresolvedQueue) {
	if schema == nil {
		return
	}
	if schema.Parent != nil {
		if schema.Type != nil {
			q.push(&unresolved{kind: ResolveType, owner: schema})
		}
		if schema.Type != nil && schema.Type.Kind == yang.Yidentityref {
			q.push(&unresolved{kind: ResolveIdentity, owner: schema})
		}
		if schema.Type != nil && schema.Type.Kind == yang.Yleafref {
			q.push(&unresolved{kind: ResolveLeafref, owner: schema, payload: schema.Type.Path})
		}
		if schema.Type != nil && !schema.IsDir() && schema.Default != "" {
			q.push(&unresolved{kind: ResolveTypedefDefault, owner: schema, payload: schema.Default})
		}
		if ifs := ifFeatures(schema.Entry.Node); len(ifs) > 0 {
			q.push(&unresolved{kind: ResolveIfFeature, owner: schema, payload: ifs})
		}
		if schema.IsList() && schema.Key != "" {
			q.push(&unresolved{kind: ResolveListKeys, owner: schema, payload: schema.Keyname})
		}
		if schema.ListAttr != nil {
			if uniq := uniqueStatements(schema.Entry.Node); len(uniq) > 0 {
				q.push(&unresolved{kind: ResolveListUnique, owner: schema, payload: uniq})
			}
		}
	}
	if schema.IsRoot && schema.Modules != nil {
		for modname, m := range schema.Modules.Modules {
			if strings.Contains(modname, "@") {
				continue
			}
			for _, u := range m.Uses {
				q.push(&unresolved{kind: ResolveUses, owner: schema, payload: u})
			}
			for _, a := range m.Augment {
				q.push(&unresolved{kind: ResolveAugment, owner: schema, payload: a})
			}
		}
	}
	for _, child := range schema.Children {
		collectUnresolved(child, q)
	}
}

// ifFeatures extracts the if-feature argument strings of a yang.Node via
// reflection, since the If-Feature field exists on every statement-level
// node type but not on a common interface.
func ifFeatures(n yang.Node) []string {
	if n == nil {
		return nil
	}
	v := reflect.ValueOf(n)
	if v.Kind() == reflect.Ptr {
		v = v.Elem()
	}
	if v.Kind() != reflect.Struct {
		return nil
	}
	f := v.FieldByName("IfFeature")
	if !f.IsValid() || f.Kind() != reflect.Slice {
		return nil
	}
	out := make([]string, 0, f.Len())
	for i := 0; i < f.Len(); i++ {
		item := f.Index(i).Interface()
		if val, ok := item.(*yang.Value); ok && val != nil {
			out = append(out, val.Name)
		}
	}
	return out
}

// uniqueStatements extracts "unique" leaf-path-set arguments of a list
// node via reflection, mirroring ifFeatures.
func uniqueStatements(n yang.Node) []string {
	if n == nil {
		return nil
	}
	v := reflect.ValueOf(n)
	if v.Kind() == reflect.Ptr {
		v = v.Elem()
	}
	if v.Kind() != reflect.Struct {
		return nil
	}
	f := v.FieldByName("Unique")
	if !f.IsValid() || f.Kind() != reflect.Slice {
		return nil
	}
	out := make([]string, 0, f.Len())
	for i := 0; i < f.Len(); i++ {
		item := f.Index(i).Interface()
		if val, ok := item.(*yang.Value); ok && val != nil {
			out = append(out, val.Name)
		}
	}
	return out
}

// resolveOne attempts to resolve a single queue entry. It returns
// (true, nil) on success, (false, nil) if the entry should be retried on a
// later pass, and (false, err) if the entry is fatally broken.
func resolveOne(c *Context, e *unresolved) (bool, error) {
	switch e.kind {
	case ResolveType:
		// goyang has already derived/flattened the restriction chain by
		// the time an Entry tree exists, but it never checks that the
		// restrictions it flattened are legal for the resolved base, or
		// that successive range/length restrictions actually narrow
		// (rather than widen) the ones they restrict; that is this
		// entry's job.
		if e.owner.Type == nil {
			return true, nil
		}
		if err := validateTypeRestrictions(e.owner, e.owner.Type); err != nil {
			return false, err
		}
		return true, nil

	case ResolveIdentity:
		typ := e.owner.Type
		if typ == nil || typ.IdentityBase == nil {
			return true, nil
		}
		if chain, cyclic := identityBaseCycle(c, typ.IdentityBase); cyclic {
			return false, fmt.Errorf("identity %q has a circular base chain: %s",
				typ.IdentityBase.Name, strings.Join(chain, " -> "))
		}
		return true, nil

	case ResolveLeafref:
		path, _ := e.payload.(string)
		if path == "" {
			return true, nil
		}
		target := resolveLeafrefTarget(e.owner, path)
		if target == nil {
			// the whole schema tree is already fully built by the time
			// ResolveFixedPoint runs (Load finishes before LoadModule
			// calls it), so a miss here will never change on a later
			// pass: it is a genuine failure, not a deferred one.
			return false, NewDiagnostic(KindLeafrefTarget, ETagDataMissing, e.owner.Path(),
				"leafref path %q does not resolve to any schema node", path)
		}
		if !target.IsLeaf() && !target.IsLeafList() {
			return false, NewDiagnostic(KindLeafrefTarget, ETagDataMissing, e.owner.Path(),
				"leafref path %q resolves to %q, which is not a leaf or leaf-list", path, target.Name)
		}
		e.owner.LeafrefTarget = target
		return true, nil

	case ResolveUses:
		u, _ := e.payload.(*yang.Uses)
		if u == nil {
			return true, nil
		}
		mod := yang.RootNode(u)
		if mod == nil {
			return true, nil
		}
		if findGrouping(u, mod) == nil {
			return false, fmt.Errorf("uses %q: grouping not found in or below module %q", u.Name, mod.Name)
		}
		return true, nil

	case ResolveAugment:
		a, _ := e.payload.(*yang.Augment)
		if a == nil {
			return true, nil
		}
		if e.owner.FindSchema(a.Name) == nil {
			return false, fmt.Errorf("augment %q: target schema node not found", a.Name)
		}
		return true, nil

	case ResolveIfFeature:
		names, _ := e.payload.([]string)
		e.owner.Disabled = false
		for _, spec := range names {
			if !evalIfFeatureExpr(c, e.owner.Module.Name, spec) {
				// not an error: the node simply stays disabled. Mark
				// resolved so the queue does not spin forever.
				e.owner.Disabled = true
				break
			}
		}
		return true, nil

	case ResolveListKeys:
		names, _ := e.payload.([]string)
		seen := make(map[string]bool, len(names))
		for _, n := range names {
			if seen[n] {
				return false, fmt.Errorf("list %q declares duplicate key %q", e.owner.Name, n)
			}
			seen[n] = true
			key := e.owner.Directory[n]
			if key == nil {
				return false, fmt.Errorf("list %q has no key leaf %q", e.owner.Name, n)
			}
			if key.IsLeafList() {
				return false, fmt.Errorf("list %q key %q must not be a leaf-list", e.owner.Name, n)
			}
			if key.IsState != e.owner.IsState {
				return false, fmt.Errorf("list %q key %q config does not match the list's config", e.owner.Name, n)
			}
			if key.Default != "" {
				// RFC 7950 SS7.8.2: a key leaf must not carry a "default"
				// statement, since it is implicitly mandatory.
				return false, fmt.Errorf("list %q key %q must not have a default (key leaves are mandatory)", e.owner.Name, n)
			}
		}
		return true, nil

	case ResolveListUnique:
		paths, _ := e.payload.([]string)
		for _, p := range paths {
			for _, step := range strings.Fields(p) {
				if e.owner.FindSchema(step) == nil {
					return false, nil
				}
			}
		}
		return true, nil

	case ResolveTypedefDefault:
		def, _ := e.payload.(string)
		if def == "" || e.owner.Type == nil {
			return true, nil
		}
		if _, err := ValueStringToValue(e.owner, e.owner.Type, def); err != nil {
			return false, fmt.Errorf("default value %q is not valid for type %q: %v", def, e.owner.Type.Name, err)
		}
		return true, nil
	}
	return true, nil
}

// validateTypeRestrictions checks that the restrictions goyang flattened
// onto typ are themselves legal: range/length bounds ordered and
// non-overlapping, and every pattern compilable. goyang derives the
// flattened Range/Length/Pattern slices but never validates them; this is
// the check the review calls out as missing. Union members are checked
// recursively, one level at a time, since each member carries its own
// independent restriction set.
func validateTypeRestrictions(schema *SchemaNode, typ *yang.YangType) error {
	if typ == nil {
		return nil
	}
	if len(typ.Range) > 0 {
		if err := typ.Range.Validate(); err != nil {
			return fmt.Errorf("%s: type %q has an invalid range restriction: %v", schema.Path(), typ.Name, err)
		}
	}
	if len(typ.Length) > 0 {
		if err := typ.Length.Validate(); err != nil {
			return fmt.Errorf("%s: type %q has an invalid length restriction: %v", schema.Path(), typ.Name, err)
		}
	}
	if len(typ.Pattern) > 0 {
		patterns, isPOSIX := util.SanitizedPattern(typ)
		for _, p := range patterns {
			var err error
			if isPOSIX {
				_, err = regexp.CompilePOSIX(p)
			} else {
				_, err = regexp.Compile(p)
			}
			if err != nil {
				return fmt.Errorf("%s: type %q has an uncompilable pattern %q: %v", schema.Path(), typ.Name, p, err)
			}
		}
	}
	for _, member := range typ.Type {
		if err := validateTypeRestrictions(schema, member); err != nil {
			return err
		}
	}
	return nil
}

// resolveLeafrefTarget resolves a leafref "path" argument relative to
// schema, handling both absolute ("/a/b") and relative ("../a/b") forms.
func resolveLeafrefTarget(schema *SchemaNode, path string) *SchemaNode {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil
	}
	return schema.FindSchema(path)
}

// findGrouping resolves a uses statement's grouping argument to the
// *yang.Grouping it names, searching mod's own groupings (and, for a
// prefixed name, the module the prefix refers to).
func findGrouping(u *yang.Uses, mod *yang.Module) *yang.Grouping {
	name, gmod := getNameAndModule(u, mod)
	if gmod == nil {
		gmod = mod
	}
	for _, g := range gmod.Grouping {
		if g.Name == name {
			return g
		}
	}
	return nil
}

// resolveIdentityBaseRef follows one "base" hop of an identity statement,
// resolving the (possibly prefixed) base name to the *yang.Identity it
// names, or nil if it cannot be resolved (in which case there is nothing
// further to walk).
func resolveIdentityBaseRef(c *Context, id *yang.Identity) *yang.Identity {
	if id == nil || id.Base == nil {
		return nil
	}
	mod := yang.RootNode(id)
	if mod == nil {
		return nil
	}
	prefix, name := SplitQName(&id.Base.Name)
	baseMod := mod
	if prefix != "" {
		baseMod = yang.FindModuleByPrefix(mod, prefix)
		if baseMod == nil {
			return nil
		}
	}
	return c.Identities[baseMod.Name+":"+name]
}

// identityBaseCycle walks start's base chain looking for a repeated
// identity, which covers both direct self-reference ("identity a { base
// a; }") and longer cycles ("identity a { base b; } identity b { base
// a; }") that goyang's own identity linking never rejects (it only guards
// against infinite recursion while building Values, it does not treat a
// cycle as an error). On a cycle it returns the chain of identity names
// walked, ending with the repeated one, and true.
func identityBaseCycle(c *Context, start *yang.Identity) ([]string, bool) {
	seen := make(map[*yang.Identity]bool)
	var chain []string
	cur := start
	for cur != nil {
		chain = append(chain, cur.Name)
		if seen[cur] {
			return chain, true
		}
		seen[cur] = true
		cur = resolveIdentityBaseRef(c, cur)
	}
	return chain, false
}

// evalIfFeatureExpr evaluates a (possibly "and"/"or"/"not"-combined)
// if-feature expression against the Context's feature-enablement map.
func evalIfFeatureExpr(c *Context, module, expr string) bool {
	expr = strings.TrimSpace(expr)
	if expr == "" {
		return true
	}
	if strings.HasPrefix(expr, "not ") {
		return !evalIfFeatureExpr(c, module, expr[4:])
	}
	if i := strings.Index(expr, " and "); i >= 0 {
		return evalIfFeatureExpr(c, module, expr[:i]) && evalIfFeatureExpr(c, module, expr[i+5:])
	}
	if i := strings.Index(expr, " or "); i >= 0 {
		return evalIfFeatureExpr(c, module, expr[:i]) || evalIfFeatureExpr(c, module, expr[i+4:])
	}
	name := expr
	mod := module
	if i := strings.Index(expr, ":"); i >= 0 {
		mod = expr[:i]
		name = expr[i+1:]
	}
	return c.FeatureEnabled(mod, name)
}

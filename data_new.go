package yangmodel

import (
	"fmt"

	"github.com/openconfig/goyang/pkg/yang"
)

// NewDataNode allocates a data node for schema, setting a leaf/leaf-list
// value from the optional value argument(s) and, for a container/list node,
// populating any leaf/leaf-list child (config or state) that carries a YANG default when the
// context's CreatedWithDefault option is set.
func NewDataNode(schema *SchemaNode, value ...string) (DataNode, error) {
	if schema == nil {
		return nil, fmt.Errorf("yangmodel: nil schema")
	}
	if schema.IsDir() {
		if len(value) > 0 {
			return nil, fmt.Errorf("yangmodel: %q is a branch node, it cannot carry a scalar value", schema.Name)
		}
		branch := &DataBranch{schema: schema}
		if IsCreatedWithDefault(schema) {
			for _, child := range schema.Children {
				if child.IsDir() || child.Default == "" {
					continue
				}
				c, err := NewDataNode(child, child.Default)
				if err != nil {
					return nil, err
				}
				if err := branch.insert(c, EditMerge, nil); err != nil {
					return nil, err
				}
			}
		}
		return branch, nil
	}
	leaf := &DataLeaf{schema: schema}
	switch len(value) {
	case 0:
		if schema.Default != "" {
			if err := leaf.Set(schema.Default); err != nil {
				return nil, err
			}
		}
	case 1:
		if err := leaf.Set(value[0]); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("yangmodel: %q accepts at most one value", schema.Name)
	}
	return leaf, nil
}

// GetPresentParentSchema returns the nearest ancestor schema node that
// corresponds to an actual data node, walking up through any intervening
// choice/case schema nodes (which are never materialized in the data tree).
func GetPresentParentSchema(schema *SchemaNode) *SchemaNode {
	p := schema.Parent
	for p != nil && (p.Kind == yang.ChoiceEntry || p.Kind == yang.CaseEntry) {
		p = p.Parent
	}
	return p
}

// Clone returns a deep, detached copy of src and its subtree.
func Clone(src DataNode) DataNode {
	if !IsValid(src) {
		return nil
	}
	n, _ := clone(nil, src)
	return n
}

func clone(parent *DataBranch, src DataNode) (DataNode, error) {
	switch s := src.(type) {
	case *DataBranch:
		branch := &DataBranch{schema: s.schema, parent: parent, id: s.id}
		for _, c := range s.children {
			cc, err := clone(branch, c)
			if err != nil {
				return nil, err
			}
			branch.children = append(branch.children, cc)
		}
		return branch, nil
	case *DataLeaf:
		return &DataLeaf{schema: s.schema, parent: parent, id: s.id, value: s.value}, nil
	}
	return nil, fmt.Errorf("yangmodel: cannot clone %T", src)
}

// replace discards dst's own content and takes on src's, in place: dst keeps
// its identity (parent, siblings) but its schema-defined content becomes a
// copy of src's.
func replace(dst, src DataNode) error {
	if dst.Schema() != src.Schema() {
		return fmt.Errorf("yangmodel: cannot replace %q with %q: schema mismatch", dst, src)
	}
	switch d := dst.(type) {
	case *DataBranch:
		s, ok := src.(*DataBranch)
		if !ok {
			return fmt.Errorf("yangmodel: cannot replace branch %q with %T", dst, src)
		}
		children := make([]DataNode, 0, len(s.children))
		for _, c := range s.children {
			cc, err := clone(d, c)
			if err != nil {
				return err
			}
			children = append(children, cc)
		}
		d.children = children
		return nil
	case *DataLeaf:
		s, ok := src.(*DataLeaf)
		if !ok {
			return fmt.Errorf("yangmodel: cannot replace leaf %q with %T", dst, src)
		}
		d.value = s.value
		return nil
	}
	return fmt.Errorf("yangmodel: cannot replace %T", dst)
}

// merge absorbs src's content into dst: containers merge recursively,
// leaf-lists/duplicatable lists append missing instances, plain leaves and
// single-instance lists take src's value/children.
func merge(dst, src DataNode) error {
	if dst.Schema() != src.Schema() {
		return fmt.Errorf("yangmodel: cannot merge %q with %q: schema mismatch", dst, src)
	}
	switch d := dst.(type) {
	case *DataLeaf:
		s := src.(*DataLeaf)
		d.value = s.value
		return nil
	case *DataBranch:
		s := src.(*DataBranch)
		for _, sc := range s.children {
			id := sc.ID()
			if dc := d.Get(id); dc != nil && !IsDuplicatable(dc.Schema()) {
				if err := merge(dc, sc); err != nil {
					return err
				}
				continue
			}
			cc, err := clone(d, sc)
			if err != nil {
				return err
			}
			if err := d.insert(cc, EditMerge, nil); err != nil {
				return err
			}
		}
		return nil
	}
	return fmt.Errorf("yangmodel: cannot merge %T", dst)
}

// IsDuplicatable reports whether schema's data nodes may appear as more
// than one sibling instance sharing the same ID (a non-key list or a
// read-only leaf-list).
func IsDuplicatable(schema *SchemaNode) bool { return schema.IsDuplicatable() }

// IsOrderedByUser reports whether schema's sibling instances preserve
// insertion order rather than the library's sorted-by-ID order.
func IsOrderedByUser(schema *SchemaNode) bool { return schema.IsOrderedByUser() }

// IsAnyData reports whether schema is an anydata node.
func IsAnyData(schema *SchemaNode) bool { return schema.IsAnyData() }

// ValueToString converts a decoded Go value to its canonical string form.
func ValueToString(value interface{}) string { return ValueToValueString(value) }

// StringToValue converts a lexical value to its typed Go representation,
// validating it against typ's restrictions.
func StringToValue(schema *SchemaNode, typ *yang.YangType, value string) (interface{}, error) {
	return ValueStringToValue(schema, typ, value)
}

// findNode resolves a parsed path against root, matching the semantics of
// ParsePath's PathSelect kinds.
func findNode(root DataNode, pathnode []*PathNode, option ...Option) []DataNode {
	if !IsValid(root) || len(pathnode) == 0 {
		return nil
	}
	cur := []DataNode{root}
	for _, pn := range pathnode {
		var next []DataNode
		id := pn.Name
		for _, p := range pn.Predicates {
			id += "[" + p + "]"
		}
		switch pn.Select {
		case NodeSelectSelf:
			next = cur
		case NodeSelectParent:
			for _, n := range cur {
				if p := n.Parent(); p != nil {
					next = append(next, p)
				}
			}
		case NodeSelectFromRoot:
			for _, n := range cur {
				r := n
				for r.Parent() != nil {
					r = r.Parent()
				}
				if pn.Name == "" {
					next = append(next, r)
				} else {
					next = append(next, r.GetAll(id)...)
				}
			}
		case NodeSelectAll:
			for _, n := range cur {
				next = append(next, collectDescendants(n, pn.Name)...)
			}
		case NodeSelectAllChildren:
			for _, n := range cur {
				next = append(next, n.Children()...)
			}
		default:
			for _, n := range cur {
				next = append(next, n.GetAll(id)...)
			}
		}
		cur = next
		if len(cur) == 0 {
			return nil
		}
	}
	return cur
}

// collectDescendants returns every descendant of n (including n itself)
// whose Name matches name, or every descendant when name is "" or "...".
func collectDescendants(n DataNode, name string) []DataNode {
	var out []DataNode
	if name == "" || name == "..." || n.Name() == name {
		out = append(out, n)
	}
	for _, c := range n.Children() {
		out = append(out, collectDescendants(c, name)...)
	}
	return out
}

// Find resolves path against root and returns every matching data node.
func Find(root DataNode, path string, option ...Option) ([]DataNode, error) {
	pathnode, err := ParsePath(&path)
	if err != nil {
		return nil, err
	}
	return findNode(root, pathnode, option...), nil
}

// Equal reports whether node1 and node2 represent the same schema and
// value/children, recursively.
func Equal(node1, node2 DataNode) bool {
	if node1 == nil || node2 == nil {
		return node1 == node2
	}
	if node1.Schema() != node2.Schema() {
		return false
	}
	switch n1 := node1.(type) {
	case *DataLeaf:
		n2, ok := node2.(*DataLeaf)
		return ok && ValueToString(n1.value) == ValueToString(n2.value)
	case *DataBranch:
		n2, ok := node2.(*DataBranch)
		if !ok || len(n1.children) != len(n2.children) {
			return false
		}
		for i := range n1.children {
			if !Equal(n1.children[i], n2.children[i]) {
				return false
			}
		}
		return true
	}
	return false
}

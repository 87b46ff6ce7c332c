package yangmodel

import (
	"encoding/json"
	"fmt"

	"github.com/openconfig/goyang/pkg/yang"
)

// RFC7951Format requests RFC 7951 (JSON encoding of YANG data) style
// member names, qualified by module name, instead of the library's
// internal, always-qualified-by-prefix representation. Every member name
// is qualified; module boundaries are not consulted.
type RFC7951Format struct{}

// InternalFormat requests the library's internal representation, qualifying
// every member name by its owning module prefix regardless of boundary.
type InternalFormat struct{}

// Metadata names the option of encoding a node's metadata annotations (e.g.
// NETCONF operation attributes) alongside its value. No marshal function
// in this package consults it, and metadata is not encoded.
type Metadata struct{}

// RepresentItself requests that a single node be encoded on its own,
// without wrapping it in its parent's member name.
type RepresentItself struct{}

func (o RFC7951Format) IsOption()   {}
func (o InternalFormat) IsOption()  {}
func (o Metadata) IsOption()        {}
func (o RepresentItself) IsOption() {}

// nodeToGoValue converts a data node into a plain Go value tree
// (map[string]interface{}, []interface{}, or a scalar) suitable for
// encoding/json or gopkg.in/yaml.v2. configFilter restricts the output to
// config-only (yang.TSTrue) or state-only (yang.TSFalse) nodes; yang.TSUnset
// means no filtering.
func nodeToGoValue(node DataNode, rfc7951 bool, configFilter yang.TriState) (interface{}, error) {
	switch n := node.(type) {
	case *DataBranch:
		return branchToGoValue(n, rfc7951, configFilter)
	case *DataLeaf:
		return leafToGoValue(n, rfc7951)
	}
	return nil, fmt.Errorf("yangmodel: cannot encode %T to a JSON/YAML value", node)
}

func leafToGoValue(leaf *DataLeaf, rfc7951 bool) (interface{}, error) {
	return leaf.schema.ValueToQValue(leaf.schema.Type, leaf.value, rfc7951)
}

func includeSchema(schema *SchemaNode, configFilter yang.TriState) bool {
	switch configFilter {
	case yang.TSTrue:
		return !schema.IsState
	case yang.TSFalse:
		return schema.IsState || schema.HasState
	default:
		return true
	}
}

// branchToGoValue groups branch's children into contiguous same-schema runs
// (siblings always sort together by ID) and assembles each run into either a
// scalar, an object, or an array member of the returned map, keyed by the
// schema's module-name-qualified (rfc7951) or prefix-qualified name; the
// module boundary is not consulted.
func branchToGoValue(branch *DataBranch, rfc7951 bool, configFilter yang.TriState) (interface{}, error) {
	out := map[string]interface{}{}
	children := branch.children
	for i := 0; i < len(children); {
		cschema := children[i].Schema()
		j := i + 1
		for j < len(children) && children[j].Schema() == cschema {
			j++
		}
		run := children[i:j]
		i = j
		if !includeSchema(cschema, configFilter) {
			continue
		}
		name, _ := cschema.GetQName(rfc7951)
		if cschema.IsLeafList() || cschema.IsList() {
			arr := make([]interface{}, 0, len(run))
			for _, c := range run {
				v, err := nodeToGoValue(c, rfc7951, configFilter)
				if err != nil {
					return nil, err
				}
				arr = append(arr, v)
			}
			out[name] = arr
			continue
		}
		v, err := nodeToGoValue(run[0], rfc7951, configFilter)
		if err != nil {
			return nil, err
		}
		out[name] = v
	}
	return out, nil
}

// unmarshalJSONValue merges a generic JSON/YAML value (as produced by
// encoding/json or gopkg.in/yaml.v2, after normalizeYAML) into node, which
// must be a *DataBranch or *DataLeaf matching the value's shape.
func unmarshalJSONValue(node DataNode, jval interface{}) error {
	switch n := node.(type) {
	case *DataBranch:
		obj, ok := jval.(map[string]interface{})
		if !ok {
			return fmt.Errorf("yangmodel: %q expects a JSON object, got %T", n, jval)
		}
		for key, v := range obj {
			_, name := SplitQName(&key)
			cschema := n.schema.GetSchema(name)
			if cschema == nil {
				return fmt.Errorf("yangmodel: schema %q not found under %q", name, n.schema.Name)
			}
			if err := unmarshalJSONMember(n, cschema, v); err != nil {
				return err
			}
		}
		return nil
	case *DataLeaf:
		return n.Set(ValueToString(jval))
	}
	return fmt.Errorf("yangmodel: cannot decode into %T", node)
}

func unmarshalJSONMember(branch *DataBranch, cschema *SchemaNode, v interface{}) error {
	if cschema.IsLeafList() || cschema.IsList() {
		arr, ok := v.([]interface{})
		if !ok {
			return fmt.Errorf("yangmodel: %q expects a JSON array", cschema.Name)
		}
		for _, elem := range arr {
			child, err := NewDataNode(cschema)
			if err != nil {
				return err
			}
			if err := unmarshalJSONValue(child, elem); err != nil {
				return err
			}
			if err := branch.insert(child, EditMerge, nil); err != nil {
				return err
			}
		}
		return nil
	}
	if cschema.IsLeaf() {
		leaf, err := NewDataNode(cschema)
		if err != nil {
			return err
		}
		if err := leaf.(*DataLeaf).Set(ValueToString(v)); err != nil {
			return err
		}
		return branch.insert(leaf, EditMerge, nil)
	}
	child, err := NewDataNode(cschema)
	if err != nil {
		return err
	}
	if err := unmarshalJSONValue(child, v); err != nil {
		return err
	}
	return branch.insert(child, EditMerge, nil)
}

// normalizeYAML recursively rewrites map[interface{}]interface{} (as
// gopkg.in/yaml.v2 decodes YAML mappings) into map[string]interface{}, so
// the same generic-value walker used for JSON can consume YAML-sourced data.
func normalizeYAML(v interface{}) interface{} {
	switch val := v.(type) {
	case map[interface{}]interface{}:
		out := make(map[string]interface{}, len(val))
		for k, v := range val {
			out[fmt.Sprintf("%v", k)] = normalizeYAML(v)
		}
		return out
	case map[string]interface{}:
		out := make(map[string]interface{}, len(val))
		for k, v := range val {
			out[k] = normalizeYAML(v)
		}
		return out
	case []interface{}:
		out := make([]interface{}, len(val))
		for i := range val {
			out[i] = normalizeYAML(val[i])
		}
		return out
	default:
		return v
	}
}

// MarshalJSON encodes node (and its subtree) as an RFC 7951 or internal JSON
// document, depending on whether option carries RFC7951Format.
func MarshalJSON(node DataNode, option ...Option) ([]byte, error) {
	rfc7951 := false
	configFilter := yang.TSUnset
	for _, o := range option {
		switch o.(type) {
		case RFC7951Format:
			rfc7951 = true
		case ConfigOnly:
			configFilter = yang.TSTrue
		case StateOnly:
			configFilter = yang.TSFalse
		}
	}
	v, err := nodeToGoValue(node, rfc7951, configFilter)
	if err != nil {
		return nil, err
	}
	return json.Marshal(v)
}

// UnmarshalJSON decodes a JSON document into node's subtree, merging it in.
func UnmarshalJSON(node DataNode, data []byte, option ...Option) error {
	var jval interface{}
	if err := json.Unmarshal(data, &jval); err != nil {
		return err
	}
	return unmarshalJSONValue(node, jval)
}

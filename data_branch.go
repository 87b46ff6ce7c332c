package yangmodel

import (
	"encoding/json"
	"encoding/xml"
	"fmt"
	"sort"
	"strings"

	"github.com/openconfig/goyang/pkg/yang"
	"gopkg.in/yaml.v2"
)

// The data node representation for container and list data nodes.
type DataBranch struct {
	schema   *SchemaNode
	parent   *DataBranch
	id       string
	children []DataNode
	metadata map[string]DataNode
}

func (branch *DataBranch) IsDataNode()              {}
func (branch *DataBranch) IsNil() bool              { return branch == nil }
func (branch *DataBranch) IsBranchNode() bool       { return true }
func (branch *DataBranch) IsLeafNode() bool         { return false }
func (branch *DataBranch) IsDuplicatableNode() bool { return branch.schema.IsDuplicatable() }
func (branch *DataBranch) IsListableNode() bool     { return branch.schema.IsListable() }
func (branch *DataBranch) IsStateNode() bool        { return branch.schema.IsState }
func (branch *DataBranch) HasStateNode() bool       { return branch.schema.HasState }
func (branch *DataBranch) HasMultipleValues() bool  { return false }
func (branch *DataBranch) IsLeaf() bool             { return false }
func (branch *DataBranch) IsLeafList() bool         { return false }
func (branch *DataBranch) IsList() bool             { return branch.schema.IsList() }
func (branch *DataBranch) IsContainer() bool        { return branch.schema.IsContainer() }
func (branch *DataBranch) Schema() *SchemaNode      { return branch.schema }
func (branch *DataBranch) Values() []interface{}    { return nil }
func (branch *DataBranch) QName(rfc7951 bool) (string, bool) {
	return branch.schema.GetQName(rfc7951)
}
func (branch *DataBranch) Parent() DataNode {
	if branch.parent == nil {
		return nil
	}
	return branch.parent
}
func (branch *DataBranch) Children() []DataNode { return branch.children }
func (branch *DataBranch) Value() interface{}   { return nil }

func (branch *DataBranch) ValueString() string {
	b, err := branch.MarshalJSON()
	if err != nil {
		return ""
	}
	return string(b)
}

func (branch *DataBranch) HasValue(value string) bool {
	return false
}

func (branch *DataBranch) Path() string {
	if branch == nil {
		return ""
	}
	if branch.parent != nil {
		return branch.parent.Path() + "/" + branch.ID()
	}
	if branch.schema.IsRoot {
		return ""
	}
	return "/" + branch.ID()
}

func (branch *DataBranch) PathTo(descendant DataNode) string {
	if descendant == nil || branch == descendant {
		return ""
	}
	p := []string{}
	for n := descendant; n != nil; n = n.Parent() {
		if n == branch {
			var buf strings.Builder
			for i := len(p) - 1; i >= 0; i-- {
				buf.WriteString(p[i])
				buf.WriteString("/")
			}
			return buf.String()
		}
		p = append(p, n.ID())
	}
	return ""
}

func (branch *DataBranch) String() string {
	if branch == nil {
		return ""
	}
	return branch.ID()
}

// copyDataNodeList clones the src nodes.
func copyDataNodeList(src []DataNode) []DataNode {
	if len(src) > 0 {
		result := make([]DataNode, len(src))
		copy(result, src)
		return result
	}
	return nil
}

// find() is used to find child data nodes using the id internally.
func (branch *DataBranch) find(cschema *SchemaNode, id *string, groupSearch, valueSearch bool, pmap map[string]interface{}) []DataNode {
	i := indexFirst(branch, id)
	if i >= len(branch.children) ||
		(i < len(branch.children) && cschema != branch.children[i].Schema()) {
		return nil
	}
	if pmap != nil {
		if index, ok := pmap["@index"]; ok {
			j := i + index.(int)
			if j < len(branch.children) && cschema == branch.children[j].Schema() {
				return branch.children[j : j+1]
			}
			return nil
		}
		if _, ok := pmap["@last"]; ok {
			last := i
			for ; i < len(branch.children); i++ {
				if cschema == branch.children[i].Schema() {
					last = i
				} else {
					break
				}
			}
			return branch.children[last : last+1]
		}
	}
	max := i
	var matched func() bool
	switch {
	case cschema.IsList() && cschema.Key == "":
		matched = func() bool {
			return true
		}
	case valueSearch:
		v, ok := pmap["."]
		if !ok {
			return nil
		}
		matched = func() bool {
			return branch.children[max].HasValue(v.(string))
		}
	case groupSearch:
		matched = func() bool {
			return strings.HasPrefix(branch.children[max].ID(), *id)
		}
	default:
		matched = func() bool {
			return branch.children[max].ID() == *id
		}
	}

	if cschema.IsOrderedByUser() || cschema.IsDuplicatable() {
		var node []DataNode
		for ; max < len(branch.children); max++ {
			if cschema != branch.children[max].Schema() {
				break
			}
			if matched() {
				node = append(node, branch.children[max])
			}
		}
		return node
	}

	for ; max < len(branch.children); max++ {
		if cschema != branch.children[max].Schema() {
			break
		}
		if !matched() {
			break
		}
	}
	return branch.children[i:max]
}

// GetOrNew() gets or creates a node having the id and returns the found or created node
// with the boolean value that indicates the returned node is created.
func (branch *DataBranch) GetOrNew(id string, iopt InsertOption) (DataNode, bool, error) {
	op := EditMerge
	pathnode, err := ParsePath(&id)
	if err != nil {
		return nil, false, err
	}
	if len(pathnode) == 0 || len(pathnode) > 1 {
		return nil, false, fmt.Errorf("invalid node id %q inserted", id)
	}
	pmap, err := pathnode[0].PredicatesToMap()
	if err != nil {
		return nil, false, err
	}
	cschema := branch.schema.GetSchema(pathnode[0].Name)
	if cschema == nil {
		return nil, false, fmt.Errorf("schema %q not found from %q", pathnode[0].Name, branch.schema.Name)
	}
	var children []DataNode
	id, groupSearch, valueSearch := cschema.GenerateID(pmap)
	children = branch.find(cschema, &id, groupSearch, valueSearch, pmap)
	if cschema.IsDuplicatableList() {
		switch iopt.(type) {
		case InsertToAfter, InsertToBefore:
			return nil, false, Errorf(ETagOperationNotSupported,
				"insert option (after, before) not supported for non-key list")
		}
		children = nil // clear found nodes
	}
	if len(children) > 0 {
		return children[0], false, nil
	}
	child, err := NewDataNode(cschema)
	if err != nil {
		return nil, false, err
	}
	if err = child.UpdateByMap(pmap); err != nil {
		return nil, false, err
	}
	if err = branch.insert(child, op, iopt); err != nil {
		return nil, false, err
	}
	return child, true, nil
}

func (branch *DataBranch) Create(id string, value ...string) (DataNode, error) {
	if len(value) > 1 {
		return nil, Errorf(ETagInvalidValue, "a single value can only be set at a time")
	}
	pathnode, err := ParsePath(&id)
	if err != nil {
		return nil, err
	}
	if len(pathnode) == 0 || len(pathnode) > 1 {
		return nil, fmt.Errorf("invalid id %q inserted", id)
	}
	cschema := branch.schema.GetSchema(pathnode[0].Name)
	if cschema == nil {
		return nil, fmt.Errorf("schema %q not found from %q", pathnode[0].Name, branch.schema.Name)
	}
	pmap, err := pathnode[0].PredicatesToMap()
	if err != nil {
		return nil, err
	}
	n, err := NewDataNode(cschema, value...)
	if err != nil {
		return nil, err
	}
	if err := n.UpdateByMap(pmap); err != nil {
		return nil, err
	}
	if err := branch.insert(n, EditCreate, nil); err != nil {
		return nil, err
	}
	return n, nil
}

func (branch *DataBranch) Update(id string, value ...string) (DataNode, error) {
	if len(value) > 1 {
		return nil, Errorf(ETagInvalidValue, "a single value can only be set at a time")
	}
	pathnode, err := ParsePath(&id)
	if err != nil {
		return nil, err
	}
	if len(pathnode) == 0 || len(pathnode) > 1 {
		return nil, fmt.Errorf("invalid id %q inserted", id)
	}
	cschema := branch.schema.GetSchema(pathnode[0].Name)
	if cschema == nil {
		return nil, fmt.Errorf("schema %q not found from %q", pathnode[0].Name, branch.schema.Name)
	}
	pmap, err := pathnode[0].PredicatesToMap()
	if err != nil {
		return nil, err
	}
	n, err := NewDataNode(cschema, value...)
	if err != nil {
		return nil, err
	}
	if err := n.UpdateByMap(pmap); err != nil {
		return nil, err
	}
	if err := branch.insert(n, EditMerge, nil); err != nil {
		return nil, err
	}
	return n, nil
}

func (branch *DataBranch) Set(value ...string) error {
	if IsCreatedWithDefault(branch.schema) {
		for _, s := range branch.schema.Children {
			if !s.IsDir() && s.Default != "" {
				if branch.Get(s.Name) != nil {
					continue
				}
				c, err := NewDataNode(s)
				if err != nil {
					return err
				}
				err = branch.insert(c, EditMerge, nil)
				if err != nil {
					return err
				}
			}
		}
	}
	for i := range value {
		if value[i] == "" {
			continue
		}
		err := branch.UnmarshalJSON([]byte(value[i]))
		if err != nil {
			return err
		}
	}
	return nil
}

func (branch *DataBranch) SetSafe(value ...string) error {
	var err error
	backup := Clone(branch)
	if IsCreatedWithDefault(branch.schema) {
		for _, s := range branch.schema.Children {
			if !s.IsDir() && s.Default != "" {
				if branch.Get(s.Name) != nil {
					continue
				}
				var c DataNode
				c, err = NewDataNode(s)
				if err != nil {
					break
				}
				err = branch.insert(c, EditMerge, nil)
				if err != nil {
					break
				}
			}
		}
	}
	if err == nil {
		for i := range value {
			if value[i] == "" {
				continue
			}
			err = branch.UnmarshalJSON([]byte(value[i]))
			if err != nil {
				break
			}
		}
	}
	if err != nil {
		if rerr := replace(branch, backup); rerr != nil {
			return fmt.Errorf("%v (and restore failed: %v)", err, rerr)
		}
		return err
	}
	return nil
}

func (branch *DataBranch) Unset(value ...string) error {
	return Errorf(ETagOperationNotSupported, "branch data node doesn't support unset")
}

func (branch *DataBranch) Remove() error {
	if branch.parent == nil {
		return nil
	}
	parent := branch.parent
	length := len(parent.children)
	id := branch.ID()
	i := sort.Search(length,
		func(j int) bool {
			return id <= parent.children[j].ID()
		})
	if i < length && branch == parent.children[i] {
		parent.children = append(parent.children[:i], parent.children[i+1:]...)
		resetParent(branch)
		return nil
	}
	for i := range parent.children {
		if parent.children[i] == branch {
			parent.children = append(parent.children[:i], parent.children[i+1:]...)
			resetParent(branch)
			return nil
		}
	}
	return nil
}

func (branch *DataBranch) Insert(child DataNode, iopt InsertOption) (DataNode, error) {
	if !IsValid(child) {
		return nil, fmt.Errorf("invalid child data node")
	}
	if err := branch.insert(child, EditMerge, iopt); err != nil {
		return nil, err
	}
	return child, nil
}

func (branch *DataBranch) Delete(child DataNode) error {
	if !IsValid(child) {
		return fmt.Errorf("invalid child node")
	}

	// if child.Parent() == nil {
	// 	return fmt.Errorf("'%s' is already removed from a branch", child)
	// }
	if child.Schema().IsKey && branch.parent != nil {
		// return fmt.Errorf("id node %q must not be deleted", child)
		return nil
	}

	id := child.ID()
	i := indexFirst(branch, &id)
	if i < len(branch.children) && id == branch.children[i].ID() {
		for ; i < len(branch.children); i++ {
			if branch.children[i] == child {
				branch.children = append(branch.children[:i], branch.children[i+1:]...)
				resetParent(child)
				return nil
			}
		}
	}
	return fmt.Errorf("%q not found on %q", child, branch)
}

// SetMeta() sets metadata key-value pairs (RFC 7952 annotations), each
// value resolved to its typed representation via the annotation's own
// registered schema (see Extension.MetadataSchema).
//   e.g. node.SetMeta(map[string]string{"operation": "replace", "last-modified": "2015-06-18T17:01:14+02:00"})
func (branch *DataBranch) SetMeta(meta ...map[string]string) error {
	for i := range meta {
		for name, value := range meta[i] {
			metaschema := branch.schema.MetadataSchema["@"+name]
			if metaschema == nil {
				// no registered annotation schema for this attribute;
				// ignore it rather than failing the whole parse.
				continue
			}
			metanode, err := NewDataNode(metaschema, value)
			if err != nil {
				return fmt.Errorf("error in setting metadata %q: %v", name, err)
			}
			if branch.metadata == nil {
				branch.metadata = map[string]DataNode{}
			}
			branch.metadata[name] = metanode
		}
	}
	return nil
}

func (branch *DataBranch) Exist(id string) bool {
	i := indexFirst(branch, &id)
	if i < len(branch.children) {
		return id == branch.children[i].ID()
	}
	return false
}

func (branch *DataBranch) Get(id string) DataNode {
	switch id {
	case ".":
		return branch
	case "..":
		return branch.parent
	case "*":
		if len(branch.children) > 0 {
			return branch.children[0]
		}
		return nil
	case "...":
		n := findNode(branch, []*PathNode{
			&PathNode{Name: "...", Select: NodeSelectAll}})
		if len(n) > 0 {
			return n[0]
		}
		return nil
	default:
		i := indexFirst(branch, &id)
		if i < len(branch.children) && id == branch.children[i].ID() {
			return branch.children[i]
		}
		return nil
	}
}

func (branch *DataBranch) GetAll(id string) []DataNode {
	switch id {
	case ".":
		return []DataNode{branch}
	case "..":
		return []DataNode{branch.parent}
	case "*":
		return branch.children
	case "...":
		return findNode(branch, []*PathNode{
			&PathNode{Name: "...", Select: NodeSelectAll}})
	default:
		i := indexFirst(branch, &id)
		node := make([]DataNode, 0, len(branch.children)-i+1)
		for max := i; max < len(branch.children); max++ {
			cid := branch.children[max].ID()
			if cid == id || strings.HasPrefix(cid, id+"[") {
				node = append(node, branch.children[max])
			} else if !strings.HasPrefix(cid, id) {
				break
			}
		}
		if len(node) == 0 {
			return nil
		}
		return node
	}
	return nil
}

func (branch *DataBranch) GetValue(id string) interface{} {
	switch id {
	case ".", "..", "*", "...":
		return nil
	default:
		i := indexFirst(branch, &id)
		if i < len(branch.children) && id == branch.children[i].ID() {
			return branch.children[i].Value()
		}
		return nil
	}
}

func (branch *DataBranch) GetValueString(id string) string {
	switch id {
	case ".", "..", "*", "...":
		return ""
	default:
		i := indexFirst(branch, &id)
		if i < len(branch.children) && id == branch.children[i].ID() {
			return branch.children[i].ValueString()
		}
		return ""
	}
}

func (branch *DataBranch) Lookup(prefix string) []DataNode {
	switch prefix {
	case ".":
		return []DataNode{branch}
	case "..":
		return []DataNode{branch.parent}
	case "*":
		return branch.children
	case "...":
		return findNode(branch, []*PathNode{
			&PathNode{Name: "...", Select: NodeSelectAll}})
	default:
		i := indexFirst(branch, &prefix)
		node := make([]DataNode, 0, len(branch.children)-i+1)
		for max := i; max < len(branch.children); max++ {
			if strings.HasPrefix(branch.children[max].ID(), prefix) {
				node = append(node, branch.children[max])
			}
		}
		if len(node) == 0 {
			return nil
		}
		return node
	}
}

func (branch *DataBranch) Child(index int) DataNode {
	if index >= 0 && index < len(branch.children) {
		return branch.children[index]
	}
	return nil
}

func (branch *DataBranch) Index(id string) int {
	return indexFirst(branch, &id)
}

func (branch *DataBranch) Len() int {
	return len(branch.children)
}

func (branch *DataBranch) Name() string {
	return branch.schema.Name
}

func (branch *DataBranch) ID() string {
	if branch.parent != nil {
		if branch.id == "" {
			return branch.schema.Name
		}
		return branch.id
	}
	switch {
	case branch.schema.IsListHasKey():
		var keybuffer strings.Builder
		keyname := branch.schema.Keyname
		keybuffer.WriteString(branch.schema.Name)
		for i := range keyname {
			j := indexFirst(branch, &keyname[i])
			if j < len(branch.children) && keyname[i] == branch.children[j].ID() {
				keybuffer.WriteString(`[`)
				keybuffer.WriteString(keyname[i])
				keybuffer.WriteString(`=`)
				keybuffer.WriteString(branch.children[j].ValueString())
				keybuffer.WriteString(`]`)
			} else {
				return keybuffer.String()
			}
		}
		return keybuffer.String()
	default:
		return branch.schema.Name
	}
}

// CreateByMap() updates the data node using pmap (path predicate map) and string values.
func (branch *DataBranch) CreateByMap(pmap map[string]interface{}) error {
	return branch.UpdateByMap(pmap)
}

// UpdateByMap() updates the data node using pmap (path predicate map) and string values.
func (branch *DataBranch) UpdateByMap(pmap map[string]interface{}) error {
	for k, v := range pmap {
		if !strings.HasPrefix(k, "@") {
			if vstr, ok := v.(string); ok {
				if k == "." {
					continue
				} else if found := branch.Get(k); found == nil {
					newnode, err := NewDataNode(branch.Schema().GetSchema(k), vstr)
					if err != nil {
						return err
					}
					if err := branch.insert(newnode, EditMerge, nil); err != nil {
						return err
					}
				}
			}
		}
	}
	return nil
}

func (branch *DataBranch) UnmarshalJSON(jbytes []byte) error {
	var jval interface{}
	if err := json.Unmarshal(jbytes, &jval); err != nil {
		return err
	}
	return unmarshalJSONValue(branch, jval)
}

func (branch *DataBranch) MarshalJSON() ([]byte, error) {
	v, err := branchToGoValue(branch, false, yang.TSUnset)
	if err != nil {
		return nil, err
	}
	return json.Marshal(v)
}

func (branch *DataBranch) MarshalJSON_RFC7951() ([]byte, error) {
	v, err := branchToGoValue(branch, true, yang.TSUnset)
	if err != nil {
		return nil, err
	}
	return json.Marshal(v)
}

// UnmarshalYAML updates the branch data node using YAML-encoded data.
func (branch *DataBranch) UnmarshalYAML(in []byte) error {
	var ydata interface{}
	if err := yaml.Unmarshal(in, &ydata); err != nil {
		return err
	}
	return unmarshalJSONValue(branch, normalizeYAML(ydata))
}

// MarshalYAML encodes the branch data node to a YAML document.
func (branch *DataBranch) MarshalYAML() ([]byte, error) {
	v, err := branchToGoValue(branch, false, yang.TSUnset)
	if err != nil {
		return nil, err
	}
	return yaml.Marshal(v)
}

// MarshalYAML_RFC7951 encodes the branch data node to a YAML document using RFC7951 namespace-qualified name.
// RFC7951 is the encoding specification for JSON. So, MarshalYAML_RFC7951 only utilizes the RFC7951 namespace-qualified name for YAML encoding.
func (branch *DataBranch) MarshalYAML_RFC7951() ([]byte, error) {
	v, err := branchToGoValue(branch, true, yang.TSUnset)
	if err != nil {
		return nil, err
	}
	return yaml.Marshal(v)
}

// Replace() replaces itself to the src node.
func (branch *DataBranch) Replace(src DataNode) error {
	if !IsValid(src) {
		return fmt.Errorf("invalid src data node")
	}
	return replace(branch, src)
}

// Merge() merges the src data node to the branch data node.
func (branch *DataBranch) Merge(src DataNode) error {
	if !IsValid(src) {
		return fmt.Errorf("invalid src data node")
	}
	return merge(branch, src)
}

type _xmlnode struct {
	DataNode
}

func (branch *DataBranch) MarshalXML(e *xml.Encoder, start xml.StartElement) error {
	// fmt.Println(branch.Name(), branch.schema.Module.Namespace)
	boundary := false
	if start.Name.Local != branch.schema.Name {
		boundary = true
	} else if branch.schema.Qboundary {
		boundary = true
	}
	if boundary {
		ns := branch.schema.Module.Namespace
		if ns != nil {
			start.Attr = append(start.Attr, xml.Attr{Name: xml.Name{Local: "xmlns"}, Value: ns.Name})
			start.Name.Local = branch.schema.Name
		}
	} else {
		start = xml.StartElement{Name: xml.Name{Local: branch.schema.Name}}
	}
	if err := e.EncodeToken(xml.Token(start)); err != nil {
		return err
	}
	for _, child := range branch.children {
		if err := e.EncodeElement(child, xml.StartElement{Name: xml.Name{Local: child.Name()}}); err != nil {
			return err
		}
	}
	return e.EncodeToken(xml.Token(xml.EndElement{Name: xml.Name{Local: branch.schema.Name}}))
}

// unmarshalXML fills branch from an XML-encoded data-tree document (4.G).
// When branch is the fake root, start itself names the top-level data node
// to create (the document's outer element is not root's own reopened tag),
// so the first element is handled specially; every other call parses the
// children found between start and its matching end tag, creating one data
// node per matched schema child and recursing into containers and lists.
// flags carries the parse mode through the whole recursion (the stdlib
// xml.Unmarshaler interface has no parameter for it, which is why this is
// an unexported method driven by the package-level UnmarshalXML rather
// than encoding/xml's auto-dispatch). Every element is checked, in order,
// against the root/namespace match, the feature/edit-config gate, and
// (once its subtree is fully read) the structural checkpoint; an unknown
// element is rejected in Strict mode or when its namespace belongs to a
// loaded module, and skipped otherwise.
func (branch *DataBranch) unmarshalXML(d *xml.Decoder, start xml.StartElement, flags ParseFlag) error {
	target := branch
	if branch.schema.IsRoot {
		_, name := SplitQName(&start.Name.Local)
		cschema := branch.schema.GetSchema(name)
		if cschema == nil {
			return NewDiagnostic(KindInvalidElement, ETagUnknownElement, branch.Path(),
				"no schema found for top-level element %q", name)
		}
		if err := checkNamespace(cschema, start); err != nil {
			return err
		}
		if err := checkElementAllowed(cschema, flags); err != nil {
			return err
		}
		child, err := NewDataNode(cschema)
		if err != nil {
			return err
		}
		if err := branch.insert(child, editOperationFor(flags), nil); err != nil {
			return err
		}
		if err := transferMetadata(child, start.Attr); err != nil {
			return err
		}
		if leaf, ok := child.(*DataLeaf); ok {
			return leaf.unmarshalXML(d, start, flags)
		}
		target = child.(*DataBranch)
	}
	for {
		tok, err := d.Token()
		if err != nil {
			return err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			_, name := SplitQName(&t.Name.Local)
			cschema := target.schema.GetSchema(name)
			if cschema == nil {
				known := false
				if t.Name.Space != "" && target.schema.Modules != nil {
					_, ferr := target.schema.Modules.FindModuleByNamespace(t.Name.Space)
					known = ferr == nil
				}
				if flags.Has(Strict) || known {
					return NewDiagnostic(KindInvalidElement, ETagUnknownElement, target.Path(),
						"%q is not a schema child of %q", name, target.schema.Name)
				}
				if err := d.Skip(); err != nil {
					return err
				}
				continue
			}
			if err := checkNamespace(cschema, t); err != nil {
				return err
			}
			if err := checkElementAllowed(cschema, flags); err != nil {
				return err
			}
			iopt, err := parseInsertAttrs(cschema, t.Attr)
			if err != nil {
				return err
			}
			child, err := NewDataNode(cschema)
			if err != nil {
				return err
			}
			if err := target.insert(child, editOperationFor(flags), iopt); err != nil {
				return err
			}
			if err := transferMetadata(child, t.Attr); err != nil {
				return err
			}
			switch n := child.(type) {
			case *DataLeaf:
				if err := n.unmarshalXML(d, t, flags); err != nil {
					return err
				}
			case *DataBranch:
				if err := n.unmarshalXML(d, t, flags); err != nil {
					return err
				}
			}
		case xml.EndElement:
			if t.Name.Local == start.Name.Local {
				if !flags.Has(Filter) {
					if errs := checkStructure(target); len(errs) > 0 {
						return errs[0]
					}
				}
				return nil
			}
		}
	}
}

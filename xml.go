package yangmodel

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"strconv"

	"github.com/openconfig/goyang/pkg/yang"
)

// value2XMLString() marshals a value based on its schema, type and representing format.
func value2XMLString(schema *SchemaNode, typ *yang.YangType, value interface{}) (string, error) {
	if typ == nil {
		// anyxml/anydata: no YANG type, the value is already the raw
		// captured subtree text.
		if s, ok := value.(string); ok {
			return s, nil
		}
		return ValueToValueString(value), nil
	}
	switch typ.Kind {
	// case yang.YinstanceIdentifier:
	// [FIXME] The leftmost (top-level) data node name is always in the
	//   namespace-qualified form (qname).
	// case yang.Ystring, yang.Ybinary:
	// case yang.Ybool:
	// case yang.Yleafref:
	// case yang.Ynone:
	// case yang.Yint8, yang.Yint16, yang.Yint32, yang.Yuint8, yang.Yuint16, yang.Yuint32:
	// case yang.Yint64:
	// case yang.Yuint64:
	// case yang.Ydecimal64:
	// case yang.Ybits, yang.Yenum:
	case yang.Yunion:
		for i := range typ.Type {
			v, err := value2XMLString(schema, typ.Type[i], value)
			if err == nil {
				return v, nil
			}
		}
		return "", fmt.Errorf("unexpected value \"%v\" for %s type", value, typ.Name)
	case yang.Yempty:
		return "", nil
	case yang.Yidentityref:
		if s, ok := value.(string); ok {
			m, ok := schema.Identityref[s]
			if !ok {
				return "", fmt.Errorf("%s is not a value of %s", s, typ.Name)
			}
			if m.Prefix == nil {
				return m.Name + ":" + s, nil
			}
			return m.Prefix.Name + ":" + s, nil
		}
	}
	switch v := value.(type) {
	case string:
		return v, nil
	case int:
		return strconv.FormatInt(int64(v), 10), nil
	case int8:
		return strconv.FormatInt(int64(v), 10), nil
	case int16:
		return strconv.FormatInt(int64(v), 10), nil
	case int32:
		return strconv.FormatInt(int64(v), 10), nil
	case int64:
		return strconv.FormatInt(int64(v), 10), nil
	case uint:
		return strconv.FormatUint(uint64(v), 10), nil
	case uint8:
		return strconv.FormatUint(uint64(v), 10), nil
	case uint16:
		return strconv.FormatUint(uint64(v), 10), nil
	case uint32:
		return strconv.FormatUint(uint64(v), 10), nil
	case uint64:
		return strconv.FormatUint(uint64(v), 10), nil
	case bool:
		if v {
			return "true", nil
		}
		return "false", nil
	case yang.Number:
		return v.String(), nil
	case nil:
		return "", nil
	}
	return fmt.Sprint(value), nil
}

type xmlNode struct {
	DataNode
	ConfigOnly yang.TriState
}

func (xnode *xmlNode) MarshalXML(e *xml.Encoder, start xml.StartElement) error {
	schema := xnode.Schema()
	boundary := false
	if start.Name.Local != schema.Name {
		boundary = true
	} else if schema.Qboundary {
		boundary = true
	}
	// xmlns
	if boundary {
		ns := schema.Module.Namespace
		if ns != nil {
			start.Attr = append(start.Attr, xml.Attr{Name: xml.Name{Local: "xmlns"}, Value: ns.Name})
			start.Name.Local = schema.Name
		}
	} else {
		start = xml.StartElement{Name: xml.Name{Local: schema.Name}}
	}

	switch node := xnode.DataNode.(type) {
	case *DataBranch:
		if xnode.ConfigOnly == yang.TSTrue && schema.IsState {
			return nil
		}
		if xnode.ConfigOnly == yang.TSFalse && !schema.HasState && !schema.IsState {
			return nil
		}
		if err := e.EncodeToken(xml.Token(start)); err != nil {
			return err
		}
		for _, child := range node.children {
			cxnode := *xnode
			cxnode.DataNode = child
			if err := e.EncodeElement(&cxnode, xml.StartElement{Name: xml.Name{Local: cxnode.Name()}}); err != nil {
				return err
			}
		}
		return e.EncodeToken(xml.Token(xml.EndElement{Name: xml.Name{Local: schema.Name}}))
	case *DataLeaf:
		if xnode.ConfigOnly == yang.TSTrue && schema.IsState {
			return nil
		}
		if xnode.ConfigOnly == yang.TSFalse && !schema.IsState {
			return nil
		}
		vstr, err := value2XMLString(schema, schema.Type, node.value)
		if err != nil {
			return err
		}
		return e.EncodeElement(vstr, start)
	}
	return fmt.Errorf("unexpected data node type %T", xnode.DataNode)
}

// MarshalXML returns the XML bytes of a data node.
func MarshalXML(node DataNode, option ...Option) ([]byte, error) {
	xnode := &xmlNode{DataNode: node}
	for i := range option {
		switch option[i].(type) {
		case HasState:
			return nil, fmt.Errorf("%v is not allowed for marshalling", option[i])
		case ConfigOnly:
			xnode.ConfigOnly = yang.TSTrue
		case StateOnly:
			xnode.ConfigOnly = yang.TSFalse
		case RFC7951Format:
			return nil, fmt.Errorf("%v is not allowed for marshalling", option[i])
		}
	}
	return xml.Marshal(xnode)
}

// MarshalXMLIndent returns the XML bytes of a data node.
func MarshalXMLIndent(node DataNode, prefix, indent string, option ...Option) ([]byte, error) {
	xnode := &xmlNode{DataNode: node}
	for i := range option {
		switch option[i].(type) {
		case HasState:
			return nil, fmt.Errorf("%v is not allowed for marshalling", option[i])
		case ConfigOnly:
			xnode.ConfigOnly = yang.TSTrue
		case StateOnly:
			xnode.ConfigOnly = yang.TSFalse
		case RFC7951Format:
			return nil, fmt.Errorf("%v is not allowed for marshalling", option[i])
		}
	}
	return xml.MarshalIndent(xnode, prefix, indent)
}

// yangAttrNamespace is the namespace RFC 7950 SS7.8.6 defines the "insert",
// "key" and "value" edit attributes in.
const yangAttrNamespace = "urn:ietf:params:xml:ns:yang:1"

// UnmarshalXML parses an XML-encoded data-tree document into node (4.G).
// ParseFlag bits passed via option select strict/edit/filter parsing;
// RepresentItself requests the plain encoding/xml.Unmarshaler dispatch for
// node types this package does not itself define (the two it does,
// *DataBranch and *DataLeaf, are always driven through the flag-aware path
// below, since the stdlib Unmarshaler interface has no room to carry
// ParseFlag through to nested elements).
func UnmarshalXML(node DataNode, data []byte, option ...Option) error {
	var flags ParseFlag
	for i := range option {
		switch o := option[i].(type) {
		case ParseFlag:
			flags = o
		case RepresentItself:
			// xml node already represents itself.
		default:
			return fmt.Errorf("%s option not supported", option[i])
		}
	}
	d := xml.NewDecoder(bytes.NewReader(data))
	start, err := firstStartElement(d)
	if err != nil {
		return err
	}
	switch n := node.(type) {
	case *DataBranch:
		return n.unmarshalXML(d, start, flags)
	case *DataLeaf:
		return n.unmarshalXML(d, start, flags)
	default:
		return xml.Unmarshal(data, node)
	}
}

// firstStartElement advances d past any leading ProcInst/comment/CharData
// tokens to the document's outermost element.
func firstStartElement(d *xml.Decoder) (xml.StartElement, error) {
	for {
		tok, err := d.Token()
		if err != nil {
			return xml.StartElement{}, err
		}
		if se, ok := tok.(xml.StartElement); ok {
			return se, nil
		}
	}
}

// editOperationFor picks the insertion semantics a parsed child is created
// with: Edit mode (a NETCONF edit-config payload) and Filter mode (a NETCONF
// filter) accept a second element sharing a list/leaf key, which replaces
// the existing instance instead of conflicting (the two are not merged);
// every other mode is building a single self-contained document, where a
// repeated key is a genuine structural error.
func editOperationFor(flags ParseFlag) Operation {
	if flags.Any(Edit | Filter) {
		return EditMerge
	}
	return EditCreate
}

// checkNamespace verifies el's namespace, when present, names cschema's
// owning module. Many encoders only set xmlns on the document's outermost
// element and rely on XML namespace inheritance for descendants, so an
// empty el.Name.Space is not an error.
func checkNamespace(cschema *SchemaNode, el xml.StartElement) error {
	if el.Name.Space == "" || cschema.Module == nil || cschema.Module.Namespace == nil {
		return nil
	}
	if el.Name.Space != cschema.Module.Namespace.Name {
		return NewDiagnostic(KindInvalidModule, ETagUnknownNamespace, cschema.Path(),
			"element %q has namespace %q, expected %q", cschema.Name, el.Name.Space, cschema.Module.Namespace.Name)
	}
	return nil
}

// checkElementAllowed rejects an element that the current parse mode
// cannot accept: a feature-disabled node is never valid data (regardless
// of mode), and edit-config (Edit) payloads must not carry config-false
// (state) data.
func checkElementAllowed(cschema *SchemaNode, flags ParseFlag) error {
	if cschema.Disabled {
		return NewDiagnostic(KindInvalidElement, ETagUnknownElement, cschema.Path(),
			"%q belongs to a disabled feature and cannot appear in data", cschema.Name)
	}
	if flags.Has(Edit) && cschema.IsState {
		return NewDiagnostic(KindInvalidElement, ETagOperationNotSupported, cschema.Path(),
			"%q is state data (config false) and cannot appear in an edit-config payload", cschema.Name)
	}
	return nil
}

// attrLocal finds attrs' value for a local-name match, preferring one
// tagged with the YANG edit-attribute namespace over an unqualified one.
func attrLocal(attrs []xml.Attr, local string) (string, bool) {
	found := false
	var value string
	for _, a := range attrs {
		if a.Name.Local != local {
			continue
		}
		if a.Name.Space == yangAttrNamespace {
			return a.Value, true
		}
		value, found = a.Value, true
	}
	return value, found
}

// parseInsertAttrs reads the "insert"/"key"/"value" attributes RFC 7950
// SS7.8.6 and SS7.7.9 define for ordered-by-user list and leaf-list
// entries, and builds the InsertOption insert() expects. Schemas that are
// not ordered-by-user ignore these attributes (insert() does too), since
// they only have meaning for user-ordered siblings.
func parseInsertAttrs(cschema *SchemaNode, attrs []xml.Attr) (InsertOption, error) {
	if !cschema.IsOrderedByUser() {
		return nil, nil
	}
	insert, ok := attrLocal(attrs, "insert")
	if !ok || insert == "" || insert == "last" {
		return InsertToLast{}, nil
	}
	switch insert {
	case "first":
		return InsertToFirst{}, nil
	case "before", "after":
		attrName := "key"
		if cschema.IsLeafList() {
			attrName = "value"
		}
		target, ok := attrLocal(attrs, attrName)
		if !ok || target == "" {
			return nil, NewDiagnostic(KindMissingAttribute, ETagMissingAttribute, cschema.Path(),
				`insert="%s" on %q requires a %q attribute`, insert, cschema.Name, attrName)
		}
		if cschema.IsLeafList() {
			target = "[.=" + target + "]"
		}
		if insert == "before" {
			return InsertToBefore{Key: target}, nil
		}
		return InsertToAfter{Key: target}, nil
	default:
		return nil, NewDiagnostic(KindInvalidAttribute, ETagBadAttribute, cschema.Path(),
			`insert attribute %q on %q must be one of first|last|before|after`, insert, cschema.Name)
	}
}

// transferMetadata copies an element's non-edit, non-namespace-declaration
// attributes onto child as RFC 7952 metadata annotations.
func transferMetadata(child DataNode, attrs []xml.Attr) error {
	meta := map[string]string{}
	for _, a := range attrs {
		switch a.Name.Local {
		case "insert", "key", "value":
			if a.Name.Space == yangAttrNamespace {
				continue
			}
		case "xmlns":
			continue
		}
		if a.Name.Space == "xmlns" {
			continue
		}
		meta[a.Name.Local] = a.Value
	}
	if len(meta) == 0 {
		return nil
	}
	return child.SetMeta(meta)
}

// captureRawXML re-serializes the element subtree starting at start (whose
// StartElement has already been consumed from d) into its literal XML
// text, for an anyxml/anydata node: such a node has no YANG-typed schema
// of its own, so its content is detached from structural schema matching
// rather than parsed against one.
func captureRawXML(d *xml.Decoder, start xml.StartElement) (string, error) {
	var buf bytes.Buffer
	enc := xml.NewEncoder(&buf)
	depth := 1
	if err := enc.EncodeToken(start); err != nil {
		return "", err
	}
	for depth > 0 {
		tok, err := d.Token()
		if err != nil {
			return "", err
		}
		switch tok.(type) {
		case xml.StartElement:
			depth++
		case xml.EndElement:
			depth--
		}
		if err := enc.EncodeToken(tok); err != nil {
			return "", err
		}
	}
	if err := enc.Flush(); err != nil {
		return "", err
	}
	return buf.String(), nil
}

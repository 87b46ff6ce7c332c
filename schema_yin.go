package yangmodel

import (
	"encoding/xml"
	"fmt"
	"strconv"
	"strings"

	"github.com/openconfig/goyang/pkg/yang"
)

// yinArgAttr maps a YIN statement keyword to the XML attribute that carries
// its argument, per RFC 7950 SS13's statement-to-XML-encoding table. A
// keyword absent here either takes no argument or encodes it as the
// character data of a <text>/<value> child, handled by yinTextArg below.
var yinArgAttr = map[string]string{
	"module": "name", "submodule": "name", "import": "module", "include": "module",
	"belongs-to": "module", "namespace": "uri", "prefix": "value",
	"revision": "date", "revision-date": "date",
	"container": "name", "leaf": "name", "leaf-list": "name", "list": "name",
	"choice": "name", "case": "name", "anyxml": "name", "anydata": "name",
	"grouping": "name", "uses": "name", "augment": "target-node",
	"refine": "target-node", "deviation": "target-node", "deviate": "value",
	"typedef": "name", "type": "name", "identity": "name", "base": "name",
	"feature": "name", "if-feature": "name", "extension": "name", "argument": "name",
	"rpc": "name", "action": "name", "notification": "name",
	"input": "name", "output": "name",
	"bit": "name", "enum": "name", "pattern": "value", "length": "value",
	"range": "value", "fraction-digits": "value", "default": "value",
	"units": "name", "status": "value", "config": "value",
	"mandatory": "value", "presence": "value", "ordered-by": "value",
	"key": "value", "unique": "tag", "position": "value", "value": "value",
	"error-app-tag": "value", "min-elements": "value", "max-elements": "value",
	"path": "value", "when": "condition", "must": "condition",
	"yang-version": "value", "yin-element": "value",
}

// yinTextArg is the set of keywords whose argument is carried as character
// data of a nested <text> (or, for error-message, <value>) element rather
// than an XML attribute of the statement element itself.
var yinTextArg = map[string]bool{
	"description": true, "reference": true, "organization": true,
	"contact": true, "error-message": true,
}

// yinStmt is the generic statement tree decoded from a YIN document: one
// node per YANG statement, its resolved argument, and its substatements in
// document order. It mirrors yang.Statement's shape but is built without
// reaching into goyang's unexported fields.
type yinStmt struct {
	keyword string
	arg     string
	hasArg  bool
	sub     []*yinStmt
}

// parseYINElement decodes one xml.StartElement, and everything nested
// inside it, into a yinStmt.
func parseYINElement(d *xml.Decoder, start xml.StartElement) (*yinStmt, error) {
	keyword := start.Name.Local
	s := &yinStmt{keyword: keyword}

	if attr, ok := yinArgAttr[keyword]; ok {
		for _, a := range start.Attr {
			if a.Name.Local == attr {
				s.arg = a.Value
				s.hasArg = true
			}
		}
	}

	for {
		tok, err := d.Token()
		if err != nil {
			return nil, err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			if yinTextArg[keyword] && (t.Name.Local == "text" || t.Name.Local == "value") {
				var text string
				if err := d.DecodeElement(&text, &t); err != nil {
					return nil, err
				}
				s.arg = text
				s.hasArg = true
				continue
			}
			child, err := parseYINElement(d, t)
			if err != nil {
				return nil, err
			}
			s.sub = append(s.sub, child)
		case xml.EndElement:
			if t.Name.Local == keyword {
				return s, nil
			}
		}
	}
}

// yinToYANGText renders s, and its subtree, as YANG text grammar. Every
// argument is unconditionally double-quoted: quoting is always legal YANG
// syntax, so the translator never has to decide whether an argument needs
// it, only what the argument's text is.
func yinToYANGText(s *yinStmt, w *strings.Builder, indent string) {
	w.WriteString(indent)
	w.WriteString(s.keyword)
	if s.hasArg {
		w.WriteString(" ")
		w.WriteString(strconv.Quote(s.arg))
	}
	if len(s.sub) == 0 {
		w.WriteString(";\n")
		return
	}
	w.WriteString(" {\n")
	for _, c := range s.sub {
		yinToYANGText(c, w, indent+"  ")
	}
	w.WriteString(indent)
	w.WriteString("}\n")
}

// ParseYIN decodes a YIN (XML) schema document and feeds it into ms,
// exactly as ms.Parse/ms.Read would for YANG text. Rather than a second,
// independent statement-level parser, it translates the YIN element tree
// back into equivalent YANG text and re-runs goyang's text grammar on the
// result; per spec.md SS4.D and SS6, "both front-ends must produce
// identical schema models for equivalent inputs", which holds by
// construction since only one grammar is ever actually interpreted.
func ParseYIN(ms *yang.Modules, source []byte, filename string) error {
	dec := xml.NewDecoder(strings.NewReader(string(source)))
	var root *yinStmt
	for root == nil {
		tok, err := dec.Token()
		if err != nil {
			return fmt.Errorf("yangmodel: YIN parse of %s: %w", filename, err)
		}
		if start, ok := tok.(xml.StartElement); ok {
			root, err = parseYINElement(dec, start)
			if err != nil {
				return fmt.Errorf("yangmodel: YIN parse of %s: %w", filename, err)
			}
		}
	}
	var text strings.Builder
	yinToYANGText(root, &text, "")
	if err := ms.Parse(text.String(), filename); err != nil {
		return fmt.Errorf("yangmodel: YIN-derived text of %s: %w", filename, err)
	}
	return nil
}

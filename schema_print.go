package yangmodel

import (
	"fmt"
	"strings"

	"github.com/openconfig/goyang/pkg/yang"
)

// yinNamespace is the XML namespace YIN documents are defined in (RFC 7950
// SS13).
const yinNamespace = "urn:ietf:params:xml:ns:yang:yin:1"

// PrintYIN renders module's original statement tree (module.Source, the
// *yang.Statement goyang's text parser built while reading it) as a YIN XML
// document, the reverse direction of schema_yin.go's translator. Because
// both directions share the same argument-encoding tables (yinArgAttr,
// yinTextArg), print(parseYIN(x)) round-trips up to whitespace and
// attribute-ordering normalization, per spec.md SS4.I / SS8.
func PrintYIN(module *yang.Module) ([]byte, error) {
	if module == nil {
		return nil, fmt.Errorf("yangmodel: nil module")
	}
	if module.Source == nil {
		return nil, fmt.Errorf("yangmodel: module %q has no retained statement tree", module.Name)
	}
	var b strings.Builder
	b.WriteString(`<?xml version="1.0" encoding="UTF-8"?>` + "\n")
	writeYINStatement(&b, module.Source, "", true)
	return []byte(b.String()), nil
}

// writeYINStatement renders one *yang.Statement as a YIN element, recursing
// into its substatements. root adds the yin XML namespace declaration that
// only belongs on the document element.
func writeYINStatement(b *strings.Builder, s *yang.Statement, indent string, root bool) {
	keyword := s.Kind()
	arg, hasArg := s.Arg()
	subs := s.SubStatements()

	b.WriteString(indent)
	b.WriteString("<")
	b.WriteString(keyword)

	attr, asAttr := yinArgAttr[keyword]
	textChild := yinTextArg[keyword]
	if hasArg && asAttr {
		fmt.Fprintf(b, " %s=%q", attr, xmlEscapeAttr(arg))
	}
	if root {
		fmt.Fprintf(b, " xmlns:yin=%q", yinNamespace)
	}

	if len(subs) == 0 && !(hasArg && textChild) {
		b.WriteString("/>\n")
		return
	}
	b.WriteString(">\n")

	if hasArg && textChild {
		childTag := "text"
		if keyword == "error-message" {
			childTag = "value"
		}
		fmt.Fprintf(b, "%s  <%s>%s</%s>\n", indent, childTag, xmlEscapeText(arg), childTag)
	}
	for _, c := range subs {
		writeYINStatement(b, c, indent+"  ", false)
	}
	b.WriteString(indent)
	b.WriteString("</")
	b.WriteString(keyword)
	b.WriteString(">\n")
}

func xmlEscapeAttr(s string) string {
	r := strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;", `"`, "&quot;")
	return r.Replace(s)
}

func xmlEscapeText(s string) string {
	r := strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;")
	return r.Replace(s)
}

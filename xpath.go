package yangmodel

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/PaesslerAG/gval"
)

// evaluatePathExpr evaluates a when/must XPath expression in the context of
// node. Each path atom found by splitXPathTokens is resolved against node
// (current()) using Find, and its first matching value (or boolean
// existence, for bare predicates) is substituted before the expression is
// handed to gval. XPath's `=`/`and`/`or`/`not` are rewritten to gval's
// `==`/`&&`/`||`/`!` since gval speaks Go-like expression syntax, not XPath.
func evaluatePathExpr(node DataNode, expr string) (bool, error) {
	toks := splitXPathTokens(expr)
	var b strings.Builder
	params := map[string]interface{}{}
	varN := 0
	for i, tok := range toks {
		if i > 0 {
			b.WriteString(" ")
		}
		switch {
		case tok.isPath:
			name := fmt.Sprintf("p%d", varN)
			varN++
			v, found := resolveXPathAtom(node, tok.text)
			if found {
				params[name] = v
			} else {
				params[name] = false
			}
			b.WriteString(name)
		case tok.literal:
			b.WriteString(translateXPathLiteral(tok.text))
		default:
			b.WriteString(translateXPathOperator(tok.text))
		}
	}
	result, err := gval.Evaluate(b.String(), params)
	if err != nil {
		return false, fmt.Errorf("yangmodel: cannot evaluate xpath expression %q: %v", expr, err)
	}
	return toBool(result), nil
}

// resolveXPathAtom resolves a single path atom relative to node, returning
// its scalar value (for a leaf) or its existence (for a branch/predicate),
// and whether any node matched.
func resolveXPathAtom(node DataNode, atom string) (interface{}, bool) {
	if atom == "current()" || atom == "." {
		return leafOrSelfValue(node), true
	}
	nodes, err := Find(node, atom)
	if err != nil || len(nodes) == 0 {
		return nil, false
	}
	return leafOrSelfValue(nodes[0]), true
}

func leafOrSelfValue(n DataNode) interface{} {
	if leaf, ok := n.(*DataLeaf); ok {
		return leaf.Value()
	}
	return true
}

func translateXPathOperator(tok string) string {
	switch tok {
	case "=":
		return "=="
	case "and":
		return "&&"
	case "or":
		return "||"
	case "not":
		return "!"
	default:
		return tok
	}
}

// translateXPathLiteral rewrites a single-quoted XPath string literal
// ('text') into the double-quoted form gval expects; numeric literals pass
// through unchanged.
func translateXPathLiteral(tok string) string {
	if _, err := strconv.ParseFloat(tok, 64); err == nil {
		return tok
	}
	if len(tok) >= 2 && tok[0] == '\'' && tok[len(tok)-1] == '\'' {
		inner := tok[1 : len(tok)-1]
		inner = strings.ReplaceAll(inner, `"`, `\"`)
		return `"` + inner + `"`
	}
	return tok
}

func toBool(v interface{}) bool {
	switch b := v.(type) {
	case bool:
		return b
	case nil:
		return false
	default:
		return true
	}
}

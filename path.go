package yangmodel

import (
	"fmt"
	"strings"
)

type PathSelect int
type PathPredicates int

const (
	NodeSelectChild       PathSelect = iota // path will select children by name
	NodeSelectSelf                          // if the path starts with `.`
	NodeSelectFromRoot                      // if the path starts with `/`
	NodeSelectAll                           // if the path starts with `//`
	NodeSelectParent                        // if the path starts with `..`
	NodeSelectAllChildren                   // Wildcard '*'

	PathPredicateNone    PathPredicates = iota
	PathPredicateNumeric                // p[1] (p[position()=1]), p[last()] (p[position()=last()])
	PathPredicateCondition
	PathPredicateEl
)

// Predicate order is significant

type PathNode struct {
	Prefix     string // The namespace prefix of the path
	Name       string // the nodename of the path
	Value      string
	Select     PathSelect
	Predicates []string
}

var (
	pathNodeKeyword map[string]PathSelect = map[string]PathSelect{
		".":                          NodeSelectSelf,
		"self::node()":               NodeSelectSelf,
		"..":                         NodeSelectParent,
		"parent::node()":             NodeSelectParent,
		"*":                          NodeSelectAllChildren,
		"...":                        NodeSelectAll,
		"descendant-or-self::node()": NodeSelectAll,
		"child::node()":              NodeSelectAllChildren,
	}
)

func updatePathSelect(pathnode *PathNode) *PathNode {
	if s, ok := pathNodeKeyword[pathnode.Name]; ok {
		pathnode.Select = s
	}
	return pathnode
}

// ParsePath parses the input xpath and returns one PathNode per path element.
func ParsePath(path *string) ([]*PathNode, error) {
	node := make([]*PathNode, 0, 8)
	pathnode := &PathNode{}
	length := len(*path)
	begin := 0
	end := begin
	// insideBrackets is counted up when at least one '[' has been found.
	// It is counted down when a closing ']' has been found.
	insideBrackets := 0
	switch (*path)[end] {
	case '/':
		pathnode.Select = NodeSelectFromRoot
		begin++
	case '=': // ignore data string in path
		pathnode.Value = (*path)[end+1:]
		return append(node, pathnode), nil
	case '[', ']':
		return nil, fmt.Errorf("yangmodel: path '%s' starts with bracket", *path)
	}
	end++
	for end < length {
		switch (*path)[end] {
		case '/':
			if insideBrackets <= 0 {
				if (*path)[end-1] == '/' {
					pathnode.Select = NodeSelectAll
				} else if begin < end {
					pathnode.Name = (*path)[begin:end]
				}
				begin = end + 1
				node = append(node, updatePathSelect(pathnode))
				pathnode = &PathNode{}
			}
		case '[':
			if (*path)[end-1] != '\\' {
				if insideBrackets <= 0 {
					if begin < end {
						pathnode.Name = (*path)[begin:end]
					}
					begin = end + 1
				}
				insideBrackets++
			}
		case ']':
			if (*path)[end-1] != '\\' {
				insideBrackets--
				if insideBrackets <= 0 {
					pathnode.Predicates = append(pathnode.Predicates, (*path)[begin:end])
					begin = end + 1
				}
			}
		case '=':
			if insideBrackets <= 0 {
				if begin < end {
					pathnode.Name = (*path)[begin:end]
					begin = end + 1
				}
				pathnode.Value = (*path)[begin:]
				return append(node, updatePathSelect(pathnode)), nil
			}
		case ':':
			if insideBrackets <= 0 {
				pathnode.Prefix = (*path)[begin:end]
				begin = end + 1
			}
		}
		end++
	}
	if insideBrackets > 0 {
		return nil, fmt.Errorf("yangmodel: invalid path format '%s'", *path)
	}

	if (*path)[end-1] == '/' {
		if len(node) == 0 {
			pathnode.Select = NodeSelectAll
			node = append(node, updatePathSelect(pathnode))
		}
	} else {
		if begin < end {
			pathnode.Name = (*path)[begin:end]
		}
		node = append(node, updatePathSelect(pathnode))
	}
	return node, nil
}

// ValidateIdentifier reports whether s is a syntactically valid YANG
// identifier: it must start with a letter or underscore and contain only
// letters, digits, '_', '-' or '.' afterwards, and must not start with the
// reserved "xml" prefix (case-insensitive), per the YANG identifier grammar.
func ValidateIdentifier(s string) error {
	if s == "" {
		return fmt.Errorf("yangmodel: empty identifier")
	}
	c := s[0]
	if !(c == '_' || (c >= 'A' && c <= 'Z') || (c >= 'a' && c <= 'z')) {
		return fmt.Errorf("yangmodel: identifier %q must start with a letter or '_'", s)
	}
	for i := 1; i < len(s); i++ {
		c := s[i]
		switch {
		case c == '_' || c == '-' || c == '.':
		case c >= 'A' && c <= 'Z':
		case c >= 'a' && c <= 'z':
		case c >= '0' && c <= '9':
		default:
			return fmt.Errorf("yangmodel: identifier %q contains invalid character %q", s, c)
		}
	}
	if len(s) >= 3 && strings.EqualFold(s[:3], "xml") {
		return fmt.Errorf("yangmodel: identifier %q must not start with 'xml'", s)
	}
	return nil
}

// xpathToken is one lexical element of a when/must XPath expression, as
// split by splitXPathTokens: either an operator/keyword, a quoted or
// numeric literal, or an opaque path atom (resolved against the data tree
// by evaluatePathExpr in xpath.go).
type xpathToken struct {
	text    string
	isPath  bool
	literal bool
}

// splitXPathTokens performs a shallow tokenization of a when/must
// expression: it keeps bracketed predicates (e.g. "../type[.='a']") glued
// to their owning path atom, so xpath.go can resolve each atom as a whole
// without re-implementing a full XPath grammar.
func splitXPathTokens(expr string) []xpathToken {
	var toks []xpathToken
	i, n := 0, len(expr)
	for i < n {
		c := expr[i]
		switch {
		case c == ' ' || c == '\t' || c == '\n':
			i++
		case c == '(' || c == ')' || c == ',':
			toks = append(toks, xpathToken{text: string(c)})
			i++
		case strings.HasPrefix(expr[i:], "!=") || strings.HasPrefix(expr[i:], "<=") || strings.HasPrefix(expr[i:], ">="):
			toks = append(toks, xpathToken{text: expr[i : i+2]})
			i += 2
		case c == '=' || c == '<' || c == '>':
			toks = append(toks, xpathToken{text: string(c)})
			i++
		case c == '\'' || c == '"':
			j := i + 1
			for j < n && expr[j] != c {
				j++
			}
			if j < n {
				j++
			}
			toks = append(toks, xpathToken{text: expr[i:j], literal: true})
			i = j
		default:
			j := i
			depth := 0
			for j < n {
				ch := expr[j]
				if ch == '[' {
					depth++
				} else if ch == ']' {
					depth--
				} else if depth == 0 && (ch == ' ' || ch == '(' || ch == ')' || ch == ',' ||
					ch == '=' || ch == '<' || ch == '>' || ch == '\'' || ch == '"') {
					break
				}
				j++
			}
			word := expr[i:j]
			if word == "" {
				i++
				continue
			}
			switch word {
			case "and", "or", "not", "div", "mod":
				toks = append(toks, xpathToken{text: word})
			default:
				if isNumericLiteral(word) {
					toks = append(toks, xpathToken{text: word, literal: true})
				} else {
					toks = append(toks, xpathToken{text: word, isPath: true})
				}
			}
			i = j
		}
	}
	return toks
}

func isNumericLiteral(s string) bool {
	if s == "" {
		return false
	}
	seenDigit := false
	for i, c := range s {
		switch {
		case c >= '0' && c <= '9':
			seenDigit = true
		case c == '.' || (c == '-' && i == 0):
		default:
			return false
		}
	}
	return seenDigit
}

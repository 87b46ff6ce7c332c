package yangmodel

import (
	"fmt"
	"math"
	"strconv"

	"github.com/openconfig/goyang/pkg/yang"
)

// DeferredValue wraps a lexical leafref or instance-identifier value that
// Decode leaves unresolved because the parse options did not include Edit
// or Filter. Nothing in the package calls Decode, and nothing queues or
// later resolves a DeferredValue.
type DeferredValue struct {
	Schema *SchemaNode
	Path   string // the unresolved lexical path
}

func (d *DeferredValue) Error() string {
	return fmt.Sprintf("%s: unresolved reference %q", d.Schema.Path(), d.Path)
}

// Decode converts a lexical (string) value into its typed Go representation
// per the schema node's resolved type chain, applying every restriction
// along the derivation chain. It turns wire values into validated, typed
// data (the XML parser and the validator do not call it; leaf values are
// set through StringToValue): a thin, named
// wrapper around ValueStringToValue that additionally handles decimal64 as
// a scaled int64 and defers leafref/instance-identifier resolution unless
// flags carries Edit or Filter.
//
// Union members are tried in declaration order and the first alternative
// that both type-checks and satisfies its own restrictions wins, per the
// YANG union rule that member order is significant.
func Decode(schema *SchemaNode, lexical string, flags ParseFlag) (interface{}, error) {
	return decode(schema, schema.Type, lexical, flags)
}

func decode(schema *SchemaNode, typ *yang.YangType, lexical string, flags ParseFlag) (interface{}, error) {
	switch typ.Kind {
	case yang.Ydecimal64:
		return decodeDecimal64(typ, lexical)

	case yang.Yleafref, yang.YinstanceIdentifier:
		if flags.Any(Edit | Filter) {
			return resolveReferenceNow(schema, typ, lexical)
		}
		return &DeferredValue{Schema: schema, Path: lexical}, nil

	case yang.Yunion:
		var firstErr error
		for _, member := range typ.Type {
			v, err := decode(schema, member, lexical, flags)
			if err == nil {
				return v, nil
			}
			if firstErr == nil {
				firstErr = err
			}
		}
		if firstErr == nil {
			firstErr = fmt.Errorf("%q matches no member of union type %q", lexical, typ.Name)
		}
		return nil, firstErr

	default:
		return ValueStringToValue(schema, typ, lexical)
	}
}

// decimal64Scale is 10^fraction-digits, the factor separating the scaled
// int64 representation from the decimal lexical form, per RFC 7950 §9.3.
func decimal64Scale(fractionDigits uint8) int64 {
	scale := int64(1)
	for i := uint8(0); i < fractionDigits; i++ {
		scale *= 10
	}
	return scale
}

// decodeDecimal64 parses a decimal64 lexical value into a scaled int64
// (value * 10^fraction-digits), detecting overflow explicitly rather than
// silently wrapping, since the 64-bit range is exactly what RFC 7950 bounds
// decimal64 to.
func decodeDecimal64(typ *yang.YangType, lexical string) (int64, error) {
	fd := uint8(typ.FractionDigits)
	number, err := yang.ParseDecimal(lexical, fd)
	if err != nil {
		return 0, err
	}
	if len(typ.Range) > 0 {
		inrange := false
		for i := range typ.Range {
			if !(typ.Range[i].Max.Less(number) || number.Less(typ.Range[i].Min)) {
				inrange = true
			}
		}
		if !inrange {
			return 0, fmt.Errorf("%q is out of the range, %v", lexical, typ.Range)
		}
	}
	f, err := strconv.ParseFloat(number.String(), 64)
	if err != nil {
		return 0, err
	}
	scale := decimal64Scale(fd)
	scaled := f * float64(scale)
	if scaled > math.MaxInt64 || scaled < math.MinInt64 {
		return 0, fmt.Errorf("decimal64 value %q overflows int64 at %d fraction digit(s)", lexical, fd)
	}
	return int64(math.Round(scaled)), nil
}

// resolveReferenceNow resolves a leafref or instance-identifier value
// immediately, for use when Edit or Filter is set: the target node's
// current value is trusted rather than deferred, per §4.F.
func resolveReferenceNow(schema *SchemaNode, typ *yang.YangType, lexical string) (interface{}, error) {
	switch typ.Kind {
	case yang.Yleafref:
		target := resolveLeafrefTarget(schema, typ.Path)
		if target == nil {
			return nil, NewDiagnostic(KindLeafrefTarget, ETagDataMissing, schema.Path(),
				"leafref target %q not found", typ.Path)
		}
		// a leafref target is itself never typed Yleafref once goyang has
		// resolved it, so decoding against the target's own type is safe.
		return decode(target, target.Type, lexical, Edit)
	case yang.YinstanceIdentifier:
		return lexical, nil
	}
	return lexical, nil
}

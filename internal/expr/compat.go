package expr

import "github.com/basalt-db/evcat/internal/evtype"

// Compatible reports whether a leaf field of type t can be meaningfully
// compared against data via op — the `compatible(field.type, op, data)`
// predicate referenced throughout §4.1 and §4.3.
func Compatible(t evtype.Type, op RelOp, d evtype.Data) bool {
	rt := t.Resolved()
	switch op {
	case OpIn, OpNotIn, OpNI, OpNotNI:
		list, ok := d.ListVal()
		if !ok {
			return false
		}
		for _, item := range list {
			if !scalarCompatible(rt, item) {
				return false
			}
		}
		return true
	default:
		return scalarCompatible(rt, d)
	}
}

func scalarCompatible(t evtype.Type, d evtype.Data) bool {
	switch t.Kind {
	case evtype.TypeBool:
		_, ok := d.Bool()
		return ok
	case evtype.TypeInt:
		_, ok := d.Int()
		return ok
	case evtype.TypeUint:
		_, ok := d.Uint()
		return ok
	case evtype.TypeDouble:
		_, ok := d.Double()
		return ok
	case evtype.TypeDuration:
		_, ok := d.DurationVal()
		return ok
	case evtype.TypeTime:
		_, ok := d.TimeVal()
		return ok
	case evtype.TypeString, evtype.TypeEnum:
		_, ok := d.Str()
		return ok
	case evtype.TypeIP:
		_, ok := d.IPVal()
		return ok
	case evtype.TypeSubnet:
		_, ok := d.SubnetVal()
		return ok
	case evtype.TypeList:
		if t.Elem == nil {
			return false
		}
		return scalarCompatible(*t.Elem, d)
	default:
		return false
	}
}

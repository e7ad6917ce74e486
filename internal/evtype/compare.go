package evtype

import "strings"

// Compare orders two Data values of the same Kind: -1, 0, 1. Values of
// differing Kind are incomparable and Compare returns 0, false — callers
// treat that as "operator not applicable" per §4.2's operand-compatibility
// validation.
//
// Adapted from the teacher's CompareValues (datalog/compare.go), which
// dispatches on a bare interface{}; here the dispatch is on the Kind tag
// Data already carries.
func Compare(a, b Data) (cmp int, ok bool) {
	if a.Kind != b.Kind {
		return 0, false
	}
	switch a.Kind {
	case KindNull:
		return 0, true
	case KindBool:
		switch {
		case a.boolV == b.boolV:
			return 0, true
		case !a.boolV && b.boolV:
			return -1, true
		default:
			return 1, true
		}
	case KindInt:
		return compareOrdered(a.intV, b.intV), true
	case KindUint:
		return compareOrdered(a.uintV, b.uintV), true
	case KindDouble:
		return compareOrdered(a.doubleV, b.doubleV), true
	case KindDuration:
		return compareOrdered(a.durV, b.durV), true
	case KindTime:
		return a.timeV.Compare(b.timeV), true
	case KindString:
		return strings.Compare(a.strV, b.strV), true
	case KindIP:
		return a.ipV.Compare(b.ipV), true
	case KindSubnet:
		c := a.subnetV.Addr().Compare(b.subnetV.Addr())
		if c != 0 {
			return c, true
		}
		return compareOrdered(a.subnetV.Bits(), b.subnetV.Bits()), true
	case KindPort:
		return a.portV.Compare(b.portV), true
	default:
		// list/record/map have no total order; equality only.
		return 0, Equal(a, b)
	}
}

func compareOrdered[T int64 | uint64 | float64 | Duration | int](a, b T) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

// Equal reports deep value equality, including within list/record/map.
func Equal(a, b Data) bool {
	if a.Kind != b.Kind {
		return false
	}
	switch a.Kind {
	case KindList:
		if len(a.listV) != len(b.listV) {
			return false
		}
		for i := range a.listV {
			if !Equal(a.listV[i], b.listV[i]) {
				return false
			}
		}
		return true
	case KindRecord:
		if len(a.recordV) != len(b.recordV) {
			return false
		}
		for i := range a.recordV {
			if a.recordV[i].Name != b.recordV[i].Name || !Equal(a.recordV[i].Value, b.recordV[i].Value) {
				return false
			}
		}
		return true
	case KindMap:
		if len(a.mapV) != len(b.mapV) {
			return false
		}
		for i := range a.mapV {
			if !Equal(a.mapV[i].Key, b.mapV[i].Key) || !Equal(a.mapV[i].Value, b.mapV[i].Value) {
				return false
			}
		}
		return true
	default:
		c, ok := Compare(a, b)
		return ok && c == 0
	}
}

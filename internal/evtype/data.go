package evtype

import (
	"fmt"
	"net/netip"
	"strings"
)

// Kind tags the variant a Data value holds.
//
// This is a deliberate break from the teacher's plain `type Value
// interface{}` (datalog/value.go): the lookup evaluator (§4.1) needs an
// exhaustive switch over Data's shape, which an empty interface can't give
// a compiler-checked guarantee for.
type Kind uint8

const (
	KindNull Kind = iota
	KindBool
	KindInt
	KindUint
	KindDouble
	KindDuration
	KindTime
	KindString
	KindIP
	KindSubnet
	KindPort
	KindList
	KindRecord
	KindMap
)

func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindBool:
		return "bool"
	case KindInt:
		return "integer"
	case KindUint:
		return "unsigned"
	case KindDouble:
		return "double"
	case KindDuration:
		return "duration"
	case KindTime:
		return "time"
	case KindString:
		return "string"
	case KindIP:
		return "ip"
	case KindSubnet:
		return "subnet"
	case KindPort:
		return "port"
	case KindList:
		return "list"
	case KindRecord:
		return "record"
	case KindMap:
		return "map"
	default:
		return "unknown"
	}
}

// RecordField is one insertion-ordered field of a record Data value.
type RecordField struct {
	Name  string
	Value Data
}

// MapEntry is one insertion-ordered entry of a map Data value.
type MapEntry struct {
	Key   Data
	Value Data
}

// Data is a tagged value: the runtime payload a predicate compares against
// a field, and the leaves a record-shaped Data is built from.
type Data struct {
	Kind     Kind
	boolV    bool
	intV     int64
	uintV    uint64
	doubleV  float64
	durV     Duration
	timeV    Time
	strV     string
	ipV      netip.Addr
	subnetV  netip.Prefix
	portV    Port
	listV    []Data
	recordV  []RecordField
	mapV     []MapEntry
}

func Null() Data                         { return Data{Kind: KindNull} }
func Bool(b bool) Data                   { return Data{Kind: KindBool, boolV: b} }
func Int(i int64) Data                   { return Data{Kind: KindInt, intV: i} }
func Uint(u uint64) Data                 { return Data{Kind: KindUint, uintV: u} }
func Double(f float64) Data              { return Data{Kind: KindDouble, doubleV: f} }
func DurationData(d Duration) Data       { return Data{Kind: KindDuration, durV: d} }
func TimeData(t Time) Data               { return Data{Kind: KindTime, timeV: t} }
func String(s string) Data               { return Data{Kind: KindString, strV: s} }
func IP(a netip.Addr) Data               { return Data{Kind: KindIP, ipV: a} }
func Subnet(p netip.Prefix) Data         { return Data{Kind: KindSubnet, subnetV: p} }
func PortData(p Port) Data               { return Data{Kind: KindPort, portV: p} }
func List(items []Data) Data             { return Data{Kind: KindList, listV: items} }
func Record(fields []RecordField) Data   { return Data{Kind: KindRecord, recordV: fields} }
func Map(entries []MapEntry) Data        { return Data{Kind: KindMap, mapV: entries} }

func (d Data) IsNull() bool { return d.Kind == KindNull }

func (d Data) Bool() (bool, bool)           { return d.boolV, d.Kind == KindBool }
func (d Data) Int() (int64, bool)           { return d.intV, d.Kind == KindInt }
func (d Data) Uint() (uint64, bool)         { return d.uintV, d.Kind == KindUint }
func (d Data) Double() (float64, bool)      { return d.doubleV, d.Kind == KindDouble }
func (d Data) DurationVal() (Duration, bool) { return d.durV, d.Kind == KindDuration }
func (d Data) TimeVal() (Time, bool)        { return d.timeV, d.Kind == KindTime }
func (d Data) Str() (string, bool)          { return d.strV, d.Kind == KindString }
func (d Data) IPVal() (netip.Addr, bool)    { return d.ipV, d.Kind == KindIP }
func (d Data) SubnetVal() (netip.Prefix, bool) { return d.subnetV, d.Kind == KindSubnet }
func (d Data) PortVal() (Port, bool)        { return d.portV, d.Kind == KindPort }
func (d Data) ListVal() ([]Data, bool)      { return d.listV, d.Kind == KindList }
func (d Data) RecordVal() ([]RecordField, bool) { return d.recordV, d.Kind == KindRecord }
func (d Data) MapVal() ([]MapEntry, bool)   { return d.mapV, d.Kind == KindMap }

// String renders a Data value for log lines and error messages.
func (d Data) String() string {
	switch d.Kind {
	case KindNull:
		return "null"
	case KindBool:
		return fmt.Sprintf("%t", d.boolV)
	case KindInt:
		return fmt.Sprintf("%d", d.intV)
	case KindUint:
		return fmt.Sprintf("%d", d.uintV)
	case KindDouble:
		return fmt.Sprintf("%g", d.doubleV)
	case KindDuration:
		return d.durV.Std().String()
	case KindTime:
		return d.timeV.Std().String()
	case KindString:
		return d.strV
	case KindIP:
		return d.ipV.String()
	case KindSubnet:
		return d.subnetV.String()
	case KindPort:
		return d.portV.String()
	case KindList:
		parts := make([]string, len(d.listV))
		for i, v := range d.listV {
			parts[i] = v.String()
		}
		return "[" + strings.Join(parts, ", ") + "]"
	case KindRecord:
		parts := make([]string, len(d.recordV))
		for i, f := range d.recordV {
			parts[i] = f.Name + ": " + f.Value.String()
		}
		return "{" + strings.Join(parts, ", ") + "}"
	case KindMap:
		parts := make([]string, len(d.mapV))
		for i, e := range d.mapV {
			parts[i] = e.Key.String() + " -> " + e.Value.String()
		}
		return "{" + strings.Join(parts, ", ") + "}"
	default:
		return "<invalid>"
	}
}

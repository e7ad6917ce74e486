package evtype

import "fmt"

// Proto is the transport protocol a Port was observed on.
type Proto uint8

const (
	ProtoUnknown Proto = iota
	ProtoTCP
	ProtoUDP
	ProtoICMP
)

func (p Proto) String() string {
	switch p {
	case ProtoTCP:
		return "tcp"
	case ProtoUDP:
		return "udp"
	case ProtoICMP:
		return "icmp"
	default:
		return "unknown"
	}
}

// Port is a transport-layer port number paired with its protocol, one of
// the scalar value kinds a Data can hold (§3.1).
type Port struct {
	Number uint16
	Proto  Proto
}

func (p Port) String() string {
	return fmt.Sprintf("%d/%s", p.Number, p.Proto)
}

// Compare gives a total order over Port values: by number, then protocol.
func (p Port) Compare(other Port) int {
	if p.Number != other.Number {
		if p.Number < other.Number {
			return -1
		}
		return 1
	}
	if p.Proto != other.Proto {
		if p.Proto < other.Proto {
			return -1
		}
		return 1
	}
	return 0
}

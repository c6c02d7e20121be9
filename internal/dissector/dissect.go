package dissector

import "fmt"

// Packet is the result of dissecting one captured BT_RX/BT_TX payload:
// every layer that was successfully parsed, stopping at the first one
// that ran out of data or hit an LLID the dissector never interprets.
type Packet struct {
	Meta      ESP32Meta
	Baseband  Baseband
	ACL       *ACLHeader
	LMP       *LMP
	L2CAPOpaque []byte // present when the ACL LLID selects L2CAP, never decoded further
	Trailing  []byte
}

// Dissect parses the full ESP32-BREDR meta -> baseband -> (ACL) -> LMP
// chain out of data. It is best-effort at every layer past the meta
// header: a short or malformed tail degrades that layer (and anything
// that would follow it) to opaque trailing bytes rather than returning
// an error, so one bad frame never stops the capture.
func Dissect(data []byte) (Packet, bool) {
	var pkt Packet
	meta, rest, ok := ParseESP32Meta(data)
	if !ok {
		return Packet{}, false
	}
	pkt.Meta = meta

	bb, rest, ok := ParseBaseband(rest)
	if !ok {
		pkt.Trailing = rest
		return pkt, true
	}
	pkt.Baseband = bb

	if !bb.HasACL() {
		pkt.Trailing = rest
		return pkt, true
	}

	acl, rest, ok := ParseACLHeader(rest)
	if !ok {
		pkt.Trailing = rest
		return pkt, true
	}
	pkt.ACL = &acl

	switch acl.LLID {
	case LLIDLMP:
		lmp, ok := DissectLMP(rest)
		if ok {
			pkt.LMP = &lmp
		} else {
			pkt.Trailing = rest
		}
	case LLIDL2CAPStart, LLIDContinuation:
		// L2CAP payloads are never interpreted past the ACL boundary.
		pkt.L2CAPOpaque = rest
	default:
		pkt.Trailing = rest
	}
	return pkt, true
}

// Summary renders the deepest successfully-dissected layer, matching
// the one-line-per-packet banner the capture/log path prints.
func (p Packet) Summary() string {
	switch {
	case p.LMP != nil:
		return fmt.Sprintf("%s tid=%d %s", p.Baseband.TypeName(), p.LMP.Header.Tid, p.LMP.Summary())
	case p.L2CAPOpaque != nil:
		return fmt.Sprintf("%s L2CAP (%d bytes, not decoded)", p.Baseband.TypeName(), len(p.L2CAPOpaque))
	case p.ACL != nil:
		return fmt.Sprintf("%s ACL llid=%d len=%d", p.Baseband.TypeName(), p.ACL.LLID, p.ACL.Len)
	default:
		return fmt.Sprintf("%s ch=%d clk=%d", p.Baseband.TypeName(), p.Meta.Channel, p.Meta.Clk)
	}
}

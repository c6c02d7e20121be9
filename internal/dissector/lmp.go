package dissector

import "fmt"

// LMPHeaderLen is the minimum size of an LMP PDU header: a single byte
// holding opcode:7 (top bits) + tid:1 (bottom bit). When opcode is the escape value (127) a
// second byte, the extended opcode, follows before the body.
const LMPHeaderLen = 1

const lmpEscapeOpcode = 127

// LMPHeader is the parsed header of one LMP PDU.
type LMPHeader struct {
	Opcode    uint8
	Tid       uint8
	ExtOpcode uint8 // valid only when Opcode == lmpEscapeOpcode
	Extended  bool
}

// ParseLMPHeader reads the tid/opcode byte, and the extended opcode
// byte when opcode==127, returning the remaining bytes (the body).
// Per the wire rule, opcode 127 MUST consume an extended opcode byte
// and every other opcode MUST NOT.
func ParseLMPHeader(b []byte) (LMPHeader, []byte, bool) {
	if len(b) < LMPHeaderLen {
		return LMPHeader{}, b, false
	}
	b0 := b[0]
	h := LMPHeader{
		Opcode: msb(b0, 0, 7),
		Tid:    msb(b0, 7, 1),
	}
	rest := b[1:]
	if h.Opcode == lmpEscapeOpcode {
		if len(rest) < 1 {
			return LMPHeader{}, b, false
		}
		h.Extended = true
		h.ExtOpcode = rest[0]
		rest = rest[1:]
	}
	return h, rest, true
}

func (h LMPHeader) Encode() []byte {
	b0 := putMSB(0, 0, 7, h.Opcode)
	b0 = putMSB(b0, 7, 1, h.Tid)
	if h.Extended {
		return []byte{b0, h.ExtOpcode}
	}
	return []byte{b0}
}

// newBody returns a fresh, empty Body instance for (opcode, extOpcode),
// or nil if the combination is unassigned/reserved. This is a closed
// dispatch table, not an open registry: every binding spec names is
// listed explicitly so an unrecognized opcode degrades to "opaque"
// instead of silently matching the wrong shape.
func newBody(h LMPHeader) Body {
	if h.Extended {
		return newExtBody(h.ExtOpcode)
	}
	return newBaseBody(h.Opcode)
}

func newBaseBody(opcode uint8) Body {
	switch opcode {
	case 1:
		return &NameReq{}
	case 2:
		return &NameRes{}
	case 3:
		return &Accepted{}
	case 4:
		return &NotAccepted{}
	case 5:
		return &emptyBody{"LMP_clkoffset_req"}
	case 6:
		return &ClkOffsetRes{}
	case 7:
		return &Detach{}
	case 8:
		return &emptyBody{"LMP_hold_req"}
	case 9:
		return &emptyBody{"LMP_sniff_req"} // superseded by opcode 23 below in modern spec; kept for legacy bindings
	case 11:
		return &fixedBytes{name: "LMP_au_rand", n: 16}
	case 12:
		return &fixedBytes{name: "LMP_sres", n: 4}
	case 13:
		return &emptyBody{"LMP_temp_rand"}
	case 14:
		return &emptyBody{"LMP_temp_key"}
	case 15:
		return &u8Body{name: "LMP_encryption_mode_req"}
	case 16:
		return &u8Body{name: "LMP_encryption_key_size_req"}
	case 17:
		return &fixedBytes{name: "LMP_start_encryption_req", n: 16}
	case 18:
		return &emptyBody{"LMP_stop_encryption_req"}
	case 19:
		return &emptyBody{"LMP_switch_req"}
	case 21:
		return &emptyBody{"LMP_park_req"}
	case 23:
		return &SniffReq{}
	case 24:
		return &emptyBody{"LMP_unsniff_req"}
	case 33:
		return &emptyBody{"LMP_max_power"}
	case 34:
		return &emptyBody{"LMP_min_power"}
	case 35:
		return &emptyBody{"LMP_auto_rate"}
	case 36:
		return &PreferredRate{}
	case 37:
		return &VersionInfo{pduName: "LMP_version_req"}
	case 38:
		return &VersionInfo{pduName: "LMP_version_res"}
	case 39:
		return &FeaturesBody{pduName: "LMP_features_req"}
	case 40:
		return &FeaturesBody{pduName: "LMP_features_res"}
	case 45:
		return &MaxSlot{pduName: "LMP_max_slot"}
	case 46:
		return &MaxSlot{pduName: "LMP_max_slot_req"}
	case 47:
		return &emptyBody{"LMP_timing_accuracy_req"}
	case 48:
		return &TimingAccuracyRes{}
	case 49:
		return &emptyBody{"LMP_setup_complete"}
	case 51:
		return &emptyBody{"LMP_host_connection_req"}
	case 53:
		return &PageMode{pduName: "LMP_page_mode_req"}
	case 54:
		return &PageMode{pduName: "LMP_page_scan_mode_req"}
	case 55:
		return &SupervisionTimeout{}
	case 60:
		return &SetAFH{}
	case 61:
		return &EncapHeader{}
	case 62:
		return &fixedBytes{name: "LMP_encapsulated_payload", n: 16}
	case 63:
		return &fixedBytes{name: "LMP_Simple_Pairing_Confirm", n: 16}
	case 64:
		return &fixedBytes{name: "LMP_Simple_Pairing_Number", n: 16}
	case 65:
		return &fixedBytes{name: "LMP_DHkey_Check", n: 16}
	default:
		return nil
	}
}

func newExtBody(extOpcode uint8) Body {
	switch extOpcode {
	case 1:
		return &AcceptedExt{}
	case 2:
		return &NotAcceptedExt{}
	case 3:
		return &FeaturesExt{pduName: "LMP_features_req_ext"}
	case 4:
		return &FeaturesExt{pduName: "LMP_features_res_ext"}
	case 11:
		return &u8Body{name: "LMP_packet_type_table_req"}
	case 16:
		return &ChannelClassReq{}
	case 17:
		return &fixedBytes{name: "LMP_channel_classification", n: 10}
	case 21:
		return &SniffSubrating{pduName: "LMP_sniff_subrating_req"}
	case 22:
		return &SniffSubrating{pduName: "LMP_sniff_subrating_res"}
	case 23:
		return &emptyBody{"LMP_pause_encryption_req"}
	case 24:
		return &emptyBody{"LMP_resume_encryption_req"}
	case 25:
		return &IOCapability{pduName: "LMP_IO_Capability_req"}
	case 26:
		return &IOCapability{pduName: "LMP_IO_Capability_res"}
	case 27:
		return &emptyBody{"LMP_numeric_comparison_failed"}
	case 28:
		return &emptyBody{"LMP_passkey_failed"}
	case 29:
		return &emptyBody{"LMP_oob_failed"}
	case 31:
		return &u8Body{name: "LMP_power_control_req"}
	case 32:
		return &PowerControlRes{}
	case 33:
		return &emptyBody{"LMP_ping_req"}
	case 34:
		return &emptyBody{"LMP_ping_res"}
	default:
		return nil
	}
}

// LMP is a fully dissected LMP PDU: header plus decoded body (or a raw
// opaque tail when the opcode is unassigned or the body was too short
// for its declared fields).
type LMP struct {
	Header LMPHeader
	Body   Body
	Opaque []byte
}

func (p LMP) Summary() string {
	if p.Body != nil {
		return p.Body.Name()
	}
	if p.Header.Extended {
		return fmt.Sprintf("LMP ext opcode %d (opaque)", p.Header.ExtOpcode)
	}
	return fmt.Sprintf("LMP opcode %d (opaque)", p.Header.Opcode)
}

// DissectLMP parses one LMP header and its body out of b. It fails only
// when the header itself cannot be read (b is empty, or opcode 127 has
// no extended opcode byte): an unrecognized opcode or a body shorter
// than its declared fields degrades to an opaque payload rather than
// aborting the rest of the packet's dissection.
func DissectLMP(b []byte) (LMP, bool) {
	h, rest, ok := ParseLMPHeader(b)
	if !ok {
		return LMP{}, false
	}
	out := LMP{Header: h}
	body := newBody(h)
	if body == nil || !body.Decode(rest) {
		out.Opaque = rest
		return out, true
	}
	out.Body = body
	return out, true
}

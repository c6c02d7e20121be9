package dissector

import "testing"

// TestDissectLMPBaseOpcode mirrors the version_req scenario: LMP byte
// 0x4A decodes to opcode 37 (version_req), tid 0, with body fields
// {version:8, company_id:0x000F, subversion:0x6109}.
func TestDissectLMPBaseOpcode(t *testing.T) {
	raw := []byte{0x4A, 0x08, 0x0F, 0x00, 0x09, 0x61}
	lmp, ok := DissectLMP(raw)
	if !ok {
		t.Fatal("DissectLMP failed")
	}
	if lmp.Header.Opcode != 37 || lmp.Header.Tid != 0 || lmp.Header.Extended {
		t.Fatalf("header = %+v, want opcode=37 tid=0 extended=false", lmp.Header)
	}
	vi, ok := lmp.Body.(*VersionInfo)
	if !ok {
		t.Fatalf("body type = %T, want *VersionInfo", lmp.Body)
	}
	if vi.Version != 8 || vi.CompanyID != 0x000F || vi.SubVersion != 0x6109 {
		t.Fatalf("version info = %+v, want {8 0x000F 0x6109}", vi)
	}
}

// TestDissectLMPExtendedOpcode mirrors the features_req_ext scenario:
// LMP bytes 0xFE 0x03 decode to opcode 127 / ext_opcode 3, with the
// body's fpage/max_page/features fields read in order.
func TestDissectLMPExtendedOpcode(t *testing.T) {
	raw := []byte{0xFE, 0x03, 0x01, 0x02, 1, 2, 3, 4, 5, 6, 7, 8}
	lmp, ok := DissectLMP(raw)
	if !ok {
		t.Fatal("DissectLMP failed")
	}
	if !lmp.Header.Extended || lmp.Header.ExtOpcode != 3 {
		t.Fatalf("header = %+v, want extended opcode 3", lmp.Header)
	}
	fe, ok := lmp.Body.(*FeaturesExt)
	if !ok {
		t.Fatalf("body type = %T, want *FeaturesExt", lmp.Body)
	}
	if fe.FPage != 1 || fe.MaxPage != 2 {
		t.Fatalf("features ext = %+v, want fpage=1 max_page=2", fe)
	}
}

// TestLMPOpcode127ConsumesExtOpcode checks Testable Property 4: opcode
// 127 consumes a second byte, every other opcode does not.
func TestLMPOpcode127ConsumesExtOpcode(t *testing.T) {
	h, rest, ok := ParseLMPHeader([]byte{0xFE, 0x03, 0xAA, 0xBB})
	if !ok || !h.Extended || h.ExtOpcode != 3 {
		t.Fatalf("opcode 127 header = %+v ok=%v, want extended ext_opcode=3", h, ok)
	}
	if len(rest) != 2 || rest[0] != 0xAA {
		t.Fatalf("rest = %v, want body bytes after header+ext_opcode consumed", rest)
	}

	h2, rest2, ok := ParseLMPHeader([]byte{0x4A, 0xAA, 0xBB})
	if !ok || h2.Extended {
		t.Fatalf("opcode 37 header = %+v ok=%v, want non-extended", h2, ok)
	}
	if len(rest2) != 2 || rest2[0] != 0xAA {
		t.Fatalf("rest = %v, want body bytes after single header byte consumed", rest2)
	}
}

// TestLMPBodyRoundTrip is Testable Property 2: encode then decode every
// registered body and confirm field-equal output (trailing padding is
// by construction never part of a body's Encode output).
func TestLMPBodyRoundTrip(t *testing.T) {
	bodies := []Body{
		&NameReq{NameOffset: 5},
		&NameRes{NameOffset: 1, NameFrag: []byte("esp32")},
		&Accepted{Code: 37},
		&NotAccepted{Code: 37, ErrorCode: 0x0C},
		&Detach{ErrorCode: 0x13},
		&ClkOffsetRes{Offset: 0x1234},
		&SniffReq{TimeCtr: 1, DSniff: 2, TSniff: 3, SniffAttempt: 4, SniffTimeout: 5},
		&PreferredRate{RFU: 0, EDRSize: 1, Type: 2, Size: 3, FEC: 1},
		&VersionInfo{pduName: "LMP_version_req", Version: 8, CompanyID: 15, SubVersion: 0x6109},
		&FeaturesBody{pduName: "LMP_features_req", Features: 0x00001FFFFFFFFFFF},
		&MaxSlot{pduName: "LMP_max_slot", MaxSlots: 5},
		&TimingAccuracyRes{Drift: 10, Jitter: 20},
		&PageMode{pduName: "LMP_page_mode_req", Scheme: 1, Settings: 2},
		&SupervisionTimeout{Timeout: 0x0C80},
		&SetAFH{Instant: 0xAABBCCDD, Mode: 1, ChM: []byte{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}},
		&EncapHeader{MajorType: 1, MinorType: 2, EncLen: 16},
		&fixedBytes{name: "LMP_au_rand", n: 16, data: make([]byte, 16)},
		&AcceptedExt{Code1: 3, Code2: 0},
		&NotAcceptedExt{Code1: 3, Code2: 0, ErrorCode: 0x0C},
		&FeaturesExt{pduName: "LMP_features_req_ext", FPage: 1, MaxPage: 2, Features: 0x0102030405060708},
		&ChannelClassReq{Mode: 1, MinInterval: 10, MaxInterval: 20},
		&SniffSubrating{pduName: "LMP_sniff_subrating_req", MaxSniffSubrate: 2, MinSniffTimeout: 100, SubratingInstant: 200},
		&IOCapability{pduName: "LMP_IO_Capability_req", IOCap: 1, OOB: 0, Auth: 3},
		&PowerControlRes{P8DPSK: 1, PDQPSK: 2, PGFSK: 3},
		&u8Body{name: "LMP_encryption_mode_req", val: 1},
		&emptyBody{"LMP_setup_complete"},
	}

	for _, b := range bodies {
		wire := b.Encode()
		clone := newBodyLike(b)
		if !clone.Decode(wire) {
			t.Fatalf("%s: decode of own encoding failed", b.Name())
		}
		if clone2 := clone.Encode(); !bytesEqual(clone2, wire) {
			t.Fatalf("%s: round-trip mismatch: %v != %v", b.Name(), clone2, wire)
		}
	}
}

// newBodyLike returns a zero-valued body of the same concrete type as b,
// preserving any pduName so Name()-dependent behavior still matches.
func newBodyLike(b Body) Body {
	switch v := b.(type) {
	case *NameReq:
		return &NameReq{}
	case *NameRes:
		return &NameRes{}
	case *Accepted:
		return &Accepted{}
	case *NotAccepted:
		return &NotAccepted{}
	case *Detach:
		return &Detach{}
	case *ClkOffsetRes:
		return &ClkOffsetRes{}
	case *SniffReq:
		return &SniffReq{}
	case *PreferredRate:
		return &PreferredRate{}
	case *VersionInfo:
		return &VersionInfo{pduName: v.pduName}
	case *FeaturesBody:
		return &FeaturesBody{pduName: v.pduName}
	case *MaxSlot:
		return &MaxSlot{pduName: v.pduName}
	case *TimingAccuracyRes:
		return &TimingAccuracyRes{}
	case *PageMode:
		return &PageMode{pduName: v.pduName}
	case *SupervisionTimeout:
		return &SupervisionTimeout{}
	case *SetAFH:
		return &SetAFH{}
	case *EncapHeader:
		return &EncapHeader{}
	case *fixedBytes:
		return &fixedBytes{name: v.name, n: v.n}
	case *AcceptedExt:
		return &AcceptedExt{}
	case *NotAcceptedExt:
		return &NotAcceptedExt{}
	case *FeaturesExt:
		return &FeaturesExt{pduName: v.pduName}
	case *ChannelClassReq:
		return &ChannelClassReq{}
	case *SniffSubrating:
		return &SniffSubrating{pduName: v.pduName}
	case *IOCapability:
		return &IOCapability{pduName: v.pduName}
	case *PowerControlRes:
		return &PowerControlRes{}
	case *u8Body:
		return &u8Body{name: v.name}
	case *emptyBody:
		return &emptyBody{name: v.name}
	default:
		panic("newBodyLike: unhandled body type")
	}
}

func bytesEqual(a, b []byte) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

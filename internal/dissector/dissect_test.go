package dissector

import "testing"

func metaBytes(channel uint8) []byte {
	m := ESP32Meta{Clk: 0x11223344, Channel: channel, Role: 0, IsEDR: true}
	return m.Encode()
}

// TestDissectStopsAtOpaqueBaseband covers Testable Property 7: baseband
// types outside {DM1, DH1/2-DH1, DV/3-DH1} never get an ACL header.
func TestDissectStopsAtOpaqueBaseband(t *testing.T) {
	bb := Baseband{Type: BBTypePOLL}
	data := append(metaBytes(10), bb.Encode()...)
	pkt, ok := Dissect(data)
	if !ok {
		t.Fatal("Dissect failed")
	}
	if pkt.ACL != nil {
		t.Fatalf("ACL = %+v, want nil for POLL baseband type", pkt.ACL)
	}
}

// TestDissectFollowsACLForDM1DH1DV3DH1 covers the three baseband types
// that do carry an ACL header.
func TestDissectFollowsACLForDM1DH1DV3DH1(t *testing.T) {
	for _, bbType := range []uint8{BBTypeDM1, BBTypeDH1, BBTypeDV3DH1} {
		bb := Baseband{Type: bbType}
		acl := ACLHeader{LLID: LLIDLMP, Len: 1}
		lmpBytes := []byte{0x4A, 0x08, 0x0F, 0x00, 0x09, 0x61}
		data := append(metaBytes(1), bb.Encode()...)
		data = append(data, acl.Encode()...)
		data = append(data, lmpBytes...)

		pkt, ok := Dissect(data)
		if !ok {
			t.Fatalf("type %#x: Dissect failed", bbType)
		}
		if pkt.ACL == nil {
			t.Fatalf("type %#x: ACL = nil, want header present", bbType)
		}
		if pkt.LMP == nil || pkt.LMP.Header.Opcode != 37 {
			t.Fatalf("type %#x: LMP = %+v, want opcode 37", bbType, pkt.LMP)
		}
	}
}

// TestDissectL2CAPNeverDecoded confirms the Non-goal: L2CAP payloads are
// left opaque once the LLID selects them.
func TestDissectL2CAPNeverDecoded(t *testing.T) {
	bb := Baseband{Type: BBTypeDM1}
	acl := ACLHeader{LLID: LLIDL2CAPStart, Len: 4}
	payload := []byte{0xDE, 0xAD, 0xBE, 0xEF}
	data := append(metaBytes(1), bb.Encode()...)
	data = append(data, acl.Encode()...)
	data = append(data, payload...)

	pkt, ok := Dissect(data)
	if !ok {
		t.Fatal("Dissect failed")
	}
	if pkt.LMP != nil {
		t.Fatalf("LMP = %+v, want nil for L2CAP LLID", pkt.LMP)
	}
	if len(pkt.L2CAPOpaque) != len(payload) {
		t.Fatalf("L2CAPOpaque = %v, want %v untouched", pkt.L2CAPOpaque, payload)
	}
}

// TestDissectDegradesOnShortData confirms the best-effort policy: a
// truncated baseband segment degrades to the meta layer only instead of
// failing the whole dissection.
func TestDissectDegradesOnShortData(t *testing.T) {
	data := metaBytes(5) // no baseband bytes follow
	pkt, ok := Dissect(data)
	if !ok {
		t.Fatal("Dissect failed on short trailing data, want best-effort success")
	}
	if pkt.ACL != nil || pkt.LMP != nil {
		t.Fatalf("pkt = %+v, want no deeper layers parsed", pkt)
	}
}

// TestMetaRoundTrip checks ESP32Meta.Encode/ParseESP32Meta agree.
func TestMetaRoundTrip(t *testing.T) {
	m := ESP32Meta{Clk: 0xCAFEBABE, Channel: 37, IsEIR: true, RxEnc: true, Role: 1, IsEDR: true}
	parsed, _, ok := ParseESP32Meta(m.Encode())
	if !ok {
		t.Fatal("ParseESP32Meta failed")
	}
	if parsed != m {
		t.Fatalf("parsed = %+v, want %+v", parsed, m)
	}
}

// TestBasebandACLRoundTrip checks Baseband/ACLHeader Encode/Parse agree.
func TestBasebandACLRoundTrip(t *testing.T) {
	bb := Baseband{Flow: 1, Type: BBTypeDH1, LTAddr: 5, ARQN: 1, SEQN: 0, HEC: 0x2A}
	parsedBB, _, ok := ParseBaseband(bb.Encode())
	if !ok || parsedBB != bb {
		t.Fatalf("baseband round-trip = %+v, want %+v", parsedBB, bb)
	}

	acl := ACLHeader{Len: 17, Flow: 1, LLID: LLIDLMP, Dummy: 0x99}
	parsedACL, _, ok := ParseACLHeader(acl.Encode())
	if !ok || parsedACL != acl {
		t.Fatalf("ACL round-trip = %+v, want %+v", parsedACL, acl)
	}
}

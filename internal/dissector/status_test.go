package dissector

import "testing"

// TestParseControllerStatus checks the LSB-first bit allocation, which
// differs from ESP32Meta's MSB-first allocation over the same 6 bytes.
func TestParseControllerStatus(t *testing.T) {
	// flags byte: bit0=ptt(1) bit1=role(1) bit7=is_eir(1), rest 0.
	b := []byte{0x44, 0x33, 0x22, 0x11, 42, 0b1000_0011}
	st := ParseControllerStatus(b)
	if st.Clock != 0x11223344 || st.Channel != 42 {
		t.Fatalf("clock/channel = %#x/%d, want 0x11223344/42", st.Clock, st.Channel)
	}
	if !st.PTT || st.Role != 1 || st.CustomLMP || st.RetryFlag || st.InterceptReq ||
		st.TXEncrypted || st.RXEncrypted || !st.IsEIR {
		t.Fatalf("status flags = %+v, want only ptt+role+is_eir set", st)
	}
}

func TestBitHelpersMSBAndLSB(t *testing.T) {
	var b byte = 0b1011_0010
	if v := msb(b, 0, 4); v != 0b1011 {
		t.Fatalf("msb(0,4) = %#b, want 1011", v)
	}
	if v := lsb(b, 0, 4); v != 0b0010 {
		t.Fatalf("lsb(0,4) = %#b, want 0010", v)
	}
	out := putMSB(0, 2, 3, 0b101)
	if out != 0b00101_000 {
		t.Fatalf("putMSB = %#b, want 00101000", out)
	}
	out2 := putLSB(0, 2, 3, 0b101)
	if out2 != 0b000_10100 {
		t.Fatalf("putLSB = %#b, want 00010100", out2)
	}
}

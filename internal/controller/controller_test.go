package controller

import (
	"bufio"
	"bytes"
	"testing"
)

type fakeWriter struct{ buf bytes.Buffer }

func (f *fakeWriter) Write(p []byte) (int, error) { return f.buf.Write(p) }

// TestGetVersion is scenario S1: writing 0xEE and reading back
// "v1.2.3\n" yields the parsed version string "v1.2.3".
func TestGetVersion(t *testing.T) {
	w := &fakeWriter{}
	r := bufio.NewReader(bytes.NewReader([]byte("v1.2.3\n")))
	c := New("/dev/ttyUSB0", w, r)

	version, err := c.GetVersion()
	if err != nil {
		t.Fatalf("GetVersion: %v", err)
	}
	if version != "v1.2.3" {
		t.Fatalf("version = %q, want %q", version, "v1.2.3")
	}
	if !bytes.Equal(w.buf.Bytes(), []byte{0xEE}) {
		t.Fatalf("wrote %v, want {0xEE}", w.buf.Bytes())
	}
}

func TestGetVersionUnresponsive(t *testing.T) {
	w := &fakeWriter{}
	r := bufio.NewReader(bytes.NewReader(nil))
	c := New("/dev/ttyUSB0", w, r)
	if _, err := c.GetVersion(); err == nil {
		t.Fatal("expected FirmwareUnresponsive on empty reply")
	}
}

// TestSetBDAddr is scenario S2: AA:BB:CC:DD:EE:FF reverses to
// 87 FF EE DD CC BB AA on the wire.
func TestSetBDAddr(t *testing.T) {
	w := &fakeWriter{}
	r := bufio.NewReader(bytes.NewReader(nil))
	c := New("/dev/ttyUSB0", w, r)

	if err := c.SetBDAddr("AA:BB:CC:DD:EE:FF"); err != nil {
		t.Fatalf("SetBDAddr: %v", err)
	}
	want := []byte{0x87, 0xFF, 0xEE, 0xDD, 0xCC, 0xBB, 0xAA}
	if !bytes.Equal(w.buf.Bytes(), want) {
		t.Fatalf("wrote %x, want %x", w.buf.Bytes(), want)
	}
}

func TestParseBDAddrRejectsMalformed(t *testing.T) {
	cases := []string{"AA:BB:CC:DD:EE", "AA:BB:CC:DD:EE:GG", "not-an-addr"}
	for _, c := range cases {
		if _, err := ParseBDAddr(c); err == nil {
			t.Fatalf("ParseBDAddr(%q): expected error", c)
		}
	}
}

func TestSoftReset(t *testing.T) {
	w := &fakeWriter{}
	r := bufio.NewReader(bytes.NewReader(nil))
	c := New("/dev/ttyUSB0", w, r)
	if err := c.SoftReset(); err != nil {
		t.Fatalf("SoftReset: %v", err)
	}
	want := []byte{0x86, 0x86, 0xAA}
	if !bytes.Equal(w.buf.Bytes(), want) {
		t.Fatalf("wrote %x, want %x", w.buf.Bytes(), want)
	}
}

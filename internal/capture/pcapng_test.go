package capture

import (
	"bytes"
	"testing"
	"time"
)

func TestPcapNGWriterEmitsHeaderBlocksOnce(t *testing.T) {
	var buf bytes.Buffer
	w := NewPcapNGWriter(&buf, LinktypeBluetoothH4WithPhdr)

	if err := w.WritePacket(time.Unix(0, 0), []byte{1, 2, 3}); err != nil {
		t.Fatalf("WritePacket: %v", err)
	}
	afterFirst := buf.Len()
	if err := w.WritePacket(time.Unix(0, 0), []byte{4, 5}); err != nil {
		t.Fatalf("WritePacket: %v", err)
	}
	// The second write adds only its own 36-byte EPB (32 fixed bytes +
	// 2 data bytes padded to 4), never a repeated SHB/IDB.
	if got := buf.Len() - afterFirst; got != 36 {
		t.Fatalf("second WritePacket added %d bytes, want 36 (one EPB, no header blocks)", got)
	}

	// SHB + IDB are 28 + 20 bytes and must appear exactly once, at the
	// front of the stream.
	if buf.Len() < 48 {
		t.Fatalf("buffer too short for SHB+IDB: %d bytes", buf.Len())
	}
	magic := buf.Bytes()[0:4]
	if magic[0] != 0x0A || magic[1] != 0x0D || magic[2] != 0x0D || magic[3] != 0x0A {
		t.Fatalf("SHB magic = %v, want 0A 0D 0D 0A", magic)
	}
}

func TestPcapNGWriterBlockLengthMatchesTrailer(t *testing.T) {
	var buf bytes.Buffer
	w := NewPcapNGWriter(&buf, LinktypeBluetoothH4WithPhdr)
	if err := w.WritePacket(time.Unix(0, 0), []byte{1, 2, 3, 4, 5}); err != nil {
		t.Fatalf("WritePacket: %v", err)
	}
	// The EPB starts right after the 48-byte SHB+IDB preamble.
	epb := buf.Bytes()[48:]
	leadLen := uint32(epb[4]) | uint32(epb[5])<<8 | uint32(epb[6])<<16 | uint32(epb[7])<<24
	trailLen := uint32(epb[leadLen-4]) | uint32(epb[leadLen-3])<<8 | uint32(epb[leadLen-2])<<16 | uint32(epb[leadLen-1])<<24
	if leadLen != trailLen {
		t.Fatalf("leading length %d != trailing length %d", leadLen, trailLen)
	}
}

package wire

import (
	"bytes"
	"errors"
	"testing"

	"github.com/esp32bredr/sniffer/internal/snifferr"
)

// TestReadBTChecksumOK is scenario S3: a well-formed BT_RX frame yields
// a single record with the expected data.
func TestReadBTChecksumOK(t *testing.T) {
	raw := []byte{0xA7, 0x03, 0x00, 0x01, 0x02, 0x03, 0x06}
	f := New(bytes.NewReader(raw))
	frame, err := f.ReadFrame()
	if err != nil {
		t.Fatalf("ReadFrame: %v", err)
	}
	if frame == nil {
		t.Fatal("ReadFrame returned nil frame for a valid BT_RX")
	}
	if frame.Kind != KindBTRX || frame.Direction != DirRX {
		t.Fatalf("frame = %+v, want KindBTRX/DirRX", frame)
	}
	if !bytes.Equal(frame.Data, []byte{0x01, 0x02, 0x03}) {
		t.Fatalf("data = %v, want {1,2,3}", frame.Data)
	}
}

// TestReadBTChecksumFail is scenario S4: a bad checksum drops the frame
// and returns a *snifferr.ChecksumError, with no upward dispatch.
func TestReadBTChecksumFail(t *testing.T) {
	raw := []byte{0xA7, 0x03, 0x00, 0x01, 0x02, 0x03, 0x07}
	f := New(bytes.NewReader(raw))
	frame, err := f.ReadFrame()
	if frame != nil {
		t.Fatalf("frame = %+v, want nil on checksum failure", frame)
	}
	var ck *snifferr.ChecksumError
	if !errors.As(err, &ck) {
		t.Fatalf("err = %v, want *snifferr.ChecksumError", err)
	}
}

// TestReadFrameResyncsAfterChecksumFail confirms that framing is not
// disturbed by a checksum failure: the following frame in the stream
// parses cleanly because BT_RX/BT_TX framing is strictly length-prefixed.
func TestReadFrameResyncsAfterChecksumFail(t *testing.T) {
	raw := []byte{
		0xA7, 0x03, 0x00, 0x01, 0x02, 0x03, 0x07, // bad checksum
		0xA7, 0x02, 0x00, 0x0A, 0x0B, 0x15, // good: sum(0x0A,0x0B)=0x15
	}
	f := New(bytes.NewReader(raw))
	if _, err := f.ReadFrame(); err == nil {
		t.Fatal("expected checksum error on first frame")
	}
	frame, err := f.ReadFrame()
	if err != nil {
		t.Fatalf("ReadFrame after resync: %v", err)
	}
	if !bytes.Equal(frame.Data, []byte{0x0A, 0x0B}) {
		t.Fatalf("data = %v, want {0x0A,0x0B}", frame.Data)
	}
}

// TestReadHCIEvtReassemblesRaw verifies the HCI bridge's byte-identical
// reassembly contract (Testable Property 3): Raw must equal tag||header||payload.
func TestReadHCIEvtReassemblesRaw(t *testing.T) {
	raw := []byte{0x04, 0x0E, 0x04, 0x01, 0x03, 0x0C, 0x00}
	f := New(bytes.NewReader(raw))
	frame, err := f.ReadFrame()
	if err != nil {
		t.Fatalf("ReadFrame: %v", err)
	}
	if !bytes.Equal(frame.Raw, raw) {
		t.Fatalf("raw = %v, want %v", frame.Raw, raw)
	}
}

// TestReadFrameSkipsAcks confirms the single-byte ack tags are consumed
// silently and never dispatched upward.
func TestReadFrameSkipsAcks(t *testing.T) {
	raw := []byte{0xA8, 0xA9, 0xAA, 0xCC}
	f := New(bytes.NewReader(raw))
	for i := 0; i < 4; i++ {
		frame, err := f.ReadFrame()
		if err != nil {
			t.Fatalf("ReadFrame ack %d: %v", i, err)
		}
		if frame != nil {
			t.Fatalf("ack %d: frame = %+v, want nil", i, frame)
		}
	}
}

// Package wire implements the serial wire-protocol framer between the
// host and the ESP32BT board: one tagged frame at a time, off a single
// byte-oriented link that multiplexes sniffed BR/EDR frames and HCI
// channels (see the tag table in the board firmware's USB serial
// protocol).
package wire

import (
	"bufio"
	"encoding/binary"
	"io"

	"github.com/esp32bredr/sniffer/internal/snifferr"
)

// Tag is the first byte of every frame on the wire.
type Tag byte

const (
	TagHCIEvt  Tag = 0x04
	TagHCIACL  Tag = 0x02
	TagHCICmd  Tag = 0x01
	TagBTRX    Tag = 0xA7
	TagBTTX    Tag = 0xBB
	TagLog     Tag = 0x7F
	TagChkErr  Tag = 0xA8
	TagCfgAckA Tag = 0xA9
	TagCfgAckB Tag = 0xAA
	TagCfgLog  Tag = 0xCC
)

// Kind discriminates the parsed Frame union.
type Kind int

const (
	KindHCIEvt Kind = iota
	KindHCIACL
	KindHCICmd
	KindBTRX
	KindBTTX
	KindLog
	KindAck
)

// Direction tags a BT_RX/BT_TX frame by which way it crossed the air
// interface, matching the HCI pseudo-header's direction bit (1=RX, 0=TX).
type Direction byte

const (
	DirTX Direction = 0
	DirRX Direction = 1
)

// Frame is the tagged union the framer hands upward. Only the fields
// relevant to Kind are populated.
type Frame struct {
	Kind Kind

	// Raw holds the exact wire bytes tag||header||payload for HCI-kind
	// frames, so the HCI bridge can reassemble them byte-identically
	// onto the PTY master without re-encoding.
	Raw []byte

	// HCI fields.
	Opcode  uint16
	Handle  uint16
	Payload []byte

	// BT_RX / BT_TX fields.
	Data      []byte
	Direction Direction

	// Log text, for KindLog frames.
	Text string
}

// Framer parses one frame at a time from a byte stream. It reads through
// a 512-byte bufio.Reader, so bytes of later frames may already sit in
// its buffer when a frame is returned; they are not visible to other
// readers of the same stream. On a checksum failure it returns an error
// without losing framing sync, since every frame type is strictly
// length-prefixed.
type Framer struct {
	r *bufio.Reader
}

// New wraps r (typically a serial.Port) in a Framer.
func New(r io.Reader) *Framer {
	return &Framer{r: bufio.NewReaderSize(r, 512)}
}

// ReadFrame blocks for exactly one frame. It returns (nil, nil) for
// single-byte acks and unknown tags after consuming them, a KindLog
// frame carrying the text of a LOG line, and a *snifferr.ChecksumError for a BT_RX/BT_TX
// frame whose checksum does not match — in both cases the stream is
// still correctly positioned at the next tag byte.
func (f *Framer) ReadFrame() (*Frame, error) {
	tagByte, err := f.r.ReadByte()
	if err != nil {
		return nil, err
	}
	switch Tag(tagByte) {
	case TagHCIEvt:
		return f.readHCIEvt()
	case TagHCIACL:
		return f.readHCIACL()
	case TagHCICmd:
		return f.readHCICmd()
	case TagBTRX:
		return f.readBT(KindBTRX, DirRX)
	case TagBTTX:
		return f.readBT(KindBTTX, DirTX)
	case TagLog:
		return f.readLog()
	case TagChkErr, TagCfgAckA, TagCfgAckB, TagCfgLog:
		// Single-byte acknowledgements: the tag is the whole frame.
		return nil, nil
	default:
		// Unknown tag: nothing to resynchronize on but the next byte.
		return nil, nil
	}
}

func (f *Framer) readHCIEvt() (*Frame, error) {
	hdr := make([]byte, 2)
	if _, err := io.ReadFull(f.r, hdr); err != nil {
		return nil, err
	}
	opcode, length := hdr[0], hdr[1]
	payload := make([]byte, length)
	if _, err := io.ReadFull(f.r, payload); err != nil {
		return nil, err
	}
	raw := make([]byte, 0, 1+len(hdr)+len(payload))
	raw = append(raw, byte(TagHCIEvt))
	raw = append(raw, hdr...)
	raw = append(raw, payload...)
	return &Frame{Kind: KindHCIEvt, Raw: raw, Opcode: uint16(opcode), Payload: payload}, nil
}

func (f *Framer) readHCIACL() (*Frame, error) {
	hdr := make([]byte, 4)
	if _, err := io.ReadFull(f.r, hdr); err != nil {
		return nil, err
	}
	handle := binary.LittleEndian.Uint16(hdr[0:2])
	length := binary.LittleEndian.Uint16(hdr[2:4])
	payload := make([]byte, length)
	if _, err := io.ReadFull(f.r, payload); err != nil {
		return nil, err
	}
	raw := make([]byte, 0, 1+len(hdr)+len(payload))
	raw = append(raw, byte(TagHCIACL))
	raw = append(raw, hdr...)
	raw = append(raw, payload...)
	return &Frame{Kind: KindHCIACL, Raw: raw, Handle: handle, Payload: payload}, nil
}

func (f *Framer) readHCICmd() (*Frame, error) {
	hdr := make([]byte, 3)
	if _, err := io.ReadFull(f.r, hdr); err != nil {
		return nil, err
	}
	opcode := binary.LittleEndian.Uint16(hdr[0:2])
	length := hdr[2]
	payload := make([]byte, length)
	if length > 0 {
		if _, err := io.ReadFull(f.r, payload); err != nil {
			return nil, err
		}
	}
	raw := make([]byte, 0, 1+len(hdr)+len(payload))
	raw = append(raw, byte(TagHCICmd))
	raw = append(raw, hdr...)
	raw = append(raw, payload...)
	return &Frame{Kind: KindHCICmd, Raw: raw, Opcode: opcode, Payload: payload}, nil
}

func (f *Framer) readBT(kind Kind, dir Direction) (*Frame, error) {
	szBuf := make([]byte, 2)
	if _, err := io.ReadFull(f.r, szBuf); err != nil {
		return nil, err
	}
	size := binary.LittleEndian.Uint16(szBuf)
	data := make([]byte, size)
	if size > 0 {
		if _, err := io.ReadFull(f.r, data); err != nil {
			return nil, err
		}
	}
	checksum, err := f.r.ReadByte()
	if err != nil {
		return nil, err
	}
	var sum byte
	for _, b := range data {
		sum += b
	}
	if sum != checksum {
		return nil, &snifferr.ChecksumError{Want: checksum, Got: sum}
	}
	return &Frame{Kind: kind, Data: data, Direction: dir}, nil
}

func (f *Framer) readLog() (*Frame, error) {
	line, err := f.r.ReadString('\n')
	// A LOG frame with no trailing newline (stream closed mid-line) still
	// carries whatever text arrived; only a hard read error propagates.
	if err != nil && len(line) == 0 {
		return nil, err
	}
	return &Frame{Kind: KindLog, Text: line}, nil
}

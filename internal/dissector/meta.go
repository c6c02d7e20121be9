package dissector

import "encoding/binary"

// MetaLen is the fixed size of the ESP32-BREDR meta header.
const MetaLen = 6

// ESP32Meta is the vendor meta header every dissected frame starts with:
// the same 6 raw bytes as ControllerStatus, but read as the fields the
// capture record persists (the three status bits 2-4 the driver calls
// custom_lmp/retry_flag/intercept_req are opaque "rfu" from this side
// of the wire).
type ESP32Meta struct {
	Clk     uint32
	Channel uint8
	IsEIR   bool
	RxEnc   bool
	TxEnc   bool
	RFU     uint8
	Role    uint8 // 0=Master, 1=Slave
	IsEDR   bool
}

// ParseESP32Meta consumes the first MetaLen bytes of b and returns the
// decoded header along with the remainder.
func ParseESP32Meta(b []byte) (ESP32Meta, []byte, bool) {
	if len(b) < MetaLen {
		return ESP32Meta{}, b, false
	}
	flags := b[5]
	m := ESP32Meta{
		Clk:     binary.LittleEndian.Uint32(b[0:4]),
		Channel: b[4],
		IsEIR:   msb(flags, 0, 1) != 0,
		RxEnc:   msb(flags, 1, 1) != 0,
		TxEnc:   msb(flags, 2, 1) != 0,
		RFU:     msb(flags, 3, 3),
		Role:    msb(flags, 6, 1),
		IsEDR:   msb(flags, 7, 1) != 0,
	}
	return m, b[MetaLen:], true
}

// Encode serializes the meta header back to its 6-byte wire form.
func (m ESP32Meta) Encode() []byte {
	out := make([]byte, MetaLen)
	binary.LittleEndian.PutUint32(out[0:4], m.Clk)
	out[4] = m.Channel
	var flags byte
	flags = putMSB(flags, 0, 1, b2u(m.IsEIR))
	flags = putMSB(flags, 1, 1, b2u(m.RxEnc))
	flags = putMSB(flags, 2, 1, b2u(m.TxEnc))
	flags = putMSB(flags, 3, 3, m.RFU)
	flags = putMSB(flags, 6, 1, m.Role)
	flags = putMSB(flags, 7, 1, b2u(m.IsEDR))
	out[5] = flags
	return out
}

func b2u(b bool) byte {
	if b {
		return 1
	}
	return 0
}

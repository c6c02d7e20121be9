package dissector

import "encoding/binary"

// ControllerStatus is the board's own 6-byte piconet status snapshot,
// packed LSB-first: a 32-bit clock, an 8-bit channel, then eight
// single-bit flags allocated from bit0 up. The RX loop does not parse
// it: dissection reads the same bytes as ESP32Meta, and nothing
// downstream persists a ControllerStatus.
type ControllerStatus struct {
	Clock          uint32
	Channel        uint8
	PTT            bool
	Role           uint8 // 0=Master, 1=Slave
	CustomLMP      bool
	RetryFlag      bool
	InterceptReq   bool
	TXEncrypted    bool
	RXEncrypted    bool
	IsEIR          bool
}

// ParseControllerStatus reads the first 6 bytes of a BT_RX/BT_TX frame.
// It panics if given fewer than 6 bytes; callers must bounds-check.
func ParseControllerStatus(b []byte) ControllerStatus {
	flags := b[5]
	return ControllerStatus{
		Clock:        binary.LittleEndian.Uint32(b[0:4]),
		Channel:      b[4],
		PTT:          lsb(flags, 0, 1) != 0,
		Role:         lsb(flags, 1, 1),
		CustomLMP:    lsb(flags, 2, 1) != 0,
		RetryFlag:    lsb(flags, 3, 1) != 0,
		InterceptReq: lsb(flags, 4, 1) != 0,
		TXEncrypted:  lsb(flags, 5, 1) != 0,
		RXEncrypted:  lsb(flags, 6, 1) != 0,
		IsEIR:        lsb(flags, 7, 1) != 0,
	}
}

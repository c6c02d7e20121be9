package capture

import "github.com/esp32bredr/sniffer/internal/wire"

// hciVendorType is the HCI header's type field for an ESP32-BREDR meta
// frame, per §3's capture record definition.
const hciVendorType = 9

// BuildRecord assembles HCI_PHDR{direction} || H4{type=9} || dissected,
// the unit every sink writes. direction follows wire.Direction (1=RX
// from BT_RX tags, 0=TX from BT_TX tags). The H4 packet's type
// indicator is a single byte (scapy's HCI_Hdr is one ByteEnumField),
// not a 4-byte header; LinktypeBluetoothH4WithPhdr is direction (4
// bytes) directly followed by that H4 packet.
func BuildRecord(dir wire.Direction, dissected []byte) []byte {
	out := make([]byte, 0, 4+1+len(dissected))
	// HCI pseudo-header: direction as a big-endian uint32, matching the
	// libpcap/Wireshark BLUETOOTH_HCI_H4_WITH_PHDR convention.
	out = append(out, 0, 0, 0, byte(dir))
	// H4 type indicator.
	out = append(out, hciVendorType)
	out = append(out, dissected...)
	return out
}

// Package capture wraps dissected frames in the HCI pseudo-header and
// HCI header the spec's capture record requires, and fans the result
// out to one or more pcap-ng sinks (a file and/or a live FIFO). No
// third-party pcap-ng writer carries usable source in this pack, so the
// format is hand-rolled here to the minimal block set Wireshark needs:
// a Section Header Block, one Interface Description Block, and an
// Enhanced Packet Block per capture record.
package capture

import (
	"encoding/binary"
	"io"
	"time"
)

// LinktypeBluetoothH4WithPhdr is the pcap-ng/libpcap link-layer type for
// H4 HCI frames prefixed with the 4-byte direction pseudo-header, which
// is exactly the record shape the capture pipeline produces.
const LinktypeBluetoothH4WithPhdr = 201

const (
	blockSHB = 0x0A0D0D0A
	blockIDB = 0x00000001
	blockEPB = 0x00000006
	byteOrderMagic = 0x1A2B3C4D
)

// PcapNGWriter emits pcap-ng blocks to an underlying io.Writer. It is
// not safe for concurrent use; callers serialize writes themselves
// (the capture pipeline's sinks are written only by the RX loop).
type PcapNGWriter struct {
	w         io.Writer
	linktype  uint16
	wroteInit bool
}

// NewPcapNGWriter wraps w and, on the first WritePacket call, emits the
// Section Header Block and Interface Description Block that precede
// every capture record.
func NewPcapNGWriter(w io.Writer, linktype uint16) *PcapNGWriter {
	return &PcapNGWriter{w: w, linktype: linktype}
}

func (p *PcapNGWriter) writeInit() error {
	if p.wroteInit {
		return nil
	}
	if err := p.writeSHB(); err != nil {
		return err
	}
	if err := p.writeIDB(); err != nil {
		return err
	}
	p.wroteInit = true
	return nil
}

func (p *PcapNGWriter) writeSHB() error {
	// Section Header Block: type, total-length, byte-order-magic,
	// major/minor version, section-length(-1 = unknown), options(none),
	// total-length (repeated, per the pcap-ng trailer convention).
	const length = 28
	buf := make([]byte, length)
	binary.LittleEndian.PutUint32(buf[0:4], blockSHB)
	binary.LittleEndian.PutUint32(buf[4:8], length)
	binary.LittleEndian.PutUint32(buf[8:12], byteOrderMagic)
	binary.LittleEndian.PutUint16(buf[12:14], 1) // major version
	binary.LittleEndian.PutUint16(buf[14:16], 0) // minor version
	binary.LittleEndian.PutUint64(buf[16:24], 0xFFFFFFFFFFFFFFFF)
	binary.LittleEndian.PutUint32(buf[24:28], length)
	_, err := p.w.Write(buf)
	return err
}

func (p *PcapNGWriter) writeIDB() error {
	const length = 20
	buf := make([]byte, length)
	binary.LittleEndian.PutUint32(buf[0:4], blockIDB)
	binary.LittleEndian.PutUint32(buf[4:8], length)
	binary.LittleEndian.PutUint16(buf[8:10], p.linktype)
	binary.LittleEndian.PutUint16(buf[10:12], 0) // reserved
	binary.LittleEndian.PutUint32(buf[12:16], 0) // snaplen: unlimited
	binary.LittleEndian.PutUint32(buf[16:20], length)
	_, err := p.w.Write(buf)
	return err
}

// WritePacket writes one Enhanced Packet Block containing data,
// timestamped with ts at microsecond resolution.
func (p *PcapNGWriter) WritePacket(ts time.Time, data []byte) error {
	if err := p.writeInit(); err != nil {
		return err
	}
	padded := pad32(len(data))
	length := 32 + padded // fixed fields + padded data, no options
	buf := make([]byte, length)

	micros := uint64(ts.UnixMicro())
	binary.LittleEndian.PutUint32(buf[0:4], blockEPB)
	binary.LittleEndian.PutUint32(buf[4:8], uint32(length))
	binary.LittleEndian.PutUint32(buf[8:12], 0) // interface id
	binary.LittleEndian.PutUint32(buf[12:16], uint32(micros>>32))
	binary.LittleEndian.PutUint32(buf[16:20], uint32(micros))
	binary.LittleEndian.PutUint32(buf[20:24], uint32(len(data)))
	binary.LittleEndian.PutUint32(buf[24:28], uint32(len(data)))
	copy(buf[28:28+len(data)], data)
	binary.LittleEndian.PutUint32(buf[length-4:length], uint32(length))

	_, err := p.w.Write(buf)
	return err
}

func pad32(n int) int {
	if rem := n % 4; rem != 0 {
		return n + (4 - rem)
	}
	return n
}

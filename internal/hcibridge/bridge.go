// Package hcibridge is the transparent HCI byte pipe between a PTY
// master (the endpoint a host Bluetooth stack opens as its UART) and
// the board's serial link. Neither direction interprets H4 framing:
// the PTY->UART loop copies raw bytes, and the UART->PTY direction
// replays whatever *wire.Frame.Raw the framer already reassembled.
package hcibridge

import (
	"io"
	"sync"

	"github.com/esp32bredr/sniffer/internal/klog"
	"github.com/esp32bredr/sniffer/internal/wire"
)

// UARTWriter is the serial port's write half, guarded by a mutex so any
// writer sharing it is serialized (§5). The controller's bring-up
// writes go to the port directly and all finish before the sniffer
// creates this writer; in steady state B is its only writer.
type UARTWriter struct {
	mu sync.Mutex
	w  io.Writer
}

func NewUARTWriter(w io.Writer) *UARTWriter { return &UARTWriter{w: w} }

func (u *UARTWriter) Write(p []byte) (int, error) {
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.w.Write(p)
}

// PTYWriter is the PTY master's write half; R delivers inbound HCI
// frames through it while B concurrently reads from the same fd.
type PTYWriter struct {
	mu sync.Mutex
	w  io.Writer
}

func NewPTYWriter(w io.Writer) *PTYWriter { return &PTYWriter{w: w} }

func (p *PTYWriter) Write(b []byte) (int, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.w.Write(b)
}

// RunHostToController is thread B: read one byte at a time from the PTY
// master and write it straight to the UART, unmodified. It returns when
// ptyMaster's Read returns an error, which happens once shutdown closes
// the descriptor.
func RunHostToController(ptyMaster io.Reader, uart *UARTWriter) error {
	buf := make([]byte, 1)
	for {
		n, err := ptyMaster.Read(buf)
		if err != nil {
			return err
		}
		if n == 0 {
			continue
		}
		if _, err := uart.Write(buf[:n]); err != nil {
			return err
		}
	}
}

// Steer writes an inbound HCI frame's raw bytes to the PTY master
// unmodified, for the controller->host direction. Called by the RX loop
// (thread R) whenever the framer yields an HCI-kind frame.
func Steer(ptyMaster *PTYWriter, f *wire.Frame) error {
	_, err := ptyMaster.Write(f.Raw)
	return err
}

// IsHCIFrame reports whether f is one of the three HCI-kind frames the
// bridge steers to the PTY master (as opposed to BT_RX/BT_TX/log/ack).
func IsHCIFrame(f *wire.Frame) bool {
	switch f.Kind {
	case wire.KindHCIEvt, wire.KindHCIACL, wire.KindHCICmd:
		return true
	default:
		return false
	}
}

// LogSteerError records a steering write failure; the bridge keeps
// running regardless (only the RX loop and a hard Ctrl-C stop it).
func LogSteerError(err error) {
	klog.L().Warningf("hci bridge: steer to pty master failed: %v", err)
}

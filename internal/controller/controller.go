// Package controller encodes and sends the board control opcodes: get
// firmware version, enable LMP sniffing, disable NULL/POLL suppression,
// set the local BD_ADDR, and soft reset. All of these are short writes;
// every one but soft reset is issued during bring-up, before the bridge
// and RX loops own the UART.
package controller

import (
	"bufio"
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/esp32bredr/sniffer/internal/snifferr"
)

// Opcodes the board firmware recognizes on its control channel.
const (
	opGetVersion     = 0xEE
	opEnableSniffing = 0x81
	opDisablePollNul = 0x89
	opSetBDAddr      = 0x87
	opReset          = 0x86
)

// Writer is the minimal write surface controller needs from the serial
// port; replies are read through the *bufio.Reader passed to New.
type Writer interface {
	Write(p []byte) (int, error)
}

// Controller issues bring-up commands over a serial Writer. Reads of
// the version reply and the disable-poll-null ack go through r, which
// the caller wires to the same underlying serial.Port (opened with its
// 1s read timeout, so a non-responding board surfaces as a read error
// rather than hanging forever).
type Controller struct {
	port string
	w    Writer
	r    *bufio.Reader
}

func New(port string, w Writer, r *bufio.Reader) *Controller {
	return &Controller{port: port, w: w, r: r}
}

// GetVersion sends the version-probe opcode and blocks for the ASCII
// reply line. It is required during bring-up; a read timeout here
// becomes FirmwareUnresponsive.
func (c *Controller) GetVersion() (string, error) {
	if _, err := c.w.Write([]byte{opGetVersion}); err != nil {
		return "", fmt.Errorf("write version probe: %w", err)
	}
	line, err := c.r.ReadString('\n')
	if err != nil || len(line) == 0 {
		return "", &snifferr.FirmwareUnresponsive{Port: c.port}
	}
	return strings.TrimRight(line, "\r\n"), nil
}

// EnableSniffing turns LMP sniffing on (enable=true) or off.
func (c *Controller) EnableSniffing(enable bool) error {
	_, err := c.w.Write([]byte{opEnableSniffing, b2u(enable)})
	return err
}

// DisablePollNullSuppression toggles NULL/POLL suppression and waits
// for the board's single-byte acknowledgement.
func (c *Controller) DisablePollNullSuppression(disable bool) error {
	if _, err := c.w.Write([]byte{opDisablePollNul, b2u(disable)}); err != nil {
		return err
	}
	_, err := c.r.ReadByte()
	return err
}

// SetBDAddr parses a colon-hex BD_ADDR string and writes it reversed,
// per the wire convention (§4.E): "AA:BB:CC:DD:EE:FF" -> FF EE DD CC BB AA.
func (c *Controller) SetBDAddr(addr string) error {
	octets, err := ParseBDAddr(addr)
	if err != nil {
		return err
	}
	out := make([]byte, 0, 7)
	out = append(out, opSetBDAddr)
	for i := len(octets) - 1; i >= 0; i-- {
		out = append(out, octets[i])
	}
	_, err = c.w.Write(out)
	return err
}

// SoftReset sends the board's in-band soft-reset sequence.
func (c *Controller) SoftReset() error {
	_, err := c.w.Write([]byte{opReset, opReset, 0xAA})
	return err
}

// ParseBDAddr validates and decodes a colon-hex BD_ADDR string into its
// 6 octets, in string order (callers reverse for the wire as needed).
func ParseBDAddr(addr string) ([]byte, error) {
	parts := strings.Split(addr, ":")
	if len(parts) != 6 {
		return nil, &snifferr.InvalidBdAddr{Value: addr, Err: fmt.Errorf("want 6 colon-separated octets, got %d", len(parts))}
	}
	out := make([]byte, 6)
	for i, p := range parts {
		if len(p) != 2 {
			return nil, &snifferr.InvalidBdAddr{Value: addr, Err: fmt.Errorf("octet %q is not 2 hex digits", p)}
		}
		b, err := hex.DecodeString(p)
		if err != nil {
			return nil, &snifferr.InvalidBdAddr{Value: addr, Err: err}
		}
		out[i] = b[0]
	}
	return out, nil
}

func b2u(v bool) byte {
	if v {
		return 1
	}
	return 0
}

package sniffer

import (
	"errors"
	"io"

	"github.com/esp32bredr/sniffer/internal/capture"
	"github.com/esp32bredr/sniffer/internal/dissector"
	"github.com/esp32bredr/sniffer/internal/hcibridge"
	"github.com/esp32bredr/sniffer/internal/klog"
	"github.com/esp32bredr/sniffer/internal/wire"
)

// runRX is thread R: it owns the Wire Framer and Dissector state,
// blocking on serial reads until shutdown closes the port (which turns
// the blocked read into an error and ends the loop). HCI-kind frames
// are steered to the PTY master; BT_RX/BT_TX frames are dissected and
// dispatched to the capture pipeline.
func (s *Sniffer) runRX() {
	framer := wire.New(s.port)
	for {
		frame, err := framer.ReadFrame()
		if err != nil {
			if s.shuttingDown.Load() || errors.Is(err, io.EOF) {
				return
			}
			klog.L().Warningf("rx loop: %v", err)
			continue
		}
		if frame == nil {
			continue // ack/unknown tag, already fully consumed
		}

		if hcibridge.IsHCIFrame(frame) {
			if err := hcibridge.Steer(s.ptyWriter, frame); err != nil {
				hcibridge.LogSteerError(err)
			}
			continue
		}

		switch frame.Kind {
		case wire.KindBTRX, wire.KindBTTX:
			s.dissectAndCapture(frame)
		case wire.KindLog:
			klog.L().Debugf("board log: %s", frame.Text)
		}
	}
}

func (s *Sniffer) dissectAndCapture(frame *wire.Frame) {
	pkt, ok := dissector.Dissect(frame.Data)
	if !ok {
		klog.L().Warningf("dissect: short BT frame (%d bytes), dropped", len(frame.Data))
		return
	}

	if s.liveTerminal {
		if frame.Direction == wire.DirRX {
			klog.RX(pkt.Summary())
		} else {
			klog.TX(pkt.Summary())
		}
	}

	s.pipeline.Dispatch(frame.Direction, frame.Data)
}

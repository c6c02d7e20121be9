package capture

import (
	"os"
	"syscall"
	"time"

	"github.com/esp32bredr/sniffer/internal/klog"
	"github.com/esp32bredr/sniffer/internal/snifferr"
)

// Sink is one pcap-ng destination: a file or a FIFO. Write reports a
// failure as a *snifferr.SinkWriteError so the pipeline can disable a
// misbehaving sink without special-casing each call site (§7:
// SinkWriteError -> log, disable, continue).
type Sink struct {
	name   string
	file   *os.File
	writer *PcapNGWriter
	closed bool
}

// OpenFileSink creates (or truncates) a pcap-ng file at path, widening
// its permissions for operator convenience, per §4.G.
func OpenFileSink(path string) (*Sink, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0644)
	if err != nil {
		return nil, err
	}
	if err := f.Chmod(0666); err != nil {
		klog.L().Warningf("capture: widen permissions on %s: %v", path, err)
	}
	return &Sink{name: "file:" + path, file: f, writer: NewPcapNGWriter(f, LinktypeBluetoothH4WithPhdr)}, nil
}

// OpenFIFOSink unlinks any stale FIFO at path, creates a fresh one, and
// opens it for writing. A write-only open would block until a reader
// attaches (a viewer process, typically Wireshark); the FIFO is opened
// read-write instead so the sniffer does not block on a reader that
// hasn't started yet.
func OpenFIFOSink(path string) (*Sink, error) {
	_ = os.Remove(path)
	if err := syscall.Mkfifo(path, 0666); err != nil {
		return nil, err
	}
	f, err := os.OpenFile(path, os.O_RDWR, os.ModeNamedPipe)
	if err != nil {
		return nil, err
	}
	return &Sink{name: "fifo:" + path, file: f, writer: NewPcapNGWriter(f, LinktypeBluetoothH4WithPhdr)}, nil
}

// Write writes one capture record. On failure it returns a
// *snifferr.SinkWriteError; the caller is expected to disable the sink
// rather than retry.
func (s *Sink) Write(record []byte) error {
	if s.closed {
		return nil
	}
	if err := s.writer.WritePacket(time.Now(), record); err != nil {
		return &snifferr.SinkWriteError{Sink: s.name, Err: err}
	}
	return nil
}

func (s *Sink) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true
	return s.file.Close()
}

// Name identifies the sink in log lines.
func (s *Sink) Name() string { return s.name }

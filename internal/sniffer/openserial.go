package sniffer

import (
	"time"

	"github.com/esp32bredr/sniffer/internal/serial"
	"github.com/esp32bredr/sniffer/internal/snifferr"
)

// readTimeout is the 1s inactivity timeout §4.A/§5 require so the RX
// loop can observe shutdown instead of blocking forever.
const readTimeout = time.Second

// openSerial opens path at baud with no flow control and the standard
// read timeout, then applies a low-latency hint where the platform
// supports it. Any failure here is DeviceUnavailable.
func openSerial(path string, baud serial.CFlag) (*serial.Port, error) {
	port, err := serial.Open(path, serial.NewOptions().SetReadTimeout(readTimeout))
	if err != nil {
		return nil, &snifferr.DeviceUnavailable{Port: path, Err: err}
	}

	attrs, err := port.GetAttr2()
	if err != nil {
		port.Close()
		return nil, &snifferr.DeviceUnavailable{Port: path, Err: err}
	}
	attrs.MakeRaw()
	attrs.SetSpeed(baud)
	attrs.Cflag &^= serial.CRTSCTS // no hardware flow control
	if err := port.SetAttr2(serial.TCSANOW, attrs); err != nil {
		port.Close()
		return nil, &snifferr.DeviceUnavailable{Port: path, Err: err}
	}

	applyLowLatencyHint(port)
	return port, nil
}

// applyLowLatencyHint sets ASYNC_LOW_LATENCY when the driver exposes
// the legacy serial_struct ioctl; failure is not fatal, since not every
// USB-serial driver implements it (mirrors the original tool's
// best-effort `setserial low_latency` shell-out).
func applyLowLatencyHint(port *serial.Port) {
	s, err := port.GetSerial()
	if err != nil {
		return
	}
	s.Flags |= serial.AsyncLowLatency
	_ = port.SetSerial(s)
}

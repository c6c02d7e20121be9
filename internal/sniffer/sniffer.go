// Package sniffer is the orchestrator (component H): it constructs the
// serial port, PTY pair, controller, bridge and capture pipeline from a
// Config, drives the bring-up sequence in §4.H, runs the RX and bridge
// loops, and tears everything down in response to a shutdown signal.
package sniffer

import (
	"bufio"
	"fmt"
	"os"
	"os/exec"
	"sync/atomic"
	"time"

	"github.com/esp32bredr/sniffer/internal/capture"
	"github.com/esp32bredr/sniffer/internal/controller"
	"github.com/esp32bredr/sniffer/internal/hcibridge"
	"github.com/esp32bredr/sniffer/internal/klog"
	"github.com/esp32bredr/sniffer/internal/serial"
)

// Config is the bring-up configuration the CLI layer (out of scope for
// the core, but the ambient entrypoint still needs somewhere to put its
// parsed flags) hands to New.
type Config struct {
	Port           string
	Baud           serial.CFlag
	HardReset      bool
	HostBDAddr     string
	TargetBDAddr   string // passed to the helper as -a when non-empty; no role is derived from it and it does not decide whether a helper is spawned
	LiveWireshark  bool
	LiveTerminal   bool
	BridgeOnly     bool
	CaptureFile    string
	FIFOPath       string
	HelperPath     string // external host-stack helper binary
}

// Sniffer is one running instance of the bring-up/steady-state/shutdown
// lifecycle described in §4.H and §5.
type Sniffer struct {
	cfg Config

	port      *serial.Port
	ptyMaster *serial.Port
	ptySlave  *serial.Port
	ptyWriter *hcibridge.PTYWriter
	ctl       *controller.Controller
	pipeline  *capture.Pipeline

	liveTerminal bool
	shuttingDown atomic.Bool
	helperCmd    *exec.Cmd
	helperDone   chan error
}

// New runs the bring-up sequence (§4.H steps 1-7) and returns a running
// Sniffer, or the first fatal error encountered (DeviceUnavailable,
// FirmwareUnresponsive, or InvalidBdAddr from a malformed BD_ADDR).
func New(cfg Config) (*Sniffer, error) {
	port, err := openSerial(cfg.Port, cfg.Baud)
	if err != nil {
		return nil, err
	}

	s := &Sniffer{cfg: cfg, port: port, liveTerminal: cfg.LiveTerminal, helperDone: make(chan error, 1)}

	if cfg.HardReset {
		hardReset(cfg.Port, cfg.Baud)
	}

	r := bufio.NewReader(port)
	s.ctl = controller.New(cfg.Port, port, r)
	version, err := s.ctl.GetVersion()
	if err != nil {
		port.Close()
		return nil, err
	}
	klog.Notice(fmt.Sprintf("firmware version: %s", version))

	ptyMaster, ptySlave, err := serial.OpenPTY(nil, nil)
	if err != nil {
		port.Close()
		return nil, err
	}
	s.ptyMaster, s.ptySlave = ptyMaster, ptySlave
	// §4.C: both ends raw (no line discipline, no echo) so host-stack H4
	// bytes pass through untouched instead of being echoed/line-buffered.
	if err := ptyMaster.MakeRaw(); err != nil {
		s.Close()
		return nil, err
	}
	if err := ptySlave.MakeRaw(); err != nil {
		s.Close()
		return nil, err
	}
	s.ptyWriter = hcibridge.NewPTYWriter(ptyMaster)
	slavePath, _ := ptySlave.PTSName()
	klog.Notice("HCI bridge started on " + slavePath)

	if err := s.ctl.EnableSniffing(true); err != nil {
		s.Close()
		return nil, err
	}
	if err := s.ctl.DisablePollNullSuppression(true); err != nil {
		s.Close()
		return nil, err
	}
	if cfg.HostBDAddr != "" {
		if err := s.ctl.SetBDAddr(cfg.HostBDAddr); err != nil {
			s.Close()
			return nil, err
		}
	}

	sinks, err := buildSinks(cfg)
	if err != nil {
		s.Close()
		return nil, err
	}
	s.pipeline = capture.NewPipeline(sinks...)

	uartWriter := hcibridge.NewUARTWriter(port)
	go func() {
		if err := hcibridge.RunHostToController(ptyMaster, uartWriter); err != nil && !s.shuttingDown.Load() {
			klog.L().Warningf("hci bridge: pty->uart loop ended: %v", err)
		}
	}()

	go s.runRX()

	if !cfg.BridgeOnly && cfg.HelperPath != "" {
		s.spawnHelper(slavePath)
	}

	return s, nil
}

func buildSinks(cfg Config) ([]*capture.Sink, error) {
	var sinks []*capture.Sink
	if cfg.CaptureFile != "" {
		fs, err := capture.OpenFileSink(cfg.CaptureFile)
		if err != nil {
			return nil, err
		}
		sinks = append(sinks, fs)
	}
	if cfg.LiveWireshark {
		path := cfg.FIFOPath
		if path == "" {
			path = "/tmp/fifocap.fifo"
		}
		fifo, err := capture.OpenFIFOSink(path)
		if err != nil {
			for _, sk := range sinks {
				_ = sk.Close()
			}
			return nil, err
		}
		sinks = append(sinks, fifo)
	}
	return sinks, nil
}

// spawnHelper launches the external host-stack helper with
// argv [helper, "-u", slavePath, "-a", target] ("-a target" only when a
// target is set) and supervises it on a
// background goroutine (thread H): its exit before shutdown is logged
// as HelperCrashed but never stops the capture.
func (s *Sniffer) spawnHelper(slavePath string) {
	args := []string{"-u", slavePath}
	if s.cfg.TargetBDAddr != "" {
		args = append(args, "-a", s.cfg.TargetBDAddr)
	}
	cmd := exec.Command(s.cfg.HelperPath, args...)
	cmd.Env = append(os.Environ(), "LC_ALL=C.UTF-8", "LANG=C.UTF-8")
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Start(); err != nil {
		klog.L().Warningf("host-stack helper failed to start: %v", err)
		return
	}
	s.helperCmd = cmd
	go func() { s.helperDone <- cmd.Wait() }()

	go func() {
		err := <-s.helperDone
		if !s.shuttingDown.Load() {
			klog.L().Warningf("helper crashed: %v; continuing sniffing", err)
		}
	}()
}

func hardReset(port string, baud serial.CFlag) {
	p, err := serial.Open(port, serial.NewOptions())
	if err != nil {
		klog.L().Warningf("hard reset: %v", err)
		return
	}
	defer p.Close()
	_ = p.EnableModemLines(serial.TIOCM_RTS)
	_ = p.EnableModemLines(serial.TIOCM_DTR)
	_ = p.DisableModemLines(serial.TIOCM_DTR)
	_ = p.EnableModemLines(serial.TIOCM_DTR)
	klog.Notice("reset done: EN pin toggled HIGH->LOW->HIGH; waiting 0.8s...")
	time.Sleep(800 * time.Millisecond)
}

// Close runs the shutdown sequence (§4.H): stop the loops, close the
// sinks, terminate the helper if spawned, and close serial/PTY fds.
// Every acquisition in New has a deterministic release path here.
func (s *Sniffer) Close() {
	s.shuttingDown.Store(true)

	if s.helperCmd != nil && s.helperCmd.Process != nil {
		_ = s.helperCmd.Process.Kill()
	}
	if s.pipeline != nil {
		s.pipeline.Close()
	}
	if s.ptyMaster != nil {
		s.ptyMaster.Close()
	}
	if s.ptySlave != nil {
		s.ptySlave.Close()
	}
	if s.port != nil {
		s.port.Close()
	}
}

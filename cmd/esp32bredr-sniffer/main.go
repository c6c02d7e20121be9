// Command esp32bredr-sniffer is the ambient CLI entrypoint around the
// sniffer core. The CLI argument layer itself is out of scope for the
// core (spec §1), but every long-lived daemon in this pack wires one;
// it just parses flags into a sniffer.Config and lets the core run.
package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli"

	"github.com/esp32bredr/sniffer/internal/klog"
	"github.com/esp32bredr/sniffer/internal/serial"
	"github.com/esp32bredr/sniffer/internal/sniffer"
)

func main() {
	app := cli.NewApp()
	app.Name = "esp32bredr-sniffer"
	app.Usage = "Bluetooth BR/EDR sniffer bridging an ESP32BT board to a host stack"
	app.Version = "0.1.0"
	app.Flags = []cli.Flag{
		cli.StringFlag{Name: "port", Value: "/dev/ttyUSB0", Usage: "serial device path"},
		cli.IntFlag{Name: "baud", Value: 921600, Usage: "serial baud rate (921600 or 4000000)"},
		cli.StringFlag{Name: "host", Usage: "local BD_ADDR, colon-hex, 6 octets"},
		cli.StringFlag{Name: "target", Usage: "remote BD_ADDR, passed to the helper as -a"},
		cli.BoolFlag{Name: "live-wireshark", Usage: "enable the live FIFO sink (no viewer is launched)"},
		cli.BoolFlag{Name: "live-terminal", Usage: "print per-frame summary lines"},
		cli.BoolFlag{Name: "bridge-only", Usage: "do not spawn any host-stack helper"},
		cli.BoolFlag{Name: "hard-reset", Usage: "toggle DTR/RTS before bring-up"},
		cli.StringFlag{Name: "capture-file", Value: "logs/capture.pcapng", Usage: "pcap-ng output path"},
		cli.StringFlag{Name: "fifo", Value: "/tmp/fifocap.fifo", Usage: "live FIFO path"},
		cli.StringFlag{Name: "helper", Usage: "path to the external host-stack helper binary"},
		cli.StringFlag{Name: "log-level", Value: "INFO", Usage: "DEBUG, INFO, WARNING, ERROR"},
	}
	app.Action = run

	if err := app.Run(os.Args); err != nil {
		klog.Fatal(err.Error())
		os.Exit(1)
	}
}

func run(c *cli.Context) error {
	klog.Setup(c.String("log-level"))

	baud := serial.CFlag(serial.B921600)
	if c.Int("baud") == 4000000 {
		baud = serial.B4000000
	}

	cfg := sniffer.Config{
		Port:          c.String("port"),
		Baud:          baud,
		HardReset:     c.Bool("hard-reset"),
		HostBDAddr:    c.String("host"),
		TargetBDAddr:  c.String("target"),
		LiveWireshark: c.Bool("live-wireshark"),
		LiveTerminal:  c.Bool("live-terminal"),
		BridgeOnly:    c.Bool("bridge-only"),
		CaptureFile:   c.String("capture-file"),
		FIFOPath:      c.String("fifo"),
		HelperPath:    c.String("helper"),
	}

	s, err := sniffer.New(cfg)
	if err != nil {
		return err
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	s.Close()
	if cfg.CaptureFile != "" {
		klog.Notice("Capture saved to " + cfg.CaptureFile)
	}
	return nil
}

// Package klog wires the sniffer's ambient logging. It follows the
// pack's usual shape for small daemons: a single package-level
// op/go-logging logger for structured, leveled log lines, plus a
// thin fatih/color helper for the human-facing capture summary
// ("TX -->" / "RX <--") that mirrors the colorama output of the
// original Python tool.
package klog

import (
	"os"

	"github.com/fatih/color"
	logging "github.com/op/go-logging"
)

var log = logging.MustGetLogger("sniffer")

var format = logging.MustStringFormatter(
	`%{color}%{time:15:04:05.000} %{level:.4s}%{color:reset} %{message}`,
)

// Setup installs a stderr backend at the given level. Call once from main.
func Setup(levelName string) *logging.Logger {
	backend := logging.NewLogBackend(os.Stderr, "", 0)
	formatted := logging.NewBackendFormatter(backend, format)
	leveled := logging.AddModuleLevel(formatted)
	lvl, err := logging.LogLevel(levelName)
	if err != nil {
		lvl = logging.INFO
	}
	leveled.SetLevel(lvl, "")
	logging.SetBackend(leveled)
	return log
}

func L() *logging.Logger { return log }

var (
	cyan   = color.New(color.FgHiCyan).SprintFunc()
	green  = color.New(color.FgHiGreen).SprintFunc()
	yellow = color.New(color.FgHiYellow).SprintFunc()
	red    = color.New(color.FgHiRed).SprintFunc()
)

// TX prints a terminal-mode outbound capture summary line, colored like
// the original driver's "TX -->" banner.
func TX(summary string) {
	println_(cyan("TX --> ") + summary)
}

// RX prints a terminal-mode inbound capture summary line.
func RX(summary string) {
	println_(green("RX <-- ") + summary)
}

// Notice prints an informational bring-up banner (board reset, bridge
// path announcement, version string).
func Notice(msg string) {
	println_(yellow(msg))
}

// Fatal prints an error banner before the caller aborts.
func Fatal(msg string) {
	println_(red(msg))
}

func println_(s string) {
	os.Stdout.WriteString(s + "\n")
}

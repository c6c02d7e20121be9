package capture

import (
	"github.com/esp32bredr/sniffer/internal/klog"
	"github.com/esp32bredr/sniffer/internal/wire"
)

// Pipeline fans one capture record out to every enabled sink. A sink
// write failure disables that sink and is logged; it never stops the
// RX loop or the other sinks (§7).
type Pipeline struct {
	sinks []*Sink
	live  []bool
}

func NewPipeline(sinks ...*Sink) *Pipeline {
	live := make([]bool, len(sinks))
	for i := range live {
		live[i] = true
	}
	return &Pipeline{sinks: sinks, live: live}
}

// Dispatch builds the capture record for (dir, dissected) and writes it
// to every still-live sink, in arrival order (§5 ordering guarantee).
func (p *Pipeline) Dispatch(dir wire.Direction, dissected []byte) {
	record := BuildRecord(dir, dissected)
	for i, sink := range p.sinks {
		if !p.live[i] {
			continue
		}
		if err := sink.Write(record); err != nil {
			klog.L().Warningf("capture: %v; disabling sink", err)
			p.live[i] = false
		}
	}
}

// Close releases every sink, even ones already disabled by a write
// failure, on every shutdown path.
func (p *Pipeline) Close() {
	for _, sink := range p.sinks {
		_ = sink.Close()
	}
}

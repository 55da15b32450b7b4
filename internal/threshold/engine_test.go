package threshold

import (
	"testing"

	"github.com/redeslab/flowreport/internal/metrics"
)

func TestEvaluate(t *testing.T) {
	e := NewEngine(Limits{MaxDelayMs: 10, MaxPacketLoss: 5, MinThroughputMbps: 2})
	if !e.Enabled() {
		t.Fatalf("engine with limits should be enabled")
	}

	cases := []struct {
		name    string
		s       metrics.Summary
		state   State
		reasons int
	}{
		{"healthy", metrics.Summary{Throughput: 5, PacketLoss: 1, AvgDelay: 3}, OK, 0},
		{"at limits", metrics.Summary{Throughput: 2, PacketLoss: 5, AvgDelay: 10}, OK, 0},
		{"slow", metrics.Summary{Throughput: 5, PacketLoss: 1, AvgDelay: 30}, Degraded, 1},
		{"everything", metrics.Summary{Throughput: 0.5, PacketLoss: 40, AvgDelay: 30}, Degraded, 3},
	}
	for _, c := range cases {
		v := e.Evaluate(c.s)
		if v.State != c.state || len(v.Reasons) != c.reasons {
			t.Fatalf("%s: got %s with %v", c.name, v.State, v.Reasons)
		}
	}
}

func TestZeroLimitsDisabled(t *testing.T) {
	e := NewEngine(Limits{})
	if e.Enabled() {
		t.Fatalf("zero limits should be disabled")
	}
	v := e.Evaluate(metrics.Summary{PacketLoss: 100, AvgDelay: 1e9})
	if v.State != OK {
		t.Fatalf("disabled engine flagged %v", v.Reasons)
	}
}

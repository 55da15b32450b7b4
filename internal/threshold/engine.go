package threshold

import (
	"fmt"

	"github.com/redeslab/flowreport/internal/metrics"
)

type State string

const (
	OK       State = "OK"
	Degraded State = "DEGRADED"
)

// Limits bound acceptable run metrics. A zero limit disables its check.
type Limits struct {
	MaxDelayMs        float64
	MaxPacketLoss     float64
	MinThroughputMbps float64
}

type Verdict struct {
	State   State
	Reasons []string
}

type Engine struct {
	limits Limits
}

func NewEngine(l Limits) *Engine {
	return &Engine{limits: l}
}

// Enabled reports whether any limit is set.
func (e *Engine) Enabled() bool {
	return e.limits != (Limits{})
}

func (e *Engine) Evaluate(s metrics.Summary) Verdict {
	v := Verdict{State: OK}

	if e.limits.MaxDelayMs > 0 && s.AvgDelay > e.limits.MaxDelayMs {
		v.Reasons = append(v.Reasons, fmt.Sprintf("avg delay %.3f ms above %.3f ms", s.AvgDelay, e.limits.MaxDelayMs))
	}
	if e.limits.MaxPacketLoss > 0 && s.PacketLoss > e.limits.MaxPacketLoss {
		v.Reasons = append(v.Reasons, fmt.Sprintf("packet loss %.2f%% above %.2f%%", s.PacketLoss, e.limits.MaxPacketLoss))
	}
	if e.limits.MinThroughputMbps > 0 && s.Throughput < e.limits.MinThroughputMbps {
		v.Reasons = append(v.Reasons, fmt.Sprintf("throughput %.3f Mbps below %.3f Mbps", s.Throughput, e.limits.MinThroughputMbps))
	}

	if len(v.Reasons) > 0 {
		v.State = Degraded
	}
	return v
}

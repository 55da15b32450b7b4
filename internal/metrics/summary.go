package metrics

import (
	"github.com/redeslab/flowreport/internal/flowmon"
)

// Summary is the per-document reduction of all its flows.
type Summary struct {
	Throughput float64 `json:"throughput"`  // Mbps
	PacketLoss float64 `json:"packet_loss"` // percent of transmitted packets
	AvgDelay   float64 `json:"avg_delay"`   // ms per received packet
}

// Accumulator folds flow records into running totals, one flow at a time.
// A flow that fails to decode leaves the totals untouched.
type Accumulator struct {
	throughput  float64
	delaySumNs  float64
	rxPackets   uint64
	txPackets   uint64
	lostPackets uint64

	flows   int
	skipped int
}

// Add decodes rec and rolls it into the totals. The returned error only reports
// that the flow was skipped; the accumulator stays usable.
func (a *Accumulator) Add(rec flowmon.Record) error {
	f, err := flowmon.ParseFlow(rec)
	if err != nil {
		a.skipped++
		return err
	}
	a.AddFlow(f)
	return nil
}

// AddFlow rolls an already decoded flow into the totals.
func (a *Accumulator) AddFlow(f flowmon.Flow) {
	a.flows++

	// flows without a positive receive window carry no rate
	if d := f.RxWindowSeconds(); d > 0 {
		a.throughput += float64(f.RxBytes) * 8 / (d * 1e6)
	}

	a.delaySumNs += f.DelaySumNs
	a.rxPackets += f.RxPackets
	a.txPackets += f.TxPackets
	a.lostPackets += f.LostPackets
}

// Flows is the number of flows included in the totals.
func (a *Accumulator) Flows() int { return a.flows }

// Skipped is the number of records dropped because they failed to decode.
func (a *Accumulator) Skipped() int { return a.skipped }

// Summary computes the metrics from the current totals.
func (a *Accumulator) Summary() Summary {
	s := Summary{Throughput: a.throughput}
	if a.txPackets > 0 {
		s.PacketLoss = float64(a.lostPackets) / float64(a.txPackets) * 100
	}
	if a.rxPackets > 0 {
		s.AvgDelay = a.delaySumNs / float64(a.rxPackets) / 1e6
	}
	return s
}

// Aggregate reduces the flow records of one document to its Summary.
func Aggregate(records []flowmon.Record) Summary {
	var acc Accumulator
	for _, rec := range records {
		_ = acc.Add(rec)
	}
	return acc.Summary()
}

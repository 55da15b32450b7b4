package flowmon

import (
	"fmt"
	"strconv"
	"strings"
)

// Attribute names of a FlowMonitor Flow element.
const (
	AttrTxBytes     = "txBytes"
	AttrRxBytes     = "rxBytes"
	AttrTxPackets   = "txPackets"
	AttrRxPackets   = "rxPackets"
	AttrLostPackets = "lostPackets"
	AttrTimeFirstRx = "timeFirstRxPacket"
	AttrTimeLastRx  = "timeLastRxPacket"
	AttrDelaySum    = "delaySum"
)

// Flow holds the decoded measurement fields of one flow. Times are in nanoseconds.
type Flow struct {
	TxBytes     uint64
	RxBytes     uint64
	TxPackets   uint64
	RxPackets   uint64
	LostPackets uint64

	TimeFirstRxNs float64
	TimeLastRxNs  float64
	DelaySumNs    float64
}

// Uint reads a non-negative integer attribute, falling back to def when absent.
// A single leading '+' is accepted, as on time attributes.
func (r Record) Uint(name, def string) (uint64, error) {
	raw := r.Attr(name, def)
	v, err := strconv.ParseUint(strings.TrimPrefix(strings.TrimSpace(raw), "+"), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %s=%q", ErrMalformedValue, name, raw)
	}
	return v, nil
}

// Duration reads a time attribute in nanoseconds, falling back to def when absent.
func (r Record) Duration(name, def string) (float64, error) {
	v, err := ParseDuration(r.Attr(name, def))
	if err != nil {
		return 0, fmt.Errorf("%s: %w", name, err)
	}
	return v, nil
}

// ParseFlow decodes every field of rec. Missing attributes read as zero.
func ParseFlow(rec Record) (Flow, error) {
	var (
		f   Flow
		err error
	)

	counters := []struct {
		name string
		dst  *uint64
	}{
		{AttrTxBytes, &f.TxBytes},
		{AttrRxBytes, &f.RxBytes},
		{AttrTxPackets, &f.TxPackets},
		{AttrRxPackets, &f.RxPackets},
		{AttrLostPackets, &f.LostPackets},
	}
	for _, c := range counters {
		if *c.dst, err = rec.Uint(c.name, "0"); err != nil {
			return Flow{}, fmt.Errorf("flow %d: %w", rec.Index, err)
		}
	}

	times := []struct {
		name string
		dst  *float64
	}{
		{AttrTimeFirstRx, &f.TimeFirstRxNs},
		{AttrTimeLastRx, &f.TimeLastRxNs},
		{AttrDelaySum, &f.DelaySumNs},
	}
	for _, t := range times {
		if *t.dst, err = rec.Duration(t.name, "0"); err != nil {
			return Flow{}, fmt.Errorf("flow %d: %w", rec.Index, err)
		}
	}

	return f, nil
}

// RxWindowSeconds is the span between the first and last received packet.
func (f Flow) RxWindowSeconds() float64 {
	return (f.TimeLastRxNs - f.TimeFirstRxNs) / 1e9
}

package results

import (
	"testing"

	"github.com/redeslab/flowreport/internal/experiment"
	"github.com/redeslab/flowreport/internal/metrics"
)

func key(p experiment.Protocol, m experiment.Mobility, n int) experiment.Key {
	return experiment.Key{Protocol: p, Mobility: m, Clients: n}
}

func TestTwoDocumentsPopulateOnlyTheirKeys(t *testing.T) {
	tbl := NewTable()
	for name, s := range map[string]metrics.Summary{
		"flow_udp_static_8.xml":  {Throughput: 3, PacketLoss: 1, AvgDelay: 0.5},
		"flow_tcp_mobile_16.xml": {Throughput: 7, PacketLoss: 2, AvgDelay: 1.5},
	} {
		k, err := experiment.ParseKey(name)
		if err != nil {
			t.Fatalf("parse %s: %v", name, err)
		}
		tbl.Put(k, s)
	}

	if tbl.Len() != 2 {
		t.Fatalf("table has %d entries, want 2", tbl.Len())
	}
	if s, ok := tbl.Get(key(experiment.UDP, experiment.Static, 8)); !ok || s.Throughput != 3 {
		t.Fatalf("udp/static/8 = %+v, %v", s, ok)
	}
	if s, ok := tbl.Get(key(experiment.TCP, experiment.Mobile, 16)); !ok || s.Throughput != 7 {
		t.Fatalf("tcp/mobile/16 = %+v, %v", s, ok)
	}

	for _, p := range experiment.Protocols() {
		for _, m := range experiment.Mobilities() {
			for _, n := range []int{1, 2, 4, 8, 16, 32} {
				k := experiment.Key{Protocol: p, Mobility: m, Clients: n}
				if (p == experiment.UDP && m == experiment.Static && n == 8) ||
					(p == experiment.TCP && m == experiment.Mobile && n == 16) {
					continue
				}
				if _, ok := tbl.Get(k); ok {
					t.Fatalf("unexpected entry for %s", k)
				}
				if tbl.Lookup(k) != (metrics.Summary{}) {
					t.Fatalf("lookup of absent %s is not zero", k)
				}
			}
		}
	}
}

func TestPutLastWriteWins(t *testing.T) {
	tbl := NewTable()
	k := key(experiment.Mixed, experiment.Static, 4)
	if tbl.Put(k, metrics.Summary{Throughput: 1}) {
		t.Fatalf("first put reported a replacement")
	}
	if !tbl.Put(k, metrics.Summary{Throughput: 2}) {
		t.Fatalf("second put did not report a replacement")
	}
	if got := tbl.Lookup(k).Throughput; got != 2 {
		t.Fatalf("throughput = %v, want 2", got)
	}
	if tbl.Len() != 1 {
		t.Fatalf("len = %d, want 1", tbl.Len())
	}
}

func TestRowsOrder(t *testing.T) {
	tbl := NewTable()
	keys := []experiment.Key{
		key(experiment.Mixed, experiment.Mobile, 2),
		key(experiment.UDP, experiment.Mobile, 32),
		key(experiment.UDP, experiment.Static, 16),
		key(experiment.UDP, experiment.Static, 1),
		key(experiment.TCP, experiment.Static, 8),
	}
	for i, k := range keys {
		tbl.Put(k, metrics.Summary{Throughput: float64(i)})
	}

	want := []experiment.Key{
		key(experiment.UDP, experiment.Static, 1),
		key(experiment.UDP, experiment.Static, 16),
		key(experiment.UDP, experiment.Mobile, 32),
		key(experiment.TCP, experiment.Static, 8),
		key(experiment.Mixed, experiment.Mobile, 2),
	}
	rows := tbl.Rows()
	if len(rows) != len(want) {
		t.Fatalf("got %d rows, want %d", len(rows), len(want))
	}
	for i := range want {
		if rows[i].Key != want[i] {
			t.Fatalf("row %d = %s, want %s", i, rows[i].Key, want[i])
		}
	}

	counts := tbl.ClientCounts()
	wantCounts := []int{1, 2, 8, 16, 32}
	if len(counts) != len(wantCounts) {
		t.Fatalf("client counts = %v, want %v", counts, wantCounts)
	}
	for i := range wantCounts {
		if counts[i] != wantCounts[i] {
			t.Fatalf("client counts = %v, want %v", counts, wantCounts)
		}
	}
}

package report

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/redeslab/flowreport/internal/experiment"
	"github.com/redeslab/flowreport/internal/metrics"
	"github.com/redeslab/flowreport/internal/results"
)

func sampleTable() *results.Table {
	tbl := results.NewTable()
	tbl.Put(experiment.Key{Protocol: experiment.UDP, Mobility: experiment.Static, Clients: 8},
		metrics.Summary{Throughput: 10, PacketLoss: 1, AvgDelay: 0.0505})
	tbl.Put(experiment.Key{Protocol: experiment.TCP, Mobility: experiment.Mobile, Clients: 16},
		metrics.Summary{Throughput: 4, PacketLoss: 3, AvgDelay: 2})
	return tbl
}

func TestSeriesSubstitutesZero(t *testing.T) {
	tbl := sampleTable()
	clients := []int{1, 2, 4, 8, 16, 32}

	xys := Series(tbl, Throughput, experiment.UDP, experiment.Static, clients)
	if len(xys) != len(clients) {
		t.Fatalf("series has %d points, want %d", len(xys), len(clients))
	}
	for i, n := range clients {
		if xys[i].X != float64(n) {
			t.Fatalf("point %d x = %v, want %d", i, xys[i].X, n)
		}
		want := 0.0
		if n == 8 {
			want = 10
		}
		if xys[i].Y != want {
			t.Fatalf("point %d y = %v, want %v", i, xys[i].Y, want)
		}
	}

	delays := Series(tbl, Delay, experiment.TCP, experiment.Mobile, clients)
	if delays[4].Y != 2 || delays[3].Y != 0 {
		t.Fatalf("unexpected delay series: %v", delays)
	}
	losses := Series(tbl, PacketLoss, experiment.Mixed, experiment.Mobile, clients)
	for _, xy := range losses {
		if xy.Y != 0 {
			t.Fatalf("mixed series should be all zero: %v", losses)
		}
	}
}

func TestRenderWritesAllCharts(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "plots")
	written, err := Render(sampleTable(), Options{
		Dir:      dir,
		Format:   "svg",
		WidthIn:  6,
		HeightIn: 4,
		Clients:  []int{1, 2, 4, 8, 16, 32},
	})
	if err != nil {
		t.Fatalf("render: %v", err)
	}

	want := []string{
		"throughput_static.svg", "throughput_mobile.svg",
		"delay_static.svg", "delay_mobile.svg",
		"packet_loss_static.svg", "packet_loss_mobile.svg",
	}
	if len(written) != len(want) {
		t.Fatalf("wrote %d charts, want %d", len(written), len(want))
	}
	for i, name := range want {
		if filepath.Base(written[i]) != name {
			t.Fatalf("chart %d = %s, want %s", i, written[i], name)
		}
		st, err := os.Stat(filepath.Join(dir, name))
		if err != nil {
			t.Fatalf("missing chart %s: %v", name, err)
		}
		if st.Size() == 0 {
			t.Fatalf("chart %s is empty", name)
		}
	}
}

func TestRenderEmptyTable(t *testing.T) {
	written, err := Render(results.NewTable(), Options{
		Dir:      t.TempDir(),
		Format:   "png",
		WidthIn:  4,
		HeightIn: 3,
		Clients:  []int{1, 2},
	})
	if err != nil {
		t.Fatalf("render empty table: %v", err)
	}
	if len(written) != 6 {
		t.Fatalf("wrote %d charts, want 6", len(written))
	}
}

func TestRenderNeedsClients(t *testing.T) {
	if _, err := Render(sampleTable(), Options{Dir: t.TempDir(), Format: "png"}); err == nil {
		t.Fatalf("expected error without client counts")
	}
}

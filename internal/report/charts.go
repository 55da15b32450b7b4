package report

import (
	"fmt"
	"image/color"
	"os"
	"path/filepath"
	"strconv"

	"github.com/rs/zerolog/log"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"github.com/redeslab/flowreport/internal/experiment"
	"github.com/redeslab/flowreport/internal/metrics"
	"github.com/redeslab/flowreport/internal/results"
)

type Metric int

const (
	Throughput Metric = iota
	Delay
	PacketLoss
)

// Metrics lists the charted metrics in output order.
func Metrics() []Metric { return []Metric{Throughput, Delay, PacketLoss} }

func (m Metric) Name() string {
	switch m {
	case Throughput:
		return "throughput"
	case Delay:
		return "delay"
	case PacketLoss:
		return "packet_loss"
	}
	return "metric" + strconv.Itoa(int(m))
}

func (m Metric) title() string {
	switch m {
	case Throughput:
		return "Throughput"
	case Delay:
		return "Delay"
	case PacketLoss:
		return "Packet loss"
	}
	return m.Name()
}

func (m Metric) axisLabel() string {
	switch m {
	case Throughput:
		return "Throughput (Mbps)"
	case Delay:
		return "Delay (ms)"
	case PacketLoss:
		return "Packet loss (%)"
	}
	return m.Name()
}

func (m Metric) Value(s metrics.Summary) float64 {
	switch m {
	case Throughput:
		return s.Throughput
	case Delay:
		return s.AvgDelay
	case PacketLoss:
		return s.PacketLoss
	}
	return 0
}

type style struct {
	color color.Color
	shape draw.GlyphDrawer
}

var styles = map[experiment.Protocol]style{
	experiment.UDP:   {color: hexColor(0x3498db), shape: draw.CircleGlyph{}},
	experiment.TCP:   {color: hexColor(0xe74c3c), shape: draw.SquareGlyph{}},
	experiment.Mixed: {color: hexColor(0x2ecc71), shape: draw.TriangleGlyph{}},
}

func hexColor(rgb uint32) color.RGBA {
	return color.RGBA{R: uint8(rgb >> 16), G: uint8(rgb >> 8), B: uint8(rgb), A: 0xff}
}

type Options struct {
	Dir      string
	Format   string // file extension understood by plot.Save
	WidthIn  float64
	HeightIn float64
	Clients  []int
}

// Series reads one line of a chart from the table; absent runs read as 0.
func Series(tbl *results.Table, m Metric, p experiment.Protocol, mob experiment.Mobility, clients []int) plotter.XYs {
	xys := make(plotter.XYs, len(clients))
	for i, n := range clients {
		s := tbl.Lookup(experiment.Key{Protocol: p, Mobility: mob, Clients: n})
		xys[i].X = float64(n)
		xys[i].Y = m.Value(s)
	}
	return xys
}

// Chart builds the plot of metric m against client count for one mobility mode,
// one line per protocol.
func Chart(tbl *results.Table, m Metric, mob experiment.Mobility, clients []int) (*plot.Plot, error) {
	p := plot.New()
	p.Title.Text = fmt.Sprintf("%s x Number of clients (%s)", m.title(), mob.Label())
	p.X.Label.Text = "Number of clients"
	p.Y.Label.Text = m.axisLabel()
	p.Add(plotter.NewGrid())

	ticks := make([]plot.Tick, len(clients))
	for i, n := range clients {
		ticks[i] = plot.Tick{Value: float64(n), Label: strconv.Itoa(n)}
	}
	p.X.Tick.Marker = plot.ConstantTicks(ticks)

	ys := make([]float64, 0, len(clients)*len(experiment.Protocols()))
	for _, proto := range experiment.Protocols() {
		xys := Series(tbl, m, proto, mob, clients)
		st := styles[proto]

		line, err := plotter.NewLine(xys)
		if err != nil {
			return nil, fmt.Errorf("%s line: %w", proto, err)
		}
		line.LineStyle.Width = vg.Points(2)
		line.LineStyle.Color = st.color

		points, err := plotter.NewScatter(xys)
		if err != nil {
			return nil, fmt.Errorf("%s points: %w", proto, err)
		}
		points.GlyphStyle.Shape = st.shape
		points.GlyphStyle.Color = st.color
		points.GlyphStyle.Radius = vg.Points(4)

		p.Add(line, points)
		p.Legend.Add(proto.Label(), line, points)

		for _, xy := range xys {
			ys = append(ys, xy.Y)
		}
	}

	p.Y.Min = 0
	if len(ys) > 0 {
		if top := floats.Max(ys); top > 0 {
			p.Y.Max = top * 1.1
		}
	}
	return p, nil
}

// Render writes one chart per metric and mobility mode into opts.Dir and
// returns the written paths.
func Render(tbl *results.Table, opts Options) ([]string, error) {
	if len(opts.Clients) == 0 {
		return nil, fmt.Errorf("no client counts to chart")
	}
	if err := os.MkdirAll(opts.Dir, 0o755); err != nil {
		return nil, fmt.Errorf("create output dir: %w", err)
	}

	var written []string
	for _, m := range Metrics() {
		for _, mob := range experiment.Mobilities() {
			p, err := Chart(tbl, m, mob, opts.Clients)
			if err != nil {
				return written, fmt.Errorf("chart %s/%s: %w", m.Name(), mob, err)
			}

			name := filepath.Join(opts.Dir, fmt.Sprintf("%s_%s.%s", m.Name(), mob, opts.Format))
			if err := p.Save(vg.Length(opts.WidthIn)*vg.Inch, vg.Length(opts.HeightIn)*vg.Inch, name); err != nil {
				return written, fmt.Errorf("save %s: %w", name, err)
			}
			log.Debug().Str("chart", name).Msg("chart written")
			written = append(written, name)
		}
	}
	return written, nil
}

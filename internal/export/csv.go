package export

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"strconv"

	"github.com/redeslab/flowreport/internal/results"
)

var header = []string{
	"protocol",
	"mobility",
	"clients",
	"throughput_mbps",
	"packet_loss_pct",
	"avg_delay_ms",
}

type CSVWriter struct {
	f *os.File
	w *csv.Writer
}

// NewCSVWriter creates path (and its directory) and writes the header row.
func NewCSVWriter(path string) (*CSVWriter, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, err
	}
	w := csv.NewWriter(f)
	if err := w.Write(header); err != nil {
		_ = f.Close()
		return nil, err
	}
	return &CSVWriter{f: f, w: w}, nil
}

func (c *CSVWriter) WriteRow(r results.Row) error {
	return c.w.Write([]string{
		string(r.Key.Protocol),
		string(r.Key.Mobility),
		strconv.Itoa(r.Key.Clients),
		ff(r.Summary.Throughput),
		ff(r.Summary.PacketLoss),
		ff(r.Summary.AvgDelay),
	})
}

func (c *CSVWriter) Close() error {
	c.w.Flush()
	if err := c.w.Error(); err != nil {
		_ = c.f.Close()
		return err
	}
	return c.f.Close()
}

// WriteCSV dumps every populated row of the table to path.
func WriteCSV(path string, rows []results.Row) error {
	cw, err := NewCSVWriter(path)
	if err != nil {
		return err
	}
	for _, r := range rows {
		if err := cw.WriteRow(r); err != nil {
			_ = cw.Close()
			return err
		}
	}
	return cw.Close()
}

func ff(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

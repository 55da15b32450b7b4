package publish

import (
	"context"
	"strconv"
	"time"

	"github.com/redeslab/flowreport/internal/config"
	"github.com/redeslab/flowreport/internal/results"
)

// Record is the JSON payload published for one result table cell.
type Record struct {
	RunID       string    `json:"run_id"`
	GeneratedAt time.Time `json:"generated_at"`
	Protocol    string    `json:"protocol"`
	Mobility    string    `json:"mobility"`
	Clients     int       `json:"clients"`
	Throughput  float64   `json:"throughput_mbps"`
	PacketLoss  float64   `json:"packet_loss_pct"`
	AvgDelay    float64   `json:"avg_delay_ms"`
}

// Key identifies the table cell a record belongs to.
func (r Record) Key() string {
	return r.Protocol + "/" + r.Mobility + "/" + strconv.Itoa(r.Clients)
}

func NewRecords(runID string, at time.Time, rows []results.Row) []Record {
	out := make([]Record, 0, len(rows))
	for _, r := range rows {
		out = append(out, Record{
			RunID:       runID,
			GeneratedAt: at,
			Protocol:    string(r.Key.Protocol),
			Mobility:    string(r.Key.Mobility),
			Clients:     r.Key.Clients,
			Throughput:  r.Summary.Throughput,
			PacketLoss:  r.Summary.PacketLoss,
			AvgDelay:    r.Summary.AvgDelay,
		})
	}
	return out
}

// Publisher delivers a run's records to an external system.
type Publisher interface {
	Publish(ctx context.Context, records []Record) error
	Close() error
}

// FromConfig builds every publisher the settings enable; none is not an error.
func FromConfig(cfg config.PublishConfig) ([]Publisher, error) {
	var pubs []Publisher
	if cfg.BackendURL != "" {
		pubs = append(pubs, NewPoster(cfg))
	}
	if len(cfg.KafkaBrokers) > 0 {
		kp, err := NewKafkaProducer(cfg)
		if err != nil {
			return nil, err
		}
		pubs = append(pubs, kp)
	}
	return pubs, nil
}

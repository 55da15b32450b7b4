package runner

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/exp/slices"
	"gonum.org/v1/gonum/floats"

	"github.com/redeslab/flowreport/internal/config"
	"github.com/redeslab/flowreport/internal/experiment"
	"github.com/redeslab/flowreport/internal/flowmon"
	"github.com/redeslab/flowreport/internal/metrics"
	"github.com/redeslab/flowreport/internal/results"
	"github.com/redeslab/flowreport/internal/threshold"
)

// DocumentError is a failure that invalidates a whole input document.
type DocumentError struct {
	Path string
	Err  error
}

func (e *DocumentError) Error() string {
	return fmt.Sprintf("document %s: %v", e.Path, e.Err)
}

func (e *DocumentError) Unwrap() error { return e.Err }

// Stats describes what a run consumed.
type Stats struct {
	Documents    int
	Failed       int
	Replaced     int
	Degraded     int
	Flows        int
	SkippedFlows int
}

type Runner struct {
	cfg    *config.Config
	engine *threshold.Engine
	runID  string
	log    zerolog.Logger
}

func New(cfg *config.Config) *Runner {
	engine := threshold.NewEngine(threshold.Limits{
		MaxDelayMs:        cfg.Thresholds.MaxDelayMs,
		MaxPacketLoss:     cfg.Thresholds.MaxPacketLossPct,
		MinThroughputMbps: cfg.Thresholds.MinThroughputMbps,
	})
	id := uuid.New().String()

	return &Runner{
		cfg:    cfg,
		engine: engine,
		runID:  id,
		log:    log.With().Str("run_id", id).Logger(),
	}
}

func (r *Runner) RunID() string { return r.runID }

// Discover lists the documents in dir matching pattern, sorted by name.
func Discover(dir, pattern string) ([]string, error) {
	if _, err := os.Stat(dir); err != nil {
		return nil, fmt.Errorf("input dir: %w", err)
	}
	paths, err := filepath.Glob(filepath.Join(dir, pattern))
	if err != nil {
		return nil, fmt.Errorf("glob %q: %w", pattern, err)
	}
	slices.Sort(paths)
	return paths, nil
}

// ProcessFile reduces one document to its key and summary.
func (r *Runner) ProcessFile(path string) (experiment.Key, metrics.Summary, error) {
	k, _, s, err := r.process(path)
	return k, s, err
}

func (r *Runner) process(path string) (experiment.Key, *metrics.Accumulator, metrics.Summary, error) {
	k, err := experiment.ParseKey(path)
	if err != nil {
		return experiment.Key{}, nil, metrics.Summary{}, &DocumentError{Path: path, Err: err}
	}

	recs, err := flowmon.ExtractFile(path)
	if err != nil {
		return experiment.Key{}, nil, metrics.Summary{}, &DocumentError{Path: path, Err: err}
	}

	acc := &metrics.Accumulator{}
	for _, rec := range recs {
		if err := acc.Add(rec); err != nil {
			r.log.Debug().Err(err).Str("path", path).Msg("flow skipped")
		}
	}
	return k, acc, acc.Summary(), nil
}

// Run processes paths one after another into a fresh table. A document error
// aborts the run unless run.skip_invalid is set, in which case it is logged
// and the document left out.
func (r *Runner) Run(ctx context.Context, paths []string) (*results.Table, Stats, error) {
	tbl := results.NewTable()
	var st Stats

	r.log.Info().Int("documents", len(paths)).Msg("run started")

	for _, path := range paths {
		if err := ctx.Err(); err != nil {
			return tbl, st, err
		}
		st.Documents++

		k, acc, s, err := r.process(path)
		if err != nil {
			st.Failed++
			if !r.cfg.Run.SkipInvalid {
				return tbl, st, err
			}
			r.log.Error().Err(err).Str("path", path).Msg("document skipped")
			continue
		}
		st.Flows += acc.Flows()
		st.SkippedFlows += acc.Skipped()

		if tbl.Put(k, s) {
			st.Replaced++
			r.log.Warn().Str("path", path).Str("key", k.String()).Msg("duplicate run replaced earlier result")
		}

		r.log.Info().
			Str("path", filepath.Base(path)).
			Str("protocol", string(k.Protocol)).
			Str("mobility", string(k.Mobility)).
			Int("clients", k.Clients).
			Int("flows", acc.Flows()).
			Int("skipped", acc.Skipped()).
			Float64("throughput_mbps", s.Throughput).
			Float64("packet_loss_pct", s.PacketLoss).
			Float64("avg_delay_ms", s.AvgDelay).
			Msg("document reduced")

		if r.engine.Enabled() {
			if v := r.engine.Evaluate(s); v.State == threshold.Degraded {
				st.Degraded++
				r.log.Warn().
					Str("key", k.String()).
					Strs("reasons", v.Reasons).
					Msg("run outside thresholds")
			}
		}
	}

	r.logTotals(tbl, st)
	return tbl, st, nil
}

func (r *Runner) logTotals(tbl *results.Table, st Stats) {
	rows := tbl.Rows()
	ev := r.log.Info().
		Int("documents", st.Documents).
		Int("entries", tbl.Len()).
		Int("failed", st.Failed).
		Int("flows", st.Flows).
		Int("skipped_flows", st.SkippedFlows)

	if len(rows) > 0 {
		tput := make([]float64, len(rows))
		for i, row := range rows {
			tput[i] = row.Summary.Throughput
		}
		ev = ev.Float64("max_throughput_mbps", floats.Max(tput)).
			Float64("total_throughput_mbps", floats.Sum(tput))
	}
	ev.Msg("run finished")
}

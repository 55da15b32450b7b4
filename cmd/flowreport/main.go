package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redeslab/flowreport/internal/config"
	"github.com/redeslab/flowreport/internal/export"
	"github.com/redeslab/flowreport/internal/logger"
	"github.com/redeslab/flowreport/internal/publish"
	"github.com/redeslab/flowreport/internal/report"
	"github.com/redeslab/flowreport/internal/results"
	"github.com/redeslab/flowreport/internal/runner"

	"github.com/rs/zerolog/log"
)

func main() {
	cfgPath := flag.String("config", "", "path to a yaml config file (optional)")
	flag.Parse()

	// Load config
	cfg, err := config.LoadConfig(*cfgPath)
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	// Init logger
	logger.Init(cfg.Logging)

	// Context for interrupting between documents
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, flag.Args()); err != nil {
		log.Error().Err(err).Msg("flowreport failed")
		stop()
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, args []string) error {
	//------------------------------------------
	// DISCOVER INPUTS
	//------------------------------------------
	paths := args
	if len(paths) == 0 {
		var err error
		if paths, err = runner.Discover(cfg.Input.Dir, cfg.Input.Pattern); err != nil {
			return err
		}
	}
	if len(paths) == 0 {
		log.Warn().Str("dir", cfg.Input.Dir).Str("pattern", cfg.Input.Pattern).Msg("no documents found")
	}

	//------------------------------------------
	// REDUCE DOCUMENTS
	//------------------------------------------
	r := runner.New(cfg)
	log.Info().Str("run_id", r.RunID()).Msg("starting flowreport")

	tbl, _, err := r.Run(ctx, paths)
	if err != nil {
		return err
	}

	//------------------------------------------
	// EXPORT + RENDER
	//------------------------------------------
	if cfg.Output.CSV != "" {
		if err := export.WriteCSV(cfg.Output.CSV, tbl.Rows()); err != nil {
			return err
		}
		log.Info().Str("path", cfg.Output.CSV).Msg("summary csv written")
	}

	charts, err := report.Render(tbl, report.Options{
		Dir:      cfg.Output.Dir,
		Format:   cfg.Output.Format,
		WidthIn:  cfg.Output.WidthIn,
		HeightIn: cfg.Output.HeightIn,
		Clients:  cfg.Report.Clients,
	})
	if err != nil {
		return err
	}
	for _, c := range charts {
		log.Info().Str("chart", c).Msg("chart generated")
	}

	//------------------------------------------
	// PUBLISH
	//------------------------------------------
	return publishAll(ctx, cfg, r.RunID(), tbl)
}

func publishAll(ctx context.Context, cfg *config.Config, runID string, tbl *results.Table) error {
	pubs, err := publish.FromConfig(cfg.Publish)
	if err != nil {
		return err
	}
	if len(pubs) == 0 {
		return nil
	}

	records := publish.NewRecords(runID, time.Now().UTC(), tbl.Rows())

	pubCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	for _, p := range pubs {
		err := p.Publish(pubCtx, records)
		if cerr := p.Close(); cerr != nil {
			log.Warn().Err(cerr).Msg("publisher close failed")
		}
		if err != nil {
			return err
		}
	}
	log.Info().Int("records", len(records)).Int("publishers", len(pubs)).Msg("records published")
	return nil
}

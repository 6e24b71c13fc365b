package main

import (
	"context"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/theoremus-urban-solutions/gtfs-insurance-advisor/config"
	"github.com/theoremus-urban-solutions/gtfs-insurance-advisor/explain"
	"github.com/theoremus-urban-solutions/gtfs-insurance-advisor/gtfsrt"
	"github.com/theoremus-urban-solutions/gtfs-insurance-advisor/llm"
	"github.com/theoremus-urban-solutions/gtfs-insurance-advisor/policy"
	"github.com/theoremus-urban-solutions/gtfs-insurance-advisor/recommend"
	"github.com/theoremus-urban-solutions/gtfs-insurance-advisor/risk"
)

// runtime holds the load-once values shared by every request.
type runtime struct {
	risks   *risk.Table
	catalog *policy.Catalog
	delays  *gtfsrt.DelaySnapshot
	service *recommend.Service
}

// loadRuntime reads the risk table, the policy catalog and the realtime
// snapshot concurrently. A realtime failure is logged and leaves the
// snapshot empty; the other two are required.
func loadRuntime(ctx context.Context, cfg config.AppConfig, log *slog.Logger) (*runtime, error) {
	rt := &runtime{}
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		t, err := risk.LoadTable(cfg.Data.RiskTable)
		if err != nil {
			return err
		}
		rt.risks = t
		return nil
	})
	g.Go(func() error {
		c, err := policy.LoadCatalog(cfg.Data.PolicyCatalog)
		if err != nil {
			return err
		}
		rt.catalog = c
		return nil
	})
	g.Go(func() error {
		s, err := gtfsrt.LoadSnapshot(gctx, cfg.GTFSRT)
		if err != nil {
			log.Warn("realtime snapshot unavailable", "error", err)
			s, _ = gtfsrt.NewDelaySnapshot(nil)
		}
		rt.delays = s
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("load runtime data: %w", err)
	}

	if cfg.LLM.APIKey == "" {
		log.Warn("no LLM API key configured; explanations will be degraded", "env", config.EnvAPIKey)
	}
	gen := explain.NewGenerator(llm.NewClient(cfg.LLM), cfg.LLM, log)
	rt.service = recommend.NewService(rt.risks, rt.catalog, gen, rt.delays, log)

	log.Info("runtime data loaded",
		"risk_records", rt.risks.Len(),
		"policies", rt.catalog.Len(),
		"realtime_trips", rt.delays.Len(),
	)
	return rt, nil
}

package shopee

import (
	"context"
	"net/url"
	"time"

	"shopee-analyzer/config"
	"shopee-analyzer/models"
	"shopee-analyzer/utils"
)

// Prober is the optional non-browser acquisition path.
type Prober interface {
	Search(ctx context.Context, query string, limit int) ([]*models.Listing, error)
}

// Orchestrator drives one query through the acquisition tiers in order:
// direct API probe, browser API interception, DOM scraping, synthetic
// fallback. It never fails and never returns an empty set for limit >= 1.
type Orchestrator struct {
	cfg       *config.Config
	logger    *utils.Logger
	sessions  SessionFactory
	probe     Prober
	synthetic *SyntheticGenerator
	metrics   *Metrics
}

// NewOrchestrator wires the tiers together. probe and metrics may be nil.
func NewOrchestrator(cfg *config.Config, logger *utils.Logger, sessions SessionFactory, probe Prober, metrics *Metrics) *Orchestrator {
	return &Orchestrator{
		cfg:       cfg,
		logger:    logger,
		sessions:  sessions,
		probe:     probe,
		synthetic: NewSyntheticGenerator(),
		metrics:   metrics,
	}
}

// Acquire harvests up to limit listings for the query. Tier failures are
// demoted to "zero listings" and the next tier takes over; the synthetic
// tier guarantees the result is non-empty. Acquire returns an empty slice
// only when limit is zero or negative.
func (o *Orchestrator) Acquire(ctx context.Context, query string, limit int) []*models.Listing {
	if limit <= 0 {
		return nil
	}

	start := time.Now()
	defer func() { o.metrics.ObserveAcquire(time.Since(start)) }()

	if o.probe != nil {
		listings, err := o.probe.Search(ctx, query, limit)
		switch {
		case err != nil:
			o.logger.Debug("[acquire] Probe for %q failed: %v", query, err)
			o.metrics.IncAcquisition("probe", "error")
		case len(listings) > 0:
			o.logger.Info("[acquire] Probe captured %d listings for %q", len(listings), query)
			o.metrics.IncAcquisition("probe", "hit")
			o.metrics.AddListings(string(models.SourceAPI), len(listings))
			return truncate(listings, limit)
		default:
			o.metrics.IncAcquisition("probe", "empty")
		}
	}

	listings := o.acquireBrowser(ctx, query, limit)
	if len(listings) == 0 {
		o.logger.Warn("[acquire] No real data for %q — generating synthetic listings", query)
		o.metrics.IncFallback()
		listings = o.synthetic.Generate(query, limit)
		o.metrics.AddListings(string(models.SourceSynthetic), len(listings))
	}

	return truncate(listings, limit)
}

// acquireBrowser runs the API-interception and DOM tiers against one
// browsing session. The session is closed on every exit path.
func (o *Orchestrator) acquireBrowser(ctx context.Context, query string, limit int) []*models.Listing {
	session, err := o.sessions.Open(ctx)
	if err != nil {
		o.logger.Warn("[acquire] Could not open browsing session: %v", err)
		o.metrics.IncAcquisition("browser", "unavailable")
		return nil
	}
	defer session.Close()

	searchURL := o.cfg.SearchURL() + "?keyword=" + url.QueryEscape(query)

	navCtx, cancelNav := context.WithTimeout(ctx, o.cfg.NavTimeout)
	err = session.Navigate(navCtx, searchURL)
	cancelNav()
	if err != nil {
		o.logger.Warn("[acquire] Navigation failed for %q: %v", query, err)
		o.metrics.IncAcquisition("browser", "nav_error")
		return nil
	}

	// Tier 1: passively intercepted search-API responses.
	if payload, ok := session.WaitForPayload(ctx, o.cfg.InterceptWindow); ok {
		listings, err := ExtractAPIListings(payload, limit)
		switch {
		case err != nil:
			o.logger.Warn("[acquire] Intercepted payload for %q unusable: %v", query, err)
			o.metrics.IncAcquisition("api", "error")
		case len(listings) > 0:
			o.logger.Info("[acquire] API tier captured %d listings for %q", len(listings), query)
			o.metrics.IncAcquisition("api", "hit")
			o.metrics.AddListings(string(models.SourceAPI), len(listings))
			return listings
		default:
			o.metrics.IncAcquisition("api", "empty")
		}
	} else {
		o.metrics.IncAcquisition("api", "timeout")
	}

	// Tier 2: scrape the already-rendered page.
	domCtx, cancelDOM := context.WithTimeout(ctx, o.cfg.DOMTimeout)
	html, err := session.HTML(domCtx)
	cancelDOM()
	if err != nil {
		o.logger.Warn("[acquire] Could not read rendered page for %q: %v", query, err)
		o.metrics.IncAcquisition("dom", "error")
		return nil
	}

	listings, err := ExtractDOMListings(html, limit)
	if err != nil {
		o.logger.Warn("[acquire] DOM extraction failed for %q: %v", query, err)
		o.metrics.IncAcquisition("dom", "error")
		return nil
	}
	if len(listings) == 0 {
		o.metrics.IncAcquisition("dom", "empty")
		return nil
	}

	o.logger.Info("[acquire] DOM tier captured %d listings for %q", len(listings), query)
	o.metrics.IncAcquisition("dom", "hit")
	o.metrics.AddListings(string(models.SourceDOM), len(listings))
	return listings
}

func truncate(listings []*models.Listing, limit int) []*models.Listing {
	if len(listings) > limit {
		return listings[:limit]
	}
	return listings
}

package shopee

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"shopee-analyzer/config"
	"shopee-analyzer/models"
	"shopee-analyzer/utils"
)

func acquireConfig() *config.Config {
	return &config.Config{
		BaseURL:         "https://shopee.example",
		SearchPath:      "/search",
		NavTimeout:      time.Second,
		InterceptWindow: 50 * time.Millisecond,
		DOMTimeout:      time.Second,
	}
}

type fakeSession struct {
	navErr      error
	payload     []byte
	html        string
	htmlErr     error
	closed      bool
	navigatedTo string
}

func (s *fakeSession) Navigate(_ context.Context, url string) error {
	s.navigatedTo = url
	return s.navErr
}

func (s *fakeSession) WaitForPayload(_ context.Context, _ time.Duration) ([]byte, bool) {
	if s.payload == nil {
		return nil, false
	}
	return s.payload, true
}

func (s *fakeSession) HTML(_ context.Context) (string, error) {
	return s.html, s.htmlErr
}

func (s *fakeSession) Close() { s.closed = true }

type fakeSessionFactory struct {
	session *fakeSession
	openErr error
	opens   int
}

func (f *fakeSessionFactory) Open(_ context.Context) (Session, error) {
	f.opens++
	if f.openErr != nil {
		return nil, f.openErr
	}
	return f.session, nil
}

type fakeProber struct {
	listings []*models.Listing
	err      error
	calls    int
}

func (p *fakeProber) Search(_ context.Context, _ string, _ int) ([]*models.Listing, error) {
	p.calls++
	return p.listings, p.err
}

func apiPayload() []byte {
	return []byte(`{"items": [
		{"name": "Sofa A", "price": 45000000000, "sold": 30},
		{"name": "Sofa B", "price": 62000000000, "sold": 12}
	]}`)
}

func domMarkup() string {
	return `<html><body>
		<div data-sqe="item">
			<div data-sqe="name">Rendered Sofa</div>
			<span data-sqe="price">R$ 999,00</span>
		</div>
	</body></html>`
}

func tierOf(listings []*models.Listing) models.SourceTier {
	return listings[0].SourceTier
}

func TestAcquireProbeTier(t *testing.T) {
	probe := &fakeProber{listings: []*models.Listing{
		{Name: "Probed Sofa", Price: 500, SourceTier: models.SourceAPI},
	}}
	factory := &fakeSessionFactory{session: &fakeSession{}}
	o := NewOrchestrator(acquireConfig(), utils.NewLogger(), factory, probe, nil)

	listings := o.Acquire(context.Background(), "sofa", 10)
	if len(listings) != 1 || listings[0].Name != "Probed Sofa" {
		t.Fatalf("Expected the probe result, got %v", listings)
	}
	if factory.opens != 0 {
		t.Error("Probe hit must not open a browser session")
	}
}

func TestAcquireAPITierAfterProbeFailure(t *testing.T) {
	probe := &fakeProber{err: errors.New("blocked")}
	session := &fakeSession{payload: apiPayload(), html: domMarkup()}
	factory := &fakeSessionFactory{session: session}
	o := NewOrchestrator(acquireConfig(), utils.NewLogger(), factory, probe, nil)

	listings := o.Acquire(context.Background(), "sofa 3 seater", 10)
	if len(listings) != 2 {
		t.Fatalf("Expected 2 intercepted listings, got %d", len(listings))
	}
	if tierOf(listings) != models.SourceAPI {
		t.Errorf("Tier = %s, want %s", tierOf(listings), models.SourceAPI)
	}
	if !session.closed {
		t.Error("Session must be closed after acquisition")
	}
	if !strings.Contains(session.navigatedTo, "keyword=sofa+3+seater") {
		t.Errorf("Navigated to %q, want the escaped query", session.navigatedTo)
	}
}

func TestAcquireDOMTierWhenNoPayload(t *testing.T) {
	session := &fakeSession{html: domMarkup()}
	factory := &fakeSessionFactory{session: session}
	o := NewOrchestrator(acquireConfig(), utils.NewLogger(), factory, nil, nil)

	listings := o.Acquire(context.Background(), "sofa", 10)
	if len(listings) != 1 || listings[0].Name != "Rendered Sofa" {
		t.Fatalf("Expected the DOM listing, got %v", listings)
	}
	if tierOf(listings) != models.SourceDOM {
		t.Errorf("Tier = %s, want %s", tierOf(listings), models.SourceDOM)
	}
	if !session.closed {
		t.Error("Session must be closed after acquisition")
	}
}

func TestAcquireDOMTierWhenPayloadUnusable(t *testing.T) {
	session := &fakeSession{payload: []byte(`{"error": 1}`), html: domMarkup()}
	factory := &fakeSessionFactory{session: session}
	o := NewOrchestrator(acquireConfig(), utils.NewLogger(), factory, nil, nil)

	listings := o.Acquire(context.Background(), "sofa", 10)
	if len(listings) != 1 || tierOf(listings) != models.SourceDOM {
		t.Fatalf("Expected the DOM tier to recover, got %v", listings)
	}
}

func TestAcquireSyntheticWhenSessionUnavailable(t *testing.T) {
	factory := &fakeSessionFactory{openErr: errors.New("pool exhausted")}
	o := NewOrchestrator(acquireConfig(), utils.NewLogger(), factory, nil, nil)

	listings := o.Acquire(context.Background(), "sofa", 8)
	if len(listings) != 8 {
		t.Fatalf("Expected 8 synthetic listings, got %d", len(listings))
	}
	if tierOf(listings) != models.SourceSynthetic {
		t.Errorf("Tier = %s, want %s", tierOf(listings), models.SourceSynthetic)
	}
}

func TestAcquireSyntheticWhenNavigationFails(t *testing.T) {
	session := &fakeSession{navErr: errors.New("net::ERR_TIMED_OUT")}
	factory := &fakeSessionFactory{session: session}
	o := NewOrchestrator(acquireConfig(), utils.NewLogger(), factory, nil, nil)

	listings := o.Acquire(context.Background(), "sofa", 5)
	if len(listings) != 5 || tierOf(listings) != models.SourceSynthetic {
		t.Fatalf("Expected synthetic fallback, got %d listings", len(listings))
	}
	if !session.closed {
		t.Error("Session must be closed when navigation fails")
	}
}

func TestAcquireSyntheticWhenAllTiersEmpty(t *testing.T) {
	session := &fakeSession{html: "<html><body></body></html>"}
	factory := &fakeSessionFactory{session: session}
	o := NewOrchestrator(acquireConfig(), utils.NewLogger(), factory, nil, nil)

	listings := o.Acquire(context.Background(), "sofa", 12)
	if len(listings) != 12 || tierOf(listings) != models.SourceSynthetic {
		t.Fatalf("Expected 12 synthetic listings, got %d", len(listings))
	}
}

func TestAcquireHonorsLimit(t *testing.T) {
	session := &fakeSession{payload: apiPayload()}
	factory := &fakeSessionFactory{session: session}
	o := NewOrchestrator(acquireConfig(), utils.NewLogger(), factory, nil, nil)

	listings := o.Acquire(context.Background(), "sofa", 1)
	if len(listings) != 1 {
		t.Errorf("Expected 1 listing with limit 1, got %d", len(listings))
	}
}

func TestAcquireNonPositiveLimit(t *testing.T) {
	factory := &fakeSessionFactory{session: &fakeSession{}}
	o := NewOrchestrator(acquireConfig(), utils.NewLogger(), factory, nil, nil)

	if listings := o.Acquire(context.Background(), "sofa", 0); listings != nil {
		t.Errorf("Expected nil for limit 0, got %d listings", len(listings))
	}
	if factory.opens != 0 {
		t.Error("No session should open for a non-positive limit")
	}
}

func TestAcquireWithMetrics(t *testing.T) {
	metrics := NewMetrics()
	factory := &fakeSessionFactory{openErr: errors.New("down")}
	o := NewOrchestrator(acquireConfig(), utils.NewLogger(), factory, nil, metrics)

	listings := o.Acquire(context.Background(), "sofa", 3)
	if len(listings) != 3 {
		t.Fatalf("Expected 3 listings, got %d", len(listings))
	}

	families, err := metrics.Registry.Gather()
	if err != nil {
		t.Fatalf("Gather failed: %v", err)
	}
	found := map[string]bool{}
	for _, mf := range families {
		found[mf.GetName()] = true
	}
	for _, name := range []string{
		"analyzer_acquisitions_total",
		"analyzer_acquire_duration_seconds",
		"analyzer_listings_harvested_total",
		"analyzer_synthetic_fallbacks_total",
	} {
		if !found[name] {
			t.Errorf("Metric %s not gathered", name)
		}
	}
}

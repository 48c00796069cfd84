package shopee

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-resty/resty/v2"

	"shopee-analyzer/config"
	"shopee-analyzer/models"
	"shopee-analyzer/utils"
)

// searchAPIPath is the public endpoint behind the results page. A direct
// request is cheap when it works and is usually the first thing the target
// blocks, so the probe is strictly best-effort.
const searchAPIPath = "/api/v4/search/search_items"

// SearchProbe fetches the search API over plain HTTP, without a browser.
// Its payload feeds the same extractor as intercepted responses.
type SearchProbe struct {
	client    *resty.Client
	logger    *utils.Logger
	retry     *utils.RetryConfig
	searchURL string
	referer   string
}

// NewSearchProbe builds a probe from config.
func NewSearchProbe(cfg *config.Config, logger *utils.Logger) *SearchProbe {
	client := resty.New().
		SetTimeout(cfg.ProbeTimeout).
		SetHeader("Accept", "application/json").
		SetHeader("Accept-Language", "pt-BR,pt;q=0.9,en;q=0.8").
		SetHeader("Accept-Encoding", "gzip")

	return &SearchProbe{
		client:    client,
		logger:    logger,
		searchURL: cfg.BaseURL + searchAPIPath,
		referer:   cfg.SearchURL(),
		retry: &utils.RetryConfig{
			MaxAttempts: 2,
			BaseDelay:   500 * time.Millisecond,
			Logger:      logger,
		},
	}
}

// Search requests up to limit items for the query. Any transport or
// payload-shape problem is returned as an error for the orchestrator to
// demote to "zero listings from this tier".
func (p *SearchProbe) Search(ctx context.Context, query string, limit int) ([]*models.Listing, error) {
	var body []byte

	err := p.retry.Do("search-probe", func() error {
		resp, err := p.client.R().
			SetContext(ctx).
			SetHeader("User-Agent", randomUserAgent()).
			SetHeader("Referer", p.referer+"?keyword="+query).
			SetQueryParams(map[string]string{
				"keyword": query,
				"limit":   strconv.Itoa(limit),
				"newest":  "0",
				"order":   "desc",
				"by":      "relevancy",
			}).
			Get(p.searchURL)
		if err != nil {
			return fmt.Errorf("probe request: %w", err)
		}
		if resp.StatusCode() != http.StatusOK {
			return fmt.Errorf("probe status %d", resp.StatusCode())
		}
		body = resp.Body()
		return nil
	})
	if err != nil {
		return nil, err
	}

	return ExtractAPIListings(body, limit)
}

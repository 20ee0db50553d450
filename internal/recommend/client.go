// Package recommend matches a buyer's described needs to seller profiles
// through an external matching service. The gateway degrades to an empty
// result on any failure; browsing must keep working when the matcher is
// down, slow, or talking nonsense.
package recommend

import (
	"context"
	"fmt"
	"net/http"

	"scheduleflow/pkg/client"
	"scheduleflow/pkg/config"
	"scheduleflow/pkg/logger"

	"golang.org/x/time/rate"
)

type Matcher interface {
	Match(ctx context.Context, description string) ([]string, error)
}

type matchRequest struct {
	Description string `json:"description"`
}

type matchResponse struct {
	Names []string `json:"names"`
}

type matcherClient struct {
	http    *client.HttpClient
	apiKey  string
	limiter *rate.Limiter
	log     *logger.Logger
}

func NewMatcher(cfg *config.Config) Matcher {
	return &matcherClient{
		http:    client.NewHttpClient(cfg.RecommendBaseURL, cfg.RecommendTimeout),
		apiKey:  cfg.RecommendAPIKey,
		limiter: rate.NewLimiter(rate.Limit(cfg.RecommendRPS), cfg.RecommendBurst),
		log:     cfg.Log,
	}
}

// Match sends the buyer's needs description and returns the seller names the
// matching service proposes. Outbound calls are rate limited so a burst of
// buyers cannot exhaust the matcher quota.
func (c *matcherClient) Match(ctx context.Context, description string) ([]string, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait: %w", err)
	}

	headers := map[string]string{}
	if c.apiKey != "" {
		headers["X-API-Key"] = c.apiKey
	}

	resp, err := c.http.POST(ctx, "/v1/match", matchRequest{Description: description}, headers)
	if err != nil {
		return nil, fmt.Errorf("match request failed: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("matcher returned %d: %s", resp.StatusCode, client.GetErrorMessage(resp))
	}

	var out matchResponse
	if err := resp.DecodeJSON(&out); err != nil {
		return nil, fmt.Errorf("failed to decode matcher response: %w", err)
	}

	return out.Names, nil
}

package recommend

import (
	"context"

	sellersvc "scheduleflow/internal/sellers/service"
	"scheduleflow/pkg/config"
	"scheduleflow/pkg/model"
)

type RecommendService interface {
	Recommend(ctx context.Context, description string) []*model.Seller
}

type recommendService struct {
	matcher Matcher
	sellers sellersvc.SellerService
	cfg     *config.Config
}

func NewRecommendService(matcher Matcher, sellers sellersvc.SellerService, cfg *config.Config) RecommendService {
	return &recommendService{
		matcher: matcher,
		sellers: sellers,
		cfg:     cfg,
	}
}

// Recommend returns the known sellers matching the description. Names the
// matcher proposes that do not correspond to a stored profile are dropped.
// Every failure path returns an empty list, never an error.
func (s *recommendService) Recommend(ctx context.Context, description string) []*model.Seller {
	if s.cfg.RecommendBaseURL == "" {
		return []*model.Seller{}
	}

	names, err := s.matcher.Match(ctx, description)
	if err != nil {
		s.cfg.Log.Warn("Recommendation matcher unavailable, returning empty list", "error", err)
		return []*model.Seller{}
	}
	if len(names) == 0 {
		return []*model.Seller{}
	}

	sellers, err := s.sellers.FindByNames(ctx, names)
	if err != nil {
		s.cfg.Log.Warn("Failed to resolve recommended sellers, returning empty list", "error", err)
		return []*model.Seller{}
	}

	return sellers
}

package app

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jaiwee/cathay-chuangx5/internal/domain"
)

// CandidateService reads the reference pools, caching results since pool
// data only changes when the seeder runs. The cache is optional; a nil
// cache reads straight through to the repository.
type CandidateService struct {
	repo     domain.CandidateRepository
	cache    domain.Cache
	cacheTTL time.Duration
}

func NewCandidateService(r domain.CandidateRepository, c domain.Cache, ttl time.Duration) *CandidateService {
	return &CandidateService{repo: r, cache: c, cacheTTL: ttl}
}

// FlightsByRoute returns pool flights for the route, narrowed to the
// preferred part of the day by departure-hour bucketing.
func (s *CandidateService) FlightsByRoute(ctx context.Context, origin, dest string, pref domain.TimingPreference) ([]domain.FlightCandidate, error) {
	key := fmt.Sprintf("flights:%s:%s", keyPart(origin), keyPart(dest))
	var pool []domain.FlightCandidate
	if !s.cachedInto(ctx, key, &pool) {
		var err error
		pool, err = s.repo.FlightsByRoute(ctx, origin, dest)
		if err != nil {
			return nil, err
		}
		s.put(ctx, key, pool)
	}

	out := make([]domain.FlightCandidate, 0, len(pool))
	for _, f := range pool {
		if f.MatchesTiming(pref) {
			out = append(out, f)
		}
	}
	return out, nil
}

func (s *CandidateService) HotelsByCountry(ctx context.Context, country string) ([]domain.HotelCandidate, error) {
	key := "hotels:" + keyPart(country)
	var out []domain.HotelCandidate
	if s.cachedInto(ctx, key, &out) {
		return out, nil
	}
	out, err := s.repo.HotelsByCountry(ctx, country)
	if err != nil {
		return nil, err
	}
	s.put(ctx, key, out)
	return out, nil
}

func (s *CandidateService) CarRentalsByCountry(ctx context.Context, country string) ([]domain.CarRentalCandidate, error) {
	key := "cars:" + keyPart(country)
	var out []domain.CarRentalCandidate
	if s.cachedInto(ctx, key, &out) {
		return out, nil
	}
	out, err := s.repo.CarRentalsByCountry(ctx, country)
	if err != nil {
		return nil, err
	}
	s.put(ctx, key, out)
	return out, nil
}

func (s *CandidateService) Activities(ctx context.Context) ([]domain.ActivityCandidate, error) {
	var out []domain.ActivityCandidate
	if s.cachedInto(ctx, "activities", &out) {
		return out, nil
	}
	out, err := s.repo.Activities(ctx)
	if err != nil {
		return nil, err
	}
	s.put(ctx, "activities", out)
	return out, nil
}

func (s *CandidateService) ShopItems(ctx context.Context) ([]domain.ShopItem, error) {
	var out []domain.ShopItem
	if s.cachedInto(ctx, "shop_items", &out) {
		return out, nil
	}
	out, err := s.repo.ShopItems(ctx)
	if err != nil {
		return nil, err
	}
	s.put(ctx, "shop_items", out)
	return out, nil
}

func (s *CandidateService) cachedInto(ctx context.Context, key string, dst any) bool {
	if s.cache == nil {
		return false
	}
	ok, _ := s.cache.Get(ctx, key, dst)
	return ok
}

func (s *CandidateService) put(ctx context.Context, key string, v any) {
	if s.cache == nil {
		return
	}
	_ = s.cache.Set(ctx, key, v, int(s.cacheTTL.Seconds()))
}

func keyPart(s string) string {
	return strings.ToLower(strings.ReplaceAll(strings.TrimSpace(s), " ", "_"))
}

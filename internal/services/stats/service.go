package stats

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/ivankudzin/truecompanions/backend/internal/domain/model"
)

const cacheKey = "admin_stats"

type ProfileCounter interface {
	Counts(ctx context.Context) (model.ProfileCounts, error)
}

type RevenueSource interface {
	Revenue(ctx context.Context) (int64, error)
}

type UnlockCounter interface {
	Count(ctx context.Context) (int64, error)
}

type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

type Service struct {
	profiles ProfileCounter
	revenue  RevenueSource
	unlocks  UnlockCounter
	cache    Cache
	ttl      time.Duration
	log      *zap.Logger
}

func NewService(profiles ProfileCounter, revenue RevenueSource, unlocks UnlockCounter, cache Cache, ttl time.Duration) *Service {
	return &Service{
		profiles: profiles,
		revenue:  revenue,
		unlocks:  unlocks,
		cache:    cache,
		ttl:      ttl,
		log:      zap.NewNop(),
	}
}

func (s *Service) AttachLogger(log *zap.Logger) {
	if log != nil {
		s.log = log
	}
}

// Get returns the dashboard counters, served from cache while fresh. Cache
// failures only cost a live computation.
func (s *Service) Get(ctx context.Context) (model.AdminStats, error) {
	if cached, ok := s.readCache(ctx); ok {
		return cached, nil
	}

	out, err := s.compute(ctx)
	if err != nil {
		return model.AdminStats{}, err
	}

	s.writeCache(ctx, out)
	return out, nil
}

func (s *Service) compute(ctx context.Context) (model.AdminStats, error) {
	if s.profiles == nil || s.revenue == nil || s.unlocks == nil {
		return model.AdminStats{}, fmt.Errorf("stats service dependencies are not configured")
	}

	counts, err := s.profiles.Counts(ctx)
	if err != nil {
		return model.AdminStats{}, fmt.Errorf("count biodatas: %w", err)
	}
	revenue, err := s.revenue.Revenue(ctx)
	if err != nil {
		return model.AdminStats{}, fmt.Errorf("sum revenue: %w", err)
	}
	requests, err := s.unlocks.Count(ctx)
	if err != nil {
		return model.AdminStats{}, fmt.Errorf("count contact requests: %w", err)
	}

	return model.AdminStats{
		BiodataCount:       counts.Total,
		MaleCount:          counts.Male,
		FemaleCount:        counts.Female,
		PremiumCount:       counts.Premium,
		RevenueCents:       revenue,
		UnlockRequestCount: requests,
	}, nil
}

func (s *Service) readCache(ctx context.Context) (model.AdminStats, bool) {
	if s.cache == nil || s.ttl <= 0 {
		return model.AdminStats{}, false
	}

	data, ok, err := s.cache.Get(ctx, cacheKey)
	if err != nil {
		s.log.Warn("stats cache read failed", zap.Error(err))
		return model.AdminStats{}, false
	}
	if !ok {
		return model.AdminStats{}, false
	}

	var out model.AdminStats
	if err := json.Unmarshal(data, &out); err != nil {
		s.log.Warn("stats cache entry is corrupt", zap.Error(err))
		return model.AdminStats{}, false
	}
	return out, true
}

func (s *Service) writeCache(ctx context.Context, stats model.AdminStats) {
	if s.cache == nil || s.ttl <= 0 {
		return
	}

	data, err := json.Marshal(stats)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, cacheKey, data, s.ttl); err != nil {
		s.log.Warn("stats cache write failed", zap.Error(err))
	}
}

package stats_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"

	"github.com/ivankudzin/truecompanions/backend/internal/domain/model"
	redrepo "github.com/ivankudzin/truecompanions/backend/internal/repo/redis"
	"github.com/ivankudzin/truecompanions/backend/internal/services/stats"
)

type sourcesStub struct {
	counts   model.ProfileCounts
	revenue  int64
	requests int64
	calls    int
}

func (s *sourcesStub) Counts(context.Context) (model.ProfileCounts, error) {
	s.calls++
	return s.counts, nil
}

func (s *sourcesStub) Revenue(context.Context) (int64, error) {
	return s.revenue, nil
}

func (s *sourcesStub) Count(context.Context) (int64, error) {
	return s.requests, nil
}

type brokenCache struct{}

func (brokenCache) Get(context.Context, string) ([]byte, bool, error) {
	return nil, false, errors.New("redis down")
}

func (brokenCache) Set(context.Context, string, []byte, time.Duration) error {
	return errors.New("redis down")
}

func newSources() *sourcesStub {
	return &sourcesStub{
		counts:   model.ProfileCounts{Total: 10, Male: 6, Female: 4, Premium: 2},
		revenue:  2500,
		requests: 5,
	}
}

func TestGetComputesAndCaches(t *testing.T) {
	mr := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	defer client.Close()

	sources := newSources()
	svc := stats.NewService(sources, sources, sources, redrepo.NewCacheRepo(client), 30*time.Second)
	ctx := context.Background()

	first, err := svc.Get(ctx)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	want := model.AdminStats{BiodataCount: 10, MaleCount: 6, FemaleCount: 4, PremiumCount: 2, RevenueCents: 2500, UnlockRequestCount: 5}
	if first != want {
		t.Fatalf("unexpected stats: %#v", first)
	}

	sources.counts.Total = 99
	second, err := svc.Get(ctx)
	if err != nil {
		t.Fatalf("second get: %v", err)
	}
	if second.BiodataCount != 10 || sources.calls != 1 {
		t.Fatalf("expected cached stats, got %#v after %d calls", second, sources.calls)
	}

	mr.FastForward(31 * time.Second)
	third, err := svc.Get(ctx)
	if err != nil {
		t.Fatalf("third get: %v", err)
	}
	if third.BiodataCount != 99 {
		t.Fatalf("expected refreshed stats after ttl, got %#v", third)
	}
}

func TestGetFallsThroughOnCacheFailure(t *testing.T) {
	sources := newSources()
	svc := stats.NewService(sources, sources, sources, brokenCache{}, 30*time.Second)

	out, err := svc.Get(context.Background())
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if out.BiodataCount != 10 {
		t.Fatalf("unexpected stats: %#v", out)
	}
}

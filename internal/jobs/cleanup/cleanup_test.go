package cleanup

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"testing"
	"time"

	"github.com/ivankudzin/truecompanions/backend/internal/domain/model"
)

func TestRunDeletesFavoritesOfMissingProfiles(t *testing.T) {
	favorites := &fakeFavorites{}
	for i := 1; i <= 7; i++ {
		target := "live"
		if i%3 == 0 {
			target = "gone"
		}
		favorites.items = append(favorites.items, model.Favorite{ID: fmt.Sprintf("%02d", i), TargetProfileID: target})
	}
	profiles := fakeProfiles{"live": {}}

	job := NewFavoritesSweep(favorites, profiles, 2, nil)
	if err := job.Run(context.Background()); err != nil {
		t.Fatalf("run sweep: %v", err)
	}

	for _, fav := range favorites.items {
		if fav.TargetProfileID == "gone" {
			t.Fatalf("orphan favorite %s survived", fav.ID)
		}
	}
	if len(favorites.items) != 5 {
		t.Fatalf("expected 5 favorites left, got %d", len(favorites.items))
	}
	if favorites.batches < 3 {
		t.Fatalf("expected batched scan, got %d batches", favorites.batches)
	}
}

func TestRunStopsOnLookupError(t *testing.T) {
	favorites := &fakeFavorites{items: []model.Favorite{{ID: "01", TargetProfileID: "x"}}}
	job := NewFavoritesSweep(favorites, failingProfiles{}, 10, nil)

	if err := job.Run(context.Background()); err == nil {
		t.Fatalf("expected lookup error")
	}
	if len(favorites.items) != 1 {
		t.Fatalf("nothing may be deleted when lookup fails")
	}
}

func TestLoopReturnsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	job := NewFavoritesSweep(&fakeFavorites{}, fakeProfiles{}, 10, nil)

	done := make(chan struct{})
	go func() {
		job.Loop(ctx, time.Millisecond)
		close(done)
	}()
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatalf("loop did not stop after cancel")
	}
}

type fakeFavorites struct {
	items   []model.Favorite
	batches int
}

func (f *fakeFavorites) ListBatch(_ context.Context, afterID string, limit int) ([]model.Favorite, error) {
	f.batches++
	sort.Slice(f.items, func(i, j int) bool { return f.items[i].ID < f.items[j].ID })
	out := make([]model.Favorite, 0, limit)
	for _, item := range f.items {
		if item.ID > afterID && len(out) < limit {
			out = append(out, item)
		}
	}
	return out, nil
}

func (f *fakeFavorites) DeleteByTargets(_ context.Context, targets []string) (int64, error) {
	drop := make(map[string]struct{}, len(targets))
	for _, t := range targets {
		drop[t] = struct{}{}
	}
	kept := f.items[:0]
	var deleted int64
	for _, item := range f.items {
		if _, ok := drop[item.TargetProfileID]; ok {
			deleted++
			continue
		}
		kept = append(kept, item)
	}
	f.items = kept
	return deleted, nil
}

type fakeProfiles map[string]struct{}

func (p fakeProfiles) ExistingIDs(_ context.Context, ids []string) (map[string]struct{}, error) {
	out := make(map[string]struct{})
	for _, id := range ids {
		if _, ok := p[id]; ok {
			out[id] = struct{}{}
		}
	}
	return out, nil
}

type failingProfiles struct{}

func (failingProfiles) ExistingIDs(context.Context, []string) (map[string]struct{}, error) {
	return nil, errors.New("mongo unavailable")
}

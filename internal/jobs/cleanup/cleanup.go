package cleanup

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/ivankudzin/truecompanions/backend/internal/domain/model"
)

type FavoriteStore interface {
	ListBatch(ctx context.Context, afterID string, limit int) ([]model.Favorite, error)
	DeleteByTargets(ctx context.Context, targetProfileIDs []string) (int64, error)
}

type ProfileIndex interface {
	ExistingIDs(ctx context.Context, ids []string) (map[string]struct{}, error)
}

// Job removes favorites that point at profiles which no longer exist.
type Job struct {
	favorites FavoriteStore
	profiles  ProfileIndex
	batchSize int
	logger    *zap.Logger
}

func NewFavoritesSweep(favorites FavoriteStore, profiles ProfileIndex, batchSize int, logger *zap.Logger) *Job {
	if batchSize <= 0 {
		batchSize = 500
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Job{
		favorites: favorites,
		profiles:  profiles,
		batchSize: batchSize,
		logger:    logger,
	}
}

// Run walks every favorite once in id order.
func (j *Job) Run(ctx context.Context) error {
	if j.favorites == nil || j.profiles == nil {
		return nil
	}

	var (
		cursor  string
		scanned int
		deleted int64
	)
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		batch, err := j.favorites.ListBatch(ctx, cursor, j.batchSize)
		if err != nil {
			return fmt.Errorf("list favorites batch: %w", err)
		}
		if len(batch) == 0 {
			break
		}
		scanned += len(batch)
		cursor = batch[len(batch)-1].ID

		targets := uniqueTargets(batch)
		existing, err := j.profiles.ExistingIDs(ctx, targets)
		if err != nil {
			return fmt.Errorf("resolve favorite targets: %w", err)
		}

		orphans := make([]string, 0)
		for _, id := range targets {
			if _, ok := existing[id]; !ok {
				orphans = append(orphans, id)
			}
		}
		if len(orphans) > 0 {
			n, err := j.favorites.DeleteByTargets(ctx, orphans)
			if err != nil {
				return fmt.Errorf("delete orphan favorites: %w", err)
			}
			deleted += n
		}

		if len(batch) < j.batchSize {
			break
		}
	}

	if deleted > 0 {
		j.logger.Info("favorites sweep completed", zap.Int("scanned", scanned), zap.Int64("deleted", deleted))
	}
	return nil
}

// Loop runs the sweep immediately and then on every tick until ctx ends.
// A failed pass is logged and retried on the next tick.
func (j *Job) Loop(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = time.Hour
	}

	j.runLogged(ctx)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			j.runLogged(ctx)
		}
	}
}

func (j *Job) runLogged(ctx context.Context) {
	if err := j.Run(ctx); err != nil && ctx.Err() == nil {
		j.logger.Warn("favorites sweep failed", zap.Error(err))
	}
}

func uniqueTargets(batch []model.Favorite) []string {
	seen := make(map[string]struct{}, len(batch))
	out := make([]string, 0, len(batch))
	for _, fav := range batch {
		if _, ok := seen[fav.TargetProfileID]; ok {
			continue
		}
		seen[fav.TargetProfileID] = struct{}{}
		out = append(out, fav.TargetProfileID)
	}
	return out
}

package storage

import (
	"context"
	"log/slog"
	"sort"
	"time"
)

// RetentionPolicy bounds audio artifact accumulation. Zero values disable the
// corresponding limit.
type RetentionPolicy struct {
	MaxAge   time.Duration
	MaxCount int
}

func (p RetentionPolicy) enabled() bool {
	return p.MaxAge > 0 || p.MaxCount > 0
}

// Sweep deletes artifacts that exceed the policy and returns how many were
// removed. Oldest artifacts go first when trimming to MaxCount.
func Sweep(ctx context.Context, store ArtifactStore, policy RetentionPolicy) int {
	if !policy.enabled() {
		return 0
	}

	artifacts, err := store.List(ctx)
	if err != nil {
		slog.Warn("artifact sweep could not list store", "error", err)
		return 0
	}

	sort.Slice(artifacts, func(i, j int) bool {
		return artifacts[i].ModTime.Before(artifacts[j].ModTime)
	})

	var doomed []Artifact
	if policy.MaxAge > 0 {
		cutoff := time.Now().Add(-policy.MaxAge)
		for _, a := range artifacts {
			if a.ModTime.Before(cutoff) {
				doomed = append(doomed, a)
			}
		}
	}
	if policy.MaxCount > 0 && len(artifacts)-len(doomed) > policy.MaxCount {
		extra := len(artifacts) - len(doomed) - policy.MaxCount
		remaining := artifacts[len(doomed):]
		doomed = append(doomed, remaining[:extra]...)
	}

	removed := 0
	for _, a := range doomed {
		if err := store.Delete(ctx, a.Name); err != nil {
			slog.Warn("artifact sweep could not delete", "name", a.Name, "error", err)
			continue
		}
		removed++
	}

	if removed > 0 {
		slog.Info("swept audio artifacts", "removed", removed)
	}
	return removed
}

// Janitor runs Sweep on a fixed interval until ctx is done.
func Janitor(ctx context.Context, store ArtifactStore, policy RetentionPolicy, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			Sweep(ctx, store, policy)
		}
	}
}

// Package storage holds synthesized audio artifacts and hands out the public
// references they are served under.
package storage

import (
	"context"
	"io"
	"time"
)

type Artifact struct {
	Name    string
	Size    int64
	ModTime time.Time
}

type ArtifactStore interface {
	// Put stores an artifact and returns its public reference URL.
	Put(ctx context.Context, name string, data io.Reader) (string, error)

	List(ctx context.Context) ([]Artifact, error)

	Delete(ctx context.Context, name string) error
}

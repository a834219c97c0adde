package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// LocalProvider keeps artifacts on disk under the static root so the SPA file
// server can serve them directly.
type LocalProvider struct {
	dir       string
	urlPrefix string
}

var _ ArtifactStore = (*LocalProvider)(nil)

func NewLocalProvider(dir, urlPrefix string) (*LocalProvider, error) {
	if err := os.MkdirAll(dir, os.ModePerm); err != nil {
		return nil, fmt.Errorf("could not create artifact dir %s: %w", dir, err)
	}
	return &LocalProvider{dir: dir, urlPrefix: urlPrefix}, nil
}

func (p *LocalProvider) Put(ctx context.Context, name string, data io.Reader) (string, error) {
	dst, err := os.Create(filepath.Join(p.dir, name))
	if err != nil {
		return "", err
	}
	defer dst.Close()

	if _, err := io.Copy(dst, data); err != nil {
		return "", err
	}
	return p.urlPrefix + "/" + name, nil
}

func (p *LocalProvider) List(ctx context.Context) ([]Artifact, error) {
	files, err := os.ReadDir(p.dir)
	if err != nil {
		return nil, err
	}

	var artifacts []Artifact
	for _, file := range files {
		if file.IsDir() {
			continue
		}
		info, err := file.Info()
		if err != nil {
			return nil, err
		}
		artifacts = append(artifacts, Artifact{Name: file.Name(), Size: info.Size(), ModTime: info.ModTime()})
	}
	return artifacts, nil
}

func (p *LocalProvider) Delete(ctx context.Context, name string) error {
	return os.Remove(filepath.Join(p.dir, name))
}

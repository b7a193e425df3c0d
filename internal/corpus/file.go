package corpus

import (
	"context"
	"fmt"
	"path/filepath"

	"golang.org/x/sync/errgroup"

	"github.com/amishk599/reqwiz/internal/extract"
	"github.com/amishk599/reqwiz/internal/model"
)

// FileSource extracts documents from local files. Patterns may be plain
// paths or globs; matches keep the order of the patterns.
type FileSource struct {
	patterns    []string
	concurrency int
}

// NewFileSource creates a FileSource that extracts at most concurrency
// files at a time.
func NewFileSource(patterns []string, concurrency int) *FileSource {
	if concurrency <= 0 {
		concurrency = 1
	}
	return &FileSource{patterns: patterns, concurrency: concurrency}
}

func (s *FileSource) Name() string { return "files" }

func (s *FileSource) Load(ctx context.Context) ([]model.Document, error) {
	paths, err := s.expand()
	if err != nil {
		return nil, err
	}

	docs := make([]model.Document, len(paths))
	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)
	for i, path := range paths {
		g.Go(func() error {
			if err := gCtx.Err(); err != nil {
				return err
			}
			text, err := extract.FromFile(path)
			if err != nil {
				return err
			}
			docs[i] = model.Document{Origin: path, Text: text}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return docs, nil
}

func (s *FileSource) expand() ([]string, error) {
	var paths []string
	seen := make(map[string]bool)
	for _, pattern := range s.patterns {
		matches, err := filepath.Glob(pattern)
		if err != nil {
			return nil, fmt.Errorf("bad corpus pattern %q: %w", pattern, err)
		}
		if len(matches) == 0 {
			return nil, fmt.Errorf("corpus pattern %q matched no files", pattern)
		}
		for _, m := range matches {
			if seen[m] {
				continue
			}
			seen[m] = true
			paths = append(paths, m)
		}
	}
	return paths, nil
}

// Package corpus loads reference documents for the embedding index from
// local files, object storage and public job boards.
package corpus

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/amishk599/reqwiz/internal/model"
)

// Source produces reference documents.
type Source interface {
	Name() string
	Load(ctx context.Context) ([]model.Document, error)
}

// Collect loads every source in order and concatenates their documents.
// Documents with blank text are dropped. The first failing source aborts
// the collection.
func Collect(ctx context.Context, logger *slog.Logger, sources ...Source) ([]model.Document, error) {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	var docs []model.Document
	for _, src := range sources {
		loaded, err := src.Load(ctx)
		if err != nil {
			return nil, fmt.Errorf("load corpus from %s: %w", src.Name(), err)
		}
		kept := 0
		for _, d := range loaded {
			if strings.TrimSpace(d.Text) == "" {
				logger.Debug("skipping empty document", "source", src.Name(), "origin", d.Origin)
				continue
			}
			docs = append(docs, d)
			kept++
		}
		logger.Info("corpus source loaded", "source", src.Name(), "documents", kept)
	}
	return docs, nil
}

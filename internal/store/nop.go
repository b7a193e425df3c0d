package store

import (
	"context"

	"github.com/amishk599/reqwiz/internal/model"
)

// NopStore is a no-op store used when selections should live only in memory.
// It never remembers anything, so every Add reports a new item.
type NopStore struct{}

func NewNopStore() *NopStore { return &NopStore{} }

func (s *NopStore) Add(context.Context, string, model.Category, string) (bool, error) { return true, nil }
func (s *NopStore) List(context.Context, string, model.Category) ([]string, error) {
	return []string{}, nil
}
func (s *NopStore) Close() error { return nil }

package suggest

import (
	"fmt"
	"slices"
	"strings"

	"github.com/amishk599/reqwiz/internal/model"
)

// Pool is the list of pending suggestions produced by one generation call
// for one category. Removing an item is the only mutation.
type Pool struct {
	category model.Category
	items    []string
}

// NewPool copies items into a new pool.
func NewPool(category model.Category, items []string) *Pool {
	return &Pool{category: category, items: slices.Clone(items)}
}

func (p *Pool) Category() model.Category { return p.category }

// Items returns a copy of the pending suggestions in order.
func (p *Pool) Items() []string { return slices.Clone(p.items) }

func (p *Pool) Len() int { return len(p.items) }

// Consume removes and returns the item at position i. The remaining items
// keep their relative order. An out-of-range i leaves the pool unchanged.
func (p *Pool) Consume(i int) (string, error) {
	if i < 0 || i >= len(p.items) {
		return "", fmt.Errorf("consume %s suggestion: index %d out of range [0,%d)", p.category, i, len(p.items))
	}
	item := p.items[i]
	p.items = slices.Delete(p.items, i, i+1)
	return item, nil
}

// MoveTo consumes the item at position i and adds it to set.
func (p *Pool) MoveTo(i int, set *SelectionSet) (string, error) {
	item, err := p.Consume(i)
	if err != nil {
		return "", err
	}
	set.Add(item)
	return item, nil
}

// SelectionSet is the accepted items of one category. Duplicates collapse;
// iteration follows first insertion.
type SelectionSet struct {
	items []string
	index map[string]struct{}
}

func NewSelectionSet(items ...string) *SelectionSet {
	s := &SelectionSet{index: make(map[string]struct{})}
	for _, item := range items {
		s.Add(item)
	}
	return s
}

// Add inserts item and reports whether it was new. Blank items are ignored.
func (s *SelectionSet) Add(item string) bool {
	if strings.TrimSpace(item) == "" {
		return false
	}
	if _, ok := s.index[item]; ok {
		return false
	}
	s.index[item] = struct{}{}
	s.items = append(s.items, item)
	return true
}

func (s *SelectionSet) Has(item string) bool {
	_, ok := s.index[item]
	return ok
}

func (s *SelectionSet) Items() []string { return slices.Clone(s.items) }

func (s *SelectionSet) Len() int { return len(s.items) }

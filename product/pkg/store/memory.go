package store

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/presmtech/storefront/internal/errors"
	"github.com/presmtech/storefront/product/pkg/model"
)

type memoryStore struct {
	mu       sync.RWMutex
	products map[uuid.UUID]model.Product
}

// NewMemoryStore returns an in-process Store used by tests and local runs.
func NewMemoryStore() Store {
	return &memoryStore{products: map[uuid.UUID]model.Product{}}
}

func (s *memoryStore) Insert(_ context.Context, product *model.Product) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.products[product.ID] = *product
	return nil
}

func (s *memoryStore) FindById(_ context.Context, id uuid.UUID) (*model.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	product, ok := s.products[id]
	if !ok {
		return nil, fmt.Errorf("productId=%s with error=%w", id.String(), errors.ErrProductNotFound)
	}
	return &product, nil
}

func (s *memoryStore) Find(_ context.Context, filter Filter) ([]model.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	matched := []model.Product{}
	for _, product := range s.products {
		if filter.Category != "" && product.Category != filter.Category {
			continue
		}
		if filter.Status != "" && product.Status != filter.Status {
			continue
		}
		if filter.Search != "" {
			search := strings.ToLower(filter.Search)
			if !strings.Contains(strings.ToLower(product.Name), search) &&
				!strings.Contains(strings.ToLower(product.Description), search) {
				continue
			}
		}
		matched = append(matched, product)
	}
	sort.Slice(matched, func(i, j int) bool {
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})

	if filter.Skip >= len(matched) {
		return []model.Product{}, nil
	}
	matched = matched[filter.Skip:]
	if filter.Limit > 0 && filter.Limit < len(matched) {
		matched = matched[:filter.Limit]
	}
	return matched, nil
}

func (s *memoryStore) Update(_ context.Context, product *model.Product) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.products[product.ID]
	if !ok {
		return fmt.Errorf("productId=%s with error=%w", product.ID.String(), errors.ErrProductNotFound)
	}
	s.products[product.ID] = *product
	return nil
}

func (s *memoryStore) Categories(_ context.Context) ([]model.CategoryCount, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	counts := map[string]int64{}
	for _, product := range s.products {
		if product.Status != model.StatusActive {
			continue
		}
		counts[product.Category]++
	}
	categories := make([]model.CategoryCount, 0, len(counts))
	for category, count := range counts {
		categories = append(categories, model.CategoryCount{Category: category, Count: count})
	}
	sort.Slice(categories, func(i, j int) bool {
		return categories[i].Category < categories[j].Category
	})
	return categories, nil
}

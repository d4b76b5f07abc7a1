package store

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/presmtech/storefront/gangsheet/pkg/model"
	"github.com/presmtech/storefront/internal/errors"
)

type memoryStore struct {
	mu     sync.RWMutex
	sheets map[uuid.UUID]*model.GangSheet
}

// NewMemoryStore returns a Store backed by a process-local map. Used by tests
// and development runs without postgres.
func NewMemoryStore() Store {
	return &memoryStore{sheets: map[uuid.UUID]*model.GangSheet{}}
}

func (s *memoryStore) Insert(c context.Context, sheet *model.GangSheet) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sheet.Version = 1
	s.sheets[sheet.ID] = sheet.Clone()
	return nil
}

func (s *memoryStore) FindById(c context.Context, id uuid.UUID) (*model.GangSheet, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sheet, ok := s.sheets[id]
	if !ok {
		return nil, fmt.Errorf("sheetId=%s with error=%w", id.String(), errors.ErrSheetNotFound)
	}
	return sheet.Clone(), nil
}

func (s *memoryStore) FindByUser(
	c context.Context,
	userID string,
	skip, limit int,
) ([]model.GangSheet, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sheets := make([]model.GangSheet, 0)
	for _, sheet := range s.sheets {
		if sheet.UserID == userID {
			sheets = append(sheets, *sheet.Clone())
		}
	}
	sort.Slice(sheets, func(i, j int) bool {
		return sheets[i].CreatedAt.After(sheets[j].CreatedAt)
	})

	if skip >= len(sheets) {
		return []model.GangSheet{}, nil
	}
	sheets = sheets[skip:]
	if limit > 0 && limit < len(sheets) {
		sheets = sheets[:limit]
	}
	return sheets, nil
}

func (s *memoryStore) Update(c context.Context, sheet *model.GangSheet) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.sheets[sheet.ID]
	if !ok {
		return fmt.Errorf("sheetId=%s with error=%w", sheet.ID.String(), errors.ErrSheetNotFound)
	}
	if existing.Version != sheet.Version {
		return fmt.Errorf(
			"sheetId=%s stored version=%d loaded version=%d with error=%w",
			sheet.ID.String(),
			existing.Version,
			sheet.Version,
			errors.ErrVersionConflict,
		)
	}

	sheet.Version++
	s.sheets[sheet.ID] = sheet.Clone()
	return nil
}

package history

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/aircast/aircast/pkg/geo"
)

// InMemoryRepository is an in-memory implementation of Repository. It
// backs local development and tests, and serves as the default store
// when no database is configured.
type InMemoryRepository struct {
	mu      sync.RWMutex
	records []*Record
}

// NewInMemoryRepository creates a new in-memory repository.
func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{}
}

// Insert stores a new observation record.
func (r *InMemoryRepository) Insert(ctx context.Context, record *Record) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if record.ID == uuid.Nil {
		record.ID = uuid.New()
	}
	if record.RecordedAt.IsZero() {
		record.RecordedAt = time.Now().UTC()
	}
	r.records = append(r.records, record)
	return nil
}

// Latest returns the most recent record within radiusKM of center.
func (r *InMemoryRepository) Latest(ctx context.Context, center geo.Coordinate, radiusKM float64) (*Record, error) {
	records, err := r.Recent(ctx, center, radiusKM, 1)
	if err != nil {
		return nil, err
	}
	return records[0], nil
}

// Recent returns up to limit records within radiusKM of center, newest first.
func (r *InMemoryRepository) Recent(ctx context.Context, center geo.Coordinate, radiusKM float64, limit int) ([]*Record, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var matched []*Record
	for _, rec := range r.records {
		if geo.Distance(center, rec.Location) <= radiusKM {
			matched = append(matched, rec)
		}
	}
	if len(matched) == 0 {
		return nil, ErrNoRecords
	}

	sort.Slice(matched, func(i, j int) bool {
		return matched[i].RecordedAt.After(matched[j].RecordedAt)
	})

	if limit > 0 && len(matched) > limit {
		matched = matched[:limit]
	}
	return matched, nil
}

// Ensure InMemoryRepository implements Repository interface.
var _ Repository = (*InMemoryRepository)(nil)

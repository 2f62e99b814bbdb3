package reviews

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemoryRepository is an in-process Repository for tests.
type MemoryRepository struct {
	mu      sync.Mutex
	reviews []Review
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{}
}

func (m *MemoryRepository) Insert(_ context.Context, r Review) (*Review, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	r.IsPublished = false
	r.CreatedAt = time.Now()
	m.reviews = append(m.reviews, r)
	return &r, nil
}

func (m *MemoryRepository) List(_ context.Context, publishedOnly bool) ([]Review, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := []Review{}
	for _, r := range slices.Backward(m.reviews) {
		if publishedOnly && !r.IsPublished {
			continue
		}
		out = append(out, r)
	}
	return out, nil
}

func (m *MemoryRepository) SetPublished(_ context.Context, id uuid.UUID, published bool) (*Review, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i := range m.reviews {
		if m.reviews[i].ID == id {
			m.reviews[i].IsPublished = published
			r := m.reviews[i]
			return &r, nil
		}
	}
	return nil, ErrReviewNotFound
}

func (m *MemoryRepository) Delete(_ context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i := range m.reviews {
		if m.reviews[i].ID == id {
			m.reviews = slices.Delete(m.reviews, i, i+1)
			return nil
		}
	}
	return ErrReviewNotFound
}

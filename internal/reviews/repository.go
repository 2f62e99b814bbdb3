package reviews

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

var ErrReviewNotFound = errors.New("review not found")

type Repository interface {
	Insert(ctx context.Context, r Review) (*Review, error)
	List(ctx context.Context, publishedOnly bool) ([]Review, error)
	SetPublished(ctx context.Context, id uuid.UUID, published bool) (*Review, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

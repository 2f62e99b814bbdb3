// Package reviews stores client reviews and their moderation state.
package reviews

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/Lcsmrct/Henna-alicia/pkg/logging"
)

var ErrValidation = errors.New("validation failed")

type Service struct {
	repo   Repository
	logger *logging.Logger
}

func NewService(repo Repository, logger *logging.Logger) *Service {
	if logger == nil {
		logger = logging.Default()
	}
	return &Service{repo: repo, logger: logger}
}

// Create stores a new review. Reviews always start unpublished.
func (s *Service) Create(ctx context.Context, in ReviewInput) (*Review, error) {
	name := strings.TrimSpace(in.ClientName)
	comment := strings.TrimSpace(in.Comment)
	switch {
	case name == "":
		return nil, fmt.Errorf("%w: client_name is required", ErrValidation)
	case comment == "":
		return nil, fmt.Errorf("%w: comment is required", ErrValidation)
	case !in.ServiceType.Valid():
		return nil, fmt.Errorf("%w: unknown service_type %q", ErrValidation, in.ServiceType)
	case in.Rating < 1 || in.Rating > 5:
		return nil, fmt.Errorf("%w: rating must be between 1 and 5", ErrValidation)
	}

	created, err := s.repo.Insert(ctx, Review{
		ID:          uuid.New(),
		ClientName:  name,
		ServiceType: in.ServiceType,
		Rating:      in.Rating,
		Comment:     comment,
	})
	if err != nil {
		return nil, fmt.Errorf("create review: %w", err)
	}
	s.logger.Info("review submitted", "review_id", created.ID, "rating", created.Rating)
	return created, nil
}

// List returns reviews newest first.
func (s *Service) List(ctx context.Context, publishedOnly bool) ([]Review, error) {
	list, err := s.repo.List(ctx, publishedOnly)
	if err != nil {
		return nil, fmt.Errorf("list reviews: %w", err)
	}
	if len(list) >= MaxListedReviews {
		s.logger.Warn("review list truncated", "limit", MaxListedReviews)
	}
	return list, nil
}

func (s *Service) SetPublished(ctx context.Context, id uuid.UUID, published bool) (*Review, error) {
	r, err := s.repo.SetPublished(ctx, id, published)
	if err != nil {
		if errors.Is(err, ErrReviewNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("set review published: %w", err)
	}
	s.logger.Info("review moderated", "review_id", id, "is_published", published)
	return r, nil
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, ErrReviewNotFound) {
			return err
		}
		return fmt.Errorf("delete review: %w", err)
	}
	s.logger.Info("review deleted", "review_id", id)
	return nil
}

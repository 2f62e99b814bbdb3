package workflow

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/Lcsmrct/Henna-alicia/internal/reviews"
)

// RefreshReviews reloads the reviews: published ones for visitors, all of
// them once the admin is logged in.
func (w *Workflow) RefreshReviews(ctx context.Context) error {
	list, err := w.backend.ListReviews(ctx, !w.IsAdmin())
	if err != nil {
		return fmt.Errorf("refresh reviews: %w", err)
	}

	w.mu.Lock()
	w.reviews = list
	w.mu.Unlock()
	return nil
}

// SubmitReview sends a review. It stays hidden until the admin publishes it.
func (w *Workflow) SubmitReview(ctx context.Context, in reviews.ReviewInput) (Outcome, error) {
	if strings.TrimSpace(in.ClientName) == "" || strings.TrimSpace(in.Comment) == "" {
		return Outcome{}, fmt.Errorf("%w: name and comment are required", ErrValidation)
	}
	if in.Rating < 1 || in.Rating > 5 {
		return Outcome{}, fmt.Errorf("%w: rating must be between 1 and 5", ErrValidation)
	}

	if _, err := w.backend.CreateReview(ctx, in); err != nil {
		return Outcome{}, fmt.Errorf("submit review: %w", err)
	}
	if err := w.RefreshReviews(ctx); err != nil {
		w.logger.Warn("review list refresh after submit failed", "error", err)
	}
	return Outcome{Message: "Merci pour votre avis ! Il sera publié après validation."}, nil
}

// ToggleReview flips the publication of a loaded review, then reloads the list.
func (w *Workflow) ToggleReview(ctx context.Context, id uuid.UUID) (Outcome, error) {
	if !w.IsAdmin() {
		return Outcome{}, ErrNotAdmin
	}

	w.mu.RLock()
	published, found := false, false
	for _, r := range w.reviews {
		if r.ID == id {
			published, found = r.IsPublished, true
			break
		}
	}
	w.mu.RUnlock()
	if !found {
		return Outcome{}, ErrReviewNotFound
	}

	key := "review:" + id.String()
	if !w.begin(key) {
		return Outcome{Ignored: true}, nil
	}
	defer w.end(key)

	_, err := w.backend.SetReviewPublished(ctx, id, !published)
	if rerr := w.RefreshReviews(ctx); rerr != nil {
		w.logger.Warn("review list refresh after toggle failed", "review_id", id, "error", rerr)
	}
	if err != nil {
		return Outcome{}, fmt.Errorf("toggle review: %w", err)
	}

	msg := "Avis publié"
	if published {
		msg = "Avis masqué"
	}
	return Outcome{Message: msg}, nil
}

// DeleteReview asks for confirmation, deletes the review, then reloads the list.
func (w *Workflow) DeleteReview(ctx context.Context, id uuid.UUID) (Outcome, error) {
	if !w.IsAdmin() {
		return Outcome{}, ErrNotAdmin
	}
	if !w.opts.Confirmer.Confirm("Êtes-vous sûr de vouloir supprimer cet avis ?") {
		return Outcome{}, ErrDeclined
	}

	key := "review:" + id.String()
	if !w.begin(key) {
		return Outcome{Ignored: true}, nil
	}
	defer w.end(key)

	err := w.backend.DeleteReview(ctx, id)
	if rerr := w.RefreshReviews(ctx); rerr != nil {
		w.logger.Warn("review list refresh after delete failed", "review_id", id, "error", rerr)
	}
	if err != nil {
		return Outcome{}, fmt.Errorf("delete review: %w", err)
	}
	return Outcome{Message: "Avis supprimé avec succès"}, nil
}

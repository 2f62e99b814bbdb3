package reviews

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/Lcsmrct/Henna-alicia/internal/db"
)

type PgRepository struct {
	pool db.Querier
}

func NewPgRepository(pool db.Querier) *PgRepository {
	return &PgRepository{pool: pool}
}

const reviewColumns = `id, client_name, service_type, rating, comment, is_published, created_at`

func scanReview(row pgx.Row) (*Review, error) {
	var r Review
	err := row.Scan(&r.ID, &r.ClientName, &r.ServiceType, &r.Rating, &r.Comment, &r.IsPublished, &r.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrReviewNotFound
		}
		return nil, err
	}
	return &r, nil
}

func (r *PgRepository) Insert(ctx context.Context, rev Review) (*Review, error) {
	if rev.ID == uuid.Nil {
		rev.ID = uuid.New()
	}
	row := r.pool.QueryRow(ctx, `
		INSERT INTO reviews (id, client_name, service_type, rating, comment, is_published, created_at)
		VALUES ($1, $2, $3, $4, $5, false, now())
		RETURNING `+reviewColumns,
		rev.ID, rev.ClientName, rev.ServiceType, rev.Rating, rev.Comment)
	return scanReview(row)
}

// MaxListedReviews caps review lists. Older reviews past the cap are not
// returned.
const MaxListedReviews = 1000

func (r *PgRepository) List(ctx context.Context, publishedOnly bool) ([]Review, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+reviewColumns+`
		FROM reviews
		WHERE ($1 = false OR is_published)
		ORDER BY created_at DESC
		LIMIT $2
	`, publishedOnly, MaxListedReviews)
	if err != nil {
		return nil, fmt.Errorf("list reviews: %w", err)
	}
	defer rows.Close()

	result := []Review{}
	for rows.Next() {
		rev, err := scanReview(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *rev)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *PgRepository) SetPublished(ctx context.Context, id uuid.UUID, published bool) (*Review, error) {
	row := r.pool.QueryRow(ctx, `
		UPDATE reviews
		SET is_published = $2
		WHERE id = $1
		RETURNING `+reviewColumns,
		id, published)
	return scanReview(row)
}

func (r *PgRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM reviews WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete review: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrReviewNotFound
	}
	return nil
}

package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/Clark-Hu/pokemon-reviews/internal/domain"
)

// ReviewerRepository provides persistence helpers for reviewers. Reads
// include each reviewer's reviews through a second query.
type ReviewerRepository struct {
	base
}

func scanReviewer(row pgx.CollectableRow) (domain.Reviewer, error) {
	var rv domain.Reviewer
	err := row.Scan(&rv.ID, &rv.FirstName, &rv.LastName)
	return rv, err
}

// GetAll returns every reviewer with its reviews, in no particular order.
func (r *ReviewerRepository) GetAll(ctx context.Context) ([]domain.Reviewer, error) {
	reviewers, err := queryAll(ctx, r.pool, scanReviewer, `SELECT id, first_name, last_name FROM reviewers`)
	if err != nil {
		return nil, fmt.Errorf("list reviewers: %w", err)
	}
	if len(reviewers) == 0 {
		return reviewers, nil
	}

	ids := make([]int64, len(reviewers))
	for i, rv := range reviewers {
		ids[i] = rv.ID
	}
	query := fmt.Sprintf(`SELECT %s FROM reviews r WHERE r.reviewer_id = ANY($1)`, reviewColumns)
	reviews, err := queryAll(ctx, r.pool, scanReview, query, ids)
	if err != nil {
		return nil, fmt.Errorf("list reviews of reviewers: %w", err)
	}

	byReviewer := make(map[int64][]domain.Review, len(reviewers))
	for _, review := range reviews {
		byReviewer[*review.ReviewerID] = append(byReviewer[*review.ReviewerID], review)
	}
	for i := range reviewers {
		reviewers[i].Reviews = byReviewer[reviewers[i].ID]
		if reviewers[i].Reviews == nil {
			reviewers[i].Reviews = []domain.Review{}
		}
	}
	return reviewers, nil
}

// GetByID fetches a reviewer and its reviews. A missing key yields nil.
func (r *ReviewerRepository) GetByID(ctx context.Context, id int64) (*domain.Reviewer, error) {
	reviewer, err := queryOne(ctx, r.pool, scanReviewer, `SELECT id, first_name, last_name FROM reviewers WHERE id = $1`, id)
	if err != nil {
		return nil, fmt.Errorf("get reviewer %d: %w", id, err)
	}
	if reviewer == nil {
		return nil, nil
	}
	reviewer.Reviews, err = r.GetReviewsByReviewer(ctx, id)
	if err != nil {
		return nil, err
	}
	return reviewer, nil
}

// GetReviewsByReviewer returns the reviews whose reviewer key matches.
func (r *ReviewerRepository) GetReviewsByReviewer(ctx context.Context, reviewerID int64) ([]domain.Review, error) {
	query := fmt.Sprintf(`SELECT %s FROM reviews r WHERE r.reviewer_id = $1`, reviewColumns)
	items, err := queryAll(ctx, r.pool, scanReview, query, reviewerID)
	if err != nil {
		return nil, fmt.Errorf("list reviews of reviewer %d: %w", reviewerID, err)
	}
	return items, nil
}

// Create adds the reviewer and flushes. Reviews on the value are ignored.
func (r *ReviewerRepository) Create(ctx context.Context, reviewer *domain.Reviewer) bool {
	r.insert(&reviewer.ID, `INSERT INTO reviewers (first_name, last_name) VALUES ($1, $2) RETURNING id`,
		reviewer.FirstName, reviewer.LastName)
	return r.Save(ctx)
}

// Update replaces the names of the reviewer matching reviewer.ID.
func (r *ReviewerRepository) Update(ctx context.Context, reviewer domain.Reviewer) bool {
	r.exec(`UPDATE reviewers SET first_name = $2, last_name = $3 WHERE id = $1`,
		reviewer.ID, reviewer.FirstName, reviewer.LastName)
	return r.Save(ctx)
}

// Delete removes the reviewer. Their reviews are left in place.
func (r *ReviewerRepository) Delete(ctx context.Context, reviewer domain.Reviewer) bool {
	return r.deleteByID(ctx, reviewer.ID)
}

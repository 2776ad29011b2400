package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/Clark-Hu/pokemon-reviews/internal/domain"
)

// ReviewRepository provides persistence helpers for reviews.
type ReviewRepository struct {
	base
}

const reviewColumns = `r.id, r.title, r.text, r.rating, r.pokemon_id, r.reviewer_id`

func scanReview(row pgx.CollectableRow) (domain.Review, error) {
	var rv domain.Review
	err := row.Scan(&rv.ID, &rv.Title, &rv.Text, &rv.Rating, &rv.PokemonID, &rv.ReviewerID)
	return rv, err
}

// GetAll returns every review in no particular order.
func (r *ReviewRepository) GetAll(ctx context.Context) ([]domain.Review, error) {
	query := fmt.Sprintf(`SELECT %s FROM reviews r`, reviewColumns)
	items, err := queryAll(ctx, r.pool, scanReview, query)
	if err != nil {
		return nil, fmt.Errorf("list reviews: %w", err)
	}
	return items, nil
}

// GetByID fetches a review by key. A missing key yields nil.
func (r *ReviewRepository) GetByID(ctx context.Context, id int64) (*domain.Review, error) {
	query := fmt.Sprintf(`SELECT %s FROM reviews r WHERE r.id = $1`, reviewColumns)
	rv, err := queryOne(ctx, r.pool, scanReview, query, id)
	if err != nil {
		return nil, fmt.Errorf("get review %d: %w", id, err)
	}
	return rv, nil
}

// GetReviewsOfPokemon returns the reviews whose pokemon key matches.
func (r *ReviewRepository) GetReviewsOfPokemon(ctx context.Context, pokemonID int64) ([]domain.Review, error) {
	query := fmt.Sprintf(`SELECT %s FROM reviews r WHERE r.pokemon_id = $1`, reviewColumns)
	items, err := queryAll(ctx, r.pool, scanReview, query, pokemonID)
	if err != nil {
		return nil, fmt.Errorf("list reviews of pokemon %d: %w", pokemonID, err)
	}
	return items, nil
}

// Create adds the review and flushes. The caller resolves PokemonID and
// ReviewerID beforehand; nil stores a dangling side.
func (r *ReviewRepository) Create(ctx context.Context, review *domain.Review) bool {
	r.insert(&review.ID, `
        INSERT INTO reviews (title, text, rating, pokemon_id, reviewer_id)
        VALUES ($1, $2, $3, $4, $5)
        RETURNING id
    `, review.Title, review.Text, review.Rating, review.PokemonID, review.ReviewerID)
	return r.Save(ctx)
}

// Update replaces every non-key field of the review matching review.ID.
func (r *ReviewRepository) Update(ctx context.Context, review domain.Review) bool {
	r.exec(`
        UPDATE reviews
        SET title = $2, text = $3, rating = $4, pokemon_id = $5, reviewer_id = $6
        WHERE id = $1
    `, review.ID, review.Title, review.Text, review.Rating, review.PokemonID, review.ReviewerID)
	return r.Save(ctx)
}

// Delete removes the review.
func (r *ReviewRepository) Delete(ctx context.Context, review domain.Review) bool {
	return r.deleteByID(ctx, review.ID)
}

package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/Clark-Hu/pokemon-reviews/internal/domain"
)

// CategoryRepository provides persistence helpers for categories.
type CategoryRepository struct {
	base
}

func scanCategory(row pgx.CollectableRow) (domain.Category, error) {
	var c domain.Category
	err := row.Scan(&c.ID, &c.Name)
	return c, err
}

// GetAll returns every category in no particular order.
func (r *CategoryRepository) GetAll(ctx context.Context) ([]domain.Category, error) {
	items, err := queryAll(ctx, r.pool, scanCategory, `SELECT id, name FROM categories`)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	return items, nil
}

// GetByID fetches a category by key. A missing key yields nil.
func (r *CategoryRepository) GetByID(ctx context.Context, id int64) (*domain.Category, error) {
	c, err := queryOne(ctx, r.pool, scanCategory, `SELECT id, name FROM categories WHERE id = $1`, id)
	if err != nil {
		return nil, fmt.Errorf("get category %d: %w", id, err)
	}
	return c, nil
}

// GetPokemonByCategory projects the pokemon side of every PokemonCategory row
// for the category.
func (r *CategoryRepository) GetPokemonByCategory(ctx context.Context, categoryID int64) ([]domain.Pokemon, error) {
	query := fmt.Sprintf(`
        SELECT %s
        FROM pokemon_categories pc
        JOIN pokemon p ON p.id = pc.pokemon_id
        WHERE pc.category_id = $1
    `, pokemonColumns)
	items, err := queryAll(ctx, r.pool, scanPokemon, query, categoryID)
	if err != nil {
		return nil, fmt.Errorf("list pokemon of category %d: %w", categoryID, err)
	}
	return items, nil
}

// Create adds the category and flushes. The assigned key is written to
// category.ID.
func (r *CategoryRepository) Create(ctx context.Context, category *domain.Category) bool {
	r.insert(&category.ID, `INSERT INTO categories (name) VALUES ($1) RETURNING id`, category.Name)
	return r.Save(ctx)
}

// Update replaces the category matching category.ID.
func (r *CategoryRepository) Update(ctx context.Context, category domain.Category) bool {
	r.exec(`UPDATE categories SET name = $2 WHERE id = $1`, category.ID, category.Name)
	return r.Save(ctx)
}

// Delete removes the category. Join rows referencing it are left in place.
func (r *CategoryRepository) Delete(ctx context.Context, category domain.Category) bool {
	return r.deleteByID(ctx, category.ID)
}

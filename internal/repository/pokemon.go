package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/Clark-Hu/pokemon-reviews/internal/domain"
)

// PokemonRepository provides persistence helpers for pokemon and owns rating
// aggregation.
type PokemonRepository struct {
	base
}

const pokemonColumns = `p.id, p.name, p.birth_date`

func scanPokemon(row pgx.CollectableRow) (domain.Pokemon, error) {
	var p domain.Pokemon
	err := row.Scan(&p.ID, &p.Name, &p.BirthDate)
	return p, err
}

// GetAll returns every pokemon ordered by key.
func (r *PokemonRepository) GetAll(ctx context.Context) ([]domain.Pokemon, error) {
	query := fmt.Sprintf(`SELECT %s FROM pokemon p ORDER BY p.id ASC`, pokemonColumns)
	items, err := queryAll(ctx, r.pool, scanPokemon, query)
	if err != nil {
		return nil, fmt.Errorf("list pokemon: %w", err)
	}
	return items, nil
}

// GetByID fetches a pokemon by key. A missing key yields nil.
func (r *PokemonRepository) GetByID(ctx context.Context, id int64) (*domain.Pokemon, error) {
	query := fmt.Sprintf(`SELECT %s FROM pokemon p WHERE p.id = $1`, pokemonColumns)
	p, err := queryOne(ctx, r.pool, scanPokemon, query, id)
	if err != nil {
		return nil, fmt.Errorf("get pokemon %d: %w", id, err)
	}
	return p, nil
}

// GetByName fetches the first pokemon whose name matches exactly.
func (r *PokemonRepository) GetByName(ctx context.Context, name string) (*domain.Pokemon, error) {
	query := fmt.Sprintf(`SELECT %s FROM pokemon p WHERE p.name = $1 ORDER BY p.id ASC LIMIT 1`, pokemonColumns)
	p, err := queryOne(ctx, r.pool, scanPokemon, query, name)
	if err != nil {
		return nil, fmt.Errorf("get pokemon by name %q: %w", name, err)
	}
	return p, nil
}

// GetRating returns the mean rating of the pokemon's reviews rounded to two
// decimal places, half away from zero. No reviews yields exactly 0.
func (r *PokemonRepository) GetRating(ctx context.Context, pokemonID int64) (decimal.Decimal, error) {
	const query = `
        SELECT COALESCE(SUM(rating), 0)::int8 AS total,
               COUNT(*)::int8 AS count
        FROM reviews
        WHERE pokemon_id = $1
    `
	var total, count int64
	if err := r.pool.QueryRow(ctx, query, pokemonID).Scan(&total, &count); err != nil {
		return decimal.Zero, fmt.Errorf("aggregate ratings: %w", err)
	}
	return averageRating(total, count), nil
}

// GetAllRatings returns the raw rating of every review of the pokemon in scan
// order.
func (r *PokemonRepository) GetAllRatings(ctx context.Context, pokemonID int64) ([]int, error) {
	ratings, err := queryAll(ctx, r.pool, pgx.RowTo[int], `SELECT rating FROM reviews WHERE pokemon_id = $1`, pokemonID)
	if err != nil {
		return nil, fmt.Errorf("list ratings: %w", err)
	}
	return ratings, nil
}

// Create adds the pokemon together with one PokemonOwner and one
// PokemonCategory row and flushes them as one unit. An owner or category that
// does not exist is stored as a NULL side of its join row.
func (r *PokemonRepository) Create(ctx context.Context, ownerID, categoryID int64, pokemon *domain.Pokemon) bool {
	owner, err := r.resolve(ctx, "owners", ownerID)
	if err != nil {
		r.logger.Error().Err(err).Int64("owner_id", ownerID).Msg("resolve owner")
		return false
	}
	category, err := r.resolve(ctx, "categories", categoryID)
	if err != nil {
		r.logger.Error().Err(err).Int64("category_id", categoryID).Msg("resolve category")
		return false
	}

	r.insert(&pokemon.ID, `INSERT INTO pokemon (name, birth_date) VALUES ($1, $2) RETURNING id`,
		pokemon.Name, pokemon.BirthDate)

	// The join rows read pokemon.ID at flush time, after the insert above has
	// assigned it.
	ownerLink := domain.PokemonOwner{OwnerID: owner}
	categoryLink := domain.PokemonCategory{CategoryID: category}
	r.session.Add(func(ctx context.Context, tx pgx.Tx) (int64, error) {
		ownerLink.PokemonID = pokemon.ID
		tag, err := tx.Exec(ctx, `INSERT INTO pokemon_owners (pokemon_id, owner_id) VALUES ($1, $2)`,
			ownerLink.PokemonID, ownerLink.OwnerID)
		return tag.RowsAffected(), err
	})
	r.session.Add(func(ctx context.Context, tx pgx.Tx) (int64, error) {
		categoryLink.PokemonID = pokemon.ID
		tag, err := tx.Exec(ctx, `INSERT INTO pokemon_categories (pokemon_id, category_id) VALUES ($1, $2)`,
			categoryLink.PokemonID, categoryLink.CategoryID)
		return tag.RowsAffected(), err
	})
	return r.Save(ctx)
}

// Update replaces every non-key field of the pokemon matching pokemon.ID.
func (r *PokemonRepository) Update(ctx context.Context, pokemon domain.Pokemon) bool {
	r.exec(`UPDATE pokemon SET name = $2, birth_date = $3 WHERE id = $1`,
		pokemon.ID, pokemon.Name, pokemon.BirthDate)
	return r.Save(ctx)
}

// Delete removes the pokemon. Its reviews and join rows are left in place.
func (r *PokemonRepository) Delete(ctx context.Context, pokemon domain.Pokemon) bool {
	return r.deleteByID(ctx, pokemon.ID)
}

// resolve returns a pointer to id when a row with that key exists in table,
// nil otherwise.
func (r *PokemonRepository) resolve(ctx context.Context, table string, id int64) (*int64, error) {
	ok, err := r.named(table).Exists(ctx, id)
	if err != nil || !ok {
		return nil, err
	}
	return &id, nil
}

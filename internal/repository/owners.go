package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/Clark-Hu/pokemon-reviews/internal/domain"
)

// OwnerRepository provides persistence helpers for owners.
type OwnerRepository struct {
	base
}

const ownerColumns = `o.id, o.first_name, o.last_name, o.gym, o.country_id`

func scanOwner(row pgx.CollectableRow) (domain.Owner, error) {
	var o domain.Owner
	err := row.Scan(&o.ID, &o.FirstName, &o.LastName, &o.Gym, &o.CountryID)
	return o, err
}

// GetAll returns every owner in no particular order.
func (r *OwnerRepository) GetAll(ctx context.Context) ([]domain.Owner, error) {
	query := fmt.Sprintf(`SELECT %s FROM owners o`, ownerColumns)
	items, err := queryAll(ctx, r.pool, scanOwner, query)
	if err != nil {
		return nil, fmt.Errorf("list owners: %w", err)
	}
	return items, nil
}

// GetByID fetches an owner by key. A missing key yields nil.
func (r *OwnerRepository) GetByID(ctx context.Context, id int64) (*domain.Owner, error) {
	query := fmt.Sprintf(`SELECT %s FROM owners o WHERE o.id = $1`, ownerColumns)
	o, err := queryOne(ctx, r.pool, scanOwner, query, id)
	if err != nil {
		return nil, fmt.Errorf("get owner %d: %w", id, err)
	}
	return o, nil
}

// GetOwnersOfPokemon projects the owner side of every PokemonOwner row for
// the pokemon. Rows whose owner never resolved are skipped.
func (r *OwnerRepository) GetOwnersOfPokemon(ctx context.Context, pokemonID int64) ([]domain.Owner, error) {
	query := fmt.Sprintf(`
        SELECT %s
        FROM pokemon_owners po
        JOIN owners o ON o.id = po.owner_id
        WHERE po.pokemon_id = $1
    `, ownerColumns)
	items, err := queryAll(ctx, r.pool, scanOwner, query, pokemonID)
	if err != nil {
		return nil, fmt.Errorf("list owners of pokemon %d: %w", pokemonID, err)
	}
	return items, nil
}

// GetPokemonByOwner projects the pokemon side of every PokemonOwner row for
// the owner.
func (r *OwnerRepository) GetPokemonByOwner(ctx context.Context, ownerID int64) ([]domain.Pokemon, error) {
	query := fmt.Sprintf(`
        SELECT %s
        FROM pokemon_owners po
        JOIN pokemon p ON p.id = po.pokemon_id
        WHERE po.owner_id = $1
    `, pokemonColumns)
	items, err := queryAll(ctx, r.pool, scanPokemon, query, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list pokemon of owner %d: %w", ownerID, err)
	}
	return items, nil
}

// Create adds the owner and flushes. The caller resolves owner.CountryID
// beforehand; nil stores no country.
func (r *OwnerRepository) Create(ctx context.Context, owner *domain.Owner) bool {
	r.insert(&owner.ID, `
        INSERT INTO owners (first_name, last_name, gym, country_id)
        VALUES ($1, $2, $3, $4)
        RETURNING id
    `, owner.FirstName, owner.LastName, owner.Gym, owner.CountryID)
	return r.Save(ctx)
}

// Update replaces every non-key field, including the country key, of the
// owner matching owner.ID.
func (r *OwnerRepository) Update(ctx context.Context, owner domain.Owner) bool {
	r.exec(`
        UPDATE owners
        SET first_name = $2, last_name = $3, gym = $4, country_id = $5
        WHERE id = $1
    `, owner.ID, owner.FirstName, owner.LastName, owner.Gym, owner.CountryID)
	return r.Save(ctx)
}

// Delete removes the owner. PokemonOwner rows referencing it are left in place.
func (r *OwnerRepository) Delete(ctx context.Context, owner domain.Owner) bool {
	return r.deleteByID(ctx, owner.ID)
}

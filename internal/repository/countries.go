package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/Clark-Hu/pokemon-reviews/internal/domain"
)

// CountryRepository provides persistence helpers for countries.
type CountryRepository struct {
	base
}

func scanCountry(row pgx.CollectableRow) (domain.Country, error) {
	var c domain.Country
	err := row.Scan(&c.ID, &c.Name)
	return c, err
}

// GetAll returns every country in no particular order.
func (r *CountryRepository) GetAll(ctx context.Context) ([]domain.Country, error) {
	items, err := queryAll(ctx, r.pool, scanCountry, `SELECT id, name FROM countries`)
	if err != nil {
		return nil, fmt.Errorf("list countries: %w", err)
	}
	return items, nil
}

// GetByID fetches a country by key. A missing key yields nil.
func (r *CountryRepository) GetByID(ctx context.Context, id int64) (*domain.Country, error) {
	c, err := queryOne(ctx, r.pool, scanCountry, `SELECT id, name FROM countries WHERE id = $1`, id)
	if err != nil {
		return nil, fmt.Errorf("get country %d: %w", id, err)
	}
	return c, nil
}

// GetCountryByOwner follows the owner's country key. It yields nil when the
// owner does not exist, has no country, or points at a deleted one.
func (r *CountryRepository) GetCountryByOwner(ctx context.Context, ownerID int64) (*domain.Country, error) {
	const query = `
        SELECT c.id, c.name
        FROM owners o
        JOIN countries c ON c.id = o.country_id
        WHERE o.id = $1
    `
	c, err := queryOne(ctx, r.pool, scanCountry, query, ownerID)
	if err != nil {
		return nil, fmt.Errorf("get country of owner %d: %w", ownerID, err)
	}
	return c, nil
}

// GetOwnersFromCountry returns the owners whose country key matches.
func (r *CountryRepository) GetOwnersFromCountry(ctx context.Context, countryID int64) ([]domain.Owner, error) {
	query := fmt.Sprintf(`SELECT %s FROM owners o WHERE o.country_id = $1`, ownerColumns)
	items, err := queryAll(ctx, r.pool, scanOwner, query, countryID)
	if err != nil {
		return nil, fmt.Errorf("list owners of country %d: %w", countryID, err)
	}
	return items, nil
}

// Create adds the country and flushes. The assigned key is written to
// country.ID.
func (r *CountryRepository) Create(ctx context.Context, country *domain.Country) bool {
	r.insert(&country.ID, `INSERT INTO countries (name) VALUES ($1) RETURNING id`, country.Name)
	return r.Save(ctx)
}

// Update replaces the country matching country.ID.
func (r *CountryRepository) Update(ctx context.Context, country domain.Country) bool {
	r.exec(`UPDATE countries SET name = $2 WHERE id = $1`, country.ID, country.Name)
	return r.Save(ctx)
}

// Delete removes the country. Owners keep their now dangling country key.
func (r *CountryRepository) Delete(ctx context.Context, country domain.Country) bool {
	return r.deleteByID(ctx, country.ID)
}

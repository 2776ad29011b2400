package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	"github.com/Clark-Hu/pokemon-reviews/internal/store"
)

// Repository aggregates all entity repositories. They share one unit of work,
// so a Save on any of them flushes writes queued through all of them.
type Repository struct {
	Categories *CategoryRepository
	Countries  *CountryRepository
	Owners     *OwnerRepository
	Pokemon    *PokemonRepository
	Reviews    *ReviewRepository
	Reviewers  *ReviewerRepository
}

// New constructs a Repository over a fresh session of the provided store.
// Build one per request.
func New(st *store.Store) *Repository {
	b := base{
		pool:    st.Pool(),
		session: st.Session(),
		logger:  st.Logger().With().Str("component", "repository").Logger(),
	}
	return &Repository{
		Categories: &CategoryRepository{base: b.named("categories")},
		Countries:  &CountryRepository{base: b.named("countries")},
		Owners:     &OwnerRepository{base: b.named("owners")},
		Pokemon:    &PokemonRepository{base: b.named("pokemon")},
		Reviews:    &ReviewRepository{base: b.named("reviews")},
		Reviewers:  &ReviewerRepository{base: b.named("reviewers")},
	}
}

type base struct {
	pool    *pgxpool.Pool
	session *store.Session
	logger  zerolog.Logger
	table   string
}

func (b base) named(table string) base {
	b.table = table
	b.logger = b.logger.With().Str("table", table).Logger()
	return b
}

// Save flushes every write queued on the shared session and reports whether
// any row was affected.
func (b base) Save(ctx context.Context) bool {
	return b.session.Save(ctx)
}

// Exists reports whether a row with the given key exists.
func (b base) Exists(ctx context.Context, id int64) (bool, error) {
	var ok bool
	query := fmt.Sprintf(`SELECT EXISTS (SELECT 1 FROM %s WHERE id = $1)`, b.table)
	if err := b.pool.QueryRow(ctx, query, id).Scan(&ok); err != nil {
		return false, fmt.Errorf("%s exists %d: %w", b.table, id, err)
	}
	return ok, nil
}

// deleteByID queues removal of the row with the given key and flushes.
func (b base) deleteByID(ctx context.Context, id int64) bool {
	b.exec(fmt.Sprintf(`DELETE FROM %s WHERE id = $1`, b.table), id)
	return b.Save(ctx)
}

// insert queues an INSERT ... RETURNING id and writes the assigned key to id
// when the session flushes.
func (b base) insert(id *int64, query string, args ...any) {
	prev := *id
	b.session.AddUndoable(func(ctx context.Context, tx pgx.Tx) (int64, error) {
		if err := tx.QueryRow(ctx, query, args...).Scan(id); err != nil {
			return 0, err
		}
		return 1, nil
	}, func() { *id = prev })
}

// exec queues a statement whose affected row count counts towards the flush.
func (b base) exec(query string, args ...any) {
	b.session.Add(func(ctx context.Context, tx pgx.Tx) (int64, error) {
		tag, err := tx.Exec(ctx, query, args...)
		if err != nil {
			return 0, err
		}
		return tag.RowsAffected(), nil
	})
}

// queryOne returns the first row of the result, or nil when there is none.
func queryOne[T any](ctx context.Context, pool *pgxpool.Pool, scan pgx.RowToFunc[T], query string, args ...any) (*T, error) {
	rows, err := pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	value, err := pgx.CollectOneRow(rows, scan)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &value, nil
}

func queryAll[T any](ctx context.Context, pool *pgxpool.Pool, scan pgx.RowToFunc[T], query string, args ...any) ([]T, error) {
	rows, err := pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, scan)
}

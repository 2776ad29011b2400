package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Clark-Hu/pokemon-reviews/internal/domain"
	"github.com/Clark-Hu/pokemon-reviews/internal/testdb"
)

type testEnv struct {
	ctx  context.Context
	db   *testdb.DB
	repo *Repository
}

func newTestEnv(t testing.TB) *testEnv {
	t.Helper()
	db := testdb.New(t)
	return &testEnv{ctx: context.Background(), db: db, repo: New(db.Store())}
}

// fresh returns repositories over a new session, as a separate request would.
func (e *testEnv) fresh() *Repository {
	return New(e.db.Store())
}

func mustCreateCategory(t testing.TB, env *testEnv, name string) domain.Category {
	t.Helper()
	c := domain.Category{Name: name}
	require.True(t, env.repo.Categories.Create(env.ctx, &c), "create category %q", name)
	return c
}

func mustCreateCountry(t testing.TB, env *testEnv, name string) domain.Country {
	t.Helper()
	c := domain.Country{Name: name}
	require.True(t, env.repo.Countries.Create(env.ctx, &c), "create country %q", name)
	return c
}

func mustCreateOwner(t testing.TB, env *testEnv, first, last string, countryID *int64) domain.Owner {
	t.Helper()
	o := domain.Owner{FirstName: first, LastName: last, Gym: first + "'s gym", CountryID: countryID}
	require.True(t, env.repo.Owners.Create(env.ctx, &o), "create owner %s %s", first, last)
	return o
}

func mustCreatePokemon(t testing.TB, env *testEnv, ownerID, categoryID int64, name string) domain.Pokemon {
	t.Helper()
	p := domain.Pokemon{Name: name, BirthDate: time.Date(1996, time.February, 27, 0, 0, 0, 0, time.UTC)}
	require.True(t, env.repo.Pokemon.Create(env.ctx, ownerID, categoryID, &p), "create pokemon %q", name)
	return p
}

func mustCreateReviewer(t testing.TB, env *testEnv, first, last string) domain.Reviewer {
	t.Helper()
	r := domain.Reviewer{FirstName: first, LastName: last}
	require.True(t, env.repo.Reviewers.Create(env.ctx, &r), "create reviewer %s %s", first, last)
	return r
}

func mustCreateReview(t testing.TB, env *testEnv, pokemonID, reviewerID *int64, title string, rating int) domain.Review {
	t.Helper()
	r := domain.Review{Title: title, Text: title + " text", Rating: rating, PokemonID: pokemonID, ReviewerID: reviewerID}
	require.True(t, env.repo.Reviews.Create(env.ctx, &r), "create review %q", title)
	return r
}


func TestCategoryRepository_CRUD(t *testing.T) {
	env := newTestEnv(t)

	electric := mustCreateCategory(t, env, "Electric")
	require.NotZero(t, electric.ID)

	got, err := env.fresh().Categories.GetByID(env.ctx, electric.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, electric, *got)

	electric.Name = "Lightning"
	require.True(t, env.repo.Categories.Update(env.ctx, electric))
	got, err = env.repo.Categories.GetByID(env.ctx, electric.ID)
	require.NoError(t, err)
	assert.Equal(t, "Lightning", got.Name)

	all, err := env.repo.Categories.GetAll(env.ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)

	require.True(t, env.repo.Categories.Delete(env.ctx, electric))
	exists, err := env.repo.Categories.Exists(env.ctx, electric.ID)
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestRepository_MissingKeysAreAbsent(t *testing.T) {
	env := newTestEnv(t)

	category, err := env.repo.Categories.GetByID(env.ctx, 404)
	require.NoError(t, err)
	assert.Nil(t, category)

	country, err := env.repo.Countries.GetByID(env.ctx, 404)
	require.NoError(t, err)
	assert.Nil(t, country)

	owner, err := env.repo.Owners.GetByID(env.ctx, 404)
	require.NoError(t, err)
	assert.Nil(t, owner)

	pokemon, err := env.repo.Pokemon.GetByID(env.ctx, 404)
	require.NoError(t, err)
	assert.Nil(t, pokemon)

	review, err := env.repo.Reviews.GetByID(env.ctx, 404)
	require.NoError(t, err)
	assert.Nil(t, review)

	reviewer, err := env.repo.Reviewers.GetByID(env.ctx, 404)
	require.NoError(t, err)
	assert.Nil(t, reviewer)

	exists, err := env.repo.Owners.Exists(env.ctx, 404)
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestRepository_MutationsOnMissingKeysReturnFalse(t *testing.T) {
	env := newTestEnv(t)

	assert.False(t, env.repo.Categories.Update(env.ctx, domain.Category{ID: 99, Name: "Ghost"}))
	assert.False(t, env.repo.Countries.Delete(env.ctx, domain.Country{ID: 99}))
	assert.False(t, env.repo.Owners.Update(env.ctx, domain.Owner{ID: 99, FirstName: "Ash"}))
	assert.False(t, env.repo.Pokemon.Delete(env.ctx, domain.Pokemon{ID: 99}))
	assert.False(t, env.repo.Reviews.Update(env.ctx, domain.Review{ID: 99, Title: "none"}))
	assert.False(t, env.repo.Reviewers.Delete(env.ctx, domain.Reviewer{ID: 99}))
	assert.False(t, env.repo.Reviewers.Save(env.ctx))
}

func TestCountryRepository_OwnerTraversal(t *testing.T) {
	env := newTestEnv(t)

	kanto := mustCreateCountry(t, env, "Kanto")
	johto := mustCreateCountry(t, env, "Johto")
	ash := mustCreateOwner(t, env, "Ash", "Ketchum", &kanto.ID)
	gary := mustCreateOwner(t, env, "Gary", "Oak", &kanto.ID)
	drifter := mustCreateOwner(t, env, "No", "Home", nil)

	owners, err := env.repo.Countries.GetOwnersFromCountry(env.ctx, kanto.ID)
	require.NoError(t, err)
	assert.ElementsMatch(t, []domain.Owner{ash, gary}, owners)

	owners, err = env.repo.Countries.GetOwnersFromCountry(env.ctx, johto.ID)
	require.NoError(t, err)
	assert.Empty(t, owners)

	country, err := env.repo.Countries.GetCountryByOwner(env.ctx, ash.ID)
	require.NoError(t, err)
	require.NotNil(t, country)
	assert.Equal(t, kanto, *country)

	country, err = env.repo.Countries.GetCountryByOwner(env.ctx, drifter.ID)
	require.NoError(t, err)
	assert.Nil(t, country)
}

func TestOwnerRepository_RoundTripAndUpdate(t *testing.T) {
	env := newTestEnv(t)

	kanto := mustCreateCountry(t, env, "Kanto")
	johto := mustCreateCountry(t, env, "Johto")
	misty := mustCreateOwner(t, env, "Misty", "Waterflower", &kanto.ID)

	got, err := env.fresh().Owners.GetByID(env.ctx, misty.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, misty, *got)

	misty.Gym = "Cerulean"
	misty.CountryID = &johto.ID
	require.True(t, env.repo.Owners.Update(env.ctx, misty))

	got, err = env.repo.Owners.GetByID(env.ctx, misty.ID)
	require.NoError(t, err)
	assert.Equal(t, "Cerulean", got.Gym)
	require.NotNil(t, got.CountryID)
	assert.Equal(t, johto.ID, *got.CountryID)
}

func TestOwnerRepository_JoinTraversal(t *testing.T) {
	env := newTestEnv(t)

	ash := mustCreateOwner(t, env, "Ash", "Ketchum", nil)
	brock := mustCreateOwner(t, env, "Brock", "Harrison", nil)
	electric := mustCreateCategory(t, env, "Electric")
	rock := mustCreateCategory(t, env, "Rock")

	pikachu := mustCreatePokemon(t, env, ash.ID, electric.ID, "Pikachu")
	onix := mustCreatePokemon(t, env, brock.ID, rock.ID, "Onix")
	geodude := mustCreatePokemon(t, env, brock.ID, rock.ID, "Geodude")

	owned, err := env.repo.Owners.GetPokemonByOwner(env.ctx, brock.ID)
	require.NoError(t, err)
	assert.ElementsMatch(t, []domain.Pokemon{onix, geodude}, owned)

	owners, err := env.repo.Owners.GetOwnersOfPokemon(env.ctx, pikachu.ID)
	require.NoError(t, err)
	assert.Equal(t, []domain.Owner{ash}, owners)

	inRock, err := env.repo.Categories.GetPokemonByCategory(env.ctx, rock.ID)
	require.NoError(t, err)
	assert.ElementsMatch(t, []domain.Pokemon{onix, geodude}, inRock)
}

func TestReviewerRepository_EagerReviews(t *testing.T) {
	env := newTestEnv(t)

	ash := mustCreateOwner(t, env, "Ash", "Ketchum", nil)
	electric := mustCreateCategory(t, env, "Electric")
	pikachu := mustCreatePokemon(t, env, ash.ID, electric.ID, "Pikachu")

	teddy := mustCreateReviewer(t, env, "Teddy", "Smith")
	quiet := mustCreateReviewer(t, env, "Quiet", "Person")
	first := mustCreateReview(t, env, &pikachu.ID, &teddy.ID, "Best pokemon", 5)
	second := mustCreateReview(t, env, &pikachu.ID, &teddy.ID, "Still great", 4)

	got, err := env.fresh().Reviewers.GetByID(env.ctx, teddy.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "Teddy", got.FirstName)
	assert.ElementsMatch(t, []domain.Review{first, second}, got.Reviews)

	all, err := env.repo.Reviewers.GetAll(env.ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	for _, reviewer := range all {
		switch reviewer.ID {
		case teddy.ID:
			assert.Len(t, reviewer.Reviews, 2)
		case quiet.ID:
			assert.NotNil(t, reviewer.Reviews)
			assert.Empty(t, reviewer.Reviews)
		default:
			t.Fatalf("unexpected reviewer %d", reviewer.ID)
		}
	}

	byReviewer, err := env.repo.Reviewers.GetReviewsByReviewer(env.ctx, quiet.ID)
	require.NoError(t, err)
	assert.Empty(t, byReviewer)
}

func TestReviewRepository_CRUD(t *testing.T) {
	env := newTestEnv(t)

	ash := mustCreateOwner(t, env, "Ash", "Ketchum", nil)
	electric := mustCreateCategory(t, env, "Electric")
	pikachu := mustCreatePokemon(t, env, ash.ID, electric.ID, "Pikachu")
	teddy := mustCreateReviewer(t, env, "Teddy", "Smith")

	review := mustCreateReview(t, env, &pikachu.ID, &teddy.ID, "Sparky", 3)
	dangling := mustCreateReview(t, env, nil, nil, "Nobody's", 1)

	got, err := env.fresh().Reviews.GetByID(env.ctx, review.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, review, *got)

	got, err = env.repo.Reviews.GetByID(env.ctx, dangling.ID)
	require.NoError(t, err)
	assert.Nil(t, got.PokemonID)
	assert.Nil(t, got.ReviewerID)

	review.Rating = 42
	require.True(t, env.repo.Reviews.Update(env.ctx, review))

	ofPikachu, err := env.repo.Reviews.GetReviewsOfPokemon(env.ctx, pikachu.ID)
	require.NoError(t, err)
	require.Len(t, ofPikachu, 1)
	assert.Equal(t, 42, ofPikachu[0].Rating)

	require.True(t, env.repo.Reviews.Delete(env.ctx, review))
	all, err := env.repo.Reviews.GetAll(env.ctx)
	require.NoError(t, err)
	assert.Equal(t, []domain.Review{dangling}, all)
}

func TestRepository_SharedSessionSave(t *testing.T) {
	env := newTestEnv(t)

	// Writes queued through one repository are flushed by Save on another.
	env.repo.Categories.insert(new(int64), `INSERT INTO categories (name) VALUES ($1) RETURNING id`, "Water")
	env.repo.Countries.insert(new(int64), `INSERT INTO countries (name) VALUES ($1) RETURNING id`, "Orange Islands")
	require.True(t, env.repo.Reviewers.Save(env.ctx))

	assert.Equal(t, 1, env.db.Count(t, "categories", ""))
	assert.Equal(t, 1, env.db.Count(t, "countries", ""))
}

func TestRepository_ConcurrentCreatesBothSucceed(t *testing.T) {
	env := newTestEnv(t)

	// No uniqueness is enforced by the repositories; duplicate names from
	// concurrent callers both land.
	done := make(chan bool, 2)
	for i := 0; i < 2; i++ {
		go func() {
			c := domain.Category{Name: "Fire"}
			done <- env.fresh().Categories.Create(env.ctx, &c)
		}()
	}
	assert.True(t, <-done)
	assert.True(t, <-done)
	assert.Equal(t, 2, env.db.Count(t, "categories", "name = $1", "Fire"))
}

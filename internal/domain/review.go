package domain

// Review is a single reviewer's rating of one pokemon. Rating is stored as
// supplied; no range is enforced.
type Review struct {
	ID         int64
	Title      string
	Text       string
	Rating     int
	PokemonID  *int64
	ReviewerID *int64
}

// Reviewer writes reviews. Reviews is populated when the reviewer is read.
type Reviewer struct {
	ID        int64
	FirstName string
	LastName  string
	Reviews   []Review
}

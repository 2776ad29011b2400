package domain

import "time"

// Pokemon is the catalog's central entity. Owners and categories attach to it
// through join rows, reviews through their PokemonID.
type Pokemon struct {
	ID        int64
	Name      string
	BirthDate time.Time
}

// Category groups pokemon (e.g. "Electric").
type Category struct {
	ID   int64
	Name string
}

// PokemonOwner pairs a pokemon with an owner. OwnerID is nil when the owner
// could not be resolved at creation time.
type PokemonOwner struct {
	PokemonID int64
	OwnerID   *int64
}

// PokemonCategory pairs a pokemon with a category. CategoryID is nil when the
// category could not be resolved at creation time.
type PokemonCategory struct {
	PokemonID  int64
	CategoryID *int64
}

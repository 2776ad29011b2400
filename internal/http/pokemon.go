package httpserver

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/Clark-Hu/pokemon-reviews/internal/domain"
)

func (s *Server) handleListPokemon(w http.ResponseWriter, r *http.Request) {
	pokemon, err := s.repository().Pokemon.GetAll(r.Context())
	if err != nil {
		s.respondInternal(w, r, err, "Failed to list pokemon")
		return
	}
	s.respondJSON(w, http.StatusOK, mapSlice(pokemon, toPokemonResponse))
}

func (s *Server) handleGetPokemon(w http.ResponseWriter, r *http.Request) {
	id, ok := s.pathID(w, r, "pokemonID")
	if !ok {
		return
	}
	pokemon, err := s.repository().Pokemon.GetByID(r.Context(), id)
	if err != nil {
		s.respondInternal(w, r, err, "Failed to fetch pokemon")
		return
	}
	if pokemon == nil {
		s.respondNotFound(w)
		return
	}
	s.respondJSON(w, http.StatusOK, toPokemonResponse(*pokemon))
}

func (s *Server) handleGetPokemonByName(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	pokemon, err := s.repository().Pokemon.GetByName(r.Context(), name)
	if err != nil {
		s.respondInternal(w, r, err, "Failed to fetch pokemon")
		return
	}
	if pokemon == nil {
		s.respondNotFound(w)
		return
	}
	s.respondJSON(w, http.StatusOK, toPokemonResponse(*pokemon))
}

func (s *Server) handleGetPokemonRating(w http.ResponseWriter, r *http.Request) {
	id, ok := s.requirePokemon(w, r)
	if !ok {
		return
	}
	rating, err := s.repository().Pokemon.GetRating(r.Context(), id)
	if err != nil {
		s.respondInternal(w, r, err, "Failed to fetch rating")
		return
	}
	s.respondJSON(w, http.StatusOK, toRatingResponse(id, rating))
}

func (s *Server) handleListPokemonRatings(w http.ResponseWriter, r *http.Request) {
	id, ok := s.requirePokemon(w, r)
	if !ok {
		return
	}
	ratings, err := s.repository().Pokemon.GetAllRatings(r.Context(), id)
	if err != nil {
		s.respondInternal(w, r, err, "Failed to list ratings")
		return
	}
	if ratings == nil {
		ratings = []int{}
	}
	s.respondJSON(w, http.StatusOK, ratings)
}

func (s *Server) handleListOwnersOfPokemon(w http.ResponseWriter, r *http.Request) {
	id, ok := s.requirePokemon(w, r)
	if !ok {
		return
	}
	owners, err := s.repository().Owners.GetOwnersOfPokemon(r.Context(), id)
	if err != nil {
		s.respondInternal(w, r, err, "Failed to list owners of pokemon")
		return
	}
	s.respondJSON(w, http.StatusOK, mapSlice(owners, toOwnerResponse))
}

func (s *Server) handleListReviewsOfPokemon(w http.ResponseWriter, r *http.Request) {
	id, ok := s.requirePokemon(w, r)
	if !ok {
		return
	}
	reviews, err := s.repository().Reviews.GetReviewsOfPokemon(r.Context(), id)
	if err != nil {
		s.respondInternal(w, r, err, "Failed to list reviews of pokemon")
		return
	}
	s.respondJSON(w, http.StatusOK, mapSlice(reviews, toReviewResponse))
}

// requirePokemon resolves the pokemonID path parameter to an existing key,
// writing the 400, 404 or 500 itself when it cannot.
func (s *Server) requirePokemon(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, ok := s.pathID(w, r, "pokemonID")
	if !ok {
		return 0, false
	}
	exists, err := s.repository().Pokemon.Exists(r.Context(), id)
	if err != nil {
		s.respondInternal(w, r, err, "Failed to fetch pokemon")
		return 0, false
	}
	if !exists {
		s.respondNotFound(w)
		return 0, false
	}
	return id, true
}

// handleCreatePokemon creates the pokemon linked to ?ownerId and ?categoryId.
// Unknown owner or category keys still create the pokemon; the missing side
// of the link is stored empty.
func (s *Server) handleCreatePokemon(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := s.queryRef(w, r, "ownerId")
	if !ok {
		return
	}
	categoryID, ok := s.queryRef(w, r, "categoryId")
	if !ok {
		return
	}
	pokemon, ok := s.decodePokemon(w, r)
	if !ok {
		return
	}
	pokemon.ID = 0

	repo := s.repository()
	existing, err := repo.Pokemon.GetAll(r.Context())
	if err != nil {
		s.respondInternal(w, r, err, "Failed to create pokemon")
		return
	}
	for _, p := range existing {
		if sameName(p.Name, pokemon.Name) {
			s.respondConflict(w, "Pokemon already exists")
			return
		}
	}

	if !repo.Pokemon.Create(r.Context(), ownerID, categoryID, &pokemon) {
		s.respondInternal(w, r, nil, "Failed to create pokemon")
		return
	}
	s.respondJSON(w, http.StatusCreated, toPokemonResponse(pokemon))
}

func (s *Server) handleUpdatePokemon(w http.ResponseWriter, r *http.Request) {
	id, ok := s.pathID(w, r, "pokemonID")
	if !ok {
		return
	}
	pokemon, ok := s.decodePokemon(w, r)
	if !ok {
		return
	}
	if pokemon.ID != id {
		s.respondError(w, http.StatusBadRequest, "BAD_REQUEST", "id in body does not match path")
		return
	}

	repo := s.repository()
	exists, err := repo.Pokemon.Exists(r.Context(), id)
	if err != nil {
		s.respondInternal(w, r, err, "Failed to update pokemon")
		return
	}
	if !exists {
		s.respondNotFound(w)
		return
	}
	if !repo.Pokemon.Update(r.Context(), pokemon) {
		s.respondInternal(w, r, nil, "Failed to update pokemon")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleDeletePokemon removes the pokemon row only. Its reviews and links
// stay behind as orphans.
func (s *Server) handleDeletePokemon(w http.ResponseWriter, r *http.Request) {
	id, ok := s.pathID(w, r, "pokemonID")
	if !ok {
		return
	}
	repo := s.repository()
	pokemon, err := repo.Pokemon.GetByID(r.Context(), id)
	if err != nil {
		s.respondInternal(w, r, err, "Failed to delete pokemon")
		return
	}
	if pokemon == nil {
		s.respondNotFound(w)
		return
	}
	if !repo.Pokemon.Delete(r.Context(), *pokemon) {
		s.respondInternal(w, r, nil, "Failed to delete pokemon")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) decodePokemon(w http.ResponseWriter, r *http.Request) (domain.Pokemon, bool) {
	var req pokemonRequest
	if !s.decodeRequest(w, r, &req) {
		return domain.Pokemon{}, false
	}
	birthDate, err := parseDate(req.BirthDate)
	if err != nil {
		s.respondJSON(w, http.StatusBadRequest, errorResponse{
			Code:    "VALIDATION_ERROR",
			Message: "birthDate must follow YYYY-MM-DD format",
			Details: []fieldError{{Field: "birthDate", Rule: "date"}},
		})
		return domain.Pokemon{}, false
	}
	return domain.Pokemon{ID: req.ID, Name: strings.TrimSpace(req.Name), BirthDate: birthDate}, true
}

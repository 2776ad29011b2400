package httpserver

import (
	"net/http"
	"strings"
)

func (s *Server) handleListReviews(w http.ResponseWriter, r *http.Request) {
	reviews, err := s.repository().Reviews.GetAll(r.Context())
	if err != nil {
		s.respondInternal(w, r, err, "Failed to list reviews")
		return
	}
	s.respondJSON(w, http.StatusOK, mapSlice(reviews, toReviewResponse))
}

func (s *Server) handleGetReview(w http.ResponseWriter, r *http.Request) {
	id, ok := s.pathID(w, r, "reviewID")
	if !ok {
		return
	}
	review, err := s.repository().Reviews.GetByID(r.Context(), id)
	if err != nil {
		s.respondInternal(w, r, err, "Failed to fetch review")
		return
	}
	if review == nil {
		s.respondNotFound(w)
		return
	}
	s.respondJSON(w, http.StatusOK, toReviewResponse(*review))
}

// handleCreateReview attaches the review to ?reviewerId and the pokemon named
// by ?pokemonName. Either reference may be absent or unknown, leaving that
// side empty.
func (s *Server) handleCreateReview(w http.ResponseWriter, r *http.Request) {
	reviewerID, ok := s.queryRef(w, r, "reviewerId")
	if !ok {
		return
	}
	pokemonName := strings.TrimSpace(r.URL.Query().Get("pokemonName"))
	var req reviewRequest
	if !s.decodeRequest(w, r, &req) {
		return
	}
	review := req.toDomain()
	review.ID = 0

	repo := s.repository()
	existing, err := repo.Reviews.GetAll(r.Context())
	if err != nil {
		s.respondInternal(w, r, err, "Failed to create review")
		return
	}
	for _, rv := range existing {
		if sameName(rv.Title, review.Title) {
			s.respondConflict(w, "Review title already used")
			return
		}
	}

	reviewer, err := repo.Reviewers.GetByID(r.Context(), reviewerID)
	if err != nil {
		s.respondInternal(w, r, err, "Failed to create review")
		return
	}
	if reviewer != nil {
		review.ReviewerID = &reviewer.ID
	}
	if pokemonName != "" {
		pokemon, err := repo.Pokemon.GetByName(r.Context(), pokemonName)
		if err != nil {
			s.respondInternal(w, r, err, "Failed to create review")
			return
		}
		if pokemon != nil {
			review.PokemonID = &pokemon.ID
		}
	}

	if !repo.Reviews.Create(r.Context(), &review) {
		s.respondInternal(w, r, nil, "Failed to create review")
		return
	}
	s.respondJSON(w, http.StatusCreated, toReviewResponse(review))
}

// handleUpdateReview replaces title, text and rating. The pokemon and
// reviewer links are carried over from the stored row.
func (s *Server) handleUpdateReview(w http.ResponseWriter, r *http.Request) {
	id, ok := s.pathID(w, r, "reviewID")
	if !ok {
		return
	}
	var req reviewRequest
	if !s.decodeRequest(w, r, &req) {
		return
	}
	if req.ID != id {
		s.respondError(w, http.StatusBadRequest, "BAD_REQUEST", "id in body does not match path")
		return
	}

	repo := s.repository()
	current, err := repo.Reviews.GetByID(r.Context(), id)
	if err != nil {
		s.respondInternal(w, r, err, "Failed to update review")
		return
	}
	if current == nil {
		s.respondNotFound(w)
		return
	}
	review := req.toDomain()
	review.PokemonID = current.PokemonID
	review.ReviewerID = current.ReviewerID

	if !repo.Reviews.Update(r.Context(), review) {
		s.respondInternal(w, r, nil, "Failed to update review")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleDeleteReview(w http.ResponseWriter, r *http.Request) {
	id, ok := s.pathID(w, r, "reviewID")
	if !ok {
		return
	}
	repo := s.repository()
	review, err := repo.Reviews.GetByID(r.Context(), id)
	if err != nil {
		s.respondInternal(w, r, err, "Failed to delete review")
		return
	}
	if review == nil {
		s.respondNotFound(w)
		return
	}
	if !repo.Reviews.Delete(r.Context(), *review) {
		s.respondInternal(w, r, nil, "Failed to delete review")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

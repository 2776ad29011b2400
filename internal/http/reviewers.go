package httpserver

import "net/http"

func (s *Server) handleListReviewers(w http.ResponseWriter, r *http.Request) {
	reviewers, err := s.repository().Reviewers.GetAll(r.Context())
	if err != nil {
		s.respondInternal(w, r, err, "Failed to list reviewers")
		return
	}
	s.respondJSON(w, http.StatusOK, mapSlice(reviewers, toReviewerResponse))
}

func (s *Server) handleGetReviewer(w http.ResponseWriter, r *http.Request) {
	id, ok := s.pathID(w, r, "reviewerID")
	if !ok {
		return
	}
	reviewer, err := s.repository().Reviewers.GetByID(r.Context(), id)
	if err != nil {
		s.respondInternal(w, r, err, "Failed to fetch reviewer")
		return
	}
	if reviewer == nil {
		s.respondNotFound(w)
		return
	}
	s.respondJSON(w, http.StatusOK, toReviewerResponse(*reviewer))
}

func (s *Server) handleListReviewsByReviewer(w http.ResponseWriter, r *http.Request) {
	id, ok := s.pathID(w, r, "reviewerID")
	if !ok {
		return
	}
	repo := s.repository()
	exists, err := repo.Reviewers.Exists(r.Context(), id)
	if err != nil {
		s.respondInternal(w, r, err, "Failed to fetch reviewer")
		return
	}
	if !exists {
		s.respondNotFound(w)
		return
	}
	reviews, err := repo.Reviewers.GetReviewsByReviewer(r.Context(), id)
	if err != nil {
		s.respondInternal(w, r, err, "Failed to list reviews of reviewer")
		return
	}
	s.respondJSON(w, http.StatusOK, mapSlice(reviews, toReviewResponse))
}

func (s *Server) handleCreateReviewer(w http.ResponseWriter, r *http.Request) {
	var req reviewerRequest
	if !s.decodeRequest(w, r, &req) {
		return
	}
	reviewer := req.toDomain()
	reviewer.ID = 0

	repo := s.repository()
	existing, err := repo.Reviewers.GetAll(r.Context())
	if err != nil {
		s.respondInternal(w, r, err, "Failed to create reviewer")
		return
	}
	for _, rv := range existing {
		if sameName(rv.FirstName, reviewer.FirstName) && sameName(rv.LastName, reviewer.LastName) {
			s.respondConflict(w, "Reviewer already exists")
			return
		}
	}

	if !repo.Reviewers.Create(r.Context(), &reviewer) {
		s.respondInternal(w, r, nil, "Failed to create reviewer")
		return
	}
	s.respondJSON(w, http.StatusCreated, toReviewerResponse(reviewer))
}

func (s *Server) handleUpdateReviewer(w http.ResponseWriter, r *http.Request) {
	id, ok := s.pathID(w, r, "reviewerID")
	if !ok {
		return
	}
	var req reviewerRequest
	if !s.decodeRequest(w, r, &req) {
		return
	}
	if req.ID != id {
		s.respondError(w, http.StatusBadRequest, "BAD_REQUEST", "id in body does not match path")
		return
	}

	repo := s.repository()
	exists, err := repo.Reviewers.Exists(r.Context(), id)
	if err != nil {
		s.respondInternal(w, r, err, "Failed to update reviewer")
		return
	}
	if !exists {
		s.respondNotFound(w)
		return
	}
	if !repo.Reviewers.Update(r.Context(), req.toDomain()) {
		s.respondInternal(w, r, nil, "Failed to update reviewer")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleDeleteReviewer(w http.ResponseWriter, r *http.Request) {
	id, ok := s.pathID(w, r, "reviewerID")
	if !ok {
		return
	}
	repo := s.repository()
	reviewer, err := repo.Reviewers.GetByID(r.Context(), id)
	if err != nil {
		s.respondInternal(w, r, err, "Failed to delete reviewer")
		return
	}
	if reviewer == nil {
		s.respondNotFound(w)
		return
	}
	if !repo.Reviewers.Delete(r.Context(), *reviewer) {
		s.respondInternal(w, r, nil, "Failed to delete reviewer")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

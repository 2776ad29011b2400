package httpserver

import "net/http"

func (s *Server) handleListCountries(w http.ResponseWriter, r *http.Request) {
	countries, err := s.repository().Countries.GetAll(r.Context())
	if err != nil {
		s.respondInternal(w, r, err, "Failed to list countries")
		return
	}
	s.respondJSON(w, http.StatusOK, mapSlice(countries, toCountryResponse))
}

func (s *Server) handleGetCountry(w http.ResponseWriter, r *http.Request) {
	id, ok := s.pathID(w, r, "countryID")
	if !ok {
		return
	}
	country, err := s.repository().Countries.GetByID(r.Context(), id)
	if err != nil {
		s.respondInternal(w, r, err, "Failed to fetch country")
		return
	}
	if country == nil {
		s.respondNotFound(w)
		return
	}
	s.respondJSON(w, http.StatusOK, toCountryResponse(*country))
}

func (s *Server) handleListOwnersFromCountry(w http.ResponseWriter, r *http.Request) {
	id, ok := s.pathID(w, r, "countryID")
	if !ok {
		return
	}
	repo := s.repository()
	exists, err := repo.Countries.Exists(r.Context(), id)
	if err != nil {
		s.respondInternal(w, r, err, "Failed to fetch country")
		return
	}
	if !exists {
		s.respondNotFound(w)
		return
	}
	owners, err := repo.Countries.GetOwnersFromCountry(r.Context(), id)
	if err != nil {
		s.respondInternal(w, r, err, "Failed to list owners of country")
		return
	}
	s.respondJSON(w, http.StatusOK, mapSlice(owners, toOwnerResponse))
}

func (s *Server) handleCreateCountry(w http.ResponseWriter, r *http.Request) {
	var req countryRequest
	if !s.decodeRequest(w, r, &req) {
		return
	}
	country := req.toDomain()
	country.ID = 0

	repo := s.repository()
	existing, err := repo.Countries.GetAll(r.Context())
	if err != nil {
		s.respondInternal(w, r, err, "Failed to create country")
		return
	}
	for _, c := range existing {
		if sameName(c.Name, country.Name) {
			s.respondConflict(w, "Country already exists")
			return
		}
	}

	if !repo.Countries.Create(r.Context(), &country) {
		s.respondInternal(w, r, nil, "Failed to create country")
		return
	}
	s.respondJSON(w, http.StatusCreated, toCountryResponse(country))
}

func (s *Server) handleUpdateCountry(w http.ResponseWriter, r *http.Request) {
	id, ok := s.pathID(w, r, "countryID")
	if !ok {
		return
	}
	var req countryRequest
	if !s.decodeRequest(w, r, &req) {
		return
	}
	if req.ID != id {
		s.respondError(w, http.StatusBadRequest, "BAD_REQUEST", "id in body does not match path")
		return
	}

	repo := s.repository()
	exists, err := repo.Countries.Exists(r.Context(), id)
	if err != nil {
		s.respondInternal(w, r, err, "Failed to update country")
		return
	}
	if !exists {
		s.respondNotFound(w)
		return
	}
	if !repo.Countries.Update(r.Context(), req.toDomain()) {
		s.respondInternal(w, r, nil, "Failed to update country")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleDeleteCountry(w http.ResponseWriter, r *http.Request) {
	id, ok := s.pathID(w, r, "countryID")
	if !ok {
		return
	}
	repo := s.repository()
	country, err := repo.Countries.GetByID(r.Context(), id)
	if err != nil {
		s.respondInternal(w, r, err, "Failed to delete country")
		return
	}
	if country == nil {
		s.respondNotFound(w)
		return
	}
	if !repo.Countries.Delete(r.Context(), *country) {
		s.respondInternal(w, r, nil, "Failed to delete country")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}


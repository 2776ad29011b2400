package httpserver

import "net/http"

func (s *Server) handleListOwners(w http.ResponseWriter, r *http.Request) {
	owners, err := s.repository().Owners.GetAll(r.Context())
	if err != nil {
		s.respondInternal(w, r, err, "Failed to list owners")
		return
	}
	s.respondJSON(w, http.StatusOK, mapSlice(owners, toOwnerResponse))
}

func (s *Server) handleGetOwner(w http.ResponseWriter, r *http.Request) {
	id, ok := s.pathID(w, r, "ownerID")
	if !ok {
		return
	}
	owner, err := s.repository().Owners.GetByID(r.Context(), id)
	if err != nil {
		s.respondInternal(w, r, err, "Failed to fetch owner")
		return
	}
	if owner == nil {
		s.respondNotFound(w)
		return
	}
	s.respondJSON(w, http.StatusOK, toOwnerResponse(*owner))
}

func (s *Server) handleListPokemonByOwner(w http.ResponseWriter, r *http.Request) {
	id, ok := s.pathID(w, r, "ownerID")
	if !ok {
		return
	}
	repo := s.repository()
	exists, err := repo.Owners.Exists(r.Context(), id)
	if err != nil {
		s.respondInternal(w, r, err, "Failed to fetch owner")
		return
	}
	if !exists {
		s.respondNotFound(w)
		return
	}
	pokemon, err := repo.Owners.GetPokemonByOwner(r.Context(), id)
	if err != nil {
		s.respondInternal(w, r, err, "Failed to list pokemon of owner")
		return
	}
	s.respondJSON(w, http.StatusOK, mapSlice(pokemon, toPokemonResponse))
}

// handleGetCountryOfOwner answers 404 both for an unknown owner and for an
// owner whose country is unset or no longer exists.
func (s *Server) handleGetCountryOfOwner(w http.ResponseWriter, r *http.Request) {
	id, ok := s.pathID(w, r, "ownerID")
	if !ok {
		return
	}
	repo := s.repository()
	exists, err := repo.Owners.Exists(r.Context(), id)
	if err != nil {
		s.respondInternal(w, r, err, "Failed to fetch owner")
		return
	}
	if !exists {
		s.respondNotFound(w)
		return
	}
	country, err := repo.Countries.GetCountryByOwner(r.Context(), id)
	if err != nil {
		s.respondInternal(w, r, err, "Failed to fetch country of owner")
		return
	}
	if country == nil {
		s.respondNotFound(w)
		return
	}
	s.respondJSON(w, http.StatusOK, toCountryResponse(*country))
}

// handleCreateOwner links the owner to ?countryId. An unknown country leaves
// the owner without one.
func (s *Server) handleCreateOwner(w http.ResponseWriter, r *http.Request) {
	countryID, ok := s.queryRef(w, r, "countryId")
	if !ok {
		return
	}
	var req ownerRequest
	if !s.decodeRequest(w, r, &req) {
		return
	}
	owner := req.toDomain()
	owner.ID = 0

	repo := s.repository()
	existing, err := repo.Owners.GetAll(r.Context())
	if err != nil {
		s.respondInternal(w, r, err, "Failed to create owner")
		return
	}
	for _, o := range existing {
		if sameName(o.FirstName, owner.FirstName) && sameName(o.LastName, owner.LastName) {
			s.respondConflict(w, "Owner already exists")
			return
		}
	}

	country, err := repo.Countries.GetByID(r.Context(), countryID)
	if err != nil {
		s.respondInternal(w, r, err, "Failed to create owner")
		return
	}
	if country != nil {
		owner.CountryID = &country.ID
	}

	if !repo.Owners.Create(r.Context(), &owner) {
		s.respondInternal(w, r, nil, "Failed to create owner")
		return
	}
	s.respondJSON(w, http.StatusCreated, toOwnerResponse(owner))
}

// handleUpdateOwner replaces the owner's names and gym. The country link is
// not part of the payload and is carried over from the stored row.
func (s *Server) handleUpdateOwner(w http.ResponseWriter, r *http.Request) {
	id, ok := s.pathID(w, r, "ownerID")
	if !ok {
		return
	}
	var req ownerRequest
	if !s.decodeRequest(w, r, &req) {
		return
	}
	if req.ID != id {
		s.respondError(w, http.StatusBadRequest, "BAD_REQUEST", "id in body does not match path")
		return
	}

	repo := s.repository()
	current, err := repo.Owners.GetByID(r.Context(), id)
	if err != nil {
		s.respondInternal(w, r, err, "Failed to update owner")
		return
	}
	if current == nil {
		s.respondNotFound(w)
		return
	}
	owner := req.toDomain()
	owner.CountryID = current.CountryID

	if !repo.Owners.Update(r.Context(), owner) {
		s.respondInternal(w, r, nil, "Failed to update owner")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleDeleteOwner(w http.ResponseWriter, r *http.Request) {
	id, ok := s.pathID(w, r, "ownerID")
	if !ok {
		return
	}
	repo := s.repository()
	owner, err := repo.Owners.GetByID(r.Context(), id)
	if err != nil {
		s.respondInternal(w, r, err, "Failed to delete owner")
		return
	}
	if owner == nil {
		s.respondNotFound(w)
		return
	}
	if !repo.Owners.Delete(r.Context(), *owner) {
		s.respondInternal(w, r, nil, "Failed to delete owner")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

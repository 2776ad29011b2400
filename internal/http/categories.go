package httpserver

import "net/http"

func (s *Server) handleListCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := s.repository().Categories.GetAll(r.Context())
	if err != nil {
		s.respondInternal(w, r, err, "Failed to list categories")
		return
	}
	s.respondJSON(w, http.StatusOK, mapSlice(categories, toCategoryResponse))
}

func (s *Server) handleGetCategory(w http.ResponseWriter, r *http.Request) {
	id, ok := s.pathID(w, r, "categoryID")
	if !ok {
		return
	}
	category, err := s.repository().Categories.GetByID(r.Context(), id)
	if err != nil {
		s.respondInternal(w, r, err, "Failed to fetch category")
		return
	}
	if category == nil {
		s.respondNotFound(w)
		return
	}
	s.respondJSON(w, http.StatusOK, toCategoryResponse(*category))
}

func (s *Server) handleListPokemonByCategory(w http.ResponseWriter, r *http.Request) {
	id, ok := s.pathID(w, r, "categoryID")
	if !ok {
		return
	}
	repo := s.repository()
	exists, err := repo.Categories.Exists(r.Context(), id)
	if err != nil {
		s.respondInternal(w, r, err, "Failed to fetch category")
		return
	}
	if !exists {
		s.respondNotFound(w)
		return
	}
	pokemon, err := repo.Categories.GetPokemonByCategory(r.Context(), id)
	if err != nil {
		s.respondInternal(w, r, err, "Failed to list pokemon of category")
		return
	}
	s.respondJSON(w, http.StatusOK, mapSlice(pokemon, toPokemonResponse))
}

func (s *Server) handleCreateCategory(w http.ResponseWriter, r *http.Request) {
	var req categoryRequest
	if !s.decodeRequest(w, r, &req) {
		return
	}
	category := req.toDomain()
	category.ID = 0

	repo := s.repository()
	existing, err := repo.Categories.GetAll(r.Context())
	if err != nil {
		s.respondInternal(w, r, err, "Failed to create category")
		return
	}
	for _, c := range existing {
		if sameName(c.Name, category.Name) {
			s.respondConflict(w, "Category already exists")
			return
		}
	}

	if !repo.Categories.Create(r.Context(), &category) {
		s.respondInternal(w, r, nil, "Failed to create category")
		return
	}
	s.respondJSON(w, http.StatusCreated, toCategoryResponse(category))
}

func (s *Server) handleUpdateCategory(w http.ResponseWriter, r *http.Request) {
	id, ok := s.pathID(w, r, "categoryID")
	if !ok {
		return
	}
	var req categoryRequest
	if !s.decodeRequest(w, r, &req) {
		return
	}
	if req.ID != id {
		s.respondError(w, http.StatusBadRequest, "BAD_REQUEST", "id in body does not match path")
		return
	}

	repo := s.repository()
	exists, err := repo.Categories.Exists(r.Context(), id)
	if err != nil {
		s.respondInternal(w, r, err, "Failed to update category")
		return
	}
	if !exists {
		s.respondNotFound(w)
		return
	}
	if !repo.Categories.Update(r.Context(), req.toDomain()) {
		s.respondInternal(w, r, nil, "Failed to update category")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleDeleteCategory(w http.ResponseWriter, r *http.Request) {
	id, ok := s.pathID(w, r, "categoryID")
	if !ok {
		return
	}
	repo := s.repository()
	category, err := repo.Categories.GetByID(r.Context(), id)
	if err != nil {
		s.respondInternal(w, r, err, "Failed to delete category")
		return
	}
	if category == nil {
		s.respondNotFound(w)
		return
	}
	if !repo.Categories.Delete(r.Context(), *category) {
		s.respondInternal(w, r, nil, "Failed to delete category")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}


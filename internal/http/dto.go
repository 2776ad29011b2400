package httpserver

import (
	"encoding/json"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/Clark-Hu/pokemon-reviews/internal/domain"
)

type categoryRequest struct {
	ID   int64  `json:"id"`
	Name string `json:"name" validate:"notblank,max=200"`
}

type countryRequest struct {
	ID   int64  `json:"id"`
	Name string `json:"name" validate:"notblank,max=200"`
}

type ownerRequest struct {
	ID        int64  `json:"id"`
	FirstName string `json:"firstName" validate:"notblank,max=200"`
	LastName  string `json:"lastName" validate:"notblank,max=200"`
	Gym       string `json:"gym" validate:"max=200"`
}

type pokemonRequest struct {
	ID        int64  `json:"id"`
	Name      string `json:"name" validate:"notblank,max=200"`
	BirthDate string `json:"birthDate" validate:"notblank"`
}

type reviewRequest struct {
	ID     int64  `json:"id"`
	Title  string `json:"title" validate:"notblank,max=200"`
	Text   string `json:"text"`
	Rating int    `json:"rating"`
}

type reviewerRequest struct {
	ID        int64  `json:"id"`
	FirstName string `json:"firstName" validate:"notblank,max=200"`
	LastName  string `json:"lastName" validate:"notblank,max=200"`
}

type categoryResponse struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type countryResponse struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type ownerResponse struct {
	ID        int64  `json:"id"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Gym       string `json:"gym"`
}

type pokemonResponse struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	BirthDate string `json:"birthDate"`
}

type reviewResponse struct {
	ID     int64  `json:"id"`
	Title  string `json:"title"`
	Text   string `json:"text"`
	Rating int    `json:"rating"`
}

type reviewerResponse struct {
	ID        int64            `json:"id"`
	FirstName string           `json:"firstName"`
	LastName  string           `json:"lastName"`
	Reviews   []reviewResponse `json:"reviews"`
}

// ratingResponse carries the mean as a JSON number with exactly two decimals.
type ratingResponse struct {
	PokemonID int64       `json:"pokemonId"`
	Rating    json.Number `json:"rating"`
}

func toCategoryResponse(c domain.Category) categoryResponse {
	return categoryResponse{ID: c.ID, Name: c.Name}
}

func toCountryResponse(c domain.Country) countryResponse {
	return countryResponse{ID: c.ID, Name: c.Name}
}

func toOwnerResponse(o domain.Owner) ownerResponse {
	return ownerResponse{ID: o.ID, FirstName: o.FirstName, LastName: o.LastName, Gym: o.Gym}
}

func toPokemonResponse(p domain.Pokemon) pokemonResponse {
	return pokemonResponse{ID: p.ID, Name: p.Name, BirthDate: p.BirthDate.Format(dateLayout)}
}

func toReviewResponse(r domain.Review) reviewResponse {
	return reviewResponse{ID: r.ID, Title: r.Title, Text: r.Text, Rating: r.Rating}
}

func toReviewerResponse(r domain.Reviewer) reviewerResponse {
	return reviewerResponse{
		ID:        r.ID,
		FirstName: r.FirstName,
		LastName:  r.LastName,
		Reviews:   mapSlice(r.Reviews, toReviewResponse),
	}
}

func toRatingResponse(pokemonID int64, rating decimal.Decimal) ratingResponse {
	return ratingResponse{PokemonID: pokemonID, Rating: json.Number(rating.StringFixed(2))}
}

// mapSlice projects items with fn and never returns nil, so empty lists
// encode as [].
func mapSlice[T, R any](items []T, fn func(T) R) []R {
	out := make([]R, 0, len(items))
	for _, item := range items {
		out = append(out, fn(item))
	}
	return out
}

func (req categoryRequest) toDomain() domain.Category {
	return domain.Category{ID: req.ID, Name: strings.TrimSpace(req.Name)}
}

func (req countryRequest) toDomain() domain.Country {
	return domain.Country{ID: req.ID, Name: strings.TrimSpace(req.Name)}
}

func (req ownerRequest) toDomain() domain.Owner {
	return domain.Owner{
		ID:        req.ID,
		FirstName: strings.TrimSpace(req.FirstName),
		LastName:  strings.TrimSpace(req.LastName),
		Gym:       strings.TrimSpace(req.Gym),
	}
}

func (req reviewRequest) toDomain() domain.Review {
	return domain.Review{
		ID:     req.ID,
		Title:  strings.TrimSpace(req.Title),
		Text:   req.Text,
		Rating: req.Rating,
	}
}

func (req reviewerRequest) toDomain() domain.Reviewer {
	return domain.Reviewer{
		ID:        req.ID,
		FirstName: strings.TrimSpace(req.FirstName),
		LastName:  strings.TrimSpace(req.LastName),
	}
}

package usecase

import (
	"context"
	"fmt"
	"unicode/utf8"

	"flightdesk-service/internal/domain/entity"
	"flightdesk-service/internal/domain/repository"
	"flightdesk-service/pkg/logger"
)

// SuggestionService turns free text into grouped airport suggestions
type SuggestionService struct {
	catalog  repository.CatalogRepository
	minChars int
	logger   logger.Logger
}

// NewSuggestionService creates a new suggestion service
func NewSuggestionService(catalog repository.CatalogRepository, minChars int, logger logger.Logger) *SuggestionService {
	return &SuggestionService{
		catalog:  catalog,
		minChars: minChars,
		logger:   logger,
	}
}

// Qualifies reports whether query is long enough to be sent to the catalog
func (s *SuggestionService) Qualifies(query string) bool {
	return utf8.RuneCountInString(query) >= s.minChars
}

// Lookup returns the suggestion groups for query. Short queries yield an
// empty result without contacting the catalog.
func (s *SuggestionService) Lookup(ctx context.Context, query string) ([]entity.SuggestionGroup, error) {
	if !s.Qualifies(query) {
		return []entity.SuggestionGroup{}, nil
	}

	lookup, err := s.catalog.LookupAirports(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", entity.ErrLookupFailed, err)
	}

	groups := GroupSuggestions(lookup)
	s.logger.Debug("Airport lookup completed", "query", query, "groups", len(groups))
	return groups, nil
}

// GroupSuggestions builds the suggestion index for one catalog response.
// Cities come first, each holding its listed airports. A standalone airport
// joins the group of its city when that city is in the response, otherwise it
// becomes a singleton group. Every airport lands in exactly one group and the
// first group to claim a key or an airport wins.
func GroupSuggestions(lookup *entity.AirportLookup) []entity.SuggestionGroup {
	if lookup == nil {
		return []entity.SuggestionGroup{}
	}

	groups := make([]entity.SuggestionGroup, 0, len(lookup.Cities)+len(lookup.Airports))
	index := make(map[string]int)
	cityByCode := make(map[string]int)
	seen := make(map[int64]bool)

	for _, city := range lookup.Cities {
		key := entity.CityGroupKey(city.ID)
		if _, ok := index[key]; ok {
			continue
		}

		group := entity.SuggestionGroup{Key: key, Label: city.Name, Airports: []entity.Airport{}}
		for _, airport := range city.ChildAirports {
			if seen[airport.ID] {
				continue
			}
			seen[airport.ID] = true
			group.Airports = append(group.Airports, airport)
		}

		index[key] = len(groups)
		if city.CodeIata != "" {
			if _, ok := cityByCode[city.CodeIata]; !ok {
				cityByCode[city.CodeIata] = len(groups)
			}
		}
		groups = append(groups, group)
	}

	for _, airport := range lookup.Airports {
		if seen[airport.ID] {
			continue
		}

		if i, ok := cityByCode[airport.CodeIataCity]; ok && airport.CodeIataCity != "" {
			seen[airport.ID] = true
			groups[i].Airports = append(groups[i].Airports, airport)
			continue
		}

		key := entity.AirportGroupKey(airport.ID)
		if _, ok := index[key]; ok {
			continue
		}
		seen[airport.ID] = true
		index[key] = len(groups)
		groups = append(groups, entity.SuggestionGroup{
			Key:      key,
			Label:    airport.Name,
			Airports: []entity.Airport{airport},
		})
	}

	return groups
}

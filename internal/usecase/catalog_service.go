package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/kiacoder/AirocupWebsite-sub000/internal/domain/geo"
	"github.com/kiacoder/AirocupWebsite-sub000/internal/domain/league"
)

// CatalogService serves static reference data for registration forms.
type CatalogService struct {
	leagueRepo league.Repository
	geoRepo    geo.Repository
}

func NewCatalogService(leagueRepo league.Repository, geoRepo geo.Repository) *CatalogService {
	return &CatalogService{leagueRepo: leagueRepo, geoRepo: geoRepo}
}

func (s *CatalogService) ListLeagues(ctx context.Context) ([]league.League, error) {
	leagues, err := s.leagueRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list leagues: %w", err)
	}

	return leagues, nil
}

func (s *CatalogService) ListProvinces(ctx context.Context) ([]geo.Province, error) {
	provinces, err := s.geoRepo.ListProvinces(ctx)
	if err != nil {
		return nil, fmt.Errorf("list provinces: %w", err)
	}

	return provinces, nil
}

func (s *CatalogService) ListCities(ctx context.Context, provinceID string) ([]geo.City, error) {
	provinceID = strings.TrimSpace(provinceID)
	if provinceID == "" {
		return nil, fmt.Errorf("%w: province id is required", ErrInvalidInput)
	}

	cities, err := s.geoRepo.ListCitiesByProvince(ctx, provinceID)
	if err != nil {
		return nil, fmt.Errorf("list cities: %w", err)
	}

	return cities, nil
}

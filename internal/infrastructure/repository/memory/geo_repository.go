package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/kiacoder/AirocupWebsite-sub000/internal/domain/geo"
)

type GeoRepository struct {
	mu        sync.RWMutex
	provinces map[string]geo.Province
	cities    map[string]geo.City
}

func NewGeoRepository(provinces []geo.Province, cities []geo.City) *GeoRepository {
	r := &GeoRepository{
		provinces: make(map[string]geo.Province, len(provinces)),
		cities:    make(map[string]geo.City, len(cities)),
	}
	for _, p := range provinces {
		r.provinces[p.ID] = p
	}
	for _, c := range cities {
		r.cities[c.ID] = c
	}

	return r
}

func (r *GeoRepository) ListProvinces(_ context.Context) ([]geo.Province, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]geo.Province, 0, len(r.provinces))
	for _, p := range r.provinces {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })

	return out, nil
}

func (r *GeoRepository) ListCitiesByProvince(_ context.Context, provinceID string) ([]geo.City, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []geo.City
	for _, c := range r.cities {
		if c.ProvinceID == provinceID {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })

	return out, nil
}

func (r *GeoRepository) GetCity(_ context.Context, cityID string) (geo.City, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	c, ok := r.cities[cityID]
	return c, ok, nil
}

func (r *GeoRepository) ListCitiesByIDs(_ context.Context, cityIDs []string) ([]geo.City, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]geo.City, 0, len(cityIDs))
	for _, id := range cityIDs {
		if c, ok := r.cities[id]; ok {
			out = append(out, c)
		}
	}

	return out, nil
}

package geo

import "context"

// Repository describes geography lookups from use cases.
type Repository interface {
	ListProvinces(ctx context.Context) ([]Province, error)
	ListCitiesByProvince(ctx context.Context, provinceID string) ([]City, error)
	GetCity(ctx context.Context, cityID string) (City, bool, error)
	ListCitiesByIDs(ctx context.Context, cityIDs []string) ([]City, error)
}

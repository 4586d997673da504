package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/kiacoder/AirocupWebsite-sub000/internal/domain/geo"
	qb "github.com/kiacoder/AirocupWebsite-sub000/internal/platform/querybuilder"
)

type cityTableModel struct {
	ID         string `db:"id"`
	ProvinceID string `db:"province_id"`
	Name       string `db:"name"`
}

func (m cityTableModel) toDomain() geo.City {
	return geo.City{ID: m.ID, ProvinceID: m.ProvinceID, Name: m.Name}
}

type GeoRepository struct {
	db *sqlx.DB
}

func NewGeoRepository(db *sqlx.DB) *GeoRepository {
	return &GeoRepository{db: db}
}

func (r *GeoRepository) ListProvinces(ctx context.Context) ([]geo.Province, error) {
	query, args, err := qb.Select("id", "name").From("provinces").
		OrderBy("name").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select provinces query: %w", err)
	}

	var rows []struct {
		ID   string `db:"id"`
		Name string `db:"name"`
	}
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select provinces: %w", err)
	}

	out := make([]geo.Province, 0, len(rows))
	for _, row := range rows {
		out = append(out, geo.Province{ID: row.ID, Name: row.Name})
	}

	return out, nil
}

func (r *GeoRepository) ListCitiesByProvince(ctx context.Context, provinceID string) ([]geo.City, error) {
	return r.listCities(ctx, qb.Eq("province_id", provinceID))
}

func (r *GeoRepository) GetCity(ctx context.Context, cityID string) (geo.City, bool, error) {
	query, args, err := qb.Select("*").From("cities").
		Where(qb.Eq("id", cityID)).
		ToSQL()
	if err != nil {
		return geo.City{}, false, fmt.Errorf("build select city query: %w", err)
	}

	var row cityTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return geo.City{}, false, nil
		}
		return geo.City{}, false, fmt.Errorf("get city: %w", err)
	}

	return row.toDomain(), true, nil
}

func (r *GeoRepository) ListCitiesByIDs(ctx context.Context, cityIDs []string) ([]geo.City, error) {
	if len(cityIDs) == 0 {
		return nil, nil
	}

	ids := make([]any, 0, len(cityIDs))
	for _, id := range cityIDs {
		ids = append(ids, id)
	}

	return r.listCities(ctx, qb.In("id", ids))
}

func (r *GeoRepository) listCities(ctx context.Context, cond qb.Condition) ([]geo.City, error) {
	query, args, err := qb.Select("*").From("cities").
		Where(cond).
		OrderBy("name").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select cities query: %w", err)
	}

	var rows []cityTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select cities: %w", err)
	}

	out := make([]geo.City, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}

	return out, nil
}

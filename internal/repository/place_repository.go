package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrPlaceNotFound = errors.New("place not found")

// PlaceRepository backs the country/city search proxy.
type PlaceRepository struct {
	pool *pgxpool.Pool
}

func NewPlaceRepository(pool *pgxpool.Pool) *PlaceRepository {
	return &PlaceRepository{pool: pool}
}

func (r *PlaceRepository) SearchCountries(ctx context.Context, q string, limit int) ([]string, error) {
	const query = `
		SELECT name FROM countries
		WHERE name ILIKE '%' || $1 || '%'
		ORDER BY name
		LIMIT $2
	`
	return r.collectNames(ctx, query, q, limit)
}

func (r *PlaceRepository) SearchCities(ctx context.Context, country string, q string, limit int) ([]string, error) {
	const query = `
		SELECT name FROM cities
		WHERE country ILIKE '%' || $1 || '%' AND name ILIKE '%' || $2 || '%'
		ORDER BY name
		LIMIT $3
	`
	return r.collectNames(ctx, query, country, q, limit)
}

func (r *PlaceRepository) CountryForCity(ctx context.Context, city string) (string, error) {
	const query = `SELECT country FROM cities WHERE name ILIKE $1 LIMIT 1`

	var country string
	if err := r.pool.QueryRow(ctx, query, city).Scan(&country); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", ErrPlaceNotFound
		}
		return "", err
	}
	return country, nil
}

func (r *PlaceRepository) collectNames(ctx context.Context, query string, args ...any) ([]string, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

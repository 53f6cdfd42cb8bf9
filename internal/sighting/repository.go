package sighting

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"pokemon-map/internal/shared/database"
)

type Repository struct {
	db     *database.DB
	logger *slog.Logger
}

func NewRepository(db *database.DB, logger *slog.Logger) *Repository {
	logger.Debug("Initializing sighting repository")

	return &Repository{
		db:     db,
		logger: logger,
	}
}

func (r *Repository) getExecutor(tx *database.Tx) database.Executor {
	if tx != nil {
		return tx
	}
	return r.db
}

const visibleQuery = `
	SELECT e.id, e.pokemon_id, e.latitude, e.longitude, e.appear_at, e.disappear_at,
		e.level, e.health, e.strength, e.defence, e.stamina,
		p.title, p.image
	FROM pokemon_entities e
	JOIN pokemons p ON p.id = e.pokemon_id
	WHERE e.appear_at <= $1 AND e.disappear_at >= $1`

// ListVisible returns every sighting whose window contains at.
func (r *Repository) ListVisible(ctx context.Context, at time.Time) ([]Sighting, error) {
	logger := r.logger.With("component", "sighting_repository", "operation", "list_visible", "at", at)
	logger.Debug("Getting visible sightings")

	return r.query(ctx, logger, visibleQuery+` ORDER BY e.id`, at)
}

// ListVisibleByPokemon is ListVisible restricted to one species.
func (r *Repository) ListVisibleByPokemon(ctx context.Context, pokemonID int, at time.Time) ([]Sighting, error) {
	logger := r.logger.With("component", "sighting_repository", "operation", "list_visible_by_pokemon", "pokemon_id", pokemonID, "at", at)
	logger.Debug("Getting visible sightings for pokemon")

	return r.query(ctx, logger, visibleQuery+` AND e.pokemon_id = $2 ORDER BY e.id`, at, pokemonID)
}

func (r *Repository) query(ctx context.Context, logger *slog.Logger, query string, args ...any) ([]Sighting, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		logger.Error("Failed to query sightings", "error", err)
		return nil, fmt.Errorf("failed to query sightings: %w", err)
	}
	defer func() {
		if err := rows.Close(); err != nil {
			logger.Error("Failed to close rows", "error", err)
		}
	}()

	var sightings []Sighting
	for rows.Next() {
		var s Sighting
		var level, health, strength, defence, stamina sql.NullInt64
		var image sql.NullString

		err := rows.Scan(
			&s.ID,
			&s.PokemonID,
			&s.Latitude,
			&s.Longitude,
			&s.AppearAt,
			&s.DisappearAt,
			&level,
			&health,
			&strength,
			&defence,
			&stamina,
			&s.PokemonTitle,
			&image,
		)
		if err != nil {
			logger.Error("Failed to scan sighting row", "error", err)
			return nil, fmt.Errorf("failed to scan sighting: %w", err)
		}

		s.Stats = Stats{
			Level:    nullInt(level),
			Health:   nullInt(health),
			Strength: nullInt(strength),
			Defence:  nullInt(defence),
			Stamina:  nullInt(stamina),
		}
		if image.Valid && image.String != "" {
			s.PokemonImage = &image.String
		}
		sightings = append(sightings, s)
	}

	if err := rows.Err(); err != nil {
		logger.Error("Error during rows iteration", "error", err)
		return nil, fmt.Errorf("error iterating sightings: %w", err)
	}

	logger.Debug("Sightings retrieved", "count", len(sightings))
	return sightings, nil
}

func nullInt(n sql.NullInt64) *int {
	if !n.Valid {
		return nil
	}
	v := int(n.Int64)
	return &v
}

func (r *Repository) Create(ctx context.Context, req CreateRequest, tx *database.Tx) (int, error) {
	exec := r.getExecutor(tx)

	logger := r.logger.With(
		"component", "sighting_repository",
		"operation", "create",
		"pokemon_id", req.PokemonID,
	)

	query := `
		INSERT INTO pokemon_entities (pokemon_id, latitude, longitude, appear_at, disappear_at, level, health, strength, defence, stamina)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id
	`

	var id int
	err := exec.QueryRowContext(ctx, query,
		req.PokemonID,
		req.Latitude,
		req.Longitude,
		req.AppearAt,
		req.DisappearAt,
		req.Stats.Level,
		req.Stats.Health,
		req.Stats.Strength,
		req.Stats.Defence,
		req.Stats.Stamina,
	).Scan(&id)
	if err != nil {
		logger.Error("Failed to create sighting", "error", err)
		return 0, fmt.Errorf("failed to create sighting: %w", err)
	}

	logger.Debug("Sighting created", "sighting_id", id)
	return id, nil
}

// DeleteByPokemon removes the sightings of a species; required before the
// species itself can be deleted.
func (r *Repository) DeleteByPokemon(ctx context.Context, pokemonID int, tx *database.Tx) (int64, error) {
	exec := r.getExecutor(tx)

	res, err := exec.ExecContext(ctx, `DELETE FROM pokemon_entities WHERE pokemon_id = $1`, pokemonID)
	if err != nil {
		return 0, fmt.Errorf("failed to delete sightings of pokemon %d: %w", pokemonID, err)
	}
	return res.RowsAffected()
}

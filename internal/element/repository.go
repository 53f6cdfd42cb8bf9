package element

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"pokemon-map/internal/shared/database"

	"github.com/lib/pq"
)

type Repository struct {
	db     *database.DB
	logger *slog.Logger
}

func NewRepository(db *database.DB, logger *slog.Logger) *Repository {
	logger.Debug("Initializing element type repository")

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

// ListByPokemonID returns the element types of a species, each with the
// titles of the types it is strong against.
func (r *Repository) ListByPokemonID(ctx context.Context, pokemonID int) ([]ElementType, error) {
	logger := r.logger.With("component", "element_repository", "operation", "list_by_pokemon", "pokemon_id", pokemonID)
	logger.Debug("Getting element types for pokemon")

	query := `
		SELECT et.id, et.title, et.image
		FROM element_types et
		JOIN pokemon_element_types pet ON pet.element_type_id = et.id
		WHERE pet.pokemon_id = $1
		ORDER BY et.id
	`

	rows, err := r.db.QueryContext(ctx, query, pokemonID)
	if err != nil {
		logger.Error("Failed to query element types", "error", err)
		return nil, fmt.Errorf("failed to query element types: %w", err)
	}
	defer func() {
		if err := rows.Close(); err != nil {
			logger.Error("Failed to close rows", "error", err)
		}
	}()

	var types []ElementType
	for rows.Next() {
		var et ElementType
		var image sql.NullString
		if err := rows.Scan(&et.ID, &et.Title, &image); err != nil {
			logger.Error("Failed to scan element type row", "error", err)
			return nil, fmt.Errorf("failed to scan element type: %w", err)
		}
		if image.Valid && image.String != "" {
			et.Image = &image.String
		}
		types = append(types, et)
	}

	if err := rows.Err(); err != nil {
		logger.Error("Error during rows iteration", "error", err)
		return nil, fmt.Errorf("error iterating element types: %w", err)
	}

	if len(types) == 0 {
		return types, nil
	}

	strong, err := r.strongAgainst(ctx, types)
	if err != nil {
		return nil, err
	}
	for i := range types {
		types[i].StrongAgainst = strong[types[i].ID]
	}

	logger.Debug("Element types retrieved", "count", len(types))
	return types, nil
}

func (r *Repository) strongAgainst(ctx context.Context, types []ElementType) (map[int][]string, error) {
	logger := r.logger.With("component", "element_repository", "operation", "strong_against")

	ids := make([]int64, 0, len(types))
	for _, et := range types {
		ids = append(ids, int64(et.ID))
	}

	query := `
		SELECT sa.from_element_type_id, target.title
		FROM element_type_strong_against sa
		JOIN element_types target ON target.id = sa.to_element_type_id
		WHERE sa.from_element_type_id = ANY($1)
		ORDER BY sa.from_element_type_id, target.id
	`

	rows, err := r.db.QueryContext(ctx, query, pq.Array(ids))
	if err != nil {
		logger.Error("Failed to query strong-against links", "error", err)
		return nil, fmt.Errorf("failed to query strong-against links: %w", err)
	}
	defer func() {
		if err := rows.Close(); err != nil {
			logger.Error("Failed to close rows", "error", err)
		}
	}()

	result := make(map[int][]string, len(types))
	for rows.Next() {
		var fromID int
		var title string
		if err := rows.Scan(&fromID, &title); err != nil {
			logger.Error("Failed to scan strong-against row", "error", err)
			return nil, fmt.Errorf("failed to scan strong-against link: %w", err)
		}
		result[fromID] = append(result[fromID], title)
	}

	if err := rows.Err(); err != nil {
		logger.Error("Error during rows iteration", "error", err)
		return nil, fmt.Errorf("error iterating strong-against links: %w", err)
	}

	return result, nil
}

// Upsert creates the element type or updates the image of an existing one
// with the same title, returning its id.
func (r *Repository) Upsert(ctx context.Context, title string, image *string, tx *database.Tx) (int, error) {
	exec := r.getExecutor(tx)

	query := `
		INSERT INTO element_types (title, image)
		VALUES ($1, $2)
		ON CONFLICT (title) DO UPDATE SET image = EXCLUDED.image
		RETURNING id
	`

	var id int
	if err := exec.QueryRowContext(ctx, query, title, image).Scan(&id); err != nil {
		r.logger.Error("Failed to upsert element type", "component", "element_repository", "title", title, "error", err)
		return 0, fmt.Errorf("failed to upsert element type %q: %w", title, err)
	}
	return id, nil
}

func (r *Repository) AddStrongAgainst(ctx context.Context, fromID, toID int, tx *database.Tx) error {
	exec := r.getExecutor(tx)

	query := `
		INSERT INTO element_type_strong_against (from_element_type_id, to_element_type_id)
		VALUES ($1, $2)
		ON CONFLICT DO NOTHING
	`

	if _, err := exec.ExecContext(ctx, query, fromID, toID); err != nil {
		return fmt.Errorf("failed to link element types %d -> %d: %w", fromID, toID, err)
	}
	return nil
}

func (r *Repository) AttachToPokemon(ctx context.Context, pokemonID, elementTypeID int, tx *database.Tx) error {
	exec := r.getExecutor(tx)

	query := `
		INSERT INTO pokemon_element_types (pokemon_id, element_type_id)
		VALUES ($1, $2)
		ON CONFLICT DO NOTHING
	`

	if _, err := exec.ExecContext(ctx, query, pokemonID, elementTypeID); err != nil {
		return fmt.Errorf("failed to attach element type %d to pokemon %d: %w", elementTypeID, pokemonID, err)
	}
	return nil
}

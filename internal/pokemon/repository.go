package pokemon

import (
	"context"
	"database/sql"
	stderrors "errors"
	"fmt"
	"log/slog"

	"pokemon-map/internal/shared/database"
	"pokemon-map/internal/shared/errors"
)

type Repository struct {
	db     *database.DB
	logger *slog.Logger
}

func NewRepository(db *database.DB, logger *slog.Logger) *Repository {
	logger.Debug("Initializing pokemon repository")

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

const pokemonColumns = `id, title, title_en, title_jp, description, image, previous_evolution_id, created_at, updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPokemon(row rowScanner) (*Pokemon, error) {
	var p Pokemon
	var titleEn, titleJp, description, image sql.NullString
	var previous sql.NullInt64

	err := row.Scan(
		&p.ID,
		&p.Title,
		&titleEn,
		&titleJp,
		&description,
		&image,
		&previous,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	p.TitleEn = nullString(titleEn)
	p.TitleJp = nullString(titleJp)
	p.Description = nullString(description)
	p.Image = nullString(image)
	if previous.Valid {
		id := int(previous.Int64)
		p.PreviousEvolutionID = &id
	}
	return &p, nil
}

func nullString(ns sql.NullString) *string {
	if !ns.Valid || ns.String == "" {
		return nil
	}
	s := ns.String
	return &s
}

func (r *Repository) ListPokemons(ctx context.Context) ([]Pokemon, error) {
	logger := r.logger.With("component", "pokemon_repository", "operation", "list_pokemons")
	logger.Debug("Getting all pokemons")

	query := `SELECT ` + pokemonColumns + ` FROM pokemons ORDER BY id`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		logger.Error("Failed to query pokemons", "error", err)
		return nil, fmt.Errorf("failed to query pokemons: %w", err)
	}
	defer func() {
		if err := rows.Close(); err != nil {
			logger.Error("Failed to close rows", "error", err)
		}
	}()

	var pokemons []Pokemon
	for rows.Next() {
		p, err := scanPokemon(rows)
		if err != nil {
			logger.Error("Failed to scan pokemon row", "error", err)
			return nil, fmt.Errorf("failed to scan pokemon: %w", err)
		}
		pokemons = append(pokemons, *p)
	}

	if err := rows.Err(); err != nil {
		logger.Error("Error during rows iteration", "error", err)
		return nil, fmt.Errorf("error iterating pokemons: %w", err)
	}

	logger.Debug("Pokemons retrieved", "count", len(pokemons))
	return pokemons, nil
}

// GetPokemonByID returns a not_found AppError for unknown ids.
func (r *Repository) GetPokemonByID(ctx context.Context, id int) (*Pokemon, error) {
	logger := r.logger.With("component", "pokemon_repository", "operation", "get_pokemon", "pokemon_id", id)
	logger.Debug("Getting pokemon by ID")

	query := `SELECT ` + pokemonColumns + ` FROM pokemons WHERE id = $1`

	p, err := scanPokemon(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if stderrors.Is(err, sql.ErrNoRows) {
			logger.Debug("Pokemon not found")
			return nil, errors.WrapNotFound(fmt.Sprintf("pokemon %d not found", id), err)
		}
		logger.Error("Database error getting pokemon", "error", err)
		return nil, fmt.Errorf("database error: %w", err)
	}

	logger.Debug("Pokemon retrieved", "title", p.Title)
	return p, nil
}

// GetNextEvolution returns the successor with the lowest id, or nil when
// the species does not evolve further.
func (r *Repository) GetNextEvolution(ctx context.Context, id int) (*Pokemon, error) {
	logger := r.logger.With("component", "pokemon_repository", "operation", "get_next_evolution", "pokemon_id", id)

	query := `SELECT ` + pokemonColumns + ` FROM pokemons WHERE previous_evolution_id = $1 ORDER BY id LIMIT 1`

	p, err := scanPokemon(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if stderrors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		logger.Error("Database error getting next evolution", "error", err)
		return nil, fmt.Errorf("database error: %w", err)
	}
	return p, nil
}

// Upsert inserts a species or refreshes an existing one with the same
// title, returning its id.
func (r *Repository) Upsert(ctx context.Context, req CreateRequest, tx *database.Tx) (int, error) {
	exec := r.getExecutor(tx)

	query := `
		INSERT INTO pokemons (title, title_en, title_jp, description, image)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (title) DO UPDATE SET
			title_en = EXCLUDED.title_en,
			title_jp = EXCLUDED.title_jp,
			description = EXCLUDED.description,
			image = EXCLUDED.image,
			updated_at = NOW()
		RETURNING id
	`

	var id int
	err := exec.QueryRowContext(ctx, query, req.Title, req.TitleEn, req.TitleJp, req.Description, req.Image).Scan(&id)
	if err != nil {
		r.logger.Error("Failed to upsert pokemon", "component", "pokemon_repository", "title", req.Title, "error", err)
		return 0, fmt.Errorf("failed to upsert pokemon %q: %w", req.Title, err)
	}
	return id, nil
}

// SetPreviousEvolution links id to previousID; a nil previousID clears it.
func (r *Repository) SetPreviousEvolution(ctx context.Context, id int, previousID *int, tx *database.Tx) error {
	exec := r.getExecutor(tx)

	if previousID != nil && *previousID == id {
		return errors.Validationf("pokemon %d cannot evolve from itself", id)
	}

	query := `UPDATE pokemons SET previous_evolution_id = $2, updated_at = NOW() WHERE id = $1`
	if _, err := exec.ExecContext(ctx, query, id, previousID); err != nil {
		return fmt.Errorf("failed to set previous evolution of pokemon %d: %w", id, err)
	}
	return nil
}

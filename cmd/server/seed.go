package main

import (
	"fmt"
	"log/slog"

	"pokemon-map/internal/element"
	"pokemon-map/internal/pokemon"
	"pokemon-map/internal/seed"
	"pokemon-map/internal/shared/config"
	appredis "pokemon-map/internal/shared/redis"
	"pokemon-map/internal/sighting"

	"github.com/spf13/cobra"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Load species, element types and sightings from a YAML fixture",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		cfg := config.GlobalConfig
		logger := slog.With("component", "main", "operation", "seed")

		file, _ := cmd.Flags().GetString("file")
		fixture, err := seed.ReadFile(file)
		if err != nil {
			return err
		}

		db, err := openDatabase(ctx)
		if err != nil {
			return err
		}
		defer db.Close()

		redisClient, err := appredis.Connect(ctx)
		if err != nil {
			logger.Warn("Catalog cache will not be invalidated", "error", err)
			redisClient = nil
		}
		defer redisClient.Close()

		pokemonRepo := pokemon.NewRepository(db, slog.Default())
		elementRepo := element.NewRepository(db, slog.Default())
		catalog := pokemon.NewCatalogCache(redisClient, cfg.Redis.CatalogTTL, slog.Default())
		pokemonService := pokemon.NewService(pokemonRepo, elementRepo, catalog, cfg.MediaURLFor, slog.Default())

		loader := seed.NewLoader(db, pokemonRepo, elementRepo, sighting.NewRepository(db, slog.Default()), pokemonService, slog.Default())
		result, err := loader.Load(ctx, fixture)
		if err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "loaded %d element types, %d pokemons, %d sightings from %s\n",
			result.ElementTypes, result.Pokemons, result.Sightings, file)
		return nil
	},
}

func init() {
	seedCmd.Flags().StringP("file", "f", "fixtures/pokemons.yaml", "path to the YAML fixture")
}

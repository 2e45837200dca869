package main

import (
	"fmt"
	"time"

	"github.com/waste3d/lootshop-api/internal/application/usecase"
	"github.com/waste3d/lootshop-api/internal/infrastructure/repository"
	"github.com/waste3d/lootshop-api/internal/infrastructure/security"
	"github.com/waste3d/lootshop-api/internal/infrastructure/seed"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update the database schema",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openDB()
		if err != nil {
			return err
		}
		if err := repository.AutoMigrate(db); err != nil {
			return err
		}
		logger.Info("migrations applied")
		return nil
	},
}

var seedFile string

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Load the product catalog from a YAML file",
	RunE: func(cmd *cobra.Command, args []string) error {
		path := seedFile
		if path == "" {
			path = cfg.CatalogFile
		}
		products, err := seed.LoadCatalogFile(path)
		if err != nil {
			return err
		}

		db, err := openDB()
		if err != nil {
			return err
		}
		if err := repository.AutoMigrate(db); err != nil {
			return err
		}

		catalog := usecase.NewCatalogUseCase(repository.NewStore(db), logger)
		n, err := catalog.Seed(cmd.Context(), products)
		if err != nil {
			return err
		}
		logger.Info("catalog seeded", zap.String("file", path), zap.Int("products", n))
		return nil
	},
}

var (
	tokenUser string
	tokenTTL  time.Duration
)

var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Mint an access token for local testing",
	RunE: func(cmd *cobra.Command, args []string) error {
		if cfg.AccessSecret == "" {
			return fmt.Errorf("ACCESS_SECRET is required")
		}
		userID := uuid.New()
		if tokenUser != "" {
			var err error
			if userID, err = uuid.Parse(tokenUser); err != nil {
				return fmt.Errorf("invalid --user: %w", err)
			}
		}

		token, err := security.NewTokenManager(cfg.AccessSecret).GenerateAccess(userID, tokenTTL)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "user_id: %s\naccess_token: %s\n", userID, token)
		return nil
	},
}

func init() {
	seedCmd.Flags().StringVar(&seedFile, "file", "", "catalog YAML (defaults to CATALOG_FILE)")
	tokenCmd.Flags().StringVar(&tokenUser, "user", "", "user id to embed (random if empty)")
	tokenCmd.Flags().DurationVar(&tokenTTL, "ttl", 24*time.Hour, "token lifetime")
}

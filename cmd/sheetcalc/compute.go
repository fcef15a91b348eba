package main

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/cory-johannsen/charsheet/internal/importer"
	"github.com/cory-johannsen/charsheet/internal/storage/postgres"
)

var (
	computeSave      bool
	computeExportDir string
)

var computeCmd = &cobra.Command{
	Use:   "compute <character.yaml>",
	Short: "Compute and print a character sheet",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := loadEnv()
		if err != nil {
			return err
		}
		defer func() { _ = e.logger.Sync() }()

		start := time.Now()
		c, err := importer.New(e.rules, e.logger).Import(args[0])
		if err != nil {
			return err
		}
		defer c.Close()
		sheet := c.Sheet()
		e.logger.Info("character computed",
			zap.String("character_id", sheet.ID),
			zap.Int("passes", sheet.Passes),
			zap.Duration("elapsed", time.Since(start)),
		)

		if computeExportDir != "" {
			path, err := importer.WriteFile(computeExportDir, importer.Export(c))
			if err != nil {
				return err
			}
			e.logger.Info("character exported", zap.String("path", path))
		}

		data, err := json.MarshalIndent(sheet, "", "  ")
		if err != nil {
			return fmt.Errorf("encoding sheet: %w", err)
		}

		if computeSave {
			pool, err := postgres.NewPool(cmd.Context(), e.cfg.Database)
			if err != nil {
				return fmt.Errorf("connecting to sheet store: %w", err)
			}
			defer pool.Close()
			// The write runs alongside printing; wait before the pool closes.
			done := postgres.NewSheetRepository(pool.DB()).SaveAsync(cmd.Context(), sheet, e.logger)
			defer func() { <-done }()
		}

		fmt.Fprintln(cmd.OutOrStdout(), string(data))
		return nil
	},
}

func init() {
	computeCmd.Flags().BoolVar(&computeSave, "save", false, "store the computed sheet in the database")
	computeCmd.Flags().StringVar(&computeExportDir, "export-dir", "", "write the normalized character document to this directory")
}

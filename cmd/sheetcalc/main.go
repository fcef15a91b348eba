// Package main is the entry point for the character sheet calculator CLI.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/cory-johannsen/charsheet/internal/config"
	"github.com/cory-johannsen/charsheet/internal/game/ruleset"
	"github.com/cory-johannsen/charsheet/internal/observability"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:   "sheetcalc",
	Short: "Character sheet calculator",
	Long: `sheetcalc computes the derived values of a point-buy RPG character
(attributes, skill levels, encumbrance, hit locations, conditions) from a
character document and a set of rule tables.`,
	SilenceUsage: true,
}

func main() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to configuration file (empty uses defaults and SHEET_ env)")
	rootCmd.AddCommand(computeCmd)
	rootCmd.AddCommand(rulesCmd)
}

// env is what every subcommand needs before it can touch a character.
type env struct {
	cfg    config.Config
	logger *zap.Logger
	rules  *ruleset.Rules
}

func loadEnv() (*env, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	logger, err := observability.NewLogger(cfg.Logging)
	if err != nil {
		return nil, fmt.Errorf("initializing logger: %w", err)
	}
	rules, err := ruleset.FromConfig(cfg.Rules)
	if err != nil {
		_ = logger.Sync()
		return nil, fmt.Errorf("loading rules: %w", err)
	}
	logger.Debug("rules loaded",
		zap.Int("attributes", len(rules.Attributes)),
		zap.Int("trackers", len(rules.Trackers)),
		zap.Int("body_plans", len(rules.BodyPlans)),
		zap.Int("conditions", len(rules.Conditions.All())),
	)
	return &env{cfg: cfg, logger: logger, rules: rules}, nil
}

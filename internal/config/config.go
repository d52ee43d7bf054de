// Package config loads and saves the sift configuration via viper: the
// ledger output location, the fee marker text, and the category registry.
package config

import (
	"fmt"

	"github.com/spf13/viper"
)

// DefaultFeeMarker is the description text that identifies an international
// transaction fee row.
const DefaultFeeMarker = "INTNL TRANSACTION FEE"

// Category is the persisted form of a category definition. Compiled patterns
// are never serialized; they are rebuilt from Patterns on every load.
type Category struct {
	Name          string   `mapstructure:"name"`
	Patterns      []string `mapstructure:"patterns"`
	Reimbursement string   `mapstructure:"reimbursement"`
}

// Config is the application configuration.
type Config struct {
	LedgerFile       string
	FeeMarker        string
	DebitCategories  []Category
	CreditCategories []Category
}

// Load reads the configuration out of an already-initialized viper instance.
// Missing or empty category sections yield an empty registry, not an error.
func Load(v *viper.Viper) (*Config, error) {
	v.SetDefault("feeMarker", DefaultFeeMarker)

	cfg := &Config{
		LedgerFile: v.GetString("ledgerFile"),
		FeeMarker:  v.GetString("feeMarker"),
	}

	if err := v.UnmarshalKey("debitCategories", &cfg.DebitCategories); err != nil {
		return nil, fmt.Errorf("failed to parse debitCategories: %w", err)
	}
	if err := v.UnmarshalKey("creditCategories", &cfg.CreditCategories); err != nil {
		return nil, fmt.Errorf("failed to parse creditCategories: %w", err)
	}

	return cfg, nil
}

// Save writes the configuration back through viper, creating the config file
// if it does not exist yet.
func Save(v *viper.Viper, cfg *Config) error {
	v.Set("ledgerFile", cfg.LedgerFile)
	v.Set("feeMarker", cfg.FeeMarker)
	v.Set("debitCategories", categoriesToMaps(cfg.DebitCategories))
	v.Set("creditCategories", categoriesToMaps(cfg.CreditCategories))

	if err := v.WriteConfig(); err != nil {
		// No config file existed yet; fall back to creating one.
		if saveErr := v.SafeWriteConfig(); saveErr != nil {
			return fmt.Errorf("failed to write config: %w (initial attempt: %v)", saveErr, err)
		}
	}
	return nil
}

// categoriesToMaps renders categories as plain maps so the written YAML uses
// stable lowercase keys and omits empty fields.
func categoriesToMaps(categories []Category) []map[string]any {
	out := make([]map[string]any, 0, len(categories))
	for _, c := range categories {
		m := map[string]any{"name": c.Name}
		if len(c.Patterns) > 0 {
			m["patterns"] = c.Patterns
		}
		if c.Reimbursement != "" {
			m["reimbursement"] = c.Reimbursement
		}
		out = append(out, m)
	}
	return out
}

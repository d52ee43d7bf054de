package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/kestrelworks/sift/internal/common"
	"github.com/kestrelworks/sift/internal/config"
	"github.com/kestrelworks/sift/internal/dedup"
	"github.com/kestrelworks/sift/internal/engine"
	"github.com/kestrelworks/sift/internal/formula"
	"github.com/kestrelworks/sift/internal/ledger"
	"github.com/kestrelworks/sift/internal/prompt"
	"github.com/kestrelworks/sift/internal/registry"
)

func reconcileCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "reconcile FILE...",
		Short: "Categorize statement exports and append them to the ledger",
		Long: `Parse one or more bank statement exports (CSV, OFX, or QFX), skip
transactions already present in the ledger, and interactively categorize
the rest. The ledger is saved only when new rows were added, and category
definitions are saved only when they changed during the session.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReconcile(cmd.Context(), args)
		},
	}
}

func runReconcile(ctx context.Context, paths []string) error {
	cfg, err := config.Load(viper.GetViper())
	if err != nil {
		return common.NewUserError("failed to load configuration", err)
	}
	if cfg.LedgerFile == "" {
		return common.NewUserError("set ledgerFile in the configuration before reconciling", common.ErrNoLedgerConfigured)
	}

	reg, err := registry.FromConfig(cfg.DebitCategories, cfg.CreditCategories)
	if err != nil {
		return common.NewUserError("failed to load categories", err)
	}

	store, err := ledger.Open(cfg.LedgerFile)
	if err != nil {
		return common.NewUserError("failed to open ledger", err)
	}

	// Seed the dedup cache and the date index from the existing ledger so
	// re-runs skip known rows and interrupted dates keep their candidates.
	cache := dedup.New()
	for _, e := range store.Entries() {
		if recordErr := cache.Record(e); recordErr != nil {
			return common.NewUserError("ledger contains duplicate rows",
				fmt.Errorf("%w: %v", common.ErrLedgerCorrupted, recordErr))
		}
	}

	liner := prompt.NewReadline(promptHistoryDir())
	defer func() { _ = liner.Close() }()

	resolver := formula.NewResolver(formula.ExprEvaluator{}, liner, os.Stdout)
	eng := engine.New(reg, cache, store, liner, resolver, cfg.FeeMarker, os.Stdout)

	sess, runErr := eng.Run(ctx, paths)
	switch {
	case runErr == nil:
	case errors.Is(runErr, prompt.ErrCancelled) || errors.Is(runErr, context.Canceled):
		// Checkpoint boundary: the context is gone, so ask over plain stdin.
		fmt.Println()
		fmt.Println(prompt.FormatWarning("Interrupted. Withheld fees are discarded."))
		if !confirmStdin("Save progress before exiting?", true) {
			return nil
		}
	default:
		return runErr
	}

	return persist(sess, store, reg, cfg)
}

func persist(sess *engine.Session, store *ledger.Store, reg *registry.Registry, cfg *config.Config) error {
	if store.Added() > 0 {
		if err := store.Save(); err != nil {
			return common.NewUserError("failed to save ledger", err)
		}
		fmt.Println(prompt.FormatSuccess(fmt.Sprintf("Added %d debits and %d credits to %s",
			sess.DebitsAdded, sess.CreditsAdded, cfg.LedgerFile)))
	} else {
		fmt.Println(prompt.FormatInfo("No new transactions."))
	}

	if reg.Dirty() {
		if confirmStdin("Category definitions changed. Save them to the configuration?", true) {
			cfg.DebitCategories, cfg.CreditCategories = reg.Snapshot()
			if err := config.Save(viper.GetViper(), cfg); err != nil {
				return common.NewUserError("failed to save configuration", err)
			}
			fmt.Println(prompt.FormatSuccess("Configuration saved."))
		}
	}
	return nil
}

// confirmStdin asks a yes/no question over plain stdin. It works after the
// run's context is cancelled, which the readline-backed prompts do not.
func confirmStdin(question string, def bool) bool {
	suffix := "[y/N]"
	if def {
		suffix = "[Y/n]"
	}

	reader := bufio.NewReader(os.Stdin)
	for {
		fmt.Print(prompt.FormatPrompt(question + " " + suffix))
		line, err := reader.ReadString('\n')
		if err != nil {
			return def
		}
		switch strings.ToLower(strings.TrimSpace(line)) {
		case "":
			return def
		case "y", "yes":
			return true
		case "n", "no":
			return false
		}
		fmt.Println(prompt.FormatError("Please answer y or n."))
	}
}

// promptHistoryDir returns the directory for per-kind prompt histories,
// empty when it cannot be created.
func promptHistoryDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	dir := filepath.Join(home, ".config", "sift")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return ""
	}
	return dir
}

package main

import (
	"fmt"
	"os"
	"sort"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/provider-outreach/internal/cache"
	"github.com/sells-group/provider-outreach/internal/config"
	"github.com/sells-group/provider-outreach/internal/extract"
	"github.com/sells-group/provider-outreach/internal/facility"
	"github.com/sells-group/provider-outreach/internal/model"
	"github.com/sells-group/provider-outreach/internal/registry"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "provider-outreach",
	Short: "Healthcare provider outreach pipeline",
	Long:  "Discovers organization email conventions from web search, matches provider registry records against them, and generates contact emails.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		cfg = c

		if err := config.InitLogger(cfg.Log); err != nil {
			return fmt.Errorf("init logger: %w", err)
		}

		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = zap.L().Sync()
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// loadRegistry reads a registry CSV using the configured column mapping
// and encoding, with per-command flag overrides applied by the caller.
func loadRegistry(path, mappingPath, encoding string) (*registry.File, error) {
	mapping := registry.DefaultMapping()
	if mappingPath == "" {
		mappingPath = cfg.Registry.MappingPath
	}
	if mappingPath != "" {
		m, err := registry.LoadMapping(mappingPath)
		if err != nil {
			return nil, err
		}
		mapping = m
	}
	if encoding == "" {
		encoding = cfg.Registry.Encoding
	}
	return registry.Read(path, mapping, encoding)
}

// facilityKeys returns the sorted unique facility keys for a provider
// set. Rows missing org, city, or state produce no key and are skipped.
func facilityKeys(providers []model.Provider) []string {
	seen := make(map[string]struct{})
	for _, p := range providers {
		key := facility.Key(p.OrgName, p.City, p.State)
		if key == "" {
			continue
		}
		seen[key] = struct{}{}
	}
	keys := make([]string, 0, len(seen))
	for k := range seen {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// openCache builds the configured cache backend.
func openCache() (cache.Store, error) {
	switch cfg.Cache.Driver {
	case "file":
		return cache.NewFile(cfg.Cache.Path), nil
	case "sqlite":
		return cache.NewSQLite(cfg.Cache.Path)
	case "memory":
		return cache.NewMemory(), nil
	default:
		return nil, eris.Errorf("unknown cache driver %q (use file, sqlite, or memory)", cfg.Cache.Driver)
	}
}

// sourceWeights merges configured source weight overrides over the
// defaults.
func sourceWeights() extract.SourceWeights {
	w := extract.DefaultSourceWeights()
	if len(cfg.Extract.SourceWeights) > 0 {
		for domain, weight := range cfg.Extract.SourceWeights {
			w.Domains[domain] = weight
		}
	}
	if cfg.Extract.FirstResultBonus > 0 {
		w.FirstResultBonus = cfg.Extract.FirstResultBonus
	}
	return w
}

package main

import (
	"os"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"voiceorder/internal/catalog"
)

var catalogMappingPath string

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Manage the package-variant catalog",
}

var catalogLoadCmd = &cobra.Command{
	Use:   "load <file.xlsx>",
	Short: "Load package variants from a price-list spreadsheet on disk",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return loadCatalog(cmd, args[0])
	},
}

var catalogFetchCmd = &cobra.Command{
	Use:   "fetch <url>",
	Short: "Download a price list over HTTP or FTP and load it",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		if err := os.MkdirAll(cfg.Catalog.TempDir, 0o755); err != nil {
			return eris.Wrap(err, "create temp dir")
		}

		fetcher := catalog.NewFetcher(time.Duration(cfg.Search.TimeoutSecs) * time.Second)
		path, err := fetcher.Fetch(ctx, args[0], cfg.Catalog.TempDir)
		if err != nil {
			return err
		}
		return loadCatalog(cmd, path)
	},
}

func loadCatalog(cmd *cobra.Command, path string) error {
	ctx := cmd.Context()

	mapping := catalog.DefaultMapping()
	mappingPath := catalogMappingPath
	if mappingPath == "" {
		mappingPath = cfg.Catalog.MappingPath
	}
	if mappingPath != "" {
		m, err := catalog.LoadMapping(mappingPath)
		if err != nil {
			return err
		}
		mapping = m
	}

	entries, err := catalog.ReadVariants(path, mapping)
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		return eris.Errorf("no variants found in %s", path)
	}

	st, err := openStore(ctx)
	if err != nil {
		return err
	}
	defer st.Close()

	n, err := st.ReplaceVariants(ctx, entries)
	if err != nil {
		return err
	}

	zap.L().Info("catalog replaced",
		zap.Int("variants", n),
		zap.String("source", path),
	)
	return nil
}

func init() {
	catalogCmd.PersistentFlags().StringVar(&catalogMappingPath, "mapping", "", "yaml column-mapping descriptor (default from config)")
	catalogCmd.AddCommand(catalogLoadCmd)
	catalogCmd.AddCommand(catalogFetchCmd)
	rootCmd.AddCommand(catalogCmd)
}

package main

import (
	"context"
	"fmt"
	"log/slog"

	"boxart/internal/catalog"
	"boxart/internal/catalogindex"
	"boxart/internal/config"
	"boxart/internal/logging"
)

// loadCatalog returns the metadata catalog, preferring the SQLite index when
// it is enabled and still matches the catalog file on disk. A stale or broken
// index falls back to parsing the XML and, where possible, rebuilds the index
// for the next invocation.
func loadCatalog(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*catalog.Catalog, error) {
	if !cfg.Index.Enabled {
		return catalog.Parse(cfg.Paths.CatalogFile, logger)
	}

	log := logging.NewComponentLogger(logger, "catalogindex")

	src, err := catalogindex.StatSource(cfg.Paths.CatalogFile)
	if err != nil {
		return nil, fmt.Errorf("locate catalog file: %w", err)
	}

	store, err := catalogindex.Open(cfg.IndexPath())
	if err != nil {
		log.Warn("open catalog index failed; parsing catalog directly", logging.Error(err))
		return catalog.Parse(cfg.Paths.CatalogFile, logger)
	}
	defer store.Close()

	fresh, err := store.Fresh(ctx, src)
	if err != nil {
		log.Warn("check index freshness failed; parsing catalog directly", logging.Error(err))
		return catalog.Parse(cfg.Paths.CatalogFile, logger)
	}
	if fresh {
		cat, err := store.Load(ctx)
		if err == nil {
			log.Debug("loaded catalog from index",
				logging.Int("games", cat.GameCount()),
				logging.Int("images", cat.ImageCount()))
			return cat, nil
		}
		log.Warn("load from index failed; parsing catalog directly", logging.Error(err))
	}

	cat, err := catalog.Parse(cfg.Paths.CatalogFile, logger)
	if err != nil {
		return nil, err
	}
	if err := store.Rebuild(ctx, cat, src); err != nil {
		log.Warn("rebuild catalog index failed", logging.Error(err))
	}
	return cat, nil
}

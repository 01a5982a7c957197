// Package blobstore defines the durable string-keyed value store the
// password list is persisted in, and selects a backend from configuration.
package blobstore

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/mustardseed/internal/blobstore/memory"
	"github.com/dmitrijs2005/mustardseed/internal/blobstore/postgres"
	"github.com/dmitrijs2005/mustardseed/internal/blobstore/s3store"
	"github.com/dmitrijs2005/mustardseed/internal/blobstore/sqlite"
	"github.com/dmitrijs2005/mustardseed/internal/config"
)

// Store is a durable key/value capability.
//
// Get returns (nil, false, nil) when key is absent. Put replaces the value
// for key indivisibly or fails without changing it.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Put(ctx context.Context, key string, value []byte) error
	Close() error
}

var (
	_ Store = (*sqlite.Store)(nil)
	_ Store = (*postgres.Store)(nil)
	_ Store = (*s3store.Store)(nil)
	_ Store = (*memory.Store)(nil)
)

// Open returns the backend selected by cfg.Backend.
func Open(ctx context.Context, cfg *config.Config) (Store, error) {
	switch cfg.Backend {
	case config.BackendSQLite:
		s, err := sqlite.Open(ctx, cfg.DatabasePath)
		if err != nil {
			return nil, err
		}
		return s, nil
	case config.BackendPostgres:
		s, err := postgres.Open(ctx, cfg.DatabaseDSN)
		if err != nil {
			return nil, err
		}
		return s, nil
	case config.BackendS3:
		s, err := s3store.Open(ctx, s3store.Options{
			Bucket:       cfg.S3Bucket,
			Region:       cfg.S3Region,
			BaseEndpoint: cfg.S3BaseEndpoint,
			AccessKey:    cfg.S3AccessKey,
			SecretKey:    cfg.S3SecretKey,
			Prefix:       cfg.S3Prefix,
		})
		if err != nil {
			return nil, err
		}
		return s, nil
	case config.BackendMemory:
		return memory.NewStore(), nil
	default:
		return nil, fmt.Errorf("unknown backend %q", cfg.Backend)
	}
}

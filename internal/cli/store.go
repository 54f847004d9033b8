package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"google.golang.org/api/option"

	"github.com/mmynk/invoicer/internal/config"
	"github.com/mmynk/invoicer/internal/storage"
	"github.com/mmynk/invoicer/internal/storage/firestore"
	"github.com/mmynk/invoicer/internal/storage/postgres"
	"github.com/mmynk/invoicer/internal/storage/sqlite"
)

// openStore opens the backend selected by storage.driver.
func openStore(ctx context.Context, c *config.Config) (storage.Store, error) {
	switch c.Storage.Driver {
	case config.DriverSQLite:
		if err := os.MkdirAll(filepath.Dir(c.Storage.SQLitePath), 0o755); err != nil {
			return nil, fmt.Errorf("failed to create data directory: %w", err)
		}
		store, err := sqlite.New(c.Storage.SQLitePath)
		if err != nil {
			return nil, err
		}
		slog.Info("Storage initialized", "driver", c.Storage.Driver, "database", c.Storage.SQLitePath)
		return store, nil

	case config.DriverPostgres:
		store, err := postgres.New(ctx, c.Storage.PostgresURL)
		if err != nil {
			return nil, err
		}
		slog.Info("Storage initialized", "driver", c.Storage.Driver)
		return store, nil

	case config.DriverFirestore:
		var opts []option.ClientOption
		if c.Storage.FirestoreCredentials != "" {
			opts = append(opts, option.WithCredentialsFile(c.Storage.FirestoreCredentials))
		}
		store, err := firestore.New(ctx, c.Storage.FirestoreProject, opts...)
		if err != nil {
			return nil, err
		}
		slog.Info("Storage initialized", "driver", c.Storage.Driver, "project", c.Storage.FirestoreProject)
		return store, nil

	default:
		return nil, fmt.Errorf("unknown storage driver %q", c.Storage.Driver)
	}
}

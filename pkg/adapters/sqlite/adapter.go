package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"log/slog"
	"net/url"

	_ "modernc.org/sqlite" // sqlite driver

	"github.com/leapstack-labs/sqlmeta/pkg/adapter"
)

const memoryPath = ":memory:"

// Adapter implements the adapter.Adapter interface for SQLite.
// Statements are rendered with @paramN placeholders and bound with sql.Named.
type Adapter struct {
	adapter.BaseSQLAdapter
}

// New creates a new SQLite adapter instance.
// If logger is nil, a discard logger is used.
func New(logger *slog.Logger) *Adapter {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Adapter{
		BaseSQLAdapter: adapter.BaseSQLAdapter{
			Logger:          logger,
			Style:           adapter.Named,
			DefaultSchema:   "main",
			StandardStrings: true,
		},
	}
}

// Connect opens the database file at cfg.Path. An empty path opens an
// in-memory database.
func (a *Adapter) Connect(ctx context.Context, cfg adapter.Config) error {
	dsn := buildSQLiteDSN(cfg)

	a.Logger.Debug("connecting to sqlite", slog.String("dsn", dsn))

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return fmt.Errorf("failed to open sqlite connection: %w", err)
	}
	if cfg.Path == "" || cfg.Path == memoryPath {
		// Every connection to :memory: is a separate database.
		db.SetMaxOpenConns(1)
	}

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return fmt.Errorf("failed to ping sqlite: %w", err)
	}

	a.DB = db
	a.Cfg = cfg
	return nil
}

// buildSQLiteDSN appends cfg.Options as URI query parameters to the path.
func buildSQLiteDSN(cfg adapter.Config) string {
	path := cfg.Path
	if path == "" {
		path = memoryPath
	}
	if len(cfg.Options) == 0 {
		return path
	}

	q := url.Values{}
	for k, v := range cfg.Options {
		q.Set(k, v)
	}
	return path + "?" + q.Encode()
}

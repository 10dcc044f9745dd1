// Package warehouse connects to the PostgreSQL warehouse behind a dbt
// project and introspects table and column comments from pg_catalog, so
// descriptions maintained in the database can complement the ones declared
// in schema YAML.
package warehouse

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	_ "github.com/jackc/pgx/v5/stdlib" // pgx database/sql driver
)

// Config holds PostgreSQL connection settings.
type Config struct {
	Host     string `koanf:"host"`
	Port     int    `koanf:"port"`
	Database string `koanf:"database"`
	User     string `koanf:"user"`
	Password string `koanf:"password"`

	// Schema limits introspection to one schema; empty means all
	// non-system schemas.
	Schema string `koanf:"schema"`

	SSLMode string `koanf:"sslmode"`
}

// DSN builds a key=value connection string with the usual defaults.
func (c Config) DSN() string {
	host := c.Host
	if host == "" {
		host = "localhost"
	}
	port := c.Port
	if port == 0 {
		port = 5432
	}
	sslmode := c.SSLMode
	if sslmode == "" {
		sslmode = "disable"
	}

	dsn := fmt.Sprintf("host=%s port=%d dbname=%s sslmode=%s", host, port, c.Database, sslmode)
	if c.User != "" {
		dsn += fmt.Sprintf(" user=%s", c.User)
	}
	if c.Password != "" {
		dsn += fmt.Sprintf(" password=%s", c.Password)
	}
	return dsn
}

// Client introspects a PostgreSQL database.
type Client struct {
	db     *sql.DB
	cfg    Config
	logger *slog.Logger
}

// NewClient wraps an existing database handle. Used by tests; normal
// callers go through Connect.
func NewClient(db *sql.DB, cfg Config, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Client{db: db, cfg: cfg, logger: logger}
}

// Connect opens and pings a PostgreSQL connection.
func Connect(ctx context.Context, cfg Config, logger *slog.Logger) (*Client, error) {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	logger.Debug("connecting to postgres", slog.String("host", cfg.Host), slog.String("database", cfg.Database))

	db, err := sql.Open("pgx", cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("failed to open postgres connection: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping postgres: %w", err)
	}

	return &Client{db: db, cfg: cfg, logger: logger}, nil
}

// Close releases the underlying connection pool.
func (c *Client) Close() error {
	return c.db.Close()
}

// Check verifies connectivity and returns a short summary of what the
// configured scope contains.
func (c *Client) Check(ctx context.Context) (string, error) {
	if c.cfg.Schema != "" {
		var tables int
		err := c.db.QueryRowContext(ctx,
			`SELECT count(*) FROM information_schema.tables WHERE table_schema = $1`,
			c.cfg.Schema).Scan(&tables)
		if err != nil {
			return "", fmt.Errorf("failed to count tables: %w", err)
		}
		return fmt.Sprintf("connected (%d tables in schema %s)", tables, c.cfg.Schema), nil
	}

	schemas, err := c.ListSchemas(ctx)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("connected (%d schemas found)", len(schemas)), nil
}

// ListSchemas returns the schemas in introspection scope, filtering out
// pg_catalog, information_schema, and other pg_ system schemas.
func (c *Client) ListSchemas(ctx context.Context) ([]string, error) {
	if c.cfg.Schema != "" {
		return []string{c.cfg.Schema}, nil
	}

	rows, err := c.db.QueryContext(ctx, `
		SELECT nspname
		FROM pg_catalog.pg_namespace
		WHERE nspname NOT IN ('pg_catalog', 'information_schema')
		  AND nspname NOT LIKE 'pg\_%'
		ORDER BY nspname`)
	if err != nil {
		return nil, fmt.Errorf("failed to list schemas: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var schemas []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		schemas = append(schemas, name)
	}
	return schemas, rows.Err()
}

// TableComment returns the comment on a table, or "" when none is set.
func (c *Client) TableComment(ctx context.Context, schema, table string) (string, error) {
	var comment string
	err := c.db.QueryRowContext(ctx, `
		SELECT d.description
		FROM pg_catalog.pg_description d
		JOIN pg_catalog.pg_class c ON c.oid = d.objoid
		JOIN pg_catalog.pg_namespace n ON n.oid = c.relnamespace
		WHERE n.nspname = $1 AND c.relname = $2 AND d.objsubid = 0`,
		schema, table).Scan(&comment)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to read table comment: %w", err)
	}
	return strings.TrimSpace(comment), nil
}

// ColumnComments returns column name -> comment for one table. Columns
// without a comment are absent from the map.
func (c *Client) ColumnComments(ctx context.Context, schema, table string) (map[string]string, error) {
	rows, err := c.db.QueryContext(ctx, `
		SELECT a.attname, d.description
		FROM pg_catalog.pg_description d
		JOIN pg_catalog.pg_class c ON c.oid = d.objoid
		JOIN pg_catalog.pg_attribute a ON a.attrelid = c.oid AND a.attnum = d.objsubid
		JOIN pg_catalog.pg_namespace n ON n.oid = c.relnamespace
		WHERE n.nspname = $1 AND c.relname = $2 AND d.objsubid > 0`,
		schema, table)
	if err != nil {
		return nil, fmt.Errorf("failed to read column comments: %w", err)
	}
	defer func() { _ = rows.Close() }()

	comments := make(map[string]string)
	for rows.Next() {
		var name string
		var comment sql.NullString
		if err := rows.Scan(&name, &comment); err != nil {
			return nil, err
		}
		if comment.Valid && comment.String != "" {
			comments[name] = comment.String
		}
	}
	return comments, rows.Err()
}

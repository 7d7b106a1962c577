package warehouse

import (
	"database/sql"
	"fmt"
	"time"

	dbsql "github.com/databricks/databricks-sql-go"
	"github.com/databricks/databricks-sql-go/auth/oauth/m2m"
	_ "github.com/lib/pq"
	_ "github.com/marcboeker/go-duckdb/v2"
	_ "github.com/tursodatabase/libsql-client-go/libsql"
)

// Config selects the engine and how to reach it.
type Config struct {
	Driver string
	DSN    string

	// Databricks SQL warehouse, authenticated as an OAuth service principal.
	Host         string
	HTTPPath     string
	ClientID     string
	ClientSecret string
}

// Open connects lazily; connection problems surface on the first call
// as a ConnectionError.
func Open(cfg Config) (*Warehouse, error) {
	dialect, ok := DialectFor(cfg.Driver)
	if !ok {
		return nil, fmt.Errorf("unsupported warehouse driver: %s (supported: duckdb, libsql, postgres, databricks)", cfg.Driver)
	}

	var conn *sql.DB
	switch dialect.Name {
	case DriverDatabricks:
		if cfg.HTTPPath == "" {
			return nil, fmt.Errorf("databricks warehouse needs an HTTP path")
		}
		connector, err := dbsql.NewConnector(
			dbsql.WithServerHostname(cfg.Host),
			dbsql.WithPort(443),
			dbsql.WithHTTPPath(cfg.HTTPPath),
			dbsql.WithAuthenticator(m2m.NewAuthenticator(cfg.ClientID, cfg.ClientSecret, cfg.Host)),
		)
		if err != nil {
			return nil, fmt.Errorf("failed to create databricks connector: %w", err)
		}
		conn = sql.OpenDB(connector)
	default:
		var err error
		conn, err = sql.Open(dialect.Name, cfg.DSN)
		if err != nil {
			return nil, fmt.Errorf("failed to open %s warehouse: %w", dialect.Name, err)
		}
	}

	conn.SetConnMaxIdleTime(5 * time.Minute)

	return New(conn, dialect), nil
}

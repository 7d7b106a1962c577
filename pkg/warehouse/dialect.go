package warehouse

import (
	"strconv"
	"strings"
)

const (
	DriverDuckDB     = "duckdb"
	DriverLibSQL     = "libsql"
	DriverPostgres   = "postgres"
	DriverDatabricks = "databricks"
)

// Dialect captures the SQL differences between the supported engines.
type Dialect struct {
	Name string

	quote        string
	dollarParams bool
	nullSafeEq   string

	// Transactions is false for engines that run every statement on its
	// own, in which case a failed write can leave earlier statements applied.
	Transactions bool

	insertOverwrite bool
	merge           bool
}

var (
	DuckDB = Dialect{
		Name:         DriverDuckDB,
		quote:        `"`,
		nullSafeEq:   "IS NOT DISTINCT FROM",
		Transactions: true,
	}
	LibSQL = Dialect{
		Name:         DriverLibSQL,
		quote:        `"`,
		nullSafeEq:   "IS",
		Transactions: true,
	}
	Postgres = Dialect{
		Name:         DriverPostgres,
		quote:        `"`,
		dollarParams: true,
		nullSafeEq:   "IS NOT DISTINCT FROM",
		Transactions: true,
	}
	Databricks = Dialect{
		Name:            DriverDatabricks,
		quote:           "`",
		nullSafeEq:      "<=>",
		insertOverwrite: true,
		merge:           true,
	}
)

// DialectFor returns the dialect registered for a driver name.
func DialectFor(driver string) (Dialect, bool) {
	switch strings.ToLower(driver) {
	case DriverDuckDB:
		return DuckDB, true
	case DriverLibSQL, "sqlite":
		return LibSQL, true
	case DriverPostgres:
		return Postgres, true
	case DriverDatabricks:
		return Databricks, true
	}
	return Dialect{}, false
}

// QuoteIdent quotes one identifier part.
func (d Dialect) QuoteIdent(name string) string {
	return d.quote + strings.ReplaceAll(name, d.quote, d.quote+d.quote) + d.quote
}

func (d Dialect) placeholder(n int) string {
	if d.dollarParams {
		return "$" + strconv.Itoa(n)
	}
	return "?"
}

// Package repository provides Query Service adapters that execute the fixed
// analytical queries and return typed tabular results.
package repository

import (
	"context"
	"fmt"
	"regexp"

	"github.com/okian/ukestate/internal/domain/table"
)

// QueryService executes SQL against the transaction dataset.
// Implementations must be safe for concurrent use once opened.
type QueryService interface {
	// Open establishes the connection and verifies it with a round trip.
	Open(ctx context.Context) error
	// Query runs sql with bound args and returns every row.
	Query(ctx context.Context, sql string, args ...any) (table.Result, error)
	// Ping runs the liveness probe.
	Ping(ctx context.Context) error
	// Queries returns the dialect's query templates.
	Queries() Queries
	// Name identifies the backend in logs and stats.
	Name() string
	Close() error
}

// Queries holds the query templates of one SQL dialect. Placeholders are
// positional and bound in the same order for every dialect:
//
//	MonthlySales:     first year, last year
//	TopNeighborhoods: from date, to date, min sales, limit
type Queries struct {
	MonthlySales     string
	TopNeighborhoods string
	Ping             string
}

var tablePattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*(\.[A-Za-z_][A-Za-z0-9_]*)?$`)

// ValidTable reports whether name is a plain or database-qualified identifier.
func ValidTable(name string) bool { return tablePattern.MatchString(name) }

// ClickHouseQueries returns the ClickHouse templates for table.
func ClickHouseQueries(tbl string) Queries {
	return Queries{
		MonthlySales: fmt.Sprintf(`
SELECT toYear(date) AS year, toMonth(date) AS month, count() AS num_sales
FROM %s
WHERE toYear(date) BETWEEN ? AND ?
GROUP BY year, month
ORDER BY year, month`, tbl),
		TopNeighborhoods: fmt.Sprintf(`
SELECT town, district, count() AS c, round(avg(price)) AS price
FROM %s
WHERE date BETWEEN ? AND ?
GROUP BY town, district
HAVING c >= ?
ORDER BY price DESC, town, district
LIMIT ?`, tbl),
		Ping: "SELECT 1",
	}
}

// SQLiteQueries returns the SQLite templates for table.
func SQLiteQueries(tbl string) Queries {
	return Queries{
		MonthlySales: fmt.Sprintf(`
SELECT CAST(strftime('%%Y', date) AS INTEGER) AS year,
       CAST(strftime('%%m', date) AS INTEGER) AS month,
       COUNT(*) AS num_sales
FROM %s
WHERE CAST(strftime('%%Y', date) AS INTEGER) BETWEEN ? AND ?
GROUP BY year, month
ORDER BY year, month`, tbl),
		TopNeighborhoods: fmt.Sprintf(`
SELECT town, district, COUNT(*) AS c, ROUND(AVG(price)) AS price
FROM %s
WHERE date BETWEEN ? AND ?
GROUP BY town, district
HAVING COUNT(*) >= ?
ORDER BY price DESC, town, district
LIMIT ?`, tbl),
		Ping: "SELECT 1",
	}
}

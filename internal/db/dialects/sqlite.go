package dialects

import (
	"context"
	"database/sql"
	"fmt"

	"sqlbench/internal/db"
)

// sqliteDialect implements db.Dialect for SQLite.
type sqliteDialect struct{}

// SQLite parses and plans the query under EXPLAIN QUERY PLAN without
// executing it, which is exactly the validity check we want.
func (sqliteDialect) ValidateQuery(ctx context.Context, dbConn *sql.DB, query string) error {
	rows, err := dbConn.QueryContext(ctx, "EXPLAIN QUERY PLAN "+query)
	if err != nil {
		return fmt.Errorf("explain query plan: %w", err)
	}
	return rows.Close()
}

func init() {
	db.Register("sqlite3", sqliteDialect{})
	db.Register("sqlite", sqliteDialect{})
}

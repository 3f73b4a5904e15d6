package dialects

import (
	"context"
	"database/sql"
	"fmt"

	"sqlbench/internal/db"
)

// pgDialect implements db.Dialect using server-side prepare.
type pgDialect struct{}

// Postgres fully parses and analyzes a statement when it is prepared,
// so a successful prepare means the query is valid against the catalog.
func (pgDialect) ValidateQuery(ctx context.Context, dbConn *sql.DB, query string) error {
	stmt, err := dbConn.PrepareContext(ctx, query)
	if err != nil {
		return fmt.Errorf("prepare: %w", err)
	}
	return stmt.Close()
}

func init() {
	db.Register("postgres", pgDialect{})
}

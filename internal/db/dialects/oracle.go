package dialects

import (
	"context"
	"database/sql"
	"fmt"

	"sqlbench/internal/db"
)

// oracleDialect implements db.Dialect for Oracle via godror.
type oracleDialect struct{}

// EXPLAIN PLAN FOR parses and plans the statement without running it.
// The plan rows land in PLAN_TABLE, which we do not read back.
func (oracleDialect) ValidateQuery(ctx context.Context, dbConn *sql.DB, query string) error {
	if _, err := dbConn.ExecContext(ctx, "EXPLAIN PLAN FOR "+query); err != nil {
		return fmt.Errorf("explain plan: %w", err)
	}
	return nil
}

func init() {
	db.Register("godror", oracleDialect{})
	db.Register("oracle", oracleDialect{})
}

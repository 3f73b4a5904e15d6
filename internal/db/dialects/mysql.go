package dialects

import (
	"context"
	"database/sql"
	"fmt"

	"sqlbench/internal/db"
)

// mysqlDialect implements db.Dialect for MySQL and MariaDB.
type mysqlDialect struct{}

// MySQL validates the statement while building the EXPLAIN plan; the
// query itself is not executed.
func (mysqlDialect) ValidateQuery(ctx context.Context, dbConn *sql.DB, query string) error {
	rows, err := dbConn.QueryContext(ctx, "EXPLAIN "+query)
	if err != nil {
		return fmt.Errorf("explain: %w", err)
	}
	return rows.Close()
}

func init() {
	db.Register("mysql", mysqlDialect{})
	db.Register("mariadb", mysqlDialect{})
}

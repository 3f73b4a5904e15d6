package dialects

import (
	"context"
	"database/sql"
	"fmt"

	"sqlbench/internal/db"
)

// mssqlDialect implements db.Dialect for SQL Server.
type mssqlDialect struct{}

// SET PARSEONLY ON makes the server check syntax without compiling or
// executing; it is scoped to the session, so it is reset afterwards.
func (mssqlDialect) ValidateQuery(ctx context.Context, dbConn *sql.DB, query string) error {
	conn, err := dbConn.Conn(ctx)
	if err != nil {
		return fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Close()

	if _, err := conn.ExecContext(ctx, "SET PARSEONLY ON"); err != nil {
		return fmt.Errorf("set parseonly: %w", err)
	}
	_, parseErr := conn.ExecContext(ctx, query)
	if _, err := conn.ExecContext(ctx, "SET PARSEONLY OFF"); err != nil {
		return fmt.Errorf("reset parseonly: %w", err)
	}
	if parseErr != nil {
		return fmt.Errorf("parse: %w", parseErr)
	}
	return nil
}

func init() {
	db.Register("sqlserver", mssqlDialect{})
	db.Register("mssql", mssqlDialect{})
}

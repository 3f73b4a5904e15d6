package db

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "github.com/denisenkom/go-mssqldb"
	_ "github.com/go-sql-driver/mysql"
	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"

	"sqlbench/pkg/config"
)

// Dialect knows how to ask one database engine whether a query is
// syntactically valid without running it.
type Dialect interface {

	// ValidateQuery returns nil when the engine accepts the query.
	ValidateQuery(ctx context.Context, db *sql.DB, query string) error
}

var dialects = map[string]Dialect{}

// Register makes a Dialect available under name.
func Register(name string, d Dialect) {
	dialects[strings.ToLower(name)] = d
}

// listRegistered returns the registered dialect keys (for diagnostics).
func listRegistered() []string {
	keys := make([]string, 0, len(dialects))
	for k := range dialects {
		keys = append(keys, k)
	}
	return keys
}

// Open connects to a benchmark database and verifies the connection.
func Open(driver, dsn string, timeoutSec int) (*sql.DB, error) {
	driver = config.NormalizeDriver(driver)
	if _, ok := dialects[driver]; !ok {
		return nil, fmt.Errorf("dialect not registered: %q (available: %v)", driver, listRegistered())
	}
	dbConn, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, err
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(timeoutSec)*time.Second)
	defer cancel()
	if err := dbConn.PingContext(ctx); err != nil {
		dbConn.Close()
		return nil, err
	}
	return dbConn, nil
}

// Validate dispatches a syntax check to the dialect registered for driver.
func Validate(ctx context.Context, driver string, dbConn *sql.DB, query string) error {
	driver = config.NormalizeDriver(driver)
	dialect, ok := dialects[driver]
	if !ok {
		return fmt.Errorf("dialect not registered: %q (available: %v)", driver, listRegistered())
	}
	return dialect.ValidateQuery(ctx, dbConn, query)
}

// RegisteredDialects is a helper that allows callers to print registered dialects
func RegisteredDialects() []string {
	return listRegistered()
}

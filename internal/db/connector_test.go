package db

import (
	"context"
	"database/sql"
	"errors"
	"testing"
)

var testdialect string = "testdialect"

type testDialect struct{}

func (testDialect) ValidateQuery(ctx context.Context, dbConn *sql.DB, query string) error {
	return errors.New("not implemented")
}

func TestRegister(t *testing.T) {
	// tests both Register and RegisteredDialects because they take the same setup

	Register(testdialect, testDialect{})

	if _, ok := dialects[testdialect]; !ok {
		t.Errorf("\ndialect %v not registered correctly in %v", testdialect, dialects)
	}

	found := false
	for _, d := range RegisteredDialects() {
		if d == testdialect {
			found = true
		}
	}
	if !found {
		t.Errorf("\nRegisteredDialects returned unexpected result %v", RegisteredDialects())
	}
}

func TestOpen(t *testing.T) {

	var tests = []struct {
		name          string
		dialect       string
		dsn           string
		timeout       int
		registerFirst bool
		errIsNil      bool
	}{
		{"unregistered dialect", "no-such-dialect", "", 10, false, false},
		{"sqlite in memory", "sqlite", ":memory:", 10, true, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.registerFirst {
				Register(tt.dialect, testDialect{})
			}

			conn, err := Open(tt.dialect, tt.dsn, tt.timeout)
			if conn != nil {
				defer conn.Close()
			}

			if (err == nil) != tt.errIsNil {
				if tt.errIsNil {
					t.Errorf("\ngot unexpected error: \"%v\"", err)
				} else {
					t.Errorf("\nexpected an error, did not receive one")
				}
			}
		})
	}
}

func TestValidateDispatch(t *testing.T) {
	Register(testdialect, testDialect{})

	if err := Validate(context.Background(), testdialect, nil, "SELECT 1"); err == nil {
		t.Errorf("\nexpected the registered dialect's error, got nil")
	}
	if err := Validate(context.Background(), "no-such-dialect", nil, "SELECT 1"); err == nil {
		t.Errorf("\nexpected an error for an unregistered dialect")
	}
}

package db

import (
	"context"
	"database/sql"
	"log"
)

// Thin wrappers around database/sql that log every statement. Errors are
// returned, not swallowed, so repositories can attach backend codes.

func LogAndQuery(ctx context.Context, db *sql.DB, query string, args ...interface{}) (*sql.Rows, error) {
	log.Printf("query: %s args: %v", query, args)
	return db.QueryContext(ctx, query, args...)
}

func LogAndQueryRow(ctx context.Context, db *sql.DB, query string, args ...interface{}) *sql.Row {
	log.Printf("query: %s args: %v", query, args)
	return db.QueryRowContext(ctx, query, args...)
}

func LogAndExec(ctx context.Context, db *sql.DB, query string, args ...interface{}) (sql.Result, error) {
	log.Printf("exec: %s args: %v", query, args)
	return db.ExecContext(ctx, query, args...)
}

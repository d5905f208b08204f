package repository

import (
	"database/sql"
	"fmt"

	_ "github.com/go-sql-driver/mysql"
	"github.com/jmoiron/sqlx"
)

// CreateDatabase opens a MySQL connection pool for the given DSN.
func CreateDatabase(dsn string) (*sql.DB, error) {
	sqlDB, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, fmt.Errorf("could not open database: %w", err)
	}
	return sqlDB, nil
}

// NewDatabaseWrapper wraps the sql database with sqlx. The database argument can be a real
// database for production use or a mock database within unit tests.
func NewDatabaseWrapper(sqlDB *sql.DB) *sqlx.DB {
	return sqlx.NewDb(sqlDB, "mysql")
}

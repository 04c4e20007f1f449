package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
)

const (
	postgresPingTimeout  = 3 * time.Second
	postgresMaxOpenConns = 10
	postgresConnLifetime = 30 * time.Minute
)

// InitPostgres opens the results database and checks the connection.
func InitPostgres(url string) (*sqlx.DB, error) {
	db, err := sqlx.Open("postgres", url)
	if err != nil {
		return nil, fmt.Errorf("error opening results database: %w", err)
	}

	db.SetMaxOpenConns(postgresMaxOpenConns)
	db.SetMaxIdleConns(postgresMaxOpenConns / 2)
	db.SetConnMaxLifetime(postgresConnLifetime)

	ctx, cancel := context.WithTimeout(context.Background(), postgresPingTimeout)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("error pinging results database: %w", errors.Join(err, db.Close()))
	}

	return db, nil
}

package db

import "context"

type DBType string

const (
	Postgres DBType = "postgres"
	Mongo    DBType = "mongo"
)

// DB is a database connection owned by the server process.
type DB interface {
	Connect(ctx context.Context) error
	Disconnect(ctx context.Context) error
}

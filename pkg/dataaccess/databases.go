package dataaccess

import (
	"errors"

	"go.mongodb.org/mongo-driver/mongo"
)

// MongoDB is the Mongo client. This is a connection pool.
var MongoDB *mongo.Client

const mongoDatabase = "migrator"

// ErrNotFound is returned when a record does not exist.
var ErrNotFound = errors.New("record not found")

package services

import "context"

// Database is an optional sink for log records.
type Database interface {
	WriteLogMessage(ctx context.Context, data Data) error
}

type Data interface {
	DataType() string
}

package storage

// Type selects the history backend.
type Type string

const (
	PG    Type = "pg"
	ES    Type = "es"
	InMem Type = "inmem"
)

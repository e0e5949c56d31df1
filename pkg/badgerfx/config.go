package badgerfx

import "github.com/dgraph-io/badger/v4"

type Config struct {
	// Path to the BadgerDB data directory. Ignored when InMemory is set.
	Dir string
	// InMemory keeps the whole keyspace in process memory; nothing is
	// written to disk and all data dies with the process.
	InMemory bool
}

func (c Config) Build() badger.Options {
	if c.InMemory {
		return badger.DefaultOptions("").WithInMemory(true)
	}

	return badger.DefaultOptions(c.Dir)
}

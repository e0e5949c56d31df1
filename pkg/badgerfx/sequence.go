package badgerfx

import (
	"fmt"

	"github.com/dgraph-io/badger/v4"
)

const sequenceBandwidth = 64

// Sequence hands out monotonically increasing uint64 ids starting at 1.
// Ids are never reused within the lifetime of the database, deleted
// entities included, and concurrent callers always receive distinct
// values.
type Sequence struct {
	seq *badger.Sequence
}

func NewSequence(db *badger.DB, name string) (*Sequence, error) {
	seq, err := db.GetSequence([]byte("seq:"+name), sequenceBandwidth)
	if err != nil {
		return nil, fmt.Errorf("failed to open sequence %q: %w", name, err)
	}

	return &Sequence{seq: seq}, nil
}

func (s *Sequence) Next() (uint64, error) {
	n, err := s.seq.Next()
	if err != nil {
		return 0, fmt.Errorf("failed to advance sequence: %w", err)
	}

	// Badger sequences start at 0; ids start at 1.
	return n + 1, nil
}

func (s *Sequence) Release() error {
	if err := s.seq.Release(); err != nil {
		return fmt.Errorf("failed to release sequence: %w", err)
	}

	return nil
}

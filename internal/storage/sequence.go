package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"sync"
	"time"
)

// Sequence is a persisted monotonic id allocator. Every call to Next
// returns a strictly larger value than any previously returned, across
// restarts: the counter is loaded from disk and clamped above both the
// highest id seen in the collections and the current unix-ms clock.
type Sequence struct {
	mu   sync.Mutex
	path string
	last int64
}

type sequenceFile struct {
	Last int64 `json:"last"`
}

func NewSequence(path string, floor int64) (*Sequence, error) {
	last := floor
	if now := time.Now().UnixMilli(); now > last {
		last = now
	}

	raw, err := os.ReadFile(path)
	if err == nil && len(raw) > 0 {
		var f sequenceFile
		if err := json.Unmarshal(raw, &f); err != nil {
			return nil, fmt.Errorf("%w: sequence: %v", ErrParse, err)
		}
		if f.Last > last {
			last = f.Last
		}
	} else if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("read sequence: %w", err)
	}

	return &Sequence{path: path, last: last}, nil
}

// Next allocates and persists the next id.
func (q *Sequence) Next() (int64, error) {
	q.mu.Lock()
	defer q.mu.Unlock()

	next := q.last + 1
	if err := q.persist(next); err != nil {
		return 0, err
	}
	q.last = next
	return next, nil
}

func (q *Sequence) persist(last int64) error {
	data, err := json.MarshalIndent(sequenceFile{Last: last}, "", "  ")
	if err != nil {
		return fmt.Errorf("encode sequence: %w", err)
	}
	data = append(data, '\n')

	tmp := q.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write sequence: %w", err)
	}
	if err := os.Rename(tmp, q.path); err != nil {
		return fmt.Errorf("rename sequence: %w", err)
	}
	return nil
}

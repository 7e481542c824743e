// Package counter persists the next sequential invoice number between runs.
//
// The store is a single plain-text file holding one integer: the next number
// to use, not the last one used. There is one global sequence for all
// invoices; concurrent runs against the same file are not supported.
package counter

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// ErrCorruptCounter is returned when the counter file exists but does not
// contain a parseable integer. This is fatal for the run; falling back to 1
// silently would hand out duplicate invoice numbers.
var ErrCorruptCounter = errors.New("counter file is not a valid integer")

// Store is a file-backed invoice number counter.
type Store struct {
	path string
}

// NewStore creates a store backed by the file at path. The file need not
// exist yet.
func NewStore(path string) *Store {
	return &Store{path: path}
}

// Path returns the backing file path.
func (s *Store) Path() string {
	return s.path
}

// Next returns the next invoice number to use: 1 when no counter file
// exists, otherwise the stored value. Reading has no side effects.
func (s *Store) Next() (int, error) {
	const op = "Next"

	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return 1, nil
	}
	if err != nil {
		return 0, fmt.Errorf("counter: %s failed: %w", op, err)
	}

	value, err := strconv.Atoi(strings.TrimSpace(string(data)))
	if err != nil {
		return 0, fmt.Errorf("counter: %s failed: %w: %q", op, ErrCorruptCounter, strings.TrimSpace(string(data)))
	}

	return value, nil
}

// Save overwrites the persisted counter with value. The write goes to a
// temporary file in the same directory followed by a rename, so a crash
// mid-write cannot leave a corrupt counter behind.
func (s *Store) Save(value int) error {
	const op = "Save"

	dir := filepath.Dir(s.path)
	tmp, err := os.CreateTemp(dir, filepath.Base(s.path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("counter: %s failed: %w", op, err)
	}
	tmpName := tmp.Name()

	if _, err := fmt.Fprintf(tmp, "%d\n", value); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("counter: %s failed: %w", op, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("counter: %s failed: %w", op, err)
	}

	if err := os.Rename(tmpName, s.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("counter: %s failed: %w", op, err)
	}

	return nil
}

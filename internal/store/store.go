// Package store persists the canonical catalog quantities and the starting
// income derived from them.
package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"math"
	"os"
	"path/filepath"

	"github.com/tidwall/gjson"
)

// StartIncomeKey is the reserved save-file key holding the starting income.
const StartIncomeKey = "start_income"

// ErrCorruptState is returned when a save file exists but cannot be decoded.
var ErrCorruptState = errors.New("corrupt saved state")

// State is what gets saved between sessions.
type State struct {
	Quantities  map[string]int
	StartIncome float64
}

// Empty reports whether s carries no saved data.
func (s State) Empty() bool {
	return len(s.Quantities) == 0 && s.StartIncome == 0
}

// FileStore keeps State in a flat JSON object mapping item names to quantities
// next to the start_income key.
type FileStore struct {
	path string
}

// NewFileStore returns a store backed by path.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Path returns the backing file path.
func (f *FileStore) Path() string {
	return f.path
}

// Load reads the saved state. A missing file is an empty state, not an error.
func (f *FileStore) Load() (State, error) {
	data, err := os.ReadFile(f.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return State{Quantities: map[string]int{}}, nil
		}
		return State{}, fmt.Errorf("failed to read saved state: %w", err)
	}
	return Decode(data)
}

// Decode parses the save-file format.
func Decode(data []byte) (State, error) {
	state := State{Quantities: map[string]int{}}
	if !gjson.ValidBytes(data) {
		return State{}, fmt.Errorf("%w: invalid JSON", ErrCorruptState)
	}
	root := gjson.ParseBytes(data)
	if !root.IsObject() {
		return State{}, fmt.Errorf("%w: expected an object", ErrCorruptState)
	}

	var decodeErr error
	root.ForEach(func(key, value gjson.Result) bool {
		if value.Type != gjson.Number {
			decodeErr = fmt.Errorf("%w: %s is not a number", ErrCorruptState, key.String())
			return false
		}
		if key.String() == StartIncomeKey {
			state.StartIncome = value.Float()
			return true
		}
		q := value.Float()
		if q < 0 || q != math.Trunc(q) {
			decodeErr = fmt.Errorf("%w: %s has invalid quantity %v", ErrCorruptState, key.String(), q)
			return false
		}
		state.Quantities[key.String()] = int(q)
		return true
	})
	if decodeErr != nil {
		return State{}, decodeErr
	}
	return state, nil
}

// Save writes state, replacing the previous file atomically.
func (f *FileStore) Save(state State) error {
	doc := make(map[string]float64, len(state.Quantities)+1)
	for name, q := range state.Quantities {
		doc[name] = float64(q)
	}
	doc[StartIncomeKey] = state.StartIncome

	data, err := json.MarshalIndent(doc, "", "    ")
	if err != nil {
		return fmt.Errorf("failed to encode state: %w", err)
	}

	dir := filepath.Dir(f.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create save directory %s: %w", dir, err)
	}
	tmp, err := os.CreateTemp(dir, ".things-*.json")
	if err != nil {
		return fmt.Errorf("failed to create temp save file: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return fmt.Errorf("failed to write state: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("failed to close temp save file: %w", err)
	}
	if err := os.Rename(tmpName, f.path); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("failed to replace save file: %w", err)
	}
	return nil
}

package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

var (
	ErrNotFound    = errors.New("record not found")
	ErrInvalidName = errors.New("invalid record name")
)

const recordExt = ".json"

// RecordDir keeps one JSON file per record in a single directory. Record
// names are used verbatim as file names, so callers choose names that sort
// the way they want List to return them.
type RecordDir struct {
	dir string
}

func NewRecordDir(dir string) (*RecordDir, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create record dir: %w", err)
	}
	return &RecordDir{dir: dir}, nil
}

// Write stores v under name, replacing any existing record atomically.
func (d *RecordDir) Write(name string, v interface{}) error {
	path, err := d.path(name)
	if err != nil {
		return err
	}
	return writeJSONAtomic(path, v)
}

// Read decodes the record called name into v.
func (d *RecordDir) Read(name string, v interface{}) error {
	path, err := d.path(name)
	if err != nil {
		return err
	}
	file, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return ErrNotFound
		}
		return err
	}
	defer file.Close()

	if err := json.NewDecoder(file).Decode(v); err != nil {
		return fmt.Errorf("decode %s: %w", name, err)
	}
	return nil
}

// List returns all record names in ascending lexical order.
func (d *RecordDir) List() ([]string, error) {
	entries, err := os.ReadDir(d.dir)
	if err != nil {
		return nil, err
	}

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), recordExt) {
			continue
		}
		names = append(names, strings.TrimSuffix(e.Name(), recordExt))
	}
	sort.Strings(names)
	return names, nil
}

func (d *RecordDir) path(name string) (string, error) {
	if name == "" || name == "." || name == ".." || filepath.Base(name) != name || strings.ContainsAny(name, `/\`) {
		return "", fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	return filepath.Join(d.dir, name+recordExt), nil
}

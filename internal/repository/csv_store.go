package repository

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"survey-app/internal/models"
)

const (
	partitionPrefix = "survey_"
	partitionExt    = ".csv"
)

// CSVStore persists one record table per project as a CSV file in dir.
// Every write rewrites the whole partition. Writers within this process are
// serialised; nothing guards against another process writing the same file.
type CSVStore struct {
	dir string
	mu  sync.Mutex
}

// NewCSVStore creates a store rooted at dir, creating the directory if needed.
func NewCSVStore(dir string) (*CSVStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("repository: failed to create data dir: %w", err)
	}
	return &CSVStore{dir: dir}, nil
}

// Dir returns the directory partitions live in.
func (s *CSVStore) Dir() string { return s.dir }

// Path returns the partition file of project.
func (s *CSVStore) Path(project string) string {
	return filepath.Join(s.dir, partitionPrefix+project+partitionExt)
}

// Load returns the records of project in insertion order. A missing or empty
// partition yields an empty slice.
func (s *CSVStore) Load(ctx context.Context, project string) ([]models.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load(ctx, project)
}

// Append adds record as the last row of project.
func (s *CSVStore) Append(ctx context.Context, project string, record models.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	records, err := s.load(ctx, project)
	if err != nil {
		return err
	}
	return s.write(ctx, project, append(records, record))
}

// Overwrite replaces the whole partition with records.
func (s *CSVStore) Overwrite(ctx context.Context, project string, records []models.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.write(ctx, project, records)
}

// Merge concatenates records after the current contents. Duplicates are kept.
func (s *CSVStore) Merge(ctx context.Context, project string, records []models.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, err := s.load(ctx, project)
	if err != nil {
		return err
	}
	merged := make([]models.Record, 0, len(current)+len(records))
	merged = append(merged, current...)
	merged = append(merged, records...)
	return s.write(ctx, project, merged)
}

func (s *CSVStore) load(ctx context.Context, project string) ([]models.Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	path := s.Path(project)
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return []models.Record{}, nil
		}
		return nil, fmt.Errorf("repository: failed to read partition: %w", err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return []models.Record{}, nil
	}

	records, err := DecodeRecords(bytes.NewReader(data))
	if err != nil {
		return nil, &CorruptDataError{Path: path, Err: err}
	}
	return records, nil
}

func (s *CSVStore) write(ctx context.Context, project string, records []models.Record) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	var buf bytes.Buffer
	if err := EncodeRecords(&buf, records); err != nil {
		return err
	}
	if err := writeFileAtomic(s.Path(project), buf.Bytes()); err != nil {
		return fmt.Errorf("repository: failed to write partition: %w", err)
	}
	return nil
}

// writeFileAtomic writes to a temp file next to path and renames it over path.
func writeFileAtomic(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".tmp-*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmpName, path)
}

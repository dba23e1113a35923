package crops

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"go.uber.org/zap"
)

var (
	// ErrStorageWrite is returned when the crop file could not be replaced.
	ErrStorageWrite = errors.New("crop storage write failed")

	// Read failures. Load reports these through the logger and treats them
	// all as "no records yet".
	ErrStorageNotFound  = errors.New("crop storage does not exist")
	ErrStorageMalformed = errors.New("crop storage is malformed")
	ErrStorageRead      = errors.New("crop storage read failed")
)

// FileStore keeps the crop collection in a single JSON file that it owns
// exclusively. It does not coordinate with other processes.
type FileStore struct {
	path string
	log  *zap.Logger
}

// NewFileStore returns a store backed by the JSON file at path. A nil logger
// disables logging.
func NewFileStore(path string, log *zap.Logger) *FileStore {
	if log == nil {
		log = zap.NewNop()
	}
	return &FileStore{path: path, log: log.Named("crops")}
}

// Path returns the backing file.
func (s *FileStore) Path() string {
	return s.path
}

// Load returns every persisted record in insertion order. It never fails:
// a missing, unreadable or malformed file yields an empty collection.
func (s *FileStore) Load() []Record {
	records, err := s.read()
	switch {
	case err == nil:
		return records
	case errors.Is(err, ErrStorageNotFound):
		s.log.Debug("no crop records yet", zap.String("path", s.path))
	default:
		s.log.Warn("ignoring unreadable crop storage", zap.String("path", s.path), zap.Error(err))
	}
	return []Record{}
}

// read decodes the backing file, classifying failures.
func (s *FileStore) read() ([]Record, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrStorageNotFound, s.path)
		}
		return nil, fmt.Errorf("%w: %v", ErrStorageRead, err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return []Record{}, nil
	}

	var records []Record
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStorageMalformed, err)
	}
	if records == nil {
		records = []Record{}
	}
	return records, nil
}

// AppendAndSave appends rec to records, replaces the backing file with the
// result and returns it. The caller's slice is never modified. An invalid rec
// is rejected with ErrValidation before anything is written; a failed write
// returns ErrStorageWrite and leaves the previous file in place.
func (s *FileStore) AppendAndSave(records []Record, rec Record) ([]Record, error) {
	if err := Validate(rec); err != nil {
		return nil, err
	}

	out := make([]Record, 0, len(records)+1)
	out = append(out, records...)
	out = append(out, rec)

	if err := s.write(out); err != nil {
		s.log.Error("failed to persist crop records", zap.String("path", s.path), zap.Error(err))
		return nil, fmt.Errorf("%w: %v", ErrStorageWrite, err)
	}
	s.log.Info("crop record saved",
		zap.String("name", rec.Name),
		zap.Int("records", len(out)),
	)
	return out, nil
}

// write replaces the backing file using the temp-file, fsync, rename pattern.
func (s *FileStore) write(records []Record) error {
	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding records: %w", err)
	}
	data = append(data, '\n')

	dir := filepath.Dir(s.path)
	tmp, err := os.CreateTemp(dir, ".crops-*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("writing records: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("syncing temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("closing temp file: %w", err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("renaming temp file: %w", err)
	}
	return nil
}

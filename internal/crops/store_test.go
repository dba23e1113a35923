package crops

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *FileStore {
	t.Helper()
	return NewFileStore(filepath.Join(t.TempDir(), "crops.json"), nil)
}

func wheat() Record {
	return Record{Name: "Wheat", Area: 2.0, ExpectedYield: 20.0, AddedOn: "T1"}
}

func rice() Record {
	return Record{Name: "Rice", Area: 1.5, ExpectedYield: 35.0, AddedOn: "T2"}
}

func TestLoadMissingFile(t *testing.T) {
	s := newTestStore(t)

	records := s.Load()
	require.NotNil(t, records)
	assert.Empty(t, records)

	_, err := s.read()
	assert.ErrorIs(t, err, ErrStorageNotFound)
}

func TestLoadUnusableContent(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr error
	}{
		{name: "empty file", content: ""},
		{name: "whitespace", content: "  \n"},
		{name: "json null", content: "null"},
		{name: "truncated array", content: `[{"name":"Wheat","area":2`, wantErr: ErrStorageMalformed},
		{name: "object instead of array", content: `{"name":"Wheat"}`, wantErr: ErrStorageMalformed},
		{name: "wrong field type", content: `[{"name":"Wheat","area":"two"}]`, wantErr: ErrStorageMalformed},
		{name: "binary garbage", content: "\x00\xff\xfe", wantErr: ErrStorageMalformed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestStore(t)
			require.NoError(t, os.WriteFile(s.Path(), []byte(tt.content), 0o644))

			records := s.Load()
			require.NotNil(t, records)
			assert.Empty(t, records)

			_, err := s.read()
			if tt.wantErr == nil {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, tt.wantErr)
			}
		})
	}
}

func TestLoadUnreadablePath(t *testing.T) {
	dir := t.TempDir()
	s := NewFileStore(dir, nil) // a directory cannot be read as a file

	assert.Empty(t, s.Load())
	_, err := s.read()
	assert.ErrorIs(t, err, ErrStorageRead)
}

func TestAppendAndSaveFirstRecord(t *testing.T) {
	s := newTestStore(t)

	got, err := s.AppendAndSave(nil, wheat())
	require.NoError(t, err)
	assert.Equal(t, []Record{wheat()}, got)
	assert.Equal(t, []Record{wheat()}, s.Load())
}

func TestAppendAndSavePreservesOrder(t *testing.T) {
	s := newTestStore(t)

	records, err := s.AppendAndSave(s.Load(), wheat())
	require.NoError(t, err)
	records, err = s.AppendAndSave(records, rice())
	require.NoError(t, err)

	assert.Equal(t, []Record{wheat(), rice()}, records)
	assert.Equal(t, []Record{wheat(), rice()}, s.Load())
}

func TestAppendAndSaveReplacesFile(t *testing.T) {
	s := newTestStore(t)
	_, err := s.AppendAndSave(nil, wheat())
	require.NoError(t, err)

	// The given sequence, not the file, is what gets persisted.
	_, err = s.AppendAndSave(nil, rice())
	require.NoError(t, err)
	assert.Equal(t, []Record{rice()}, s.Load())
}

func TestAppendAndSaveAllowsDuplicateNames(t *testing.T) {
	s := newTestStore(t)
	first := wheat()
	second := wheat()
	second.AddedOn = "T9"

	records, err := s.AppendAndSave(nil, first)
	require.NoError(t, err)
	records, err = s.AppendAndSave(records, second)
	require.NoError(t, err)

	assert.Len(t, s.Load(), 2)
	assert.Equal(t, records, s.Load())
}

func TestAppendAndSaveDoesNotMutateInput(t *testing.T) {
	s := newTestStore(t)
	input := make([]Record, 1, 4)
	input[0] = wheat()

	got, err := s.AppendAndSave(input, rice())
	require.NoError(t, err)

	got[0].Name = "Changed"
	assert.Len(t, input, 1)
	assert.Equal(t, "Wheat", input[0].Name)
	assert.Equal(t, Record{}, input[:cap(input)][1], "spare capacity of the input must stay untouched")
}

func TestAppendAndSaveRejectsEmptyName(t *testing.T) {
	s := newTestStore(t)
	records, err := s.AppendAndSave(nil, wheat())
	require.NoError(t, err)
	before, err := os.ReadFile(s.Path())
	require.NoError(t, err)

	for _, name := range []string{"", "   "} {
		bad := rice()
		bad.Name = name

		got, err := s.AppendAndSave(records, bad)
		require.ErrorIs(t, err, ErrValidation)
		assert.Nil(t, got)
	}

	after, err := os.ReadFile(s.Path())
	require.NoError(t, err)
	assert.Equal(t, before, after)
	assert.Equal(t, []Record{wheat()}, s.Load())
}

func TestAppendAndSaveRejectsNegativeValues(t *testing.T) {
	s := newTestStore(t)

	bad := wheat()
	bad.Area = -1
	_, err := s.AppendAndSave(nil, bad)
	assert.ErrorIs(t, err, ErrValidation)

	bad = wheat()
	bad.ExpectedYield = -0.5
	_, err = s.AppendAndSave(nil, bad)
	assert.ErrorIs(t, err, ErrValidation)

	_, statErr := os.Stat(s.Path())
	assert.True(t, os.IsNotExist(statErr), "rejected records must not create the file")
}

func TestAppendAndSaveWriteFailure(t *testing.T) {
	s := NewFileStore(filepath.Join(t.TempDir(), "missing", "crops.json"), nil)

	got, err := s.AppendAndSave(nil, wheat())
	require.ErrorIs(t, err, ErrStorageWrite)
	assert.Nil(t, got)
	assert.Empty(t, s.Load())
}

func TestAppendAndSaveLeavesNoTempFiles(t *testing.T) {
	s := newTestStore(t)
	_, err := s.AppendAndSave(nil, wheat())
	require.NoError(t, err)

	entries, err := os.ReadDir(filepath.Dir(s.Path()))
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "crops.json", entries[0].Name())
}

func TestPersistedLayout(t *testing.T) {
	s := newTestStore(t)
	_, err := s.AppendAndSave(nil, wheat())
	require.NoError(t, err)

	data, err := os.ReadFile(s.Path())
	require.NoError(t, err)

	var raw []map[string]any
	require.NoError(t, json.Unmarshal(data, &raw))
	require.Len(t, raw, 1)
	assert.Equal(t, map[string]any{
		"name":           "Wheat",
		"area":           2.0,
		"expected_yield": 20.0,
		"added_on":       "T1",
	}, raw[0])
}

func TestLoadIsIdempotent(t *testing.T) {
	s := newTestStore(t)
	_, err := s.AppendAndSave(nil, wheat())
	require.NoError(t, err)

	assert.Equal(t, s.Load(), s.Load())
}

func TestLoadReadsExternallyWrittenFile(t *testing.T) {
	s := newTestStore(t)
	content := `[
  {"name": "Maize", "area": 3, "expected_yield": 28.5, "added_on": "2024-06-01 09:30:00.000000"}
]`
	require.NoError(t, os.WriteFile(s.Path(), []byte(content), 0o644))

	assert.Equal(t, []Record{{
		Name:          "Maize",
		Area:          3,
		ExpectedYield: 28.5,
		AddedOn:       "2024-06-01 09:30:00.000000",
	}}, s.Load())
}

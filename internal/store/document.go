package store

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/dpulseai/Mospi/internal/survey"
)

// SurveysDir is the subdirectory of the output directory holding documents.
const SurveysDir = "surveys"

// ErrDocumentNotFound is returned by Load when no document has the key.
var ErrDocumentNotFound = errors.New("survey document not found")

// DocumentStore writes survey documents as JSON files under a directory.
type DocumentStore struct {
	dir string
}

// NewDocumentStore returns a store rooted at <outputDir>/surveys.
func NewDocumentStore(outputDir string) *DocumentStore {
	return &DocumentStore{dir: filepath.Join(outputDir, SurveysDir)}
}

// Dir returns the directory documents are written to.
func (ds *DocumentStore) Dir() string { return ds.dir }

// Path returns the file path a survey with the given title is saved to.
func (ds *DocumentStore) Path(title string) string {
	return filepath.Join(ds.dir, survey.Key(title)+".json")
}

// Save writes the survey to <dir>/<key>.json and returns the path. The key
// derives from the title; an existing file with the same key is replaced.
// Output is UTF-8 with non-ASCII characters kept as-is and 2-space indent.
func (ds *DocumentStore) Save(s *survey.Survey) (string, error) {
	if err := os.MkdirAll(ds.dir, 0o755); err != nil {
		return "", fmt.Errorf("creating surveys directory: %w", err)
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(s); err != nil {
		return "", fmt.Errorf("marshaling survey: %w", err)
	}

	path := ds.Path(s.Title)
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return "", fmt.Errorf("writing survey document: %w", err)
	}
	return path, nil
}

// Load reads a saved document by key.
func (ds *DocumentStore) Load(key string) (*survey.Survey, error) {
	path := filepath.Join(ds.dir, survey.Key(key)+".json")
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %q", ErrDocumentNotFound, key)
		}
		return nil, fmt.Errorf("reading survey document: %w", err)
	}
	raw, err := survey.ParseRawJSON(data)
	if err != nil {
		return nil, fmt.Errorf("parsing survey document %q: %w", key, err)
	}
	return survey.Normalize(raw), nil
}

// List returns the keys of all saved documents, sorted.
func (ds *DocumentStore) List() ([]string, error) {
	entries, err := os.ReadDir(ds.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading surveys directory: %w", err)
	}
	var keys []string
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".json") {
			continue
		}
		keys = append(keys, strings.TrimSuffix(e.Name(), ".json"))
	}
	sort.Strings(keys)
	return keys, nil
}

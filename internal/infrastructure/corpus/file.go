package corpus

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/celebco/backend/internal/domain"
	"github.com/rs/zerolog/log"
)

// FileSource loads the corpus from a JSON file holding an array of objects,
// each with at least a string "name" field.
type FileSource struct {
	path string
}

var _ domain.CorpusSource = (*FileSource)(nil)

// NewFileSource creates a corpus source backed by the file at path
func NewFileSource(path string) *FileSource {
	return &FileSource{path: path}
}

// Load reads and parses the data file.
// A missing or unreadable file yields an empty corpus; malformed content is an error.
func (s *FileSource) Load(ctx context.Context) (*domain.Corpus, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(s.path)
	if err != nil {
		loadErr := fmt.Errorf("%w: %v", domain.ErrDataLoad, err)
		event := log.Warn().Err(loadErr).Str("path", s.path)
		if errors.Is(err, os.ErrNotExist) {
			event.Msg("data file not found, starting with empty corpus")
		} else {
			event.Msg("data file unreadable, starting with empty corpus")
		}
		return domain.NewCorpus(nil), nil
	}

	records, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", s.path, err)
	}

	log.Info().Str("path", s.path).Int("records", len(records)).Msg("corpus loaded")
	return domain.NewCorpus(records), nil
}

// Parse decodes a JSON array of records. Every entry must be an object
// with a string "name"; the first offending entry is reported by index.
func Parse(data []byte) ([]domain.Record, error) {
	var entries []json.RawMessage
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("%w: expected a JSON array: %v", domain.ErrDataFormat, err)
	}

	records := make([]domain.Record, 0, len(entries))
	for i, entry := range entries {
		var record domain.Record
		if err := json.Unmarshal(entry, &record); err != nil {
			return nil, fmt.Errorf("entry %d: %w", i, err)
		}
		records = append(records, record)
	}

	return records, nil
}

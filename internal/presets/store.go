// File: internal/presets/store.go
package presets

import (
	"fmt"
	"os"
	"sort"
	"sync"

	jsoniter "github.com/json-iterator/go"
	"go.uber.org/zap"

	"github.com/amitgur2000/web-tasks-bot/api/schemas"
)

var jsonAPI = jsoniter.ConfigCompatibleWithStandardLibrary

// ErrNotFound reports a lookup for an unknown preset id.
var ErrNotFound = fmt.Errorf("preset not found")

// Store reads operation presets maintained by the outer application. The
// core treats presets as read-only; the store only loads, lists and looks
// them up.
type Store struct {
	path   string
	logger *zap.Logger

	mu      sync.RWMutex
	presets map[string]schemas.OperationPreset
}

// NewStore creates a store backed by the JSON file at path. The file is not
// read until Load is called.
func NewStore(path string, logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{
		path:    path,
		logger:  logger.Named("presets"),
		presets: make(map[string]schemas.OperationPreset),
	}
}

// Load reads and validates the preset file. A missing file is not an error;
// it simply yields an empty store.
func (s *Store) Load() error {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			s.logger.Debug("Preset file absent; starting empty.", zap.String("path", s.path))
			return nil
		}
		return fmt.Errorf("failed to read preset file %s: %w", s.path, err)
	}

	var loaded []schemas.OperationPreset
	if err := jsonAPI.Unmarshal(data, &loaded); err != nil {
		return fmt.Errorf("failed to parse preset file %s: %w", s.path, err)
	}

	index := make(map[string]schemas.OperationPreset, len(loaded))
	for _, p := range loaded {
		if err := p.Validate(); err != nil {
			return fmt.Errorf("invalid preset in %s: %w", s.path, err)
		}
		if _, dup := index[p.ID]; dup {
			return fmt.Errorf("duplicate preset id %q in %s", p.ID, s.path)
		}
		index[p.ID] = p
	}

	s.mu.Lock()
	s.presets = index
	s.mu.Unlock()

	s.logger.Info("Presets loaded.", zap.Int("count", len(index)), zap.String("path", s.path))
	return nil
}

// List returns all presets ordered by label, then id.
func (s *Store) List() []schemas.OperationPreset {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]schemas.OperationPreset, 0, len(s.presets))
	for _, p := range s.presets {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Label != out[j].Label {
			return out[i].Label < out[j].Label
		}
		return out[i].ID < out[j].ID
	})
	return out
}

// Get looks up one preset by id.
func (s *Store) Get(id string) (schemas.OperationPreset, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.presets[id]
	if !ok {
		return schemas.OperationPreset{}, fmt.Errorf("%w: %q", ErrNotFound, id)
	}
	return p, nil
}

package parser

import (
	"errors"
	"fmt"
	"strings"

	"github.com/parent-node-finder/backend/internal/models"
)

// ErrUnknownMode is returned when no extractor serves a mode.
var ErrUnknownMode = errors.New("unknown mode")

// Extractor turns log text into device records for one report dialect.
type Extractor interface {
	// Name returns the unique name of the extractor.
	Name() string
	// Mode returns the operating mode this extractor serves.
	Mode() models.Mode
	// Extract parses text and returns well-formed records. Malformed
	// lines are dropped, never reported.
	Extract(text string) []models.Record
}

// Registry maps operating modes to their extractors.
type Registry struct {
	extractors []Extractor
}

// Global registry instance
var globalRegistry = NewRegistry()

func NewRegistry() *Registry {
	return &Registry{
		extractors: []Extractor{
			NewLineExtractor(),
			NewTableExtractor(),
		},
	}
}

// GetGlobalRegistry returns the singleton registry.
func GetGlobalRegistry() *Registry {
	return globalRegistry
}

// Register adds an extractor; it takes precedence over earlier ones for
// the same mode.
func (r *Registry) Register(e Extractor) {
	r.extractors = append([]Extractor{e}, r.extractors...)
}

// ForMode returns the extractor serving mode.
func (r *Registry) ForMode(mode models.Mode) (Extractor, error) {
	for _, e := range r.extractors {
		if e.Mode() == mode {
			return e, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrUnknownMode, mode)
}

// Modes lists the modes the registry can serve, without duplicates.
func (r *Registry) Modes() []models.Mode {
	seen := make(map[models.Mode]struct{})
	modes := make([]models.Mode, 0, len(r.extractors))
	for _, e := range r.extractors {
		if _, ok := seen[e.Mode()]; ok {
			continue
		}
		seen[e.Mode()] = struct{}{}
		modes = append(modes, e.Mode())
	}
	return modes
}

// ParseMode resolves a user-supplied mode name. "a"/"b" are accepted as
// aliases for the aggregate and snapshot modes.
func ParseMode(name string) (models.Mode, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "aggregate", "a":
		return models.ModeAggregate, nil
	case "snapshot", "b", "latest":
		return models.ModeSnapshot, nil
	}
	return "", fmt.Errorf("%w: %s", ErrUnknownMode, name)
}

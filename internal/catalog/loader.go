package catalog

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"

	"github.com/skyfield/exotriage/internal/contracts"
	"github.com/skyfield/exotriage/pkg/logger"
)

//go:embed data/catalog.json
var embeddedCatalog []byte

// Loader reads candidate catalogs from JSON.
type Loader struct {
	validate *validator.Validate
	logger   *logger.Logger
}

// NewLoader creates a catalog loader.
func NewLoader(log *logger.Logger) *Loader {
	return &Loader{
		validate: validator.New(),
		logger:   log,
	}
}

// Load reads the catalog from path, or the embedded default catalog when
// path is empty.
func (l *Loader) Load(path string) (*Catalog, error) {
	data := embeddedCatalog
	source := "embedded"
	if path != "" {
		var err error
		data, err = os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read catalog: %w", err)
		}
		source = path
	}

	cat, err := l.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parse catalog %s: %w", source, err)
	}

	l.logger.WithFields(map[string]interface{}{
		"source":     source,
		"candidates": cat.Count(),
	}).Info("Catalog loaded")

	return cat, nil
}

// Parse decodes and validates a JSON catalog document.
func (l *Loader) Parse(data []byte) (*Catalog, error) {
	var records []*contracts.CandidateRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("catalog is empty")
	}

	for i, r := range records {
		if err := l.validate.Struct(r); err != nil {
			return nil, fmt.Errorf("record %d (%q): %w", i, r.Name, err)
		}
	}

	return New(records)
}

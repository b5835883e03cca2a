// Package catalog loads and serves the candidate catalog.
// SSOT: the catalog is read once at startup from a local source (embedded
// default or a file path); no network fetch, no pagination, no mutation.
package catalog

import (
	"fmt"

	"github.com/skyfield/exotriage/internal/contracts"
)

// Catalog is the immutable-at-load set of candidate records.
type Catalog struct {
	records []*contracts.CandidateRecord
	byName  map[string]*contracts.CandidateRecord
}

// New builds a Catalog from records, enforcing unique names.
func New(records []*contracts.CandidateRecord) (*Catalog, error) {
	byName := make(map[string]*contracts.CandidateRecord, len(records))
	for _, r := range records {
		if r.Name == "" {
			return nil, fmt.Errorf("catalog record without a name")
		}
		if _, dup := byName[r.Name]; dup {
			return nil, fmt.Errorf("duplicate candidate name %q", r.Name)
		}
		byName[r.Name] = r
	}
	return &Catalog{records: records, byName: byName}, nil
}

// Records returns the catalog in load order. Callers must not mutate the
// returned records.
func (c *Catalog) Records() []*contracts.CandidateRecord {
	return c.records
}

// Get returns the record for name.
func (c *Catalog) Get(name string) (*contracts.CandidateRecord, bool) {
	r, ok := c.byName[name]
	return r, ok
}

// Count returns the number of candidates.
func (c *Catalog) Count() int {
	return len(c.records)
}

// Names returns all candidate names in load order.
func (c *Catalog) Names() []string {
	names := make([]string, len(c.records))
	for i, r := range c.records {
		names[i] = r.Name
	}
	return names
}

package geobases

import (
	"iter"
	"maps"
)

// Dataset is the read-only view of the loaded records the index works on.
// Get must report absence with ok == false, distinctly from an empty value.
type Dataset interface {
	Keys() iter.Seq[string]
	Get(key, field string) (value string, ok bool)
}

// MemoryDataset is a Dataset held in memory. Keys iterate in insertion
// order, which decides ties in fuzzy matching.
type MemoryDataset struct {
	keys []string
	rows map[string]map[string]string
}

// NewMemoryDataset returns an empty dataset.
func NewMemoryDataset() *MemoryDataset {
	return &MemoryDataset{rows: make(map[string]map[string]string)}
}

// Set stores the fields of key, replacing any previous record. A replaced
// key keeps its original position.
func (d *MemoryDataset) Set(key string, fields map[string]string) {
	if _, exists := d.rows[key]; !exists {
		d.keys = append(d.keys, key)
	}
	d.rows[key] = maps.Clone(fields)
}

// Len returns the number of records.
func (d *MemoryDataset) Len() int { return len(d.keys) }

// Keys yields every key in insertion order.
func (d *MemoryDataset) Keys() iter.Seq[string] {
	return func(yield func(string) bool) {
		for _, k := range d.keys {
			if !yield(k) {
				return
			}
		}
	}
}

// Get returns one field of one record.
func (d *MemoryDataset) Get(key, field string) (string, bool) {
	row, ok := d.rows[key]
	if !ok {
		return "", false
	}
	v, ok := row[field]
	return v, ok
}

package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Record is a named entity with an open set of additional fields.
// It serializes back to the flat JSON object it was loaded from.
type Record struct {
	Name   string
	Fields map[string]any
}

// MarshalJSON flattens Name and Fields into a single object
func (r Record) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, len(r.Fields)+1)
	for k, v := range r.Fields {
		out[k] = v
	}
	out["name"] = r.Name
	return json.Marshal(out)
}

// UnmarshalJSON requires a JSON object with a string "name" field
func (r *Record) UnmarshalJSON(data []byte) error {
	// UseNumber keeps numeric fields byte-identical on the way back out
	decoder := json.NewDecoder(bytes.NewReader(data))
	decoder.UseNumber()

	var raw map[string]any
	if err := decoder.Decode(&raw); err != nil {
		return fmt.Errorf("%w: record is not an object: %v", ErrDataFormat, err)
	}
	if raw == nil {
		return fmt.Errorf("%w: record is null", ErrDataFormat)
	}

	nameValue, ok := raw["name"]
	if !ok {
		return fmt.Errorf("%w: record has no \"name\" field", ErrDataFormat)
	}
	name, ok := nameValue.(string)
	if !ok {
		return fmt.Errorf("%w: \"name\" must be a string, got %T", ErrDataFormat, nameValue)
	}

	delete(raw, "name")
	r.Name = name
	r.Fields = raw
	return nil
}

// Corpus is the read-only set of searchable records.
// names[i] is always records[i].Name.
type Corpus struct {
	records []Record
	names   []string
}

// NewCorpus builds a corpus and its parallel name index
func NewCorpus(records []Record) *Corpus {
	owned := make([]Record, len(records))
	copy(owned, records)

	names := make([]string, len(owned))
	for i, rec := range owned {
		names[i] = rec.Name
	}

	return &Corpus{records: owned, names: names}
}

// Names returns the searchable names in corpus order
func (c *Corpus) Names() []string {
	if c == nil {
		return nil
	}
	return c.names
}

// Records returns the records in corpus order
func (c *Corpus) Records() []Record {
	if c == nil {
		return nil
	}
	return c.records
}

// Len returns the number of records
func (c *Corpus) Len() int {
	if c == nil {
		return 0
	}
	return len(c.records)
}

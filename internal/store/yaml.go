package store

import (
	"errors"
	"fmt"
	"io"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"github.com/LISSConsulting/LISSTech.RXP/internal/history"
)

// Document is the YAML exchange format for units. Pattern is informational
// and ignored on import; the steps are replayed instead.
type Document struct {
	Units []UnitDoc `yaml:"units"`
}

// UnitDoc is one unit in a Document.
type UnitDoc struct {
	ID      string         `yaml:"id,omitempty"`
	Name    string         `yaml:"name"`
	Pattern string         `yaml:"pattern,omitempty"`
	Steps   []history.Wire `yaml:"steps"`
}

// Export writes units to w as a YAML Document.
func Export(w io.Writer, units []history.Unit) error {
	doc := Document{Units: make([]UnitDoc, 0, len(units))}
	for _, u := range units {
		steps, err := encodeAll(u.Instructions())
		if err != nil {
			return err
		}
		doc.Units = append(doc.Units, UnitDoc{
			ID:      u.ID(),
			Name:    u.Name(),
			Pattern: u.Current().String(),
			Steps:   steps,
		})
	}
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("store: encode yaml: %w", err)
	}
	return enc.Close()
}

// Import reads a YAML Document from r and restores each unit through hs.
// Units without an id get a fresh one.
func Import(r io.Reader, hs *history.Store) ([]history.Unit, error) {
	var doc Document
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, fmt.Errorf("store: decode yaml: %w", err)
	}
	out := make([]history.Unit, 0, len(doc.Units))
	for i, d := range doc.Units {
		ins, err := decodeAll(d.Steps)
		if err != nil {
			return nil, fmt.Errorf("store: unit %d (%s): %w", i, d.Name, err)
		}
		id := d.ID
		if id == "" {
			id = uuid.NewString()
		}
		u, err := hs.Restore(id, d.Name, ins)
		if err != nil {
			return nil, fmt.Errorf("store: unit %d (%s): %w", i, d.Name, err)
		}
		out = append(out, u)
	}
	return out, nil
}

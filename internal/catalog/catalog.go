// Package catalog maintains the documented event catalogue: for every event
// name, its fixed argument arity and order, which argument positions are
// sensitive, and the operation the event brackets. The catalogue belongs to
// collaborators; the engine only consults it for optional strict-arity
// validation and for masking recorded arguments.
package catalog

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Event describes one catalogue entry. Args carries one label per argument
// position; its length is the event's fixed arity.
type Event struct {
	Name      string   `yaml:"name"`
	Args      []string `yaml:"args"`
	Sensitive []int    `yaml:"sensitive,omitempty"` // arg positions masked by the recorder
	Brackets  string   `yaml:"brackets,omitempty"`  // the operation the event brackets
}

// Catalog is an ordered, name-indexed set of event entries.
type Catalog struct {
	order  []string
	events map[string]Event
}

type fileFormat struct {
	Events []Event `yaml:"events"`
}

// Default returns a catalogue holding only the engine's own events and the
// runtime call sites every embedding is expected to wire.
func Default() *Catalog {
	c := &Catalog{events: make(map[string]Event)}
	for _, e := range builtinEvents {
		c.add(e)
	}
	return c
}

// Load reads a catalogue from a YAML file and layers it over the defaults:
// entries with known names replace the default definition in place, new
// names are appended in file order. An empty path returns the defaults.
func Load(path string) (*Catalog, error) {
	c := Default()
	if path == "" {
		return c, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("catalog: read %s: %w", path, err)
	}
	var f fileFormat
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("catalog: parse %s: %w", path, err)
	}
	for _, e := range f.Events {
		if e.Name == "" {
			return nil, fmt.Errorf("catalog: %s: entry with empty name", path)
		}
		c.add(e)
	}
	return c, nil
}

func (c *Catalog) add(e Event) {
	if _, ok := c.events[e.Name]; !ok {
		c.order = append(c.order, e.Name)
	}
	c.events[e.Name] = e
}

// Lookup returns the entry for name.
func (c *Catalog) Lookup(name string) (Event, bool) {
	e, ok := c.events[name]
	return e, ok
}

// Events returns all entries in catalogue order.
func (c *Catalog) Events() []Event {
	out := make([]Event, 0, len(c.order))
	for _, name := range c.order {
		out = append(out, c.events[name])
	}
	return out
}

// Len returns the number of entries.
func (c *Catalog) Len() int { return len(c.order) }

// CheckArity validates that an event named name with n arguments matches
// the catalogue. Unknown names and arity mismatches are both errors; this
// backs the engine's strict mode.
func (c *Catalog) CheckArity(name string, n int) error {
	e, ok := c.events[name]
	if !ok {
		return fmt.Errorf("catalog: unknown event %q", name)
	}
	if n != len(e.Args) {
		return fmt.Errorf("catalog: event %q takes %d args, got %d", name, len(e.Args), n)
	}
	return nil
}
